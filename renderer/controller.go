package renderer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/richinsley/gosharedview/gpu"
	"github.com/richinsley/gosharedview/graphics"
	"github.com/richinsley/gosharedview/rendertarget"
)

// Controller renders one scene to a host window and, optionally, a
// presentation window. The host context draws every view: the presentation
// camera's view goes into the shared render target and is then blitted into
// the presentation window from the presentation context.
type Controller struct {
	driver       gpu.Driver
	scene        graphics.Scene
	host         graphics.Context
	presentation graphics.Context
	target       *rendertarget.SharedTarget
	clearColor   [4]float32
	frameCount   uint64
}

// NewController takes ownership of host and, when non-nil, presentation.
// presentation must share an object namespace with host. The shared target
// is sized to the presentation framebuffer, or to the host's in
// single-window mode, and is at least 1x1. On error the caller keeps
// ownership of the windows.
func NewController(driver gpu.Driver, scene graphics.Scene, host, presentation graphics.Context) (*Controller, error) {
	if host == nil {
		return nil, errors.New("host context is required")
	}
	c := &Controller{
		driver:       driver,
		scene:        scene,
		host:         host,
		presentation: presentation,
	}

	width, height := host.GetFramebufferSize()
	if presentation != nil {
		width, height = presentation.GetFramebufferSize()
	}
	// A window created minimised reports a zero framebuffer. The presentation
	// phase resizes the target once it has an area.
	width, height = max(width, 1), max(height, 1)
	var err error
	c.target, err = rendertarget.New(driver, width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared render target: %w", err)
	}

	if err := c.target.AddContext(host, rendertarget.Write); err != nil {
		c.target.Release()
		return nil, fmt.Errorf("failed to bind host context: %w", err)
	}
	if presentation != nil {
		if err := c.target.AddContext(presentation, rendertarget.Read); err != nil {
			c.target.Release()
			return nil, fmt.Errorf("failed to bind presentation context: %w", err)
		}
		log.Printf("Dual-window mode, shared target %dx%d", width, height)
	} else {
		log.Printf("Single-window mode")
	}
	return c, nil
}

// SetClearColor sets the color both views are cleared to before rendering.
func (c *Controller) SetClearColor(r, g, b, a float32) {
	c.clearColor = [4]float32{r, g, b, a}
}

// Target returns the shared render target.
func (c *Controller) Target() *rendertarget.SharedTarget {
	return c.target
}

// HasPresentation reports whether a presentation window is attached.
func (c *Controller) HasPresentation() bool {
	return c.presentation != nil
}

// FrameCount returns the number of frames rendered so far.
func (c *Controller) FrameCount() uint64 {
	return c.frameCount
}

// RenderFrame runs the host phase and then, when a presentation window is
// attached, the presentation phase.
func (c *Controller) RenderFrame() error {
	c.renderHost()
	if c.presentation != nil {
		if err := c.renderPresentation(); err != nil {
			return err
		}
	}
	c.frameCount++
	return nil
}

// renderHost draws the host camera straight into the host window.
func (c *Controller) renderHost() {
	c.host.MakeCurrent()
	c.driver.BindDrawFramebuffer(gpu.DefaultFramebuffer)
	w, h := c.host.GetFramebufferSize()
	c.driver.Viewport(0, 0, w, h)
	c.clear()
	c.scene.Render(c.host.Camera())
	c.host.SwapBuffers()
}

// renderPresentation draws the presentation camera through the host's
// binding and blits the result into the presentation window.
func (c *Controller) renderPresentation() error {
	w, h := c.presentation.GetFramebufferSize()
	if w <= 0 || h <= 0 {
		// Minimised.
		return nil
	}
	if err := c.target.Resize(w, h); err != nil {
		return fmt.Errorf("failed to resize shared target to %dx%d: %w", w, h, err)
	}

	if err := c.target.ActivateForDrawing(c.host); err != nil {
		return fmt.Errorf("failed to activate shared target: %w", err)
	}
	c.clear()
	c.scene.Render(c.presentation.Camera())
	c.driver.Finish()

	if err := c.target.PresentTo(c.presentation, gpu.DefaultFramebuffer); err != nil {
		return fmt.Errorf("failed to present shared target: %w", err)
	}
	c.presentation.SwapBuffers()
	return nil
}

func (c *Controller) clear() {
	c.driver.Clear(c.clearColor[0], c.clearColor[1], c.clearColor[2], c.clearColor[3])
}

// ClosePresentation detaches the presentation window, destroys it and
// continues in single-window mode.
func (c *Controller) ClosePresentation() error {
	if c.presentation == nil {
		return nil
	}
	if err := c.target.RemoveContext(c.presentation); err != nil {
		return err
	}
	c.presentation.Shutdown()
	c.presentation = nil
	log.Println("Presentation window closed, continuing in single-window mode")
	return nil
}

// Run renders frames until the host window asks to close, ctx is done or a
// frame fails. pollEvents, when non-nil, is called once per frame.
func (c *Controller) Run(ctx context.Context, pollEvents func()) error {
	for !c.host.ShouldClose() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if pollEvents != nil {
			pollEvents()
		}
		if c.presentation != nil && c.presentation.ShouldClose() {
			if err := c.ClosePresentation(); err != nil {
				return err
			}
		}
		if err := c.RenderFrame(); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown releases the shared target and then destroys the windows in
// reverse order of creation.
func (c *Controller) Shutdown() {
	c.target.Release()
	if c.presentation != nil {
		c.presentation.Shutdown()
		c.presentation = nil
	}
	c.host.Shutdown()
	log.Printf("Controller shut down after %d frame(s)", c.frameCount)
}
