package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/gosharedview/graphics"
	options "github.com/richinsley/gosharedview/options"
)

// Context is a GLFW window and its OpenGL context.
type Context struct {
	window *glfw.Window
	camera *graphics.Camera
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()
}

var _ graphics.Context = (*Context)(nil)

// New creates a window from opts. When share is non-nil the new context
// joins share's object namespace, which is what lets a renderbuffer
// allocated in one be attached in the other.
func New(opts options.Window, swapInterval int, share *Context) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	var shareWindow *glfw.Window
	if share != nil {
		shareWindow = share.window
	}
	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, shareWindow)
	if err != nil {
		return nil, err
	}
	if opts.X != 0 || opts.Y != 0 {
		win.SetPos(opts.X, opts.Y)
	}

	c := &Context{
		window:       win,
		camera:       graphics.NewCamera(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 0, -1}),
		keyCallbacks: make(map[glfw.Key]func()),
	}

	// The swap interval applies to the current context.
	win.MakeContextCurrent()
	glfw.SwapInterval(swapInterval)

	// Set the key callback for the window to be the method on our new context instance.
	win.SetKeyCallback(c.glfwKeyCallback)

	return c, nil
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}

	if action == glfw.Press || action == glfw.Repeat {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

func (c *Context) SwapBuffers() {
	c.window.SwapBuffers()
}

// Shutdown destroys the window and its context.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Camera() *graphics.Camera {
	return c.camera
}

// PollEvents processes pending window events for all windows.
func PollEvents() {
	glfw.PollEvents()
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
