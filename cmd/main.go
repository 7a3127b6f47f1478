package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/gosharedview/glfwcontext"
	"github.com/richinsley/gosharedview/gpu"
	"github.com/richinsley/gosharedview/graphics"
	options "github.com/richinsley/gosharedview/options"
	renderer "github.com/richinsley/gosharedview/renderer"
)

func init() {
	runtime.LockOSThread()
}

// bindCameraKeys pans the host camera with the arrow keys and the
// presentation camera with WASD.
func bindCameraKeys(win *glfwcontext.Context, host, presentation *graphics.Camera) {
	const step = 0.1
	pan := func(cam *graphics.Camera, dx, dy float32) func() {
		return func() { cam.Pan(dx, dy) }
	}
	win.RegisterKeyCallback(glfw.KeyLeft, pan(host, -step, 0))
	win.RegisterKeyCallback(glfw.KeyRight, pan(host, step, 0))
	win.RegisterKeyCallback(glfw.KeyUp, pan(host, 0, step))
	win.RegisterKeyCallback(glfw.KeyDown, pan(host, 0, -step))
	if presentation != nil {
		win.RegisterKeyCallback(glfw.KeyA, pan(presentation, -step, 0))
		win.RegisterKeyCallback(glfw.KeyD, pan(presentation, step, 0))
		win.RegisterKeyCallback(glfw.KeyW, pan(presentation, 0, step))
		win.RegisterKeyCallback(glfw.KeyS, pan(presentation, 0, -step))
	}
}

func run(opts *options.Options) error {
	host, err := glfwcontext.New(opts.Host, opts.SwapInterval, nil)
	if err != nil {
		return err
	}

	// Function pointers are loaded with the host context current.
	host.MakeCurrent()
	driver, err := gpu.NewGL()
	if err != nil {
		host.Shutdown()
		return err
	}

	var presentation graphics.Context
	var presentationCamera *graphics.Camera
	if pw := opts.Presentation; pw != nil {
		p, err := glfwcontext.New(*pw, opts.SwapInterval, host)
		if err != nil {
			host.Shutdown()
			return err
		}
		presentationCamera = p.Camera()
		presentationCamera.Position = presentationCamera.Position.Add(presentationCamera.Front.Mul(-2))
		presentation = p
	}

	ctrl, err := renderer.NewController(driver, newMarkerScene(driver), host, presentation)
	if err != nil {
		if presentation != nil {
			presentation.Shutdown()
		}
		host.Shutdown()
		return err
	}
	defer ctrl.Shutdown()
	c := opts.ClearColor
	ctrl.SetClearColor(c[0], c[1], c[2], c[3])
	bindCameraKeys(host, host.Camera(), presentationCamera)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Println("Starting render loop...")
	return ctrl.Run(ctx, glfwcontext.PollEvents)
}

func main() {
	opts, err := options.Parse(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		log.Fatalf("Failed to initialize GLFW: %v", err)
	}
	defer glfwcontext.TerminateGraphics()

	if err := run(opts); err != nil {
		log.Printf("Render loop failed: %v", err)
		glfwcontext.TerminateGraphics()
		os.Exit(1)
	}
}
