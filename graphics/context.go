package graphics

// Context defines the interface for a window-backed OpenGL context.
//
// Implementations are used as map keys by the render target, so they must
// be comparable; pointer receivers are the norm.
type Context interface {
	// MakeCurrent makes the context current on the calling thread, implicitly
	// releasing whichever context was current before.
	MakeCurrent()
	SwapBuffers()
	Shutdown()
	ShouldClose() bool
	GetFramebufferSize() (int, int)
	// Camera returns the camera the scene is rendered with for this window.
	Camera() *Camera
}

// Scene draws into whatever framebuffer is bound in the current context.
type Scene interface {
	Render(camera *Camera)
}
