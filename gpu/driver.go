// Package gpu is the thin slice of the OpenGL API that shared render targets
// are built on. Every call acts on whichever context is current on the
// calling thread.
package gpu

import "image"

// DefaultFramebuffer is the window-system provided framebuffer of the
// current context.
const DefaultFramebuffer uint32 = 0

// Format selects the internal format of a renderbuffer.
type Format int

const (
	ColorRGBA8 Format = iota
	Depth24
)

func (f Format) String() string {
	switch f {
	case ColorRGBA8:
		return "RGBA8"
	case Depth24:
		return "DEPTH24"
	default:
		return "unknown"
	}
}

// Driver issues GL commands into the current context.
//
// Renderbuffers live in the object namespace shared by all contexts created
// with a share relationship. Framebuffer objects do not: they belong to the
// context that was current when NewFramebuffer was called.
type Driver interface {
	// MaxRenderbufferSize reports GL_MAX_RENDERBUFFER_SIZE.
	MaxRenderbufferSize() int
	NewRenderbuffer(format Format, width, height int) (uint32, error)
	DeleteRenderbuffer(id uint32)

	// NewFramebuffer creates a framebuffer object with color attached to
	// COLOR_ATTACHMENT0 and, when non-zero, depth attached to
	// DEPTH_ATTACHMENT. It fails if the result is not complete.
	NewFramebuffer(color, depth uint32) (uint32, error)
	DeleteFramebuffer(id uint32)

	BindDrawFramebuffer(id uint32)
	Viewport(x, y, width, height int)
	// CurrentViewport reports the viewport last set in the current context.
	CurrentViewport() image.Rectangle
	Clear(r, g, b, a float32)
	// FillRect clears rect of the bound draw framebuffer to a solid color.
	FillRect(rect image.Rectangle, r, g, b, a float32)

	// Blit copies the color buffer of src into dst with nearest filtering.
	Blit(src, dst uint32, srcRect, dstRect image.Rectangle)
	// Finish blocks until pending commands have completed, so that another
	// context sharing the same objects observes their results.
	Finish()
}
