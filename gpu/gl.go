package gpu

import (
	"fmt"
	"image"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Ensures gl.Init() is called only once.
var glInitOnce sync.Once

// GL implements Driver on top of the go-gl 4.1 core bindings.
type GL struct {
	maxRenderbufferSize int
}

// NewGL loads the OpenGL function pointers. A context must be current on
// the calling thread.
func NewGL() (*GL, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	var maxSize int32
	gl.GetIntegerv(gl.MAX_RENDERBUFFER_SIZE, &maxSize)
	return &GL{maxRenderbufferSize: int(maxSize)}, nil
}

func (d *GL) MaxRenderbufferSize() int {
	return d.maxRenderbufferSize
}

func internalFormat(format Format) (uint32, error) {
	switch format {
	case ColorRGBA8:
		return gl.RGBA8, nil
	case Depth24:
		return gl.DEPTH_COMPONENT24, nil
	default:
		return 0, fmt.Errorf("unsupported renderbuffer format %d", format)
	}
}

// drainErrors discards errors left behind by earlier calls so the next
// check only sees our own.
func drainErrors() {
	for gl.GetError() != gl.NO_ERROR {
	}
}

func (d *GL) NewRenderbuffer(format Format, width, height int) (uint32, error) {
	internal, err := internalFormat(format)
	if err != nil {
		return 0, err
	}

	drainErrors()
	var id uint32
	gl.GenRenderbuffers(1, &id)
	gl.BindRenderbuffer(gl.RENDERBUFFER, id)
	gl.RenderbufferStorage(gl.RENDERBUFFER, internal, int32(width), int32(height))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteRenderbuffers(1, &id)
		return 0, fmt.Errorf("glRenderbufferStorage(%s, %dx%d) failed: 0x%X", format, width, height, code)
	}
	return id, nil
}

func (d *GL) DeleteRenderbuffer(id uint32) {
	gl.DeleteRenderbuffers(1, &id)
}

func (d *GL) NewFramebuffer(color, depth uint32) (uint32, error) {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, color)
	if depth != 0 {
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, depth)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		return 0, fmt.Errorf("framebuffer incomplete: status 0x%X", status)
	}
	return fbo, nil
}

func (d *GL) DeleteFramebuffer(id uint32) {
	gl.DeleteFramebuffers(1, &id)
}

func (d *GL) BindDrawFramebuffer(id uint32) {
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, id)
}

func (d *GL) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *GL) CurrentViewport() image.Rectangle {
	var vp [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &vp[0])
	return image.Rect(int(vp[0]), int(vp[1]), int(vp[0]+vp[2]), int(vp[1]+vp[3]))
}

func (d *GL) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *GL) FillRect(rect image.Rectangle, r, g, b, a float32) {
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(rect.Min.X), int32(rect.Min.Y), int32(rect.Dx()), int32(rect.Dy()))
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Disable(gl.SCISSOR_TEST)
}

func (d *GL) Blit(src, dst uint32, srcRect, dstRect image.Rectangle) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, src)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, dst)
	gl.BlitFramebuffer(
		int32(srcRect.Min.X), int32(srcRect.Min.Y), int32(srcRect.Max.X), int32(srcRect.Max.Y),
		int32(dstRect.Min.X), int32(dstRect.Min.Y), int32(dstRect.Max.X), int32(dstRect.Max.Y),
		gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
}

// Finish blocks until the context has finished all submitted work. Sharing
// contexts only see renderbuffer contents once the writer has finished.
func (d *GL) Finish() {
	gl.Finish()
}
