// Package gputest provides a recording gpu.Driver and window contexts for
// exercising render code without a GPU.
package gputest

import (
	"fmt"
	"image"

	"github.com/richinsley/gosharedview/gpu"
	"github.com/richinsley/gosharedview/graphics"
)

// Call is one recorded driver command together with the context that was
// current when it was issued.
type Call struct {
	Op      string
	Context *Context
	Args    []any
}

type framebuffer struct {
	owner        *Context
	color, depth uint32
}

// Driver records every call it receives. Renderbuffers are shared by all
// contexts while framebuffers belong to the context they were created in,
// mirroring GL share-group semantics.
type Driver struct {
	MaxSize int
	// FailAlloc makes the next NewRenderbuffer calls fail while true.
	FailAlloc bool

	Calls   []Call
	Current *Context
	// Errors lists misuse the driver detected, such as touching a
	// framebuffer object from a context that does not own it. Each one is
	// also recorded as an "Error" call.
	Errors []string

	nextID        uint32
	renderbuffers map[uint32]image.Point
	framebuffers  map[uint32]framebuffer
	viewports     map[*Context]image.Rectangle
}

func NewDriver() *Driver {
	return &Driver{
		MaxSize:       16384,
		renderbuffers: make(map[uint32]image.Point),
		framebuffers:  make(map[uint32]framebuffer),
		viewports:     make(map[*Context]image.Rectangle),
	}
}

func (d *Driver) record(op string, args ...any) {
	d.Calls = append(d.Calls, Call{Op: op, Context: d.Current, Args: args})
}

func (d *Driver) fail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	d.Errors = append(d.Errors, msg)
	d.record("Error", msg)
}

// checkOwned flags use of a framebuffer object outside the context that
// created it. The default framebuffer is always usable.
func (d *Driver) checkOwned(op string, fbo uint32) {
	if fbo == gpu.DefaultFramebuffer {
		return
	}
	fb, ok := d.framebuffers[fbo]
	switch {
	case !ok:
		d.fail("%s: framebuffer %d does not exist", op, fbo)
	case fb.owner != d.Current:
		d.fail("%s: framebuffer %d belongs to %v, current context is %v", op, fbo, fb.owner, d.Current)
	}
}

// Ops returns the names of the recorded calls, optionally filtered.
func (d *Driver) Ops(only ...string) []string {
	keep := make(map[string]bool, len(only))
	for _, op := range only {
		keep[op] = true
	}
	var ops []string
	for _, c := range d.Calls {
		if len(only) == 0 || keep[c.Op] {
			ops = append(ops, c.Op)
		}
	}
	return ops
}

// CallsOf returns the recorded calls named op.
func (d *Driver) CallsOf(op string) []Call {
	var calls []Call
	for _, c := range d.Calls {
		if c.Op == op {
			calls = append(calls, c)
		}
	}
	return calls
}

func (d *Driver) Reset() {
	d.Calls = nil
}

// LiveRenderbuffers reports how many renderbuffers have not been deleted.
func (d *Driver) LiveRenderbuffers() int { return len(d.renderbuffers) }

// LiveFramebuffers reports how many framebuffer objects have not been deleted.
func (d *Driver) LiveFramebuffers() int { return len(d.framebuffers) }

// Attachment returns the color renderbuffer attached to fbo.
func (d *Driver) Attachment(fbo uint32) (uint32, bool) {
	fb, ok := d.framebuffers[fbo]
	return fb.color, ok
}

// Owner returns the context fbo was created in.
func (d *Driver) Owner(fbo uint32) *Context {
	return d.framebuffers[fbo].owner
}

func (d *Driver) MaxRenderbufferSize() int { return d.MaxSize }

func (d *Driver) NewRenderbuffer(format gpu.Format, width, height int) (uint32, error) {
	d.record("NewRenderbuffer", format, width, height)
	if d.FailAlloc {
		return 0, fmt.Errorf("out of memory")
	}
	d.nextID++
	d.renderbuffers[d.nextID] = image.Pt(width, height)
	return d.nextID, nil
}

func (d *Driver) DeleteRenderbuffer(id uint32) {
	d.record("DeleteRenderbuffer", id)
	delete(d.renderbuffers, id)
}

func (d *Driver) NewFramebuffer(color, depth uint32) (uint32, error) {
	d.record("NewFramebuffer", color, depth)
	if d.Current == nil {
		return 0, fmt.Errorf("no current context")
	}
	if _, ok := d.renderbuffers[color]; !ok {
		return 0, fmt.Errorf("renderbuffer %d does not exist", color)
	}
	d.nextID++
	d.framebuffers[d.nextID] = framebuffer{owner: d.Current, color: color, depth: depth}
	return d.nextID, nil
}

func (d *Driver) DeleteFramebuffer(id uint32) {
	d.record("DeleteFramebuffer", id)
	d.checkOwned("DeleteFramebuffer", id)
	delete(d.framebuffers, id)
}

func (d *Driver) BindDrawFramebuffer(id uint32) {
	d.record("BindDrawFramebuffer", id)
	d.checkOwned("BindDrawFramebuffer", id)
}

func (d *Driver) Viewport(x, y, width, height int) {
	rect := image.Rect(x, y, x+width, y+height)
	d.record("Viewport", rect)
	d.viewports[d.Current] = rect
}

// CurrentViewport returns the last viewport set in the current context.
func (d *Driver) CurrentViewport() image.Rectangle {
	return d.viewports[d.Current]
}

func (d *Driver) Clear(r, g, b, a float32) { d.record("Clear", [4]float32{r, g, b, a}) }

func (d *Driver) FillRect(rect image.Rectangle, r, g, b, a float32) {
	d.record("FillRect", rect, [4]float32{r, g, b, a})
}

func (d *Driver) Blit(src, dst uint32, srcRect, dstRect image.Rectangle) {
	d.record("Blit", src, dst, srcRect, dstRect)
	d.checkOwned("Blit source", src)
	d.checkOwned("Blit destination", dst)
}

func (d *Driver) Finish() { d.record("Finish") }

// Context is a fake window. MakeCurrent switches the driver's current
// context; operations on the window itself are recorded on the driver too.
type Context struct {
	Name          string
	Width, Height int
	Closing       bool
	Closed        bool

	driver *Driver
	camera *graphics.Camera
}

var _ graphics.Context = (*Context)(nil)

func NewContext(d *Driver, name string, width, height int) *Context {
	return &Context{Name: name, Width: width, Height: height, driver: d, camera: &graphics.Camera{}}
}

func (c *Context) MakeCurrent() {
	c.driver.Current = c
	c.driver.record("MakeCurrent", c.Name)
}

func (c *Context) SwapBuffers() { c.driver.record("SwapBuffers", c.Name) }

func (c *Context) Shutdown() {
	c.Closed = true
	if c.driver.Current == c {
		c.driver.Current = nil
	}
	c.driver.record("Shutdown", c.Name)
}

func (c *Context) ShouldClose() bool              { return c.Closing }
func (c *Context) GetFramebufferSize() (int, int) { return c.Width, c.Height }
func (c *Context) Camera() *graphics.Camera       { return c.camera }

func (c *Context) String() string { return c.Name }

// Scene records the cameras it is rendered with and the context that was
// current at the time.
type Scene struct {
	driver   *Driver
	Cameras  []*graphics.Camera
	Contexts []*Context
}

func NewScene(d *Driver) *Scene { return &Scene{driver: d} }

func (s *Scene) Render(camera *graphics.Camera) {
	s.Cameras = append(s.Cameras, camera)
	s.Contexts = append(s.Contexts, s.driver.Current)
	s.driver.record("Render")
}
