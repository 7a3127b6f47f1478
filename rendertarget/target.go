// Package rendertarget shares one set of GPU color/depth storage between
// several OpenGL contexts.
//
// Renderbuffer storage can be shared between contexts in the same share
// group, framebuffer objects cannot. A SharedTarget therefore owns a single
// Surface and keeps one framebuffer object per registered context, each
// attaching that surface. Every operation names the context it acts in and
// makes it current itself, so correctness does not depend on which context
// the caller left current.
package rendertarget

import (
	"fmt"
	"image"
	"log"

	"github.com/richinsley/gosharedview/gpu"
	"github.com/richinsley/gosharedview/graphics"
)

// Usage declares how a context may access the shared storage.
type Usage uint8

const (
	// Read bindings are blit sources.
	Read Usage = 1 << iota
	// Write bindings are draw targets.
	Write
	ReadWrite = Read | Write
)

func (u Usage) String() string {
	switch u {
	case Read:
		return "read"
	case Write:
		return "write"
	case ReadWrite:
		return "read-write"
	default:
		return fmt.Sprintf("Usage(%d)", uint8(u))
	}
}

// binding is a context-local framebuffer object attaching the surface.
type binding struct {
	framebuffer uint32
	usage       Usage
	generation  uint64
}

// SharedTarget is a render target whose storage is visible from every
// registered context. It is not safe for concurrent use; GL contexts are
// driven from a single locked OS thread.
type SharedTarget struct {
	driver   gpu.Driver
	surface  Surface
	bindings map[graphics.Context]*binding
	// err holds the last allocation failure until a Resize succeeds.
	err error
}

// New allocates a width x height shared target with no bindings.
func New(driver gpu.Driver, width, height int) (*SharedTarget, error) {
	t := &SharedTarget{
		driver:   driver,
		surface:  Surface{driver: driver},
		bindings: make(map[graphics.Context]*binding),
	}
	if err := t.surface.Resize(width, height); err != nil {
		return nil, err
	}
	return t, nil
}

// Size returns the dimensions of the shared storage.
func (t *SharedTarget) Size() (int, int) {
	return t.surface.Size()
}

// Bounds returns the shared storage as a rectangle anchored at the origin.
func (t *SharedTarget) Bounds() image.Rectangle {
	w, h := t.surface.Size()
	return image.Rect(0, 0, w, h)
}

// Err returns the allocation failure that made the target unusable, or nil.
func (t *SharedTarget) Err() error {
	return t.err
}

// Bound reports whether ctx has a binding.
func (t *SharedTarget) Bound(ctx graphics.Context) bool {
	_, ok := t.bindings[ctx]
	return ok
}

// Len returns the number of bound contexts.
func (t *SharedTarget) Len() int {
	return len(t.bindings)
}

// AddContext creates a framebuffer object in ctx attaching the shared
// storage. ctx is made current.
func (t *SharedTarget) AddContext(ctx graphics.Context, usage Usage) error {
	if t.err != nil {
		return t.err
	}
	if _, ok := t.bindings[ctx]; ok {
		return ErrDuplicateBinding
	}
	if usage&ReadWrite == 0 {
		return fmt.Errorf("%w: %v", ErrBindingUsage, usage)
	}

	ctx.MakeCurrent()
	fbo, err := t.driver.NewFramebuffer(t.surface.color, t.surface.depth)
	if err != nil {
		return fmt.Errorf("failed to bind render target: %w", err)
	}
	t.bindings[ctx] = &binding{
		framebuffer: fbo,
		usage:       usage,
		generation:  t.surface.Generation(),
	}
	log.Printf("Render target bound for %s access (%d context(s))", usage, len(t.bindings))
	return nil
}

// RemoveContext destroys the framebuffer object ctx holds. ctx is made
// current.
func (t *SharedTarget) RemoveContext(ctx graphics.Context) error {
	b, ok := t.bindings[ctx]
	if !ok {
		return ErrUnknownContext
	}
	ctx.MakeCurrent()
	if b.framebuffer != 0 {
		t.driver.DeleteFramebuffer(b.framebuffer)
	}
	delete(t.bindings, ctx)
	log.Printf("Render target unbound (%d context(s) remain)", len(t.bindings))
	return nil
}

// lookup returns the binding for ctx if it permits need and attaches the
// current storage. It has no side effects.
func (t *SharedTarget) lookup(ctx graphics.Context, need Usage) (*binding, error) {
	b, ok := t.bindings[ctx]
	if !ok {
		return nil, ErrUnknownContext
	}
	if t.err != nil {
		return nil, t.err
	}
	if b.usage&need != need {
		return nil, fmt.Errorf("%w: %s binding used for %s", ErrBindingUsage, b.usage, need)
	}
	if b.framebuffer == 0 || b.generation != t.surface.Generation() {
		return nil, ErrStaleBinding
	}
	return b, nil
}

// ActivateForDrawing makes ctx current, binds its framebuffer as the draw
// target and sets the viewport to the storage size.
func (t *SharedTarget) ActivateForDrawing(ctx graphics.Context) error {
	b, err := t.lookup(ctx, Write)
	if err != nil {
		return err
	}
	ctx.MakeCurrent()
	t.driver.BindDrawFramebuffer(b.framebuffer)
	w, h := t.surface.Size()
	t.driver.Viewport(0, 0, w, h)
	return nil
}

// PresentTo makes src current and copies the whole shared storage, unscaled,
// into dst, a framebuffer of src's context. gpu.DefaultFramebuffer is src's
// window.
func (t *SharedTarget) PresentTo(src graphics.Context, dst uint32) error {
	return t.PresentRegion(src, dst, t.Bounds())
}

// PresentRegion copies region of the shared storage into dst with the
// region's minimum corner placed at dst's origin.
func (t *SharedTarget) PresentRegion(src graphics.Context, dst uint32, region image.Rectangle) error {
	b, err := t.lookup(src, Read)
	if err != nil {
		return err
	}
	bounds := t.Bounds()
	if region.Empty() || !region.In(bounds) {
		return fmt.Errorf("present region %v outside render target %v", region, bounds)
	}

	src.MakeCurrent()
	t.driver.Viewport(0, 0, region.Dx(), region.Dy())
	t.driver.Blit(b.framebuffer, dst, region, region.Sub(region.Min))
	return nil
}

// Resize reallocates the shared storage and rebuilds every binding against
// it, each in its own context. Resizing to the current size is a no-op.
//
// An allocation failure leaves the target unusable until a later Resize
// succeeds; operations other than Resize and Release return the failure.
func (t *SharedTarget) Resize(width, height int) error {
	if t.err == nil && t.surface.Valid() {
		if w, h := t.surface.Size(); w == width && h == height {
			return nil
		}
	}
	if err := t.surface.Resize(width, height); err != nil {
		t.err = err
		log.Printf("Render target unusable: %v", err)
		return err
	}
	t.err = nil

	for ctx := range t.bindings {
		if err := t.Rebind(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Rebind replaces ctx's framebuffer object with one attaching the current
// storage.
func (t *SharedTarget) Rebind(ctx graphics.Context) error {
	b, ok := t.bindings[ctx]
	if !ok {
		return ErrUnknownContext
	}
	if t.err != nil {
		return t.err
	}

	ctx.MakeCurrent()
	if b.framebuffer != 0 {
		t.driver.DeleteFramebuffer(b.framebuffer)
		b.framebuffer = 0
	}
	fbo, err := t.driver.NewFramebuffer(t.surface.color, t.surface.depth)
	if err != nil {
		return fmt.Errorf("failed to rebind render target: %w", err)
	}
	b.framebuffer = fbo
	b.generation = t.surface.Generation()
	return nil
}

// Release destroys every binding, each in its own context, and then the
// storage. It must run before any bound context is destroyed.
func (t *SharedTarget) Release() {
	for ctx, b := range t.bindings {
		ctx.MakeCurrent()
		if b.framebuffer != 0 {
			t.driver.DeleteFramebuffer(b.framebuffer)
		}
		delete(t.bindings, ctx)
	}
	t.surface.Release()
	log.Println("Render target released")
}
