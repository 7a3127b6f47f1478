package rendertarget

import (
	"errors"
	"fmt"
	"log"

	"github.com/richinsley/gosharedview/gpu"
)

var errInvalidSize = errors.New("size must be positive")

// Surface owns the color and depth renderbuffers backing a render target.
// Storage is valid only while both dimensions are positive.
type Surface struct {
	driver gpu.Driver
	color  uint32
	depth  uint32
	width  int
	height int
	// generation increases every time storage is reallocated; attachments
	// made against an older generation are dangling.
	generation uint64
}

// NewSurface returns a surface with no storage. The first Resize allocates.
func NewSurface(driver gpu.Driver) *Surface {
	return &Surface{driver: driver}
}

// Size returns the dimensions of the current storage.
func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

// Valid reports whether the surface currently holds storage.
func (s *Surface) Valid() bool {
	return s.color != 0 && s.width > 0 && s.height > 0
}

// Generation identifies the current storage allocation.
func (s *Surface) Generation() uint64 {
	return s.generation
}

// Resize reallocates storage at width x height. It is a no-op when the
// surface already holds storage of that size. Any framebuffer attaching the
// previous storage is left dangling and must be rebuilt by its owner.
//
// Sizes that are non-positive or beyond the device limit fail without
// touching existing storage. A driver failure leaves the surface empty.
func (s *Surface) Resize(width, height int) error {
	if s.Valid() && width == s.width && height == s.height {
		return nil
	}
	if width <= 0 || height <= 0 {
		return &AllocationError{Width: width, Height: height, Err: errInvalidSize}
	}
	if limit := s.driver.MaxRenderbufferSize(); limit > 0 && (width > limit || height > limit) {
		return &AllocationError{Width: width, Height: height,
			Err: fmt.Errorf("exceeds device limit of %d", limit)}
	}

	s.Release()

	color, err := s.driver.NewRenderbuffer(gpu.ColorRGBA8, width, height)
	if err != nil {
		return &AllocationError{Width: width, Height: height, Err: err}
	}
	depth, err := s.driver.NewRenderbuffer(gpu.Depth24, width, height)
	if err != nil {
		s.driver.DeleteRenderbuffer(color)
		return &AllocationError{Width: width, Height: height, Err: err}
	}

	s.color, s.depth = color, depth
	s.width, s.height = width, height
	s.generation++
	log.Printf("Render surface allocated at %dx%d", width, height)
	return nil
}

// Release frees the storage, leaving the surface empty.
func (s *Surface) Release() {
	if s.color != 0 {
		s.driver.DeleteRenderbuffer(s.color)
	}
	if s.depth != 0 {
		s.driver.DeleteRenderbuffer(s.depth)
	}
	if s.color != 0 || s.depth != 0 {
		s.generation++
	}
	s.color, s.depth = 0, 0
	s.width, s.height = 0, 0
}
