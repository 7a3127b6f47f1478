package rendertarget

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateBinding is returned when a context is registered twice.
	ErrDuplicateBinding = errors.New("context already bound to render target")
	// ErrUnknownContext is returned for contexts that have no binding.
	ErrUnknownContext = errors.New("context not bound to render target")
	// ErrStaleBinding is returned when a binding still attaches storage
	// that has since been reallocated.
	ErrStaleBinding = errors.New("binding references released storage")
	// ErrBindingUsage is returned when a binding is used for an access its
	// Usage does not permit.
	ErrBindingUsage = errors.New("binding usage does not permit access")
)

// AllocationError reports that surface storage could not be allocated.
// A render target that returned one stays unusable until a later Resize
// succeeds.
type AllocationError struct {
	Width, Height int
	Err           error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("failed to allocate %dx%d render surface: %v", e.Width, e.Height, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}
