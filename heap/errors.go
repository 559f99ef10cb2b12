package heap

import "errors"

// The data-path operations report failure solely by returning nil; these
// sentinels classify those failures for tools and embedders that need an
// error value to wrap or match against.
var (
	// ErrNoSpace indicates that no free block large enough was found and
	// expanding the heap failed.
	ErrNoSpace = errors.New("heap: no free block large enough")

	// ErrBadRequest indicates a request the allocator refuses outright: a zero
	// size, a zero factor, or a size that cannot be represented.
	ErrBadRequest = errors.New("heap: zero-sized or unrepresentable request")
)
