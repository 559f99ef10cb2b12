//go:build !unix

// Package mman provides anonymous private memory mappings for the allocator.
package mman

import "errors"

// ErrUnsupported is returned on platforms without anonymous mmap support.
var ErrUnsupported = errors.New("mman: not supported on this platform")

// Map is unavailable without mmap support; the allocator fails its first request.
func Map(n uintptr) []byte {
	return nil
}

// Unmap has nothing to release on platforms without mmap support.
func Unmap(data []byte) error {
	return ErrUnsupported
}
