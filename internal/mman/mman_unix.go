//go:build unix

package mman

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Map returns an anonymous private read-write mapping of exactly n bytes, or nil
// when n is zero or the kernel refuses. The mapping carries no file backing: fd -1,
// offset 0, null address hint.
func Map(n uintptr) []byte {
	if n == 0 {
		return nil
	}
	data, err := unix.Mmap(-1, 0, int(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil
	}
	return data
}

// ErrEmptyMapping is returned when unmapping an empty or nil slice.
var ErrEmptyMapping = errors.New("mman: cannot unmap empty mapping")

// Unmap releases a mapping previously returned by Map. Double-unmap surfaces
// as EINVAL and is reported to the caller; teardown paths are free to ignore
// it.
func Unmap(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyMapping
	}
	return unix.Munmap(data)
}
