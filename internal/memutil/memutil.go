// Package memutil provides byte-wise fill and copy over raw allocator memory.
//
// The loops are deliberately naive: the payloads they touch live in anonymous
// mappings owned by the allocator, outside any Go-managed object, and the
// allocator's zero-initialization and relocation paths depend on nothing beyond
// plain byte stores.
package memutil

import "unsafe"

// Set fills the n bytes at p with c. A nil p or zero n is a no-op.
func Set(p unsafe.Pointer, c byte, n uintptr) {
	if p == nil || n == 0 {
		return
	}
	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		b[i] = c
	}
}

// Copy copies n bytes from src to dst. The ranges must not overlap; the
// allocator only relocates into freshly carved blocks.
func Copy(dst, src unsafe.Pointer, n uintptr) {
	if dst == nil || src == nil || n == 0 {
		return
	}
	d := unsafe.Slice((*byte)(dst), n)
	s := unsafe.Slice((*byte)(src), n)
	for i := range d {
		d[i] = s[i]
	}
}
