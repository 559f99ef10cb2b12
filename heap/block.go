package heap

import "unsafe"

// blockHead sits at the start of every block. size counts the whole block,
// header included. data is a self-pointer to the first payload byte, retained
// for the user-pointer <-> header conversion. next and prev carry the free list
// and are meaningful only while the block is free; the allocator never inspects
// the links of a live block.
type blockHead struct {
	size uintptr
	data unsafe.Pointer
	next *blockHead
	prev *blockHead
}

const (
	// blockHeadSize is the fixed per-block header overhead.
	blockHeadSize = unsafe.Sizeof(blockHead{})

	// minBlockSize is the smallest legal block: a header plus one payload byte.
	// Splitting refuses to create fragments below this.
	minBlockSize = blockHeadSize + 1

	// wordSize keeps block sizes word-aligned so every header lands on a
	// naturally aligned address.
	wordSize = unsafe.Sizeof(uintptr(0))
)

// alignUp rounds n up to the next word multiple. ok is false on overflow.
func alignUp(n uintptr) (uintptr, bool) {
	if n > ^uintptr(0)-(wordSize-1) {
		return 0, false
	}
	return (n + wordSize - 1) &^ (wordSize - 1), true
}

// placeBlock writes a fresh header at base and returns it.
func placeBlock(base unsafe.Pointer, size uintptr) *blockHead {
	b := (*blockHead)(base)
	b.size = size
	b.data = unsafe.Add(base, blockHeadSize)
	b.next = nil
	b.prev = nil
	return b
}

// headerOf converts a user pointer back to its block header.
func headerOf(p unsafe.Pointer) *blockHead {
	return (*blockHead)(unsafe.Add(p, -int(blockHeadSize)))
}

// base is the block's first address; end is the first address past it.
func (b *blockHead) base() uintptr { return uintptr(unsafe.Pointer(b)) }

func (b *blockHead) end() uintptr { return b.base() + b.size }
