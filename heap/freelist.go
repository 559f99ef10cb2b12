package heap

import "unsafe"

// findFit returns the first free block whose size covers n (first-fit in
// address order), expanding the heap when the scan misses. n includes the
// header. Returns nil only when expansion fails.
func (h *Heap) findFit(n uintptr) *blockHead {
	for b := h.freeHead; b != nil; b = b.next {
		if b.size >= n {
			return b
		}
	}
	return h.expand(n)
}

// insertFree splices b into the address-ordered free list and coalesces. The
// empty-list and before-head cases are handled explicitly; otherwise the walk
// continues to the first successor by address, finishing at the true tail when
// every existing block sits below b.
func (h *Heap) insertFree(b *blockHead) {
	switch {
	case h.freeHead == nil:
		b.prev = nil
		b.next = nil
		h.freeHead = b
	case b.base() < h.freeHead.base():
		b.prev = nil
		b.next = h.freeHead
		h.freeHead.prev = b
		h.freeHead = b
	default:
		curr := h.freeHead
		for curr.next != nil && curr.next.base() < b.base() {
			curr = curr.next
		}
		b.next = curr.next
		b.prev = curr
		if curr.next != nil {
			curr.next.prev = b
		}
		curr.next = b
	}
	h.coalesce()
}

// removeFree unlinks b, patching the head when needed, and clears b's links.
func (h *Heap) removeFree(b *blockHead) {
	if b.prev != nil {
		b.prev.next = b.next
	} else {
		h.freeHead = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	}
	b.next = nil
	b.prev = nil
}

// coalesce folds address-adjacent free neighbors in a single forward pass:
// absorbing a successor can only expose that successor's own successor, never
// an earlier block. Blocks from different regions are never merged even when
// their mappings happen to abut, because teardown unmaps region by region.
func (h *Heap) coalesce() {
	curr := h.freeHead
	for curr != nil && curr.next != nil {
		next := curr.next
		if curr.end() == next.base() && h.sameRegion(curr, next) {
			curr.size += next.size
			curr.next = next.next
			if next.next != nil {
				next.next.prev = curr
			}
			h.stats.Coalesces++
			continue
		}
		curr = next
	}
}

// split cuts b into a head of exactly size bytes and a free tail, provided both
// halves stay at or above minBlockSize; otherwise b is left intact and the
// caller hands out the whole block. The tail links in directly behind b — the
// address order is known by construction, so no ordered re-insertion is needed.
func (h *Heap) split(b *blockHead, size uintptr) {
	tailSize := b.size - size
	if size < minBlockSize || tailSize < minBlockSize {
		return
	}
	tail := placeBlock(unsafe.Add(unsafe.Pointer(b), size), tailSize)
	tail.next = b.next
	tail.prev = b
	if b.next != nil {
		b.next.prev = tail
	}
	b.next = tail
	b.size = size
	h.stats.Splits++
}
