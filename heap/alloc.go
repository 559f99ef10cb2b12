package heap

import (
	"unsafe"

	"github.com/joshuapare/memkit/internal/buf"
	"github.com/joshuapare/memkit/internal/memutil"
)

// Malloc returns a pointer to at least size writable bytes, or nil when size is
// zero, when the sized request cannot be represented, or when the OS refuses
// memory. The heap is initialized lazily on the first real request.
func (h *Heap) Malloc(size uintptr) unsafe.Pointer {
	if size == 0 {
		return nil
	}
	h.stats.AllocCalls++
	aligned, ok := alignUp(size)
	if !ok {
		return nil
	}
	req, ok := buf.AddOverflowSafe(aligned, blockHeadSize)
	if !ok {
		return nil
	}
	if !h.initialized() && !h.initHeap() {
		return nil
	}
	b := h.findFit(req)
	if b == nil {
		return nil
	}
	if req < b.size {
		h.split(b, req)
	}
	h.removeFree(b)
	h.stats.BytesAllocated += uint64(b.size)
	h.stats.LiveBytes += uint64(b.size)
	return b.data
}

// Calloc returns zeroed storage for count elements of size bytes each, or nil
// when either factor is zero, when the product overflows, or when allocation
// fails. A refused product never initializes the heap.
func (h *Heap) Calloc(count, size uintptr) unsafe.Pointer {
	total := buf.MulSize(count, size)
	if total == 0 {
		return nil
	}
	p := h.Malloc(total)
	if p == nil {
		return nil
	}
	memutil.Set(p, 0, total)
	return p
}

// Realloc resizes the allocation at p. A zero size frees p and returns nil; a
// nil p is plain allocation. Otherwise the payload moves into a fresh block and
// the old one is released; on allocation failure the old block stays live and
// nil is returned. The copy covers min(size, old payload) — the old block's
// payload, not its total size, which would overread by one header.
func (h *Heap) Realloc(p unsafe.Pointer, size uintptr) unsafe.Pointer {
	if size == 0 {
		if p != nil {
			h.Free(p)
		}
		return nil
	}
	if p == nil {
		return h.Malloc(size)
	}
	np := h.Malloc(size)
	if np == nil {
		return nil
	}
	n := headerOf(p).size - blockHeadSize
	if size < n {
		n = size
	}
	memutil.Copy(np, p, n)
	h.Free(p)
	return np
}

// Free returns p's block to the free list, coalescing with any address-adjacent
// free neighbors. Releasing nil is a no-op. When every mapped byte is free
// again the heap is torn down; the next request reinitializes it.
func (h *Heap) Free(p unsafe.Pointer) {
	if p == nil || !h.initialized() {
		return
	}
	h.stats.FreeCalls++
	b := headerOf(p)
	h.stats.BytesFreed += uint64(b.size)
	h.stats.LiveBytes -= uint64(b.size)
	h.insertFree(b)
	if h.totalFree() == h.size {
		h.teardown()
	}
}
