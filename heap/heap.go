package heap

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/joshuapare/memkit/internal/mman"
)

// region records one OS mapping owned by the heap. buf retains the mapped slice
// so teardown returns to the kernel exactly what was mapped, independent of how
// free blocks were split or merged inside it.
type region struct {
	buf  []byte
	base uintptr
	size uintptr
}

// Heap is one allocator instance: a pool of anonymous mappings carved into
// blocks, with an address-ordered free list threaded through the free ones.
//
// A Heap performs no locking of its own; the package-level entry points
// serialize on the memory mutex, and embedders or tests that hold a private
// Heap synchronize it themselves.
type Heap struct {
	cfg Config

	// size is the sum of the sizes of every region currently mapped.
	size uintptr

	// freeHead is the lowest-addressed free block, or nil when every block is
	// live. The list is strictly ascending by block base address.
	freeHead *blockHead

	// regions is kept sorted ascending by base so block-to-region lookup is a
	// binary search. Regions need not be contiguous in the address space and
	// the allocator never assumes they are.
	regions []region

	stats Stats
}

// New returns an empty heap. No memory is mapped until the first request; a
// nil cfg selects DefaultConfig.
func New(cfg *Config) *Heap {
	c := DefaultConfig
	if cfg != nil {
		c = *cfg
	}
	if c.InitSize < minBlockSize {
		c.InitSize = DefaultConfig.InitSize
	}
	if aligned, ok := alignUp(c.InitSize); ok {
		c.InitSize = aligned
	}
	return &Heap{cfg: c}
}

// initialized reports whether the heap currently holds any mapping.
func (h *Heap) initialized() bool {
	return len(h.regions) > 0
}

// initHeap maps the first region and seeds the free list with a single block
// covering all of it. Reports false when the kernel refuses the mapping, in
// which case the heap stays uninitialized and the triggering request fails.
func (h *Heap) initHeap() bool {
	r := h.mapRegion(h.cfg.InitSize)
	if r == nil {
		return false
	}
	h.freeHead = placeBlock(unsafe.Pointer(&r.buf[0]), r.size)
	return true
}

// expand maps an additional region sized max(n, InitSize), initializes it as a
// single free block, and splices that block into the free list. n already
// includes the request's header. Returns nil on map failure with the free list
// untouched.
func (h *Heap) expand(n uintptr) *blockHead {
	size := n
	if size < h.cfg.InitSize {
		size = h.cfg.InitSize
	}
	h.stats.ExpandCalls++
	r := h.mapRegion(size)
	if r == nil {
		return nil
	}
	b := placeBlock(unsafe.Pointer(&r.buf[0]), r.size)
	// The new region cannot coalesce with blocks of other regions, so b
	// survives insertion and satisfies the pending request by construction.
	h.insertFree(b)
	return b
}

// mapRegion maps n bytes and registers the region in address order.
func (h *Heap) mapRegion(n uintptr) *region {
	h.stats.MapCalls++
	buf := mman.Map(n)
	if buf == nil {
		h.stats.MapFailures++
		return nil
	}
	r := region{
		buf:  buf,
		base: uintptr(unsafe.Pointer(&buf[0])),
		size: uintptr(len(buf)),
	}
	idx := len(h.regions)
	for i := range h.regions {
		if r.base < h.regions[i].base {
			idx = i
			break
		}
	}
	h.regions = append(h.regions, region{})
	copy(h.regions[idx+1:], h.regions[idx:])
	h.regions[idx] = r
	h.size += r.size
	return &h.regions[idx]
}

// regionIndexOf finds the region containing addr, or -1. Binary search over the
// sorted region registry.
func (h *Heap) regionIndexOf(addr uintptr) int {
	lo, hi := 0, len(h.regions)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		r := &h.regions[mid]
		switch {
		case addr < r.base:
			hi = mid - 1
		case addr >= r.base+r.size:
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}

// sameRegion reports whether two blocks were carved from the same mapping.
func (h *Heap) sameRegion(a, b *blockHead) bool {
	return h.regionIndexOf(a.base()) == h.regionIndexOf(b.base())
}

// totalFree sums the sizes of every free block.
func (h *Heap) totalFree() uintptr {
	var n uintptr
	for b := h.freeHead; b != nil; b = b.next {
		n += b.size
	}
	return n
}

// teardown unmaps every region and resets the heap so the next request
// reinitializes. Unmap failures are ignored; any leak is silent.
func (h *Heap) teardown() {
	for i := range h.regions {
		h.stats.UnmapCalls++
		if err := mman.Unmap(h.regions[i].buf); err != nil {
			h.stats.UnmapFailures++
		}
	}
	h.regions = nil
	h.freeHead = nil
	h.size = 0
	h.stats.Teardowns++
}

// Close unmaps every region unconditionally, invalidating any pointers still
// live. Intended for tests and tools shutting a private heap down; the
// automatic teardown on the release path only fires when the heap is entirely
// free.
func (h *Heap) Close() {
	if h.initialized() {
		h.teardown()
	}
}

// Size returns the total mapped bytes currently held by the heap.
func (h *Heap) Size() uintptr {
	return h.size
}

// DumpTo writes a rendering of the heap descriptor and its free list, one line
// per block.
func (h *Heap) DumpTo(w io.Writer) {
	fmt.Fprintf(w, "heap size=%d regions=%d freeBlocks=%d\n", h.size, len(h.regions), h.freeCount())
	for i := range h.regions {
		fmt.Fprintf(w, "  region base=0x%x size=%d\n", h.regions[i].base, h.regions[i].size)
	}
	for b := h.freeHead; b != nil; b = b.next {
		fmt.Fprintf(w, "  free base=0x%x size=%d\n", b.base(), b.size)
	}
}

func (h *Heap) freeCount() int {
	n := 0
	for b := h.freeHead; b != nil; b = b.next {
		n++
	}
	return n
}
