// Package heap is a general-purpose memory allocator backed directly by
// anonymous private mappings.
//
// # Overview
//
// The allocator replaces the four standard allocation primitives — Malloc,
// Calloc, Realloc, Free — without relying on any other heap facility. Its only
// sources of raw memory are mmap and munmap, reached through internal/mman.
// Because those calls are expensive, memory is acquired in large regions
// (16 MiB by default) and regions are subdivided into blocks on demand.
//
// Every block starts with a fixed header recording its total size, a
// self-pointer to the payload, and free-list links. Free blocks are threaded
// on a doubly linked list sorted strictly ascending by address. Allocation is
// first-fit: the list is scanned from the head, the first block large enough
// is split to size when the remainder can stand as a block of its own, and the
// chosen block is unlinked. Release re-inserts the block in address order and
// merges it with any address-adjacent free neighbor from the same region.
// When every mapped byte is free again, all regions are returned to the OS and
// the next request starts the heap over.
//
// # Usage
//
//	p := heap.Malloc(64)
//	if p == nil {
//	    // out of memory, or the request was refused
//	}
//	q := heap.Realloc(p, 4096) // p is invalid once q is non-nil
//	heap.Free(q)
//
// Failure is reported solely by a nil pointer; there are no error values on
// the data path.
//
// # Heap objects
//
// The package-level functions operate on a single process-wide heap guarded by
// a mutex. Tests and embedders can instead hold a private *Heap from New,
// which performs no locking of its own:
//
//	h := heap.New(&heap.Config{InitSize: 1 << 20})
//	defer h.Close()
//	p := h.Malloc(128)
//
// # Tracing
//
// Setting MEMORY_DEBUG=yes emits one structured line per public operation to
// standard error. The sink is reentrancy-safe and never runs while the memory
// mutex is held. See internal/trace.
//
// # Thread safety
//
// The package-level entry points are safe for concurrent use; effects of an
// operation are linearized at the moment the memory mutex is released. A
// *Heap from New is not thread-safe. The mutex is not async-signal-safe and
// operations are not cancellable; they run to completion.
package heap
