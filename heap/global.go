package heap

import (
	"sync"
	"unsafe"

	"github.com/joshuapare/memkit/internal/trace"
)

// The process-wide heap. All four entry points serialize on the memory mutex
// and every observable effect of an operation is in place by the time the mutex
// is released. Trace lines are emitted after the release so the debug sink is
// never reached while the memory mutex is held.
var (
	memMu  sync.Mutex
	global = New(nil)
)

// Malloc allocates size bytes from the process-wide heap.
func Malloc(size uintptr) unsafe.Pointer {
	memMu.Lock()
	p := global.Malloc(size)
	memMu.Unlock()
	trace.Logf("malloc size=%d p=0x%x", size, uintptr(p))
	return p
}

// Calloc allocates zeroed storage for count elements of size bytes each from
// the process-wide heap.
func Calloc(count, size uintptr) unsafe.Pointer {
	memMu.Lock()
	p := global.Calloc(count, size)
	memMu.Unlock()
	trace.Logf("calloc count=%d size=%d p=0x%x", count, size, uintptr(p))
	return p
}

// Realloc resizes the allocation at p on the process-wide heap.
func Realloc(p unsafe.Pointer, size uintptr) unsafe.Pointer {
	memMu.Lock()
	np := global.Realloc(p, size)
	memMu.Unlock()
	trace.Logf("realloc p=0x%x size=%d np=0x%x", uintptr(p), size, uintptr(np))
	return np
}

// Free releases the allocation at p on the process-wide heap.
func Free(p unsafe.Pointer) {
	memMu.Lock()
	global.Free(p)
	torndown := !global.initialized()
	memMu.Unlock()
	trace.Logf("free p=0x%x torndown=%v", uintptr(p), torndown)
}

// GlobalStats returns a snapshot of the process-wide heap's counters.
func GlobalStats() Stats {
	memMu.Lock()
	defer memMu.Unlock()
	return global.Stats()
}
