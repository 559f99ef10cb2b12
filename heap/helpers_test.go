package heap

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Utilities
// ============================================================================

// newTestHeap returns a private heap with a small region size so splits,
// expansion, and teardown are cheap to exercise. Closed on test cleanup.
func newTestHeap(t testing.TB, initSize uintptr) *Heap {
	t.Helper()
	h := New(&Config{InitSize: initSize})
	t.Cleanup(h.Close)
	return h
}

// payload views the n bytes behind a user pointer.
func payload(p unsafe.Pointer, n uintptr) []byte {
	return unsafe.Slice((*byte)(p), n)
}

// fillPattern writes a deterministic byte pattern into p's payload.
func fillPattern(p unsafe.Pointer, n uintptr, seed byte) {
	b := payload(p, n)
	for i := range b {
		b[i] = seed + byte(i)
	}
}

// requirePattern asserts the pattern written by fillPattern is intact.
func requirePattern(t testing.TB, p unsafe.Pointer, n uintptr, seed byte) {
	t.Helper()
	b := payload(p, n)
	for i := range b {
		require.Equal(t, seed+byte(i), b[i], "payload byte %d", i)
	}
}

// checkInvariants asserts the structural invariants that must hold after every
// public operation: the free list is strictly sorted ascending by base address
// with intact back-links, free blocks never overlap, same-region adjacency has
// been coalesced away, every block is at least minBlockSize, live blocks cover
// their requests, and free plus live bytes account for every mapped byte.
// live maps each outstanding user pointer to the size that was requested.
func checkInvariants(t testing.TB, h *Heap, live map[unsafe.Pointer]uintptr) {
	t.Helper()

	var freeSum uintptr
	var prev *blockHead
	for b := h.freeHead; b != nil; b = b.next {
		require.GreaterOrEqual(t, b.size, minBlockSize, "free block below minimum size")
		require.NotEqual(t, -1, h.regionIndexOf(b.base()), "free block outside every region")
		require.Equal(t, h.regionIndexOf(b.base()), h.regionIndexOf(b.end()-1),
			"free block straddles a region boundary")
		if prev == nil {
			require.Nil(t, b.prev, "head must have nil prev")
		} else {
			require.Greater(t, b.base(), prev.base(), "free list not sorted by address")
			require.LessOrEqual(t, prev.end(), b.base(), "free blocks overlap")
			if h.sameRegion(prev, b) {
				require.Less(t, prev.end(), b.base(), "adjacent same-region free blocks not coalesced")
			}
			require.Same(t, prev, b.prev, "broken back-link")
		}
		freeSum += b.size
		prev = b
	}

	var liveSum uintptr
	for p, requested := range live {
		blk := headerOf(p)
		require.GreaterOrEqual(t, blk.size, requested+blockHeadSize, "live block does not cover request")
		require.Equal(t, p, blk.data, "header data self-pointer broken")
		liveSum += blk.size
	}

	require.Equal(t, h.size, freeSum+liveSum, "free + live bytes must equal mapped bytes")
	if h.freeHead == nil && len(live) > 0 {
		require.NotZero(t, liveSum, "empty free list implies everything is live")
	}
}
