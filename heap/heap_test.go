package heap

import (
	"bytes"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInitSize = 1 << 20 // 1 MiB regions keep expansion cheap to trigger

func TestMallocZeroRefusedWithoutInit(t *testing.T) {
	h := newTestHeap(t, testInitSize)

	require.Nil(t, h.Malloc(0))
	assert.False(t, h.initialized(), "a refused request must not initialize the heap")
	assert.Zero(t, h.Stats().MapCalls)
}

func TestSingleAllocAndFree(t *testing.T) {
	h := newTestHeap(t, testInitSize)

	p := h.Malloc(1)
	require.NotNil(t, p)
	checkInvariants(t, h, map[unsafe.Pointer]uintptr{p: 1})

	h.Free(p)
	assert.False(t, h.initialized(), "heap must tear down once everything is free")
	assert.Nil(t, h.freeHead)
	assert.Zero(t, h.Size())
	assert.Equal(t, uint64(1), h.Stats().Teardowns)
}

func TestSplitThenCoalesce(t *testing.T) {
	h := newTestHeap(t, testInitSize)

	a := h.Malloc(100)
	require.NotNil(t, a)
	b := h.Malloc(100)
	require.NotNil(t, b)
	checkInvariants(t, h, map[unsafe.Pointer]uintptr{a: 100, b: 100})
	assert.Equal(t, uint64(2), h.Stats().Splits)

	h.Free(a)
	checkInvariants(t, h, map[unsafe.Pointer]uintptr{b: 100})

	// The final release merges the list into one block covering every mapped
	// byte, which triggers teardown.
	h.Free(b)
	assert.False(t, h.initialized())
	assert.Nil(t, h.freeHead)
}

func TestTeardownAndReinit(t *testing.T) {
	h := newTestHeap(t, testInitSize)

	p := h.Malloc(64)
	require.NotNil(t, p)
	h.Free(p)
	require.False(t, h.initialized())

	q := h.Malloc(1)
	require.NotNil(t, q, "heap must reinitialize after teardown")
	assert.Equal(t, uintptr(testInitSize), h.Size())
	checkInvariants(t, h, map[unsafe.Pointer]uintptr{q: 1})
	h.Free(q)
}

func TestExpansion(t *testing.T) {
	// Reference sizing: 16 MiB initial region, twelve 1 MiB requests, then a
	// 20 MiB request that no remaining block can satisfy.
	h := newTestHeap(t, DefaultConfig.InitSize)

	live := make(map[unsafe.Pointer]uintptr)
	ptrs := make([]unsafe.Pointer, 0, 12)
	for i := 0; i < 12; i++ {
		p := h.Malloc(1 << 20)
		require.NotNil(t, p, "allocation %d", i)
		fillPattern(p, 64, byte(i))
		live[p] = 1 << 20
		ptrs = append(ptrs, p)
	}
	require.Equal(t, uintptr(DefaultConfig.InitSize), h.Size())
	require.Zero(t, h.Stats().ExpandCalls)

	big := h.Malloc(20 << 20)
	require.NotNil(t, big)
	live[big] = 20 << 20
	assert.Equal(t, uint64(1), h.Stats().ExpandCalls)
	assert.GreaterOrEqual(t, h.Size(), uintptr(36<<20), "expansion region must cover the request")
	assert.Len(t, h.regions, 2)
	checkInvariants(t, h, live)

	// Prior pointers remain valid and untouched.
	for i, p := range ptrs {
		requirePattern(t, p, 64, byte(i))
	}

	for p := range live {
		h.Free(p)
	}
	assert.False(t, h.initialized(), "all regions must be returned after the last release")
}

func TestExpansionRegionIsSingleBlock(t *testing.T) {
	h := newTestHeap(t, testInitSize)

	// Exhaust the initial region, then force an expansion larger than InitSize.
	p := h.Malloc(testInitSize - uintptr(blockHeadSize))
	require.NotNil(t, p)
	q := h.Malloc(3 * testInitSize)
	require.NotNil(t, q)

	blk := headerOf(q)
	idx := h.regionIndexOf(blk.base())
	require.NotEqual(t, -1, idx)
	assert.Equal(t, h.regions[idx].size, blk.size, "expansion block must span its whole region")

	h.Free(q)
	h.Free(p)
}

func TestCloseReleasesEverything(t *testing.T) {
	h := New(&Config{InitSize: testInitSize})
	p := h.Malloc(128)
	require.NotNil(t, p)

	h.Close()
	assert.False(t, h.initialized())
	assert.Zero(t, h.Size())

	// Close on a torn-down heap is a no-op.
	h.Close()
	assert.Equal(t, uint64(1), h.Stats().Teardowns)
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, DefaultConfig.InitSize, New(nil).cfg.InitSize)

	// Degenerate sizes fall back to the default.
	assert.Equal(t, DefaultConfig.InitSize, New(&Config{}).cfg.InitSize)
	assert.Equal(t, DefaultConfig.InitSize, New(&Config{InitSize: 4}).cfg.InitSize)

	// Odd sizes are rounded up to a word multiple.
	h := New(&Config{InitSize: 4097})
	assert.Equal(t, uintptr(4104), h.cfg.InitSize)
}

func TestDumpTo(t *testing.T) {
	h := newTestHeap(t, testInitSize)
	p := h.Malloc(64)
	require.NotNil(t, p)

	var out bytes.Buffer
	h.DumpTo(&out)
	assert.Contains(t, out.String(), "heap size=")
	assert.Contains(t, out.String(), "region base=")
	assert.Contains(t, out.String(), "free base=")

	h.Free(p)
}

func TestRegionLookup(t *testing.T) {
	h := newTestHeap(t, testInitSize)
	p := h.Malloc(64)
	require.NotNil(t, p)

	r := &h.regions[0]
	assert.Equal(t, 0, h.regionIndexOf(r.base))
	assert.Equal(t, 0, h.regionIndexOf(r.base+r.size-1))
	assert.Equal(t, -1, h.regionIndexOf(r.base+r.size))
	assert.Equal(t, -1, h.regionIndexOf(r.base-1))

	h.Free(p)
}
