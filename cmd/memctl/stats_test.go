package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/heap"
)

func TestStatsProbeRunsClean(t *testing.T) {
	oldProbe, oldQuiet := statsProbe, quiet
	statsProbe, quiet = 100, true
	t.Cleanup(func() { statsProbe, quiet = oldProbe, oldQuiet })

	require.NoError(t, runStatsDump())

	st := heap.GlobalStats()
	require.Equal(t, st.BytesAllocated, st.BytesFreed, "probe pairs must balance")
	require.Zero(t, st.LiveBytes)
}

func TestStatsRejectsNegativeProbe(t *testing.T) {
	oldProbe := statsProbe
	statsProbe = -1
	t.Cleanup(func() { statsProbe = oldProbe })

	require.ErrorIs(t, runStatsDump(), heap.ErrBadRequest)
}
