package main

import (
	"fmt"
	"math/rand"
	"unsafe"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/heap"
)

var (
	stressOps     int
	stressMaxSize int
	stressSeed    int64
	stressInit    int
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressOps, "ops", 100000, "Number of allocator operations to run")
	cmd.Flags().IntVar(&stressMaxSize, "max-size", 8192, "Largest single allocation in bytes")
	cmd.Flags().Int64Var(&stressSeed, "seed", 1, "Workload RNG seed")
	cmd.Flags().IntVar(&stressInit, "init-size", 0, "Region size in bytes (0 = allocator default)")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Run a synthetic allocation workload",
		Long: `The stress command runs a randomized malloc/realloc/free workload
against a private heap and reports the allocator statistics.

Example:
  memctl stress --ops 500000 --max-size 65536
  memctl stress --seed 7 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
}

// stressReport is the JSON shape of a finished stress run.
type stressReport struct {
	Ops        int        `json:"ops"`
	MaxSize    int        `json:"maxSize"`
	Seed       int64      `json:"seed"`
	PeakMapped uintptr    `json:"peakMappedBytes"`
	Stats      heap.Stats `json:"stats"`
}

func runStress() error {
	if stressOps <= 0 || stressMaxSize <= 0 {
		return fmt.Errorf("%w: ops and max-size must be positive", heap.ErrBadRequest)
	}

	var cfg *heap.Config
	if stressInit > 0 {
		cfg = &heap.Config{InitSize: uintptr(stressInit)}
	}
	h := heap.New(cfg)
	defer h.Close()

	report, err := runStressWorkload(h, stressOps, stressMaxSize, stressSeed)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(report)
	}

	st := report.Stats
	printInfo("stress: %d ops, max size %d, seed %d\n", report.Ops, report.MaxSize, report.Seed)
	printInfo("  peak mapped:  %d bytes\n", report.PeakMapped)
	printInfo("  allocations:  %d (%d bytes)\n", st.AllocCalls, st.BytesAllocated)
	printInfo("  frees:        %d (%d bytes)\n", st.FreeCalls, st.BytesFreed)
	printInfo("  splits:       %d\n", st.Splits)
	printInfo("  coalesces:    %d\n", st.Coalesces)
	printInfo("  expansions:   %d\n", st.ExpandCalls)
	printInfo("  map calls:    %d (%d failed)\n", st.MapCalls, st.MapFailures)
	printInfo("  unmap calls:  %d (%d failed)\n", st.UnmapCalls, st.UnmapFailures)
	printInfo("  teardowns:    %d\n", st.Teardowns)
	return nil
}

// runStressWorkload drives h with a deterministic mixed workload and frees
// everything before reporting, so a correct allocator always finishes torn
// down.
func runStressWorkload(h *heap.Heap, ops, maxSize int, seed int64) (*stressReport, error) {
	rng := rand.New(rand.NewSource(seed))
	live := make([]unsafe.Pointer, 0, 1024)
	var peak uintptr

	for i := 0; i < ops; i++ {
		switch {
		case len(live) == 0 || rng.Intn(10) < 5:
			p := h.Malloc(uintptr(rng.Intn(maxSize) + 1))
			if p == nil {
				return nil, fmt.Errorf("malloc at op %d: %w", i, heap.ErrNoSpace)
			}
			live = append(live, p)
		case rng.Intn(4) == 0:
			j := rng.Intn(len(live))
			p := h.Realloc(live[j], uintptr(rng.Intn(maxSize)+1))
			if p == nil {
				return nil, fmt.Errorf("realloc at op %d: %w", i, heap.ErrNoSpace)
			}
			live[j] = p
		default:
			j := rng.Intn(len(live))
			h.Free(live[j])
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
		}
		if h.Size() > peak {
			peak = h.Size()
		}
		if verbose && i%100000 == 0 && i > 0 {
			printVerbose("  ... %d ops, %d live, %d mapped\n", i, len(live), h.Size())
		}
	}

	for _, p := range live {
		h.Free(p)
	}
	if h.Size() != 0 {
		return nil, fmt.Errorf("heap still holds %d bytes after releasing everything", h.Size())
	}

	return &stressReport{
		Ops:        ops,
		MaxSize:    maxSize,
		Seed:       seed,
		PeakMapped: peak,
		Stats:      h.Stats(),
	}, nil
}
