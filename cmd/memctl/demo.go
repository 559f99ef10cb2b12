package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/heap"
)

func init() {
	rootCmd.AddCommand(newDemoCmd())
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through the allocator lifecycle",
		Long: `The demo command performs a small scripted sequence — allocate, split,
free, coalesce, tear down — and dumps the heap after each step so the
free-list mechanics are visible.

Example:
  memctl demo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
}

func runDemo() error {
	h := heap.New(&heap.Config{InitSize: 64 << 10})
	defer h.Close()

	dump := func(step string) {
		printInfo("--- %s\n", step)
		if !quiet {
			h.DumpTo(os.Stdout)
		}
	}

	a := h.Malloc(100)
	b := h.Malloc(100)
	c := h.Calloc(4, 64)
	dump("after three allocations")

	h.Free(b)
	dump("after freeing the middle block")

	a = h.Realloc(a, 4096)
	dump("after growing the first block")

	h.Free(a)
	h.Free(c)
	dump("after releasing everything (heap torn down)")
	return nil
}
