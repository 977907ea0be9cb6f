package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowfree/solver/internal/parser"
)

var benchRuns int

var benchCmd = &cobra.Command{
	Use:   "bench <puzzle-file>",
	Short: "Solve a puzzle repeatedly and report timing statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchRuns, "runs", 10, "number of solve passes to time")
}

func runBench(cmd *cobra.Command, args []string) error {
	state, err := parser.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	var total time.Duration
	var totalExpanded int64
	solvedCount := 0

	for i := 0; i < benchRuns; i++ {
		ctx, cancel := solveContext()
		co := newCoordinator(state.Clone())
		report, err := co.Solve(ctx)
		cancel()
		if err != nil {
			cmd.Printf("run %d: %v\n", i+1, err)
			continue
		}
		total += report.Elapsed
		totalExpanded += report.TotalExpanded
		solvedCount++
	}

	if solvedCount == 0 {
		return fmt.Errorf("all %d runs failed", benchRuns)
	}

	cmd.Printf("%d/%d runs solved, avg %s, avg %d nodes expanded\n",
		solvedCount, benchRuns,
		(total / time.Duration(solvedCount)).Round(time.Microsecond),
		totalExpanded/int64(solvedCount))
	return nil
}
