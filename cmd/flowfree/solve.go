package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowfree/solver/internal/parser"
	"github.com/flowfree/solver/internal/render"
)

var solveCmd = &cobra.Command{
	Use:   "solve <puzzle-file>",
	Short: "Solve a single puzzle and print the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

func runSolve(cmd *cobra.Command, args []string) error {
	state, err := parser.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	ctx, cancel := solveContext()
	defer cancel()

	co := newCoordinator(state)
	report, err := co.Solve(ctx)
	if err != nil {
		return err
	}

	if cfg.Solve.Render == "styled" {
		cmd.Print(render.Styled(report.Board))
	} else {
		cmd.Print(render.ASCII(report.Board))
	}
	cmd.Printf("expanded %d nodes in %s\n", report.TotalExpanded, report.Elapsed.Round(time.Millisecond))
	return nil
}
