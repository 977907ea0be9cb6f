package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/flowfree/solver/internal/coordinator"
	"github.com/flowfree/solver/internal/parser"
	"github.com/flowfree/solver/internal/tui"
)

var liveCmd = &cobra.Command{
	Use:   "live <puzzle-file>",
	Short: "Solve a puzzle while showing a live bubbletea progress view",
	Args:  cobra.ExactArgs(1),
	RunE:  runLive,
}

func init() {
	rootCmd.AddCommand(liveCmd)
}

func runLive(cmd *cobra.Command, args []string) error {
	state, err := parser.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	ctx, cancel := solveContext()
	defer cancel()

	co := newCoordinator(state)
	done := make(chan *coordinator.SolveReport, 1)
	errCh := make(chan error, 1)
	go func() {
		report, err := co.Solve(ctx)
		if err != nil {
			errCh <- err
			return
		}
		done <- report
	}()

	poll := func() tea.Msg {
		select {
		case report := <-done:
			return tui.DoneMsg{Report: report}
		case err := <-errCh:
			return tui.DoneMsg{Err: err}
		default:
			return tui.ProgressMsg{ExpandedByColor: co.Snapshot(), Solved: co.GoalReached()}
		}
	}

	program := tea.NewProgram(tui.New(poll))
	_, err = program.Run()
	return err
}
