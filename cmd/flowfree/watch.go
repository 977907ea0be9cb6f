package main

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/flowfree/solver/internal/parser"
	"github.com/flowfree/solver/internal/render"
)

var watchCmd = &cobra.Command{
	Use:   "watch <puzzle-file>",
	Short: "Re-solve a puzzle file every time it changes on disk",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	solveAndPrint := func() {
		if err := solveOnce(cmd, path); err != nil {
			log.WithError(err).Warn("solve failed")
		}
	}
	solveAndPrint()

	debounce := cfg.Watch.Debounce
	var timer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, solveAndPrint)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watcher error")
		}
	}
}

func solveOnce(cmd *cobra.Command, path string) error {
	state, err := parser.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	ctx, cancel := solveContext()
	defer cancel()

	co := newCoordinator(state)
	report, err := co.Solve(ctx)
	if err != nil {
		return err
	}
	cmd.Print(render.ASCII(report.Board))
	cmd.Printf("expanded %d nodes in %s\n\n", report.TotalExpanded, report.Elapsed.Round(time.Millisecond))
	return nil
}
