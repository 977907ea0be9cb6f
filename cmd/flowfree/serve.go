package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/matryer/way"
	"github.com/spf13/cobra"

	"github.com/flowfree/solver/internal/coordinator"
	"github.com/flowfree/solver/internal/livemetrics"
	"github.com/flowfree/solver/internal/parser"
)

var serveCmd = &cobra.Command{
	Use:   "serve <puzzle-file>",
	Short: "Solve a puzzle while streaming live metrics over a websocket",
	Args:  cobra.ExactArgs(1),
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	state, err := parser.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	addr := cfg.Serve.Addr
	hub := livemetrics.NewHub(log.WithField("component", "livemetrics"))

	router := way.NewRouter()
	router.HandleFunc("GET", "/metrics/stream", hub.ServeHTTP)

	srv := &http.Server{Addr: addr, Handler: router}
	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe() }()

	ctx, cancel := solveContext()
	defer cancel()

	co := newCoordinator(state)
	solveDone := make(chan struct{})
	var report *coordinator.SolveReport
	var solveErr error
	go func() {
		report, solveErr = co.Solve(ctx)
		close(solveDone)
	}()

	log.WithField("addr", addr).Info("serving live metrics")
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-solveDone:
			hub.Publish(publishedSnapshot(co, solveErr == nil))
			if solveErr != nil {
				return solveErr
			}
			cmd.Printf("expanded %d nodes in %s\n", report.TotalExpanded, report.Elapsed.Round(time.Millisecond))
			return srv.Close()
		case err := <-srvErr:
			if err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		case <-ticker.C:
			hub.Publish(publishedSnapshot(co, false))
		}
	}
}

func publishedSnapshot(co *coordinator.Coordinator, solved bool) livemetrics.Snapshot {
	counts := co.Snapshot()
	var total int64
	for _, n := range counts {
		total += n
	}
	return livemetrics.Snapshot{
		Timestamp:       time.Now(),
		ExpandedByColor: counts,
		TotalExpanded:   total,
		Solved:          solved,
	}
}
