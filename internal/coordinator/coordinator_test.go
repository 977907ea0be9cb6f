package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flowfree/solver/internal/puzzle"
)

func mustNew(t *testing.T, n int, rows []string, charToColor map[byte]int) *puzzle.State {
	t.Helper()
	s, err := puzzle.New(n, rows, charToColor)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestSolveFindsTrivialSingleColorSolution(t *testing.T) {
	rows := []string{
		"R.",
		".R",
	}
	s := mustNew(t, 2, rows, map[byte]int{'R': 0})
	co := New(s, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	report, err := co.Solve(ctx)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if !report.Solved {
		t.Fatal("expected the trivial 2x2 single-color puzzle to be solved")
	}
	if report.Board == nil {
		t.Fatal("expected a winning board on the report")
	}
	for c, done := range report.Board.Finished {
		if !done {
			t.Fatalf("color %d not finished on the winning board", c)
		}
	}
	if report.Board.H != report.Board.CountFree() {
		t.Fatalf("H = %d, CountFree() = %d on the winning board", report.Board.H, report.Board.CountFree())
	}
	if report.TotalExpanded == 0 {
		t.Fatal("expected a nonzero expansion count")
	}
}

func TestSolveCompletesViaHandoffBetweenColors(t *testing.T) {
	// R's flow is one forced move long; G's is one move long. R's
	// completed board is handed off to G, which completes it.
	rows := []string{
		"RG.",
		"...",
		"RG.",
	}
	s := mustNew(t, 3, rows, map[byte]int{'R': 0, 'G': 1})
	co := New(s, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	report, err := co.Solve(ctx)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if !report.Solved || report.Board == nil {
		t.Fatal("expected the two-color handoff puzzle to be solved")
	}
	for c, done := range report.Board.Finished {
		if !done {
			t.Fatalf("color %d not finished on the winning board", c)
		}
	}
}

func TestPostAfterAllIdleRevertsTheUnsolvableLatch(t *testing.T) {
	rows := []string{
		"R.G",
		"...",
		"G.R",
	}
	s := mustNew(t, 3, rows, map[byte]int{'R': 0, 'G': 1})
	co := New(s, nil)

	if _, ok := co.EnterIdleOrDequeue(0); ok {
		t.Fatal("expected color 0 to have nothing queued yet")
	}
	if _, ok := co.EnterIdleOrDequeue(1); ok {
		t.Fatal("expected color 1 to have nothing queued yet")
	}
	if !co.Stopped() {
		t.Fatal("expected both colors idle at once to latch unsolvable")
	}

	// A sibling's post for color 0 lands right after the all-idle latch:
	// fresh work exists, so Stopped must no longer report unsolvable.
	co.Post(0, s.Clone())

	if co.Stopped() {
		t.Fatal("Post must revert the unsolvable latch once fresh work arrives")
	}
	if _, ok := co.TryDequeue(0); !ok {
		t.Fatal("expected color 0's posted State to still be dequeueable")
	}
}

func TestSolveReportsUnsolvableForAPermanentlyBlockedColor(t *testing.T) {
	rows := []string{
		"GR.",
		"R..",
		"..G",
	}
	s := mustNew(t, 3, rows, map[byte]int{'G': 0, 'R': 1})
	co := New(s, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	report, err := co.Solve(ctx)
	if !errors.Is(err, puzzle.ErrUnsolvable) {
		t.Fatalf("Solve() error = %v, want ErrUnsolvable", err)
	}
	if report.Solved {
		t.Fatal("a permanently blocked color must never be reported as solved")
	}
}
