package pruner

import (
	"testing"

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

func TestBlockedAgentDetectsSurroundedEndpoint(t *testing.T) {
	// G's corner endpoint (0,0) has both in-bounds neighbors occupied by
	// R from the very first State, before any move is made.
	rows := []string{
		"GR.",
		"R..",
		"..G",
	}
	s := mustNew(t, 3, rows, map[byte]int{'G': 0, 'R': 1})
	s.SetHead(s.Sources[1].R, s.Sources[1].C)
	if !BlockedAgent(s, 1) {
		t.Fatal("expected G's surrounded corner endpoint to be detected as blocked")
	}
}

func TestBlockedAgentIgnoresFinishedColors(t *testing.T) {
	rows := []string{
		"GR.",
		"R..",
		"..G",
	}
	s := mustNew(t, 3, rows, map[byte]int{'G': 0, 'R': 1})
	s.Finished[0] = true
	s.SetHead(s.Sources[1].R, s.Sources[1].C)
	if BlockedAgent(s, 1) {
		t.Fatal("a finished color's blocked endpoint must not count")
	}
}

func TestDeadEndFlagsNarrowingCorridor(t *testing.T) {
	rows := []string{
		"R..",
		"...",
		"..R",
	}
	s := mustNew(t, 3, rows, map[byte]int{'R': 0})
	s.SetHead(s.Sources[0].R, s.Sources[0].C)
	// Trace a path down the left column then one step right, leaving
	// (2,0) with a single FREE neighbor that is adjacent to neither the
	// head nor any unfinished endpoint.
	for _, m := range [][2]int{{1, 0}, {1, 1}} {
		result := s.PerformMove(m[0], m[1], 0)
		if !result.Applied {
			t.Fatalf("setup move to %v was rejected", m)
		}
	}
	if !DeadEnd(s) {
		t.Fatal("expected the unreachable free cell at (2,0) to be flagged")
	}
}

func TestDeadEndAllowsFreeCellAdjacentToHead(t *testing.T) {
	rows := []string{
		"R.",
		".R",
	}
	s := mustNew(t, 2, rows, map[byte]int{'R': 0})
	s.SetHead(s.Sources[0].R, s.Sources[0].C)
	if DeadEnd(s) {
		t.Fatal("FREE cells adjacent to the head must not be flagged as dead ends")
	}
}

func TestStrandedColorOrRegionDetectsUnreachableTarget(t *testing.T) {
	rows := []string{
		"R.G..",
		".....",
		".....",
		".....",
		"R.G..",
	}
	s := mustNew(t, 5, rows, map[byte]int{'R': 0, 'G': 1})
	s.SetHead(s.Sources[0].R, s.Sources[0].C)

	// Draw an R wall across row 2, splitting the board and stranding G.
	wall := [][2]int{{1, 0}, {2, 0}, {2, 1}, {2, 2}, {2, 3}, {2, 4}}
	for _, m := range wall {
		result := s.PerformMove(m[0], m[1], 0)
		if !result.Applied {
			t.Fatalf("setup move to %v was rejected", m)
		}
	}

	if !StrandedColorOrRegion(s) {
		t.Fatal("expected G to be detected as stranded by the R wall")
	}
}

// TestBottleneckToleratesStrandingExactlyOneColorPerConsumedCell pins the
// boundary of runwayIsBottleneck's stranded > steps-1 comparison: crossing
// one FREE cell that strands exactly one other color is NOT flagged,
// because the comparison is strict (>) rather than >=.
func TestBottleneckToleratesStrandingExactlyOneColorPerConsumedCell(t *testing.T) {
	rows := []string{
		"A..",
		"P.P",
		"A..",
	}
	s := mustNew(t, 3, rows, map[byte]int{'A': 0, 'P': 1})
	s.SetHead(s.Sources[1].R, s.Sources[1].C)

	// Moving right consumes (1,1), which disconnects A's source region
	// from its target region: A goes from connected to stranded, a ratio
	// of exactly one stranded color per one consumed cell.
	if Bottleneck(s, 1) {
		t.Fatal("stranding exactly one color for one consumed cell must not be flagged a bottleneck")
	}
}

// TestBottleneckFlagsStrandingTwoColorsPerConsumedCell is the same
// corridor with a second color squeezed onto the same two FREE cells
// that (1,1) bridges: one consumed cell now strands two colors, one more
// than the tolerated ratio, and must be flagged.
func TestBottleneckFlagsStrandingTwoColorsPerConsumedCell(t *testing.T) {
	rows := []string{
		"A.B",
		"P.P",
		"A.B",
	}
	s := mustNew(t, 3, rows, map[byte]int{'A': 0, 'P': 1, 'B': 2})
	s.SetHead(s.Sources[1].R, s.Sources[1].C)

	if !Bottleneck(s, 1) {
		t.Fatal("expected stranding both A and B off a single consumed cell to be flagged a bottleneck")
	}
}

func TestStrandedColorOrRegionAllowsConnectedBoard(t *testing.T) {
	rows := []string{
		"R.G",
		"...",
		"G.R",
	}
	s := mustNew(t, 3, rows, map[byte]int{'R': 0, 'G': 1})
	s.SetHead(s.Sources[0].R, s.Sources[0].C)
	if StrandedColorOrRegion(s) {
		t.Fatal("a fully open board must not be flagged as stranded")
	}
}
