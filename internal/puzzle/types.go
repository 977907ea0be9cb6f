// Package puzzle implements the Board/State component of the Flow Free
// solver: an immutable-except-via-move grid snapshot that knows cell
// contents, the active flow's head, per-color completion flags, endpoint
// coordinates and A* costs.
package puzzle

import (
	"errors"

	"github.com/flowfree/solver/internal/gridkit"
)

// Coord re-exports gridkit.Coord so callers of this package never need to
// import gridkit directly.
type Coord = gridkit.Coord

// Free is the sentinel cell value for an unclaimed square.
const Free = gridkit.Free

// ErrMalformedInput is wrapped by every input-shape violation New detects:
// a non-square grid, an endpoint character that doesn't appear exactly
// twice, an unmapped character, or a color id out of range.
var ErrMalformedInput = errors.New("puzzle: malformed input")

// ErrUnsolvable is returned once every agent has exhausted its open
// list without any color ever reaching a global goal state.
var ErrUnsolvable = errors.New("puzzle: no solution exists")

// ErrInterrupted wraps a context cancellation that stopped the search
// before a solution (or proof of unsolvability) was reached.
var ErrInterrupted = errors.New("puzzle: search interrupted")

// MoveResult is returned by PerformMove instead of mutating an Agent
// directly. It reports whether the move was applied, whether it entered
// the color's target, and whether it counted as a forced move.
type MoveResult struct {
	Applied     bool
	ReachedGoal bool
	WasForced   bool
}
