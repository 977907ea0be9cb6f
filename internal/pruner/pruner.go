// Package pruner implements the four admissibility predicates that let
// an agent discard a successor State without expanding it further. Each
// predicate answers "can this State be thrown away", never "is this
// State the answer" — callers treat a true return as a rejection, not
// an error.
package pruner

import (
	"github.com/flowfree/solver/internal/puzzle"
	"github.com/flowfree/solver/internal/regions"
)

// BlockedAgent reports whether some color other than playerNum hasn't
// finished yet and has its source or target pinned with zero FREE
// neighbors, meaning it can never be reached.
func BlockedAgent(s *puzzle.State, playerNum int) bool {
	for color := 0; color < s.K; color++ {
		if color == playerNum || s.Finished[color] {
			continue
		}
		src, tgt := s.Sources[color], s.Targets[color]
		if s.NumFreeNeighbours(src.R, src.C) == 0 || s.NumFreeNeighbours(tgt.R, tgt.C) == 0 {
			return true
		}
	}
	return false
}

// DeadEnd reports whether the last move created an unreachable FREE
// cell: one with zero FREE neighbors that isn't adjacent to the current
// head or to an unfinished color's endpoint, or one with exactly one
// FREE neighbor under the same condition.
func DeadEnd(s *puzzle.State) bool {
	for r := 0; r < s.N; r++ {
		for c := 0; c < s.N; c++ {
			if s.At(r, c) != puzzle.Free {
				continue
			}
			free := s.NumFreeNeighbours(r, c)
			if free != 0 && free != 1 {
				continue
			}
			if s.IsHeadANeighbour(r, c) || s.EdgepointsNeighbourDidntFinish(r, c) {
				continue
			}
			return true
		}
	}
	return false
}

// StrandedCounts is the intermediate result of a stranded-color scan,
// shared between StrandedColorOrRegion and Bottleneck.
type StrandedCounts struct {
	Stranded             int
	RegionsWithEndpoints regions.Set
	AllLabels            regions.Set
}

// countStranded runs the two-pass labeler once and, for every
// unfinished color (excluding the active player when forBottleneck is
// true), checks whether that color's source/head region shares a label
// with its target's region. A color whose regions don't overlap is
// stranded: no path can possibly connect it anymore.
func countStranded(s *puzzle.State, forBottleneck bool) StrandedCounts {
	m := regions.New(s.Board, s.N)
	m.ProducePass1()
	allLabels := m.ProducePass2()

	withEndpoints := make(regions.Set)
	stranded := 0

	for color := 0; color < s.K; color++ {
		if s.Finished[color] {
			continue
		}
		if forBottleneck && color == s.Player {
			continue
		}

		var cr, cc int
		if color == s.Player {
			cr, cc = s.Head.R, s.Head.C
		} else {
			cr, cc = s.Sources[color].R, s.Sources[color].C
		}
		tr, tc := s.Targets[color].R, s.Targets[color].C

		currentRegions := m.FindRegions(cr, cc)
		targetRegions := m.FindRegions(tr, tc)

		if regions.ContainsMutualArea(currentRegions, targetRegions, s.IsAgentGoalState(color)) {
			for l := range currentRegions {
				withEndpoints[l] = struct{}{}
			}
			for l := range targetRegions {
				withEndpoints[l] = struct{}{}
			}
		} else {
			stranded++
		}
	}

	return StrandedCounts{Stranded: stranded, RegionsWithEndpoints: withEndpoints, AllLabels: allLabels}
}

// StrandedColorOrRegion reports whether some unfinished color's flow
// can no longer reach its target (a stranded color), or some FREE
// region touches no unfinished color's endpoint at all (a stranded
// region, useless to anyone).
func StrandedColorOrRegion(s *puzzle.State) bool {
	counts := countStranded(s, false)
	if counts.Stranded > 0 {
		return true
	}
	for l := range counts.AllLabels {
		if _, ok := counts.RegionsWithEndpoints[l]; !ok {
			return true
		}
	}
	return false
}

// Bottleneck fast-forwards the head in each of the four directions on a
// scratch copy of s, counting how many FREE cells it could cross before
// hitting an obstacle or edge. If stranding rises faster than the
// runway length in any one direction, the cell beyond it is a corridor
// no other color can ever cross — a bottleneck.
func Bottleneck(s *puzzle.State, colorID int) bool {
	type probe struct{ dr, dc int }
	for _, p := range []probe{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		if runwayIsBottleneck(s, colorID, p.dr, p.dc) {
			return true
		}
	}
	return false
}

func runwayIsBottleneck(s *puzzle.State, colorID, dr, dc int) bool {
	scratch := s.Clone()
	row, col := s.Head.R, s.Head.C
	steps := 1

	for {
		nr, nc := row+dr*steps, col+dc*steps
		if nr < 0 || nr >= s.N || nc < 0 || nc >= s.N {
			break
		}
		if scratch.At(nr, nc) != puzzle.Free {
			break
		}
		scratch.PerformMove(nr, nc, colorID)
		steps++
	}

	stranded := countStranded(scratch, true).Stranded
	return stranded > steps-1
}
