package puzzle

import "github.com/flowfree/solver/internal/gridkit"

// CheckMoveValid reports whether (r, c) is in-bounds, FREE, and has at
// least one orthogonal neighbor already owned by the active player.
func (s *State) CheckMoveValid(r, c int) bool {
	coord := Coord{R: r, C: c}
	if !coord.InBounds(s.N) {
		return false
	}
	if s.At(r, c) != Free {
		return false
	}
	return s.hasPlayerNeighbour(r, c)
}

func (s *State) hasPlayerNeighbour(r, c int) bool {
	coord := Coord{R: r, C: c}
	for _, d := range gridkit.Deltas {
		n := coord.Add(d)
		if n.InBounds(s.N) && int(s.At(n.R, n.C)) == s.Player {
			return true
		}
	}
	return false
}

// NumFreeNeighbours counts the FREE orthogonal neighbors of (r, c).
func (s *State) NumFreeNeighbours(r, c int) int {
	coord := Coord{R: r, C: c}
	count := 0
	for _, d := range gridkit.Deltas {
		n := coord.Add(d)
		if n.InBounds(s.N) && s.At(n.R, n.C) == Free {
			count++
		}
	}
	return count
}

// IsAgentGoalState reports whether c is the active player and its head is
// orthogonally adjacent to color c's target. The target cell itself is
// never entered; adjacency suffices because the target was pre-colored.
func (s *State) IsAgentGoalState(c int) bool {
	if s.Player != c {
		return false
	}
	return s.Head.IsAdjacent(s.Targets[c])
}

// IsHeadANeighbour reports whether the current head is adjacent to
// (r, c).
func (s *State) IsHeadANeighbour(r, c int) bool {
	return s.Head.IsAdjacent(Coord{R: r, C: c})
}

// EdgepointsNeighbourDidntFinish reports whether some orthogonal neighbor
// of (r, c) is an endpoint of a color that has not finished yet.
func (s *State) EdgepointsNeighbourDidntFinish(r, c int) bool {
	coord := Coord{R: r, C: c}
	for _, d := range gridkit.Deltas {
		n := coord.Add(d)
		if !n.InBounds(s.N) {
			continue
		}
		if color, ok := s.endpointColor[n]; ok && !s.Finished[color] {
			return true
		}
	}
	return false
}

// PossibleMoves returns the in-bounds, FREE, player-adjacent cells among
// the four neighbors of Head.
func (s *State) PossibleMoves() []Coord {
	moves := make([]Coord, 0, 4)
	for _, d := range gridkit.Deltas {
		n := s.Head.Add(d)
		if s.CheckMoveValid(n.R, n.C) {
			moves = append(moves, n)
		}
	}
	return moves
}

// PerformMove applies a move at (r, c) for colorID. It rejects (Applied
// false, board unchanged) if the move is illegal or colorID is not a
// known color; the rejection is silent and non-fatal since upstream
// callers are expected to have already filtered illegal moves.
//
// State never reaches back into its caller: PerformMove reports what
// happened through the returned MoveResult instead of mutating caller
// state directly.
func (s *State) PerformMove(r, c, colorID int) MoveResult {
	if colorID < 0 || colorID >= s.K || !s.CheckMoveValid(r, c) {
		return MoveResult{}
	}

	s.Board[s.idx(r, c)] = gridkit.Cell(colorID)
	s.Head = Coord{R: r, C: c}
	s.Player = colorID
	s.H--

	if s.Targets[colorID] == s.Head {
		s.Finished[colorID] = true
		return MoveResult{Applied: true, ReachedGoal: true}
	}

	successors := s.PossibleMoves()
	forced := len(successors) == 1 || s.NumFreeNeighbours(r, c) == 1 || s.IsAgentGoalState(colorID)
	if !forced {
		s.G++
	}

	return MoveResult{Applied: true, WasForced: forced}
}
