package puzzle

import (
	"fmt"
	"strings"
)

// String renders the board as a compact debug grid: '.' for FREE, the
// color id otherwise. It is not the human-facing renderer (see the
// render package) — this is for log lines and test failure messages.
func (s *State) String() string {
	var b strings.Builder
	for r := 0; r < s.N; r++ {
		for c := 0; c < s.N; c++ {
			v := s.At(r, c)
			if v == Free {
				b.WriteByte('.')
			} else {
				fmt.Fprintf(&b, "%d", v)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// IsGoal reports whether every color is finished and no FREE cell
// remains: the puzzle is completely and correctly filled in.
func (s *State) IsGoal() bool {
	if s.H != 0 {
		return false
	}
	for _, f := range s.Finished {
		if !f {
			return false
		}
	}
	return true
}

// CountFree recomputes the number of FREE cells directly from the board,
// independent of the incrementally maintained H field. Useful for tests
// that want to check H against ground truth rather than trust its own
// bookkeeping.
func (s *State) CountFree() int {
	count := 0
	for _, v := range s.Board {
		if v == Free {
			count++
		}
	}
	return count
}
