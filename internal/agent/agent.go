// Package agent implements one color's A* search worker: its own open
// heap, its own closed list, and the fast-forwarding/pruning/broadcast
// logic that lets a finished color hand its board to a color that
// hasn't started yet.
package agent

import (
	"container/heap"
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/flowfree/solver/internal/pruner"
	"github.com/flowfree/solver/internal/puzzle"
)

// Agent owns the search for a single color. It is not safe for
// concurrent use by more than one goroutine; coordinator runs exactly
// one goroutine per Agent.
type Agent struct {
	PlayerNum int
	Source    puzzle.Coord
	Target    puzzle.Coord

	open openHeap
	// closed maps a board's content key to the best (lowest) priority at
	// which it has been expanded or rejected so far, so a successor whose
	// board was already seen at an equal-or-better cost can be skipped.
	closed map[string]int

	CurrState            *puzzle.State
	BoardCompleteOwnPath *puzzle.State
	finished             bool

	expandedStates int64

	// SkipBottleneck disables the directional bottleneck predicate, the
	// most expensive of the four admissibility checks. Set before Run.
	SkipBottleneck bool

	Hub  Hub
	Wake chan struct{}

	log *logrus.Entry
}

// New builds an Agent for playerNum, seated at init with its head set to
// source. init is owned by this Agent from here on.
func New(playerNum int, init *puzzle.State, source, target puzzle.Coord, hub Hub, log *logrus.Entry) *Agent {
	init.SetHead(source.R, source.C)
	return &Agent{
		PlayerNum: playerNum,
		Source:    source,
		Target:    target,
		CurrState: init,
		closed:    make(map[string]int),
		Hub:       hub,
		Wake:      make(chan struct{}, 1),
		log:       log.WithField("color", playerNum),
	}
}

// ExpandedStates returns the running count of States this Agent has
// expanded, safe to read from another goroutine.
func (a *Agent) ExpandedStates() int64 { return atomic.LoadInt64(&a.expandedStates) }

// Run performs the multiagent A* loop for this Agent until the Hub
// reports Stopped (a global goal, or every color idle) or ctx is canceled. It is the goroutine body the
// coordinator launches per color.
func (a *Agent) Run(ctx context.Context) {
	a.log.Debug("agent starting")
	a.expand(a.CurrState)
	atomic.AddInt64(&a.expandedStates, 1)

	for !a.Hub.Stopped() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if s, ok := a.Hub.TryDequeue(a.PlayerNum); ok {
			a.CurrState = s
			a.expand(s)
			atomic.AddInt64(&a.expandedStates, 1)
			continue
		}

		if len(a.open) > 0 {
			a.CurrState = heap.Pop(&a.open).(*puzzle.State)
			a.expand(a.CurrState)
			atomic.AddInt64(&a.expandedStates, 1)
			continue
		}

		// EnterIdleOrDequeue re-checks the inbox and marks this color
		// idle in the same locked step, so a sibling's Post can never
		// land in the gap between our empty-open-heap check and going
		// idle. If it finds a State waiting after all, expand it instead
		// of blocking.
		if s, ok := a.Hub.EnterIdleOrDequeue(a.PlayerNum); ok {
			a.CurrState = s
			a.expand(s)
			atomic.AddInt64(&a.expandedStates, 1)
			continue
		}

		select {
		case <-a.Wake:
		case <-ctx.Done():
			return
		}
	}
}

// markClosed records state's board as seen at its current priority, so a
// later successor with the same board contents at an equal-or-worse cost
// can be skipped instead of re-expanded.
func (a *Agent) markClosed(state *puzzle.State) {
	key := state.BoardKey()
	if f, ok := a.closed[key]; !ok || state.Priority() < f {
		a.closed[key] = state.Priority()
	}
}

// admitsReopen reports whether s's board either hasn't been closed yet or
// was previously closed at a worse cost.
func (a *Agent) admitsReopen(s *puzzle.State) bool {
	f, ok := a.closed[s.BoardKey()]
	return !ok || f > s.Priority()
}

// expand marks state visited, generates its legal successors, and
// broadcasts this color's completed flow to unstarted colors once it
// reaches its own goal.
func (a *Agent) expand(state *puzzle.State) {
	a.markClosed(state)
	if state.IsAgentGoalState(a.PlayerNum) {
		return
	}

	for _, s := range a.findSuccessors(state) {
		if a.admitsReopen(s) {
			heap.Push(&a.open, s)
		}
	}

	if a.finished {
		a.finished = false
		a.broadcastMissAgents()
	}
}

// findSuccessors fast-forwards through forced single-move chains in
// place, then branches on any State with more than one legal move,
// discarding anything the pruner rejects along the way.
//
// A pruner rejection during fast-forwarding stops the chain immediately
// rather than retrying with the unchanged move list: the in-place
// mutation already happened, so there is no unmutated State left to
// retry from.
func (a *Agent) findSuccessors(state *puzzle.State) []*puzzle.State {
	moves := state.PossibleMoves()
	for len(moves) == 1 {
		state.PerformMove(moves[0].R, moves[0].C, a.PlayerNum)
		atomic.AddInt64(&a.expandedStates, 1)
		if a.processState(state) {
			return nil
		}
		moves = state.PossibleMoves()
	}

	successors := make([]*puzzle.State, 0, len(moves))
	for _, mv := range moves {
		successor := state.Clone()
		successor.PerformMove(mv.R, mv.C, a.PlayerNum)
		if !a.processState(successor) {
			successors = append(successors, successor)
		}
	}
	return successors
}

// processState runs the four admissibility predicates and the
// self-goal check. It reports true whenever state should not be
// expanded further, whether because it was pruned or because it already
// completed this color's flow.
func (a *Agent) processState(state *puzzle.State) bool {
	if pruner.BlockedAgent(state, a.PlayerNum) ||
		pruner.DeadEnd(state) ||
		pruner.StrandedColorOrRegion(state) ||
		(!a.SkipBottleneck && pruner.Bottleneck(state, a.PlayerNum)) {
		a.markClosed(state)
		return true
	}

	if state.IsAgentGoalState(a.PlayerNum) {
		state.Finished[a.PlayerNum] = true
		a.markClosed(state)
		a.BoardCompleteOwnPath = state.Clone()
		a.finished = true
		return true
	}

	return false
}

// broadcastMissAgents posts a copy of this color's completed board to
// every color that hasn't played yet, seating each copy at that color's
// own source with g reset to zero so the receiving agent prioritizes it
// over whatever it already has open. If every color is already marked
// finished in the posted board, the global goal has been found.
func (a *Agent) broadcastMissAgents() {
	notFinished := 0
	for color, done := range a.BoardCompleteOwnPath.Finished {
		if done {
			continue
		}
		notFinished++

		clone := a.BoardCompleteOwnPath.Clone()
		clone.G = 0
		clone.SetHead(clone.Sources[color].R, clone.Sources[color].C)
		clone.Finished[a.PlayerNum] = true

		a.Hub.Post(color, clone)
	}

	if notFinished == 0 {
		a.Hub.AnnounceGoal(a.BoardCompleteOwnPath)
	}
}
