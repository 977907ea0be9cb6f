// Package coordinator spawns one agent goroutine per color and wires
// them together through per-color mailboxes and a single goal latch.
package coordinator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flowfree/solver/internal/agent"
	"github.com/flowfree/solver/internal/puzzle"
)

// SolveReport is the ambient result record a driver (CLI, server, test)
// reads after Solve returns: the solved board plus per-color search
// statistics that aren't part of the core puzzle model.
type SolveReport struct {
	Solved          bool
	Board           *puzzle.State
	Elapsed         time.Duration
	ExpandedByColor []int64
	TotalExpanded   int64
}

// Coordinator owns the per-color agents and the shared goal latch. It
// implements agent.Hub so each Agent can post to a sibling's mailbox,
// wake it, and announce the solution without importing this package.
type Coordinator struct {
	init   *puzzle.State
	agents []*agent.Agent

	// mu guards inboxes, idle and idleCount together: an agent's
	// dequeue-or-go-idle decision and a sibling's post into that same
	// mailbox always happen under the same lock, so neither can observe
	// a half-finished update from the other.
	mu        sync.Mutex
	inboxes   []*agent.Inbox
	idle      []bool
	idleCount int

	goalMu     sync.Mutex
	goalState  *puzzle.State
	goalFound  atomic.Bool
	unsolvable atomic.Bool

	log *logrus.Logger
}

// New builds a Coordinator for init, one Agent per color. init is
// consumed: each Agent gets its own clone seated at that color's source.
func New(init *puzzle.State, log *logrus.Logger) *Coordinator {
	if log == nil {
		log = logrus.New()
	}
	co := &Coordinator{
		init:    init,
		agents:  make([]*agent.Agent, init.K),
		inboxes: make([]*agent.Inbox, init.K),
		idle:    make([]bool, init.K),
		log:     log,
	}
	for c := 0; c < init.K; c++ {
		co.inboxes[c] = agent.NewInbox()
	}
	for c := 0; c < init.K; c++ {
		co.agents[c] = agent.New(c, init.Clone(), init.Sources[c], init.Targets[c], co, log.WithField("component", "agent"))
	}
	return co
}

// Wake implements agent.Hub.
func (co *Coordinator) Wake(color int) {
	select {
	case co.agents[color].Wake <- struct{}{}:
	default:
	}
}

func (co *Coordinator) wakeAll() {
	for _, a := range co.agents {
		select {
		case a.Wake <- struct{}{}:
		default:
		}
	}
}

// AnnounceGoal implements agent.Hub: it latches the winning board once,
// then wakes every agent so each observes Stopped and returns.
func (co *Coordinator) AnnounceGoal(state *puzzle.State) {
	if !co.goalFound.CompareAndSwap(false, true) {
		return
	}
	co.goalMu.Lock()
	co.goalState = state
	co.goalMu.Unlock()
	co.wakeAll()
}

// GoalReached implements agent.Hub.
func (co *Coordinator) GoalReached() bool { return co.goalFound.Load() }

// Snapshot reads the live expanded-node count for every color, safe to
// call from another goroutine while Solve is still running.
func (co *Coordinator) Snapshot() []int64 {
	counts := make([]int64, len(co.agents))
	for i, a := range co.agents {
		counts[i] = a.ExpandedStates()
	}
	return counts
}

// Stopped implements agent.Hub.
func (co *Coordinator) Stopped() bool { return co.goalFound.Load() || co.unsolvable.Load() }

// TryDequeue implements agent.Hub.
func (co *Coordinator) TryDequeue(color int) (*puzzle.State, bool) {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.inboxes[color].Pop()
}

// EnterIdleOrDequeue implements agent.Hub. Re-checking the inbox and
// marking idle happen under the same lock, so a Post that arrived after
// the caller last saw an empty inbox is never missed: either Post ran
// first and this call dequeues it, or this call marks idle first and
// Post's own clearIdleLocked call reverses it.
func (co *Coordinator) EnterIdleOrDequeue(color int) (*puzzle.State, bool) {
	co.mu.Lock()
	defer co.mu.Unlock()
	if s, ok := co.inboxes[color].Pop(); ok {
		return s, true
	}
	co.markIdleLocked(color)
	return nil, false
}

// Post implements agent.Hub.
func (co *Coordinator) Post(color int, state *puzzle.State) {
	co.mu.Lock()
	co.inboxes[color].Push(state)
	co.clearIdleLocked(color)
	co.mu.Unlock()
	co.Wake(color)
}

// markIdleLocked records that color has nothing left to expand and is
// about to block on its Wake channel. Idempotent: a color already
// marked idle does not get counted twice. When every color goes idle at
// the same instant, no agent can ever post fresh work to another again,
// so the puzzle has no solution: latch unsolvable and wake everyone.
func (co *Coordinator) markIdleLocked(color int) {
	if co.idle[color] {
		return
	}
	co.idle[color] = true
	co.idleCount++
	if co.idleCount == len(co.agents) {
		co.unsolvable.Store(true)
		co.wakeAll()
	}
}

// clearIdleLocked reverses markIdleLocked for color. It also resets
// unsolvable: if color had contributed to an all-idle verdict, fresh
// work just arrived for it and that verdict no longer holds.
func (co *Coordinator) clearIdleLocked(color int) {
	if !co.idle[color] {
		return
	}
	co.idle[color] = false
	co.idleCount--
	co.unsolvable.Store(false)
}

// SetAdvancedPruning toggles the bottleneck predicate on every agent; the
// other three admissibility checks are always on. Must be called before
// Solve.
func (co *Coordinator) SetAdvancedPruning(enabled bool) {
	for _, a := range co.agents {
		a.SkipBottleneck = !enabled
	}
}

// Solve launches every color's agent and blocks until the global goal
// is found, every agent has gone idle at once (ErrUnsolvable), or ctx is
// canceled.
func (co *Coordinator) Solve(ctx context.Context) (*SolveReport, error) {
	start := time.Now()

	// A board with nothing to search (no colors, no FREE cells) is its
	// own goal; spawning zero workers would otherwise report unsolvable.
	if co.init.IsGoal() {
		return &SolveReport{
			Solved:          true,
			Board:           co.init,
			Elapsed:         time.Since(start),
			ExpandedByColor: make([]int64, len(co.agents)),
		}, nil
	}

	var wg sync.WaitGroup
	for _, a := range co.agents {
		wg.Add(1)
		go func(a *agent.Agent) {
			defer wg.Done()
			a.Run(ctx)
		}(a)
	}
	wg.Wait()

	report := &SolveReport{
		Elapsed:         time.Since(start),
		ExpandedByColor: make([]int64, len(co.agents)),
	}
	for i, a := range co.agents {
		n := a.ExpandedStates()
		report.ExpandedByColor[i] = n
		report.TotalExpanded += n
	}

	if err := ctx.Err(); err != nil && !co.GoalReached() {
		return report, fmt.Errorf("%w: %v", puzzle.ErrInterrupted, err)
	}

	co.goalMu.Lock()
	report.Board = co.goalState
	co.goalMu.Unlock()

	if report.Board == nil {
		return report, puzzle.ErrUnsolvable
	}
	report.Solved = true
	return report, nil
}
