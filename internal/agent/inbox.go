package agent

import (
	"container/heap"

	"github.com/flowfree/solver/internal/puzzle"
)

// Inbox is a min-heap of States ordered by Priority, the per-color
// mailbox a finished agent posts into so an unstarted agent picks up a
// State with its own flow already completed, instead of discovering it
// by blind search. It carries no lock of its own: every access goes
// through the coordinator's mutex, alongside the idle bookkeeping that
// decides whether to block on it, so a dequeue-or-go-idle decision can
// never miss a concurrent post.
type Inbox struct {
	heap inboxHeap
}

// NewInbox returns an empty mailbox.
func NewInbox() *Inbox { return &Inbox{} }

// Len reports how many States are queued.
func (b *Inbox) Len() int { return len(b.heap) }

// Push enqueues a State for the owning agent to pick up.
func (b *Inbox) Push(s *puzzle.State) { heap.Push(&b.heap, s) }

// Pop removes and returns the lowest-priority queued State, if any.
func (b *Inbox) Pop() (*puzzle.State, bool) {
	if len(b.heap) == 0 {
		return nil, false
	}
	return heap.Pop(&b.heap).(*puzzle.State), true
}

type inboxHeap []*puzzle.State

func (h inboxHeap) Len() int            { return len(h) }
func (h inboxHeap) Less(i, j int) bool  { return h[i].Less(h[j]) }
func (h inboxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *inboxHeap) Push(x interface{}) { *h = append(*h, x.(*puzzle.State)) }

func (h *inboxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Hub is the coordinator-side surface an Agent needs: dequeuing its own
// mailbox, waking a sleeping agent, and announcing the global goal once
// every color has finished. Keeping this as an interface (rather than
// importing the coordinator package directly) avoids a cycle between
// agent and coordinator.
//
// Every method that touches an inbox or the idle count is implemented
// under the coordinator's single shared mutex, so an agent's
// dequeue-or-go-idle decision and a sibling's post into that same
// mailbox can never interleave into a lost wakeup.
type Hub interface {
	Wake(color int)
	AnnounceGoal(state *puzzle.State)
	GoalReached() bool

	// Stopped reports whether the search has ended, either by a
	// solution (GoalReached) or by every color going idle at once.
	Stopped() bool

	// TryDequeue pops color's own inbox if it has anything queued.
	TryDequeue(color int) (*puzzle.State, bool)

	// EnterIdleOrDequeue re-checks color's inbox and, only if it is
	// still empty, marks color idle in the same locked step. It reports
	// whatever State it found (if any) alongside the usual ok. Callers
	// block on their Wake channel only when ok is false.
	EnterIdleOrDequeue(color int) (*puzzle.State, bool)

	// Post pushes state onto color's inbox, clears color's idle mark
	// (reverting any unsolvable verdict that mark contributed to), and
	// wakes color.
	Post(color int, state *puzzle.State)
}
