package agent

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/flowfree/solver/internal/puzzle"
)

type fakeHub struct {
	mu         sync.Mutex
	inboxes    map[int]*Inbox
	idle       map[int]bool
	woken      []int
	goal       *puzzle.State
	idleCount  int
	unsolvable bool
}

func newFakeHub(colors int) *fakeHub {
	h := &fakeHub{inboxes: make(map[int]*Inbox), idle: make(map[int]bool)}
	for c := 0; c < colors; c++ {
		h.inboxes[c] = NewInbox()
	}
	return h
}

func (h *fakeHub) Wake(color int) {
	h.mu.Lock()
	h.woken = append(h.woken, color)
	h.mu.Unlock()
}

func (h *fakeHub) AnnounceGoal(state *puzzle.State) {
	h.mu.Lock()
	h.goal = state
	h.mu.Unlock()
}

func (h *fakeHub) GoalReached() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.goal != nil
}

func (h *fakeHub) Stopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.goal != nil || h.unsolvable
}

func (h *fakeHub) TryDequeue(color int) (*puzzle.State, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inboxes[color].Pop()
}

func (h *fakeHub) EnterIdleOrDequeue(color int) (*puzzle.State, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.inboxes[color].Pop(); ok {
		return s, true
	}
	if !h.idle[color] {
		h.idle[color] = true
		h.idleCount++
		if h.idleCount == len(h.inboxes) {
			h.unsolvable = true
		}
	}
	return nil, false
}

func (h *fakeHub) Post(color int, state *puzzle.State) {
	h.mu.Lock()
	h.inboxes[color].Push(state)
	if h.idle[color] {
		h.idle[color] = false
		h.idleCount--
		h.unsolvable = false
	}
	h.mu.Unlock()
	h.Wake(color)
}

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func TestExpandReachesGoalAndAnnouncesOnSingleColorBoard(t *testing.T) {
	rows := []string{
		"R.",
		".R",
	}
	s, err := puzzle.New(2, rows, map[byte]int{'R': 0})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	hub := newFakeHub(1)
	a := New(0, s, s.Sources[0], s.Targets[0], hub, testLog())

	a.expand(a.CurrState)

	if !hub.GoalReached() {
		t.Fatal("expected single-color board to reach the global goal after one expand")
	}
}

func TestBroadcastMissAgentsPostsToUnfinishedColorOnly(t *testing.T) {
	rows := []string{
		"R.G",
		"...",
		"G.R",
	}
	s, err := puzzle.New(3, rows, map[byte]int{'R': 0, 'G': 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	hub := newFakeHub(2)
	a := New(0, s, s.Sources[0], s.Targets[0], hub, testLog())

	a.BoardCompleteOwnPath = s.Clone()
	a.BoardCompleteOwnPath.Finished[0] = true

	a.broadcastMissAgents()

	if hub.GoalReached() {
		t.Fatal("goal must not be announced while color 1 hasn't finished")
	}
	handoff, ok := hub.inboxes[1].Pop()
	if !ok {
		t.Fatal("expected a posted State in color 1's inbox")
	}
	if handoff.Player != 1 {
		t.Errorf("handoff Player = %d, want 1 (re-rooted to the receiver's source)", handoff.Player)
	}
	if handoff.Head != s.Sources[1] {
		t.Errorf("handoff Head = %v, want the receiver's source %v", handoff.Head, s.Sources[1])
	}
	if !handoff.Finished[0] {
		t.Error("handoff must carry the sender's finished flag")
	}
	if handoff.G != 0 {
		t.Errorf("handoff G = %d, want 0 so the receiver prioritizes it", handoff.G)
	}
	if handoff.H != a.BoardCompleteOwnPath.H {
		t.Errorf("handoff H = %d, want %d (free-cell count preserved)", handoff.H, a.BoardCompleteOwnPath.H)
	}
	if len(hub.woken) != 1 || hub.woken[0] != 1 {
		t.Fatalf("woken = %v, want [1]", hub.woken)
	}
}

func TestProcessStateRejectsBlockedState(t *testing.T) {
	rows := []string{
		"GR.",
		"R..",
		"..G",
	}
	s, err := puzzle.New(3, rows, map[byte]int{'G': 0, 'R': 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	hub := newFakeHub(2)
	a := New(1, s, s.Sources[1], s.Targets[1], hub, testLog())

	// G's endpoint is already surrounded by R before any move: a blocked
	// agent, so the State R starts from must already be rejected.
	if !a.processState(a.CurrState) {
		t.Fatal("expected the blocked-agent predicate to reject the current State")
	}
}

func TestSkipBottleneckDisablesOnlyTheBottleneckPredicate(t *testing.T) {
	// P's only way right consumes the single cell bridging A's and B's
	// endpoint regions, stranding two colors for one consumed cell: the
	// bottleneck predicate rejects this State and nothing else does.
	rows := []string{
		"A.B",
		"P.P",
		"A.B",
	}
	s, err := puzzle.New(3, rows, map[byte]int{'A': 0, 'P': 1, 'B': 2})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	hub := newFakeHub(3)
	a := New(1, s, s.Sources[1], s.Targets[1], hub, testLog())

	if !a.processState(a.CurrState) {
		t.Fatal("expected the bottleneck predicate to reject the corridor State")
	}

	a.SkipBottleneck = true
	if a.processState(a.CurrState) {
		t.Fatal("with SkipBottleneck set, no remaining predicate should reject the corridor State")
	}
}

func TestPostRevertsAFalseUnsolvableLatch(t *testing.T) {
	hub := newFakeHub(2)

	if _, ok := hub.EnterIdleOrDequeue(0); ok {
		t.Fatal("expected color 0 to have nothing queued yet")
	}
	if _, ok := hub.EnterIdleOrDequeue(1); ok {
		t.Fatal("expected color 1 to have nothing queued yet")
	}
	if !hub.unsolvable {
		t.Fatal("expected both colors idle at once to latch unsolvable")
	}

	dummy, err := puzzle.New(2, []string{"R.", ".R"}, map[byte]int{'R': 0})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// A sibling's post for color 0 arrives after the all-idle latch: the
	// puzzle is not actually unsolvable, so the latch must be reverted.
	hub.Post(0, dummy)

	if hub.unsolvable {
		t.Fatal("Post must revert the unsolvable latch once fresh work arrives")
	}
	if s, ok := hub.TryDequeue(0); !ok || s != dummy {
		t.Fatal("expected color 0's posted State to still be dequeueable")
	}
}
