package agent

import "github.com/flowfree/solver/internal/puzzle"

// openHeap is the per-agent open list: a minimum priority queue of States
// ordered by f = g + h.
type openHeap []*puzzle.State

func (h openHeap) Len() int            { return len(h) }
func (h openHeap) Less(i, j int) bool  { return h[i].Less(h[j]) }
func (h openHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x interface{}) { *h = append(*h, x.(*puzzle.State)) }

func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
