package driver

import (
	"container/heap"
	"context"
	"time"
)

type timer struct {
	at  time.Time
	seq uint64
	fn  func(context.Context)
}

// timerQueue orders timers by due time, then by the order they were added.
type timerQueue struct {
	items timerHeap
}

func (q *timerQueue) Len() int {
	return len(q.items)
}

func (q *timerQueue) push(t *timer) {
	heap.Push(&q.items, t)
}

func (q *timerQueue) peek() *timer {
	return q.items[0]
}

func (q *timerQueue) pop() *timer {
	return heap.Pop(&q.items).(*timer)
}

type timerHeap []*timer

func (h timerHeap) Len() int {
	return len(h)
}

func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *timerHeap) Push(x any) {
	*h = append(*h, x.(*timer))
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
