package ratelimit

import (
	"container/heap"
	"time"
)

// rollingWindow holds the expiry times of admitted requests for one key.
type rollingWindow struct {
	heap expiryHeap
}

type expiryHeap []time.Time

func (h expiryHeap) Len() int { return len(h) }

func (h expiryHeap) Less(i, j int) bool { return h[i].Before(h[j]) }

func (h expiryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *expiryHeap) Push(x any) {
	*h = append(*h, x.(time.Time))
}

func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// cleanup drops every entry that has expired by now.
func (w *rollingWindow) cleanup(now time.Time) {
	for w.heap.Len() > 0 && !w.heap[0].After(now) {
		heap.Pop(&w.heap)
	}
}

func (w *rollingWindow) add(expiresAt time.Time) {
	heap.Push(&w.heap, expiresAt)
}

func (w *rollingWindow) used() int {
	return w.heap.Len()
}

// nextExpiry is the time the oldest admitted request leaves the window.
func (w *rollingWindow) nextExpiry() time.Time {
	return w.heap[0]
}
