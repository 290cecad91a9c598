package planner

import "container/heap"

// Queue is a min-priority queue. Equal priorities pop in push order, so
// rankings are reproducible for a given enumeration order.
type Queue[T any] struct {
	h   queueHeap[T]
	seq int
}

type queueItem[T any] struct {
	prio  int
	seq   int
	value T
}

type queueHeap[T any] []queueItem[T]

func (h queueHeap[T]) Len() int { return len(h) }
func (h queueHeap[T]) Less(i, j int) bool {
	if h[i].prio != h[j].prio {
		return h[i].prio < h[j].prio
	}
	return h[i].seq < h[j].seq
}
func (h queueHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *queueHeap[T]) Push(x any)   { *h = append(*h, x.(queueItem[T])) }
func (h *queueHeap[T]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

func (q *Queue[T]) Push(prio int, v T) {
	heap.Push(&q.h, queueItem[T]{prio: prio, seq: q.seq, value: v})
	q.seq++
}

// Pop removes the lowest-priority item. ok is false when the queue is empty.
func (q *Queue[T]) Pop() (v T, prio int, ok bool) {
	if len(q.h) == 0 {
		return v, 0, false
	}
	it := heap.Pop(&q.h).(queueItem[T])
	return it.value, it.prio, true
}

func (q *Queue[T]) Len() int { return len(q.h) }

// Drain pops everything in priority order.
func (q *Queue[T]) Drain() []T {
	out := make([]T, 0, len(q.h))
	for {
		v, _, ok := q.Pop()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}
