package simulation

import "math/rand"

// fifo is a bounded first-in-first-out queue. The zero value is not usable;
// construct with newFIFO. It is not safe for concurrent use; callers hold
// the owning side's lock.
type fifo[T any] struct {
	items []T
	bound int
}

func newFIFO[T any](bound int) *fifo[T] {
	return &fifo[T]{bound: bound}
}

// Push appends to the tail. It reports false when the queue is at its bound.
func (q *fifo[T]) Push(item T) bool {
	if len(q.items) >= q.bound {
		return false
	}
	q.items = append(q.items, item)
	return true
}

// Pop removes and returns the head.
func (q *fifo[T]) Pop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	head := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return head, true
}

func (q *fifo[T]) Len() int {
	return len(q.items)
}

// Items returns a snapshot copy in queue order.
func (q *fifo[T]) Items() []T {
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}

// RemoveFunc removes every item the predicate accepts, preserving the order
// of both the removed items and the remainder. The predicate is called in
// queue order, so a stateful predicate can cap how much it takes.
func (q *fifo[T]) RemoveFunc(take func(T) bool) []T {
	var removed []T
	kept := q.items[:0]
	for _, item := range q.items {
		if take(item) {
			removed = append(removed, item)
		} else {
			kept = append(kept, item)
		}
	}
	var zero T
	for i := len(kept); i < len(q.items); i++ {
		q.items[i] = zero
	}
	q.items = kept
	return removed
}

// Shuffle randomizes the queue order in place (Fisher-Yates).
func (q *fifo[T]) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(q.items), func(i, j int) {
		q.items[i], q.items[j] = q.items[j], q.items[i]
	})
}
