package simulation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFIFOOrderAndBound(t *testing.T) {
	q := newFIFO[int](3)

	assert.True(t, q.Push(1))
	assert.True(t, q.Push(2))
	assert.True(t, q.Push(3))
	assert.False(t, q.Push(4), "bound reached")
	assert.Equal(t, 3, q.Len())

	head, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, 1, head)

	assert.True(t, q.Push(4), "capacity freed by pop")
	assert.Equal(t, []int{2, 3, 4}, q.Items())

	q.Pop()
	q.Pop()
	q.Pop()
	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestFIFORemoveFunc(t *testing.T) {
	q := newFIFO[int](10)
	for _, n := range []int{3, 1, 2, 1, 3} {
		q.Push(n)
	}

	// Stateful predicate: take values while they fit a budget of 4,
	// the same shape the ferry load loop uses.
	budget := 4
	taken := q.RemoveFunc(func(n int) bool {
		if n <= budget {
			budget -= n
			return true
		}
		return false
	})

	assert.Equal(t, []int{3, 1}, taken)
	assert.Equal(t, []int{2, 1, 3}, q.Items(), "remainder keeps its order")
}

func TestFIFOShuffleKeepsContents(t *testing.T) {
	q := newFIFO[int](10)
	for i := 1; i <= 6; i++ {
		q.Push(i)
	}

	q.Shuffle(rand.New(rand.NewSource(1)))

	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6}, q.Items())
	assert.Equal(t, 6, q.Len())
}
