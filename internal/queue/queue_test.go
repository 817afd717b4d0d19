package queue

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopOrder(t *testing.T) {
	q := New[int]()
	q.Push(1, 2)
	q.Push(3)

	assert.Equal(t, 3, q.Len())

	for want := 1; want <= 3; want++ {
		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	q := New[string]()
	q.Push("a", "b")
	q.Clear()

	assert.Equal(t, 0, q.Len())
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestDrainProcessesEverything(t *testing.T) {
	q := New[int]()
	for i := 0; i < 100; i++ {
		q.Push(i)
	}

	var sum atomic.Int64
	err := Drain(q, 4, func(n int) error {
		sum.Add(int64(n))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4950), sum.Load())
	assert.Equal(t, 0, q.Len())
}

func TestDrainStopsOnError(t *testing.T) {
	q := New[int]()
	for i := 0; i < 50; i++ {
		q.Push(i)
	}

	boom := errors.New("boom")
	err := Drain(q, 1, func(n int) error {
		if n == 10 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, q.Len(), "remaining items are cleared on error")
}

func TestDrainZeroWorkers(t *testing.T) {
	q := New[int]()
	q.Push(1, 2, 3)

	var count atomic.Int64
	err := Drain(q, 0, func(int) error {
		count.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count.Load())
}

func TestConcurrentPush(t *testing.T) {
	q := New[int]()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(j)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, q.Len())
}
