package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsTasks(t *testing.T) {
	q := NewQueue(2, 8)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		ok := q.Enqueue("count", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
		require.True(t, ok)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	assert.Equal(t, int32(5), ran.Load())
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(1, 1)

	release := make(chan struct{})
	started := make(chan struct{})
	q.Enqueue("block", func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started

	// Worker is busy; the buffer holds one task, anything past that drops
	assert.True(t, q.Enqueue("buffered", func(ctx context.Context) error { return nil }))
	assert.False(t, q.Enqueue("dropped", func(ctx context.Context) error { return nil }))

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)
}

func TestQueueRecoversFromPanic(t *testing.T) {
	q := NewQueue(1, 8)

	var ran atomic.Bool
	q.Enqueue("panics", func(ctx context.Context) error {
		panic("boom")
	})
	q.Enqueue("survives", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	assert.True(t, ran.Load())
}

func TestQueueRejectsAfterShutdown(t *testing.T) {
	q := NewQueue(1, 8)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	assert.False(t, q.Enqueue("late", func(ctx context.Context) error { return nil }))
}
