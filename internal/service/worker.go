package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Task is one unit of background work
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Queue is the internal work queue for fire-and-forget recomputation
// (metrics recalculation, subject classification, progress creation).
// Failures are logged and swallowed; a full queue drops the task rather
// than blocking the request path. Shutdown drains what was accepted.
type Queue struct {
	tasks  chan Task
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewQueue starts a queue with the given worker count and buffer size
func NewQueue(workers, size int) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if size <= 0 {
		size = 64
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		tasks:  make(chan Task, size),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for task := range q.tasks {
		q.run(task)
	}
}

func (q *Queue) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("task", task.Name).Msg("background task panicked")
		}
	}()

	if err := task.Run(q.ctx); err != nil {
		log.Error().Err(err).Str("task", task.Name).Msg("background task failed")
	}
}

// Enqueue submits a task without blocking. Returns false when the queue is
// full or shut down and the task was dropped.
func (q *Queue) Enqueue(name string, fn func(ctx context.Context) error) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}

	select {
	case q.tasks <- Task{Name: name, Run: fn}:
		return true
	default:
		log.Warn().Str("task", name).Msg("work queue full, dropping task")
		return false
	}
}

// Shutdown stops accepting work and waits for in-flight tasks to drain,
// giving up when ctx expires.
func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Warn().Msg("work queue shutdown timed out, abandoning remaining tasks")
	}
	q.cancel()
}
