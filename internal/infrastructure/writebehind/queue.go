// Package writebehind applies durable writes asynchronously behind the in-memory caches.
package writebehind

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

const DefaultSize = 256

// ErrClosed is returned when work is offered to a stopped queue.
var ErrClosed = errors.New("write-behind queue closed")

// Op is a single durable write.
type Op func(ctx context.Context) error

type job struct {
	name string
	op   Op
	done chan struct{}
}

// Queue runs durable writes one at a time, in the order they were enqueued, on a single
// worker goroutine. Failures are logged and counted but never retried.
type Queue struct {
	logger   *logrus.Logger
	jobs     chan job
	stopped  chan struct{}
	failures atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// New starts a queue buffering up to size pending writes.
func New(logger *logrus.Logger, size int) *Queue {
	if size <= 0 {
		size = DefaultSize
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	q := &Queue{
		logger:  logger,
		jobs:    make(chan job, size),
		stopped: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.stopped)
	for j := range q.jobs {
		if j.op != nil {
			q.apply(j)
		}
		if j.done != nil {
			close(j.done)
		}
	}
}

func (q *Queue) apply(j job) {
	if err := j.op(context.Background()); err != nil {
		q.failures.Add(1)
		q.logger.WithError(err).WithField("op", j.name).Warn("durable write failed")
		return
	}
	q.logger.WithField("op", j.name).Debug("durable write applied")
}

// Enqueue schedules op. It blocks while the buffer is full. A write offered after Close
// is logged and counted as a failure before ErrClosed is returned.
func (q *Queue) Enqueue(name string, op Op) error {
	if err := q.send(job{name: name, op: op}); err != nil {
		q.failures.Add(1)
		q.logger.WithError(err).WithField("op", name).Warn("durable write dropped")
		return err
	}
	return nil
}

// Flush waits until every write enqueued before the call has been applied.
func (q *Queue) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if err := q.send(job{name: "flush", done: done}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending writes and stops the worker.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	select {
	case <-q.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Failures reports how many writes have failed or been dropped since the queue started.
func (q *Queue) Failures() int64 {
	return q.failures.Load()
}

func (q *Queue) send(j job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	q.jobs <- j
	return nil
}
