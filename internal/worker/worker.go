package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

type ProcessFunc[T any] func(ctx context.Context, job T) error

type Stats struct {
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// Pool runs a fixed number of workers over a bounded job queue. Workers keep
// draining the queue until Stop closes it; ctx is only handed to the
// processor so in-flight work can bail out early.
type Pool[T any] struct {
	numWorkers int
	jobs       chan T
	processor  ProcessFunc[T]
	wg         sync.WaitGroup
	stopOnce   sync.Once

	processed atomic.Int64
	failed    atomic.Int64
}

func NewPool[T any](numWorkers, bufferSize int, processor ProcessFunc[T]) *Pool[T] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	return &Pool[T]{
		numWorkers: numWorkers,
		jobs:       make(chan T, bufferSize),
		processor:  processor,
	}
}

func (p *Pool[T]) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool[T]) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for job := range p.jobs {
		if err := p.processor(ctx, job); err != nil {
			p.failed.Add(1)
			slog.Debug("job failed", "worker", id, "error", err)
			continue
		}
		p.processed.Add(1)
	}
}

// Submit queues job, blocking while the queue is full. It returns false if
// ctx ends first.
func (p *Pool[T]) Submit(ctx context.Context, job T) bool {
	select {
	case p.jobs <- job:
		return true
	case <-ctx.Done():
		return false
	}
}

func (p *Pool[T]) Stats() Stats {
	return Stats{
		Processed: p.processed.Load(),
		Failed:    p.failed.Load(),
	}
}

// Stop closes the queue and waits for the workers to drain it. No Submit may
// run concurrently with or after Stop.
func (p *Pool[T]) Stop() {
	p.stopOnce.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}
