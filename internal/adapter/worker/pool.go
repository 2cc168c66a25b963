package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

var ErrPoolClosed = errors.New("worker pool closed")

const DefaultMaxInFlight = 16

// Pool runs submitted tasks on their own goroutines. At most maxInFlight
// tasks execute at once; the rest wait for a slot without blocking Submit.
type Pool struct {
	ctx    context.Context
	sem    *semaphore.Weighted
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
	group  errgroup.Group
}

func NewPool(ctx context.Context, maxInFlight int, logger *zap.Logger) *Pool {
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		ctx:    ctx,
		sem:    semaphore.NewWeighted(int64(maxInFlight)),
		logger: logger,
	}
}

func (p *Pool) Submit(name string, fn func(ctx context.Context)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.group.Go(func() error {
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			p.logger.Warn("task dropped before start", zap.String("task", name), zap.Error(err))
			return nil
		}
		defer p.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("task panicked", zap.String("task", name), zap.Any("panic", r))
			}
		}()
		fn(p.ctx)
		return nil
	})
	return nil
}

// Close stops accepting tasks and waits for submitted ones. It returns
// ctx.Err() if ctx ends first; the tasks keep running in that case.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = p.group.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
