package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/dsokolov/newslens/pkg/logger"
)

// Task is one unit of independent work
type Task func(ctx context.Context)

// Pool executes batches of tasks with bounded concurrency
type Pool struct {
	limit int
}

// NewPool creates a pool with the given parallelism bound
func NewPool(limit int) *Pool {
	if limit < 1 {
		limit = 1
	}
	return &Pool{limit: limit}
}

// Run executes all tasks with at most limit in flight and blocks until every
// started task has returned (explicit join barrier). Tasks not yet started
// when ctx is cancelled are skipped. Returns the number of started tasks.
func (p *Pool) Run(ctx context.Context, tasks []Task) int {
	sem := make(chan struct{}, p.limit)
	var wg sync.WaitGroup

	started := 0
	for _, task := range tasks {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
		case sem <- struct{}{}:
			started++
			wg.Add(1)
			go func(t Task) {
				defer wg.Done()
				defer func() { <-sem }()
				t(ctx)
			}(task)
		}
	}

	wg.Wait()

	if started < len(tasks) {
		logger.Warn("worker pool cancelled before all tasks started",
			zap.Int("started", started),
			zap.Int("total", len(tasks)),
		)
	}

	return started
}
