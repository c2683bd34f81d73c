// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dispatch runs per-paper matching tasks on a fixed pool of worker
// goroutines. Tasks are pure: they only return match results, and the
// caller merges them after the pool drains.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/citegraph/internal/logging"
	"github.com/pdiddy/citegraph/pkg/types"
)

// Task computes the matches for one citing paper.
type Task struct {
	ID  types.PaperID
	Run func(ctx context.Context) ([]types.MatchResult, error)
}

// Summary holds counts from a pool run.
type Summary struct {
	Succeeded int
	Failed    int
	Matches   int
}

// Total returns the number of tasks that ran.
func (s Summary) Total() int {
	return s.Succeeded + s.Failed
}

// HasFailures reports whether any task failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Pool is a fixed-size worker pool fed through a bounded task queue.
type Pool struct {
	workers int
	timeout time.Duration
	log     logging.Logger
}

// New returns a pool sized by cfg. A non-positive worker count falls back
// to types.DefaultWorkers.
func New(cfg types.DispatchConfig, log logging.Logger) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = types.DefaultWorkers
	}
	return &Pool{workers: workers, timeout: cfg.TaskTimeout, log: log}
}

// Workers returns the pool size.
func (p *Pool) Workers() int { return p.workers }

type job struct {
	index int
	task  Task
}

type outcome struct {
	index   int
	id      types.PaperID
	results []types.MatchResult
	err     error
}

// Run executes every task exactly once and returns their results in
// submission order. A task that returns an error, panics, or exceeds the
// per-task timeout contributes no results; the failure is logged, printed
// to w, and counted. Only cancellation of ctx is an error, in which case
// the results gathered so far are returned alongside it.
func (p *Pool) Run(ctx context.Context, tasks []Task, w io.Writer) ([][]types.MatchResult, Summary, error) {
	results := make([][]types.MatchResult, len(tasks))
	var summary Summary

	g, gctx := errgroup.WithContext(ctx)
	queue := make(chan job, p.workers)
	out := make(chan outcome, p.workers)

	g.Go(func() error {
		defer close(queue)
		for i, t := range tasks {
			select {
			case queue <- job{index: i, task: t}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for n := 0; n < p.workers; n++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for j := range queue {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := p.runOne(gctx, j.task)
				if gctx.Err() != nil {
					return gctx.Err()
				}
				select {
				case out <- outcome{index: j.index, id: j.task.ID, results: res, err: err}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	for o := range out {
		if o.err != nil {
			p.log.Warn("task failed", "citing", o.id, "error", o.err)
			fmt.Fprintf(w, "failed  %s: %v\n", o.id, o.err)
			summary.Failed++
			continue
		}
		results[o.index] = o.results
		summary.Succeeded++
		summary.Matches += len(o.results)
	}

	if err := g.Wait(); err != nil {
		return results, summary, fmt.Errorf("dispatching %d tasks: %w", len(tasks), err)
	}
	return results, summary, nil
}

// runOne runs t under the per-task timeout, converting a panic into an
// error. A task that ignores its context is abandoned when the timeout
// fires.
func (p *Pool) runOne(ctx context.Context, t Task) ([]types.MatchResult, error) {
	if p.timeout <= 0 {
		return safeRun(ctx, t)
	}

	tctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		res, err := safeRun(tctx, t)
		done <- outcome{results: res, err: err}
	}()

	select {
	case o := <-done:
		return o.results, o.err
	case <-tctx.Done():
		return nil, fmt.Errorf("task %s: %w", t.ID, tctx.Err())
	}
}

func safeRun(ctx context.Context, t Task) (res []types.MatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("task %s panicked: %v", t.ID, r)
		}
	}()
	return t.Run(ctx)
}
