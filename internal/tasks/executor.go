package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/osa911/formrelay/internal/logging"

	"golang.org/x/sync/semaphore"
)

// ErrExecutorClosed is reported for tasks submitted after Shutdown.
var ErrExecutorClosed = errors.New("executor is shut down")

// Task is a named unit of detached work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Result describes a finished task.
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// ExecutorConfig configures an Executor.
type ExecutorConfig struct {
	// Concurrency bounds the number of tasks running at once.
	Concurrency int64
	// Timeout is applied to the context of every task.
	Timeout time.Duration
	// OnComplete is called from the task goroutine after each task.
	OnComplete func(Result)
}

// Executor runs tasks in the background, detached from the request that
// submitted them.
type Executor struct {
	sem        *semaphore.Weighted
	timeout    time.Duration
	onComplete func(Result)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewExecutor creates an executor.
func NewExecutor(cfg ExecutorConfig) *Executor {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Executor{
		sem:        semaphore.NewWeighted(cfg.Concurrency),
		timeout:    cfg.Timeout,
		onComplete: cfg.OnComplete,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Submit schedules task and returns immediately. It returns false when the
// executor no longer accepts work.
func (e *Executor) Submit(task Task) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		e.complete(Result{Name: task.Name, Err: ErrExecutorClosed})
		return false
	}

	e.wg.Add(1)
	go e.run(task)
	return true
}

func (e *Executor) run(task Task) {
	defer e.wg.Done()

	if err := e.sem.Acquire(e.ctx, 1); err != nil {
		e.complete(Result{Name: task.Name, Err: err})
		return
	}
	defer e.sem.Release(1)

	ctx, cancel := context.WithTimeout(e.ctx, e.timeout)
	defer cancel()

	start := time.Now()
	err := safeRun(ctx, task)
	e.complete(Result{Name: task.Name, Err: err, Duration: time.Since(start)})
}

func safeRun(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.GetGlobalLogger().Error("Task %s panicked: %v", task.Name, r)
			err = fmt.Errorf("task %s panicked: %v", task.Name, r)
		}
	}()
	return task.Run(ctx)
}

func (e *Executor) complete(res Result) {
	if e.onComplete != nil {
		e.onComplete(res)
	}
}

// Wait blocks until every submitted task has finished.
func (e *Executor) Wait() {
	e.wg.Wait()
}

// Shutdown stops accepting tasks and waits for in-flight ones. When ctx ends
// first, running tasks are cancelled and ctx's error is returned.
func (e *Executor) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.cancel()
		return nil
	case <-ctx.Done():
		e.cancel()
		<-done
		return ctx.Err()
	}
}
