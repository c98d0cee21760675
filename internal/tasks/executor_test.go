package tasks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resultLog struct {
	mu      sync.Mutex
	results []Result
}

func (l *resultLog) add(r Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, r)
}

func (l *resultLog) all() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Result(nil), l.results...)
}

func TestExecutorRunsTasks(t *testing.T) {
	log := &resultLog{}
	e := NewExecutor(ExecutorConfig{Concurrency: 2, Timeout: time.Second, OnComplete: log.add})

	boom := errors.New("boom")
	require.True(t, e.Submit(Task{Name: "ok", Run: func(context.Context) error { return nil }}))
	require.True(t, e.Submit(Task{Name: "fail", Run: func(context.Context) error { return boom }}))
	e.Wait()

	results := log.all()
	require.Len(t, results, 2)
	byName := map[string]error{}
	for _, r := range results {
		byName[r.Name] = r.Err
	}
	assert.NoError(t, byName["ok"])
	assert.ErrorIs(t, byName["fail"], boom)
}

func TestExecutorBoundsConcurrency(t *testing.T) {
	var running, peak int32
	e := NewExecutor(ExecutorConfig{Concurrency: 2, Timeout: time.Second})

	for i := 0; i < 8; i++ {
		e.Submit(Task{Name: "work", Run: func(context.Context) error {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil
		}})
	}
	e.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestExecutorAppliesTimeout(t *testing.T) {
	log := &resultLog{}
	e := NewExecutor(ExecutorConfig{Concurrency: 1, Timeout: 20 * time.Millisecond, OnComplete: log.add})

	e.Submit(Task{Name: "slow", Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})
	e.Wait()

	results := log.all()
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.DeadlineExceeded)
}

func TestExecutorRecoversPanics(t *testing.T) {
	log := &resultLog{}
	e := NewExecutor(ExecutorConfig{Concurrency: 1, OnComplete: log.add})

	e.Submit(Task{Name: "panicky", Run: func(context.Context) error { panic("oops") }})
	e.Wait()

	results := log.all()
	require.Len(t, results, 1)
	assert.ErrorContains(t, results[0].Err, "panicked")
}

func TestExecutorShutdownDrains(t *testing.T) {
	log := &resultLog{}
	e := NewExecutor(ExecutorConfig{Concurrency: 1, Timeout: time.Second, OnComplete: log.add})

	release := make(chan struct{})
	e.Submit(Task{Name: "inflight", Run: func(context.Context) error {
		<-release
		return nil
	}})

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()

	require.NoError(t, e.Shutdown(context.Background()))
	require.Len(t, log.all(), 1)

	assert.False(t, e.Submit(Task{Name: "late", Run: func(context.Context) error { return nil }}))
	results := log.all()
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[1].Err, ErrExecutorClosed)
}

func TestExecutorShutdownDeadlineCancelsTasks(t *testing.T) {
	e := NewExecutor(ExecutorConfig{Concurrency: 1, Timeout: time.Minute})

	e.Submit(Task{Name: "stuck", Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, e.Shutdown(ctx), context.DeadlineExceeded)
}
