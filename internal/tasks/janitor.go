package tasks

import (
	"sync"
	"time"

	"github.com/osa911/formrelay/internal/logging"
)

// Janitor runs a sweep function at a fixed interval until stopped.
type Janitor struct {
	name     string
	interval time.Duration
	sweep    func()
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewJanitor creates a janitor. It does nothing until Start is called.
func NewJanitor(name string, interval time.Duration, sweep func()) *Janitor {
	return &Janitor{
		name:     name,
		interval: interval,
		sweep:    sweep,
		done:     make(chan struct{}),
	}
}

// Start begins the sweep loop in the background
func (j *Janitor) Start() {
	if j.interval <= 0 {
		logging.GetGlobalLogger().Warn("Janitor %s: no interval set, not starting", j.name)
		return
	}
	j.wg.Add(1)
	go j.runPeriodically()
}

// Stop ends the sweep loop and waits for it to exit
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() {
		close(j.done)
	})
	j.wg.Wait()
}

func (j *Janitor) runPeriodically() {
	defer j.wg.Done()
	logger := logging.GetGlobalLogger()

	logger.Debug("Starting janitor %s (every %s)", j.name, j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.done:
			logger.Debug("Janitor %s stopped", j.name)
			return
		}
	}
}
