package samples

import (
	"context"
	"sync"
	"time"
)

// Janitor periodically evicts samples older than maxAge from a Registry.
// Age eviction is independent of the capacity bound; whichever triggers first wins.
type Janitor struct {
	registry *Registry
	interval time.Duration
	maxAge   time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	wg        sync.WaitGroup

	// evicted is called after each sweep; nil is allowed.
	evicted func(removed int)
}

func NewJanitor(registry *Registry, interval, maxAge time.Duration, evicted func(removed int)) *Janitor {
	if interval <= 0 {
		interval = DefaultEvictionInterval
	}
	if maxAge < 0 {
		maxAge = DefaultMaxAge
	}
	return &Janitor{
		registry: registry,
		interval: interval,
		maxAge:   maxAge,
		stopCh:   make(chan struct{}),
		evicted:  evicted,
	}
}

// Start spawns the sweep goroutine. Calling Start more than once has no effect.
func (j *Janitor) Start(ctx context.Context) {
	j.startOnce.Do(func() {
		j.wg.Add(1)
		go func() {
			defer j.wg.Done()
			j.run(ctx)
		}()
	})
}

// Stop halts the sweep goroutine and waits for it to exit. It is safe to call
// Stop without Start and to call it more than once.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stopCh) })
	j.wg.Wait()
}

// Sweep runs one eviction pass immediately.
func (j *Janitor) Sweep() int {
	removed := j.registry.Evict(j.maxAge)
	if j.evicted != nil {
		j.evicted(removed)
	}
	return removed
}

func (j *Janitor) run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-j.stopCh:
			return
		case <-ticker.C:
			j.Sweep()
		}
	}
}
