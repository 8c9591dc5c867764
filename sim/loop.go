package sim

import (
	"context"
	"time"
)

// Start launches the periodic tick loop in its own goroutine. Calling
// Start more than once is a no-op. The loop stops when ctx is
// cancelled or Stop is called; cancellation always lands between
// ticks, never mid-tick, because each Tick runs to completion before
// the loop re-checks its signals.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return
	}
	e.started = true
	e.mu.Unlock()

	go e.run(ctx)
}

func (e *Engine) run(ctx context.Context) {
	defer close(e.done)

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	// First tick immediately so subscribers don't stare at an empty
	// page for a full interval.
	e.Tick()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stop:
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Stop halts the tick loop and waits for it to exit. In-flight orders
// finish normally: they share the engine lock, which the loop releases
// at the end of every tick. Stop is idempotent.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })

	e.mu.Lock()
	started := e.started
	e.mu.Unlock()
	if started {
		<-e.done
	}
}
