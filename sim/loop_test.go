package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"brokersim/ledger"
)

func TestStartStop(t *testing.T) {
	engine, _ := newTestEngine(t)

	sub := engine.Broadcaster().Subscribe("console")
	engine.Start(context.Background())

	// The loop ticks immediately, then on its interval.
	select {
	case snap := <-sub.C:
		assert.NotNil(t, snap)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot published after start")
	}

	engine.Stop()

	// No further ticks after Stop: the last snapshot stops changing.
	last := engine.CurrentSnapshot()
	time.Sleep(50 * time.Millisecond)
	assert.Same(t, last, engine.CurrentSnapshot())
}

func TestStopIsIdempotent(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.Start(context.Background())

	engine.Stop()
	assert.NotPanics(t, func() { engine.Stop() })
}

func TestStopWithoutStart(t *testing.T) {
	engine, _ := newTestEngine(t)
	assert.NotPanics(t, func() { engine.Stop() })
}

func TestContextCancelStopsLoop(t *testing.T) {
	engine, _ := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	engine.Start(ctx)
	engine.Start(ctx) // second start is a no-op

	sub := engine.Broadcaster().Subscribe("console")
	select {
	case <-sub.C:
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot published after start")
	}

	cancel()

	// The loop exits between ticks; give it a moment, then confirm the
	// published state has settled.
	time.Sleep(50 * time.Millisecond)
	last := engine.CurrentSnapshot()
	time.Sleep(50 * time.Millisecond)
	assert.Same(t, last, engine.CurrentSnapshot())
}

func TestOrdersCompleteWhileRunning(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.Start(context.Background())
	defer engine.Stop()

	// Orders share the engine lock with the ticker and must settle
	// cleanly while it runs.
	for i := 0; i < 50; i++ {
		_, err := engine.SubmitOrder("user2@example.com", "META", ledger.Sell, 1)
		if err != nil {
			break
		}
	}

	cash, err := engine.Ledger().Cash("user2@example.com")
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, cash, 0.0)
}
