package sim

import (
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"brokersim/journal"
	"brokersim/ledger"
	"brokersim/market"
	"brokersim/pubsub"
	"brokersim/watchlist"
)

func newTestEngine(t *testing.T) (*Engine, *journal.Memory) {
	t.Helper()

	prices := market.NewPriceStore(60, 1.0)
	prices.SeedAll(map[string]float64{"GOOG": 500}, rand.New(rand.NewSource(1)))

	led := ledger.NewLedger(400)
	led.SeedAccount("user1@example.com", 50000, map[string]int{"GOOG": 10, "TSLA": 5})
	led.SeedAccount("user2@example.com", 75000, map[string]int{"META": 15, "NVDA": 3})

	jrnl := journal.NewMemory()
	engine := NewEngine(Config{
		TickInterval: 10 * time.Millisecond,
		Seed:         42,
	}, prices, led, watchlist.NewRegistry(), pubsub.NewBroadcaster(8), jrnl,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	return engine, jrnl
}

func TestTickPublishesFullSnapshot(t *testing.T) {
	engine, _ := newTestEngine(t)

	assert.Nil(t, engine.CurrentSnapshot())

	sub := engine.Broadcaster().Subscribe("user1@example.com")
	engine.Tick()

	snap := <-sub.C
	assert.NotNil(t, snap)
	assert.Same(t, snap, engine.CurrentSnapshot())

	for _, sym := range market.Symbols() {
		assert.Contains(t, snap.Prices, sym)
		assert.Contains(t, snap.Analysis, sym)
		assert.GreaterOrEqual(t, snap.Prices[sym], 1.0)
	}

	assert.Contains(t, snap.Portfolios, "user1@example.com")
	assert.Contains(t, snap.Portfolios, "user2@example.com")

	v := snap.Portfolios["user1@example.com"]
	assert.Equal(t, v.TotalValue, market.Round2(v.Cash+v.StockValue))
}

func TestAnalysisBecomesReadyAtWindow(t *testing.T) {
	engine, _ := newTestEngine(t)

	// Seed point plus 18 ticks: 19 history points, still unavailable.
	for i := 0; i < 18; i++ {
		engine.Tick()
	}
	snap := engine.CurrentSnapshot()
	assert.False(t, snap.Analysis["GOOG"].Ready)

	// One more reaches the 20-point window.
	engine.Tick()
	snap = engine.CurrentSnapshot()
	res := snap.Analysis["GOOG"]
	assert.True(t, res.Ready)

	history := engine.Prices().History("GOOG")
	assert.Len(t, history, 20)
	sum := 0.0
	for _, p := range history {
		sum += p
	}
	assert.InDelta(t, sum/20, res.SMA, 1e-9)
}

func TestTickIsolatesBadAccount(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.Ledger().SeedAccount("bad@example.com", 1000, map[string]int{"GOOG": -5})

	engine.Tick()

	snap := engine.CurrentSnapshot()
	assert.Equal(t, ledger.ZeroValuation("bad@example.com"), snap.Portfolios["bad@example.com"])

	// The other accounts still got real valuations.
	assert.Greater(t, snap.Portfolios["user1@example.com"].TotalValue, 0.0)
	assert.Greater(t, snap.Portfolios["user2@example.com"].TotalValue, 0.0)
}

func TestTickRecordsEquityMarks(t *testing.T) {
	engine, jrnl := newTestEngine(t)

	engine.Tick()
	engine.Tick()

	marks := jrnl.Equity()
	// Two ticks x two accounts.
	assert.Len(t, marks, 4)
	assert.Equal(t, "user1@example.com", marks[0].UserID)
}

func TestSubmitOrder(t *testing.T) {
	engine, jrnl := newTestEngine(t)

	price, err := engine.Prices().Get("GOOG")
	assert.NoError(t, err)

	fill, err := engine.SubmitOrder("user1@example.com", "GOOG", ledger.Buy, 5)
	assert.NoError(t, err)
	assert.NotEmpty(t, fill.OrderID)
	assert.Equal(t, price, fill.Price)
	assert.Equal(t, market.Round2(price*5), fill.Cost)

	holdings, _ := engine.Ledger().Holdings("user1@example.com")
	assert.Equal(t, 15, holdings["GOOG"])

	// A successful BUY auto-subscribes the user.
	assert.True(t, engine.Watchlist().Contains("user1@example.com", "GOOG"))

	orders := jrnl.Orders()
	assert.Len(t, orders, 1)
	assert.Equal(t, fill.OrderID, orders[0].OrderID)
	assert.Equal(t, "BUY", orders[0].Side)
}

func TestSubmitOrderSellDoesNotSubscribe(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.SubmitOrder("user1@example.com", "GOOG", ledger.Sell, 5)
	assert.NoError(t, err)
	assert.False(t, engine.Watchlist().Contains("user1@example.com", "GOOG"))
}

func TestSubmitOrderRejections(t *testing.T) {
	engine, jrnl := newTestEngine(t)

	_, err := engine.SubmitOrder("user1@example.com", "AAPL", ledger.Buy, 5)
	assert.ErrorIs(t, err, ledger.ErrInvalidOrder)

	_, err = engine.SubmitOrder("user1@example.com", "GOOG", ledger.Buy, 0)
	assert.ErrorIs(t, err, ledger.ErrInvalidOrder)

	_, err = engine.SubmitOrder("nobody@example.com", "GOOG", ledger.Buy, 1)
	assert.ErrorIs(t, err, ledger.ErrUnknownUser)

	_, err = engine.SubmitOrder("user1@example.com", "GOOG", ledger.Sell, 1000)
	assert.ErrorIs(t, err, ledger.ErrInsufficientHoldings)

	assert.Empty(t, jrnl.Orders(), "rejected orders are not journaled")
}

func TestSubscribe(t *testing.T) {
	engine, _ := newTestEngine(t)

	assert.NoError(t, engine.Subscribe("user1@example.com", "NVDA"))
	assert.ErrorIs(t, engine.Subscribe("user1@example.com", "AAPL"), ledger.ErrInvalidOrder)
	assert.Equal(t, []string{"NVDA"}, engine.Watchlist().List("user1@example.com"))
}

func TestConcurrentOrdersAndTicks(t *testing.T) {
	engine, _ := newTestEngine(t)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				engine.Tick()
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				engine.SubmitOrder("user1@example.com", "GOOG", ledger.Buy, 1)
				engine.SubmitOrder("user1@example.com", "GOOG", ledger.Sell, 1)
			}
		}()
	}
	wg.Wait()

	cash, err := engine.Ledger().Cash("user1@example.com")
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, cash, 0.0)

	holdings, err := engine.Ledger().Holdings("user1@example.com")
	assert.NoError(t, err)
	for sym, qty := range holdings {
		assert.Greater(t, qty, 0, sym)
	}
}
