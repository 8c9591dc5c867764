// Package sim drives the market: a periodic tick perturbs every price,
// recomputes analytics and account valuations, and publishes the
// combined snapshot. The engine's mutex is the single synchronization
// boundary for prices and accounts, so a tick and an order can never
// interleave into an inconsistent valuation.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"brokersim/indicators"
	"brokersim/journal"
	"brokersim/ledger"
	"brokersim/market"
	"brokersim/pkg/id"
	"brokersim/pubsub"
	"brokersim/watchlist"
)

// Config are the engine's tunables. Zero values fall back to the
// defaults below, which mirror the original simulation.
type Config struct {
	TickInterval  time.Duration // default 1s
	SMAWindow     int           // default 20
	DriftPerMille float64       // max per-tick move in tenths of a percent, default 1.0
	Seed          int64         // rng seed, 0 seeds from the clock
}

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = time.Second
	}
	if c.SMAWindow <= 0 {
		c.SMAWindow = indicators.DefaultWindow
	}
	if c.DriftPerMille <= 0 {
		c.DriftPerMille = 1.0
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

// Fill is the result of a settled order.
type Fill struct {
	OrderID  string
	UserID   string
	Symbol   string
	Side     ledger.Side
	Quantity int
	Price    float64
	Cost     float64
	Time     time.Time
}

type Engine struct {
	mu     sync.Mutex
	cfg    Config
	prices *market.PriceStore
	ledger *ledger.Ledger
	watch  *watchlist.Registry
	bus    *pubsub.Broadcaster
	jrnl   journal.Journal
	logger *slog.Logger
	rng    *rand.Rand
	last   *pubsub.Snapshot

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewEngine(cfg Config, prices *market.PriceStore, led *ledger.Ledger,
	watch *watchlist.Registry, bus *pubsub.Broadcaster, jrnl journal.Journal,
	logger *slog.Logger) *Engine {

	cfg = cfg.withDefaults()
	if jrnl == nil {
		jrnl = journal.NewMemory()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:    cfg,
		prices: prices,
		ledger: led,
		watch:  watch,
		bus:    bus,
		jrnl:   jrnl,
		logger: logger,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (e *Engine) Prices() *market.PriceStore       { return e.prices }
func (e *Engine) Ledger() *ledger.Ledger           { return e.ledger }
func (e *Engine) Watchlist() *watchlist.Registry   { return e.watch }
func (e *Engine) Broadcaster() *pubsub.Broadcaster { return e.bus }

// Tick runs one full cycle: perturb every instrument, recompute the
// analytics and every account valuation, and publish the snapshot.
// The whole mutation runs under the engine lock; publishing happens
// outside it, on an immutable copy.
func (e *Engine) Tick() {
	snap := e.buildSnapshot()
	e.bus.Publish(snap)
}

func (e *Engine) buildSnapshot() *pubsub.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()

	for _, sym := range market.Symbols() {
		frac := (e.rng.Float64()*2 - 1) * e.cfg.DriftPerMille / 1000.0
		if _, err := e.prices.Tick(sym, frac); err != nil {
			// Unseeded instrument; log and keep going, the tick must
			// not die on one symbol.
			e.logger.Error("tick failed", "symbol", sym, "err", err)
		}
	}

	analysis := make(map[string]indicators.Result, len(market.Instruments))
	for _, sym := range market.Symbols() {
		analysis[sym] = indicators.Analyze(sym, e.prices.History(sym), e.cfg.SMAWindow)
	}

	prices := e.prices.Snapshot()

	portfolios := make(map[string]ledger.Valuation)
	for _, user := range e.ledger.Users() {
		v, err := e.ledger.Value(user, prices)
		if err != nil {
			// One bad account must not stop the tick for everyone else.
			e.logger.Error("valuation failed", "user", user, "err", err)
			v = ledger.ZeroValuation(user)
		}
		portfolios[user] = v

		if err := e.jrnl.RecordEquity(journal.EquityMark{
			Time:       now,
			UserID:     user,
			Cash:       v.Cash,
			StockValue: v.StockValue,
			TotalValue: v.TotalValue,
			TotalPL:    v.TotalPL,
		}); err != nil {
			e.logger.Error("record equity", "user", user, "err", err)
		}
	}

	snap := &pubsub.Snapshot{
		Time:       now,
		Prices:     prices,
		Analysis:   analysis,
		Portfolios: portfolios,
	}
	e.last = snap
	return snap
}

// CurrentSnapshot returns the last published snapshot, or nil before
// the first tick. Used for the initial page render.
func (e *Engine) CurrentSnapshot() *pubsub.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// SubmitOrder prices and settles the order atomically with respect to
// ticks: the price read and the ledger mutation happen under the same
// lock, so the price cannot move between pricing and settlement. A
// successful BUY adds the symbol to the user's watchlist (buying
// auto-subscribes; subscribing never trades).
func (e *Engine) SubmitOrder(userID, symbol string, side ledger.Side, quantity int) (Fill, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !market.Supported(symbol) {
		return Fill{}, fmt.Errorf("instrument %q: %w", symbol, ledger.ErrInvalidOrder)
	}

	price, err := e.prices.Get(symbol)
	if err != nil {
		return Fill{}, fmt.Errorf("price %s: %w", symbol, ledger.ErrInvalidOrder)
	}

	if err := e.ledger.Apply(userID, symbol, side, quantity, price); err != nil {
		return Fill{}, err
	}

	if side == ledger.Buy {
		e.watch.Add(userID, symbol)
	}

	fill := Fill{
		OrderID:  id.New(),
		UserID:   userID,
		Symbol:   symbol,
		Side:     side,
		Quantity: quantity,
		Price:    price,
		Cost:     market.Round2(price * float64(quantity)),
		Time:     time.Now(),
	}

	if err := e.jrnl.RecordOrder(journal.OrderRecord{
		OrderID:  fill.OrderID,
		UserID:   fill.UserID,
		Symbol:   fill.Symbol,
		Side:     fill.Side.String(),
		Quantity: fill.Quantity,
		Price:    fill.Price,
		Cost:     fill.Cost,
		Time:     fill.Time,
	}); err != nil {
		// The order already settled; journaling is best effort.
		e.logger.Error("record order", "order", fill.OrderID, "err", err)
	}

	return fill, nil
}

// Subscribe adds the instrument to the user's display watchlist.
func (e *Engine) Subscribe(userID, symbol string) error {
	if !market.Supported(symbol) {
		return fmt.Errorf("instrument %q: %w", symbol, ledger.ErrInvalidOrder)
	}
	e.watch.Add(userID, symbol)
	return nil
}

// CreateAccount opens an account with the given starting cash.
func (e *Engine) CreateAccount(userID string, cash float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger.CreateAccount(userID, cash)
}
