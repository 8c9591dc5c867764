package market

import (
	"fmt"
	"math"
)

// DefaultHistoryCapacity is how many price points are retained per
// instrument for charting and moving averages.
const DefaultHistoryCapacity = 60

// DefaultPriceFloor is the minimum price a tick can produce.
const DefaultPriceFloor = 1.0

// PriceStore holds the current price and a bounded FIFO history per
// instrument. It carries no lock of its own: the sim.Engine owns the
// single mutex spanning prices and accounts, so that a tick and an
// order can never interleave mid-valuation.
type PriceStore struct {
	capacity int
	floor    float64
	prices   map[string]float64
	history  map[string][]float64
}

func NewPriceStore(capacity int, floor float64) *PriceStore {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	if floor <= 0 {
		floor = DefaultPriceFloor
	}
	return &PriceStore{
		capacity: capacity,
		floor:    floor,
		prices:   make(map[string]float64),
		history:  make(map[string][]float64),
	}
}

// Seed sets the initial price for an instrument and starts its history
// with that single point.
func (ps *PriceStore) Seed(symbol string, price float64) {
	price = Round2(math.Max(ps.floor, price))
	ps.prices[symbol] = price
	ps.history[symbol] = append(make([]float64, 0, ps.capacity), price)
}

func (ps *PriceStore) Get(symbol string) (float64, error) {
	p, ok := ps.prices[symbol]
	if !ok {
		return 0, fmt.Errorf("no price for %q", symbol)
	}
	return p, nil
}

// Tick applies a multiplicative perturbation to the instrument's price:
// new = round2(max(floor, old*(1+frac))). The caller draws frac, keeping
// the walk bounded (the simulator uses at most a few tenths of a
// percent per tick). The new point is appended to history, evicting the
// oldest point once the history is at capacity.
func (ps *PriceStore) Tick(symbol string, frac float64) (float64, error) {
	old, ok := ps.prices[symbol]
	if !ok {
		return 0, fmt.Errorf("no price for %q", symbol)
	}

	next := Round2(math.Max(ps.floor, old*(1+frac)))
	ps.prices[symbol] = next

	h := ps.history[symbol]
	if len(h) >= ps.capacity {
		copy(h, h[1:])
		h = h[:len(h)-1]
	}
	ps.history[symbol] = append(h, next)

	return next, nil
}

// History returns a copy of the instrument's price history, oldest
// first.
func (ps *PriceStore) History(symbol string) []float64 {
	h := ps.history[symbol]
	out := make([]float64, len(h))
	copy(out, h)
	return out
}

// Snapshot returns a copy of all current prices.
func (ps *PriceStore) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(ps.prices))
	for s, p := range ps.prices {
		out[s] = p
	}
	return out
}

func (ps *PriceStore) Capacity() int  { return ps.capacity }
func (ps *PriceStore) Floor() float64 { return ps.floor }

// Round2 rounds to 2 decimal places, the display precision used for
// every price and cash figure in the system.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
