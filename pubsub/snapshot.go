package pubsub

import (
	"time"

	"brokersim/indicators"
	"brokersim/ledger"
)

// Snapshot is the immutable point-in-time bundle produced once per
// simulator tick: every current price, every analysis result and every
// account valuation. It is assembled from copies under the engine lock
// and never mutated after publication, so fan-out runs lock-free.
type Snapshot struct {
	Time       time.Time                    `json:"time"`
	Prices     map[string]float64           `json:"prices"`
	Analysis   map[string]indicators.Result `json:"analysis"`
	Portfolios map[string]ledger.Valuation  `json:"portfolio"`
}
