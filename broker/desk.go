// Package broker is the boundary the route/session layer talks to.
// Identity is an opaque string supplied by the caller; the desk never
// validates credentials, and transport for the snapshot stream (push,
// polling, re-render) is the caller's responsibility.
package broker

import (
	"brokersim/ledger"
	"brokersim/pubsub"
	"brokersim/sim"
)

type Desk struct {
	engine *sim.Engine
}

func NewDesk(engine *sim.Engine) *Desk {
	return &Desk{engine: engine}
}

// CurrentSnapshot returns the last published state for an initial
// render, or nil before the first tick.
func (d *Desk) CurrentSnapshot() *pubsub.Snapshot {
	return d.engine.CurrentSnapshot()
}

// SubscribeStream registers a live feed for the user and returns its
// handle. The caller drains handle.C and must Unsubscribe when the
// client disconnects.
func (d *Desk) SubscribeStream(userID string) *pubsub.Subscriber {
	return d.engine.Broadcaster().Subscribe(userID)
}

func (d *Desk) Unsubscribe(handleID string) {
	d.engine.Broadcaster().Unsubscribe(handleID)
}

// SubmitOrder validates and settles a buy/sell for the user at the
// current price. Rejections come back as ledger.Err* sentinels.
func (d *Desk) SubmitOrder(userID, symbol string, side ledger.Side, quantity int) (sim.Fill, error) {
	return d.engine.SubmitOrder(userID, symbol, side, quantity)
}

// ToggleSubscription adds the instrument to the user's watchlist.
// Adding an already-watched instrument is a no-op.
func (d *Desk) ToggleSubscription(userID, symbol string) error {
	return d.engine.Subscribe(userID, symbol)
}

// Watchlist returns the user's watched instruments in sorted order.
func (d *Desk) Watchlist(userID string) []string {
	return d.engine.Watchlist().List(userID)
}

// CreateAccount opens an account with the given starting cash, for the
// signup flow. Opening an existing account is a no-op.
func (d *Desk) CreateAccount(userID string, cash float64) {
	d.engine.CreateAccount(userID, cash)
}
