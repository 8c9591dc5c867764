package ledger

import (
	"fmt"

	"brokersim/market"
)

// HoldingValue is one position marked at the current price.
type HoldingValue struct {
	Quantity int     `json:"quantity"`
	Price    float64 `json:"current_price"`
	Value    float64 `json:"current_value"`
	Percent  float64 `json:"percent"`
}

// Valuation is one account marked against a set of current prices.
// All figures are rounded to display precision.
type Valuation struct {
	UserID     string                  `json:"user_id"`
	Cash       float64                 `json:"cash_balance"`
	StockValue float64                 `json:"stock_value"`
	TotalValue float64                 `json:"total_value"`
	TotalPL    float64                 `json:"total_pl"`
	Holdings   map[string]HoldingValue `json:"holdings"`
}

// Value marks the user's account against the given prices.
//
// TotalPL is measured against the fixed reference cost, not a real
// cost basis (see DefaultReferenceCost). An account with corrupted
// state (negative cash or quantity) is reported as an error so the
// simulator can isolate it without aborting the tick for other users.
func (l *Ledger) Value(userID string, prices map[string]float64) (Valuation, error) {
	acct, ok := l.accounts[userID]
	if !ok {
		return Valuation{}, fmt.Errorf("user %q: %w", userID, ErrUnknownUser)
	}
	if acct.Cash < 0 {
		return Valuation{}, fmt.Errorf("account %q has negative cash %.2f", userID, acct.Cash)
	}

	stockValue := 0.0
	for sym, qty := range acct.Holdings {
		if qty < 0 {
			return Valuation{}, fmt.Errorf("account %q holds %d %s", userID, qty, sym)
		}
		stockValue += float64(qty) * prices[sym]
	}
	totalValue := stockValue + acct.Cash

	refCost := 0.0
	for _, qty := range acct.Holdings {
		refCost += float64(qty) * l.referenceCost
	}

	v := Valuation{
		UserID:     userID,
		Cash:       market.Round2(acct.Cash),
		StockValue: market.Round2(stockValue),
		TotalValue: market.Round2(totalValue),
		TotalPL:    market.Round2(stockValue - refCost),
		Holdings:   make(map[string]HoldingValue, len(acct.Holdings)),
	}

	for sym, qty := range acct.Holdings {
		value := float64(qty) * prices[sym]
		percent := 0.0
		if totalValue != 0 {
			percent = value / totalValue * 100
		}
		v.Holdings[sym] = HoldingValue{
			Quantity: qty,
			Price:    prices[sym],
			Value:    market.Round2(value),
			Percent:  market.Round2(percent),
		}
	}

	return v, nil
}

// ZeroValuation is the safe placeholder substituted when a user's
// valuation fails mid-tick.
func ZeroValuation(userID string) Valuation {
	return Valuation{UserID: userID, Holdings: map[string]HoldingValue{}}
}
