// journal/journal.go
package journal

import "time"

// OrderRecord is one settled order.
type OrderRecord struct {
	OrderID  string
	UserID   string
	Symbol   string
	Side     string
	Quantity int
	Price    float64
	Cost     float64
	Time     time.Time
}

// EquityMark is one account's valuation at one tick.
type EquityMark struct {
	Time       time.Time
	UserID     string
	Cash       float64
	StockValue float64
	TotalValue float64
	TotalPL    float64
}

type Journal interface {
	RecordOrder(OrderRecord) error
	RecordEquity(EquityMark) error
	Close() error
}
