package journal

import "sync"

// Memory keeps records in memory. It is the default journal for runs
// that don't need files, and the journal used throughout tests.
type Memory struct {
	mu     sync.Mutex
	orders []OrderRecord
	equity []EquityMark
	closed bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (j *Memory) RecordOrder(rec OrderRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.orders = append(j.orders, rec)
	return nil
}

func (j *Memory) RecordEquity(rec EquityMark) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.equity = append(j.equity, rec)
	return nil
}

// Orders returns a copy of the recorded orders.
func (j *Memory) Orders() []OrderRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]OrderRecord, len(j.orders))
	copy(out, j.orders)
	return out
}

// Equity returns a copy of the recorded equity marks.
func (j *Memory) Equity() []EquityMark {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]EquityMark, len(j.equity))
	copy(out, j.equity)
	return out
}

func (j *Memory) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.closed = true
	return nil
}
