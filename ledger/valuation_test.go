package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	l := NewLedger(400)
	l.SeedAccount("user1@example.com", 50000, map[string]int{"GOOG": 10, "TSLA": 5})
	prices := map[string]float64{"GOOG": 500, "TSLA": 200}

	v, err := l.Value("user1@example.com", prices)
	assert.NoError(t, err)

	assert.Equal(t, 50000.0, v.Cash)
	assert.Equal(t, 6000.0, v.StockValue)
	assert.Equal(t, 56000.0, v.TotalValue)
	// P/L against the fixed 400 reference cost: 6000 - 15*400
	assert.Equal(t, 0.0, v.TotalPL)

	goog := v.Holdings["GOOG"]
	assert.Equal(t, 10, goog.Quantity)
	assert.Equal(t, 500.0, goog.Price)
	assert.Equal(t, 5000.0, goog.Value)
	assert.InDelta(t, 5000.0/56000.0*100, goog.Percent, 0.01)

	// cash + stock always equals total
	assert.Equal(t, v.TotalValue, v.Cash+v.StockValue)
}

func TestValueEmptyAccount(t *testing.T) {
	l := NewLedger(400)
	l.SeedAccount("broke@example.com", 0, nil)

	v, err := l.Value("broke@example.com", map[string]float64{"GOOG": 500})
	assert.NoError(t, err)
	assert.Equal(t, 0.0, v.TotalValue)
	assert.Empty(t, v.Holdings)
}

func TestValuePercentZeroTotal(t *testing.T) {
	// A zero-value account with a worthless position must not divide
	// by zero. Only reachable with a zero price, but the guard is a
	// stated contract.
	l := NewLedger(400)
	l.SeedAccount("zero@example.com", 0, map[string]int{"GOOG": 10})

	v, err := l.Value("zero@example.com", map[string]float64{"GOOG": 0})
	assert.NoError(t, err)
	assert.Equal(t, 0.0, v.Holdings["GOOG"].Percent)
}

func TestValueUnknownUser(t *testing.T) {
	l := NewLedger(400)
	_, err := l.Value("nobody@example.com", nil)
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestValueMalformedAccount(t *testing.T) {
	l := NewLedger(400)
	l.SeedAccount("bad@example.com", 1000, map[string]int{"GOOG": -5})

	_, err := l.Value("bad@example.com", map[string]float64{"GOOG": 500})
	assert.Error(t, err)

	l.SeedAccount("worse@example.com", -1, nil)
	_, err = l.Value("worse@example.com", nil)
	assert.Error(t, err)
}

func TestZeroValuation(t *testing.T) {
	v := ZeroValuation("user1@example.com")
	assert.Equal(t, "user1@example.com", v.UserID)
	assert.Equal(t, 0.0, v.TotalValue)
	assert.NotNil(t, v.Holdings)
}
