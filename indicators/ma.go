// Package indicators provides the technical analysis derived from
// price history on every simulator tick.
package indicators

import "fmt"

// DefaultWindow is the SMA period published with each snapshot.
const DefaultWindow = 20

// Result is the analysis for one instrument. Ready is false while the
// instrument has fewer history points than the window; that is the
// "N/A" state, not an error.
type Result struct {
	Symbol string  `json:"symbol"`
	SMA    float64 `json:"sma"`
	Ready  bool    `json:"ready"`
}

// MA calculates the Simple Moving Average of the most recent period
// points.
func MA(points []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(points) < period {
		return 0, fmt.Errorf("not enough points: need %d, got %d", period, len(points))
	}

	sum := 0.0
	for i := len(points) - period; i < len(points); i++ {
		sum += points[i]
	}
	return sum / float64(period), nil
}

// Analyze computes the windowed SMA for one instrument's history. A
// history shorter than the window yields Ready=false.
func Analyze(symbol string, history []float64, window int) Result {
	sma, err := MA(history, window)
	if err != nil {
		return Result{Symbol: symbol}
	}
	return Result{Symbol: symbol, SMA: sma, Ready: true}
}
