package indicators

import "fmt"

// SimpleMA is a streaming Simple Moving Average over raw price points.
// Its value always equals the batch MA over the same trailing window,
// including at the exact warmup boundary.
type SimpleMA struct {
	period int
	points []float64
}

// NewMA creates a streaming Simple Moving Average with the given period.
func NewMA(period int) *SimpleMA {
	return &SimpleMA{
		period: period,
		points: make([]float64, 0, period),
	}
}

func (m *SimpleMA) Name() string {
	return fmt.Sprintf("MA(%d)", m.period)
}

func (m *SimpleMA) Warmup() int {
	return m.period
}

func (m *SimpleMA) Reset() {
	m.points = m.points[:0]
}

func (m *SimpleMA) Update(p float64) {
	m.points = append(m.points, p)
	// Keep only the last 'period' points
	if len(m.points) > m.period {
		m.points = m.points[1:]
	}
}

func (m *SimpleMA) Ready() bool {
	return len(m.points) >= m.period
}

func (m *SimpleMA) Value() float64 {
	if !m.Ready() {
		return 0
	}

	sum := 0.0
	for _, p := range m.points {
		sum += p
	}
	return sum / float64(len(m.points))
}
