package filter

// MovingAverage is a fixed-window arithmetic mean over the most recent
// samples, kept with a ring buffer and a running sum so each call is O(1).
type MovingAverage struct {
	window []float64
	head   int
	count  int
	sum    float64
}

// NewMovingAverage creates a moving-average filter over the given window
// size. Window sizes below 1 are treated as 1.
func NewMovingAverage(window int) *MovingAverage {
	if window < 1 {
		window = 1
	}
	return &MovingAverage{window: make([]float64, window)}
}

// Filter appends the value, evicting the oldest sample once the window is
// full, and returns the mean of the retained samples.
func (m *MovingAverage) Filter(value float64) float64 {
	if m.count == len(m.window) {
		m.sum -= m.window[m.head]
	} else {
		m.count++
	}
	m.window[m.head] = value
	m.sum += value
	m.head = (m.head + 1) % len(m.window)

	return m.sum / float64(m.count)
}

// Reset discards all buffered samples.
func (m *MovingAverage) Reset() {
	m.head = 0
	m.count = 0
	m.sum = 0
}
