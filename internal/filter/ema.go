package filter

// EMA is an exponential moving average. Lower alpha means stronger
// smoothing and more lag; alpha of 1 passes input through unchanged.
// It is the cheapest of the filters and is used to stabilize velocity
// deltas in relative cursor mode and pinch distances in the gesture
// detector.
type EMA struct {
	alpha  float64
	value  float64
	seeded bool
}

// NewEMA creates an EMA filter with the given alpha in (0, 1].
// Out-of-range values are clamped.
func NewEMA(alpha float64) *EMA {
	if alpha <= 0 {
		alpha = DefaultAlpha
	} else if alpha > 1 {
		alpha = 1
	}
	return &EMA{alpha: alpha}
}

// Filter blends the value into the running estimate and returns it.
func (e *EMA) Filter(value float64) float64 {
	if !e.seeded {
		e.value = value
		e.seeded = true
		return value
	}
	e.value = e.alpha*value + (1-e.alpha)*e.value
	return e.value
}

// Value returns the current estimate without ingesting a sample. The
// second return reports whether the filter has been seeded.
func (e *EMA) Value() (float64, bool) {
	return e.value, e.seeded
}

// Reset clears the estimate so the next call seeds again.
func (e *EMA) Reset() {
	e.value = 0
	e.seeded = false
}
