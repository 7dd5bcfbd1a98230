// Package filter provides scalar smoothing filters for noisy coordinate
// and distance signals. Each filter instance tracks one channel (one axis,
// one distance); instances are not safe for concurrent use.
package filter

import "fmt"

// Filter is a stateful scalar estimator. The first call to Filter after
// construction or Reset seeds the state and returns the input unchanged.
type Filter interface {
	// Filter ingests one measurement and returns the current estimate.
	Filter(measurement float64) float64

	// Reset clears the state so the next call behaves like a first call.
	Reset()
}

// Filter kind names accepted by New. These match the values used in the
// cursor_control.smoothing_filter config key.
const (
	KindKalman        = "kalman"
	KindMovingAverage = "moving_average"
	KindEMA           = "ema"
)

// Params holds construction parameters for New. Zero values fall back to
// the defaults of the selected kind.
type Params struct {
	ProcessNoise     float64
	MeasurementNoise float64
	Window           int
	Alpha            float64
}

// New builds a filter by kind name. Unknown kinds are an error so a typo
// in configuration surfaces at startup rather than as mystery behavior.
func New(kind string, p Params) (Filter, error) {
	switch kind {
	case KindKalman:
		pn, mn := p.ProcessNoise, p.MeasurementNoise
		if pn <= 0 {
			pn = DefaultProcessNoise
		}
		if mn <= 0 {
			mn = DefaultMeasurementNoise
		}
		return NewKalman1D(pn, mn), nil
	case KindMovingAverage:
		w := p.Window
		if w <= 0 {
			w = DefaultWindow
		}
		return NewMovingAverage(w), nil
	case KindEMA:
		a := p.Alpha
		if a <= 0 || a > 1 {
			a = DefaultAlpha
		}
		return NewEMA(a), nil
	default:
		return nil, fmt.Errorf("unknown filter kind %q", kind)
	}
}

// Default filter parameters.
const (
	DefaultProcessNoise     = 0.01
	DefaultMeasurementNoise = 4.0
	DefaultWindow           = 5
	DefaultAlpha            = 0.5
)
