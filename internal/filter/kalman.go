package filter

// Kalman1D is a one-dimensional Kalman filter with a constant-position
// model. The gain adapts to the ratio of process noise to measurement
// noise, so it tracks slow motion closely while suppressing sensor jitter.
type Kalman1D struct {
	processNoise     float64
	measurementNoise float64
	value            float64
	errorCov         float64
	seeded           bool
}

// NewKalman1D creates a Kalman filter with the given noise parameters.
// Higher measurement noise relative to process noise means stronger
// smoothing and more lag.
func NewKalman1D(processNoise, measurementNoise float64) *Kalman1D {
	return &Kalman1D{
		processNoise:     processNoise,
		measurementNoise: measurementNoise,
		errorCov:         1.0,
	}
}

// Filter applies one predict/update cycle and returns the new estimate.
func (k *Kalman1D) Filter(measurement float64) float64 {
	if !k.seeded {
		k.value = measurement
		k.seeded = true
		return measurement
	}

	// Predict
	predictionError := k.errorCov + k.processNoise

	// Update
	gain := predictionError / (predictionError + k.measurementNoise)
	k.value += gain * (measurement - k.value)
	k.errorCov = (1 - gain) * predictionError

	return k.value
}

// Reset clears the filter state and restores the initial error covariance.
func (k *Kalman1D) Reset() {
	k.value = 0
	k.errorCov = 1.0
	k.seeded = false
}

// Seed forces the estimate to the given value, as if it had been the
// first measurement. Used when cursor state is re-anchored after a
// mode switch or a stale gap.
func (k *Kalman1D) Seed(value float64) {
	k.value = value
	k.errorCov = 1.0
	k.seeded = true
}
