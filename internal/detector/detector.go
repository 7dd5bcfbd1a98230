package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	// Hands below this score are dropped before they reach the cursor and
	// gesture layers.
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// WorldLandmarks asks the detector for the parallel world-space
	// landmark set in meters. Gesture thresholds authored in centimeters
	// are only meaningful when this is on; otherwise they are scaled into
	// normalized camera-space units.
	WorldLandmarks bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
		WorldLandmarks:  false,
	}
}

// FilterConfident returns the hands whose score clears the configured
// confidence threshold, preserving order.
func (c Config) FilterConfident(hands []HandLandmarks) []HandLandmarks {
	if len(hands) == 0 {
		return hands
	}
	out := hands[:0]
	for _, h := range hands {
		if h.Score >= c.MinConfidence {
			out = append(out, h)
		}
	}
	return out
}
