package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results, optionally as a
// scripted per-frame sequence.
type MockDetector struct {
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	frame    int
	err      error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
	m.sequence = nil
	m.frame = 0
}

// SetSequence sets a per-frame script; each Detect call returns the next
// entry, and the last entry repeats once the script is exhausted.
func (m *MockDetector) SetSequence(frames [][]HandLandmarks) {
	m.sequence = frames
	m.frame = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.sequence) > 0 {
		i := m.frame
		if i >= len(m.sequence) {
			i = len(m.sequence) - 1
		}
		m.frame++
		return m.sequence[i], nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenHandLandmarks returns a preset hand with all fingers spread: no
// fingertip pair is close enough to read as a pinch. Fingertips sit in
// the upper half of the frame with the palm centered.
func OpenHandLandmarks() HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.74}
	h.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.68}
	h.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.62}
	h.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.58}

	h.Points[IndexMCP] = Point3D{X: 0.56, Y: 0.62}
	h.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.52}
	h.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.44}
	h.Points[IndexTip] = Point3D{X: 0.58, Y: 0.36}

	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.60}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.48}
	h.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.38}
	h.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.30}

	h.Points[RingMCP] = Point3D{X: 0.44, Y: 0.62}
	h.Points[RingPIP] = Point3D{X: 0.43, Y: 0.50}
	h.Points[RingDIP] = Point3D{X: 0.42, Y: 0.42}
	h.Points[RingTip] = Point3D{X: 0.42, Y: 0.34}

	h.Points[PinkyMCP] = Point3D{X: 0.39, Y: 0.66}
	h.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.56}
	h.Points[PinkyDIP] = Point3D{X: 0.36, Y: 0.48}
	h.Points[PinkyTip] = Point3D{X: 0.35, Y: 0.42}

	return h
}

// PinchedLandmarks returns OpenHandLandmarks with the tip of landmark b
// moved onto the tip of landmark a, simulating a pinch of that pair.
func PinchedLandmarks(a, b int) HandLandmarks {
	h := OpenHandLandmarks()
	h.Points[b] = h.Points[a]
	return h
}
