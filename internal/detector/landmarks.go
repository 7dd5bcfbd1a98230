// Package detector provides hand landmark detection interfaces and types
// for pointer control.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point. For image-space landmarks x and y are
// normalized to [0,1] in camera space; for world-space landmarks the
// unit is meters relative to the hand's geometric center.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one hand's observation for one camera frame: the 21
// image-space landmarks, an optional parallel world-space set in meters,
// a handedness tag and the detection confidence. Instances are immutable
// once produced by a detector.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	World      [NumLandmarks]Point3D `json:"world,omitempty"`
	HasWorld   bool                  `json:"hasWorld,omitempty"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Dist returns the Euclidean distance between two 3D points.
func Dist(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// TipDistance returns the distance between two fingertip landmarks,
// preferring world-space coordinates when present since they are
// invariant to camera distance.
func (h *HandLandmarks) TipDistance(a, b int) float64 {
	if h.HasWorld {
		return Dist(h.World[a], h.World[b])
	}
	return Dist(h.Points[a], h.Points[b])
}

// Midpoint returns the image-space midpoint of two landmarks. Used for
// scroll tracking, which always runs in image space because it measures
// on-camera displacement.
func (h *HandLandmarks) Midpoint(a, b int) Point3D {
	return Point3D{
		X: (h.Points[a].X + h.Points[b].X) / 2,
		Y: (h.Points[a].Y + h.Points[b].Y) / 2,
		Z: (h.Points[a].Z + h.Points[b].Z) / 2,
	}
}
