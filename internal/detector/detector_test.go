package detector

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestDist(t *testing.T) {
	tests := []struct {
		name string
		a, b Point3D
		want float64
	}{
		{"identical points", Point3D{1, 2, 3}, Point3D{1, 2, 3}, 0},
		{"unit apart on x", Point3D{0, 0, 0}, Point3D{1, 0, 0}, 1},
		{"3-4-5 triangle", Point3D{0, 0, 0}, Point3D{3, 4, 0}, 5},
		{"with z component", Point3D{0, 0, 0}, Point3D{2, 3, 6}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dist(tt.a, tt.b); math.Abs(got-tt.want) > epsilon {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestHandLandmarks_TipDistance(t *testing.T) {
	h := HandLandmarks{}
	h.Points[ThumbTip] = Point3D{X: 0.4, Y: 0.5}
	h.Points[IndexTip] = Point3D{X: 0.4, Y: 0.6}

	if got := h.TipDistance(ThumbTip, IndexTip); math.Abs(got-0.1) > epsilon {
		t.Errorf("image-space distance: got %f, want 0.1", got)
	}

	// With world landmarks present, they take precedence.
	h.World[ThumbTip] = Point3D{X: 0, Y: 0}
	h.World[IndexTip] = Point3D{X: 0.03, Y: 0}
	h.HasWorld = true

	if got := h.TipDistance(ThumbTip, IndexTip); math.Abs(got-0.03) > epsilon {
		t.Errorf("world-space distance: got %f, want 0.03", got)
	}
}

func TestHandLandmarks_Midpoint(t *testing.T) {
	h := HandLandmarks{}
	h.Points[IndexTip] = Point3D{X: 0.2, Y: 0.4}
	h.Points[MiddleTip] = Point3D{X: 0.4, Y: 0.8}

	mid := h.Midpoint(IndexTip, MiddleTip)
	if math.Abs(mid.X-0.3) > epsilon || math.Abs(mid.Y-0.6) > epsilon {
		t.Errorf("got midpoint (%f,%f), want (0.3,0.6)", mid.X, mid.Y)
	}
}

func TestConfig_FilterConfident(t *testing.T) {
	cfg := Config{MinConfidence: 0.7}

	low := OpenHandLandmarks()
	low.Score = 0.4
	high := OpenHandLandmarks()
	high.Score = 0.9

	got := cfg.FilterConfident([]HandLandmarks{low, high})
	if len(got) != 1 {
		t.Fatalf("expected 1 confident hand, got %d", len(got))
	}
	if got[0].Score != 0.9 {
		t.Errorf("expected the high-confidence hand to survive, got score %f", got[0].Score)
	}
}

func TestConvertHands_DropsIncompleteHands(t *testing.T) {
	full := jsonHand{Handedness: "Right", Score: 0.9}
	for i := 0; i < NumLandmarks; i++ {
		full.Points = append(full.Points, jsonPoint{X: 0.1 + float64(i)*0.01, Y: 0.5})
	}
	short := jsonHand{Handedness: "Left", Score: 0.8}
	for i := 0; i < 10; i++ {
		short.Points = append(short.Points, jsonPoint{X: 0.3, Y: 0.3})
	}

	got := convertHands([]jsonHand{short, full})

	if len(got) != 1 {
		t.Fatalf("expected only the complete hand to survive, got %d hands", len(got))
	}
	if got[0].Handedness != "Right" {
		t.Errorf("wrong hand survived: %s", got[0].Handedness)
	}
	// A zero-filled partial hand would report coincident middle and ring
	// tips; the surviving hand must keep its real joint positions.
	if d := got[0].TipDistance(MiddleTip, RingTip); d < 0.01 {
		t.Errorf("surviving hand lost joint positions, middle-ring distance %f", d)
	}
}

func TestConvertHands_ShortWorldLeavesHandUsable(t *testing.T) {
	h := jsonHand{Handedness: "Right", Score: 0.9}
	for i := 0; i < NumLandmarks; i++ {
		h.Points = append(h.Points, jsonPoint{X: float64(i) * 0.02})
	}
	h.World = []jsonPoint{{X: 0.01}, {X: 0.02}} // truncated world set

	got := convertHands([]jsonHand{h})

	if len(got) != 1 {
		t.Fatalf("expected 1 hand, got %d", len(got))
	}
	if got[0].HasWorld {
		t.Error("truncated world landmarks must not be marked present")
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()

		mock.SetHands([]HandLandmarks{OpenHandLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Errorf("expected 1 hand, got %d", len(hands))
		}
	})

	t.Run("plays scripted sequence and repeats last frame", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetSequence([][]HandLandmarks{
			{OpenHandLandmarks()},
			nil,
			{PinchedLandmarks(IndexTip, MiddleTip)},
		})

		wantLens := []int{1, 0, 1, 1, 1}
		for i, want := range wantLens {
			hands, err := mock.Detect(nil)
			if err != nil {
				t.Fatalf("frame %d: unexpected error: %v", i, err)
			}
			if len(hands) != want {
				t.Errorf("frame %d: expected %d hands, got %d", i, want, len(hands))
			}
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("Close returns nil", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
	})
}

func TestOpenHandLandmarks_NoPairReadsAsPinch(t *testing.T) {
	h := OpenHandLandmarks()

	pairs := [][2]int{
		{IndexTip, MiddleTip},
		{MiddleTip, RingTip},
		{ThumbTip, IndexTip},
	}
	for _, p := range pairs {
		if d := h.TipDistance(p[0], p[1]); d < 0.05 {
			t.Errorf("pair (%d,%d) too close for an open hand: %f", p[0], p[1], d)
		}
	}
}

func TestPinchedLandmarks(t *testing.T) {
	h := PinchedLandmarks(ThumbTip, IndexTip)

	if d := h.TipDistance(ThumbTip, IndexTip); d > epsilon {
		t.Errorf("pinched pair should coincide, distance %f", d)
	}
	// Other pairs untouched.
	if d := h.TipDistance(MiddleTip, RingTip); d < 0.05 {
		t.Errorf("unrelated pair should stay open, distance %f", d)
	}
}
