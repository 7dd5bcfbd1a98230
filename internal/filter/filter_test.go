package filter

import (
	"math"
	"testing"
)

func TestKalman1D_FirstCallReturnsInput(t *testing.T) {
	k := NewKalman1D(0.01, 4.0)

	got := k.Filter(42.5)
	if got != 42.5 {
		t.Errorf("first call should return input unchanged, got %f", got)
	}
}

func TestKalman1D_ConvergesToConstantInput(t *testing.T) {
	k := NewKalman1D(0.01, 4.0)

	// Seed far away, then feed a constant signal
	k.Filter(0)

	var estimate float64
	for i := 0; i < 200; i++ {
		estimate = k.Filter(100)
	}

	if math.Abs(estimate-100) > 1.0 {
		t.Errorf("expected convergence near 100 after 200 samples, got %f", estimate)
	}
}

func TestKalman1D_Reset(t *testing.T) {
	k := NewKalman1D(0.01, 4.0)
	k.Filter(10)
	k.Filter(20)

	k.Reset()

	got := k.Filter(55)
	if got != 55 {
		t.Errorf("after reset expected first-call behavior (55), got %f", got)
	}
}

func TestKalman1D_Seed(t *testing.T) {
	k := NewKalman1D(0.01, 4.0)
	k.Seed(500)

	// A nearby measurement should move only slightly from the seed.
	got := k.Filter(510)
	if got <= 500 || got >= 510 {
		t.Errorf("expected estimate strictly between seed and measurement, got %f", got)
	}
}

func TestMovingAverage_Filter(t *testing.T) {
	tests := []struct {
		name   string
		window int
		input  []float64
		want   float64
	}{
		{"first call returns input", 5, []float64{7}, 7},
		{"partial window", 5, []float64{1, 2, 3}, 2},
		{"full window", 3, []float64{1, 2, 3}, 2},
		{"eviction beyond capacity", 3, []float64{10, 1, 2, 3}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMovingAverage(tt.window)
			var got float64
			for _, v := range tt.input {
				got = m.Filter(v)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestMovingAverage_Reset(t *testing.T) {
	m := NewMovingAverage(4)
	m.Filter(100)
	m.Filter(200)

	m.Reset()

	if got := m.Filter(8); got != 8 {
		t.Errorf("after reset expected 8, got %f", got)
	}
}

func TestEMA_FirstCallSeedsAndSubsequentBlend(t *testing.T) {
	e := NewEMA(0.5)

	if got := e.Filter(10); got != 10 {
		t.Errorf("first call should return input, got %f", got)
	}
	if got := e.Filter(20); math.Abs(got-15) > 1e-9 {
		t.Errorf("expected 0.5*20 + 0.5*10 = 15, got %f", got)
	}
}

func TestEMA_ConvergesToConstantInput(t *testing.T) {
	e := NewEMA(0.2)
	e.Filter(0)

	var estimate float64
	for i := 0; i < 100; i++ {
		estimate = e.Filter(50)
	}

	if math.Abs(estimate-50) > 0.01 {
		t.Errorf("expected convergence near 50, got %f", estimate)
	}
}

func TestEMA_Reset(t *testing.T) {
	e := NewEMA(0.3)
	e.Filter(99)
	e.Reset()

	if got := e.Filter(1); got != 1 {
		t.Errorf("after reset expected first-call behavior, got %f", got)
	}
	if _, seeded := e.Value(); !seeded {
		t.Error("expected filter to be seeded after a post-reset sample")
	}
}

func TestNew_KindSelection(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{KindKalman, false},
		{KindMovingAverage, false},
		{KindEMA, false},
		{"median", true},
	}

	for _, tt := range tests {
		f, err := New(tt.kind, Params{})
		if tt.wantErr {
			if err == nil {
				t.Errorf("New(%q) expected error", tt.kind)
			}
			continue
		}
		if err != nil {
			t.Errorf("New(%q) unexpected error: %v", tt.kind, err)
			continue
		}
		if got := f.Filter(3.25); got != 3.25 {
			t.Errorf("New(%q): first call should return input, got %f", tt.kind, got)
		}
	}
}
