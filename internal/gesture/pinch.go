package gesture

import (
	"time"

	"github.com/ayusman/mudra/internal/filter"
)

// pinchPair tracks one monitored fingertip pair: the EMA-smoothed
// distance, the adaptive open-hand baseline, the hysteresis pinched flag
// and per-pair timing for click debouncing.
//
// The baseline is monotonically non-decreasing while the pair is not
// pinched and never drops below the configured floor. Normalizing the
// smoothed distance against it makes pinch detection tolerant of hand
// size and camera distance.
type pinchPair struct {
	a, b int // landmark indices

	ema        *filter.EMA
	smoothed   float64
	baseline   float64
	floor      float64
	inRatio    float64
	outRatio   float64
	ratio      float64
	pinched    bool
	spent      bool
	pinchStart time.Time
	engageDist float64 // smoothed distance at the last rising edge
	minDist    float64 // smoothed extremes while pinched, for zoom detection
	maxDist    float64
	lastFire   time.Time
}

func newPinchPair(a, b int, alpha, floor, inRatio, outRatio float64) *pinchPair {
	return &pinchPair{
		a:        a,
		b:        b,
		ema:      filter.NewEMA(alpha),
		floor:    floor,
		inRatio:  inRatio,
		outRatio: outRatio,
	}
}

// update ingests one raw distance sample and advances the hysteresis
// state. Returns true on the rising edge into pinched.
func (p *pinchPair) update(raw float64, now time.Time) bool {
	p.smoothed = p.ema.Filter(raw)

	if !p.pinched {
		if p.smoothed > p.baseline {
			p.baseline = p.smoothed
		}
		if p.baseline < p.floor {
			p.baseline = p.floor
		}
	}

	p.ratio = p.smoothed / p.baseline
	if p.ratio > 2 {
		p.ratio = 2
	} else if p.ratio < 0 {
		p.ratio = 0
	}

	if !p.pinched && p.ratio <= p.inRatio {
		p.pinched = true
		p.pinchStart = now
		p.engageDist = p.smoothed
		p.minDist = p.smoothed
		p.maxDist = p.smoothed
		return true
	}
	if p.pinched {
		if p.ratio >= p.outRatio {
			// The reopening frame itself is excluded from the extremes so
			// a release never reads as an outward zoom.
			p.pinched = false
			p.spent = false
			return false
		}
		if p.smoothed < p.minDist {
			p.minDist = p.smoothed
		}
		if p.smoothed > p.maxDist {
			p.maxDist = p.smoothed
		}
	}
	return false
}

// clickReady reports whether the pair should fire a click now: pinched,
// not yet fired for this pinch, held at least minPress, and at least
// debounce since this pair's last fire.
func (p *pinchPair) clickReady(now time.Time, minPress, debounce time.Duration) bool {
	if !p.pinched || p.spent {
		return false
	}
	if now.Sub(p.pinchStart) < minPress {
		return false
	}
	if !p.lastFire.IsZero() && now.Sub(p.lastFire) < debounce {
		return false
	}
	return true
}

// fire marks the pair spent until it releases and re-pinches.
func (p *pinchPair) fire(now time.Time) {
	p.spent = true
	p.lastFire = now
}

// reset clears all adaptive and timing state.
func (p *pinchPair) reset() {
	p.ema.Reset()
	p.smoothed = 0
	p.baseline = 0
	p.ratio = 0
	p.pinched = false
	p.spent = false
	p.pinchStart = time.Time{}
	p.engageDist = 0
	p.minDist = 0
	p.maxDist = 0
	p.lastFire = time.Time{}
}
