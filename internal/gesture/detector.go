package gesture

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// Config holds every tunable of the gesture detector. Distance-valued
// thresholds are authored in centimeters and converted to the unit of
// the landmark space actually supplied: meters when world-space
// landmarks are enabled, normalized camera-space units otherwise.
type Config struct {
	// Hysteresis thresholds on the distance/baseline ratio.
	InRatio  float64 // transition to pinched at or below (default 0.35)
	OutRatio float64 // transition to released at or above (default 0.55)

	// MinCloseRatio is the stricter ratio both the index-middle and
	// middle-ring pairs must be under to read as a three-finger pinch.
	MinCloseRatio float64 // default 0.25

	// SmoothAlpha is the EMA alpha applied to raw pair distances.
	SmoothAlpha float64 // default 0.4

	// BaselineFloorCm clamps the adaptive baseline above sensor noise.
	BaselineFloorCm float64 // default 3.0

	// Click timing.
	MinPress      time.Duration // pinch must persist this long (default 60ms)
	ClickDebounce time.Duration // min gap between fires per pair (default 120ms)

	// Drag/zoom.
	HoldThreshold time.Duration // pinch older than this becomes a drag (default 200ms)
	ZoomDeltaCm   float64       // distance change that reads as zoom (default 2.0)
	ZoomDebounce  time.Duration // default 300ms

	// Scroll.
	ScrollThreshold float64       // normalized midpoint displacement (default 0.035)
	ScrollDebounce  time.Duration // default 150ms

	// WorldLandmarks declares that the detector supplies world-space
	// coordinates in meters. Must match the landmark source; the two
	// numeric spaces are not interchangeable.
	WorldLandmarks bool

	// NormalizedPerCm scales cm-authored thresholds into normalized
	// image-space units when WorldLandmarks is off (default 0.01).
	NormalizedPerCm float64
}

// DefaultConfig returns the documented gesture defaults.
func DefaultConfig() Config {
	return Config{
		InRatio:         0.35,
		OutRatio:        0.55,
		MinCloseRatio:   0.25,
		SmoothAlpha:     0.4,
		BaselineFloorCm: 3.0,
		MinPress:        60 * time.Millisecond,
		ClickDebounce:   120 * time.Millisecond,
		HoldThreshold:   200 * time.Millisecond,
		ZoomDeltaCm:     2.0,
		ZoomDebounce:    300 * time.Millisecond,
		ScrollThreshold: 0.035,
		ScrollDebounce:  150 * time.Millisecond,
		NormalizedPerCm: 0.01,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.InRatio <= 0 {
		c.InRatio = d.InRatio
	}
	if c.OutRatio <= 0 {
		c.OutRatio = d.OutRatio
	}
	if c.MinCloseRatio <= 0 {
		c.MinCloseRatio = d.MinCloseRatio
	}
	if c.SmoothAlpha <= 0 || c.SmoothAlpha > 1 {
		c.SmoothAlpha = d.SmoothAlpha
	}
	if c.BaselineFloorCm <= 0 {
		c.BaselineFloorCm = d.BaselineFloorCm
	}
	if c.MinPress <= 0 {
		c.MinPress = d.MinPress
	}
	if c.ClickDebounce <= 0 {
		c.ClickDebounce = d.ClickDebounce
	}
	if c.HoldThreshold <= 0 {
		c.HoldThreshold = d.HoldThreshold
	}
	if c.ZoomDeltaCm <= 0 {
		c.ZoomDeltaCm = d.ZoomDeltaCm
	}
	if c.ZoomDebounce <= 0 {
		c.ZoomDebounce = d.ZoomDebounce
	}
	if c.ScrollThreshold <= 0 {
		c.ScrollThreshold = d.ScrollThreshold
	}
	if c.ScrollDebounce <= 0 {
		c.ScrollDebounce = d.ScrollDebounce
	}
	if c.NormalizedPerCm <= 0 {
		c.NormalizedPerCm = d.NormalizedPerCm
	}
}

// units converts a threshold authored in centimeters into the unit of
// the configured landmark space.
func (c Config) units(cm float64) float64 {
	if c.WorldLandmarks {
		return cm / 100 // meters
	}
	return cm * c.NormalizedPerCm
}

// Detector is the per-hand gesture recognition state machine. All state
// is owned by the instance, so one detector per hand runs without
// cross-talk. Not safe for concurrent use; at most one frame in flight.
type Detector struct {
	cfg Config

	indexMiddle *pinchPair
	middleRing  *pinchPair
	thumbIndex  *pinchPair

	drag         DragState
	lastZoomFire time.Time

	scrollMid    detector.Point3D
	hasScrollMid bool
	lastScroll   time.Time

	// now is the clock; overridable in tests.
	now func() time.Time
}

// NewDetector creates a gesture detector with the given configuration.
func NewDetector(cfg Config) *Detector {
	cfg.applyDefaults()
	floor := cfg.units(cfg.BaselineFloorCm)

	return &Detector{
		cfg:         cfg,
		indexMiddle: newPinchPair(detector.IndexTip, detector.MiddleTip, cfg.SmoothAlpha, floor, cfg.InRatio, cfg.OutRatio),
		middleRing:  newPinchPair(detector.MiddleTip, detector.RingTip, cfg.SmoothAlpha, floor, cfg.InRatio, cfg.OutRatio),
		thumbIndex:  newPinchPair(detector.ThumbTip, detector.IndexTip, cfg.SmoothAlpha, floor, cfg.InRatio, cfg.OutRatio),
		drag:        DragReleased,
		now:         time.Now,
	}
}

// Drag returns the current drag state.
func (d *Detector) Drag() DragState {
	return d.drag
}

// Reset clears all adaptive baselines, pinch flags and timers. Call on
// deliberate discontinuities (mode switch); not on dropped frames.
func (d *Detector) Reset() {
	d.indexMiddle.reset()
	d.middleRing.reset()
	d.thumbIndex.reset()
	d.drag = DragReleased
	d.lastZoomFire = time.Time{}
	d.hasScrollMid = false
	d.lastScroll = time.Time{}
}

// Process ingests one hand observation and returns at most one event.
// A nil hand (no detection, too few joints, or low confidence, as
// decided by the caller) preserves all state unchanged so a single
// dropped frame never glitches an in-flight gesture.
func (d *Detector) Process(h *detector.HandLandmarks) Event {
	if h == nil {
		return EventNone
	}

	now := d.now()

	d.indexMiddle.update(h.TipDistance(detector.IndexTip, detector.MiddleTip), now)
	d.middleRing.update(h.TipDistance(detector.MiddleTip, detector.RingTip), now)
	d.thumbIndex.update(h.TipDistance(detector.ThumbTip, detector.IndexTip), now)

	// Fixed priority order: three-finger pinch, middle-ring, index-middle,
	// thumb-index drag/zoom, then scroll.
	if ev := d.checkClicks(now); ev != EventNone {
		return ev
	}
	if ev := d.stepDrag(now); ev != EventNone {
		return ev
	}
	return d.checkScroll(h, now)
}

// checkClicks resolves the click gestures in priority order.
func (d *Detector) checkClicks(now time.Time) Event {
	im, mr := d.indexMiddle, d.middleRing

	// Three-finger pinch: both pairs tightly closed.
	if im.ratio < d.cfg.MinCloseRatio && mr.ratio < d.cfg.MinCloseRatio {
		if im.clickReady(now, d.cfg.MinPress, d.cfg.ClickDebounce) {
			im.fire(now)
			mr.fire(now)
			return EventMiddleClick
		}
		return EventNone
	}

	if mr.clickReady(now, d.cfg.MinPress, d.cfg.ClickDebounce) {
		mr.fire(now)
		return EventRightClick
	}
	if im.clickReady(now, d.cfg.MinPress, d.cfg.ClickDebounce) {
		im.fire(now)
		return EventLeftClick
	}
	return EventNone
}

// stepDrag advances the thumb-index drag/zoom state machine.
func (d *Detector) stepDrag(now time.Time) Event {
	ti := d.thumbIndex

	switch d.drag {
	case DragReleased:
		if ti.pinched {
			d.drag = DragHeld
		}

	case DragHeld:
		if !ti.pinched {
			d.drag = DragReleased
			return d.checkZoom(now)
		}
		if now.Sub(ti.pinchStart) >= d.cfg.HoldThreshold {
			d.drag = DragDragging
			return EventDragStart
		}

	case DragDragging:
		if !ti.pinched {
			d.drag = DragReleased
			return EventDragEnd
		}
		return EventDragMove
	}
	return EventNone
}

// checkZoom interprets a short thumb-index pinch as a zoom gesture when
// the smoothed distance moved far enough from where the pinch engaged.
func (d *Detector) checkZoom(now time.Time) Event {
	if !d.lastZoomFire.IsZero() && now.Sub(d.lastZoomFire) < d.cfg.ZoomDebounce {
		return EventNone
	}

	ti := d.thumbIndex
	zoomDelta := d.cfg.units(d.cfg.ZoomDeltaCm)
	shrink := ti.engageDist - ti.minDist
	grow := ti.maxDist - ti.engageDist

	if shrink <= zoomDelta && grow <= zoomDelta {
		return EventNone
	}
	d.lastZoomFire = now
	if shrink >= grow {
		return EventZoomIn
	}
	return EventZoomOut
}

// checkScroll tracks the index/middle fingertip midpoint between frames.
// Only evaluated while no pinch is active; a pinch invalidates the
// reference point so releasing one never reads as a scroll jump.
func (d *Detector) checkScroll(h *detector.HandLandmarks, now time.Time) Event {
	if d.indexMiddle.pinched || d.middleRing.pinched || d.thumbIndex.pinched {
		d.hasScrollMid = false
		return EventNone
	}

	mid := h.Midpoint(detector.IndexTip, detector.MiddleTip)
	if !d.hasScrollMid {
		d.scrollMid = mid
		d.hasScrollMid = true
		return EventNone
	}

	dx := mid.X - d.scrollMid.X
	dy := mid.Y - d.scrollMid.Y
	d.scrollMid = mid

	debounced := !d.lastScroll.IsZero() && now.Sub(d.lastScroll) < d.cfg.ScrollDebounce
	if debounced {
		return EventNone
	}

	// Vertical takes priority over horizontal.
	if dy <= -d.cfg.ScrollThreshold {
		d.lastScroll = now
		return EventScrollUp
	}
	if dy >= d.cfg.ScrollThreshold {
		d.lastScroll = now
		return EventScrollDown
	}
	if dx <= -d.cfg.ScrollThreshold {
		d.lastScroll = now
		return EventScrollLeft
	}
	if dx >= d.cfg.ScrollThreshold {
		d.lastScroll = now
		return EventScrollRight
	}
	return EventNone
}
