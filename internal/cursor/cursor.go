// Package cursor maps a fingertip's normalized camera-space position to
// an absolute pixel coordinate on the virtual desktop. Two control modes
// are supported: absolute (the camera frame maps onto the whole desktop)
// and relative (velocity-based, mouse-like). All outputs are guaranteed
// to lie within the current virtual desktop bounds.
package cursor

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/filter"
	"github.com/ayusman/mudra/internal/screen"
)

// Mode selects the cursor control mode.
type Mode string

const (
	// ModeAbsolute maps normalized position directly onto the desktop.
	ModeAbsolute Mode = "absolute"
	// ModeRelative moves the cursor by velocity-scaled deltas.
	ModeRelative Mode = "relative"
)

// Config holds every tunable of the mapping engine. Zero values fall
// back to the defaults documented on DefaultConfig.
type Config struct {
	Mode Mode

	// MirrorX flips the horizontal axis so hand-right motion maps to
	// cursor-right on the mirrored camera image.
	MirrorX bool

	// Position filter applied to the final pixel coordinate, per axis.
	FilterKind   string
	FilterParams filter.Params

	// Relative-mode tuning.
	DeadZone        float64       // normalized delta below which motion is noise
	BaseSensitivity float64       // base pixels-per-normalized-unit gain factor
	Acceleration    float64       // acceleration coefficient
	AccelExponent   float64       // exponent applied to speed
	LowSpeedCutoff  float64       // normalized units/sec under which boost applies
	LowSpeedBoost   float64       // gain multiplier below the cutoff, < 1.0
	SpeedMultiplier float64       // global gain multiplier
	MinGain         float64       // gain clamp floor
	MaxGain         float64       // gain clamp ceiling
	DeltaAlpha      float64       // EMA alpha for pixel-delta stabilization
	StaleAfter      time.Duration // gap after which state is re-seeded
}

// DefaultConfig returns the engine defaults: absolute mode, mirrored X,
// Kalman position filtering, and moderate relative-mode acceleration.
func DefaultConfig() Config {
	return Config{
		Mode:            ModeAbsolute,
		MirrorX:         true,
		FilterKind:      filter.KindKalman,
		DeadZone:        0.003,
		BaseSensitivity: 1.4,
		Acceleration:    2.0,
		AccelExponent:   1.2,
		LowSpeedCutoff:  0.25,
		LowSpeedBoost:   0.6,
		SpeedMultiplier: 1.0,
		MinGain:         0.3,
		MaxGain:         8.0,
		DeltaAlpha:      0.5,
		StaleAfter:      500 * time.Millisecond,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Mode == "" {
		c.Mode = d.Mode
	}
	if c.FilterKind == "" {
		c.FilterKind = d.FilterKind
	}
	if c.DeadZone <= 0 {
		c.DeadZone = d.DeadZone
	}
	if c.BaseSensitivity <= 0 {
		c.BaseSensitivity = d.BaseSensitivity
	}
	if c.AccelExponent <= 0 {
		c.AccelExponent = d.AccelExponent
	}
	if c.LowSpeedCutoff <= 0 {
		c.LowSpeedCutoff = d.LowSpeedCutoff
	}
	if c.LowSpeedBoost <= 0 || c.LowSpeedBoost >= 1 {
		c.LowSpeedBoost = d.LowSpeedBoost
	}
	if c.SpeedMultiplier <= 0 {
		c.SpeedMultiplier = d.SpeedMultiplier
	}
	if c.MinGain <= 0 {
		c.MinGain = d.MinGain
	}
	if c.MaxGain <= 0 {
		c.MaxGain = d.MaxGain
	}
	if c.DeltaAlpha <= 0 || c.DeltaAlpha > 1 {
		c.DeltaAlpha = d.DeltaAlpha
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = d.StaleAfter
	}
}

// Engine converts one fingertip position per frame into an absolute
// desktop coordinate. At most one frame is in flight at a time, but the
// geometry watcher invokes Reclip from its refresh goroutine, so all
// state access is serialized by an internal mutex.
type Engine struct {
	cfg     Config
	screens *screen.Watcher
	pointer screen.PointerProvider

	filterX filter.Filter
	filterY filter.Filter
	emaDX   *filter.EMA
	emaDY   *filter.EMA

	mu        sync.Mutex
	seeded    bool
	lastNormX float64
	lastNormY float64
	lastOutX  float64
	lastOutY  float64
	lastTime  time.Time
}

// New creates a mapping engine backed by the given geometry watcher.
// pointer may be nil; relative mode then seeds from the desktop center.
func New(cfg Config, screens *screen.Watcher, pointer screen.PointerProvider) (*Engine, error) {
	cfg.applyDefaults()

	fx, err := filter.New(cfg.FilterKind, cfg.FilterParams)
	if err != nil {
		return nil, fmt.Errorf("position filter: %w", err)
	}
	fy, _ := filter.New(cfg.FilterKind, cfg.FilterParams)

	return &Engine{
		cfg:     cfg,
		screens: screens,
		pointer: pointer,
		filterX: fx,
		filterY: fy,
		emaDX:   filter.NewEMA(cfg.DeltaAlpha),
		emaDY:   filter.NewEMA(cfg.DeltaAlpha),
	}, nil
}

// Mode returns the current control mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Mode
}

// SetMode switches the control mode. Filter and velocity state is reset
// so the first frame in the new mode re-seeds instead of jumping.
func (e *Engine) SetMode(m Mode) {
	if m != ModeAbsolute && m != ModeRelative {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Mode = m
	e.reset()
}

// Reset discards per-frame state. Called when the hand is lost and
// re-acquired so stale deltas never produce a discontinuous jump.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

func (e *Engine) reset() {
	e.seeded = false
	e.filterX.Reset()
	e.filterY.Reset()
	e.emaDX.Reset()
	e.emaDY.Reset()
}

// Reclip clamps the cached output position into new geometry. Invoked by
// the screen watcher when monitors change.
func (e *Engine) Reclip(geo screen.Geometry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	x, y := geo.Clip(int(math.Round(e.lastOutX)), int(math.Round(e.lastOutY)))
	e.lastOutX = float64(x)
	e.lastOutY = float64(y)
}

// Update maps one normalized fingertip position, observed at now, to an
// absolute desktop coordinate. The result always lies within the current
// virtual desktop bounds (offset-translated when the platform requires
// non-negative coordinates).
func (e *Engine) Update(nx, ny float64, now time.Time) (int, int) {
	geo := e.screens.Geometry()

	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.cfg.Mode {
	case ModeRelative:
		return e.updateRelative(nx, ny, now, geo)
	default:
		return e.updateAbsolute(nx, ny, geo)
	}
}

func (e *Engine) updateAbsolute(nx, ny float64, geo screen.Geometry) (int, int) {
	if e.cfg.MirrorX {
		nx = 1 - nx
	}
	nx = clamp01(nx)
	ny = clamp01(ny)

	x := float64(geo.Bounds.X+geo.OffsetX) + nx*float64(geo.Bounds.W-1)
	y := float64(geo.Bounds.Y+geo.OffsetY) + ny*float64(geo.Bounds.H-1)

	x = e.filterX.Filter(x)
	y = e.filterY.Filter(y)

	outX, outY := geo.Clip(int(math.Round(x)), int(math.Round(y)))
	e.lastOutX = float64(outX)
	e.lastOutY = float64(outY)
	return outX, outY
}

func (e *Engine) updateRelative(nx, ny float64, now time.Time, geo screen.Geometry) (int, int) {
	if !e.seeded || now.Sub(e.lastTime) > e.cfg.StaleAfter {
		return e.seedRelative(nx, ny, now, geo)
	}

	dt := now.Sub(e.lastTime).Seconds()
	e.lastTime = now

	dx := nx - e.lastNormX
	dy := ny - e.lastNormY
	e.lastNormX = nx
	e.lastNormY = ny

	// Dead zone: sub-threshold deltas are sensor noise.
	if math.Abs(dx) < e.cfg.DeadZone {
		dx = 0
	}
	if math.Abs(dy) < e.cfg.DeadZone {
		dy = 0
	}
	if dx == 0 && dy == 0 {
		return int(math.Round(e.lastOutX)), int(math.Round(e.lastOutY))
	}

	if e.cfg.MirrorX {
		dx = -dx
	}

	if dt <= 0 {
		dt = 1.0 / 60
	}
	speed := math.Hypot(dx, dy) / dt

	gain := e.cfg.BaseSensitivity * (1 + e.cfg.Acceleration*math.Pow(speed, e.cfg.AccelExponent))
	if speed < e.cfg.LowSpeedCutoff {
		gain *= e.cfg.LowSpeedBoost
	}
	gain *= e.cfg.SpeedMultiplier
	if gain < e.cfg.MinGain {
		gain = e.cfg.MinGain
	} else if gain > e.cfg.MaxGain {
		gain = e.cfg.MaxGain
	}

	pixDX := e.emaDX.Filter(dx * float64(geo.Bounds.W-1) * gain)
	pixDY := e.emaDY.Filter(dy * float64(geo.Bounds.H-1) * gain)

	x := e.filterX.Filter(e.lastOutX + pixDX)
	y := e.filterY.Filter(e.lastOutY + pixDY)

	outX, outY := geo.Clip(int(math.Round(x)), int(math.Round(y)))
	e.lastOutX = float64(outX)
	e.lastOutY = float64(outY)
	return outX, outY
}

// seedRelative anchors relative state to the current OS pointer position,
// or the desktop center when no pointer provider is available. The first
// frame after a seed emits the anchor itself, never a delta against an
// undefined prior state.
func (e *Engine) seedRelative(nx, ny float64, now time.Time, geo screen.Geometry) (int, int) {
	x, y := geo.Center()
	if e.pointer != nil {
		px, py, err := e.pointer.PointerPosition()
		if err == nil {
			x, y = geo.Clip(px+geo.OffsetX, py+geo.OffsetY)
		} else {
			log.Printf("cursor: pointer query failed, seeding from desktop center: %v", err)
		}
	}

	e.seeded = true
	e.lastNormX = nx
	e.lastNormY = ny
	e.lastTime = now
	e.lastOutX = float64(x)
	e.lastOutY = float64(y)

	e.filterX.Reset()
	e.filterY.Reset()
	e.emaDX.Reset()
	e.emaDY.Reset()
	e.filterX.Filter(float64(x))
	e.filterY.Filter(float64(y))

	return x, y
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
