package screen

import (
	"log"
	"sync"
	"time"
)

// DefaultRefreshInterval is how often the watcher re-probes monitor
// geometry when not configured otherwise.
const DefaultRefreshInterval = 5 * time.Second

// Watcher holds the current virtual desktop geometry and re-probes an
// ordered provider chain on a fixed interval. The first provider that
// succeeds wins; if all fail, the last known geometry is kept (or
// DefaultGeometry on the first probe) and the failure is logged as
// non-fatal.
type Watcher struct {
	providers   []Provider
	interval    time.Duration
	nonNegative bool
	onChange    func(Geometry)

	mu      sync.RWMutex
	current Geometry
	stopCh  chan struct{}
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Providers are tried in order on every probe. Empty means the
	// robotgo provider followed by nothing, which degrades to
	// DefaultGeometry when robotgo is unavailable.
	Providers []Provider

	// RefreshInterval between geometry probes. Zero means
	// DefaultRefreshInterval.
	RefreshInterval time.Duration

	// NonNegative requests an offset that keeps all emitted
	// coordinates >= 0 (for injection APIs that reject negative
	// coordinates).
	NonNegative bool

	// OnChange is invoked, if set, whenever a probe yields different
	// geometry than the current one. Called from the refresh goroutine.
	OnChange func(Geometry)
}

// NewWatcher creates a watcher and performs an initial synchronous probe
// so Geometry is valid immediately.
func NewWatcher(cfg WatcherConfig) *Watcher {
	providers := cfg.Providers
	if len(providers) == 0 {
		providers = []Provider{&RobotgoProvider{}}
	}
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	w := &Watcher{
		providers:   providers,
		interval:    interval,
		nonNegative: cfg.NonNegative,
		onChange:    cfg.OnChange,
		current:     DefaultGeometry,
	}
	w.probe()
	return w
}

// Geometry returns the current virtual desktop geometry.
func (w *Watcher) Geometry() Geometry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Start launches the periodic refresh goroutine. Calling Start twice is
// a no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh != nil {
		return
	}
	w.stopCh = make(chan struct{})
	go w.run(w.stopCh)
}

// Stop halts the refresh goroutine.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

func (w *Watcher) run(stopCh chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			w.probe()
		}
	}
}

// probe queries the provider chain and atomically swaps the stored
// geometry on change.
func (w *Watcher) probe() {
	var (
		bounds Rect
		ok     bool
	)
	for _, p := range w.providers {
		rects, err := p.Displays()
		if err != nil {
			continue
		}
		u, err := Union(rects)
		if err != nil {
			continue
		}
		bounds = u
		ok = true
		break
	}

	if !ok {
		// Keep the last known geometry (DefaultGeometry before the first
		// successful probe) and retry on the next tick.
		cur := w.Geometry()
		log.Printf("screen: all geometry providers failed, keeping %dx%d",
			cur.Bounds.W, cur.Bounds.H)
		return
	}

	geo := Geometry{Bounds: bounds}
	if w.nonNegative {
		geo.OffsetX, geo.OffsetY = normalizeOffset(bounds)
	}

	w.mu.Lock()
	changed := geo != w.current
	w.current = geo
	onChange := w.onChange
	w.mu.Unlock()

	if changed {
		log.Printf("screen: virtual desktop %dx%d at (%d,%d), offset (%d,%d)",
			geo.Bounds.W, geo.Bounds.H, geo.Bounds.X, geo.Bounds.Y, geo.OffsetX, geo.OffsetY)
		if onChange != nil {
			onChange(geo)
		}
	}
}
