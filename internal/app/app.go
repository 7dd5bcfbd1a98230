// Package app wires camera capture, hand detection, cursor mapping,
// gesture recognition and pointer output into the processing pipeline.
package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/actions"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hooks"
	"github.com/ayusman/mudra/internal/screen"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while no motion is detected.
	IdleFPS = 5
	// IdleTimeout is how long after the last motion the pipeline drops
	// back to the idle rate.
	IdleTimeout = 2 * time.Second
	// HandLossTimeout is how long after the last confident hand an
	// in-flight drag is force-released.
	HandLossTimeout = 500 * time.Millisecond
	// HookTimeout bounds each hook execution.
	HookTimeout = 5 * time.Second
	// DefaultMotionThreshold is the percentage of changed pixels that
	// counts as motion.
	DefaultMotionThreshold = 1.0
)

// Config holds the application's dependencies. Settings is required;
// the remaining fields override the production defaults and exist
// mainly for tests.
type Config struct {
	Settings config.Config
	Store    *store.Store
	HookDir  string

	Camera   capture.Camera
	Detector detector.Detector
	Sink     actions.Sink
	Screens  []screen.Provider
	Pointer  screen.PointerProvider
}

// Telemetry is one pipeline observation, published to subscribers for
// the websocket stream.
type Telemetry struct {
	Timestamp int64                    `json:"timestamp"`
	Hands     []detector.HandLandmarks `json:"hands"`
	Event     gesture.Event            `json:"event,omitempty"`
	CursorX   int                      `json:"cursorX"`
	CursorY   int                      `json:"cursorY"`
	Drag      string                   `json:"drag"`
	Enabled   bool                     `json:"enabled"`
}

// Status is the application state snapshot served by the HTTP API.
type Status struct {
	Enabled  bool            `json:"enabled"`
	Mode     cursor.Mode     `json:"mode"`
	Geometry screen.Geometry `json:"geometry"`
	Drag     string          `json:"drag"`
	CursorX  int             `json:"cursorX"`
	CursorY  int             `json:"cursorY"`
}

// App orchestrates the capture-detect-act pipeline.
type App struct {
	config   Config
	settings config.Config

	camera     capture.Camera
	motion     *capture.MotionDetector
	det        detector.Detector
	detCfg     detector.Config
	screens    *screen.Watcher
	engine     *cursor.Engine
	gestures   *gesture.Detector
	dispatcher *actions.Dispatcher
	asyncSink  *actions.AsyncSink
	hooks      *hooks.Runner

	enabled      bool
	lastX, lastY int
	mu           sync.RWMutex
	stopCh       chan struct{}

	subMu sync.RWMutex
	subs  map[chan Telemetry]struct{}

	frameMu   sync.RWMutex
	lastFrame []byte
	viewers   int
}

// New creates the application from its configuration.
func New(cfg Config) (*App, error) {
	settings := cfg.Settings

	a := &App{
		config:   cfg,
		settings: settings,
		motion:   capture.NewMotionDetector(DefaultMotionThreshold),
		detCfg:   settings.DetectorConfig(),
		subs:     make(map[chan Telemetry]struct{}),
		enabled:  settings.ActionsEnabled(),
	}

	a.camera = cfg.Camera
	if a.camera == nil {
		a.camera = capture.NewCamera(settings.Camera.DeviceID)
	}

	a.det = cfg.Detector
	if a.det == nil {
		if mp, err := detector.NewMediaPipeDetector(a.detCfg); err == nil {
			a.det = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.det = detector.NewMockDetector()
		}
	}

	providers := cfg.Screens
	pointer := cfg.Pointer
	if providers == nil {
		rp := screen.NewRobotgoProvider()
		providers = []screen.Provider{rp}
		if pointer == nil {
			pointer = rp
		}
	}
	a.screens = screen.NewWatcher(screen.WatcherConfig{
		Providers:       providers,
		RefreshInterval: settings.ScreenRefresh(),
		NonNegative:     settings.ScreenNonNegative(),
		OnChange:        a.onGeometryChange,
	})

	engine, err := cursor.New(settings.CursorConfig(), a.screens, pointer)
	if err != nil {
		return nil, fmt.Errorf("cursor engine: %w", err)
	}
	a.engine = engine

	a.gestures = gesture.NewDetector(settings.GestureConfig())

	sink := cfg.Sink
	if sink == nil {
		// Injection runs behind a queue so a slow platform call never
		// stalls the frame loop.
		a.asyncSink = actions.NewAsyncSink(actions.NewRobotgoSink(), 0)
		sink = a.asyncSink
	}
	a.dispatcher = actions.NewDispatcher(settings.ActionsConfig(), sink)

	hookDir := cfg.HookDir
	if hookDir == "" {
		hookDir = defaultHookDir()
	}
	a.hooks = hooks.NewRunner(hookDir, HookTimeout)
	if err := a.hooks.Discover(); err != nil {
		log.Printf("Hook discovery failed: %v", err)
	}

	return a, nil
}

func defaultHookDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "hooks"
	}
	return filepath.Join(home, ".mudra", "hooks")
}

// onGeometryChange pulls the cached cursor position back inside the
// new display bounds.
func (a *App) onGeometryChange(geo screen.Geometry) {
	if a.engine == nil {
		return
	}
	log.Printf("Display geometry changed: %dx%d at (%d,%d)",
		geo.Bounds.W, geo.Bounds.H, geo.Bounds.X, geo.Bounds.Y)
	a.engine.Reclip(geo)
}

// SetEnabled enables or disables pointer output. Disabling releases
// any in-flight drag so the left button is never left stuck.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.enabled == enabled {
		return
	}
	a.enabled = enabled
	if !enabled {
		if err := a.dispatcher.Release(); err != nil {
			log.Printf("Error releasing drag: %v", err)
		}
		a.gestures.Reset()
	}
}

// IsEnabled returns whether pointer output is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Mode returns the current cursor mapping mode.
func (a *App) Mode() cursor.Mode {
	return a.engine.Mode()
}

// SetMode switches the cursor mapping mode. The gesture state machine
// is reset and any drag released since the pointer is about to jump.
func (a *App) SetMode(m cursor.Mode) {
	if err := a.dispatcher.Release(); err != nil {
		log.Printf("Error releasing drag: %v", err)
	}
	a.gestures.Reset()
	a.engine.SetMode(m)
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.det = d
}

// Status returns a snapshot of the application state.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Status{
		Enabled:  a.enabled,
		Mode:     a.engine.Mode(),
		Geometry: a.screens.Geometry(),
		Drag:     a.gestures.Drag().String(),
		CursorX:  a.lastX,
		CursorY:  a.lastY,
	}
}

// Start opens the camera and begins the pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	a.camera.SetFPS(IdleFPS)

	a.screens.Start()

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Pipeline started")
	return nil
}

// Stop halts the pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	a.screens.Stop()

	if err := a.dispatcher.Release(); err != nil {
		log.Printf("Error releasing drag: %v", err)
	}
	if a.asyncSink != nil {
		a.asyncSink.Close()
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()
	if a.det != nil {
		if err := a.det.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Pipeline stopped")
}

// Subscribe registers a telemetry channel. The returned cancel func
// must be called to release it. Slow subscribers miss frames rather
// than stalling the pipeline.
func (a *App) Subscribe() (<-chan Telemetry, func()) {
	ch := make(chan Telemetry, 8)

	a.subMu.Lock()
	a.subs[ch] = struct{}{}
	a.subMu.Unlock()

	cancel := func() {
		a.subMu.Lock()
		delete(a.subs, ch)
		a.subMu.Unlock()
	}
	return ch, cancel
}

func (a *App) publish(t Telemetry) {
	a.subMu.RLock()
	defer a.subMu.RUnlock()
	for ch := range a.subs {
		select {
		case ch <- t:
		default:
		}
	}
}

// AddViewer marks an MJPEG stream client as connected. Frames are only
// JPEG-encoded while at least one viewer is watching.
func (a *App) AddViewer() {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()
	a.viewers++
}

// RemoveViewer marks an MJPEG stream client as disconnected.
func (a *App) RemoveViewer() {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()
	if a.viewers > 0 {
		a.viewers--
	}
	if a.viewers == 0 {
		a.lastFrame = nil
	}
}

// LatestFrame returns the most recent JPEG-encoded camera frame.
func (a *App) LatestFrame() ([]byte, bool) {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()
	if a.lastFrame == nil {
		return nil, false
	}
	return a.lastFrame, true
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.det
}

// Screens returns the display geometry watcher.
func (a *App) Screens() *screen.Watcher {
	return a.screens
}

// Hooks returns the hook runner.
func (a *App) Hooks() *hooks.Runner {
	return a.hooks
}

// Settings returns the loaded configuration.
func (a *App) Settings() config.Config {
	return a.settings
}

// Store returns the settings database, or nil when storage is disabled.
func (a *App) Store() *store.Store {
	return a.config.Store
}
