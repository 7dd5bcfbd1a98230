// Package config loads and saves the application configuration from a
// YAML file. Every field has a working default, so a missing file or a
// partially filled one always yields a runnable configuration.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/actions"
	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/filter"
	"github.com/ayusman/mudra/internal/gesture"
)

// Config is the full application configuration as stored on disk.
type Config struct {
	Camera   CameraConfig   `yaml:"camera" json:"camera"`
	Tracking TrackingConfig `yaml:"hand_tracking" json:"hand_tracking"`
	Cursor   CursorConfig   `yaml:"cursor_control" json:"cursor_control"`
	Gestures GestureConfig  `yaml:"gesture_detection" json:"gesture_detection"`
	Actions  ActionsConfig  `yaml:"actions" json:"actions"`
	Screen   ScreenConfig   `yaml:"screen" json:"screen"`
	Server   ServerConfig   `yaml:"server" json:"server"`
	Storage  StorageConfig  `yaml:"storage" json:"storage"`
}

// CameraConfig selects and tunes the capture device.
type CameraConfig struct {
	DeviceID int `yaml:"device_id" json:"device_id"`
	FPS      int `yaml:"fps" json:"fps"`
}

// TrackingConfig tunes the hand landmark detector.
type TrackingConfig struct {
	MaxHands            int     `yaml:"max_hands" json:"max_hands"`
	DetectionConfidence float64 `yaml:"detection_confidence" json:"detection_confidence"`
	TrackingConfidence  float64 `yaml:"tracking_confidence" json:"tracking_confidence"`
	WorldLandmarks      bool    `yaml:"world_landmarks" json:"world_landmarks"`
}

// CursorConfig tunes pointer mapping and smoothing.
type CursorConfig struct {
	Mode             string  `yaml:"mode" json:"mode"` // "absolute" or "relative"
	MirrorX          *bool   `yaml:"mirror_x" json:"mirror_x"`
	SmoothingFilter  string  `yaml:"smoothing_filter" json:"smoothing_filter"` // "kalman", "moving_average", "ema"
	ProcessNoise     float64 `yaml:"process_noise" json:"process_noise"`
	MeasurementNoise float64 `yaml:"measurement_noise" json:"measurement_noise"`
	Window           int     `yaml:"window" json:"window"`
	Alpha            float64 `yaml:"alpha" json:"alpha"`
	DeadZone         float64 `yaml:"dead_zone" json:"dead_zone"`
	BaseSensitivity  float64 `yaml:"base_sensitivity" json:"base_sensitivity"`
	Acceleration     float64 `yaml:"acceleration" json:"acceleration"`
	AccelExponent    float64 `yaml:"accel_exponent" json:"accel_exponent"`
	LowSpeedCutoff   float64 `yaml:"low_speed_cutoff" json:"low_speed_cutoff"`
	LowSpeedBoost    float64 `yaml:"low_speed_boost" json:"low_speed_boost"`
	SpeedMultiplier  float64 `yaml:"speed_multiplier" json:"speed_multiplier"`
	MinGain          float64 `yaml:"min_gain" json:"min_gain"`
	MaxGain          float64 `yaml:"max_gain" json:"max_gain"`
	DeltaAlpha       float64 `yaml:"delta_alpha" json:"delta_alpha"`
	StaleAfterMs     int     `yaml:"stale_after_ms" json:"stale_after_ms"`
}

// GestureConfig tunes the pinch gesture state machine.
type GestureConfig struct {
	InRatio          float64 `yaml:"in_ratio" json:"in_ratio"`
	OutRatio         float64 `yaml:"out_ratio" json:"out_ratio"`
	MinCloseRatio    float64 `yaml:"min_close_ratio" json:"min_close_ratio"`
	SmoothAlpha      float64 `yaml:"smooth_alpha" json:"smooth_alpha"`
	BaselineFloorCm  float64 `yaml:"baseline_floor_cm" json:"baseline_floor_cm"`
	MinPressMs       int     `yaml:"min_press_ms" json:"min_press_ms"`
	ClickDebounceMs  int     `yaml:"click_debounce_ms" json:"click_debounce_ms"`
	HoldThresholdMs  int     `yaml:"hold_threshold_ms" json:"hold_threshold_ms"`
	ZoomDeltaCm      float64 `yaml:"zoom_delta_cm" json:"zoom_delta_cm"`
	ZoomDebounceMs   int     `yaml:"zoom_debounce_ms" json:"zoom_debounce_ms"`
	ScrollThreshold  float64 `yaml:"scroll_threshold" json:"scroll_threshold"`
	ScrollDebounceMs int     `yaml:"scroll_debounce_ms" json:"scroll_debounce_ms"`
	NormalizedPerCm  float64 `yaml:"normalized_per_cm" json:"normalized_per_cm"`
}

// ActionsConfig tunes pointer output.
type ActionsConfig struct {
	Enabled    *bool `yaml:"enabled" json:"enabled"`
	ScrollStep int   `yaml:"scroll_step" json:"scroll_step"`
	ZoomStep   int   `yaml:"zoom_step" json:"zoom_step"`
}

// ScreenConfig tunes display geometry tracking.
type ScreenConfig struct {
	RefreshIntervalMs int   `yaml:"refresh_interval_ms" json:"refresh_interval_ms"`
	NonNegative       *bool `yaml:"non_negative" json:"non_negative"`
}

// ServerConfig tunes the local status HTTP server.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// StorageConfig locates the settings database.
type StorageConfig struct {
	Path string `yaml:"path" json:"path"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	enabled := true
	mirror := true
	nonNeg := true
	return Config{
		Camera: CameraConfig{
			DeviceID: 0,
			FPS:      30,
		},
		Tracking: TrackingConfig{
			MaxHands:            1,
			DetectionConfidence: 0.7,
			TrackingConfidence:  0.5,
			WorldLandmarks:      false,
		},
		Cursor: CursorConfig{
			Mode:            string(cursor.ModeAbsolute),
			MirrorX:         &mirror,
			SmoothingFilter: filter.KindKalman,
		},
		Actions: ActionsConfig{
			Enabled: &enabled,
		},
		Screen: ScreenConfig{
			RefreshIntervalMs: 5000,
			NonNegative:       &nonNeg,
		},
		Server: ServerConfig{
			Enabled: true,
			Addr:    "127.0.0.1:8420",
		},
		Storage: StorageConfig{
			Path: defaultDBPath(),
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mudra.db"
	}
	return filepath.Join(home, ".mudra", "mudra.db")
}

// Load reads the configuration from path. A missing file returns the
// defaults. Malformed content never aborts startup: an unparseable file
// is logged and replaced wholesale by defaults, and a file that parses
// but carries a bad value in one section keeps the defaults for that
// section while the rest still applies.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Printf("config: %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Camera   yaml.Node `yaml:"camera"`
		Tracking yaml.Node `yaml:"hand_tracking"`
		Cursor   yaml.Node `yaml:"cursor_control"`
		Gestures yaml.Node `yaml:"gesture_detection"`
		Actions  yaml.Node `yaml:"actions"`
		Screen   yaml.Node `yaml:"screen"`
		Server   yaml.Node `yaml:"server"`
		Storage  yaml.Node `yaml:"storage"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		log.Printf("config: cannot parse %s, using defaults: %v", path, err)
		return cfg, nil
	}

	decodeSection(raw.Camera, &cfg.Camera, "camera")
	decodeSection(raw.Tracking, &cfg.Tracking, "hand_tracking")
	decodeSection(raw.Cursor, &cfg.Cursor, "cursor_control")
	decodeSection(raw.Gestures, &cfg.Gestures, "gesture_detection")
	decodeSection(raw.Actions, &cfg.Actions, "actions")
	decodeSection(raw.Screen, &cfg.Screen, "screen")
	decodeSection(raw.Server, &cfg.Server, "server")
	decodeSection(raw.Storage, &cfg.Storage, "storage")

	return cfg, nil
}

// decodeSection overlays one YAML section onto its defaults. A section
// that fails to decode is logged and left entirely at its defaults; a
// bad value in one section never discards the others.
func decodeSection[T any](node yaml.Node, dst *T, name string) {
	if node.IsZero() {
		return
	}
	section := *dst
	if err := node.Decode(&section); err != nil {
		log.Printf("config: section %q invalid, keeping defaults: %v", name, err)
		return
	}
	*dst = section
}

// Save writes the configuration to path, creating parent directories.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DetectorConfig converts the tracking section into the detector's
// configuration.
func (c Config) DetectorConfig() detector.Config {
	return detector.Config{
		MaxHands:        c.Tracking.MaxHands,
		MinConfidence:   c.Tracking.DetectionConfidence,
		MinTrackingConf: c.Tracking.TrackingConfidence,
		WorldLandmarks:  c.Tracking.WorldLandmarks,
	}
}

// CursorConfig converts the cursor section into the engine's
// configuration. Unset fields stay zero and pick up the engine's own
// defaults.
func (c Config) CursorConfig() cursor.Config {
	out := cursor.Config{
		Mode:       cursor.Mode(c.Cursor.Mode),
		FilterKind: c.Cursor.SmoothingFilter,
		FilterParams: filter.Params{
			ProcessNoise:     c.Cursor.ProcessNoise,
			MeasurementNoise: c.Cursor.MeasurementNoise,
			Window:           c.Cursor.Window,
			Alpha:            c.Cursor.Alpha,
		},
		DeadZone:        c.Cursor.DeadZone,
		BaseSensitivity: c.Cursor.BaseSensitivity,
		Acceleration:    c.Cursor.Acceleration,
		AccelExponent:   c.Cursor.AccelExponent,
		LowSpeedCutoff:  c.Cursor.LowSpeedCutoff,
		LowSpeedBoost:   c.Cursor.LowSpeedBoost,
		SpeedMultiplier: c.Cursor.SpeedMultiplier,
		MinGain:         c.Cursor.MinGain,
		MaxGain:         c.Cursor.MaxGain,
		DeltaAlpha:      c.Cursor.DeltaAlpha,
		StaleAfter:      time.Duration(c.Cursor.StaleAfterMs) * time.Millisecond,
	}
	if c.Cursor.MirrorX != nil {
		out.MirrorX = *c.Cursor.MirrorX
	} else {
		out.MirrorX = true
	}
	return out
}

// GestureConfig converts the gesture section into the detector's
// configuration.
func (c Config) GestureConfig() gesture.Config {
	return gesture.Config{
		InRatio:         c.Gestures.InRatio,
		OutRatio:        c.Gestures.OutRatio,
		MinCloseRatio:   c.Gestures.MinCloseRatio,
		SmoothAlpha:     c.Gestures.SmoothAlpha,
		BaselineFloorCm: c.Gestures.BaselineFloorCm,
		MinPress:        time.Duration(c.Gestures.MinPressMs) * time.Millisecond,
		ClickDebounce:   time.Duration(c.Gestures.ClickDebounceMs) * time.Millisecond,
		HoldThreshold:   time.Duration(c.Gestures.HoldThresholdMs) * time.Millisecond,
		ZoomDeltaCm:     c.Gestures.ZoomDeltaCm,
		ZoomDebounce:    time.Duration(c.Gestures.ZoomDebounceMs) * time.Millisecond,
		ScrollThreshold: c.Gestures.ScrollThreshold,
		ScrollDebounce:  time.Duration(c.Gestures.ScrollDebounceMs) * time.Millisecond,
		WorldLandmarks:  c.Tracking.WorldLandmarks,
		NormalizedPerCm: c.Gestures.NormalizedPerCm,
	}
}

// ActionsConfig converts the actions section into the dispatcher's
// configuration.
func (c Config) ActionsConfig() actions.Config {
	return actions.Config{
		ScrollStep: c.Actions.ScrollStep,
		ZoomStep:   c.Actions.ZoomStep,
	}
}

// ActionsEnabled reports whether pointer output starts enabled.
func (c Config) ActionsEnabled() bool {
	return c.Actions.Enabled == nil || *c.Actions.Enabled
}

// ScreenRefresh returns the display geometry refresh interval.
func (c Config) ScreenRefresh() time.Duration {
	if c.Screen.RefreshIntervalMs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Screen.RefreshIntervalMs) * time.Millisecond
}

// ScreenNonNegative reports whether geometry offsets normalize negative
// origins away.
func (c Config) ScreenNonNegative() bool {
	return c.Screen.NonNegative == nil || *c.Screen.NonNegative
}
