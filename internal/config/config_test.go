package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/cursor"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}

	if cfg.Camera.FPS != 30 {
		t.Errorf("default FPS = %d, want 30", cfg.Camera.FPS)
	}
	if cfg.Cursor.Mode != "absolute" {
		t.Errorf("default mode = %q, want absolute", cfg.Cursor.Mode)
	}
	if !cfg.ActionsEnabled() {
		t.Error("actions should default to enabled")
	}
	if cfg.ScreenRefresh() != 5*time.Second {
		t.Errorf("default screen refresh = %v, want 5s", cfg.ScreenRefresh())
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("cursor_control:\n  mode: relative\n  mirror_x: false\ncamera:\n  device_id: 2\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Cursor.Mode != "relative" {
		t.Errorf("mode = %q, want relative", cfg.Cursor.Mode)
	}
	if cfg.Camera.DeviceID != 2 {
		t.Errorf("device_id = %d, want 2", cfg.Camera.DeviceID)
	}
	// Untouched sections keep their defaults.
	if cfg.Camera.FPS != 30 {
		t.Errorf("fps = %d, want default 30", cfg.Camera.FPS)
	}
	if cfg.Tracking.MaxHands != 1 {
		t.Errorf("max_hands = %d, want default 1", cfg.Tracking.MaxHands)
	}

	cc := cfg.CursorConfig()
	if cc.Mode != cursor.ModeRelative {
		t.Errorf("engine mode = %q, want relative", cc.Mode)
	}
	if cc.MirrorX {
		t.Error("mirror_x: false should carry through to the engine")
	}
}

func TestLoad_MalformedFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cursor_control: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("malformed YAML must not abort startup: %v", err)
	}
	if cfg.Camera.FPS != 30 || cfg.Cursor.Mode != "absolute" {
		t.Errorf("expected full defaults, got fps=%d mode=%q", cfg.Camera.FPS, cfg.Cursor.Mode)
	}
}

func TestLoad_BadSectionKeepsOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("camera:\n  device_id: 2\ngesture_detection:\n  min_press_ms: not-a-number\ncursor_control:\n  mode: relative\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("bad value in one section must not abort startup: %v", err)
	}

	// Healthy sections still apply.
	if cfg.Camera.DeviceID != 2 {
		t.Errorf("device_id = %d, want 2", cfg.Camera.DeviceID)
	}
	if cfg.Cursor.Mode != "relative" {
		t.Errorf("mode = %q, want relative", cfg.Cursor.Mode)
	}
	// The broken section keeps its documented defaults.
	if got := cfg.GestureConfig().MinPress; got != 0 {
		t.Errorf("broken gesture section should stay at zero values, MinPress = %v", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Camera.DeviceID = 3
	cfg.Gestures.MinPressMs = 90
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Camera.DeviceID != 3 {
		t.Errorf("device_id = %d, want 3", got.Camera.DeviceID)
	}
	if got.Gestures.MinPressMs != 90 {
		t.Errorf("min_press_ms = %d, want 90", got.Gestures.MinPressMs)
	}
}

func TestGestureConfigConversion(t *testing.T) {
	cfg := Default()
	cfg.Gestures.MinPressMs = 80
	cfg.Gestures.InRatio = 0.3
	cfg.Tracking.WorldLandmarks = true

	gc := cfg.GestureConfig()
	if gc.MinPress != 80*time.Millisecond {
		t.Errorf("MinPress = %v, want 80ms", gc.MinPress)
	}
	if gc.InRatio != 0.3 {
		t.Errorf("InRatio = %f, want 0.3", gc.InRatio)
	}
	if !gc.WorldLandmarks {
		t.Error("WorldLandmarks should follow the tracking section")
	}
}

func TestLoad_RelativeTuningKeysReachEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`cursor_control:
  mode: relative
  low_speed_cutoff: 0.3
  low_speed_boost: 0.5
  min_gain: 0.2
  max_gain: 6.0
  delta_alpha: 0.7
  stale_after_ms: 250
gesture_detection:
  min_close_ratio: 0.2
  normalized_per_cm: 0.015
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cc := cfg.CursorConfig()
	if cc.LowSpeedCutoff != 0.3 || cc.LowSpeedBoost != 0.5 {
		t.Errorf("low-speed tuning = (%f,%f), want (0.3,0.5)", cc.LowSpeedCutoff, cc.LowSpeedBoost)
	}
	if cc.MinGain != 0.2 || cc.MaxGain != 6.0 {
		t.Errorf("gain clamp = (%f,%f), want (0.2,6.0)", cc.MinGain, cc.MaxGain)
	}
	if cc.DeltaAlpha != 0.7 {
		t.Errorf("delta_alpha = %f, want 0.7", cc.DeltaAlpha)
	}
	if cc.StaleAfter != 250*time.Millisecond {
		t.Errorf("stale_after = %v, want 250ms", cc.StaleAfter)
	}

	gc := cfg.GestureConfig()
	if gc.MinCloseRatio != 0.2 {
		t.Errorf("min_close_ratio = %f, want 0.2", gc.MinCloseRatio)
	}
	if gc.NormalizedPerCm != 0.015 {
		t.Errorf("normalized_per_cm = %f, want 0.015", gc.NormalizedPerCm)
	}
}

func TestMirrorXDefaultsTrueWhenUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cursor_control:\n  mode: absolute\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.CursorConfig().MirrorX {
		t.Error("mirror_x unset should default to true")
	}
}
