package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/actions"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/screen"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

func newE2EApp(t *testing.T, camera capture.Camera, st *store.Store) (*app.App, *actions.Recorder, *detector.MockDetector) {
	t.Helper()

	rec := actions.NewRecorder()
	mock := detector.NewMockDetector()

	a, err := app.New(app.Config{
		Settings: config.Default(),
		Store:    st,
		HookDir:  t.TempDir(),
		Camera:   camera,
		Detector: mock,
		Sink:     rec,
		Screens:  []screen.Provider{screen.NewStaticProvider(screen.Rect{X: 0, Y: 0, W: 1920, H: 1080})},
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	return a, rec, mock
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	application, _, _ := newE2EApp(t, capture.NewMockCamera(nil, true), s)

	srv := server.New(server.Config{Store: s, App: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	var profileID string
	t.Run("CreateProfile", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/profiles",
			"application/json",
			strings.NewReader(`{"name": "living-room", "cursor_mode": "relative"}`),
		)
		if err != nil {
			t.Fatalf("create profile error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}

		var created struct {
			ID string `json:"id"`
		}
		json.NewDecoder(resp.Body).Decode(&created)
		profileID = created.ID
	})

	t.Run("ActivateProfile", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/profiles/"+profileID+"/activate", "application/json", nil)
		if err != nil {
			t.Fatalf("activate profile error = %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		active, err := s.Profiles().GetActive()
		if err != nil {
			t.Fatalf("GetActive() error = %v", err)
		}
		if active.ID != profileID {
			t.Errorf("active profile = %s, want %s", active.ID, profileID)
		}
	})

	t.Run("DisableViaControl", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/control",
			"application/json",
			strings.NewReader(`{"enabled": false, "mode": "relative"}`),
		)
		if err != nil {
			t.Fatalf("control error = %v", err)
		}
		resp.Body.Close()

		if application.IsEnabled() {
			t.Error("expected application disabled after control request")
		}
		if string(application.Mode()) != "relative" {
			t.Errorf("mode = %s, want relative", application.Mode())
		}
	})

	t.Run("StatusReflectsState", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/status")
		if err != nil {
			t.Fatalf("status error = %v", err)
		}
		defer resp.Body.Close()

		var status app.Status
		json.NewDecoder(resp.Body).Decode(&status)

		if status.Enabled {
			t.Error("expected disabled status")
		}
		if string(status.Mode) != "relative" {
			t.Errorf("status mode = %s, want relative", status.Mode)
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, _ := client.Get(ts.URL + "/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after app operations")
		}
		resp.Body.Close()
	})
}

func TestE2E_PipelineTelemetryOverWebSocket(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	// Alternate dark and bright frames so the motion detector keeps the
	// pipeline in active mode.
	dark := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer dark.Close()
	bright := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 480, 640, gocv.MatTypeCV8UC3)
	defer bright.Close()

	camera := capture.NewMockCamera([]*gocv.Mat{&dark, &bright}, true)

	application, _, mock := newE2EApp(t, camera, nil)
	mock.SetHands([]detector.HandLandmarks{detector.OpenHandLandmarks()})

	if err := application.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer application.Stop()

	srv := server.New(server.Config{App: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/telemetry"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	// The pipeline should publish telemetry carrying the mock hand.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		var telemetry app.Telemetry
		if err := conn.ReadJSON(&telemetry); err != nil {
			t.Fatalf("read telemetry error = %v", err)
		}
		if len(telemetry.Hands) > 0 {
			if !telemetry.Enabled {
				t.Error("expected enabled telemetry")
			}
			return
		}
	}
	t.Fatal("no telemetry with hands within deadline")
}
