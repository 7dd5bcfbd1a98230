package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the settings file")
	headless := flag.Bool("headless", false, "run without the system tray")
	flag.Parse()

	fmt.Println("Mudra - Hand Gesture Pointer Control")

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	// Initialize the store
	dbPath := settings.Storage.Path
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	applyActiveProfile(st, &settings)

	a, err := app.New(app.Config{
		Settings: settings,
		Store:    st,
	})
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()

	// Configure and start the HTTP server
	if settings.Server.Enabled {
		webDir := findWebDir()
		if webDir != "" {
			fmt.Printf("Serving static files from: %s\n", webDir)
		}

		srv := server.New(server.Config{
			StaticDir: webDir,
			Store:     st,
			App:       a,
		})

		go func() {
			fmt.Printf("Starting server on %s\n", settings.Server.Addr)
			if err := srv.ListenAndServe(settings.Server.Addr); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		}()
	}

	if *headless {
		runHeadless()
		return
	}
	runTray(a, settings)
}

// runHeadless blocks until an interrupt or termination signal arrives.
func runHeadless() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	fmt.Println("Shutting down")
}

// runTray runs the system tray as the main loop, wired to the
// application. Blocks until quit.
func runTray(a *app.App, settings config.Config) {
	t := tray.New()
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	t.OnMode(func(mode string) {
		a.SetMode(cursor.Mode(mode))
	})
	t.OnSettings(func() {
		fmt.Printf("Settings: http://%s/\n", settings.Server.Addr)
	})

	// Forward signals to the tray loop so Ctrl-C quits cleanly.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		t.Quit()
	}()

	t.Run()
}

// applyActiveProfile overlays the active calibration profile, if any,
// onto the loaded settings.
func applyActiveProfile(st *store.Store, settings *config.Config) {
	profile, err := st.Profiles().GetActive()
	if err != nil {
		return
	}

	log.Printf("Applying calibration profile %q", profile.Name)
	settings.Cursor.Mode = profile.CursorMode
	settings.Cursor.MirrorX = &profile.MirrorX
	settings.Cursor.BaseSensitivity = profile.BaseSensitivity
	settings.Gestures.InRatio = profile.InRatio
	settings.Gestures.OutRatio = profile.OutRatio
	settings.Gestures.BaselineFloorCm = profile.BaselineFloorCm
	settings.Gestures.SmoothAlpha = profile.SmoothAlpha
}

// defaultConfigPath returns ~/.mudra/config.yaml, falling back to a
// relative path when the home directory is unknown.
func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(homeDir, ".mudra", "config.yaml")
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
