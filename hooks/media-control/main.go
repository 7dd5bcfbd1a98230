// Package main provides a media control hook for macOS.
// It maps zoom and middle-click gesture events to volume and playback
// controls via AppleScript.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// Payload mirrors the JSON document the hook runner writes to stdin.
type Payload struct {
	Event     string `json:"event"`
	Timestamp int64  `json:"timestamp"`
	CursorX   int    `json:"cursorX"`
	CursorY   int    `json:"cursorY"`
}

// eventHandler defines a function type for handling specific events.
type eventHandler func() error

// eventHandlers maps gesture events to their handler functions.
var eventHandlers = map[string]eventHandler{
	"ZOOM_IN":      volumeUp,
	"ZOOM_OUT":     volumeDown,
	"MIDDLE_CLICK": mediaPlayPause,
}

func main() {
	// Read payload from stdin
	var payload Payload
	if err := json.NewDecoder(os.Stdin).Decode(&payload); err != nil {
		fmt.Fprintf(os.Stderr, "failed to decode payload: %v\n", err)
		os.Exit(1)
	}

	// Look up the handler for the event
	handler, ok := eventHandlers[payload.Event]
	if !ok {
		// Not an event this hook cares about
		return
	}

	// Execute the handler
	if err := handler(); err != nil {
		fmt.Fprintf(os.Stderr, "event %s failed: %v\n", payload.Event, err)
		os.Exit(1)
	}
}

// volumeUp increases the system volume by one step.
func volumeUp() error {
	return runAppleScript("set volume output volume ((output volume of (get volume settings)) + 10)")
}

// volumeDown decreases the system volume by one step.
func volumeDown() error {
	return runAppleScript("set volume output volume ((output volume of (get volume settings)) - 10)")
}

// mediaPlayPause toggles media playback.
func mediaPlayPause() error {
	return runAppleScript(`tell application "System Events" to key code 16`)
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
