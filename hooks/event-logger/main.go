// Package main provides an event logger hook. It appends each gesture
// event it receives as a JSON line to ~/.mudra/events.log, which is
// handy when tuning gesture thresholds.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

func main() {
	payload, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read payload: %v\n", err)
		os.Exit(1)
	}

	// Validate and compact before appending
	var event map[string]any
	if err := json.Unmarshal(payload, &event); err != nil {
		fmt.Fprintf(os.Stderr, "invalid payload: %v\n", err)
		os.Exit(1)
	}
	line, _ := json.Marshal(event)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve home directory: %v\n", err)
		os.Exit(1)
	}

	logPath := filepath.Join(homeDir, ".mudra", "events.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s\n", line); err != nil {
		fmt.Fprintf(os.Stderr, "failed to append event: %v\n", err)
		os.Exit(1)
	}
}
