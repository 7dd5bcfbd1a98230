// Package hooks runs user-supplied external commands when gesture
// events fire, so gestures can be bound to arbitrary system actions
// beyond pointer input.
package hooks

// Manifest describes a hook: what to run and which events trigger it.
type Manifest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Events      []string `json:"events"`
}

// Payload is the JSON document written to a hook's stdin on each
// triggering event.
type Payload struct {
	Event     string `json:"event"`
	Timestamp int64  `json:"timestamp"`
	CursorX   int    `json:"cursorX"`
	CursorY   int    `json:"cursorY"`
}

// Hook is a discovered hook with its manifest and resolved paths.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Triggers reports whether the hook subscribes to the given event. An
// empty event list means every event.
func (h *Hook) Triggers(event string) bool {
	if len(h.Manifest.Events) == 0 {
		return true
	}
	for _, e := range h.Manifest.Events {
		if e == event {
			return true
		}
	}
	return false
}
