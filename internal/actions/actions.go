// Package actions translates recognized gesture events into operating
// system pointer input.
package actions

import (
	"fmt"
	"log"

	"github.com/ayusman/mudra/internal/gesture"
)

// Sink is the low-level pointer output. Implementations inject real OS
// input (RobotgoSink) or record calls for tests (Recorder).
type Sink interface {
	// Move positions the pointer at absolute virtual-desktop coordinates.
	Move(x, y int) error
	// ButtonDown presses and holds a mouse button ("left", "right", "center").
	ButtonDown(button string) error
	// ButtonUp releases a held mouse button.
	ButtonUp(button string) error
	// Click presses and releases a mouse button.
	Click(button string) error
	// Scroll scrolls vertically; positive is up.
	Scroll(amount int) error
	// HScroll scrolls horizontally; positive is right.
	HScroll(amount int) error
}

// Config holds the dispatcher's output magnitudes.
type Config struct {
	ScrollStep int // wheel ticks per scroll event (default 3)
	ZoomStep   int // wheel ticks per zoom event (default 5)
}

// DefaultConfig returns the default dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		ScrollStep: 3,
		ZoomStep:   5,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.ScrollStep <= 0 {
		c.ScrollStep = d.ScrollStep
	}
	if c.ZoomStep <= 0 {
		c.ZoomStep = d.ZoomStep
	}
}

// Dispatcher maps gesture events onto sink calls. It tracks whether a
// drag is in flight so click events arriving mid-drag are suppressed
// and a held button is always released on shutdown.
type Dispatcher struct {
	cfg      Config
	sink     Sink
	dragging bool
}

// NewDispatcher creates a Dispatcher writing to the given sink.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	cfg.applyDefaults()
	return &Dispatcher{
		cfg:  cfg,
		sink: sink,
	}
}

// Move forwards a pointer position to the sink.
func (d *Dispatcher) Move(x, y int) error {
	return d.sink.Move(x, y)
}

// Dragging reports whether a drag is currently in flight.
func (d *Dispatcher) Dragging() bool {
	return d.dragging
}

// Handle executes one gesture event. EventNone and EventDragMove are
// no-ops: pointer movement is driven continuously by Move, not by the
// event stream.
func (d *Dispatcher) Handle(ev gesture.Event) error {
	switch ev {
	case gesture.EventNone, gesture.EventDragMove:
		return nil

	case gesture.EventLeftClick:
		if d.dragging {
			return nil
		}
		return d.sink.Click("left")
	case gesture.EventRightClick:
		if d.dragging {
			return nil
		}
		return d.sink.Click("right")
	case gesture.EventMiddleClick:
		if d.dragging {
			return nil
		}
		return d.sink.Click("center")

	case gesture.EventDragStart:
		if d.dragging {
			return nil
		}
		if err := d.sink.ButtonDown("left"); err != nil {
			return fmt.Errorf("drag start: %w", err)
		}
		d.dragging = true
		return nil
	case gesture.EventDragEnd:
		if !d.dragging {
			return nil
		}
		d.dragging = false
		if err := d.sink.ButtonUp("left"); err != nil {
			return fmt.Errorf("drag end: %w", err)
		}
		return nil

	case gesture.EventZoomIn:
		return d.sink.Scroll(d.cfg.ZoomStep)
	case gesture.EventZoomOut:
		return d.sink.Scroll(-d.cfg.ZoomStep)

	case gesture.EventScrollUp:
		return d.sink.Scroll(d.cfg.ScrollStep)
	case gesture.EventScrollDown:
		return d.sink.Scroll(-d.cfg.ScrollStep)
	case gesture.EventScrollLeft:
		return d.sink.HScroll(-d.cfg.ScrollStep)
	case gesture.EventScrollRight:
		return d.sink.HScroll(d.cfg.ScrollStep)
	}

	log.Printf("actions: unhandled event %q", ev)
	return nil
}

// Release ends any in-flight drag. Called on hand loss, mode switches
// and shutdown so the left button is never left stuck down.
func (d *Dispatcher) Release() error {
	if !d.dragging {
		return nil
	}
	d.dragging = false
	return d.sink.ButtonUp("left")
}
