package actions

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// RobotgoSink injects pointer input through the robotgo library.
type RobotgoSink struct{}

// NewRobotgoSink creates a sink backed by the OS input APIs.
func NewRobotgoSink() *RobotgoSink {
	return &RobotgoSink{}
}

// Move positions the pointer at absolute virtual-desktop coordinates.
func (s *RobotgoSink) Move(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

// ButtonDown presses and holds a mouse button.
func (s *RobotgoSink) ButtonDown(button string) error {
	if err := robotgo.Toggle(button, "down"); err != nil {
		return fmt.Errorf("button down %s: %w", button, err)
	}
	return nil
}

// ButtonUp releases a held mouse button.
func (s *RobotgoSink) ButtonUp(button string) error {
	if err := robotgo.Toggle(button, "up"); err != nil {
		return fmt.Errorf("button up %s: %w", button, err)
	}
	return nil
}

// Click presses and releases a mouse button.
func (s *RobotgoSink) Click(button string) error {
	robotgo.Click(button, false)
	return nil
}

// Scroll scrolls vertically; positive is up.
func (s *RobotgoSink) Scroll(amount int) error {
	robotgo.Scroll(0, amount)
	return nil
}

// HScroll scrolls horizontally; positive is right.
func (s *RobotgoSink) HScroll(amount int) error {
	robotgo.Scroll(amount, 0)
	return nil
}
