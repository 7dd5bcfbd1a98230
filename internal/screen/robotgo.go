package screen

import "github.com/go-vgo/robotgo"

// RobotgoProvider enumerates monitors and queries the pointer through
// robotgo. It is the first provider in the default chain.
type RobotgoProvider struct{}

// NewRobotgoProvider creates a RobotgoProvider.
func NewRobotgoProvider() *RobotgoProvider {
	return &RobotgoProvider{}
}

// Displays returns one rectangle per attached monitor.
func (p *RobotgoProvider) Displays() ([]Rect, error) {
	n := robotgo.DisplaysNum()
	if n <= 0 {
		return nil, ErrNoDisplays
	}

	rects := make([]Rect, 0, n)
	for i := 0; i < n; i++ {
		x, y, w, h := robotgo.GetDisplayBounds(i)
		if w <= 0 || h <= 0 {
			continue
		}
		rects = append(rects, Rect{X: x, Y: y, W: w, H: h})
	}
	if len(rects) == 0 {
		return nil, ErrNoDisplays
	}
	return rects, nil
}

// PointerPosition returns the current OS pointer position.
func (p *RobotgoProvider) PointerPosition() (int, int, error) {
	x, y := robotgo.Location()
	return x, y, nil
}
