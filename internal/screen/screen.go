// Package screen tracks the virtual desktop geometry: the union bounding
// box of all active monitors in one absolute pixel coordinate space.
// Origins may be negative (a secondary monitor left of or above the
// primary); consumers that cannot inject negative coordinates get a
// translation offset that preserves the relative layout.
package screen

import (
	"errors"
	"sync"
)

// Rect describes a monitor rectangle in absolute desktop coordinates.
type Rect struct {
	X, Y int
	W, H int
}

// Geometry is the virtual desktop bounding box plus the translation
// offset applied to emitted coordinates. Offset is zero unless the
// platform rejects negative coordinates and the union origin is negative.
type Geometry struct {
	Bounds  Rect
	OffsetX int
	OffsetY int
}

// Default geometry used when every provider fails. Conservative single
// 1080p monitor at the origin.
var DefaultGeometry = Geometry{Bounds: Rect{X: 0, Y: 0, W: 1920, H: 1080}}

// ErrNoDisplays is returned by providers that found no active monitors.
var ErrNoDisplays = errors.New("no active displays")

// Provider enumerates active monitor rectangles. Implementations return
// an error when the platform query is unavailable; the caller tries the
// next provider in its chain.
type Provider interface {
	Displays() ([]Rect, error)
}

// PointerProvider reports the current OS pointer position in absolute
// desktop coordinates. Used to seed relative cursor mode.
type PointerProvider interface {
	PointerPosition() (x, y int, err error)
}

// Union computes the bounding box of the given rectangles.
// Returns ErrNoDisplays for an empty set.
func Union(rects []Rect) (Rect, error) {
	if len(rects) == 0 {
		return Rect{}, ErrNoDisplays
	}

	minX, minY := rects[0].X, rects[0].Y
	maxX, maxY := rects[0].X+rects[0].W, rects[0].Y+rects[0].H
	for _, r := range rects[1:] {
		if r.X < minX {
			minX = r.X
		}
		if r.Y < minY {
			minY = r.Y
		}
		if r.X+r.W > maxX {
			maxX = r.X + r.W
		}
		if r.Y+r.H > maxY {
			maxY = r.Y + r.H
		}
	}

	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, nil
}

// normalizeOffset computes the translation that makes all coordinates in
// bounds non-negative while preserving layout. Zero when the origin is
// already non-negative.
func normalizeOffset(bounds Rect) (int, int) {
	ox, oy := 0, 0
	if bounds.X < 0 {
		ox = -bounds.X
	}
	if bounds.Y < 0 {
		oy = -bounds.Y
	}
	return ox, oy
}

// Clip clamps an absolute coordinate (already offset-translated) into the
// emittable range of g: [origin+offset, origin+offset+size).
func (g Geometry) Clip(x, y int) (int, int) {
	minX := g.Bounds.X + g.OffsetX
	minY := g.Bounds.Y + g.OffsetY
	maxX := minX + g.Bounds.W - 1
	maxY := minY + g.Bounds.H - 1

	if x < minX {
		x = minX
	} else if x > maxX {
		x = maxX
	}
	if y < minY {
		y = minY
	} else if y > maxY {
		y = maxY
	}
	return x, y
}

// Center returns the center of the emittable range.
func (g Geometry) Center() (int, int) {
	return g.Bounds.X + g.OffsetX + g.Bounds.W/2,
		g.Bounds.Y + g.OffsetY + g.Bounds.H/2
}

// StaticProvider reports a fixed set of rectangles. It is the terminal
// fallback in a provider chain and the provider of choice in headless
// and test environments. The set may be swapped at runtime via Set.
type StaticProvider struct {
	mu    sync.Mutex
	rects []Rect
}

// NewStaticProvider creates a provider reporting the given rectangles.
func NewStaticProvider(rects ...Rect) *StaticProvider {
	return &StaticProvider{rects: rects}
}

// Set replaces the reported rectangles.
func (p *StaticProvider) Set(rects ...Rect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rects = rects
}

// Displays returns the configured rectangles.
func (p *StaticProvider) Displays() ([]Rect, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.rects) == 0 {
		return nil, ErrNoDisplays
	}
	rects := make([]Rect, len(p.rects))
	copy(rects, p.rects)
	return rects, nil
}
