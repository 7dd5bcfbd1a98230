// Package gesture turns per-frame fingertip distances into discrete
// pointer events: clicks, a drag lifecycle, zoom and scroll. Detection is
// ratio-based against an adaptively tracked open-hand baseline, with
// hysteresis and wall-clock debouncing, so it is robust to hand size,
// camera distance and dropped frames.
package gesture

// Event is a discrete gesture event emitted by the Detector. At most one
// event is emitted per frame.
type Event string

const (
	EventNone        Event = ""
	EventLeftClick   Event = "LEFT_CLICK"
	EventRightClick  Event = "RIGHT_CLICK"
	EventMiddleClick Event = "MIDDLE_CLICK"
	EventDragStart   Event = "DRAG_START"
	EventDragMove    Event = "DRAG_MOVE"
	EventDragEnd     Event = "DRAG_END"
	EventZoomIn      Event = "ZOOM_IN"
	EventZoomOut     Event = "ZOOM_OUT"
	EventScrollUp    Event = "SCROLL_UP"
	EventScrollDown  Event = "SCROLL_DOWN"
	EventScrollLeft  Event = "SCROLL_LEFT"
	EventScrollRight Event = "SCROLL_RIGHT"
)

// DragState enumerates the thumb-index drag state machine.
type DragState int

const (
	// DragReleased means no thumb-index pinch is engaged.
	DragReleased DragState = iota
	// DragHeld means the pinch is engaged but the hold threshold has not
	// elapsed; release from here is interpreted as a possible zoom.
	DragHeld
	// DragDragging means the hold threshold elapsed and a drag is active.
	DragDragging
)

func (s DragState) String() string {
	switch s {
	case DragHeld:
		return "HELD"
	case DragDragging:
		return "DRAGGING"
	default:
		return "RELEASED"
	}
}
