package actions

import (
	"fmt"
	"sync"
)

// Recorder is a Sink that records every call for test inspection.
type Recorder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SetError makes every subsequent call return err.
func (r *Recorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Calls returns a copy of the recorded call log.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *Recorder) record(call string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	return r.err
}

func (r *Recorder) Move(x, y int) error {
	return r.record(fmt.Sprintf("move(%d,%d)", x, y))
}

func (r *Recorder) ButtonDown(button string) error {
	return r.record("down(" + button + ")")
}

func (r *Recorder) ButtonUp(button string) error {
	return r.record("up(" + button + ")")
}

func (r *Recorder) Click(button string) error {
	return r.record("click(" + button + ")")
}

func (r *Recorder) Scroll(amount int) error {
	return r.record(fmt.Sprintf("scroll(%d)", amount))
}

func (r *Recorder) HScroll(amount int) error {
	return r.record(fmt.Sprintf("hscroll(%d)", amount))
}

// NullSink discards all pointer output. Used when gesture control is
// paused but the pipeline keeps running.
type NullSink struct{}

func (NullSink) Move(x, y int) error            { return nil }
func (NullSink) ButtonDown(button string) error { return nil }
func (NullSink) ButtonUp(button string) error   { return nil }
func (NullSink) Click(button string) error      { return nil }
func (NullSink) Scroll(amount int) error        { return nil }
func (NullSink) HScroll(amount int) error       { return nil }
