package actions

import (
	"errors"
	"log"
	"sync"
	"time"
)

// ErrQueueFull is returned when a gesture action cannot be enqueued
// within the accept window.
var ErrQueueFull = errors.New("action queue full")

// enqueueTimeout bounds how long a gesture action waits for queue
// space. Pointer moves never wait; see Move.
const enqueueTimeout = 100 * time.Millisecond

// AsyncSink decouples pointer injection from detection: operations are
// queued and executed on a worker goroutine, so a slow platform call
// never stalls the frame loop. Moves are dropped when the queue is
// full, since a newer position supersedes a stale one; button, click
// and scroll operations block briefly and report ErrQueueFull rather
// than vanish.
type AsyncSink struct {
	sink Sink
	ch   chan func() error
	done chan struct{}
	once sync.Once
}

// NewAsyncSink wraps sink with a queue of the given depth and starts
// the worker. A non-positive depth gets a reasonable default.
func NewAsyncSink(sink Sink, depth int) *AsyncSink {
	if depth <= 0 {
		depth = 32
	}
	a := &AsyncSink{
		sink: sink,
		ch:   make(chan func() error, depth),
		done: make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *AsyncSink) run() {
	for {
		select {
		case <-a.done:
			return
		case op := <-a.ch:
			if err := op(); err != nil {
				log.Printf("Action failed: %v", err)
			}
		}
	}
}

// Close stops the worker. Queued operations may be discarded.
func (a *AsyncSink) Close() {
	a.once.Do(func() {
		close(a.done)
	})
}

// Move enqueues a pointer move, dropping it when the queue is full.
func (a *AsyncSink) Move(x, y int) error {
	select {
	case a.ch <- func() error { return a.sink.Move(x, y) }:
	default:
	}
	return nil
}

// enqueue queues op, waiting up to enqueueTimeout for space.
func (a *AsyncSink) enqueue(op func() error) error {
	select {
	case a.ch <- op:
		return nil
	case <-time.After(enqueueTimeout):
		return ErrQueueFull
	}
}

func (a *AsyncSink) ButtonDown(button string) error {
	return a.enqueue(func() error { return a.sink.ButtonDown(button) })
}

func (a *AsyncSink) ButtonUp(button string) error {
	return a.enqueue(func() error { return a.sink.ButtonUp(button) })
}

func (a *AsyncSink) Click(button string) error {
	return a.enqueue(func() error { return a.sink.Click(button) })
}

func (a *AsyncSink) Scroll(amount int) error {
	return a.enqueue(func() error { return a.sink.Scroll(amount) })
}

func (a *AsyncSink) HScroll(amount int) error {
	return a.enqueue(func() error { return a.sink.HScroll(amount) })
}
