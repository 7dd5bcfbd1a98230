package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hooks"
)

// runPipeline is the frame loop. It reads from the camera at a motion-
// gated rate, runs hand detection, advances the cursor and gesture
// state, and fans results out to the dispatcher, hooks and telemetry
// subscribers.
//
// Rate gating: the loop runs at IdleFPS until motion is detected, then
// at the configured camera rate. After IdleTimeout without motion it
// drops back to idle, skipping hand detection entirely.
func (a *App) runPipeline(stopCh chan struct{}) {
	activeFPS := a.settings.Camera.FPS
	if activeFPS <= 0 {
		activeFPS = capture.DefaultFPS
	}

	activeMode := false
	lastMotion := time.Now()
	var lastHand time.Time

	ticker := time.NewTicker(time.Second / time.Duration(IdleFPS))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)
			if motionDetected {
				lastMotion = time.Now()
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(activeFPS)
					ticker.Reset(time.Second / time.Duration(activeFPS))
					log.Println("Switched to active mode")
				}
			} else if activeMode && time.Since(lastMotion) > IdleTimeout {
				activeMode = false
				a.camera.SetFPS(IdleFPS)
				ticker.Reset(time.Second / time.Duration(IdleFPS))
				log.Println("Switched to idle mode")
			}

			a.storeFrame(frame)

			if !activeMode {
				frame.Close()
				continue
			}

			hands, err := a.det.Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}
			hands = a.detCfg.FilterConfident(hands)

			a.step(hands, &lastHand)
		}
	}
}

// step advances the cursor and gesture state for one observation. The
// highest-scoring hand drives everything; a frame with no confident
// hand feeds nil into the gesture detector so a single dropout never
// glitches an in-flight gesture, while a sustained loss releases any
// held drag.
func (a *App) step(hands []detector.HandLandmarks, lastHand *time.Time) {
	now := time.Now()

	var hand *detector.HandLandmarks
	if len(hands) > 0 {
		best := 0
		for i := range hands {
			if hands[i].Score > hands[best].Score {
				best = i
			}
		}
		hand = &hands[best]
		*lastHand = now
	}

	ev := a.gestures.Process(hand)

	var x, y int
	if hand != nil {
		tip := hand.Points[detector.MiddleTip]
		x, y = a.engine.Update(tip.X, tip.Y, now)

		a.mu.Lock()
		a.lastX, a.lastY = x, y
		enabled := a.enabled
		a.mu.Unlock()

		if enabled {
			if err := a.dispatcher.Move(x, y); err != nil {
				log.Printf("Error moving pointer: %v", err)
			}
			if err := a.dispatcher.Handle(ev); err != nil {
				log.Printf("Error handling %s: %v", ev, err)
			}
		}
	} else {
		a.mu.RLock()
		x, y = a.lastX, a.lastY
		a.mu.RUnlock()

		if !lastHand.IsZero() && now.Sub(*lastHand) > HandLossTimeout && a.dispatcher.Dragging() {
			log.Println("Hand lost, releasing drag")
			if err := a.dispatcher.Release(); err != nil {
				log.Printf("Error releasing drag: %v", err)
			}
			a.gestures.Reset()
		}
	}

	if ev != gesture.EventNone {
		a.hooks.Fire(hooks.Payload{
			Event:     string(ev),
			Timestamp: now.UnixMilli(),
			CursorX:   x,
			CursorY:   y,
		})
	}

	a.publish(Telemetry{
		Timestamp: now.UnixMilli(),
		Hands:     hands,
		Event:     ev,
		CursorX:   x,
		CursorY:   y,
		Drag:      a.gestures.Drag().String(),
		Enabled:   a.IsEnabled(),
	})
}

// storeFrame JPEG-encodes the frame for MJPEG stream viewers. Encoding
// is skipped entirely while nobody is watching.
func (a *App) storeFrame(frame *gocv.Mat) {
	a.frameMu.RLock()
	viewers := a.viewers
	a.frameMu.RUnlock()
	if viewers == 0 {
		return
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return
	}
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	buf.Close()

	a.frameMu.Lock()
	a.lastFrame = data
	a.frameMu.Unlock()
}
