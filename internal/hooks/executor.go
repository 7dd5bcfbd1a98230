package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/exec"
	"time"
)

// Executor runs hook executables with a timeout.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates an Executor with the given per-hook timeout.
func NewExecutor(timeout time.Duration) *Executor {
	return &Executor{timeout: timeout}
}

// Run executes a hook, writing the payload as JSON to its stdin. The
// hook's exit status is the only contract; stdout is ignored.
func (e *Executor) Run(hook *Hook, payload Payload) error {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, hook.Executable)
	cmd.Dir = hook.Path

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal hook payload: %w", err)
	}
	cmd.Stdin = bytes.NewReader(data)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("hook %s timed out after %v", hook.Manifest.Name, e.timeout)
	}
	if err != nil {
		if s := stderr.String(); s != "" {
			return fmt.Errorf("hook %s failed: %w, stderr: %s", hook.Manifest.Name, err, s)
		}
		return fmt.Errorf("hook %s failed: %w", hook.Manifest.Name, err)
	}
	return nil
}

// Runner ties discovery and execution together for the pipeline. Fire
// runs matching hooks asynchronously so a slow hook never stalls frame
// processing.
type Runner struct {
	manager  *Manager
	executor *Executor
}

// NewRunner creates a Runner over the given hook directory.
func NewRunner(hookDir string, timeout time.Duration) *Runner {
	return &Runner{
		manager:  NewManager(hookDir),
		executor: NewExecutor(timeout),
	}
}

// Discover re-scans the hook directory.
func (r *Runner) Discover() error {
	return r.manager.Discover()
}

// Manager returns the underlying hook manager.
func (r *Runner) Manager() *Manager {
	return r.manager
}

// Fire runs every hook subscribed to the event in the background.
func (r *Runner) Fire(payload Payload) {
	for _, hook := range r.manager.ForEvent(payload.Event) {
		h := hook
		go func() {
			if err := r.executor.Run(h, payload); err != nil {
				log.Printf("hooks: %v", err)
			}
		}()
	}
}
