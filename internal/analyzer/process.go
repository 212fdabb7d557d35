package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"
)

// stopWait bounds how long Stop waits for the process to exit after the kill
// signal before giving up on collecting it.
const stopWait = 5 * time.Second

// Process owns a single spawned analyzer binary. Exactly one goroutine may
// read Output; Stop may be called from another goroutine and guarantees the
// child is terminated and reaped — an orphaned analyzer outliving the
// pipeline is a bug, not an acceptable leak.
//
// The zero value is not usable; create instances with [NewProcess].
type Process struct {
	binary     string
	configPath string

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	waited bool
}

// NewProcess prepares an analyzer launcher for the given binary and config
// file path. Nothing is spawned until Start.
func NewProcess(binary, configPath string) *Process {
	return &Process{binary: binary, configPath: configPath}
}

// Start spawns the analyzer with stdout piped, stderr captured, and stdin
// closed. The child is killed when ctx is cancelled. Calling Start on an
// already-started Process is an error.
func (p *Process) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil {
		return errors.New("analyzer: process already started")
	}

	cmd := exec.CommandContext(ctx, p.binary, "-p", p.configPath)
	cmd.Stderr = &p.stderr
	cmd.WaitDelay = stopWait

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("analyzer: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("analyzer: spawn %q: %w", p.binary, err)
	}

	p.cmd = cmd
	p.stdout = stdout
	return nil
}

// Output returns the analyzer's stdout stream. Valid only after a successful
// Start; the returned reader is owned by the pipeline's worker goroutine.
func (p *Process) Output() io.Reader {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stdout
}

// Stop kills the analyzer if it is still running and reaps it. It is safe to
// call more than once and after the process has already exited.
func (p *Process) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd == nil || p.waited {
		return nil
	}
	p.waited = true

	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	err := p.cmd.Wait()

	// A non-zero exit after an explicit kill is the expected outcome, not a
	// failure worth surfacing.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

// Diagnostics returns the stderr text the analyzer produced so far. Call
// only after Stop has reaped the process; before that the buffer is still
// being written by the copier goroutine inside os/exec.
func (p *Process) Diagnostics() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stderr.String()
}
