// Package process owns the spawned content process: start, liveness,
// forceful kill. Window-level concerns live in the supervisor; this
// package never touches the window system.
package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tabnest/tabnest/internal/logging"
)

// ErrNotFound reports that the content program is not on PATH.
var ErrNotFound = errors.New("process: executable not found")

// SpawnOptions configures one content process launch.
type SpawnOptions struct {
	Program    string
	Args       []string
	WorkingDir string // optional; ignored with a warning when not a directory
}

// Handle owns one spawned OS process. At most one live process per
// handle; after Kill the handle holds no process.
type Handle struct {
	log zerolog.Logger
	pid int

	mu       sync.Mutex
	cmd      *exec.Cmd
	done     chan struct{}
	exitCode int
	killed   bool
}

// Spawn launches the content program and starts the background reaper.
// It returns ErrNotFound (wrapped) when the program is missing and a
// launch error otherwise; it never blocks on the child.
func Spawn(ctx context.Context, opts SpawnOptions) (*Handle, error) {
	log := logging.FromContext(ctx).With().Str("component", "process").Logger()

	cmd := exec.Command(opts.Program, opts.Args...)
	cmd.SysProcAttr = sysProcAttr()

	if opts.WorkingDir != "" {
		if info, err := os.Stat(opts.WorkingDir); err == nil && info.IsDir() {
			cmd.Dir = opts.WorkingDir
		} else {
			log.Warn().
				Str("working_dir", opts.WorkingDir).
				Msg("working directory does not exist, spawning without it")
		}
	}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, opts.Program)
		}
		return nil, fmt.Errorf("starting %s: %w", opts.Program, err)
	}

	h := &Handle{
		log:  log,
		pid:  cmd.Process.Pid,
		cmd:  cmd,
		done: make(chan struct{}),
	}

	log.Debug().
		Int("pid", h.pid).
		Str("program", opts.Program).
		Strs("args", opts.Args).
		Msg("content process spawned")

	// Reap in the background so IsRunning stays a non-blocking select
	// and the child never zombies.
	go func() {
		err := cmd.Wait()

		h.mu.Lock()
		if exitErr, ok := err.(*exec.ExitError); ok {
			h.exitCode = exitErr.ExitCode()
		}
		killed := h.killed
		h.mu.Unlock()

		if err != nil && !killed {
			log.Debug().Int("pid", h.pid).Err(err).Msg("content process exited")
		} else {
			log.Debug().Int("pid", h.pid).Msg("content process reaped")
		}
		close(h.done)
	}()

	return h, nil
}

// PID returns the spawned process id.
func (h *Handle) PID() int {
	return h.pid
}

// Done is closed once the process has exited and been reaped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// IsRunning reports process liveness without blocking.
func (h *Handle) IsRunning() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// ExitCode returns the recorded exit code once the process has exited.
func (h *Handle) ExitCode() (int, bool) {
	select {
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.exitCode, true
	default:
		return 0, false
	}
}

// Kill forcefully terminates the process and waits for the reaper.
// Idempotent: killing twice, or killing an already-exited process, is
// not an error.
func (h *Handle) Kill() error {
	h.mu.Lock()
	if h.killed {
		h.mu.Unlock()
		<-h.done
		return nil
	}
	h.killed = true
	proc := h.cmd.Process
	h.mu.Unlock()

	select {
	case <-h.done:
		return nil
	default:
	}

	if err := killTree(h.pid, proc); err != nil {
		// The only realistic failure is a process that beat us to the
		// exit; the reaper below confirms either way.
		h.log.Debug().Int("pid", h.pid).Err(err).Msg("kill after process exit")
	}
	<-h.done
	return nil
}
