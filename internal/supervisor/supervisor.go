// Package supervisor owns one child content process and the weak
// reference to its discovered top-level window. It bridges two worlds:
// the host event loop, which drives positioning and visibility, and the
// background discovery goroutine, which finds the window after spawn.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tabnest/tabnest/internal/discovery"
	"github.com/tabnest/tabnest/internal/geometry"
	"github.com/tabnest/tabnest/internal/logging"
	"github.com/tabnest/tabnest/internal/process"
	"github.com/tabnest/tabnest/internal/winsys"
)

// Options configure a Spawn.
type Options struct {
	// Program and Args form the child command line; the caller builds
	// size and frame arguments from config before spawning.
	Program    string
	Args       []string
	WorkingDir string

	// Match identifies the child's top-level window among the windows
	// owned by its pid. Required.
	Match discovery.Match

	// HostRect returns the host client area in screen coordinates. The
	// discovery goroutine calls it for the first position sync, so it
	// must be safe to call off the host thread.
	HostRect func() winsys.Rect

	// TitlebarHeight and Inset are the fixed layout constants used for
	// the first position sync; later syncs take them per call.
	TitlebarHeight int32
	Inset          int32

	// Discovery overrides the polling defaults. Tests inject Sleep.
	Discovery discovery.Options

	// OnReady fires on the discovery goroutine once the window has been
	// positioned and stored. OnTimeout fires when the attempt budget is
	// exhausted; the application treats that as fatal.
	OnReady   func()
	OnTimeout func()
}

// Supervisor aggregates one owned child process and zero-or-one
// discovered window. The window is a weak reference: the child owns it
// and may close it at any time, so validity is re-checked before every
// window operation.
type Supervisor struct {
	log    zerolog.Logger
	ws     winsys.WindowSystem
	handle *process.Handle
	slot   *windowSlot
	inset  int32

	closeMu    sync.Mutex
	closeReqAt *time.Time
}

// Spawn launches the child process and starts the window-discovery
// goroutine, returning without waiting for either. Spawn errors are
// fatal only to the tab being created; process.ErrNotFound identifies a
// missing executable.
func Spawn(ctx context.Context, ws winsys.WindowSystem, opts Options) (*Supervisor, error) {
	if opts.Match == nil {
		return nil, errors.New("supervisor: missing window match predicate")
	}

	handle, err := process.Spawn(ctx, process.SpawnOptions{
		Program:    opts.Program,
		Args:       opts.Args,
		WorkingDir: opts.WorkingDir,
	})
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", opts.Program, err)
	}

	log := logging.FromContext(ctx).With().
		Str("component", "supervisor").
		Int("pid", handle.PID()).
		Logger()

	s := &Supervisor{
		log:    log,
		ws:     ws,
		handle: handle,
		slot:   newWindowSlot(),
		inset:  opts.Inset,
	}

	go s.discover(ctx, opts)

	return s, nil
}

// discover runs on its own goroutine, one per spawn. It exits as soon
// as the window is found or the attempt budget runs out; supervisor
// teardown does not cancel it, it only closes the slot so the result is
// dropped.
func (s *Supervisor) discover(ctx context.Context, opts Options) {
	loc := discovery.NewLocator(s.ws, opts.Discovery)

	id, attempts, err := loc.Find(ctx, s.handle.PID(), opts.Match)
	if err != nil {
		if errors.Is(err, discovery.ErrTimeout) {
			s.log.Error().Int("attempts", attempts).Msg("window discovery timed out")
			if opts.OnTimeout != nil {
				opts.OnTimeout()
			}
		}
		return
	}

	if s.slot.isClosed() {
		s.log.Debug().Msg("discovered window dropped after teardown")
		return
	}

	// First position sync happens before readiness flips, so anyone who
	// observes IsReady()==true sees the window already placed.
	if opts.HostRect != nil {
		if _, err := s.position(id, opts.HostRect(), opts.TitlebarHeight); err != nil {
			s.log.Warn().Err(err).Msg("initial position sync failed")
		}
	}

	if !s.slot.store(id) {
		s.log.Debug().Msg("discovered window dropped after teardown")
		return
	}

	s.log.Info().
		Int("attempts", attempts).
		Uint64("window", uint64(id)).
		Msg("content window ready")
	if opts.OnReady != nil {
		opts.OnReady()
	}
}

// window returns the discovered window if it is still valid. The child
// owns its window and may have closed it since discovery.
func (s *Supervisor) window() (winsys.WindowID, bool) {
	id, ok := s.slot.get()
	if !ok {
		return 0, false
	}
	if !s.ws.IsWindow(id) {
		return 0, false
	}
	return id, true
}

// position plans the target rectangle and moves the window only when
// its current rectangle differs. Reports whether a move happened.
func (s *Supervisor) position(id winsys.WindowID, host winsys.Rect, titlebarHeight int32) (bool, error) {
	target := geometry.Plan(host, titlebarHeight, s.inset)

	current, err := s.ws.WindowRect(id)
	if err != nil {
		return false, fmt.Errorf("read window rect: %w", err)
	}
	if current == target {
		return false, nil
	}

	if err := s.ws.MoveWindow(id, target); err != nil {
		return false, fmt.Errorf("move window: %w", err)
	}
	return true, nil
}

// PID returns the child process id.
func (s *Supervisor) PID() int { return s.handle.PID() }

// IsRunning reports child process liveness without blocking.
func (s *Supervisor) IsRunning() bool { return s.handle.IsRunning() }

// IsReady reports whether discovery has found the window, independent
// of whether the process is still alive.
func (s *Supervisor) IsReady() bool {
	_, ok := s.slot.get()
	return ok
}

// UpdatePosition re-plans the window rectangle against the current host
// geometry and moves only when it differs, so repeated calls with
// unchanged geometry do not fight external window tools or flicker.
// Returns whether a move actually happened; move failures are logged
// and retried naturally on the next tick.
func (s *Supervisor) UpdatePosition(host winsys.Rect, titlebarHeight int32) bool {
	id, ok := s.window()
	if !ok {
		return false
	}
	moved, err := s.position(id, host, titlebarHeight)
	if err != nil {
		s.log.Warn().Err(err).Msg("position update failed")
		return false
	}
	return moved
}

// Activate ensures correct position, shows the window, and raises it
// above all others. This is the single entry point tab switching calls.
func (s *Supervisor) Activate(host winsys.Rect, titlebarHeight int32) {
	id, ok := s.window()
	if !ok {
		return
	}
	if _, err := s.position(id, host, titlebarHeight); err != nil {
		s.log.Warn().Err(err).Msg("position update failed")
	}
	s.ws.ShowWindow(id)
	s.ws.RaiseWindow(id)
}

// Show makes the window visible without raising or repositioning it.
func (s *Supervisor) Show() {
	if id, ok := s.window(); ok {
		s.ws.ShowWindow(id)
	}
}

// Hide makes the window invisible.
func (s *Supervisor) Hide() {
	if id, ok := s.window(); ok {
		s.ws.HideWindow(id)
	}
}

// RequestClose posts the graceful close signal to the discovered
// window. It returns false when no window is available yet; the caller
// must fall back to Terminate.
func (s *Supervisor) RequestClose() bool {
	id, ok := s.window()
	if !ok {
		return false
	}
	return s.ws.RequestClose(id)
}

// WindowTitle returns the current title of the discovered window, or ""
// when there is none.
func (s *Supervisor) WindowTitle() string {
	id, ok := s.window()
	if !ok {
		return ""
	}
	return s.ws.WindowTitle(id)
}

// MarkCloseRequested records when a graceful close was first requested.
// Later calls keep the original timestamp.
func (s *Supervisor) MarkCloseRequested(t time.Time) {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closeReqAt == nil {
		s.closeReqAt = &t
	}
}

// CloseRequestedAt returns when a graceful close was first requested,
// or nil.
func (s *Supervisor) CloseRequestedAt() *time.Time {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	return s.closeReqAt
}

// Terminate forcefully kills the child process and reaps it. It is
// idempotent: terminating twice or terminating an already-exited
// process succeeds.
func (s *Supervisor) Terminate() error {
	return s.handle.Kill()
}

// Close is the deterministic teardown hook called on every removal
// path. It closes the window slot first, so an in-flight discovery
// result is dropped rather than resurrecting the window reference, then
// forcefully terminates any still-owned process so no child survives
// the host.
func (s *Supervisor) Close() {
	s.slot.close()
	if err := s.handle.Kill(); err != nil {
		s.log.Warn().Err(err).Msg("kill on teardown failed")
	}
}
