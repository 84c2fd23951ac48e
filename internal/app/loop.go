// Package app is the host runtime: it owns the event loop the tab
// manager is confined to, bridges the native message pump to that loop,
// and wires configuration, session persistence, and child process
// supervision together.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// taskQueueSize bounds the loop's backlog. Tasks are small in-memory
// operations; a backlog this deep means the loop is wedged, and
// dropping with a warning beats blocking the native pump thread.
const taskQueueSize = 256

// Loop executes posted tasks on a single goroutine. Everything that
// touches the tab manager runs here, which is what makes the manager's
// lock-free design sound.
type Loop struct {
	log      zerolog.Logger
	tasks    chan func()
	quit     chan struct{}
	quitOnce sync.Once
}

// NewLoop creates a loop. Run must be called for posted tasks to
// execute.
func NewLoop(log zerolog.Logger) *Loop {
	return &Loop{
		log:   log.With().Str("component", "loop").Logger(),
		tasks: make(chan func(), taskQueueSize),
		quit:  make(chan struct{}),
	}
}

// Post queues fn for execution on the loop goroutine. Safe to call
// from any thread, including native pump callbacks. Posting to a
// stopped or saturated loop drops the task.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-l.quit:
		l.log.Debug().Msg("task dropped: loop stopped")
		return
	default:
	}
	select {
	case l.tasks <- fn:
	default:
		l.log.Warn().Msg("task dropped: event queue full")
	}
}

// Run executes tasks until ctx is canceled or Quit is called. Quit
// returns nil; cancellation returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.quit:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Quit stops the loop. Idempotent.
func (l *Loop) Quit() {
	l.quitOnce.Do(func() { close(l.quit) })
}
