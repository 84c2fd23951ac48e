// Package discovery polls the window system until a freshly spawned
// child process materializes its top-level window.
package discovery

import (
	"context"
	"errors"
	"time"

	"github.com/tabnest/tabnest/internal/logging"
	"github.com/tabnest/tabnest/internal/winsys"
)

// ErrTimeout is returned by Find when the attempt budget runs out
// without a matching window appearing.
var ErrTimeout = errors.New("discovery: window not found")

const (
	// DefaultInterval is the pause between enumeration attempts.
	DefaultInterval = 100 * time.Millisecond

	// DefaultMaxAttempts bounds the total wait at about one minute.
	DefaultMaxAttempts = 600
)

// Match reports whether an enumerated window belongs to the child we
// are waiting for. Predicates run for every top-level window on every
// attempt, so keep them cheap.
type Match func(winsys.WindowInfo) bool

// MatchTitleClass matches on exact window title and class name. Most
// GUI toolkits name their top-level frame predictably, which makes
// this the default predicate for child embedding.
func MatchTitleClass(title, class string) Match {
	return func(info winsys.WindowInfo) bool {
		return info.Title == title && info.Class == class
	}
}

// Locator repeatedly enumerates top-level windows until one owned by
// the target pid satisfies a Match.
type Locator struct {
	ws          winsys.WindowSystem
	interval    time.Duration
	maxAttempts int
	sleep       func(time.Duration)
}

// Options tune a Locator. Zero values fall back to the defaults; Sleep
// lets tests burn through the full attempt budget without waiting.
type Options struct {
	Interval    time.Duration
	MaxAttempts int
	Sleep       func(time.Duration)
}

// NewLocator creates a Locator over the given window system.
func NewLocator(ws winsys.WindowSystem, opts Options) *Locator {
	l := &Locator{
		ws:          ws,
		interval:    opts.Interval,
		maxAttempts: opts.MaxAttempts,
		sleep:       opts.Sleep,
	}
	if l.interval <= 0 {
		l.interval = DefaultInterval
	}
	if l.maxAttempts <= 0 {
		l.maxAttempts = DefaultMaxAttempts
	}
	return l
}

// Find blocks until a window owned by pid matches, the attempt budget
// is exhausted, or ctx is canceled. It returns the window and the
// number of attempts it took; exhaustion is reported as ErrTimeout.
//
// Each attempt sleeps first and then enumerates, so even an instantly
// mapped window costs one interval. The first matching window in
// enumeration order wins and the scan stops there; later candidates
// are never inspected.
func (l *Locator) Find(ctx context.Context, pid int, match Match) (winsys.WindowID, int, error) {
	ctx = logging.WithComponent(ctx, "discovery")
	ctx = logging.WithPID(ctx, pid)
	log := logging.FromContext(ctx)

	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		if err := l.wait(ctx); err != nil {
			log.Debug().Int("attempts", attempt).Msg("discovery canceled")
			return 0, attempt, err
		}

		id, ok, err := l.scan(pid, match)
		if err != nil {
			// Enumeration can fail transiently while the desktop is
			// busy; the next attempt retries from scratch.
			log.Debug().Err(err).Int("attempt", attempt).Msg("enumeration failed")
			continue
		}
		if ok {
			log.Info().
				Int("attempts", attempt).
				Uint64("window", uint64(id)).
				Msg("child window discovered")
			return id, attempt, nil
		}

		if attempt%100 == 0 {
			log.Debug().Int("attempts", attempt).Msg("still waiting for child window")
		}
	}

	log.Error().Int("attempts", l.maxAttempts).Msg("child window never appeared")
	return 0, l.maxAttempts, ErrTimeout
}

// wait pauses for one interval, or less if ctx ends first.
func (l *Locator) wait(ctx context.Context) error {
	if l.sleep != nil {
		l.sleep(l.interval)
		return ctx.Err()
	}

	t := time.NewTimer(l.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// scan runs a single enumeration pass.
func (l *Locator) scan(pid int, match Match) (winsys.WindowID, bool, error) {
	var (
		found winsys.WindowID
		ok    bool
	)
	err := l.ws.EnumWindows(func(info winsys.WindowInfo) bool {
		if info.PID != pid {
			return true
		}
		if !match(info) {
			return true
		}
		found, ok = info.ID, true
		return false
	})
	if err != nil {
		return 0, false, err
	}
	return found, ok, nil
}
