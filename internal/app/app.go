package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tabnest/tabnest/internal/config"
	"github.com/tabnest/tabnest/internal/discovery"
	"github.com/tabnest/tabnest/internal/geometry"
	"github.com/tabnest/tabnest/internal/hotkeys"
	"github.com/tabnest/tabnest/internal/logging"
	"github.com/tabnest/tabnest/internal/session"
	"github.com/tabnest/tabnest/internal/supervisor"
	"github.com/tabnest/tabnest/internal/tabs"
	"github.com/tabnest/tabnest/internal/winsys"
)

const (
	// pollInterval drives exit reaping, close sequencing, and position
	// self-healing.
	pollInterval = 250 * time.Millisecond

	// resizeInterval rate-limits reposition work during live resize;
	// the poll tick repairs any dropped trailing update.
	resizeInterval = 100 * time.Millisecond

	// keepStates bounds the session table; older states are pruned on
	// every save.
	keepStates = 20
)

// Coalescer keys. One pending task per concern.
const (
	taskPoll       = "poll"
	taskRepaint    = "repaint"
	taskReposition = "reposition"
	taskAutosave   = "autosave"
)

// Options configure New. Config and Windows are required; Watcher,
// Store, and Hotkeys are optional and enable live reload, session
// persistence, and system-wide tab bindings.
type Options struct {
	Config  *config.Config
	Watcher *config.Manager
	Windows winsys.WindowSystem
	Store   *session.Store
	Hotkeys hotkeys.Registrar
	Logger  zerolog.Logger
}

// App composes the host runtime: the event loop, the tab manager, the
// child process spawner, configuration reload, and session autosave.
// The platform layer feeds native events in through the On* methods and
// receives updates through the SetOn* callbacks.
type App struct {
	log     zerolog.Logger
	ws      winsys.WindowSystem
	watcher *config.Manager
	store   *session.Store

	loop     *Loop
	coalesce *Coalescer
	resize   rate.Sometimes

	manager   *tabs.Manager
	hotkeySet *hotkeys.Set

	// spawn indirects supervisor.Spawn so tests can substitute fakes.
	spawn tabs.Spawner

	// cfg is loop-confined: read and replaced only on the loop.
	cfg *config.Config

	// runCtx lives for the duration of Run; persistCtx carries the same
	// values but survives cancellation so the final session save and
	// teardown still work during shutdown.
	runCtx     context.Context
	persistCtx context.Context

	stateID string

	mu       sync.RWMutex
	hostRect winsys.Rect
	strip    StripState

	timeoutOnce sync.Once

	onRepaintNeeded    func()
	onLastTabClosed    func()
	onDiscoveryTimeout func()
	onSpawnError       func(profile string, err error)
	onConfigChanged    func(*config.Config)
}

// New builds an App. Callbacks should be set before Run.
func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("app: config is required")
	}
	if opts.Windows == nil {
		return nil, errors.New("app: window system is required")
	}

	log := opts.Logger.With().Str("component", "app").Logger()
	a := &App{
		log:     log,
		ws:      opts.Windows,
		watcher: opts.Watcher,
		store:   opts.Store,
		cfg:     opts.Config,
		resize:  rate.Sometimes{Interval: resizeInterval},
		stateID: session.GenerateStateID(),
		// Until the platform reports real bounds, spawn against the
		// configured minimum so early geometry is sane.
		hostRect: winsys.Rect{
			Width:  opts.Config.Window.MinWidth,
			Height: opts.Config.Window.MinHeight,
		},
		runCtx:     context.Background(),
		persistCtx: logging.WithContext(context.Background(), opts.Logger),
	}
	a.loop = NewLoop(opts.Logger)
	a.coalesce = NewCoalescer(a.loop.Post)
	a.spawn = a.spawnTab
	if opts.Hotkeys != nil {
		a.hotkeySet = hotkeys.NewSet(opts.Logger, opts.Hotkeys)
	}
	a.manager = tabs.NewManager(opts.Logger, func(ctx context.Context, req tabs.SpawnRequest) (tabs.Process, error) {
		return a.spawn(ctx, req)
	}, tabs.DefaultLayout)
	return a, nil
}

// StateID returns the identifier this run saves its session under.
func (a *App) StateID() string { return a.stateID }

// Run starts the tickers and the event loop and blocks until ctx is
// canceled or Quit is called. The initial tab set (restored or default)
// is created as the loop's first task.
func (a *App) Run(ctx context.Context) error {
	a.runCtx = ctx
	a.persistCtx = context.WithoutCancel(ctx)

	a.log.Info().Str("session_id", a.stateID).Msg("host runtime starting")

	if a.watcher != nil {
		a.watcher.OnConfigChange(func(cfg *config.Config) {
			a.loop.Post(func() { a.applyConfig(cfg) })
		})
		if err := a.watcher.Watch(); err != nil {
			a.log.Warn().Err(err).Msg("config watch unavailable, continuing without live reload")
		}
	}

	a.bindHotkeys()

	go a.runPollTicker(ctx)
	go a.runAutosaveTicker(ctx)

	a.loop.Post(a.startTabs)

	err := a.loop.Run(ctx)
	a.shutdown()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Quit stops the event loop; Run then tears down and returns nil.
func (a *App) Quit() { a.loop.Quit() }

// shutdown runs after the loop has stopped, so this goroutine is the
// only one touching the manager.
func (a *App) shutdown() {
	if a.hotkeySet != nil {
		a.hotkeySet.UnbindAll()
	}
	a.saveSessionNow()
	a.manager.TerminateAll()
	a.coalesce.Close()
	a.log.Info().Msg("host runtime stopped")
}

// bindHotkeys registers the configured tab and profile bindings.
func (a *App) bindHotkeys() {
	if a.hotkeySet == nil {
		return
	}
	a.hotkeySet.BindTabs(a.cfg.Hotkeys.Tab)
	a.hotkeySet.BindProfiles(a.cfg.Profiles)
}

func (a *App) runPollTicker(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.coalesce.Post(taskPoll, a.pollTick)
		}
	}
}

func (a *App) runAutosaveTicker(ctx context.Context) {
	if a.store == nil || a.cfg.Session.AutosaveInterval <= 0 {
		return
	}
	ticker := time.NewTicker(a.cfg.Session.AutosaveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.coalesce.Post(taskAutosave, a.saveSessionNow)
		}
	}
}

// pollTick is the 250 ms heartbeat: re-sync positions, reap exited
// processes, advance the sequential close, re-activate the selection.
func (a *App) pollTick() {
	host := a.HostRect()
	titlebar := a.cfg.Window.TitlebarHeight

	a.manager.UpdateAllPositions(host, titlebar)

	exited := a.manager.FindExitedTabs()
	if len(exited) == 0 {
		return
	}

	// Indices arrive in descending order, so earlier removals never
	// shift the ones still pending.
	for _, index := range exited {
		if a.manager.RemoveExitedTab(index) {
			a.publishStrip()
			a.notifyLastTabClosed()
			return
		}
	}

	a.manager.ContinueCloseSequence()
	a.manager.ActivateSelected(host, titlebar)
	a.repaint()
}

// startTabs creates the initial tab set: the latest saved session when
// restore is enabled, otherwise one tab for the Default profile.
func (a *App) startTabs() {
	if a.store != nil && a.cfg.Session.Restore && a.restoreSession() {
		return
	}
	// Profile normalization guarantees Default sits at index 0.
	a.createTabForProfile(0)
}

// restoreSession re-creates the latest saved tab set profile by
// profile. Reports whether at least one tab came back.
func (a *App) restoreSession() bool {
	state, err := a.store.Latest(a.persistCtx)
	if err != nil {
		a.log.Warn().Err(err).Msg("session restore failed, starting fresh")
		return false
	}
	if state == nil || len(state.Tabs) == 0 {
		return false
	}

	created := 0
	for _, snap := range state.Tabs {
		index := snap.ProfileIndex
		if index < 0 || index >= len(a.cfg.Profiles) || a.cfg.Profiles[index].Name != snap.ProfileName {
			// The profile list changed since the save; fall back to a
			// name match before giving up on the tab.
			index = -1
			for i, p := range a.cfg.Profiles {
				if p.Name == snap.ProfileName {
					index = i
					break
				}
			}
		}
		if index < 0 {
			a.log.Warn().Str("profile", snap.ProfileName).Msg("saved tab's profile no longer exists, skipping")
			continue
		}

		profile := a.cfg.Profiles[index]
		if snap.WorkingDir != "" {
			profile.WorkingDirectory = snap.WorkingDir
		}
		if !a.createTab(profile, index) {
			continue
		}
		created++
	}
	if created == 0 {
		return false
	}

	a.manager.SelectTab(state.SelectedIndex)
	a.activateSelected()
	a.repaint()
	a.log.Info().
		Str("state_id", state.ID).
		Int("tabs", created).
		Int("selected", a.manager.SelectedIndex()).
		Msg("session restored")
	return true
}

// createTabForProfile spawns a tab for the profile at index, surfacing
// spawn failures without touching existing tabs.
func (a *App) createTabForProfile(index int) {
	if index < 0 || index >= len(a.cfg.Profiles) {
		a.log.Warn().Int("profile_index", index).Msg("no such profile")
		return
	}
	if a.createTab(a.cfg.Profiles[index], index) {
		a.activateSelected()
		a.repaint()
	}
}

func (a *App) createTab(profile config.Profile, index int) bool {
	plan := geometry.Plan(a.HostRect(), a.cfg.Window.TitlebarHeight, a.cfg.Window.ContentInset)
	if _, err := a.manager.CreateTab(a.runCtx, plan.Width, plan.Height, profile, index); err != nil {
		a.log.Error().Err(err).Str("profile", profile.Name).Msg("failed to start tab")
		if a.onSpawnError != nil {
			a.onSpawnError(profile.Name, err)
		}
		return false
	}
	return true
}

// spawnTab binds the manager's spawn request to a supervised child
// process using the current content and discovery configuration.
func (a *App) spawnTab(ctx context.Context, req tabs.SpawnRequest) (tabs.Process, error) {
	cfg := a.cfg
	return supervisor.Spawn(ctx, a.ws, supervisor.Options{
		Program:        cfg.Content.Program,
		Args:           cfg.Content.SpawnArgs(req.Width, req.Height),
		WorkingDir:     req.Profile.WorkingDirectory,
		Match:          discovery.MatchTitleClass(cfg.Discovery.Title, cfg.Discovery.Class),
		HostRect:       a.HostRect,
		TitlebarHeight: cfg.Window.TitlebarHeight,
		Inset:          cfg.Window.ContentInset,
		Discovery: discovery.Options{
			Interval:    cfg.Discovery.Interval,
			MaxAttempts: cfg.Discovery.MaxAttempts,
		},
		OnReady: func() {
			a.loop.Post(func() {
				a.manager.UpdateSelectedTabTitle()
				if a.manager.IsSelectedReady() {
					a.activateSelected()
				}
				a.repaint()
			})
		},
		OnTimeout: a.reportDiscoveryTimeout,
	})
}

// reportDiscoveryTimeout surfaces the app-fatal discovery failure once,
// no matter how many spawns exhaust their budget.
func (a *App) reportDiscoveryTimeout() {
	a.timeoutOnce.Do(func() {
		a.loop.Post(func() {
			a.log.Error().Msg("content window was never found; giving up")
			if a.onDiscoveryTimeout != nil {
				a.onDiscoveryTimeout()
			}
		})
	})
}

// applyConfig installs a reloaded configuration: profiles propagate to
// existing tabs, the hotkey table is rebound, and the platform layer
// is told so it can repaint with new colors.
func (a *App) applyConfig(cfg *config.Config) {
	a.cfg = cfg
	a.manager.RefreshProfiles(cfg.Profiles)
	if a.hotkeySet != nil {
		a.hotkeySet.UnbindAll()
		a.bindHotkeys()
	}
	a.repaint()
	if a.onConfigChanged != nil {
		a.onConfigChanged(cfg)
	}
	a.log.Info().Msg("configuration reloaded")
}

// saveSessionNow snapshots the current tab set. Empty snapshots are
// skipped so quitting after the tabs closed never wipes the state a
// restore would want.
func (a *App) saveSessionNow() {
	if a.store == nil {
		return
	}
	selected, snaps := a.manager.Snapshot()
	if len(snaps) == 0 {
		return
	}

	state := &session.State{
		ID:            a.stateID,
		SelectedIndex: selected,
		Tabs:          snaps,
		Window:        session.WindowRect(a.HostRect()),
	}
	if err := a.store.Save(a.persistCtx, state); err != nil {
		a.log.Warn().Err(err).Msg("session save failed")
		return
	}
	if _, err := a.store.DeleteOldest(a.persistCtx, keepStates); err != nil {
		a.log.Warn().Err(err).Msg("session prune failed")
	}
}

// HostRect returns the last host client rectangle the platform
// reported. Safe from any goroutine; discovery uses it off-loop.
func (a *App) HostRect() winsys.Rect {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.hostRect
}

func (a *App) setHostRect(r winsys.Rect) {
	a.mu.Lock()
	a.hostRect = r
	a.mu.Unlock()
}

func (a *App) activateSelected() {
	a.manager.ActivateSelected(a.HostRect(), a.cfg.Window.TitlebarHeight)
}

// repaint publishes a fresh strip snapshot and asks the platform to
// redraw. Bursts collapse into one callback per loop drain.
func (a *App) repaint() {
	a.publishStrip()
	a.coalesce.Post(taskRepaint, func() {
		if a.onRepaintNeeded != nil {
			a.onRepaintNeeded()
		}
	})
}

func (a *App) notifyLastTabClosed() {
	a.log.Info().Msg("last tab closed")
	if a.onLastTabClosed != nil {
		a.onLastTabClosed()
	}
}
