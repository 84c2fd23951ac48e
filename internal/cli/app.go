// Package cli provides CLI commands using Bubble Tea TUI.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/tabnest/tabnest/internal/build"
	"github.com/tabnest/tabnest/internal/cli/styles"
	"github.com/tabnest/tabnest/internal/config"
	"github.com/tabnest/tabnest/internal/db"
	"github.com/tabnest/tabnest/internal/logging"
	"github.com/tabnest/tabnest/internal/session"
)

// App holds CLI dependencies. The database is opened lazily so that
// commands which never touch it (and the doctor, which wants to report
// a broken database rather than die on it) still run.
type App struct {
	Config *config.Config
	// Manager is nil when config loading failed and defaults are in use.
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	ctx context.Context

	mu    sync.Mutex
	db    *sql.DB
	store *session.Store
}

// NewApp creates a new CLI application. Config problems fall back to
// defaults instead of failing; only an unusable filesystem is fatal.
func NewApp() (*App, error) {
	mgr, cfg := loadConfig()
	theme := styles.NewTheme(cfg)

	logLevel := cfg.Logging.Level
	if envLevel := os.Getenv("TABNEST_LOG_LEVEL"); envLevel != "" {
		logLevel = envLevel
	}
	logger := logging.New(logging.Config{
		Level:      logging.ParseLevel(logLevel),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
	})
	ctx := logging.WithContext(context.Background(), logger)

	if err := config.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("create application directories: %w", err)
	}

	return &App{
		Config:  cfg,
		Manager: mgr,
		Theme:   theme,
		ctx:     ctx,
	}, nil
}

// Store returns the session store, opening the database on first use.
func (a *App) Store() (*session.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil {
		return a.store, nil
	}

	path := a.Config.Database.Path
	if path == "" {
		var err error
		path, err = config.GetDatabaseFile()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}

	handle, err := db.InitDB(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logging.FromContext(a.ctx).Debug().Str("db_path", path).Msg("database connected")

	a.db = handle
	a.store = session.NewStore(handle)
	return a.store, nil
}

// Close releases all resources.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db == nil {
		return nil
	}
	err := db.Close(a.db)
	a.db = nil
	a.store = nil
	return err
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// loadConfig loads configuration from standard locations, falling back
// to defaults when the file is unreadable.
func loadConfig() (*config.Manager, *config.Config) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, config.DefaultConfig()
	}
	if err := mgr.Load(); err != nil {
		return nil, config.DefaultConfig()
	}
	return mgr, mgr.Get()
}
