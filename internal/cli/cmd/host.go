package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	hostapp "github.com/tabnest/tabnest/internal/app"
	"github.com/tabnest/tabnest/internal/hotkeys"
	"github.com/tabnest/tabnest/internal/logging"
	"github.com/tabnest/tabnest/internal/session"
	"github.com/tabnest/tabnest/internal/winsys"
)

// runHost assembles the host runtime (window system, session store,
// hotkeys) and blocks in its event loop until quit.
func runHost(_ *cobra.Command, _ []string) error {
	cliApp := GetApp()
	if cliApp == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := cliApp.Ctx()
	log := logging.FromContext(ctx)

	ws, err := winsys.New()
	if err != nil {
		if errors.Is(err, winsys.ErrUnsupported) {
			return fmt.Errorf("no window system backend on this platform (see 'tabnest doctor'): %w", err)
		}
		return fmt.Errorf("initialize window system: %w", err)
	}

	cfg := cliApp.Config

	var store *session.Store
	if cfg.Session.Restore || cfg.Session.AutosaveInterval > 0 {
		store, err = cliApp.Store()
		if err != nil {
			log.Warn().Err(err).Msg("session persistence unavailable, continuing without it")
		}
	}

	// Thread-scoped registration (hwnd 0) works before any native
	// window exists; WM_HOTKEY lands on this thread's queue.
	registrar, err := hotkeys.NewSystemRegistrar(0)
	if err != nil {
		if !errors.Is(err, hotkeys.ErrUnsupported) {
			log.Warn().Err(err).Msg("hotkey backend unavailable")
		}
		registrar = nil
	}

	host, err := hostapp.New(hostapp.Options{
		Config:  cfg,
		Watcher: cliApp.Manager,
		Windows: ws,
		Store:   store,
		Hotkeys: registrar,
		Logger:  *log,
	})
	if err != nil {
		return fmt.Errorf("assemble host runtime: %w", err)
	}

	notifyShutdown(host, log)

	return host.Run(ctx)
}

// notifyShutdown turns the first SIGINT/SIGTERM into a graceful quit
// and a second one into an immediate exit.
func notifyShutdown(host *hostapp.App, log *zerolog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutdown signal received, closing tabs")
		host.Quit()
		<-sigCh
		log.Error().Msg("second signal, exiting immediately")
		os.Exit(1)
	}()
}
