package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tabnest/tabnest/internal/cli/model"
	"github.com/tabnest/tabnest/internal/cli/styles"
	"github.com/tabnest/tabnest/internal/session"
	"github.com/tabnest/tabnest/internal/tabs"
)

const defaultSessionsLimit = 20

var (
	sessionsJSON  bool
	sessionsLimit int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved sessions",
	Long: `View, restore, and manage saved sessions.

The host snapshots its tab set while it runs and restores the newest
snapshot on launch. Restoring an older session here re-saves it, which
makes it the newest one; the next 'tabnest' launch picks it up.

Run without arguments to open the interactive session browser.`,
	RunE: runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(_ *cobra.Command, _ []string) error {
	cliApp := GetApp()
	if cliApp == nil {
		return fmt.Errorf("app not initialized")
	}

	store, err := cliApp.Store()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	m := model.NewSessionsModel(cliApp.Ctx(), cliApp.Theme, model.SessionsModelConfig{
		Store:     store,
		MaxListed: defaultSessionsLimit * 5,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// sessions list
var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	Long: `List saved sessions, newest first.

The newest session is the one the next 'tabnest' launch restores.`,
	RunE: runSessionsList,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsListCmd.Flags().BoolVar(&sessionsJSON, "json", false, "output as JSON")
	sessionsListCmd.Flags().IntVar(&sessionsLimit, "limit", defaultSessionsLimit, "maximum sessions to show")
}

func runSessionsList(_ *cobra.Command, _ []string) error {
	cliApp := GetApp()
	if cliApp == nil {
		return fmt.Errorf("app not initialized")
	}

	store, err := cliApp.Store()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	states, err := store.List(cliApp.Ctx(), sessionsLimit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if sessionsJSON {
		return outputStatesJSON(states)
	}

	renderer := styles.NewSessionsCLIRenderer(cliApp.Theme)
	if len(states) == 0 {
		fmt.Println(renderer.RenderEmptyList())
		return nil
	}
	fmt.Println(renderer.RenderList(states, sessionsLimit))
	return nil
}

type stateJSON struct {
	ID            string             `json:"id"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	SelectedIndex int                `json:"selected_index"`
	Tabs          []tabs.TabSnapshot `json:"tabs"`
}

func outputStatesJSON(states []*session.State) error {
	out := make([]stateJSON, 0, len(states))
	for _, s := range states {
		out = append(out, stateJSON{
			ID:            s.ID,
			CreatedAt:     s.CreatedAt,
			UpdatedAt:     s.UpdatedAt,
			SelectedIndex: s.SelectedIndex,
			Tabs:          s.Tabs,
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// sessions restore <id>
var sessionsRestoreCmd = &cobra.Command{
	Use:   "restore <session-id>",
	Short: "Queue a saved session for the next launch",
	Long: `Mark a saved session as the one to restore.

The session is re-saved with a fresh timestamp, which makes it the
newest snapshot; the next 'tabnest' launch restores it. Session IDs
come from 'tabnest sessions list', and a short suffix works as long as
it's unique.

Example:
  tabnest sessions restore 20260825_143022_a7b3
  tabnest sessions restore a7b3`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionsRestore,
}

func init() {
	sessionsCmd.AddCommand(sessionsRestoreCmd)
}

func runSessionsRestore(_ *cobra.Command, args []string) error {
	cliApp := GetApp()
	if cliApp == nil {
		return fmt.Errorf("app not initialized")
	}

	store, err := cliApp.Store()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	state, err := findStateByIDOrSuffix(store, args[0])
	if err != nil {
		return err
	}

	if err := store.Save(cliApp.Ctx(), state); err != nil {
		return fmt.Errorf("queue session for restore: %w", err)
	}

	renderer := styles.NewSessionsCLIRenderer(cliApp.Theme)
	fmt.Println(renderer.RenderRestoreQueued(state.ID))
	return nil
}

// sessions delete <id>
var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a saved session",
	Long: `Delete a saved session snapshot permanently.

You can use a short suffix of the session ID as long as it's unique.

Example:
  tabnest sessions delete 20260825_143022_a7b3
  tabnest sessions delete a7b3`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionsDelete,
}

func init() {
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

func runSessionsDelete(_ *cobra.Command, args []string) error {
	cliApp := GetApp()
	if cliApp == nil {
		return fmt.Errorf("app not initialized")
	}

	store, err := cliApp.Store()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	state, err := findStateByIDOrSuffix(store, args[0])
	if err != nil {
		return err
	}

	if err := store.Delete(cliApp.Ctx(), state.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	renderer := styles.NewSessionsCLIRenderer(cliApp.Theme)
	fmt.Println(renderer.RenderDeleted(state.ID))
	return nil
}

// findStateByIDOrSuffix finds a session by exact ID or unique suffix.
// Users typically identify sessions by the last few characters
// (e.g., "a7b3").
func findStateByIDOrSuffix(store *session.Store, idOrSuffix string) (*session.State, error) {
	cliApp := GetApp()
	if cliApp == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	states, err := store.List(cliApp.Ctx(), defaultSessionsLimit*5)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var matches []*session.State
	for _, state := range states {
		if state.ID == idOrSuffix {
			// Exact match - return immediately
			return state, nil
		}
		if strings.HasSuffix(state.ID, idOrSuffix) {
			matches = append(matches, state)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no session found matching '%s'", idOrSuffix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous session ID '%s' matches %d sessions - be more specific", idOrSuffix, len(matches))
	}
}
