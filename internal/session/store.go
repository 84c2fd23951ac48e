package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tabnest/tabnest/internal/logging"
	"github.com/tabnest/tabnest/internal/tabs"
)

// Store reads and writes session states. All methods are safe to call
// from the UI thread; queries against the local SQLite file are quick.
type Store struct {
	db *sql.DB
}

// NewStore creates a session store on an initialized database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save inserts the state or, when its ID already exists, replaces the
// saved tab set and placement. CreatedAt is filled on first save and
// UpdatedAt is set to now on every save.
func (s *Store) Save(ctx context.Context, state *State) error {
	log := logging.FromContext(ctx)
	if state == nil {
		return errors.New("session state cannot be nil")
	}
	if state.ID == "" {
		return errors.New("session state id cannot be empty")
	}

	now := time.Now().UTC()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	state.UpdatedAt = now

	tabsJSON, err := json.Marshal(state.Tabs)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal session tabs")
		return err
	}

	log.Debug().
		Str("session_id", state.ID).
		Int("tab_count", len(state.Tabs)).
		Int("selected_index", state.SelectedIndex).
		Msg("saving session state")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session save transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			log.Debug().Err(rollbackErr).Msg("session save rollback reported non-terminal error")
		}
	}()

	const q = `
		INSERT INTO sessions (id, created_at, updated_at, selected_index, tab_count, tabs,
		                      window_x, window_y, window_width, window_height)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			updated_at     = excluded.updated_at,
			selected_index = excluded.selected_index,
			tab_count      = excluded.tab_count,
			tabs           = excluded.tabs,
			window_x       = excluded.window_x,
			window_y       = excluded.window_y,
			window_width   = excluded.window_width,
			window_height  = excluded.window_height`
	if _, err := tx.ExecContext(ctx, q,
		state.ID, state.CreatedAt, state.UpdatedAt,
		state.SelectedIndex, len(state.Tabs), string(tabsJSON),
		state.Window.X, state.Window.Y, state.Window.Width, state.Window.Height,
	); err != nil {
		return fmt.Errorf("upsert session state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session save transaction: %w", err)
	}

	return nil
}

const stateColumns = `id, created_at, updated_at, selected_index, tabs,
	window_x, window_y, window_width, window_height`

// Latest returns the most recently saved state, or nil when the
// database holds none.
func (s *Store) Latest(ctx context.Context) (*State, error) {
	const q = `SELECT ` + stateColumns + ` FROM sessions
		ORDER BY updated_at DESC, id DESC LIMIT 1`
	state, err := scanState(s.db.QueryRowContext(ctx, q))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return state, nil
}

// Get returns the state with the given ID, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*State, error) {
	const q = `SELECT ` + stateColumns + ` FROM sessions WHERE id = ?`
	state, err := scanState(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return state, nil
}

// List returns saved states newest-first. A non-positive limit falls
// back to 20. States whose tab payload no longer parses are skipped.
func (s *Store) List(ctx context.Context, limit int) ([]*State, error) {
	log := logging.FromContext(ctx)
	if limit <= 0 {
		limit = 20
	}

	const q = `SELECT ` + stateColumns + ` FROM sessions
		ORDER BY updated_at DESC, id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query session states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var states []*State
	for rows.Next() {
		state, err := scanState(rows)
		if err != nil {
			log.Warn().Err(err).Msg("skipping unreadable session state")
			continue
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session states: %w", err)
	}

	return states, nil
}

// Delete removes the state with the given ID. Deleting a missing ID is
// not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("session_id", id).Msg("deleting session state")
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteOldest removes all but the newest keep states and reports how
// many rows went away. Autosave calls this to stop the table growing
// without bound.
func (s *Store) DeleteOldest(ctx context.Context, keep int) (int64, error) {
	log := logging.FromContext(ctx)
	if keep < 0 {
		keep = 0
	}

	const q = `DELETE FROM sessions WHERE id NOT IN (
		SELECT id FROM sessions ORDER BY updated_at DESC, id DESC LIMIT ?)`
	result, err := s.db.ExecContext(ctx, q, keep)
	if err != nil {
		return 0, fmt.Errorf("prune session states: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		log.Debug().Int64("deleted", deleted).Int("keep", keep).Msg("pruned old session states")
	}
	return deleted, nil
}

// scanState works for both sql.Row and sql.Rows.
func scanState(row interface{ Scan(dest ...any) error }) (*State, error) {
	var (
		state    State
		tabsJSON string
	)
	if err := row.Scan(
		&state.ID, &state.CreatedAt, &state.UpdatedAt,
		&state.SelectedIndex, &tabsJSON,
		&state.Window.X, &state.Window.Y, &state.Window.Width, &state.Window.Height,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tabsJSON), &state.Tabs); err != nil {
		return nil, fmt.Errorf("unmarshal session tabs for %s: %w", state.ID, err)
	}
	if state.Tabs == nil {
		state.Tabs = []tabs.TabSnapshot{}
	}

	state.CreatedAt = state.CreatedAt.UTC()
	state.UpdatedAt = state.UpdatedAt.UTC()
	return &state, nil
}
