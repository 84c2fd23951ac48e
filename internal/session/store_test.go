package session_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabnest/tabnest/internal/db"
	"github.com/tabnest/tabnest/internal/logging"
	"github.com/tabnest/tabnest/internal/session"
	"github.com/tabnest/tabnest/internal/tabs"
)

func testCtx() context.Context {
	logger := logging.New(logging.Config{Level: zerolog.Disabled, Format: "console"})
	return logging.WithContext(context.Background(), logger)
}

func openTestStore(t *testing.T) (*session.Store, *sql.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tabnest.sqlite")
	database, err := db.InitDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return session.NewStore(database), database
}

func TestStoreSaveAndLatest(t *testing.T) {
	ctx := testCtx()
	store, _ := openTestStore(t)

	state := &session.State{
		ID:            session.GenerateStateID(),
		SelectedIndex: 1,
		Tabs: []tabs.TabSnapshot{
			{ProfileIndex: 0, ProfileName: "Default", WorkingDir: "/home/u"},
			{ProfileIndex: 2, ProfileName: "Work", WorkingDir: "/home/u/code"},
		},
		Window: session.WindowRect{X: 40, Y: 60, Width: 1280, Height: 720},
	}
	require.NoError(t, store.Save(ctx, state))
	assert.False(t, state.CreatedAt.IsZero())
	assert.False(t, state.UpdatedAt.IsZero())

	got, err := store.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state.ID, got.ID)
	assert.Equal(t, 1, got.SelectedIndex)
	assert.Equal(t, state.Tabs, got.Tabs)
	assert.Equal(t, state.Window, got.Window)
	assert.True(t, got.CreatedAt.Equal(state.CreatedAt))
	assert.True(t, got.UpdatedAt.Equal(state.UpdatedAt))
}

func TestStoreLatestEmptyDatabase(t *testing.T) {
	ctx := testCtx()
	store, _ := openTestStore(t)

	got, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreSaveEmptyTabSet(t *testing.T) {
	ctx := testCtx()
	store, _ := openTestStore(t)

	state := &session.State{ID: session.GenerateStateID()}
	require.NoError(t, store.Save(ctx, state))

	got, err := store.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotNil(t, got.Tabs)
	assert.Len(t, got.Tabs, 0)
	assert.True(t, got.Window.Zero())
}

func TestStoreSaveRejectsInvalidState(t *testing.T) {
	ctx := testCtx()
	store, _ := openTestStore(t)

	assert.Error(t, store.Save(ctx, nil))
	assert.Error(t, store.Save(ctx, &session.State{}))
}

func TestStoreSaveUpsertsExistingID(t *testing.T) {
	ctx := testCtx()
	store, _ := openTestStore(t)

	state := &session.State{
		ID:            "20260825_120000_aaaa",
		SelectedIndex: 0,
		Tabs:          []tabs.TabSnapshot{{ProfileIndex: 0, ProfileName: "Default", WorkingDir: "/home/u"}},
	}
	require.NoError(t, store.Save(ctx, state))
	createdAt := state.CreatedAt

	state.SelectedIndex = 1
	state.Tabs = append(state.Tabs, tabs.TabSnapshot{ProfileIndex: 1, ProfileName: "Notes", WorkingDir: "/home/u/notes"})
	state.Window = session.WindowRect{X: 10, Y: 20, Width: 800, Height: 600}
	require.NoError(t, store.Save(ctx, state))

	states, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, states, 1)

	got := states[0]
	assert.Equal(t, 1, got.SelectedIndex)
	assert.Len(t, got.Tabs, 2)
	assert.Equal(t, session.WindowRect{X: 10, Y: 20, Width: 800, Height: 600}, got.Window)
	assert.True(t, got.CreatedAt.Equal(createdAt), "upsert must preserve CreatedAt")
}

func TestStoreLatestPrefersNewest(t *testing.T) {
	ctx := testCtx()
	store, database := openTestStore(t)

	older := &session.State{ID: "20260824_090000_0001"}
	newer := &session.State{ID: "20260824_100000_0002"}
	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))

	// Pin updated_at so ordering does not depend on save timing
	_, err := database.Exec("UPDATE sessions SET updated_at = ? WHERE id = ?",
		time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC), older.ID)
	require.NoError(t, err)
	_, err = database.Exec("UPDATE sessions SET updated_at = ? WHERE id = ?",
		time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC), newer.ID)
	require.NoError(t, err)

	got, err := store.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)
}

func TestStoreGet(t *testing.T) {
	ctx := testCtx()
	store, _ := openTestStore(t)

	state := &session.State{ID: session.GenerateStateID(), SelectedIndex: 0}
	require.NoError(t, store.Save(ctx, state))

	got, err := store.Get(ctx, state.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state.ID, got.ID)

	missing, err := store.Get(ctx, "20000101_000000_dead")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStoreDelete(t *testing.T) {
	ctx := testCtx()
	store, _ := openTestStore(t)

	state := &session.State{ID: session.GenerateStateID()}
	require.NoError(t, store.Save(ctx, state))
	require.NoError(t, store.Delete(ctx, state.ID))

	got, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting an ID that never existed is a no-op
	assert.NoError(t, store.Delete(ctx, "20000101_000000_dead"))
}

func TestStoreListSkipsUnreadableStates(t *testing.T) {
	ctx := testCtx()
	store, database := openTestStore(t)

	good := &session.State{ID: "20260824_080000_0001"}
	bad := &session.State{ID: "20260824_080100_0002"}
	require.NoError(t, store.Save(ctx, good))
	require.NoError(t, store.Save(ctx, bad))

	_, err := database.Exec("UPDATE sessions SET tabs = '{broken' WHERE id = ?", bad.ID)
	require.NoError(t, err)

	states, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, good.ID, states[0].ID)
}

func TestStoreDeleteOldest(t *testing.T) {
	ctx := testCtx()
	store, database := openTestStore(t)

	ids := []string{
		"20260820_080000_0001",
		"20260820_080000_0002",
		"20260820_080000_0003",
		"20260820_080000_0004",
		"20260820_080000_0005",
	}
	for i, id := range ids {
		require.NoError(t, store.Save(ctx, &session.State{ID: id}))
		_, err := database.Exec("UPDATE sessions SET updated_at = ? WHERE id = ?",
			time.Date(2026, 8, 20, 8, i, 0, 0, time.UTC), id)
		require.NoError(t, err)
	}

	deleted, err := store.DeleteOldest(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	states, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, ids[4], states[0].ID)
	assert.Equal(t, ids[3], states[1].ID)

	// Nothing left to prune
	deleted, err = store.DeleteOldest(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestGenerateStateID(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{8}_\d{6}_[0-9a-f]{4}$`)

	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		id := session.GenerateStateID()
		assert.Regexp(t, pattern, id)
		seen[id] = true
	}
	// 16 bits of randomness inside one second; 32 draws colliding across
	// the board would mean the generator is broken
	assert.Greater(t, len(seen), 1)

	assert.Equal(t, "a7b3", session.ShortID("20260825_141502_a7b3"))
	assert.Equal(t, "ab", session.ShortID("ab"))
}
