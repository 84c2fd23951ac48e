package tabs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tabnest/tabnest/internal/config"
	"github.com/tabnest/tabnest/internal/title"
	"github.com/tabnest/tabnest/internal/winsys"
)

// Manager owns the ordered tab list. Invariants: selected < len(tabs)
// whenever the list is non-empty, selected == 0 when it is empty, and
// tab ids strictly increase across the manager's lifetime.
type Manager struct {
	log      zerolog.Logger
	spawn    Spawner
	layout   Layout
	tabs     []*Tab
	selected int
	nextID   uint64
	drag     *DragState
}

// NewManager creates an empty manager. A zero layout falls back to
// DefaultLayout.
func NewManager(log zerolog.Logger, spawn Spawner, layout Layout) *Manager {
	if layout.TabWidth <= 0 {
		layout = DefaultLayout
	}
	return &Manager{
		log:    log.With().Str("component", "tabs").Logger(),
		spawn:  spawn,
		layout: layout,
		nextID: 1,
	}
}

// Count returns the number of tabs.
func (m *Manager) Count() int { return len(m.tabs) }

// SelectedIndex returns the selected tab index; 0 when empty.
func (m *Manager) SelectedIndex() int { return m.selected }

// Tab returns the tab at index, or nil when out of range.
func (m *Manager) Tab(index int) *Tab {
	if index < 0 || index >= len(m.tabs) {
		return nil
	}
	return m.tabs[index]
}

// SelectedTab returns the selected tab, or nil when empty.
func (m *Manager) SelectedTab() *Tab { return m.Tab(m.selected) }

// Tabs returns the tabs in display order. The slice is a copy; the
// tabs themselves are shared.
func (m *Manager) Tabs() []*Tab {
	out := make([]*Tab, len(m.tabs))
	copy(out, m.tabs)
	return out
}

// CreateTab spawns a child for the profile, appends its tab, and
// selects it. New tabs are always auto-selected. A spawn failure leaves
// the manager untouched; it is fatal only to the tab being created.
func (m *Manager) CreateTab(ctx context.Context, width, height int32, profile config.Profile, profileIndex int) (int, error) {
	proc, err := m.spawn(ctx, SpawnRequest{
		Width:        width,
		Height:       height,
		Profile:      profile,
		ProfileIndex: profileIndex,
	})
	if err != nil {
		return 0, fmt.Errorf("create tab for profile %q: %w", profile.Name, err)
	}

	tab := &Tab{
		ID:           m.nextID,
		Process:      proc,
		ProfileName:  profile.Name,
		ProfileIcon:  profile.Icon,
		WorkingDir:   profile.WorkingDirectory,
		ProfileIndex: profileIndex,
		TitleFormat:  profile.Title,
		// The window is not discovered yet; the profile name stands in
		// until the first title refresh.
		CachedTitle: profile.Name,
	}
	m.nextID++

	m.tabs = append(m.tabs, tab)
	m.selected = len(m.tabs) - 1

	m.log.Info().
		Uint64("tab_id", tab.ID).
		Str("profile", profile.Name).
		Int("index", m.selected).
		Msg("tab created")
	return m.selected, nil
}

// SelectTab switches the selection. It reports false when index is out
// of range or already selected; on success the tab's cached title is
// refreshed.
func (m *Manager) SelectTab(index int) bool {
	if index < 0 || index >= len(m.tabs) || index == m.selected {
		return false
	}
	m.selected = index
	m.UpdateTabTitle(index)
	return true
}

// CloseTab removes the tab at index and forcefully tears its process
// down. Returns whether this was the last tab, in which case the
// manager is empty and the caller should close the host window.
func (m *Manager) CloseTab(index int) bool {
	if index < 0 || index >= len(m.tabs) {
		return false
	}

	tab := m.removeAt(index)
	tab.Process.Close()

	m.log.Info().Uint64("tab_id", tab.ID).Int("index", index).Msg("tab closed")
	return m.rebalanceAfterRemoval(index)
}

// RemoveExitedTab removes a tab whose process already exited. No
// termination is attempted; there is nothing left to kill. Selection
// rebalances exactly like CloseTab, and the return value again means
// "that was the last tab".
func (m *Manager) RemoveExitedTab(index int) bool {
	if index < 0 || index >= len(m.tabs) {
		return false
	}

	tab := m.removeAt(index)
	// Still run the teardown hook: it drops the window slot so a late
	// discovery result cannot resurrect the reference, and killing an
	// exited process is a no-op.
	tab.Process.Close()

	m.log.Info().Uint64("tab_id", tab.ID).Int("index", index).Msg("exited tab removed")
	return m.rebalanceAfterRemoval(index)
}

func (m *Manager) removeAt(index int) *Tab {
	tab := m.tabs[index]
	m.tabs = append(m.tabs[:index], m.tabs[index+1:]...)
	m.dragAfterRemoval(index)
	return tab
}

// rebalanceAfterRemoval repairs the selection invariant after the tab
// at index was removed. Reports whether the list is now empty.
func (m *Manager) rebalanceAfterRemoval(index int) bool {
	if len(m.tabs) == 0 {
		m.selected = 0
		return true
	}
	if m.selected >= len(m.tabs) {
		m.selected = len(m.tabs) - 1
	} else if m.selected > index {
		m.selected--
	}
	return false
}

// MoveTab relocates a tab within the order. The selection keeps
// pointing at the same logical tab.
func (m *Manager) MoveTab(from, to int) {
	if from < 0 || from >= len(m.tabs) || to < 0 || to >= len(m.tabs) || from == to {
		return
	}

	tab := m.tabs[from]
	m.tabs = append(m.tabs[:from], m.tabs[from+1:]...)

	rest := append(m.tabs[:to:to], tab)
	m.tabs = append(rest, m.tabs[to:]...)

	switch {
	case m.selected == from:
		m.selected = to
	case from < m.selected && to >= m.selected:
		m.selected--
	case from > m.selected && to <= m.selected:
		m.selected++
	}
}

// RequestCloseTab asks the tab's window to close gracefully. On success
// the close timestamp is recorded and the tab stays until its process
// exits. When no window is available the tab is closed forcefully right
// away; the return value reports which path ran (true = graceful).
func (m *Manager) RequestCloseTab(index int) bool {
	if index < 0 || index >= len(m.tabs) {
		return false
	}

	tab := m.tabs[index]
	if tab.Process.RequestClose() {
		tab.Process.MarkCloseRequested(time.Now())
		m.log.Debug().Uint64("tab_id", tab.ID).Msg("graceful close requested")
		return true
	}

	m.CloseTab(index)
	return false
}

// RequestCloseAll seeds a sequential shutdown. Only the selected,
// visible tab receives an immediate graceful close signal; hidden
// windows cannot be relied on to process one, so every other tab is
// merely marked pending. The poll tick drains them one at a time via
// ContinueCloseSequence as each process exit is observed.
func (m *Manager) RequestCloseAll() {
	if len(m.tabs) == 0 {
		return
	}

	now := time.Now()

	if selected := m.selected; selected < len(m.tabs) {
		tab := m.tabs[selected]
		if tab.Process.RequestClose() {
			tab.Process.MarkCloseRequested(now)
		} else {
			m.CloseTab(selected)
		}
	}

	for i, tab := range m.tabs {
		if i != m.selected && tab.CloseRequestedAt() == nil {
			tab.Process.MarkCloseRequested(now)
		}
	}
}

// HasPendingClose reports whether any tab has a recorded close request.
func (m *Manager) HasPendingClose() bool {
	for _, tab := range m.tabs {
		if tab.CloseRequestedAt() != nil {
			return true
		}
	}
	return false
}

// ContinueCloseSequence advances the sequential shutdown after a tab
// was removed: when the now-selected tab is pending close, it is made
// visible first so it can process the signal, then asked to close.
// Reports whether a close was requested.
func (m *Manager) ContinueCloseSequence() bool {
	if len(m.tabs) == 0 {
		return false
	}

	if selected := m.selected; selected < len(m.tabs) {
		tab := m.tabs[selected]
		if tab.CloseRequestedAt() != nil {
			tab.Process.Show()
			return tab.Process.RequestClose()
		}
	}
	return false
}

// FindExitedTabs returns the indices of tabs whose process is no longer
// running, in descending order so callers can remove them one by one
// without invalidating the indices still to be processed.
func (m *Manager) FindExitedTabs() []int {
	var exited []int
	for i := len(m.tabs) - 1; i >= 0; i-- {
		if !m.tabs[i].Process.IsRunning() {
			exited = append(exited, i)
		}
	}
	return exited
}

// UpdateAllPositions re-syncs every tab's window to the current host
// geometry. Windows already in place are left alone.
func (m *Manager) UpdateAllPositions(host winsys.Rect, titlebarHeight int32) {
	for _, tab := range m.tabs {
		tab.Process.UpdatePosition(host, titlebarHeight)
	}
}

// ActivateSelected shows, raises, and positions the selected tab's
// window and hides all others. This is the tab-switch entry point.
func (m *Manager) ActivateSelected(host winsys.Rect, titlebarHeight int32) {
	for i, tab := range m.tabs {
		if i == m.selected {
			tab.Process.Activate(host, titlebarHeight)
		} else {
			tab.Process.Hide()
		}
	}
}

// IsSelectedReady reports whether the selected tab's window has been
// discovered.
func (m *Manager) IsSelectedReady() bool {
	tab := m.SelectedTab()
	return tab != nil && tab.Process.IsReady()
}

// TerminateAll tears down every tab. This is the manager's own teardown
// hook; the application calls it on shutdown so no child outlives the
// host.
func (m *Manager) TerminateAll() {
	for _, tab := range m.tabs {
		tab.Process.Close()
	}
	m.tabs = nil
	m.selected = 0
	m.drag = nil
}

// TabLabel returns the cached display title for the tab at index, or ""
// when out of range.
func (m *Manager) TabLabel(index int) string {
	if tab := m.Tab(index); tab != nil {
		return tab.CachedTitle
	}
	return ""
}

// UpdateTabTitle re-expands the tab's title format against the current
// window title. An empty expansion falls back to the profile name, so a
// tab is never unlabeled. Reports whether the cached title changed.
func (m *Manager) UpdateTabTitle(index int) bool {
	tab := m.Tab(index)
	if tab == nil {
		return false
	}

	expanded := expandTabTitle(tab)
	if expanded == tab.CachedTitle {
		return false
	}
	tab.CachedTitle = expanded
	return true
}

// UpdateSelectedTabTitle refreshes the selected tab's cached title.
func (m *Manager) UpdateSelectedTabTitle() bool {
	return m.UpdateTabTitle(m.selected)
}

// FindTabByProfileIndex returns the first tab created from the given
// profile index. Profile hotkeys use it for activate-or-create.
func (m *Manager) FindTabByProfileIndex(profileIndex int) (int, bool) {
	for i, tab := range m.tabs {
		if tab.ProfileIndex == profileIndex {
			return i, true
		}
	}
	return 0, false
}

// RefreshProfiles re-reads profile-derived fields after a config
// reload. A tab whose profile index no longer resolves keeps its
// current values. Working directories are fixed at creation time and
// deliberately not reactive.
func (m *Manager) RefreshProfiles(profiles []config.Profile) {
	for _, tab := range m.tabs {
		if tab.ProfileIndex < 0 || tab.ProfileIndex >= len(profiles) {
			continue
		}
		p := profiles[tab.ProfileIndex]
		tab.ProfileName = p.Name
		tab.ProfileIcon = p.Icon
		tab.TitleFormat = p.Title
		tab.CachedTitle = expandTabTitle(tab)
	}
}

// Snapshot captures the state session persistence needs: the selection
// and, per tab, the profile binding and working directory.
func (m *Manager) Snapshot() (int, []TabSnapshot) {
	snaps := make([]TabSnapshot, len(m.tabs))
	for i, tab := range m.tabs {
		snaps[i] = TabSnapshot{
			ProfileIndex: tab.ProfileIndex,
			ProfileName:  tab.ProfileName,
			WorkingDir:   tab.WorkingDir,
		}
	}
	return m.selected, snaps
}

func expandTabTitle(tab *Tab) string {
	out := title.Expand(tab.TitleFormat, title.Context{
		ProfileName:      tab.ProfileName,
		WorkingDirectory: tab.WorkingDir,
		WindowTitle:      tab.Process.WindowTitle(),
	})
	if out == "" {
		return tab.ProfileName
	}
	return out
}
