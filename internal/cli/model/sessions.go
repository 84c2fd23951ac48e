// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tabnest/tabnest/internal/cli/styles"
	"github.com/tabnest/tabnest/internal/logging"
	"github.com/tabnest/tabnest/internal/session"
)

// SessionStore is the slice of session.Store the browser needs. Saving
// an existing state re-stamps its updated time, which is how "restore
// this one next" is expressed: the newest state wins at startup.
type SessionStore interface {
	List(ctx context.Context, limit int) ([]*session.State, error)
	Save(ctx context.Context, state *session.State) error
	Delete(ctx context.Context, id string) error
}

// SessionsModel is the Bubble Tea model for the interactive session
// browser.
type SessionsModel struct {
	help    help.Model
	keys    sessionsKeyMap
	confirm *styles.ConfirmModel

	sessions      []*session.State
	selectedIdx   int
	expandedIdx   int // -1 means none expanded
	width         int
	height        int
	err           error
	statusMessage string

	maxListed int

	ctx   context.Context
	store SessionStore
	theme *styles.Theme
}

type sessionsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Expand  key.Binding
	Restore key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k sessionsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Restore, k.Delete, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k sessionsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand},
		{k.Restore, k.Delete, k.Refresh},
		{k.Help, k.Quit},
	}
}

func defaultSessionsKeyMap() sessionsKeyMap {
	return sessionsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter", "tab"),
			key.WithHelp("enter", "expand/collapse"),
		),
		Restore: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restore next"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "d"),
			key.WithHelp("x", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SessionsModelConfig holds configuration for the sessions model.
type SessionsModelConfig struct {
	Store     SessionStore
	MaxListed int
}

// NewSessionsModel creates a session browser model.
func NewSessionsModel(ctx context.Context, theme *styles.Theme, cfg SessionsModelConfig) SessionsModel {
	maxListed := cfg.MaxListed
	if maxListed <= 0 {
		maxListed = 50
	}

	return SessionsModel{
		help:        help.New(),
		keys:        defaultSessionsKeyMap(),
		expandedIdx: -1,
		width:       80,
		height:      24,
		maxListed:   maxListed,
		ctx:         ctx,
		store:       cfg.Store,
		theme:       theme,
	}
}

// Init implements tea.Model.
func (m SessionsModel) Init() tea.Cmd {
	return m.loadSessions
}

type sessionsLoadedMsg struct {
	sessions []*session.State
	err      error
}

type sessionDeletedMsg struct {
	id  string
	err error
}

type sessionBumpedMsg struct {
	id  string
	err error
}

func (m SessionsModel) loadSessions() tea.Msg {
	log := logging.FromContext(m.ctx)

	if m.store == nil {
		return sessionsLoadedMsg{err: fmt.Errorf("session store not available")}
	}

	states, err := m.store.List(m.ctx, m.maxListed)
	if err != nil {
		log.Error().Err(err).Msg("failed to load sessions")
		return sessionsLoadedMsg{err: err}
	}
	return sessionsLoadedMsg{sessions: states}
}

// Update implements tea.Model.
func (m SessionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		return m.handleConfirmModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case sessionsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.sessions = msg.sessions
		m.err = nil
		if m.selectedIdx >= len(m.sessions) {
			m.selectedIdx = len(m.sessions) - 1
		}
		if m.selectedIdx < 0 {
			m.selectedIdx = 0
		}
		return m, nil

	case sessionDeletedMsg:
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.statusMessage = fmt.Sprintf("Session %s deleted", msg.id)
		m.expandedIdx = -1
		return m, m.loadSessions

	case sessionBumpedMsg:
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.statusMessage = fmt.Sprintf("Session %s will be restored on the next launch", msg.id)
		return m, m.loadSessions
	}

	return m, nil
}

func (m SessionsModel) handleConfirmModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	confirm, cmd := m.confirm.Update(msg)
	m.confirm = &confirm
	if m.confirm.Done() {
		if m.confirm.Result() {
			if m.selectedIdx >= 0 && m.selectedIdx < len(m.sessions) {
				cmd = m.deleteSession(m.sessions[m.selectedIdx].ID)
			}
		}
		m.confirm = nil
		return m, cmd
	}
	return m, cmd
}

func (m SessionsModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selectedIdx < len(m.sessions)-1 {
			m.selectedIdx++
		}
		return m, nil

	case key.Matches(msg, m.keys.Expand):
		if m.expandedIdx == m.selectedIdx {
			m.expandedIdx = -1
		} else {
			m.expandedIdx = m.selectedIdx
		}
		return m, nil

	case key.Matches(msg, m.keys.Restore):
		if m.selectedIdx >= 0 && m.selectedIdx < len(m.sessions) {
			if m.selectedIdx == 0 {
				m.statusMessage = "Already first in line for restore"
				return m, nil
			}
			return m, m.bumpSession(m.sessions[m.selectedIdx])
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.selectedIdx >= 0 && m.selectedIdx < len(m.sessions) {
			state := m.sessions[m.selectedIdx]
			confirm := styles.NewConfirm(m.theme, fmt.Sprintf("Delete session %s?", state.ID))
			m.confirm = &confirm
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadSessions

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

func (m SessionsModel) deleteSession(id string) tea.Cmd {
	return func() tea.Msg {
		log := logging.FromContext(m.ctx)
		log.Info().Str("state_id", id).Msg("deleting session")

		if m.store == nil {
			return sessionDeletedMsg{id: id, err: fmt.Errorf("session store not available")}
		}
		return sessionDeletedMsg{id: id, err: m.store.Delete(m.ctx, id)}
	}
}

// bumpSession re-saves the state so it becomes the newest one, which is
// the one the next launch restores.
func (m SessionsModel) bumpSession(state *session.State) tea.Cmd {
	return func() tea.Msg {
		log := logging.FromContext(m.ctx)
		log.Info().Str("state_id", state.ID).Msg("queueing session for restore")

		if m.store == nil {
			return sessionBumpedMsg{id: state.ID, err: fmt.Errorf("session store not available")}
		}
		return sessionBumpedMsg{id: state.ID, err: m.store.Save(m.ctx, state)}
	}
}

// View implements tea.Model.
func (m SessionsModel) View() string {
	if m.confirm != nil {
		return m.confirm.View()
	}

	t := m.theme
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(t.ErrorStyle.Render(fmt.Sprintf("%s Error: %v", styles.IconX, m.err)))
		b.WriteString("\n\n")
	}

	if m.statusMessage != "" {
		b.WriteString(t.Subtle.Render(m.statusMessage))
		b.WriteString("\n\n")
	}

	if len(m.sessions) == 0 {
		b.WriteString(t.Subtle.Render("  No saved sessions found."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderSessionsList())
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m SessionsModel) renderHeader() string {
	t := m.theme

	iconStyle := lipgloss.NewStyle().Foreground(t.Accent)
	icon := iconStyle.Render(styles.IconWindow)
	title := t.Title.MarginLeft(1).Render("Sessions")

	totalTabs := 0
	for _, s := range m.sessions {
		totalTabs += len(s.Tabs)
	}
	stats := t.Subtle.Render(fmt.Sprintf("  %d saved  %s %d tabs",
		len(m.sessions), styles.IconTab, totalTabs))

	return icon + title + stats
}

func (m SessionsModel) renderSessionsList() string {
	var b strings.Builder

	for i, state := range m.sessions {
		b.WriteString(m.renderSessionRow(state, i))
		b.WriteString("\n")

		if i == m.expandedIdx {
			b.WriteString(m.renderSessionDetails(state))
		}
	}

	return b.String()
}

func (m SessionsModel) renderSessionRow(state *session.State, idx int) string {
	t := m.theme

	cursor := "  "
	if idx == m.selectedIdx {
		cursor = t.Highlight.Render(styles.IconCursor + " ")
	}

	idStyle := t.Normal
	if idx == m.selectedIdx {
		idStyle = t.Highlight
	}

	// The newest state is the one a restart restores.
	label := ""
	if idx == 0 {
		label = t.Badge.Render("next restore")
	}

	expandIcon := styles.IconExpand
	if idx == m.expandedIdx {
		expandIcon = styles.IconCollapse
	}

	counts := t.Subtle.Render(fmt.Sprintf("%s %d", styles.IconTab, len(state.Tabs)))
	timeStr := t.Subtle.Render(fmt.Sprintf("%s %s", styles.IconClock, styles.RelativeTime(state.UpdatedAt)))

	return fmt.Sprintf("%s%s %s  %s  %s  %s",
		cursor,
		idStyle.Render(state.ID),
		label,
		t.Subtle.Render(expandIcon),
		counts,
		timeStr,
	)
}

func (m SessionsModel) renderSessionDetails(state *session.State) string {
	t := m.theme
	var b strings.Builder

	if len(state.Tabs) == 0 {
		b.WriteString(t.Subtle.Render("      (no tabs)"))
		b.WriteString("\n")
		return b.String()
	}

	treeStyle := lipgloss.NewStyle().Foreground(t.Border)
	for i, tab := range state.Tabs {
		branch := "├── "
		if i == len(state.Tabs)-1 {
			branch = "└── "
		}

		line := fmt.Sprintf("      %s%s %s",
			treeStyle.Render(branch),
			t.Subtle.Render(styles.IconTab),
			t.Normal.Render(tab.ProfileName),
		)
		if tab.WorkingDir != "" {
			line += "  " + t.Subtle.Render(fmt.Sprintf("%s %s", styles.IconFolder, tab.WorkingDir))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	return b.String()
}

// Ensure interface compliance at compile time.
var _ tea.Model = (*SessionsModel)(nil)
