package styles

import (
	"fmt"
	"strings"

	"github.com/tabnest/tabnest/internal/session"
)

// SessionsCLIRenderer renders the non-interactive output of the
// sessions subcommands (`tabnest sessions list`, `restore`, `delete`).
type SessionsCLIRenderer struct {
	theme *Theme
}

// NewSessionsCLIRenderer creates a sessions renderer.
func NewSessionsCLIRenderer(theme *Theme) *SessionsCLIRenderer {
	return &SessionsCLIRenderer{theme: theme}
}

// RenderEmptyList renders the no-sessions placeholder.
func (r *SessionsCLIRenderer) RenderEmptyList() string {
	return r.theme.Subtle.Render("No saved sessions found.")
}

// RenderList renders saved states newest first. The first entry is the
// one a restart would restore.
func (r *SessionsCLIRenderer) RenderList(states []*session.State, limit int) string {
	if len(states) == 0 {
		return r.RenderEmptyList()
	}

	var b strings.Builder
	title := fmt.Sprintf("%s %s", r.theme.Highlight.Render(IconWindow), r.theme.Title.Render("Sessions"))
	b.WriteString(title)
	if limit > 0 {
		b.WriteString(r.theme.Subtle.Render(fmt.Sprintf(" (showing up to %d)", limit)))
	}
	b.WriteString("\n\n")

	for i, state := range states {
		b.WriteString(r.renderOne(state, i == 0))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(r.theme.Subtle.Render("Tip: use `tabnest sessions` for the interactive browser."))
	return b.String()
}

func (r *SessionsCLIRenderer) renderOne(state *session.State, newest bool) string {
	status := " "
	statusStyle := r.theme.Subtle
	label := ""
	if newest {
		status = "●"
		statusStyle = r.theme.Highlight
		label = r.theme.Badge.Render("next restore")
	}

	id := r.theme.Highlight.Render(state.ID)
	tabs := r.theme.BadgeMuted.Render(fmt.Sprintf("%d tabs", len(state.Tabs)))
	updated := r.theme.Subtle.Render(RelativeTime(state.UpdatedAt))

	return strings.TrimRight(fmt.Sprintf("%s %s  %s  %s  %s",
		statusStyle.Render(status), id, tabs, updated, label), " ")
}

// RenderRestoreQueued renders the restore confirmation.
func (r *SessionsCLIRenderer) RenderRestoreQueued(id string) string {
	return fmt.Sprintf("%s Session %s will be restored on the next launch.",
		r.theme.SuccessStyle.Render(IconRestore),
		r.theme.Highlight.Render(id),
	)
}

// RenderDeleted renders the delete confirmation.
func (r *SessionsCLIRenderer) RenderDeleted(id string) string {
	return fmt.Sprintf("%s Session %s deleted.",
		r.theme.SuccessStyle.Render(IconCheck),
		r.theme.Highlight.Render(id),
	)
}

// RenderError renders an error line.
func (r *SessionsCLIRenderer) RenderError(err error) string {
	return fmt.Sprintf("%s %v", r.theme.ErrorStyle.Render(IconX), err)
}
