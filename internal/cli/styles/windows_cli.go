package styles

import (
	"fmt"
	"strings"

	"github.com/tabnest/tabnest/internal/winsys"
)

// WindowsRenderer renders the `list-windows` output: every top-level
// window with the fields discovery matches against.
type WindowsRenderer struct {
	theme *Theme
}

// NewWindowsRenderer creates a window list renderer.
func NewWindowsRenderer(theme *Theme) *WindowsRenderer {
	return &WindowsRenderer{theme: theme}
}

// Render renders the window list. filter is echoed in the header so a
// surprising result is easy to explain.
func (r *WindowsRenderer) Render(windows []winsys.WindowInfo, filter string) string {
	var b strings.Builder

	title := fmt.Sprintf("%s %s", r.theme.Highlight.Render(IconWindow), r.theme.Title.Render("Windows"))
	b.WriteString(title)
	if filter != "" {
		b.WriteString(r.theme.Subtle.Render(fmt.Sprintf("  %s %q", IconFilter, filter)))
	}
	b.WriteString("\n\n")

	if len(windows) == 0 {
		b.WriteString(r.theme.Subtle.Render("No windows matched."))
		return b.String()
	}

	b.WriteString(r.theme.Subtle.Render(fmt.Sprintf("%-12s %-8s %-24s %s", "ID", "PID", "CLASS", "TITLE")))
	b.WriteString("\n")
	for _, w := range windows {
		b.WriteString(fmt.Sprintf("%-12s %-8s %-24s %s\n",
			r.theme.Normal.Render(fmt.Sprintf("0x%x", uintptr(w.ID))),
			r.theme.Normal.Render(fmt.Sprintf("%d", w.PID)),
			r.theme.Highlight.Render(truncate(w.Class, 24)),
			r.theme.Normal.Render(truncate(w.Title, 60)),
		))
	}

	b.WriteString("\n")
	b.WriteString(r.theme.Subtle.Render(fmt.Sprintf("%d windows. Discovery matches on exact title and class.", len(windows))))
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
