package styles_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tabnest/tabnest/internal/cli/styles"
	"github.com/tabnest/tabnest/internal/config"
	"github.com/tabnest/tabnest/internal/winsys"
)

func TestWindowsRenderer(t *testing.T) {
	theme := styles.NewTheme(config.DefaultConfig())
	r := styles.NewWindowsRenderer(theme)

	out := r.Render(nil, "neovide")
	require.Contains(t, out, "No windows matched.")
	require.Contains(t, out, `"neovide"`)

	longTitle := strings.Repeat("t", 80)
	wins := []winsys.WindowInfo{
		{ID: 0x5a04c2, PID: 4311, Title: "Neovide", Class: "Window Class"},
		{ID: 0x11111, PID: 9, Title: longTitle, Class: "c"},
	}
	out = r.Render(wins, "")
	require.Contains(t, out, "0x5a04c2")
	require.Contains(t, out, "4311")
	require.Contains(t, out, "Window Class")
	require.Contains(t, out, "2 windows.")

	// Long titles are cut so rows stay on one line.
	require.NotContains(t, out, longTitle)
	require.Contains(t, out, strings.Repeat("t", 57)+"...")
}
