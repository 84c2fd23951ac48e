package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tabnest/tabnest/internal/cli/styles"
	"github.com/tabnest/tabnest/internal/winsys"
)

var (
	windowsFilter string
	windowsJSON   bool
)

var windowsCmd = &cobra.Command{
	Use:   "list-windows",
	Short: "List top-level windows the window system can see",
	Long: `List every titled top-level window with its id, owning process,
class, and title.

The host adopts a content window by matching exactly on the configured
discovery title and class; this listing shows the candidates. Use it to
find the right [discovery] values when a content program names its
window in an unexpected way.

Examples:
  tabnest list-windows
  tabnest list-windows --filter neovide
  tabnest list-windows --json | jq '.[].class'`,
	RunE: runListWindows,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
	windowsCmd.Flags().StringVarP(&windowsFilter, "filter", "f", "", "Only show windows whose title or class contains this substring")
	windowsCmd.Flags().BoolVar(&windowsJSON, "json", false, "Output as JSON")
}

func runListWindows(_ *cobra.Command, _ []string) error {
	cliApp := GetApp()
	if cliApp == nil {
		return fmt.Errorf("app not initialized")
	}

	ws, err := winsys.New()
	if err != nil {
		if errors.Is(err, winsys.ErrUnsupported) {
			return fmt.Errorf("no window system backend on this platform: %w", err)
		}
		return fmt.Errorf("initialize window system: %w", err)
	}

	windows, err := winsys.List(ws, windowsFilter)
	if err != nil {
		return fmt.Errorf("enumerate windows: %w", err)
	}

	if windowsJSON {
		type windowJSON struct {
			ID    string `json:"id"`
			PID   int    `json:"pid"`
			Title string `json:"title"`
			Class string `json:"class"`
		}
		out := make([]windowJSON, 0, len(windows))
		for _, w := range windows {
			out = append(out, windowJSON{
				ID:    fmt.Sprintf("0x%x", uintptr(w.ID)),
				PID:   w.PID,
				Title: w.Title,
				Class: w.Class,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	renderer := styles.NewWindowsRenderer(cliApp.Theme)
	fmt.Print(renderer.Render(windows, windowsFilter))
	return nil
}
