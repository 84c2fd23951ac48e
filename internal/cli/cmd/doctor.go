package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tabnest/tabnest/internal/cli/styles"
	"github.com/tabnest/tabnest/internal/config"
	"github.com/tabnest/tabnest/internal/db"
	"github.com/tabnest/tabnest/internal/winsys"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check runtime requirements and diagnose issues",
	Long: `Doctor checks everything the host needs before it opens a window:

- the content program is on PATH
- a window system backend exists on this platform
- the configuration file parses and validates
- the data directory is writable
- the session database opens

Examples:
  tabnest doctor
  tabnest doctor --json`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output as JSON")
}

func runDoctor(_ *cobra.Command, _ []string) error {
	cliApp := GetApp()
	if cliApp == nil {
		return fmt.Errorf("app not initialized")
	}
	cfg := cliApp.Config

	// Checks are independent; run them together and keep the report
	// order fixed.
	checks := make([]styles.DoctorCheck, 5)
	var g errgroup.Group
	g.Go(func() error { checks[0] = checkContentProgram(cfg); return nil })
	g.Go(func() error { checks[1] = checkWindowSystem(); return nil })
	g.Go(func() error { checks[2] = checkConfigFile(); return nil })
	g.Go(func() error { checks[3] = checkDataDir(); return nil })
	g.Go(func() error { checks[4] = checkDatabase(cfg); return nil })
	_ = g.Wait()

	report := styles.DoctorReport{OverallOK: true, Checks: checks}
	for _, c := range checks {
		if !c.OK {
			report.OverallOK = false
		}
	}

	if doctorJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		renderer := styles.NewDoctorRenderer(cliApp.Theme)
		fmt.Println(renderer.Render(report))
	}

	if !report.OverallOK {
		return fmt.Errorf("some requirements are not met")
	}
	return nil
}

func checkContentProgram(cfg *config.Config) styles.DoctorCheck {
	c := styles.DoctorCheck{Name: "content program"}
	program := cfg.Content.Program
	if program == "" {
		c.Error = "content.program is empty"
		c.Hint = "set content.program in the config to the executable each tab should run"
		return c
	}
	path, err := exec.LookPath(program)
	if err != nil {
		c.Error = err.Error()
		c.Hint = fmt.Sprintf("install %s or point content.program at another executable", program)
		return c
	}
	c.OK = true
	c.Detail = path
	return c
}

func checkWindowSystem() styles.DoctorCheck {
	c := styles.DoctorCheck{Name: "window system"}
	if _, err := winsys.New(); err != nil {
		c.Error = err.Error()
		if errors.Is(err, winsys.ErrUnsupported) {
			c.Hint = "the host window needs a native backend; CLI commands still work here"
		}
		return c
	}
	c.OK = true
	c.Detail = "native backend ready"
	return c
}

// checkConfigFile loads the config from scratch so the report carries
// the real parse error, not the silent default fallback commands use.
func checkConfigFile() styles.DoctorCheck {
	c := styles.DoctorCheck{Name: "configuration"}
	mgr, err := config.NewManager()
	if err != nil {
		c.Error = err.Error()
		return c
	}
	if err := mgr.Load(); err != nil {
		c.Error = err.Error()
		c.Hint = "fix the file or delete it; a fresh default is written on the next run"
		return c
	}
	c.OK = true
	c.Detail = mgr.GetConfigFile()
	if c.Detail == "" {
		// First run: the default was just written but never re-read.
		if file, err := config.GetConfigFile(); err == nil {
			c.Detail = file
		}
	}
	return c
}

func checkDataDir() styles.DoctorCheck {
	c := styles.DoctorCheck{Name: "data directory"}
	dir, err := config.GetDataDir()
	if err != nil {
		c.Error = err.Error()
		return c
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.Error = err.Error()
		c.Hint = "session persistence needs a writable data directory"
		return c
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		c.Error = err.Error()
		c.Hint = "session persistence needs a writable data directory"
		return c
	}
	_ = os.Remove(probe)
	c.OK = true
	c.Detail = dir
	return c
}

func checkDatabase(cfg *config.Config) styles.DoctorCheck {
	c := styles.DoctorCheck{Name: "session database"}
	path := cfg.Database.Path
	if path == "" {
		var err error
		path, err = config.GetDatabaseFile()
		if err != nil {
			c.Error = err.Error()
			return c
		}
	}
	handle, err := db.InitDB(path)
	if err != nil {
		c.Error = err.Error()
		c.Hint = "move the file aside to start fresh; saved sessions will be lost"
		return c
	}
	_ = db.Close(handle)
	c.OK = true
	c.Detail = path
	return c
}
