// Package tabs holds the ordered tab list and the state machine that
// drives tab lifecycle: creation, selection, reordering, graceful and
// forceful closing, and exit reaping.
//
// A Manager is confined to the host event loop and is not safe for
// concurrent use; all cross-thread traffic stays inside the supervisor
// layer below it.
package tabs

import (
	"context"
	"time"

	"github.com/tabnest/tabnest/internal/config"
	"github.com/tabnest/tabnest/internal/winsys"
)

// Process is the supervisor surface the manager drives. The concrete
// implementation is supervisor.Supervisor; tests substitute a fake.
type Process interface {
	IsRunning() bool
	IsReady() bool
	UpdatePosition(host winsys.Rect, titlebarHeight int32) bool
	Activate(host winsys.Rect, titlebarHeight int32)
	Show()
	Hide()
	RequestClose() bool
	WindowTitle() string
	MarkCloseRequested(t time.Time)
	CloseRequestedAt() *time.Time
	Terminate() error
	Close()
}

// SpawnRequest carries what the manager knows when it asks for a new
// child process.
type SpawnRequest struct {
	Width        int32
	Height       int32
	Profile      config.Profile
	ProfileIndex int
}

// Spawner launches one child process per tab. The application binds it
// to supervisor.Spawn with the host geometry and discovery settings
// already closed over.
type Spawner func(ctx context.Context, req SpawnRequest) (Process, error)

// Tab binds one supervised child process to its place in the tab strip.
// IDs are handed out by the manager, strictly increasing and never
// reused, so a stale reference can always be told from a current one.
type Tab struct {
	ID           uint64
	Process      Process
	ProfileName  string
	ProfileIcon  string
	WorkingDir   string
	ProfileIndex int
	TitleFormat  string
	CachedTitle  string
}

// CloseRequestedAt reports when a graceful close was first requested
// for this tab, or nil. The timestamp lives on the supervisor because
// it is shared with the discovery side.
func (t *Tab) CloseRequestedAt() *time.Time {
	return t.Process.CloseRequestedAt()
}

// TabSnapshot is the persisted view of one tab, enough to re-create it
// profile-by-profile on session restore.
type TabSnapshot struct {
	ProfileIndex int    `json:"profile_index"`
	ProfileName  string `json:"profile_name"`
	WorkingDir   string `json:"working_dir"`
}
