// Package session persists the host's tab set to SQLite and restores it
// on the next launch. A state is a point-in-time capture: which profiles
// were open, in what order, which one was selected, and where the host
// window sat. The newest state wins on restore.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/tabnest/tabnest/internal/tabs"
)

// WindowRect is the host window placement stored with a state. A zero
// Width or Height means the placement was never recorded and restore
// should keep the configured defaults.
type WindowRect struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// Zero reports whether the placement carries no usable geometry.
func (r WindowRect) Zero() bool {
	return r.Width <= 0 || r.Height <= 0
}

// State is one saved session.
type State struct {
	ID            string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	SelectedIndex int
	Tabs          []tabs.TabSnapshot
	Window        WindowRect
}

// GenerateStateID creates a unique state identifier.
// Format: YYYYMMDD_HHMMSS_xxxx (timestamp + 4 random hex chars)
// Example: 20260825_141502_a7b3
func GenerateStateID() string {
	now := time.Now()
	random := make([]byte, 2)
	_, _ = rand.Read(random)
	return now.Format("20060102_150405") + "_" + hex.EncodeToString(random)
}

// ShortID extracts the short ID (last 4 hex chars) from a full state ID.
// Example: "20260825_141502_a7b3" -> "a7b3"
func ShortID(id string) string {
	if len(id) < 4 {
		return id
	}
	return id[len(id)-4:]
}
