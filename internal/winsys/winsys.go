// Package winsys is the narrow window-system boundary: top-level window
// enumeration, geometry, visibility and the graceful close signal. The
// supervisor and discovery layers talk to the OS only through WindowSystem,
// so everything above this package is testable with the Fake or the
// generated mocks.
package winsys

import "errors"

//go:generate mockgen -source=winsys.go -destination=mocks/mock_winsys.go

// ErrUnsupported is returned by New on platforms without a backend.
var ErrUnsupported = errors.New("winsys: no window system backend on this platform")

// WindowID identifies a top-level OS window. The window belongs to the
// content process, not to us; holders must treat the id as a weak reference
// and re-check IsWindow before relying on it.
type WindowID uintptr

// Rect is a screen-coordinate rectangle.
type Rect struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// WindowInfo describes one enumerated top-level window.
type WindowInfo struct {
	ID    WindowID
	PID   int
	Title string
	Class string
}

// WindowSystem is the OS surface the supervisor needs. Implementations must
// be safe for use from multiple goroutines: discovery enumerates from its
// own goroutine while the host goroutine moves and shows windows.
type WindowSystem interface {
	// EnumWindows visits every top-level window until visit returns false.
	EnumWindows(visit func(WindowInfo) bool) error

	// WindowRect returns the window's current outer rectangle.
	WindowRect(id WindowID) (Rect, error)

	// MoveWindow moves and resizes the window without changing z-order.
	MoveWindow(id WindowID, r Rect) error

	// ShowWindow / HideWindow toggle visibility without raising.
	ShowWindow(id WindowID)
	HideWindow(id WindowID)

	// RaiseWindow brings the window above all others and focuses it.
	RaiseWindow(id WindowID)

	// RequestClose posts the OS close signal to the window. It reports
	// whether the signal was posted; the target may still ignore it.
	RequestClose(id WindowID) bool

	// IsWindow reports whether the id still names a live window.
	IsWindow(id WindowID) bool

	// WindowTitle returns the window's current title, "" when gone.
	WindowTitle(id WindowID) string
}

// List enumerates all top-level windows whose title or class contains
// filter (case-insensitive). An empty filter matches every titled window.
func List(ws WindowSystem, filter string) ([]WindowInfo, error) {
	var out []WindowInfo
	err := ws.EnumWindows(func(info WindowInfo) bool {
		if matchesFilter(info, filter) {
			out = append(out, info)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
