// Package geometry computes where a content window belongs inside the
// host. Pure functions over winsys.Rect; no OS calls.
package geometry

import "github.com/tabnest/tabnest/internal/winsys"

// Plan returns the target rectangle for a content window given the host's
// client area in screen coordinates. The content sits below the host's
// drawn title bar, inset on the remaining three sides.
func Plan(host winsys.Rect, titlebarHeight, inset int32) winsys.Rect {
	return winsys.Rect{
		X:      host.X + inset,
		Y:      host.Y + titlebarHeight + inset,
		Width:  host.Width - 2*inset,
		Height: host.Height - titlebarHeight - 2*inset,
	}
}

// ClampMin enforces the host window's minimum outer size.
func ClampMin(r winsys.Rect, minWidth, minHeight int32) winsys.Rect {
	if r.Width < minWidth {
		r.Width = minWidth
	}
	if r.Height < minHeight {
		r.Height = minHeight
	}
	return r
}
