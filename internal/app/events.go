package app

import (
	"github.com/tabnest/tabnest/internal/config"
	"github.com/tabnest/tabnest/internal/hotkeys"
	"github.com/tabnest/tabnest/internal/winsys"
)

// StripState is the published view of the tab strip. The platform's
// paint handler reads it synchronously via Strip, so it is rebuilt on
// the loop whenever the strip changes and swapped in under the lock.
type StripState struct {
	Labels      []string
	Selected    int
	DragIndex   int // -1 when no drag is in progress
	DragVisualX int
}

// Strip returns the current strip snapshot. Safe from any thread.
func (a *App) Strip() StripState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.strip
	s.Labels = append([]string(nil), s.Labels...)
	return s
}

// publishStrip rebuilds the snapshot from the manager. Loop-confined.
func (a *App) publishStrip() {
	labels := make([]string, a.manager.Count())
	for i := range labels {
		labels[i] = a.manager.TabLabel(i)
	}
	s := StripState{
		Labels:    labels,
		Selected:  a.manager.SelectedIndex(),
		DragIndex: -1,
	}
	if a.manager.Dragging() {
		d := a.manager.Drag()
		s.DragIndex = d.TabIndex
		s.DragVisualX = d.VisualX()
	}

	a.mu.Lock()
	a.strip = s
	a.mu.Unlock()
}

// Post runs fn on the event loop. The escape hatch for platform code
// that needs manager state not covered by the event surface.
func (a *App) Post(fn func()) { a.loop.Post(fn) }

// OnNewTabRequested opens a tab for the profile at index.
func (a *App) OnNewTabRequested(profileIndex int) {
	a.loop.Post(func() { a.createTabForProfile(profileIndex) })
}

// OnTabClicked selects the clicked tab. The platform derives index
// from the strip layout's hit test.
func (a *App) OnTabClicked(index int) {
	a.loop.Post(func() {
		if a.manager.SelectTab(index) {
			a.activateSelected()
			a.repaint()
		}
	})
}

// OnTabCloseClicked closes one tab: gracefully when its window accepts
// the signal, forcefully otherwise.
func (a *App) OnTabCloseClicked(index int) {
	a.loop.Post(func() {
		a.manager.RequestCloseTab(index)
		if a.manager.Count() == 0 {
			a.publishStrip()
			a.notifyLastTabClosed()
			return
		}
		a.activateSelected()
		a.repaint()
	})
}

// OnDragStart begins a potential tab drag at strip coordinate x.
func (a *App) OnDragStart(x int) {
	a.loop.Post(func() { a.manager.StartDrag(x) })
}

// OnDragMove advances an in-flight drag; tabs swap live as the dragged
// tab's center crosses a neighbor's.
func (a *App) OnDragMove(x int) {
	a.loop.Post(func() {
		a.manager.DragTo(x)
		if a.manager.Dragging() {
			a.repaint()
		}
	})
}

// OnDragEnd releases the pointer: a press that never turned into a
// drag selects the pressed tab.
func (a *App) OnDragEnd() {
	a.loop.Post(func() {
		index, clicked := a.manager.EndDrag()
		if index < 0 {
			return
		}
		if clicked {
			a.log.Debug().Int("index", index).Msg("tab selected by click")
		}
		a.activateSelected()
		a.repaint()
	})
}

// OnResize records the new host rectangle and schedules a rate-limited
// reposition of every content window.
func (a *App) OnResize(rect winsys.Rect) {
	a.setHostRect(rect)
	a.resize.Do(func() {
		a.coalesce.Post(taskReposition, func() {
			a.manager.UpdateAllPositions(a.HostRect(), a.cfg.Window.TitlebarHeight)
		})
	})
}

// OnWindowCloseRequested starts the sequential shutdown: the session is
// saved while every tab is still present, then the selected tab is
// asked to close and the rest are marked pending for the poll tick to
// drain.
func (a *App) OnWindowCloseRequested() {
	a.loop.Post(func() {
		if a.manager.Count() == 0 {
			a.notifyLastTabClosed()
			return
		}
		a.saveSessionNow()
		a.manager.RequestCloseAll()
		if a.manager.Count() == 0 {
			// Every tab refused graceful close and was torn down.
			a.publishStrip()
			a.notifyLastTabClosed()
			return
		}
		a.repaint()
	})
}

// OnHotkey dispatches a registered hotkey id: tab ids select, profile
// ids activate the profile's tab or open a new one.
func (a *App) OnHotkey(id int) {
	a.loop.Post(func() {
		if index, ok := hotkeys.TabIndex(id); ok {
			if a.manager.SelectTab(index) {
				a.activateSelected()
				a.repaint()
			}
			return
		}
		profileIndex, ok := hotkeys.ProfileIndex(id)
		if !ok {
			return
		}
		if index, found := a.manager.FindTabByProfileIndex(profileIndex); found {
			if a.manager.SelectTab(index) {
				a.activateSelected()
				a.repaint()
			}
			return
		}
		a.createTabForProfile(profileIndex)
	})
}

// SetOnRepaintNeeded registers the strip redraw callback. Call before
// Run.
func (a *App) SetOnRepaintNeeded(fn func()) { a.onRepaintNeeded = fn }

// SetOnLastTabClosed registers the callback fired when the last tab is
// gone and the host window should close. Call before Run.
func (a *App) SetOnLastTabClosed(fn func()) { a.onLastTabClosed = fn }

// SetOnDiscoveryTimeout registers the callback for the fatal case of a
// content window never appearing. Call before Run.
func (a *App) SetOnDiscoveryTimeout(fn func()) { a.onDiscoveryTimeout = fn }

// SetOnSpawnError registers the callback surfacing per-tab spawn
// failures. Call before Run.
func (a *App) SetOnSpawnError(fn func(profile string, err error)) { a.onSpawnError = fn }

// SetOnConfigChanged registers the callback fired after a live reload
// is applied, so the platform can rebind hotkeys and refresh colors.
// Call before Run.
func (a *App) SetOnConfigChanged(fn func(*config.Config)) { a.onConfigChanged = fn }
