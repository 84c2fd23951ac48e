package tabs

// DragThreshold is the displacement in pixels beyond which a press on a
// tab becomes a drag instead of a click.
const DragThreshold = 5

// Layout describes the tab strip geometry used for hit testing and
// drag reordering. Tabs are fixed-width slots laid out left to right
// after the margin.
type Layout struct {
	LeftMargin int
	TabWidth   int
}

// DefaultLayout matches the host titlebar rendering.
var DefaultLayout = Layout{LeftMargin: 8, TabWidth: 120}

// TabLeft returns the x coordinate of a tab slot's left edge.
func (l Layout) TabLeft(index int) int {
	return l.LeftMargin + index*l.TabWidth
}

func (l Layout) tabCenter(index int) int {
	return l.TabLeft(index) + l.TabWidth/2
}

// HitTest returns the index of the tab at x, or -1 when x falls outside
// the strip of count tabs.
func (l Layout) HitTest(x, count int) int {
	if x < l.LeftMargin || l.TabWidth <= 0 {
		return -1
	}
	idx := (x - l.LeftMargin) / l.TabWidth
	if idx >= count {
		return -1
	}
	return idx
}

// DragState tracks one press-drag-release interaction on the tab strip.
// TabIndex is rebound in place whenever a live swap occurs, so it
// always names the dragged tab's current slot.
type DragState struct {
	TabIndex     int
	StartX       int
	CurrentX     int
	TabStartLeft int

	// latched reorder state: once a drag crosses the threshold it stays
	// a drag even though swaps re-anchor StartX.
	active bool
}

// Active reports whether the press has moved beyond DragThreshold and
// is therefore a genuine drag rather than a click.
func (d *DragState) Active() bool {
	if d.active {
		return true
	}
	dx := d.CurrentX - d.StartX
	return dx > DragThreshold || dx < -DragThreshold
}

// VisualX returns where the dragged tab should be painted: its slot
// origin displaced by the pointer travel.
func (d *DragState) VisualX() int {
	return d.TabStartLeft + (d.CurrentX - d.StartX)
}

// StartDrag begins tracking a press at x. It reports whether the press
// landed on a tab.
func (m *Manager) StartDrag(x int) bool {
	idx := m.layout.HitTest(x, len(m.tabs))
	if idx < 0 {
		return false
	}
	m.drag = &DragState{
		TabIndex:     idx,
		StartX:       x,
		CurrentX:     x,
		TabStartLeft: m.layout.TabLeft(idx),
	}
	return true
}

// DragTo processes pointer movement during a drag. A swap fires the
// moment the dragged tab's visual center crosses the center of the
// neighbor on the side of travel; the drag state is then re-anchored to
// the new slot so the tab tracks the pointer without jumping. Reports
// whether the tab order changed.
func (m *Manager) DragTo(x int) bool {
	d := m.drag
	if d == nil {
		return false
	}
	d.CurrentX = x
	if !d.Active() {
		return false
	}
	d.active = true

	idx := d.TabIndex
	center := d.VisualX() + m.layout.TabWidth/2

	switch {
	case d.VisualX() > m.layout.TabLeft(idx):
		next := idx + 1
		if next < len(m.tabs) && center > m.layout.tabCenter(next) {
			m.MoveTab(idx, next)
			m.rebindDrag(next)
			return true
		}
	case d.VisualX() < m.layout.TabLeft(idx):
		prev := idx - 1
		if prev >= 0 && center < m.layout.tabCenter(prev) {
			m.MoveTab(idx, prev)
			m.rebindDrag(prev)
			return true
		}
	}
	return false
}

// rebindDrag re-anchors the drag at the slot the tab just swapped into.
func (m *Manager) rebindDrag(index int) {
	d := m.drag
	d.TabIndex = index
	d.TabStartLeft = m.layout.TabLeft(index)
	d.StartX = d.CurrentX
}

// EndDrag finishes the interaction. A press that never crossed the
// threshold is a click and selects the pressed tab. Returns the index
// the press ended on and whether it was a click; (-1, false) when no
// drag was in progress.
func (m *Manager) EndDrag() (int, bool) {
	d := m.drag
	if d == nil {
		return -1, false
	}
	m.drag = nil

	if !d.Active() {
		m.SelectTab(d.TabIndex)
		return d.TabIndex, true
	}
	return d.TabIndex, false
}

// Dragging reports whether a genuine drag is in progress.
func (m *Manager) Dragging() bool {
	return m.drag != nil && m.drag.Active()
}

// Drag returns the in-flight drag state, or nil. The strip renderer
// uses it to paint the dragged tab at its visual position.
func (m *Manager) Drag() *DragState {
	return m.drag
}

// dragAfterRemoval keeps the drag state consistent when a tab
// disappears mid-drag, e.g. its process exits during the interaction.
func (m *Manager) dragAfterRemoval(removed int) {
	d := m.drag
	if d == nil {
		return
	}
	switch {
	case d.TabIndex == removed:
		m.drag = nil
	case d.TabIndex > removed:
		m.rebindDrag(d.TabIndex - 1)
	}
}
