package tabs

import "testing"

func TestDragStateThreshold(t *testing.T) {
	d := &DragState{TabIndex: 0, StartX: 100, CurrentX: 100, TabStartLeft: 8}
	if d.Active() {
		t.Error("no movement must not activate the drag")
	}
	d.CurrentX = 105
	if d.Active() {
		t.Error("movement at the threshold still counts as a click")
	}
	d.CurrentX = 106
	if !d.Active() {
		t.Error("movement beyond the threshold must activate the drag")
	}
	d.CurrentX = 94
	if !d.Active() {
		t.Error("leftward movement beyond the threshold must activate the drag")
	}
}

func TestDragStateVisualX(t *testing.T) {
	d := &DragState{TabIndex: 0, StartX: 100, CurrentX: 150, TabStartLeft: 8}
	if got := d.VisualX(); got != 58 {
		t.Errorf("VisualX = %d, want 58", got)
	}
	d = &DragState{TabIndex: 1, StartX: 200, CurrentX: 150, TabStartLeft: 128}
	if got := d.VisualX(); got != 78 {
		t.Errorf("VisualX = %d, want 78", got)
	}
}

func TestHitTest(t *testing.T) {
	cases := []struct {
		x, count, want int
	}{
		{-5, 3, -1},
		{7, 3, -1},
		{8, 3, 0},
		{127, 3, 0},
		{128, 3, 1},
		{367, 3, 2},
		{368, 3, -1},
		{50, 0, -1},
	}
	for _, c := range cases {
		if got := DefaultLayout.HitTest(c.x, c.count); got != c.want {
			t.Errorf("HitTest(%d, %d) = %d, want %d", c.x, c.count, got, c.want)
		}
	}
}

func TestStartDrag(t *testing.T) {
	f := newFixture(t)
	f.create(2)

	if f.m.StartDrag(400) {
		t.Error("a press outside the strip must not start a drag")
	}
	if f.m.Dragging() {
		t.Error("no drag state expected")
	}
	if !f.m.StartDrag(50) {
		t.Fatal("a press on a tab must start a drag")
	}
	d := f.m.Drag()
	if d == nil || d.TabIndex != 0 || d.TabStartLeft != 8 {
		t.Fatalf("unexpected drag state %+v", d)
	}
}

func TestDragSwapsRightAcrossMidpoint(t *testing.T) {
	f := newFixture(t)
	f.create(3)

	if !f.m.StartDrag(50) {
		t.Fatal("press on the first tab")
	}

	// The dragged tab's center sits exactly on the neighbor's slot
	// center: not yet crossed.
	if f.m.DragTo(170) {
		t.Error("touching the midpoint must not reorder")
	}
	if got := f.ids(); !idsEqual(got, []uint64{1, 2, 3}) {
		t.Fatalf("order must be unchanged, got %v", got)
	}

	if !f.m.DragTo(171) {
		t.Fatal("crossing the midpoint must reorder")
	}
	if got := f.ids(); !idsEqual(got, []uint64{2, 1, 3}) {
		t.Fatalf("expected one swap, got %v", got)
	}
	d := f.m.Drag()
	if d.TabIndex != 1 || d.TabStartLeft != 128 || d.StartX != 171 {
		t.Fatalf("drag must re-anchor on the new slot, got %+v", d)
	}

	if !f.m.DragTo(292) {
		t.Fatal("crossing the next midpoint must reorder again")
	}
	if got := f.ids(); !idsEqual(got, []uint64{2, 3, 1}) {
		t.Fatalf("expected the dragged tab at the end, got %v", got)
	}
	if d := f.m.Drag(); d.TabIndex != 2 || d.TabStartLeft != 248 {
		t.Fatalf("unexpected drag state %+v", d)
	}
}

func TestDragSwapsLeftAcrossMidpoint(t *testing.T) {
	f := newFixture(t)
	f.create(3)

	if !f.m.StartDrag(300) {
		t.Fatal("press on the last tab")
	}
	if f.m.DragTo(180) {
		t.Error("touching the midpoint must not reorder")
	}
	if !f.m.DragTo(179) {
		t.Fatal("crossing the midpoint must reorder")
	}
	if got := f.ids(); !idsEqual(got, []uint64{1, 3, 2}) {
		t.Fatalf("expected one swap, got %v", got)
	}
	if d := f.m.Drag(); d.TabIndex != 1 || d.TabStartLeft != 128 || d.StartX != 179 {
		t.Fatalf("drag must re-anchor on the new slot, got %+v", d)
	}
}

func TestEndDragClickSelects(t *testing.T) {
	f := newFixture(t)
	f.create(3)
	if f.m.SelectedIndex() != 2 {
		t.Fatalf("setup: expected selection 2, got %d", f.m.SelectedIndex())
	}

	f.m.StartDrag(50)
	f.m.DragTo(53)
	idx, clicked := f.m.EndDrag()
	if !clicked || idx != 0 {
		t.Fatalf("EndDrag = (%d, %v), want (0, true)", idx, clicked)
	}
	if f.m.SelectedIndex() != 0 {
		t.Errorf("a click must select the pressed tab, got %d", f.m.SelectedIndex())
	}
	if f.m.Dragging() {
		t.Error("drag state must be cleared")
	}
}

func TestEndDragAfterSwapIsNotClick(t *testing.T) {
	f := newFixture(t)
	f.create(3)
	f.m.SelectTab(2)

	f.m.StartDrag(50)
	f.m.DragTo(171)
	// Back under the threshold relative to the re-anchored origin: the
	// drag stays live, releasing here must not turn into a click.
	f.m.DragTo(173)
	if !f.m.Drag().Active() {
		t.Fatal("an activated drag must stay active after re-anchoring")
	}
	idx, clicked := f.m.EndDrag()
	if clicked || idx != 1 {
		t.Fatalf("EndDrag = (%d, %v), want (1, false)", idx, clicked)
	}
	if f.m.SelectedIndex() != 2 {
		t.Errorf("a completed drag must not change the selection, got %d", f.m.SelectedIndex())
	}
}

func TestEndDragWithoutStart(t *testing.T) {
	f := newFixture(t)
	f.create(1)
	idx, clicked := f.m.EndDrag()
	if idx != -1 || clicked {
		t.Errorf("EndDrag = (%d, %v), want (-1, false)", idx, clicked)
	}
}

func TestDragRebindsAfterRemoval(t *testing.T) {
	f := newFixture(t)
	f.create(3)

	f.m.StartDrag(300)
	f.m.DragTo(310)

	// A tab before the dragged one exits mid-drag.
	f.procs[0].running = false
	f.m.RemoveExitedTab(0)

	d := f.m.Drag()
	if d == nil {
		t.Fatal("removal elsewhere must not cancel the drag")
	}
	if d.TabIndex != 1 || d.TabStartLeft != 128 {
		t.Fatalf("drag must rebind to the shifted index, got %+v", d)
	}
}

func TestDragCanceledWhenDraggedTabRemoved(t *testing.T) {
	f := newFixture(t)
	f.create(3)

	f.m.StartDrag(300)
	f.procs[2].running = false
	f.m.RemoveExitedTab(2)

	if f.m.Dragging() {
		t.Error("removing the dragged tab must cancel the drag")
	}
}
