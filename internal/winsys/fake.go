package winsys

import (
	"sort"
	"sync"
)

// Fake is an in-memory WindowSystem for tests. It is thread-safe and
// tracks calls, mirroring how discovery and the host goroutine share the
// real backend. Behavior is overridable per method via the Func fields;
// the defaults operate on the Windows map.
type Fake struct {
	mu sync.Mutex

	// Windows is the enumeration source and the backing state for the
	// default method implementations, keyed by window id.
	Windows map[WindowID]*FakeWindow

	// Behavior overrides.
	EnumWindowsFunc  func(visit func(WindowInfo) bool) error
	WindowRectFunc   func(id WindowID) (Rect, error)
	MoveWindowFunc   func(id WindowID, r Rect) error
	RequestCloseFunc func(id WindowID) bool

	// Call tracking.
	EnumCalls  int
	MoveCalls  []FakeMove
	ShowCalls  []WindowID
	HideCalls  []WindowID
	RaiseCalls []WindowID
	CloseCalls []WindowID
}

// FakeWindow is the mutable state behind one fake window id.
type FakeWindow struct {
	Info    WindowInfo
	Rect    Rect
	Visible bool
}

// FakeMove records one MoveWindow call.
type FakeMove struct {
	ID   WindowID
	Rect Rect
}

// NewFake returns an empty fake window system.
func NewFake() *Fake {
	return &Fake{Windows: make(map[WindowID]*FakeWindow)}
}

// AddWindow registers a window and returns its id.
func (f *Fake) AddWindow(id WindowID, pid int, title, class string, r Rect) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Windows[id] = &FakeWindow{
		Info: WindowInfo{ID: id, PID: pid, Title: title, Class: class},
		Rect: r,
	}
}

// RemoveWindow drops a window, as if the owning process closed it.
func (f *Fake) RemoveWindow(id WindowID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Windows, id)
}

func (f *Fake) EnumWindows(visit func(WindowInfo) bool) error {
	f.mu.Lock()
	f.EnumCalls++
	fn := f.EnumWindowsFunc
	infos := make([]WindowInfo, 0, len(f.Windows))
	for _, w := range f.Windows {
		infos = append(infos, w.Info)
	}
	f.mu.Unlock()

	if fn != nil {
		return fn(visit)
	}
	// Deterministic order stands in for the OS z-order, so first-match
	// assertions stay stable.
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	for _, info := range infos {
		if !visit(info) {
			return nil
		}
	}
	return nil
}

func (f *Fake) WindowRect(id WindowID) (Rect, error) {
	f.mu.Lock()
	fn := f.WindowRectFunc
	w, ok := f.Windows[id]
	var r Rect
	if ok {
		r = w.Rect
	}
	f.mu.Unlock()

	if fn != nil {
		return fn(id)
	}
	if !ok {
		return Rect{}, ErrUnsupported
	}
	return r, nil
}

func (f *Fake) MoveWindow(id WindowID, r Rect) error {
	f.mu.Lock()
	f.MoveCalls = append(f.MoveCalls, FakeMove{ID: id, Rect: r})
	fn := f.MoveWindowFunc
	if fn == nil {
		if w, ok := f.Windows[id]; ok {
			w.Rect = r
		}
	}
	f.mu.Unlock()

	if fn != nil {
		return fn(id, r)
	}
	return nil
}

func (f *Fake) ShowWindow(id WindowID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ShowCalls = append(f.ShowCalls, id)
	if w, ok := f.Windows[id]; ok {
		w.Visible = true
	}
}

func (f *Fake) HideWindow(id WindowID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.HideCalls = append(f.HideCalls, id)
	if w, ok := f.Windows[id]; ok {
		w.Visible = false
	}
}

func (f *Fake) RaiseWindow(id WindowID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RaiseCalls = append(f.RaiseCalls, id)
}

func (f *Fake) RequestClose(id WindowID) bool {
	f.mu.Lock()
	f.CloseCalls = append(f.CloseCalls, id)
	fn := f.RequestCloseFunc
	_, ok := f.Windows[id]
	f.mu.Unlock()

	if fn != nil {
		return fn(id)
	}
	return ok
}

func (f *Fake) IsWindow(id WindowID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.Windows[id]
	return ok
}

func (f *Fake) WindowTitle(id WindowID) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.Windows[id]; ok {
		return w.Info.Title
	}
	return ""
}

// EnumCount returns the number of EnumWindows calls so far.
func (f *Fake) EnumCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.EnumCalls
}

// MoveCount returns the number of MoveWindow calls so far.
func (f *Fake) MoveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.MoveCalls)
}

// Visible reports the visibility flag for id.
func (f *Fake) Visible(id WindowID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.Windows[id]; ok {
		return w.Visible
	}
	return false
}
