package supervisor

import (
	"sync"

	"github.com/tabnest/tabnest/internal/winsys"
)

// windowSlot is the cell shared between the discovery goroutine and the
// host thread. The goroutine keeps its own pointer to the slot, so
// tearing the supervisor down never invalidates memory under the
// goroutine; teardown only marks the slot closed, after which a late
// store is silently dropped.
type windowSlot struct {
	mu     sync.Mutex
	id     winsys.WindowID
	found  bool
	closed bool
}

func newWindowSlot() *windowSlot { return &windowSlot{} }

// store records the discovered window. It reports false when the slot
// was closed first; the caller must then discard the window.
func (s *windowSlot) store(id winsys.WindowID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.id = id
	s.found = true
	return true
}

// get returns the discovered window, if any. A closed slot reports
// not-found regardless of what was stored before.
func (s *windowSlot) get() (winsys.WindowID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.found || s.closed {
		return 0, false
	}
	return s.id, true
}

func (s *windowSlot) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *windowSlot) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
