package app

import "sync"

// Coalescer merges bursts of same-key tasks. When a key is posted again
// before its earlier task ran, the newer func replaces the older one
// and only a single execution happens. Poll ticks, repaints, and resize
// repositioning go through here so a storm of native events collapses
// into one unit of work per drain.
type Coalescer struct {
	mu      sync.Mutex
	pending map[string]func()
	post    func(func())
	closed  bool
}

// NewCoalescer creates a coalescer that hands merged tasks to post,
// typically Loop.Post.
func NewCoalescer(post func(func())) *Coalescer {
	if post == nil {
		panic("app.NewCoalescer: post function cannot be nil")
	}
	return &Coalescer{
		pending: make(map[string]func()),
		post:    post,
	}
}

// Post schedules fn under key, replacing any not-yet-run task with the
// same key.
func (c *Coalescer) Post(key string, fn func()) {
	if key == "" || fn == nil {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	_, queued := c.pending[key]
	c.pending[key] = fn
	post := c.post
	c.mu.Unlock()

	if queued {
		return
	}

	post(func() {
		c.mu.Lock()
		fn := c.pending[key]
		delete(c.pending, key)
		closed := c.closed
		c.mu.Unlock()

		if fn != nil && !closed {
			fn()
		}
	})
}

// Close drops all pending tasks and refuses new ones.
func (c *Coalescer) Close() {
	c.mu.Lock()
	c.closed = true
	c.pending = map[string]func(){}
	c.mu.Unlock()
}
