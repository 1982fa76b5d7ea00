package render

import "sync"

// Coalescer collapses bursts of render requests. A request while a render
// is in flight sets a pending flag instead of queuing; at most one extra
// render runs once the current one finishes, so rapid interaction never
// builds an unbounded backlog of full-canvas redraws.
type Coalescer struct {
	mu      sync.Mutex
	idle    *sync.Cond
	running bool
	pending bool
	render  func()
}

// NewCoalescer wraps a render function.
func NewCoalescer(render func()) *Coalescer {
	c := &Coalescer{render: render}
	c.idle = sync.NewCond(&c.mu)
	return c
}

// Request schedules a render. It returns immediately; the render runs on a
// background goroutine.
func (c *Coalescer) Request() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.pending = true
		return
	}
	c.running = true
	go c.loop()
}

func (c *Coalescer) loop() {
	for {
		c.render()

		c.mu.Lock()
		if c.pending {
			c.pending = false
			c.mu.Unlock()
			continue
		}
		c.running = false
		c.idle.Broadcast()
		c.mu.Unlock()
		return
	}
}

// Wait blocks until the coalescer is idle. Safe to call from any number of
// goroutines at any time, including concurrently with Request.
func (c *Coalescer) Wait() {
	c.mu.Lock()
	for c.running {
		c.idle.Wait()
	}
	c.mu.Unlock()
}
