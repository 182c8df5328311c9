package prefs

import "sync"

type subscriber[T any] struct {
	fn      func(T)
	removed bool
}

// cell holds the current value for one key plus its subscriber list.
//
// Re-entrant mutation policy: a set issued while a notification pass is
// in progress (typically from inside a subscriber) is queued and applied
// as a full pass once the current one completes. Passes never
// interleave, and for a single key subscribers observe values in set
// order.
type cell[T any] struct {
	mu        sync.Mutex
	current   T
	subs      []*subscriber[T]
	notifying bool
	pending   []T

	// write persists the value for the owning key before subscribers
	// are notified. Failures are the writer's concern; the cell treats
	// the in-memory value as authoritative either way.
	write func(T)
}

func newCell[T any](initial T, write func(T)) *cell[T] {
	return &cell[T]{current: initial, write: write}
}

func (c *cell[T]) get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *cell[T]) set(value T) {
	c.mu.Lock()
	if c.notifying {
		c.pending = append(c.pending, value)
		c.mu.Unlock()
		return
	}
	c.notifying = true
	c.mu.Unlock()

	next := value
	for {
		c.mu.Lock()
		c.current = next
		snapshot := make([]*subscriber[T], len(c.subs))
		copy(snapshot, c.subs)
		c.mu.Unlock()

		if c.write != nil {
			c.write(next)
		}
		for _, sub := range snapshot {
			c.mu.Lock()
			dead := sub.removed
			c.mu.Unlock()
			if dead {
				continue
			}
			sub.fn(next)
		}

		c.mu.Lock()
		if len(c.pending) == 0 {
			c.notifying = false
			c.mu.Unlock()
			return
		}
		next = c.pending[0]
		c.pending = c.pending[1:]
		c.mu.Unlock()
	}
}

// subscribe registers fn, replays the current value to it once, and
// returns an idempotent removal handle.
func (c *cell[T]) subscribe(fn func(T)) Unsubscribe {
	if fn == nil {
		return func() {}
	}
	sub := &subscriber[T]{fn: fn}
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	current := c.current
	c.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			sub.removed = true
			for i, candidate := range c.subs {
				if candidate == sub {
					c.subs = append(c.subs[:i], c.subs[i+1:]...)
					break
				}
			}
			c.mu.Unlock()
		})
	}
}
