package ledger

import "sync"

// State is the lifecycle of a Collection.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
)

// Collection is the shared in-memory view of one entity kind. The backing
// store owns the durable copy; this cache is refreshed by re-querying after
// every successful mutation (refetch-on-write) and is never patched from a
// mutation's return value. A failed refresh keeps the last known good items
// and records the error instead.
type Collection[T any] struct {
	mu    sync.RWMutex
	state State
	items []T
	err   error
}

func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{}
}

// Initialize loads the collection once. Calling it again after a successful
// load is a no-op and performs no fetch.
func (c *Collection[T]) Initialize(fetch func() ([]T, error)) error {
	c.mu.Lock()
	if c.state == Ready {
		c.mu.Unlock()
		return nil
	}
	c.state = Loading
	c.mu.Unlock()

	return c.Refresh(fetch)
}

// Refresh re-queries the store. On failure the previous items stay in place.
func (c *Collection[T]) Refresh(fetch func() ([]T, error)) error {
	items, err := fetch()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.err = err
		if c.state == Loading && len(c.items) == 0 {
			c.state = Uninitialized
		}
		return err
	}
	c.items = items
	c.state = Ready
	c.err = nil
	return nil
}

// Items returns a copy of the cached entities.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Find returns the first cached entity matching the predicate.
func (c *Collection[T]) Find(match func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Merge replaces the cached entity matching the predicate, if present.
func (c *Collection[T]) Merge(match func(T) bool, item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if match(it) {
			c.items[i] = item
			return
		}
	}
}

func (c *Collection[T]) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Collection[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// SetErr records an operation error without touching the cached items.
func (c *Collection[T]) SetErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
