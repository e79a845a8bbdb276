package state

import (
	"sync"
	"time"
)

// Keyed is implemented by entities with a server-assigned identifier.
type Keyed interface {
	Key() int64
}

// Snapshot is an immutable view of a Collection.
type Snapshot[T Keyed] struct {
	Phase       Phase
	Items       []T
	Err         error
	Search      string
	Submitting  bool
	Deleting    bool
	LastUpdated time.Time
}

// Collection is the view state of one screen resource: the last
// server-confirmed list, its load phase and the mutation guards. The zero
// value is ready to use.
type Collection[T Keyed] struct {
	mu     sync.RWMutex
	t      tracker
	items  []T
	search string
}

// Begin enters Loading and returns the token the fetch must present.
// Any earlier load still in flight becomes stale.
func (c *Collection[T]) Begin() Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t.begin()
}

// Resolve stores items and enters Ready. It reports false and changes
// nothing when tok is stale.
func (c *Collection[T]) Resolve(tok Token, items []T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.t.currentLoad(tok) {
		return false
	}
	c.items = clone(items)
	c.t.resolve()
	return true
}

// Fail enters Error with err. Previously loaded items are kept but not
// shown by callers. It reports false when tok is stale.
func (c *Collection[T]) Fail(tok Token, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.t.currentLoad(tok) {
		return false
	}
	c.t.fail(err)
	return true
}

// Deactivate invalidates every outstanding token and clears the guards.
// Late responses for a screen the user left are then discarded.
func (c *Collection[T]) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t.deactivate()
}

// StartMutation claims guard g. It returns false while a mutation of the
// same kind is in flight.
func (c *Collection[T]) StartMutation(g Guard) (Token, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t.startMutation(g)
}

// Settle releases the guard held by tok. It is called once per mutation
// whatever the outcome, including timeouts.
func (c *Collection[T]) Settle(tok Token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t.settle(tok)
}

// Busy reports whether a mutation of kind g is in flight.
func (c *Collection[T]) Busy(g Guard) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.t.busy(g)
}

// Insert appends a confirmed entity. An entity whose key is already
// present replaces it in place so keys stay unique.
func (c *Collection[T]) Insert(tok Token, item T) bool {
	return c.splice(tok, func() bool {
		if c.replace(item) {
			return true
		}
		c.items = append(c.items, item)
		return true
	})
}

// Prepend is Insert at the head of the list.
func (c *Collection[T]) Prepend(tok Token, item T) bool {
	return c.splice(tok, func() bool {
		if c.replace(item) {
			return true
		}
		c.items = append([]T{item}, c.items...)
		return true
	})
}

// Replace swaps the entity with the same key. The length never changes;
// an unknown key is a no-op.
func (c *Collection[T]) Replace(tok Token, item T) bool {
	return c.splice(tok, func() bool { return c.replace(item) })
}

// Remove drops exactly the entity with key id.
func (c *Collection[T]) Remove(tok Token, id int64) bool {
	return c.splice(tok, func() bool {
		for i, existing := range c.items {
			if existing.Key() == id {
				c.items = append(c.items[:i:i], c.items[i+1:]...)
				return true
			}
		}
		return false
	})
}

func (c *Collection[T]) splice(tok Token, apply func() bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.t.currentMutation(tok) || c.t.phase != PhaseReady {
		return false
	}
	if !apply() {
		return false
	}
	c.t.updated = time.Now()
	return true
}

func (c *Collection[T]) replace(item T) bool {
	for i, existing := range c.items {
		if existing.Key() == item.Key() {
			c.items[i] = item
			return true
		}
	}
	return false
}

// SetSearch records the local search string.
func (c *Collection[T]) SetSearch(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = s
}

// Search returns the local search string.
func (c *Collection[T]) Search() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.search
}

// Phase returns the current load phase.
func (c *Collection[T]) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.t.phase
}

// Visible returns the loaded items accepted by keep, in list order.
// It never triggers a fetch.
func (c *Collection[T]) Visible(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if keep == nil || keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Find returns the loaded entity with key id.
func (c *Collection[T]) Find(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.Key() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of loaded entities.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Snapshot returns a copy of the current state.
func (c *Collection[T]) Snapshot() Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot[T]{
		Phase:       c.t.phase,
		Items:       clone(c.items),
		Err:         c.t.err,
		Search:      c.search,
		Submitting:  c.t.busy(GuardSubmit),
		Deleting:    c.t.busy(GuardDelete),
		LastUpdated: c.t.updated,
	}
}

func clone[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
