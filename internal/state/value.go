package state

import "sync"

// Value is the single-record counterpart of Collection, used for
// aggregates that are fetched whole and never spliced.
type Value[T any] struct {
	mu  sync.RWMutex
	t   tracker
	v   T
	has bool
}

// Begin enters Loading and returns the token the fetch must present.
func (v *Value[T]) Begin() Token {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.t.begin()
}

// Resolve stores val when tok is current.
func (v *Value[T]) Resolve(tok Token, val T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.t.currentLoad(tok) {
		return false
	}
	v.v = val
	v.has = true
	v.t.resolve()
	return true
}

// Fail enters Error when tok is current.
func (v *Value[T]) Fail(tok Token, err error) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.t.currentLoad(tok) {
		return false
	}
	v.t.fail(err)
	return true
}

// Adjust edits the loaded value in place. It is a no-op unless the value
// is Ready.
func (v *Value[T]) Adjust(fn func(*T)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.t.phase != PhaseReady || !v.has {
		return false
	}
	fn(&v.v)
	return true
}

// Deactivate invalidates every outstanding token.
func (v *Value[T]) Deactivate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.t.deactivate()
}

// Get returns the value, its phase and the last load error.
func (v *Value[T]) Get() (T, Phase, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.v, v.t.phase, v.t.err
}
