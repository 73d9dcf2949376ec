// Package keymutex serializes writers that touch the same record while
// letting unrelated keys proceed in parallel.
package keymutex

import "sync"

type Locker interface {
	// Lock blocks until key is free and returns the matching unlock.
	Lock(key string) (unlock func())
}

type entry struct {
	mu   sync.Mutex
	refs int
}

type keyMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() Locker {
	return &keyMutex{entries: make(map[string]*entry)}
}

func (k *keyMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			k.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(k.entries, key)
			}
			k.mu.Unlock()
		})
	}
}

// size is the number of keys currently held or waited on.
func (k *keyMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

type noop struct{}

// Noop keeps last-write-wins semantics.
func Noop() Locker { return noop{} }

func (noop) Lock(string) func() { return func() {} }
