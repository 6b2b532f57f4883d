// Package keylock provides a mutex per key so work on one battle is
// serialized while different battles proceed in parallel.
package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Locker hands out per-key mutexes and forgets a key once nobody holds or
// waits on it.
type Locker struct {
	mu      sync.Mutex
	entries map[uint]*entry
}

func New() *Locker {
	return &Locker{entries: make(map[uint]*entry)}
}

// Lock blocks until the caller owns key and returns the matching unlock.
func (l *Locker) Lock(key uint) (unlock func()) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}

// Len reports how many keys are currently held or awaited.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
