package booking

import (
	"fmt"
	"sync"
)

// keyLocks hands out one mutex per resource key so that check-then-write
// sequences against the same airplane or flight never interleave, while
// unrelated keys proceed in parallel. Entries are refcounted and dropped
// once the last holder releases.
type keyLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{entries: make(map[string]*lockEntry)}
}

// Lock blocks until the key's mutex is held and returns the release
// function. Callers must release on every code path.
func (kl *keyLocks) Lock(key string) func() {
	kl.mu.Lock()
	entry, ok := kl.entries[key]
	if !ok {
		entry = &lockEntry{}
		kl.entries[key] = entry
	}
	entry.refs++
	kl.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		kl.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(kl.entries, key)
		}
		kl.mu.Unlock()
	}
}

func airplaneKey(id uint) string {
	return fmt.Sprintf("airplane:%d", id)
}

func flightKey(id uint) string {
	return fmt.Sprintf("flight:%d", id)
}
