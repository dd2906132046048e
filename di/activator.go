package di

import "sync"

// activator invokes factories, detects cycles, and validates lifecycle
// compatibility. One activator is shared by every Scope in a container
// tree, since the activation stack is a single, container-wide resource.
type activator struct {
	mu    sync.Mutex
	stack []*Entry
}

func newActivator() *activator {
	return &activator{}
}

// Create invokes entry's factory (or returns its instance unchanged),
// maintaining the activation stack for cycle detection and validating that
// the caller's lifecycle is no stricter than entry's.
func (a *activator) Create(entry *Entry, scope *Scope) (any, error) {
	if entry.IsInstance() {
		return entry.Instance(), nil
	}

	a.mu.Lock()
	for _, onStack := range a.stack {
		if onStack == entry {
			chain := make([]*Entry, len(a.stack), len(a.stack)+1)
			copy(chain, a.stack)
			chain = append(chain, entry)
			a.stack = a.stack[:0]
			a.mu.Unlock()
			return nil, ErrCyclicDependency{Chain: entryKeys(chain)}
		}
	}

	var caller *Entry
	if n := len(a.stack); n > 0 {
		caller = a.stack[n-1]
	}
	if caller != nil && !compatibleLifecycle(caller.Lifecycle, entry.Lifecycle) {
		a.mu.Unlock()
		return nil, ErrLifecycleMismatch{
			Caller: caller.Key,
			Callee: entry.Key,
			From:   caller.Lifecycle,
			To:     entry.Lifecycle,
		}
	}

	a.stack = append(a.stack, entry)
	a.mu.Unlock()

	value, err := entry.InvokeFactory(scope, scope.path)

	a.mu.Lock()
	if n := len(a.stack); n > 0 && a.stack[n-1] == entry {
		a.stack = a.stack[:n-1]
	}
	a.mu.Unlock()

	return value, err
}

func entryKeys(entries []*Entry) []Key {
	keys := make([]Key, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}
