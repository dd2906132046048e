package di

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scope is a runtime node over a shared, sealed registrar and activator: it
// is both a resolver (Get/Maybe/GetAll/ProviderOf/PhantomOf) and a scope
// manager (OpenScope/Dispose). The root Scope returned by Builder.Build is
// also called the "container".
type Scope struct {
	id       string
	parent   *Scope
	path     []string
	sealed   bool
	isolated bool

	registrar  *registrar // shared, read-only across the whole tree
	activator  *activator // shared, single per container
	storage    *storage   // local to this scope
	middleware []Middleware
	logger     *zap.SugaredLogger

	mu       sync.Mutex
	children map[string]*Scope
	disposed atomic.Bool
}

var _ Resolver = (*Scope)(nil)

// scopeConfig collects ScopeOption values for OpenScope.
type scopeConfig struct {
	sealed   bool
	isolated bool
}

// ScopeOption configures a child scope opened with OpenScope.
type ScopeOption func(*scopeConfig)

// Sealed forbids the new scope from opening further child scopes.
func Sealed() ScopeOption { return func(c *scopeConfig) { c.sealed = true } }

// Isolated prevents the new scope from reusing an ancestor's scope-lifecycle
// instances; it always materializes its own.
func Isolated() ScopeOption { return func(c *scopeConfig) { c.isolated = true } }

// ID returns this scope's identifier ("" for the root).
func (s *Scope) ID() string { return s.id }

// Path returns the ordered ids of this scope's ancestors, excluding the
// root, with this scope's own id last.
func (s *Scope) Path() []string { return append([]string{}, s.path...) }

// IsRoot reports whether this is the root scope (the container).
func (s *Scope) IsRoot() bool { return s.parent == nil }

func (s *Scope) root() *Scope {
	r := s
	for r.parent != nil {
		r = r.parent
	}
	return r
}

func (s *Scope) isDisposed() bool { return s.disposed.Load() }

// Types returns every bound Key across the whole container, in
// registration order.
func (s *Scope) Types() []Key { return s.registrar.Types() }

// DebugTypes renders every bound Key as a sorted string slice, for logging
// and test snapshots where a stable order matters more than registration
// order.
func (s *Scope) DebugTypes() []string { return sortedKeyStrings(s.registrar.Types()) }

// Aliases returns every alias redirection registered across the whole
// container, from -> to.
func (s *Scope) Aliases() map[Key]Key { return s.registrar.Aliases() }

// HasType reports whether key (after alias resolution) has at least one
// entry visible from this scope.
func (s *Scope) HasType(key Key) bool {
	for _, e := range s.registrar.FindAll(key) {
		if e.restrictedTo(s.id, s.path) {
			return true
		}
	}
	return false
}

// Get resolves key strictly: ErrScopeClosed if this scope is disposed,
// ErrUnknownType if no visible entry matches.
func (s *Scope) Get(key Key) (any, error) {
	if s.isDisposed() {
		return nil, ErrScopeClosed{ScopeID: s.id, Reason: "cannot resolve from a disposed scope"}
	}
	entry := s.registrar.Find(key)
	if entry == nil {
		return nil, ErrUnknownType{Key: key}
	}
	return s.resolveEntry(entry)
}

// Maybe resolves key like Get, but returns (nil, nil) instead of
// ErrUnknownType when absent. Activation errors still propagate.
func (s *Scope) Maybe(key Key) (any, error) {
	if !s.isDisposed() {
		if entry := s.registrar.Find(key); entry == nil || !entry.restrictedTo(s.id, s.path) {
			return nil, nil
		}
	}
	return s.Get(key)
}

// GetAll resolves every entry bound for key, in registration order. Absent
// keys yield an empty (not nil) slice; scope-restricted entries invisible
// from this scope are silently skipped.
func (s *Scope) GetAll(key Key) ([]any, error) {
	if s.isDisposed() {
		return nil, ErrScopeClosed{ScopeID: s.id, Reason: "cannot resolve from a disposed scope"}
	}
	entries := s.registrar.FindAll(key)
	out := make([]any, 0, len(entries))
	for _, e := range entries {
		if !e.restrictedTo(s.id, s.path) {
			continue
		}
		v, err := s.resolveEntry(e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ProviderOf checks key's existence now (strictly) and returns a nullary
// function that re-runs normal resolution — including lifecycle
// memoization — on every call.
func (s *Scope) ProviderOf(key Key) (func() (any, error), error) {
	if s.isDisposed() {
		return nil, ErrScopeClosed{ScopeID: s.id, Reason: "cannot resolve from a disposed scope"}
	}
	entry := s.registrar.Find(key)
	if entry == nil || !entry.restrictedTo(s.id, s.path) {
		return nil, ErrUnknownType{Key: key}
	}
	return func() (any, error) {
		return s.resolveEntry(entry)
	}, nil
}

// OpenScope creates (or, if id was already opened, reuses) a child scope.
// An empty id mints a fresh one with google/uuid.
func (s *Scope) OpenScope(id string, opts ...ScopeOption) (*Scope, error) {
	if s.isDisposed() {
		return nil, ErrScopeClosed{ScopeID: s.id, Reason: "cannot open a child scope on a disposed scope"}
	}
	if s.sealed {
		return nil, ErrScopeClosed{ScopeID: s.id, Sealed: true, Reason: "cannot open a child scope on a sealed scope"}
	}

	var cfg scopeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	if existing, ok := s.children[id]; ok {
		s.mu.Unlock()
		return existing, nil
	}

	path := make([]string, len(s.path)+1)
	copy(path, s.path)
	path[len(path)-1] = id

	child := &Scope{
		id:         id,
		parent:     s,
		path:       path,
		sealed:     cfg.sealed,
		isolated:   cfg.isolated,
		registrar:  s.registrar,
		activator:  s.activator,
		storage:    newStorage(),
		middleware: s.middleware,
		logger:     s.logger,
		children:   make(map[string]*Scope),
	}
	s.children[id] = child
	s.mu.Unlock()

	for _, m := range s.middleware {
		if err := m.OnScopeOpen(child); err != nil {
			s.mu.Lock()
			delete(s.children, id)
			s.mu.Unlock()
			return nil, fmt.Errorf("di: middleware %q OnScopeOpen failed: %w", m.Name(), err)
		}
	}
	s.logger.Debugw("di: scope opened", "id", id, "isolated", cfg.isolated, "sealed", cfg.sealed)
	return child, nil
}

// Dispose disposes this scope's children first (recursively, deepest
// first), then clears this scope's own storage, notifies middleware, and
// marks the scope disposed. Disposing the root additionally clears
// singleton/lazy storage, since those instances are owned by the root.
// Dispose is idempotent.
func (s *Scope) Dispose() error {
	if s.isDisposed() {
		return nil
	}

	s.mu.Lock()
	children := make([]*Scope, 0, len(s.children))
	for _, c := range s.children {
		children = append(children, c)
	}
	s.mu.Unlock()

	for _, c := range children {
		if err := c.Dispose(); err != nil {
			return err
		}
	}

	s.storage.clear()

	for _, m := range s.middleware {
		if err := m.OnScopeDispose(s); err != nil {
			return err
		}
	}
	s.disposed.Store(true)

	if s.parent != nil {
		s.parent.mu.Lock()
		delete(s.parent.children, s.id)
		s.parent.mu.Unlock()
	}

	s.logger.Debugw("di: scope disposed", "id", s.id)
	return nil
}

// resolveEntry runs the single-entry resolution algorithm: instance
// entries return unchanged, singleton/lazy entries are memoized at the
// root, scope entries are memoized at the nearest matching ancestor (or
// locally if this scope is isolated), and transient entries are always
// freshly activated. The result is then threaded through every
// middleware's OnActivated, in registration order.
func (s *Scope) resolveEntry(entry *Entry) (any, error) {
	if !entry.restrictedTo(s.id, s.path) {
		return nil, ErrUnknownType{Key: entry.Key}
	}

	var value any
	var err error

	switch {
	case entry.IsInstance():
		value = entry.Instance()

	case entry.Lifecycle == Singleton || entry.Lifecycle == Lazy:
		root := s.root()
		if cached, ok := root.storage.get(entry); ok {
			value = cached
		} else {
			value, err = s.activator.Create(entry, root)
			if err != nil {
				return nil, err
			}
			root.storage.set(entry, value)
		}

	case entry.Lifecycle == Scope:
		target, cached, hasCached := s.locateScopeInstance(entry)
		if hasCached {
			value = cached
		} else {
			value, err = s.activator.Create(entry, target)
			if err != nil {
				return nil, err
			}
			target.storage.set(entry, value)
		}

	default: // Transient
		value, err = s.activator.Create(entry, s)
		if err != nil {
			return nil, err
		}
	}

	for _, m := range s.middleware {
		value, err = m.OnActivated(entry, value, s)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

// locateScopeInstance finds where a Scope-lifecycle entry's instance is (or
// should be) stored: an isolated scope always uses its own storage; a
// non-isolated scope walks its ancestor chain (closest first) looking for
// either a cached instance, or — absent one — the nearest ancestor whose id
// matches the entry's scope restriction, to use as the materialization
// target.
func (s *Scope) locateScopeInstance(entry *Entry) (target *Scope, cached any, hasCached bool) {
	restricted := len(entry.Scopes) > 0
	matches := func(sc *Scope) bool {
		if !restricted {
			return true
		}
		for _, id := range entry.Scopes {
			if sc.id == id {
				return true
			}
		}
		return false
	}

	if s.isolated {
		if v, ok := s.storage.get(entry); ok {
			return s, v, true
		}
		return s, nil, false
	}

	var nearest *Scope
	for cur := s; cur != nil; cur = cur.parent {
		if !matches(cur) {
			continue
		}
		if nearest == nil {
			nearest = cur
		}
		if v, ok := cur.storage.get(entry); ok {
			return cur, v, true
		}
	}
	if nearest == nil {
		nearest = s
	}
	return nearest, nil, false
}
