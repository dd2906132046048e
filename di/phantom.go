package di

import "sync"

// PhantomOf checks key's existence now (strictly), then returns either the
// already-materialized real instance — if present at an owning scope, no
// proxy is created — or a transparent-forwarding placeholder that resolves
// and memoizes on first use.
//
// Go cannot synthesize a dynamic proxy that implements an arbitrary
// interface at runtime (a concrete type's method set is fixed at compile
// time), so godi requires the binding to carry a [PhantomAdapter] (via
// [WithPhantomAdapter]) that builds the forwarding value by hand. If no
// adapter was registered, PhantomOf degrades to eager resolution — logged
// at Debug, never silent — rather than failing outright, since the real
// instance is still a correct (if non-lazy) answer to "give me something
// that behaves like T".
func (s *Scope) PhantomOf(key Key) (any, error) {
	if s.isDisposed() {
		return nil, ErrScopeClosed{ScopeID: s.id, Reason: "cannot resolve from a disposed scope"}
	}
	entry := s.registrar.Find(key)
	if entry == nil || !entry.restrictedTo(s.id, s.path) {
		return nil, ErrUnknownType{Key: key}
	}

	if _, ok := s.phantomMaterialized(entry); ok {
		return s.resolveEntry(entry)
	}

	if adapter := entry.Adapter(); adapter != nil {
		var once sync.Once
		var result any
		var resultErr error
		resolve := func() (any, error) {
			once.Do(func() {
				result, resultErr = s.resolveEntry(entry)
			})
			return result, resultErr
		}
		return adapter(resolve), nil
	}

	s.logger.Debugw("di: phantomOf has no adapter registered, falling back to eager resolution", "key", key.String())
	return s.resolveEntry(entry)
}

// phantomMaterialized reports whether entry already has a realized value
// reachable from s without activating anything.
func (s *Scope) phantomMaterialized(entry *Entry) (any, bool) {
	if entry.IsInstance() {
		return entry.Instance(), true
	}
	switch entry.Lifecycle {
	case Singleton, Lazy:
		return s.root().storage.get(entry)
	case Scope:
		_, cached, hasCached := s.locateScopeInstance(entry)
		return cached, hasCached
	default:
		return nil, false
	}
}

// PhantomOf is the typed-sugar form of Scope.PhantomOf: it type-asserts the
// result to T, which must match either the adapter's forwarder type or T
// itself on the no-adapter eager-resolution fallback.
func PhantomOf[T any](s *Scope, key Key) (T, error) {
	var zero T
	v, err := s.PhantomOf(key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, ErrUnknownType{Key: key}
	}
	return typed, nil
}
