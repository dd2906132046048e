package di

// Resolver is the read surface a factory receives to pull its own
// dependencies. Scope implements Resolver, and the value a factory receives
// is the *Scope itself, so a factory may type-assert it to *Scope (as the
// typed helpers such as Resolve require).
type Resolver interface {
	Get(key Key) (any, error)
	Maybe(key Key) (any, error)
	GetAll(key Key) ([]any, error)
	ProviderOf(key Key) (func() (any, error), error)
	PhantomOf(key Key) (any, error)
}

// Factory produces a value given a Resolver bound to the scope the value is
// materialized in — the root for Singleton and Lazy entries, the owning
// scope for Scope entries, the requesting scope for Transient entries — and
// that scope's path (see Scope.Path).
type Factory func(r Resolver, scopeNest []string) (any, error)

// PhantomAdapter builds a forwarding value for Scope.PhantomOf. resolve
// performs the entry's normal single-entry resolution exactly once (memoized
// internally) and is safe to call lazily from inside the adapter's forwarded
// methods.
type PhantomAdapter func(resolve func() (any, error)) any

// Entry is one binding: a pre-built instance, or a factory with a lifecycle.
type Entry struct {
	Key       Key
	Module    string
	Scopes    []string
	Lifecycle Lifecycle

	instance   any
	isInstance bool
	factory    Factory
	adapter    PhantomAdapter
}

// IsInstance reports whether this entry wraps a pre-built instance.
func (e *Entry) IsInstance() bool { return e.isInstance }

// IsFactory reports whether this entry wraps a factory.
func (e *Entry) IsFactory() bool { return !e.isInstance }

// Instance returns the pre-built instance. Only valid when IsInstance.
func (e *Entry) Instance() any { return e.instance }

// InvokeFactory runs the entry's factory. Only valid when IsFactory.
func (e *Entry) InvokeFactory(r Resolver, scopeNest []string) (any, error) {
	return e.factory(r, scopeNest)
}

// Adapter returns the entry's registered PhantomAdapter, or nil if none was
// supplied via WithPhantomAdapter.
func (e *Entry) Adapter() PhantomAdapter { return e.adapter }

// restrictedTo reports whether this entry is visible from a scope whose id
// is id or whose ancestor path contains id. An entry with no Scopes
// restriction is visible everywhere.
func (e *Entry) restrictedTo(id string, path []string) bool {
	if len(e.Scopes) == 0 {
		return true
	}
	for _, s := range e.Scopes {
		if s == id {
			return true
		}
		for _, p := range path {
			if s == p {
				return true
			}
		}
	}
	return false
}

func newInstanceEntry(key Key, instance any, module string, scopes []string) *Entry {
	return &Entry{
		Key:        key,
		Module:     module,
		Scopes:     scopes,
		Lifecycle:  Transient,
		instance:   instance,
		isInstance: true,
	}
}

func newFactoryEntry(key Key, factory Factory, lifecycle Lifecycle, module string, scopes []string, adapter PhantomAdapter) *Entry {
	return &Entry{
		Key:       key,
		Module:    module,
		Scopes:    scopes,
		Lifecycle: lifecycle,
		factory:   factory,
		adapter:   adapter,
	}
}
