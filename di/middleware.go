package di

// Middleware observes and extends the build/activation lifecycle. Every
// hook is optional; implementations should embed BaseMiddleware and
// override only the hooks they need, rather than implementing every method.
//
// Handlers run synchronously, in registration order; a hook that returns
// an error propagates to whichever call triggered the event.
type Middleware interface {
	// Name identifies the middleware, for diagnostics.
	Name() string

	// OnPreBuild runs once per Build(), before the registrar is frozen. It
	// may add further bindings, aliases, or modules through b.
	OnPreBuild(b *Builder) error

	// OnBuild runs once per Build(), after singletons are materialized and
	// the root scope exists.
	OnBuild(c *Scope) error

	// OnScopeOpen runs for every scope opened, including the root.
	OnScopeOpen(s *Scope) error

	// OnScopeDispose runs for every scope disposed, including the root,
	// after its storage has been cleared.
	OnScopeDispose(s *Scope) error

	// OnActivated runs after an entry resolves to value within s. The
	// returned value replaces value for the caller; middleware run in
	// registration order, each receiving the previous middleware's result.
	OnActivated(entry *Entry, value any, s *Scope) (any, error)

	// OnBind runs during builder-time registration, once per entry, in the
	// order entries are registered.
	OnBind(entry *Entry, b *Builder) error
}

// BaseMiddleware is a no-op implementation of every Middleware hook.
// Concrete middleware embeds it and overrides only what it needs.
type BaseMiddleware struct {
	MiddlewareName string
}

func (m BaseMiddleware) Name() string {
	if m.MiddlewareName == "" {
		return "unnamed"
	}
	return m.MiddlewareName
}

func (m BaseMiddleware) OnPreBuild(*Builder) error { return nil }
func (m BaseMiddleware) OnBuild(*Scope) error      { return nil }
func (m BaseMiddleware) OnScopeOpen(*Scope) error  { return nil }
func (m BaseMiddleware) OnScopeDispose(*Scope) error { return nil }
func (m BaseMiddleware) OnActivated(_ *Entry, value any, _ *Scope) (any, error) {
	return value, nil
}
func (m BaseMiddleware) OnBind(*Entry, *Builder) error { return nil }

var _ Middleware = BaseMiddleware{}
