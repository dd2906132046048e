package di

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// bindConfig accumulates BindOption values for one registration.
type bindConfig struct {
	name      string
	scopes    []string
	conflict  ConflictPolicy
	lifecycle Lifecycle
	adapter   PhantomAdapter
	hasLC     bool
}

// BindOption configures a single BindInstance/BindFactory/BindAlias call.
type BindOption func(*bindConfig)

// WithName discriminates a binding among others of the same type.
func WithName(name string) BindOption {
	return func(c *bindConfig) { c.name = name }
}

// WithScopes restricts a binding to the named scopes (or their descendants).
func WithScopes(ids ...string) BindOption {
	return func(c *bindConfig) { c.scopes = append(c.scopes, ids...) }
}

// WithConflict overrides the builder's default conflict policy for this
// binding.
func WithConflict(policy ConflictPolicy) BindOption {
	return func(c *bindConfig) { c.conflict = policy }
}

// WithLifecycle sets a factory binding's lifecycle, overriding the
// builder's default factory lifecycle.
func WithLifecycle(l Lifecycle) BindOption {
	return func(c *bindConfig) { c.lifecycle = l; c.hasLC = true }
}

// WithPhantomAdapter registers a forwarding adapter used by Scope.PhantomOf
// to build a lazy proxy value by hand, since Go cannot synthesize one.
func WithPhantomAdapter(adapter PhantomAdapter) BindOption {
	return func(c *bindConfig) { c.adapter = adapter }
}

// Builder is the sole mutable face of the system: it accumulates pending
// bindings, aliases, modules, and middleware, then seals everything into an
// immutable Scope via Build.
type Builder struct {
	registrar *registrar

	defaultConflict  ConflictPolicy
	defaultLifecycle Lifecycle

	middleware []Middleware
	required   []Key

	logger *zap.SugaredLogger

	sealed bool
	err    error

	publicModules map[string]bool
}

// NewBuilder creates an empty Builder with default conflict policy
// ConflictThrow and default factory lifecycle Transient, and a no-op
// (zap.NewNop) logger.
func NewBuilder() *Builder {
	return &Builder{
		registrar:        newRegistrar(),
		defaultConflict:  ConflictThrow,
		defaultLifecycle: Transient,
		logger:           zap.NewNop().Sugar(),
		publicModules:    make(map[string]bool),
	}
}

// WithLogger installs a structured logger used for build and activation
// diagnostics. Pass zap.NewNop().Sugar() (the default) to stay silent, or a
// real *zap.SugaredLogger to observe bind/build/activation events — the
// pattern the DI-domain examples in the retrieval pack (richinex-di-
// extended, goletan-di) use for their own containers.
func (b *Builder) WithLogger(logger *zap.SugaredLogger) *Builder {
	b.logger = logger
	return b
}

// WithDefaultConflict sets the conflict policy applied to bindings that do
// not specify WithConflict explicitly.
func (b *Builder) WithDefaultConflict(policy ConflictPolicy) *Builder {
	b.defaultConflict = policy
	return b
}

// WithDefaultLifecycle sets the lifecycle applied to factory bindings that
// do not specify WithLifecycle explicitly.
func (b *Builder) WithDefaultLifecycle(l Lifecycle) *Builder {
	b.defaultLifecycle = l
	return b
}

func (b *Builder) resolveConfig(opts []BindOption) bindConfig {
	c := bindConfig{conflict: b.defaultConflict, lifecycle: b.defaultLifecycle}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// BindInstance registers a pre-built instance for key.
func (b *Builder) BindInstance(key Key, instance any, opts ...BindOption) *Builder {
	return b.bindInstance(key, instance, "", opts)
}

func (b *Builder) bindInstance(key Key, instance any, module string, opts []BindOption) *Builder {
	if b.sealed {
		b.fail(ErrBuilderSealed{})
		return b
	}
	cfg := b.resolveConfig(opts)
	if cfg.name != "" {
		key = key.Named(cfg.name)
	}
	if err := validateName(key.Name); err != nil {
		b.fail(err)
		return b
	}
	entry := newInstanceEntry(key, instance, module, cfg.scopes)
	if cfg.adapter != nil {
		entry.adapter = cfg.adapter
	}
	if err := b.registrar.register(entry, cfg.conflict); err != nil {
		b.fail(err)
		return b
	}
	b.logger.Debugw("di: bound instance", "key", key.String(), "module", module)
	return b.runOnBind(entry)
}

// BindFactory registers a factory for key, invoked with the resolver and
// path of the scope the value is materialized in (see Factory).
func (b *Builder) BindFactory(key Key, factory Factory, opts ...BindOption) *Builder {
	return b.bindFactory(key, factory, "", opts)
}

func (b *Builder) bindFactory(key Key, factory Factory, module string, opts []BindOption) *Builder {
	if b.sealed {
		b.fail(ErrBuilderSealed{})
		return b
	}
	cfg := b.resolveConfig(opts)
	if cfg.name != "" {
		key = key.Named(cfg.name)
	}
	if err := validateName(key.Name); err != nil {
		b.fail(err)
		return b
	}
	if !cfg.lifecycle.valid() {
		b.fail(ErrInvalidLifecycle{Lifecycle: cfg.lifecycle})
		return b
	}
	entry := newFactoryEntry(key, factory, cfg.lifecycle, module, cfg.scopes, cfg.adapter)
	if err := b.registrar.register(entry, cfg.conflict); err != nil {
		b.fail(err)
		return b
	}
	b.logger.Debugw("di: bound factory", "key", key.String(), "lifecycle", cfg.lifecycle.String(), "module", module)
	return b.runOnBind(entry)
}

// BindAlias redirects (fromType,fromName) to (toType,toName); lookups of
// from transparently resolve to to.
func (b *Builder) BindAlias(from, to Key, opts ...BindOption) *Builder {
	if b.sealed {
		b.fail(ErrBuilderSealed{})
		return b
	}
	cfg := b.resolveConfig(opts)
	if err := b.registrar.registerAlias(from, to, cfg.conflict); err != nil {
		b.fail(err)
	}
	return b
}

func (b *Builder) runOnBind(entry *Entry) *Builder {
	for _, m := range b.middleware {
		if err := m.OnBind(entry, b); err != nil {
			b.fail(fmt.Errorf("di: middleware %q OnBind failed: %w", m.Name(), err))
			break
		}
	}
	return b
}

// Include registers module's bindings directly against the root builder,
// after checking that its name is non-empty and not already used by another
// module included through Builder.Include.
func (b *Builder) Include(module StaticModule) *Builder {
	if b.sealed {
		b.fail(ErrBuilderSealed{})
		return b
	}
	if err := validateModuleName(module.Name(), b.publicModules); err != nil {
		b.fail(err)
		return b
	}
	b.publicModules[module.Name()] = true
	binder := &rootBinder{builder: b, module: module.Name()}
	if err := module.Build(binder); err != nil {
		b.fail(fmt.Errorf("di: module %q failed to build: %w", module.Name(), err))
		return b
	}
	if err := binder.Err(); err != nil {
		b.fail(err)
	}
	return b
}

func validateModuleName(name string, existing map[string]bool) error {
	if name == "" {
		return ErrInvalidModuleName{Name: name, Reason: "module name must not be empty"}
	}
	if existing[name] {
		return ErrInvalidModuleName{Name: name, Reason: "module name already used in this build"}
	}
	return nil
}

// Use registers middleware, in the order it will observe build and
// activation events.
func (b *Builder) Use(m Middleware) *Builder {
	if b.sealed {
		b.fail(ErrBuilderSealed{})
		return b
	}
	b.middleware = append(b.middleware, m)
	return b
}

// RequireType asserts that key must be bound by Build time; Build fails
// with ErrUnmetRequiredType otherwise.
func (b *Builder) RequireType(key Key) *Builder {
	b.required = append(b.required, key)
	return b
}

// Has reports whether key is currently bound.
func (b *Builder) Has(key Key) bool {
	return b.registrar.HasType(key)
}

// Find returns the first entry matching predicate, or nil.
func (b *Builder) Find(predicate func(*Entry) bool) *Entry {
	var found *Entry
	b.registrar.ForEach(func(e *Entry) {
		if found == nil && predicate(e) {
			found = e
		}
	})
	return found
}

// When invokes configure(b) only if condition is true at build time —
// useful for environment-conditional bindings.
func (b *Builder) When(condition bool, configure func(b *Builder)) *Builder {
	if condition {
		configure(b)
	}
	return b
}

// Build validates, freezes, and seals the accumulated configuration into a
// root Scope: it runs onPreBuild, freezes the registrar, checks required
// types, constructs the root scope, eagerly materializes every singleton
// entry in registration order, then runs onScopeOpen and onBuild.
func (b *Builder) Build() (*Scope, error) {
	if b.sealed {
		return nil, ErrBuilderSealed{}
	}
	if b.err != nil {
		return nil, b.err
	}

	// Step 1: onPreBuild, write-capable.
	for _, m := range b.middleware {
		if err := m.OnPreBuild(b); err != nil {
			return nil, fmt.Errorf("di: middleware %q OnPreBuild failed: %w", m.Name(), err)
		}
		if b.err != nil {
			return nil, b.err
		}
	}

	// Step 2: snapshot/freeze.
	b.sealed = true

	// Step 3: validate.
	for _, key := range b.required {
		if !b.registrar.HasType(key) {
			return nil, ErrUnmetRequiredType{Key: key}
		}
	}
	for from, to := range b.registrar.Aliases() {
		if !b.registrar.HasType(to) {
			return nil, ErrUnresolvedAlias{From: from, To: to}
		}
	}

	// Step 4: construct root scope.
	root := &Scope{
		id:         "",
		path:       nil,
		registrar:  b.registrar,
		activator:  newActivator(),
		storage:    newStorage(),
		middleware: append([]Middleware{}, b.middleware...),
		logger:     b.logger,
		children:   make(map[string]*Scope),
	}

	// Step 5: eagerly materialize singletons, in registration order.
	var matErr error
	b.registrar.ForEach(func(e *Entry) {
		if matErr != nil {
			return
		}
		if e.IsFactory() && e.Lifecycle == Singleton {
			if _, err := root.resolveEntry(e); err != nil {
				matErr = err
			}
		}
	})
	if matErr != nil {
		return nil, matErr
	}

	for _, m := range root.middleware {
		if err := m.OnScopeOpen(root); err != nil {
			return nil, fmt.Errorf("di: middleware %q OnScopeOpen failed: %w", m.Name(), err)
		}
	}

	// Step 6: onBuild.
	for _, m := range root.middleware {
		if err := m.OnBuild(root); err != nil {
			return nil, fmt.Errorf("di: middleware %q OnBuild failed: %w", m.Name(), err)
		}
	}

	b.logger.Debugw("di: container built", "types", len(b.registrar.Types()))

	// Step 7: return the container (root scope).
	return root, nil
}

// rootBinder implements Binder against the root Builder, tagging every
// entry it registers with the owning module's name.
type rootBinder struct {
	builder *Builder
	module  string
	err     error
}

func (r *rootBinder) BindInstance(key Key, instance any, opts ...BindOption) Binder {
	r.builder.bindInstance(key, instance, r.module, opts)
	return r
}

func (r *rootBinder) BindFactory(key Key, factory Factory, opts ...BindOption) Binder {
	r.builder.bindFactory(key, factory, r.module, opts)
	return r
}

func (r *rootBinder) BindAlias(from, to Key, opts ...BindOption) Binder {
	r.builder.BindAlias(from, to, opts...)
	return r
}

func (r *rootBinder) Include(module StaticModule) Binder {
	sub := &rootBinder{builder: r.builder, module: module.Name()}
	if err := module.Build(sub); err != nil {
		r.err = fmt.Errorf("di: module %q failed to build (included by %q): %w", module.Name(), r.module, err)
		return r
	}
	if err := sub.Err(); err != nil {
		r.err = err
	}
	return r
}

func (r *rootBinder) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.builder.err
}

// sortedKeyStrings renders a key set as a deterministically sorted string
// slice, for diagnostics (see Scope.DebugTypes) where a stable order matters
// more than registration order.
func sortedKeyStrings(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	sort.Strings(out)
	return out
}
