package di

import "context"

// Binder is the module-local, write-only view a module's Build method uses
// to register bindings. It mirrors the subset of Builder used at bind time;
// every entry registered through it is tagged with the owning module's
// name.
type Binder interface {
	BindInstance(key Key, instance any, opts ...BindOption) Binder
	BindFactory(key Key, factory Factory, opts ...BindOption) Binder
	BindAlias(from, to Key, opts ...BindOption) Binder

	// Include registers a dependency module's bindings under this binder,
	// each entry tagged with the dependency module's name for provenance.
	// Visibility is not restricted: the dependency's bindings go into the
	// same container-wide table and are resolvable from anywhere, exactly
	// like those of a module the root Builder includes directly. The
	// dependency's name is not checked for emptiness or uniqueness.
	Include(module StaticModule) Binder

	// Err returns the first error encountered by this binder, if any.
	// Builder.Build surfaces it.
	Err() error
}

// StaticModule is a named unit of builder-time configuration.
type StaticModule interface {
	// Name is a non-empty, trimmed string unique within a build.
	Name() string
	// Build registers this module's bindings against b.
	Build(b Binder) error
}

// DynamicModule additionally owns an asynchronous loader. Factories it
// registers may only be invoked after LoadAsync's Future has resolved;
// resolving one earlier fails with ErrDynamicModuleNotLoaded.
type DynamicModule interface {
	StaticModule

	// LoadAsync starts (or returns the in-flight) load. Idempotent:
	// multiple calls return the same Future.
	LoadAsync(ctx context.Context) *Future

	// IsLoaded reports whether the load has completed successfully.
	IsLoaded() bool
}

// moduleFunc adapts a name and a build function into a StaticModule,
// mirroring the functional-options idiom the rest of this package uses for
// registration options.
type moduleFunc struct {
	name  string
	build func(b Binder) error
}

// NewModule builds a StaticModule from a name and a build function.
func NewModule(name string, build func(b Binder) error) StaticModule {
	return &moduleFunc{name: name, build: build}
}

func (m *moduleFunc) Name() string            { return m.name }
func (m *moduleFunc) Build(b Binder) error    { return m.build(b) }

// dynamicModuleFunc adapts a name, loader, and build function into a
// DynamicModule.
type dynamicModuleFunc struct {
	moduleFunc
	loader func(ctx context.Context) (any, error)
	future *Future
	loaded bool
}

// NewDynamicModule builds a DynamicModule from a name, an asynchronous
// loader, and a build function. The build function's factories are
// automatically gated behind the module's load state.
func NewDynamicModule(name string, loader func(ctx context.Context) (any, error), build func(b Binder) error) DynamicModule {
	return &dynamicModuleFunc{
		moduleFunc: moduleFunc{name: name, build: build},
		loader:     loader,
	}
}

func (m *dynamicModuleFunc) Build(b Binder) error {
	return m.moduleFunc.Build(&dynamicBinder{inner: b, module: m})
}

func (m *dynamicModuleFunc) LoadAsync(ctx context.Context) *Future {
	if m.future != nil {
		return m.future
	}
	m.future = NewFuture(ctx, func(ctx context.Context) (any, error) {
		v, err := m.loader(ctx)
		if err == nil {
			m.loaded = true
		}
		return v, err
	})
	return m.future
}

func (m *dynamicModuleFunc) IsLoaded() bool { return m.loaded }

// dynamicBinder wraps a Binder so every factory it installs is gated behind
// the owning DynamicModule's load state.
type dynamicBinder struct {
	inner  Binder
	module *dynamicModuleFunc
}

func (b *dynamicBinder) BindInstance(key Key, instance any, opts ...BindOption) Binder {
	b.inner.BindInstance(key, instance, opts...)
	return b
}

func (b *dynamicBinder) BindFactory(key Key, factory Factory, opts ...BindOption) Binder {
	module := b.module
	gated := func(r Resolver, path []string) (any, error) {
		if !module.IsLoaded() {
			return nil, ErrDynamicModuleNotLoaded{Module: module.Name(), Key: key}
		}
		return factory(r, path)
	}
	b.inner.BindFactory(key, gated, opts...)
	return b
}

func (b *dynamicBinder) BindAlias(from, to Key, opts ...BindOption) Binder {
	b.inner.BindAlias(from, to, opts...)
	return b
}

func (b *dynamicBinder) Include(module StaticModule) Binder {
	b.inner.Include(module)
	return b
}

func (b *dynamicBinder) Err() error { return b.inner.Err() }
