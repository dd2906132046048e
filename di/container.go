package di

// Container is the root Scope returned by Builder.Build — the sealed,
// fully-resolved entry point of a built dependency graph. It carries the
// full Scope surface (Get, Maybe, GetAll, ProviderOf, PhantomOf, OpenScope,
// Dispose) plus Types/HasType for enumeration.
type Container = *Scope

// New is a convenience constructor equivalent to NewBuilder(): it returns
// an empty, unsealed Builder; call Build on it to obtain the container.
func New() *Builder {
	return NewBuilder()
}
