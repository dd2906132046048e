package di

// This file layers a typed, generic-parameterized surface over the
// string/any-keyed core: Bind/Resolve and friends are thin wrappers that
// derive a Key from a type parameter and type-assert the result.

// Bind registers a factory for T, deriving T's Key from its reflect.Type.
func Bind[T any](b *Builder, factory func(r Resolver) (T, error), opts ...BindOption) *Builder {
	key := TypeOf[T]()
	return b.BindFactory(key, func(r Resolver, _ []string) (any, error) {
		return factory(r)
	}, opts...)
}

// BindValue registers a pre-built instance for T.
func BindValue[T any](b *Builder, value T, opts ...BindOption) *Builder {
	return b.BindInstance(TypeOf[T](), value, opts...)
}

// Resolve strictly resolves T from s.
func Resolve[T any](s *Scope) (T, error) {
	return resolveTyped[T](s, TypeOf[T]())
}

// ResolveNamed strictly resolves the named binding of T from s.
func ResolveNamed[T any](s *Scope, name string) (T, error) {
	return resolveTyped[T](s, TypeOf[T]().Named(name))
}

func resolveTyped[T any](s *Scope, key Key) (T, error) {
	var zero T
	v, err := s.Get(key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, ErrUnknownType{Key: key}
	}
	return typed, nil
}

// MustResolve resolves T or panics.
func MustResolve[T any](s *Scope) T {
	v, err := Resolve[T](s)
	if err != nil {
		panic(err)
	}
	return v
}

// MaybeResolve resolves T, returning the zero value (not an error) when T
// is not bound. Activation errors still propagate.
func MaybeResolve[T any](s *Scope) (T, error) {
	var zero T
	v, err := s.Maybe(TypeOf[T]())
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, ErrUnknownType{Key: TypeOf[T]()}
	}
	return typed, nil
}

// ResolveAll resolves every binding of T, in registration order.
func ResolveAll[T any](s *Scope) ([]T, error) {
	key := TypeOf[T]()
	values, err := s.GetAll(key)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(values))
	for _, v := range values {
		typed, ok := v.(T)
		if !ok {
			return nil, ErrUnknownType{Key: key}
		}
		out = append(out, typed)
	}
	return out, nil
}

// ProviderOfT returns a typed, deferred view of T's resolution.
func ProviderOfT[T any](s *Scope) (func() (T, error), error) {
	key := TypeOf[T]()
	p, err := s.ProviderOf(key)
	if err != nil {
		return nil, err
	}
	return func() (T, error) {
		var zero T
		v, err := p()
		if err != nil {
			return zero, err
		}
		typed, ok := v.(T)
		if !ok {
			return zero, ErrUnknownType{Key: key}
		}
		return typed, nil
	}, nil
}

// Has reports whether T is bound in s.
func Has[T any](s *Scope) bool {
	return s.HasType(TypeOf[T]())
}
