// Package di implements a sealed, middleware-extensible dependency injection
// container.
//
// # Features
//
//   - Declarative, immutable configuration built with a fluent [Builder]
//   - Named bindings, aliases, and ordered multi-bindings
//   - Four lifecycles: Singleton, Lazy, Scope, and Transient
//   - Cyclic dependency detection with a rendered activation chain
//   - Lifecycle-compatibility checks (a longer-lived entry may not capture a
//     shorter-lived one)
//   - A scope hierarchy with isolation and sealing
//   - Strict, optional, multi, lazy-provider, and phantom resolution
//   - A middleware pipeline observing bind/build/activate/scope events
//   - Static and dynamic (asynchronously loaded) modules
//
// # Basic usage
//
//	b := di.NewBuilder()
//	b.BindInstance(di.Key{Type: "value"}, 42)
//	b.BindFactory(di.Key{Type: "doubled"}, func(r di.Resolver, _ []string) (any, error) {
//	    v, err := r.Get(di.Key{Type: "value"})
//	    if err != nil {
//	        return nil, err
//	    }
//	    return v.(int) * 2, nil
//	}, di.WithLifecycle(di.Lazy))
//	c, err := b.Build()
//	doubled, err := c.Get(di.Key{Type: "doubled"}) // 84
//
// # Lifecycles
//
// Singleton and Lazy instances are owned by the root scope and live until
// root disposal; Singleton entries are materialized eagerly during Build,
// Lazy entries on first request. Scope instances are owned by the scope
// that resolved them and are released on that scope's disposal. Transient
// entries produce a fresh value on every resolution.
package di
