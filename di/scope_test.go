package di_test

import (
	"errors"
	"testing"

	"github.com/relaygraph/godi/di"
)

type counter struct{ n int }

func scopedCounterBuilder() *di.Builder {
	b := di.NewBuilder()
	n := 0
	b.BindFactory(di.TypeOf[*counter](), func(r di.Resolver, _ []string) (any, error) {
		n++
		return &counter{n: n}, nil
	}, di.WithLifecycle(di.Scope))
	return b
}

func TestDebugTypesIsSortedRegardlessOfBindOrder(t *testing.T) {
	b := di.NewBuilder()
	b.BindInstance(di.TypeOf[*counter]().Named("zebra"), &counter{})
	b.BindInstance(di.TypeOf[*counter]().Named("apple"), &counter{})

	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := c.DebugTypes()
	if len(got) != 2 || got[0] > got[1] {
		t.Errorf("expected two entries in sorted order, got %v", got)
	}
}

func TestScopeLifecycleSameInstanceWithinScope(t *testing.T) {
	c, err := scopedCounterBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	req, err := c.OpenScope("req-1")
	if err != nil {
		t.Fatalf("OpenScope: %v", err)
	}
	a, _ := di.Resolve[*counter](req)
	bb, _ := di.Resolve[*counter](req)
	if a != bb {
		t.Error("expected the same scope-lifecycle instance within one scope")
	}
}

func TestScopeLifecycleDiffersAcrossSiblingScopes(t *testing.T) {
	c, err := scopedCounterBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	req1, _ := c.OpenScope("req-1")
	req2, _ := c.OpenScope("req-2")
	a, _ := di.Resolve[*counter](req1)
	bb, _ := di.Resolve[*counter](req2)
	if a == bb {
		t.Error("expected distinct scope-lifecycle instances across sibling scopes")
	}
}

func TestOpenScopeReusesSameID(t *testing.T) {
	c, err := di.NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	first, _ := c.OpenScope("same")
	second, _ := c.OpenScope("same")
	if first != second {
		t.Error("expected OpenScope to return the existing child for a repeated id")
	}
}

func TestOpenScopeMintsIDWhenEmpty(t *testing.T) {
	c, err := di.NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s, err := c.OpenScope("")
	if err != nil {
		t.Fatalf("OpenScope: %v", err)
	}
	if s.ID() == "" {
		t.Error("expected a minted, non-empty scope id")
	}
}

func TestSealedScopeRejectsChildScopes(t *testing.T) {
	c, err := di.NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sealed, err := c.OpenScope("sealed", di.Sealed())
	if err != nil {
		t.Fatalf("OpenScope: %v", err)
	}
	if _, err := sealed.OpenScope("child"); err == nil {
		t.Error("expected opening a child of a sealed scope to fail")
	}
}

func TestIsolatedScopeNeverReusesAncestorInstance(t *testing.T) {
	c, err := scopedCounterBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	parent, _ := di.Resolve[*counter](c)
	isolated, err := c.OpenScope("iso", di.Isolated())
	if err != nil {
		t.Fatalf("OpenScope: %v", err)
	}
	child, _ := di.Resolve[*counter](isolated)
	if parent == child {
		t.Error("expected an isolated scope to materialize its own instance rather than reuse the root's")
	}
}

func TestDisposeIsIdempotentAndRejectsFurtherResolution(t *testing.T) {
	c, err := scopedCounterBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s, _ := c.OpenScope("temp")
	if err := s.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if err := s.Dispose(); err != nil {
		t.Fatalf("second Dispose should be a no-op, got %v", err)
	}
	if _, err := di.Resolve[*counter](s); err == nil {
		t.Error("expected resolution against a disposed scope to fail")
	}
}

func TestDisposeParentDisposesChildrenFirst(t *testing.T) {
	c, err := di.NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	child, _ := c.OpenScope("child")
	if err := c.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	_, err = child.Get(di.TypeOf[*counter]())
	var closed di.ErrScopeClosed
	if !errors.As(err, &closed) {
		t.Fatalf("expected the child scope to already be disposed once its parent is disposed, got %v", err)
	}
}

func TestMaybeReturnsNilForUnboundType(t *testing.T) {
	c, err := di.NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	v, err := c.Maybe(di.TypeOf[*counter]())
	if err != nil {
		t.Fatalf("Maybe: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil for an unbound type, got %v", v)
	}
}

func TestGetUnboundTypeReturnsErrUnknownType(t *testing.T) {
	c, err := di.NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, err = c.Get(di.TypeOf[*counter]())
	var unknown di.ErrUnknownType
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestProviderOfDefersAndRepeatsResolution(t *testing.T) {
	calls := 0
	b := di.NewBuilder()
	b.BindFactory(di.TypeOf[*counter](), func(r di.Resolver, _ []string) (any, error) {
		calls++
		return &counter{n: calls}, nil
	})
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no calls before the provider is invoked, got %d", calls)
	}
	provide, err := di.ProviderOfT[*counter](c)
	if err != nil {
		t.Fatalf("ProviderOfT: %v", err)
	}
	if _, err := provide(); err != nil {
		t.Fatalf("provide: %v", err)
	}
	if _, err := provide(); err != nil {
		t.Fatalf("provide: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected a transient provider to re-invoke the factory each call, calls=%d", calls)
	}
}

func TestScopeRestrictionHidesEntryOutsideItsScope(t *testing.T) {
	b := di.NewBuilder()
	b.BindInstance(di.TypeOf[*counter](), &counter{n: 1}, di.WithScopes("admin"))
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.HasType(di.TypeOf[*counter]()) {
		t.Error("expected a scope-restricted entry to be invisible from the root")
	}
	admin, _ := c.OpenScope("admin")
	if !admin.HasType(di.TypeOf[*counter]()) {
		t.Error("expected a scope-restricted entry to be visible from its named scope")
	}
}
