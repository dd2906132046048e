package di_test

import (
	"testing"

	"github.com/relaygraph/godi/di"
)

type genericsLogger interface {
	Log(msg string) string
}

type genericsConsoleLogger struct{ last string }

func (l *genericsConsoleLogger) Log(msg string) string {
	l.last = msg
	return msg
}

func TestBindAndResolveTypedSugar(t *testing.T) {
	b := di.NewBuilder()
	di.Bind[genericsLogger](b, func(r di.Resolver) (genericsLogger, error) {
		return &genericsConsoleLogger{}, nil
	})
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	l, err := di.Resolve[genericsLogger](c)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if l.Log("hi") != "hi" {
		t.Error("expected Log to echo its argument")
	}
}

func TestBindValueAndResolveNamed(t *testing.T) {
	b := di.NewBuilder()
	di.BindValue[string](b, "primary-dsn", di.WithName("dsn"))
	di.BindValue[string](b, "replica-dsn", di.WithName("dsn-replica"))

	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	primary, err := di.ResolveNamed[string](c, "dsn")
	if err != nil {
		t.Fatalf("ResolveNamed: %v", err)
	}
	if primary != "primary-dsn" {
		t.Errorf("expected %q, got %q", "primary-dsn", primary)
	}
}

func TestMustResolvePanicsWhenUnbound(t *testing.T) {
	c, err := di.NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected MustResolve to panic for an unbound type")
		}
	}()
	di.MustResolve[genericsLogger](c)
}

func TestMaybeResolveReturnsZeroValueWhenUnbound(t *testing.T) {
	c, err := di.NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	l, err := di.MaybeResolve[genericsLogger](c)
	if err != nil {
		t.Fatalf("MaybeResolve: %v", err)
	}
	if l != nil {
		t.Errorf("expected a nil zero value, got %v", l)
	}
}

func TestHasReflectsBoundState(t *testing.T) {
	b := di.NewBuilder()
	di.BindValue[genericsLogger](b, &genericsConsoleLogger{})
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !di.Has[genericsLogger](c) {
		t.Error("expected Has to report true for a bound type")
	}
	if di.Has[string](c) {
		t.Error("expected Has to report false for an unbound type")
	}
}
