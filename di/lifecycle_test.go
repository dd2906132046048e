package di_test

import (
	"testing"

	"github.com/relaygraph/godi/di"
)

func TestLifecycleStringNames(t *testing.T) {
	cases := []struct {
		l    di.Lifecycle
		want string
	}{
		{di.Singleton, "singleton"},
		{di.Lazy, "lazy"},
		{di.Scope, "scope"},
		{di.Transient, "transient"},
	}
	for _, c := range cases {
		if got := c.l.String(); got != c.want {
			t.Errorf("Lifecycle(%d).String() = %q, want %q", c.l, got, c.want)
		}
	}
}

func TestLifecycleOrdering(t *testing.T) {
	if !(di.Singleton < di.Lazy && di.Lazy < di.Scope && di.Scope < di.Transient) {
		t.Error("expected Singleton < Lazy < Scope < Transient")
	}
}
