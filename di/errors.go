package di

import (
	"fmt"
	"strings"
)

// ErrBindingConflict is returned when a duplicate (type, name) is registered
// under the throw conflict policy, or when an append binding collides with
// an incompatible prior policy.
type ErrBindingConflict struct {
	Key    Key
	Reason string
}

func (e ErrBindingConflict) Error() string {
	return fmt.Sprintf("di: binding conflict for %s: %s", e.Key, e.Reason)
}

// ErrUnknownType is returned by Get, ProviderOf, and PhantomOf when no entry
// matches the requested key after alias resolution and scope-restriction
// filtering.
type ErrUnknownType struct {
	Key Key
}

func (e ErrUnknownType) Error() string {
	return fmt.Sprintf("di: no binding registered for %s", e.Key)
}

// ErrUnmetRequiredType is returned at Build time when a type asserted via
// Builder.RequireType was never bound.
type ErrUnmetRequiredType struct {
	Key Key
}

func (e ErrUnmetRequiredType) Error() string {
	return fmt.Sprintf("di: required type %s was never bound", e.Key)
}

// ErrCyclicDependency is returned by the activator when resolving an entry
// would re-enter an entry already being activated. Chain holds the
// activation path rendered as Key identifiers, in the exact order they were
// pushed, ending with the offending key repeated.
type ErrCyclicDependency struct {
	Chain []Key
}

func (e ErrCyclicDependency) Error() string {
	return fmt.Sprintf("di: cyclic dependency: %s", renderChain(e.Chain))
}

// renderChain renders a cyclic activation chain: for a 2-element chain,
// "T -> T"; for longer chains, bracket every appearance of the offending
// (repeated) key.
func renderChain(chain []Key) string {
	if len(chain) == 0 {
		return ""
	}
	if len(chain) == 2 {
		return fmt.Sprintf("%s -> %s", chain[0], chain[1])
	}
	offending := chain[len(chain)-1]
	parts := make([]string, len(chain))
	for i, k := range chain {
		if k == offending {
			parts[i] = "[" + k.String() + "]"
		} else {
			parts[i] = k.String()
		}
	}
	return strings.Join(parts, " -> ")
}

// ErrLifecycleMismatch is returned when a factory of a stricter lifecycle
// attempts to depend on an entry of a looser one.
type ErrLifecycleMismatch struct {
	Caller Key
	Callee Key
	From   Lifecycle
	To     Lifecycle
}

func (e ErrLifecycleMismatch) Error() string {
	return fmt.Sprintf("di: '%s' cannot depend on a '%s' (%s depends on %s)", e.From, e.To, e.Caller, e.Callee)
}

// ErrInvalidName is returned when a binding name fails validation.
type ErrInvalidName struct {
	Name   string
	Reason string
}

func (e ErrInvalidName) Error() string {
	return fmt.Sprintf("di: invalid name %q: %s", e.Name, e.Reason)
}

// ErrInvalidLifecycle is returned when a Lifecycle value outside the four
// declared constants is supplied to BindFactory.
type ErrInvalidLifecycle struct {
	Lifecycle Lifecycle
}

func (e ErrInvalidLifecycle) Error() string {
	return fmt.Sprintf("di: invalid lifecycle value %d", int(e.Lifecycle))
}

// ErrInvalidModuleName is returned when a module's Name is empty, or
// duplicates another module's name within the same build.
type ErrInvalidModuleName struct {
	Name   string
	Reason string
}

func (e ErrInvalidModuleName) Error() string {
	return fmt.Sprintf("di: invalid module name %q: %s", e.Name, e.Reason)
}

// ErrScopeClosed is returned by any operation attempted on a disposed or
// sealed scope (sealed only rejects child-scope creation; disposed rejects
// every resolution).
type ErrScopeClosed struct {
	ScopeID string
	Sealed  bool
	Reason  string
}

func (e ErrScopeClosed) Error() string {
	state := "disposed"
	if e.Sealed {
		state = "sealed"
	}
	return fmt.Sprintf("di: scope %q is %s: %s", e.ScopeID, state, e.Reason)
}

// ErrDynamicModuleNotLoaded is returned when resolving a type bound by a
// DynamicModule whose LoadAsync Future has not yet resolved.
type ErrDynamicModuleNotLoaded struct {
	Module string
	Key    Key
}

func (e ErrDynamicModuleNotLoaded) Error() string {
	return fmt.Sprintf("di: dynamic module %q is not loaded, cannot resolve %s", e.Module, e.Key)
}

// ErrAliasCycle is returned when introducing an alias would form a cycle in
// alias redirection.
type ErrAliasCycle struct {
	From Key
	To   Key
}

func (e ErrAliasCycle) Error() string {
	return fmt.Sprintf("di: alias from %s to %s would introduce a cycle", e.From, e.To)
}

// ErrUnresolvedAlias is returned at Build time when an alias's target was
// never bound by any entry.
type ErrUnresolvedAlias struct {
	From Key
	To   Key
}

func (e ErrUnresolvedAlias) Error() string {
	return fmt.Sprintf("di: alias from %s targets %s, which was never bound", e.From, e.To)
}

// ErrBuilderSealed is returned by any Builder mutation attempted after
// Build() has already been called.
type ErrBuilderSealed struct{}

func (e ErrBuilderSealed) Error() string {
	return "di: builder is sealed, Build() was already called"
}
