package di

import (
	"fmt"
	"reflect"
	"strings"
)

// Key identifies a binding: a logical Type paired with an optional Name
// discriminator. Type may be any comparable value — a string, an int, a
// [reflect.Type], or a caller-defined symbol type. Bindings are stored and
// looked up by the key's stringified form (see id), so two keys whose Type
// and Name render to the same string identify the same binding.
type Key struct {
	Type any
	Name string
}

// TypeOf builds a Key from a generic type parameter, using its
// [reflect.Type] as the Type token. This is the key used by the typed sugar
// layer (Bind, Resolve, and friends).
func TypeOf[T any]() Key {
	var zero T
	t := reflect.TypeOf(&zero).Elem()
	return Key{Type: t}
}

// Named returns a copy of the key discriminated by name.
func (k Key) Named(name string) Key {
	k.Name = name
	return k
}

// id renders a stable identifier for (type, name): the stringified type,
// optionally suffixed with "$"+name.
func (k Key) id() string {
	var typeStr string
	switch t := k.Type.(type) {
	case reflect.Type:
		typeStr = t.String()
	case string:
		typeStr = t
	default:
		typeStr = fmt.Sprintf("%v", t)
	}
	if k.Name == "" {
		return typeStr
	}
	return typeStr + "$" + k.Name
}

// String renders the key for diagnostics — identical to id() but exported
// behavior is provided through fmt.Stringer so Keys print nicely in errors.
func (k Key) String() string {
	return k.id()
}

// validateName reports whether name is a valid binding discriminator: empty
// (no name) or a non-empty string with no leading/trailing whitespace.
func validateName(name string) error {
	if name == "" {
		return nil
	}
	if strings.TrimSpace(name) != name {
		return ErrInvalidName{Name: name, Reason: "must not have leading or trailing whitespace"}
	}
	return nil
}
