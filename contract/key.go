// Package contract defines the binding keys and type-level marker roles
// that the container and locator resolve against.
package contract

import (
	"fmt"
	"reflect"
)

// Key identifies a binding slot: a raw type plus a qualifier that
// discriminates between multiple bindings for the same type.
//
// A Key created without an explicit qualifier gets one synthesized from
// the raw type's fully-qualified name, so two qualifier-less keys for
// the same type always compare equal. Key is comparable and safe to use
// as a map key.
type Key struct {
	Type      reflect.Type
	Qualifier string
}

// NewKey creates a Key for t under the given qualifier.
// An empty qualifier is replaced by NameOf(t).
func NewKey(t reflect.Type, qualifier string) Key {
	if qualifier == "" {
		qualifier = NameOf(t)
	}
	return Key{Type: t, Qualifier: qualifier}
}

// KeyOf creates an unqualified Key for type T. Unqualified keys are
// lookup queries: they match a bound key of the same type under any
// qualifier (see Matches). Binding always canonicalizes through NewKey,
// so bound keys carry a qualifier.
func KeyOf[T any]() Key {
	return Key{Type: TypeOf[T]()}
}

// TypeOf returns the reflect.Type of T without requiring a value.
// For interface types this yields the interface type itself, not a
// concrete implementation.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool {
	return k.Type == nil && k.Qualifier == ""
}

// Equals reports whether two keys identify the same binding slot.
func (k Key) Equals(other Key) bool {
	return k == other
}

// Matches reports whether a bound key satisfies this key as a lookup
// query: the types must be identical, and the qualifiers must match
// unless this key is unqualified, in which case any qualifier matches.
func (k Key) Matches(bound Key) bool {
	if k.Type != bound.Type {
		return false
	}
	return k.Qualifier == "" || k.Qualifier == bound.Qualifier
}

// String returns a diagnostic representation like
// "pkg/path.Contract[qualifier]".
func (k Key) String() string {
	if k.Type == nil {
		return "<zero key>"
	}
	if k.Qualifier == "" {
		return NameOf(k.Type)
	}
	return fmt.Sprintf("%s[%s]", NameOf(k.Type), k.Qualifier)
}

// NameOf synthesizes the fully-qualified name of t: the import path of
// the defining package joined with the type name. Pointers are
// normalized to their element type so *Impl and Impl share one name.
// Unnamed types fall back to reflect's own notation.
func NameOf(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
