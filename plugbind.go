// Package plugbind is the host-side capability registry: plugins
// declare extensions in their class space, the locator builds one
// isolated container per plugin, and callers look implementations up
// by contract type without knowing which plugin contributed them.
package plugbind

import (
	"fmt"

	"github.com/plugbind-dev/plugbind-host-sdk/contract"
	"github.com/plugbind-dev/plugbind-host-sdk/locator"
)

// KeyFor builds a contract key for type T. With an empty qualifier the
// key is an unqualified query matching bindings for T under any
// qualifier.
func KeyFor[T any](qualifier string) contract.Key {
	if qualifier == "" {
		return contract.KeyOf[T]()
	}
	return contract.NewKey(contract.TypeOf[T](), qualifier)
}

// Locate resolves the single best binding for type T through the
// locator. Ambiguity is tolerated (first registered wins); absence is
// an error the caller must handle.
func Locate[T any](l *locator.Locator) (T, error) {
	return LocateKey[T](l, KeyFor[T](""))
}

// LocateKey is Locate with an explicit key, for qualified lookups.
func LocateKey[T any](l *locator.Locator, key contract.Key) (T, error) {
	var zero T
	v, err := l.LocateOne(key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("binding for %s resolved to %T, want %T", key, v, zero)
	}
	return typed, nil
}

// Collect resolves every binding currently published for type T, in
// registration order. Entries that fail to resolve or that resolve to
// a different type are skipped.
func Collect[T any](l *locator.Locator) []T {
	var out []T
	for e := range l.LocateAll(KeyFor[T]("")) {
		v, err := e.Value()
		if err != nil {
			continue
		}
		if typed, ok := v.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}
