// Package plugin defines the isolation unit the locator registers:
// an independently loaded plugin with its own class space.
package plugin

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Name is a validated plugin identifier. It doubles as the unit key in
// the locator, so two Plugin values with equal names are the same unit.
type Name struct {
	value string
}

// NewName creates a Name with strict validation. A valid name must:
// - be non-empty after trimming
// - contain only alphanumeric characters, underscores, and hyphens
// - be at most 64 characters long
func NewName(name string) (Name, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Name{}, fmt.Errorf("plugin name cannot be empty")
	}

	if len(name) > 64 {
		return Name{}, fmt.Errorf("plugin name too long (max 64 chars)")
	}

	if strings.ContainsAny(name, `/\`) {
		return Name{}, fmt.Errorf("plugin name cannot contain path separators")
	}

	if strings.Contains(name, "..") {
		return Name{}, fmt.Errorf("plugin name cannot contain parent directory references")
	}

	for _, ch := range name {
		if !isValidNameChar(ch) {
			return Name{}, fmt.Errorf("invalid plugin name %q: must contain only alphanumeric characters, underscores, and hyphens", name)
		}
	}

	return Name{value: name}, nil
}

func isValidNameChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '_' ||
		r == '-'
}

// MustNewName creates a Name or panics.
func MustNewName(name string) Name {
	n, err := NewName(name)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the string representation.
func (n Name) String() string {
	return n.value
}

// IsEmpty returns true if this is the zero value.
func (n Name) IsEmpty() bool {
	return n.value == ""
}

// Equals checks if two plugin names are equal.
func (n Name) Equals(other Name) bool {
	return n.value == other.value
}

// MarshalJSON implements json.Marshaler.
func (n Name) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Name) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid plugin name JSON: %w", err)
	}
	parsed, err := NewName(s)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
