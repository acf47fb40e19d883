// Package validation validates decoded documents against JSON schemas
// generated from Go models.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator manages compiled JSON schemas keyed by document kind.
// Schemas are generated once from a Go model and reused for every
// Validate call. All methods are safe for concurrent use.
type Validator struct {
	mu        sync.RWMutex
	schemas   map[string]*santhosh.Schema
	reflector *jsonschema.Reflector
}

// NewValidator creates an empty validator.
func NewValidator() *Validator {
	r := new(jsonschema.Reflector)
	r.ExpandedStruct = true
	return &Validator{
		schemas:   make(map[string]*santhosh.Schema),
		reflector: r,
	}
}

// Register generates the schema for model and compiles it under kind.
// Registering the same kind twice is an error.
func (v *Validator) Register(kind string, model any) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, exists := v.schemas[kind]; exists {
		return fmt.Errorf("schema kind already registered: %s", kind)
	}

	generated := v.reflector.Reflect(model)
	raw, err := json.Marshal(generated)
	if err != nil {
		return fmt.Errorf("marshaling generated schema for %q: %w", kind, err)
	}

	compiler := santhosh.NewCompiler()
	url := kind + ".schema.json"
	if err := compiler.AddResource(url, strings.NewReader(string(raw))); err != nil {
		return fmt.Errorf("adding schema resource for %q: %w", kind, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return fmt.Errorf("compiling schema for %q: %w", kind, err)
	}

	v.schemas[kind] = schema
	return nil
}

// Validate checks a decoded document (maps, slices, scalars) against
// the schema registered under kind.
func (v *Validator) Validate(kind string, doc any) error {
	v.mu.RLock()
	schema, ok := v.schemas[kind]
	v.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no schema registered for kind: %s", kind)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("document does not match %q schema: %w", kind, err)
	}
	return nil
}

// Kinds returns the registered document kinds.
func (v *Validator) Kinds() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	kinds := make([]string, 0, len(v.schemas))
	for k := range v.schemas {
		kinds = append(kinds, k)
	}
	return kinds
}
