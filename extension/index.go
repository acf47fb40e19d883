package extension

import (
	"context"
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/plugbind-dev/plugbind-host-sdk/classspace"
	"github.com/plugbind-dev/plugbind-host-sdk/validation"
)

// IndexDocument is the decoded shape of one extension index document.
type IndexDocument struct {
	Extensions []IndexEntry `yaml:"extensions" json:"extensions"`
}

// IndexEntry declares one extension in an index document.
type IndexEntry struct {
	// Kind is "type", "method" or "field".
	Kind string `yaml:"kind" json:"kind"`
	// Name is the fully-qualified type name for type entries.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// Owner and Member identify the factory for method/field entries.
	Owner  string `yaml:"owner,omitempty" json:"owner,omitempty"`
	Member string `yaml:"member,omitempty" json:"member,omitempty"`
	// Optional marks the extension's bind failures as expected.
	Optional bool `yaml:"optional,omitempty" json:"optional,omitempty"`
	// Requires constrains the host version (semver range).
	Requires string `yaml:"requires,omitempty" json:"requires,omitempty"`
	// Scope is "local" (default) or "global"; global entries are only
	// picked up by a host-wide scan.
	Scope string `yaml:"scope,omitempty" json:"scope,omitempty"`
}

// lookupName returns the catalog name the entry resolves through.
func (e IndexEntry) lookupName() string {
	if e.Kind == "type" {
		return e.Name
	}
	return e.Owner + "." + e.Member
}

// indexSchemaKind keys the index document schema in the validator.
const indexSchemaKind = "extension-index"

var (
	indexValidator     *validation.Validator
	indexValidatorOnce sync.Once
)

func defaultIndexValidator() *validation.Validator {
	indexValidatorOnce.Do(func() {
		indexValidator = validation.NewValidator()
		if err := indexValidator.Register(indexSchemaKind, &IndexDocument{}); err != nil {
			panic(fmt.Sprintf("extension: registering index schema: %v", err))
		}
	})
	return indexValidator
}

// ParseIndex decodes and schema-validates one raw index document.
func ParseIndex(data []byte, v *validation.Validator) (*IndexDocument, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("decoding index document: %w", err)
	}
	if err := v.Validate(indexSchemaKind, generic); err != nil {
		return nil, err
	}
	var doc IndexDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding index document: %w", err)
	}
	return &doc, nil
}

// IndexSource discovers extensions declared in a space's index
// documents, resolving entries against the space's catalog.
type IndexSource struct {
	space       classspace.Space
	global      bool
	hostVersion *semver.Version
	validator   *validation.Validator
}

// IndexSourceOption configures an IndexSource.
type IndexSourceOption func(*IndexSource)

// WithHostVersion sets the host version that entry "requires"
// constraints are evaluated against. Without it, constraints are not
// enforced.
func WithHostVersion(v *semver.Version) IndexSourceOption {
	return func(s *IndexSource) { s.hostVersion = v }
}

// WithValidator overrides the index document validator.
func WithValidator(v *validation.Validator) IndexSourceOption {
	return func(s *IndexSource) { s.validator = v }
}

// NewIndexSource creates a source scanning the given space. A global
// scan additionally picks up entries declared with scope "global".
func NewIndexSource(space classspace.Space, global bool, opts ...IndexSourceOption) *IndexSource {
	s := &IndexSource{
		space:     space,
		global:    global,
		validator: defaultIndexValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewIndexSourceFactory returns a SourceFactory producing IndexSources
// with the given options.
func NewIndexSourceFactory(opts ...IndexSourceOption) SourceFactory {
	return func(space classspace.Space, global bool) Source {
		return NewIndexSource(space, global, opts...)
	}
}

// Scan implements Source. Document-level failures (unreadable space,
// undecodable or schema-invalid documents) fail the scan; entry-level
// failures become broken descriptors that the registration module
// classifies individually.
func (s *IndexSource) Scan(ctx context.Context) ([]Descriptor, error) {
	docs, err := s.space.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning space %q: %w", s.space.Name(), err)
	}

	var out []Descriptor
	for _, raw := range docs {
		doc, err := ParseIndex(raw.Data, s.validator)
		if err != nil {
			return nil, fmt.Errorf("index document %q in space %q: %w", raw.Path, s.space.Name(), err)
		}
		for _, entry := range doc.Extensions {
			if entry.Scope == "global" && !s.global {
				continue
			}
			out = append(out, s.resolve(entry))
		}
	}
	return out, nil
}

// resolve turns one index entry into a descriptor, recording failures
// in the descriptor rather than aborting the scan.
func (s *IndexSource) resolve(entry IndexEntry) Descriptor {
	name := entry.lookupName()

	kind, err := parseKind(entry.Kind)
	if err != nil {
		return Broken(name, entry.Optional, err)
	}

	cat := s.space.Catalog()
	ce, ok := cat.Lookup(name)
	if !ok {
		return Broken(name, entry.Optional, fmt.Errorf("no catalog entry for %q", name))
	}
	if kind == KindType && ce.Kind != classspace.TypeEntry {
		return Broken(name, entry.Optional, fmt.Errorf("entry %q is not a type", name))
	}
	if kind != KindType && ce.Kind != classspace.ProviderEntry {
		return Broken(name, entry.Optional, fmt.Errorf("entry %q is not a factory member", name))
	}

	if entry.Requires != "" && s.hostVersion != nil {
		c, err := semver.NewConstraint(entry.Requires)
		if err != nil {
			return Broken(name, entry.Optional, fmt.Errorf("invalid version constraint %q: %w", entry.Requires, err))
		}
		if !c.Check(s.hostVersion) {
			return Broken(name, entry.Optional,
				fmt.Errorf("requires host %q, host is %s", entry.Requires, s.hostVersion))
		}
	}

	d := FromEntry(ce, entry.Optional)
	d.Kind = kind
	d.Requires = entry.Requires
	return d
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "type":
		return KindType, nil
	case "method":
		return KindMethod, nil
	case "field":
		return KindField, nil
	default:
		return 0, fmt.Errorf("unknown extension kind %q", s)
	}
}
