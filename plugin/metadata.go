package plugin

import (
	"fmt"
	"io/fs"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"

	"github.com/plugbind-dev/plugbind-host-sdk/classspace"
)

// MetadataFile is the name of the descriptor file at the root of an
// unpacked plugin tree.
const MetadataFile = "plugin.yaml"

// metadataDoc is the YAML shape of plugin.yaml.
type metadataDoc struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`
}

// FromFS builds a Plugin from an unpacked plugin tree: plugin.yaml at
// the root supplies name, version and description; the tree itself
// becomes the plugin's class space. A nil catalog falls back to the
// process-wide default.
func FromFS(fsys fs.FS, catalog *classspace.Catalog) (*Plugin, error) {
	data, err := fs.ReadFile(fsys, MetadataFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", MetadataFile, err)
	}

	var doc metadataDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", MetadataFile, err)
	}

	name, err := NewName(doc.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid plugin metadata: %w", err)
	}

	var version *semver.Version
	if doc.Version != "" {
		version, err = semver.NewVersion(doc.Version)
		if err != nil {
			return nil, fmt.Errorf("plugin %q: invalid version %q: %w", name, doc.Version, err)
		}
	}

	var opts []classspace.DirSpaceOption
	if catalog != nil {
		opts = append(opts, classspace.WithCatalog(catalog))
	}
	space := classspace.NewDirSpace(name.String(), fsys, opts...)

	return New(name, version, space, WithDescription(doc.Description))
}
