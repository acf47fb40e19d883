package plugin

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/plugbind-dev/plugbind-host-sdk/classspace"
)

// Plugin is the aggregate root for one isolation unit: a named,
// versioned code unit with its own class space. It owns exactly one
// container once registered with the locator.
type Plugin struct {
	name        Name
	version     *semver.Version
	space       classspace.Space
	description string
}

// PluginOption configures a Plugin.
type PluginOption func(*Plugin)

// WithDescription attaches a human-readable description.
func WithDescription(d string) PluginOption {
	return func(p *Plugin) { p.description = d }
}

// New creates a plugin entity. The space is the scan root extension
// discovery runs against when the plugin is registered.
func New(name Name, version *semver.Version, space classspace.Space, opts ...PluginOption) (*Plugin, error) {
	if name.IsEmpty() {
		return nil, fmt.Errorf("plugin name is required")
	}
	if space == nil {
		return nil, fmt.Errorf("plugin %q: class space is required", name)
	}
	p := &Plugin{name: name, version: version, space: space}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name returns the plugin's unique identifier.
func (p *Plugin) Name() Name {
	return p.name
}

// Version returns the plugin's version, or nil if unversioned.
func (p *Plugin) Version() *semver.Version {
	return p.version
}

// Space returns the plugin's class space.
func (p *Plugin) Space() classspace.Space {
	return p.space
}

// Description returns the plugin's description.
func (p *Plugin) Description() string {
	return p.description
}

// String returns "name@version" for diagnostics.
func (p *Plugin) String() string {
	if p.version == nil {
		return p.name.String()
	}
	return fmt.Sprintf("%s@%s", p.name, p.version)
}
