package application

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ahrav/go-multitool/internal/ports"
)

// Format identifies the encoding of a multitool definition.
type Format string

// Supported definition formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the definition format from a file extension.
// It returns an error wrapping ports.ErrUnsupportedFormat for anything
// other than .yaml, .yml or .toml.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ports.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// MultitoolConfig is the declarative definition of a multitool and the
// root of every YAML or TOML definition file.
type MultitoolConfig struct {
	// Version specifies the definition schema version using semantic
	// versioning.
	Version string `yaml:"version" toml:"version" validate:"required,semver"`
	// Metadata names and describes the multitool.
	Metadata Metadata `yaml:"metadata" toml:"metadata" validate:"required"`
	// Tools lists the tools to compose. Their order in the file only
	// matters between tools of equal priority.
	Tools []ToolSpec `yaml:"tools" toml:"tools" validate:"required,min=1,dive"`
}

// Metadata provides descriptive information about a multitool.
type Metadata struct {
	// Name becomes the multitool's display name.
	Name string `yaml:"name" toml:"name" validate:"required,min=1,max=255"`
	// Description explains the multitool's purpose.
	Description string `yaml:"description,omitempty" toml:"description" validate:"max=1000"`
	// Tags are categorical labels for grouping definitions.
	Tags []string `yaml:"tags,omitempty" toml:"tags" validate:"max=20,dive,min=1,max=50"`
	// Labels are arbitrary key-value pairs for external systems.
	Labels map[string]string `yaml:"labels,omitempty" toml:"labels" validate:"max=50"`
}

// ToolSpec declares one tool of a multitool. The tool is built by the
// registry factory for Type from Parameters, then customized with the
// remaining fields.
type ToolSpec struct {
	// Name identifies the tool and must be unique within the definition.
	Name string `yaml:"name" toml:"name" validate:"required,toolname,max=100"`
	// Type selects the registered tool factory.
	Type string `yaml:"type" toml:"type" validate:"required,toolname"`
	// Priority orders the tool; higher runs earlier.
	Priority int `yaml:"priority,omitempty" toml:"priority"`
	// InProps, when present, replaces the factory's input keys.
	InProps []string `yaml:"in_props,omitempty" toml:"in_props" validate:"omitempty,dive,propkey"`
	// CleanProps, when present, replaces the factory's cleaned keys.
	CleanProps []string `yaml:"clean_props,omitempty" toml:"clean_props" validate:"omitempty,dive,propkey"`
	// OutProps, when present, replaces the factory's output keys. An
	// empty entry skips that output slot.
	OutProps []string `yaml:"out_props,omitempty" toml:"out_props" validate:"omitempty,dive,omitempty,propkey"`
	// PropAliases renames the tool's props; an empty alias keeps the key.
	PropAliases map[string]string `yaml:"prop_aliases,omitempty" toml:"prop_aliases" validate:"omitempty,dive,keys,propkey,endkeys,omitempty,propkey"`
	// Parameters configure the factory.
	Parameters map[string]any `yaml:"parameters,omitempty" toml:"parameters"`
	// CustomParams are merged over the tool's parameters at call time.
	CustomParams map[string]any `yaml:"custom_params,omitempty" toml:"custom_params"`
	// Attributes are attached to the tool as ad hoc fields.
	Attributes map[string]any `yaml:"attributes,omitempty" toml:"attributes"`
}
