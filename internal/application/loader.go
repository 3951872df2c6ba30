package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-multitool/internal/domain"
	"github.com/ahrav/go-multitool/internal/ports"
)

// MultitoolLoader turns declarative YAML or TOML multitool definitions
// into ready-to-invoke Hooks. Compiled hooks are cached by the SHA-256
// of the normalized definition, so loading the same definition twice,
// in either format, returns the same *Hook.
type MultitoolLoader struct {
	// validator performs struct tag validation including the custom
	// semver, toolname and propkey rules.
	validator *validator.Validate
	// registry builds tools by type.
	registry ports.ToolRegistry
	// hookOpts are applied to every compiled hook.
	hookOpts []HookOption
	// cache stores compiled hooks indexed by definition hash.
	cache map[string]*Hook
	// cacheMu guards cache.
	cacheMu sync.RWMutex
	// sf prevents duplicate compilation of the same definition by
	// concurrent callers.
	sf singleflight.Group
}

// NewMultitoolLoader creates a loader that builds tools through registry
// and applies opts to every hook it compiles.
func NewMultitoolLoader(registry ports.ToolRegistry, opts ...HookOption) (*MultitoolLoader, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: tool registry is nil", domain.ErrInvalidConfiguration)
	}

	v := validator.New()
	if err := registerCustomValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	return &MultitoolLoader{
		validator: v,
		registry:  registry,
		hookOpts:  opts,
		cache:     make(map[string]*Hook),
	}, nil
}

// LoadFromFile loads a definition, picking the format from the file
// extension. A missing file yields an error wrapping
// ports.ErrConfigNotFound.
func (l *MultitoolLoader) LoadFromFile(ctx context.Context, path string) (*Hook, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ports.NewConfigError(path, fmt.Errorf("%w: %w", ports.ErrConfigNotFound, err))
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return l.load(ctx, data, format)
}

// LoadFromReader loads a definition in the given format from r.
func (l *MultitoolLoader) LoadFromReader(ctx context.Context, r io.Reader, format Format) (*Hook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	return l.load(ctx, data, format)
}

// LoadConfig parses and validates a definition without building it.
func (l *MultitoolLoader) LoadConfig(data []byte, format Format) (*MultitoolConfig, error) {
	config, err := l.parse(data, format)
	if err != nil {
		return nil, err
	}
	if err := l.validateConfig(config); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return config, nil
}

func (l *MultitoolLoader) load(ctx context.Context, data []byte, format Format) (*Hook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	config, err := l.parse(data, format)
	if err != nil {
		return nil, err
	}

	// Hash the normalized config rather than the raw bytes.
	hash, err := calculateConfigHash(config)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}

	v, err, _ := l.sf.Do(hash, func() (any, error) {
		if hook, ok := l.getCachedHook(hash); ok {
			return hook, nil
		}

		if err := l.validateConfig(config); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}

		hook, err := l.build(config)
		if err != nil {
			return nil, fmt.Errorf("failed to build multitool: %w", err)
		}

		l.cacheHook(hash, hook)
		return hook, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Hook), nil
}

// parse decodes data strictly: unknown fields are errors in both formats.
func (l *MultitoolLoader) parse(data []byte, format Format) (*MultitoolConfig, error) {
	var config MultitoolConfig

	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("failed to parse TOML: unknown fields %s", strings.Join(keys, ", "))
		}
	default:
		return nil, fmt.Errorf("%w: %q", ports.ErrUnsupportedFormat, format)
	}

	return &config, nil
}

func (l *MultitoolLoader) validateConfig(config *MultitoolConfig) error {
	if err := l.validator.Struct(config); err != nil {
		return fmt.Errorf("struct validation failed: %w", err)
	}

	if err := l.validateSemantics(config); err != nil {
		return fmt.Errorf("semantic validation failed: %w", err)
	}

	return nil
}

// validateSemantics checks what struct tags cannot express: tool name
// uniqueness, registered types and per-type parameters.
func (l *MultitoolLoader) validateSemantics(config *MultitoolConfig) error {
	supported := l.registry.SupportedTypes()
	names := make(map[string]struct{}, len(config.Tools))

	for _, spec := range config.Tools {
		if _, exists := names[spec.Name]; exists {
			return fmt.Errorf("duplicate tool name %q", spec.Name)
		}
		names[spec.Name] = struct{}{}

		if !slices.Contains(supported, spec.Type) {
			return fmt.Errorf("tool %s: %w: %s", spec.Name, domain.ErrUnknownToolType, spec.Type)
		}

		if err := ValidateToolParameters(spec.Type, spec.Parameters); err != nil {
			return fmt.Errorf("tool %s parameter validation failed: %w", spec.Name, err)
		}
	}

	return nil
}

func (l *MultitoolLoader) build(config *MultitoolConfig) (*Hook, error) {
	built := make([]domain.Tool, 0, len(config.Tools))
	for _, spec := range config.Tools {
		tool, err := l.createTool(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to create tool %s: %w", spec.Name, err)
		}
		built = append(built, tool)
	}

	return CreateMultitoolHook(built, config.Metadata.Name, l.hookOpts...), nil
}

// createTool builds the factory tool and customizes it with the ToolSpec's
// aliases, overrides and custom params. Arity is checked after
// customization, since overrides may change the prop lists.
func (l *MultitoolLoader) createTool(spec ToolSpec) (domain.Tool, error) {
	base, err := l.registry.CreateTool(spec.Type, spec.Name, maps.Clone(spec.Parameters))
	if err != nil {
		return domain.Tool{}, err
	}

	priority := spec.Priority
	tool := domain.CustomizeTool(base, domain.Customization{
		PropAliases: spec.PropAliases,
		Config: &domain.ToolOverrides{
			Priority:   &priority,
			InProps:    spec.InProps,
			CleanProps: spec.CleanProps,
			OutProps:   spec.OutProps,
			Attributes: spec.Attributes,
		},
		CustomParams: spec.CustomParams,
	})

	// custom_params can replace a parameter the factory already checked.
	if len(spec.CustomParams) > 0 {
		if err := ValidateToolParameters(spec.Type, tool.CustomParams); err != nil {
			return domain.Tool{}, fmt.Errorf("custom_params: %w", err)
		}
	}

	if err := tool.Validate(); err != nil {
		return domain.Tool{}, err
	}
	return tool, nil
}

// calculateConfigHash hashes the YAML encoding of config, so that
// definitions differing only in whitespace, key order or source format
// share a cache entry.
func calculateConfigHash(config *MultitoolConfig) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(config); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}

	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:]), nil
}

func (l *MultitoolLoader) getCachedHook(hash string) (*Hook, bool) {
	l.cacheMu.RLock()
	defer l.cacheMu.RUnlock()

	hook, ok := l.cache[hash]
	return hook, ok
}

func (l *MultitoolLoader) cacheHook(hash string, hook *Hook) {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()

	l.cache[hash] = hook
}

// ClearCache drops every compiled hook, forcing the next load of any
// definition to rebuild it.
func (l *MultitoolLoader) ClearCache() {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()

	l.cache = make(map[string]*Hook)
}
