package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-multitool/internal/domain"
	"github.com/ahrav/go-multitool/internal/ports"
)

const gradingYAML = `
version: "1.0.0"
metadata:
  name: grading
  description: Grades a candidate answer.
tools:
  - name: normalize
    type: default
    priority: 20
    prop_aliases:
      value: candidate
    parameters:
      value: ""
  - name: similar
    type: fuzzy_match
    priority: 10
    parameters:
      threshold: 0.5
    out_props: [similarity, ""]
  - name: label
    type: template
    priority: 0
    in_props: [candidate, similarity]
    clean_props: [reference]
    out_props: [summary]
    parameters:
      template: '{{index .Args 0}} scored {{printf "%.2f" (index .Args 1)}}{{.Params.suffix}}'
    custom_params:
      suffix: "!"
    attributes:
      owner: grading-team
`

const gradingTOML = `
version = "1.0.0"

[metadata]
name = "grading"
description = "Grades a candidate answer."

[[tools]]
name = "normalize"
type = "default"
priority = 20
[tools.prop_aliases]
value = "candidate"
[tools.parameters]
value = ""

[[tools]]
name = "similar"
type = "fuzzy_match"
priority = 10
out_props = ["similarity", ""]
[tools.parameters]
threshold = 0.5

[[tools]]
name = "label"
type = "template"
in_props = ["candidate", "similarity"]
clean_props = ["reference"]
out_props = ["summary"]
[tools.parameters]
template = '{{index .Args 0}} scored {{printf "%.2f" (index .Args 1)}}{{.Params.suffix}}'
[tools.custom_params]
suffix = "!"
[tools.attributes]
owner = "grading-team"
`

func newTestLoader(t *testing.T, opts ...HookOption) *MultitoolLoader {
	t.Helper()
	loader, err := NewMultitoolLoader(NewDefaultToolRegistry(), opts...)
	require.NoError(t, err)
	return loader
}

func assertGrading(t *testing.T, hook *Hook) {
	t.Helper()

	assert.Equal(t, "grading", hook.DisplayName())

	tools := hook.Tools()
	require.Len(t, tools, 3)
	assert.Equal(t, "normalize", tools[0].Name)
	assert.Equal(t, []string{"candidate"}, tools[0].InProps)
	assert.Equal(t, "label", tools[2].Name)
	owner, ok := tools[2].Attribute("owner")
	assert.True(t, ok)
	assert.Equal(t, "grading-team", owner)

	out, err := hook.Invoke(context.Background(), domain.PropsFrom(map[string]any{
		"candidate": "kitten",
		"reference": "sitting",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"candidate", "similarity", "summary"}, out.Keys())
	summary, _ := out.Get("summary")
	assert.Equal(t, "kitten scored 0.57!", summary)
}

func TestMultitoolLoader_LoadFromReader(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		hook, err := newTestLoader(t).LoadFromReader(context.Background(), strings.NewReader(gradingYAML), FormatYAML)
		require.NoError(t, err)
		assertGrading(t, hook)
	})

	t.Run("toml", func(t *testing.T) {
		hook, err := newTestLoader(t).LoadFromReader(context.Background(), strings.NewReader(gradingTOML), FormatTOML)
		require.NoError(t, err)
		assertGrading(t, hook)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := newTestLoader(t).LoadFromReader(context.Background(), strings.NewReader(gradingYAML), "json")
		assert.ErrorIs(t, err, ports.ErrUnsupportedFormat)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newTestLoader(t).LoadFromReader(ctx, strings.NewReader(gradingYAML), FormatYAML)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMultitoolLoader_Errors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
		errIs  error
	}{
		{
			name:   "unknown field",
			yaml:   "version: 1.0.0\nmetadata: {name: x}\ntools: [{name: a, type: append, paramters: {value: A}}]",
			errMsg: "field paramters not found",
		},
		{
			name:   "bad version",
			yaml:   "version: one\nmetadata: {name: x}\ntools: [{name: a, type: append, parameters: {value: A}}]",
			errMsg: "semver",
		},
		{
			name:   "no tools",
			yaml:   "version: 1.0.0\nmetadata: {name: x}\ntools: []",
			errMsg: "Tools",
		},
		{
			name:   "missing metadata name",
			yaml:   "version: 1.0.0\nmetadata: {description: x}\ntools: [{name: a, type: append, parameters: {value: A}}]",
			errMsg: "Name",
		},
		{
			name:   "bad prop key",
			yaml:   "version: 1.0.0\nmetadata: {name: x}\ntools: [{name: a, type: append, in_props: ['has space'], parameters: {value: A}}]",
			errMsg: "propkey",
		},
		{
			name:   "bad tool name",
			yaml:   "version: 1.0.0\nmetadata: {name: x}\ntools: [{name: 'a b', type: append, parameters: {value: A}}]",
			errMsg: "toolname",
		},
		{
			name: "duplicate names",
			yaml: "version: 1.0.0\nmetadata: {name: x}\ntools:\n" +
				"  - {name: a, type: append, parameters: {value: A}}\n" +
				"  - {name: a, type: append, parameters: {value: B}}",
			errMsg: `duplicate tool name "a"`,
		},
		{
			name:  "unknown type",
			yaml:  "version: 1.0.0\nmetadata: {name: x}\ntools: [{name: a, type: llm_judge}]",
			errIs: domain.ErrUnknownToolType,
		},
		{
			name:   "bad parameters",
			yaml:   "version: 1.0.0\nmetadata: {name: x}\ntools: [{name: a, type: fuzzy_match, parameters: {threshold: 2}}]",
			errMsg: "threshold must be between 0 and 1",
		},
		{
			name:   "factory rejects parameters",
			yaml:   "version: 1.0.0\nmetadata: {name: x}\ntools: [{name: a, type: exact_match, parameters: {case: true}}]",
			errMsg: "failed to create tool a",
		},
		{
			name: "malformed template in custom params",
			yaml: "version: 1.0.0\nmetadata: {name: x}\ntools:\n" +
				"  - name: a\n    type: template\n    parameters: {template: '{{.Args}}'}\n" +
				"    custom_params: {template: '{{.Args'}",
			errMsg: "failed to parse template",
		},
		{
			name: "out of range threshold in custom params",
			yaml: "version: 1.0.0\nmetadata: {name: x}\ntools:\n" +
				"  - {name: a, type: fuzzy_match, parameters: {threshold: 0.5}, custom_params: {threshold: 3}}",
			errMsg: "custom_params: threshold must be between 0 and 1",
		},
		{
			name:   "arity mismatch after overrides",
			yaml:   "version: 1.0.0\nmetadata: {name: x}\ntools: [{name: a, type: exact_match, in_props: [only_one]}]",
			errMsg: "in_props has 1 keys, hook expects 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestLoader(t).LoadFromReader(context.Background(), strings.NewReader(tt.yaml), FormatYAML)
			require.Error(t, err)
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
		})
	}
}

func TestMultitoolLoader_UnknownTOMLField(t *testing.T) {
	src := "version = \"1.0.0\"\nunexpected = 1\n[metadata]\nname = \"x\"\n[[tools]]\nname = \"a\"\ntype = \"exact_match\"\n"
	_, err := newTestLoader(t).LoadFromReader(context.Background(), strings.NewReader(src), FormatTOML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fields unexpected")
}

func TestMultitoolLoader_LoadFromFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "grading.yml")
	tomlPath := filepath.Join(dir, "grading.toml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(gradingYAML), 0o600))
	require.NoError(t, os.WriteFile(tomlPath, []byte(gradingTOML), 0o600))

	loader := newTestLoader(t)

	hook, err := loader.LoadFromFile(context.Background(), yamlPath)
	require.NoError(t, err)
	assertGrading(t, hook)

	hook, err = loader.LoadFromFile(context.Background(), tomlPath)
	require.NoError(t, err)
	assertGrading(t, hook)

	_, err = loader.LoadFromFile(context.Background(), filepath.Join(dir, "grading.json"))
	assert.ErrorIs(t, err, ports.ErrUnsupportedFormat)

	_, err = loader.LoadFromFile(context.Background(), filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ports.ErrConfigNotFound)
	var cfgErr *ports.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestMultitoolLoader_Caching(t *testing.T) {
	loader := newTestLoader(t)
	ctx := context.Background()

	first, err := loader.LoadFromReader(ctx, strings.NewReader(gradingYAML), FormatYAML)
	require.NoError(t, err)

	// Formatting differences normalize to the same definition.
	reformatted := strings.ReplaceAll(gradingYAML, "priority: 10", "priority:    10")
	second, err := loader.LoadFromReader(ctx, strings.NewReader(reformatted), FormatYAML)
	require.NoError(t, err)
	assert.Same(t, first, second)

	changed := strings.ReplaceAll(gradingYAML, "priority: 10", "priority: 11")
	third, err := loader.LoadFromReader(ctx, strings.NewReader(changed), FormatYAML)
	require.NoError(t, err)
	assert.NotSame(t, first, third)

	loader.ClearCache()
	fourth, err := loader.LoadFromReader(ctx, strings.NewReader(gradingYAML), FormatYAML)
	require.NoError(t, err)
	assert.NotSame(t, first, fourth)
}

func TestMultitoolLoader_ConcurrentLoads(t *testing.T) {
	loader := newTestLoader(t)

	hooks := make([]*Hook, 16)
	var wg sync.WaitGroup
	for i := range hooks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hook, err := loader.LoadFromReader(context.Background(), strings.NewReader(gradingYAML), FormatYAML)
			assert.NoError(t, err)
			hooks[i] = hook
		}()
	}
	wg.Wait()

	for _, hook := range hooks[1:] {
		assert.Same(t, hooks[0], hook)
	}
}

func TestMultitoolLoader_AppliesHookOptions(t *testing.T) {
	rec := &stepRecorder{}
	loader := newTestLoader(t, WithObservers(rec))

	hook, err := loader.LoadFromReader(context.Background(), strings.NewReader(gradingYAML), FormatYAML)
	require.NoError(t, err)

	_, err = hook.Invoke(context.Background(), domain.PropsFrom(map[string]any{"candidate": "a", "reference": "a"}))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.events)
}

func TestMultitoolLoader_LoadConfig(t *testing.T) {
	loader := newTestLoader(t)

	cfg, err := loader.LoadConfig([]byte(gradingTOML), FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, "grading", cfg.Metadata.Name)
	require.Len(t, cfg.Tools, 3)
	assert.Equal(t, map[string]string{"value": "candidate"}, cfg.Tools[0].PropAliases)
	assert.Equal(t, []string{"similarity", ""}, cfg.Tools[1].OutProps)

	_, err = loader.LoadConfig([]byte("version: 1\n"), FormatYAML)
	assert.Error(t, err)
}

func TestNewMultitoolLoader_NilRegistry(t *testing.T) {
	_, err := NewMultitoolLoader(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.yaml": FormatYAML,
		"a.YML":  FormatYAML,
		"a.toml": FormatTOML,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := FormatFromPath("a.json")
	assert.ErrorIs(t, err, ports.ErrUnsupportedFormat)
}
