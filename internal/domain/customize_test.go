package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderTool() Tool {
	return Tool{
		Priority:   2000,
		Name:       "TestTool1",
		InProps:    []string{"orderProp", "prop1", "removableProp", "renamableProp"},
		CleanProps: []string{"removableProp"},
		OutProps:   []string{"orderProp", "tool1Result"},
		Invoke:     noopHook,
	}
}

func newParamTool() Tool {
	tool := newOrderTool()
	tool.Name = "TestTool2"
	tool.Priority = 1000
	tool.CustomParams = Params{
		"testCustomParam1": "test_customParam1",
		"testCustomParam2": "test_customParam2",
	}
	return tool
}

func ptr[T any](v T) *T { return &v }

func TestCustomizeTool_PropAliases(t *testing.T) {
	original := newOrderTool()

	got := CustomizeTool(original, Customization{
		PropAliases: map[string]string{
			"renamableProp": "__renamableProp__",
			"removableProp": "__removableProp__",
			"orderProp":     "__orderProp__",
			"dummyProp":     "dummyAlias",
		},
		Config: &ToolOverrides{
			Priority:   ptr(0),
			Name:       ptr("test_rename_tool"),
			Attributes: map[string]any{"dummy": "dummy_test"},
		},
		CustomParams: Params{"testCustomParam": "test_customParam"},
	})

	assert.Equal(t, []string{"__orderProp__", "prop1", "__removableProp__", "__renamableProp__"}, got.InProps)
	assert.Equal(t, []string{"__removableProp__"}, got.CleanProps)
	assert.Equal(t, []string{"__orderProp__", "tool1Result"}, got.OutProps)
	assert.Equal(t, "test_rename_tool", got.Name)
	assert.Equal(t, 0, got.Priority)
	assert.Equal(t, map[string]any{"dummy": "dummy_test"}, got.Attributes)
	assert.Nil(t, got.CustomParams, "custom params must stay nil when the tool declares none")
	assert.NotNil(t, got.Invoke)

	// Original is untouched.
	assert.Equal(t, newOrderTool().InProps, original.InProps)
	assert.Equal(t, newOrderTool().CleanProps, original.CleanProps)
	assert.Equal(t, newOrderTool().OutProps, original.OutProps)
	assert.Equal(t, 2000, original.Priority)
	assert.Equal(t, "TestTool1", original.Name)
	assert.Nil(t, original.Attributes)
}

func TestCustomizeTool_PreservesLengthAndPosition(t *testing.T) {
	tool := Tool{
		InProps:    []string{"a", "b", "a"},
		CleanProps: []string{"b"},
		OutProps:   []string{"", "b", "c"},
	}

	got := CustomizeTool(tool, Customization{PropAliases: map[string]string{"a": "x", "b": "y", "": "never"}})

	assert.Equal(t, []string{"x", "y", "x"}, got.InProps)
	assert.Equal(t, []string{"y"}, got.CleanProps)
	assert.Equal(t, []string{"never", "y", "c"}, got.OutProps)
}

func TestCustomizeTool_EmptyAliasKeepsKey(t *testing.T) {
	got := CustomizeTool(Tool{InProps: []string{"a"}}, Customization{
		PropAliases: map[string]string{"a": ""},
	})
	assert.Equal(t, []string{"a"}, got.InProps)
}

func TestCustomizeTool_NilListsBecomeEmpty(t *testing.T) {
	got := CustomizeTool(Tool{Name: "bare"}, Customization{})

	require.NotNil(t, got.InProps)
	require.NotNil(t, got.CleanProps)
	require.NotNil(t, got.OutProps)
	assert.Empty(t, got.InProps)
	assert.Empty(t, got.CleanProps)
	assert.Empty(t, got.OutProps)
}

func TestCustomizeTool_CustomParams(t *testing.T) {
	t.Run("merges over existing params", func(t *testing.T) {
		original := newParamTool()
		got := CustomizeTool(original, Customization{
			CustomParams: Params{
				"testCustomParam1": "test_customParam1_changed",
				"testCustomParam3": "test_customParam3_new",
			},
		})

		assert.Equal(t, Params{
			"testCustomParam1": "test_customParam1_changed",
			"testCustomParam2": "test_customParam2",
			"testCustomParam3": "test_customParam3_new",
		}, got.CustomParams)
		assert.Equal(t, "test_customParam1", original.CustomParams["testCustomParam1"],
			"merging must not modify the original params")
	})

	t.Run("keeps the same map without caller params", func(t *testing.T) {
		original := newParamTool()
		got := CustomizeTool(original, Customization{})

		got.CustomParams["probe"] = true
		assert.Equal(t, true, original.CustomParams["probe"],
			"unmerged params are passed through by reference")
	})

	t.Run("empty caller params still produce a copy", func(t *testing.T) {
		original := newParamTool()
		got := CustomizeTool(original, Customization{CustomParams: Params{}})

		got.CustomParams["probe"] = true
		assert.NotContains(t, original.CustomParams, "probe")
	})
}

func TestCustomizeTool_Overrides(t *testing.T) {
	marker := func(args []any, _ Params) ([]any, error) { return []any{"override"}, nil }
	original := Tool{
		Name:       "base",
		InProps:    []string{"a"},
		OutProps:   []string{"b"},
		Invoke:     noopHook,
		Attributes: map[string]any{"keep": 1, "replace": 1},
		Signature:  &Signature{In: 1, Out: 1},
	}

	got := CustomizeTool(original, Customization{
		PropAliases: map[string]string{"a": "alias"},
		Config: &ToolOverrides{
			InProps:    []string{"explicit"},
			CleanProps: []string{"gone"},
			OutProps:   []string{"out1", "out2"},
			Invoke:     marker,
			Signature:  &Signature{In: 1, Out: 2},
			Attributes: map[string]any{"replace": 2, "new": 3},
		},
	})

	assert.Equal(t, []string{"explicit"}, got.InProps, "config overrides win over aliasing")
	assert.Equal(t, []string{"gone"}, got.CleanProps)
	assert.Equal(t, []string{"out1", "out2"}, got.OutProps)
	assert.Equal(t, map[string]any{"keep": 1, "replace": 2, "new": 3}, got.Attributes)
	assert.Equal(t, map[string]any{"keep": 1, "replace": 1}, original.Attributes)
	assert.Equal(t, 2, got.Signature.Out)
	assert.Equal(t, 1, original.Signature.Out)
	assert.NoError(t, got.Validate())

	out, err := got.Invoke(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"override"}, out)
}

func TestCustomizePlugin(t *testing.T) {
	var plugin Plugin = newParamTool()
	got := CustomizePlugin(plugin, Customization{PropAliases: map[string]string{"prop1": "p1"}})

	assert.Equal(t, "p1", got.InProps[1])
	assert.Equal(t, plugin.CustomParams, got.CustomParams)
}
