package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHook(args []any, _ Params) ([]any, error) { return args, nil }

func TestTool_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tool    Tool
		wantErr string
	}{
		{
			name: "valid tool without signature",
			tool: Tool{Name: "t", InProps: []string{"a"}, Invoke: noopHook},
		},
		{
			name: "valid tool with matching signature",
			tool: Tool{
				Name:      "t",
				InProps:   []string{"a", "b"},
				OutProps:  []string{"sum"},
				Invoke:    noopHook,
				Signature: &Signature{In: 2, Out: 1},
			},
		},
		{
			name:    "nil hook",
			tool:    Tool{Name: "broken"},
			wantErr: "validation error for tool broken: tool hook is nil",
		},
		{
			name: "in_props arity mismatch",
			tool: Tool{
				Name:      "sum",
				InProps:   []string{"a"},
				OutProps:  []string{"sum"},
				Invoke:    noopHook,
				Signature: &Signature{In: 2, Out: 1},
			},
			wantErr: "in_props has 1 keys, hook expects 2",
		},
		{
			name: "out_props arity mismatch",
			tool: Tool{
				InProps:   []string{"a", "b"},
				Invoke:    noopHook,
				Signature: &Signature{In: 2, Out: 1},
			},
			wantErr: "out_props has 0 keys, hook returns 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tool.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestTool_Clone(t *testing.T) {
	original := Tool{
		Name:         "t",
		InProps:      []string{"a"},
		CleanProps:   []string{"b"},
		OutProps:     []string{"c"},
		CustomParams: Params{"p": 1},
		Attributes:   map[string]any{"x": true},
		Signature:    &Signature{In: 1, Out: 1},
	}

	c := original.Clone()
	c.InProps[0] = "changed"
	c.CleanProps[0] = "changed"
	c.OutProps[0] = "changed"
	c.CustomParams["p"] = 2
	c.Attributes["x"] = false
	c.Signature.In = 9

	assert.Equal(t, []string{"a"}, original.InProps)
	assert.Equal(t, []string{"b"}, original.CleanProps)
	assert.Equal(t, []string{"c"}, original.OutProps)
	assert.Equal(t, 1, original.CustomParams["p"])
	assert.Equal(t, true, original.Attributes["x"])
	assert.Equal(t, 1, original.Signature.In)
}

func TestTool_Attribute(t *testing.T) {
	tool := Tool{Attributes: map[string]any{"dummy": "dummy_test"}}

	v, ok := tool.Attribute("dummy")
	assert.True(t, ok)
	assert.Equal(t, "dummy_test", v)

	_, ok = Tool{}.Attribute("dummy")
	assert.False(t, ok)
}
