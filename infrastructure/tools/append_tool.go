package tools

import (
	"fmt"

	"github.com/ahrav/go-multitool/internal/domain"
)

// AppendConfig configures the append tool.
type AppendConfig struct {
	// Value is the string appended to the list.
	Value string `yaml:"value" json:"value" validate:"required"`
}

// NewAppendTool creates a tool that appends a marker value to a list
// property. It reads and writes "order" unless customized.
//
// The list is copied on every call; the input slice is never modified.
// A missing list starts a new []string. A []any list stays []any.
func NewAppendTool(name string, params map[string]any) (domain.Tool, error) {
	var cfg AppendConfig
	if err := decodeParams(params, &cfg, true); err != nil {
		return domain.Tool{}, err
	}
	return newTool(name, params, []string{"order"}, []string{"order"}, appendHook)
}

func appendHook(args []any, params domain.Params) ([]any, error) {
	var cfg AppendConfig
	if err := decodeParams(params, &cfg, false); err != nil {
		return nil, err
	}

	switch list := arg(args, 0).(type) {
	case nil:
		return []any{[]string{cfg.Value}}, nil
	case []string:
		next := make([]string, len(list), len(list)+1)
		copy(next, list)
		return []any{append(next, cfg.Value)}, nil
	case []any:
		next := make([]any, len(list), len(list)+1)
		copy(next, list)
		return []any{append(next, cfg.Value)}, nil
	default:
		return nil, fmt.Errorf("append: expected a list, got %T", list)
	}
}
