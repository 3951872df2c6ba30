package tools

import (
	"fmt"

	"github.com/ahrav/go-multitool/internal/domain"
)

// NewDefaultTool creates a tool that fills in a property when it is
// missing. It reads and writes "value" unless customized; params must
// carry the fallback under "value".
func NewDefaultTool(name string, params map[string]any) (domain.Tool, error) {
	if _, ok := params["value"]; !ok {
		return domain.Tool{}, fmt.Errorf("default: parameter %q is required", "value")
	}
	for k := range params {
		if k != "value" {
			return domain.Tool{}, fmt.Errorf("default: unknown parameter %q", k)
		}
	}
	return newTool(name, params, []string{"value"}, []string{"value"}, defaultHook)
}

func defaultHook(args []any, params domain.Params) ([]any, error) {
	if v := arg(args, 0); v != nil {
		return []any{v}, nil
	}
	return []any{params["value"]}, nil
}
