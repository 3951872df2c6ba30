package application

import (
	"github.com/ahrav/go-multitool/internal/domain"
)

// processTool applies a single tool to props and returns the next bag.
//
// Arguments are read from InProps in declared order; missing keys read as
// nil. The hook's outputs are applied positionally to OutProps after
// CleanProps were removed. An output slot is skipped when its key is
// empty or its value is nil, so an uncleaned key keeps its prior value.
// Errors from the hook are returned as-is.
func processTool(props domain.Props, tool domain.Tool) (domain.Props, error) {
	args := make([]any, len(tool.InProps))
	for i, key := range tool.InProps {
		args[i], _ = props.Get(key)
	}

	var outValues []any
	if tool.Invoke != nil {
		out, err := tool.Invoke(args, tool.CustomParams)
		if err != nil {
			return props, err
		}
		outValues = out
	}

	updates := make(map[string]any, len(tool.OutProps))
	for i, key := range tool.OutProps {
		if key == "" || i >= len(outValues) || outValues[i] == nil {
			continue
		}
		updates[key] = outValues[i]
	}

	result := props.Omit(tool.CleanProps...)
	if len(updates) == 0 {
		return result, nil
	}
	return result.WithMultiple(updates), nil
}
