package tools

import "github.com/ahrav/go-multitool/internal/ports"

// Built-in tool type names.
const (
	TypeAppend         = "append"
	TypeDefault        = "default"
	TypeExactMatch     = "exact_match"
	TypeFuzzyMatch     = "fuzzy_match"
	TypeArithmeticMean = "arithmetic_mean"
	TypeMaxPool        = "max_pool"
	TypeMedianPool     = "median_pool"
	TypeTemplate       = "template"
)

// Builtins returns a fresh map of the built-in tool factories keyed by
// type name.
func Builtins() map[string]ports.ToolFactory {
	return map[string]ports.ToolFactory{
		TypeAppend:         NewAppendTool,
		TypeDefault:        NewDefaultTool,
		TypeExactMatch:     NewExactMatchTool,
		TypeFuzzyMatch:     NewFuzzyMatchTool,
		TypeArithmeticMean: NewArithmeticMeanTool,
		TypeMaxPool:        NewMaxPoolTool,
		TypeMedianPool:     NewMedianPoolTool,
		TypeTemplate:       NewTemplateTool,
	}
}
