package domain

import (
	"maps"
	"slices"
)

// ToolOverrides lists tool fields to replace during customization.
// Nil fields keep the value of the tool being customized; Attributes
// merge key by key over the existing attributes.
type ToolOverrides struct {
	Name       *string
	Priority   *int
	InProps    []string
	CleanProps []string
	OutProps   []string
	Invoke     HookFunc
	Signature  *Signature
	Attributes map[string]any
}

// Customization describes how to derive a new tool from an existing one.
type Customization struct {
	// PropAliases maps an original prop key to the key to use instead.
	// Use it when a prop was renamed or collides with another tool's.
	PropAliases map[string]string
	// Config overrides tool fields such as Name or Priority.
	Config *ToolOverrides
	// CustomParams is merged over the tool's CustomParams. It is ignored
	// when the tool declares no CustomParams.
	CustomParams Params
}

// CustomizeTool renames props, applies overrides and merges custom
// parameters, returning a new tool. The original tool is never modified.
//
// Aliasing is pure key substitution. When renaming changes which props a
// hook sees, the caller must keep the number and order of InProps and
// OutProps consistent with what the hook reads and returns.
func CustomizeTool(tool Tool, c Customization) Tool {
	rename := func(props []string) []string {
		out := make([]string, len(props))
		for i, p := range props {
			if alias := c.PropAliases[p]; alias != "" {
				out[i] = alias
			} else {
				out[i] = p
			}
		}
		return out
	}

	result := tool
	result.InProps = rename(tool.InProps)
	result.CleanProps = rename(tool.CleanProps)
	result.OutProps = rename(tool.OutProps)
	result.Attributes = maps.Clone(tool.Attributes)
	if tool.Signature != nil {
		sig := *tool.Signature
		result.Signature = &sig
	}

	if cfg := c.Config; cfg != nil {
		if cfg.Name != nil {
			result.Name = *cfg.Name
		}
		if cfg.Priority != nil {
			result.Priority = *cfg.Priority
		}
		if cfg.InProps != nil {
			result.InProps = slices.Clone(cfg.InProps)
		}
		if cfg.CleanProps != nil {
			result.CleanProps = slices.Clone(cfg.CleanProps)
		}
		if cfg.OutProps != nil {
			result.OutProps = slices.Clone(cfg.OutProps)
		}
		if cfg.Invoke != nil {
			result.Invoke = cfg.Invoke
		}
		if cfg.Signature != nil {
			sig := *cfg.Signature
			result.Signature = &sig
		}
		if len(cfg.Attributes) > 0 {
			if result.Attributes == nil {
				result.Attributes = make(map[string]any, len(cfg.Attributes))
			}
			maps.Copy(result.Attributes, cfg.Attributes)
		}
	}

	if tool.CustomParams != nil && c.CustomParams != nil {
		merged := make(Params, len(tool.CustomParams)+len(c.CustomParams))
		maps.Copy(merged, tool.CustomParams)
		maps.Copy(merged, c.CustomParams)
		result.CustomParams = merged
	}

	return result
}

// CustomizePlugin is the plugin-named spelling of CustomizeTool.
func CustomizePlugin(plugin Plugin, c Customization) Plugin {
	return CustomizeTool(plugin, c)
}
