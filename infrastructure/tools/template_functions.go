package tools

import (
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FuncMap returns the functions available to template tools.
//
// Every function is stateless and returns a safe default instead of
// panicking, since a panic inside a hook aborts the whole invocation.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		// Template usage: {{add $i 1}}
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"mul": func(a, b int) int { return a * b },
		// div and mod return 0 for a zero divisor.
		"div": func(a, b int) int {
			if b == 0 {
				return 0
			}
			return a / b
		},
		"mod": func(a, b int) int {
			if b == 0 {
				return 0
			}
			return a % b
		},

		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"trim":      strings.TrimSpace,
		"title":     func(s string) string { return cases.Title(language.Und).String(s) },
		"replace":   strings.ReplaceAll,
		"split":     strings.Split,

		// truncate cuts s to length runes, ending in "..." when there is
		// room for it.
		// Template usage: {{truncate .Args.0 20}}
		"truncate": truncate,

		// join accepts []string or any other slice of values.
		// Template usage: {{join (index .Args 0) ", "}}
		"join": join,

		// float converts numbers, json.Number included, to float64.
		// Template usage: {{printf "%.2f" (float (index .Args 0))}}
		"float": toFloat,

		// default returns fallback when v is nil or the empty string.
		// Template usage: {{default "anonymous" (index .Args 0)}}
		"default": func(fallback, v any) any {
			if v == nil || v == "" {
				return fallback
			}
			return v
		},
	}
}

func truncate(s string, length int) string {
	if length <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	runes := []rune(s)
	if length > 3 {
		return string(runes[:length-3]) + "..."
	}
	return string(runes[:length])
}

func join(elems any, sep string) string {
	switch list := elems.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(list, sep)
	case []any:
		parts := make([]string, len(list))
		for i, e := range list {
			parts[i] = fmt.Sprint(e)
		}
		return strings.Join(parts, sep)
	default:
		return fmt.Sprint(list)
	}
}
