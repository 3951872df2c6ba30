// Package tools provides the built-in tool types that can be referenced by
// name from a multitool definition.
package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-multitool/internal/domain"
)

// Input limits applied by the built-in hooks.
const (
	// MaxStringLength is the maximum allowed length for any string argument (10MB).
	MaxStringLength = 10 * 1024 * 1024
	// MaxScores is the maximum number of scores an aggregation accepts.
	MaxScores = 10000
)

// Common errors returned by built-in tools.
var (
	// ErrEmptyToolName is returned when a tool is created without a name.
	ErrEmptyToolName = errors.New("tool name cannot be empty")

	// ErrNoScores is returned when an aggregation receives no scores.
	ErrNoScores = errors.New("no scores provided for aggregation")

	// ErrInvalidScore is returned for NaN, infinite, or non-numeric scores.
	ErrInvalidScore = errors.New("invalid score")

	// ErrBelowMinScore is returned when the aggregate score is below the configured minimum.
	ErrBelowMinScore = errors.New("aggregate score below minimum threshold")

	// ErrStringTooLong is returned when a string argument exceeds MaxStringLength.
	ErrStringTooLong = errors.New("string argument too long")
)

// Package-level validator instance for parameter validation.
var validate = validator.New()

// decodeParams copies params into dst through a YAML round trip and
// validates the result. Strict decoding rejects unknown keys, which
// catches typos in configuration; hooks decode leniently because
// customization may add keys the tool does not read.
func decodeParams(params map[string]any, dst any, strict bool) error {
	if len(params) > 0 {
		raw, err := yaml.Marshal(params)
		if err != nil {
			return fmt.Errorf("failed to encode parameters: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(strict)
		if err := dec.Decode(dst); err != nil {
			return fmt.Errorf("failed to decode parameters (check for typos): %w", err)
		}
	}

	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}
	return nil
}

// newTool assembles a built-in tool. Params become the tool's
// CustomParams so that CustomizeTool can override them per use.
func newTool(
	name string,
	params map[string]any,
	in, out []string,
	hook domain.HookFunc,
) (domain.Tool, error) {
	if name == "" {
		return domain.Tool{}, ErrEmptyToolName
	}
	custom := domain.Params{}
	for k, v := range params {
		custom[k] = v
	}
	return domain.Tool{
		Name:         name,
		InProps:      in,
		OutProps:     out,
		Invoke:       hook,
		CustomParams: custom,
		Signature:    &domain.Signature{In: len(in), Out: len(out)},
	}, nil
}

// arg returns the i-th positional argument or nil when absent.
func arg(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}

// toString renders a hook argument as text. A nil argument is the empty
// string.
func toString(v any) (string, error) {
	var s string
	switch t := v.(type) {
	case nil:
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(t)
	}
	if len(s) > MaxStringLength {
		return "", fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrStringTooLong, len(s), MaxStringLength)
	}
	return s, nil
}

// toFloat converts a numeric hook argument to float64. json.Number is
// accepted for bags decoded with UseNumber.
func toFloat(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidScore, n.String())
		}
		f = parsed
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, fmt.Errorf("%w: %v (%T)", ErrInvalidScore, v, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidScore, f)
	}
	return f, nil
}

// toFloats converts a list argument of numbers to []float64.
func toFloats(v any) ([]float64, error) {
	var out []float64
	switch list := v.(type) {
	case nil:
	case []float64:
		out = make([]float64, 0, len(list))
		for _, f := range list {
			if _, err := toFloat(f); err != nil {
				return nil, err
			}
			out = append(out, f)
		}
	case []int:
		out = make([]float64, len(list))
		for i, n := range list {
			out[i] = float64(n)
		}
	case []any:
		out = make([]float64, len(list))
		for i, item := range list {
			f, err := toFloat(item)
			if err != nil {
				return nil, fmt.Errorf("score %d: %w", i, err)
			}
			out[i] = f
		}
	default:
		return nil, fmt.Errorf("%w: expected a list of numbers, got %T", ErrInvalidScore, v)
	}
	if len(out) == 0 {
		return nil, ErrNoScores
	}
	if len(out) > MaxScores {
		return nil, fmt.Errorf("too many scores: %d exceeds limit of %d", len(out), MaxScores)
	}
	return out, nil
}
