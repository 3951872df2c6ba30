package application

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-multitool/infrastructure/tools"
)

// maxPropKeyLength bounds property key length in definitions.
const maxPropKeyLength = 256

var (
	toolNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.\-]*$`)
	semverPattern   = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
)

// ValidateToolParameters performs the cheap per-type checks on a
// built-in tool's parameters before any tool is built, so a definition
// with several mistakes reports the first one without side effects.
// Unknown types are accepted; their factories validate on creation.
func ValidateToolParameters(toolType string, params map[string]any) error {
	switch toolType {
	case tools.TypeAppend:
		return requireString(params, "value")
	case tools.TypeDefault:
		if _, ok := params["value"]; !ok {
			return fmt.Errorf("default requires 'value' parameter")
		}
		return nil
	case tools.TypeTemplate:
		if err := requireString(params, "template"); err != nil {
			return err
		}
		return tools.CheckTemplate(params["template"].(string))
	case tools.TypeFuzzyMatch:
		return validateFuzzyMatchParams(params)
	case tools.TypeArithmeticMean, tools.TypeMaxPool, tools.TypeMedianPool:
		return validatePoolParams(params)
	default:
		return nil
	}
}

func requireString(params map[string]any, key string) error {
	v, ok := params[key]
	if !ok {
		return fmt.Errorf("requires '%s' parameter", key)
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%s must be a string", key)
	}
	if s == "" {
		return fmt.Errorf("%s cannot be empty", key)
	}
	return nil
}

// validateFuzzyMatchParams checks the optional threshold and algorithm.
func validateFuzzyMatchParams(params map[string]any) error {
	if threshold, ok := params["threshold"]; ok {
		v, ok := asFloat(threshold)
		if !ok {
			return fmt.Errorf("threshold must be a number")
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("threshold must be between 0 and 1")
		}
	}
	if algorithm, ok := params["algorithm"]; ok && algorithm != "levenshtein" {
		return fmt.Errorf("unsupported algorithm: %v", algorithm)
	}
	return nil
}

// validatePoolParams checks the optional min_score.
func validatePoolParams(params map[string]any) error {
	if minScore, ok := params["min_score"]; ok {
		if _, ok := asFloat(minScore); !ok {
			return fmt.Errorf("min_score must be a number")
		}
	}
	return nil
}

// asFloat accepts the numeric types YAML and TOML decoders produce.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// registerCustomValidators registers the definition-specific struct tag
// validators.
func registerCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return fmt.Errorf("failed to register semver validator: %w", err)
	}
	if err := v.RegisterValidation("toolname", validateToolName); err != nil {
		return fmt.Errorf("failed to register toolname validator: %w", err)
	}
	if err := v.RegisterValidation("propkey", validatePropKey); err != nil {
		return fmt.Errorf("failed to register propkey validator: %w", err)
	}
	return nil
}

// validateSemver accepts X.Y.Z where X, Y and Z are non-negative integers.
func validateSemver(fl validator.FieldLevel) bool {
	return semverPattern.MatchString(fl.Field().String())
}

func validateToolName(fl validator.FieldLevel) bool {
	return toolNamePattern.MatchString(fl.Field().String())
}

// validatePropKey accepts non-empty keys without whitespace or control
// characters.
func validatePropKey(fl validator.FieldLevel) bool {
	key := fl.Field().String()
	if key == "" || len(key) > maxPropKeyLength {
		return false
	}
	return !strings.ContainsFunc(key, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
}
