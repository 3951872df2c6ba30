package tools

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/ahrav/go-multitool/internal/domain"
)

// ExactMatchConfig controls string normalization during exact matching.
type ExactMatchConfig struct {
	// CaseSensitive disables Unicode case folding before comparison.
	CaseSensitive bool `yaml:"case_sensitive" json:"case_sensitive"`
	// TrimWhitespace strips leading and trailing whitespace before
	// comparison. Defaults to true.
	TrimWhitespace bool `yaml:"trim_whitespace" json:"trim_whitespace"`
}

// DefaultExactMatchConfig returns case-insensitive, whitespace-trimming matching.
func DefaultExactMatchConfig() ExactMatchConfig {
	return ExactMatchConfig{TrimWhitespace: true}
}

// NewExactMatchTool creates a tool comparing "candidate" with "reference"
// and writing the boolean result to "match".
func NewExactMatchTool(name string, params map[string]any) (domain.Tool, error) {
	cfg := DefaultExactMatchConfig()
	if err := decodeParams(params, &cfg, true); err != nil {
		return domain.Tool{}, err
	}
	return newTool(name, params, []string{"candidate", "reference"}, []string{"match"}, exactMatchHook)
}

func exactMatchHook(args []any, params domain.Params) ([]any, error) {
	cfg := DefaultExactMatchConfig()
	if err := decodeParams(params, &cfg, false); err != nil {
		return nil, err
	}

	candidate, err := toString(arg(args, 0))
	if err != nil {
		return nil, err
	}
	reference, err := toString(arg(args, 1))
	if err != nil {
		return nil, err
	}

	return []any{
		prepareString(candidate, cfg.CaseSensitive, cfg.TrimWhitespace) ==
			prepareString(reference, cfg.CaseSensitive, cfg.TrimWhitespace),
	}, nil
}

// FuzzyMatchConfig controls Levenshtein-based matching.
type FuzzyMatchConfig struct {
	// Algorithm selects the distance function. Only "levenshtein" is supported.
	Algorithm string `yaml:"algorithm" json:"algorithm" validate:"required,oneof=levenshtein"`
	// Threshold is the minimum similarity (0.0-1.0) reported as a match.
	Threshold float64 `yaml:"threshold" json:"threshold" validate:"min=0.0,max=1.0"`
	// CaseSensitive disables Unicode case folding before comparison.
	CaseSensitive bool `yaml:"case_sensitive" json:"case_sensitive"`
}

// DefaultFuzzyMatchConfig returns a FuzzyMatchConfig with sensible defaults.
func DefaultFuzzyMatchConfig() FuzzyMatchConfig {
	return FuzzyMatchConfig{
		Algorithm: "levenshtein",
		Threshold: 0.8,
	}
}

// NewFuzzyMatchTool creates a tool comparing "candidate" with
// "reference". It writes the raw similarity to "similarity" and whether
// it reached the threshold to "match".
func NewFuzzyMatchTool(name string, params map[string]any) (domain.Tool, error) {
	cfg := DefaultFuzzyMatchConfig()
	if err := decodeParams(params, &cfg, true); err != nil {
		return domain.Tool{}, err
	}
	return newTool(name, params,
		[]string{"candidate", "reference"}, []string{"similarity", "match"}, fuzzyMatchHook)
}

func fuzzyMatchHook(args []any, params domain.Params) ([]any, error) {
	cfg := DefaultFuzzyMatchConfig()
	if err := decodeParams(params, &cfg, false); err != nil {
		return nil, err
	}

	candidate, err := toString(arg(args, 0))
	if err != nil {
		return nil, err
	}
	reference, err := toString(arg(args, 1))
	if err != nil {
		return nil, err
	}

	similarity := Similarity(
		prepareString(candidate, cfg.CaseSensitive, false),
		prepareString(reference, cfg.CaseSensitive, false),
	)
	return []any{similarity, similarity >= cfg.Threshold}, nil
}

func prepareString(s string, caseSensitive, trim bool) string {
	if trim {
		s = strings.TrimSpace(s)
	}
	if !caseSensitive {
		// A Caser is stateful, so each call gets its own.
		s = cases.Fold().String(s)
	}
	return s
}

// Similarity returns 1 - distance/maxLen for the Levenshtein distance
// between s1 and s2, measured in runes. Two empty strings are identical.
func Similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(s1, s2)
	maxLen := max(utf8.RuneCountInString(s1), utf8.RuneCountInString(s2))
	if maxLen == 0 {
		return 1.0
	}

	return max(1.0-float64(distance)/float64(maxLen), 0)
}
