package tools

import (
	"fmt"
	"slices"

	"github.com/ahrav/go-multitool/internal/domain"
)

// AggregateConfig configures the score pooling tools.
type AggregateConfig struct {
	// MinScore, when set, fails the step if the aggregate falls below it.
	MinScore *float64 `yaml:"min_score" json:"min_score"`
}

// aggregator reduces a non-empty score list to one value.
type aggregator func(scores []float64) float64

// NewArithmeticMeanTool pools "scores" into their mean, written to "score".
func NewArithmeticMeanTool(name string, params map[string]any) (domain.Tool, error) {
	return newAggregateTool(name, params, "arithmetic_mean", mean)
}

// NewMaxPoolTool pools "scores" into their maximum, written to "score".
func NewMaxPoolTool(name string, params map[string]any) (domain.Tool, error) {
	return newAggregateTool(name, params, "max_pool", maxScore)
}

// NewMedianPoolTool pools "scores" into their median, written to "score".
func NewMedianPoolTool(name string, params map[string]any) (domain.Tool, error) {
	return newAggregateTool(name, params, "median_pool", median)
}

func newAggregateTool(name string, params map[string]any, kind string, agg aggregator) (domain.Tool, error) {
	var cfg AggregateConfig
	if err := decodeParams(params, &cfg, true); err != nil {
		return domain.Tool{}, err
	}

	hook := func(args []any, params domain.Params) ([]any, error) {
		var cfg AggregateConfig
		if err := decodeParams(params, &cfg, false); err != nil {
			return nil, err
		}

		scores, err := toFloats(arg(args, 0))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}

		score := agg(scores)
		if cfg.MinScore != nil && score < *cfg.MinScore {
			return nil, fmt.Errorf("%s: %w: %.4f < %.4f", kind, ErrBelowMinScore, score, *cfg.MinScore)
		}
		return []any{score}, nil
	}

	return newTool(name, params, []string{"scores"}, []string{"score"}, hook)
}

func mean(scores []float64) float64 {
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

func maxScore(scores []float64) float64 { return slices.Max(scores) }

// median sorts a copy; the caller's slice keeps its order.
func median(scores []float64) float64 {
	sorted := slices.Clone(scores)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
