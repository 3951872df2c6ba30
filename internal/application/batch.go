package application

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-multitool/internal/domain"
	"github.com/ahrav/go-multitool/internal/ports"
)

// InvokeAll runs one independent invocation per input bag and returns
// the results in input order. At most limit invocations run at once;
// limit <= 0 means no bound. The first failure cancels the context
// handed to the remaining invocations and is returned wrapped with the
// index of the failing input.
func InvokeAll(
	ctx context.Context,
	invoker ports.Invoker,
	inputs []domain.Props,
	limit int,
) ([]domain.Props, error) {
	if len(inputs) == 0 {
		return []domain.Props{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	results := make([]domain.Props, len(inputs))
	for i, in := range inputs {
		g.Go(func() error {
			out, err := invoker.Invoke(gctx, in)
			if err != nil {
				return fmt.Errorf("invocation %d: %w", i, err)
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
