package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/ahrav/go-multitool/infrastructure/middleware"
	"github.com/ahrav/go-multitool/internal/application"
	"github.com/ahrav/go-multitool/internal/domain"
	"github.com/ahrav/go-multitool/internal/ports"
)

// stdinPath selects standard input for --props.
const stdinPath = "-"

var (
	errEmptyProps   = errors.New("props input is empty")
	errTrailingData = errors.New("unexpected data after the props value")
)

type runOptions struct {
	*rootOptions

	configPath  string
	propsPath   string
	rate        float64
	burst       int
	parallel    int
	timeout     time.Duration
	dumpMetrics bool
	pretty      bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply a multitool to one or more property bags",
		Long: `run loads the multitool definition given by --config and applies it to
the JSON read from --props. A JSON object is a single property bag and
prints a single object. A JSON array of objects is a batch: every bag
is invoked independently and the results print as an array in input
order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "multitool definition (.yaml, .yml or .toml)")
	f.StringVarP(&opts.propsPath, "props", "p", stdinPath, `JSON props file, or "-" for stdin`)
	f.Float64Var(&opts.rate, "rate", 0, "maximum invocations per second (0 disables limiting)")
	f.IntVar(&opts.burst, "burst", 1, "invocations allowed above --rate in a burst")
	f.IntVar(&opts.parallel, "parallel", 0, "maximum concurrent invocations for batch input (0 is unbounded)")
	f.DurationVar(&opts.timeout, "timeout", 0, "deadline for each invocation (0 disables it)")
	f.BoolVar(&opts.dumpMetrics, "metrics", false, "write Prometheus metrics to stderr after the run")
	f.BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func (o *runOptions) run(cmd *cobra.Command) error {
	logger, err := o.logger(cmd)
	if err != nil {
		return err
	}
	if o.burst < 1 {
		return fmt.Errorf("--burst must be at least 1, got %d", o.burst)
	}

	ctx := logger.WithContext(cmd.Context())

	reg := prometheus.NewRegistry()
	metrics := middleware.NewPrometheusMetrics(reg)

	hookOpts := []application.HookOption{
		application.WithMiddleware(
			middleware.LoggingMiddleware(logger),
			middleware.TracingMiddleware(nil),
			middleware.MetricsMiddleware(metrics),
			middleware.TimeoutMiddleware(o.timeout),
		),
		application.WithObservers(
			middleware.NewLoggingObserver(logger),
			middleware.NewTracingObserver(nil),
			middleware.NewMetricsObserver(metrics),
		),
	}
	if o.rate > 0 {
		hookOpts = append(hookOpts, application.WithMiddleware(
			middleware.RateLimitMiddleware(rate.Limit(o.rate), o.burst),
		))
	}

	loader, err := application.NewMultitoolLoader(application.NewDefaultToolRegistry(), hookOpts...)
	if err != nil {
		return err
	}
	hook, err := loader.LoadFromFile(ctx, o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", o.configPath, err)
	}

	raw, err := o.readProps(cmd.InOrStdin())
	if err != nil {
		return err
	}
	inputs, batch, err := decodeProps(raw)
	if err != nil {
		return err
	}

	logger.Debug().
		Str("config", o.configPath).
		Int("bags", len(inputs)).
		Bool("batch", batch).
		Msg("run_start")

	var result any
	if batch {
		outs, err := application.InvokeAll(ctx, hook, inputs, o.parallel)
		if err != nil {
			return err
		}
		bags := make([]map[string]any, len(outs))
		for i, out := range outs {
			bags[i] = out.ToMap()
		}
		result = bags
	} else {
		out, err := hook.Invoke(ctx, inputs[0])
		if err != nil {
			return err
		}
		result = out.ToMap()
	}

	if err := o.writeResult(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if o.dumpMetrics {
		return writeMetrics(cmd.ErrOrStderr(), reg, logger)
	}
	return nil
}

func (o *runOptions) readProps(stdin io.Reader) ([]byte, error) {
	if o.propsPath == stdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read props from stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(filepath.Clean(o.propsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read props file: %w", err)
	}
	return data, nil
}

// decodeProps accepts either a JSON object or a JSON array of objects.
// batch reports which one was given. Numbers are kept as json.Number so
// values no tool touches are written back exactly as they were read.
func decodeProps(data []byte) (inputs []domain.Props, batch bool, err error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, false, errEmptyProps
	}

	if data[0] == '[' {
		var bags []map[string]any
		if err := decodeJSON(data, &bags); err != nil {
			return nil, true, fmt.Errorf("failed to decode props batch: %w", err)
		}
		inputs = make([]domain.Props, len(bags))
		for i, bag := range bags {
			inputs[i] = domain.PropsFrom(bag)
		}
		return inputs, true, nil
	}

	var bag map[string]any
	if err := decodeJSON(data, &bag); err != nil {
		return nil, false, fmt.Errorf("failed to decode props: %w", err)
	}
	return []domain.Props{domain.PropsFrom(bag)}, false, nil
}

// decodeJSON decodes exactly one JSON value into dst.
func decodeJSON(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

func (o *runOptions) writeResult(w io.Writer, result any) error {
	enc := json.NewEncoder(w)
	if o.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// writeMetrics dumps every gathered family in the Prometheus text format.
func writeMetrics(w io.Writer, reg *prometheus.Registry, logger zerolog.Logger) error {
	families, err := reg.Gather()
	if err != nil {
		logger.Warn().Err(err).Msg("partial metrics gather")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return ports.NewMetricsError(mf.GetName(), "write", err)
		}
	}
	return nil
}
