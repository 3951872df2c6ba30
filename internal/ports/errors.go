package ports

import (
	"errors"
	"fmt"
)

// Errors raised by the layers around an invocation. Tool errors are
// never replaced by these.
var (
	// ErrRateLimited is wrapped when an invocation gave up waiting for a
	// rate limiter token.
	ErrRateLimited = errors.New("rate limited")

	// ErrConfigNotFound is wrapped when a multitool definition cannot be
	// found.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrUnsupportedFormat is wrapped when a definition file has an
	// extension the loader does not understand.
	ErrUnsupportedFormat = errors.New("unsupported definition format")
)

// MetricsError reports a failure to record or export a metric.
type MetricsError struct {
	// Metric names the metric family involved.
	Metric string
	// Operation is what was being done, such as "write".
	Operation string
	// Err is the cause.
	Err error
}

func (e *MetricsError) Error() string {
	return fmt.Sprintf("metrics error: operation=%s, metric=%s, err=%v", e.Operation, e.Metric, e.Err)
}

func (e *MetricsError) Unwrap() error { return e.Err }

// NewMetricsError wraps err with the metric and operation it concerns.
func NewMetricsError(metric, operation string, err error) *MetricsError {
	return &MetricsError{Metric: metric, Operation: operation, Err: err}
}

// ConfigError ties a definition failure to the file or key it came from.
type ConfigError struct {
	// ConfigKey is a file path or a dotted key inside a definition.
	ConfigKey string
	// Err is the cause.
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: key=%s, err=%v", e.ConfigKey, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError wraps err with the key it concerns.
func NewConfigError(key string, err error) *ConfigError {
	return &ConfigError{ConfigKey: key, Err: err}
}
