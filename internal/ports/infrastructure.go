package ports

import (
	"time"
)

// MetricsCollector receives the measurements taken by the metrics
// middleware and step observer. Labels always carry "multitool"; step
// measurements add "tool", and counters add "status".
type MetricsCollector interface {
	// RecordLatency observes how long an operation took.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter adds value to a counter such as the invocation count.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge reports a gauge value, such as in-flight invocations.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram observes a value in a distribution, such as the
	// size of the returned bag.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
