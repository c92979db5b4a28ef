package rslock

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder observes acquisition-engine outcomes. Implementations must be
// safe for concurrent use: each engine calls it from its retry loop's
// goroutine, and concurrent Manager calls share one Recorder.
type Recorder interface {
	// ObserveAttempt is called once per engine attempt with the number of
	// stores that returned true, the quorum threshold, the elapsed fan-out
	// duration, and whether this attempt reached quorum.
	ObserveAttempt(successes, quorum int, elapsed time.Duration, reachedQuorum bool)

	// ObserveValidity is called once per successful acquire/extend with
	// the resulting validity window.
	ObserveValidity(validity time.Duration)

	// ObserveOutcome is called once per public Manager call (AcquireOnce,
	// Extend) with the terminal error, or nil on success.
	ObserveOutcome(op string, err error)
}

// noopRecorder is the default Recorder: every method is a no-op.
type noopRecorder struct{}

func (noopRecorder) ObserveAttempt(int, int, time.Duration, bool) {}
func (noopRecorder) ObserveValidity(time.Duration)                {}
func (noopRecorder) ObserveOutcome(string, error)                 {}

// PrometheusRecorder is a Recorder backed by client_golang metrics. Build
// one with NewPrometheusRecorder and register it, or pass a Registerer to
// have it register itself.
type PrometheusRecorder struct {
	attempts      *prometheus.CounterVec
	fanoutLatency prometheus.Histogram
	validity      prometheus.Histogram
	outcomes      *prometheus.CounterVec
}

// NewPrometheusRecorder builds a PrometheusRecorder and, if reg is
// non-nil, registers all of its collectors on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rslock",
			Name:      "attempts_total",
			Help:      "Acquisition engine attempts, labeled by whether quorum was reached.",
		}, []string{"quorum_reached"}),
		fanoutLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rslock",
			Name:      "fanout_seconds",
			Help:      "Wall-clock duration of one fan-out across all configured stores.",
			Buckets:   prometheus.DefBuckets,
		}),
		validity: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rslock",
			Name:      "validity_seconds",
			Help:      "Validity window assigned on successful acquire/extend.",
			Buckets:   prometheus.DefBuckets,
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rslock",
			Name:      "operations_total",
			Help:      "Terminal Manager operation outcomes, labeled by operation and error class.",
		}, []string{"op", "result"}),
	}
	if reg != nil {
		reg.MustRegister(r.attempts, r.fanoutLatency, r.validity, r.outcomes)
	}
	return r
}

func (r *PrometheusRecorder) ObserveAttempt(successes, quorum int, elapsed time.Duration, reachedQuorum bool) {
	label := "false"
	if reachedQuorum {
		label = "true"
	}
	r.attempts.WithLabelValues(label).Inc()
	r.fanoutLatency.Observe(elapsed.Seconds())
}

func (r *PrometheusRecorder) ObserveValidity(validity time.Duration) {
	r.validity.Observe(validity.Seconds())
}

func (r *PrometheusRecorder) ObserveOutcome(op string, err error) {
	result := "ok"
	if err != nil {
		result = errClass(err)
	}
	r.outcomes.WithLabelValues(op, result).Inc()
}

// errClass maps a public error to a short label for metrics cardinality
// control; unrecognized errors collapse to "error" rather than embedding
// arbitrary error text as a label value.
func errClass(err error) string {
	switch {
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrTTLExceeded):
		return "ttl_exceeded"
	case errors.Is(err, ErrTTLTooLarge):
		return "ttl_too_large"
	default:
		return "error"
	}
}
