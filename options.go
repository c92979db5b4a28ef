package rslock

import (
	"io"
	"log/slog"
	"time"
)

// RetryPolicy bounds how many times the acquisition engine retries a
// failed attempt and how long it waits between attempts.
type RetryPolicy struct {
	// Count is the attempt cap, including the first attempt. Zero means
	// AcquireOnce fails ErrUnavailable immediately, without any fan-out.
	Count int

	// Delay is the base duration for randomized backoff: each retry
	// sleeps a uniformly random duration in [0, Delay). Zero means no
	// sleep between attempts.
	Delay time.Duration
}

// defaultRetryPolicy matches spec: 3 attempts, 200ms base delay.
func defaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Count: 3, Delay: 200 * time.Millisecond}
}

// ManagerOption configures a Manager at construction time.
type ManagerOption func(*Manager)

// WithRetry overrides the retry policy used by all subsequent acquire and
// extend calls. Equivalent to calling Manager.SetRetry after construction.
func WithRetry(count int, delay time.Duration) ManagerOption {
	return func(m *Manager) {
		m.retry = RetryPolicy{Count: count, Delay: delay}
	}
}

// WithLogger attaches a structured logger. Each acquire or extend attempt
// is logged at Debug with its success count, quorum and elapsed time, as is
// a TTL exhausted during fan-out. Rollback, release and per-store I/O
// errors are not logged. A nil logger is ignored.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.log = logger
		}
	}
}

// WithMetrics attaches a Recorder that observes attempt counts, quorum
// outcomes, fan-out latency, and validity windows. A nil recorder is
// ignored; without this option the Manager uses a no-op recorder.
func WithMetrics(rec Recorder) ManagerOption {
	return func(m *Manager) {
		if rec != nil {
			m.metrics = rec
		}
	}
}

// discardLogger returns a logger that drops everything, used as the
// zero-configuration default so a Manager never forces log output onto a
// caller that didn't ask for it.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
