package rslock

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Manager is the public surface of the lock service: configure stores and
// a retry policy once, then acquire, extend, and release named resources.
// A Manager is stateless except for its connection set and parameters; it
// is safe for concurrent use by AcquireOnce/AcquireBlocking/AcquireScoped/
// Extend/Release, but SetRetry is not safe to call concurrently with
// those.
type Manager struct {
	stores []Store
	quorum int
	retry  RetryPolicy

	log     *slog.Logger
	metrics Recorder
}

// New constructs a Manager from a set of go-redis clients, one per store
// endpoint. N is expected to be odd and >= 1, though this is not enforced.
func New(clients []redis.UniversalClient, opts ...ManagerOption) (*Manager, error) {
	stores := make([]Store, len(clients))
	for i, c := range clients {
		stores[i] = NewRedisStore(c)
	}
	return NewWithStores(stores, opts...)
}

// NewWithStores constructs a Manager directly from a pre-built Store set,
// for callers plugging in a non-default Store implementation.
func NewWithStores(stores []Store, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		stores:  stores,
		quorum:  len(stores)/2 + 1,
		retry:   defaultRetryPolicy(),
		log:     discardLogger(),
		metrics: noopRecorder{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// SetRetry overrides the retry parameters used by subsequent calls. Not
// safe to call concurrently with acquire/extend calls.
func (m *Manager) SetRetry(count int, delay time.Duration) {
	m.retry = RetryPolicy{Count: count, Delay: delay}
}

// engineForCall builds an engine whose logger is scoped to one public
// call with a correlation id, so concurrent AcquireOnce/Extend calls
// against the same Manager can be told apart in logs without threading an
// id through every log line by hand.
func (m *Manager) engineForCall() *engine {
	log := m.log.With(slog.String("call_id", uuid.NewString()))
	return &engine{stores: m.stores, quorum: m.quorum, log: log, metrics: m.metrics}
}

// AcquireOnce attempts to acquire resource for ttl, retrying internally
// per the configured RetryPolicy, and returns once that budget is
// exhausted or quorum is reached.
func (m *Manager) AcquireOnce(ctx context.Context, resource string, ttl time.Duration) (*Lock, error) {
	value, err := uniqueValue()
	if err != nil {
		return nil, err
	}

	validity, err := m.engineForCall().execOrRetry(ctx, resource, value, ttl, m.retry, acquireOp, "acquire")
	if err != nil {
		return nil, err
	}

	return &Lock{Resource: resource, Value: value, Validity: validity, manager: m}, nil
}

// AcquireBlocking calls AcquireOnce in a loop until it succeeds, returns
// ErrTTLTooLarge, or ctx is done (then ctx.Err() is returned); every other
// error causes another iteration with no additional backoff beyond the one
// AcquireOnce already applied internally.
func (m *Manager) AcquireBlocking(ctx context.Context, resource string, ttl time.Duration) (*Lock, error) {
	for {
		lock, err := m.AcquireOnce(ctx, resource, ttl)
		if err == nil {
			return lock, nil
		}
		if errors.Is(err, ErrTTLTooLarge) {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}
}

// AcquireScoped behaves like AcquireBlocking but wraps the resulting Lock
// in a ScopedLock so that Close releases it automatically; see ScopedLock.
func (m *Manager) AcquireScoped(ctx context.Context, resource string, ttl time.Duration) (*ScopedLock, error) {
	lock, err := m.AcquireBlocking(ctx, resource, ttl)
	if err != nil {
		return nil, err
	}
	return &ScopedLock{lock: lock}, nil
}

// Extend runs the acquisition engine using try_extend as the per-store
// operation, reusing lock's existing Value. On success it returns a new
// Lock with a freshly computed validity window; lock itself is left
// unmodified. Fails ErrUnavailable if a majority of stores no longer hold
// lock.Value (expired, released, or taken by another client).
func (m *Manager) Extend(ctx context.Context, lock *Lock, ttl time.Duration) (*Lock, error) {
	validity, err := m.engineForCall().execOrRetry(ctx, lock.Resource, lock.Value, ttl, m.retry, extendOp, "extend")
	if err != nil {
		return nil, err
	}
	return &Lock{Resource: lock.Resource, Value: lock.Value, Validity: validity, manager: m}, nil
}

// Release best-effort releases lock on every configured store in
// parallel, ignoring per-store results. It never reports errors: the
// stored key's TTL bounds the cost of a lost release, and retrying
// release would only add tail latency without improving safety. ctx is
// honored normally; only if it is already canceled or expired does the
// release fall back to a short independent cleanup window (see
// engine.rollback), so a caller that cancels right before releasing still
// gets a best-effort attempt.
func (m *Manager) Release(ctx context.Context, lock *Lock) {
	e := m.engineForCall()
	e.rollback(ctx, lock.Resource, lock.Value)
}
