package rslock

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// maxTTL bounds how long a lock may be requested to live. time.Duration's
// own millisecond range (it is an int64 count of nanoseconds) already sits
// far inside float64's exact-integer range, so driftMillis's float64 math
// never loses precision for any value a caller can actually construct;
// there is no numeric-precision reason to reject a TTL. maxTTL is instead
// a deliberate sanity cap against pathological inputs such as
// time.Duration(math.MaxInt64): no real lock holder needs a TTL longer
// than this, and rejecting it up front avoids fanning out to every store
// for a request that was never meant to be honored.
const maxTTL = 365 * 24 * time.Hour

// rollbackTimeout bounds the best-effort release fan-out issued once ctx
// is already canceled or expired when rollback is called: a released
// caller context must not prevent cleanup from running.
const rollbackTimeout = 2 * time.Second

// perStoreOp is either Store.TryAcquire or Store.TryExtend: the two
// per-store operations the engine can fan out, sharing one signature.
type perStoreOp func(ctx context.Context, s Store, resource string, value []byte, ttl time.Duration) bool

func acquireOp(ctx context.Context, s Store, resource string, value []byte, ttl time.Duration) bool {
	return s.TryAcquire(ctx, resource, value, ttl)
}

func extendOp(ctx context.Context, s Store, resource string, value []byte, ttl time.Duration) bool {
	return s.TryExtend(ctx, resource, value, ttl)
}

// validateTTL rejects a TTL beyond maxTTL before any I/O, then converts the
// remainder to milliseconds for the drift computation. The cap is checked
// on ttl itself, not on its already-converted millisecond value, so the
// comparison is never vacuous regardless of how large a TTL the caller
// constructs.
func validateTTL(ttl time.Duration) (int64, error) {
	if ttl > maxTTL {
		return 0, ErrTTLTooLarge
	}
	return ttl.Milliseconds(), nil
}

// driftMillis is the clock-drift allowance for a given TTL: 1% of the TTL
// plus a 2ms floor, per the Redlock algorithm.
func driftMillis(ttlMs int64) int64 {
	return int64(math.Floor(float64(ttlMs)*0.01)) + 2
}

// engine runs the fan-out / quorum / rollback / retry protocol shared by
// acquisition and extension. It is reused for both because the quorum and
// timing logic are identical; only the per-store operation differs.
type engine struct {
	stores  []Store
	quorum  int
	log     *slog.Logger
	metrics Recorder
}

// execOrRetry runs op against every configured store, retrying under
// retry until quorum is reached or the retry budget is exhausted. On
// success it returns the validity window for the caller to build a Lock
// from; value and resource are unchanged across retries within one call.
func (e *engine) execOrRetry(ctx context.Context, resource string, value []byte, ttl time.Duration, retry RetryPolicy, op perStoreOp, opName string) (time.Duration, error) {
	ttlMs, err := validateTTL(ttl)
	if err != nil {
		e.metrics.ObserveOutcome(opName, err)
		return 0, err
	}

	if retry.Count <= 0 {
		e.metrics.ObserveOutcome(opName, ErrUnavailable)
		return 0, ErrUnavailable
	}

	for attempt := 0; attempt < retry.Count; attempt++ {
		if attempt != 0 {
			if err := e.sleepBackoff(ctx, retry.Delay); err != nil {
				e.metrics.ObserveOutcome(opName, err)
				return 0, err
			}
		}

		start := time.Now()
		n := e.fanOut(ctx, resource, value, ttl, op)
		elapsed := time.Since(start)

		driftMs := driftMillis(ttlMs)
		elapsedMs := elapsed.Milliseconds()
		reachedQuorum := n >= e.quorum

		e.log.Debug("rslock: attempt completed",
			slog.String("op", opName), slog.String("resource", resource),
			slog.Int("successes", n), slog.Int("quorum", e.quorum),
			slog.Duration("elapsed", elapsed))
		e.metrics.ObserveAttempt(n, e.quorum, elapsed, reachedQuorum)

		if ttlMs <= driftMs+elapsedMs {
			e.log.Debug("rslock: ttl exceeded during fan-out", slog.String("resource", resource))
			e.rollback(ctx, resource, value)
			e.metrics.ObserveOutcome(opName, ErrTTLExceeded)
			return 0, ErrTTLExceeded
		}

		validityMs := ttlMs - driftMs - elapsedMs
		validity := time.Duration(validityMs) * time.Millisecond

		if reachedQuorum && validityMs > 0 {
			e.metrics.ObserveValidity(validity)
			e.metrics.ObserveOutcome(opName, nil)
			return validity, nil
		}

		e.rollback(ctx, resource, value)
	}

	e.metrics.ObserveOutcome(opName, ErrUnavailable)
	return 0, ErrUnavailable
}

// fanOut invokes op against every store concurrently and waits for all to
// complete; it never returns early on quorum, so elapsed time and the
// later rollback both see every store's true outcome.
func (e *engine) fanOut(ctx context.Context, resource string, value []byte, ttl time.Duration, op perStoreOp) int {
	if len(e.stores) == 0 {
		return 0
	}

	results := make(chan bool, len(e.stores))
	for _, s := range e.stores {
		s := s
		go func() {
			results <- op(ctx, s, resource, value, ttl)
		}()
	}

	n := 0
	for range e.stores {
		if <-results {
			n++
		}
	}
	return n
}

// rollback issues a best-effort try_release against every store,
// including ones that never acquired, to minimize the window during which
// an orphaned acquisition blocks future attempts. It never reports errors.
// It honors ctx for the normal case; only once ctx is already
// canceled/expired does it fall back to a short timeout derived from
// context.Background(), so a caller that cancels right before calling
// Release still gets a best-effort cleanup attempt instead of none at all.
func (e *engine) rollback(ctx context.Context, resource string, value []byte) {
	if len(e.stores) == 0 {
		return
	}

	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), rollbackTimeout)
		defer cancel()
	}

	var wg sync.WaitGroup
	for _, s := range e.stores {
		wg.Add(1)
		go func(s Store) {
			defer wg.Done()
			s.TryRelease(ctx, resource, value)
		}(s)
	}
	wg.Wait()
}

// sleepBackoff waits a uniformly random duration in [0, delay), returning
// early with ctx.Err() if ctx is canceled first. delay <= 0 is treated as
// no delay rather than faulting on an empty range.
func (e *engine) sleepBackoff(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	d := rand.N(delay)
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
