package rslock

import "context"

// ScopedLock wraps a Lock so that Close releases it, intended for use
// with defer:
//
//	scoped, err := mgr.AcquireScoped(ctx, "my-resource", ttl)
//	if err != nil { return err }
//	defer scoped.Close(context.Background())
//
// Unlike languages where scope exit runs inside an async runtime's
// teardown path, Go's defer runs synchronously on the owning goroutine, so
// there is no hazard in blocking here; ScopedLock is always available
// regardless of caller concurrency model.
type ScopedLock struct {
	lock *Lock
}

// Lock returns the underlying descriptor, e.g. to call Manager.Extend.
func (s *ScopedLock) Lock() *Lock {
	return s.lock
}

// Close releases the wrapped lock. Safe to call more than once; only the
// first call has effect.
func (s *ScopedLock) Close(ctx context.Context) {
	if s.lock == nil {
		return
	}
	s.lock.manager.Release(ctx, s.lock)
	s.lock = nil
}
