package rslock

import "time"

// Lock is an immutable descriptor of a successfully acquired lock.
//
// A returned Lock always satisfies Validity > 0. It is consumed by
// Manager.Extend (which returns a fresh Lock with the same Value and a new
// Validity) or by Manager.Release (terminal). Dropping a Lock without
// calling Release implies no automatic release: the stored key expires
// naturally once its TTL runs out at each store.
type Lock struct {
	// Resource is the key this lock guards.
	Resource string

	// Value is the 20 random bytes unique to this acquisition attempt.
	// Only the holder presenting this exact value can release or extend
	// the lock.
	Value []byte

	// Validity is the wall-clock duration during which the holder may
	// safely assume the lock is still held. Always strictly less than the
	// TTL that was requested to acquire it.
	Validity time.Duration

	manager *Manager
}
