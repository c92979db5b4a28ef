// Package rslock implements the Redlock distributed mutual-exclusion
// algorithm against N independently operated Redis-wire-protocol stores.
//
// # Design
//
// The package is a client-side library: it carries no state beyond its
// configured store connections and retry parameters, and derives its
// safety property from requiring a strict majority (quorum) of stores to
// agree on every acquire and extend; release is a best-effort delete on
// every store and needs no quorum. It is not a consensus
// protocol and does not replicate state between stores.
//
// # Usage
//
//	clients := []redis.UniversalClient{c1, c2, c3}
//	mgr, err := rslock.New(clients)
//	lock, err := mgr.AcquireOnce(ctx, "my-resource", 5*time.Second)
//	if err != nil { ... }
//	defer mgr.Release(context.Background(), lock)
//
// For automatic release on scope exit, use AcquireScoped and defer
// ScopedLock.Close instead of tracking the Lock and Manager separately.
//
// # Backend
//
// Each store must support SET key value NX PX ttl_ms and EVAL of the
// compare-and-delete / compare-and-extend scripts documented on Store.
// Any client satisfying the Store interface can be plugged in; a
// go-redis-backed implementation is provided by default via New.
package rslock
