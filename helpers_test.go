package rslock_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/legas7/rslock"
)

// newStores starts n independent miniredis instances and wraps each in its
// own go-redis client: each instance has its own keyspace and its own
// failures, matching N independently operated stores.
func newStores(t testing.TB, n int) ([]*miniredis.Miniredis, []redis.UniversalClient) {
	t.Helper()

	servers := make([]*miniredis.Miniredis, n)
	clients := make([]redis.UniversalClient, n)
	for i := 0; i < n; i++ {
		mr := miniredis.RunT(t)
		servers[i] = mr
		clients[i] = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = clients[i].Close() })
	}
	return servers, clients
}

// newManager builds a Manager over n fresh stores with the default retry
// policy (tests that need a different policy pass WithRetry in opts).
func newManager(t *testing.T, n int, opts ...rslock.ManagerOption) (*rslock.Manager, []*miniredis.Miniredis) {
	t.Helper()
	servers, clients := newStores(t, n)
	mgr, err := rslock.New(clients, opts...)
	if err != nil {
		t.Fatalf("rslock.New: %v", err)
	}
	return mgr, servers
}

// clientsFromServers builds a fresh go-redis client per server, simulating
// a second, independent Manager instance that talks to the same store
// set as an existing one.
func clientsFromServers(t *testing.T, servers []*miniredis.Miniredis) []redis.UniversalClient {
	t.Helper()
	clients := make([]redis.UniversalClient, len(servers))
	for i, mr := range servers {
		clients[i] = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = clients[i].Close() })
	}
	return clients
}
