package rslock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the interface the acquisition engine needs from one key-value
// instance. Any client able to issue one conditional SET and one scripted
// EVAL against a single Redis-wire-protocol endpoint can implement it;
// redisStore below is the default implementation on top of go-redis.
//
// Every method swallows connection and protocol errors into a false
// return: per-store failures are never fatal to the engine, only to that
// store's contribution toward quorum.
type Store interface {
	// TryAcquire sets resource to value only if resource does not already
	// exist, with expiration ttl. Reports true iff the store acknowledged
	// the set.
	TryAcquire(ctx context.Context, resource string, value []byte, ttl time.Duration) bool

	// TryRelease deletes resource iff its current value equals value.
	// Reports true iff the delete happened.
	TryRelease(ctx context.Context, resource string, value []byte) bool

	// TryExtend resets resource's expiration to ttl iff its current value
	// equals value. Reports true iff the reset happened.
	TryExtend(ctx context.Context, resource string, value []byte, ttl time.Duration) bool
}

// releaseScript implements compare-and-delete: only the current holder
// (the client presenting the matching value) can remove the key.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

// extendScript implements compare-and-reset-expiration: only the current
// holder can push out the key's TTL, and the stored value is left intact.
var extendScript = redis.NewScript(`
if redis.call("get", KEYS[1]) ~= ARGV[1] then
  return 0
else
  if redis.call("set", KEYS[1], ARGV[1], "PX", ARGV[2]) ~= nil then
    return 1
  else
    return 0
  end
end
`)

// redisStore adapts a single go-redis client to the Store interface.
type redisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps a go-redis client as a Store. Exported so callers
// composing their own store set (e.g. non-default TLS configs, custom
// retry-aware clients) can build the slice passed to NewWithStores
// without going through New.
func NewRedisStore(client redis.UniversalClient) Store {
	return &redisStore{client: client}
}

func (s *redisStore) TryAcquire(ctx context.Context, resource string, value []byte, ttl time.Duration) bool {
	ok, err := s.client.SetNX(ctx, resource, value, ttl).Result()
	if err != nil {
		return false
	}
	return ok
}

func (s *redisStore) TryRelease(ctx context.Context, resource string, value []byte) bool {
	res, err := releaseScript.Run(ctx, s.client, []string{resource}, value).Result()
	if err != nil {
		return false
	}
	n, ok := res.(int64)
	return ok && n != 0
}

func (s *redisStore) TryExtend(ctx context.Context, resource string, value []byte, ttl time.Duration) bool {
	res, err := extendScript.Run(ctx, s.client, []string{resource}, value, ttl.Milliseconds()).Result()
	if err != nil {
		return false
	}
	n, ok := res.(int64)
	return ok && n != 0
}
