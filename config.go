package rslock

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/mapstructure"
	"github.com/redis/go-redis/v9"
)

// Config is the file/env-driven shape of a Manager's store set and retry
// policy, for callers who prefer declarative wiring over constructing a
// Manager programmatically. It plays no role in New or NewWithStores.
type Config struct {
	Stores []StoreConfig `koanf:"stores"`
	Retry  RetryConfig   `koanf:"retry"`

	// DefaultTTL is the TTL NewFromConfig's caller may use for its first
	// AcquireOnce/AcquireBlocking call; LoadConfig only parses it, it is
	// never applied automatically since TTL is otherwise always an
	// explicit per-call argument.
	DefaultTTL time.Duration `koanf:"default_ttl"`
}

// StoreConfig is one store endpoint.
type StoreConfig struct {
	Addr string `koanf:"addr"`
}

// RetryConfig mirrors RetryPolicy in a form koanf can decode from
// YAML/JSON/env; Delay accepts duration strings like "200ms".
type RetryConfig struct {
	Count int           `koanf:"count"`
	Delay time.Duration `koanf:"delay"`
}

// configDelim is the koanf key delimiter; "." lets nested YAML/env keys
// (retry.count) and env vars (RSLOCK_RETRY_COUNT) address the same field.
const configDelim = "."

// envPrefix is the prefix LoadConfig strips from environment variables
// before treating the remainder as an override key.
const envPrefix = "RSLOCK_"

// LoadConfig reads a YAML config file, then overlays any RSLOCK_-prefixed
// environment variables (e.g. RSLOCK_RETRY_COUNT=5), matching the
// file-then-env layering convention the rest of the corpus's koanf-based
// loaders use. Every underscore after the prefix becomes a key separator,
// so keys that contain an underscore themselves (default_ttl) cannot be
// overridden from the environment.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(configDelim)

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("rslock: loading config file %q: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, configDelim, envKeyToKoanf), nil); err != nil {
		return nil, fmt.Errorf("rslock: loading env overrides: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return nil, fmt.Errorf("rslock: unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// envKeyToKoanf converts RSLOCK_RETRY_COUNT into retry.count.
func envKeyToKoanf(envKey string) string {
	trimmed := strings.TrimPrefix(envKey, envPrefix)
	return strings.ToLower(strings.ReplaceAll(trimmed, "_", configDelim))
}

// NewFromConfig builds a Manager whose store set is one go-redis client
// per configured endpoint. cfg.Retry replaces the retry policy only when
// cfg.Retry.Count > 0; otherwise the default policy, or one set via opts,
// is kept.
func NewFromConfig(cfg *Config, opts ...ManagerOption) (*Manager, error) {
	clients := make([]redis.UniversalClient, len(cfg.Stores))
	for i, s := range cfg.Stores {
		clients[i] = redis.NewClient(&redis.Options{Addr: s.Addr})
	}

	m, err := New(clients, opts...)
	if err != nil {
		return nil, err
	}
	if cfg.Retry.Count > 0 {
		m.SetRetry(cfg.Retry.Count, cfg.Retry.Delay)
	}
	return m, nil
}
