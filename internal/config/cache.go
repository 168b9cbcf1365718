package config

import "time"

// CacheConfig defines settings for the response cache middleware.
// When Enabled is false or no Redis client is reachable, caching is skipped.
// Only GET responses with status 200 are cached; every successful write
// clears the whole Prefix namespace.
type CacheConfig struct {
	Enabled      bool          `koanf:"enabled"`
	TTL          time.Duration `koanf:"ttl"`
	Prefix       string        `koanf:"prefix"`
	MaxBodyBytes int           `koanf:"max_body_bytes"`
}

func defaultCache() CacheConfig {
	return CacheConfig{
		TTL:          30 * time.Second,
		Prefix:       "catalog:cache",
		MaxBodyBytes: 1 << 20,
	}
}

func (c *CacheConfig) normalize() {
	if c.TTL <= 0 {
		c.TTL = 30 * time.Second
	}
	if c.Prefix == "" {
		c.Prefix = "catalog:cache"
	}
}
