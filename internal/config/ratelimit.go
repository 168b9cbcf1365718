package config

import "time"

// RateLimitConfig configures the fixed-window limiter. Requests counts how
// many calls a client IP may make per Window.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Prefix   string        `koanf:"prefix"`
}

func defaultRateLimit() RateLimitConfig {
	return RateLimitConfig{
		Requests: 120,
		Window:   time.Minute,
		Prefix:   "catalog:rl",
	}
}

func (r *RateLimitConfig) normalize() {
	if r.Requests < 1 {
		r.Requests = 1
	}
	if r.Window < time.Second {
		r.Window = time.Second
	}
	if r.Prefix == "" {
		r.Prefix = "catalog:rl"
	}
}
