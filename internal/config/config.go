// Package config loads application configuration from environment variables.
//
// Variables keep the names the catalog has always used (DB_USER, DB_HOST,
// ...). A .env file in the working directory is loaded first when present.
// Every value has a default so the service starts against a local MySQL
// without any setup.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds all runtime configuration values.
type Config struct {
	App       AppConfig       `koanf:"app"`
	DB        DBConfig        `koanf:"db"`
	Redis     RedisConfig     `koanf:"redis"`
	Cache     CacheConfig     `koanf:"cache"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Events    EventsConfig    `koanf:"events"`
	Auth      AuthConfig      `koanf:"auth"`
}

// AppConfig describes the process itself.
type AppConfig struct {
	Env      string `koanf:"env" validate:"required,oneof=development production test"`
	Port     string `koanf:"port" validate:"required,numeric"`
	LogLevel string `koanf:"log_level"`
}

// DBConfig holds the relational store settings. Driver selects between the
// MySQL server used in production and an embedded SQLite file.
type DBConfig struct {
	Driver   string `koanf:"driver" validate:"required,oneof=mysql sqlite3"`
	User     string `koanf:"user" validate:"required_if=Driver mysql"`
	Password string `koanf:"password"`
	Host     string `koanf:"host" validate:"required_if=Driver mysql"`
	Port     string `koanf:"port" validate:"required_if=Driver mysql"`
	Name     string `koanf:"name" validate:"required_if=Driver mysql"`
	Path     string `koanf:"path" validate:"required_if=Driver sqlite3"`
}

// AuthConfig guards the write routes. An empty secret leaves them open.
type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
}

// Enabled reports whether write routes require a bearer token.
func (a AuthConfig) Enabled() bool { return a.JWTSecret != "" }

// envKeys maps the accepted environment variables onto koanf key paths.
// Anything not listed here is ignored.
var envKeys = map[string]string{
	"APP_ENV":             "app.env",
	"APP_PORT":            "app.port",
	"LOG_LEVEL":           "app.log_level",
	"DB_DRIVER":           "db.driver",
	"DB_USER":             "db.user",
	"DB_PASSWORD":         "db.password",
	"DB_HOST":             "db.host",
	"DB_PORT":             "db.port",
	"DB_NAME":             "db.name",
	"DB_PATH":             "db.path",
	"REDIS_ADDR":          "redis.addr",
	"REDIS_PASSWORD":      "redis.password",
	"REDIS_DB":            "redis.db",
	"CACHE_ENABLED":       "cache.enabled",
	"CACHE_TTL":           "cache.ttl",
	"CACHE_PREFIX":        "cache.prefix",
	"RATE_LIMIT_ENABLED":  "ratelimit.enabled",
	"RATE_LIMIT_REQUESTS": "ratelimit.requests",
	"RATE_LIMIT_WINDOW":   "ratelimit.window",
	"RATE_LIMIT_PREFIX":   "ratelimit.prefix",
	"EVENTS_ENABLED":      "events.enabled",
	"RABBITMQ_URL":        "events.url",
	"EVENTS_QUEUE":        "events.queue",
	"EVENTS_LOG_PATH":     "events.log_path",
	"AUTH_JWT_SECRET":     "auth.jwt_secret",
}

// Defaults returns the configuration used when no variable is set.
func Defaults() Config {
	return Config{
		App: AppConfig{Env: "development", Port: "5400"},
		DB: DBConfig{
			Driver:   "mysql",
			User:     "root",
			Password: "root",
			Host:     "localhost",
			Port:     "3306",
			Name:     "gestionpeliculas",
			Path:     "gestionpeliculas.db",
		},
		Redis:     defaultRedis(),
		Cache:     defaultCache(),
		RateLimit: defaultRateLimit(),
		Events:    defaultEvents(),
	}
}

// Load reads .env (if any) and the process environment on top of Defaults
// and validates the result.
func Load() (Config, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	k := koanf.New(".")
	err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[strings.ToUpper(s)]
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.App.Env = strings.ToLower(strings.TrimSpace(c.App.Env))
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	c.RateLimit.normalize()
	c.Cache.normalize()
}
