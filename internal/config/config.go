package config // package config loads application configuration from the environment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; nested structs group the settings of one
// subsystem.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	LogLevel  string // debug, info, warn or error
	LogFormat string // text or json
	DB        DBConfig
	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Events    EventsConfig
}

// DBConfig selects the SQL dialect and how to reach it.  Path is only used
// by sqlite; the network fields are only used by mysql and postgres.
type DBConfig struct {
	Driver       string // sqlite, mysql or postgres
	Path         string // sqlite database file
	User         string
	Pass         string
	Host         string
	Port         string
	Name         string
	SSLMode      string // postgres only
	MaxOpenConns int
}

// EventsConfig controls publication of plant lifecycle events to RabbitMQ.
type EventsConfig struct {
	Enabled bool
	URL     string
	Queue   string
	LogDir  string // directory the audit consumer appends to
}

// NewViper returns a viper instance reading the process environment, after
// merging variables from a .env file when one exists.  Variables already
// set in the environment win over the file.
func NewViper(envFiles ...string) *viper.Viper {
	_ = godotenv.Load(envFiles...) // a missing .env is not an error
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_PORT", "5555")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PATH", "plants.db")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)

	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CACHE_ENABLED", true)
	v.SetDefault("CACHE_METHODS", "GET")
	v.SetDefault("CACHE_TTL", "30s")
	v.SetDefault("CACHE_KEY_STRATEGY", "path_query")
	v.SetDefault("CACHE_PREFIX", "plants:cache")
	v.SetDefault("CACHE_MAX_BODY_BYTES", 1<<20)

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_CAPACITY", 60)
	v.SetDefault("RATE_LIMIT_REFILL_TOKENS", 1)
	v.SetDefault("RATE_LIMIT_REFILL_INTERVAL", "1s")
	v.SetDefault("RATE_LIMIT_TTL", "10m")
	v.SetDefault("RATE_LIMIT_KEY_STRATEGY", "ip_route")
	v.SetDefault("RATE_LIMIT_PREFIX", "plants:rl")
	v.SetDefault("RATE_LIMIT_DEBUG", false)

	v.SetDefault("EVENTS_QUEUE", "plant.events")
	v.SetDefault("EVENTS_LOG_DIR", "logs")
}

// Load reads configuration values from v and validates them.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Env:       v.GetString("APP_ENV"),
		Port:      v.GetString("APP_PORT"),
		LogLevel:  strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat: strings.ToLower(v.GetString("LOG_FORMAT")),
		DB: DBConfig{
			Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
			Path:         v.GetString("DB_PATH"),
			User:         v.GetString("DB_USER"),
			Pass:         v.GetString("DB_PASS"),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		},
		Redis:     LoadRedisConfig(v),
		Cache:     LoadCacheConfig(v),
		RateLimit: LoadRateLimitConfig(v),
		Events:    loadEventsConfig(v),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEventsConfig(v *viper.Viper) EventsConfig {
	url := v.GetString("RABBITMQ_URL")
	if url == "" {
		url = v.GetString("AMQP_URL")
	}
	enabled := url != ""
	if v.IsSet("EVENTS_ENABLED") {
		enabled = enabled && v.GetBool("EVENTS_ENABLED")
	}
	return EventsConfig{
		Enabled: enabled,
		URL:     url,
		Queue:   v.GetString("EVENTS_QUEUE"),
		LogDir:  v.GetString("EVENTS_LOG_DIR"),
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("missing required env var: APP_PORT")
	}
	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Path == "" {
			return errors.New("missing required env var: DB_PATH")
		}
	case "mysql", "postgres":
		required := []struct{ key, val string }{
			{"DB_HOST", c.DB.Host},
			{"DB_USER", c.DB.User},
			{"DB_NAME", c.DB.Name},
		}
		for _, r := range required {
			if r.val == "" {
				return fmt.Errorf("missing required env var for %s: %s", c.DB.Driver, r.key)
			}
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
