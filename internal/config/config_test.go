package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/iliyamo/plant-catalog/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	c := qt.New(t)
	c.Chdir(c.TempDir()) // no stray .env

	cfg, err := config.Load(config.NewViper())
	c.Assert(err, qt.IsNil)

	c.Assert(cfg.Env, qt.Equals, "dev")
	c.Assert(cfg.Addr(), qt.Equals, ":5555")
	c.Assert(cfg.DB.Driver, qt.Equals, "sqlite")
	c.Assert(cfg.DB.Path, qt.Equals, "plants.db")
	c.Assert(cfg.LogFormat, qt.Equals, "text")
	c.Assert(cfg.Redis.Addr, qt.Equals, "")
	c.Assert(cfg.Events.Enabled, qt.IsFalse)
	c.Assert(cfg.Events.Queue, qt.Equals, "plant.events")
	c.Assert(cfg.Cache.Methods, qt.DeepEquals, map[string]bool{"GET": true})
	c.Assert(cfg.Cache.TTL, qt.Equals, 30*time.Second)
	c.Assert(cfg.RateLimit.Capacity, qt.Equals, 60)
	c.Assert(cfg.RateLimit.TTL, qt.Equals, 10*time.Minute)
}

func TestLoadFromEnvironment(t *testing.T) {
	c := qt.New(t)
	c.Chdir(c.TempDir())
	c.Setenv("APP_PORT", "8080")
	c.Setenv("DB_DRIVER", "MySQL")
	c.Setenv("DB_HOST", "db")
	c.Setenv("DB_USER", "plants")
	c.Setenv("DB_NAME", "catalog")
	c.Setenv("REDIS_HOST", "cache")
	c.Setenv("CACHE_METHODS", "get, head")
	c.Setenv("AMQP_URL", "amqp://guest:guest@mq:5672/")

	cfg, err := config.Load(config.NewViper())
	c.Assert(err, qt.IsNil)

	c.Assert(cfg.Addr(), qt.Equals, ":8080")
	c.Assert(cfg.DB.Driver, qt.Equals, "mysql")
	c.Assert(cfg.Redis.Addr, qt.Equals, "cache:6379")
	c.Assert(cfg.Cache.Methods, qt.DeepEquals, map[string]bool{"GET": true, "HEAD": true})
	c.Assert(cfg.Events.Enabled, qt.IsTrue)
	c.Assert(cfg.Events.URL, qt.Equals, "amqp://guest:guest@mq:5672/")
}

func TestEventsCanBeSwitchedOff(t *testing.T) {
	c := qt.New(t)
	c.Chdir(c.TempDir())
	c.Setenv("RABBITMQ_URL", "amqp://localhost")
	c.Setenv("EVENTS_ENABLED", "false")

	cfg, err := config.Load(config.NewViper())
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Events.Enabled, qt.IsFalse)
}

func TestLoadDotEnvFile(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	c.Chdir(dir)
	path := filepath.Join(dir, "test.env")
	c.Assert(os.WriteFile(path, []byte("APP_PORT=7000\nDB_PATH=/tmp/garden.db\n"), 0o600), qt.IsNil)
	c.Cleanup(func() {
		os.Unsetenv("APP_PORT")
		os.Unsetenv("DB_PATH")
	})

	cfg, err := config.Load(config.NewViper(path))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Port, qt.Equals, "7000")
	c.Assert(cfg.DB.Path, qt.Equals, "/tmp/garden.db")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown driver",
			env:     map[string]string{"DB_DRIVER": "oracle"},
			wantErr: `unsupported DB_DRIVER "oracle"`,
		},
		{
			name:    "mysql without host",
			env:     map[string]string{"DB_DRIVER": "mysql", "DB_USER": "u", "DB_NAME": "n"},
			wantErr: "missing required env var for mysql: DB_HOST",
		},
		{
			name:    "postgres without name",
			env:     map[string]string{"DB_DRIVER": "postgres", "DB_HOST": "h", "DB_USER": "u"},
			wantErr: "missing required env var for postgres: DB_NAME",
		},
		{
			name:    "bad log format",
			env:     map[string]string{"LOG_FORMAT": "xml"},
			wantErr: `unsupported LOG_FORMAT "xml"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Chdir(c.TempDir())
			for k, v := range tt.env {
				c.Setenv(k, v)
			}
			_, err := config.Load(config.NewViper())
			c.Assert(err, qt.ErrorMatches, tt.wantErr)
		})
	}
}

func TestRateLimitClamps(t *testing.T) {
	c := qt.New(t)
	c.Chdir(c.TempDir())
	c.Setenv("RATE_LIMIT_CAPACITY", "0")
	c.Setenv("RATE_LIMIT_REFILL_EVERY", "1m")
	c.Setenv("RATE_LIMIT_TTL", "1s")

	cfg, err := config.Load(config.NewViper())
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.RateLimit.Capacity, qt.Equals, 1)
	c.Assert(cfg.RateLimit.RefillTokens, qt.Equals, 1)
	c.Assert(cfg.RateLimit.RefillInterval, qt.Equals, time.Minute)
	c.Assert(cfg.RateLimit.TTL, qt.Equals, 5*time.Minute)
}
