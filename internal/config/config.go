package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Config holds all server configuration.
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr"`
		APIToken        string        `yaml:"api_token"`
		Timezone        string        `yaml:"timezone"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Database struct {
		Driver      string `yaml:"driver"`
		DSN         string `yaml:"dsn"`
		SeedPath    string `yaml:"seed_path"`
		SeedOnStart bool   `yaml:"seed_on_start"`
	} `yaml:"database"`
	Audit struct {
		Backend  string `yaml:"backend"`
		RedisURL string `yaml:"redis_url"`
		RedisKey string `yaml:"redis_key"`
	} `yaml:"audit"`
	Events struct {
		NATSURL string `yaml:"nats_url"`
		Subject string `yaml:"subject"`
	} `yaml:"events"`
	Apply struct {
		EntryTimeout time.Duration `yaml:"entry_timeout"`
	} `yaml:"apply"`
	Scheduler struct {
		PreviewCron string `yaml:"preview_cron"`
	} `yaml:"scheduler"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Metrics struct {
		Namespace string `yaml:"namespace"`
	} `yaml:"metrics"`
}

const (
	AuditSQL    = "sql"
	AuditRedis  = "redis"
	AuditMemory = "memory"
)

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("API_TOKEN"); v != "" {
		cfg.Server.APIToken = v
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		cfg.Server.Timezone = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DB_PATH"); v != "" && !strings.EqualFold(cfg.Database.Driver, "postgres") {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SEED_PATH"); v != "" {
		cfg.Database.SeedPath = v
	}
	if v := os.Getenv("SEED_ON_START"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse SEED_ON_START: %w", err)
		}
		cfg.Database.SeedOnStart = b
	}
	if v := os.Getenv("AUDIT_BACKEND"); v != "" {
		cfg.Audit.Backend = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Audit.RedisURL = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.Events.NATSURL = v
	}
	if v := os.Getenv("APPLY_ENTRY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse APPLY_ENTRY_TIMEOUT: %w", err)
		}
		cfg.Apply.EntryTimeout = d
	}
	if v := os.Getenv("PREVIEW_CRON"); v != "" {
		cfg.Scheduler.PreviewCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.Timezone == "" {
		cfg.Server.Timezone = "UTC"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "data/app.db"
	}
	if cfg.Database.SeedPath == "" {
		cfg.Database.SeedPath = "data/seeds/vessel_visits.json"
	}
	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = AuditSQL
	}
	if cfg.Apply.EntryTimeout == 0 {
		cfg.Apply.EntryTimeout = 5 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "portops"
	}
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}

	switch c.Audit.Backend {
	case AuditSQL, AuditMemory:
	case AuditRedis:
		if c.Audit.RedisURL == "" {
			return fmt.Errorf("audit.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("audit.backend must be sql, redis or memory, got %q", c.Audit.Backend)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Apply.EntryTimeout < 0 {
		return fmt.Errorf("apply.entry_timeout must not be negative")
	}
	return nil
}

// Location is the time zone planning days are interpreted in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("server.timezone %q: %w", c.Server.Timezone, err)
	}
	return loc, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
