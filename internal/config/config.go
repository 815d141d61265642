// Package config loads and validates the odoo-mirror service configuration.
package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	defaultServerPort      = 8060
	defaultServerTimeout   = 30
	defaultIdleTimeout     = 60 * time.Second
	defaultDatabasePort    = 5432
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5
	defaultRedisAddress    = "localhost:6379"
	defaultOdooPageSize    = 100
	defaultTickInterval    = time.Second
	defaultSyncInterval    = 10 * time.Second
	defaultWorkers         = 4
	defaultQueueSize       = 16
)

type Config struct {
	Debug     bool            `env:"APP_DEBUG" yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Odoo      OdooConfig      `yaml:"odoo"`
	Auth      AuthConfig      `yaml:"auth"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type ServerConfig struct {
	Host         string        `env:"SERVER_HOST"  yaml:"host"`
	Port         int           `env:"SERVER_PORT"  yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST"     yaml:"host"`
	Port            int           `env:"DB_PORT"     yaml:"port"`
	User            string        `env:"DB_USER"     yaml:"user"`
	Password        string        `env:"DB_PASSWORD" yaml:"password"`
	DBName          string        `env:"DB_NAME"     yaml:"dbname"`
	SSLMode         string        `env:"DB_SSLMODE"  yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig holds the connection settings for the shared schedule store
// and the sync event stream.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS"  yaml:"address"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `env:"REDIS_DB"       yaml:"db"`
}

// OdooConfig holds the remote Odoo connection settings.
type OdooConfig struct {
	URL      string `env:"ODOO_URL"      yaml:"url"`
	Database string `env:"ODOO_DB"       yaml:"database"`
	Username string `env:"ODOO_USERNAME" yaml:"username"`
	Password string `env:"ODOO_PASSWORD" yaml:"password"`
	PageSize int    `yaml:"page_size"`
}

// AuthConfig holds the API key required on mutating and read endpoints.
// An empty key disables authentication; intended for local development only.
type AuthConfig struct {
	APIKey string `env:"API_KEY" yaml:"api_key"`
}

// SchedulerConfig tunes the scheduler loop and its worker pool.
type SchedulerConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	SyncInterval time.Duration `yaml:"sync_interval"`
	Workers      int           `yaml:"workers"`
	QueueSize    int           `yaml:"queue_size"`
}

func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}
	if c.Server.Port <= 0 {
		return errors.New("server.port is required and must be positive")
	}
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.Port <= 0 {
		return errors.New("database.port is required and must be positive")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if c.Odoo.URL == "" {
		return errors.New("odoo.url is required")
	}
	if c.Odoo.Database == "" {
		return errors.New("odoo.database is required")
	}
	if c.Odoo.Username == "" {
		return errors.New("odoo.username is required")
	}
	return nil
}

func Load(path string) (*Config, error) {
	var cfg Config
	if err := load(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	setDefaults(&cfg)

	// Re-apply env overrides after defaults (env always wins)
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultDatabasePort
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = defaultConnMaxLifetime * time.Minute
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.Odoo.PageSize == 0 {
		cfg.Odoo.PageSize = defaultOdooPageSize
	}
	if cfg.Scheduler.TickInterval == 0 {
		cfg.Scheduler.TickInterval = defaultTickInterval
	}
	if cfg.Scheduler.SyncInterval == 0 {
		cfg.Scheduler.SyncInterval = defaultSyncInterval
	}
	if cfg.Scheduler.Workers == 0 {
		cfg.Scheduler.Workers = defaultWorkers
	}
	if cfg.Scheduler.QueueSize == 0 {
		cfg.Scheduler.QueueSize = defaultQueueSize
	}
}
