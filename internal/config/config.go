package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
)

// Config is the root application configuration, read from the environment
// (a .env file is loaded into the environment by the caller first).
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Log       LogConfig
	Scheduler SchedulerConfig

	// SeedDemo inserts the demo catalogue when the product table is empty.
	SeedDemo bool `env:"SEED_DEMO" env-default:"false"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	AppName         string        `env:"APP_NAME"                env-default:"Wings Cafe Inventory v1.0"`
	Port            int           `env:"PORT"                    env-default:"3001"`
	CORSOrigins     string        `env:"CORS_ALLOWED_ORIGINS"    env-default:"*"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Addr returns the listen address for fiber.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// DatabaseConfig selects and tunes the record store.
type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER"   env-default:"postgres"`
	URL        string `env:"DATABASE_URL"`
	Host       string `env:"DB_HOST"     env-default:"localhost"`
	User       string `env:"DB_USER"     env-default:"postgres"`
	Password   string `env:"DB_PASSWORD"`
	Name       string `env:"DB_NAME"     env-default:"inventory"`
	Port       string `env:"DB_PORT"     env-default:"5432"`
	TimeZone   string `env:"DB_TIMEZONE" env-default:"UTC"`
	SQLitePath string `env:"SQLITE_PATH" env-default:"inventory.db"`

	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS"     env-default:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS"     env-default:"100"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME"  env-default:"1h"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE"       env-default:"true"`
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.TimeZone,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"text"`
}

// SchedulerConfig controls the periodic low-stock scan.
type SchedulerConfig struct {
	LowStockEnabled bool   `env:"LOW_STOCK_SCAN_ENABLED" env-default:"true"`
	LowStockSpec    string `env:"LOW_STOCK_SCAN_SPEC"    env-default:"@every 5m"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	validDrivers   = []string{DriverPostgres, DriverSQLite}
	validLogLevels = []string{"trace", "debug", "info", "warn", "warning", "error"}
	validLogFormat = []string{"text", "json"}
)

// Load reads configuration from environment variables and defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: read env")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config: validate")
	}
	return &cfg, nil
}

// Validate checks the values cleanenv cannot express as tags.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Errorf("server port %d out of range", c.Server.Port)
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if !slices.Contains(validDrivers, c.Database.Driver) {
		return errors.Errorf("unknown database driver %q (want one of %s)", c.Database.Driver, strings.Join(validDrivers, ", "))
	}
	if c.Database.Driver == DriverSQLite && c.Database.SQLitePath == "" {
		return errors.New("SQLITE_PATH is required for the sqlite driver")
	}
	if !slices.Contains(validLogLevels, strings.ToLower(c.Log.Level)) {
		return errors.Errorf("unknown log level %q", c.Log.Level)
	}
	if !slices.Contains(validLogFormat, strings.ToLower(c.Log.Format)) {
		return errors.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Scheduler.LowStockEnabled && c.Scheduler.LowStockSpec == "" {
		return errors.New("LOW_STOCK_SCAN_SPEC must be set when the scan is enabled")
	}
	return nil
}
