package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the namespace for every environment variable the service reads.
const EnvPrefix = "STORE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config aggregates every tunable the binaries need.
type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Stats        StatsConfig
	Backfill     BackfillConfig
	FeatureFlags FeatureFlagsConfig
}

// Load parses the environment into a Config and validates the DB settings.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STORE_APP_ENV" default:"dev"`
	Port         string `envconfig:"STORE_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"STORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"STORE_DB_DRIVER" default:"sqlite"`
	// Path is the sqlite database file. Ignored for postgres.
	Path string `envconfig:"STORE_DB_PATH" default:"store.db"`
	// DSN is the postgres connection string. Ignored for sqlite.
	DSN string `envconfig:"STORE_DB_DSN"`

	BusyTimeout time.Duration `envconfig:"STORE_DB_BUSY_TIMEOUT" default:"5s"`

	MaxOpenConns    int           `envconfig:"STORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d DBConfig) validate() error {
	switch d.Driver {
	case DriverSQLite:
		if d.Path == "" {
			return fmt.Errorf("sqlite driver requires STORE_DB_PATH")
		}
	case DriverPostgres:
		if d.DSN == "" {
			return fmt.Errorf("postgres driver requires STORE_DB_DSN")
		}
	default:
		return fmt.Errorf("unsupported db driver %q", d.Driver)
	}
	return nil
}

type RedisConfig struct {
	// URL is optional; when empty the stats cache falls back to in-process memory.
	URL          string        `envconfig:"STORE_REDIS_URL"`
	Address      string        `envconfig:"STORE_REDIS_ADDR"`
	Password     string        `envconfig:"STORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"STORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis backend has been configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type AuthConfig struct {
	// JWTSecret verifies the bearer tokens required by destructive order endpoints.
	// Token issuance belongs to the (external) login service.
	JWTSecret string `envconfig:"STORE_JWT_SECRET" default:"dev-secret"`
	Issuer    string `envconfig:"STORE_JWT_ISSUER" default:"store"`
}

type StatsConfig struct {
	CacheTTL time.Duration `envconfig:"STORE_STATS_CACHE_TTL" default:"5m"`
}

type BackfillConfig struct {
	// StartDelay postpones the legacy order_items backfill so the API can
	// begin serving before the one-shot job runs.
	StartDelay time.Duration `envconfig:"STORE_BACKFILL_START_DELAY" default:"5s"`
	Disabled   bool          `envconfig:"STORE_BACKFILL_DISABLED" default:"false"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STORE_AUTO_MIGRATE" default:"true"`
}
