package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Archive ArchiveConfig
	Gemini  GeminiConfig
}

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
	Env          string `envconfig:"LOTARIA_APP_ENV" default:"dev"`
	Port         string `envconfig:"LOTARIA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LOTARIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LOTARIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver     string `envconfig:"LOTARIA_DB_DRIVER" default:"sqlite"`
	SQLitePath string `envconfig:"LOTARIA_DB_SQLITE_PATH" default:"data/archive.db"`
	DSN        string `envconfig:"LOTARIA_DB_DSN"`

	MaxOpenConns    int           `envconfig:"LOTARIA_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"LOTARIA_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"LOTARIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LOTARIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the embedded driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

func (db DBConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case DriverSQLite:
		if strings.TrimSpace(db.SQLitePath) == "" {
			return fmt.Errorf("%s is required for the sqlite driver", EnvDBSQLitePath)
		}
		return nil
	case DriverPostgres:
		if strings.TrimSpace(db.DSN) == "" {
			return fmt.Errorf("%s is required for the postgres driver", EnvDBDSN)
		}
		return nil
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"LOTARIA_REDIS_URL"`
	Address      string        `envconfig:"LOTARIA_REDIS_ADDR"`
	Password     string        `envconfig:"LOTARIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"LOTARIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LOTARIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LOTARIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LOTARIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LOTARIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LOTARIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all. The cache
// layer is optional for a local archive.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type ArchiveConfig struct {
	MaxImageMB   int           `envconfig:"LOTARIA_MAX_IMAGE_MB" default:"10"`
	SeedOnEmpty  bool          `envconfig:"LOTARIA_SEED_ON_EMPTY" default:"true"`
	AutoMigrate  bool          `envconfig:"LOTARIA_AUTO_MIGRATE" default:"true"`
	TopCountries int           `envconfig:"LOTARIA_STATS_TOP_COUNTRIES" default:"10"`
	CacheTTL     time.Duration `envconfig:"LOTARIA_ENRICHMENT_CACHE_TTL" default:"720h"`
}

type GeminiConfig struct {
	APIKey        string        `envconfig:"LOTARIA_GEMINI_API_KEY"`
	BaseURL       string        `envconfig:"LOTARIA_GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
	AnalyzeModel  string        `envconfig:"LOTARIA_GEMINI_ANALYZE_MODEL" default:"gemini-3-flash-preview"`
	ResearchModel string        `envconfig:"LOTARIA_GEMINI_RESEARCH_MODEL" default:"gemini-3-pro-preview"`
	Timeout       time.Duration `envconfig:"LOTARIA_GEMINI_TIMEOUT" default:"45s"`
}
