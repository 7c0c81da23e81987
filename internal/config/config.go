package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownStorageDriver        = errors.New("unknown storage driver")
)

// Storage drivers for preferences.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env      string   `mapstructure:"env"` // current application environment (local, dev, production etc)
	Dataset  Dataset  `mapstructure:"dataset"`
	Telegram Telegram `mapstructure:"telegram"`
	HTTP     HTTP     `mapstructure:"http"`
	Session  Session  `mapstructure:"session"`
	Storage  Storage  `mapstructure:"storage"`
	DB       DB       `mapstructure:"database"` // database configuration section
	Redis    Redis    `mapstructure:"redis"`
}

// Dataset tells where the collection is loaded from and how it is refreshed.
type Dataset struct {
	Path        string `mapstructure:"path"`         // local JSON file
	URL         string `mapstructure:"url"`          // remote JSON file, wins over path
	RefreshCron string `mapstructure:"refresh_cron"` // empty disables scheduled reloads
	Watch       bool   `mapstructure:"watch"`        // reload when the local file changes
}

// Telegram contains bot settings.
type Telegram struct {
	Token           string        `mapstructure:"-"` // Telegram API token loaded from environment
	Enabled         bool          `mapstructure:"enabled"`
	Debug           bool          `mapstructure:"debug"`
	SearchDebounce  time.Duration `mapstructure:"search_debounce"`
	OnboardingDelay time.Duration `mapstructure:"onboarding_delay"`
	PageSize        int           `mapstructure:"page_size"`
}

// HTTP contains web server settings.
type HTTP struct {
	Enabled        bool     `mapstructure:"enabled"`
	Addr           string   `mapstructure:"addr"`
	PublicURL      string   `mapstructure:"public_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Session controls how long idle sessions stay in memory.
type Session struct {
	IdleTTL   time.Duration `mapstructure:"idle_ttl"`   // sessions unused for longer are dropped
	SweepCron string        `mapstructure:"sweep_cron"` // empty disables eviction
}

// Storage selects the preferences backend.
type Storage struct {
	Driver string `mapstructure:"driver"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Redis contains Redis connection parameters.
type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"-"` // loaded from environment
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// IsProduction reports whether the production environment is configured.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks the settings needed by the enabled components.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageRedis:
	case StoragePostgres:
		if _, err := c.DB.DSN(); err != nil {
			return fmt.Errorf("DATABASE_URL: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, c.Storage.Driver)
	}

	if c.Telegram.Enabled && c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_API_TOKEN: %w", ErrMissingEnvironmentVariables)
	}
	return nil
}

// Load reads configuration from .env, config files and environment variables.
// file overrides the default ./config/config.yaml lookup when set.
func Load(file string) (*Config, error) {
	// A missing .env is fine: variables may come from the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.Telegram.Token = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	cfg.Redis.Password = v.GetString("redis_password")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")

	v.SetDefault("dataset.path", "assets/data/prayers.json")
	v.SetDefault("dataset.url", "")
	v.SetDefault("dataset.refresh_cron", "")
	v.SetDefault("dataset.watch", false)

	v.SetDefault("telegram.enabled", true)
	v.SetDefault("telegram.debug", false)
	v.SetDefault("telegram.search_debounce", "160ms")
	v.SetDefault("telegram.onboarding_delay", "600ms")
	v.SetDefault("telegram.page_size", 5)

	v.SetDefault("http.enabled", true)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.public_url", "")
	v.SetDefault("http.allowed_origins", []string{})

	v.SetDefault("session.idle_ttl", "30m")
	v.SetDefault("session.sweep_cron", "@every 5m")

	v.SetDefault("storage.driver", StorageMemory)

	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "0s")
}
