package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds the application settings
type Config struct {
	ServerAddress   string        `mapstructure:"SERVER_ADDRESS"`
	Environment     string        `mapstructure:"ENV"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	StoreDriver     string        `mapstructure:"STORE_DRIVER"`
	PostgresConn    string        `mapstructure:"POSTGRES_CONN"`
	RunMigrations   bool          `mapstructure:"RUN_MIGRATIONS"`
	SeedDemoData    bool          `mapstructure:"SEED_DEMO_DATA"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":   ":8080",
	"ENV":              "development",
	"LOG_LEVEL":        "info",
	"STORE_DRIVER":     StoreMemory,
	"POSTGRES_CONN":    "",
	"RUN_MIGRATIONS":   true,
	"SEED_DEMO_DATA":   true,
	"SHUTDOWN_TIMEOUT": "5s",
}

// flag name -> config key
var flagKeys = map[string]string{
	"addr":      "SERVER_ADDRESS",
	"store":     "STORE_DRIVER",
	"log-level": "LOG_LEVEL",
}

// LoadConfig reads settings from command line flags, environment
// variables, an optional .env file and an optional app.env file in the
// --config directory, in that order of precedence.
func LoadConfig(args []string) (Config, error) {
	fs := pflag.NewFlagSet("helpmarket", pflag.ContinueOnError)
	configDir := fs.String("config", ".", "directory containing app.env and .env")
	fs.String("addr", "", "listen address")
	fs.String("store", "", "entity store: memory or postgres")
	fs.String("log-level", "", "log level")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	// a missing .env file is fine
	_ = godotenv.Load(filepath.Join(*configDir, ".env"))

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AddConfigPath(*configDir)
	v.SetConfigName("app")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be defaulted
func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.PostgresConn == "" {
			return errors.New("POSTGRES_CONN is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.ServerAddress == "" {
		return errors.New("SERVER_ADDRESS must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
