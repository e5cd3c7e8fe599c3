package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendJSONFile = "jsonfile"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the point-of-sale system.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
}

// StorageConfig selects and parameterizes the persistence backend.
type StorageConfig struct {
	Backend     string `mapstructure:"backend"`
	DataDir     string `mapstructure:"data_dir"`
	ReceiptsDir string `mapstructure:"receipts_dir"`
}

// DatabaseConfig holds PostgreSQL connection settings for the postgres
// backend.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// Load reads configuration from a YAML file, with POS_* environment
// variables taking precedence (e.g. POS_DATABASE_PASSWORD).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("storage.backend", BackendJSONFile)
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.receipts_dir", "receipts")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "restaurant_pos")

	v.SetEnvPrefix("POS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	switch cfg.Storage.Backend {
	case BackendJSONFile, BackendPostgres:
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}

	return cfg, nil
}

// DatabaseURL returns a PostgreSQL connection URL.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}
