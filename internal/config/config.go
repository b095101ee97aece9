// Package config loads the application configuration from an optional YAML
// file with environment-variable overrides. The resulting struct is injected
// into the store writer, so tests never touch the environment or a fixed
// config path.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// URL renders the connection string understood by pgx.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User), url.QueryEscape(d.Password), d.Host, d.Port, d.Name, d.SSLMode)
}

// Load reads the YAML file at path (skipped when path is empty), then applies
// POSTGRES_* environment variables on top. A .env file is honoured if
// present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if cfg.Database.User == "" {
		return nil, fmt.Errorf("database user is required (set database.user or POSTGRES_USER)")
	}
	if cfg.Database.Name == "" {
		return nil, fmt.Errorf("database name is required (set database.name or POSTGRES_DATABASE)")
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v, ok := os.LookupEnv("POSTGRES_HOST"); ok {
		cfg.Database.Host = v
	}
	if v, ok := os.LookupEnv("POSTGRES_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid POSTGRES_PORT %q: %w", v, err)
		}
		cfg.Database.Port = port
	}
	if v, ok := os.LookupEnv("POSTGRES_USER"); ok {
		cfg.Database.User = v
	}
	if v, ok := os.LookupEnv("POSTGRES_PASSWORD"); ok {
		cfg.Database.Password = v
	}
	if v, ok := os.LookupEnv("POSTGRES_DATABASE"); ok {
		cfg.Database.Name = v
	}
	if v, ok := os.LookupEnv("POSTGRES_SSLMODE"); ok {
		cfg.Database.SSLMode = v
	}
	return nil
}
