package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for every environment variable read by Load.
const EnvPrefix = "MONITIZE"

// Default values applied before files and environment are read.
var defaults = map[string]any{
	"server.port":                 8080,
	"server.log_level":            "info",
	"server.max_upload_bytes":     5 * 1024 * 1024,
	"llm.gemini_api_key":          "",
	"llm.model_name":              "gemini-2.5-flash",
	"llm.image_model_name":        "gemini-2.5-flash-image",
	"llm.temperature":             0.4,
	"llm.request_timeout_seconds": 0,
	"activity.backend":            "memory",
	"activity.max_entries":        1000,
	"activity.storage_key":        "monitize_audit_trail",
	"activity.database_url":       "",
	"activity.redis_url":          "",
	"auth.jwt_secret":             "",
	"auth.token_lifetime_minutes": 60 * 24 * 30,
}

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from config files. Returns a populated Config or an error if loading or
// validation fails.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with an explicit directory to search for config.yaml.
func LoadFrom(dir string) (*Config, error) {
	v, err := newViper(dir)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadAuth loads and validates only the auth section, for tools that mint
// tokens without the rest of the server configuration.
func LoadAuth(dir string) (AuthConfig, error) {
	return loadSection(dir, "auth", func(c *Config) AuthConfig { return c.Auth })
}

// LoadActivity loads and validates only the activity section.
func LoadActivity(dir string) (ActivityConfig, error) {
	return loadSection(dir, "activity", func(c *Config) ActivityConfig { return c.Activity })
}

// loadSection unmarshals the whole tree, so environment overrides apply,
// but validates only the picked section.
func loadSection[T any](dir, name string, pick func(*Config) T) (T, error) {
	var zero T

	v, err := newViper(dir)
	if err != nil {
		return zero, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return zero, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	section := pick(&cfg)
	if err := validator.New().Struct(&section); err != nil {
		return zero, fmt.Errorf("%s config validation failed: %w", name, err)
	}
	return section, nil
}

// newViper returns a viper instance with defaults, the optional config file
// in dir and MONITIZE_ environment variables applied.
func newViper(dir string) (*viper.Viper, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}
