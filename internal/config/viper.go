// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. KAKEIBO_LOG_LEVEL.
const EnvPrefix = "KAKEIBO"

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Encoding struct {
		// MinConfidence is the chardet confidence (0-100) below which the
		// normalizer falls back to trial decoding.
		MinConfidence int `mapstructure:"min_confidence" yaml:"min_confidence"`
	} `mapstructure:"encoding" yaml:"encoding"`

	Database struct {
		URL      string `mapstructure:"url" yaml:"-"`
		MaxConns int32  `mapstructure:"max_conns" yaml:"max_conns"`
		MinConns int32  `mapstructure:"min_conns" yaml:"min_conns"`
	} `mapstructure:"database" yaml:"database"`

	Server struct {
		Port        int    `mapstructure:"port" yaml:"port"`
		JWTSecret   string `mapstructure:"jwt_secret" yaml:"-"`
		BodyLimitMB int    `mapstructure:"body_limit_mb" yaml:"body_limit_mb"`
	} `mapstructure:"server" yaml:"server"`

	Categories struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"categories" yaml:"categories"`
}

// InitializeConfig loads configuration from defaults, an optional config.yaml
// in the standard locations, and the environment, in increasing precedence.
func InitializeConfig() (*Config, error) {
	return InitializeConfigFrom("")
}

// InitializeConfigFrom is InitializeConfig with an explicit config file.
// An empty path searches $HOME/.kakeibo, ./.kakeibo and the working directory.
func InitializeConfigFrom(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.kakeibo")
		v.AddConfigPath(".kakeibo")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Conventional unprefixed names used by hosting platforms.
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL: %w", err)
	}
	if err := v.BindEnv("server.jwt_secret", EnvPrefix+"_SERVER_JWT_SECRET", "JWT_SECRET"); err != nil {
		return nil, fmt.Errorf("failed to bind JWT_SECRET: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("encoding.min_confidence", 50)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.body_limit_mb", 10)

	v.SetDefault("categories.file", "categories.yaml")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Encoding.MinConfidence < 0 || config.Encoding.MinConfidence > 100 {
		return fmt.Errorf("encoding.min_confidence must be between 0 and 100, got: %d", config.Encoding.MinConfidence)
	}

	if config.Database.MaxConns < 1 {
		return fmt.Errorf("database.max_conns must be at least 1, got: %d", config.Database.MaxConns)
	}
	if config.Database.MinConns < 0 || config.Database.MinConns > config.Database.MaxConns {
		return fmt.Errorf("database.min_conns must be between 0 and max_conns, got: %d", config.Database.MinConns)
	}

	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", config.Server.Port)
	}
	if config.Server.BodyLimitMB < 1 {
		return fmt.Errorf("server.body_limit_mb must be positive, got: %d", config.Server.BodyLimitMB)
	}

	return nil
}

// RequireDatabase reports an error when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	return nil
}

// RequireServer reports an error when settings needed by the HTTP API are missing.
func (c *Config) RequireServer() error {
	if err := c.RequireDatabase(); err != nil {
		return err
	}
	if len(c.Server.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	return nil
}
