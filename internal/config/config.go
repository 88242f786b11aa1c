// Package config provides configuration management for the upload tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"usersync/pkg/utils"
)

// Environment variables that override file settings.
const (
	EnvStoreURL     = "SUPABASE_URL"
	EnvAPIKey       = "SUPABASE_KEY"
	EnvSchema       = "SUPABASE_SCHEMA"
	EnvLogLevel     = "USERSYNC_LOG_LEVEL"
	EnvHashPassword = "USERSYNC_HASH_PASSWORDS"
)

// Configuration validation errors.
var (
	ErrMissingStoreURL   = errors.New("store.url is required (or set " + EnvStoreURL + ")")
	ErrInvalidStoreURL   = errors.New("store.url must be an absolute http(s) URL")
	ErrMissingAPIKey     = errors.New("store.api_key is required (or set " + EnvAPIKey + ")")
	ErrInvalidLogLevel   = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat  = errors.New("logging.format must be 'text' or 'json'")
	ErrInvalidBcryptCost = errors.New("upload.bcrypt_cost is out of range")
	ErrInvalidBool       = errors.New("invalid boolean value")
)

// Config represents the complete uploader configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Upload  UploadConfig  `yaml:"upload"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig locates and authenticates against the table store.
type StoreConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	Schema string `yaml:"schema"`
}

// UploadConfig controls how rows are prepared before insertion.
type UploadConfig struct {
	HashPasswords bool `yaml:"hash_passwords"`
	BcryptCost    int  `yaml:"bcrypt_cost"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with defaults filled in and no credentials.
func Default() *Config {
	return &Config{
		Upload: UploadConfig{
			BcryptCost: 12,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadEnvFile loads variables from a dotenv file without overriding ones
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}

	return nil
}

// LoadConfig builds the configuration from defaults, an optional YAML file and
// the environment, in that order, then validates it.
func LoadConfig(filepath string) (*Config, error) {
	cfg := Default()

	if filepath != "" {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from environment lookups.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvStoreURL); ok && v != "" {
		c.Store.URL = v
	}

	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.Store.APIKey = v
	}

	if v, ok := lookup(EnvSchema); ok && v != "" {
		c.Store.Schema = v
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}

	if v, ok := lookup(EnvHashPassword); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidBool, EnvHashPassword, v)
		}
		c.Upload.HashPasswords = b
	}

	return nil
}

// OverrideLogLevel applies a command-line level and revalidates the result.
func (c *Config) OverrideLogLevel(level string) error {
	c.Logging.Level = level

	if err := c.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store.URL) == "" {
		return ErrMissingStoreURL
	}

	if !utils.NewHTTPHelper().IsValidURL(c.Store.URL) {
		return fmt.Errorf("%w: %q", ErrInvalidStoreURL, c.Store.URL)
	}

	if strings.TrimSpace(c.Store.APIKey) == "" {
		return ErrMissingAPIKey
	}

	if c.Upload.HashPasswords && (c.Upload.BcryptCost < bcrypt.MinCost || c.Upload.BcryptCost > bcrypt.MaxCost) {
		return fmt.Errorf("%w: %d", ErrInvalidBcryptCost, c.Upload.BcryptCost)
	}

	// Validate logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// String returns a string representation of the config with the key masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Store: %s, APIKey: %s, Schema: %q, HashPasswords: %t}",
		c.Store.URL,
		utils.NewStringHelper().Mask(c.Store.APIKey, 4),
		c.Store.Schema,
		c.Upload.HashPasswords,
	)
}
