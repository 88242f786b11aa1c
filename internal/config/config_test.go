package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, k := range []string{EnvStoreURL, EnvAPIKey, EnvSchema, EnvLogLevel, EnvHashPassword} {
		t.Setenv(k, "")
	}
}

// validConfigYAML is a minimal valid configuration.
const validConfigYAML = `
store:
  url: "https://project.supabase.co"
  api_key: "file-key"
  schema: "public"
upload:
  hash_passwords: true
  bcrypt_cost: 10
logging:
  level: "debug"
  format: "json"
`

func validConfig() *Config {
	cfg := Default()
	cfg.Store.URL = "https://project.supabase.co"
	cfg.Store.APIKey = "key"

	return cfg
}

func TestLoadConfig_Valid(t *testing.T) {
	clearEnv(t)
	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Store.URL != "https://project.supabase.co" || cfg.Store.APIKey != "file-key" {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}

	if !cfg.Upload.HashPasswords || cfg.Upload.BcryptCost != 10 {
		t.Errorf("unexpected upload config: %+v", cfg.Upload)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvStoreURL, "https://env.supabase.co")
	t.Setenv(EnvAPIKey, "env-key")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Upload.BcryptCost != 12 || cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	if cfg.Upload.HashPasswords {
		t.Error("password hashing must be opt-in")
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvHashPassword, "false")
	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Store.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env override", cfg.Store.APIKey)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want env override", cfg.Logging.Level)
	}

	if cfg.Upload.HashPasswords {
		t.Error("HashPasswords should be overridden to false")
	}
}

func TestLoadConfig_MissingCredentials(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig("")
	if !errors.Is(err, ErrMissingStoreURL) {
		t.Fatalf("expected ErrMissingStoreURL, got %v", err)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "invalid: yaml: content: [}")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestApplyEnv_InvalidBool(t *testing.T) {
	cfg := validConfig()
	lookup := func(k string) (string, bool) {
		if k == EnvHashPassword {
			return "maybe", true
		}
		return "", false
	}

	if err := cfg.ApplyEnv(lookup); !errors.Is(err, ErrInvalidBool) {
		t.Fatalf("expected ErrInvalidBool, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing url", mutate: func(c *Config) { c.Store.URL = "  " }, wantErr: ErrMissingStoreURL},
		{name: "relative url", mutate: func(c *Config) { c.Store.URL = "project.supabase.co" }, wantErr: ErrInvalidStoreURL},
		{name: "bad scheme", mutate: func(c *Config) { c.Store.URL = "ftp://project" }, wantErr: ErrInvalidStoreURL},
		{name: "missing key", mutate: func(c *Config) { c.Store.APIKey = "" }, wantErr: ErrMissingAPIKey},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: ErrInvalidLogLevel},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: ErrInvalidLogFormat},
		{
			name:    "cost too high when hashing",
			mutate:  func(c *Config) { c.Upload.HashPasswords = true; c.Upload.BcryptCost = 40 },
			wantErr: ErrInvalidBcryptCost,
		},
		{
			name:   "cost ignored when not hashing",
			mutate: func(c *Config) { c.Upload.BcryptCost = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_OverrideLogLevel(t *testing.T) {
	cfg := validConfig()

	if err := cfg.OverrideLogLevel("debug"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}

	if err := cfg.OverrideLogLevel("verbose"); !errors.Is(err, ErrInvalidLogLevel) {
		t.Fatalf("expected ErrInvalidLogLevel, got %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvAPIKey)

	path := filepath.Join(t.TempDir(), ".env")
	content := EnvStoreURL + "=https://dotenv.supabase.co\n" + EnvAPIKey + "=dotenv-key\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	// An already-set variable wins over the file.
	t.Setenv(EnvStoreURL, "https://shell.supabase.co")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}

	if got := os.Getenv(EnvStoreURL); got != "https://shell.supabase.co" {
		t.Errorf("%s = %q, shell value should win", EnvStoreURL, got)
	}

	if got := os.Getenv(EnvAPIKey); got != "dotenv-key" {
		t.Errorf("%s = %q, want value from file", EnvAPIKey, got)
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}

func TestConfig_StringMasksKey(t *testing.T) {
	cfg := validConfig()
	cfg.Store.APIKey = "supersecretkey"

	s := cfg.String()
	if strings.Contains(s, "supersecretkey") {
		t.Errorf("String leaked api key: %s", s)
	}

	if !strings.Contains(s, "**********tkey") {
		t.Errorf("String should keep last 4 chars: %s", s)
	}
}
