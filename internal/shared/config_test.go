package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://localhost:8080" {
			t.Errorf("expected base URL http://localhost:8080, got %s", config.API.BaseURL)
		}

		if config.Credentials.User.Username != "user" || config.Credentials.User.Password != "user123" {
			t.Errorf("unexpected user credentials: %+v", config.Credentials.User)
		}

		if config.Credentials.Admin.Username != "admin" || config.Credentials.Admin.Password != "admin123" {
			t.Errorf("unexpected admin credentials: %+v", config.Credentials.Admin)
		}

		if config.UI.PageSize != 10 {
			t.Errorf("expected page size 10, got %d", config.UI.PageSize)
		}

		if config.UI.MessageTTL() != 5*time.Second {
			t.Errorf("expected message TTL 5s, got %v", config.UI.MessageTTL())
		}

		if config.API.Timeout() != 0 {
			t.Errorf("expected transport default timeout, got %v", config.API.Timeout())
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "http://lists.internal:9090"
rate_limit = 2.5
timeout_seconds = 30

[credentials.admin]
username = "root"
password = "secret"

[ui]
page_size = 25
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "http://lists.internal:9090" {
			t.Errorf("expected custom base URL, got %s", config.API.BaseURL)
		}
		if config.API.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.API.RateLimit)
		}
		if config.API.Timeout() != 30*time.Second {
			t.Errorf("expected 30s timeout, got %v", config.API.Timeout())
		}
		if config.Credentials.Admin.Username != "root" {
			t.Errorf("expected admin username root, got %s", config.Credentials.Admin.Username)
		}
		if config.Credentials.User.Username != "user" {
			t.Errorf("expected user credentials to keep defaults, got %s", config.Credentials.User.Username)
		}
		if config.UI.PageSize != 25 {
			t.Errorf("expected page size 25, got %d", config.UI.PageSize)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api\nbase_url ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		config := DefaultConfig()
		err := config.ApplyEnv(mapLookup(map[string]string{
			EnvBaseURL:       "http://env:8080",
			EnvAdminPassword: "changed",
			EnvRateLimit:     "4",
		}))
		if err != nil {
			t.Fatalf("ApplyEnv failed: %v", err)
		}

		if config.API.BaseURL != "http://env:8080" {
			t.Errorf("expected env base URL, got %s", config.API.BaseURL)
		}
		if config.Credentials.Admin.Password != "changed" {
			t.Errorf("expected env admin password, got %s", config.Credentials.Admin.Password)
		}
		if config.Credentials.Admin.Username != "admin" {
			t.Errorf("admin username should be untouched, got %s", config.Credentials.Admin.Username)
		}
		if config.API.RateLimit != 4 {
			t.Errorf("expected rate limit 4, got %v", config.API.RateLimit)
		}
	})

	t.Run("ApplyEnv Invalid Rate", func(t *testing.T) {
		config := DefaultConfig()
		err := config.ApplyEnv(mapLookup(map[string]string{EnvRateLimit: "fast"}))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		config.API.BaseURL = ""
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for empty base URL, got %v", err)
		}

		config = DefaultConfig()
		config.Credentials.Admin.Username = ""
		if err := config.Validate(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}
