package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values from the config file.
const (
	EnvBaseURL       = "PLAYLISTCTL_BASE_URL"
	EnvUserName      = "PLAYLISTCTL_USER"
	EnvUserPassword  = "PLAYLISTCTL_USER_PASSWORD"
	EnvAdminName     = "PLAYLISTCTL_ADMIN"
	EnvAdminPassword = "PLAYLISTCTL_ADMIN_PASSWORD"
	EnvRateLimit     = "PLAYLISTCTL_RATE_LIMIT"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API         APIConfig         `toml:"api"`
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	UI          UIConfig          `toml:"ui"`
}

// APIConfig points the client at the playlist API.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	RateLimit      float64 `toml:"rate_limit"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Timeout returns the configured per-request timeout; zero means the transport default.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// CredentialsConfig contains the fixed Basic credentials for each API role.
type CredentialsConfig struct {
	User  BasicCredentials `toml:"user"`
	Admin BasicCredentials `toml:"admin"`
}

// BasicCredentials is a username/password pair sent as HTTP Basic auth.
type BasicCredentials struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// UIConfig contains settings for the interactive shell.
type UIConfig struct {
	PageSize          int    `toml:"page_size"`
	MessageTTLSeconds int    `toml:"message_ttl_seconds"`
	PrefsPath         string `toml:"prefs_path"`
	LogFile           string `toml:"log_file"`
}

// MessageTTL returns how long flash messages stay on screen.
func (u UIConfig) MessageTTL() time.Duration {
	if u.MessageTTLSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(u.MessageTTLSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides config values with any PLAYLISTCTL_* variables found through lookup.
//
// lookup is usually [os.LookupEnv]; tests pass a map-backed function.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.API.BaseURL = v
	}
	if v, ok := lookup(EnvUserName); ok && v != "" {
		c.Credentials.User.Username = v
	}
	if v, ok := lookup(EnvUserPassword); ok {
		c.Credentials.User.Password = v
	}
	if v, ok := lookup(EnvAdminName); ok && v != "" {
		c.Credentials.Admin.Username = v
	}
	if v, ok := lookup(EnvAdminPassword); ok {
		c.Credentials.Admin.Password = v
	}
	if v, ok := lookup(EnvRateLimit); ok && v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil || limit < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number, got %q", ErrInvalidConfig, EnvRateLimit, v)
		}
		c.API.RateLimit = limit
	}
	return nil
}

// Validate reports configuration values the client cannot work with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is empty", ErrInvalidConfig)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("%w: api.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.Credentials.User.Username == "" || c.Credentials.Admin.Username == "" {
		return fmt.Errorf("%w: user and admin usernames are required", ErrMissingCredentials)
	}
	if c.UI.PageSize < 0 {
		return fmt.Errorf("%w: ui.page_size must not be negative", ErrInvalidConfig)
	}
	return nil
}
