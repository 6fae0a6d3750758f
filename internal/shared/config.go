package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// APIOfficial and APILegacy select which MAL endpoint generation the fetcher paginates.
const (
	APIOfficial = "official"
	APILegacy   = "legacy"
)

// Config represents the application configuration loaded from a TOML file,
// with environment variables taking precedence over file values.
type Config struct {
	Gist      GistConfig      `toml:"gist"`
	MAL       MALConfig       `toml:"mal"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
	Server    ServerConfig    `toml:"server"`
}

// GistConfig contains the gist target and GitHub credentials.
type GistConfig struct {
	ID    string `toml:"id"`
	Token string `toml:"token"`
}

// MALConfig contains MyAnimeList account settings and API credentials.
type MALConfig struct {
	Username      string `toml:"username"`
	ContentType   string `toml:"content_type"`
	ContentStatus string `toml:"content_status"`
	ClientID      string `toml:"client_id"`
	AccessToken   string `toml:"access_token"`
	API           string `toml:"api"`
}

// RateLimitConfig contains the publish gate settings.
type RateLimitConfig struct {
	Path          string `toml:"path"`
	IntervalHours int    `toml:"interval_hours"`
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path,
// then applies environment variable overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with defaults loaded from the embedded example
// config and environment variable overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// applyEnv overlays environment variables onto the config.
func (c *Config) applyEnv() {
	for _, kv := range []struct {
		key  string
		dest *string
	}{
		{"GIST_ID", &c.Gist.ID},
		{"GH_TOKEN", &c.Gist.Token},
		{"MAL_USERNAME", &c.MAL.Username},
		{"CONTENT_TYPE", &c.MAL.ContentType},
		{"CONTENT_STATUS", &c.MAL.ContentStatus},
		{"MAL_CLIENT_ID", &c.MAL.ClientID},
		{"MAL_ACCESS_TOKEN", &c.MAL.AccessToken},
	} {
		if v, ok := os.LookupEnv(kv.key); ok && v != "" {
			*kv.dest = v
		}
	}
}

// Validate checks all settings at once and returns every problem found as a
// single aggregated error wrapping [ErrInvalidConfig].
func (c *Config) Validate() error {
	var errs []error

	if c.Gist.ID == "" {
		errs = append(errs, fmt.Errorf("gist.id (GIST_ID) is required"))
	}
	if c.Gist.Token == "" {
		errs = append(errs, fmt.Errorf("gist.token (GH_TOKEN) is required"))
	}
	if c.MAL.Username == "" {
		errs = append(errs, fmt.Errorf("mal.username (MAL_USERNAME) is required"))
	}
	switch c.MAL.ContentType {
	case "anime", "manga":
	default:
		errs = append(errs, fmt.Errorf("mal.content_type (CONTENT_TYPE) must be \"anime\" or \"manga\", got %q", c.MAL.ContentType))
	}
	switch c.MAL.ContentStatus {
	case "current", "completed", "on-hold", "dropped":
	default:
		errs = append(errs, fmt.Errorf("mal.content_status (CONTENT_STATUS) must be one of current, completed, on-hold, dropped; got %q", c.MAL.ContentStatus))
	}
	switch c.MAL.API {
	case APIOfficial, APILegacy:
	default:
		errs = append(errs, fmt.Errorf("mal.api must be %q or %q, got %q", APIOfficial, APILegacy, c.MAL.API))
	}
	if c.RateLimit.IntervalHours < 0 {
		errs = append(errs, fmt.Errorf("ratelimit.interval_hours must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SaveConfig writes the config back to the given path as TOML.
func SaveConfig(path string, config *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
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
