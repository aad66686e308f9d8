package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all FinSight client configuration.
type Config struct {
	// API endpoint configuration
	API APIConfig `yaml:"api"`

	// UI preferences
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the FinSight API connection.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// UIConfig configures the interactive interface.
type UIConfig struct {
	// Profile selects the chat persona: "newtimer" or "veteran".
	Profile string `yaml:"profile"`

	// Theme forces "light" or "dark"; empty means auto-detect.
	Theme string `yaml:"theme"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
// The base URL default mirrors the dev server; production deployments
// set FINSIGHT_API_URL or the config file.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: "60s",
		},
		UI: UIConfig{
			Profile: "veteran",
		},
		Logging: LoggingConfig{
			Debug: false,
			Level: "info",
		},
	}
}

// Dir returns the per-user FinSight directory (~/.finsight).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".finsight"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from a YAML file, falling back to defaults
// when the file is absent, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("FINSIGHT_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if timeout := os.Getenv("FINSIGHT_TIMEOUT"); timeout != "" {
		c.API.Timeout = timeout
	}
	if profile := os.Getenv("FINSIGHT_PROFILE"); profile != "" {
		c.UI.Profile = profile
	}
	if os.Getenv("FINSIGHT_DEBUG") == "1" {
		c.Logging.Debug = true
		c.Logging.Level = "debug"
	}
}

// GetTimeout returns the API request timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// ValidProfiles lists the supported chat profiles.
var ValidProfiles = []string{"newtimer", "veteran"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL not configured (set FINSIGHT_API_URL or api.base_url)")
	}

	validProfile := false
	for _, p := range ValidProfiles {
		if c.UI.Profile == p {
			validProfile = true
			break
		}
	}
	if !validProfile {
		return fmt.Errorf("invalid profile: %s (valid: %v)", c.UI.Profile, ValidProfiles)
	}

	return nil
}
