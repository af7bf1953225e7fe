// Package config persists heph's provider settings in a YAML file under the
// user's config directory and layers environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default values for Config.
const (
	DefaultModel          = "gpt-3.5-turbo"
	DefaultMaxTokens      = 1000
	DefaultTemperature    = 0.0
	DefaultTimeoutSeconds = 60

	fileName = "config.yaml"
)

// ErrNotConfigured is returned when no API token is available.
var ErrNotConfigured = errors.New("heph is not configured")

// Config represents the config.yaml file.
type Config struct {
	APIToken       string  `yaml:"api_token"`
	Model          string  `yaml:"model"`
	BaseURL        string  `yaml:"base_url,omitempty"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	PromptTemplate string  `yaml:"prompt_template,omitempty"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Model:          DefaultModel,
		MaxTokens:      DefaultMaxTokens,
		Temperature:    DefaultTemperature,
		TimeoutSeconds: DefaultTimeoutSeconds,
	}
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Configured reports whether a token is present.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.APIToken) != ""
}

// MaskedToken shows only the first three and last four characters of the token.
func (c Config) MaskedToken() string {
	token := strings.TrimSpace(c.APIToken)
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:3] + "..." + token[len(token)-4:]
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Validate checks that all config values are usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return ValidationError{Field: "model", Message: "must not be empty"}
	}
	if c.MaxTokens <= 0 {
		return ValidationError{Field: "max_tokens", Message: "must be positive"}
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return ValidationError{Field: "temperature", Message: "must be between 0 and 2"}
	}
	if c.TimeoutSeconds <= 0 {
		return ValidationError{Field: "timeout_seconds", Message: "must be positive"}
	}
	return nil
}

// ApplyEnv overrides file values with OPENAI_API_KEY, OPENAI_API_BASE and OPENAI_API_MODEL.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.APIToken = v
	}
	c.ApplyEnvEndpoint()
	if v := os.Getenv("OPENAI_API_MODEL"); v != "" {
		c.Model = v
	}
}

// ApplyEnvEndpoint overrides only the base URL from OPENAI_API_BASE.
func (c *Config) ApplyEnvEndpoint() {
	if v := os.Getenv("OPENAI_API_BASE"); v != "" {
		c.BaseURL = v
	}
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Store reads and writes config.yaml in a directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir resolves HEPH_CONFIG_DIR, then $XDG_CONFIG_HOME/heph, then ~/.config/heph.
func DefaultDir() (string, error) {
	if dir := os.Getenv("HEPH_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "heph"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "heph"), nil
}

// Path returns the location of config.yaml.
func (s *Store) Path() string {
	return filepath.Join(s.dir, fileName)
}

// ReadFile parses config.yaml without environment overrides.
// If the file doesn't exist, returns default config.
func (s *Store) ReadFile() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Load reads config.yaml, applies environment overrides and validates the result.
func (s *Store) Load() (*Config, error) {
	cfg, err := s.ReadFile()
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save validates cfg and writes it with owner-only permissions.
func (s *Store) Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(s.Path(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
