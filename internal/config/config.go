// Package config loads user-level settings (TOML) and per-project scan
// settings (YAML).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the top-level user configuration.
type Config struct {
	Provider ProviderConfig `toml:"provider"`
	Generate GenerateConfig `toml:"generate"`
}

// ProviderConfig holds settings for LLM provider selection.
type ProviderConfig struct {
	Default   string                   `toml:"default"`
	Model     string                   `toml:"model"`
	Anthropic AnthropicProviderConfig  `toml:"anthropic"`
	OpenAI    []OpenAICompatibleConfig `toml:"openai_compatible"`
	Ollama    OllamaProviderConfig     `toml:"ollama"`
}

// AnthropicProviderConfig holds Anthropic-specific provider settings.
type AnthropicProviderConfig struct {
	APIKeySource string `toml:"api_key_source"`
	APIKey       string `toml:"api_key"`
}

// OpenAICompatibleConfig holds settings for an OpenAI-compatible provider.
type OpenAICompatibleConfig struct {
	Name         string            `toml:"name"`
	BaseURL      string            `toml:"base_url"`
	APIKeySource string            `toml:"api_key_source"`
	APIKey       string            `toml:"api_key"`
	ExtraHeaders map[string]string `toml:"extra_headers"`
}

// OllamaProviderConfig holds settings for a local Ollama server.
type OllamaProviderConfig struct {
	BaseURL string `toml:"base_url"`
}

// GenerateConfig holds settings for the documentation generation run.
type GenerateConfig struct {
	Concurrency       int `toml:"concurrency"`
	TimeoutSeconds    int `toml:"timeout_seconds"`
	MaxTokens         int `toml:"max_tokens"`
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Default: "anthropic",
			Model:   "claude-sonnet-4-5",
			Anthropic: AnthropicProviderConfig{
				APIKeySource: "env",
			},
			Ollama: OllamaProviderConfig{
				BaseURL: "http://localhost:11434",
			},
		},
		Generate: GenerateConfig{
			Concurrency:       3,
			TimeoutSeconds:    120,
			MaxTokens:         2048,
			RequestsPerMinute: 30,
		},
	}
}

// Load reads the TOML config at path, falling back to defaults when the file
// does not exist. Values present in the file override defaults field by field.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns the default user config location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "helpgen", "config.toml")
}

func (c *Config) validate() error {
	if c.Generate.Concurrency < 0 {
		return fmt.Errorf("generate.concurrency must be positive")
	}
	if c.Generate.TimeoutSeconds < 0 {
		return fmt.Errorf("generate.timeout_seconds must be positive")
	}
	if c.Provider.Default == "" {
		return fmt.Errorf("provider.default must be set")
	}
	return nil
}
