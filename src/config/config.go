package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"pyls-manager/src/internal/registry"
)

// Valid download channels.
const (
	ChannelStable = "stable"
	ChannelBeta   = "beta"
	ChannelDaily  = "daily"
)

// Config contains the resolver and debug adapter configuration
type Config struct {
	LanguageServer LanguageServerConfig `yaml:"language_server"`
	HTTP           HTTPConfig           `yaml:"http"`
	Debug          DebugConfig          `yaml:"debug"`
}

// LanguageServerConfig controls distribution resolution and download
type LanguageServerConfig struct {
	Product          string `yaml:"product"`
	Channel          string `yaml:"channel"`
	AutoUpdate       bool   `yaml:"auto_update"`
	Download         bool   `yaml:"download"`
	DistributionsDir string `yaml:"distributions_dir,omitempty"`
	StateFile        string `yaml:"state_file,omitempty"`
}

// HTTPConfig controls outbound HTTP behavior for feed queries and downloads
type HTTPConfig struct {
	Proxy          string `yaml:"proxy,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// DebugConfig carries the debug adapter defaults
type DebugConfig struct {
	PythonPath       string `yaml:"python_path,omitempty"`
	DebugAdapterPath string `yaml:"debug_adapter_path,omitempty"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	// Validate config
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateDefaultConfig generates a default configuration file
func GenerateDefaultConfig(path string) error {
	config := GetDefaultConfig()
	return SaveConfig(config, path)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	switch config.LanguageServer.Channel {
	case ChannelStable, ChannelBeta, ChannelDaily:
	default:
		return fmt.Errorf("unknown channel %q (expected stable, beta or daily)", config.LanguageServer.Channel)
	}

	if err := registry.ValidateProduct(config.LanguageServer.Product); err != nil {
		return err
	}

	if config.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http timeout must be positive, got %d", config.HTTP.TimeoutSeconds)
	}

	return nil
}

// applyDefaults fills in the fields a hand-written config commonly omits
func applyDefaults(config *Config) {
	if config.LanguageServer.Product == "" {
		config.LanguageServer.Product = "python"
	}
	if config.LanguageServer.Channel == "" {
		config.LanguageServer.Channel = ChannelStable
	}
	if config.LanguageServer.DistributionsDir == "" {
		config.LanguageServer.DistributionsDir = GetDefaultDistributionsDir()
	}
	if config.LanguageServer.StateFile == "" {
		config.LanguageServer.StateFile = GetDefaultStateFile()
	}
	if config.HTTP.TimeoutSeconds == 0 {
		config.HTTP.TimeoutSeconds = 30
	}
}

// HTTPTimeout returns the configured outbound HTTP timeout
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pyls-manager", "config.yaml")
}

// GetDefaultDistributionsDir returns the default parent directory scanned for
// installed distributions
func GetDefaultDistributionsDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pyls-manager", "languageServers")
}

// GetDefaultStateFile returns the default persisted state file path
func GetDefaultStateFile() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pyls-manager", "state.yaml")
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	config := &Config{
		LanguageServer: LanguageServerConfig{
			Product:    "python",
			Channel:    ChannelStable,
			AutoUpdate: true,
			Download:   true,
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
		},
	}
	applyDefaults(config)
	return config
}
