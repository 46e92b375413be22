package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/uuidify/uuidify-go/uuidify"
)

// EnvPrefix prefixes every environment override, e.g. UUIDIFY_API_KEY
const EnvPrefix = "UUIDIFY"

// Load loads the configuration from file, environment and defaults.
// A missing config file is not an error unless configPath names one explicitly.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("uuidify")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".uuidify"))
		}

		// Check /etc
		v.AddConfigPath("/etc/uuidify/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.url", uuidify.DefaultBaseURL)
	v.SetDefault("api.key", "")
	v.SetDefault("api.timeout", uuidify.DefaultTimeout)

	v.SetDefault("batch.concurrency", uuidify.DefaultConcurrency)

	// Output defaults
	v.SetDefault("output.format", "text")
	v.SetDefault("output.check", false)

	// Logging defaults
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// Validate re-checks the configuration, e.g. after command line overrides
func (c *Config) Validate() error {
	return validate(c)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.URL == "" {
		return fmt.Errorf("api.url is required")
	}
	if !strings.HasPrefix(cfg.API.URL, "http://") && !strings.HasPrefix(cfg.API.URL, "https://") {
		return fmt.Errorf("api.url must start with http:// or https://: %s", cfg.API.URL)
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive: %s", cfg.API.Timeout)
	}

	if cfg.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1: %d", cfg.Batch.Concurrency)
	}

	validOutputs := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s", cfg.Output.Format)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
