package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds uuidify service connection details
type APIConfig struct {
	URL     string        `mapstructure:"url"`
	Key     string        `mapstructure:"key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// BatchConfig controls the batch command
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// OutputConfig controls how identifiers are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Check  bool   `mapstructure:"check"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
