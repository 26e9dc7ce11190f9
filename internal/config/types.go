package config

import "time"

// Defaults used when a key is absent from every config source.
const (
	DefaultTegrastatsPath = "/usr/bin/tegrastats"
	DefaultInterval       = 500 * time.Millisecond
	DefaultRefresh        = 500 * time.Millisecond
	DefaultPage           = 1
	DefaultHistory        = 120
	DefaultLogMaxSizeMB   = 5
	DefaultLogMaxBackups  = 3
)

// Config represents the complete jtop configuration file.
type Config struct {
	Tegrastats TegrastatsConfig `yaml:"tegrastats" mapstructure:"tegrastats"`

	// Refresh is the dashboard frame period. It is independent of the
	// tegrastats sampling interval.
	Refresh time.Duration `yaml:"refresh" mapstructure:"refresh"`

	// Page is the 1-based page shown at startup.
	Page int `yaml:"page" mapstructure:"page"`

	// History is the number of samples kept per graph series.
	History int `yaml:"history" mapstructure:"history"`

	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// TegrastatsConfig controls the sampling process.
type TegrastatsConfig struct {
	// Path to the tegrastats binary.
	Path string `yaml:"path" mapstructure:"path"`

	// Interval between samples, passed as --interval in milliseconds.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// LogConfig controls the diagnostic log. While the dashboard owns the
// terminal, logs only go to File; an empty File discards them.
type LogConfig struct {
	File       string `yaml:"file,omitempty" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	Debug      bool   `yaml:"debug" mapstructure:"debug"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Tegrastats: TegrastatsConfig{
			Path:     DefaultTegrastatsPath,
			Interval: DefaultInterval,
		},
		Refresh: DefaultRefresh,
		Page:    DefaultPage,
		History: DefaultHistory,
		Log: LogConfig{
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
		},
	}
}
