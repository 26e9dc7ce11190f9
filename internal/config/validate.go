package config

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/jtop/internal/errors"
)

// Lower bounds enforced by Validate.
const (
	MinInterval = 100 * time.Millisecond
	MinRefresh  = 50 * time.Millisecond
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig, "No config loaded", "This is a bug")
	}

	if cfg.Tegrastats.Path == "" {
		return errors.New(errors.ErrConfig,
			"tegrastats.path is empty",
			fmt.Sprintf("Set it to the tegrastats binary, usually %s", DefaultTegrastatsPath))
	}

	if cfg.Tegrastats.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("tegrastats.interval %s is too short", cfg.Tegrastats.Interval),
			fmt.Sprintf("Use at least %s", MinInterval))
	}

	if cfg.Refresh < MinRefresh {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("refresh %s is too short", cfg.Refresh),
			fmt.Sprintf("Use at least %s", MinRefresh))
	}

	if cfg.Page < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("page %d is out of range", cfg.Page),
			"Pages are numbered from 1")
	}

	if cfg.History < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history %d is out of range", cfg.History),
			"Keep at least one sample per graph")
	}

	if err := validateLog(cfg.Log); err != nil {
		return err
	}

	return nil
}

func validateLog(l LogConfig) error {
	if l.MaxSizeMB < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("log.max_size_mb %d is negative", l.MaxSizeMB),
			"Use 0 for the default size")
	}
	if l.MaxBackups < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("log.max_backups %d is negative", l.MaxBackups),
			"Use 0 to keep every rotated file")
	}
	return nil
}
