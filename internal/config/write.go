package config

import (
	"os"
	"path/filepath"

	"github.com/rileyhilliard/jtop/internal/errors"
	"gopkg.in/yaml.v3"
)

const fileHeader = "# jtop configuration. Every key can be overridden with a JTOP_ variable,\n" +
	"# e.g. JTOP_TEGRASTATS_INTERVAL=1s or JTOP_LOG_DEBUG=true.\n"

// Marshal renders cfg as YAML with a short header comment.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to encode config",
			"This is a bug")
	}
	return append([]byte(fileHeader), data...), nil
}

// Write validates cfg and writes it to path, creating parent directories.
// An existing file is replaced.
func Write(path string, cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	path = ExpandTilde(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create config directory",
			"Check permissions on "+filepath.Dir(path))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+path,
			"Check file permissions")
	}
	return nil
}
