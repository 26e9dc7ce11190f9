package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rileyhilliard/jtop/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".jtop.yaml"
	// GlobalConfigDir is the directory for global config, relative to home.
	GlobalConfigDir = ".config/jtop"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes every environment override, e.g. JTOP_REFRESH=250ms.
	EnvPrefix = "JTOP"
	// DotEnvFile is loaded from the working directory when present.
	DotEnvFile = ".env"
)

// Load reads config from the specified path. Environment overrides are
// applied on top of the file.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'jtop init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .jtop.yaml in current directory
// 3. ~/.config/jtop/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if global := GlobalPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// GlobalPath returns ~/.config/jtop/config.yaml, or "" when the home
// directory is unknown.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// LoadOrDefault loads .env, then the config found for explicit, or the
// defaults plus environment overrides when no file exists. The result is
// validated.
func LoadOrDefault(explicit string) (*Config, string, error) {
	if err := LoadDotEnv(DotEnvFile); err != nil {
		return nil, "", err
	}

	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	var cfg *Config
	if path == "" {
		cfg, err = parseConfig(newViper(), "")
	} else {
		cfg, err = Load(path)
	}
	if err != nil {
		return nil, path, err
	}

	if err := Validate(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// LoadDotEnv exports the variables in a .env file into the process
// environment. Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to load "+path,
			"Check the file uses KEY=value lines")
	}
	return nil
}

// newViper returns a viper instance with defaults and JTOP_ env overrides.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		where := "the environment"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+where)
	}

	cfg.Tegrastats.Path = ExpandPath(cfg.Tegrastats.Path)
	cfg.Log.File = ExpandPath(cfg.Log.File)

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// are missing from the file.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("tegrastats.path", def.Tegrastats.Path)
	v.SetDefault("tegrastats.interval", def.Tegrastats.Interval.String())
	v.SetDefault("refresh", def.Refresh.String())
	v.SetDefault("page", def.Page)
	v.SetDefault("history", def.History)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.max_size_mb", def.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)
	v.SetDefault("log.debug", def.Log.Debug)
}
