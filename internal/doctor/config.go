package doctor

import (
	"fmt"

	"github.com/rileyhilliard/jtop/internal/config"
)

// ConfigFileCheck reports which config file would be used. Running on
// defaults is fine, so a missing file is only a warning.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
	WritePath  string // Where Fix writes defaults; empty means the global file
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run() CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Config file can't be read",
			Suggestion: "Check the --config path and its permissions",
		}
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file, using defaults",
			Suggestion: "Run 'jtop init' or 'jtop doctor --fix' to create one",
			Fixable:    true,
		}
	}

	return pass(c.Name(), "Config file: "+path)
}

// Fix writes a default config.
func (c *ConfigFileCheck) Fix() error {
	path := c.WritePath
	if path == "" {
		path = config.GlobalPath()
	}
	if path == "" {
		return fmt.Errorf("no home directory to write a config into")
	}
	return config.Write(path, config.DefaultConfig())
}

// ConfigSchemaCheck loads the config the way the dashboard does and
// validates it.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return CategoryConfig }

func (c *ConfigSchemaCheck) Run() CheckResult {
	cfg, _, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Config is invalid",
			Suggestion: firstLine(err.Error()),
		}
	}

	return pass(c.Name(), fmt.Sprintf("Config valid (interval %s, refresh %s, page %d)",
		cfg.Tegrastats.Interval, cfg.Refresh, cfg.Page))
}

func (c *ConfigSchemaCheck) Fix() error { return nil }

// NewConfigChecks returns the config checks for the given --config value.
func NewConfigChecks(configPath string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigSchemaCheck{ConfigPath: configPath},
	}
}
