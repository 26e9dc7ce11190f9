package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/jtop/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "/usr/bin/tegrastats", cfg.Tegrastats.Path)
	assert.Equal(t, 500*time.Millisecond, cfg.Tegrastats.Interval)
	assert.Equal(t, 500*time.Millisecond, cfg.Refresh)
	assert.Equal(t, 1, cfg.Page)
	assert.Equal(t, 120, cfg.History)
	assert.Empty(t, cfg.Log.File)
	assert.Equal(t, 5, cfg.Log.MaxSizeMB)
	assert.Equal(t, 3, cfg.Log.MaxBackups)
	assert.False(t, cfg.Log.Debug)
	assert.NoError(t, Validate(cfg))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)

	content := `
tegrastats:
  path: /opt/tegrastats
  interval: 1s
refresh: 250ms
page: 2
history: 300
log:
  file: /tmp/jtop.log
  debug: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/opt/tegrastats", cfg.Tegrastats.Path)
	assert.Equal(t, time.Second, cfg.Tegrastats.Interval)
	assert.Equal(t, 250*time.Millisecond, cfg.Refresh)
	assert.Equal(t, 2, cfg.Page)
	assert.Equal(t, 300, cfg.History)
	assert.Equal(t, "/tmp/jtop.log", cfg.Log.File)
	assert.True(t, cfg.Log.Debug)
	// Keys missing from the file keep their defaults.
	assert.Equal(t, 5, cfg.Log.MaxSizeMB)
	assert.Equal(t, 3, cfg.Log.MaxBackups)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("refresh: [oops"), 0o644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_InvalidDuration(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("refresh: soon\n"), 0o644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_EnvOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("refresh: 250ms\npage: 2\n"), 0o644))

	t.Setenv("JTOP_REFRESH", "1s")
	t.Setenv("JTOP_TEGRASTATS_INTERVAL", "2s")
	t.Setenv("JTOP_LOG_DEBUG", "true")

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Refresh, "env wins over the file")
	assert.Equal(t, 2*time.Second, cfg.Tegrastats.Interval, "env fills keys missing from the file")
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, 2, cfg.Page)
}

func TestLoad_ExpandsPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	t.Setenv("JTOP_TEST_BIN", "/opt/nvidia")
	require.NoError(t, os.WriteFile(configPath,
		[]byte("tegrastats:\n  path: ${JTOP_TEST_BIN}/tegrastats\nlog:\n  file: ~/jtop.log\n"), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "/opt/nvidia/tegrastats", cfg.Tegrastats.Path)
	assert.Equal(t, filepath.Join(home, "jtop.log"), cfg.Log.File)
}

func TestFind(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("page: 1\n"), 0o644))

		found, err := Find(configPath)
		require.NoError(t, err)
		assert.Equal(t, configPath, found)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := Find(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})

	t.Run("current directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		t.Setenv("HOME", t.TempDir())
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("page: 1\n"), 0o644))

		found, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, ConfigFileName, filepath.Base(found))
	})

	t.Run("global config", func(t *testing.T) {
		t.Chdir(t.TempDir())
		home := t.TempDir()
		t.Setenv("HOME", home)
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		require.NoError(t, os.MkdirAll(filepath.Dir(global), 0o755))
		require.NoError(t, os.WriteFile(global, []byte("page: 1\n"), 0o644))

		found, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, global, found)
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("HOME", t.TempDir())

		found, err := Find("")
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("defaults with env overrides", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("HOME", t.TempDir())
		t.Setenv("JTOP_HISTORY", "42")

		cfg, path, err := LoadOrDefault("")
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Equal(t, 42, cfg.History)
		assert.Equal(t, DefaultRefresh, cfg.Refresh)
	})

	t.Run("dotenv", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		t.Setenv("HOME", t.TempDir())
		// Registered so the variable is restored after the test.
		t.Setenv("JTOP_PAGE", "")
		require.NoError(t, os.Unsetenv("JTOP_PAGE"))
		require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("JTOP_PAGE=3\n"), 0o644))

		cfg, _, err := LoadOrDefault("")
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Page)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("HOME", t.TempDir())
		t.Setenv("JTOP_REFRESH", "1ms")

		_, _, err := LoadOrDefault("")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), DotEnvFile)), "missing file is fine")

	path := filepath.Join(t.TempDir(), DotEnvFile)
	t.Setenv("JTOP_LOG_DEBUG", "false")
	require.NoError(t, os.WriteFile(path, []byte("JTOP_LOG_DEBUG=true\n"), 0o644))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "false", os.Getenv("JTOP_LOG_DEBUG"), "existing variables win")
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/logs/jtop.log", filepath.Join(home, "logs/jtop.log")},
		{"/var/log/jtop.log", "/var/log/jtop.log"},
		{"~other/x", "~other/x"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandTilde(tt.in))
		})
	}
}
