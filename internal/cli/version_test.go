package cli

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v, c, d string) {
	t.Helper()
	origVersion, origCommit, origDate := version, commit, date
	t.Cleanup(func() {
		version, commit, date = origVersion, origCommit, origDate
	})
	SetVersionInfo(v, c, d)
}

func TestVersionOutput(t *testing.T) {
	withVersion(t, "1.2.3", "abc1234", "2025-01-08T12:00:00Z")

	cmd := &cobra.Command{Use: "version"}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	printVersion(cmd, false)
	output := buf.String()

	assert.Contains(t, output, "jtop v1.2.3")
	assert.Contains(t, output, "commit: abc1234")
	assert.Contains(t, output, "built: 2025-01-08T12:00:00Z")
	assert.Contains(t, output, "go: "+runtime.Version())
	assert.Contains(t, output, "os/arch: "+runtime.GOOS+"/"+runtime.GOARCH)
}

func TestVersionShort(t *testing.T) {
	withVersion(t, "1.2.3", "abc1234", "2025-01-08")

	cmd := &cobra.Command{Use: "version"}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	printVersion(cmd, true)
	assert.Equal(t, "1.2.3", strings.TrimSpace(buf.String()))
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"dev", "dev"},
		{"1.0.0", "v1.0.0"},
		{"v1.0.0", "v1.0.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatVersion(tt.in))
	}
}

func TestMenuLabel(t *testing.T) {
	withVersion(t, "0.4.0", "none", "unknown")
	assert.Equal(t, "jtop v0.4.0", menuLabel())
	assert.Equal(t, "0.4.0", GetVersion())
}
