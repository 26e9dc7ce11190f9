package board

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDetect(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ModelPath, "NVIDIA Jetson Nano Developer Kit\x00")
	writeFile(t, root, ReleasePath,
		"# R32 (release), REVISION: 7.1, GCID: 29818004, BOARD: t210ref, EABI: aarch64, DATE: Sat Feb 19 17:05:08 UTC 2022\n"+
			"# KERNEL_VARIANT: oot\n")

	info := Detect(root)
	assert.Equal(t, "NVIDIA Jetson Nano Developer Kit", info.Machine)
	assert.Equal(t, "32.7.1", info.L4T)
	assert.Equal(t, "4.6.1", info.Jetpack)
	assert.NotEmpty(t, info.Hostname)
}

func TestDetect_MissingFiles(t *testing.T) {
	info := Detect(t.TempDir())

	assert.Equal(t, Unknown, info.Machine)
	assert.Equal(t, Unknown, info.L4T)
	assert.Equal(t, Unknown, info.Jetpack)
}

func TestDetect_UnknownRelease(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ReleasePath, "# R99 (release), REVISION: 1.0, GCID: 1\n")

	info := Detect(root)
	assert.Equal(t, "99.1.0", info.L4T)
	assert.Equal(t, Unknown, info.Jetpack)
}

func TestParseRelease(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"three part", "# R35 (release), REVISION: 4.1, GCID: 33958178", "35.4.1"},
		{"two part revision", "# R36 (release), REVISION: 3.0", "36.3.0"},
		{"single revision", "# R28 (release), REVISION: 1", "28.1.0"},
		{"garbage", "hello", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRelease(tt.content))
		})
	}
}

func TestJetpackFor(t *testing.T) {
	assert.Equal(t, "5.1.2", JetpackFor("35.4.1"))
	assert.Equal(t, "3.1", JetpackFor("28.1"))
	assert.Equal(t, Unknown, JetpackFor("1.2.3"))
}

func TestElevated(t *testing.T) {
	assert.Equal(t, os.Geteuid() == 0, Elevated())
}
