// Package board identifies the Jetson the dashboard runs on.
package board

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Unknown is reported for any field that could not be detected.
const Unknown = "UNKNOWN"

// Files read by Detect, relative to the root it is given.
const (
	ModelPath   = "proc/device-tree/model"
	ReleasePath = "etc/nv_tegra_release"
)

// Info describes the board.
type Info struct {
	Machine  string // e.g. "NVIDIA Jetson Nano Developer Kit"
	L4T      string // e.g. "32.7.1"
	Jetpack  string // e.g. "4.6.1"
	Hostname string
}

// jetpackByL4T maps L4T releases to the JetPack that shipped them.
var jetpackByL4T = map[string]string{
	"36.4.3": "6.2",
	"36.4.0": "6.1",
	"36.3.0": "6.0",
	"35.6.0": "5.1.4",
	"35.5.0": "5.1.3",
	"35.4.1": "5.1.2",
	"35.3.1": "5.1.1",
	"35.2.1": "5.1",
	"35.1.0": "5.0.2",
	"32.7.5": "4.6.5",
	"32.7.4": "4.6.4",
	"32.7.3": "4.6.3",
	"32.7.2": "4.6.2",
	"32.7.1": "4.6.1",
	"32.6.1": "4.6",
	"32.5.1": "4.5.1",
	"32.5.0": "4.5",
	"32.4.4": "4.4.1",
	"32.4.3": "4.4",
	"32.4.2": "4.4 DP",
	"32.3.1": "4.3",
	"32.2.1": "4.2.2",
	"32.2.0": "4.2.1",
	"32.1.0": "4.2",
	"31.1.0": "4.1.1",
	"28.2.1": "3.3",
	"28.2.0": "3.2.1",
	"28.1.0": "3.1",
}

// "# R32 (release), REVISION: 7.1, GCID: 29818004, BOARD: t210ref, ..."
var releaseRe = regexp.MustCompile(`R(\d+) \(release\), REVISION: (\d+(?:\.\d+)*)`)

// Detect reads the board identity from the filesystem under root ("/" on a
// real board). Missing or unreadable files leave the matching fields Unknown.
func Detect(root string) Info {
	info := Info{
		Machine:  Unknown,
		L4T:      Unknown,
		Jetpack:  Unknown,
		Hostname: Unknown,
	}

	if data, err := os.ReadFile(filepath.Join(root, ModelPath)); err == nil {
		if model := cleanModel(string(data)); model != "" {
			info.Machine = model
		}
	}

	if data, err := os.ReadFile(filepath.Join(root, ReleasePath)); err == nil {
		if l4t := ParseRelease(string(data)); l4t != "" {
			info.L4T = l4t
			info.Jetpack = JetpackFor(l4t)
		}
	}

	if host, err := os.Hostname(); err == nil && host != "" {
		info.Hostname = host
	}
	return info
}

// ParseRelease extracts the L4T version from nv_tegra_release contents, or
// returns "" if the header is not recognized.
func ParseRelease(content string) string {
	m := releaseRe.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return normalizeVersion(m[1] + "." + m[2])
}

// JetpackFor maps an L4T release to its JetPack version.
func JetpackFor(l4t string) string {
	if jp, ok := jetpackByL4T[normalizeVersion(l4t)]; ok {
		return jp
	}
	return Unknown
}

// Elevated reports whether the process runs as root. Some tegrastats rails
// and clocks are only readable with elevated privileges.
func Elevated() bool {
	return os.Geteuid() == 0
}

// cleanModel strips the NUL terminator device-tree strings carry.
func cleanModel(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

// normalizeVersion pads "32.7" to "32.7.0" so table lookups match.
func normalizeVersion(v string) string {
	if strings.Count(v, ".") == 1 {
		return v + ".0"
	}
	return v
}
