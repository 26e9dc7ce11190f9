// Package parsers decodes vendor telemetry output into telemetry snapshots.
package parsers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rileyhilliard/jtop/internal/errors"
	"github.com/rileyhilliard/jtop/internal/telemetry"
)

// tegrastats line fragments, for example (Nano / TX2 format):
//
//	RAM 2350/3964MB (lfb 193x4MB) SWAP 0/1982MB (cached 0MB) IRAM 0/252kB(lfb 252kB)
//	CPU [10%@1428,3%@1428,off,off] EMC_FREQ 0%@1600 GR3D_FREQ 0%@76 APE 25
//	MTS fg 0% bg 0% PLL@29.5C CPU@31.5C thermal@31.25C POM_5V_IN 2242/2242
//
// and (Xavier / Orin format):
//
//	RAM 1867/7772MB (lfb 1x4MB) CPU [2%@729,off] EMC_FREQ 0% GR3D_FREQ 0%
//	cpu@43.75C VDD_IN 4049mW/4049mW
var (
	ramRe    = regexp.MustCompile(`\bRAM (\d+)/(\d+)([kKMG])B ?\(lfb (\d+)x(\d+)([kKMG])B\)`)
	swapRe   = regexp.MustCompile(`\bSWAP (\d+)/(\d+)([kKMG])B ?\(cached (\d+)([kKMG])B\)`)
	iramRe   = regexp.MustCompile(`\bIRAM (\d+)/(\d+)([kKMG])B ?\(lfb (\d+)([kKMG])B\)`)
	mtsRe    = regexp.MustCompile(`\bMTS fg (\d+(?:\.\d+)?)% bg (\d+(?:\.\d+)?)%`)
	cpuRe    = regexp.MustCompile(`\bCPU \[([^\]]*)\]`)
	coreRe   = regexp.MustCompile(`^(\d+(?:\.\d+)?)%(?:@(\d+))?$`)
	freqRe   = regexp.MustCompile(`\b(\w+)_FREQ (\d+(?:\.\d+)?)%(?:@\[?(\d+)[^\s]*)?`)
	engineRe = regexp.MustCompile(`\b(APE|NVENC\d?|NVDEC\d?|MSENC|NVJPG\d?|VIC|NVDLA\d|PVA\d) (\d+)\b`)
	tempRe   = regexp.MustCompile(`\b(\w+)@(-?\d+(?:\.\d+)?)C\b`)
	wattRe   = regexp.MustCompile(`\b([A-Z][A-Z0-9_]*) (\d+(?:\.\d+)?)(?:mW)?/(\d+(?:\.\d+)?)(?:mW)?(?:\s|$)`)
)

// memoryGroups are names that look like power rails to wattRe but are not.
var memoryGroups = map[string]bool{"RAM": true, "SWAP": true, "IRAM": true}

// ParseTegrastats decodes one tegrastats line. Groups the line does not
// report are left nil or empty. A line with no recognizable group returns an
// error together with an empty snapshot.
func ParseTegrastats(line string) (*telemetry.Snapshot, error) {
	line = strings.TrimSpace(line)
	snap := &telemetry.Snapshot{}
	if line == "" {
		return snap, errors.New(errors.ErrDecode, "empty tegrastats line", "")
	}

	snap.RAM = parseRAM(line)
	snap.Swap = parseSwap(line)
	snap.IRAM = parseIRAM(line)
	snap.MTS = parseMTS(line)
	snap.CPU = parseCPUs(line)
	snap.Engines = parseEngines(line)
	snap.Temperatures = parseTemperatures(line)
	snap.Power = parsePower(line)

	if snap.Empty() {
		return snap, errors.New(errors.ErrDecode,
			fmt.Sprintf("no tegrastats fields in %q", truncate(line, 40)), "")
	}
	return snap, nil
}

func parseRAM(line string) *telemetry.RAM {
	m := ramRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return &telemetry.RAM{
		UsedBytes:  toBytes(m[1], m[3]),
		TotalBytes: toBytes(m[2], m[3]),
		LFBBlocks:  atoi(m[4]),
		LFBBytes:   toBytes(m[5], m[6]),
	}
}

func parseSwap(line string) *telemetry.Swap {
	m := swapRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return &telemetry.Swap{
		UsedBytes:   toBytes(m[1], m[3]),
		TotalBytes:  toBytes(m[2], m[3]),
		CachedBytes: toBytes(m[4], m[5]),
	}
}

func parseIRAM(line string) *telemetry.IRAM {
	m := iramRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return &telemetry.IRAM{
		UsedBytes:  toBytes(m[1], m[3]),
		TotalBytes: toBytes(m[2], m[3]),
		LFBBytes:   toBytes(m[4], m[5]),
	}
}

func parseMTS(line string) *telemetry.MTS {
	m := mtsRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return &telemetry.MTS{Foreground: atof(m[1]), Background: atof(m[2])}
}

// parseCPUs decodes "CPU [10%@1428,3%,off]". Entries that are neither "off"
// nor a load value are dropped.
func parseCPUs(line string) []telemetry.CPU {
	m := cpuRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	var cpus []telemetry.CPU
	for i, entry := range strings.Split(m[1], ",") {
		entry = strings.TrimSpace(entry)
		if entry == "off" {
			cpus = append(cpus, telemetry.CPU{Index: i})
			continue
		}
		cm := coreRe.FindStringSubmatch(entry)
		if cm == nil {
			continue
		}
		cpu := telemetry.CPU{Index: i, Online: true, Percent: atof(cm[1])}
		if cm[2] != "" {
			cpu.FrequencyMHz = atoi(cm[2])
		}
		cpus = append(cpus, cpu)
	}
	return cpus
}

// parseEngines collects "<NAME>_FREQ x%[@f]" loads and bare "<ENGINE> f"
// frequencies.
func parseEngines(line string) map[string]telemetry.Engine {
	engines := make(map[string]telemetry.Engine)

	for _, m := range freqRe.FindAllStringSubmatch(line, -1) {
		e := telemetry.Engine{Load: atof(m[2]), HasLoad: true}
		if m[3] != "" {
			e.FrequencyMHz = atoi(m[3])
		}
		engines[m[1]] = e
	}
	for _, m := range engineRe.FindAllStringSubmatch(line, -1) {
		if _, ok := engines[m[1]]; ok {
			continue
		}
		engines[m[1]] = telemetry.Engine{FrequencyMHz: atoi(m[2])}
	}

	if len(engines) == 0 {
		return nil
	}
	return engines
}

func parseTemperatures(line string) map[string]float64 {
	matches := tempRe.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return nil
	}
	temps := make(map[string]float64, len(matches))
	for _, m := range matches {
		temps[m[1]] = atof(m[2])
	}
	return temps
}

func parsePower(line string) map[string]telemetry.PowerRail {
	matches := wattRe.FindAllStringSubmatch(line, -1)
	rails := make(map[string]telemetry.PowerRail, len(matches))
	for _, m := range matches {
		if memoryGroups[m[1]] {
			continue
		}
		rails[m[1]] = telemetry.PowerRail{CurrentMW: atof(m[2]), AverageMW: atof(m[3])}
	}
	if len(rails) == 0 {
		return nil
	}
	return rails
}

// toBytes converts a tegrastats quantity with a k/M/G unit letter to bytes.
func toBytes(value, unit string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	switch unit {
	case "k", "K":
		return n * 1024
	case "M":
		return n * 1024 * 1024
	case "G":
		return n * 1024 * 1024 * 1024
	default:
		return n
	}
}

// atoi and atof are only called on regexp-validated digits.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
