package telemetry

import "sort"

// Group names as reported by Snapshot.Groups. Engine values (EMC, GR3D, APE,
// NVENC, ...) appear under their own names.
const (
	GroupRAM  = "RAM"
	GroupSwap = "SWAP"
	GroupIRAM = "IRAM"
	GroupMTS  = "MTS"
	GroupCPU  = "CPU"
	GroupTemp = "TEMP"
	GroupWatt = "WATT"
)

// Snapshot is one decoded tegrastats sample. A group is nil or empty when the
// line did not report it. Snapshots are shared between the reader and every
// observer and must be treated as read-only once published.
type Snapshot struct {
	RAM          *RAM                 `json:"ram,omitempty"`
	Swap         *Swap                `json:"swap,omitempty"`
	IRAM         *IRAM                `json:"iram,omitempty"`
	MTS          *MTS                 `json:"mts,omitempty"`
	CPU          []CPU                `json:"cpu,omitempty"`
	Engines      map[string]Engine    `json:"engines,omitempty"`
	Temperatures map[string]float64   `json:"temperatures,omitempty"` // sensor name -> degrees Celsius
	Power        map[string]PowerRail `json:"power,omitempty"`
}

// RAM contains main memory usage.
type RAM struct {
	UsedBytes  int64 `json:"used_bytes"`
	TotalBytes int64 `json:"total_bytes"`
	LFBBlocks  int   `json:"lfb_blocks"` // largest free block count
	LFBBytes   int64 `json:"lfb_bytes"`  // size of each largest free block
}

// Percent returns used memory as a percentage of total.
func (r RAM) Percent() float64 {
	return percentOf(r.UsedBytes, r.TotalBytes)
}

// Swap contains swap usage.
type Swap struct {
	UsedBytes   int64 `json:"used_bytes"`
	TotalBytes  int64 `json:"total_bytes"`
	CachedBytes int64 `json:"cached_bytes"`
}

// Percent returns used swap as a percentage of total.
func (s Swap) Percent() float64 {
	return percentOf(s.UsedBytes, s.TotalBytes)
}

// IRAM contains internal RAM usage (older Tegra SoCs only).
type IRAM struct {
	UsedBytes  int64 `json:"used_bytes"`
	TotalBytes int64 `json:"total_bytes"`
	LFBBytes   int64 `json:"lfb_bytes"`
}

// Percent returns used IRAM as a percentage of total.
func (i IRAM) Percent() float64 {
	return percentOf(i.UsedBytes, i.TotalBytes)
}

// MTS contains NVIDIA Denver foreground/background load.
type MTS struct {
	Foreground float64 `json:"fg"`
	Background float64 `json:"bg"`
}

// CPU is the state of a single core.
type CPU struct {
	Index        int     `json:"index"`
	Online       bool    `json:"online"`
	Percent      float64 `json:"percent"`
	FrequencyMHz int     `json:"freq_mhz,omitempty"` // 0 when not reported
}

// Engine is a hardware engine value such as GR3D (GPU), EMC or APE.
type Engine struct {
	Load         float64 `json:"load"` // percent, valid when HasLoad
	HasLoad      bool    `json:"has_load"`
	FrequencyMHz int     `json:"freq_mhz,omitempty"` // 0 when not reported
}

// PowerRail is one power monitor channel, in milliwatts.
type PowerRail struct {
	CurrentMW float64 `json:"cur_mw"`
	AverageMW float64 `json:"avg_mw"`
}

// Groups returns the names of the groups present in the snapshot, fixed
// groups first followed by engine names in alphabetical order.
func (s *Snapshot) Groups() []string {
	if s == nil {
		return nil
	}
	var groups []string
	if s.RAM != nil {
		groups = append(groups, GroupRAM)
	}
	if s.Swap != nil {
		groups = append(groups, GroupSwap)
	}
	if s.IRAM != nil {
		groups = append(groups, GroupIRAM)
	}
	if s.MTS != nil {
		groups = append(groups, GroupMTS)
	}
	if len(s.CPU) > 0 {
		groups = append(groups, GroupCPU)
	}
	if len(s.Temperatures) > 0 {
		groups = append(groups, GroupTemp)
	}
	if len(s.Power) > 0 {
		groups = append(groups, GroupWatt)
	}
	groups = append(groups, s.EngineNames()...)
	return groups
}

// Has reports whether the named group is present.
func (s *Snapshot) Has(group string) bool {
	for _, g := range s.Groups() {
		if g == group {
			return true
		}
	}
	return false
}

// Empty reports whether no group is present.
func (s *Snapshot) Empty() bool {
	return len(s.Groups()) == 0
}

// EngineNames returns engine names in alphabetical order.
func (s *Snapshot) EngineNames() []string {
	if s == nil || len(s.Engines) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Engines))
	for name := range s.Engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CPULoad returns the mean load across online cores and the number of online cores.
func (s *Snapshot) CPULoad() (percent float64, online int) {
	if s == nil {
		return 0, 0
	}
	var total float64
	for _, c := range s.CPU {
		if !c.Online {
			continue
		}
		total += c.Percent
		online++
	}
	if online == 0 {
		return 0, 0
	}
	return total / float64(online), online
}

func percentOf(used, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}
