package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotGroups(t *testing.T) {
	tests := []struct {
		name string
		snap *Snapshot
		want []string
	}{
		{"nil", nil, nil},
		{"empty", &Snapshot{}, nil},
		{
			name: "memory only",
			snap: &Snapshot{RAM: &RAM{}, Swap: &Swap{}},
			want: []string{GroupRAM, GroupSwap},
		},
		{
			name: "everything",
			snap: &Snapshot{
				RAM:          &RAM{},
				Swap:         &Swap{},
				IRAM:         &IRAM{},
				MTS:          &MTS{},
				CPU:          []CPU{{Index: 0}},
				Temperatures: map[string]float64{"CPU": 40},
				Power:        map[string]PowerRail{"VDD_IN": {}},
				Engines: map[string]Engine{
					"GR3D": {},
					"APE":  {},
					"EMC":  {},
				},
			},
			want: []string{"RAM", "SWAP", "IRAM", "MTS", "CPU", "TEMP", "WATT", "APE", "EMC", "GR3D"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snap.Groups())
		})
	}
}

func TestSnapshotHasAndEmpty(t *testing.T) {
	var nilSnap *Snapshot
	assert.True(t, nilSnap.Empty())
	assert.True(t, (&Snapshot{}).Empty())
	assert.True(t, (&Snapshot{Engines: map[string]Engine{}}).Empty())

	s := &Snapshot{Engines: map[string]Engine{"GR3D": {Load: 10, HasLoad: true}}}
	assert.False(t, s.Empty())
	assert.True(t, s.Has("GR3D"))
	assert.False(t, s.Has(GroupRAM))
}

func TestSnapshotCPULoad(t *testing.T) {
	s := &Snapshot{CPU: []CPU{
		{Index: 0, Online: true, Percent: 10},
		{Index: 1, Online: true, Percent: 30},
		{Index: 2, Online: false, Percent: 99},
	}}

	load, online := s.CPULoad()
	assert.InDelta(t, 20.0, load, 0.001)
	assert.Equal(t, 2, online)

	load, online = (&Snapshot{}).CPULoad()
	assert.Zero(t, load)
	assert.Zero(t, online)
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 50.0, RAM{UsedBytes: 2, TotalBytes: 4}.Percent(), 0.001)
	assert.InDelta(t, 25.0, Swap{UsedBytes: 1, TotalBytes: 4}.Percent(), 0.001)
	assert.InDelta(t, 100.0, IRAM{UsedBytes: 8, TotalBytes: 8}.Percent(), 0.001)
	assert.Zero(t, RAM{UsedBytes: 2}.Percent(), "zero total must not divide by zero")
}
