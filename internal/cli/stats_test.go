package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rileyhilliard/jtop/internal/errors"
	"github.com/rileyhilliard/jtop/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *telemetry.Snapshot {
	return &telemetry.Snapshot{
		RAM:  &telemetry.RAM{UsedBytes: 2 << 30, TotalBytes: 4 << 30},
		Swap: &telemetry.Swap{UsedBytes: 0, TotalBytes: 0},
		CPU: []telemetry.CPU{
			{Index: 0, Online: true, Percent: 10},
			{Index: 1, Online: true, Percent: 30},
			{Index: 2, Online: false},
		},
		Engines: map[string]telemetry.Engine{
			"GR3D": {Load: 45, HasLoad: true, FrequencyMHz: 76},
			"APE":  {FrequencyMHz: 25},
		},
		Temperatures: map[string]float64{"GPU": 30.5, "CPU": 31.5},
		Power: map[string]telemetry.PowerRail{
			"POM_5V_IN":  {CurrentMW: 2000},
			"POM_5V_CPU": {CurrentMW: 400},
		},
	}
}

func TestFormatSummary(t *testing.T) {
	assert.Equal(t,
		"RAM 2.0G/4.0G | CPU 20% x2 | GPU 45%@76MHz | CPU 31.5C GPU 30.5C | 2400mW",
		formatSummary(testSnapshot()))

	assert.Equal(t, "", formatSummary(&telemetry.Snapshot{}))
}

func TestShortBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0B"},
		{1023, "1023B"},
		{1024, "1.0K"},
		{252 << 10, "252.0K"},
		{3964 << 20, "3.9G"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shortBytes(tt.in))
	}
}

func TestSamplePrinter(t *testing.T) {
	t.Run("stops at the limit", func(t *testing.T) {
		var buf bytes.Buffer
		p := newSamplePrinter(&buf, 2, false)

		p.Update(testSnapshot())
		assert.Equal(t, 1, p.Printed())
		p.Update(testSnapshot())
		p.Update(testSnapshot())

		assert.Equal(t, 2, p.Printed())
		assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
		select {
		case <-p.Done():
		default:
			t.Fatal("printer should be done")
		}
		assert.NoError(t, p.Err())
	})

	t.Run("skips empty snapshots", func(t *testing.T) {
		var buf bytes.Buffer
		p := newSamplePrinter(&buf, 0, false)
		p.Update(&telemetry.Snapshot{})
		p.Update(nil)
		assert.Zero(t, p.Printed())
		assert.Empty(t, buf.String())
	})

	t.Run("json lines", func(t *testing.T) {
		var buf bytes.Buffer
		p := newSamplePrinter(&buf, 0, true)
		p.Update(testSnapshot())
		p.Update(testSnapshot())

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)
		for _, line := range lines {
			var env JSONEnvelope
			require.NoError(t, json.Unmarshal(line, &env))
			assert.True(t, env.Success)
		}
	})

	t.Run("write error stops the printer", func(t *testing.T) {
		p := newSamplePrinter(failingWriter{}, 0, false)
		p.Update(testSnapshot())
		assert.Error(t, p.Err())
		select {
		case <-p.Done():
		default:
			t.Fatal("printer should be done")
		}
	})

	t.Run("as an observer", func(t *testing.T) {
		var buf bytes.Buffer
		p := newSamplePrinter(&buf, 0, false)
		reg := telemetry.NewRegistry()
		reg.Attach(telemetry.Func(p.Update))
		reg.Notify(testSnapshot())
		assert.Equal(t, 1, p.Printed())
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, assert.AnError }

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config not found", errors.New(errors.ErrConfig, "Config file not found", ""), ErrCodeConfigNotFound},
		{"config invalid", errors.New(errors.ErrConfig, "refresh 1ms is too short", ""), ErrCodeConfigInvalid},
		{"process", errors.New(errors.ErrProcess, "tegrastats is not available", ""), ErrCodeTegrastatsUnavailable},
		{"exited", errors.New(errors.ErrExited, "tegrastats exited", ""), ErrCodeTegrastatsExited},
		{"terminal", errors.New(errors.ErrTerminal, "no tty", ""), ErrCodeNoTerminal},
		{"wrapped", errors.Wrap(assert.AnError, "outer"), ErrCodeTegrastatsUnavailable},
		{"plain", assert.AnError, ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorToJSON(tt.err).Code)
		})
	}

	assert.Nil(t, ErrorToJSON(nil))
}

func TestWriteJSONFromError(t *testing.T) {
	var buf bytes.Buffer
	err := errors.New(errors.ErrProcess, "tegrastats is not available", "Install L4T")
	require.NoError(t, WriteJSONFromError(&buf, err))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeTegrastatsUnavailable, env.Error.Code)
	assert.Equal(t, "Install L4T", env.Error.Suggestion)
}
