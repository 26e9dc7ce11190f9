package ui

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer; the spinner writes from its own goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Waiting for tegrastats")
	assert.Equal(t, "Waiting for tegrastats", s.Label())
	assert.Equal(t, SpinnerPending, s.State())
	assert.Equal(t, time.Duration(0), s.Elapsed())
}

func TestSpinnerStartStop(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner("Test")
	s.SetOutput(&buf)

	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())
	time.Sleep(3 * spinnerTick)
	s.Stop()

	// Stop leaves the state alone.
	assert.Equal(t, SpinnerInProgress, s.State())
	assert.Contains(t, buf.String(), "Test...")
	assert.Greater(t, s.Elapsed(), time.Duration(0))
}

func TestSpinnerFinalStates(t *testing.T) {
	tests := []struct {
		name   string
		finish func(*Spinner)
		state  SpinnerState
		symbol string
	}{
		{"success", (*Spinner).Success, SpinnerSuccess, SymbolSuccess},
		{"fail", (*Spinner).Fail, SpinnerFailed, SymbolFail},
		{"skip", (*Spinner).Skip, SpinnerSkipped, SymbolSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf syncBuffer
			s := NewSpinner("Test")
			s.SetOutput(&buf)

			s.Start()
			tt.finish(s)

			assert.Equal(t, tt.state, s.State())
			assert.Contains(t, buf.String(), tt.symbol)
			assert.Contains(t, buf.String(), "Test")
		})
	}
}

func TestSpinnerSetLabel(t *testing.T) {
	s := NewSpinner("Initial")
	s.SetLabel("Updated")
	assert.Equal(t, "Updated", s.Label())
}

func TestSpinnerDoubleStartStop(t *testing.T) {
	s := NewSpinner("Test")
	s.SetOutput(io.Discard)

	s.Start()
	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())

	s.Stop()
	s.Stop()
	assert.Equal(t, SpinnerInProgress, s.State())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{0, "0.00s"},
		{50 * time.Millisecond, "0.05s"},
		{100 * time.Millisecond, "0.1s"},
		{1500 * time.Millisecond, "1.5s"},
		{10 * time.Second, "10.0s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.duration))
		})
	}
}

func TestSpinnerConcurrentAccess(t *testing.T) {
	s := NewSpinner("Test")
	s.SetOutput(io.Discard)
	s.Start()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.State()
			_ = s.Label()
			_ = s.Elapsed()
		}()
	}

	wg.Wait()
	s.Success()

	require.Equal(t, SpinnerSuccess, s.State())
}
