package telemetry

import "sync"

// DefaultHistorySize is the default number of samples retained per series.
const DefaultHistorySize = 120

// Series names recorded by History.
const (
	SeriesCPU   = "cpu"   // mean load of online cores, percent
	SeriesGPU   = "gpu"   // GR3D load, percent
	SeriesRAM   = "ram"   // RAM usage, percent
	SeriesSwap  = "swap"  // swap usage, percent
	SeriesPower = "power" // sum of current rail readings, mW
)

// History keeps a fixed-size window of recent values per series for
// sparkline rendering. It is an Observer: attach it to a Source and it
// records every published snapshot. Safe for concurrent use.
type History struct {
	mu     sync.RWMutex
	size   int
	series map[string]*ringBuffer
}

// NewHistory creates a history with the given window size per series.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:   size,
		series: make(map[string]*ringBuffer),
	}
}

// Update records the values derived from s. Series whose group is absent
// from s are not touched.
func (h *History) Update(s *Snapshot) {
	if s == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if load, online := s.CPULoad(); online > 0 {
		h.push(SeriesCPU, load)
	}
	if gpu, ok := s.Engines["GR3D"]; ok && gpu.HasLoad {
		h.push(SeriesGPU, gpu.Load)
	}
	if s.RAM != nil {
		h.push(SeriesRAM, s.RAM.Percent())
	}
	if s.Swap != nil {
		h.push(SeriesSwap, s.Swap.Percent())
	}
	if len(s.Power) > 0 {
		var total float64
		for _, rail := range s.Power {
			total += rail.CurrentMW
		}
		h.push(SeriesPower, total)
	}
}

// Last returns up to count of the most recent values of a series, oldest first.
func (h *History) Last(series string, count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.series[series]
	if !ok {
		return nil
	}
	return buf.last(count)
}

// Len returns the number of samples stored for a series.
func (h *History) Len(series string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.series[series]
	if !ok {
		return 0
	}
	return buf.count
}

// Size returns the window size per series.
func (h *History) Size() int {
	return h.size
}

// Clear drops every series.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.series = make(map[string]*ringBuffer)
}

// push must be called with h.mu held.
func (h *History) push(series string, value float64) {
	buf, ok := h.series[series]
	if !ok {
		buf = newRingBuffer(h.size)
		h.series[series] = buf
	}
	buf.push(value)
}

// ringBuffer is a fixed-size circular buffer of float64 values.
type ringBuffer struct {
	data  []float64
	head  int // next write position
	count int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{data: make([]float64, size)}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// last returns the newest n values in chronological order.
func (r *ringBuffer) last(n int) []float64 {
	if n <= 0 || r.count == 0 {
		return nil
	}
	if n > r.count {
		n = r.count
	}

	size := len(r.data)
	out := make([]float64, n)
	start := (r.head - n + size) % size
	for i := range out {
		out[i] = r.data[(start+i)%size]
	}
	return out
}
