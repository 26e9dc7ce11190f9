package pages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/jtop/internal/dashboard"
)

// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty); dot n sets bit n-1.
const brailleBase = '\u2800'

// brailleDots maps [row][col] to the bit offset of that dot.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// sparklineBlocks are block characters for 8-level vertical resolution.
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// percentRange returns the plotting range: fixed 0-100 for percentage data,
// otherwise the data's own min and max.
func percentRange(data []float64) (minVal, maxVal float64, isPercentage bool) {
	if len(data) == 0 {
		return 0, 100, true
	}

	minVal, maxVal = data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	if maxVal <= 100 && minVal >= 0 {
		return 0, 100, true
	}
	return minVal, maxVal, false
}

func normalize(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// brailleGraph plots data as a braille area chart of width x height cells,
// right-aligned so the newest sample sits at the right edge. Percentage data
// is colored per column by load; other data uses baseColor.
func brailleGraph(theme *dashboard.Theme, data []float64, width, height int, baseColor lipgloss.Color) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal, isPercentage := percentRange(data)
	totalDots := height * 4
	targetPoints := width * 2

	points := data
	if len(data) > targetPoints {
		points = resample(data, targetPoints)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}
	colMax := make([]float64, width)

	offset := targetPoints - len(points)
	if offset < 0 {
		offset = 0
	}

	for i, val := range points {
		dotHeight := clampInt(int(normalize(val, minVal, maxVal)*float64(totalDots)), totalDots)

		charCol := (i + offset) / 2
		if charCol >= width {
			continue
		}
		if val > colMax[charCol] {
			colMax[charCol] = val
		}
		subCol := (i + offset) % 2

		for dot := 0; dot < dotHeight; dot++ {
			row := height - 1 - dot/4
			subRow := 3 - dot%4
			grid[row][charCol] |= rune(1 << brailleDots[subRow][subCol])
		}
	}

	lines := make([]string, 0, height)
	for _, row := range grid {
		var b strings.Builder
		for col, char := range row {
			color := baseColor
			if isPercentage {
				color = theme.MetricColor(colMax[col])
			}
			b.WriteString(theme.NewStyle().Foreground(color).Render(string(char)))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// miniSparkline renders a one-row sparkline of block characters.
func miniSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	minVal, maxVal, _ := percentRange(data)
	var b strings.Builder
	for _, val := range resample(data, width) {
		idx := clampInt(int(normalize(val, minVal, maxVal)*float64(len(sparklineBlocks)-1)), len(sparklineBlocks)-1)
		b.WriteRune(sparklineBlocks[idx])
	}
	return b.String()
}

// bar renders "[|||||     ]" filled to percent, colored by load.
func bar(theme *dashboard.Theme, width int, percent float64) string {
	inner := width - 2
	if inner < 1 {
		inner = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := clampInt(int(percent/100*float64(inner)), inner)
	fill := theme.Metric(percent).Render(strings.Repeat("|", filled))
	return "[" + fill + strings.Repeat(" ", inner-filled) + "]"
}

// resample fits data to targetSize points, keeping peaks when shrinking and
// interpolating linearly when stretching.
func resample(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}
	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)
	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	if len(data) > targetSize {
		bucket := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucket)
			end := int(float64(i+1) * bucket)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	if targetSize == 1 {
		result[0] = data[len(data)-1]
		return result
	}
	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)
		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}
	return result
}

// formatBytes formats a byte count as a human-readable string.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%dB", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	units := []string{"kB", "MB", "GB", "TB", "PB", "EB"}
	return fmt.Sprintf("%.1f%s", float64(bytes)/float64(div), units[exp])
}

// formatMilliwatts prints power in mW below 1W and in W above.
func formatMilliwatts(mw float64) string {
	if mw < 1000 {
		return fmt.Sprintf("%.0fmW", mw)
	}
	return fmt.Sprintf("%.1fW", mw/1000)
}
