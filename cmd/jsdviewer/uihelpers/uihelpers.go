package uihelpers

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// ComputeChartDimensions applies the width/height clamp rules used for the
// wide charts (timeline and stacked area).
// Input: desired raw width (e.g., canvas width). Returns clamped width & height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 800 {
		w = 800
	}
	h := int(float32(w) * 0.33)
	if h < 280 {
		h = 280
	}
	if h > 520 {
		h = 520
	}
	return w, h
}

// ComputePieDiameter sizes one pie so a row of count pies fits the window,
// clamped to stay legible on narrow windows and restrained on wide ones.
func ComputePieDiameter(winW float32, count int) int {
	if count < 1 {
		count = 1
	}
	d := int((winW - 80) / float32(count))
	if d < 220 {
		d = 220
	}
	if d > 320 {
		d = 320
	}
	return d
}

// ComputeTableColumnWidths returns the (date, value) column widths for the
// divergence grid given a window width. Below the compact breakpoint the
// columns tighten so more series pairs stay visible.
func ComputeTableColumnWidths(winW float32) (int, int) {
	const compactBreakpoint = 760
	if winW < compactBreakpoint {
		return 90, 70
	}
	return 110, 90
}

// ParseHexColor parses a "#rrggbb" string into its 8-bit channels.
func ParseHexColor(s string) (r, g, b uint8, err error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, fmt.Errorf("parse hex color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse hex color %q: %w", s, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// DivergenceTicks returns the fixed 0.0..1.0 tick positions for the
// divergence Y axis, one per tenth.
func DivergenceTicks() []float64 {
	out := make([]float64, 0, 11)
	for i := 0; i <= 10; i++ {
		out = append(out, round6(float64(i)/10))
	}
	return out
}

// FormatDivergenceTick labels a divergence tick with one decimal.
func FormatDivergenceTick(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// PercentTicks returns the fixed tick positions for the cumulative percent
// Y axis.
func PercentTicks() []float64 {
	return []float64{0, 25, 50, 75, 100}
}

// PickDateStep selects a readable tick step and label format for a date span.
// Sheets carry daily-to-monthly rows, so steps start at one day.
func PickDateStep(span time.Duration) (time.Duration, string) {
	const day = 24 * time.Hour
	switch {
	case span <= 14*day:
		return day, "Jan 2"
	case span <= 90*day:
		return 7 * day, "Jan 2"
	case span <= 400*day:
		return 30 * day, "Jan 2006"
	case span <= 3*365*day:
		return 91 * day, "Jan 2006"
	default:
		return 365 * day, "2006"
	}
}

// BuildDateTicks returns tick positions in epoch milliseconds between min
// and max, aligned down to the step boundary. Callers map positions to
// chart ticks and format labels with the layout PickDateStep chose.
func BuildDateTicks(minMs, maxMs float64, step time.Duration) []float64 {
	if step <= 0 || math.IsNaN(minMs) || math.IsNaN(maxMs) {
		return nil
	}
	stepMs := float64(step.Milliseconds())
	if stepMs <= 0 {
		return nil
	}
	aligned := math.Floor(minMs/stepMs) * stepMs
	var out []float64
	for v := aligned; v <= maxMs+stepMs; v += stepMs {
		out = append(out, v)
		if len(out) > 20 { // keep it readable
			break
		}
	}
	return out
}

// round6 rounds to 6 decimal places to stabilize test comparisons / labels prep.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }
