package tui

import (
	"math"
	"strings"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// sparkline renders values as a mini bar chart sampled to fit width.
func sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		norm := (v - lo) / rng
		idx := int(norm * float64(len(sparkChars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}

// logResiduals maps a residual history onto log10 for the sparkline: raw
// residuals can span many orders of magnitude over a single solve, which
// would otherwise flatten every early sample against the last few.
func logResiduals(residuals []float64) []float64 {
	out := make([]float64, len(residuals))
	for i, r := range residuals {
		if r <= 0 {
			out[i] = -20
			continue
		}
		out[i] = math.Log10(r)
	}
	return out
}
