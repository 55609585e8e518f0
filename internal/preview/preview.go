// Package preview renders a solve result to the terminal: a static
// shaded heatmap of phi and an asciigraph line plot of a cross-section.
package preview

import (
	"math"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/poissonlab/internal/grid"
)

// shades is a grayscale ramp from low to high.
var shades = []rune{' ', '░', '▒', '▓', '█'}

// Heatmap renders phi as a width x height grid of shaded characters,
// each character showing the single node its position maps onto when
// the geometry's node grid is scaled down (or up) to the requested
// terminal size.
func Heatmap(phi []float32, geom grid.Geometry, width, height int) string {
	if width <= 0 || height <= 0 || len(phi) == 0 {
		return ""
	}

	lo, hi := phi[0], phi[0]
	for _, v := range phi {
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

	var b strings.Builder
	for row := 0; row < height; row++ {
		j := row * geom.NY / height
		if j >= geom.NY {
			j = geom.NY - 1
		}
		for col := 0; col < width; col++ {
			i := col * geom.NX / width
			if i >= geom.NX {
				i = geom.NX - 1
			}
			v := phi[geom.Index(i, j)]
			norm := float64(v-lo) / float64(rng)
			idx := int(norm * float64(len(shades)-1))
			if idx < 0 {
				idx = 0
			}
			if idx >= len(shades) {
				idx = len(shades) - 1
			}
			b.WriteRune(shades[idx])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// CrossSection extracts phi along the horizontal row nearest to y,
// returning the phi values in column order.
func CrossSection(phi []float32, geom grid.Geometry, y float64) []float64 {
	j := int(math.Round((y - geom.Bounds.YMin) / geom.Dy))
	if j < 0 {
		j = 0
	}
	if j >= geom.NY {
		j = geom.NY - 1
	}

	row := make([]float64, geom.NX)
	for i := 0; i < geom.NX; i++ {
		row[i] = float64(phi[geom.Index(i, j)])
	}
	return row
}

// CrossSectionPlot renders an asciigraph line plot of phi along the
// horizontal row nearest to y.
func CrossSectionPlot(phi []float32, geom grid.Geometry, y float64, width, height int) string {
	row := CrossSection(phi, geom, y)
	return asciigraph.Plot(row,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("phi cross-section at y="+formatFloat(y)))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
