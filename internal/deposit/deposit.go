// Package deposit rasterizes point charges into a continuous charge
// density by Gaussian deposition, so the discrete Poisson solve never has
// to special-case a delta-function source.
package deposit

import (
	"math"

	"github.com/san-kum/poissonlab/internal/grid"
	"github.com/san-kum/poissonlab/internal/scene"
)

// MinSigmaCells is the floor applied to the caller-supplied Gaussian
// width, in grid cells, so a pathologically small sigma can't collapse
// the stamp to nothing.
const MinSigmaCells = 0.25

// Rho rasterizes charges onto geom and returns the row-major charge
// density. Multiple charges superpose additively; a charge outside the
// grid, or one with a non-finite position or magnitude, is skipped.
func Rho(geom grid.Geometry, charges []scene.PointCharge, sigmaCells float64) []float32 {
	rho := make([]float32, geom.Size())

	sigmaCells = math.Max(MinSigmaCells, sigmaCells)
	sigmaX := math.Max(geom.Dx, 1e-9) * sigmaCells
	sigmaY := math.Max(geom.Dy, 1e-9) * sigmaCells

	for _, c := range charges {
		if !c.Finite() {
			continue
		}
		depositOne(rho, geom, c, sigmaX, sigmaY)
	}

	return rho
}

func depositOne(rho []float32, geom grid.Geometry, c scene.PointCharge, sigmaX, sigmaY float64) {
	i0 := int(math.Round((c.X - geom.XMin) / geom.Dx))
	j0 := int(math.Round((c.Y - geom.YMin) / geom.Dy))
	if i0 < 0 || i0 >= geom.NX || j0 < 0 || j0 >= geom.NY {
		return
	}

	ri := int(math.Ceil(3 * sigmaX / geom.Dx))
	rj := int(math.Ceil(3 * sigmaY / geom.Dy))

	iLo, iHi := clamp(i0-ri, 0, geom.NX-1), clamp(i0+ri, 0, geom.NX-1)
	jLo, jHi := clamp(j0-rj, 0, geom.NY-1), clamp(j0+rj, 0, geom.NY-1)

	weight := make([]float64, (iHi-iLo+1)*(jHi-jLo+1))
	stride := iHi - iLo + 1
	total := 0.0

	for j := jLo; j <= jHi; j++ {
		y := geom.NodeY(j)
		dy := y - c.Y
		for i := iLo; i <= iHi; i++ {
			x := geom.NodeX(i)
			dx := x - c.X
			w := math.Exp(-0.5 * (dx*dx/(sigmaX*sigmaX) + dy*dy/(sigmaY*sigmaY)))
			weight[(j-jLo)*stride+(i-iLo)] = w
			total += w
		}
	}

	if total <= 0 {
		return
	}

	scale := c.Q / (total * geom.Dx * geom.Dy)
	for j := jLo; j <= jHi; j++ {
		for i := iLo; i <= iHi; i++ {
			w := weight[(j-jLo)*stride+(i-iLo)]
			idx := geom.Index(i, j)
			rho[idx] += float32(scale * w)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
