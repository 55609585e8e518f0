package solve

import "github.com/san-kum/poissonlab/internal/grid"

// MinOmega and MaxOmega bound the over-relaxation factor.
const (
	MinOmega = 0.1
	MaxOmega = 1.99
)

// MinTolerance is the floor applied to the caller-supplied residual
// tolerance.
const MinTolerance = 1e-10

// MinIterations and MaxIterations bound the sweep count.
const (
	MinIterations = 1
	MaxIterations = 200000
)

// Spec configures the SOR driver. MaxIters, Omega, and Tolerance are
// clamped into their valid ranges before a solve starts; ChargeSigmaCells
// is clamped by the deposit package itself.
type Spec struct {
	MaxIters         int
	Tolerance        float64
	Omega            float64
	ChargeSigmaCells float64
}

// Clamp folds MaxIters, Omega, and Tolerance into their valid ranges. A
// non-finite Omega or Tolerance would pass an ordered comparison
// unclamped, so both are checked explicitly and folded to a sane
// default before the range clamp runs. ChargeSigmaCells is left
// untouched here — deposit.Rho floors it.
func (s Spec) Clamp() Spec {
	s.MaxIters = clampInt(s.MaxIters, MinIterations, MaxIterations)
	if !finite64(s.Omega) {
		s.Omega = 1.0
	}
	s.Omega = clampFloat(s.Omega, MinOmega, MaxOmega)
	if !finite64(s.Tolerance) || s.Tolerance < MinTolerance {
		s.Tolerance = MinTolerance
	}
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Result is the outcome of a solve: the potential field, its grid
// metadata, extrema, and convergence bookkeeping.
type Result struct {
	Phi  []float32
	Geom grid.Geometry

	PhiMin, PhiMax float64
	Iterations     int
	Residual       float64
}

// NX and NY expose the grid dimensions directly, alongside phi.
func (r *Result) NX() int { return r.Geom.NX }
func (r *Result) NY() int { return r.Geom.NY }
