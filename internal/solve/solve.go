// Package solve implements the SOR/Gauss-Seidel core: charge deposition,
// conductor masking, the relaxation sweep, Neumann boundary maintenance,
// residual estimation, and the driving iteration loop. The package is a
// pure function of its inputs — Solve holds no state between calls and
// performs no I/O.
package solve

import (
	"math"

	"github.com/san-kum/poissonlab/internal/conductor"
	"github.com/san-kum/poissonlab/internal/deposit"
	"github.com/san-kum/poissonlab/internal/grid"
	"github.com/san-kum/poissonlab/internal/scene"
)

// residualSampleInterval is how often (in iterations) the residual is
// sampled during the sweep; it is always sampled once more on the final
// iteration regardless of phase.
const residualSampleInterval = 10

// Solve runs the full pipeline for one scene/grid/solver spec and returns
// the resulting potential field. residualLog, if non-nil, receives every
// sampled residual in order.
func Solve(sc scene.Scene, gridSpec grid.Spec, spec Spec, residualLog *[]float64) (*Result, error) {
	return solveCore(sc, gridSpec, spec, residualLog, nil)
}

// ProgressFunc is called each time a residual is sampled during a solve.
// Returning false stops the solve early, as if maxIters had been reached.
type ProgressFunc func(iteration int, residual float64, phi []float32, geom grid.Geometry) bool

// SolveWithProgress behaves like Solve but additionally invokes onProgress
// at every residual sample, letting a caller drive a live view (e.g. the
// TUI) without polling. onProgress receives the live phi slice — callers
// that retain it across calls must copy it.
func SolveWithProgress(sc scene.Scene, gridSpec grid.Spec, spec Spec, residualLog *[]float64, onProgress ProgressFunc) (*Result, error) {
	return solveCore(sc, gridSpec, spec, residualLog, onProgress)
}

func solveCore(sc scene.Scene, gridSpec grid.Spec, spec Spec, residualLog *[]float64, onProgress ProgressFunc) (*Result, error) {
	bounds, err := sc.Validate()
	if err != nil {
		return nil, &SolveError{Stage: "scene", Wrapped: errFromGrid(err)}
	}

	spec = spec.Clamp()
	geom := grid.New(bounds, gridSpec.Clamp())

	rho := deposit.Rho(geom, sc.Charges, spec.ChargeSigmaCells)
	mask := conductor.BuildMask(geom, sc.Conductors)

	phi := make([]float32, geom.Size())
	for idx := 0; idx < geom.Size(); idx++ {
		if mask.Masked(idx) {
			phi[idx] = mask.FixedValue(idx)
		}
	}

	iterations := 0
	residual := 0.0

	for it := 0; it < spec.MaxIters; it++ {
		applyNeumann(phi, geom.NX, geom.NY)
		sweep(phi, rho, mask, geom, float32(spec.Omega))

		iterations = it + 1
		last := it == spec.MaxIters-1
		if it%residualSampleInterval == 0 || last {
			residual = Residual(phi, rho, mask, geom)
			if residualLog != nil {
				*residualLog = append(*residualLog, residual)
			}
			keepGoing := true
			if onProgress != nil {
				keepGoing = onProgress(iterations, residual, phi, geom)
			}
			if residual < spec.Tolerance || !keepGoing {
				break
			}
		}
	}

	applyNeumann(phi, geom.NX, geom.NY)

	phiMin, phiMax := extrema(phi)
	if !finite64(phiMin) || !finite64(phiMax) {
		phiMin, phiMax = -1, 1
	} else if phiMax-phiMin < 1e-12 {
		phiMax = phiMin + 1e-6
	}

	return &Result{
		Phi:        phi,
		Geom:       geom,
		PhiMin:     phiMin,
		PhiMax:     phiMax,
		Iterations: iterations,
		Residual:   residual,
	}, nil
}

// sweep performs one lexicographic Gauss-Seidel pass with over-relaxation
// over interior cells, skipping masked ones. Neighbor reads of a masked
// cell see its fixed value automatically since that value is never
// overwritten.
func sweep(phi []float32, rho []float32, mask *conductor.Mask, geom grid.Geometry, omega float32) {
	nx, ny := geom.NX, geom.NY
	dx2 := float32(geom.Dx * geom.Dx)
	dy2 := float32(geom.Dy * geom.Dy)
	eps := float32(geom.Bounds.Epsilon)
	d := 2 * (1/dx2 + 1/dy2)

	for j := 1; j <= ny-2; j++ {
		for i := 1; i <= nx-2; i++ {
			idx := geom.Index(i, j)
			if mask.Masked(idx) {
				continue
			}
			e := phi[geom.Index(i+1, j)]
			w := phi[geom.Index(i-1, j)]
			n := phi[geom.Index(i, j+1)]
			s := phi[geom.Index(i, j-1)]

			phiStar := ((e+w)/dx2 + (n+s)/dy2 + rho[idx]/eps) / d
			phi[idx] += omega * (phiStar - phi[idx])
		}
	}
}

// applyNeumann enforces homogeneous Neumann on the outer ring by copying
// the adjacent interior value. Left/right edges are copied first, then
// top/bottom — so corner cells end up holding their row (top/bottom)
// assignment.
func applyNeumann(phi []float32, nx, ny int) {
	for j := 0; j < ny; j++ {
		phi[j*nx+0] = phi[j*nx+1]
		phi[j*nx+(nx-1)] = phi[j*nx+(nx-2)]
	}
	for i := 0; i < nx; i++ {
		phi[0*nx+i] = phi[1*nx+i]
		phi[(ny-1)*nx+i] = phi[(ny-2)*nx+i]
	}
}

// Residual computes the discrete L2 norm of -Δφ - ρ/ε over interior cells
// that are not masked. An empty sample set reports zero.
func Residual(phi []float32, rho []float32, mask *conductor.Mask, geom grid.Geometry) float64 {
	nx, ny := geom.NX, geom.NY
	dx2 := geom.Dx * geom.Dx
	dy2 := geom.Dy * geom.Dy
	eps := geom.Bounds.Epsilon

	sum := 0.0
	n := 0
	for j := 1; j <= ny-2; j++ {
		for i := 1; i <= nx-2; i++ {
			idx := geom.Index(i, j)
			if mask.Masked(idx) {
				continue
			}
			e := float64(phi[geom.Index(i+1, j)])
			w := float64(phi[geom.Index(i-1, j)])
			no := float64(phi[geom.Index(i, j+1)])
			so := float64(phi[geom.Index(i, j-1)])
			c := float64(phi[idx])

			lap := (e-2*c+w)/dx2 + (no-2*c+so)/dy2
			r := -lap - float64(rho[idx])/eps
			sum += r * r
			n++
		}
	}

	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}

func extrema(phi []float32) (float64, float64) {
	if len(phi) == 0 {
		return 0, 0
	}
	lo, hi := float64(phi[0]), float64(phi[0])
	for _, v := range phi {
		f := float64(v)
		if f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}
	return lo, hi
}

func finite64(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func errFromGrid(err error) error {
	switch err {
	case grid.ErrInvalidDomain:
		return ErrInvalidDomain
	case conductor.ErrInvalidConductor:
		return ErrInvalidConductor
	default:
		return err
	}
}
