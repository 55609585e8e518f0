// Package scene aggregates the inputs to a solve: the domain box, the
// point charges to regularize into a charge density, and the conductors
// to enforce as internal Dirichlet regions.
package scene

import (
	"math"

	"github.com/san-kum/poissonlab/internal/conductor"
	"github.com/san-kum/poissonlab/internal/grid"
)

// PointCharge is a source at world coordinates (X, Y) carrying charge Q.
// Q may be negative. A charge that rounds to a cell outside the grid, or
// whose position or charge is non-finite, is silently skipped during
// deposition rather than rejected here.
type PointCharge struct {
	X, Y, Q float64
}

// Finite reports whether the charge's position and magnitude are usable.
func (p PointCharge) Finite() bool {
	return finite(p.X) && finite(p.Y) && finite(p.Q)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Scene is the complete, immutable description of a solve: domain bounds,
// point charges, and conductors.
type Scene struct {
	Domain     grid.DomainBounds
	Charges    []PointCharge
	Conductors []conductor.Conductor
}

// Validate sanitizes the domain (epsilon fallback) and rejects conductors
// that fail their own invariants. It does not touch charges — those are
// filtered individually during deposition, since an out-of-bounds or
// non-finite charge should be skipped rather than fail the whole solve.
func (s Scene) Validate() (grid.DomainBounds, error) {
	bounds, err := s.Domain.Sanitize()
	if err != nil {
		return bounds, err
	}
	for _, c := range s.Conductors {
		if err := c.Validate(); err != nil {
			return bounds, err
		}
	}
	return bounds, nil
}
