// Package conductor models internal Dirichlet regions ("conductors") as a
// tagged variant (Rectangle or Circle) and builds the per-cell mask the
// solver enforces them with. Containment dispatch is a plain two-arm
// switch, not a vtable — adding a shape means a new tag and a new
// predicate, not a new interface implementation.
package conductor

import (
	"errors"
	"math"

	"github.com/san-kum/poissonlab/internal/grid"
)

// ErrInvalidConductor is returned for a conductor whose bounds cannot be
// sanitized: an inverted rectangle, a non-positive radius, or a
// non-finite potential.
var ErrInvalidConductor = errors.New("conductor: invalid conductor")

// Shape tags the two conductor variants.
type Shape int

const (
	ShapeRectangle Shape = iota
	ShapeCircle
)

// Conductor is a fixed-potential region, either an axis-aligned rectangle
// (inclusive on all four edges) or a disc.
type Conductor struct {
	Shape     Shape
	Potential float64

	// Rectangle payload.
	XMin, XMax, YMin, YMax float64

	// Circle payload.
	CX, CY, Radius float64
}

// Rectangle builds a rectangle conductor at fixed potential v.
func Rectangle(xMin, xMax, yMin, yMax, v float64) Conductor {
	return Conductor{Shape: ShapeRectangle, Potential: v, XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax}
}

// Circle builds a disc conductor at fixed potential v.
func Circle(cx, cy, radius, v float64) Conductor {
	return Conductor{Shape: ShapeCircle, Potential: v, CX: cx, CY: cy, Radius: radius}
}

// Validate reports invariant violations that should fail loudly rather
// than be clamped: inverted rectangle bounds, non-positive radius, or a
// non-finite potential.
func (c Conductor) Validate() error {
	if math.IsNaN(c.Potential) || math.IsInf(c.Potential, 0) {
		return ErrInvalidConductor
	}
	switch c.Shape {
	case ShapeRectangle:
		if c.XMax <= c.XMin || c.YMax <= c.YMin {
			return ErrInvalidConductor
		}
	case ShapeCircle:
		if c.Radius <= 0 {
			return ErrInvalidConductor
		}
	default:
		return ErrInvalidConductor
	}
	return nil
}

// Contains reports whether world point (x, y) lies inside the conductor.
// Rectangle containment is inclusive on all four edges; circle containment
// is (x-cx)^2+(y-cy)^2 <= r^2.
func (c Conductor) Contains(x, y float64) bool {
	switch c.Shape {
	case ShapeRectangle:
		return x >= c.XMin && x <= c.XMax && y >= c.YMin && y <= c.YMax
	case ShapeCircle:
		dx, dy := x-c.CX, y-c.CY
		return dx*dx+dy*dy <= c.Radius*c.Radius
	default:
		return false
	}
}

// Mask is the precomputed per-cell Dirichlet flag and fixed value. It is
// immutable for the duration of a solve: built once from the scene's
// conductors, never mutated during iteration.
type Mask struct {
	nx, ny int
	masked []bool
	fixed  []float32
}

// BuildMask rebuilds the mask for every node in geom against conductors in
// scene order. On overlap, the last-declared conductor in the slice wins.
func BuildMask(geom grid.Geometry, conductors []Conductor) *Mask {
	m := &Mask{
		nx:     geom.NX,
		ny:     geom.NY,
		masked: make([]bool, geom.Size()),
		fixed:  make([]float32, geom.Size()),
	}

	for j := 0; j < geom.NY; j++ {
		y := geom.NodeY(j)
		for i := 0; i < geom.NX; i++ {
			x := geom.NodeX(i)
			idx := geom.Index(i, j)
			for _, c := range conductors {
				if c.Contains(x, y) {
					m.masked[idx] = true
					m.fixed[idx] = float32(c.Potential)
				}
			}
		}
	}

	return m
}

// Masked reports whether the node at storage index idx is Dirichlet-fixed.
func (m *Mask) Masked(idx int) bool { return m.masked[idx] }

// FixedValue returns the prescribed potential at a masked node; callers
// must check Masked first.
func (m *Mask) FixedValue(idx int) float32 { return m.fixed[idx] }

// Size is the number of cells the mask covers.
func (m *Mask) Size() int { return len(m.masked) }
