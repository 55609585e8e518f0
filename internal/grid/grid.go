// Package grid derives the Cartesian geometry a Poisson solve runs on:
// domain bounds, node spacing, and node-to-world coordinate mapping.
// Nothing downstream recomputes dx, dy, or node coordinates from scratch —
// every other package consumes a Geometry built here.
package grid

import (
	"errors"
	"math"
)

// ErrInvalidDomain is returned when domain bounds cannot be sanitized by
// clamping and must fail before any iteration runs.
var ErrInvalidDomain = errors.New("grid: invalid domain bounds")

const (
	MinNodes = 32
	MaxNodes = 2048
)

// DomainBounds describes the rectangular region the field is solved over.
// Epsilon is the domain-uniform permittivity; non-positive or non-finite
// values are replaced by 1 rather than rejected.
type DomainBounds struct {
	XMin, XMax float64
	YMin, YMax float64
	Epsilon    float64
}

// Sanitize applies the epsilon fallback and validates the box is
// well-formed. It never mutates a shared value; callers get a corrected
// copy.
func (d DomainBounds) Sanitize() (DomainBounds, error) {
	if !finite(d.XMin) || !finite(d.XMax) || !finite(d.YMin) || !finite(d.YMax) {
		return d, ErrInvalidDomain
	}
	if d.XMax <= d.XMin || d.YMax <= d.YMin {
		return d, ErrInvalidDomain
	}
	if d.Epsilon <= 0 || !finite(d.Epsilon) {
		d.Epsilon = 1
	}
	return d, nil
}

// Spec is the caller-requested grid resolution, clamped to [MinNodes,
// MaxNodes] in each dimension.
type Spec struct {
	NX, NY int
}

// Clamp returns a Spec with both dimensions folded into [MinNodes, MaxNodes].
func (s Spec) Clamp() Spec {
	return Spec{NX: clampInt(s.NX, MinNodes, MaxNodes), NY: clampInt(s.NY, MinNodes, MaxNodes)}
}

// Geometry is the fully-derived coordinate system for a solve: cell sizes,
// origin, and node counts. Every node (i, j) has world coordinates
// (XMin + i*Dx, YMin + j*Dy); storage is row-major with index j*NX+i.
type Geometry struct {
	NX, NY     int
	Dx, Dy     float64
	XMin, YMin float64
	Bounds     DomainBounds
}

// New derives a Geometry from sanitized domain bounds and a clamped grid
// spec. Bounds must already have passed Sanitize.
func New(bounds DomainBounds, spec Spec) Geometry {
	spec = spec.Clamp()
	return Geometry{
		NX:     spec.NX,
		NY:     spec.NY,
		Dx:     (bounds.XMax - bounds.XMin) / float64(spec.NX-1),
		Dy:     (bounds.YMax - bounds.YMin) / float64(spec.NY-1),
		XMin:   bounds.XMin,
		YMin:   bounds.YMin,
		Bounds: bounds,
	}
}

// Index returns the row-major storage offset for node (i, j).
func (g Geometry) Index(i, j int) int { return j*g.NX + i }

// NodeX returns the world x coordinate of column i.
func (g Geometry) NodeX(i int) float64 { return g.XMin + float64(i)*g.Dx }

// NodeY returns the world y coordinate of row j.
func (g Geometry) NodeY(j int) float64 { return g.YMin + float64(j)*g.Dy }

// Size is the number of nodes in the grid (NX*NY), i.e. the length of any
// row-major field array over this geometry.
func (g Geometry) Size() int { return g.NX * g.NY }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
