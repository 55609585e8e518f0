package conductor

import (
	"testing"

	"github.com/san-kum/poissonlab/internal/grid"
)

func TestConductor_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       Conductor
		wantErr bool
	}{
		{"valid rectangle", Rectangle(-1, 1, -1, 1, 0.5), false},
		{"inverted rectangle", Rectangle(1, -1, -1, 1, 0.5), true},
		{"valid circle", Circle(0, 0, 0.5, -1), false},
		{"zero radius circle", Circle(0, 0, 0, -1), true},
		{"negative radius circle", Circle(0, 0, -1, -1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got none")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConductor_Contains(t *testing.T) {
	rect := Rectangle(-0.5, 0.5, -0.5, 0.5, 1.0)
	if !rect.Contains(-0.5, -0.5) {
		t.Error("rectangle should include its own corner")
	}
	if rect.Contains(0.6, 0) {
		t.Error("rectangle should exclude points outside xMax")
	}

	circ := Circle(0, 0, 1.0, 1.0)
	if !circ.Contains(1.0, 0) {
		t.Error("circle should include points exactly on the radius")
	}
	if circ.Contains(1.01, 0) {
		t.Error("circle should exclude points outside the radius")
	}
}

func TestBuildMask_LastConductorWins(t *testing.T) {
	bounds := grid.DomainBounds{XMin: -1, XMax: 1, YMin: -1, YMax: 1, Epsilon: 1}
	geom := grid.New(bounds, grid.Spec{NX: 32, NY: 32})

	conductors := []Conductor{
		Rectangle(-0.5, 0.5, -0.5, 0.5, 1.0),
		Circle(0, 0, 0.5, -2.0),
	}

	mask := BuildMask(geom, conductors)

	centerIdx := geom.Index(16, 16)
	if !mask.Masked(centerIdx) {
		t.Fatal("expected center node to be masked")
	}
	if mask.FixedValue(centerIdx) != -2.0 {
		t.Errorf("expected last conductor's potential -2.0, got %v", mask.FixedValue(centerIdx))
	}
}

func TestBuildMask_OutsideAnyConductor(t *testing.T) {
	bounds := grid.DomainBounds{XMin: -1, XMax: 1, YMin: -1, YMax: 1, Epsilon: 1}
	geom := grid.New(bounds, grid.Spec{NX: 32, NY: 32})

	mask := BuildMask(geom, []Conductor{Circle(0, 0, 0.1, 1.0)})

	cornerIdx := geom.Index(0, 0)
	if mask.Masked(cornerIdx) {
		t.Error("corner should be outside a small centered circle")
	}
}
