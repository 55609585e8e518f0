// Package config loads and saves scene/grid/solver configurations as
// YAML: scene geometry, charge and conductor placement, grid
// resolution, and solver tuning.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/poissonlab/internal/conductor"
	"github.com/san-kum/poissonlab/internal/grid"
	"github.com/san-kum/poissonlab/internal/scene"
	"github.com/san-kum/poissonlab/internal/solve"
)

const (
	DefaultNX               = 128
	DefaultNY               = 128
	DefaultMaxIters         = 2000
	DefaultTolerance        = 1e-5
	DefaultOmega            = 1.7
	DefaultChargeSigmaCells = 1.0
)

// Config is the YAML-serializable description of a full solve: a scene
// (domain, charges, conductors), a grid resolution, and solver tuning.
type Config struct {
	Domain     DomainConfig      `yaml:"domain"`
	Charges    []ChargeConfig    `yaml:"charges"`
	Conductors []ConductorConfig `yaml:"conductors"`
	Grid       GridConfig        `yaml:"grid"`
	Solver     SolverConfig      `yaml:"solver"`
}

type DomainConfig struct {
	XMin    float64 `yaml:"x_min"`
	XMax    float64 `yaml:"x_max"`
	YMin    float64 `yaml:"y_min"`
	YMax    float64 `yaml:"y_max"`
	Epsilon float64 `yaml:"epsilon"`
}

type ChargeConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Q float64 `yaml:"q"`
}

// ConductorConfig is a tagged-variant YAML record mirroring
// internal/conductor.Conductor: Shape selects which of the
// shape-specific fields apply.
type ConductorConfig struct {
	Shape     string  `yaml:"shape"` // "rectangle" or "circle"
	Potential float64 `yaml:"potential"`
	XMin      float64 `yaml:"x_min,omitempty"`
	XMax      float64 `yaml:"x_max,omitempty"`
	YMin      float64 `yaml:"y_min,omitempty"`
	YMax      float64 `yaml:"y_max,omitempty"`
	CX        float64 `yaml:"cx,omitempty"`
	CY        float64 `yaml:"cy,omitempty"`
	Radius    float64 `yaml:"radius,omitempty"`
}

type GridConfig struct {
	NX int `yaml:"nx"`
	NY int `yaml:"ny"`
}

type SolverConfig struct {
	MaxIters         int     `yaml:"max_iters"`
	Tolerance        float64 `yaml:"tolerance"`
	Omega            float64 `yaml:"omega"`
	ChargeSigmaCells float64 `yaml:"charge_sigma_cells"`
}

// DefaultConfig returns the empty-domain, default-resolution,
// default-tuning configuration — the baseline every preset starts from.
func DefaultConfig() *Config {
	return &Config{
		Domain: DomainConfig{XMin: -1, XMax: 1, YMin: -1, YMax: 1, Epsilon: 1},
		Grid:   GridConfig{NX: DefaultNX, NY: DefaultNY},
		Solver: SolverConfig{
			MaxIters:         DefaultMaxIters,
			Tolerance:        DefaultTolerance,
			Omega:            DefaultOmega,
			ChargeSigmaCells: DefaultChargeSigmaCells,
		},
	}
}

// Load reads a YAML config file, filling unset fields from DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Scene converts the YAML-level description into the domain types
// internal/solve.Solve expects.
func (c *Config) Scene() scene.Scene {
	charges := make([]scene.PointCharge, len(c.Charges))
	for i, ch := range c.Charges {
		charges[i] = scene.PointCharge{X: ch.X, Y: ch.Y, Q: ch.Q}
	}

	conductors := make([]conductor.Conductor, 0, len(c.Conductors))
	for _, cc := range c.Conductors {
		switch cc.Shape {
		case "circle":
			conductors = append(conductors, conductor.Circle(cc.CX, cc.CY, cc.Radius, cc.Potential))
		default:
			conductors = append(conductors, conductor.Rectangle(cc.XMin, cc.XMax, cc.YMin, cc.YMax, cc.Potential))
		}
	}

	return scene.Scene{
		Domain: grid.DomainBounds{
			XMin: c.Domain.XMin, XMax: c.Domain.XMax,
			YMin: c.Domain.YMin, YMax: c.Domain.YMax,
			Epsilon: c.Domain.Epsilon,
		},
		Charges:    charges,
		Conductors: conductors,
	}
}

// GridSpec converts the YAML-level grid resolution into grid.Spec.
func (c *Config) GridSpec() grid.Spec {
	return grid.Spec{NX: c.Grid.NX, NY: c.Grid.NY}
}

// SolveSpec converts the YAML-level solver tuning into solve.Spec.
func (c *Config) SolveSpec() solve.Spec {
	return solve.Spec{
		MaxIters:         c.Solver.MaxIters,
		Tolerance:        c.Solver.Tolerance,
		Omega:            c.Solver.Omega,
		ChargeSigmaCells: c.Solver.ChargeSigmaCells,
	}
}
