package config

// Presets are named, ready-to-run scenes keyed by name, covering a
// dipole, a centered point charge, a rectangle conductor held at 0.75, a
// circle conductor held at -0.4, and an empty charge-free box.
var Presets = map[string]*Config{
	"dipole": {
		Domain: DomainConfig{XMin: -1, XMax: 1, YMin: -1, YMax: 1, Epsilon: 1},
		Charges: []ChargeConfig{
			{X: -0.25, Y: 0, Q: 1},
			{X: 0.25, Y: 0, Q: -1},
		},
		Grid:   GridConfig{NX: 201, NY: 201},
		Solver: SolverConfig{MaxIters: 4000, Tolerance: 1e-5, Omega: 1.7, ChargeSigmaCells: 1.0},
	},
	"centered-charge": {
		Domain:  DomainConfig{XMin: -1, XMax: 1, YMin: -1, YMax: 1, Epsilon: 1},
		Charges: []ChargeConfig{{X: 0, Y: 0, Q: 1}},
		Grid:    GridConfig{NX: 201, NY: 201},
		Solver:  SolverConfig{MaxIters: 3000, Tolerance: 5e-6, Omega: 1.7, ChargeSigmaCells: 1.0},
	},
	"rectangle-conductor": {
		Domain:  DomainConfig{XMin: -1, XMax: 1, YMin: -1, YMax: 1, Epsilon: 1},
		Charges: []ChargeConfig{{X: 0.55, Y: 0.1, Q: 1}},
		Conductors: []ConductorConfig{
			{Shape: "rectangle", XMin: -0.45, XMax: -0.15, YMin: -0.2, YMax: 0.3, Potential: 0.75},
		},
		Grid:   GridConfig{NX: 181, NY: 181},
		Solver: SolverConfig{MaxIters: 2500, Tolerance: 1e-5, Omega: 1.75, ChargeSigmaCells: 1.0},
	},
	"circle-conductor": {
		Domain:  DomainConfig{XMin: -1, XMax: 1, YMin: -1, YMax: 1, Epsilon: 1},
		Charges: []ChargeConfig{{X: -0.6, Y: 0, Q: 1}},
		Conductors: []ConductorConfig{
			{Shape: "circle", CX: 0.2, CY: -0.1, Radius: 0.28, Potential: -0.4},
		},
		Grid:   GridConfig{NX: 201, NY: 201},
		Solver: SolverConfig{MaxIters: 2500, Tolerance: 1e-5, Omega: 1.75, ChargeSigmaCells: 1.0},
	},
	"empty": {
		Domain: DomainConfig{XMin: -1, XMax: 1, YMin: -1, YMax: 1, Epsilon: 1},
		Grid:   GridConfig{NX: 64, NY: 64},
		Solver: SolverConfig{MaxIters: 100, Tolerance: 1e-5, Omega: 1.7, ChargeSigmaCells: 1.0},
	},
}

// GetPreset returns the named preset, or nil if it doesn't exist.
func GetPreset(name string) *Config {
	return Presets[name]
}

// ListPresets returns every preset name, in no particular order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
