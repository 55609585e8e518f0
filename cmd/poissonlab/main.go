package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/poissonlab/internal/archive"
	"github.com/san-kum/poissonlab/internal/batch"
	"github.com/san-kum/poissonlab/internal/config"
	"github.com/san-kum/poissonlab/internal/preview"
	"github.com/san-kum/poissonlab/internal/solve"
	"github.com/san-kum/poissonlab/internal/tui"
	"github.com/san-kum/poissonlab/internal/wire"
)

var (
	dataDir        string
	presetName     string
	configFile     string
	nx, ny         int
	maxIters       int
	tolerance      float64
	omega          float64
	sigma          float64
	saveAs         string
	outPath        string
	crossSectY     float64
	ensembleParam  string
	ensembleValues string
	sweepOmegas    string
	sweepSigmas    string
)

// main is the entry point for the poissonlab CLI; it registers
// subcommands and executes the root command, exiting with status 1 if
// execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "poissonlab",
		Short: "2D electrostatics lab: SOR/Gauss-Seidel Poisson solver",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".poissonlab", "archive directory")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "run a solve and report the result",
		RunE:  runSolve,
	}
	addSceneFlags(solveCmd)
	solveCmd.Flags().StringVar(&saveAs, "save", "", "save the result to the archive under this name")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scene presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run a solve and report timing and convergence",
		RunE:  runBench,
	}
	addSceneFlags(benchCmd)

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "write phi as little-endian float32 binary to --out",
		RunE:  runDump,
	}
	addSceneFlags(dumpCmd)
	dumpCmd.Flags().StringVar(&outPath, "out", "phi.bin", "output file path")

	fingerprintCmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "print the 8-hex-digit FNV-1a fingerprint of phi",
		RunE:  runFingerprint,
	}
	addSceneFlags(fingerprintCmd)

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "render an ASCII heatmap and a cross-section plot",
		RunE:  runPreview,
	}
	addSceneFlags(previewCmd)
	previewCmd.Flags().Float64Var(&crossSectY, "cross-section-y", 0, "y coordinate of the cross-section row")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a solve with a live Bubble Tea convergence view",
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	storeCmd := &cobra.Command{Use: "store", Short: "inspect the result archive"}
	storeListCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  runStoreList,
	}
	storeLoadCmd := &cobra.Command{
		Use:   "load [run_id]",
		Short: "print metadata for an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  runStoreLoad,
	}
	storeCmd.AddCommand(storeListCmd, storeLoadCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scripted sequence of solves",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run one parameter varied across a concurrent batch of solves",
		RunE:  runEnsemble,
	}
	addSceneFlags(ensembleCmd)
	ensembleCmd.Flags().StringVar(&ensembleParam, "param", "omega", "parameter to vary: omega, chargeSigmaCells, or tolerance")
	ensembleCmd.Flags().StringVar(&ensembleValues, "values", "", "comma-separated values for --param, one run per value")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search solver parameters for the fastest convergence",
		RunE:  runSweep,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepOmegas, "omega-values", "", "comma-separated omega candidates to search")
	sweepCmd.Flags().StringVar(&sweepSigmas, "sigma-values", "", "comma-separated chargeSigmaCells candidates to search")

	rootCmd.AddCommand(solveCmd, presetsCmd, benchCmd, dumpCmd, fingerprintCmd, previewCmd, liveCmd, storeCmd, batchCmd, ensembleCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&presetName, "preset", "", "use a named preset (see 'poissonlab presets')")
	cmd.Flags().StringVar(&configFile, "config", "", "load a YAML scene/grid/solver config (overrides --preset)")
	cmd.Flags().IntVar(&nx, "nx", 0, "grid width override")
	cmd.Flags().IntVar(&ny, "ny", 0, "grid height override")
	cmd.Flags().IntVar(&maxIters, "max-iters", 0, "maximum sweep count override")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "residual tolerance override")
	cmd.Flags().Float64Var(&omega, "omega", 0, "over-relaxation factor override")
	cmd.Flags().Float64Var(&sigma, "sigma", 0, "charge deposition sigma (grid cells) override")
}

// loadConfig resolves --config / --preset plus any per-flag overrides
// into a single config.Config.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case presetName != "":
		preset := config.GetPreset(presetName)
		if preset == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
		cfgCopy := *preset
		cfg = &cfgCopy
	default:
		cfg = config.DefaultConfig()
	}

	if nx > 0 {
		cfg.Grid.NX = nx
	}
	if ny > 0 {
		cfg.Grid.NY = ny
	}
	if maxIters > 0 {
		cfg.Solver.MaxIters = maxIters
	}
	if tolerance > 0 {
		cfg.Solver.Tolerance = tolerance
	}
	if omega > 0 {
		cfg.Solver.Omega = omega
	}
	if sigma > 0 {
		cfg.Solver.ChargeSigmaCells = sigma
	}
	return cfg, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	result, err := solve.Solve(cfg.Scene(), cfg.GridSpec(), cfg.SolveSpec(), nil)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintf(w, "nx\t%d\n", result.NX())
	fmt.Fprintf(w, "ny\t%d\n", result.NY())
	fmt.Fprintf(w, "iterations\t%d\n", result.Iterations)
	fmt.Fprintf(w, "residual\t%.6e\n", result.Residual)
	fmt.Fprintf(w, "phiMin\t%.6f\n", result.PhiMin)
	fmt.Fprintf(w, "phiMax\t%.6f\n", result.PhiMax)
	w.Flush()

	if saveAs != "" {
		store := archive.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		runID, err := store.Save(saveAs, *cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("saved as %s\n", runID)
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := solve.Solve(cfg.Scene(), cfg.GridSpec(), cfg.SolveSpec(), nil)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintf(w, "grid\t%dx%d\n", result.NX(), result.NY())
	fmt.Fprintf(w, "iterations\t%d\n", result.Iterations)
	fmt.Fprintf(w, "residual\t%.6e\n", result.Residual)
	fmt.Fprintf(w, "elapsed\t%s\n", elapsed)
	fmt.Fprintf(w, "iters/sec\t%.1f\n", float64(result.Iterations)/elapsed.Seconds())
	w.Flush()
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	result, err := solve.Solve(cfg.Scene(), cfg.GridSpec(), cfg.SolveSpec(), nil)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, wire.EncodePhi(result.Phi), 0644)
}

func runFingerprint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	result, err := solve.Solve(cfg.Scene(), cfg.GridSpec(), cfg.SolveSpec(), nil)
	if err != nil {
		return err
	}
	fmt.Println(wire.Fingerprint(result.Phi))
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	result, err := solve.Solve(cfg.Scene(), cfg.GridSpec(), cfg.SolveSpec(), nil)
	if err != nil {
		return err
	}

	fmt.Println(preview.Heatmap(result.Phi, result.Geom, 80, 30))
	fmt.Println(preview.CrossSectionPlot(result.Phi, result.Geom, crossSectY, 80, 15))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, err = tui.Run(cfg.Scene(), cfg.GridSpec(), cfg.SolveSpec())
	return err
}

func runStoreList(cmd *cobra.Command, args []string) error {
	store := archive.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tGRID\tITERATIONS\tFINGERPRINT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%s\n", run.ID, run.Name, run.NX, run.NY, run.Iterations, run.Fingerprint)
	}
	return w.Flush()
}

func runStoreLoad(cmd *cobra.Command, args []string) error {
	store := archive.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%s\n", meta.ID)
	fmt.Fprintf(w, "name\t%s\n", meta.Name)
	fmt.Fprintf(w, "timestamp\t%s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "grid\t%dx%d\n", meta.NX, meta.NY)
	fmt.Fprintf(w, "iterations\t%d\n", meta.Iterations)
	fmt.Fprintf(w, "residual\t%.6e\n", meta.Residual)
	fmt.Fprintf(w, "fingerprint\t%s\n", meta.Fingerprint)
	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := batch.LoadScenario(args[0])
	if err != nil {
		return err
	}

	store := archive.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}

	results, err := batch.Run(context.Background(), scenario, store)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tITERATIONS\tRESIDUAL\tRUN_ID\tCACHE_ID")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.6e\t%s\t%s\n", i+1, r.Result.Iterations, r.Result.Residual, r.RunID, r.CacheID)
	}
	return w.Flush()
}

// parseFloatList splits a comma-separated list of floats, skipping blank
// entries from trailing/leading commas.
func parseFloatList(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	values, err := parseFloatList(ensembleValues)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("ensemble: --values must name at least one candidate")
	}

	var applyValue func(spec solve.Spec, v float64) solve.Spec
	switch ensembleParam {
	case "omega":
		applyValue = func(spec solve.Spec, v float64) solve.Spec { spec.Omega = v; return spec }
	case "chargeSigmaCells":
		applyValue = func(spec solve.Spec, v float64) solve.Spec { spec.ChargeSigmaCells = v; return spec }
	case "tolerance":
		applyValue = func(spec solve.Spec, v float64) solve.Spec { spec.Tolerance = v; return spec }
	default:
		return fmt.Errorf("ensemble: unknown --param %q", ensembleParam)
	}

	ens := solve.NewEnsemble(cfg.Scene(), cfg.GridSpec(), cfg.SolveSpec(), len(values), func(base solve.Spec, idx int) solve.Spec {
		return applyValue(base, values[idx])
	})

	results, err := ens.Run(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tITERATIONS\tRESIDUAL\n", strings.ToUpper(ensembleParam))
	for i, r := range results {
		fmt.Fprintf(w, "%v\t%d\t%.6e\n", values[i], r.Iterations, r.Residual)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var paramNames []string
	var ranges [][]float64

	if sweepOmegas != "" {
		values, err := parseFloatList(sweepOmegas)
		if err != nil {
			return err
		}
		paramNames = append(paramNames, "omega")
		ranges = append(ranges, values)
	}
	if sweepSigmas != "" {
		values, err := parseFloatList(sweepSigmas)
		if err != nil {
			return err
		}
		paramNames = append(paramNames, "chargeSigmaCells")
		ranges = append(ranges, values)
	}
	if len(paramNames) == 0 {
		return fmt.Errorf("sweep: at least one of --omega-values or --sigma-values is required")
	}

	search := solve.NewGridSearch(paramNames, ranges)
	best, result, err := search.Search(cfg.Scene(), cfg.GridSpec(), cfg.SolveSpec())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	for _, name := range paramNames {
		fmt.Fprintf(w, "%s\t%v\n", name, best[name])
	}
	fmt.Fprintf(w, "iterations\t%d\n", result.Iterations)
	fmt.Fprintf(w, "residual\t%.6e\n", result.Residual)
	return w.Flush()
}
