package solve

import (
	"context"
	"math"

	"github.com/san-kum/poissonlab/internal/grid"
	"github.com/san-kum/poissonlab/internal/scene"
)

// Ensemble runs the same scene/grid through a fixed solver spec but with
// a varying parameter across numRuns concurrent solves — useful for
// scanning how omega or chargeSigmaCells affects convergence without
// touching the reference lexicographic Solve itself.
type Ensemble struct {
	sc       scene.Scene
	gridSpec grid.Spec
	base     Spec
	numRuns  int
	vary     func(base Spec, runIdx int) Spec
}

// NewEnsemble builds an ensemble of numRuns solves over the same scene
// and grid, each derived from base by vary.
func NewEnsemble(sc scene.Scene, gridSpec grid.Spec, base Spec, numRuns int, vary func(Spec, int) Spec) *Ensemble {
	return &Ensemble{sc: sc, gridSpec: gridSpec, base: base, numRuns: numRuns, vary: vary}
}

// Run executes every member of the ensemble concurrently and returns the
// results in run-index order. All runs are launched together; if ctx is
// done before they finish, Run returns ctx.Err() at once and the runs
// already launched keep going in the background — the core itself has
// no suspension points to stop one mid-flight.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	done := make(chan struct{})
	go func() {
		ParallelFor(e.numRuns, 1, e.numRuns, func(start, end int) {
			for idx := start; idx < end; idx++ {
				spec := e.vary(e.base, idx)
				results[idx], errs[idx] = Solve(e.sc, e.gridSpec, spec, nil)
			}
		})
		close(done)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// GridSearch finds the solver spec within paramNames x ranges that
// minimizes the final residual (or, among specs that converge below
// tolerance, the iteration count), evaluated by repeatedly solving the
// given scene and grid. It mirrors a textbook hyperparameter grid search:
// recurse over parameter axes, solve at each leaf, keep the best.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

// NewGridSearch builds a search over the named solver parameters
// ("omega", "chargeSigmaCells", "tolerance"), each with its own
// candidate value list.
func NewGridSearch(paramNames []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: paramNames, ranges: ranges}
}

// Search evaluates every combination and returns the parameter
// assignment with the lowest iteration count, breaking ties by final
// residual. When no combination converges, every run uses the full
// iteration budget and the lowest residual wins. An error is returned
// only when no combination solved at all.
func (g *GridSearch) Search(sc scene.Scene, gridSpec grid.Spec, base Spec) (map[string]float64, *Result, error) {
	bestIters := math.MaxInt64
	bestResidual := math.Inf(1)
	var bestParams map[string]float64
	var bestResult *Result
	var firstErr error

	g.searchRecursive(sc, gridSpec, base, 0, make(map[string]float64), &bestIters, &bestResidual, &bestParams, &bestResult, &firstErr)

	if bestParams == nil && firstErr != nil {
		return nil, nil, firstErr
	}
	return bestParams, bestResult, nil
}

func (g *GridSearch) searchRecursive(
	sc scene.Scene, gridSpec grid.Spec, base Spec,
	depth int, current map[string]float64,
	bestIters *int, bestResidual *float64,
	bestParams *map[string]float64, bestResult **Result, firstErr *error,
) {
	if depth == len(g.paramNames) {
		spec := applyParams(base, current)
		result, err := Solve(sc, gridSpec, spec, nil)
		if err != nil {
			if *firstErr == nil {
				*firstErr = err
			}
			return
		}
		better := result.Iterations < *bestIters ||
			(result.Iterations == *bestIters && result.Residual < *bestResidual)
		if better {
			*bestIters = result.Iterations
			*bestResidual = result.Residual
			snapshot := make(map[string]float64, len(current))
			for k, v := range current {
				snapshot[k] = v
			}
			*bestParams = snapshot
			*bestResult = result
		}
		return
	}

	name := g.paramNames[depth]
	for _, v := range g.ranges[depth] {
		current[name] = v
		g.searchRecursive(sc, gridSpec, base, depth+1, current, bestIters, bestResidual, bestParams, bestResult, firstErr)
	}
	delete(current, name)
}

func applyParams(base Spec, params map[string]float64) Spec {
	spec := base
	if v, ok := params["omega"]; ok {
		spec.Omega = v
	}
	if v, ok := params["chargeSigmaCells"]; ok {
		spec.ChargeSigmaCells = v
	}
	if v, ok := params["tolerance"]; ok {
		spec.Tolerance = v
	}
	return spec
}
