// Package batch runs a scripted sequence of solves from a YAML scenario
// file. Each step names a scene/grid/solver configuration to solve,
// optionally persisted via internal/archive. Every step, saved or not,
// also has its phi put into an internal/store cache created for that Run
// call and reports the cache id. The cache is not returned to the
// caller, so those ids cannot be used to fetch phi once Run returns.
package batch

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/poissonlab/internal/archive"
	"github.com/san-kum/poissonlab/internal/config"
	"github.com/san-kum/poissonlab/internal/solve"
	"github.com/san-kum/poissonlab/internal/store"
	"github.com/san-kum/poissonlab/internal/wire"
)

// Scenario is a named, scripted sequence of solves.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single solve within a scenario: an inline config
// plus an optional archive name to save the result under.
type ScenarioStep struct {
	Config config.Config `yaml:"config"`
	SaveAs string        `yaml:"save_as"`
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// StepResult pairs a completed solve with the archive run id it was
// saved under (if any) and the in-memory cache id it was always given.
type StepResult struct {
	Result  *solve.Result
	RunID   string
	CacheID string
}

// Run executes every step in order. A step naming a SaveAs archive name
// is persisted to disk via archiveStore; every step's phi, saved or not,
// is also put into a cache local to this call, whose id is recorded in
// StepResult.CacheID. The cache is discarded when Run returns. A context
// cancellation is checked between steps. A step failure aborts the
// remaining steps and returns the results gathered so far alongside the
// error.
func Run(ctx context.Context, scenario *Scenario, archiveStore *archive.Store) ([]StepResult, error) {
	cache := store.New(len(scenario.Steps))
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		fmt.Printf("batch: step %d/%d\n", i+1, len(scenario.Steps))

		sc := step.Config.Scene()
		result, err := solve.Solve(sc, step.Config.GridSpec(), step.Config.SolveSpec(), nil)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		stepResult := StepResult{
			Result:  result,
			CacheID: cache.Put(wire.EncodePhi(result.Phi)),
		}
		if step.SaveAs != "" && archiveStore != nil {
			runID, err := archiveStore.Save(step.SaveAs, step.Config, result)
			if err != nil {
				return results, fmt.Errorf("step %d: save: %w", i+1, err)
			}
			stepResult.RunID = runID
		}

		results = append(results, stepResult)
	}

	return results, nil
}
