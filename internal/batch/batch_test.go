package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/poissonlab/internal/archive"
	"github.com/san-kum/poissonlab/internal/config"
)

func TestRun_ExecutesStepsInOrderAndSaves(t *testing.T) {
	tmpDir := t.TempDir()
	store := archive.New(tmpDir)
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	scenario := &Scenario{
		Name: "smoke",
		Steps: []ScenarioStep{
			{Config: *config.GetPreset("empty"), SaveAs: "first"},
			{Config: *config.GetPreset("dipole"), SaveAs: ""},
		},
	}

	results, err := Run(context.Background(), scenario, store)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RunID == "" {
		t.Error("expected the first step to be saved")
	}
	if results[1].RunID != "" {
		t.Error("expected the second step to be unsaved")
	}
	if results[0].CacheID == "" || results[1].CacheID == "" {
		t.Error("expected every step, saved or not, to have a cache id")
	}
	if results[0].CacheID == results[1].CacheID {
		t.Error("expected distinct cache ids per step")
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 saved run, got %d", len(runs))
	}
}

func TestRun_AbortsOnStepFailure(t *testing.T) {
	badConfig := *config.GetPreset("empty")
	badConfig.Domain.XMax = badConfig.Domain.XMin // invalid domain

	scenario := &Scenario{
		Steps: []ScenarioStep{
			{Config: badConfig},
		},
	}

	results, err := Run(context.Background(), scenario, nil)
	if err == nil {
		t.Fatal("expected an error for an invalid domain")
	}
	if len(results) != 0 {
		t.Errorf("expected no results before the failing step, got %d", len(results))
	}
}

func TestRun_ContextCancellationStopsEarly(t *testing.T) {
	scenario := &Scenario{
		Steps: []ScenarioStep{
			{Config: *config.GetPreset("empty")},
			{Config: *config.GetPreset("empty")},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Run(ctx, scenario, nil)
	if err == nil {
		t.Fatal("expected a context cancellation error")
	}
	if len(results) != 0 {
		t.Errorf("expected no results after cancellation, got %d", len(results))
	}
}

func TestLoadScenario_RoundTrips(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "scenario.yaml")

	scenario := &Scenario{
		Name: "roundtrip",
		Steps: []ScenarioStep{
			{Config: *config.GetPreset("dipole"), SaveAs: "dipole-run"},
		},
	}

	data, err := yaml.Marshal(scenario)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	loaded, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Name != "roundtrip" {
		t.Errorf("expected name 'roundtrip', got %q", loaded.Name)
	}
	if len(loaded.Steps) != 1 || loaded.Steps[0].SaveAs != "dipole-run" {
		t.Fatalf("unexpected steps: %+v", loaded.Steps)
	}
}
