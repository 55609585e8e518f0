package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/poissonlab/internal/config"
	"github.com/san-kum/poissonlab/internal/solve"
)

func sampleResult() *solve.Result {
	sc := config.GetPreset("empty").Scene()
	result, err := solve.Solve(sc, config.GetPreset("empty").GridSpec(), config.GetPreset("empty").SolveSpec(), nil)
	if err != nil {
		panic(err)
	}
	return result
}

func TestStore_SaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := *config.GetPreset("empty")
	result := sampleResult()

	runID, err := st.Save("empty", cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected a non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "empty" {
		t.Errorf("expected name 'empty', got %q", meta.Name)
	}
	if meta.NX != result.NX() || meta.NY != result.NY() {
		t.Errorf("expected grid %dx%d, got %dx%d", result.NX(), result.NY(), meta.NX, meta.NY)
	}

	phi, err := st.LoadPhi(runID)
	if err != nil {
		t.Fatalf("load phi failed: %v", err)
	}
	if len(phi) != len(result.Phi) {
		t.Fatalf("expected %d phi values, got %d", len(result.Phi), len(phi))
	}
	for i := range phi {
		if phi[i] != result.Phi[i] {
			t.Fatalf("phi[%d] = %v, want %v", i, phi[i], result.Phi[i])
		}
	}
}

func TestStore_List(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save("empty", *config.GetPreset("empty"), sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStore_FileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("empty", *config.GetPreset("empty"), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); err != nil {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "phi.bin")); err != nil {
		t.Error("phi.bin not created")
	}
}
