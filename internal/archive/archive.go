// Package archive persists a solve to disk: scene/grid/solver metadata
// as JSON plus the raw potential field as a binary wire.EncodePhi
// payload, one run directory per save (metadata.json alongside phi.bin).
// A Poisson solve has no time axis, so each run is a single field
// snapshot rather than a time series.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/poissonlab/internal/config"
	"github.com/san-kum/poissonlab/internal/solve"
	"github.com/san-kum/poissonlab/internal/wire"
)

// Store persists solves under baseDir, one subdirectory per run.
type Store struct {
	baseDir string
}

// New constructs a Store rooted at baseDir. Init must be called before
// Save.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Init creates the base directory if it doesn't already exist.
func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata is the JSON sidecar persisted alongside phi.bin.
type RunMetadata struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Timestamp   time.Time     `json:"timestamp"`
	Cfg         config.Config `json:"config"`
	NX          int           `json:"nx"`
	NY          int           `json:"ny"`
	PhiMin      float64       `json:"phiMin"`
	PhiMax      float64       `json:"phiMax"`
	Iterations  int           `json:"iterations"`
	Residual    float64       `json:"residual"`
	Fingerprint string        `json:"fingerprint"`
}

// Save persists cfg and result under a freshly generated run id, writing
// metadata.json and phi.bin into its own subdirectory.
func (s *Store) Save(name string, cfg config.Config, result *solve.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Name:        name,
		Timestamp:   time.Now(),
		Cfg:         cfg,
		NX:          result.NX(),
		NY:          result.NY(),
		PhiMin:      result.PhiMin,
		PhiMax:      result.PhiMax,
		Iterations:  result.Iterations,
		Residual:    result.Residual,
		Fingerprint: wire.Fingerprint(result.Phi),
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	phiPath := filepath.Join(runDir, "phi.bin")
	if err := os.WriteFile(phiPath, wire.EncodePhi(result.Phi), 0644); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns the metadata for every persisted run, skipping any
// directory whose metadata.json is missing or malformed.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

// Load reads the metadata for a single run.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadPhi reads and decodes the binary potential field for a run.
func (s *Store) LoadPhi(runID string) ([]float32, error) {
	buf, err := os.ReadFile(filepath.Join(s.baseDir, runID, "phi.bin"))
	if err != nil {
		return nil, err
	}
	return wire.DecodePhi(buf)
}
