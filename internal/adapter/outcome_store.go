package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	m "scopemv.dev/pkg/scopemv/internal/model"
)

// outcomeFileName is the file written into the output directory after an apply.
const outcomeFileName = "scopemv-outcomes.yaml"

// OutcomeStore persists and loads the per-run rename outcome summary.
type OutcomeStore interface {
	SaveRun(dir m.Path, run m.ApplyRun) error
	LoadRun(dir m.Path) (m.ApplyRun, error)
}

// LocalOutcomeStore stores apply runs as YAML files on the local filesystem.
type LocalOutcomeStore struct{}

// NewLocalOutcomeStore constructs a LocalOutcomeStore.
func NewLocalOutcomeStore() *LocalOutcomeStore {
	return &LocalOutcomeStore{}
}

// SaveRun writes the run summary into dir, creating it when missing.
func (s *LocalOutcomeStore) SaveRun(dir m.Path, run m.ApplyRun) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal outcomes: %w", err)
	}

	target := filepath.Join(string(dir), outcomeFileName)
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return fmt.Errorf("failed to write outcomes: %w", err)
	}

	return nil
}

// LoadRun reads a previously saved run summary from dir.
func (s *LocalOutcomeStore) LoadRun(dir m.Path) (m.ApplyRun, error) {
	data, err := os.ReadFile(filepath.Join(string(dir), outcomeFileName))
	if err != nil {
		return m.ApplyRun{}, fmt.Errorf("failed to read outcomes: %w", err)
	}

	var run m.ApplyRun
	if err := yaml.Unmarshal(data, &run); err != nil {
		return m.ApplyRun{}, fmt.Errorf("failed to unmarshal outcomes: %w", err)
	}

	return run, nil
}
