package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "scopemv.dev/pkg/scopemv/internal/model"
)

func TestLocalOutcomeStore_RoundTrip(t *testing.T) {
	store := NewLocalOutcomeStore()
	dir := m.Path(filepath.Join(t.TempDir(), "reports"))

	run := m.ApplyRun{
		Outcomes: []m.RenameOutcome{
			{
				OldScopeName:      "Old",
				NewScopeName:      "Assets.Scripts.Core",
				Success:           true,
				FilesModified:     3,
				ReferencesUpdated: 7,
			},
			{
				OldScopeName: "Broken",
				NewScopeName: "Assets.Broken",
				ErrorMessage: "no such file",
			},
		},
		FilesModified:     3,
		ReferencesUpdated: 7,
	}

	require.NoError(t, store.SaveRun(dir, run))

	loaded, err := store.LoadRun(dir)
	require.NoError(t, err)
	assert.Equal(t, run, loaded)
}

func TestLocalOutcomeStore_SaveRunCreatesDirectory(t *testing.T) {
	store := NewLocalOutcomeStore()
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	require.NoError(t, store.SaveRun(m.Path(dir), m.ApplyRun{}))

	_, err := os.Stat(filepath.Join(dir, outcomeFileName))
	assert.NoError(t, err)
}

func TestLocalOutcomeStore_LoadRunMissing(t *testing.T) {
	store := NewLocalOutcomeStore()

	_, err := store.LoadRun(m.Path(t.TempDir()))
	assert.Error(t, err)
}

func TestLocalOutcomeStore_LoadRunMalformed(t *testing.T) {
	store := NewLocalOutcomeStore()
	dir := t.TempDir()

	target := filepath.Join(dir, outcomeFileName)
	require.NoError(t, os.WriteFile(target, []byte("{not yaml: ["), 0o600))

	_, err := store.LoadRun(m.Path(dir))
	assert.Error(t, err)
}
