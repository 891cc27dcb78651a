package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RodCut/internal/model"
)

func TestSaveAndLoadProject(t *testing.T) {
	dir := t.TempDir()

	p := model.NewProject()
	p.Name = "Gate"
	p.Problem = model.NewProblem("Gate", 6000,
		model.NewPiece("Post", 3100, 2),
		model.NewPiece("Rail", 2900, 2),
	)
	p.Settings.Backend = model.BackendSAT
	p.Result = &model.CuttingPlan{RodLength: 6000, TotalRodsUsed: 2, Status: model.PlanOptimal, Rods: []model.RodRecord{}}

	path, err := SaveProject(filepath.Join(dir, "gate"), p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "gate"+FileExt), path)

	loaded, err := LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestSaveProjectKeepsExtension(t *testing.T) {
	path, err := SaveProject(filepath.Join(t.TempDir(), "Frame.RODCUT"), model.NewProject())
	require.NoError(t, err)
	assert.Equal(t, "Frame.RODCUT", filepath.Base(path))
}

func TestLoadProjectDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.rodcut")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"Old","problem":{"pieces":null}}`), 0644))

	p, err := LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultRodLength, p.Problem.RodLength)
	assert.Equal(t, "Old", p.Problem.Name)
	assert.NotNil(t, p.Problem.Pieces)
	assert.Equal(t, model.DefaultSettings(), p.Settings)
	assert.Nil(t, p.Result)
}

func TestLoadProjectErrors(t *testing.T) {
	_, err := LoadProject(filepath.Join(t.TempDir(), "missing.rodcut"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.rodcut")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = LoadProject(path)
	assert.Error(t, err)
}
