package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RodCut/internal/config"
	"github.com/piwi3910/RodCut/internal/cpmodel"
	"github.com/piwi3910/RodCut/internal/engine"
	"github.com/piwi3910/RodCut/internal/model"
	"github.com/piwi3910/RodCut/internal/project"
	"github.com/piwi3910/RodCut/internal/solver"
)

const frameCSV = `label,length,quantity
rail,3100,2
post,2900,2
`

// isolate points the config directory at a temp dir and clears RODCUT_*
// variables so the host environment cannot leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(project.ConfigDirEnv, home)
	for _, k := range []string{
		config.EnvConfig, config.EnvBackend, config.EnvTimeLimit, config.EnvMaxVars,
		config.EnvSlotBound, config.EnvRepeatPieces, config.EnvUnit, config.EnvAddr,
	} {
		t.Setenv(k, "")
	}
	return home
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runWith(t *testing.T, factory engine.SolverFactory, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCommand(factory)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runWith(t, solver.New, args...)
}

type unknownSolver struct{}

func (unknownSolver) Name() string { return "unknown" }

func (unknownSolver) Solve(context.Context, *cpmodel.Model, cpmodel.Params) (cpmodel.Outcome, error) {
	return cpmodel.Outcome{Status: cpmodel.Unknown}, nil
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{assert.AnError, ExitFailure},
		{usageError{assert.AnError}, ExitInvalid},
		{engine.ErrInvalidSpecification, ExitInvalid},
		{engine.ErrInfeasibleSpecification, ExitInfeasible},
		{engine.ErrModelTooLarge, ExitTooLarge},
		{engine.ErrNoPlanWithinBudget, ExitOutOfBudget},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err), "%v", tt.err)
	}
}

func TestSolve_CSV(t *testing.T) {
	home := isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "frame.csv", frameCSV)
	planJSON := filepath.Join(dir, "plan.json")
	labels := filepath.Join(dir, "labels.pdf")

	stdout, stderr, err := run(t, "solve", input, "--rod-length", "6000", "-o", planJSON, "--labels", labels)
	require.NoError(t, err)

	assert.Contains(t, stdout, "frame")
	assert.Regexp(t, `Rods used:\s+2`, stdout)
	assert.Regexp(t, `Status:\s+optimal`, stdout)
	assert.Contains(t, stderr, "Wrote "+planJSON)
	assert.FileExists(t, labels)

	data, err := os.ReadFile(planJSON)
	require.NoError(t, err)
	var plan model.CuttingPlan
	require.NoError(t, json.Unmarshal(data, &plan))
	assert.Equal(t, 2, plan.TotalRodsUsed)
	assert.Equal(t, map[int]int{3100: 2, 2900: 2}, plan.PieceCounts())

	// Nothing was saved, so the config file was never written
	assert.NoFileExists(t, filepath.Join(home, "config.json"))
}

func TestSolve_JSONAndUnits(t *testing.T) {
	isolate(t)
	input := writeFile(t, t.TempDir(), "shelf.csv", "length,qty\n1.5,4\n")

	stdout, _, err := run(t, "solve", input, "--json", "-u", "m", "-r", "6", "--repeat", "--backend", "sat")
	require.NoError(t, err)

	var plan model.CuttingPlan
	require.NoError(t, json.Unmarshal([]byte(stdout), &plan))
	assert.Equal(t, 6000, plan.RodLength)
	assert.Equal(t, 1, plan.TotalRodsUsed)
	assert.Equal(t, model.BackendSAT, plan.Backend)
}

func TestSolve_SaveAndReloadProject(t *testing.T) {
	home := isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "frame.csv", frameCSV)

	_, stderr, err := run(t, "solve", input, "--save", filepath.Join(dir, "frame"), "--name", "Garden frame")
	require.NoError(t, err)
	saved := filepath.Join(dir, "frame"+project.FileExt)
	assert.Contains(t, stderr, "Saved "+saved)

	proj, err := project.LoadProject(saved)
	require.NoError(t, err)
	assert.Equal(t, "Garden frame", proj.Name)
	require.NotNil(t, proj.Result)
	assert.Equal(t, 2, proj.Result.TotalRodsUsed)

	appCfg, err := project.LoadAppConfig(filepath.Join(home, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{saved}, appCfg.RecentProjects)

	stdout, _, err := run(t, "solve", saved)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Garden frame")
	assert.Regexp(t, `Rods used:\s+2`, stdout)
}

func TestSolve_Errors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	frame := writeFile(t, dir, "frame.csv", frameCSV)
	long := writeFile(t, dir, "long.csv", "length,qty\n1500,1\n")
	bad := writeFile(t, dir, "bad.csv", "length,qty\n-5,1\n")

	tests := []struct {
		name    string
		factory engine.SolverFactory
		args    []string
		want    int
	}{
		{"no input", nil, []string{"solve"}, ExitInvalid},
		{"unknown flag", nil, []string{"solve", frame, "--bogus"}, ExitInvalid},
		{"bad unit", nil, []string{"solve", frame, "-u", "ft"}, ExitInvalid},
		{"bad backend", nil, []string{"solve", frame, "-b", "cplex"}, ExitInvalid},
		{"negative time limit", nil, []string{"solve", frame, "--time-limit", "-1"}, ExitInvalid},
		{"bad rows", nil, []string{"solve", bad}, ExitInvalid},
		{"missing file", nil, []string{"solve", filepath.Join(dir, "nope.csv")}, ExitInvalid},
		{"template and file", nil, []string{"solve", frame, "-t", "x"}, ExitInvalid},
		{"unknown template", nil, []string{"solve", "-t", "x"}, ExitInvalid},
		{"piece longer than rod", nil, []string{"solve", long, "-r", "1000"}, ExitInfeasible},
		{"model too large", nil, []string{"solve", frame, "--max-vars", "3"}, ExitTooLarge},
		{
			"no plan in budget",
			func(model.Backend) (cpmodel.Solver, error) { return unknownSolver{}, nil },
			[]string{"solve", frame},
			ExitOutOfBudget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := tt.factory
			if factory == nil {
				factory = solver.New
			}
			_, _, err := runWith(t, factory, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, ExitCode(err), err.Error())
		})
	}
}

func TestCompare(t *testing.T) {
	isolate(t)
	input := writeFile(t, t.TempDir(), "frame.csv", frameCSV)

	stdout, _, err := run(t, "compare", input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "SCENARIO")
	assert.Contains(t, stdout, "Current Settings")
	assert.Contains(t, stdout, "Backend gini")

	stdout, _, err = run(t, "compare", input, "--json")
	require.NoError(t, err)
	var rows []comparisonRow
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 5)
	for _, r := range rows {
		assert.Empty(t, r.Error, r.Scenario)
		assert.Equal(t, 2, r.RodsUsed, r.Scenario)
	}
}

func TestEstimate(t *testing.T) {
	isolate(t)
	input := writeFile(t, t.TempDir(), "frame.csv", frameCSV)

	stdout, _, err := run(t, "estimate", input, "--price", "12.5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Rods (minimum):     2")
	assert.Contains(t, stdout, "Rods (+10% waste): 3")
	assert.Contains(t, stdout, "Estimated cost:     37.50")

	stdout, _, err = run(t, "estimate", input, "--json", "--waste", "0")
	require.NoError(t, err)
	var est model.PurchaseEstimate
	require.NoError(t, json.Unmarshal([]byte(stdout), &est))
	assert.Equal(t, 2, est.RodsWithWaste)

	_, _, err = run(t, "estimate", input, "--waste", "-1")
	assert.Equal(t, ExitInvalid, ExitCode(err))
}

func TestModel(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "frame.csv", frameCSV)

	stdout, stderr, err := run(t, "model", input)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "* #variable="))
	assert.Contains(t, stdout, "min:")
	assert.Contains(t, stderr, "2 slots")

	out := filepath.Join(dir, "frame.opb")
	stdout, _, err = run(t, "model", input, "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "min:")
}

func TestTemplate_SaveListDelete(t *testing.T) {
	isolate(t)
	input := writeFile(t, t.TempDir(), "frame.csv", frameCSV)

	stdout, _, err := run(t, "template", "save", "frame", input, "-d", "Garden frame", "--repeat")
	require.NoError(t, err)
	assert.Contains(t, stdout, `Saved template "frame"`)

	// Saving under the same name replaces the template
	_, _, err = run(t, "template", "save", "frame", input, "-d", "Garden frame v2")
	require.NoError(t, err)

	store, err := project.LoadTemplates(project.DefaultTemplatePath())
	require.NoError(t, err)
	require.Len(t, store.Templates, 1)
	assert.Equal(t, "Garden frame v2", store.Templates[0].Description)
	assert.False(t, store.Templates[0].Settings.RepeatPieces)

	stdout, _, err = run(t, "template", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "frame")
	assert.Contains(t, stdout, "6000 mm")

	stdout, _, err = run(t, "template", "list", "--names")
	require.NoError(t, err)
	assert.Equal(t, "frame\n", stdout)

	stdout, _, err = run(t, "solve", "--template", "frame")
	require.NoError(t, err)
	assert.Regexp(t, `Rods used:\s+2`, stdout)

	stdout, _, err = run(t, "template", "delete", store.Templates[0].ID)
	require.NoError(t, err)
	assert.Contains(t, stdout, `Deleted template "frame"`)

	stdout, _, err = run(t, "template", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No templates saved")

	_, _, err = run(t, "template", "delete", "frame")
	assert.Error(t, err)
}

func TestConfig_InitShow(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.json")

	stdout, _, err := run(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, path)
	assert.FileExists(t, path)

	_, _, err = run(t, "config", "init")
	assert.Equal(t, ExitInvalid, ExitCode(err))
	_, _, err = run(t, "config", "init", "--force")
	require.NoError(t, err)

	t.Setenv(config.EnvBackend, "gini")
	stdout, _, err = run(t, "config", "show")
	require.NoError(t, err)
	var view struct {
		ConfigPath string              `json:"config_path"`
		Settings   model.SolveSettings `json:"settings"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, path, view.ConfigPath)
	assert.Equal(t, model.BackendSAT, view.Settings.Backend)
}

func TestConfig_InvalidEnv(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvTimeLimit, "soon")
	_, _, err := run(t, "config", "show")
	assert.Error(t, err)
}

func TestBackup_ExportImport(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "frame.csv", frameCSV)
	backup := filepath.Join(dir, "backup.json")

	_, _, err := run(t, "template", "save", "frame", input)
	require.NoError(t, err)
	stdout, _, err := run(t, "backup", "export", backup)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 templates")

	_, _, err = run(t, "template", "delete", "frame")
	require.NoError(t, err)

	stdout, _, err = run(t, "backup", "import", backup)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 templates")

	store, err := project.LoadTemplates(project.DefaultTemplatePath())
	require.NoError(t, err)
	require.Len(t, store.Templates, 1)
	assert.Equal(t, "frame", store.Templates[0].Name)
}
