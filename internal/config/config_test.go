package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RodCut/internal/model"
	"github.com/piwi3910/RodCut/internal/project"
)

// isolate points the config at an empty temp dir and clears RODCUT_* variables.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range []string{EnvBackend, EnvTimeLimit, EnvMaxVars, EnvSlotBound, EnvRepeatPieces, EnvUnit, EnvAddr} {
		t.Setenv(k, "")
	}
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv(EnvConfig, path)
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigPath)
	assert.Equal(t, model.DefaultSettings(), cfg.Settings)
	assert.Equal(t, model.DefaultRodLength, cfg.RodLength)
	assert.Equal(t, model.UnitMillimeter, cfg.Unit)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, model.MinOffcutLength, cfg.MinOffcutLength)
}

func TestLoad_AppConfigFile(t *testing.T) {
	path := isolate(t)

	app := model.DefaultAppConfig()
	app.DefaultBackend = model.BackendSAT
	app.DefaultRodLength = 12000
	app.DefaultRepeatPieces = true
	app.PricePerRod = 9.5
	require.NoError(t, project.SaveAppConfig(path, app))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, model.BackendSAT, cfg.Settings.Backend)
	assert.True(t, cfg.Settings.RepeatPieces)
	assert.Equal(t, 12000, cfg.RodLength)
	assert.Equal(t, 9.5, cfg.PricePerRod)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := isolate(t)

	app := model.DefaultAppConfig()
	app.DefaultBackend = model.BackendSAT
	require.NoError(t, project.SaveAppConfig(path, app))

	t.Setenv(EnvBackend, "pb")
	t.Setenv(EnvTimeLimit, "2.5")
	t.Setenv(EnvMaxVars, "1000")
	t.Setenv(EnvSlotBound, "ga")
	t.Setenv(EnvRepeatPieces, "true")
	t.Setenv(EnvUnit, "cm")
	t.Setenv(EnvAddr, "127.0.0.1:9000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, model.BackendPB, cfg.Settings.Backend)
	assert.Equal(t, 2.5, cfg.Settings.TimeLimitSeconds)
	assert.Equal(t, 1000, cfg.Settings.MaxAssignmentVars)
	assert.Equal(t, model.SlotBoundGenetic, cfg.Settings.SlotBound)
	assert.True(t, cfg.Settings.RepeatPieces)
	assert.Equal(t, model.UnitCentimeter, cfg.Unit)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
}

func TestLoad_InvalidEnv(t *testing.T) {
	cases := map[string]string{
		EnvBackend:      "cplex",
		EnvSlotBound:    "magic",
		EnvUnit:         "in",
		EnvTimeLimit:    "soon",
		EnvMaxVars:      "lots",
		EnvRepeatPieces: "sometimes",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_NegativeLimits(t *testing.T) {
	isolate(t)
	t.Setenv(EnvTimeLimit, "-1")
	_, err := Load("")
	assert.Error(t, err)

	isolate(t)
	t.Setenv(EnvMaxVars, "-5")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	isolate(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("RODCUT_ADDR=:7070\nRODCUT_BACKEND=gini\n"), 0644))

	// Already-set variables win over the file.
	t.Setenv(EnvBackend, "gophersat")
	t.Setenv(EnvAddr, "")
	require.NoError(t, os.Unsetenv(EnvAddr))
	t.Cleanup(func() { os.Unsetenv(EnvAddr) })

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, model.BackendPB, cfg.Settings.Backend)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	path := isolate(t)
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err := Load("")
	assert.Error(t, err)
}
