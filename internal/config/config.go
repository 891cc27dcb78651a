// Package config resolves runtime configuration. Values are layered: built-in
// defaults, then the JSON app config, then the environment (optionally seeded
// from a .env file). Command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	log "github.com/golang/glog"
	"github.com/joho/godotenv"

	"github.com/piwi3910/RodCut/internal/model"
	"github.com/piwi3910/RodCut/internal/project"
)

// Environment variables.
const (
	EnvConfig       = "RODCUT_CONFIG"
	EnvBackend      = "RODCUT_BACKEND"
	EnvTimeLimit    = "RODCUT_TIME_LIMIT"
	EnvMaxVars      = "RODCUT_MAX_VARS"
	EnvSlotBound    = "RODCUT_SLOT_BOUND"
	EnvRepeatPieces = "RODCUT_REPEAT_PIECES"
	EnvUnit         = "RODCUT_UNIT"
	EnvAddr         = "RODCUT_ADDR"
)

// DefaultAddr is where the HTTP API listens unless configured otherwise.
const DefaultAddr = ":8080"

type Config struct {
	// Paths
	ConfigPath string

	// Solve defaults
	Settings  model.SolveSettings
	RodLength int

	// Output
	Unit            model.Unit
	MinOffcutLength int
	PricePerRod     float64

	// Server
	Addr string

	// App is the app config file as loaded, for commands that rewrite it
	App model.AppConfig
}

// Load builds the configuration. envFile names a dotenv file to load; when
// empty, a .env in the working directory is used if present. Variables that
// are already set in the process environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		ConfigPath: getEnv(EnvConfig, project.DefaultConfigPath()),
		Addr:       getEnv(EnvAddr, DefaultAddr),
	}

	app, err := project.LoadAppConfig(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.App = app

	cfg.Settings = model.DefaultSettings()
	app.ApplyToSettings(&cfg.Settings)
	cfg.RodLength = app.DefaultRodLength
	if cfg.RodLength <= 0 {
		cfg.RodLength = model.DefaultRodLength
	}
	cfg.Unit = app.DisplayUnit
	cfg.MinOffcutLength = app.MinOffcutLength
	cfg.PricePerRod = app.PricePerRod

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	log.V(1).Infof("config: %s, backend %s, time limit %.0fs, slot bound %s",
		cfg.ConfigPath, cfg.Settings.Backend, cfg.Settings.TimeLimitSeconds, cfg.Settings.SlotBound)
	return cfg, nil
}

// applyEnv overrides settings from RODCUT_* variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvBackend); v != "" {
		b, err := model.ParseBackend(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBackend, err)
		}
		c.Settings.Backend = b
	}
	if v := os.Getenv(EnvSlotBound); v != "" {
		sb, err := model.ParseSlotBound(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSlotBound, err)
		}
		c.Settings.SlotBound = sb
	}
	if v := os.Getenv(EnvUnit); v != "" {
		u, err := model.ParseUnit(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvUnit, err)
		}
		c.Unit = u
	}

	limit, err := getEnvFloat(EnvTimeLimit, c.Settings.TimeLimitSeconds)
	if err != nil {
		return err
	}
	if limit < 0 {
		return fmt.Errorf("%s must not be negative, got %g", EnvTimeLimit, limit)
	}
	c.Settings.TimeLimitSeconds = limit

	maxVars, err := getEnvInt(EnvMaxVars, c.Settings.MaxAssignmentVars)
	if err != nil {
		return err
	}
	if maxVars < 0 {
		return fmt.Errorf("%s must not be negative, got %d", EnvMaxVars, maxVars)
	}
	c.Settings.MaxAssignmentVars = maxVars

	repeat, err := getEnvBool(EnvRepeatPieces, c.Settings.RepeatPieces)
	if err != nil {
		return err
	}
	c.Settings.RepeatPieces = repeat
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, value)
	}
	return f, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, value)
	}
	return b, nil
}
