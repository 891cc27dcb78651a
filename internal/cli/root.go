// Package cli implements the rodcut command line.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/piwi3910/RodCut/internal/config"
	"github.com/piwi3910/RodCut/internal/engine"
	"github.com/piwi3910/RodCut/internal/solver"
)

// app holds the state shared by all subcommands of one invocation.
type app struct {
	envFile   string
	jsonOut   bool
	cfg       *config.Config
	newSolver engine.SolverFactory
}

// NewRootCommand builds the command tree. Each call returns an independent
// tree so tests can run commands side by side.
func NewRootCommand() *cobra.Command {
	return newRootCommand(solver.New)
}

func newRootCommand(newSolver engine.SolverFactory) *cobra.Command {
	a := &app{newSolver: newSolver}

	root := &cobra.Command{
		Use:   "rodcut",
		Short: "Cut lists for rods, bars and profiles with the fewest stock lengths",
		Long: `rodcut computes cutting plans for one-dimensional stock: given a rod length
and the pieces you need, it finds a plan that uses the fewest rods.

Exit codes:
  0 - Success
  1 - Unexpected failure
  2 - Invalid input or usage
  3 - No cutting plan exists
  4 - Model exceeds the configured size ceiling
  5 - No plan found within the time limit

Environment Variables:
  RODCUT_HOME           Configuration directory (default: ~/.rodcut)
  RODCUT_CONFIG         App config file (default: $RODCUT_HOME/config.json)
  RODCUT_BACKEND        Solver backend: gophersat or gini
  RODCUT_TIME_LIMIT     Solve time limit in seconds
  RODCUT_MAX_VARS       Ceiling on assignment variables (0 disables it)
  RODCUT_SLOT_BOUND     Candidate rod bound: greedy, genetic or demand
  RODCUT_REPEAT_PIECES  Allow several pieces of one length per rod
  RODCUT_UNIT           Display unit: mm, cm or m
  RODCUT_ADDR           HTTP listen address for serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.envFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Load environment variables from this file (default: .env if present)")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Output JSON instead of human-readable text")
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	root.AddCommand(
		a.newSolveCommand(),
		a.newCompareCommand(),
		a.newEstimateCommand(),
		a.newModelCommand(),
		a.newServeCommand(),
		a.newTemplateCommand(),
		a.newConfigCommand(),
		a.newBackupCommand(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	defer log.Flush()

	err := NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}
