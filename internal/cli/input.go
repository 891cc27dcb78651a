package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/piwi3910/RodCut/internal/engine"
	"github.com/piwi3910/RodCut/internal/importer"
	"github.com/piwi3910/RodCut/internal/model"
	"github.com/piwi3910/RodCut/internal/project"
)

// inputFlags are shared by every command that reads a cutting problem.
type inputFlags struct {
	template   string
	name       string
	unit       string
	rodLength  float64
	backend    string
	timeLimit  float64
	maxVars    int
	slotBound  string
	repeat     bool
	noOrdering bool
	noSymmetry bool
}

func (in *inputFlags) register(cmd *cobra.Command, withTemplate bool) {
	fs := cmd.Flags()
	if withTemplate {
		fs.StringVarP(&in.template, "template", "t", "", "Read the problem from a saved template (name or ID)")
	}
	fs.StringVar(&in.name, "name", "", "Problem name (default: input file name)")
	fs.StringVarP(&in.unit, "unit", "u", "", "Unit of input and output lengths: mm, cm or m")
	fs.Float64VarP(&in.rodLength, "rod-length", "r", 0, "Stock rod length in --unit")
	fs.StringVarP(&in.backend, "backend", "b", "", "Solver backend: gophersat (pb) or gini (sat)")
	fs.Float64Var(&in.timeLimit, "time-limit", 0, "Solve time limit in seconds, 0 for none")
	fs.IntVar(&in.maxVars, "max-vars", 0, "Ceiling on assignment variables, 0 disables it")
	fs.StringVar(&in.slotBound, "slot-bound", "", "Candidate rod bound: greedy, genetic or demand")
	fs.BoolVar(&in.repeat, "repeat", false, "Allow several pieces of one length on a rod")
	fs.BoolVar(&in.noOrdering, "no-ordering", false, "Keep catalogue order instead of largest first")
	fs.BoolVar(&in.noSymmetry, "no-symmetry", false, "Disable symmetry breaking between rods")
}

// problemInput is a resolved problem with the settings and unit to solve it with.
type problemInput struct {
	Problem  model.Problem
	Settings model.SolveSettings
	Unit     model.Unit
}

// resolve reads the problem from a template, a project file or a cut list,
// then applies the flags that were set explicitly.
func (a *app) resolve(cmd *cobra.Command, in *inputFlags, args []string) (problemInput, error) {
	unit := a.cfg.Unit
	if in.unit != "" {
		u, err := model.ParseUnit(in.unit)
		if err != nil {
			return problemInput{}, usageError{err}
		}
		unit = u
	}

	res := problemInput{Settings: a.cfg.Settings, Unit: unit}
	switch {
	case in.template != "" && len(args) > 0:
		return problemInput{}, usageError{errors.New("give either an input file or --template, not both")}
	case in.template != "":
		store, err := project.LoadTemplates(project.DefaultTemplatePath())
		if err != nil {
			return problemInput{}, err
		}
		t := findTemplate(&store, in.template)
		if t == nil {
			return problemInput{}, usageError{fmt.Errorf("template %q not found", in.template)}
		}
		res.Problem = t.ToProject(t.Name).Problem
		res.Settings = t.Settings
	case len(args) == 0:
		return problemInput{}, usageError{errors.New("an input file or --template is required")}
	case strings.EqualFold(filepath.Ext(args[0]), project.FileExt):
		p, err := project.LoadProject(args[0])
		if err != nil {
			return problemInput{}, err
		}
		res.Problem = p.Problem
		res.Settings = p.Settings
	default:
		path := args[0]
		result := importer.ImportFile(path, unit)
		for _, w := range result.Warnings {
			log.Warningf("%s: %s", path, w)
		}
		if err := result.Err(); err != nil {
			return problemInput{}, fmt.Errorf("%w: %s: %v", engine.ErrInvalidSpecification, path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		res.Problem = result.Problem(name, a.cfg.RodLength)
	}

	if in.name != "" {
		res.Problem.Name = in.name
	}
	if cmd.Flags().Changed("rod-length") {
		mm, err := unit.ToMillimeters(in.rodLength)
		if err != nil {
			return problemInput{}, usageError{fmt.Errorf("--rod-length: %w", err)}
		}
		res.Problem.RodLength = mm
	}

	if err := in.applySettings(cmd, &res.Settings); err != nil {
		return problemInput{}, err
	}
	return res, nil
}

// applySettings overrides s with the solve flags the user set.
func (in *inputFlags) applySettings(cmd *cobra.Command, s *model.SolveSettings) error {
	fs := cmd.Flags()
	if fs.Changed("backend") {
		b, err := model.ParseBackend(in.backend)
		if err != nil {
			return usageError{err}
		}
		s.Backend = b
	}
	if fs.Changed("slot-bound") {
		sb, err := model.ParseSlotBound(in.slotBound)
		if err != nil {
			return usageError{err}
		}
		s.SlotBound = sb
	}
	if fs.Changed("time-limit") {
		if in.timeLimit < 0 {
			return usageError{errors.New("--time-limit must not be negative")}
		}
		s.TimeLimitSeconds = in.timeLimit
	}
	if fs.Changed("max-vars") {
		if in.maxVars < 0 {
			return usageError{errors.New("--max-vars must not be negative")}
		}
		s.MaxAssignmentVars = in.maxVars
	}
	if fs.Changed("repeat") {
		s.RepeatPieces = in.repeat
	}
	if fs.Changed("no-ordering") {
		s.Ordering = !in.noOrdering
	}
	if fs.Changed("no-symmetry") {
		s.SymmetryBreaking = !in.noSymmetry
	}
	return nil
}

// findTemplate looks a template up by ID first, then by name.
func findTemplate(store *model.TemplateStore, key string) *model.CutListTemplate {
	if t := store.FindByID(key); t != nil {
		return t
	}
	return store.FindByName(key)
}
