package cli

import (
	"fmt"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/piwi3910/RodCut/internal/engine"
	"github.com/piwi3910/RodCut/internal/export"
	"github.com/piwi3910/RodCut/internal/model"
	"github.com/piwi3910/RodCut/internal/project"
)

// maxRecentProjects caps the recent project list in the app config.
const maxRecentProjects = 10

func (a *app) newSolveCommand() *cobra.Command {
	in := &inputFlags{}
	var (
		outputs []string
		labels  string
		save    string
	)

	cmd := &cobra.Command{
		Use:   "solve [input]",
		Short: "Compute a cutting plan with the fewest rods",
		Long: `Compute a cutting plan with the fewest rods.

The input is a CSV or Excel cut list, a .rodcut project file, or a saved
template given with --template. Cut lists need a length column and may carry
label and quantity columns; lengths are read in --unit.

The plan is printed to stdout. Use --output to also write it to files; the
format follows the extension (.txt, .json, .pdf, .xlsx, .dxf).`,
		Example: `  rodcut solve cutlist.csv --rod-length 6000
  rodcut solve frame.xlsx -u m -r 6 -o plan.pdf -o plan.dxf --labels labels.pdf
  rodcut solve --template shelf --backend gini --time-limit 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := a.resolve(cmd, in, args)
			if err != nil {
				return err
			}

			s, err := a.newSolver(input.Settings.Backend)
			if err != nil {
				return usageError{err}
			}
			plan, err := engine.New(input.Settings, s).Optimize(cmd.Context(), input.Problem)
			if err != nil {
				return err
			}

			opts := export.ReportOptions{Unit: input.Unit, MinOffcutLength: a.cfg.MinOffcutLength}
			if a.jsonOut {
				err = export.WriteJSON(cmd.OutOrStdout(), plan)
			} else {
				err = export.WriteText(cmd.OutOrStdout(), plan, opts)
			}
			if err != nil {
				return err
			}

			for _, path := range outputs {
				if err := export.ExportFile(path, plan, input.Settings, opts); err != nil {
					return fmt.Errorf("export %s: %w", path, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
			}
			if labels != "" {
				if err := export.ExportLabels(labels, plan, input.Unit); err != nil {
					return fmt.Errorf("labels %s: %w", labels, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", labels)
			}
			if save != "" {
				path, err := a.saveProject(save, input, plan)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", path)
			}
			return nil
		},
	}

	in.register(cmd, true)
	cmd.Flags().StringArrayVarP(&outputs, "output", "o", nil, "Also write the plan to this file (repeatable)")
	cmd.Flags().StringVar(&labels, "labels", "", "Write printable piece labels to this PDF")
	cmd.Flags().StringVar(&save, "save", "", "Save problem, settings and plan as a project file")
	return cmd
}

// saveProject writes the project and records it in the recent list.
func (a *app) saveProject(path string, input problemInput, plan model.CuttingPlan) (string, error) {
	proj := model.Project{
		Name:     input.Problem.Name,
		Problem:  input.Problem,
		Settings: input.Settings,
		Result:   &plan,
	}
	saved, err := project.SaveProject(path, proj)
	if err != nil {
		return "", err
	}

	a.cfg.App.AddRecentProject(saved, maxRecentProjects)
	if err := project.SaveAppConfig(a.cfg.ConfigPath, a.cfg.App); err != nil {
		// The project itself is safe on disk.
		log.Warningf("could not update recent projects: %v", err)
	}
	return saved, nil
}
