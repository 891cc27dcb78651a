package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RodCut/internal/model"
	"github.com/piwi3910/RodCut/internal/project"
)

func (a *app) newTemplateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage reusable cut list templates",
	}
	cmd.AddCommand(a.newTemplateSaveCommand(), a.newTemplateListCommand(), a.newTemplateDeleteCommand())
	return cmd
}

func (a *app) newTemplateSaveCommand() *cobra.Command {
	in := &inputFlags{}
	var description string

	cmd := &cobra.Command{
		Use:   "save <name> <input>",
		Short: "Save a cut list as a template",
		Long: `Save the rod length, pieces and solve settings of a cut list or project as a
named template. A template with the same name is replaced.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			input, err := a.resolve(cmd, in, args[1:])
			if err != nil {
				return err
			}

			path := project.DefaultTemplatePath()
			store, err := project.LoadTemplates(path)
			if err != nil {
				return err
			}
			if old := store.FindByName(name); old != nil {
				store.Remove(old.ID)
			}
			t := model.NewCutListTemplate(name, description, input.Problem, input.Settings)
			store.Add(t)
			if err := project.SaveTemplates(path, store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved template %q (%s) with %d pieces\n", t.Name, t.ID, len(t.Pieces))
			return nil
		},
	}

	in.register(cmd, false)
	cmd.Flags().StringVarP(&description, "description", "d", "", "Template description")
	return cmd
}

func (a *app) newTemplateListCommand() *cobra.Command {
	var namesOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadTemplates(project.DefaultTemplatePath())
			if err != nil {
				return err
			}
			if namesOnly {
				for _, name := range store.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			if a.jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(store.Templates)
			}
			if len(store.Templates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates saved")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tROD\tPIECES\tDESCRIPTION")
			for _, t := range store.Templates {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
					t.ID, t.Name, a.cfg.Unit.Format(t.RodLength), demandOf(t.Pieces), t.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&namesOnly, "names", false, "Print only template names, one per line")
	return cmd
}

func (a *app) newTemplateDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name|id>",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := project.DefaultTemplatePath()
			store, err := project.LoadTemplates(path)
			if err != nil {
				return err
			}
			t := findTemplate(&store, args[0])
			if t == nil {
				return fmt.Errorf("template %q not found", args[0])
			}
			name := t.Name
			store.Remove(t.ID)
			if err := project.SaveTemplates(path, store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %q\n", name)
			return nil
		},
	}
}

func demandOf(pieces []model.Piece) int {
	n := 0
	for _, p := range pieces {
		n += p.Demand
	}
	return n
}
