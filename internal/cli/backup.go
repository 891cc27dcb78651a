package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RodCut/internal/project"
)

func (a *app) newBackupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore the config and templates",
	}

	exportCmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the config and all templates to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadTemplates(project.DefaultTemplatePath())
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], a.cfg.App, store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported config and %d templates to %s\n", len(store.Templates), args[0])
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore the config and templates from a backup",
		Long:  "Restore the config and templates from a backup. Both are replaced.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(a.cfg.ConfigPath, backup.Config); err != nil {
				return err
			}
			if err := project.SaveTemplates(project.DefaultTemplatePath(), backup.Templates); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored config and %d templates from backup %s (%s)\n",
				len(backup.Templates.Templates), backup.Version, backup.CreatedAt)
			return nil
		},
	}

	cmd.AddCommand(exportCmd, importCmd)
	return cmd
}
