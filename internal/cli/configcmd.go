package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RodCut/internal/model"
	"github.com/piwi3910/RodCut/internal/project"
)

func (a *app) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise the configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Long:  "Print the configuration after applying the config file and the environment.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := struct {
				ConfigPath      string              `json:"config_path"`
				Addr            string              `json:"addr"`
				Unit            model.Unit          `json:"unit"`
				RodLength       int                 `json:"rod_length"`
				MinOffcutLength int                 `json:"min_offcut_length"`
				PricePerRod     float64             `json:"price_per_rod"`
				Settings        model.SolveSettings `json:"settings"`
				RecentProjects  []string            `json:"recent_projects"`
			}{
				ConfigPath:      a.cfg.ConfigPath,
				Addr:            a.cfg.Addr,
				Unit:            a.cfg.Unit,
				RodLength:       a.cfg.RodLength,
				MinOffcutLength: a.cfg.MinOffcutLength,
				PricePerRod:     a.cfg.PricePerRod,
				Settings:        a.cfg.Settings,
				RecentProjects:  a.cfg.App.RecentProjects,
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.ConfigPath
			if _, err := os.Stat(path); err == nil && !force {
				return usageError{fmt.Errorf("%s already exists, use --force to overwrite", path)}
			}
			if err := project.SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	cmd.AddCommand(show, initCmd)
	return cmd
}
