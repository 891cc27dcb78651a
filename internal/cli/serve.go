package cli

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/RodCut/internal/api"
)

func (a *app) newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the optimizer over HTTP",
		Long: `Serve the optimizer as a JSON API:

  GET  /api/v1/health    Status and available backends
  POST /api/v1/plans     Solve a problem
  POST /api/v1/compare   Solve under the what-if scenarios
  POST /api/v1/estimate  Purchase estimate without solving
  POST /api/v1/model     The constraint model in OPB format`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Addr
			}
			router := api.SetupRouter(api.Options{
				Defaults:        a.cfg.Settings,
				NewSolver:       a.newSolver,
				PricePerRod:     a.cfg.PricePerRod,
				MinOffcutLength: a.cfg.MinOffcutLength,
			})
			return api.Serve(cmd.Context(), addr, router)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: from RODCUT_ADDR or :8080)")
	return cmd
}
