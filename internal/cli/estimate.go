package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RodCut/internal/engine"
	"github.com/piwi3910/RodCut/internal/model"
)

// defaultWastePercent is the allowance added to the material estimate.
const defaultWastePercent = 10

func (a *app) newEstimateCommand() *cobra.Command {
	in := &inputFlags{}
	var (
		waste float64
		price float64
	)

	cmd := &cobra.Command{
		Use:   "estimate [input]",
		Short: "Estimate how many rods to buy without solving",
		Long: `Estimate how many rods to buy from the total piece length and a waste
allowance. The minimum is a lower bound on any cutting plan; run solve for
the actual count.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := a.resolve(cmd, in, args)
			if err != nil {
				return err
			}
			if waste < 0 {
				return usageError{errors.New("--waste must not be negative")}
			}
			if err := engine.Validate(input.Problem); err != nil {
				return err
			}
			if !cmd.Flags().Changed("price") {
				price = a.cfg.PricePerRod
			}

			est := model.CalculatePurchaseEstimate(input.Problem.Pieces, input.Problem.RodLength, waste, price)
			if a.jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(est)
			}
			writeEstimate(cmd.OutOrStdout(), est, input.Unit)
			return nil
		},
	}

	in.register(cmd, true)
	cmd.Flags().Float64Var(&waste, "waste", defaultWastePercent, "Waste allowance in percent")
	cmd.Flags().Float64Var(&price, "price", 0, "Price per rod (default: from config)")
	return cmd
}

func writeEstimate(w io.Writer, est model.PurchaseEstimate, unit model.Unit) {
	fmt.Fprintf(w, "Total piece length: %s\n", unit.Format(est.TotalPieceLength))
	fmt.Fprintf(w, "Rod length:         %s\n", unit.Format(est.RodLength))
	fmt.Fprintf(w, "Rods (exact):       %.2f\n", est.RodsNeededExact)
	fmt.Fprintf(w, "Rods (minimum):     %d\n", est.RodsNeededMin)
	fmt.Fprintf(w, "Rods (+%g%% waste): %d\n", est.WastePercent, est.RodsWithWaste)
	if est.PricePerRod > 0 {
		fmt.Fprintf(w, "Estimated cost:     %.2f\n", est.EstimatedCost)
	}
}
