package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RodCut/internal/engine"
)

func (a *app) newCompareCommand() *cobra.Command {
	in := &inputFlags{}

	cmd := &cobra.Command{
		Use:   "compare [input]",
		Short: "Solve under alternative settings and compare the results",
		Long: `Solve the problem once per what-if scenario: the current settings, the other
backend, the other ordering, without symmetry breaking and with repeated
pieces. Scenarios run concurrently.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := a.resolve(cmd, in, args)
			if err != nil {
				return err
			}
			if err := engine.Validate(input.Problem); err != nil {
				return err
			}

			scenarios := engine.BuildDefaultScenarios(input.Settings)
			results, err := engine.CompareScenarios(cmd.Context(), scenarios, input.Problem, a.newSolver)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeComparisonJSON(cmd.OutOrStdout(), results)
			}
			return writeComparison(cmd.OutOrStdout(), results)
		},
	}

	in.register(cmd, true)
	return cmd
}

func writeComparison(w io.Writer, results []engine.ComparisonResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tRODS\tWASTE\tWASTE %\tSTATUS\tTIME")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\terror: %v\t-\n", r.Scenario.Name, r.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%s\t%s\n",
			r.Scenario.Name, r.RodsUsed, r.TotalWaste, r.WastePercent, r.Status, r.SolveTime.Round(time.Millisecond))
	}
	return tw.Flush()
}

type comparisonRow struct {
	Scenario     string  `json:"scenario"`
	RodsUsed     int     `json:"rods_used,omitempty"`
	TotalWaste   int     `json:"total_waste,omitempty"`
	WastePercent float64 `json:"waste_percent,omitempty"`
	Status       string  `json:"status,omitempty"`
	SolveTimeMS  int64   `json:"solve_time_ms,omitempty"`
	Error        string  `json:"error,omitempty"`
}

func writeComparisonJSON(w io.Writer, results []engine.ComparisonResult) error {
	rows := make([]comparisonRow, len(results))
	for i, r := range results {
		row := comparisonRow{Scenario: r.Scenario.Name}
		if r.Err != nil {
			row.Error = r.Err.Error()
		} else {
			row.RodsUsed = r.RodsUsed
			row.TotalWaste = r.TotalWaste
			row.WastePercent = r.WastePercent
			row.Status = string(r.Status)
			row.SolveTimeMS = r.SolveTime.Milliseconds()
		}
		rows[i] = row
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
