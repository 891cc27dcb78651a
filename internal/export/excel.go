package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/RodCut/internal/model"
)

// Sheet names of the exported workbook.
const (
	SheetCutList = "Cut List"
	SheetRods    = "Rods"
	SheetSummary = "Summary"
)

// ExportExcel writes the plan to an .xlsx workbook with a cut list sheet (one
// row per piece), a per-rod sheet and a summary sheet. Lengths are in mm.
func ExportExcel(path string, plan model.CuttingPlan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetCutList); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetRods, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	// Cut list
	cuts := [][]interface{}{{"Rod", "Cut", "Label", "Length (mm)", "Offset (mm)"}}
	for _, rod := range plan.Rods {
		for _, p := range Placements(rod) {
			cuts = append(cuts, []interface{}{rod.Number, p.Index, p.Label, p.Length, p.Offset})
		}
	}
	if err := writeRows(f, SheetCutList, cuts, header); err != nil {
		return err
	}

	// Rods
	rods := [][]interface{}{{"Rod", "Pieces", "Used (mm)", "Waste (mm)", "Efficiency (%)"}}
	for _, rod := range plan.Rods {
		rods = append(rods, []interface{}{rod.Number, len(rod.Cuts), rod.UsedLength, rod.Waste, round1(rod.Efficiency())})
	}
	if err := writeRows(f, SheetRods, rods, header); err != nil {
		return err
	}

	// Summary
	summary := [][]interface{}{
		{"Field", "Value"},
		{"Problem", plan.ProblemName},
		{"Rod length (mm)", plan.RodLength},
		{"Rods used", plan.TotalRodsUsed},
		{"Total waste (mm)", plan.TotalWaste},
		{"Efficiency (%)", round1(plan.Efficiency())},
		{"Status", string(plan.Status)},
		{"Backend", string(plan.Backend)},
		{"Solve time (s)", plan.SolveTime.Seconds()},
	}
	if err := writeRows(f, SheetSummary, summary, header); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.SaveAs(path)
}

// writeRows fills a sheet from A1 and styles the first row as a header.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(rows[0]))
	return f.SetColWidth(sheet, "A", lastCol, 16)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
