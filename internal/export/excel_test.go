package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/RodCut/internal/model"
)

func TestExportExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")

	if err := ExportExcel(path, buildTestPlan()); err != nil {
		t.Fatalf("ExportExcel returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != SheetCutList {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	rows, err := f.GetRows(SheetCutList)
	if err != nil {
		t.Fatal(err)
	}
	// Header plus one row per piece
	if len(rows) != 5 {
		t.Fatalf("expected 5 cut list rows, got %d", len(rows))
	}
	if got := rows[4]; got[0] != "2" || got[2] != "Brace" || got[3] != "1500" || got[4] != "3100" {
		t.Errorf("unexpected last cut row %v", got)
	}

	rods, err := f.GetRows(SheetRods)
	if err != nil {
		t.Fatal(err)
	}
	if len(rods) != 3 {
		t.Fatalf("expected 3 rod rows, got %d", len(rods))
	}
	if rods[2][3] != "1400" {
		t.Errorf("expected rod 2 waste 1400, got %q", rods[2][3])
	}

	waste, err := f.GetCellValue(SheetSummary, "B5")
	if err != nil {
		t.Fatal(err)
	}
	if waste != "1400" {
		t.Errorf("expected total waste 1400, got %q", waste)
	}
}

func TestExportExcel_EmptyPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := ExportExcel(path, model.CuttingPlan{RodLength: 6000}); err != nil {
		t.Fatalf("ExportExcel returned error: %v", err)
	}
	assertFileWritten(t, path, 100)
}
