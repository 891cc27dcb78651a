package export

import (
	"fmt"
	"os"

	log "github.com/golang/glog"

	"github.com/piwi3910/RodCut/internal/model"
)

// ExportFile writes the plan to path in the format implied by its extension.
func ExportFile(path string, plan model.CuttingPlan, settings model.SolveSettings, opts ReportOptions) error {
	format := FormatFromPath(path)
	log.V(1).Infof("exporting plan %s as %s to %s", plan.ID, format, path)

	switch format {
	case FormatPDF:
		return ExportPDF(path, plan, settings, opts)
	case FormatExcel:
		return ExportExcel(path, plan)
	case FormatDXF:
		return ExportDXF(path, plan)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if format == FormatJSON {
		err = WriteJSON(f, plan)
	} else {
		err = WriteText(f, plan, opts)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
