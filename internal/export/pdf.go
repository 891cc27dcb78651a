package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/RodCut/internal/model"
)

// pieceColor represents an RGB color for a cut piece.
type pieceColor struct {
	R, G, B int
}

// pieceColors cycles per piece length so equal lengths share a color.
var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	rodLabelW    = 22.0
	barHeight    = 10.0
	rowHeight    = 19.0
)

// rodsPerPage is how many rod bars fit between the header and the footer.
var rodsPerPage = int(rodsPerPageF)

var rodsPerPageF float64 = (pageHeight - drawAreaTop - marginBottom - 5) / rowHeight

// ExportPDF generates a PDF with every rod drawn to scale as a bar of its
// cuts, several rods per page, followed by a summary page.
func ExportPDF(path string, plan model.CuttingPlan, settings model.SolveSettings, opts ReportOptions) error {
	if len(plan.Rods) == 0 {
		return fmt.Errorf("no rods to export")
	}
	if plan.RodLength <= 0 {
		return fmt.Errorf("invalid rod length %d", plan.RodLength)
	}
	unit := opts.Unit
	if unit == "" {
		unit = model.UnitMillimeter
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	colors := colorIndex(plan)
	pages := (len(plan.Rods) + rodsPerPage - 1) / rodsPerPage
	for page := 0; page < pages; page++ {
		pdf.AddPage()
		first := page * rodsPerPage
		last := int(math.Min(float64(first+rodsPerPage), float64(len(plan.Rods))))
		renderRodPage(pdf, plan, plan.Rods[first:last], colors, unit, page+1, pages)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, plan, settings, opts)

	return pdf.OutputFileAndClose(path)
}

// colorIndex assigns a palette slot to each distinct piece length in order
// of first appearance.
func colorIndex(plan model.CuttingPlan) map[int]int {
	idx := map[int]int{}
	for _, r := range plan.Rods {
		for _, c := range r.Cuts {
			if _, ok := idx[c.Length]; !ok {
				idx[c.Length] = len(idx)
			}
		}
	}
	return idx
}

// renderRodPage draws a batch of rods on the current PDF page.
func renderRodPage(pdf *fpdf.Fpdf, plan model.CuttingPlan, rods []model.RodRecord, colors map[int]int, unit model.Unit, page, pages int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s: rods of %s (page %d of %d)", planTitle(plan), unit.Format(plan.RodLength), page, pages)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight - rodLabelW
	scale := drawWidth / float64(plan.RodLength)

	y := drawAreaTop
	for _, rod := range rods {
		// Rod number and stats
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(marginLeft, y+barHeight/2-2)
		pdf.CellFormat(rodLabelW, 4, fmt.Sprintf("Rod %d", rod.Number), "", 0, "L", false, 0, "")

		x0 := marginLeft + rodLabelW

		// Rod background (waste)
		pdf.SetFillColor(230, 230, 230)
		pdf.SetDrawColor(100, 100, 100)
		pdf.SetLineWidth(0.4)
		pdf.Rect(x0, y, float64(plan.RodLength)*scale, barHeight, "FD")

		for _, p := range Placements(rod) {
			col := pieceColors[colors[p.Length]%len(pieceColors)]
			px := x0 + float64(p.Offset)*scale
			pw := float64(p.Length) * scale

			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.3)
			pdf.Rect(px, y, pw, barHeight, "FD")

			text := unit.Format(p.Length)
			pdf.SetFont("Helvetica", "", 7)
			if tw := pdf.GetStringWidth(text); tw < pw-2 {
				pdf.SetXY(px+(pw-tw)/2, y+barHeight/2-2)
				pdf.CellFormat(tw, 4, text, "", 0, "C", false, 0, "")
			}
		}

		if rod.Waste > 0 {
			wx := x0 + float64(rod.UsedLength)*scale
			drawHatchPattern(pdf, wx, y, float64(rod.Waste)*scale, barHeight)
		}

		// Stats line below the bar
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(80, 80, 80)
		pdf.SetXY(x0, y+barHeight+0.5)
		stats := fmt.Sprintf("%d pieces | used %s | waste %s | %.1f%%",
			len(rod.Cuts), unit.Format(rod.UsedLength), unit.Format(rod.Waste), rod.Efficiency())
		pdf.CellFormat(drawWidth, 4, stats, "", 0, "L", false, 0, "")

		y += rowHeight
	}

	pdf.SetTextColor(0, 0, 0)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark waste.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(160, 160, 160)
	pdf.SetLineWidth(0.15)

	spacing := 2.5
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, plan model.CuttingPlan, settings model.SolveSettings, opts ReportOptions) {
	unit := opts.Unit
	if unit == "" {
		unit = model.UnitMillimeter
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cutting Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	remnants := model.DetectRemnants(plan, opts.MinOffcutLength)
	summaryItems := []struct {
		label string
		value string
	}{
		{"Rods Used", fmt.Sprintf("%d", plan.TotalRodsUsed)},
		{"Rod Length", unit.Format(plan.RodLength)},
		{"Total Waste", unit.Format(plan.TotalWaste)},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", plan.Efficiency())},
		{"Pieces Cut", fmt.Sprintf("%d", countPieces(plan))},
		{"Usable Remnants", fmt.Sprintf("%d (%s)", len(remnants), unit.Format(model.TotalRemnantLength(remnants)))},
		{"Status", string(plan.Status)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Pieces per length
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Pieces by Length", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{40, 30, 40}
	headers := []string{"Length", "Count", "Total"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	counts := plan.PieceCounts()
	for i, length := range sortedLengths(counts) {
		if y > pageHeight-marginBottom-40 {
			break
		}
		rowData := []string{
			unit.Format(length),
			fmt.Sprintf("%d", counts[length]),
			unit.Format(length * counts[length]),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	// Solve settings, right column
	sx := marginLeft + 150
	sy := marginTop + 18
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(sx, sy)
	pdf.CellFormat(100, 7, "Solve Settings", "", 0, "L", false, 0, "")
	sy += 9

	settingsItems := []struct {
		label string
		value string
	}{
		{"Backend", string(settings.Backend)},
		{"Time Limit", fmt.Sprintf("%.0f s", settings.TimeLimitSeconds)},
		{"Slot Bound", string(settings.SlotBound)},
		{"Largest First", fmt.Sprintf("%t", settings.Ordering)},
		{"Symmetry Breaking", fmt.Sprintf("%t", settings.SymmetryBreaking)},
		{"Repeat Pieces", fmt.Sprintf("%t", settings.RepeatPieces)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(sx+5, sy)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		sy += 5
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by RodCut - 1D Cut List Optimizer", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func planTitle(plan model.CuttingPlan) string {
	if plan.ProblemName != "" {
		return plan.ProblemName
	}
	return "Cutting plan"
}

// countPieces returns the total number of cuts across all rods.
func countPieces(plan model.CuttingPlan) int {
	total := 0
	for _, r := range plan.Rods {
		total += len(r.Cuts)
	}
	return total
}
