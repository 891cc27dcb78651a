// Package export renders cutting plans to text, JSON, PDF, QR-coded labels,
// Excel workbooks and DXF drawings.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/piwi3910/RodCut/internal/model"
)

// ReportOptions controls how lengths and remnants are rendered.
type ReportOptions struct {
	Unit            model.Unit
	MinOffcutLength int // mm, 0 uses model.MinOffcutLength
}

// Placement is a cut with its position on the rod.
type Placement struct {
	model.Cut
	Index  int // 1-based position on the rod
	Offset int // mm from the rod start
}

// Placements lists the cuts of a rod with their offsets. Pieces are cut
// back to back from the rod start.
func Placements(rod model.RodRecord) []Placement {
	out := make([]Placement, len(rod.Cuts))
	offset := 0
	for i, c := range rod.Cuts {
		out[i] = Placement{Cut: c, Index: i + 1, Offset: offset}
		offset += c.Length
	}
	return out
}

// WriteText writes a human-readable cut list: one block per rod, followed by
// totals and the usable remnants.
func WriteText(w io.Writer, plan model.CuttingPlan, opts ReportOptions) error {
	unit := opts.Unit
	if unit == "" {
		unit = model.UnitMillimeter
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	name := plan.ProblemName
	if name == "" {
		name = "Cutting plan"
	}
	fmt.Fprintf(tw, "%s\n", name)
	fmt.Fprintf(tw, "Rod length:\t%s\n", unit.Format(plan.RodLength))
	fmt.Fprintf(tw, "Rods used:\t%d\n", plan.TotalRodsUsed)
	fmt.Fprintf(tw, "Total waste:\t%s\n", unit.Format(plan.TotalWaste))
	fmt.Fprintf(tw, "Efficiency:\t%.1f%%\n", plan.Efficiency())
	fmt.Fprintf(tw, "Status:\t%s\n", plan.Status)
	if plan.Backend != "" {
		fmt.Fprintf(tw, "Backend:\t%s (%s)\n", plan.Backend, plan.SolveTime.Round(time.Millisecond))
	}

	for _, rod := range plan.Rods {
		fmt.Fprintf(tw, "\nRod %d\t%s used\t%s waste\t%.1f%%\n",
			rod.Number, unit.Format(rod.UsedLength), unit.Format(rod.Waste), rod.Efficiency())
		for _, p := range Placements(rod) {
			fmt.Fprintf(tw, "  %d.\t%s\t%s\t@ %s\n", p.Index, p.Label, unit.Format(p.Length), unit.Format(p.Offset))
		}
	}

	remnants := model.DetectRemnants(plan, opts.MinOffcutLength)
	if len(remnants) > 0 {
		fmt.Fprintf(tw, "\nUsable remnants (%s total)\n", unit.Format(model.TotalRemnantLength(remnants)))
		for _, r := range remnants {
			fmt.Fprintf(tw, "  Rod %d\t%s\tfrom %s\n", r.RodNumber, unit.Format(r.Length), unit.Format(r.Offset))
		}
	}
	return tw.Flush()
}

// WriteJSON writes the plan as indented JSON.
func WriteJSON(w io.Writer, plan model.CuttingPlan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// Format is an output file format.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatPDF   Format = "pdf"
	FormatExcel Format = "xlsx"
	FormatDXF   Format = "dxf"
)

// FormatFromPath picks the format from a file extension; unknown extensions
// fall back to text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".pdf":
		return FormatPDF
	case ".xlsx":
		return FormatExcel
	case ".dxf":
		return FormatDXF
	default:
		return FormatText
	}
}

// sortedLengths returns the keys of counts, longest first.
func sortedLengths(counts map[int]int) []int {
	lengths := make([]int, 0, len(counts))
	for l := range counts {
		lengths = append(lengths, l)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))
	return lengths
}
