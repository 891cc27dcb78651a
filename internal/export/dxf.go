package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/RodCut/internal/model"
)

// DXF layer names.
const (
	LayerRods  = "RODS"
	LayerCuts  = "CUTS"
	LayerWaste = "WASTE"
	LayerText  = "TEXT"
)

// DXF layout, in drawing units (mm).
const (
	dxfRodHeight  = 40.0
	dxfRodSpacing = 40.0
	dxfTextHeight = 15.0
)

// ExportDXF draws every rod to scale as an outline with a line at each cut,
// stacked top to bottom. Pieces are labelled on the TEXT layer and each rod
// tail is marked on the WASTE layer, so the file can go straight to a saw or
// marking table.
func ExportDXF(path string, plan model.CuttingPlan) error {
	if len(plan.Rods) == 0 {
		return fmt.Errorf("no rods to export")
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name string
		cl   color.ColorNumber
	}{
		{LayerRods, color.White},
		{LayerCuts, color.Red},
		{LayerWaste, color.Yellow},
		{LayerText, color.Cyan},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.cl, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("add layer %s: %w", l.name, err)
		}
	}

	length := float64(plan.RodLength)
	for i, rod := range plan.Rods {
		y0 := -float64(i) * (dxfRodHeight + dxfRodSpacing)
		y1 := y0 + dxfRodHeight

		if err := d.ChangeLayer(LayerRods); err != nil {
			return err
		}
		if err := rect(d, 0, y0, length, y1); err != nil {
			return fmt.Errorf("rod %d: %w", rod.Number, err)
		}

		if err := d.ChangeLayer(LayerCuts); err != nil {
			return err
		}
		for _, p := range Placements(rod) {
			end := float64(p.Offset + p.Length)
			if end >= length {
				continue
			}
			if _, err := d.Line(end, y0, 0, end, y1, 0); err != nil {
				return fmt.Errorf("rod %d cut %d: %w", rod.Number, p.Index, err)
			}
		}

		if rod.Waste > 0 {
			if err := d.ChangeLayer(LayerWaste); err != nil {
				return err
			}
			// Cross out the tail
			if _, err := d.Line(float64(rod.UsedLength), y0, 0, length, y1, 0); err != nil {
				return fmt.Errorf("rod %d waste: %w", rod.Number, err)
			}
		}

		if err := d.ChangeLayer(LayerText); err != nil {
			return err
		}
		if _, err := d.Text(fmt.Sprintf("ROD %d", rod.Number), -200, y0+dxfRodHeight/2, 0, dxfTextHeight); err != nil {
			return fmt.Errorf("rod %d label: %w", rod.Number, err)
		}
		for _, p := range Placements(rod) {
			text := fmt.Sprintf("%s %d", p.Label, p.Length)
			if _, err := d.Text(text, float64(p.Offset)+5, y0+dxfRodHeight/2, 0, dxfTextHeight); err != nil {
				return fmt.Errorf("rod %d cut %d label: %w", rod.Number, p.Index, err)
			}
		}
	}

	return d.SaveAs(path)
}

// rect draws a closed rectangle from four lines.
func rect(d *drawing.Drawing, x0, y0, x1, y1 float64) error {
	corners := [][4]float64{
		{x0, y0, x1, y0},
		{x1, y0, x1, y1},
		{x1, y1, x0, y1},
		{x0, y1, x0, y0},
	}
	for _, c := range corners {
		if _, err := d.Line(c[0], c[1], 0, c[2], c[3], 0); err != nil {
			return err
		}
	}
	return nil
}
