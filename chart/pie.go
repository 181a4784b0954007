package chart

import (
	"fmt"
	"math"

	"github.com/ByLCY/papyrus-report/layout"
)

type pieChart struct {
	cfg      layout.Config
	slices   []Slice
	total    float64
	unit     string
	width    float64
	diameter float64
}

func (p *pieChart) legendHeight() float64 {
	return float64(len(p.slices))*p.cfg.LegendRowHeight + p.cfg.LegendBaseHeight
}

func (p *pieChart) height() float64 {
	return math.Max(p.diameter, p.legendHeight()) + 10
}

// LegendLabel 返回图例中一项的文字，例如 "Active: 34 employees (85.0%)"。
func LegendLabel(label string, value, total float64, unit string) string {
	if unit == "" {
		return fmt.Sprintf("%s: %s (%.1f%%)", DisplayLabel(label), formatValue(value), Percent(value, total))
	}
	return fmt.Sprintf("%s: %s %s (%.1f%%)", DisplayLabel(label), formatValue(value), unit, Percent(value, total))
}

func (p *pieChart) Render(c layout.Canvas, box layout.Box) (float64, error) {
	if p.total <= 0 {
		return box.Y, ErrZeroTotal
	}
	left := box.X + (box.Width-p.width)/2
	r := p.diameter / 2
	cx, cy := left+r, box.Y+5+r

	for _, sl := range p.slices {
		n := ArcPointCount(sl.Span, p.cfg.PieArcDensity, p.cfg.PieMinArcPoints)
		c.Polygon(Fan(cx, cy, r, sl, n), layout.Filled(sl.Color))
	}
	// 先填充再描外圈
	c.Circle(cx, cy, r, layout.Stroked(white, 1.5))

	inner := r * 0.42
	c.Circle(cx, cy, inner, layout.Filled(white))
	c.Text(cx-inner, cy-9, 2*inner, formatValue(p.total), layout.TextStyle{Font: "bold", Size: 12, Color: textDark, Align: "center"})
	c.Text(cx-inner, cy+4, 2*inner, "Total", layout.TextStyle{Size: axisSize, Color: textMuted, Align: "center"})

	lh := p.legendHeight()
	lx := cx + r + 20
	lw := math.Min(220, box.X+box.Width-lx)
	ly := box.Y + 5
	c.Rect(lx, ly, lw, lh, layout.Filled(layout.Color{R: 248, G: 249, B: 250}).WithStroke(layout.Color{R: 222, G: 226, B: 230}, 0.5))
	rowH := p.cfg.LegendRowHeight
	rowY := ly + (p.cfg.LegendBaseHeight)/2
	for _, sl := range p.slices {
		swatch := 10.0
		c.Rect(lx+10, rowY+(rowH-swatch)/2, swatch, swatch, layout.Filled(sl.Color))
		label := LegendLabel(sl.Label, sl.Value, p.total, p.unit)
		textW := lw - 10 - swatch - 8 - 10
		c.Text(lx+10+swatch+8, rowY+(rowH-legendSize)/2, textW, layout.Truncate(label, LabelBudget(textW, legendSize)), layout.TextStyle{Size: legendSize, Color: textDark})
		rowY += rowH
	}
	return box.Y + 5 + math.Max(p.diameter, lh), nil
}
