package chart

import (
	"math"

	"github.com/ByLCY/papyrus-report/layout"
)

type lineChart struct {
	cfg    layout.Config
	data   Series
	width  float64
	height float64
}

func (l *lineChart) Render(c layout.Canvas, box layout.Box) (float64, error) {
	left := box.X + (box.Width-l.width)/2
	bottom := box.Y + 12 + l.height
	drawGrid(c, left, bottom, l.width, l.height, l.data.Max(), l.cfg.LineGridLines)

	pts := LinePoints(l.data, left+10, bottom, l.width-20, l.height)
	stroke := layout.Stroked(accent, 1.5)
	for i := 1; i < len(pts); i++ {
		c.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, stroke)
	}
	spacing := l.width - 20
	if len(pts) > 1 {
		spacing = (l.width - 20) / float64(len(pts)-1)
	}
	spacing = math.Max(spacing, l.cfg.BarMinWidth)
	budget := LabelBudget(spacing, labelSize)
	for i, pt := range pts {
		c.Circle(pt.X, pt.Y, 2.5, layout.Filled(accent).WithStroke(white, 0.75))
		c.Text(pt.X-spacing/2, pt.Y-11, spacing, formatValue(l.data[i].Value), layout.TextStyle{Size: labelSize, Color: textDark, Align: "center"})
		c.Text(pt.X-spacing/2, bottom+4, spacing, layout.Truncate(l.data[i].Label, budget), layout.TextStyle{Size: labelSize, Color: textMuted, Align: "center"})
	}
	return bottom + 18, nil
}
