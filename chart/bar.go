package chart

import (
	"github.com/ByLCY/papyrus-report/layout"
)

// barInner 是柱子实际绘制宽度占槽位宽度的比例。
const barInner = 0.7

type barChart struct {
	cfg    layout.Config
	data   Series
	pal    Palette
	width  float64
	height float64
}

func (b *barChart) Render(c layout.Canvas, box layout.Box) (float64, error) {
	left := box.X + (box.Width-b.width)/2
	bottom := box.Y + 12 + b.height
	max := b.data.Max()
	drawGrid(c, left, bottom, b.width, b.height, max, b.cfg.BarGridLines)

	slot := BarWidth(b.width, len(b.data), b.cfg.BarMinWidth)
	budget := LabelBudget(slot, labelSize)
	for i, e := range b.data {
		x := left + 10 + float64(i)*slot
		bh := BarHeight(e.Value, max, b.height)
		if bh > 0 {
			c.Rect(x+slot*(1-barInner)/2, bottom-bh, slot*barInner, bh, layout.Filled(b.pal.Color(e.Label, i)))
		}
		c.Text(x, bottom-bh-10, slot, formatValue(e.Value), layout.TextStyle{Size: labelSize, Color: textDark, Align: "center"})
		c.Text(x, bottom+4, slot, layout.Truncate(e.Label, budget), layout.TextStyle{Size: labelSize, Color: textMuted, Align: "center"})
	}
	return bottom + 18, nil
}

type stackedChart struct {
	cfg    layout.Config
	stack  Stack
	pal    Palette
	width  float64
	height float64
}

func (s *stackedChart) Render(c layout.Canvas, box layout.Box) (float64, error) {
	left := box.X + (box.Width-s.width)/2
	bottom := box.Y + 12 + s.height
	max := s.stack.Max()
	drawGrid(c, left, bottom, s.width, s.height, max, s.cfg.BarGridLines)

	colors := make(map[string]layout.Color, len(s.stack.Keys))
	for i, key := range s.stack.Keys {
		colors[key] = s.pal.Color(key, i)
	}
	slot := BarWidth(s.width, len(s.stack.Categories), s.cfg.BarMinWidth)
	budget := LabelBudget(slot, labelSize)
	for i, cat := range s.stack.Categories {
		x := left + 10 + float64(i)*slot
		for _, seg := range Segments(s.stack.Keys, cat, max, bottom, s.height) {
			c.Rect(x+slot*(1-barInner)/2, seg.Y, slot*barInner, seg.Height, layout.Filled(colors[seg.Key]))
		}
		top := bottom - BarHeight(cat.Total(), max, s.height)
		c.Text(x, top-10, slot, formatValue(cat.Total()), layout.TextStyle{Font: "bold", Size: labelSize, Color: textDark, Align: "center"})
		c.Text(x, bottom+4, slot, layout.Truncate(cat.Label, budget), layout.TextStyle{Size: labelSize, Color: textMuted, Align: "center"})
	}

	// 图例横排在分类标签下方
	lx := left
	ly := bottom + 20
	for _, key := range s.stack.Keys {
		label := DisplayLabel(key)
		c.Rect(lx, ly, 8, 8, layout.Filled(colors[key]))
		c.Text(lx+11, ly, 0, label, layout.TextStyle{Size: labelSize, Color: textDark})
		lx += 11 + layout.EstimateTextWidth(label, labelSize) + 14
	}
	return ly + 12, nil
}
