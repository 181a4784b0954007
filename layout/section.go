package layout

import (
	"fmt"
	"math"
	"strconv"
)

// Box 是交给区块内容绘制的区域（页面坐标）。
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom 返回区域底边的 y 坐标。
func (b Box) Bottom() float64 { return b.Y + b.Height }

// SectionContent 绘制区块内部内容，返回内容实际结束处的 y 坐标。
type SectionContent interface {
	Render(c Canvas, box Box) (float64, error)
}

// ContentFunc 让普通函数满足 SectionContent。
type ContentFunc func(c Canvas, box Box) (float64, error)

func (f ContentFunc) Render(c Canvas, box Box) (float64, error) { return f(c, box) }

// SectionSpec 描述一个整体放置的区块。RequiredHeight 是调用方声明的内容高度上限。
type SectionSpec struct {
	Title          string
	Number         int // 0 表示不显示编号徽标
	Description    string
	RequiredHeight float64
	Content        SectionContent
}

var (
	bannerFill   = Color{R: 248, G: 249, B: 250}
	bannerBorder = Color{R: 222, G: 226, B: 230}
	accent       = Color{R: 41, G: 98, B: 255}
	titleColor   = Color{R: 33, G: 37, B: 41}
	mutedColor   = Color{R: 108, G: 117, B: 125}
	white        = Color{R: 255, G: 255, B: 255}
)

// TotalHeight 返回区块需要预留的总高度：标题栏 + 声明高度 + 内边距。
func (pc *Controller) TotalHeight(spec SectionSpec) float64 {
	total := spec.RequiredHeight + pc.cfg.SectionPadding
	if spec.Title != "" {
		total += pc.cfg.SectionHeaderHeight
	}
	return total
}

// RenderSection 先确保整块（标题栏 + 内容 + 内边距）能放在同一页，再绘制标题栏并委托内容绘制。
// 返回的游标至少前进 RequiredHeight，再加上区块间距。
func (pc *Controller) RenderSection(cur Cursor, spec SectionSpec) (Cursor, error) {
	if err := pc.sync(cur); err != nil {
		return cur, err
	}
	if spec.Content == nil {
		return cur, &RenderError{Section: spec.Title, Err: fmt.Errorf("区块缺少内容")}
	}
	cur = pc.EnsureSpace(cur, pc.TotalHeight(spec))

	if spec.Title != "" {
		pc.drawBanner(cur, spec)
		cur.Y += pc.cfg.SectionHeaderHeight
	}

	available := math.Min(spec.RequiredHeight, pc.Remaining(cur))
	box := Box{X: pc.cfg.Margin, Y: cur.Y, Width: pc.cfg.UsableWidth(), Height: available}
	end, err := spec.Content.Render(pc.doc, box)
	if err != nil {
		return cur, &RenderError{Section: spec.Title, Err: err}
	}

	// 内容自行跨页（例如表格）时，以内容结束位置为准
	if page := pc.doc.PageIndex(); page != cur.PageIndex {
		pc.doc.logger.Debug("区块跨页结束", "section", spec.Title, "page", page+1, "y", end)
		return Cursor{PageIndex: page, Y: end + pc.cfg.SectionSpacing}, nil
	}
	next := math.Max(end, cur.Y+spec.RequiredHeight) + pc.cfg.SectionSpacing
	pc.doc.logger.Debug("区块完成", "section", spec.Title, "page", cur.PageIndex+1, "y", next)
	return Cursor{PageIndex: cur.PageIndex, Y: next}, nil
}

func (pc *Controller) drawBanner(cur Cursor, spec SectionSpec) {
	x := pc.cfg.Margin
	w := pc.cfg.UsableWidth()
	h := pc.cfg.SectionHeaderHeight
	pc.doc.Rect(x, cur.Y, w, h, Filled(bannerFill).WithStroke(bannerBorder, 0.75))

	textX := x + 10
	if spec.Number > 0 {
		r := math.Min(10, h/2-4)
		cx := x + 10 + r
		cy := cur.Y + h/2
		pc.doc.Circle(cx, cy, r, Filled(accent))
		size := r
		pc.doc.Text(cx-r, cy-size/2, 2*r, strconv.Itoa(spec.Number), TextStyle{Font: "bold", Size: size, Color: white, Align: "center"})
		textX = cx + r + 8
	}
	textW := x + w - textX - 10
	titleSize := 12.0
	ty := cur.Y + 6
	if spec.Description == "" {
		ty = cur.Y + (h-titleSize)/2
	}
	pc.doc.Text(textX, ty, textW, Truncate(spec.Title, charBudget(textW, titleSize)), TextStyle{Font: "bold", Size: titleSize, Color: titleColor})
	if spec.Description != "" {
		descSize := 8.0
		pc.doc.Text(textX, ty+titleSize+4, textW, Truncate(spec.Description, charBudget(textW, descSize)), TextStyle{Size: descSize, Color: mutedColor})
	}
}

// charBudget 估算宽度 width 内能容纳的字符数。
func charBudget(width, fontSize float64) int {
	if fontSize <= 0 {
		return 0
	}
	return int(width / (fontSize * 0.55))
}
