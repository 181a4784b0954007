package report

import (
	"fmt"
	"strings"

	"github.com/ByLCY/papyrus-report/chart"
	"github.com/ByLCY/papyrus-report/layout"
	"github.com/ByLCY/papyrus-report/roster"
)

var (
	colorPrimary    = layout.Color{R: 41, G: 98, B: 255}
	colorTextDark   = layout.Color{R: 33, G: 37, B: 41}
	colorTextMuted  = layout.Color{R: 108, G: 117, B: 125}
	colorBackground = layout.Color{R: 248, G: 249, B: 250}
	colorGridLine   = layout.Color{R: 222, G: 226, B: 230}
)

const (
	summaryHeight = 64
	summaryGap    = 10
)

// drawCover 在第一页绘制封面：顶部色条、标题、副标题、信息框与生成时间。
// 封面内容同样不进入页脚保留区。
func (st *build) drawCover(c layout.Canvas) {
	cfg := st.cfg
	w := cfg.PageWidth
	usable := cfg.UsableWidth()
	x := cfg.Margin

	c.Rect(0, 0, w, 8, layout.Filled(colorPrimary))

	y := cfg.PageHeight * 0.22
	y += c.Text(x, y, usable, st.text(st.def.Title), layout.TextStyle{Font: "bold", Size: 28, Color: colorTextDark, Align: "center"})
	if sub := st.text(st.def.Subtitle); sub != "" {
		c.Text(x, y+10, usable, sub, layout.TextStyle{Size: 12, Color: colorTextMuted, Align: "center"})
	}

	boxY := cfg.PageHeight * 0.4
	boxX := x + 20
	boxW := usable - 40
	c.Rect(boxX, boxY, boxW, 70, layout.Filled(colorBackground).WithStroke(colorGridLine, 0.75))
	c.Text(boxX, boxY+12, boxW, "EMPLOYEES", layout.TextStyle{Font: "bold", Size: 11, Color: colorTextMuted, Align: "center"})
	c.Text(boxX, boxY+30, boxW, fmt.Sprintf("%d", st.summary.Total), layout.TextStyle{Font: "bold", Size: 20, Color: colorTextDark, Align: "center"})
	depts := len(st.summary.ByDepartment)
	c.Text(boxX, boxY+54, boxW, fmt.Sprintf("%d %s", depts, plural(depts, "department")), layout.TextStyle{Size: 9, Color: colorTextMuted, Align: "center"})

	bottom := cfg.ContentBottom()
	c.Text(x, bottom-48, usable, "Generated: "+st.generated.Format("January 2, 2006 at 15:04 MST"), layout.TextStyle{Size: 10, Color: colorTextMuted, Align: "center"})
	c.Text(x, bottom-32, usable, "Document ID: "+st.id, layout.TextStyle{Size: 8, Color: colorTextMuted, Align: "center"})
	c.Rect(0, bottom-8, w, 8, layout.Filled(colorPrimary))
}

// drawPageHeader 在 [Margin, Margin+HeaderHeight) 内绘制页眉，每次换页后立即调用。
func (st *build) drawPageHeader(c layout.Canvas, page, _ int) {
	cfg := st.cfg
	x := cfg.Margin
	usable := cfg.UsableWidth()
	top := cfg.Margin

	c.Text(x, top+4, usable/2, strings.ToUpper(st.text(st.def.Title)), layout.TextStyle{Font: "bold", Size: 9, Color: colorPrimary})
	c.Text(x+usable/2, top+4, usable/2, st.generated.Format("2006-01-02"), layout.TextStyle{Size: 9, Color: colorTextMuted, Align: "right"})
	lineY := top + cfg.HeaderHeight - 10
	c.Line(x, lineY, x+usable, lineY, layout.Stroked(colorPrimary, 0.5))
}

// drawFooter 在全部页面确定后绘制 "Page N of M"；有封面时封面不编号也不计入总数。
func (st *build) drawFooter(c layout.Canvas, page, total int) {
	num, count := page+1, total
	if st.def.Cover {
		if page == 0 {
			return
		}
		num, count = page, total-1
	}
	cfg := st.cfg
	x := cfg.Margin
	usable := cfg.UsableWidth()
	lineY := cfg.PageHeight - cfg.FooterReserve + 8
	c.Line(x, lineY, x+usable, lineY, layout.Stroked(colorGridLine, 0.3))
	c.Text(x, lineY+5, usable, PageLabel(num, count), layout.TextStyle{Size: 8, Color: colorTextMuted, Align: "center"})
}

// PageLabel 返回页脚中的页码文字。
func PageLabel(page, total int) string {
	return fmt.Sprintf("Page %d of %d", page, total)
}

// summarySection 生成概览卡片：总人数以及每个固定状态的人数与占比。
func (st *build) summarySection(blk Block) layout.SectionSpec {
	type card struct {
		label string
		value int
		share string
		color layout.Color
	}
	total := st.summary.Total
	cards := []card{{label: "Total Employees", value: total, share: fmt.Sprintf("%d %s", len(st.summary.ByDepartment), plural(len(st.summary.ByDepartment), "department")), color: colorPrimary}}
	for i, s := range roster.Statuses {
		n := st.summary.StatusCount(s)
		cards = append(cards, card{
			label: roster.Label(s),
			value: n,
			share: fmt.Sprintf("%.1f%% of total", chart.Percent(float64(n), float64(total))),
			color: st.palette.Color(s, i),
		})
	}

	content := layout.ContentFunc(func(c layout.Canvas, box layout.Box) (float64, error) {
		n := float64(len(cards))
		w := (box.Width - summaryGap*(n-1)) / n
		for i, cd := range cards {
			x := box.X + float64(i)*(w+summaryGap)
			c.Rect(x, box.Y, w, summaryHeight-8, layout.Filled(colorBackground).WithStroke(colorGridLine, 0.5))
			c.Rect(x, box.Y, 4, summaryHeight-8, layout.Filled(cd.color))
			c.Text(x+10, box.Y+7, w-14, cd.label, layout.TextStyle{Size: 8, Color: colorTextMuted})
			c.Text(x+10, box.Y+20, w-14, fmt.Sprintf("%d", cd.value), layout.TextStyle{Font: "bold", Size: 18, Color: colorTextDark})
			c.Text(x+10, box.Y+42, w-14, cd.share, layout.TextStyle{Size: 7, Color: colorTextMuted})
		}
		return box.Y + summaryHeight - 8, nil
	})
	return layout.SectionSpec{
		Title:          st.text(blk.Title),
		Description:    st.text(blk.Description),
		RequiredHeight: summaryHeight,
		Content:        content,
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
