package layout

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// Canvas 是按页寻址的矢量绘图面，所有绘制都落在当前页上。
type Canvas interface {
	Rect(x, y, w, h float64, st DrawStyle)
	Line(x1, y1, x2, y2 float64, st DrawStyle)
	Circle(cx, cy, r float64, st DrawStyle)
	Polygon(points []Point, st DrawStyle)
	// Text 在 (x, y) 处绘制文本，width > 0 时按宽度折行，返回占用的高度。
	Text(x, y, width float64, content string, st TextStyle) float64
	// Table 是会自行分页的表格原语，返回表格结束时所在页上的 y 坐标。
	Table(x, y, width float64, spec TableSpec) (float64, error)
	// PageIndex 返回当前页序号（从 0 开始）。
	PageIndex() int
}

// PageFunc 在指定页上绘制页眉或页脚。
type PageFunc func(c Canvas, page, total int)

var _ Canvas = (*Document)(nil)

// Document 是只能追加的页面序列：绘制只写入最后一页，之前的页面一经离开便不再改变。
type Document struct {
	cfg       Config
	accs      []*pageAccumulator
	ts        Typesetter
	logger    *log.Logger
	header    PageFunc
	overflows int
}

// NewDocument 创建只含一页（通常作为封面）的文档。
func NewDocument(cfg Config, opts ...Option) *Document {
	d := &Document{
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.accs = append(d.accs, d.newAccumulator())
	return d
}

// Config 返回文档使用的排版配置。
func (d *Document) Config() Config { return d.cfg }

// PageIndex 返回当前页序号。
func (d *Document) PageIndex() int { return len(d.accs) - 1 }

// PageCount 返回已创建的页数。
func (d *Document) PageCount() int { return len(d.accs) }

// Overflows 返回排版过程中出现 LayoutOverflow 的次数。
func (d *Document) Overflows() int { return d.overflows }

// NewPage 追加新页并立即重绘页眉，返回新页序号。
func (d *Document) NewPage() int {
	d.accs = append(d.accs, d.newAccumulator())
	idx := d.PageIndex()
	if d.header != nil {
		// 页眉绘制时总页数尚未确定，传入 0
		d.header(d, idx, 0)
	}
	d.logger.Debug("新建页面", "page", idx+1)
	return idx
}

// Finish 生成布局结果；footer 在所有页面确定后才绘制，因此可以使用真实的总页数。
func (d *Document) Finish(meta DocumentMeta, footer PageFunc) *Result {
	total := len(d.accs)
	out := make([]Page, total)
	for i, acc := range d.accs {
		page := Page{
			Width:  d.cfg.PageWidth,
			Height: d.cfg.PageHeight,
			Margin: d.cfg.Margin,
			Shapes: acc.shapes,
			Texts:  acc.texts,
			Tables: acc.tables,
			Footer: HeaderFooter{Height: d.cfg.FooterReserve},
		}
		if footer != nil {
			fc := &footerCanvas{acc: d.newAccumulator(), page: i}
			footer(fc, i, total)
			page.Footer.Texts = fc.acc.texts
			page.Footer.Shapes = fc.acc.shapes
		}
		out[i] = page
	}
	return &Result{Pages: out, Meta: meta}
}

func (d *Document) curr() *pageAccumulator { return d.accs[len(d.accs)-1] }

func (d *Document) newAccumulator() *pageAccumulator {
	return &pageAccumulator{ts: d.ts}
}

func (d *Document) Rect(x, y, w, h float64, st DrawStyle) { d.curr().rect(x, y, w, h, st) }

func (d *Document) Line(x1, y1, x2, y2 float64, st DrawStyle) { d.curr().line(x1, y1, x2, y2, st) }

func (d *Document) Circle(cx, cy, r float64, st DrawStyle) { d.curr().circle(cx, cy, r, st) }

func (d *Document) Polygon(points []Point, st DrawStyle) { d.curr().polygon(points, st) }

func (d *Document) Text(x, y, width float64, content string, st TextStyle) float64 {
	return d.curr().text(x, y, width, content, st)
}

// pageAccumulator 收集单页上的图元。
type pageAccumulator struct {
	ts     Typesetter
	shapes []Shape
	texts  []TextBox
	tables []TableBox
}

func (p *pageAccumulator) rect(x, y, w, h float64, st DrawStyle) {
	p.shapes = append(p.shapes, Shape{Rect: &Rect{X: x, Y: y, Width: w, Height: h, Style: st}})
}

func (p *pageAccumulator) line(x1, y1, x2, y2 float64, st DrawStyle) {
	p.shapes = append(p.shapes, Shape{Line: &Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Style: st}})
}

func (p *pageAccumulator) circle(cx, cy, r float64, st DrawStyle) {
	p.shapes = append(p.shapes, Shape{Circle: &Circle{CX: cx, CY: cy, R: r, Style: st}})
}

func (p *pageAccumulator) polygon(points []Point, st DrawStyle) {
	if len(points) < 3 {
		return
	}
	pts := make([]Point, len(points))
	copy(pts, points)
	p.shapes = append(p.shapes, Shape{Polygon: &Polygon{Points: pts, Style: st}})
}

func (p *pageAccumulator) text(x, y, width float64, content string, st TextStyle) float64 {
	tb := composeTextBox(p.ts, x, y, width, content, st)
	p.texts = append(p.texts, tb)
	return tb.Height
}

// footerCanvas 把页脚内容收集到单独的页面区域中，不支持表格。
type footerCanvas struct {
	acc  *pageAccumulator
	page int
}

func (f *footerCanvas) Rect(x, y, w, h float64, st DrawStyle)     { f.acc.rect(x, y, w, h, st) }
func (f *footerCanvas) Line(x1, y1, x2, y2 float64, st DrawStyle) { f.acc.line(x1, y1, x2, y2, st) }
func (f *footerCanvas) Circle(cx, cy, r float64, st DrawStyle)    { f.acc.circle(cx, cy, r, st) }
func (f *footerCanvas) Polygon(points []Point, st DrawStyle)      { f.acc.polygon(points, st) }
func (f *footerCanvas) PageIndex() int                            { return f.page }

func (f *footerCanvas) Text(x, y, width float64, content string, st TextStyle) float64 {
	return f.acc.text(x, y, width, content, st)
}

func (f *footerCanvas) Table(float64, float64, float64, TableSpec) (float64, error) {
	return 0, fmt.Errorf("页脚区域不支持表格")
}

// LineHeightFactor 是行高相对字号的倍数。
const LineHeightFactor = 1.25

func composeTextBox(ts Typesetter, x, y, width float64, content string, st TextStyle) TextBox {
	size := st.Size
	if size <= 0 {
		size = 9
	}
	font := st.Font
	if font == "" {
		font = "regular"
	}
	lineHeight := size * LineHeightFactor
	lines := layoutLines(ts, content, width, font, size, lineHeight)

	total := 0.0
	leading := math.Max(lineHeight-size, 0)
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = size
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else if lines[i].GapBefore <= 0 {
			lines[i].GapBefore = leading
		}
		total += lines[i].GapBefore + lines[i].Height
	}
	return TextBox{
		Content:    content,
		X:          x,
		Y:          y,
		Width:      width,
		LineHeight: lineHeight,
		Font:       font,
		FontSize:   size,
		Color:      st.Color,
		Lines:      lines,
		Height:     total,
		Align:      st.Align,
	}
}

func layoutLines(ts Typesetter, content string, width float64, font string, fontSize, lineHeight float64) []TextLine {
	if ts != nil {
		lines, err := ts.LayoutLines(content, width, font, fontSize, lineHeight)
		if err == nil && len(lines) > 0 {
			lines[0].GapBefore = 0
			return lines
		}
	}
	// 没有排版后端（或排版失败）时退回按换行符拆分
	parts := strings.Split(content, "\n")
	out := make([]TextLine, 0, len(parts))
	for _, part := range parts {
		out = append(out, TextLine{
			Content: part,
			Width:   EstimateTextWidth(part, fontSize),
			Height:  fontSize,
		})
	}
	return out
}

// EstimateTextWidth 按平均字宽粗略估算单行文本宽度（pt）。
func EstimateTextWidth(content string, fontSize float64) float64 {
	return fontSize * 0.5 * float64(utf8.RuneCountInString(content))
}

// Truncate 将文本截断到 budget 个字符以内，超出部分以 "..." 结尾。
func Truncate(s string, budget int) string {
	if budget <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= budget {
		return s
	}
	runes := []rune(s)
	if budget <= 3 {
		return string(runes[:budget])
	}
	return string(runes[:budget-3]) + "..."
}
