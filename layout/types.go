package layout

// 该文件定义布局结果与基本图元，供布局计算、渲染与调试 JSON 共用。
// 所有坐标与长度均以点（pt）为单位，原点位于页面左上角，y 向下增长。

// Result 保存布局后的页面与文档元信息。
type Result struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 记录页面尺寸与最终可以直接渲染的元素。
// Shapes 按追加顺序绘制，随后绘制表格与文本；Footer 在整份文档排版完成后才填充。
type Page struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Margin float64      `json:"margin"`
	Shapes []Shape      `json:"shapes,omitempty"`
	Texts  []TextBox    `json:"texts,omitempty"`
	Tables []TableBox   `json:"tables,omitempty"`
	Footer HeaderFooter `json:"footer"`
}

// HeaderFooter 描述页脚区域内的元素集合（页面坐标）。
type HeaderFooter struct {
	Height float64   `json:"height"`
	Texts  []TextBox `json:"texts,omitempty"`
	Shapes []Shape   `json:"shapes,omitempty"`
}

// DrawStyle 是每次绘图调用显式携带的不可变样式。
// Stroke 或 Fill 为空表示不描边或不填充。
type DrawStyle struct {
	Stroke      *Color  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Fill        *Color  `json:"fill,omitempty"`
}

// Stroked 返回只描边的样式。
func Stroked(c Color, width float64) DrawStyle {
	return DrawStyle{Stroke: &c, StrokeWidth: width}
}

// Filled 返回只填充的样式。
func Filled(c Color) DrawStyle {
	return DrawStyle{Fill: &c}
}

// WithFill 返回带有新填充色的副本，原样式不变。
func (s DrawStyle) WithFill(c Color) DrawStyle {
	s.Fill = &c
	return s
}

// WithStroke 返回带有新描边的副本，原样式不变。
func (s DrawStyle) WithStroke(c Color, width float64) DrawStyle {
	s.Stroke = &c
	s.StrokeWidth = width
	return s
}

// TextStyle 描述文本的字体、字号、颜色与水平对齐方式。
type TextStyle struct {
	Font  string  `json:"font"` // regular / bold
	Size  float64 `json:"size"` // pt
	Color Color   `json:"color"`
	Align string  `json:"align,omitempty"` // left(默认)/center/right
}

// Point 是页面坐标系中的一个点。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape 是一个可绘制图元，四个字段中恰有一个非空。
type Shape struct {
	Line    *Line    `json:"line,omitempty"`
	Rect    *Rect    `json:"rect,omitempty"`
	Circle  *Circle  `json:"circle,omitempty"`
	Polygon *Polygon `json:"polygon,omitempty"`
}

// Bounds 返回图元在纵向上占据的范围 [top, bottom]。
func (s Shape) Bounds() (float64, float64) {
	switch {
	case s.Line != nil:
		return minMax(s.Line.Y1, s.Line.Y2)
	case s.Rect != nil:
		return s.Rect.Y, s.Rect.Y + s.Rect.Height
	case s.Circle != nil:
		return s.Circle.CY - s.Circle.R, s.Circle.CY + s.Circle.R
	case s.Polygon != nil && len(s.Polygon.Points) > 0:
		top, bottom := s.Polygon.Points[0].Y, s.Polygon.Points[0].Y
		for _, p := range s.Polygon.Points[1:] {
			if p.Y < top {
				top = p.Y
			}
			if p.Y > bottom {
				bottom = p.Y
			}
		}
		return top, bottom
	}
	return 0, 0
}

// Extent 返回页面正文（不含页脚）所有元素的最低点。
func (p Page) Extent() float64 {
	bottom := 0.0
	for _, s := range p.Shapes {
		if _, b := s.Bounds(); b > bottom {
			bottom = b
		}
	}
	for _, tb := range p.Texts {
		if b := tb.Y + tb.Height; b > bottom {
			bottom = b
		}
	}
	for _, tbl := range p.Tables {
		for _, row := range tbl.Rows {
			if b := row.Y + row.Height; b > bottom {
				bottom = b
			}
		}
	}
	return bottom
}

// Line 表示一条线段。
type Line struct {
	X1    float64   `json:"x1"`
	Y1    float64   `json:"y1"`
	X2    float64   `json:"x2"`
	Y2    float64   `json:"y2"`
	Style DrawStyle `json:"style"`
}

// Rect 表示一个矩形（不包含圆角）。
type Rect struct {
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Style  DrawStyle `json:"style"`
}

// Circle 表示一个圆。
type Circle struct {
	CX    float64   `json:"cx"`
	CY    float64   `json:"cy"`
	R     float64   `json:"r"`
	Style DrawStyle `json:"style"`
}

// Polygon 表示一条闭合的折线路径，用于扇形等填充区域。
type Polygon struct {
	Points []Point   `json:"points"`
	Style  DrawStyle `json:"style"`
}

// TextBox 表示一个已经排好坐标的文本块。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
	Align      string     `json:"align,omitempty"`
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// TableBox 是表格落在某一页上的片段，跨页表格会在每页各产生一个片段。
type TableBox struct {
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
	Width        float64    `json:"width"`
	ColumnWidths []float64  `json:"columnWidths"`
	Rows         []TableRow `json:"rows"`
	BorderColor  Color      `json:"borderColor"`
}

// TableRow 记录每一行的位置、高度与单元格。
type TableRow struct {
	Y        float64     `json:"y"`
	Height   float64     `json:"height"`
	IsHeader bool        `json:"isHeader"`
	Cells    []TableCell `json:"cells"`
}

// TableCell 复用 TextBox 作为单元格内容，Fill 为空表示白底。
type TableCell struct {
	Text TextBox `json:"text"`
	Fill *Color  `json:"fill,omitempty"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

func minMax(a, b float64) (float64, float64) {
	if a < b {
		return a, b
	}
	return b, a
}
