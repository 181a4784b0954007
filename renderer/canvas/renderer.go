package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/papyrus-report/fonts"
	"github.com/ByLCY/papyrus-report/layout"
	"github.com/ByLCY/papyrus-report/renderer"
)

// 布局结果以 pt 为单位，canvas 以 mm 为单位，所有坐标在绘制时统一换算。
const tableBorderWidth = 0.5 // pt

// Renderer 通过 github.com/tdewolff/canvas 把布局结果输出为 PDF。
type Renderer struct {
	baseDir   string
	fontBlobs map[string][]byte

	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// Options 配置渲染器。
type Options struct {
	BaseDir string
	// Fonts 覆盖内置字体（regular / bold / italic），未提供的名称使用 Go 字体。
	Fonts map[string]Resource
}

// Resource 可以直接提供字节，也可以提供文件路径（相对路径基于 BaseDir）。
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer 创建只使用内置字体的渲染器。
func NewRenderer() *Renderer {
	r, _ := NewRendererWithOptions(Options{})
	return r
}

// NewRendererWithOptions 创建带有自定义字体的渲染器。字体文件读取失败时返回错误。
func NewRendererWithOptions(opts Options) (*Renderer, error) {
	r := &Renderer{
		baseDir:   opts.BaseDir,
		fontBlobs: map[string][]byte{},
		families:  map[string]*canvas.FontFamily{},
	}
	for name, res := range opts.Fonts {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path == "" {
			continue
		}
		path := res.Path
		if !filepath.IsAbs(path) && r.baseDir != "" {
			path = filepath.Join(r.baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取字体 %s 失败: %w", res.Path, err)
		}
		r.fontBlobs[name] = data
	}
	return r, nil
}

// Render 把布局结果渲染为 PDF 字节。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	first := result.Pages[0]
	writer := pdf.New(&buf, mm(first.Width), mm(first.Height), nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(mm(page.Width), mm(page.Height))
		}
		c := canvas.New(mm(page.Width), mm(page.Height))
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 与布局一致：左上角为原点，y 向下

		if err := r.drawPage(ctx, page); err != nil {
			return nil, fmt.Errorf("渲染第 %d 页失败: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := append([]string{}, meta.Keywords...)
	if meta.ID != "" {
		keywords = append(keywords, "id:"+meta.ID)
	}
	writer.SetInfo(meta.Title, meta.Subject, strings.Join(keywords, ", "), meta.Author, meta.Creator)
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	// 图形在前作为背景，随后是表格，最后是文本
	r.drawShapes(ctx, page.Shapes)
	if err := r.drawTables(ctx, page.Tables); err != nil {
		return err
	}
	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}

	r.drawShapes(ctx, page.Footer.Shapes)
	for _, tb := range page.Footer.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawShapes(ctx *canvas.Context, shapes []layout.Shape) {
	for _, s := range shapes {
		switch {
		case s.Line != nil:
			ln := s.Line
			applyStyle(ctx, ln.Style)
			ctx.SetFillColor(transparent)
			p := &canvas.Path{}
			p.MoveTo(0, 0)
			p.LineTo(mm(ln.X2-ln.X1), mm(ln.Y2-ln.Y1))
			ctx.DrawPath(mm(ln.X1), mm(ln.Y1), p)
		case s.Rect != nil:
			rc := s.Rect
			applyStyle(ctx, rc.Style)
			ctx.DrawPath(mm(rc.X), mm(rc.Y), canvas.Rectangle(mm(rc.Width), mm(rc.Height)))
		case s.Circle != nil:
			c := s.Circle
			applyStyle(ctx, c.Style)
			ctx.DrawPath(mm(c.CX), mm(c.CY), canvas.Circle(mm(c.R)))
		case s.Polygon != nil && len(s.Polygon.Points) >= 3:
			pg := s.Polygon
			applyStyle(ctx, pg.Style)
			p := &canvas.Path{}
			p.MoveTo(mm(pg.Points[0].X), mm(pg.Points[0].Y))
			for _, pt := range pg.Points[1:] {
				p.LineTo(mm(pt.X), mm(pt.Y))
			}
			p.Close()
			ctx.DrawPath(0, 0, p)
		}
	}
}

// applyStyle 把一次绘图调用携带的样式完整写入上下文，不沿用上一次调用的状态。
func applyStyle(ctx *canvas.Context, st layout.DrawStyle) {
	if st.Fill != nil {
		ctx.SetFillColor(colorFromLayout(*st.Fill))
	} else {
		ctx.SetFillColor(transparent)
	}
	if st.Stroke != nil {
		w := st.StrokeWidth
		if w <= 0 {
			w = tableBorderWidth
		}
		ctx.SetStrokeColor(colorFromLayout(*st.Stroke))
		ctx.SetStrokeWidth(mm(w))
	} else {
		ctx.SetStrokeColor(transparent)
		ctx.SetStrokeWidth(0)
	}
}

func (r *Renderer) drawTables(ctx *canvas.Context, tables []layout.TableBox) error {
	for _, table := range tables {
		if len(table.ColumnWidths) == 0 {
			continue
		}
		border := table.BorderColor
		for _, row := range table.Rows {
			x := table.X
			for idx, cell := range row.Cells {
				colIdx := idx
				if colIdx >= len(table.ColumnWidths) {
					colIdx = len(table.ColumnWidths) - 1
				}
				colWidth := table.ColumnWidths[colIdx]
				fill := layout.Color{R: 255, G: 255, B: 255}
				if cell.Fill != nil {
					fill = *cell.Fill
				}
				applyStyle(ctx, layout.Filled(fill).WithStroke(border, tableBorderWidth))
				ctx.DrawPath(mm(x), mm(row.Y), canvas.Rectangle(mm(colWidth), mm(row.Height)))

				if err := r.drawTextBox(ctx, cell.Text); err != nil {
					return err
				}
				x += colWidth
			}
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	face, err := r.fontFace(tb.Font, tb.FontSize, tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Width: tb.Width, Height: tb.FontSize}}
	}

	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	ascent := face.Metrics().Ascent // mm
	cursorY := tb.Y
	for _, line := range lines {
		cursorY += line.GapBefore
		lineHeight := line.Height
		if lineHeight <= 0 {
			lineHeight = tb.FontSize
		}
		if line.Content != "" {
			textLine := canvas.NewTextLine(face, line.Content, textAlign)
			// 基线 = 行顶 + 字体上升部
			ctx.DrawText(mm(anchorX), mm(cursorY)+ascent, textLine)
		}
		cursorY += lineHeight
	}
	return nil
}

// fontFace 按 pt 字号创建字体面。
func (r *Renderer) fontFace(name string, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(name)
	if err != nil {
		return nil, err
	}
	if sizePt <= 0 {
		sizePt = 9
	}
	return family.Face(sizePt, colorFromLayout(col), canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = "regular"
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.families[key]; ok {
		return family, nil
	}
	data, ok := r.fontBlobs[key]
	if !ok {
		var err error
		if data, err = fonts.Load(key); err != nil {
			// 未知字体名退回常规字体
			if data, err = fonts.Load("regular"); err != nil {
				return nil, err
			}
		}
	}
	family := canvas.NewFontFamily("papyrus-" + key)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", key, err)
	}
	r.families[key] = family
	return family, nil
}

var transparent = color.RGBA{0, 0, 0, 0}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// mm 将点(pt)转换为毫米(mm)。
func mm(pt float64) float64 { return pt * layout.PtToMm }

// pt 将毫米(mm)转换为点(pt)。
func pt(v float64) float64 { return v * layout.MmToPt }
