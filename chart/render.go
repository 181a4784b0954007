package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/papyrus-report/layout"
)

// Kind 是图表类型。
type Kind int

const (
	Pie Kind = iota
	Bar
	Line
	Stacked
)

func (k Kind) String() string {
	switch k {
	case Pie:
		return "pie"
	case Bar:
		return "bar"
	case Line:
		return "line"
	case Stacked:
		return "stacked"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseKind 解析图表类型名称（pie / bar / line / stacked）。
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pie":
		return Pie, nil
	case "bar":
		return Bar, nil
	case "line":
		return Line, nil
	case "stacked", "stacked-bar", "stackedbar":
		return Stacked, nil
	}
	return 0, fmt.Errorf("未知的图表类型：%s", name)
}

// Spec 描述一个图表区块。Data 用于扇形、柱状与折线图，Stack 用于堆叠柱状图。
// PreferredWidth/PreferredHeight 只是期望值，最终尺寸会被缩放到页面可安全容纳的范围内。
type Spec struct {
	Kind            Kind
	Title           string
	Number          int
	Description     string
	Data            Series
	Stack           Stack
	Unit            string // 图例中数量的单位，例如 "employees"
	PreferredWidth  float64
	PreferredHeight float64
	Palette         Palette
}

// Section 把图表包装成区块：计算缩放后的尺寸与声明高度，并校验数据。
func Section(spec Spec, cfg layout.Config) (layout.SectionSpec, error) {
	content, height, err := NewContent(spec, cfg)
	if err != nil {
		return layout.SectionSpec{}, fmt.Errorf("图表 %q: %w", spec.Title, err)
	}
	return layout.SectionSpec{
		Title:          spec.Title,
		Number:         spec.Number,
		Description:    spec.Description,
		RequiredHeight: height,
		Content:        content,
	}, nil
}

// NewContent 按图表类型创建区块内容，并返回内容需要的高度。
func NewContent(spec Spec, cfg layout.Config) (layout.SectionContent, float64, error) {
	pal := spec.Palette
	if pal.Named == nil && pal.Cycle == nil {
		pal = DefaultPalette()
	}
	w, h := FitSize(spec.PreferredWidth, spec.PreferredHeight, cfg.UsableWidth(), cfg)
	switch spec.Kind {
	case Pie:
		if len(spec.Data) == 0 {
			return nil, 0, ErrEmptySeries
		}
		slices, err := Slices(spec.Data, pal)
		if err != nil {
			return nil, 0, err
		}
		p := &pieChart{cfg: cfg, slices: slices, total: spec.Data.Positive().Total(), unit: spec.Unit, width: w, diameter: math.Min(h, w/2)}
		return p, p.height(), nil
	case Bar:
		if len(spec.Data) == 0 {
			return nil, 0, ErrEmptySeries
		}
		return &barChart{cfg: cfg, data: spec.Data, pal: pal, width: w, height: h}, h + 30, nil
	case Line:
		if len(spec.Data) == 0 {
			return nil, 0, ErrEmptySeries
		}
		return &lineChart{cfg: cfg, data: SortTimeKeys(spec.Data), width: w, height: h}, h + 30, nil
	case Stacked:
		if len(spec.Stack.Categories) == 0 || len(spec.Stack.Keys) == 0 {
			return nil, 0, ErrEmptySeries
		}
		return &stackedChart{cfg: cfg, stack: spec.Stack, pal: pal, width: w, height: h}, h + 44, nil
	}
	return nil, 0, fmt.Errorf("未知的图表类型：%v", spec.Kind)
}

var (
	gridStyle  = layout.Stroked(layout.Color{R: 222, G: 226, B: 230}, 0.5)
	axisStyle  = layout.Stroked(layout.Color{R: 173, G: 181, B: 189}, 0.75)
	accent     = layout.Color{R: 41, G: 98, B: 255}
	white      = layout.Color{R: 255, G: 255, B: 255}
	textDark   = layout.Color{R: 33, G: 37, B: 41}
	textMuted  = layout.Color{R: 108, G: 117, B: 125}
	labelSize  = 7.0
	axisSize   = 6.0
	legendSize = 8.0
)

// drawGrid 绘制 lines 条水平网格线、y 轴数值标签以及底部坐标轴。
func drawGrid(c layout.Canvas, left, bottom, width, height, max float64, lines int) {
	for i, v := range GridValues(max, lines) {
		y := bottom - height*float64(i+1)/float64(lines)
		c.Line(left, y, left+width, y, gridStyle)
		c.Text(left-20, y-axisSize/2, 18, formatValue(v), layout.TextStyle{Size: axisSize, Color: textMuted, Align: "right"})
	}
	c.Line(left, bottom, left+width, bottom, axisStyle)
	c.Text(left-20, bottom-axisSize/2, 18, "0", layout.TextStyle{Size: axisSize, Color: textMuted, Align: "right"})
}

// formatValue 整数不带小数，其余保留一位小数。
func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
