package chart

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/ByLCY/papyrus-report/layout"
)

var (
	// ErrZeroTotal 表示扇形图数据总和为 0，百分比与角度无法计算，必须在调用前拦截。
	ErrZeroTotal = errors.New("chart: 数据总和为 0")
	// ErrEmptySeries 表示图表没有任何分类。
	ErrEmptySeries = errors.New("chart: 数据为空")
)

// Slice 是扇形图中的一块，角度单位为弧度，从 Start 开始顺时针展开 Span。
type Slice struct {
	Label string
	Value float64
	Color layout.Color
	Start float64
	Span  float64
}

// End 返回扇形结束角度。
func (s Slice) End() float64 { return s.Start + s.Span }

// Slices 过滤掉非正数值后按插入顺序分配角度，第一块从 12 点方向（-π/2）开始。
func Slices(s Series, pal Palette) ([]Slice, error) {
	pos := s.Positive()
	total := pos.Total()
	if total <= 0 {
		return nil, ErrZeroTotal
	}
	out := make([]Slice, 0, len(pos))
	angle := -math.Pi / 2
	for i, e := range pos {
		span := e.Value / total * 2 * math.Pi
		out = append(out, Slice{Label: e.Label, Value: e.Value, Color: pal.Color(e.Label, i), Start: angle, Span: span})
		angle += span
	}
	return out, nil
}

// ArcPointCount 返回近似一段弧所需的点数：弧越宽点越多，且不少于 min。
func ArcPointCount(span, density float64, min int) int {
	n := int(math.Floor(span * density))
	if n < min {
		return min
	}
	return n
}

// Fan 返回近似扇形的多边形顶点：圆心加上沿弧均匀分布的 n 个点。
// 页面坐标 y 轴向下，角度递增即为顺时针。
func Fan(cx, cy, r float64, sl Slice, n int) []layout.Point {
	if n < 2 {
		n = 2
	}
	pts := make([]layout.Point, 0, n+1)
	pts = append(pts, layout.Point{X: cx, Y: cy})
	for i := 0; i < n; i++ {
		a := sl.Start + sl.Span*float64(i)/float64(n-1)
		pts = append(pts, layout.Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
	}
	return pts
}

// Percent 返回 value 占 total 的百分比；调用方保证 total > 0。
func Percent(value, total float64) float64 {
	return value / total * 100
}

// BarWidth 返回每根柱子占用的宽度：(available-20)/n，但不小于 min。
// 分类过多时柱子会超出可用宽度，不做旋转或缩放。
func BarWidth(available float64, n int, min float64) float64 {
	if n <= 0 {
		return min
	}
	return math.Max((available-20)/float64(n), min)
}

// BarHeight 按最大值线性缩放柱高，value == max 时恰好等于 chartHeight。
func BarHeight(value, max, chartHeight float64) float64 {
	if max <= 0 || value <= 0 {
		return 0
	}
	if value == max {
		return chartHeight
	}
	return value / max * chartHeight
}

// GridValues 返回 lines 条水平网格线对应的数值：max × i/lines，i = 1..lines。
func GridValues(max float64, lines int) []float64 {
	if lines <= 0 {
		return nil
	}
	out := make([]float64, lines)
	for i := 1; i <= lines; i++ {
		out[i-1] = max * float64(i) / float64(lines)
	}
	return out
}

// LabelBudget 估算宽度 width 内能放下的标签字符数，至少保留 3 个字符。
func LabelBudget(width, fontSize float64) int {
	if fontSize <= 0 {
		return 3
	}
	n := int(width / (fontSize * 0.55))
	if n < 3 {
		return 3
	}
	return n
}

// LinePoints 把序列映射到绘图区：x 等距分布，y 按最大值线性缩放（底边为 0）。
// 只有一个点时放在水平中点。
func LinePoints(s Series, left, bottom, width, height float64) []layout.Point {
	n := len(s)
	if n == 0 {
		return nil
	}
	max := s.Max()
	pts := make([]layout.Point, n)
	for i, e := range s {
		x := left + width/2
		if n > 1 {
			x = left + width*float64(i)/float64(n-1)
		}
		pts[i] = layout.Point{X: x, Y: bottom - BarHeight(e.Value, max, height)}
	}
	return pts
}

var timeKeyLayouts = []string{"2006-01-02", "2006-01", "2006"}

func parseTimeKey(key string) (time.Time, bool) {
	for _, l := range timeKeyLayouts {
		if t, err := time.Parse(l, key); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortTimeKeys 在所有分类名都像日期（2006-01-02 / 2006-01 / 2006）时按时间排序，
// 否则保持原有顺序。返回新的序列。
func SortTimeKeys(s Series) Series {
	out := make(Series, len(s))
	copy(out, s)
	keys := make([]time.Time, len(s))
	for i, e := range s {
		t, ok := parseTimeKey(e.Label)
		if !ok {
			return out
		}
		keys[i] = t
	}
	idx := make([]int, len(s))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return keys[idx[a]].Before(keys[idx[b]]) })
	for i, j := range idx {
		out[i] = s[j]
	}
	return out
}

// Segment 是堆叠柱中的一段，Y 为该段顶边。
type Segment struct {
	Key    string
	Value  float64
	Y      float64
	Height float64
}

// Segments 自底向上计算一根堆叠柱的各段位置，高度按 value/max × chartHeight 缩放。
// 数值为 0 的段被跳过。
func Segments(keys []string, cat StackCategory, max, bottom, chartHeight float64) []Segment {
	var out []Segment
	y := bottom
	for i, key := range keys {
		if i >= len(cat.Values) {
			break
		}
		h := BarHeight(cat.Values[i], max, chartHeight)
		if h <= 0 {
			continue
		}
		y -= h
		out = append(out, Segment{Key: key, Value: cat.Values[i], Y: y, Height: h})
	}
	return out
}

// FitSize 把期望尺寸缩放到页面可安全容纳的范围：
// 宽度不超过 usableWidth-ChartInset，高度不超过 ChartMaxHeight。非正值表示取上限。
func FitSize(preferredWidth, preferredHeight, usableWidth float64, cfg layout.Config) (float64, float64) {
	maxW := usableWidth - cfg.ChartInset
	w := preferredWidth
	if w <= 0 || w > maxW {
		w = maxW
	}
	h := preferredHeight
	if h <= 0 || h > cfg.ChartMaxHeight {
		h = cfg.ChartMaxHeight
	}
	return w, h
}
