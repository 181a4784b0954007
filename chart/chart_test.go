package chart

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/papyrus-report/layout"
)

// --- Mocks ---

// MockCanvas 记录所有绘制调用，用于在不依赖渲染后端的情况下检查图表输出。
type MockCanvas struct {
	Rects    []layout.Rect
	Lines    []layout.Line
	Circles  []layout.Circle
	Polygons []layout.Polygon
	Texts    []DrawnText
}

type DrawnText struct {
	Text  string
	X, Y  float64
	Width float64
	Style layout.TextStyle
}

func (m *MockCanvas) Rect(x, y, w, h float64, st layout.DrawStyle) {
	m.Rects = append(m.Rects, layout.Rect{X: x, Y: y, Width: w, Height: h, Style: st})
}

func (m *MockCanvas) Line(x1, y1, x2, y2 float64, st layout.DrawStyle) {
	m.Lines = append(m.Lines, layout.Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Style: st})
}

func (m *MockCanvas) Circle(cx, cy, r float64, st layout.DrawStyle) {
	m.Circles = append(m.Circles, layout.Circle{CX: cx, CY: cy, R: r, Style: st})
}

func (m *MockCanvas) Polygon(points []layout.Point, st layout.DrawStyle) {
	m.Polygons = append(m.Polygons, layout.Polygon{Points: points, Style: st})
}

func (m *MockCanvas) Text(x, y, width float64, content string, st layout.TextStyle) float64 {
	m.Texts = append(m.Texts, DrawnText{Text: content, X: x, Y: y, Width: width, Style: st})
	return st.Size
}

func (m *MockCanvas) Table(x, y, width float64, spec layout.TableSpec) (float64, error) {
	return y, errors.New("mock: table not supported")
}

func (m *MockCanvas) PageIndex() int { return 0 }

func (m *MockCanvas) textsContaining(sub string) []string {
	var out []string
	for _, t := range m.Texts {
		if strings.Contains(t.Text, sub) {
			out = append(out, t.Text)
		}
	}
	return out
}

// 任意正数分布的扇形角度之和为 2π。
func TestSlicesSpanFullCircle(t *testing.T) {
	cases := []Series{
		{{"active", 34}, {"inactive", 5}, {"suspended", 1}},
		{{"a", 1}},
		{{"a", 0.1}, {"b", 0.2}, {"c", 0.3}, {"d", 1e6}},
		{{"x", 3}, {"y", 0}, {"z", 7}},
	}
	for _, s := range cases {
		slices, err := Slices(s, DefaultPalette())
		if err != nil {
			t.Fatalf("Slices 失败: %v", err)
		}
		sum := 0.0
		for _, sl := range slices {
			sum += sl.Span
		}
		if math.Abs(sum-2*math.Pi) > 1e-9 {
			t.Fatalf("角度之和期望 2π，实际 %g (%v)", sum, s)
		}
		if slices[0].Start != -math.Pi/2 {
			t.Fatalf("第一块应从 12 点方向开始")
		}
		for i := 1; i < len(slices); i++ {
			if math.Abs(slices[i].Start-slices[i-1].End()) > 1e-12 {
				t.Fatalf("扇形应首尾相接")
			}
		}
	}
}

func TestStatusPieAngles(t *testing.T) {
	data := Series{{"active", 34}, {"inactive", 5}, {"suspended", 1}}
	slices, err := Slices(data, DefaultPalette())
	if err != nil {
		t.Fatalf("Slices 失败: %v", err)
	}
	if math.Abs(slices[0].Span-34.0/40*2*math.Pi) > 1e-9 || math.Abs(slices[0].Span-5.34) > 0.01 {
		t.Fatalf("active 扇形角度错误: %g", slices[0].Span)
	}
	if got := LegendLabel("active", 34, 40, "employees"); got != "Active: 34 employees (85.0%)" {
		t.Fatalf("图例文字错误: %q", got)
	}
}

func TestSlicesRejectZeroTotal(t *testing.T) {
	for _, s := range []Series{nil, {{"active", 0}, {"inactive", 0}}} {
		if _, err := Slices(s, DefaultPalette()); !errors.Is(err, ErrZeroTotal) {
			t.Fatalf("总和为 0 时应返回 ErrZeroTotal，实际 %v", err)
		}
	}
	_, err := Section(Spec{Kind: Pie, Title: "状态"}, layout.DefaultConfig())
	if !errors.Is(err, ErrZeroTotal) {
		t.Fatalf("空数据的扇形图区块应被拒绝，实际 %v", err)
	}
}

func TestArcPointCount(t *testing.T) {
	if got := ArcPointCount(0.1, 10, 5); got != 5 {
		t.Fatalf("窄扇形应取下限 5，实际 %d", got)
	}
	if got := ArcPointCount(math.Pi, 10, 5); got != 31 {
		t.Fatalf("半圆期望 31 个点，实际 %d", got)
	}
}

func TestFanEndpoints(t *testing.T) {
	sl := Slice{Start: -math.Pi / 2, Span: math.Pi / 2}
	pts := Fan(100, 100, 50, sl, 5)
	if len(pts) != 6 {
		t.Fatalf("期望圆心加 5 个弧点，实际 %d", len(pts))
	}
	if pts[0] != (layout.Point{X: 100, Y: 100}) {
		t.Fatalf("首点应为圆心")
	}
	if math.Abs(pts[1].X-100) > 1e-9 || math.Abs(pts[1].Y-50) > 1e-9 {
		t.Fatalf("弧起点应在 12 点方向: %+v", pts[1])
	}
	if math.Abs(pts[5].X-150) > 1e-9 || math.Abs(pts[5].Y-100) > 1e-9 {
		t.Fatalf("顺时针 90° 后应在 3 点方向: %+v", pts[5])
	}
}

func TestBarGeometry(t *testing.T) {
	if got := BarWidth(200, 2, 15); got != 90 {
		t.Fatalf("柱宽期望 90，实际 %g", got)
	}
	if got := BarWidth(200, 40, 15); got != 15 {
		t.Fatalf("柱宽下限应为 15，实际 %g", got)
	}
	if got := BarHeight(12, 12, 100); got != 100 {
		t.Fatalf("最大值柱高应等于图高，实际 %g", got)
	}
	if got := BarHeight(3, 12, 100); got != 25 {
		t.Fatalf("柱高期望 25，实际 %g", got)
	}
	if got := BarHeight(7, 0, 100); got != 0 {
		t.Fatalf("最大值为 0 时柱高应为 0")
	}
	for _, max := range []float64{0.3, 7, 13, 1e5} {
		if BarHeight(max, max, 137.5) != 137.5 {
			t.Fatalf("max=%g 时最高柱应恰好等于图高", max)
		}
	}
}

func TestGridValues(t *testing.T) {
	got := GridValues(50, 5)
	want := []float64{10, 20, 30, 40, 50}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("网格值期望 %v，实际 %v", want, got)
		}
	}
	if GridValues(10, 0) != nil {
		t.Fatalf("0 条网格线应返回 nil")
	}
}

// {Sales:12, Ops:3} 在 200×100 区域内：Sales 柱高为满高，Ops 为 25%。
func TestDepartmentBars(t *testing.T) {
	cfg := layout.DefaultConfig()
	content, height, err := NewContent(Spec{Kind: Bar, Data: Series{{"Sales", 12}, {"Ops", 3}}, PreferredWidth: 200, PreferredHeight: 100}, cfg)
	if err != nil {
		t.Fatalf("NewContent 失败: %v", err)
	}
	if height != 130 {
		t.Fatalf("柱状图声明高度期望 130，实际 %g", height)
	}
	mc := &MockCanvas{}
	box := layout.Box{X: cfg.Margin, Y: 100, Width: cfg.UsableWidth(), Height: height}
	end, err := content.Render(mc, box)
	if err != nil {
		t.Fatalf("Render 失败: %v", err)
	}
	if end > box.Bottom() {
		t.Fatalf("内容结束位置 %g 超出区域 %g", end, box.Bottom())
	}
	if len(mc.Rects) != 2 {
		t.Fatalf("期望 2 根柱子，实际 %d", len(mc.Rects))
	}
	if mc.Rects[0].Height != 100 || mc.Rects[1].Height != 25 {
		t.Fatalf("柱高错误: %g / %g", mc.Rects[0].Height, mc.Rects[1].Height)
	}
	if gap := mc.Rects[1].X - mc.Rects[0].X; math.Abs(gap-90) > 1e-9 {
		t.Fatalf("柱槽宽度期望 90，实际 %g", gap)
	}
	// 5 条网格线加一条底轴
	if len(mc.Lines) != 6 {
		t.Fatalf("期望 6 条水平线，实际 %d", len(mc.Lines))
	}
	if len(mc.textsContaining("Sales")) != 1 || len(mc.textsContaining("12")) < 2 {
		t.Fatalf("缺少分类或数值标签: %+v", mc.Texts)
	}
}

// 图例中每个正数分类恰好出现一次，数值为 0 的分类被省略。
func TestPieLegendCompleteness(t *testing.T) {
	cfg := layout.DefaultConfig()
	data := Series{{"active", 10}, {"inactive", 0}, {"suspended", 2}, {"on_leave", 3}}
	content, height, err := NewContent(Spec{Kind: Pie, Data: data, Unit: "employees"}, cfg)
	if err != nil {
		t.Fatalf("NewContent 失败: %v", err)
	}
	mc := &MockCanvas{}
	box := layout.Box{X: cfg.Margin, Y: 80, Width: cfg.UsableWidth(), Height: height}
	end, err := content.Render(mc, box)
	if err != nil {
		t.Fatalf("Render 失败: %v", err)
	}
	if end > box.Bottom() {
		t.Fatalf("内容结束位置 %g 超出区域 %g", end, box.Bottom())
	}
	for _, label := range []string{"Active:", "Suspended:", "On Leave:"} {
		if n := len(mc.textsContaining(label)); n != 1 {
			t.Fatalf("图例中 %s 应出现 1 次，实际 %d", label, n)
		}
	}
	if n := len(mc.textsContaining("Inactive")); n != 0 {
		t.Fatalf("数值为 0 的分类不应出现在图例中")
	}
	if len(mc.Polygons) != 3 {
		t.Fatalf("期望 3 个扇形，实际 %d", len(mc.Polygons))
	}
	if len(mc.textsContaining("15")) != 1 {
		t.Fatalf("圆心应显示总数 15")
	}
	wantLegend := 3*cfg.LegendRowHeight + cfg.LegendBaseHeight
	if mc.Rects[0].Height != wantLegend {
		t.Fatalf("图例高度期望 %g，实际 %g", wantLegend, mc.Rects[0].Height)
	}
}

func TestPieRadiusRespectsCeiling(t *testing.T) {
	cfg := layout.DefaultConfig()
	content, _, err := NewContent(Spec{Kind: Pie, Data: Series{{"a", 1}}, PreferredWidth: 2000, PreferredHeight: 2000}, cfg)
	if err != nil {
		t.Fatalf("NewContent 失败: %v", err)
	}
	mc := &MockCanvas{}
	if _, err := content.Render(mc, layout.Box{X: cfg.Margin, Y: 0, Width: cfg.UsableWidth(), Height: 500}); err != nil {
		t.Fatalf("Render 失败: %v", err)
	}
	if r := mc.Circles[0].R; r*2 > cfg.ChartMaxHeight {
		t.Fatalf("直径 %g 超过高度上限", r*2)
	}
}

func TestFitSize(t *testing.T) {
	cfg := layout.DefaultConfig()
	usable := cfg.UsableWidth()
	w, h := FitSize(1000, 400, usable, cfg)
	if w != usable-cfg.ChartInset || h != cfg.ChartMaxHeight {
		t.Fatalf("超大尺寸应被缩放: %gx%g", w, h)
	}
	w, h = FitSize(200, 100, usable, cfg)
	if w != 200 || h != 100 {
		t.Fatalf("合适的尺寸应保持不变: %gx%g", w, h)
	}
	w, h = FitSize(0, 0, usable, cfg)
	if w != usable-cfg.ChartInset || h != cfg.ChartMaxHeight {
		t.Fatalf("未指定尺寸时取上限: %gx%g", w, h)
	}
}

func TestLineChartSortsTimeKeys(t *testing.T) {
	data := Series{{"2024-03", 4}, {"2023-12", 1}, {"2024-01", 2}}
	sorted := SortTimeKeys(data)
	if sorted[0].Label != "2023-12" || sorted[2].Label != "2024-03" {
		t.Fatalf("时间键应按时间排序: %v", sorted)
	}
	if data[0].Label != "2024-03" {
		t.Fatalf("SortTimeKeys 不应修改输入")
	}
	mixed := Series{{"b", 1}, {"a", 2}}
	if got := SortTimeKeys(mixed); got[0].Label != "b" {
		t.Fatalf("非时间键应保持原顺序")
	}

	cfg := layout.DefaultConfig()
	content, height, err := NewContent(Spec{Kind: Line, Data: data}, cfg)
	if err != nil {
		t.Fatalf("NewContent 失败: %v", err)
	}
	mc := &MockCanvas{}
	if _, err := content.Render(mc, layout.Box{X: cfg.Margin, Y: 60, Width: cfg.UsableWidth(), Height: height}); err != nil {
		t.Fatalf("Render 失败: %v", err)
	}
	// 4 条网格线 + 底轴 + 2 段折线
	if len(mc.Lines) != 7 {
		t.Fatalf("期望 7 条线，实际 %d", len(mc.Lines))
	}
	if len(mc.Circles) != 3 {
		t.Fatalf("期望 3 个数据点，实际 %d", len(mc.Circles))
	}
	if mc.Circles[0].CX >= mc.Circles[1].CX {
		t.Fatalf("数据点应从左到右排列")
	}
}

func TestStackedSegments(t *testing.T) {
	keys := []string{"suspended", "inactive", "active"}
	cat := StackCategory{Label: "Sales", Values: []float64{1, 0, 9}}
	segs := Segments(keys, cat, 20, 200, 100)
	if len(segs) != 2 {
		t.Fatalf("数值为 0 的段应被跳过，实际 %d 段", len(segs))
	}
	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
	if segs[0].Key != "suspended" || !near(segs[0].Y, 195) || !near(segs[0].Height, 5) {
		t.Fatalf("底部段错误: %+v", segs[0])
	}
	if segs[1].Key != "active" || !near(segs[1].Y, 150) || !near(segs[1].Height, 45) {
		t.Fatalf("顶部段错误: %+v", segs[1])
	}

	cfg := layout.DefaultConfig()
	stack := Stack{Keys: keys, Categories: []StackCategory{cat, {Label: "Ops", Values: []float64{0, 2, 18}}}}
	content, height, err := NewContent(Spec{Kind: Stacked, Stack: stack}, cfg)
	if err != nil {
		t.Fatalf("NewContent 失败: %v", err)
	}
	if height != cfg.ChartMaxHeight+44 {
		t.Fatalf("堆叠图声明高度错误: %g", height)
	}
	mc := &MockCanvas{}
	box := layout.Box{X: cfg.Margin, Y: 60, Width: cfg.UsableWidth(), Height: height}
	end, err := content.Render(mc, box)
	if err != nil {
		t.Fatalf("Render 失败: %v", err)
	}
	if end > box.Bottom()+1e-9 {
		t.Fatalf("内容结束位置 %g 超出区域 %g", end, box.Bottom())
	}
	// Ops 合计 20 为最高柱
	if len(mc.textsContaining("20")) == 0 || len(mc.textsContaining("Active")) != 1 {
		t.Fatalf("缺少合计或图例: %+v", mc.Texts)
	}
}

func TestSectionWrapsSpec(t *testing.T) {
	cfg := layout.DefaultConfig()
	sec, err := Section(Spec{Kind: Bar, Title: "部门", Number: 3, Description: "人数", Data: Series{{"Sales", 1}}}, cfg)
	if err != nil {
		t.Fatalf("Section 失败: %v", err)
	}
	if sec.Title != "部门" || sec.Number != 3 || sec.RequiredHeight != cfg.ChartMaxHeight+30 || sec.Content == nil {
		t.Fatalf("区块描述错误: %+v", sec)
	}
	for _, kind := range []Kind{Pie, Bar, Line, Stacked} {
		if _, err := Section(Spec{Kind: kind}, cfg); !errors.Is(err, ErrEmptySeries) {
			t.Fatalf("空的 %s 图应返回 ErrEmptySeries，实际 %v", kind, err)
		}
	}
	// 有分类但总和为 0 的扇形图仍然是错误输入
	if _, err := Section(Spec{Kind: Pie, Data: Series{{"active", 0}}}, cfg); !errors.Is(err, ErrZeroTotal) {
		t.Fatalf("总和为 0 的扇形图应返回 ErrZeroTotal，实际 %v", err)
	}
}

func TestDisplayLabelKeepsAcronyms(t *testing.T) {
	cases := map[string]string{
		"active":            "Active",
		"IT":                "IT",
		"HR":                "HR",
		"department_status": "Department Status",
	}
	for in, want := range cases {
		if got := DisplayLabel(in); got != want {
			t.Fatalf("DisplayLabel(%q) = %q，期望 %q", in, got, want)
		}
	}
	if got := LegendLabel("IT", 3, 12, "employees"); got != "IT: 3 employees (25.0%)" {
		t.Fatalf("图例文字错误: %q", got)
	}
}

func TestParseKind(t *testing.T) {
	for name, want := range map[string]Kind{"pie": Pie, "BAR": Bar, "line": Line, "stacked-bar": Stacked} {
		got, err := ParseKind(name)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %v, %v", name, got, err)
		}
		if _, err := ParseKind(got.String()); err != nil {
			t.Fatalf("String 与 ParseKind 不一致: %v", err)
		}
	}
	if _, err := ParseKind("radar"); err == nil {
		t.Fatalf("未知类型应报错")
	}
}

func TestPaletteColor(t *testing.T) {
	pal := DefaultPalette()
	if pal.Color("Active", 5) != pal.Named["active"] {
		t.Fatalf("命名颜色应不区分大小写")
	}
	if pal.Color("Sales", 1) != pal.Cycle[1] {
		t.Fatalf("未命名分类应按序号取色")
	}
	over := pal.With(map[string]layout.Color{"Sales": {R: 1}})
	if over.Color("sales", 0) != (layout.Color{R: 1}) || pal.Color("sales", 0) == (layout.Color{R: 1}) {
		t.Fatalf("With 应返回覆盖后的副本")
	}
}
