// Package chart 提供图表几何计算（扇形、柱高、折线、堆叠段）以及基于区块的图表绘制。
package chart

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ByLCY/papyrus-report/layout"
)

// Entry 是一个分类及其数值。
type Entry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series 是按插入顺序排列的分类数据。
type Series []Entry

// Total 返回所有数值之和。
func (s Series) Total() float64 {
	total := 0.0
	for _, e := range s {
		total += e.Value
	}
	return total
}

// Max 返回最大值；空序列返回 0。
func (s Series) Max() float64 {
	m := 0.0
	for _, e := range s {
		if e.Value > m {
			m = e.Value
		}
	}
	return m
}

// Positive 返回去掉非正数值后的序列，顺序不变。
func (s Series) Positive() Series {
	out := make(Series, 0, len(s))
	for _, e := range s {
		if e.Value > 0 {
			out = append(out, e)
		}
	}
	return out
}

// StackCategory 是堆叠柱状图中的一根柱子，Values 与 Stack.Keys 一一对应。
type StackCategory struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Total 返回该柱子所有分段之和。
func (c StackCategory) Total() float64 {
	total := 0.0
	for _, v := range c.Values {
		total += v
	}
	return total
}

// Stack 描述堆叠柱状图：Keys 给出自底向上的分段顺序。
type Stack struct {
	Keys       []string        `json:"keys"`
	Categories []StackCategory `json:"categories"`
}

// Max 返回所有柱子中最大的合计值。
func (s Stack) Max() float64 {
	m := 0.0
	for _, c := range s.Categories {
		if t := c.Total(); t > m {
			m = t
		}
	}
	return m
}

// Palette 为分类分配颜色：先按名称（不区分大小写）查找，找不到时按序号循环取色。
type Palette struct {
	Named map[string]layout.Color
	Cycle []layout.Color
}

// DefaultPalette 返回内置配色，状态类分类使用固定颜色。
func DefaultPalette() Palette {
	return Palette{
		Named: map[string]layout.Color{
			"active":    {R: 40, G: 167, B: 69},
			"inactive":  {R: 255, G: 193, B: 7},
			"suspended": {R: 220, G: 53, B: 69},
		},
		Cycle: []layout.Color{
			{R: 41, G: 98, B: 255},
			{R: 23, G: 162, B: 184},
			{R: 111, G: 66, B: 193},
			{R: 253, G: 126, B: 20},
			{R: 32, G: 201, B: 151},
			{R: 232, G: 62, B: 140},
			{R: 108, G: 117, B: 125},
		},
	}
}

// Color 返回分类 label（第 i 个）的颜色。
func (p Palette) Color(label string, i int) layout.Color {
	if c, ok := p.Named[strings.ToLower(label)]; ok {
		return c
	}
	if len(p.Cycle) == 0 {
		return layout.Color{R: 108, G: 117, B: 125}
	}
	if i < 0 {
		i = -i
	}
	return p.Cycle[i%len(p.Cycle)]
}

// With 返回覆盖了部分命名颜色的副本。
func (p Palette) With(named map[string]layout.Color) Palette {
	out := Palette{Named: make(map[string]layout.Color, len(p.Named)+len(named)), Cycle: p.Cycle}
	for k, v := range p.Named {
		out.Named[k] = v
	}
	for k, v := range named {
		out.Named[strings.ToLower(k)] = v
	}
	return out
}

// DisplayLabel 把分类键转换为图例中展示的标题形式，如 "active" -> "Active"。
// 已有的大写字母保持不变，"IT"、"HR" 这类缩写不会被改写。
func DisplayLabel(label string) string {
	return cases.Title(language.English, cases.NoLower).String(strings.ReplaceAll(label, "_", " "))
}
