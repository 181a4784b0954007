package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used when reading configuration and
// report definitions. Layout itself always works in points.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, treated as points
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 25.4 / 72
	MmToPt = 1.0 / PtToMm
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ToPT converts this length to points. Unit-less values are already points.
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	default:
		return l.Value
	}
}

// ToMM converts this length to millimeters.
func (l Length) ToMM() float64 { return l.ToPT() * PtToMm }

// ParseLength parses "20pt", "7mm", "1.5in" or a bare number (points).
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度值为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("长度值 %q 无法解析: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度值 %q 不能为负数", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// pagePresets 以毫米记录常用纸张尺寸（纵向）。
var pagePresets = map[string]Length2{
	"A3":     {Length{297, UnitMM}, Length{420, UnitMM}},
	"A4":     {Length{210, UnitMM}, Length{297, UnitMM}},
	"A5":     {Length{148, UnitMM}, Length{210, UnitMM}},
	"LETTER": {Length{8.5, UnitIN}, Length{11, UnitIN}},
	"LEGAL":  {Length{8.5, UnitIN}, Length{14, UnitIN}},
}

// Length2 是一对宽高。
type Length2 [2]Length

// PageSize 返回纸张预设的宽高（pt），landscape 为 true 时交换宽高。
func PageSize(name string, landscape bool) (float64, float64, error) {
	preset, ok := pagePresets[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", name)
	}
	w, h := preset[0].ToPT(), preset[1].ToPT()
	if landscape {
		w, h = h, w
	}
	return w, h, nil
}

// ParseColor 解析 #RGB / #RRGGBB / #RRGGBBAA 形式的颜色（忽略透明度）。
func ParseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(hex) {
	case 3:
		hex = strings.Repeat(hex[0:1], 2) + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2)
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var out [3]int
	for i := range out {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		out[i] = int(v)
	}
	return Color{R: out[0], G: out[1], B: out[2]}, nil
}
