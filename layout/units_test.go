package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestLengthToConversions 覆盖 Length 在常见单位上的转换正确性。
func TestLengthToConversions(t *testing.T) {
	cases := []struct {
		in     Length
		wantPT float64
	}{
		{Length{Value: 1, Unit: UnitIN}, 72},
		{Length{Value: 25.4, Unit: UnitMM}, 72},
		{Length{Value: 2.54, Unit: UnitCM}, 72},
		{Length{Value: 12, Unit: UnitPT}, 12},
		{Length{Value: 20, Unit: UnitNone}, 20},
	}
	for _, c := range cases {
		if got := c.in.ToPT(); math.Abs(got-c.wantPT) > 1e-9 {
			t.Fatalf("%s 转 pt 期望 %g，实际 %g", c.in, c.wantPT, got)
		}
	}
	if got := (Length{Value: 1, Unit: UnitIN}).ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("1in 转 mm 期望 25.4，实际 %g", got)
	}
}

func TestParseLength(t *testing.T) {
	cases := map[string]Length{
		"20pt":   {Value: 20, Unit: UnitPT},
		"7mm":    {Value: 7, Unit: UnitMM},
		" 1.5in": {Value: 1.5, Unit: UnitIN},
		"2CM":    {Value: 2, Unit: UnitCM},
		"30":     {Value: 30, Unit: UnitNone},
	}
	for raw, want := range cases {
		got, err := ParseLength(raw)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", raw, err)
		}
		if got != want {
			t.Fatalf("解析 %q 期望 %+v，实际 %+v", raw, want, got)
		}
	}
	for _, bad := range []string{"", "abc", "-3pt", "12px"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("期望 %q 解析失败", bad)
		}
	}
}

func TestPageSize(t *testing.T) {
	w, h, err := PageSize("a4", false)
	if err != nil {
		t.Fatalf("A4 解析失败: %v", err)
	}
	if math.Abs(w-595.2756) > 1e-3 || math.Abs(h-841.8898) > 1e-3 {
		t.Fatalf("A4 尺寸错误: %gx%g", w, h)
	}
	lw, lh, _ := PageSize("A4", true)
	if lw != h || lh != w {
		t.Fatalf("横向应交换宽高: %gx%g", lw, lh)
	}
	if _, _, err := PageSize("B9", false); err == nil {
		t.Fatalf("未知纸张应报错")
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#D4EDDA")
	if err != nil || c != (Color{R: 212, G: 237, B: 218}) {
		t.Fatalf("解析颜色失败: %+v %v", c, err)
	}
	c, err = ParseColor("#fff")
	if err != nil || c != (Color{R: 255, G: 255, B: 255}) {
		t.Fatalf("解析短颜色失败: %+v %v", c, err)
	}
	if _, err := ParseColor("#12"); err == nil {
		t.Fatalf("非法颜色应报错")
	}
}
