package layout

import (
	"strings"
	"testing"
)

// stubTypesetter 是一个最小实现，仅用于测试，避免引入 renderer 造成循环依赖。
// 按空格分词，每行最多放 wordsPerLine 个词，不依赖具体宽度。
type stubTypesetter struct {
	wordsPerLine int
}

func (s *stubTypesetter) LayoutLines(content string, width float64, font string, fontSize, lineHeight float64) ([]TextLine, error) {
	parts := strings.Fields(content)
	if len(parts) == 0 {
		return []TextLine{{Content: "", Width: 0, Height: fontSize}}, nil
	}
	n := s.wordsPerLine
	if n <= 0 {
		n = 3
	}
	var lines []TextLine
	for i := 0; i < len(parts); i += n {
		end := i + n
		if end > len(parts) {
			end = len(parts)
		}
		seg := strings.Join(parts[i:end], " ")
		lines = append(lines, TextLine{Content: seg, Width: EstimateTextWidth(seg, fontSize), Height: fontSize})
	}
	// 不设置 GapBefore（保持 0），由 composeTextBox 根据默认 leading 回填。
	return lines, nil
}

// TestTextBoxTotalHeightInvariant 断言：TextBox.Height == Σ(line.Height + line.GapBefore)。
func TestTextBoxTotalHeightInvariant(t *testing.T) {
	doc := NewDocument(DefaultConfig(), WithTypesetter(&stubTypesetter{wordsPerLine: 2}))
	h := doc.Text(20, 60, 100, "one two three four five", TextStyle{Size: 10})
	res := doc.Finish(DocumentMeta{}, nil)
	tb := res.Pages[0].Texts[0]
	if len(tb.Lines) != 3 {
		t.Fatalf("期望 3 行，实际 %d", len(tb.Lines))
	}
	sum := 0.0
	for i, ln := range tb.Lines {
		if i == 0 && ln.GapBefore != 0 {
			t.Fatalf("首行不应有 GapBefore: %g", ln.GapBefore)
		}
		sum += ln.Height + ln.GapBefore
	}
	if diff := sum - tb.Height; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("TextBox.Height=%g 与行高之和 %g 不一致", tb.Height, sum)
	}
	if h != tb.Height {
		t.Fatalf("Text 返回高度 %g 与 TextBox.Height %g 不一致", h, tb.Height)
	}
	if tb.Font != "regular" {
		t.Fatalf("默认字体应为 regular，实际 %q", tb.Font)
	}
}

func TestTextFallbackWithoutTypesetter(t *testing.T) {
	doc := NewDocument(DefaultConfig())
	h := doc.Text(0, 0, 0, "a\nb", TextStyle{Size: 8})
	want := 8 + (8*LineHeightFactor - 8) + 8
	if diff := h - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("两行文本高度期望 %g，实际 %g", want, h)
	}
}

func TestPolygonNeedsThreePoints(t *testing.T) {
	doc := NewDocument(DefaultConfig())
	doc.Polygon([]Point{{0, 0}, {1, 1}}, Filled(Color{}))
	pts := []Point{{0, 0}, {10, 0}, {10, 10}}
	doc.Polygon(pts, Filled(Color{}))
	pts[0].X = 99
	res := doc.Finish(DocumentMeta{}, nil)
	if n := len(res.Pages[0].Shapes); n != 1 {
		t.Fatalf("期望只保留 1 个多边形，实际 %d", n)
	}
	if got := res.Pages[0].Shapes[0].Polygon.Points[0].X; got != 0 {
		t.Fatalf("多边形应复制顶点，实际首点 X=%g", got)
	}
}

func TestNewPageRedrawsHeader(t *testing.T) {
	var calls []int
	header := func(c Canvas, page, total int) {
		calls = append(calls, page)
		if total != 0 {
			t.Fatalf("页眉绘制时总页数应未知，实际 %d", total)
		}
		c.Text(20, 20, 0, "header", TextStyle{})
	}
	doc := NewDocument(DefaultConfig(), WithPageHeader(header))
	doc.NewPage()
	doc.NewPage()
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Fatalf("页眉调用记录错误: %v", calls)
	}
	res := doc.Finish(DocumentMeta{}, nil)
	if len(res.Pages[0].Texts) != 0 {
		t.Fatalf("首页不应自动绘制页眉")
	}
	if len(res.Pages[2].Texts) != 1 {
		t.Fatalf("第 3 页应包含页眉文本")
	}
}

func TestFinishFootersSeeTotal(t *testing.T) {
	doc := NewDocument(DefaultConfig())
	doc.NewPage()
	doc.NewPage()
	var seen []int
	res := doc.Finish(DocumentMeta{Title: "t"}, func(c Canvas, page, total int) {
		seen = append(seen, total)
		c.Text(20, 820, 0, "footer", TextStyle{})
		if _, err := c.Table(0, 0, 100, TableSpec{Columns: []ColumnDef{{Header: "x"}}}); err == nil {
			t.Fatalf("页脚区域不应支持表格")
		}
	})
	if len(res.Pages) != 3 {
		t.Fatalf("期望 3 页，实际 %d", len(res.Pages))
	}
	for _, total := range seen {
		if total != 3 {
			t.Fatalf("页脚应看到总页数 3，实际 %d", total)
		}
	}
	for i, p := range res.Pages {
		if len(p.Footer.Texts) != 1 || len(p.Texts) != 0 {
			t.Fatalf("第 %d 页页脚内容错误", i+1)
		}
	}
	if res.Meta.Title != "t" {
		t.Fatalf("元信息丢失")
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in     string
		budget int
		want   string
	}{
		{"Engineering", 20, "Engineering"},
		{"Engineering", 8, "Engin..."},
		{"Engineering", 3, "Eng"},
		{"Engineering", 0, ""},
		{"研发中心部门", 5, "研发..."},
	}
	for _, c := range cases {
		if got := Truncate(c.in, c.budget); got != c.want {
			t.Fatalf("Truncate(%q,%d) 期望 %q，实际 %q", c.in, c.budget, c.want, got)
		}
	}
}
