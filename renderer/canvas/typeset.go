package canvasrenderer

import (
	"math"
	"strings"

	"github.com/ByLCY/papyrus-report/layout"
)

// LayoutLines 实现 layout.Typesetter，使用贪心换行：优先在空白处断行，单词超过宽度时在词内拆分。
// 入参与返回值均为 pt；canvas 的字宽以 mm 返回，这里在边界处换算。
func (r *Renderer) LayoutLines(content string, width float64, font string, fontSize, lineHeight float64) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, fontSize, layout.Color{})
	if err != nil {
		return nil, err
	}
	measure := func(s string) float64 { return pt(face.TextWidth(s)) }

	lines := greedyWrap(content, width, measure)
	textHeight := pt(face.Metrics().LineHeight)
	if textHeight <= 0 {
		textHeight = fontSize
	}
	leading := math.Max(lineHeight-textHeight, 0)
	for i := range lines {
		lines[i].Height = textHeight
		if i > 0 {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

// greedyWrap 按段落（显式换行）逐词填充；空段落保留为空行。
// 单词之间的连续空白折叠为一个空格。
func greedyWrap(content string, width float64, measure func(string) float64) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}
	var lines []layout.TextLine
	push := func(s string) {
		lines = append(lines, layout.TextLine{Content: s, Width: measure(s)})
	}
	for _, para := range strings.Split(strings.ReplaceAll(content, "\r", ""), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, layout.TextLine{})
			continue
		}
		line := ""
		for _, word := range words {
			if line != "" {
				if joined := line + " " + word; measure(joined) <= limit {
					line = joined
					continue
				}
				push(line)
				line = ""
			}
			if measure(word) <= limit {
				line = word
				continue
			}
			chunks := splitByWidth(word, limit, measure)
			for _, chunk := range chunks[:len(chunks)-1] {
				push(chunk)
			}
			line = chunks[len(chunks)-1]
		}
		push(line)
	}
	return lines
}

// splitByWidth 在词内按字符拆分超宽单词，每段至少保留一个字符。
func splitByWidth(word string, limit float64, measure func(string) float64) []string {
	var parts []string
	start := 0
	runes := []rune(word)
	for i := 1; i < len(runes); i++ {
		if measure(string(runes[start:i+1])) > limit {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	return append(parts, string(runes[start:]))
}
