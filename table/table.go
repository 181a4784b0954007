// Package table 把行列数据包装成可分页的表格区块：估算初始高度、按状态着色并计算列宽，
// 逐行分页与表头重复交给 layout 的表格原语完成。
package table

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/papyrus-report/layout"
)

// Spec 描述一张数据表。StatusColumn 是状态列的表头名（不区分大小写），为空表示不按状态着色。
type Spec struct {
	Title        string
	Number       int
	Description  string
	Headers      []string
	Rows         [][]string
	StatusColumn string
	Logger       *log.Logger
}

// statusIndex 返回状态列下标，没有状态列时返回 -1。
func (s Spec) statusIndex() int {
	if s.StatusColumn == "" {
		return -1
	}
	for i, h := range s.Headers {
		if strings.EqualFold(h, s.StatusColumn) {
			return i
		}
	}
	return -1
}

var (
	headerStyle = layout.CellStyle{
		Fill: &layout.Color{R: 52, G: 58, B: 64},
		Text: &layout.Color{R: 255, G: 255, B: 255},
		Bold: true,
	}
	zebraFill   = layout.Color{R: 248, G: 249, B: 250}
	borderColor = layout.Color{R: 222, G: 226, B: 230}
)

// statusStyles 是固定的三种状态配色（背景 / 文字）。
var statusStyles = map[string]layout.CellStyle{
	"active": {
		Fill: &layout.Color{R: 212, G: 237, B: 218},
		Text: &layout.Color{R: 21, G: 87, B: 36},
	},
	"inactive": {
		Fill: &layout.Color{R: 255, G: 243, B: 205},
		Text: &layout.Color{R: 133, G: 100, B: 4},
	},
	"suspended": {
		Fill: &layout.Color{R: 248, G: 215, B: 218},
		Text: &layout.Color{R: 114, G: 28, B: 36},
	},
}

// StatusStyle 返回状态值对应的单元格样式（不区分大小写）。未知状态返回 false，单元格按普通样式绘制。
func StatusStyle(status string) (*layout.CellStyle, bool) {
	st, ok := statusStyles[strings.ToLower(strings.TrimSpace(status))]
	if !ok {
		return nil, false
	}
	return &st, true
}

// Estimate 返回表格区块用于首次换页判断的声明高度：min(rows×行高+基础高度, 上限)。
// 它只是估算值，真正的逐行分页由表格原语决定。
func Estimate(rows int, cfg layout.Config) float64 {
	return math.Min(float64(rows)*cfg.TableRowHeight+cfg.TableBaseHeight, cfg.TableMaxEstimate)
}

// Columns 计算列定义（statusColumn 为 -1 表示没有状态列）：状态列使用固定的最小宽度，其余列的最小宽度为 max(MinColumnWidth, usable/列数/2)。
func Columns(headers []string, statusColumn int, usableWidth float64, cfg layout.Config) []layout.ColumnDef {
	cols := make([]layout.ColumnDef, len(headers))
	if len(headers) == 0 {
		return cols
	}
	min := math.Max(cfg.MinColumnWidth, usableWidth/float64(len(headers))/2)
	for i, h := range headers {
		cols[i] = layout.ColumnDef{Header: h, MinWidth: min}
		if i == statusColumn {
			cols[i].MinWidth = cfg.StatusColumnWidth
			cols[i].Align = "center"
		}
	}
	return cols
}

// Section 把数据表包装成区块。行的单元格数多于表头时返回错误。
func Section(spec Spec, cfg layout.Config) (layout.SectionSpec, error) {
	if len(spec.Headers) == 0 {
		return layout.SectionSpec{}, fmt.Errorf("表格 %q 没有表头", spec.Title)
	}
	status := spec.statusIndex()
	if spec.StatusColumn != "" && status < 0 {
		return layout.SectionSpec{}, fmt.Errorf("表格 %q 中找不到状态列 %q", spec.Title, spec.StatusColumn)
	}
	logger := spec.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	warned := map[string]bool{}
	rows := make([][]layout.TableCellSpec, len(spec.Rows))
	for i, row := range spec.Rows {
		if len(row) > len(spec.Headers) {
			return layout.SectionSpec{}, fmt.Errorf("表格 %q 第 %d 行有 %d 个单元格，超过表头数 %d", spec.Title, i+1, len(row), len(spec.Headers))
		}
		cells := make([]layout.TableCellSpec, len(row))
		for j, text := range row {
			cells[j] = layout.TableCellSpec{Text: text}
			if j != status {
				continue
			}
			if st, ok := StatusStyle(text); ok {
				cells[j].Style = st
			} else if text != "" && !warned[text] {
				warned[text] = true
				logger.Warn("未知状态，按普通样式绘制", "table", spec.Title, "status", text)
			}
		}
		rows[i] = cells
	}

	ts := layout.TableSpec{
		Columns:       Columns(spec.Headers, status, cfg.UsableWidth(), cfg),
		Rows:          rows,
		FontSize:      cfg.TableFontSize,
		HeaderStyle:   headerStyle,
		AlternateFill: &zebraFill,
		BorderColor:   borderColor,
	}
	return layout.SectionSpec{
		Title:          spec.Title,
		Number:         spec.Number,
		Description:    spec.Description,
		RequiredHeight: Estimate(len(spec.Rows), cfg),
		Content:        content{spec: ts},
	}, nil
}

type content struct {
	spec layout.TableSpec
}

func (c content) Render(cv layout.Canvas, box layout.Box) (float64, error) {
	return cv.Table(box.X, box.Y, box.Width, c.spec)
}
