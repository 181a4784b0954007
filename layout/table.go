package layout

import "fmt"

// ColumnDef 定义表格列。Width > 0 为固定宽度，否则在剩余空间中自动分配且不小于 MinWidth。
type ColumnDef struct {
	Header   string  `json:"header"`
	Width    float64 `json:"width,omitempty"`
	MinWidth float64 `json:"minWidth,omitempty"`
	Align    string  `json:"align,omitempty"`
}

// CellStyle 定义单元格的背景与文字颜色，nil 字段表示沿用表格默认值。
type CellStyle struct {
	Fill *Color `json:"fill,omitempty"`
	Text *Color `json:"text,omitempty"`
	Bold bool   `json:"bold,omitempty"`
}

// TableCellSpec 是待排版的单元格。
type TableCellSpec struct {
	Text  string
	Style *CellStyle
}

// TableSpec 描述一张待分页的表格。
type TableSpec struct {
	Columns       []ColumnDef
	Rows          [][]TableCellSpec
	FontSize      float64
	HeaderStyle   CellStyle
	AlternateFill *Color
	BorderColor   Color
}

// Table 逐行放置表格：某一行放不下时换页（页眉随之重绘），并在新页顶部重复表头。
// 每一页产生一个 TableBox 片段，返回最后一行结束处的 y 坐标。
func (d *Document) Table(x, y, width float64, spec TableSpec) (float64, error) {
	if len(spec.Columns) == 0 {
		return y, fmt.Errorf("table 需要至少一列")
	}
	for i, row := range spec.Rows {
		if len(row) > len(spec.Columns) {
			return y, fmt.Errorf("table 第 %d 行有 %d 个单元格，超过列数 %d", i+1, len(row), len(spec.Columns))
		}
	}
	fontSize := spec.FontSize
	if fontSize <= 0 {
		fontSize = d.cfg.TableFontSize
	}
	widths := ColumnWidths(spec.Columns, width)
	tableWidth := 0.0
	for _, w := range widths {
		tableWidth += w
	}

	headerCells := make([]TableCellSpec, len(spec.Columns))
	for i, col := range spec.Columns {
		hs := spec.HeaderStyle
		headerCells[i] = TableCellSpec{Text: col.Header, Style: &hs}
	}
	header := d.composeRow(headerCells, spec.Columns, widths, fontSize, true)

	bottom := d.cfg.ContentBottom()
	frag := TableBox{X: x, Y: y, Width: tableWidth, ColumnWidths: widths, BorderColor: spec.BorderColor}
	flush := func() {
		if len(frag.Rows) > 0 {
			d.curr().tables = append(d.curr().tables, frag)
			d.logger.Debug("表格片段", "page", d.PageIndex()+1, "rows", len(frag.Rows))
		}
	}
	breakPage := func() {
		flush()
		d.NewPage()
		y = d.cfg.ContentTop()
		frag = TableBox{X: x, Y: y, Width: tableWidth, ColumnWidths: widths, BorderColor: spec.BorderColor}
	}

	// 表头至少要和第一行数据放在同一页
	need := header.height
	if len(spec.Rows) > 0 {
		need += d.composeRow(spec.Rows[0], spec.Columns, widths, fontSize, false).height
	}
	if y+need > bottom && y > d.cfg.ContentTop() {
		breakPage()
	}
	frag.Rows = append(frag.Rows, header.place(x, y, widths))
	y += header.height

	for i, cells := range spec.Rows {
		styled := cells
		if spec.AlternateFill != nil && i%2 == 1 {
			styled = withDefaultFill(cells, *spec.AlternateFill)
		}
		row := d.composeRow(styled, spec.Columns, widths, fontSize, false)
		if y+row.height > bottom {
			breakPage()
			frag.Rows = append(frag.Rows, header.place(x, y, widths))
			y += header.height
		}
		frag.Rows = append(frag.Rows, row.place(x, y, widths))
		y += row.height
	}
	flush()
	return y, nil
}

// ColumnWidths 计算最终列宽：固定列优先，其余列平分剩余宽度并不小于各自的最小宽度；
// 超出总宽时只从高于最小宽度的列中按比例回收。所有列的最小宽度之和超过总宽时允许溢出。
func ColumnWidths(cols []ColumnDef, total float64) []float64 {
	widths := make([]float64, len(cols))
	fixed := 0.0
	auto := 0
	for i, c := range cols {
		if c.Width > 0 {
			widths[i] = c.Width
			fixed += c.Width
		} else {
			auto++
		}
	}
	if auto == 0 {
		return widths
	}
	remaining := total - fixed
	if remaining < 0 {
		remaining = 0
	}
	share := remaining / float64(auto)
	sum, slack := 0.0, 0.0
	for i, c := range cols {
		if c.Width > 0 {
			continue
		}
		widths[i] = share
		if c.MinWidth > share {
			widths[i] = c.MinWidth
		} else {
			slack += share - c.MinWidth
		}
		sum += widths[i]
	}
	excess := sum - remaining
	if excess <= 0 || slack <= 0 {
		return widths
	}
	ratio := excess / slack
	if ratio > 1 {
		ratio = 1
	}
	for i, c := range cols {
		if c.Width > 0 || widths[i] <= c.MinWidth {
			continue
		}
		widths[i] -= (widths[i] - c.MinWidth) * ratio
	}
	return widths
}

type composedRow struct {
	header bool
	height float64
	cells  []TableCell // 坐标相对单元格左上角
}

func (d *Document) composeRow(cells []TableCellSpec, cols []ColumnDef, widths []float64, fontSize float64, header bool) composedRow {
	pad := d.cfg.TableCellPadding
	row := composedRow{header: header, height: d.cfg.TableRowHeight}
	for i := range cols {
		var cell TableCellSpec
		if i < len(cells) {
			cell = cells[i]
		}
		st := TextStyle{Font: "regular", Size: fontSize, Color: Color{R: 33, G: 37, B: 41}, Align: cols[i].Align}
		var fill *Color
		if cell.Style != nil {
			if cell.Style.Text != nil {
				st.Color = *cell.Style.Text
			}
			if cell.Style.Bold {
				st.Font = "bold"
			}
			fill = cell.Style.Fill
		}
		inner := widths[i] - 2*pad
		if inner < 1 {
			inner = 1
		}
		tb := composeTextBox(d.ts, pad, pad, inner, cell.Text, st)
		if h := tb.Height + 2*pad; h > row.height {
			row.height = h
		}
		row.cells = append(row.cells, TableCell{Text: tb, Fill: fill})
	}
	return row
}

func (r composedRow) place(x, y float64, widths []float64) TableRow {
	out := TableRow{Y: y, Height: r.height, IsHeader: r.header, Cells: make([]TableCell, len(r.cells))}
	cx := x
	for i, c := range r.cells {
		c.Text.X += cx
		c.Text.Y += y
		out.Cells[i] = c
		cx += widths[i]
	}
	return out
}

func withDefaultFill(cells []TableCellSpec, fill Color) []TableCellSpec {
	out := make([]TableCellSpec, len(cells))
	for i, c := range cells {
		out[i] = c
		if c.Style == nil {
			out[i].Style = &CellStyle{Fill: &fill}
		} else if c.Style.Fill == nil {
			st := *c.Style
			st.Fill = &fill
			out[i].Style = &st
		}
	}
	return out
}
