// Package report 编排整份员工报表：封面、概览、图表与分页名册，并输出 PDF。
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ByLCY/papyrus-report/binding"
	"github.com/ByLCY/papyrus-report/chart"
	"github.com/ByLCY/papyrus-report/layout"
	"github.com/ByLCY/papyrus-report/renderer"
	"github.com/ByLCY/papyrus-report/roster"
	"github.com/ByLCY/papyrus-report/table"
)

// ErrEmptyDataset 表示没有任何记录；百分比与图例都以总数大于 0 为前提，因此在排版前拒绝。
var ErrEmptyDataset = errors.New("report: 没有可用于生成报表的记录")

// ContentType 是生成文件的 MIME 类型。
const ContentType = "application/pdf"

// Builder 按定义依次排布报表区块。Builder 本身不保存排版状态，可以重复调用 Build。
type Builder struct {
	def    Definition
	cfg    layout.Config
	ts     layout.Typesetter
	logger *log.Logger
	now    func() time.Time
	data   map[string]any
}

// Option 配置 Builder。
type Option func(*Builder)

// WithLogger 指定日志输出。
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithTypesetter 指定排版后端（通常就是渲染器本身）。
func WithTypesetter(ts layout.Typesetter) Option {
	return func(b *Builder) { b.ts = ts }
}

// WithClock 替换生成时间的来源。
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithData 提供标题、副标题插值时可引用的额外数据，例如 company。
func WithData(data map[string]any) Option {
	return func(b *Builder) { b.data = data }
}

// NewBuilder 创建报表构建器。
func NewBuilder(def Definition, cfg layout.Config, opts ...Option) *Builder {
	b := &Builder{
		def:    def,
		cfg:    cfg,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// build 保存一次构建过程中的全部状态，游标只在这里流转。
type build struct {
	*Builder
	generated time.Time
	id        string
	records   []roster.Record
	summary   roster.Summary
	palette   chart.Palette
	vars      map[string]any
}

// Build 排版整份报表。任何区块绘制失败都会使整份文档作废，不返回部分结果。
func (b *Builder) Build(records []roster.Record) (*layout.Result, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	st := &build{
		Builder:   b,
		generated: b.now(),
		id:        uuid.NewString(),
		records:   records,
		summary:   roster.Summarize(records),
		palette:   chart.DefaultPalette().With(b.def.Palette),
	}
	st.vars = st.variables()

	doc := layout.NewDocument(b.cfg,
		layout.WithTypesetter(b.ts),
		layout.WithLogger(b.logger),
		layout.WithPageHeader(st.drawPageHeader),
	)
	pc := layout.NewController(doc)

	var cur layout.Cursor
	if b.def.Cover {
		st.drawCover(doc)
		cur = pc.Break(cur)
	} else {
		st.drawPageHeader(doc, 0, 0)
		cur = layout.Cursor{PageIndex: 0, Y: b.cfg.ContentTop()}
	}

	number := 0
	for _, blk := range b.def.Blocks {
		spec, ok, err := st.section(blk)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		number++
		spec.Number = number
		b.logger.Debug("放置区块", "kind", blk.Kind, "title", spec.Title, "page", cur.PageIndex+1, "y", cur.Y, "required", spec.RequiredHeight)
		if cur, err = pc.RenderSection(cur, spec); err != nil {
			return nil, fmt.Errorf("生成报表失败: %w", err)
		}
	}

	res := doc.Finish(st.meta(), st.drawFooter)
	b.logger.Info("报表排版完成", "id", st.id, "pages", len(res.Pages), "sections", number, "overflows", doc.Overflows())
	return res, nil
}

// Generate 排版并渲染报表，返回 PDF 字节与按约定生成的文件名。失败时不返回任何字节。
func (b *Builder) Generate(records []roster.Record, r renderer.Renderer) ([]byte, string, error) {
	if r == nil {
		return nil, "", fmt.Errorf("未指定渲染器")
	}
	res, err := b.Build(records)
	if err != nil {
		return nil, "", err
	}
	data, err := r.Render(res)
	if err != nil {
		return nil, "", fmt.Errorf("渲染报表失败: %w", err)
	}
	return data, Filename(b.def.Name, b.now(), "pdf"), nil
}

func (st *build) variables() map[string]any {
	vars := map[string]any{}
	for k, v := range st.data {
		vars[k] = v
	}
	vars["name"] = st.def.Name
	vars["date"] = st.generated
	vars["total"] = float64(st.summary.Total)
	vars["id"] = st.id
	status := map[string]any{}
	for _, c := range st.summary.ByStatus {
		status[c.Key] = float64(c.Value)
	}
	vars["status"] = status
	return vars
}

func (st *build) text(s string) string { return binding.Interpolate(s, st.vars) }

func (st *build) meta() layout.DocumentMeta {
	return layout.DocumentMeta{
		ID:       st.id,
		Title:    st.text(st.def.Title),
		Author:   st.text(st.def.Author),
		Subject:  st.text(st.def.Subject),
		Creator:  st.def.Creator,
		Keywords: st.def.Keywords,
	}
}

// section 把区块定义转换为可排版的区块；返回 false 表示该区块没有数据，跳过。
func (st *build) section(blk Block) (layout.SectionSpec, bool, error) {
	switch blk.Kind {
	case BlockSummary:
		return st.summarySection(blk), true, nil
	case BlockChart:
		spec := chart.Spec{
			Kind:            blk.Chart.Kind,
			Title:           st.text(blk.Title),
			Description:     st.text(blk.Description),
			Unit:            blk.Chart.Unit,
			PreferredWidth:  blk.Chart.Width,
			PreferredHeight: blk.Chart.Height,
			Palette:         st.palette,
		}
		if blk.Chart.Source == SourceDepartmentStatus {
			spec.Stack = st.departmentStack()
		} else {
			spec.Data = st.series(blk.Chart.Source)
		}
		sec, err := chart.Section(spec, st.cfg)
		if errors.Is(err, chart.ErrEmptySeries) {
			st.logger.Warn("图表没有数据，跳过", "title", spec.Title, "source", blk.Chart.Source)
			return layout.SectionSpec{}, false, nil
		}
		if err != nil {
			return layout.SectionSpec{}, false, &layout.RenderError{Section: spec.Title, Err: err}
		}
		return sec, true, nil
	case BlockTable:
		spec, err := st.tableSpec(blk)
		if err != nil {
			return layout.SectionSpec{}, false, err
		}
		sec, err := table.Section(spec, st.cfg)
		if err != nil {
			return layout.SectionSpec{}, false, &layout.RenderError{Section: spec.Title, Err: err}
		}
		return sec, true, nil
	}
	return layout.SectionSpec{}, false, fmt.Errorf("未知的区块类型 %v", blk.Kind)
}

func (st *build) series(source string) chart.Series {
	var counts []roster.Count
	switch source {
	case SourceStatus:
		counts = st.summary.ByStatus
	case SourceDepartment:
		counts = st.summary.ByDepartment
	case SourceJoins:
		counts = st.summary.JoinsByMonth
	}
	out := make(chart.Series, 0, len(counts))
	for _, c := range counts {
		out = append(out, chart.Entry{Label: c.Key, Value: float64(c.Value)})
	}
	return out
}

// departmentStack 按固定顺序（suspended、inactive、active）自底向上堆叠各部门的状态计数。
func (st *build) departmentStack() chart.Stack {
	stack := chart.Stack{Keys: append([]string(nil), roster.StackOrder...)}
	for _, d := range st.summary.ByDepartmentStatus {
		cat := chart.StackCategory{Label: d.Department, Values: make([]float64, len(stack.Keys))}
		for i, k := range stack.Keys {
			cat.Values[i] = float64(d.Count(k))
		}
		stack.Categories = append(stack.Categories, cat)
	}
	return stack
}

func (st *build) tableSpec(blk Block) (table.Spec, error) {
	records := st.records
	keys := make([]string, 0, len(blk.Table.Filter))
	for k := range blk.Table.Filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		records = roster.Filter(records, roster.FieldEquals(k, blk.Table.Filter[k]))
	}
	if blk.Table.Sort != "" {
		sorted, err := roster.SortBy(records, blk.Table.Sort, blk.Table.Desc)
		if err != nil {
			return table.Spec{}, err
		}
		records = sorted
	}

	headers := make([]string, len(blk.Table.Columns))
	for i, col := range blk.Table.Columns {
		label, ok := roster.FieldLabel(col)
		if !ok {
			return table.Spec{}, fmt.Errorf("表格中未知的列 %q", col)
		}
		headers[i] = label
	}
	rows := make([][]string, len(records))
	for i, r := range records {
		row := make([]string, len(blk.Table.Columns))
		for j, col := range blk.Table.Columns {
			row[j], _ = r.Field(col)
		}
		rows[i] = row
	}

	spec := table.Spec{
		Title:       st.text(blk.Title),
		Description: st.text(blk.Description),
		Headers:     headers,
		Rows:        rows,
		Logger:      st.logger,
	}
	if blk.Table.Status != "" {
		spec.StatusColumn, _ = roster.FieldLabel(blk.Table.Status)
	}
	if len(records) < len(st.records) {
		st.logger.Debug("表格过滤", "title", spec.Title, "kept", len(records), "total", len(st.records))
	}
	return spec, nil
}

// Filename 返回 `<报表名>-<ISO 日期>.<扩展名>`，报表名转为小写并以连字符连接。
func Filename(name string, date time.Time, ext string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(sb.String(), "-")
	if slug == "" {
		slug = "report"
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "pdf"
	}
	return fmt.Sprintf("%s-%s.%s", slug, date.Format("2006-01-02"), ext)
}
