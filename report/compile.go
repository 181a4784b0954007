package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ByLCY/papyrus-report/chart"
	"github.com/ByLCY/papyrus-report/dsl"
	"github.com/ByLCY/papyrus-report/layout"
	"github.com/ByLCY/papyrus-report/roster"
)

// LoadDefinition 读取并编译报表定义文件。
func LoadDefinition(path string, base layout.Config) (Definition, layout.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Definition{}, base, fmt.Errorf("读取报表定义 %s 失败: %w", path, err)
	}
	defer f.Close()
	return ParseDefinition(f, base)
}

// ParseDefinition 解析并编译报表定义。
func ParseDefinition(r io.Reader, base layout.Config) (Definition, layout.Config, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return Definition{}, base, err
	}
	return Compile(doc, base)
}

// Compile 把 DSL 文档编译为报表定义，并用 page 段中的纸张与边距覆盖 base 配置。
// 没有出现的 meta 项沿用 DefaultDefinition；page 段中的区块列表完全替代默认区块。
func Compile(doc *dsl.Document, base layout.Config) (Definition, layout.Config, error) {
	def := DefaultDefinition()
	cfg := base
	if doc == nil {
		return def, cfg, fmt.Errorf("报表定义为空")
	}
	def.Name = doc.Name

	if meta := doc.Meta(); meta != nil {
		if err := compileMeta(meta.Block, &def); err != nil {
			return def, cfg, err
		}
	}

	for _, res := range doc.Resources() {
		if err := compileResources(res.Block, &def); err != nil {
			return def, cfg, err
		}
	}

	pages := doc.Pages()
	switch len(pages) {
	case 0:
		return def, cfg, nil
	case 1:
	default:
		return def, cfg, fmt.Errorf("%s: 报表定义只支持一个 page 段，实际 %d 个", pages[1].Pos, len(pages))
	}
	page := pages[0]
	var err error
	if cfg, err = compilePageSpec(page.Spec, cfg); err != nil {
		return def, cfg, fmt.Errorf("%s: %w", page.Pos, err)
	}
	def.Cover = false
	def.Blocks = nil
	for _, cmd := range page.Block.Commands() {
		if err := compileBlock(cmd, &def); err != nil {
			return def, cfg, fmt.Errorf("%s: %w", cmd.Pos, err)
		}
	}
	if len(def.Blocks) == 0 && !def.Cover {
		return def, cfg, fmt.Errorf("%s: page 段中没有任何区块", page.Pos)
	}
	return def, cfg, nil
}

func compileMeta(block *dsl.Block, def *Definition) error {
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		val := stmt.Assignment.Value
		switch strings.ToLower(stmt.Assignment.Key) {
		case "title":
			def.Title = valueToString(val)
		case "subtitle":
			def.Subtitle = valueToString(val)
		case "author":
			def.Author = valueToString(val)
		case "subject":
			def.Subject = valueToString(val)
		case "creator":
			def.Creator = valueToString(val)
		case "keywords":
			def.Keywords = valueToStringSlice(val)
		case "name":
			def.Name = valueToString(val)
		default:
			return fmt.Errorf("%s: 未知的 meta 项 %q", stmt.Assignment.Pos, stmt.Assignment.Key)
		}
	}
	return nil
}

func compileResources(block *dsl.Block, def *Definition) error {
	for _, cmd := range block.Commands() {
		switch strings.ToLower(cmd.Name) {
		case "color":
			if len(cmd.Args) < 2 {
				return fmt.Errorf("%s: color 需要名称与颜色值", cmd.Pos)
			}
			c, err := layout.ParseColor(cmd.Args[len(cmd.Args)-1].Value)
			if err != nil {
				return fmt.Errorf("%s: %w", cmd.Pos, err)
			}
			if def.Palette == nil {
				def.Palette = map[string]layout.Color{}
			}
			def.Palette[strings.ToLower(cmd.Args[0].Value)] = c
		default:
			return fmt.Errorf("%s: 未知的资源类型 %q", cmd.Pos, cmd.Name)
		}
	}
	return nil
}

func compilePageSpec(spec dsl.PageSpec, cfg layout.Config) (layout.Config, error) {
	landscape := false
	for i := 0; i < len(spec.Params); i++ {
		switch strings.ToLower(spec.Params[i].Value) {
		case "portrait":
			landscape = false
		case "landscape":
			landscape = true
		case "margin":
			if i+1 >= len(spec.Params) {
				return cfg, fmt.Errorf("margin 缺少长度")
			}
			l, err := layout.ParseLength(spec.Params[i+1].Value)
			if err != nil {
				return cfg, err
			}
			cfg.Margin = l.ToPT()
			i++
		default:
			return cfg, fmt.Errorf("未知的页面参数 %q", spec.Params[i].Value)
		}
	}
	w, h, err := layout.PageSize(spec.Size, landscape)
	if err != nil {
		return cfg, err
	}
	cfg.PageWidth, cfg.PageHeight = w, h
	return cfg, cfg.Validate()
}

func compileBlock(cmd *dsl.Command, def *Definition) error {
	switch strings.ToLower(cmd.Name) {
	case "cover":
		if def.Cover {
			return fmt.Errorf("cover 只能出现一次")
		}
		if len(def.Blocks) > 0 {
			return fmt.Errorf("cover 必须是第一个区块")
		}
		def.Cover = true
		if a := cmd.Block.Assignment("title"); a != nil {
			def.Title = valueToString(a.Value)
		}
		if a := cmd.Block.Assignment("subtitle"); a != nil {
			def.Subtitle = valueToString(a.Value)
		}
		return nil
	case "summary":
		b := Block{Kind: BlockSummary, Title: "Overview", Description: "Headcount by status"}
		applyHeading(cmd.Block, &b)
		def.Blocks = append(def.Blocks, b)
		return nil
	case "chart":
		b, err := compileChart(cmd)
		if err != nil {
			return err
		}
		def.Blocks = append(def.Blocks, b)
		return nil
	case "table":
		b, err := compileTable(cmd)
		if err != nil {
			return err
		}
		def.Blocks = append(def.Blocks, b)
		return nil
	}
	return fmt.Errorf("未知的区块 %q", cmd.Name)
}

// applyHeading 读取区块的 title / description；显式写空字符串可以去掉标题栏。
func applyHeading(block *dsl.Block, b *Block) {
	if a := block.Assignment("title"); a != nil {
		b.Title = valueToString(a.Value)
	}
	if a := block.Assignment("description"); a != nil {
		b.Description = valueToString(a.Value)
	}
}

func compileChart(cmd *dsl.Command) (Block, error) {
	if len(cmd.Args) < 2 {
		return Block{}, fmt.Errorf("chart 需要类型与数据来源，例如 `chart pie status`")
	}
	kind, err := chart.ParseKind(cmd.Args[0].Value)
	if err != nil {
		return Block{}, err
	}
	source, ok := normalizeSource(cmd.Args[1].Value)
	if !ok {
		return Block{}, fmt.Errorf("未知的图表数据来源 %q", cmd.Args[1].Value)
	}
	if (kind == chart.Stacked) != (source == SourceDepartmentStatus) {
		return Block{}, fmt.Errorf("%s 图表不能使用数据来源 %s", kind, source)
	}
	b := Block{
		Kind:  BlockChart,
		Title: chart.DisplayLabel(source) + " " + chart.DisplayLabel(kind.String()) + " Chart",
		Chart: ChartBlock{Kind: kind, Source: source},
	}
	applyHeading(cmd.Block, &b)
	if a := cmd.Block.Assignment("unit"); a != nil {
		b.Chart.Unit = valueToString(a.Value)
	}
	for key, dst := range map[string]*float64{"width": &b.Chart.Width, "height": &b.Chart.Height} {
		a := cmd.Block.Assignment(key)
		if a == nil {
			continue
		}
		l, err := layout.ParseLength(valueToString(a.Value))
		if err != nil {
			return Block{}, fmt.Errorf("chart %s: %w", key, err)
		}
		*dst = l.ToPT()
	}
	return b, nil
}

func compileTable(cmd *dsl.Command) (Block, error) {
	b := Block{
		Kind:        BlockTable,
		Title:       "Employee Directory",
		Description: "",
		Table:       TableBlock{Columns: append([]string(nil), roster.Fields...), Status: "status"},
	}
	applyHeading(cmd.Block, &b)

	if a := cmd.Block.Assignment("columns"); a != nil {
		b.Table.Columns = valueToStringSlice(a.Value)
		if len(b.Table.Columns) == 0 {
			return Block{}, fmt.Errorf("table columns 不能为空")
		}
	}
	for _, col := range b.Table.Columns {
		if _, ok := roster.FieldLabel(col); !ok {
			return Block{}, fmt.Errorf("table 中未知的列 %q", col)
		}
	}

	if a := cmd.Block.Assignment("status"); a != nil {
		b.Table.Status = valueToString(a.Value)
	}
	if b.Table.Status != "" && !containsField(b.Table.Columns, b.Table.Status) {
		// 状态列不在所选列中时不着色
		b.Table.Status = ""
	}

	if a := cmd.Block.Assignment("sort"); a != nil {
		words := valueWords(a.Value)
		if len(words) == 0 || len(words) > 2 {
			return Block{}, fmt.Errorf("table sort 应为 `字段 [asc|desc]`")
		}
		field := words[0]
		if strings.HasPrefix(field, "-") {
			field = strings.TrimPrefix(field, "-")
			b.Table.Desc = true
		}
		if _, ok := roster.FieldLabel(field); !ok {
			return Block{}, fmt.Errorf("table 不能按未知字段 %q 排序", field)
		}
		b.Table.Sort = field
		if len(words) == 2 {
			switch strings.ToLower(words[1]) {
			case "asc":
				b.Table.Desc = false
			case "desc":
				b.Table.Desc = true
			default:
				return Block{}, fmt.Errorf("未知的排序方向 %q", words[1])
			}
		}
	}

	if a := cmd.Block.Assignment("filter"); a != nil {
		if a.Value.Object == nil {
			return Block{}, fmt.Errorf("table filter 应为对象，例如 { department: \"Sales\" }")
		}
		b.Table.Filter = map[string]string{}
		for _, e := range a.Value.Object.Entries {
			if _, ok := roster.FieldLabel(e.Key); !ok {
				return Block{}, fmt.Errorf("table 不能按未知字段 %q 过滤", e.Key)
			}
			b.Table.Filter[e.Key] = valueToString(e.Value)
		}
	}
	return b, nil
}

func containsField(fields []string, name string) bool {
	want, _ := roster.FieldLabel(name)
	for _, f := range fields {
		if l, _ := roster.FieldLabel(f); l == want {
			return true
		}
	}
	return false
}

func valueToString(val *dsl.Value) string {
	s, _ := val.Text()
	return s
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}

// valueWords 把值拆成单词：字符串按空白拆分，表达式按 token 拆分（"-" 与后续标识符合并）。
func valueWords(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Expr == nil {
		return strings.Fields(valueToString(val))
	}
	var out []string
	neg := false
	for _, p := range val.Expr.Parts {
		if p.Value == "-" {
			neg = true
			continue
		}
		w := p.Value
		if neg {
			w = "-" + w
			neg = false
		}
		out = append(out, w)
	}
	return out
}
