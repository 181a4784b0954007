package report

import (
	"strings"

	"github.com/ByLCY/papyrus-report/chart"
	"github.com/ByLCY/papyrus-report/layout"
	"github.com/ByLCY/papyrus-report/roster"
)

// BlockKind 是报表中依次排布的区块类型。
type BlockKind int

const (
	BlockSummary BlockKind = iota
	BlockChart
	BlockTable
)

func (k BlockKind) String() string {
	switch k {
	case BlockSummary:
		return "summary"
	case BlockChart:
		return "chart"
	case BlockTable:
		return "table"
	default:
		return "unknown"
	}
}

// 图表数据来源，对应 roster.Summary 中的各项统计。
const (
	SourceStatus           = "status"
	SourceDepartment       = "department"
	SourceDepartmentStatus = "department_status"
	SourceJoins            = "joins"
)

var sourceAliases = map[string]string{
	"status":            SourceStatus,
	"department":        SourceDepartment,
	"departments":       SourceDepartment,
	"department_status": SourceDepartmentStatus,
	"department-status": SourceDepartmentStatus,
	"joins":             SourceJoins,
	"join_month":        SourceJoins,
	"joins_by_month":    SourceJoins,
}

func normalizeSource(s string) (string, bool) {
	v, ok := sourceAliases[strings.ToLower(strings.TrimSpace(s))]
	return v, ok
}

// Block 描述一个区块；Chart 与 Table 只在对应类型下有效。
type Block struct {
	Kind        BlockKind
	Title       string
	Description string
	Chart       ChartBlock
	Table       TableBlock
}

// ChartBlock 指定图表类型、数据来源与期望尺寸（pt，0 表示使用默认值）。
type ChartBlock struct {
	Kind   chart.Kind
	Source string
	Unit   string
	Width  float64
	Height float64
}

// TableBlock 指定表格的列、状态列、排序与过滤条件。
type TableBlock struct {
	Columns []string
	Status  string // 状态列字段名，为空表示不着色
	Sort    string
	Desc    bool
	Filter  map[string]string
}

// Definition 是编译后的报表定义。
type Definition struct {
	Name     string
	Title    string
	Subtitle string
	Author   string
	Subject  string
	Creator  string
	Keywords []string
	// Cover 为 true 时第一页是封面，封面不参与页码。
	Cover   bool
	Palette map[string]layout.Color
	Blocks  []Block
}

// DefaultDefinition 返回标准员工报表：封面、概览、四种图表与完整名册。
func DefaultDefinition() Definition {
	return Definition{
		Name:     "employee-report",
		Title:    "Employee Report",
		Subtitle: "Workforce overview for ${company}",
		Creator:  "papyrus-report",
		Keywords: []string{"employees", "report"},
		Cover:    true,
		Blocks: []Block{
			{Kind: BlockSummary, Title: "Overview", Description: "Headcount by status"},
			{
				Kind:        BlockChart,
				Title:       "Employees by Status",
				Description: "Share of each employment status",
				Chart:       ChartBlock{Kind: chart.Pie, Source: SourceStatus, Unit: "employees"},
			},
			{
				Kind:        BlockChart,
				Title:       "Employees by Department",
				Description: "Headcount per department",
				Chart:       ChartBlock{Kind: chart.Bar, Source: SourceDepartment},
			},
			{
				Kind:        BlockChart,
				Title:       "Department Status Breakdown",
				Description: "Status mix within each department",
				Chart:       ChartBlock{Kind: chart.Stacked, Source: SourceDepartmentStatus},
			},
			{
				Kind:        BlockChart,
				Title:       "Joins per Month",
				Description: "New employees by join month",
				Chart:       ChartBlock{Kind: chart.Line, Source: SourceJoins},
			},
			{
				Kind:        BlockTable,
				Title:       "Employee Directory",
				Description: "All employees sorted by name",
				Table: TableBlock{
					Columns: append([]string(nil), roster.Fields...),
					Status:  "status",
					Sort:    "name",
				},
			},
		},
	}
}
