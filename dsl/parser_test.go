package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/papyrus-report/dsl"
)

const sampleDSL = `
report Employees v1 {
  meta {
    title: "Employee Report"
    company: "Acme Corp"
    keywords: [
      "hr"
      "internal"
    ]
  }

  resources {
    color active #28A745
    color accent #0F62FE
  }

  # 第一页是封面
  page A4 portrait margin 20pt {
    cover {
      subtitle: "Prepared for ${company}"
    }
    summary { title: "Overview" }
    chart pie status {
      title: "Employees by Status"
      unit: "employees"
      width: 300pt
    }
    chart stacked-bar department_status
    table {
      columns: ["id", "name", "status"]
      status: "status"
      sort: name desc
      filter: { department: "Sales" }
    }
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Employees" || doc.Version != "v1" {
		t.Fatalf("unexpected header: %s %s", doc.Name, doc.Version)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Kind() != "meta" || doc.Sections[2].Kind() != "page" {
		t.Fatalf("unexpected section order: %s %s", doc.Sections[0].Kind(), doc.Sections[2].Kind())
	}

	meta := doc.Meta()
	if meta == nil {
		t.Fatalf("meta section missing")
	}
	if title, ok := meta.Block.Assignment("TITLE").Value.Text(); !ok || title != "Employee Report" {
		t.Fatalf("expected title, got %q", title)
	}
	keywords := meta.Block.Assignment("keywords")
	if keywords == nil || keywords.Value.Array == nil || len(keywords.Value.Array.Values) != 2 {
		t.Fatalf("expected 2 keywords, got %+v", keywords)
	}

	res := doc.Resources()
	if len(res) != 1 {
		t.Fatalf("expected 1 resources section, got %d", len(res))
	}
	colors := res[0].Block.Commands()
	if len(colors) != 2 || colors[1].Args[1].Value != "#0F62FE" || colors[1].Args[1].Type != "Color" {
		t.Fatalf("unexpected color declarations: %+v", colors)
	}

	pages := doc.Pages()
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	page := pages[0]
	if page.Spec.Size != "A4" || len(page.Spec.Params) != 3 || page.Spec.Params[2].Value != "20pt" {
		t.Fatalf("unexpected page spec: %+v", page.Spec)
	}

	cmds := page.Block.Commands()
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	if got := strings.Join(names, ","); got != "cover,summary,chart,chart,table" {
		t.Fatalf("unexpected blocks: %s", got)
	}

	cover, ok := cmds[0].Block.Assignment("subtitle").Value.Text()
	if !ok || !strings.Contains(cover, "${company}") {
		t.Fatalf("expected interpolation in subtitle, got %q", cover)
	}

	pie := cmds[2]
	if len(pie.Args) != 2 || pie.Args[0].Value != "pie" || pie.Args[1].Value != "status" {
		t.Fatalf("unexpected chart args: %+v", pie.Args)
	}
	if w := pie.Block.Assignment("width"); w == nil || w.Value.Number == nil || *w.Value.Number != "300pt" {
		t.Fatalf("expected width 300pt, got %+v", w)
	}

	stacked := cmds[3]
	if stacked.Block != nil || len(stacked.Args) != 2 || stacked.Args[0].Value != "stacked-bar" {
		t.Fatalf("unexpected stacked chart: %+v", stacked)
	}

	table := cmds[4]
	cols := table.Block.Assignment("columns")
	if cols == nil || cols.Value.Array == nil || len(cols.Value.Array.Values) != 3 {
		t.Fatalf("expected 3 columns, got %+v", cols)
	}
	sort := table.Block.Assignment("sort")
	if sort == nil || sort.Value.Expr == nil || tokensToString(sort.Value.Expr.Parts) != "name desc" {
		t.Fatalf("sort should capture expression, got %+v", sort)
	}
	filter := table.Block.Assignment("filter")
	if filter == nil || filter.Value.Object == nil || len(filter.Value.Object.Entries) != 1 {
		t.Fatalf("expected inline filter object, got %+v", filter)
	}
	if filter.Value.Object.Entries[0].Key != "department" {
		t.Fatalf("unexpected filter key: %s", filter.Value.Object.Entries[0].Key)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		``,
		`doc Papyrus v1 { }`,
		`report Employees v1 { page A4 { cover { title: "x" } }`,
		`report Employees v1 { meta { title: "unterminated } }`,
	}
	for _, src := range cases {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("expected error for %q", src)
		}
	}
}

func TestParseReader(t *testing.T) {
	doc, err := dsl.Parse(strings.NewReader("report Minimal {\n  page Letter landscape { table }\n}\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Version != "" {
		t.Fatalf("version should be optional, got %q", doc.Version)
	}
	page := doc.Pages()[0]
	if page.Spec.Size != "Letter" || page.Spec.Params[0].Value != "landscape" {
		t.Fatalf("unexpected page spec: %+v", page.Spec)
	}
	if cmds := page.Block.Commands(); len(cmds) != 1 || cmds[0].Name != "table" {
		t.Fatalf("unexpected commands: %+v", cmds)
	}
}

func tokensToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
