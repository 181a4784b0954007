// Package dsl 解析报表定义语言：
//
//	report Employees v1 {
//	  meta { title: "Employee Report" }
//	  resources { color active #28A745 }
//	  page A4 portrait margin 20pt {
//	    cover { subtitle: "${company}" }
//	    chart pie status { title: "Status" unit: "employees" }
//	    table { columns: ["id", "name", "status"] status: "status" }
//	  }
//	}
package dsl

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Document 是报表定义的根节点。
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'report' @Ident"`
	Version  string         `parser:"@Ident?"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Meta 返回第一个 meta 段，没有时返回 nil。
func (d *Document) Meta() *MetaSection {
	for _, s := range d.Sections {
		if s.Meta != nil {
			return s.Meta
		}
	}
	return nil
}

// Resources 返回所有 resources 段，按出现顺序。
func (d *Document) Resources() []*ResourcesSection {
	var out []*ResourcesSection
	for _, s := range d.Sections {
		if s.Resources != nil {
			out = append(out, s.Resources)
		}
	}
	return out
}

// Pages 返回所有 page 段，按出现顺序。
func (d *Document) Pages() []*PageSection {
	var out []*PageSection
	for _, s := range d.Sections {
		if s.Page != nil {
			out = append(out, s.Page)
		}
	}
	return out
}

// Section 是顶层段落（meta / resources / page）。
type Section struct {
	Meta      *MetaSection      `parser:"  @@"`
	Resources *ResourcesSection `parser:"| @@"`
	Page      *PageSection      `parser:"| @@"`
}

// Kind 返回段落类型名称。
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Resources != nil:
		return "resources"
	case s.Page != nil:
		return "page"
	default:
		return "unknown"
	}
}

// MetaSection 保存文档元信息赋值。
type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// ResourcesSection 声明颜色等资源。
type ResourcesSection struct {
	Block *Block `parser:"'resources' @@"`
}

// PageSection 描述纸张与页面上依次排布的区块。
type PageSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Spec  PageSpec       `parser:"'page' @@"`
	Block *Block         `parser:"@@"`
}

// PageSpec 保存纸张名与后续参数（方向、margin 等）。
type PageSpec struct {
	Size   string    `parser:"@Ident"`
	Params []*Lexeme `parser:"@@*"`
}

// Block 是花括号包围的语句列表。
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment 返回块内第一个键为 key 的赋值（不区分大小写）。
func (b *Block) Assignment(key string) *Assignment {
	if b == nil {
		return nil
	}
	for _, st := range b.Statements {
		if st.Assignment != nil && strings.EqualFold(st.Assignment.Key, key) {
			return st.Assignment
		}
	}
	return nil
}

// Commands 返回块内所有命令，按出现顺序。
func (b *Block) Commands() []*Command {
	if b == nil {
		return nil
	}
	var out []*Command
	for _, st := range b.Statements {
		if st.Command != nil {
			out = append(out, st.Command)
		}
	}
	return out
}

// Statement 是块内的一条语句（赋值 / 命令 / 文本字面量）。
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment 使用冒号语法（key: value）。
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Command 是区块或资源声明，例如 `chart pie status { ... }`。
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// TextLiteral 是块内的裸字符串语句。
type TextLiteral struct {
	Value StringLiteral `parser:"@String"`
}

// Value 是赋值右侧的值。
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Array  *ArrayValue    `parser:"| @@"`
	Object *InlineObject  `parser:"| @@"`
	Expr   *Expression    `parser:"| @@"`
}

// Text 把标量值转换为字符串；表达式按原始 token 拼接（不含空白）。数组与对象返回 false。
func (v *Value) Text() (string, bool) {
	switch {
	case v == nil:
		return "", false
	case v.String != nil:
		return string(*v.String), true
	case v.Number != nil:
		return *v.Number, true
	case v.Color != nil:
		return *v.Color, true
	case v.Expr != nil:
		var sb strings.Builder
		for _, p := range v.Expr.Parts {
			sb.WriteString(p.Value)
		}
		return sb.String(), true
	}
	return "", false
}

// ArrayValue 对应 `[ ... ]`。
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// InlineObject 对应 `{ key: value }`。
type InlineObject struct {
	Entries []*Assignment `parser:"'{' Newline* ( @@ Newline* ( (';' | Newline+) Newline* @@ Newline* )* )? Newline* '}'"`
}

// Expression 记录原始 token，留待编译阶段解释。
type Expression struct {
	Parts []*Lexeme
}

// Lexeme 是单个词法单元（命令参数 / 表达式片段）。
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// StringLiteral 在捕获时按 Go 语法反转义。
type StringLiteral string
