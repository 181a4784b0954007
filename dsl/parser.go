package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var reportParser = participle.MustBuild[Document](
	participle.Lexer(reportLexer),
	participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
)

// Parse 从 io.Reader 解析报表定义。
func Parse(r io.Reader) (*Document, error) {
	doc, err := reportParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("解析报表定义失败: %w", err)
	}
	return doc, nil
}

// ParseString 解析字符串形式的报表定义。
func ParseString(input string) (*Document, error) {
	doc, err := reportParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("解析报表定义失败: %w", err)
	}
	return doc, nil
}

// Parse 实现 participle.Parseable：连续读取 token，直到遇到行尾、花括号或顶层分隔符。
func (e *Expression) Parse(lex *lexer.PeekingLexer) error {
	var parts []*Lexeme
	parens, brackets := 0, 0
	for {
		tok := lex.Peek()
		if stopExpression(tok, parens, brackets) {
			break
		}
		lexeme, err := consumeLexeme(lex)
		if err != nil {
			return err
		}
		switch lexeme.Raw {
		case "(":
			parens++
		case ")":
			if parens > 0 {
				parens--
			}
		case "[":
			brackets++
		case "]":
			if brackets > 0 {
				brackets--
			}
		}
		parts = append(parts, lexeme)
	}
	if len(parts) == 0 {
		return participle.NextMatch
	}
	e.Parts = parts
	return nil
}

// Parse 实现 participle.Parseable，使 Lexeme 可以作为命令参数。
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	if stopArg(lex.Peek()) {
		return participle.NextMatch
	}
	lexeme, err := consumeLexeme(lex)
	if err != nil {
		return err
	}
	*l = *lexeme
	return nil
}

// Capture 实现 participle.Capture。
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("字符串字面量缺少内容")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

func consumeLexeme(lex *lexer.PeekingLexer) (*Lexeme, error) {
	tok := lex.Next()
	if tok.EOF() {
		return nil, participle.NextMatch
	}
	lexeme, err := newLexeme(*tok)
	if err != nil {
		return nil, err
	}
	return &lexeme, nil
}

func stopArg(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case newlineType, rbraceType, lbraceType:
		return true
	case symbolType:
		return tok.Value == ";"
	}
	return false
}

func stopExpression(tok *lexer.Token, parens, brackets int) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	top := parens == 0 && brackets == 0
	switch tok.Type {
	case newlineType, rbraceType, lbraceType:
		return top
	case symbolType:
		switch tok.Value {
		case ";", ",":
			return top
		case "]":
			return brackets == 0
		}
	}
	return false
}
