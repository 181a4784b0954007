package layout

import "github.com/charmbracelet/log"

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// width/fontSize/lineHeight 均为 pt；width <= 0 表示不折行。
type Typesetter interface {
	LayoutLines(content string, width float64, font string, fontSize, lineHeight float64) ([]TextLine, error)
}

// Option 配置 Document 的可选依赖。
type Option func(*Document)

// WithTypesetter 指定排版后端，未指定时按换行符拆分并粗略估算宽度。
func WithTypesetter(ts Typesetter) Option {
	return func(d *Document) { d.ts = ts }
}

// WithLogger 指定日志输出，未指定时丢弃所有日志。
func WithLogger(l *log.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithPageHeader 指定每次换页后立即重绘的页眉。
func WithPageHeader(fn PageFunc) Option {
	return func(d *Document) { d.header = fn }
}
