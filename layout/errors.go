package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrLayoutOverflow 表示某个区块声明的高度超过整页可用高度。
	// 它只会被记录，不会中断排版。
	ErrLayoutOverflow = errors.New("layout: 区块高度超过整页可用高度")
	// ErrStaleCursor 表示调用方持有的游标落后于文档当前页。
	ErrStaleCursor = errors.New("layout: 游标已过期")
)

// RenderError 表示某个区块内容绘制失败，整份文档随之作废。
type RenderError struct {
	Section string
	Err     error
}

func (e *RenderError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("layout: 绘制区块失败: %v", e.Err)
	}
	return fmt.Sprintf("layout: 绘制区块 %q 失败: %v", e.Section, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
