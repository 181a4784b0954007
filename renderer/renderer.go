package renderer

import "github.com/ByLCY/papyrus-report/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误；出错时不返回任何部分结果。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
