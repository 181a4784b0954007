// Package fonts 提供渲染器内置的字体数据。
package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

var builtin = map[string][]byte{
	"regular": goregular.TTF,
	"bold":    gobold.TTF,
	"italic":  goitalic.TTF,
}

// Names 返回所有内置字体名称。
func Names() []string {
	return []string{"regular", "bold", "italic"}
}

// Load 返回内置字体的 TTF 数据，name 可写为 "embed:bold" 或直接 "bold"，不区分大小写。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "embed:")))
	if key == "" {
		key = "regular"
	}
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
	}
	return data, nil
}
