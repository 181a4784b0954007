// Package binding 把报表数据插入到标题、副标题等文本中。
//
// 占位符写作 ${path}，path 由点号分隔的键与 [n] 下标组成，例如
// ${status.active}、${departments[0].name}。时间值可以在冒号后附带
// Go 的时间格式：${date:January 2, 2006}。
package binding

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var placeholder = regexp.MustCompile(`\$\{([^}]*)\}`)

// Interpolate 替换 text 中的全部占位符。路径无法解析时保留原样，方便在输出中发现拼写错误。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-1])
		path, layout, _ := strings.Cut(expr, ":")
		val, ok := Lookup(data, strings.TrimSpace(path))
		if !ok {
			return match
		}
		if t, isTime := val.(time.Time); isTime && layout != "" {
			return t.Format(strings.TrimSpace(layout))
		}
		return Format(val)
	})
}

// Format 把插值结果转成文本：日期按 2006-01-02，整数值的浮点数不带小数。
func Format(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format("2006-01-02")
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// step 是路径中的一段：键名或数组下标。
type step struct {
	key   string
	index int
}

func (s step) isIndex() bool { return s.key == "" }

// Lookup 沿路径取值。空路径与任何越界、缺失都返回 false。
func Lookup(data any, path string) (any, bool) {
	steps, ok := splitPath(path)
	if !ok {
		return nil, false
	}
	cur := data
	for _, s := range steps {
		if cur, ok = s.descend(cur); !ok {
			return nil, false
		}
	}
	return cur, true
}

func splitPath(path string) ([]step, bool) {
	if path == "" {
		return nil, false
	}
	var steps []step
	for _, seg := range strings.Split(path, ".") {
		key, rest, indexed := strings.Cut(seg, "[")
		if key == "" && !indexed {
			return nil, false
		}
		if key != "" {
			steps = append(steps, step{key: key})
		}
		for indexed {
			num, tail, closed := strings.Cut(rest, "]")
			idx, err := strconv.Atoi(num)
			if !closed || err != nil {
				return nil, false
			}
			steps = append(steps, step{index: idx})
			if tail == "" {
				break
			}
			if tail[0] != '[' {
				return nil, false
			}
			rest = tail[1:]
		}
	}
	return steps, len(steps) > 0
}

func (s step) descend(cur any) (any, bool) {
	if s.isIndex() {
		switch c := cur.(type) {
		case []any:
			if s.index >= 0 && s.index < len(c) {
				return c[s.index], true
			}
		case []string:
			if s.index >= 0 && s.index < len(c) {
				return c[s.index], true
			}
		}
		return nil, false
	}
	switch c := cur.(type) {
	case map[string]any:
		v, ok := c[s.key]
		return v, ok
	case map[string]string:
		v, ok := c[s.key]
		return v, ok
	case map[string]int:
		v, ok := c[s.key]
		return v, ok
	}
	return nil, false
}
