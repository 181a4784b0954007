// Package roster 定义人员记录、状态词汇，以及供图表使用的汇总统计。
package roster

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// 固定的三种状态。
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// Statuses 按展示顺序列出已知状态。
var Statuses = []string{StatusActive, StatusInactive, StatusSuspended}

// StackOrder 是堆叠柱自底向上的分段顺序。
var StackOrder = []string{StatusSuspended, StatusInactive, StatusActive}

// Record 是一条人员记录。
type Record struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	JoinDate   time.Time `json:"joinDate"`
}

// NormalizeStatus 把状态值规整为小写并去掉首尾空白。
func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// KnownStatus 判断状态是否属于固定词汇。
func KnownStatus(s string) bool {
	switch NormalizeStatus(s) {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

// Label 返回用于展示的标题形式，例如 "on_leave" -> "On Leave"。
func Label(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(strings.TrimSpace(s), "_", " "))
}

// Decode 从 JSON 数组读取记录。joinDate 支持 RFC 3339 与 2006-01-02 两种格式。
func Decode(r io.Reader) ([]Record, error) {
	var raw []struct {
		Record
		JoinDate string `json:"joinDate"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("解析记录失败: %w", err)
	}
	out := make([]Record, len(raw))
	for i, item := range raw {
		rec := item.Record
		if item.JoinDate != "" {
			t, err := parseDate(item.JoinDate)
			if err != nil {
				return nil, fmt.Errorf("第 %d 条记录（%s）的 joinDate 无效: %w", i+1, rec.ID, err)
			}
			rec.JoinDate = t
		}
		out[i] = rec
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// Field 返回记录中指定字段的字符串形式。name 不区分大小写，支持 join_date / joinDate。
func (r Record) Field(name string) (string, bool) {
	switch normalizeField(name) {
	case "id":
		return r.ID, true
	case "name":
		return r.Name, true
	case "department":
		return r.Department, true
	case "role":
		return r.Role, true
	case "status":
		return r.Status, true
	case "joindate":
		if r.JoinDate.IsZero() {
			return "", true
		}
		return r.JoinDate.Format("2006-01-02"), true
	}
	return "", false
}

// Fields 列出可用的字段名（默认表格列顺序）。
var Fields = []string{"id", "name", "department", "role", "status", "joinDate"}

var fieldLabels = map[string]string{
	"id":         "ID",
	"name":       "Name",
	"department": "Department",
	"role":       "Role",
	"status":     "Status",
	"joindate":   "Join Date",
}

// FieldLabel 返回字段的表头名称，未知字段返回 false。
func FieldLabel(name string) (string, bool) {
	l, ok := fieldLabels[normalizeField(name)]
	return l, ok
}

func normalizeField(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", ""))
}

// Filter 返回满足 keep 的记录，顺序不变。
func Filter(records []Record, keep func(Record) bool) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// FieldEquals 返回按字段值（不区分大小写）过滤的谓词。
func FieldEquals(field, value string) func(Record) bool {
	return func(r Record) bool {
		v, _ := r.Field(field)
		return strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(value))
	}
}

// SortBy 按字段稳定排序，返回新的切片；desc 为 true 时倒序。未知字段返回错误。
func SortBy(records []Record, field string, desc bool) ([]Record, error) {
	if _, ok := FieldLabel(field); !ok {
		return nil, fmt.Errorf("未知的排序字段：%s", field)
	}
	out := make([]Record, len(records))
	copy(out, records)
	joinDate := normalizeField(field) == "joindate"
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if desc {
			a, b = b, a
		}
		if joinDate {
			return a.JoinDate.Before(b.JoinDate)
		}
		av, _ := a.Field(field)
		bv, _ := b.Field(field)
		return strings.ToLower(av) < strings.ToLower(bv)
	})
	return out, nil
}
