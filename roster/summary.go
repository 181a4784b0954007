package roster

import (
	"sort"
	"strings"
)

// Count 是一个键及其计数。
type Count struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// DepartmentStatus 是一个部门按状态拆分的计数，Counts 与 Statuses 的顺序一致。
type DepartmentStatus struct {
	Department string `json:"department"`
	Counts     []int  `json:"counts"`
}

// Count 返回指定状态的计数。
func (d DepartmentStatus) Count(status string) int {
	for i, s := range Statuses {
		if s == NormalizeStatus(status) {
			return d.Counts[i]
		}
	}
	return 0
}

// Summary 是汇总统计，所有序列的顺序都是确定的：
// 状态按固定词汇顺序（未知状态按名称排在之后），部门按名称，入职月份按时间。
type Summary struct {
	Total              int                `json:"total"`
	ByStatus           []Count            `json:"byStatus"`
	ByDepartment       []Count            `json:"byDepartment"`
	ByDepartmentStatus []DepartmentStatus `json:"byDepartmentStatus"`
	JoinsByMonth       []Count            `json:"joinsByMonth"`
}

// StatusCount 返回某个状态的计数。
func (s Summary) StatusCount(status string) int {
	status = NormalizeStatus(status)
	for _, c := range s.ByStatus {
		if c.Key == status {
			return c.Value
		}
	}
	return 0
}

// Summarize 一次性计算图表所需的全部统计。空部门记为 "Unassigned"，空状态记为 "unknown"，没有入职日期的记录不计入月份统计。
func Summarize(records []Record) Summary {
	status := map[string]int{}
	dept := map[string]int{}
	deptStatus := map[string][]int{}
	months := map[string]int{}
	for _, r := range records {
		st := NormalizeStatus(r.Status)
		if st == "" {
			st = "unknown"
		}
		status[st]++

		d := strings.TrimSpace(r.Department)
		if d == "" {
			d = "Unassigned"
		}
		dept[d]++
		if deptStatus[d] == nil {
			deptStatus[d] = make([]int, len(Statuses))
		}
		for i, s := range Statuses {
			if s == st {
				deptStatus[d][i]++
			}
		}

		if !r.JoinDate.IsZero() {
			months[r.JoinDate.Format("2006-01")]++
		}
	}

	sum := Summary{Total: len(records)}
	for _, s := range Statuses {
		sum.ByStatus = append(sum.ByStatus, Count{Key: s, Value: status[s]})
	}
	var unknown []string
	for s := range status {
		if !KnownStatus(s) {
			unknown = append(unknown, s)
		}
	}
	sort.Strings(unknown)
	for _, s := range unknown {
		sum.ByStatus = append(sum.ByStatus, Count{Key: s, Value: status[s]})
	}

	sum.ByDepartment = sortedCounts(dept)
	for _, c := range sum.ByDepartment {
		sum.ByDepartmentStatus = append(sum.ByDepartmentStatus, DepartmentStatus{Department: c.Key, Counts: deptStatus[c.Key]})
	}
	// "2006-01" 的字典序即时间顺序
	sum.JoinsByMonth = sortedCounts(months)
	return sum
}

func sortedCounts(m map[string]int) []Count {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Count, len(keys))
	for i, k := range keys {
		out[i] = Count{Key: k, Value: m[k]}
	}
	return out
}
