package binding

import (
	"testing"
	"time"
)

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"company": "Acme",
		"total":   float64(40),
		"share":   85.5,
		"date":    time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		"meta":    map[string]string{"author": "HR"},
		"status":  map[string]int{"active": 34},
		"depts":   []any{"Sales", map[string]any{"name": "Ops"}},
		"tags":    []string{"hr", "internal"},
		"matrix":  []any{[]any{"a", "b"}},
	}
	cases := []struct {
		in, want string
	}{
		{"Prepared for ${company}", "Prepared for Acme"},
		{"${total} employees", "40 employees"},
		{"${share}%", "85.5%"},
		{"Generated ${ date }", "Generated 2024-03-05"},
		{"Generated ${date:January 2, 2006}", "Generated March 5, 2024"},
		{"by ${meta.author}", "by HR"},
		{"${status.active} active", "34 active"},
		{"${depts[0]} / ${depts[1].name}", "Sales / Ops"},
		{"${tags[1]}", "internal"},
		{"${matrix[0][1]}", "b"},
		{"${company:2006}", "Acme"},
		{"${missing} ${depts[5]} ${} ${depts[x]}", "${missing} ${depts[5]} ${} ${depts[x]}"},
		{"no placeholders", "no placeholders"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := Interpolate("${company}", nil); got != "${company}" {
		t.Fatalf("nil data should keep placeholder, got %q", got)
	}
}

func TestLookup(t *testing.T) {
	data := map[string]any{"a": map[string]any{"b": []any{1, 2}}}
	if v, ok := Lookup(data, "a.b[1]"); !ok || v != 2 {
		t.Fatalf("Lookup a.b[1] = %v %v", v, ok)
	}
	for _, p := range []string{"", "a..b", "a.b[", "a.c", "a.b[2]"} {
		if _, ok := Lookup(data, p); ok {
			t.Fatalf("Lookup(%q) should fail", p)
		}
	}
}
