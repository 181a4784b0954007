package fonts

import "testing"

func TestLoad(t *testing.T) {
	for _, name := range []string{"regular", "embed:bold", " Italic ", ""} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("加载 %q 失败: %v", name, err)
		}
		if len(data) < 4 {
			t.Fatalf("%q 字体数据为空", name)
		}
	}
	if _, err := Load("Inter-Regular"); err == nil {
		t.Fatalf("未知字体应报错")
	}
}
