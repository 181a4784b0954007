package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/papyrus-report/layout"
	"github.com/ByLCY/papyrus-report/report"
	canvasrenderer "github.com/ByLCY/papyrus-report/renderer/canvas"
	"github.com/ByLCY/papyrus-report/roster"
)

type options struct {
	input      string
	definition string
	config     string
	output     string
	debug      string
	company    string
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "in", "employees.json", "员工记录 JSON 文件路径")
	flag.StringVar(&opts.definition, "def", "", "报表定义 DSL 文件路径（为空时使用默认报表）")
	flag.StringVar(&opts.config, "config", "", "排版配置文件（.toml / .yaml）")
	flag.StringVar(&opts.output, "out", "output", "PDF 输出目录或文件路径（以 .pdf 结尾）")
	flag.StringVar(&opts.debug, "debug", "", "布局调试 JSON 输出路径")
	flag.StringVar(&opts.company, "company", "", "插入到标题中的公司名称（${company}）")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	level := log.InfoLevel
	if *verbose {
		level = log.DebugLevel
	}
	logger := newLogger(os.Stderr, level)

	path, err := run(opts, logger)
	if err != nil {
		logger.Fatal("生成 PDF 失败", "err", err)
	}
	logger.Info("已生成 PDF", "path", path)
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// run 串联读取记录、编译定义、排版与渲染，返回写出的文件路径。
func run(opts options, logger *log.Logger) (string, error) {
	cfg := layout.DefaultConfig()
	if opts.config != "" {
		loaded, err := layout.LoadConfig(opts.config)
		if err != nil {
			return "", err
		}
		cfg = loaded
	}

	def := report.DefaultDefinition()
	if opts.definition != "" {
		var err error
		if def, cfg, err = report.LoadDefinition(opts.definition, cfg); err != nil {
			return "", err
		}
	}

	file, err := os.Open(opts.input)
	if err != nil {
		return "", fmt.Errorf("无法打开记录文件 %s: %w", opts.input, err)
	}
	records, err := roster.Decode(file)
	file.Close()
	if err != nil {
		return "", err
	}
	logger.Debug("读取记录", "path", opts.input, "count", len(records))

	r := canvasrenderer.NewRenderer()
	now := time.Now()
	b := report.NewBuilder(def, cfg,
		report.WithTypesetter(r),
		report.WithLogger(logger),
		report.WithClock(func() time.Time { return now }),
		report.WithData(map[string]any{"company": opts.company}),
	)

	result, err := b.Build(records)
	if err != nil {
		return "", fmt.Errorf("布局计算失败: %w", err)
	}
	if opts.debug != "" {
		if err := writeDebug(result, opts.debug); err != nil {
			return "", err
		}
	}

	pdfBytes, err := r.Render(result)
	if err != nil {
		return "", fmt.Errorf("渲染 PDF 失败: %w", err)
	}

	outputPath := opts.output
	if filepath.Ext(outputPath) != ".pdf" {
		outputPath = filepath.Join(outputPath, report.Filename(def.Name, now, "pdf"))
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return "", fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return outputPath, nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
