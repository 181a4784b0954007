package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config 集中保存分页与绘图所需的全部常量，贯穿整个排版流程。
// 所有长度单位均为 pt。
type Config struct {
	PageWidth  float64 `json:"pageWidth"`
	PageHeight float64 `json:"pageHeight"`
	Margin     float64 `json:"margin"`
	// FooterReserve 是页面底部留给页脚的区域，正文内容永远不会写入。
	FooterReserve float64 `json:"footerReserve"`
	// HeaderHeight 是每页顶部页眉占用的高度，换页后光标从 Margin+HeaderHeight 开始。
	HeaderHeight float64 `json:"headerHeight"`

	SectionHeaderHeight float64 `json:"sectionHeaderHeight"`
	SectionPadding      float64 `json:"sectionPadding"`
	SectionSpacing      float64 `json:"sectionSpacing"`

	BodyFontSize float64 `json:"bodyFontSize"`

	TableRowHeight    float64 `json:"tableRowHeight"`
	TableBaseHeight   float64 `json:"tableBaseHeight"`
	TableMaxEstimate  float64 `json:"tableMaxEstimate"`
	TableFontSize     float64 `json:"tableFontSize"`
	TableCellPadding  float64 `json:"tableCellPadding"`
	StatusColumnWidth float64 `json:"statusColumnWidth"`
	MinColumnWidth    float64 `json:"minColumnWidth"`

	ChartMaxHeight   float64 `json:"chartMaxHeight"`
	ChartInset       float64 `json:"chartInset"`
	BarMinWidth      float64 `json:"barMinWidth"`
	BarGridLines     int     `json:"barGridLines"`
	LineGridLines    int     `json:"lineGridLines"`
	PieArcDensity    float64 `json:"pieArcDensity"`
	PieMinArcPoints  int     `json:"pieMinArcPoints"`
	LegendRowHeight  float64 `json:"legendRowHeight"`
	LegendBaseHeight float64 `json:"legendBaseHeight"`
}

// DefaultConfig 返回 A4 纵向的默认配置。
func DefaultConfig() Config {
	w, h, _ := PageSize("A4", false)
	return Config{
		PageWidth:           w,
		PageHeight:          h,
		Margin:              20,
		FooterReserve:       30,
		HeaderHeight:        30,
		SectionHeaderHeight: 36,
		SectionPadding:      10,
		SectionSpacing:      15,
		BodyFontSize:        9,
		TableRowHeight:      12,
		TableBaseHeight:     50,
		TableMaxEstimate:    400,
		TableFontSize:       7.5,
		TableCellPadding:    2,
		StatusColumnWidth:   60,
		MinColumnWidth:      20,
		ChartMaxHeight:      150,
		ChartInset:          40,
		BarMinWidth:         15,
		BarGridLines:        5,
		LineGridLines:       4,
		PieArcDensity:       10,
		PieMinArcPoints:     5,
		LegendRowHeight:     25,
		LegendBaseHeight:    35,
	}
}

// UsableWidth 是左右边距之间的内容宽度。
func (c Config) UsableWidth() float64 { return c.PageWidth - 2*c.Margin }

// ContentTop 是换页后光标所在的位置（页眉之下）。
func (c Config) ContentTop() float64 { return c.Margin + c.HeaderHeight }

// ContentBottom 是正文可写入的最低位置，其下为页脚保留区。
func (c Config) ContentBottom() float64 { return c.PageHeight - c.FooterReserve }

// UsableHeight 是一整页可供正文使用的高度。
func (c Config) UsableHeight() float64 { return c.ContentBottom() - c.ContentTop() }

// Validate 检查配置是否能构成至少一行可写区域。
func (c Config) Validate() error {
	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		return fmt.Errorf("页面尺寸无效：%gx%g", c.PageWidth, c.PageHeight)
	}
	if c.UsableWidth() <= 0 {
		return fmt.Errorf("边距 %g 超出页面宽度 %g", c.Margin, c.PageWidth)
	}
	if c.UsableHeight() <= 0 {
		return fmt.Errorf("页眉/页脚占满了整页高度 %g", c.PageHeight)
	}
	if c.BarGridLines <= 0 || c.LineGridLines <= 0 {
		return fmt.Errorf("网格线数量必须大于 0")
	}
	if c.PieMinArcPoints < 2 {
		return fmt.Errorf("扇形最少弧点数必须不小于 2")
	}
	return nil
}

// fileConfig 是配置文件（TOML / YAML）的结构，长度字段可以带单位。
type fileConfig struct {
	PageSize            string `toml:"page_size" yaml:"page_size"`
	Orientation         string `toml:"orientation" yaml:"orientation"`
	Margin              string `toml:"margin" yaml:"margin"`
	FooterReserve       string `toml:"footer_reserve" yaml:"footer_reserve"`
	HeaderHeight        string `toml:"header_height" yaml:"header_height"`
	SectionHeaderHeight string `toml:"section_header_height" yaml:"section_header_height"`
	SectionSpacing      string `toml:"section_spacing" yaml:"section_spacing"`
	TableMaxEstimate    string `toml:"table_max_estimate" yaml:"table_max_estimate"`
	ChartMaxHeight      string `toml:"chart_max_height" yaml:"chart_max_height"`
	BarMinWidth         string `toml:"bar_min_width" yaml:"bar_min_width"`
	BarGridLines        int    `toml:"bar_grid_lines" yaml:"bar_grid_lines"`
	LineGridLines       int    `toml:"line_grid_lines" yaml:"line_grid_lines"`
}

// LoadConfig 从 .toml / .yaml / .yml 文件读取配置，未出现的字段沿用 DefaultConfig。
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return Config{}, fmt.Errorf("解析 TOML 配置失败: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("解析 YAML 配置失败: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("不支持的配置文件类型：%s", ext)
	}
	cfg, err := fc.apply(DefaultConfig())
	if err != nil {
		return Config{}, fmt.Errorf("配置文件 %s: %w", path, err)
	}
	return cfg, nil
}

func (fc fileConfig) apply(cfg Config) (Config, error) {
	if fc.PageSize != "" || fc.Orientation != "" {
		size := fc.PageSize
		if size == "" {
			size = "A4"
		}
		w, h, err := PageSize(size, strings.EqualFold(fc.Orientation, "landscape"))
		if err != nil {
			return cfg, err
		}
		cfg.PageWidth, cfg.PageHeight = w, h
	}
	lengths := []struct {
		raw    string
		target *float64
	}{
		{fc.Margin, &cfg.Margin},
		{fc.FooterReserve, &cfg.FooterReserve},
		{fc.HeaderHeight, &cfg.HeaderHeight},
		{fc.SectionHeaderHeight, &cfg.SectionHeaderHeight},
		{fc.SectionSpacing, &cfg.SectionSpacing},
		{fc.TableMaxEstimate, &cfg.TableMaxEstimate},
		{fc.ChartMaxHeight, &cfg.ChartMaxHeight},
		{fc.BarMinWidth, &cfg.BarMinWidth},
	}
	for _, l := range lengths {
		if l.raw == "" {
			continue
		}
		v, err := ParseLength(l.raw)
		if err != nil {
			return cfg, err
		}
		*l.target = v.ToPT()
	}
	if fc.BarGridLines > 0 {
		cfg.BarGridLines = fc.BarGridLines
	}
	if fc.LineGridLines > 0 {
		cfg.LineGridLines = fc.LineGridLines
	}
	return cfg, cfg.Validate()
}
