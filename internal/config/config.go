// Package config 读写项目配置文件 jpy.toml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"

	"github.com/tangzhangming/jpy/internal/emitter"
)

// 常量定义
const (
	FileName = "jpy.toml" // 配置文件名
)

// Config 项目配置
type Config struct {
	Project     Project     `toml:"project"`
	Translate   Translate   `toml:"translate"`
	Diagnostics Diagnostics `toml:"diagnostics"`
}

// Project 项目信息
type Project struct {
	Name      string `toml:"name"`
	Version   string `toml:"version"`
	SourceDir string `toml:"source_dir"` // Java 源文件目录
	OutDir    string `toml:"out_dir"`    // Python 输出目录
}

// Translate 翻译设置
type Translate struct {
	Indent     string `toml:"indent"`      // "spaces" 或 "tabs"
	IndentSize int    `toml:"indent_size"` // 2 或 4
	Optimize   bool   `toml:"optimize"`
	MainGuard  bool   `toml:"main_guard"`
}

// Diagnostics 诊断输出设置
type Diagnostics struct {
	Lang     string `toml:"lang"`  // "en" 或 "zh"
	Color    string `toml:"color"` // "auto"、"always" 或 "never"
	Warnings bool   `toml:"warnings"`
}

// Default 生成默认配置，dir 是项目目录，用于生成默认的项目名
func Default(dir string) *Config {
	baseName := filepath.Base(dir)
	if baseName == "" || baseName == "." || baseName == string(filepath.Separator) {
		baseName = "my-app"
	}

	return &Config{
		Project: Project{
			Name:      sanitizeName(baseName),
			Version:   "0.1.0",
			SourceDir: "src",
			OutDir:    "out",
		},
		Translate: Translate{
			Indent:     "spaces",
			IndentSize: 4,
			Optimize:   true,
			MainGuard:  true,
		},
		Diagnostics: Diagnostics{
			Lang:     "en",
			Color:    "auto",
			Warnings: true,
		},
	}
}

// Load 从文件加载配置
//
// 文件中缺少的项取默认值。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default(filepath.Dir(path))
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Find 从指定路径向上查找配置文件
// 返回配置文件的完整路径，如果找不到则返回空字符串
func Find(startPath string) string {
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}

	dir := startPath
	if !info.IsDir() {
		dir = filepath.Dir(startPath)
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Root 获取项目根目录（配置文件所在目录）
func Root(startPath string) string {
	path := Find(startPath)
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	if err := os.WriteFile(path, []byte(c.commented()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// commented 生成带注释的配置文件内容
func (c *Config) commented() string {
	var sb strings.Builder

	sb.WriteString("[project]\n")
	sb.WriteString(fmt.Sprintf("name = %q\n", c.Project.Name))
	sb.WriteString(fmt.Sprintf("version = %q\n", c.Project.Version))
	sb.WriteString("# Java 源文件目录与 Python 输出目录（相对于本文件）\n")
	sb.WriteString(fmt.Sprintf("source_dir = %q\n", c.Project.SourceDir))
	sb.WriteString(fmt.Sprintf("out_dir = %q\n\n", c.Project.OutDir))

	sb.WriteString("[translate]\n")
	sb.WriteString("# \"spaces\" 或 \"tabs\"\n")
	sb.WriteString(fmt.Sprintf("indent = %q\n", c.Translate.Indent))
	sb.WriteString("# 2 或 4\n")
	sb.WriteString(fmt.Sprintf("indent_size = %d\n", c.Translate.IndentSize))
	sb.WriteString("# 常量折叠与代数化简\n")
	sb.WriteString(fmt.Sprintf("optimize = %t\n", c.Translate.Optimize))
	sb.WriteString("# 为 static void main(String[]) 生成 if __name__ == \"__main__\": 入口\n")
	sb.WriteString(fmt.Sprintf("main_guard = %t\n\n", c.Translate.MainGuard))

	sb.WriteString("[diagnostics]\n")
	sb.WriteString("# \"en\" 或 \"zh\"\n")
	sb.WriteString(fmt.Sprintf("lang = %q\n", c.Diagnostics.Lang))
	sb.WriteString("# \"auto\"、\"always\" 或 \"never\"\n")
	sb.WriteString(fmt.Sprintf("color = %q\n", c.Diagnostics.Color))
	sb.WriteString(fmt.Sprintf("warnings = %t\n", c.Diagnostics.Warnings))

	return sb.String()
}

// ============================================================================
// 校验
// ============================================================================

// 语义化版本 MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]
var versionRegex = regexp.MustCompile(
	`^v?(\d+)\.(\d+)\.(\d+)(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`)

// IsValidVersion 检查是否是有效的版本字符串
func IsValidVersion(s string) bool {
	return versionRegex.MatchString(s)
}

// Validate 检查所有配置项，返回全部问题的组合错误
func (c *Config) Validate() error {
	var err error

	if c.Project.Name == "" {
		err = multierr.Append(err, fmt.Errorf("project.name must not be empty"))
	}
	if c.Project.Version != "" && !IsValidVersion(c.Project.Version) {
		err = multierr.Append(err, fmt.Errorf("project.version %q is not a semantic version", c.Project.Version))
	}
	if c.Project.SourceDir == "" {
		err = multierr.Append(err, fmt.Errorf("project.source_dir must not be empty"))
	}
	if c.Project.OutDir == "" {
		err = multierr.Append(err, fmt.Errorf("project.out_dir must not be empty"))
	}
	if c.Project.SourceDir != "" && filepath.Clean(c.Project.SourceDir) == filepath.Clean(c.Project.OutDir) {
		err = multierr.Append(err, fmt.Errorf("project.out_dir must differ from project.source_dir"))
	}

	if e := c.EmitOptions().Validate(); e != nil {
		err = multierr.Append(err, fmt.Errorf("translate: %w", e))
	}

	switch c.Diagnostics.Lang {
	case "en", "zh":
	default:
		err = multierr.Append(err, fmt.Errorf("diagnostics.lang must be \"en\" or \"zh\", got %q", c.Diagnostics.Lang))
	}
	switch c.Diagnostics.Color {
	case "auto", "always", "never":
	default:
		err = multierr.Append(err, fmt.Errorf("diagnostics.color must be \"auto\", \"always\" or \"never\", got %q", c.Diagnostics.Color))
	}

	return err
}

// EmitOptions 转换为生成器选项
func (c *Config) EmitOptions() *emitter.Options {
	return &emitter.Options{
		IndentStyle: c.Translate.Indent,
		IndentSize:  c.Translate.IndentSize,
		MainGuard:   c.Translate.MainGuard,
	}
}

// SourcePath 返回源文件目录的绝对路径，root 是配置文件所在目录
func (c *Config) SourcePath(root string) string {
	return resolve(root, c.Project.SourceDir)
}

// OutPath 返回输出目录的绝对路径
func (c *Config) OutPath(root string) string {
	return resolve(root, c.Project.OutDir)
}

func resolve(root, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// sanitizeName 清理项目名
func sanitizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "_", "-")

	var result strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '.' {
			result.WriteRune(r)
		}
	}

	s := result.String()
	if s == "" {
		return "my-app"
	}
	return s
}
