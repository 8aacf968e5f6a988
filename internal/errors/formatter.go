package errors

import (
	"fmt"
	"strings"

	"github.com/tangzhangming/jpy/internal/i18n"
)

// ============================================================================
// 错误标签
// ============================================================================

// Label 代码标签（用于标注错误位置）
type Label struct {
	Line    int    // 行号（1-based）
	Column  int    // 列号（1-based）
	Length  int    // 标注长度
	Message string // 标签消息
	Primary bool   // 是否为主要标签
}

// ============================================================================
// 编译错误
// ============================================================================

// CompileError 面向用户渲染的诊断
//
// 词法错误、语法错误、检查器诊断与不支持的结构都转换为 CompileError 后输出。
type CompileError struct {
	Code      string   // 错误码 (E0200)
	Level     Level    // 错误级别
	Message   string   // 主消息
	File      string   // 文件路径
	Line      int      // 行号
	Column    int      // 列号
	EndColumn int      // 结束列
	Labels    []Label  // 代码标签
	Hints     []string // 修复建议
	Notes     []string // 附加说明
}

// Error 实现 error 接口
func (e *CompileError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// ============================================================================
// 格式化器
// ============================================================================

// Formatter 错误格式化器
type Formatter struct {
	Colors     bool // 是否使用颜色
	ShowSource bool // 是否显示源代码
	ShowHints  bool // 是否显示修复建议
	Highlight  bool // 是否高亮源代码行
	TabWidth   int  // Tab 宽度
}

// NewFormatter 创建默认格式化器
func NewFormatter() *Formatter {
	return &Formatter{
		Colors:     ColorsEnabled(),
		ShowSource: true,
		ShowHints:  true,
		TabWidth:   4,
	}
}

// FormatCompileError 格式化一条诊断
//
//	error[E0200]: cannot assign String to int
//	 --> Main.java:5:12
//	  |
//	5 |         int x = "a";
//	  |                 ^^^
//	 = help: ...
func (f *Formatter) FormatCompileError(err *CompileError, sourceLines []string) string {
	var sb strings.Builder

	color := f.levelColor(err.Level)
	header := err.Level.String()
	if err.Code != "" {
		header += "[" + err.Code + "]"
	}
	sb.WriteString(f.colorize(header, color) + f.colorize(": "+err.Message, ColorBoldWhite) + "\n")

	if err.File != "" {
		location := err.File
		if err.Line > 0 {
			location = fmt.Sprintf("%s:%d:%d", err.File, err.Line, err.Column)
		}
		sb.WriteString(fmt.Sprintf(" %s %s\n", f.colorize("-->", ColorBlue), location))
	}

	if f.ShowSource && err.Line > 0 && err.Line <= len(sourceLines) {
		sb.WriteString(f.formatSourceContext(sourceLines, err))
	}

	if f.ShowHints {
		for _, hint := range err.Hints {
			sb.WriteString(fmt.Sprintf(" %s %s\n", f.colorize("= help:", ColorCyan), hint))
		}
	}
	for _, note := range err.Notes {
		sb.WriteString(fmt.Sprintf(" %s %s\n", f.colorize("= note:", ColorCyan), note))
	}

	return sb.String()
}

// formatSourceContext 输出出错行、插入符，以及其他行上的附加标签
func (f *Formatter) formatSourceContext(lines []string, err *CompileError) string {
	var sb strings.Builder

	maxLine := err.Line
	for _, label := range err.Labels {
		if label.Line > maxLine && label.Line <= len(lines) {
			maxLine = label.Line
		}
	}
	width := len(fmt.Sprintf("%d", maxLine))
	gutter := f.colorize(strings.Repeat(" ", width)+" |", ColorBlue)

	sb.WriteString(gutter + "\n")
	line := lines[err.Line-1]
	sb.WriteString(f.sourceLine(line, err.Line, width))

	length := 1
	if err.EndColumn > err.Column {
		length = err.EndColumn - err.Column
	}
	caret := strings.Repeat(" ", f.actualColumn(line, err.Column)) +
		f.colorize(strings.Repeat("^", length), f.levelColor(err.Level))
	sb.WriteString(gutter + " " + caret + "\n")

	for _, label := range err.Labels {
		if label.Line == err.Line || label.Line <= 0 || label.Line > len(lines) {
			continue
		}
		text := lines[label.Line-1]
		sb.WriteString(f.sourceLine(text, label.Line, width))
		if label.Message != "" {
			n := label.Length
			if n < 1 {
				n = 1
			}
			mark := strings.Repeat(" ", f.actualColumn(text, label.Column)) +
				f.colorize(strings.Repeat("-", n)+" "+label.Message, f.labelColor(label.Primary))
			sb.WriteString(gutter + " " + mark + "\n")
		}
	}

	return sb.String()
}

func (f *Formatter) sourceLine(line string, num, width int) string {
	text := f.expandTabs(line)
	if f.Highlight && f.Colors {
		text = (&SyntaxHighlighter{enabled: true}).HighlightLine(text)
	}
	return f.colorize(fmt.Sprintf("%*d |", width, num), ColorBlue) + " " + text + "\n"
}

// expandTabs 展开 Tab 为空格
func (f *Formatter) expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", f.TabWidth))
}

// actualColumn 返回列号前的显示宽度（Tab 按 TabWidth 计）
func (f *Formatter) actualColumn(line string, col int) int {
	if col <= 0 {
		return 0
	}
	actual := 0
	for i, r := range []rune(line) {
		if i >= col-1 {
			break
		}
		if r == '\t' {
			actual += f.TabWidth
		} else {
			actual++
		}
	}
	return actual
}

// levelColor 获取错误级别对应的颜色
func (f *Formatter) levelColor(level Level) Color {
	switch level {
	case LevelError:
		return ColorBoldRed
	case LevelWarning:
		return ColorBoldYellow
	case LevelNote:
		return ColorCyan
	case LevelHelp:
		return ColorGreen
	default:
		return ColorWhite
	}
}

func (f *Formatter) labelColor(primary bool) Color {
	if primary {
		return ColorRed
	}
	return ColorBlue
}

func (f *Formatter) colorize(s string, color Color) string {
	if !f.Colors {
		return s
	}
	code, ok := ansiCodes[color]
	if !ok {
		return s
	}
	return code + s + ansiCodes[ColorReset]
}

// ============================================================================
// 简便方法
// ============================================================================

// FormatCompileErrors 格式化多条诊断并在末尾附上统计
func (f *Formatter) FormatCompileErrors(errs []*CompileError, sourceCache map[string][]string) string {
	var sb strings.Builder
	errorCount, warningCount := 0, 0

	for i, err := range errs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(f.FormatCompileError(err, sourceCache[err.File]))
		switch err.Level {
		case LevelError:
			errorCount++
		case LevelWarning:
			warningCount++
		}
	}

	if summary := f.Summary(errorCount, warningCount); summary != "" {
		sb.WriteString("\n" + summary)
	}
	return sb.String()
}

// Summary 返回错误与警告数量的统计行，都为零时为空
func (f *Formatter) Summary(errorCount, warningCount int) string {
	var sb strings.Builder
	if warningCount > 0 {
		sb.WriteString(f.colorize(i18n.T(i18n.SummaryWarnings, warningCount), ColorBoldYellow) + "\n")
	}
	if errorCount > 0 {
		sb.WriteString(f.colorize(i18n.T(i18n.SummaryErrors, errorCount), ColorBoldRed) + "\n")
	}
	return sb.String()
}

// ============================================================================
// 全局格式化器
// ============================================================================

var defaultFormatter = NewFormatter()

// SetDefaultFormatter 设置默认格式化器
func SetDefaultFormatter(f *Formatter) {
	defaultFormatter = f
}

// Format 使用默认格式化器格式化诊断
func Format(err *CompileError, sourceLines []string) string {
	return defaultFormatter.FormatCompileError(err, sourceLines)
}
