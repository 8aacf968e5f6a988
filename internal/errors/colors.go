package errors

import (
	"fmt"
	"os"
	"strings"
)

// Color 终端颜色
type Color int

const (
	ColorReset Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBoldRed
	ColorBoldYellow
	ColorBoldBlue
	ColorBoldWhite
)

// ANSI 颜色代码
var ansiCodes = map[Color]string{
	ColorReset:      "\033[0m",
	ColorRed:        "\033[31m",
	ColorGreen:      "\033[32m",
	ColorYellow:     "\033[33m",
	ColorBlue:       "\033[34m",
	ColorMagenta:    "\033[35m",
	ColorCyan:       "\033[36m",
	ColorWhite:      "\033[37m",
	ColorBoldRed:    "\033[1;31m",
	ColorBoldYellow: "\033[1;33m",
	ColorBoldBlue:   "\033[1;34m",
	ColorBoldWhite:  "\033[1;37m",
}

// colorsEnabled 是否启用颜色
var colorsEnabled = detectColorSupport()

// detectColorSupport 检测标准输出是否支持颜色
//
// NO_COLOR 优先；其次 TERM=dumb；最后询问终端驱动（见 terminal_*.go）。
func detectColorSupport() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	if IsTerminal(os.Stdout.Fd()) {
		return true
	}
	return os.Getenv("COLORTERM") != "" || os.Getenv("FORCE_COLOR") != ""
}

// ApplyColorMode 按配置设置颜色："auto"、"always" 或 "never"
func ApplyColorMode(mode string) error {
	switch strings.ToLower(mode) {
	case "", "auto":
		colorsEnabled = detectColorSupport()
	case "always":
		colorsEnabled = true
	case "never":
		colorsEnabled = false
	default:
		return fmt.Errorf("color must be \"auto\", \"always\" or \"never\", got %q", mode)
	}
	return nil
}

// ColorsEnabled 检查颜色是否启用
func ColorsEnabled() bool {
	return colorsEnabled
}

// SetColorsEnabled 设置颜色启用状态
func SetColorsEnabled(enabled bool) {
	colorsEnabled = enabled
}

// Colorize 着色字符串
func Colorize(s string, color Color) string {
	if !colorsEnabled {
		return s
	}
	code, ok := ansiCodes[color]
	if !ok {
		return s
	}
	return code + s + ansiCodes[ColorReset]
}

// Red 红色
func Red(s string) string {
	return Colorize(s, ColorRed)
}

// Green 绿色
func Green(s string) string {
	return Colorize(s, ColorGreen)
}

// Yellow 黄色
func Yellow(s string) string {
	return Colorize(s, ColorYellow)
}

// Cyan 青色
func Cyan(s string) string {
	return Colorize(s, ColorCyan)
}

// BoldWhite 加粗白色
func BoldWhite(s string) string {
	return Colorize(s, ColorBoldWhite)
}

// Strip 移除 ANSI 颜色代码
func Strip(s string) string {
	result := s
	for _, code := range ansiCodes {
		result = strings.ReplaceAll(result, code, "")
	}
	return result
}

// ============================================================================
// 源代码高亮
// ============================================================================

// SyntaxHighlighter 诊断中源代码行的 Java 语法高亮
type SyntaxHighlighter struct {
	enabled bool
}

// NewSyntaxHighlighter 创建语法高亮器
func NewSyntaxHighlighter() *SyntaxHighlighter {
	return &SyntaxHighlighter{enabled: colorsEnabled}
}

var keywords = map[string]bool{
	"abstract": true, "break": true, "case": true, "catch": true, "class": true, "continue": true,
	"default": true, "do": true, "else": true, "enum": true, "extends": true, "final": true,
	"finally": true, "for": true, "if": true, "implements": true, "import": true, "instanceof": true,
	"interface": true, "new": true, "package": true, "private": true, "protected": true,
	"public": true, "return": true, "static": true, "super": true, "switch": true, "this": true,
	"throw": true, "throws": true, "try": true, "while": true, "var": true,
	"true": true, "false": true, "null": true,
}

var typeKeywords = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "void": true, "String": true, "Object": true,
}

// HighlightLine 高亮一行 Java 源代码
func (h *SyntaxHighlighter) HighlightLine(line string) string {
	if !h.enabled || !colorsEnabled {
		return line
	}
	return h.highlightTokens(line)
}

func (h *SyntaxHighlighter) highlightTokens(line string) string {
	var result strings.Builder
	i, n := 0, len(line)

	for i < n {
		ch := line[i]

		switch {
		case ch == ' ' || ch == '\t':
			result.WriteByte(ch)
			i++

		case ch == '"' || ch == '\'':
			quote := ch
			start := i
			i++
			for i < n && line[i] != quote {
				if line[i] == '\\' && i+1 < n {
					i++
				}
				i++
			}
			if i < n {
				i++
			}
			result.WriteString(Colorize(line[start:i], ColorGreen))

		case ch == '/' && i+1 < n && line[i+1] == '/':
			result.WriteString(Colorize(line[i:], ColorWhite))
			i = n

		case isDigit(ch):
			start := i
			for i < n && (isAlphaNumeric(line[i]) || line[i] == '.') {
				i++
			}
			result.WriteString(Colorize(line[start:i], ColorMagenta))

		case isAlpha(ch):
			start := i
			for i < n && isAlphaNumeric(line[i]) {
				i++
			}
			word := line[start:i]
			switch {
			case keywords[word]:
				result.WriteString(Colorize(word, ColorYellow))
			case typeKeywords[word]:
				result.WriteString(Colorize(word, ColorBlue))
			default:
				result.WriteString(word)
			}

		default:
			result.WriteByte(ch)
			i++
		}
	}

	return result.String()
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}
