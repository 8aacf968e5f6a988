package errors

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ============================================================================
// 错误报告器
// ============================================================================

// Reporter 把诊断渲染后写到输出流，并统计错误与警告
type Reporter struct {
	out         io.Writer
	formatter   *Formatter
	sourceCache map[string][]string
	errors      []*CompileError
	warnings    []*CompileError
	warningsOff bool
}

// NewReporter 创建写到 out 的报告器
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{
		out:         out,
		formatter:   NewFormatter(),
		sourceCache: make(map[string][]string),
	}
}

// SetFormatter 设置格式化器
func (r *Reporter) SetFormatter(f *Formatter) {
	r.formatter = f
}

// SetWarnings 设置是否输出警告（关闭后警告既不输出也不计数）
func (r *Reporter) SetWarnings(enabled bool) {
	r.warningsOff = !enabled
}

// LoadSource 从磁盘加载源文件
func (r *Reporter) LoadSource(filename string) error {
	if _, ok := r.sourceCache[filename]; ok {
		return nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}

	r.sourceCache[filename] = lines
	return nil
}

// SetSource 设置内存中的源代码
func (r *Reporter) SetSource(filename string, content string) {
	r.sourceCache[filename] = strings.Split(content, "\n")
}

// GetSourceLine 获取源代码行
func (r *Reporter) GetSourceLine(filename string, line int) string {
	if lines, ok := r.sourceCache[filename]; ok && line > 0 && line <= len(lines) {
		return lines[line-1]
	}
	return ""
}

// ============================================================================
// 报告
// ============================================================================

// Report 渲染并记录一条诊断
func (r *Reporter) Report(err *CompileError) {
	switch err.Level {
	case LevelWarning:
		if r.warningsOff {
			return
		}
		r.warnings = append(r.warnings, err)
	case LevelError:
		r.errors = append(r.errors, err)
	}

	if err.File != "" {
		// 源文件读不到时只是不显示源代码
		_ = r.LoadSource(err.File)
	}
	fmt.Fprint(r.out, r.formatter.FormatCompileError(err, r.sourceCache[err.File]))
}

// ReportAll 按顺序报告多条诊断
func (r *Reporter) ReportAll(errs []*CompileError) {
	for _, err := range errs {
		r.Report(err)
	}
}

// Summary 输出统计行
func (r *Reporter) Summary() {
	if s := r.formatter.Summary(len(r.errors), len(r.warnings)); s != "" {
		fmt.Fprint(r.out, "\n"+s)
	}
}

// ============================================================================
// 状态查询
// ============================================================================

// HasErrors 是否有错误
func (r *Reporter) HasErrors() bool {
	return len(r.errors) > 0
}

// ErrorCount 错误数量
func (r *Reporter) ErrorCount() int {
	return len(r.errors)
}

// WarningCount 警告数量
func (r *Reporter) WarningCount() int {
	return len(r.warnings)
}

// Errors 获取所有错误
func (r *Reporter) Errors() []*CompileError {
	return r.errors
}

// Clear 清空错误和警告
func (r *Reporter) Clear() {
	r.errors = nil
	r.warnings = nil
}
