// repl.go - jpy REPL (Read-Translate-Print Loop)
//
// 提供交互式命令行界面，支持：
// - 多行输入（花括号、圆括号未闭合时继续读取）
// - 历史记录（保存在历史文件中）
// - 特殊命令（:help, :quit, :reset, :ast, :opt, :load）
// - 语句自动包装进 Main.main，只打印新语句生成的 Python 代码
// - 完整的类声明直接翻译

package repl

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/errors"
	"github.com/tangzhangming/jpy/internal/translator"
)

const (
	// 包装语句的方法头与方法尾
	wrapHeader = "public class Main {\n    public static void main(String[] args) {\n"
	wrapFooter = "\n    }\n}\n"

	// headerLines 包装后第一条语句所在的行号
	headerLines = 3

	maxHistory = 1000
)

// REPL 交互式翻译器
type REPL struct {
	options   translator.Options
	logger    *zap.Logger
	writer    io.Writer
	formatter *errors.Formatter

	history     []string
	historyFile string

	multiline bool
	buffer    strings.Builder

	// 会话中已接受的语句，以及它们生成的 main 方法体
	statements []string
	lineCount  int
	body       []string
	lastFile   *ast.File

	promptPrimary  string
	promptContinue string
}

// Config REPL 配置
type Config struct {
	PromptPrimary  string
	PromptContinue string
	HistoryFile    string // 为空时不保存历史
	Options        translator.Options
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	cfg := Config{
		PromptPrimary:  "jpy> ",
		PromptContinue: "...  ",
		Options:        translator.DefaultOptions(),
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, ".jpy_history")
	}
	return cfg
}

// New 创建 REPL，输出写到 w
func New(config Config, w io.Writer) *REPL {
	logger := config.Options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	formatter := errors.NewFormatter()
	formatter.ShowSource = false

	return &REPL{
		options:        config.Options,
		logger:         logger,
		writer:         w,
		formatter:      formatter,
		historyFile:    config.HistoryFile,
		promptPrimary:  config.PromptPrimary,
		promptContinue: config.PromptContinue,
	}
}

// Run 运行 REPL，直到 :quit 或输入结束
func (r *REPL) Run() error {
	r.printWelcome()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(r.GetCompletions)

	r.loadHistory(ln)
	defer r.saveHistory(ln)

	for {
		prompt := r.promptPrimary
		if r.multiline {
			prompt = r.promptContinue
		}

		line, err := ln.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			// Ctrl-C 丢弃当前输入
			r.buffer.Reset()
			r.multiline = false
			continue
		}
		if stderrors.Is(err, io.EOF) {
			fmt.Fprintln(r.writer, "\nBye!")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		input, complete := r.Feed(line)
		if !complete {
			continue
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		if quit := r.Eval(input); quit {
			return nil
		}
	}
}

// Feed 追加一行输入，返回完整的输入以及它是否已经完整
//
// 以 ':' 开头的命令总是单行的。
func (r *REPL) Feed(line string) (string, bool) {
	line = strings.TrimRight(line, "\r\n")
	if !r.multiline && strings.HasPrefix(strings.TrimSpace(line), ":") {
		return line, true
	}

	if r.multiline {
		r.buffer.WriteString("\n")
	}
	r.buffer.WriteString(line)

	if needsMoreInput(r.buffer.String()) {
		r.multiline = true
		return "", false
	}

	input := r.buffer.String()
	r.buffer.Reset()
	r.multiline = false
	return input, true
}

// Eval 处理一条完整输入，返回 true 表示退出
func (r *REPL) Eval(input string) bool {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, ":") {
		return r.handleCommand(trimmed)
	}

	r.addHistory(input)
	r.logger.Debug("repl input", zap.Int("bytes", len(input)))

	if isCompilationUnit(trimmed) {
		r.translateUnit(input, "<repl>")
	} else {
		r.translateStatements(input)
	}
	return false
}

// printWelcome 打印欢迎信息
func (r *REPL) printWelcome() {
	fmt.Fprintf(r.writer, "jpy REPL v%s\n", translator.Version)
	fmt.Fprintln(r.writer, "Type Java statements or classes; :help for help, :quit to exit")
	fmt.Fprintln(r.writer)
}

// handleCommand 处理特殊命令
func (r *REPL) handleCommand(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case ":help", ":h", ":?":
		r.printHelp()

	case ":quit", ":q", ":exit":
		fmt.Fprintln(r.writer, "Bye!")
		return true

	case ":reset", ":clear":
		r.reset()
		fmt.Fprintln(r.writer, "Session reset.")

	case ":ast":
		if r.lastFile == nil {
			fmt.Fprintln(r.writer, "Nothing translated yet.")
		} else {
			fmt.Fprintln(r.writer, ast.Dump(r.lastFile))
		}

	case ":opt":
		r.options.Optimize = !r.options.Optimize
		state := "off"
		if r.options.Optimize {
			state = "on"
		}
		fmt.Fprintf(r.writer, "Optimizer %s.\n", state)

	case ":load", ":l":
		if len(args) < 1 {
			fmt.Fprintln(r.writer, "Usage: :load <file>")
			break
		}
		r.loadFile(args[0])

	case ":history", ":hist":
		r.printHistory()

	default:
		fmt.Fprintf(r.writer, "Unknown command: %s\n", cmd)
		fmt.Fprintln(r.writer, "Type :help for available commands.")
	}
	return false
}

// printHelp 打印帮助信息
func (r *REPL) printHelp() {
	fmt.Fprintln(r.writer, "Available commands:")
	fmt.Fprintln(r.writer, "  :help, :h, :?     Show this help message")
	fmt.Fprintln(r.writer, "  :quit, :q, :exit  Exit the REPL")
	fmt.Fprintln(r.writer, "  :reset, :clear    Forget all statements entered so far")
	fmt.Fprintln(r.writer, "  :ast              Show the syntax tree of the last translation")
	fmt.Fprintln(r.writer, "  :opt              Toggle the optimizer")
	fmt.Fprintln(r.writer, "  :load <file>      Translate a Java file")
	fmt.Fprintln(r.writer, "  :history, :hist   Show input history")
	fmt.Fprintln(r.writer)
	fmt.Fprintln(r.writer, "Statements are collected into Main.main; only the Python for the")
	fmt.Fprintln(r.writer, "new statements is shown. Input starting with 'class' is translated")
	fmt.Fprintln(r.writer, "as a whole file. Unclosed braces continue on the next line.")
	fmt.Fprintln(r.writer)
	fmt.Fprintln(r.writer, "Examples:")
	fmt.Fprintln(r.writer, "  jpy> int x = 10;")
	fmt.Fprintln(r.writer, "  jpy> for (int i = 0; i < x; i++) {")
	fmt.Fprintln(r.writer, "  ...      System.out.println(i);")
	fmt.Fprintln(r.writer, "  ...  }")
}

// reset 清空会话
func (r *REPL) reset() {
	r.statements = nil
	r.lineCount = 0
	r.body = nil
	r.lastFile = nil
	r.buffer.Reset()
	r.multiline = false
}

// loadFile 翻译文件并打印结果
func (r *REPL) loadFile(filename string) {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(r.writer, "Error loading file: %v\n", err)
		return
	}
	r.translateUnit(string(source), filename)
}

// ============================================================================
// 翻译
// ============================================================================

// translateUnit 把输入当作完整的源文件翻译
func (r *REPL) translateUnit(src, filename string) {
	res, err := translator.Translate(src, filename, r.options)
	r.report(res, err, 0)
	if res != nil {
		r.lastFile = res.File
	}
	if err == nil {
		fmt.Fprint(r.writer, res.Code)
	}
}

// translateStatements 把输入追加到会话的 main 方法中翻译
//
// 翻译失败时输入不会加入会话。
func (r *REPL) translateStatements(input string) {
	statements := append(append([]string(nil), r.statements...), input)
	src := wrapHeader + strings.Join(statements, "\n") + wrapFooter

	res, err := translator.Translate(src, "<repl>", r.options)
	r.report(res, err, headerLines+r.lineCount)
	if err != nil {
		return
	}

	body := mainBody(res.Code)
	fresh := body
	if hasPrefix(body, r.body) {
		fresh = body[len(r.body):]
	}
	for _, line := range fresh {
		fmt.Fprintln(r.writer, line)
	}

	r.statements = statements
	r.lineCount += strings.Count(input, "\n") + 1
	r.body = body
	r.lastFile = res.File
}

// report 输出致命错误以及 firstLine 之后的诊断
func (r *REPL) report(res *translator.Result, err error, firstLine int) {
	for _, ce := range translator.CompileErrors(res, nil) {
		if ce.Line < firstLine {
			continue
		}
		r.printError(ce)
	}
	if err == nil {
		return
	}
	if ce := translator.ToCompileError(err); ce != nil {
		r.printError(ce)
	} else {
		fmt.Fprintf(r.writer, "Error: %v\n", err)
	}
}

func (r *REPL) printError(ce *errors.CompileError) {
	// 包装后的行号对用户没有意义
	plain := *ce
	plain.File = ""
	fmt.Fprint(r.writer, r.formatter.FormatCompileError(&plain, nil))
}

// mainBody 取出生成代码中 main 方法的方法体（去掉缩进）
func mainBody(code string) []string {
	lines := strings.Split(code, "\n")
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "def main(") {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(lines) {
		return nil
	}

	indent := leadingSpace(lines[start])
	var body []string
	for _, line := range lines[start:] {
		if strings.TrimSpace(line) == "" {
			break
		}
		if len(leadingSpace(line)) < len(indent) {
			break
		}
		body = append(body, line[len(indent):])
	}
	// 空方法体生成的 pass 不算语句
	if len(body) == 1 && body[0] == "pass" {
		return nil
	}
	return body
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func hasPrefix(lines, prefix []string) bool {
	if len(prefix) > len(lines) {
		return false
	}
	for i := range prefix {
		if lines[i] != prefix[i] {
			return false
		}
	}
	return true
}

// isCompilationUnit 判断输入是否是完整的源文件（而不是语句）
func isCompilationUnit(input string) bool {
	for _, prefix := range []string{"package ", "import ", "@"} {
		if strings.HasPrefix(input, prefix) {
			return true
		}
	}
	words := strings.Fields(input)
	for _, w := range words {
		switch w {
		case "public", "private", "protected", "abstract", "final", "static":
			continue
		case "class", "interface", "enum":
			return true
		}
		return false
	}
	return false
}

// ============================================================================
// 历史记录
// ============================================================================

func (r *REPL) loadHistory(ln *liner.State) {
	if r.historyFile == "" {
		return
	}
	if f, err := os.Open(r.historyFile); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
}

func (r *REPL) saveHistory(ln *liner.State) {
	if r.historyFile == "" {
		return
	}
	if f, err := os.Create(r.historyFile); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}

// printHistory 打印历史记录
func (r *REPL) printHistory() {
	for i, cmd := range r.history {
		fmt.Fprintf(r.writer, "%4d  %s\n", i+1, cmd)
	}
}

// addHistory 添加到历史记录
func (r *REPL) addHistory(input string) {
	// 不添加重复的历史记录
	if len(r.history) > 0 && r.history[len(r.history)-1] == input {
		return
	}
	r.history = append(r.history, input)
	if len(r.history) > maxHistory {
		r.history = r.history[len(r.history)-maxHistory:]
	}
}

// needsMoreInput 检查是否需要更多输入
func needsMoreInput(input string) bool {
	braceDepth := 0   // {}
	parenDepth := 0   // ()
	bracketDepth := 0 // []
	inString := false
	stringChar := byte(0)
	escaped := false

	for i := 0; i < len(input); i++ {
		c := input[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if inString {
			if c == stringChar || c == '\n' {
				inString = false
			}
			continue
		}

		switch c {
		case '/':
			// 行注释里的括号不计数
			if i+1 < len(input) && input[i+1] == '/' {
				for i < len(input) && input[i] != '\n' {
					i++
				}
			}
		case '"', '\'':
			inString = true
			stringChar = c
		case '{':
			braceDepth++
		case '}':
			braceDepth--
		case '(':
			parenDepth++
		case ')':
			parenDepth--
		case '[':
			bracketDepth++
		case ']':
			bracketDepth--
		}
	}

	return braceDepth > 0 || parenDepth > 0 || bracketDepth > 0
}

// GetCompletions 获取补全建议
func (r *REPL) GetCompletions(line string) []string {
	completions := make([]string, 0)

	if strings.HasPrefix(line, ":") {
		for _, cmd := range []string{":help", ":quit", ":reset", ":ast", ":opt", ":load", ":history"} {
			if strings.HasPrefix(cmd, line) {
				completions = append(completions, cmd)
			}
		}
		return completions
	}

	// 只补全最后一个单词
	start := strings.LastIndexAny(line, " \t(.;{") + 1
	prefix := line[start:]
	if prefix == "" {
		return completions
	}

	keywords := []string{
		"int", "long", "double", "float", "boolean", "char", "String",
		"if", "else", "for", "while", "do", "switch", "case", "default",
		"break", "continue", "return", "new", "null", "true", "false",
		"try", "catch", "finally", "throw", "class", "static", "public",
		"System.out.println", "System.out.print", "Math",
	}
	for _, kw := range keywords {
		if strings.HasPrefix(kw, prefix) {
			completions = append(completions, line[:start]+kw)
		}
	}
	return completions
}
