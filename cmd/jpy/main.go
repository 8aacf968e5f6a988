package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/segmentio/encoding/json"
	"go.uber.org/multierr"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/cache"
	"github.com/tangzhangming/jpy/internal/config"
	"github.com/tangzhangming/jpy/internal/emitter"
	"github.com/tangzhangming/jpy/internal/errors"
	"github.com/tangzhangming/jpy/internal/lexer"
	"github.com/tangzhangming/jpy/internal/parser"
	"github.com/tangzhangming/jpy/internal/repl"
	"github.com/tangzhangming/jpy/internal/translator"
)

// 全局语言参数
var globalLang string

// 输出目标，测试中替换
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	// 预扫描全局参数 --lang 或 -lang
	args := preprocessArgs(os.Args[1:])

	// 初始化语言
	InitLanguage(globalLang)

	os.Exit(run(args))
}

// run 分发子命令，返回退出码
func run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 0
	}

	command := args[0]
	switch command {
	case "translate", "t":
		return cmdTranslate(args[1:])
	case "check":
		return cmdCheck(args[1:])
	case "build":
		return cmdBuild(args[1:])
	case "init":
		return cmdInit(args[1:])
	case "repl":
		return cmdRepl(args[1:])
	case "version", "--version":
		cmdVersion()
		return 0
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		// 直接给出 .java 文件时等同于 translate
		if strings.HasSuffix(command, ".java") {
			return cmdTranslate(args)
		}
		fmt.Fprintf(stderr, Msg().ErrUnknownCmd+"\n\n", command)
		printUsage()
		return 1
	}
}

// preprocessArgs 预处理参数，提取全局 --lang 参数
func preprocessArgs(args []string) []string {
	var result []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--lang" || arg == "-lang" {
			if i+1 < len(args) {
				globalLang = args[i+1]
				i++ // 跳过下一个参数
				continue
			}
		} else if strings.HasPrefix(arg, "--lang=") {
			globalLang = strings.TrimPrefix(arg, "--lang=")
			continue
		} else if strings.HasPrefix(arg, "-lang=") {
			globalLang = strings.TrimPrefix(arg, "-lang=")
			continue
		}
		result = append(result, arg)
	}
	return result
}

func printUsage() {
	m := Msg()
	fmt.Fprintf(stdout, m.VersionTitle+"\n\n", translator.Version)
	fmt.Fprintln(stdout, m.HelpUsage)
	fmt.Fprintln(stdout, "  jpy [--lang en|zh] <command> [options] [arguments]")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, m.HelpCommands)
	fmt.Fprintf(stdout, "  translate <file>  %s\n", m.CmdTranslate)
	fmt.Fprintf(stdout, "  check <file>      %s\n", m.CmdCheck)
	fmt.Fprintf(stdout, "  build [dir]       %s\n", m.CmdBuild)
	fmt.Fprintf(stdout, "  init              %s\n", m.CmdInit)
	fmt.Fprintf(stdout, "  repl              %s\n", m.CmdRepl)
	fmt.Fprintf(stdout, "  version           %s\n", m.CmdVersion)
	fmt.Fprintf(stdout, "  help              %s\n", m.CmdHelp)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, m.HelpOptions)
	fmt.Fprintf(stdout, "  -o <file>         %s\n", m.OptOutput)
	fmt.Fprintf(stdout, "  -indent <style>   %s\n", m.OptIndent)
	fmt.Fprintf(stdout, "  -no-opt           %s\n", m.OptNoOpt)
	fmt.Fprintf(stdout, "  -ast              %s\n", m.OptAST)
	fmt.Fprintf(stdout, "  -tokens           %s\n", m.OptTokens)
	fmt.Fprintf(stdout, "  -v                %s\n", m.OptVerbose)
	fmt.Fprintf(stdout, "  --lang <en|zh>    %s\n", m.OptLang)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, m.HelpExamples)
	fmt.Fprintln(stdout, "  jpy translate Main.java -o main.py")
	fmt.Fprintln(stdout, "  jpy check -json Main.java")
	fmt.Fprintln(stdout, "  jpy init && jpy build")
	fmt.Fprintln(stdout, "  jpy --lang zh help")
}

// newFlagSet 创建子命令的参数集
func newFlagSet(name, usage string) *flag.FlagSet {
	m := Msg()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, m.HelpUsage+" jpy "+name+" "+usage)
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, m.HelpOptions)
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags 解析参数，返回非负值表示应立即以该退出码结束
//
// Go 的 flag 包在第一个非 flag 参数处停止，这里把文件名后面的 flag 也解析掉。
func parseFlags(fs *flag.FlagSet, args []string) ([]string, int) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if stderrors.Is(err, flag.ErrHelp) {
				return nil, 0
			}
			return nil, 2
		}
		if fs.NArg() == 0 {
			return positional, -1
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// ============================================================================
// translate
// ============================================================================

// cmdTranslate 翻译单个文件
func cmdTranslate(args []string) int {
	m := Msg()
	fs := newFlagSet("translate", "[options] <file.java>")
	output := fs.String("o", "", m.OptOutput)
	indent := fs.String("indent", "spaces", m.OptIndent)
	indentSize := fs.Int("indent-size", 4, m.OptIndentSize)
	noOpt := fs.Bool("no-opt", false, m.OptNoOpt)
	noGuard := fs.Bool("no-main-guard", false, m.OptNoGuard)
	showAST := fs.Bool("ast", false, m.OptAST)
	showTokens := fs.Bool("tokens", false, m.OptTokens)
	verbose := fs.Bool("v", false, m.OptVerbose)

	files, code := parseFlags(fs, args)
	if code >= 0 {
		return code
	}
	if len(files) < 1 {
		fs.Usage()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, m.ErrNoInput)
		return 1
	}

	filename := files[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(stderr, m.ErrReadFile+"\n", err)
		return 1
	}
	source := string(data)

	// 词法分析模式
	if *showTokens {
		return printTokens(source, filename)
	}

	reporter := errors.NewReporter(stderr)
	reporter.SetSource(filename, source)

	// AST 模式
	if *showAST {
		file, err := parser.ParseSource(source, filename)
		if err != nil {
			reportFatal(reporter, err)
			return 1
		}
		fmt.Fprintln(stdout, ast.Dump(file))
		return 0
	}

	opts := translator.DefaultOptions()
	opts.Emit = &emitter.Options{
		IndentStyle: *indent,
		IndentSize:  *indentSize,
		MainGuard:   !*noGuard,
	}
	if err := opts.Emit.Validate(); err != nil {
		fmt.Fprintf(stderr, m.ErrInvalidOption+"\n", err)
		return 2
	}
	opts.Optimize = !*noOpt
	opts.Logger = newLogger(*verbose)
	defer opts.Logger.Sync() //nolint:errcheck

	res, err := translator.Translate(source, filename, opts)
	reporter.ReportAll(translator.CompileErrors(res, nil))
	if err != nil {
		reportFatal(reporter, err)
		reporter.Summary()
		return 1
	}
	if len(res.Diagnostics) > 0 {
		reporter.Summary()
	}

	if *output == "" {
		fmt.Fprint(stdout, res.Code)
		return 0
	}
	if err := writeFile(*output, res.Code); err != nil {
		fmt.Fprintf(stderr, m.ErrWriteFile+"\n", err)
		return 1
	}
	fmt.Fprintf(stderr, m.SuccessWritten+"\n", *output)
	return 0
}

// printTokens 输出词法分析结果
func printTokens(source, filename string) int {
	m := Msg()
	l := lexer.New(source, filename)
	tokens := l.ScanTokens()

	for _, tok := range tokens {
		fmt.Fprintf(stdout, "  %s\n", tok)
	}

	if l.HasErrors() {
		fmt.Fprintln(stderr, m.ErrLexer)
		reporter := errors.NewReporter(stderr)
		reporter.SetSource(filename, source)
		for _, e := range l.Errors() {
			reporter.Report(e.ToCompileError())
		}
		return 1
	}
	return 0
}

// reportFatal 渲染致命错误；无法转换为诊断的错误直接输出
func reportFatal(reporter *errors.Reporter, err error) {
	if ce := translator.ToCompileError(err); ce != nil {
		reporter.Report(ce)
		return
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// ============================================================================
// check
// ============================================================================

// jsonDiagnostic check -json 的输出格式
type jsonDiagnostic struct {
	File    string   `json:"file"`
	Line    int      `json:"line"`
	Column  int      `json:"column"`
	Code    string   `json:"code"`
	Level   string   `json:"level"`
	Message string   `json:"message"`
	Hints   []string `json:"hints,omitempty"`
}

// cmdCheck 只报告诊断
func cmdCheck(args []string) int {
	m := Msg()
	fs := newFlagSet("check", "[options] <file.java>")
	asJSON := fs.Bool("json", false, m.OptJSON)
	verbose := fs.Bool("v", false, m.OptVerbose)

	files, code := parseFlags(fs, args)
	if code >= 0 {
		return code
	}
	if len(files) < 1 {
		fs.Usage()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, m.ErrNoInput)
		return 1
	}

	filename := files[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(stderr, m.ErrReadFile+"\n", err)
		return 1
	}
	source := string(data)

	opts := translator.DefaultOptions()
	opts.Logger = newLogger(*verbose)
	defer opts.Logger.Sync() //nolint:errcheck

	res, err := translator.Translate(source, filename, opts)
	ces := translator.CompileErrors(res, err)
	if err != nil && translator.ToCompileError(err) == nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if *asJSON {
		return printJSON(ces)
	}

	reporter := errors.NewReporter(stderr)
	reporter.SetSource(filename, source)
	reporter.ReportAll(ces)
	if len(ces) == 0 {
		fmt.Fprintf(stdout, m.SuccessCheckOK+"\n", filename)
		return 0
	}
	reporter.Summary()
	if reporter.HasErrors() {
		return 1
	}
	return 0
}

// printJSON 以 JSON 数组输出诊断，有错误时返回 1
func printJSON(ces []*errors.CompileError) int {
	out := make([]jsonDiagnostic, 0, len(ces))
	status := 0
	for _, ce := range ces {
		if ce.Level == errors.LevelError {
			status = 1
		}
		out = append(out, jsonDiagnostic{
			File:    ce.File,
			Line:    ce.Line,
			Column:  ce.Column,
			Code:    ce.Code,
			Level:   ce.Level.String(),
			Message: ce.Message,
			Hints:   ce.Hints,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(data))
	return status
}

// ============================================================================
// build
// ============================================================================

// cmdBuild 按 jpy.toml 翻译整个项目
func cmdBuild(args []string) int {
	m := Msg()
	fs := newFlagSet("build", "[options] [dir]")
	noCache := fs.Bool("no-cache", false, m.OptNoCache)
	verbose := fs.Bool("v", false, m.OptVerbose)

	dirs, code := parseFlags(fs, args)
	if code >= 0 {
		return code
	}
	dir := "."
	if len(dirs) > 0 {
		dir = dirs[0]
	}

	cfgPath := config.Find(dir)
	if cfgPath == "" {
		fmt.Fprintf(stderr, m.ErrNoConfig+"\n", config.FileName, dir)
		return 1
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, m.ErrLoadConfig+"\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, m.ErrInvalidConfig)
		for _, e := range multierr.Errors(err) {
			fmt.Fprintf(stderr, "  - %v\n", e)
		}
		return 1
	}

	// 命令行与环境变量优先于配置文件
	if !languageExplicit() {
		setLanguage(cfg.Diagnostics.Lang)
		m = Msg()
	}
	_ = errors.ApplyColorMode(cfg.Diagnostics.Color)

	root := filepath.Dir(cfgPath)
	c, err := cache.New(root)
	if err != nil {
		fmt.Fprintf(stderr, m.ErrCache+"\n", err)
		return 1
	}
	if *noCache {
		if err := c.Clear(); err != nil {
			fmt.Fprintf(stderr, m.ErrCache+"\n", err)
			return 1
		}
	}

	opts := translator.DefaultOptions()
	opts.Emit = cfg.EmitOptions()
	opts.Optimize = cfg.Translate.Optimize
	opts.Logger = newLogger(*verbose)
	defer opts.Logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(stderr, m.SuccessBuilding+"\n", cfg.Project.Name, cfg.Project.Version)
	result, err := buildProject(ctx, root, cfg, c, opts)

	reporter := errors.NewReporter(stderr)
	reporter.SetWarnings(cfg.Diagnostics.Warnings)
	if result != nil {
		for _, fr := range result.Files {
			if fr == nil {
				continue
			}
			reporter.SetSource(fr.Path, fr.Source)
			reporter.ReportAll(translator.CompileErrors(fr.Result, nil))
			if fr.Err != nil {
				reportFatal(reporter, fr.Err)
			}
		}
	}
	reporter.Summary()

	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if result.Failed > 0 {
		fmt.Fprintf(stderr, m.ErrBuildFailed+"\n", result.Failed)
		return 1
	}
	fmt.Fprintf(stderr, m.SuccessBuildComplete+"\n", result.Translated, result.Cached, cfg.OutPath(root))
	return 0
}

// ============================================================================
// repl / version
// ============================================================================

// cmdRepl 启动 REPL
func cmdRepl(args []string) int {
	m := Msg()
	fs := newFlagSet("repl", "[options]")
	noOpt := fs.Bool("no-opt", false, m.OptNoOpt)
	verbose := fs.Bool("v", false, m.OptVerbose)

	if _, code := parseFlags(fs, args); code >= 0 {
		return code
	}

	cfg := repl.DefaultConfig()
	cfg.Options.Optimize = !*noOpt
	cfg.Options.Logger = newLogger(*verbose)
	defer cfg.Options.Logger.Sync() //nolint:errcheck

	if err := repl.New(cfg, stdout).Run(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// cmdVersion 显示版本信息
func cmdVersion() {
	m := Msg()
	fmt.Fprintf(stdout, m.VersionTitle+"\n", translator.Version)
	fmt.Fprintln(stdout, m.VersionDesc)
}
