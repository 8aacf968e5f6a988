package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/lsp"
	"github.com/tangzhangming/jpy/internal/translator"
)

func main() {
	// 解析命令行参数
	showVersion := flag.Bool("version", false, "显示版本信息")
	showHelp := flag.Bool("help", false, "显示帮助信息")
	logFile := flag.String("log", "", "日志文件路径（默认不记录日志）")
	lang := flag.String("lang", "", "诊断信息语言 (en/zh)")

	flag.Parse()

	if *showVersion {
		fmt.Printf("jpy Language Server v%s\n", translator.Version)
		os.Exit(0)
	}

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	if *lang == "" {
		*lang = os.Getenv("JPY_LANG")
	}
	if *lang != "" {
		i18n.SetLanguageFromString(*lang)
	}

	logger, err := newLogger(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// 创建并启动 LSP 服务器
	server := lsp.NewServer(logger, translator.DefaultOptions())
	if err := server.Run(ctx, lsp.Stdio()); err != nil {
		logger.Error("server stopped", zap.Error(err))
		fmt.Fprintf(os.Stderr, "LSP server error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger 日志写入文件（JSON 格式），未指定文件时不记录
//
// 标准输出用于协议通信，日志不能写到那里。
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func printUsage() {
	fmt.Println("jpy Language Server - LSP 服务器")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  jpyls [options]")
	fmt.Println()
	fmt.Println("选项:")
	fmt.Println("  --version     显示版本信息")
	fmt.Println("  --help        显示帮助信息")
	fmt.Println("  --log <file>  日志文件路径")
	fmt.Println("  --lang <lang> 诊断信息语言 (en/zh)")
	fmt.Println()
	fmt.Println("LSP 服务器通过标准输入输出 (stdio) 与编辑器通信。")
	fmt.Println("除标准的文档同步与文档符号外，还支持自定义请求 jpy/translate，")
	fmt.Println("返回当前文档翻译得到的 Python 代码。")
}
