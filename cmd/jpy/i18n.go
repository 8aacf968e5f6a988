package main

import (
	"os"
	"runtime"
	"strings"

	"github.com/tangzhangming/jpy/internal/i18n"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// Messages 消息结构
type Messages struct {
	// 版本信息
	VersionTitle string
	VersionDesc  string

	// 帮助信息
	HelpUsage    string
	HelpCommands string
	HelpOptions  string
	HelpExamples string

	// 命令描述
	CmdTranslate string
	CmdCheck     string
	CmdBuild     string
	CmdInit      string
	CmdRepl      string
	CmdVersion   string
	CmdHelp      string

	// 选项
	OptOutput     string
	OptIndent     string
	OptIndentSize string
	OptNoOpt      string
	OptNoGuard    string
	OptAST        string
	OptTokens     string
	OptJSON       string
	OptVerbose    string
	OptLang       string
	OptNoCache    string
	OptName       string

	// 错误信息
	ErrNoInput       string
	ErrReadFile      string
	ErrWriteFile     string
	ErrUnknownCmd    string
	ErrLexer         string
	ErrInvalidOption string
	ErrNoConfig      string
	ErrLoadConfig    string
	ErrInvalidConfig string
	ErrCache         string
	ErrBuildFailed   string
	ErrGetWorkDir    string
	ErrConfigExists  string
	ErrCreateConfig  string
	ErrCreateDir     string
	ErrCreateFile    string

	// 成功信息
	SuccessCheckOK       string
	SuccessWritten       string
	SuccessBuilding      string
	SuccessBuildComplete string

	// 初始化
	InitCreating  string
	InitSuccess   string
	InitNextSteps string
}

// 英文消息
var messagesEN = Messages{
	VersionTitle: "jpy v%s",
	VersionDesc:  "Translates a subset of Java into readable Python 3",

	HelpUsage:    "Usage:",
	HelpCommands: "Commands:",
	HelpOptions:  "Options:",
	HelpExamples: "Examples:",

	CmdTranslate: "Translate a Java file to Python",
	CmdCheck:     "Report diagnostics without writing output",
	CmdBuild:     "Translate every Java file of a jpy.toml project",
	CmdInit:      "Create a new project in the current directory",
	CmdRepl:      "Start the interactive translator",
	CmdVersion:   "Show version information",
	CmdHelp:      "Show this help message",

	OptOutput:     "Output file path (default: stdout)",
	OptIndent:     "Indent style: spaces or tabs",
	OptIndentSize: "Indent size when using spaces (2 or 4)",
	OptNoOpt:      "Disable the optimizer",
	OptNoGuard:    "Do not emit the __main__ guard",
	OptAST:        "Print the syntax tree instead of Python",
	OptTokens:     "Print lexer tokens instead of Python",
	OptJSON:       "Print diagnostics as JSON",
	OptVerbose:    "Verbose (debug) logging",
	OptLang:       "Set language (en/zh)",
	OptNoCache:    "Ignore and rebuild the translation cache",
	OptName:       "Project name",

	ErrNoInput:       "Error: no input file specified",
	ErrReadFile:      "Error reading file: %v",
	ErrWriteFile:     "Error writing file: %v",
	ErrUnknownCmd:    "Unknown command: %s",
	ErrLexer:         "Lexer errors:",
	ErrInvalidOption: "Error: %v",
	ErrNoConfig:      "Error: no %s found in %s or any parent directory",
	ErrLoadConfig:    "Error loading configuration: %v",
	ErrInvalidConfig: "Invalid configuration:",
	ErrCache:         "Error opening cache: %v",
	ErrBuildFailed:   "Build failed: %d file(s) with errors",
	ErrGetWorkDir:    "Error getting working directory: %v",
	ErrConfigExists:  "Error: %s already exists",
	ErrCreateConfig:  "Error creating configuration: %v",
	ErrCreateDir:     "Error creating directory: %v",
	ErrCreateFile:    "Error creating file: %v",

	SuccessCheckOK:       "✓ %s: no problems found",
	SuccessWritten:       "✓ Wrote %s",
	SuccessBuilding:      "Building %s v%s...",
	SuccessBuildComplete: "✓ %d translated, %d cached → %s",

	InitCreating:  "Creating %s",
	InitSuccess:   "✓ Project %s created",
	InitNextSteps: "Next steps:",
}

// 中文消息
var messagesZH = Messages{
	VersionTitle: "jpy v%s",
	VersionDesc:  "把 Java 子集翻译为可读的 Python 3 代码",

	HelpUsage:    "用法:",
	HelpCommands: "命令:",
	HelpOptions:  "选项:",
	HelpExamples: "示例:",

	CmdTranslate: "把 Java 文件翻译为 Python",
	CmdCheck:     "只报告诊断，不输出代码",
	CmdBuild:     "翻译 jpy.toml 项目中的所有 Java 文件",
	CmdInit:      "在当前目录创建新项目",
	CmdRepl:      "启动交互式翻译器",
	CmdVersion:   "显示版本信息",
	CmdHelp:      "显示帮助信息",

	OptOutput:     "输出文件路径（默认输出到标准输出）",
	OptIndent:     "缩进风格：spaces 或 tabs",
	OptIndentSize: "使用 spaces 时的缩进大小（2 或 4）",
	OptNoOpt:      "关闭优化器",
	OptNoGuard:    "不生成 __main__ 入口",
	OptAST:        "输出语法树而不是 Python",
	OptTokens:     "输出词法分析结果而不是 Python",
	OptJSON:       "以 JSON 格式输出诊断",
	OptVerbose:    "详细（调试）日志",
	OptLang:       "设置语言 (en/zh)",
	OptNoCache:    "忽略并重建翻译缓存",
	OptName:       "项目名",

	ErrNoInput:       "错误: 未指定输入文件",
	ErrReadFile:      "读取文件错误: %v",
	ErrWriteFile:     "写入文件错误: %v",
	ErrUnknownCmd:    "未知命令: %s",
	ErrLexer:         "词法分析错误:",
	ErrInvalidOption: "错误: %v",
	ErrNoConfig:      "错误: 在 %[2]s 及其上级目录中找不到 %[1]s",
	ErrLoadConfig:    "加载配置错误: %v",
	ErrInvalidConfig: "配置无效:",
	ErrCache:         "打开缓存错误: %v",
	ErrBuildFailed:   "构建失败: %d 个文件有错误",
	ErrGetWorkDir:    "获取当前目录错误: %v",
	ErrConfigExists:  "错误: %s 已存在",
	ErrCreateConfig:  "创建配置错误: %v",
	ErrCreateDir:     "创建目录错误: %v",
	ErrCreateFile:    "创建文件错误: %v",

	SuccessCheckOK:       "✓ %s: 没有发现问题",
	SuccessWritten:       "✓ 已写入 %s",
	SuccessBuilding:      "正在构建 %s v%s...",
	SuccessBuildComplete: "✓ 翻译 %d 个，缓存 %d 个 → %s",

	InitCreating:  "创建 %s",
	InitSuccess:   "✓ 项目 %s 已创建",
	InitNextSteps: "下一步:",
}

// 当前消息
var msg = messagesEN

// 当前语言
var currentLang = LangEnglish

// InitLanguage 初始化语言设置
// 优先级: 命令行参数 > 环境变量 JPY_LANG > 操作系统语言 > 默认英文
func InitLanguage(langOverride string) {
	// 1. 命令行参数优先
	if langOverride != "" {
		setLanguage(langOverride)
		return
	}

	// 2. 检查环境变量
	if envLang := os.Getenv("JPY_LANG"); envLang != "" {
		setLanguage(envLang)
		return
	}

	// 3. 检测操作系统语言
	if detectChineseOS() {
		setLanguage("zh")
		return
	}

	// 4. 默认英文
	setLanguage("en")
}

// languageExplicit 语言是否由命令行或环境变量指定（此时忽略 jpy.toml 中的设置）
func languageExplicit() bool {
	return globalLang != "" || os.Getenv("JPY_LANG") != ""
}

// setLanguage 设置语言，同时同步诊断信息的语言
func setLanguage(lang string) {
	switch i18n.ParseLanguage(lang) {
	case i18n.LangChinese:
		currentLang = LangChinese
		msg = messagesZH
		i18n.SetLanguage(i18n.LangChinese)
	default:
		currentLang = LangEnglish
		msg = messagesEN
		i18n.SetLanguage(i18n.LangEnglish)
	}
}

// detectChineseOS 检测操作系统是否为中文环境
func detectChineseOS() bool {
	// Windows 使用 API 检测
	if runtime.GOOS == "windows" {
		if detectWindowsChinese() {
			return true
		}
		locale := getWindowsLocale()
		if strings.HasPrefix(strings.ToLower(locale), "zh") {
			return true
		}
	}

	// Unix/Linux/Mac: 检查环境变量
	langVars := []string{"LANG", "LANGUAGE", "LC_ALL", "LC_MESSAGES"}
	for _, v := range langVars {
		if val := os.Getenv(v); val != "" {
			lower := strings.ToLower(val)
			if strings.Contains(lower, "zh") ||
				strings.Contains(lower, "chinese") {
				return true
			}
		}
	}

	return false
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	return currentLang
}

// Msg 获取当前消息对象
func Msg() *Messages {
	return &msg
}
