// Package errors 提供 jpy 的错误码、诊断格式化与报告
package errors

import "github.com/tangzhangming/jpy/internal/i18n"

// ============================================================================
// 错误级别
// ============================================================================

// Level 错误级别
type Level int

const (
	LevelError   Level = iota // 错误
	LevelWarning              // 警告
	LevelNote                 // 提示
	LevelHelp                 // 帮助
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	case LevelHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ============================================================================
// 错误码
// ============================================================================

const (
	// E0001-E0099: 词法与语法错误
	E0001 = "E0001" // 词法错误
	E0002 = "E0002" // 意外的 token
	E0003 = "E0003" // 缺少 token
	E0004 = "E0004" // 声明格式错误
	E0008 = "E0008" // 没有类声明

	// E0100-E0199: 名字与作用域
	E0100 = "E0100" // 找不到符号
	E0101 = "E0101" // 变量重复声明
	E0102 = "E0102" // 静态上下文中引用实例成员
	E0103 = "E0103" // this/super 使用不当

	// E0200-E0299: 类型
	E0200 = "E0200" // 赋值类型不兼容
	E0201 = "E0201" // 条件不是 boolean
	E0202 = "E0202" // 一元运算符操作数类型错误
	E0203 = "E0203" // 二元运算符操作数类型错误
	E0204 = "E0204" // 三元表达式分支不兼容
	E0205 = "E0205" // switch 作用于 boolean
	E0206 = "E0206" // case 标签类型不匹配
	E0207 = "E0207" // 返回类型不匹配
	E0208 = "E0208" // void 方法返回值
	E0209 = "E0209" // 缺少返回值
	E0210 = "E0210" // 不是数组
	E0211 = "E0211" // 数组下标不是整数
	E0212 = "E0212" // 不可迭代

	// E0300-E0399: 调用与控制流
	E0300 = "E0300" // 没有匹配的方法重载
	E0301 = "E0301" // 调用有歧义
	E0302 = "E0302" // 找不到方法
	E0303 = "E0303" // 没有匹配的构造器
	E0304 = "E0304" // break 在循环外
	E0305 = "E0305" // continue 在循环外
	E0306 = "E0306" // this(...)/super(...) 位置错误

	// E0400-E0499: 类与成员
	E0400 = "E0400" // 类重复定义
	E0401 = "E0401" // 字段重复定义
	E0402 = "E0402" // 方法签名重复
	E0403 = "E0403" // 构造器签名重复
	E0404 = "E0404" // 找不到父类
	E0405 = "E0405" // 循环继承
	E0406 = "E0406" // 找不到字段
	E0407 = "E0407" // 没有父类却使用 super

	// E0500-E0599: 不支持的结构
	E0500 = "E0500" // 不支持的结构

	// W0001+: 警告
	W0001 = "W0001" // 翻译后无法区分的重载
)

// ============================================================================
// 错误码信息
// ============================================================================

// ErrorInfo 错误码信息
type ErrorInfo struct {
	Code      string // 错误码
	Level     Level  // 错误级别
	MessageID string // i18n 消息 ID
	Category  string // 错误分类
	HintID    string // 默认修复建议（可选）
}

var codeTable = map[string]ErrorInfo{
	E0001: {E0001, LevelError, i18n.ErrUnexpectedChar, "syntax", ""},
	E0002: {E0002, LevelError, i18n.ErrUnexpectedToken, "syntax", ""},
	E0003: {E0003, LevelError, i18n.ErrExpectedToken, "syntax", i18n.HintExpectedToken},
	E0004: {E0004, LevelError, i18n.ErrExpectedDeclaration, "syntax", ""},
	E0008: {E0008, LevelError, i18n.ErrNoClass, "syntax", ""},

	E0100: {E0100, LevelError, i18n.ErrUndefinedIdent, "name", i18n.HintUndefinedIdent},
	E0101: {E0101, LevelError, i18n.ErrVariableRedeclared, "name", i18n.HintRedeclared},
	E0102: {E0102, LevelError, i18n.ErrNonStaticMember, "name", i18n.HintStaticContext},
	E0103: {E0103, LevelError, i18n.ErrStaticContext, "name", ""},

	E0200: {E0200, LevelError, i18n.ErrCannotAssign, "type", i18n.HintCannotAssign},
	E0201: {E0201, LevelError, i18n.ErrConditionNotBoolean, "type", i18n.HintCondition},
	E0202: {E0202, LevelError, i18n.ErrBadUnaryOperand, "type", ""},
	E0203: {E0203, LevelError, i18n.ErrBadBinaryOperands, "type", ""},
	E0204: {E0204, LevelError, i18n.ErrTernaryBranches, "type", ""},
	E0205: {E0205, LevelError, i18n.ErrSwitchOnBoolean, "type", i18n.HintSwitchOnBoolean},
	E0206: {E0206, LevelError, i18n.ErrCaseType, "type", ""},
	E0207: {E0207, LevelError, i18n.ErrReturnTypeMismatch, "type", ""},
	E0208: {E0208, LevelError, i18n.ErrReturnInVoid, "type", ""},
	E0209: {E0209, LevelError, i18n.ErrMissingReturnValue, "type", ""},
	E0210: {E0210, LevelError, i18n.ErrNotAnArray, "type", ""},
	E0211: {E0211, LevelError, i18n.ErrIndexNotInteger, "type", ""},
	E0212: {E0212, LevelError, i18n.ErrNotIterable, "type", ""},

	E0300: {E0300, LevelError, i18n.ErrNoMatchingMethod, "call", i18n.HintArguments},
	E0301: {E0301, LevelError, i18n.ErrAmbiguousCall, "call", i18n.HintArguments},
	E0302: {E0302, LevelError, i18n.ErrMethodNotFound, "call", ""},
	E0303: {E0303, LevelError, i18n.ErrNoMatchingCtor, "call", i18n.HintArguments},
	E0304: {E0304, LevelError, i18n.ErrBreakOutsideLoop, "control", i18n.HintBreakOutsideLoop},
	E0305: {E0305, LevelError, i18n.ErrContinueOutsideLoop, "control", i18n.HintBreakOutsideLoop},
	E0306: {E0306, LevelError, i18n.ErrCtorCallPlacement, "control", ""},

	E0400: {E0400, LevelError, i18n.ErrDuplicateClass, "class", ""},
	E0401: {E0401, LevelError, i18n.ErrDuplicateField, "class", ""},
	E0402: {E0402, LevelError, i18n.ErrDuplicateMethod, "class", ""},
	E0403: {E0403, LevelError, i18n.ErrDuplicateConstructor, "class", ""},
	E0404: {E0404, LevelError, i18n.ErrUnknownSuperclass, "class", ""},
	E0405: {E0405, LevelError, i18n.ErrCyclicInheritance, "class", ""},
	E0406: {E0406, LevelError, i18n.ErrFieldNotFound, "class", ""},
	E0407: {E0407, LevelError, i18n.ErrSuperWithoutBase, "class", ""},

	E0500: {E0500, LevelError, i18n.ErrUnsupportedConstruct, "unsupported", i18n.HintUnsupported},

	W0001: {W0001, LevelWarning, i18n.WarnIndistinguishable, "overload", i18n.HintOverloads},
}

// GetErrorInfo 获取错误码信息
func GetErrorInfo(code string) (ErrorInfo, bool) {
	info, ok := codeTable[code]
	return info, ok
}

// IsKnownCode 检查是否为已定义的错误码
func IsKnownCode(code string) bool {
	_, ok := codeTable[code]
	return ok
}

// LevelOf 返回错误码的默认级别，未知错误码视为错误
func LevelOf(code string) Level {
	if info, ok := codeTable[code]; ok {
		return info.Level
	}
	return LevelError
}
