package token

import "fmt"

// ============================================================================
// Token 类型定义
// ============================================================================
//
// TokenType 使用 iota 自动编号，按类别分组：
// 1. 特殊标记（ILLEGAL, EOF）
// 2. 字面量（标识符、整数、浮点数、字符、字符串）
// 3. 运算符（算术、赋值、比较、逻辑、位运算）
// 4. 分隔符（括号、逗号、分号等）
// 5. 关键字（Java 全部保留字）
//
// ============================================================================

// TokenType 表示 Token 的类型
type TokenType int

const (
	// ----------------------------------------------------------
	// 特殊标记
	// ----------------------------------------------------------
	ILLEGAL TokenType = iota // 非法字符
	EOF                      // 文件结束

	// ----------------------------------------------------------
	// 字面量
	// ----------------------------------------------------------
	IDENT  // 标识符
	INT    // 整数字面量 (Value: *big.Int)
	FLOAT  // 浮点数字面量 (Value: float64)
	CHAR   // 字符字面量 (Value: rune)
	STRING // 字符串字面量 (Value: string)

	// ----------------------------------------------------------
	// 算术运算符
	// ----------------------------------------------------------
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	INCREMENT // ++
	DECREMENT // --

	// ----------------------------------------------------------
	// 赋值运算符
	// ----------------------------------------------------------
	ASSIGN         // =
	PLUS_ASSIGN    // +=
	MINUS_ASSIGN   // -=
	STAR_ASSIGN    // *=
	SLASH_ASSIGN   // /=
	PERCENT_ASSIGN // %=
	AND_ASSIGN     // &=
	OR_ASSIGN      // |=
	XOR_ASSIGN     // ^=
	SHL_ASSIGN     // <<=
	SHR_ASSIGN     // >>=
	USHR_ASSIGN    // >>>=

	// ----------------------------------------------------------
	// 比较运算符
	// ----------------------------------------------------------
	EQ // ==
	NE // !=
	LT // <
	LE // <=
	GT // >
	GE // >=

	// ----------------------------------------------------------
	// 逻辑运算符
	// ----------------------------------------------------------
	AND // &&
	OR  // ||
	NOT // !

	// ----------------------------------------------------------
	// 位运算符
	// ----------------------------------------------------------
	BIT_AND // &
	BIT_OR  // |
	BIT_XOR // ^
	BIT_NOT // ~
	SHL     // <<
	SHR     // >>
	USHR    // >>>

	// ----------------------------------------------------------
	// 分隔符
	// ----------------------------------------------------------
	LPAREN       // (
	RPAREN       // )
	LBRACE       // {
	RBRACE       // }
	LBRACKET     // [
	RBRACKET     // ]
	COMMA        // ,
	DOT          // .
	SEMICOLON    // ;
	COLON        // :
	QUESTION     // ?
	ARROW        // ->
	DOUBLE_COLON // ::
	ELLIPSIS     // ...
	AT           // @

	// ----------------------------------------------------------
	// 关键字
	// ----------------------------------------------------------
	keyword_beg

	// 基本类型
	BOOLEAN
	BYTE
	CHAR_TYPE
	SHORT
	INT_TYPE
	LONG
	FLOAT_TYPE
	DOUBLE
	VOID

	// 值
	TRUE
	FALSE
	NULL
	THIS
	SUPER

	// 声明
	CLASS
	INTERFACE
	ENUM
	EXTENDS
	IMPLEMENTS
	PACKAGE
	IMPORT
	NEW
	INSTANCEOF

	// 修饰符
	PUBLIC
	PRIVATE
	PROTECTED
	STATIC
	FINAL
	ABSTRACT
	NATIVE
	SYNCHRONIZED
	TRANSIENT
	VOLATILE
	STRICTFP

	// 控制流
	IF
	ELSE
	SWITCH
	CASE
	DEFAULT
	FOR
	WHILE
	DO
	BREAK
	CONTINUE
	RETURN
	TRY
	CATCH
	FINALLY
	THROW
	THROWS

	// 保留但不使用
	ASSERT
	CONST
	GOTO

	keyword_end
)

// tokenNames TokenType 到字符串的映射
var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "IDENT",
	INT:    "INT",
	FLOAT:  "FLOAT",
	CHAR:   "CHAR",
	STRING: "STRING",

	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	INCREMENT: "++",
	DECREMENT: "--",

	ASSIGN:         "=",
	PLUS_ASSIGN:    "+=",
	MINUS_ASSIGN:   "-=",
	STAR_ASSIGN:    "*=",
	SLASH_ASSIGN:   "/=",
	PERCENT_ASSIGN: "%=",
	AND_ASSIGN:     "&=",
	OR_ASSIGN:      "|=",
	XOR_ASSIGN:     "^=",
	SHL_ASSIGN:     "<<=",
	SHR_ASSIGN:     ">>=",
	USHR_ASSIGN:    ">>>=",

	EQ: "==",
	NE: "!=",
	LT: "<",
	LE: "<=",
	GT: ">",
	GE: ">=",

	AND: "&&",
	OR:  "||",
	NOT: "!",

	BIT_AND: "&",
	BIT_OR:  "|",
	BIT_XOR: "^",
	BIT_NOT: "~",
	SHL:     "<<",
	SHR:     ">>",
	USHR:    ">>>",

	LPAREN:       "(",
	RPAREN:       ")",
	LBRACE:       "{",
	RBRACE:       "}",
	LBRACKET:     "[",
	RBRACKET:     "]",
	COMMA:        ",",
	DOT:          ".",
	SEMICOLON:    ";",
	COLON:        ":",
	QUESTION:     "?",
	ARROW:        "->",
	DOUBLE_COLON: "::",
	ELLIPSIS:     "...",
	AT:           "@",

	BOOLEAN:    "boolean",
	BYTE:       "byte",
	CHAR_TYPE:  "char",
	SHORT:      "short",
	INT_TYPE:   "int",
	LONG:       "long",
	FLOAT_TYPE: "float",
	DOUBLE:     "double",
	VOID:       "void",

	TRUE:  "true",
	FALSE: "false",
	NULL:  "null",
	THIS:  "this",
	SUPER: "super",

	CLASS:      "class",
	INTERFACE:  "interface",
	ENUM:       "enum",
	EXTENDS:    "extends",
	IMPLEMENTS: "implements",
	PACKAGE:    "package",
	IMPORT:     "import",
	NEW:        "new",
	INSTANCEOF: "instanceof",

	PUBLIC:       "public",
	PRIVATE:      "private",
	PROTECTED:    "protected",
	STATIC:       "static",
	FINAL:        "final",
	ABSTRACT:     "abstract",
	NATIVE:       "native",
	SYNCHRONIZED: "synchronized",
	TRANSIENT:    "transient",
	VOLATILE:     "volatile",
	STRICTFP:     "strictfp",

	IF:       "if",
	ELSE:     "else",
	SWITCH:   "switch",
	CASE:     "case",
	DEFAULT:  "default",
	FOR:      "for",
	WHILE:    "while",
	DO:       "do",
	BREAK:    "break",
	CONTINUE: "continue",
	RETURN:   "return",
	TRY:      "try",
	CATCH:    "catch",
	FINALLY:  "finally",
	THROW:    "throw",
	THROWS:   "throws",

	ASSERT: "assert",
	CONST:  "const",
	GOTO:   "goto",
}

// keywords 关键字映射表，由 tokenNames 在初始化时生成
var keywords map[string]TokenType

func init() {
	keywords = make(map[string]TokenType, int(keyword_end-keyword_beg))
	for t := keyword_beg + 1; t < keyword_end; t++ {
		keywords[tokenNames[t]] = t
	}
}

// LookupIdent 查找标识符是否为关键字
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword 判断 TokenType 是否为关键字
func IsKeyword(t TokenType) bool {
	return t > keyword_beg && t < keyword_end
}

// IsPrimitiveType 判断是否为基本类型关键字（含 void）
func IsPrimitiveType(t TokenType) bool {
	return t >= BOOLEAN && t <= VOID
}

// IsModifier 判断是否为修饰符关键字
func IsModifier(t TokenType) bool {
	return t >= PUBLIC && t <= STRICTFP
}

// IsAssignOp 判断是否为赋值运算符（含复合赋值）
func IsAssignOp(t TokenType) bool {
	return t >= ASSIGN && t <= USHR_ASSIGN
}

// compoundBase 复合赋值运算符到对应二元运算符
var compoundBase = map[TokenType]TokenType{
	PLUS_ASSIGN:    PLUS,
	MINUS_ASSIGN:   MINUS,
	STAR_ASSIGN:    STAR,
	SLASH_ASSIGN:   SLASH,
	PERCENT_ASSIGN: PERCENT,
	AND_ASSIGN:     BIT_AND,
	OR_ASSIGN:      BIT_OR,
	XOR_ASSIGN:     BIT_XOR,
	SHL_ASSIGN:     SHL,
	SHR_ASSIGN:     SHR,
	USHR_ASSIGN:    USHR,
}

// CompoundBase 返回复合赋值运算符对应的二元运算符，如 += 返回 +
func CompoundBase(t TokenType) (TokenType, bool) {
	b, ok := compoundBase[t]
	return b, ok
}

// String 返回 TokenType 的字符串表示
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// ============================================================================
// Position - 源代码位置
// ============================================================================

// Position 表示源代码中的位置
type Position struct {
	Filename string // 文件名
	Line     int    // 行号 (从1开始)
	Column   int    // 列号 (从1开始)
	Offset   int    // 字节偏移量 (从0开始)
}

// String 返回位置的字符串表示，格式为 "filename:line:column"
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid 检查位置是否有效
func (p Position) IsValid() bool {
	return p.Line > 0
}

// ============================================================================
// Token - 词法单元
// ============================================================================

// Token 表示一个词法单元
//
// Token 是词法分析的产物，包含：
// - Type: token 类型（如 IDENT, INT, IF 等）
// - Literal: 原始字面量文本
// - Value: 解析后的值（整数为 *big.Int，浮点数为 float64，字符为 rune，字符串为 string）
// - Pos: 在源代码中的位置
type Token struct {
	Type    TokenType   // Token 类型
	Literal string      // 原始字面量
	Value   interface{} // 解析后的值
	Pos     Position    // 位置信息
}

// End 返回 Token 结束位置（仅对单行 Token 精确）
func (t Token) End() Position {
	end := t.Pos
	end.Column += len(t.Literal)
	end.Offset += len(t.Literal)
	return end
}

// String 返回 Token 的字符串表示（用于调试）
func (t Token) String() string {
	switch t.Type {
	case IDENT, INT, FLOAT, CHAR, STRING:
		return fmt.Sprintf("%s(%s) at %s", t.Type, t.Literal, t.Pos)
	default:
		return fmt.Sprintf("%s at %s", t.Type, t.Pos)
	}
}

// Describe 返回用于错误消息的简短描述
func (t Token) Describe() string {
	switch t.Type {
	case EOF:
		return "end of file"
	case IDENT, INT, FLOAT, CHAR, STRING:
		return fmt.Sprintf("'%s'", t.Literal)
	default:
		return fmt.Sprintf("'%s'", t.Type)
	}
}

// ============================================================================
// Token 构造函数
// ============================================================================

// New 创建一个新的 Token
func New(tokenType TokenType, literal string, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Pos:     pos,
	}
}

// NewWithValue 创建一个带值的 Token
//
// 用于数字、字符和字符串字面量，value 参数存储解析后的实际值。
func NewWithValue(tokenType TokenType, literal string, value interface{}, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Value:   value,
		Pos:     pos,
	}
}
