package lexer

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tangzhangming/jpy/internal/errors"
	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/token"
)

// ============================================================================
// Lexer - 词法分析器
// ============================================================================
//
// 词法分析器负责将 Java 源代码转换为 Token 序列。
//
// 说明：
// 1. 注释（// 与 /* */）直接丢弃，不生成 Token
// 2. '>' 总是单独成为一个 Token（'>=' 除外），移位运算符 >> >>> 以及 >>= >>>=
//    由语法分析器根据相邻位置组合，这样 List<List<Integer>> 中的 >> 不会被误识别
// 3. 数字字面量在扫描时解析为值：整数为 *big.Int，浮点数为 float64
//
// ============================================================================

// Lexer 词法分析器结构体
type Lexer struct {
	source   string        // 源代码字符串
	filename string        // 源文件名（用于错误报告）
	tokens   []token.Token // 已扫描的 Token 列表

	start     int // 当前 Token 的起始位置（字节偏移）
	current   int // 当前扫描位置（字节偏移）
	line      int // 当前行号（从1开始）
	column    int // 当前列号（从1开始）
	startLine int // 当前 Token 起始行
	startCol  int // 当前 Token 起始列

	errors []Error // 词法错误列表
}

// Error 表示词法分析错误
type Error struct {
	Pos     token.Position // 错误位置
	Message string         // 错误信息
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ToCompileError 转换为用于渲染的 CompileError
func (e Error) ToCompileError() *errors.CompileError {
	return &errors.CompileError{
		Code:    errors.E0001,
		Level:   errors.LevelError,
		Message: e.Message,
		File:    e.Pos.Filename,
		Line:    e.Pos.Line,
		Column:  e.Pos.Column,
	}
}

// ============================================================================
// 构造函数
// ============================================================================

// New 创建一个新的词法分析器
func New(source, filename string) *Lexer {
	estimatedTokens := len(source) / 4
	if estimatedTokens < 16 {
		estimatedTokens = 16
	}

	return &Lexer{
		source:   source,
		filename: filename,
		tokens:   make([]token.Token, 0, estimatedTokens),
		line:     1,
		column:   1,
	}
}

// ============================================================================
// 公共方法
// ============================================================================

// ScanTokens 扫描所有 tokens
//
// 最后一个 Token 总是 EOF。
func (l *Lexer) ScanTokens() []token.Token {
	for {
		l.skipWhitespaceAndComments()
		if l.isAtEnd() {
			break
		}
		l.start = l.current
		l.startLine = l.line
		l.startCol = l.column
		l.scanToken()
	}

	l.start = l.current
	l.startLine = l.line
	l.startCol = l.column
	l.tokens = append(l.tokens, token.Token{
		Type: token.EOF,
		Pos:  l.startPos(),
	})

	return l.tokens
}

// Errors 返回所有词法错误
func (l *Lexer) Errors() []Error {
	return l.errors
}

// HasErrors 检查是否有错误
func (l *Lexer) HasErrors() bool {
	return len(l.errors) > 0
}

// Tokenize 扫描源代码并返回 Token 流
//
// 词法错误是致命的：存在错误时返回第一个错误。
func Tokenize(source, filename string) (*Stream, error) {
	l := New(source, filename)
	tokens := l.ScanTokens()
	if l.HasErrors() {
		return nil, l.errors[0]
	}
	return NewStream(tokens), nil
}

// ============================================================================
// 核心扫描逻辑
// ============================================================================

// scanToken 扫描单个 token
func (l *Lexer) scanToken() {
	ch := l.advance()

	switch {
	case isAlpha(ch):
		l.identifier()
		return
	case isDigit(ch):
		l.number()
		return
	}

	switch ch {
	case '"':
		l.string()
	case '\'':
		l.char()
	case '(':
		l.addToken(token.LPAREN)
	case ')':
		l.addToken(token.RPAREN)
	case '{':
		l.addToken(token.LBRACE)
	case '}':
		l.addToken(token.RBRACE)
	case '[':
		l.addToken(token.LBRACKET)
	case ']':
		l.addToken(token.RBRACKET)
	case ';':
		l.addToken(token.SEMICOLON)
	case ',':
		l.addToken(token.COMMA)
	case '@':
		l.addToken(token.AT)
	case '?':
		l.addToken(token.QUESTION)
	case '~':
		l.addToken(token.BIT_NOT)
	case '.':
		switch {
		case isDigit(l.peek()):
			l.number()
		case l.peek() == '.' && l.peekNext() == '.':
			l.advance()
			l.advance()
			l.addToken(token.ELLIPSIS)
		default:
			l.addToken(token.DOT)
		}
	case ':':
		if l.match(':') {
			l.addToken(token.DOUBLE_COLON)
		} else {
			l.addToken(token.COLON)
		}
	case '+':
		switch {
		case l.match('+'):
			l.addToken(token.INCREMENT)
		case l.match('='):
			l.addToken(token.PLUS_ASSIGN)
		default:
			l.addToken(token.PLUS)
		}
	case '-':
		switch {
		case l.match('-'):
			l.addToken(token.DECREMENT)
		case l.match('='):
			l.addToken(token.MINUS_ASSIGN)
		case l.match('>'):
			l.addToken(token.ARROW)
		default:
			l.addToken(token.MINUS)
		}
	case '*':
		l.addOp('=', token.STAR_ASSIGN, token.STAR)
	case '/':
		l.addOp('=', token.SLASH_ASSIGN, token.SLASH)
	case '%':
		l.addOp('=', token.PERCENT_ASSIGN, token.PERCENT)
	case '^':
		l.addOp('=', token.XOR_ASSIGN, token.BIT_XOR)
	case '!':
		l.addOp('=', token.NE, token.NOT)
	case '=':
		l.addOp('=', token.EQ, token.ASSIGN)
	case '&':
		switch {
		case l.match('&'):
			l.addToken(token.AND)
		case l.match('='):
			l.addToken(token.AND_ASSIGN)
		default:
			l.addToken(token.BIT_AND)
		}
	case '|':
		switch {
		case l.match('|'):
			l.addToken(token.OR)
		case l.match('='):
			l.addToken(token.OR_ASSIGN)
		default:
			l.addToken(token.BIT_OR)
		}
	case '<':
		switch {
		case l.match('<'):
			l.addOp('=', token.SHL_ASSIGN, token.SHL)
		case l.match('='):
			l.addToken(token.LE)
		default:
			l.addToken(token.LT)
		}
	case '>':
		l.addOp('=', token.GE, token.GT)
	default:
		l.error(i18n.T(i18n.ErrUnexpectedChar, ch))
	}
}

// addOp 根据下一个字符是否为 next 选择两种 Token 类型之一
func (l *Lexer) addOp(next rune, matched, single token.TokenType) {
	if l.match(next) {
		l.addToken(matched)
		return
	}
	l.addToken(single)
}

// ============================================================================
// 空白与注释
// ============================================================================

// skipWhitespaceAndComments 跳过空白字符和注释
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.isAtEnd() {
		ch := l.peek()
		switch {
		case ch == '\n':
			l.advance()
			l.newLine()
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f':
			l.advance()
		case ch == '/' && l.peekNext() == '/':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekNext() == '*':
			l.start = l.current
			l.startLine = l.line
			l.startCol = l.column
			l.advance()
			l.advance()
			l.blockComment()
		default:
			return
		}
	}
}

// blockComment 处理多行注释 /* */（Java 注释不支持嵌套）
func (l *Lexer) blockComment() {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		if l.advance() == '\n' {
			l.newLine()
		}
	}
	l.errors = append(l.errors, Error{
		Pos:     l.startPos(),
		Message: i18n.T(i18n.ErrUnterminatedComment),
	})
}

// ============================================================================
// 字符串与字符
// ============================================================================

// string 处理字符串字面量 "..."
//
// 快速路径：不包含转义字符时直接切片。
func (l *Lexer) string() {
	var sb strings.Builder
	hasEscape := false
	contentStart := l.current

	for {
		if l.isAtEnd() || l.peek() == '\n' {
			l.error(i18n.T(i18n.ErrUnterminatedString))
			return
		}
		ch := l.advance()
		if ch == '"' {
			break
		}
		if ch == '\\' {
			if !hasEscape {
				sb.WriteString(l.source[contentStart : l.current-1])
				hasEscape = true
			}
			r, ok := l.escape()
			if !ok {
				return
			}
			sb.WriteRune(r)
			continue
		}
		if hasEscape {
			sb.WriteRune(ch)
		}
	}

	if !hasEscape {
		l.addTokenWithValue(token.STRING, l.source[contentStart:l.current-1])
		return
	}
	l.addTokenWithValue(token.STRING, sb.String())
}

// char 处理字符字面量 'x'
func (l *Lexer) char() {
	if l.peek() == '\'' {
		l.advance()
		l.error(i18n.T(i18n.ErrEmptyChar))
		return
	}
	if l.isAtEnd() || l.peek() == '\n' {
		l.error(i18n.T(i18n.ErrUnterminatedChar))
		return
	}

	r := l.advance()
	if r == '\\' {
		var ok bool
		if r, ok = l.escape(); !ok {
			return
		}
	}

	if !l.match('\'') {
		l.error(i18n.T(i18n.ErrUnterminatedChar))
		return
	}
	l.addTokenWithValue(token.CHAR, r)
}

// escape 解析反斜杠之后的转义序列
//
// 支持 \b \t \n \f \r \s \" \' \\、八进制 \0-\377 以及 \uXXXX。
func (l *Lexer) escape() (rune, bool) {
	ch := l.advance()
	switch ch {
	case 'b':
		return '\b', true
	case 't':
		return '\t', true
	case 'n':
		return '\n', true
	case 'f':
		return '\f', true
	case 'r':
		return '\r', true
	case 's':
		return ' ', true
	case '"', '\'', '\\':
		return ch, true
	case 'u':
		for l.peek() == 'u' {
			l.advance()
		}
		var v rune
		for i := 0; i < 4; i++ {
			d := l.peek()
			if !isHexDigit(d) {
				l.error(i18n.T(i18n.ErrInvalidEscape, 'u'))
				return 0, false
			}
			l.advance()
			v = v*16 + hexValue(d)
		}
		return v, true
	}

	if ch >= '0' && ch <= '7' {
		v := ch - '0'
		maxDigits := 2
		if ch > '3' {
			maxDigits = 1
		}
		for i := 0; i < maxDigits && l.peek() >= '0' && l.peek() <= '7'; i++ {
			v = v*8 + (l.advance() - '0')
		}
		return v, true
	}

	l.error(i18n.T(i18n.ErrInvalidEscape, ch))
	return 0, false
}

// ============================================================================
// 数字
// ============================================================================

// number 处理数字字面量
//
// 整数：十进制、0x 十六进制、0b 二进制、前导 0 的八进制，可带 '_' 分隔符与 l/L 后缀。
// 浮点数：1.5  .5  1e10  1.5e-3  2f  3d，可带 f/F/d/D 后缀。
func (l *Lexer) number() {
	first := l.source[l.start]

	// 以 '.' 开头的浮点数
	if first == '.' {
		l.digits(isDigit)
		l.finishFloat()
		return
	}

	if first == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()
		l.radixInt(16, isHexDigit)
		return
	}
	if first == '0' && (l.peek() == 'b' || l.peek() == 'B') {
		l.advance()
		l.radixInt(2, func(r rune) bool { return r == '0' || r == '1' })
		return
	}

	l.digits(isDigit)

	isFloat := false
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		l.digits(isDigit)
		isFloat = true
	} else if l.peek() == '.' && !isAlpha(l.peekNext()) && l.peekNext() != '.' {
		// "1." 也是合法的 double
		l.advance()
		isFloat = true
	}

	switch l.peek() {
	case 'e', 'E', 'f', 'F', 'd', 'D':
		isFloat = true
	}

	if isFloat {
		l.finishFloat()
		return
	}

	text := strings.ReplaceAll(l.source[l.start:l.current], "_", "")
	if l.peek() == 'l' || l.peek() == 'L' {
		l.advance()
	}
	if isAlphaNumeric(l.peek()) {
		l.consumeWord()
		l.error(i18n.T(i18n.ErrInvalidNumber, l.source[l.start:l.current]))
		return
	}

	base := 10
	if len(text) > 1 && text[0] == '0' {
		base = 8
		text = text[1:]
	}
	v, ok := new(big.Int).SetString(text, base)
	if !ok {
		l.error(i18n.T(i18n.ErrInvalidNumber, l.source[l.start:l.current]))
		return
	}
	l.addTokenWithValue(token.INT, v)
}

// radixInt 处理带前缀的整数（0x / 0b）
func (l *Lexer) radixInt(base int, valid func(rune) bool) {
	digitStart := l.current
	l.digits(valid)
	text := strings.ReplaceAll(l.source[digitStart:l.current], "_", "")
	if l.peek() == 'l' || l.peek() == 'L' {
		l.advance()
	}
	if text == "" || isAlphaNumeric(l.peek()) {
		l.consumeWord()
		l.error(i18n.T(i18n.ErrInvalidNumber, l.source[l.start:l.current]))
		return
	}
	v, ok := new(big.Int).SetString(text, base)
	if !ok {
		l.error(i18n.T(i18n.ErrInvalidNumber, l.source[l.start:l.current]))
		return
	}
	l.addTokenWithValue(token.INT, v)
}

// finishFloat 处理浮点数的指数与后缀部分
func (l *Lexer) finishFloat() {
	if l.peek() == 'e' || l.peek() == 'E' {
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		if !isDigit(l.peek()) {
			l.error(i18n.T(i18n.ErrInvalidExponent))
			return
		}
		l.digits(isDigit)
	}

	text := strings.ReplaceAll(l.source[l.start:l.current], "_", "")
	switch l.peek() {
	case 'f', 'F', 'd', 'D':
		l.advance()
	}
	if isAlphaNumeric(l.peek()) {
		l.consumeWord()
		l.error(i18n.T(i18n.ErrInvalidNumber, l.source[l.start:l.current]))
		return
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		l.error(i18n.T(i18n.ErrInvalidNumber, l.source[l.start:l.current]))
		return
	}
	l.addTokenWithValue(token.FLOAT, v)
}

// digits 读取连续的数字和 '_' 分隔符
func (l *Lexer) digits(valid func(rune) bool) {
	for valid(l.peek()) || (l.peek() == '_' && valid(l.peekNext())) || (l.peek() == '_' && l.peekNext() == '_') {
		l.advance()
	}
}

// consumeWord 跳过错误数字后面紧跟的字母数字，避免产生级联错误
func (l *Lexer) consumeWord() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
}

// ============================================================================
// 标识符
// ============================================================================

// identifier 处理标识符和关键字
func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	text := l.source[l.start:l.current]
	l.addToken(token.LookupIdent(text))
}

// ============================================================================
// 字符读取
// ============================================================================

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance 前进一个字符并返回它
func (l *Lexer) advance() rune {
	if l.current >= len(l.source) {
		return 0
	}

	b := l.source[l.current]
	if b < utf8.RuneSelf {
		l.current++
		l.column++
		return rune(b)
	}

	r, size := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += size
	l.column++
	return r
}

// peek 查看当前字符但不前进
func (l *Lexer) peek() rune {
	if l.current >= len(l.source) {
		return 0
	}
	b := l.source[l.current]
	if b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.current:])
	return r
}

// peekNext 查看下一个字符但不前进
func (l *Lexer) peekNext() rune {
	if l.current >= len(l.source) {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.source[l.current:])
	if l.current+size >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.current+size:])
	return r
}

// match 如果当前字符匹配则前进
func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() || l.peek() != expected {
		return false
	}
	l.advance()
	return true
}

// ============================================================================
// 位置追踪
// ============================================================================

func (l *Lexer) newLine() {
	l.line++
	l.column = 1
}

// startPos 当前 token 的起始位置
func (l *Lexer) startPos() token.Position {
	return token.Position{
		Filename: l.filename,
		Line:     l.startLine,
		Column:   l.startCol,
		Offset:   l.start,
	}
}

// ============================================================================
// Token 生成
// ============================================================================

func (l *Lexer) addToken(tokenType token.TokenType) {
	l.tokens = append(l.tokens, token.Token{
		Type:    tokenType,
		Literal: l.source[l.start:l.current],
		Pos:     l.startPos(),
	})
}

func (l *Lexer) addTokenWithValue(tokenType token.TokenType, value interface{}) {
	l.tokens = append(l.tokens, token.Token{
		Type:    tokenType,
		Literal: l.source[l.start:l.current],
		Value:   value,
		Pos:     l.startPos(),
	})
}

// ============================================================================
// 错误处理
// ============================================================================

// error 记录一个词法错误，并生成一个 ILLEGAL token
func (l *Lexer) error(message string) {
	l.errors = append(l.errors, Error{
		Pos:     l.startPos(),
		Message: message,
	})
	l.addToken(token.ILLEGAL)
}

// ============================================================================
// 字符分类函数
// ============================================================================

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch rune) rune {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0'
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10
	default:
		return ch - 'A' + 10
	}
}

// isAlpha 判断是否可以作为 Java 标识符的首字符
func isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		ch == '_' || ch == '$' ||
		(ch >= utf8.RuneSelf && unicode.IsLetter(ch))
}

func isAlphaNumeric(ch rune) bool {
	return isAlpha(ch) || isDigit(ch)
}
