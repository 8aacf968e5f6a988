package parser

import (
	"fmt"
	"unicode/utf8"

	"github.com/tangzhangming/jpy/internal/errors"
	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/token"
)

// ErrorKind 语法错误类别
type ErrorKind int

const (
	UnexpectedToken      ErrorKind = iota // 出现了不该出现的 token
	MissingToken                          // 缺少必需的 token
	MalformedDeclaration                  // 声明结构不合法
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected-token"
	case MissingToken:
		return "missing-token"
	case MalformedDeclaration:
		return "malformed-declaration"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// SyntaxError 语法错误
//
// 语法分析不做错误恢复，遇到第一个错误即终止，不会返回部分语法树。
type SyntaxError struct {
	Kind     ErrorKind
	Pos      token.Position
	Expected string      // 期望的内容（可为空）
	Found    token.Token // 实际遇到的 token
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Code 返回错误码
func (e *SyntaxError) Code() string {
	switch e.Kind {
	case MissingToken:
		return errors.E0003
	case MalformedDeclaration:
		if e.Found.Type == token.EOF && e.Message == i18n.T(i18n.ErrNoClass) {
			return errors.E0008
		}
		return errors.E0004
	default:
		return errors.E0002
	}
}

// ToCompileError 转换为用于渲染的 CompileError，插入符覆盖实际遇到的 token
func (e *SyntaxError) ToCompileError() *errors.CompileError {
	code := e.Code()
	ce := &errors.CompileError{
		Code:    code,
		Level:   errors.LevelError,
		Message: e.Message,
		File:    e.Pos.Filename,
		Line:    e.Pos.Line,
		Column:  e.Pos.Column,
	}
	if n := utf8.RuneCountInString(e.Found.Literal); n > 1 && e.Found.Type != token.EOF {
		ce.EndColumn = e.Pos.Column + n
	}
	if info, ok := errors.GetErrorInfo(code); ok && info.HintID != "" {
		ce.Hints = []string{i18n.T(info.HintID)}
	}
	return ce
}

// bailout 用于在递归下降中直接跳出到 Parse
type bailout struct {
	err *SyntaxError
}
