package emitter

import (
	"fmt"

	"github.com/tangzhangming/jpy/internal/errors"
	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/token"
)

// UnsupportedConstructError 遇到已知但不翻译的结构
//
// Construct 是结构名称的消息 ID（i18n.ConstructLambda 等）。
type UnsupportedConstructError struct {
	Construct string
	Pos       token.Position
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message())
}

// Message 返回当前语言的错误消息
func (e *UnsupportedConstructError) Message() string {
	return i18n.T(i18n.ErrUnsupportedConstruct, i18n.T(e.Construct))
}

// ToCompileError 转换为用于渲染的 CompileError
func (e *UnsupportedConstructError) ToCompileError() *errors.CompileError {
	ce := &errors.CompileError{
		Code:    errors.E0500,
		Level:   errors.LevelError,
		Message: e.Message(),
		File:    e.Pos.Filename,
		Line:    e.Pos.Line,
		Column:  e.Pos.Column,
	}
	if info, ok := errors.GetErrorInfo(errors.E0500); ok && info.HintID != "" {
		ce.Hints = []string{i18n.T(info.HintID)}
	}
	return ce
}

// unsupported 用于从深层递归直接跳出到 Emit
type unsupported struct {
	err *UnsupportedConstructError
}

func fail(construct string, pos token.Position) {
	panic(unsupported{&UnsupportedConstructError{Construct: construct, Pos: pos}})
}
