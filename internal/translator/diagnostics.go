package translator

import (
	stderrors "errors"

	"github.com/tangzhangming/jpy/internal/emitter"
	"github.com/tangzhangming/jpy/internal/errors"
	"github.com/tangzhangming/jpy/internal/lexer"
	"github.com/tangzhangming/jpy/internal/parser"
)

// CompileErrors 把一次翻译的诊断与致命错误统一转换为 CompileError
//
// 顺序为：检查器诊断（按源码顺序），然后是致命错误。res 和 err 都可以为空。
func CompileErrors(res *Result, err error) []*errors.CompileError {
	var out []*errors.CompileError
	if res != nil {
		for _, d := range res.Diagnostics {
			out = append(out, d.ToCompileError())
		}
	}
	if ce := ToCompileError(err); ce != nil {
		out = append(out, ce)
	}
	return out
}

// ToCompileError 转换单个致命错误，无法识别的错误返回 nil
func ToCompileError(err error) *errors.CompileError {
	if err == nil {
		return nil
	}

	var lexErr lexer.Error
	if stderrors.As(err, &lexErr) {
		return lexErr.ToCompileError()
	}
	var synErr *parser.SyntaxError
	if stderrors.As(err, &synErr) {
		return synErr.ToCompileError()
	}
	var unsupported *emitter.UnsupportedConstructError
	if stderrors.As(err, &unsupported) {
		return unsupported.ToCompileError()
	}
	var ce *errors.CompileError
	if stderrors.As(err, &ce) {
		return ce
	}
	return nil
}
