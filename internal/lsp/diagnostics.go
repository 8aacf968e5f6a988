package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/tangzhangming/jpy/internal/errors"
	"github.com/tangzhangming/jpy/internal/translator"
)

// source 诊断来源标识
const source = "jpy"

// getDiagnostics 获取文档的诊断信息
//
// 包括检查器诊断以及语法错误、不支持的结构等致命错误。
func getDiagnostics(doc *Document) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	for _, ce := range translator.CompileErrors(doc.Result, doc.Err) {
		diagnostics = append(diagnostics, toDiagnostic(ce, doc))
	}

	// 无法识别的错误（例如文档过大）放在第一行
	if doc.Err != nil && translator.ToCompileError(doc.Err) == nil {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Severity: protocol.DiagnosticSeverityError,
			Source:   source,
			Message:  doc.Err.Error(),
		})
	}

	return diagnostics
}

// toDiagnostic 将 CompileError 转换为 LSP 诊断
func toDiagnostic(ce *errors.CompileError, doc *Document) protocol.Diagnostic {
	line := ce.Line - 1 // LSP 行号从 0 开始
	if line < 0 {
		line = 0
	}
	start := ce.Column - 1
	if start < 0 {
		start = 0
	}

	end := start + wordLength(doc.GetLine(line), start)
	if ce.EndColumn > ce.Column {
		end = ce.EndColumn - 1
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(start)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(end)},
		},
		Severity: severity(ce.Level),
		Code:     ce.Code,
		Source:   source,
		Message:  ce.Message,
	}
}

func severity(level errors.Level) protocol.DiagnosticSeverity {
	switch level {
	case errors.LevelWarning:
		return protocol.DiagnosticSeverityWarning
	case errors.LevelNote:
		return protocol.DiagnosticSeverityInformation
	case errors.LevelHelp:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

// wordLength 返回从 col 开始的标识符长度，不是标识符时为 1
func wordLength(line string, col int) int {
	n := 0
	for col+n < len(line) && isWordChar(line[col+n]) {
		n++
	}
	if n == 0 {
		return 1
	}
	return n
}

// isWordChar 判断是否是单词字符
func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_' || c == '$'
}
