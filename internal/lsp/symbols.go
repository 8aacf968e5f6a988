package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/token"
)

// getDocumentSymbols 获取文档符号列表
//
// 只有语法分析成功时才有符号；生成失败不影响符号。
func getDocumentSymbols(doc *Document) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	if doc.Result == nil || doc.Result.File == nil {
		return symbols
	}

	for _, decl := range doc.Result.File.Declarations {
		if symbol := declarationToSymbol(decl); symbol != nil {
			symbols = append(symbols, *symbol)
		}
	}
	return symbols
}

// declarationToSymbol 将声明转换为符号
func declarationToSymbol(decl ast.Declaration) *protocol.DocumentSymbol {
	switch d := decl.(type) {
	case *ast.ClassDecl:
		return classToSymbol(d)
	case *ast.InterfaceDecl:
		return &protocol.DocumentSymbol{
			Name:           d.Name.Name,
			Kind:           protocol.SymbolKindInterface,
			Range:          nodeRange(d),
			SelectionRange: identRange(d.Name),
		}
	case *ast.EnumDecl:
		return &protocol.DocumentSymbol{
			Name:           d.Name.Name,
			Kind:           protocol.SymbolKindEnum,
			Range:          nodeRange(d),
			SelectionRange: identRange(d.Name),
		}
	}
	return nil
}

// classToSymbol 将类声明转换为符号
func classToSymbol(d *ast.ClassDecl) *protocol.DocumentSymbol {
	symbol := &protocol.DocumentSymbol{
		Name:           d.Name.Name,
		Kind:           protocol.SymbolKindClass,
		Range:          nodeRange(d),
		SelectionRange: identRange(d.Name),
	}
	if super := d.SuperName(); super != "" {
		symbol.Detail = "extends " + super
	}

	for _, member := range d.Members {
		switch m := member.(type) {
		case *ast.FieldDecl:
			kind := protocol.SymbolKindField
			if m.Modifiers.Has(token.STATIC) && m.Modifiers.Has(token.FINAL) {
				kind = protocol.SymbolKindConstant
			}
			symbol.Children = append(symbol.Children, protocol.DocumentSymbol{
				Name:           m.Name.Name,
				Detail:         m.Type.String(),
				Kind:           kind,
				Range:          nodeRange(m),
				SelectionRange: identRange(m.Name),
			})
		case *ast.ConstructorDecl:
			symbol.Children = append(symbol.Children, protocol.DocumentSymbol{
				Name:           m.Name.Name,
				Detail:         m.String(),
				Kind:           protocol.SymbolKindConstructor,
				Range:          nodeRange(m),
				SelectionRange: identRange(m.Name),
			})
		case *ast.MethodDecl:
			symbol.Children = append(symbol.Children, protocol.DocumentSymbol{
				Name:           m.Name.Name,
				Detail:         m.String(),
				Kind:           protocol.SymbolKindMethod,
				Range:          nodeRange(m),
				SelectionRange: identRange(m.Name),
			})
		}
	}
	return symbol
}

func nodeRange(n ast.Node) protocol.Range {
	return protocol.Range{Start: lspPosition(n.Pos()), End: lspPosition(n.End())}
}

func identRange(id *ast.Identifier) protocol.Range {
	return protocol.Range{Start: lspPosition(id.Pos()), End: lspPosition(id.End())}
}

// lspPosition 转换为 0-based 的 LSP 位置
func lspPosition(pos token.Position) protocol.Position {
	line, col := pos.Line-1, pos.Column-1
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	return protocol.Position{Line: uint32(line), Character: uint32(col)}
}
