package parser

import (
	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/token"
)

// ============================================================================
// 类型解析
// ============================================================================

// parseType 解析完整类型（含数组后缀）
func (p *Parser) parseType() ast.TypeNode {
	return p.parseArraySuffix(p.parseNonArrayType())
}

// parseNonArrayType 解析基本类型或（可能带泛型参数的）类名
func (p *Parser) parseNonArrayType() ast.TypeNode {
	tok := p.peek()
	if token.IsPrimitiveType(tok.Type) {
		p.advance()
		return &ast.SimpleType{Token: tok, Name: tok.Literal}
	}
	if tok.Type != token.IDENT {
		p.fail(UnexpectedToken, tok, "type", i18n.T(i18n.ErrExpectedType, tok.Describe()))
	}

	if p.skipPackage() {
		tok = p.peek()
	}
	base := &ast.SimpleType{Token: tok, Name: p.parseQualifiedName()}
	if !p.check(token.LT) {
		return base
	}

	p.advance()
	generic := &ast.GenericType{Base: base}
	if !p.check(token.GT) {
		for {
			generic.Args = append(generic.Args, p.parseTypeArgument())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	generic.RAngle = p.expect(token.GT)
	return generic
}

// skipPackage 跳过 java. / javax. 开头的包名，停在类名上
//
// 标准库类的全限定名按简单类名处理：java.util.ArrayList 即 ArrayList。
func (p *Parser) skipPackage() bool {
	tok := p.peek()
	if tok.Type != token.IDENT || (tok.Literal != "java" && tok.Literal != "javax") {
		return false
	}
	for k := 1; p.checkAt(k, token.DOT) && p.checkAt(k+1, token.IDENT); k += 2 {
		name := p.peekAt(k + 1).Literal
		if name[0] < 'A' || name[0] > 'Z' {
			continue
		}
		for i := 0; i <= k; i++ {
			p.advance()
		}
		return true
	}
	return false
}

// parseTypeArgument 解析类型实参，通配符的边界被丢弃
func (p *Parser) parseTypeArgument() ast.TypeNode {
	if p.check(token.QUESTION) {
		q := p.advance()
		if p.match(token.EXTENDS) || p.match(token.SUPER) {
			return p.parseType()
		}
		return &ast.SimpleType{Token: q, Name: "Object"}
	}
	return p.parseType()
}

// parseArraySuffix 解析类型或声明符之后的 [] 对
func (p *Parser) parseArraySuffix(t ast.TypeNode) ast.TypeNode {
	for p.check(token.LBRACKET) && p.checkAt(1, token.RBRACKET) {
		p.advance()
		t = &ast.ArrayType{ElementType: t, RBracket: p.advance()}
	}
	return t
}

// typeLength 从第 k 个 token 开始判断是否是一个类型
//
// 返回类型占用的 token 数，不是类型时返回 0。只向前看，不消费 token。
func (p *Parser) typeLength(k int) int {
	start := k
	tok := p.peekAt(k)
	switch {
	case token.IsPrimitiveType(tok.Type):
		k++
	case tok.Type == token.IDENT:
		k++
		for p.checkAt(k, token.DOT) && p.checkAt(k+1, token.IDENT) {
			k += 2
		}
		if p.checkAt(k, token.LT) {
			n := p.typeArgsLength(k)
			if n == 0 {
				return 0
			}
			k += n
		}
	default:
		return 0
	}
	for p.checkAt(k, token.LBRACKET) && p.checkAt(k+1, token.RBRACKET) {
		k += 2
	}
	return k - start
}

// typeArgsLength 判断第 k 个 token 开始是否为 <...> 类型实参列表
func (p *Parser) typeArgsLength(k int) int {
	start := k
	depth := 0
	for k-start < maxTypeLookahead {
		switch p.peekAt(k).Type {
		case token.LT:
			depth++
		case token.GT:
			depth--
			if depth == 0 {
				return k - start + 1
			}
		case token.IDENT, token.DOT, token.COMMA, token.QUESTION, token.EXTENDS, token.SUPER,
			token.LBRACKET, token.RBRACKET, token.BIT_AND:
		default:
			if !token.IsPrimitiveType(p.peekAt(k).Type) {
				return 0
			}
		}
		k++
	}
	return 0
}

// cloneType 复制类型节点，用于多声明符拆分后各自持有独立的类型
func cloneType(t ast.TypeNode) ast.TypeNode {
	switch n := t.(type) {
	case *ast.SimpleType:
		c := *n
		return &c
	case *ast.ArrayType:
		return &ast.ArrayType{ElementType: cloneType(n.ElementType), RBracket: n.RBracket}
	case *ast.GenericType:
		g := &ast.GenericType{Base: cloneType(n.Base).(*ast.SimpleType), RAngle: n.RAngle}
		for _, a := range n.Args {
			g.Args = append(g.Args, cloneType(a))
		}
		return g
	default:
		panic("parser.cloneType: unexpected type node")
	}
}
