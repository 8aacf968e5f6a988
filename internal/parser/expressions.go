package parser

import (
	"math/big"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/token"
)

// ============================================================================
// 表达式解析 (Pratt Parser / 优先级攀升)
// ============================================================================

// 运算符优先级
const (
	PREC_NONE       = iota
	PREC_ASSIGNMENT // =, +=, -=, ...
	PREC_TERNARY    // ?:
	PREC_OR         // ||
	PREC_AND        // &&
	PREC_BIT_OR     // |
	PREC_BIT_XOR    // ^
	PREC_BIT_AND    // &
	PREC_EQUALITY   // ==, !=
	PREC_COMPARISON // <, >, <=, >=, instanceof
	PREC_SHIFT      // <<, >>, >>>
	PREC_TERM       // +, -
	PREC_FACTOR     // *, /, %
	PREC_UNARY      // !, -, ~, ++, --, 类型转换
	PREC_POSTFIX    // ++, --, [], ., ::
)

func getPrecedence(t token.TokenType) int {
	if token.IsAssignOp(t) {
		return PREC_ASSIGNMENT
	}
	switch t {
	case token.QUESTION:
		return PREC_TERNARY
	case token.OR:
		return PREC_OR
	case token.AND:
		return PREC_AND
	case token.BIT_OR:
		return PREC_BIT_OR
	case token.BIT_XOR:
		return PREC_BIT_XOR
	case token.BIT_AND:
		return PREC_BIT_AND
	case token.EQ, token.NE:
		return PREC_EQUALITY
	case token.LT, token.LE, token.GT, token.GE, token.INSTANCEOF:
		return PREC_COMPARISON
	case token.SHL, token.SHR, token.USHR:
		return PREC_SHIFT
	case token.PLUS, token.MINUS:
		return PREC_TERM
	case token.STAR, token.SLASH, token.PERCENT:
		return PREC_FACTOR
	case token.LBRACKET, token.DOT, token.DOUBLE_COLON, token.INCREMENT, token.DECREMENT:
		return PREC_POSTFIX
	default:
		return PREC_NONE
	}
}

// peekOperator 返回当前位置的运算符及其占用的 token 数
//
// 词法分析器总是把 '>' 单独输出（以免破坏 List<List<T>>），
// 这里把紧邻的 '>' 组合为 >>、>>>、>>=、>>>=。
func (p *Parser) peekOperator() (token.TokenType, int) {
	t0 := p.peek()
	if t0.Type != token.GT {
		return t0.Type, 1
	}
	t1 := p.peekAt(1)
	if !adjacent(t0, t1) {
		return token.GT, 1
	}
	switch t1.Type {
	case token.GE:
		return token.SHR_ASSIGN, 2
	case token.GT:
		t2 := p.peekAt(2)
		if adjacent(t1, t2) {
			switch t2.Type {
			case token.GT:
				return token.USHR, 3
			case token.GE:
				return token.USHR_ASSIGN, 3
			}
		}
		return token.SHR, 2
	}
	return token.GT, 1
}

// consumeOperator 消费 n 个 token 并合成为一个运算符 token
func (p *Parser) consumeOperator(t token.TokenType, n int) token.Token {
	first := p.advance()
	for i := 1; i < n; i++ {
		p.advance()
	}
	if n == 1 {
		return first
	}
	return token.New(t, t.String(), first.Pos)
}

func adjacent(a, b token.Token) bool {
	return a.Pos.Line == b.Pos.Line && a.End().Column == b.Pos.Column
}

func (p *Parser) parseExpression() ast.Expression {
	p.exprDepth++
	defer func() { p.exprDepth-- }()
	if p.exprDepth > maxExprDepth {
		p.unexpected(i18n.T(i18n.ErrExprTooDeep))
	}
	return p.parsePrecedence(PREC_ASSIGNMENT)
}

func (p *Parser) parsePrecedence(precedence int) ast.Expression {
	left := p.parsePrefixExpr()
	for {
		op, n := p.peekOperator()
		prec := getPrecedence(op)
		if prec == PREC_NONE || prec < precedence {
			return left
		}
		left = p.parseInfixExpr(left, op, n)
	}
}

func (p *Parser) parsePrefixExpr() ast.Expression {
	tok := p.peek()
	switch tok.Type {
	case token.INT:
		p.advance()
		return &ast.IntegerLiteral{Token: tok, Value: tok.Value.(*big.Int)}
	case token.FLOAT:
		p.advance()
		return &ast.FloatLiteral{Token: tok, Value: tok.Value.(float64)}
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Value.(string)}
	case token.CHAR:
		p.advance()
		return &ast.CharLiteral{Token: tok, Value: tok.Value.(rune)}
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.BoolLiteral{Token: tok, Value: tok.Type == token.TRUE}
	case token.NULL:
		p.advance()
		return &ast.NullLiteral{Token: tok}

	case token.IDENT:
		if p.checkAt(1, token.ARROW) {
			return p.parseLambda()
		}
		if p.skipPackage() {
			tok = p.peek()
		}
		p.advance()
		name := &ast.Identifier{Token: tok, Name: tok.Literal}
		if p.check(token.LPAREN) {
			args, rparen := p.parseArguments()
			return &ast.MethodCall{Name: name, Args: args, RParen: rparen}
		}
		return name

	case token.THIS:
		p.advance()
		if p.check(token.LPAREN) {
			args, rparen := p.parseArguments()
			return &ast.CtorCall{Token: tok, Args: args, RParen: rparen}
		}
		return &ast.ThisExpr{Token: tok}

	case token.SUPER:
		p.advance()
		switch {
		case p.check(token.LPAREN):
			args, rparen := p.parseArguments()
			return &ast.CtorCall{Token: tok, Args: args, RParen: rparen}
		case p.check(token.DOT), p.check(token.DOUBLE_COLON):
			return &ast.SuperExpr{Token: tok}
		}
		p.expect(token.DOT)

	case token.LPAREN:
		return p.parseParenExpr()

	case token.NEW:
		return p.parseNewExpr()

	case token.MINUS, token.PLUS, token.NOT, token.BIT_NOT:
		p.advance()
		return &ast.UnaryExpr{Operator: tok, Operand: p.parsePrecedence(PREC_UNARY)}

	case token.INCREMENT, token.DECREMENT:
		p.advance()
		operand := p.parsePrecedence(PREC_UNARY)
		p.checkIncDecTarget(tok, operand)
		return &ast.UnaryExpr{Operator: tok, Operand: operand}

	case token.LBRACE:
		p.unexpected(i18n.T(i18n.ErrArrayInitContext))
	}

	p.fail(UnexpectedToken, tok, "expression", i18n.T(i18n.ErrExpectedExpression, tok.Describe()))
	return nil
}

func (p *Parser) parseInfixExpr(left ast.Expression, op token.TokenType, n int) ast.Expression {
	if token.IsAssignOp(op) {
		return p.parseAssignExpr(left, op, n)
	}
	switch op {
	case token.QUESTION:
		return p.parseTernaryExpr(left)
	case token.INSTANCEOF:
		kw := p.advance()
		return &ast.InstanceOfExpr{Left: left, Token: kw, Type: p.parseType()}
	case token.DOT:
		return p.parseDotAccess(left)
	case token.LBRACKET:
		p.advance()
		index := p.parseExpression()
		return &ast.IndexExpr{Object: left, Index: index, RBracket: p.expect(token.RBRACKET)}
	case token.DOUBLE_COLON:
		dc := p.advance()
		var name *ast.Identifier
		if p.check(token.NEW) {
			tok := p.advance()
			name = &ast.Identifier{Token: tok, Name: "new"}
		} else {
			name = p.expectIdent()
		}
		return &ast.MethodRefExpr{Target: left, DoubleColon: dc, Name: name}
	case token.INCREMENT, token.DECREMENT:
		tok := p.advance()
		p.checkIncDecTarget(tok, left)
		return &ast.PostfixExpr{Operand: left, Operator: tok}
	}

	// 二元运算符（左结合）
	opTok := p.consumeOperator(op, n)
	right := p.parsePrecedence(getPrecedence(op) + 1)
	return &ast.BinaryExpr{Left: left, Operator: opTok, Right: right}
}

func (p *Parser) parseAssignExpr(left ast.Expression, op token.TokenType, n int) ast.Expression {
	if !isAssignable(left) {
		p.unexpected(i18n.T(i18n.ErrInvalidAssignTarget))
	}
	opTok := p.consumeOperator(op, n)
	if p.check(token.LBRACE) {
		p.unexpected(i18n.T(i18n.ErrArrayInitContext))
	}
	right := p.parsePrecedence(PREC_ASSIGNMENT)
	return &ast.AssignExpr{Left: left, Operator: opTok, Right: right}
}

// isAssignable 检查表达式是否是有效的赋值目标
func isAssignable(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.Identifier, *ast.FieldAccess, *ast.IndexExpr:
		return true
	default:
		return false
	}
}

func (p *Parser) checkIncDecTarget(op token.Token, operand ast.Expression) {
	if !isAssignable(operand) {
		p.fail(UnexpectedToken, op, "", i18n.T(i18n.ErrInvalidIncDecTarget, op.Literal))
	}
}

func (p *Parser) parseTernaryExpr(left ast.Expression) ast.Expression {
	question := p.advance()
	then := p.parseExpression()
	p.expect(token.COLON)
	elseExpr := p.parsePrecedence(PREC_TERNARY)
	return &ast.TernaryExpr{
		Condition: left,
		Question:  question,
		Then:      then,
		Else:      elseExpr,
	}
}

// parseDotAccess 解析 .name 或 .name(args)
func (p *Parser) parseDotAccess(left ast.Expression) ast.Expression {
	p.advance()
	if p.check(token.LT) {
		// 显式泛型方法调用 obj.<T>m()，类型实参被丢弃
		p.parseTypeParameters()
	}
	name := p.expectIdent()
	if p.check(token.LPAREN) {
		args, rparen := p.parseArguments()
		return &ast.MethodCall{Object: left, Name: name, Args: args, RParen: rparen}
	}
	return &ast.FieldAccess{Object: left, Name: name}
}

func (p *Parser) parseArguments() ([]ast.Expression, token.Token) {
	p.expect(token.LPAREN)
	var args []ast.Expression
	if !p.check(token.RPAREN) {
		for {
			args = append(args, p.parseExpression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	return args, p.expect(token.RPAREN)
}

// parseParenExpr 解析以 ( 开头的表达式：lambda、类型转换或括号表达式
func (p *Parser) parseParenExpr() ast.Expression {
	if p.isLambdaParams() {
		return p.parseLambda()
	}

	lparen := p.peek()
	if n := p.typeLength(1); n > 0 && p.checkAt(1+n, token.RPAREN) {
		primitive := n == 1 && token.IsPrimitiveType(p.peekAt(1).Type)
		if primitive || startsCastOperand(p.peekAt(2+n).Type) {
			p.advance()
			typ := p.parseType()
			p.expect(token.RPAREN)
			return &ast.CastExpr{LParen: lparen, Type: typ, Operand: p.parsePrecedence(PREC_UNARY)}
		}
	}

	p.advance()
	expr := p.parseExpression()
	p.expect(token.RPAREN)
	return expr
}

// startsCastOperand 引用类型转换之后允许出现的 token
//
// 与 Java 一致：+、- 不在其中，因此 (a) - b 是减法。
func startsCastOperand(t token.TokenType) bool {
	switch t {
	case token.IDENT, token.INT, token.FLOAT, token.CHAR, token.STRING,
		token.TRUE, token.FALSE, token.NULL, token.THIS, token.SUPER, token.NEW,
		token.LPAREN, token.NOT, token.BIT_NOT:
		return true
	}
	return false
}

// isLambdaParams 判断当前 ( 是否开始一个 lambda 参数表
func (p *Parser) isLambdaParams() bool {
	depth := 0
	for k := 0; k < maxTypeLookahead; k++ {
		switch p.peekAt(k).Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return p.checkAt(k+1, token.ARROW)
			}
		case token.EOF, token.SEMICOLON, token.LBRACE, token.RBRACE:
			return false
		}
	}
	return false
}

// parseLambda 解析 x -> ...、(x, y) -> ...、(int x) -> ...
func (p *Parser) parseLambda() ast.Expression {
	lambda := &ast.LambdaExpr{Start: p.peek()}
	if p.check(token.IDENT) {
		lambda.Params = append(lambda.Params, p.expectIdent())
	} else {
		p.expect(token.LPAREN)
		for !p.check(token.RPAREN) {
			p.parseAnnotationsAndModifiers()
			if p.checkAt(1, token.COMMA) || p.checkAt(1, token.RPAREN) {
				lambda.Params = append(lambda.Params, p.expectIdent())
			} else {
				p.parseType()
				lambda.Params = append(lambda.Params, p.expectIdent())
			}
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
	}
	lambda.Arrow = p.expect(token.ARROW)
	if p.check(token.LBRACE) {
		lambda.Body = p.parseBlock()
	} else {
		lambda.Body = p.parseExpression()
	}
	return lambda
}

// parseNewExpr 解析对象与数组创建
func (p *Parser) parseNewExpr() ast.Expression {
	newTok := p.advance()
	typ := p.parseNonArrayType()

	if p.check(token.LBRACKET) {
		arr := &ast.NewArrayExpr{NewToken: newTok, ElementType: typ}
		for p.check(token.LBRACKET) {
			p.advance()
			if p.check(token.RBRACKET) {
				arr.ExtraDims++
				arr.EndPos = p.advance().End()
				continue
			}
			if arr.ExtraDims > 0 {
				p.expect(token.RBRACKET)
			}
			arr.Dims = append(arr.Dims, p.parseExpression())
			arr.EndPos = p.expect(token.RBRACKET).End()
		}
		if p.check(token.LBRACE) {
			if len(arr.Dims) > 0 {
				p.unexpected(i18n.T(i18n.ErrArrayInitContext))
			}
			arr.Init = p.parseArrayLiteral()
			arr.EndPos = arr.Init.End()
		} else if len(arr.Dims) == 0 {
			found := p.peek()
			p.fail(MissingToken, found, "'{'", i18n.T(i18n.ErrExpectedToken, "'{'", found.Describe()))
		}
		return arr
	}

	if st, ok := typ.(*ast.SimpleType); ok && token.IsPrimitiveType(st.Token.Type) {
		p.expect(token.LBRACKET)
	}
	args, rparen := p.parseArguments()
	if p.check(token.LBRACE) {
		p.malformed(p.peek(), i18n.T(i18n.ErrAnonymousClass))
	}
	return &ast.NewExpr{NewToken: newTok, Type: typ, Args: args, RParen: rparen}
}
