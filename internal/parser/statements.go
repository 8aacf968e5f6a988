package parser

import (
	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/token"
)

// ============================================================================
// 语句解析
// ============================================================================

func (p *Parser) parseBlock() *ast.BlockStmt {
	block := &ast.BlockStmt{LBrace: p.expect(token.LBRACE)}
	for !p.check(token.RBRACE) {
		if p.check(token.EOF) {
			p.expect(token.RBRACE)
		}
		block.Statements = append(block.Statements, p.parseBlockStatement()...)
	}
	block.RBrace = p.advance()
	return block
}

// parseBlockStatement 解析块中的一条语句
//
// 局部变量声明 `T a = x, b = y;` 会被拆分为多条 VarDeclStmt。
func (p *Parser) parseBlockStatement() []ast.Statement {
	if p.isLocalVarDecl(0) {
		decls := p.parseLocalVarDecl()
		p.expect(token.SEMICOLON)
		return decls
	}
	return []ast.Statement{p.parseStatement()}
}

// isLocalVarDecl 用有限前瞻判断第 k 个 token 开始是否是局部变量声明
//
// 形如 `Type name =`、`Type name;`、`Type name,`、`Type name:` 的序列被视为声明，
// 不带类型前缀的 `name = ...` 则是赋值。
func (p *Parser) isLocalVarDecl(k int) bool {
	switch p.peekAt(k).Type {
	case token.FINAL, token.AT:
		return true
	}
	n := p.typeLength(k)
	if n == 0 || !p.checkAt(k+n, token.IDENT) {
		return false
	}
	switch p.peekAt(k + n + 1).Type {
	case token.ASSIGN, token.SEMICOLON, token.COMMA, token.COLON, token.LBRACKET:
		return true
	}
	return false
}

func (p *Parser) parseLocalVarDecl() []ast.Statement {
	_, mods := p.parseAnnotationsAndModifiers()
	typ := p.parseType()

	var decls []ast.Statement
	for i := 0; ; i++ {
		declType := typ
		if i > 0 {
			declType = cloneType(typ)
		}
		decl := &ast.VarDeclStmt{Modifiers: mods, Name: p.expectIdent()}
		decl.Type = p.parseArraySuffix(declType)
		if p.match(token.ASSIGN) {
			decl.Value = p.parseVariableInitializer()
		}
		decls = append(decls, decl)
		if !p.match(token.COMMA) {
			return decls
		}
	}
}

func (p *Parser) parseStatement() ast.Statement {
	tok := p.peek()
	switch tok.Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.DO:
		return p.parseDoWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.SWITCH:
		return p.parseSwitchStmt()
	case token.TRY:
		return p.parseTryStmt()
	case token.THROW:
		kw := p.advance()
		value := p.parseExpression()
		return &ast.ThrowStmt{ThrowToken: kw, Exception: value, Semicolon: p.expect(token.SEMICOLON)}
	case token.BREAK:
		kw := p.advance()
		p.rejectLabel(kw)
		return &ast.BreakStmt{Token: kw, Semicolon: p.expect(token.SEMICOLON)}
	case token.CONTINUE:
		kw := p.advance()
		p.rejectLabel(kw)
		return &ast.ContinueStmt{Token: kw, Semicolon: p.expect(token.SEMICOLON)}
	case token.RETURN:
		return p.parseReturnStmt()
	case token.SEMICOLON:
		return &ast.EmptyStmt{Semicolon: p.advance()}
	case token.CLASS, token.INTERFACE, token.ENUM:
		p.malformed(tok, i18n.T(i18n.ErrNestedClass))
	case token.SYNCHRONIZED, token.ASSERT, token.GOTO, token.CONST:
		p.fail(UnexpectedToken, tok, "", i18n.T(i18n.ErrUnsupportedStatement, tok.Literal))
	case token.IDENT:
		if p.checkAt(1, token.COLON) {
			p.fail(UnexpectedToken, tok, "", i18n.T(i18n.ErrUnsupportedStatement, "labeled"))
		}
	}
	return p.parseExprStmt()
}

// rejectLabel 不支持带标签的 break/continue
func (p *Parser) rejectLabel(kw token.Token) {
	if p.check(token.IDENT) {
		p.fail(UnexpectedToken, p.peek(), "';'", i18n.T(i18n.ErrUnsupportedStatement, "labeled "+kw.Literal))
	}
}

func (p *Parser) parseExprStmt() ast.Statement {
	start := p.peek()
	expr := p.parseExpression()
	switch e := expr.(type) {
	case *ast.AssignExpr, *ast.PostfixExpr, *ast.MethodCall, *ast.CtorCall, *ast.NewExpr:
	case *ast.UnaryExpr:
		if !e.IsIncDec() {
			p.fail(UnexpectedToken, start, "", i18n.T(i18n.ErrNotAStatement))
		}
	default:
		p.fail(UnexpectedToken, start, "", i18n.T(i18n.ErrNotAStatement))
	}
	return &ast.ExprStmt{Expr: expr, Semicolon: p.expect(token.SEMICOLON)}
}

// parseCondition 解析 ( expr )
func (p *Parser) parseCondition() ast.Expression {
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	return cond
}

// parseBody 解析循环体或分支体（单条语句）
func (p *Parser) parseBody() ast.Statement {
	if p.isLocalVarDecl(0) {
		p.unexpected(i18n.T(i18n.ErrUnsupportedStatement, "declaration"))
	}
	return p.parseStatement()
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	stmt := &ast.IfStmt{IfToken: p.advance()}
	stmt.Condition = p.parseCondition()
	stmt.Then = p.parseBody()
	if p.match(token.ELSE) {
		stmt.Else = p.parseBody()
	}
	return stmt
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	stmt := &ast.WhileStmt{WhileToken: p.advance()}
	stmt.Condition = p.parseCondition()
	stmt.Body = p.parseBody()
	return stmt
}

func (p *Parser) parseDoWhileStmt() *ast.DoWhileStmt {
	stmt := &ast.DoWhileStmt{DoToken: p.advance()}
	stmt.Body = p.parseBody()
	p.expect(token.WHILE)
	stmt.Condition = p.parseCondition()
	stmt.Semicolon = p.expect(token.SEMICOLON)
	return stmt
}

// parseForStmt 解析传统 for 与增强 for
func (p *Parser) parseForStmt() ast.Statement {
	forTok := p.advance()
	p.expect(token.LPAREN)

	if p.isForeachHeader() {
		p.parseAnnotationsAndModifiers()
		stmt := &ast.ForeachStmt{ForToken: forTok, VarType: p.parseType(), VarName: p.expectIdent()}
		p.expect(token.COLON)
		stmt.Iterable = p.parseExpression()
		p.expect(token.RPAREN)
		stmt.Body = p.parseBody()
		return stmt
	}

	stmt := &ast.ForStmt{ForToken: forTok}
	if !p.check(token.SEMICOLON) {
		if p.isLocalVarDecl(0) {
			stmt.Init = p.parseLocalVarDecl()
		} else {
			for {
				expr := p.parseExpression()
				stmt.Init = append(stmt.Init, &ast.ExprStmt{Expr: expr, Semicolon: p.peek()})
				if !p.match(token.COMMA) {
					break
				}
			}
		}
	}
	p.expect(token.SEMICOLON)

	if !p.check(token.SEMICOLON) {
		stmt.Condition = p.parseExpression()
	}
	p.expect(token.SEMICOLON)

	if !p.check(token.RPAREN) {
		for {
			stmt.Update = append(stmt.Update, p.parseExpression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN)
	stmt.Body = p.parseBody()
	return stmt
}

// isForeachHeader 判断 for ( 之后是否为 `Type name :`
func (p *Parser) isForeachHeader() bool {
	k := 0
	for p.checkAt(k, token.FINAL) {
		k++
	}
	n := p.typeLength(k)
	return n > 0 && p.checkAt(k+n, token.IDENT) && p.checkAt(k+n+1, token.COLON)
}

// parseSwitchStmt 解析 switch 语句
//
// 连续的空标签 `case 1: case 2:` 合并为同一个分支。
func (p *Parser) parseSwitchStmt() *ast.SwitchStmt {
	stmt := &ast.SwitchStmt{SwitchToken: p.advance()}
	stmt.Subject = p.parseCondition()
	p.expect(token.LBRACE)

	var pending *ast.SwitchCase
	for !p.check(token.RBRACE) {
		tok := p.peek()
		switch tok.Type {
		case token.CASE, token.DEFAULT:
		case token.EOF:
			p.expect(token.RBRACE)
		default:
			p.fail(UnexpectedToken, tok, "'case'", i18n.T(i18n.ErrExpectedToken, "'case'", tok.Describe()))
		}

		c := pending
		if c == nil {
			c = &ast.SwitchCase{CaseToken: tok}
		}
		pending = nil

		p.advance()
		if tok.Type == token.DEFAULT {
			c.IsDefault = true
		} else {
			for {
				c.Values = append(c.Values, p.parseCaseLabel())
				if !p.match(token.COMMA) {
					break
				}
			}
		}

		if p.match(token.ARROW) {
			c.Arrow = true
			c.Body = []ast.Statement{p.parseArrowCaseBody()}
			stmt.Cases = append(stmt.Cases, c)
			continue
		}
		p.expect(token.COLON)

		if p.check(token.CASE) || p.check(token.DEFAULT) {
			pending = c
			continue
		}
		for !p.check(token.CASE) && !p.check(token.DEFAULT) && !p.check(token.RBRACE) {
			if p.check(token.EOF) {
				p.expect(token.RBRACE)
			}
			c.Body = append(c.Body, p.parseBlockStatement()...)
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	if pending != nil {
		stmt.Cases = append(stmt.Cases, pending)
	}
	stmt.RBrace = p.advance()
	return stmt
}

// parseCaseLabel 解析 case 标签；`case RED ->` 中的 RED 不是 lambda 参数
func (p *Parser) parseCaseLabel() ast.Expression {
	if p.check(token.IDENT) && p.checkAt(1, token.ARROW) {
		return p.expectIdent()
	}
	return p.parsePrecedence(PREC_TERNARY)
}

// parseArrowCaseBody 解析 `case X -> ...` 之后的块、throw 或表达式
func (p *Parser) parseArrowCaseBody() ast.Statement {
	switch p.peek().Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.THROW:
		return p.parseStatement()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseTryStmt() *ast.TryStmt {
	stmt := &ast.TryStmt{TryToken: p.advance()}
	if p.check(token.LPAREN) {
		p.unexpected(i18n.T(i18n.ErrTryWithResources))
	}
	stmt.Body = p.parseBlock()

	for p.check(token.CATCH) {
		clause := &ast.CatchClause{CatchToken: p.advance()}
		p.expect(token.LPAREN)
		p.parseAnnotationsAndModifiers()
		for {
			clause.Types = append(clause.Types, p.parseType())
			if !p.match(token.BIT_OR) {
				break
			}
		}
		clause.Name = p.expectIdent()
		p.expect(token.RPAREN)
		clause.Body = p.parseBlock()
		stmt.Catches = append(stmt.Catches, clause)
	}
	if p.match(token.FINALLY) {
		stmt.Finally = p.parseBlock()
	}

	if len(stmt.Catches) == 0 && stmt.Finally == nil {
		found := p.peek()
		p.fail(MissingToken, found, "'catch'", i18n.T(i18n.ErrTryWithoutHandler))
	}
	return stmt
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	stmt := &ast.ReturnStmt{ReturnToken: p.advance()}
	if !p.check(token.SEMICOLON) {
		stmt.Value = p.parseExpression()
	}
	stmt.Semicolon = p.expect(token.SEMICOLON)
	return stmt
}
