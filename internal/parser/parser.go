package parser

import (
	"strings"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/lexer"
	"github.com/tangzhangming/jpy/internal/token"
)

// TokenSource 语法分析器消费的 Token 流
//
// Peek(0) 为当前 Token；越过末尾时应返回 EOF。
type TokenSource interface {
	Peek(k int) token.Token
	Consume() token.Token
}

// Parser 语法分析器
type Parser struct {
	src       TokenSource
	filename  string
	prev      token.Token // 上一个被消费的 token
	className string      // 当前所在类名，用于识别构造器
	exprDepth int         // 表达式解析深度，防止栈溢出
}

// maxExprDepth 最大表达式嵌套深度，防止栈溢出
const maxExprDepth = 200

// maxTypeLookahead 判断类型时最多向前看的 token 数
const maxTypeLookahead = 64

// New 创建一个新的语法分析器
func New(src TokenSource, filename string) *Parser {
	return &Parser{
		src:      src,
		filename: filename,
	}
}

// ParseSource 对源代码做词法和语法分析
//
// 词法错误以 lexer.Error 返回，语法错误以 *SyntaxError 返回。
func ParseSource(source, filename string) (*ast.File, error) {
	stream, err := lexer.Tokenize(source, filename)
	if err != nil {
		return nil, err
	}
	return New(stream, filename).Parse()
}

// Parse 解析整个编译单元
//
// 出错时返回第一个 *SyntaxError，此时语法树为 nil。
func (p *Parser) Parse() (file *ast.File, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			file = nil
			err = b.err
		}
	}()
	return p.parseFile(), nil
}

// ============================================================================
// 辅助方法
// ============================================================================

func (p *Parser) peek() token.Token {
	return p.src.Peek(0)
}

func (p *Parser) peekAt(k int) token.Token {
	return p.src.Peek(k)
}

func (p *Parser) advance() token.Token {
	p.prev = p.src.Consume()
	return p.prev
}

func (p *Parser) check(t token.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) checkAt(k int, t token.TokenType) bool {
	return p.peekAt(k).Type == t
}

func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

// expect 消费指定类型的 token，不匹配时报 MissingToken
func (p *Parser) expect(t token.TokenType) token.Token {
	if p.check(t) {
		return p.advance()
	}
	found := p.peek()
	expected := "'" + t.String() + "'"
	p.fail(MissingToken, found, expected, i18n.T(i18n.ErrExpectedToken, expected, found.Describe()))
	return token.Token{}
}

// expectIdent 消费一个标识符
func (p *Parser) expectIdent() *ast.Identifier {
	if !p.check(token.IDENT) {
		found := p.peek()
		p.fail(MissingToken, found, "identifier", i18n.T(i18n.ErrExpectedIdent, found.Describe()))
	}
	tok := p.advance()
	return &ast.Identifier{Token: tok, Name: tok.Literal}
}

// fail 终止解析
func (p *Parser) fail(kind ErrorKind, found token.Token, expected, message string) {
	panic(bailout{err: &SyntaxError{
		Kind:     kind,
		Pos:      found.Pos,
		Expected: expected,
		Found:    found,
		Message:  message,
	}})
}

// unexpected 以当前 token 报 UnexpectedToken
func (p *Parser) unexpected(message string) {
	p.fail(UnexpectedToken, p.peek(), "", message)
}

// malformed 以指定 token 报 MalformedDeclaration
func (p *Parser) malformed(at token.Token, message string) {
	p.fail(MalformedDeclaration, at, "", message)
}

// ============================================================================
// 编译单元
// ============================================================================

func (p *Parser) parseFile() *ast.File {
	file := &ast.File{Filename: p.filename}

	if p.check(token.PACKAGE) {
		kw := p.advance()
		name := p.parseQualifiedName()
		file.Package = &ast.PackageDecl{
			PackageToken: kw,
			Name:         name,
			Semicolon:    p.expect(token.SEMICOLON),
		}
	}

	for p.check(token.IMPORT) {
		file.Imports = append(file.Imports, p.parseImport())
	}

	for !p.check(token.EOF) {
		if p.match(token.SEMICOLON) {
			continue
		}
		file.Declarations = append(file.Declarations, p.parseTypeDeclaration())
	}
	file.EOF = p.peek()

	if len(file.Declarations) == 0 {
		p.malformed(file.EOF, i18n.T(i18n.ErrNoClass))
	}
	return file
}

func (p *Parser) parseImport() *ast.ImportDecl {
	imp := &ast.ImportDecl{ImportToken: p.advance()}
	imp.Static = p.match(token.STATIC)

	var sb strings.Builder
	sb.WriteString(p.expectIdent().Name)
	for p.match(token.DOT) {
		sb.WriteByte('.')
		if p.match(token.STAR) {
			sb.WriteByte('*')
			break
		}
		sb.WriteString(p.expectIdent().Name)
	}
	imp.Path = sb.String()
	imp.Semicolon = p.expect(token.SEMICOLON)
	return imp
}

// parseQualifiedName 解析 a.b.c
func (p *Parser) parseQualifiedName() string {
	var sb strings.Builder
	sb.WriteString(p.expectIdent().Name)
	for p.check(token.DOT) && p.checkAt(1, token.IDENT) {
		p.advance()
		sb.WriteByte('.')
		sb.WriteString(p.advance().Literal)
	}
	return sb.String()
}

// ============================================================================
// 修饰符与注解
// ============================================================================

func (p *Parser) parseAnnotationsAndModifiers() ([]*ast.Annotation, ast.Modifiers) {
	var anns []*ast.Annotation
	var mods ast.Modifiers
	for {
		switch {
		case p.check(token.AT) && !p.checkAt(1, token.INTERFACE):
			anns = append(anns, p.parseAnnotation())
		case token.IsModifier(p.peek().Type):
			mods = append(mods, p.advance())
		case p.check(token.DEFAULT) && !p.checkAt(1, token.COLON) && !p.checkAt(1, token.ARROW):
			// 接口默认方法的 default 修饰符
			mods = append(mods, p.advance())
		default:
			return anns, mods
		}
	}
}

// parseAnnotation 解析 @Name 或 @Name(...)，参数只做括号匹配
func (p *Parser) parseAnnotation() *ast.Annotation {
	at := p.advance()
	ann := &ast.Annotation{At: at, Name: p.parseQualifiedName()}
	ann.EndPos = p.prev.End()

	if p.check(token.LPAREN) {
		p.advance()
		var parts []string
		depth := 1
		for depth > 0 {
			tok := p.peek()
			switch tok.Type {
			case token.EOF:
				p.expect(token.RPAREN)
			case token.LPAREN:
				depth++
			case token.RPAREN:
				depth--
			}
			p.advance()
			if depth > 0 {
				parts = append(parts, tok.Literal)
			}
		}
		ann.Args = strings.Join(parts, " ")
		ann.EndPos = p.prev.End()
	}
	return ann
}

// ============================================================================
// 类型声明
// ============================================================================

func (p *Parser) parseTypeDeclaration() ast.Declaration {
	anns, mods := p.parseAnnotationsAndModifiers()

	switch p.peek().Type {
	case token.CLASS:
		return p.parseClass(anns, mods)
	case token.INTERFACE:
		kw := p.advance()
		name := p.expectIdent()
		return &ast.InterfaceDecl{
			Annotations:    anns,
			Modifiers:      mods,
			InterfaceToken: kw,
			Name:           name,
			RBrace:         p.skipBody(),
		}
	case token.AT:
		// @interface 注解类型声明
		at := p.advance()
		p.advance()
		name := p.expectIdent()
		return &ast.InterfaceDecl{
			Annotations:    anns,
			Modifiers:      mods,
			InterfaceToken: at,
			Name:           name,
			RBrace:         p.skipBody(),
		}
	case token.ENUM:
		kw := p.advance()
		name := p.expectIdent()
		return &ast.EnumDecl{
			Annotations: anns,
			Modifiers:   mods,
			EnumToken:   kw,
			Name:        name,
			RBrace:      p.skipBody(),
		}
	default:
		found := p.peek()
		p.fail(MalformedDeclaration, found, "class", i18n.T(i18n.ErrExpectedDeclaration, found.Describe()))
		return nil
	}
}

// skipBody 跳过声明头部剩余部分和整个 {...} 主体，返回右花括号
func (p *Parser) skipBody() token.Token {
	for !p.check(token.LBRACE) {
		if p.check(token.EOF) {
			p.expect(token.LBRACE)
		}
		p.advance()
	}
	p.advance()
	depth := 1
	for {
		tok := p.peek()
		switch tok.Type {
		case token.EOF:
			p.expect(token.RBRACE)
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
			if depth == 0 {
				return p.advance()
			}
		}
		p.advance()
	}
}

func (p *Parser) parseClass(anns []*ast.Annotation, mods ast.Modifiers) *ast.ClassDecl {
	class := &ast.ClassDecl{
		Annotations: anns,
		Modifiers:   mods,
		ClassToken:  p.advance(),
		Name:        p.expectIdent(),
	}

	if p.check(token.LT) {
		class.TypeParams = p.parseTypeParameters()
	}
	if p.match(token.EXTENDS) {
		class.Extends = p.parseType()
	}
	if p.match(token.IMPLEMENTS) {
		for {
			class.Implements = append(class.Implements, p.parseType())
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	p.expect(token.LBRACE)
	outer := p.className
	p.className = class.Name.Name
	for !p.check(token.RBRACE) {
		if p.check(token.EOF) {
			p.expect(token.RBRACE)
		}
		if p.match(token.SEMICOLON) {
			continue
		}
		class.Members = append(class.Members, p.parseMembers()...)
	}
	p.className = outer
	class.RBrace = p.advance()
	return class
}

// parseTypeParameters 解析 <T, U extends Comparable<U>>，只保留名称
func (p *Parser) parseTypeParameters() []*ast.Identifier {
	p.expect(token.LT)
	var params []*ast.Identifier
	for {
		params = append(params, p.expectIdent())
		if p.match(token.EXTENDS) {
			p.parseType()
			for p.match(token.BIT_AND) {
				p.parseType()
			}
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.GT)
	return params
}

// ============================================================================
// 类成员
// ============================================================================

// parseMembers 解析一个成员声明
//
// 一条字段声明可能声明多个名字，因此返回切片。
func (p *Parser) parseMembers() []ast.Member {
	anns, mods := p.parseAnnotationsAndModifiers()
	start := p.peek()

	switch start.Type {
	case token.CLASS, token.INTERFACE, token.ENUM:
		p.malformed(start, i18n.T(i18n.ErrNestedClass))
	case token.AT:
		p.malformed(start, i18n.T(i18n.ErrNestedClass))
	case token.LBRACE:
		p.malformed(start, i18n.T(i18n.ErrInitializerBlock))
	}

	var typeParams []*ast.Identifier
	if p.check(token.LT) {
		typeParams = p.parseTypeParameters()
	}

	// 构造器：与类同名的标识符后紧跟 (
	if p.check(token.IDENT) && p.checkAt(1, token.LPAREN) {
		name := p.peek()
		if name.Literal != p.className {
			p.malformed(name, i18n.T(i18n.ErrMissingReturnType, name.Literal, p.className))
		}
		return []ast.Member{p.parseConstructor(anns, mods)}
	}

	typ := p.parseType()
	name := p.expectIdent()

	if p.check(token.LPAREN) {
		return []ast.Member{p.parseMethod(anns, mods, typeParams, typ, name)}
	}
	if len(typeParams) > 0 {
		p.expect(token.LPAREN)
	}

	var fields []ast.Member
	first := true
	for {
		if !first {
			name = p.expectIdent()
		}
		fieldType := typ
		if !first {
			fieldType = cloneType(typ)
		}
		fieldType = p.parseArraySuffix(fieldType)
		field := &ast.FieldDecl{
			Annotations: anns,
			Modifiers:   mods,
			Type:        fieldType,
			Name:        name,
		}
		if p.match(token.ASSIGN) {
			field.Value = p.parseVariableInitializer()
		}
		fields = append(fields, field)
		first = false
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.SEMICOLON)
	return fields
}

func (p *Parser) parseConstructor(anns []*ast.Annotation, mods ast.Modifiers) *ast.ConstructorDecl {
	ctor := &ast.ConstructorDecl{
		Annotations: anns,
		Modifiers:   mods,
		Name:        p.expectIdent(),
	}
	ctor.Params = p.parseParameters()
	ctor.Throws = p.parseThrows()
	ctor.Body = p.parseBlock()
	return ctor
}

func (p *Parser) parseMethod(anns []*ast.Annotation, mods ast.Modifiers, typeParams []*ast.Identifier,
	returnType ast.TypeNode, name *ast.Identifier) *ast.MethodDecl {
	method := &ast.MethodDecl{
		Annotations: anns,
		Modifiers:   mods,
		TypeParams:  typeParams,
		ReturnType:  returnType,
		Name:        name,
	}
	method.Params = p.parseParameters()
	method.ReturnType = p.parseArraySuffix(method.ReturnType)
	method.Throws = p.parseThrows()

	if p.check(token.SEMICOLON) {
		method.EndPos = p.advance().End()
		return method
	}
	method.Body = p.parseBlock()
	method.EndPos = method.Body.End()
	return method
}

func (p *Parser) parseParameters() []*ast.Parameter {
	p.expect(token.LPAREN)
	var params []*ast.Parameter
	if p.match(token.RPAREN) {
		return params
	}
	for {
		_, mods := p.parseAnnotationsAndModifiers()
		param := &ast.Parameter{Modifiers: mods, Type: p.parseType()}
		if p.match(token.ELLIPSIS) {
			param.Variadic = true
		}
		param.Name = p.expectIdent()
		param.Type = p.parseArraySuffix(param.Type)
		params = append(params, param)

		if param.Variadic || !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

// parseThrows 解析并丢弃 throws 子句中的类型
func (p *Parser) parseThrows() []ast.TypeNode {
	if !p.match(token.THROWS) {
		return nil
	}
	var types []ast.TypeNode
	for {
		types = append(types, p.parseType())
		if !p.match(token.COMMA) {
			return types
		}
	}
}

// parseVariableInitializer 解析变量初始化值，允许 {...} 数组初始化器
func (p *Parser) parseVariableInitializer() ast.Expression {
	if p.check(token.LBRACE) {
		return p.parseArrayLiteral()
	}
	return p.parseExpression()
}

func (p *Parser) parseArrayLiteral() *ast.ArrayLiteral {
	lit := &ast.ArrayLiteral{LBrace: p.expect(token.LBRACE)}
	for !p.check(token.RBRACE) {
		lit.Elements = append(lit.Elements, p.parseVariableInitializer())
		if !p.match(token.COMMA) {
			break
		}
	}
	lit.RBrace = p.expect(token.RBRACE)
	return lit
}
