package ast

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/tangzhangming/jpy/internal/token"
)

// Node 是所有 AST 节点的基接口
type Node interface {
	Pos() token.Position // 返回节点在源代码中的位置
	End() token.Position // 返回节点结束位置
	String() string      // 返回节点的字符串表示（用于调试）
}

// Expression 表示一个表达式节点
type Expression interface {
	Node
	exprNode()
}

// Statement 表示一个语句节点
type Statement interface {
	Node
	stmtNode()
}

// Declaration 表示一个顶层声明节点
type Declaration interface {
	Node
	declNode()
}

// Member 表示类成员（字段、构造器、方法）
type Member interface {
	Node
	memberNode()
}

// TypeNode 表示类型节点
type TypeNode interface {
	Node
	typeNode()
}

// ============================================================================
// 修饰符与注解
// ============================================================================

// Modifiers 修饰符列表（只解析，不做语义约束）
type Modifiers []token.Token

// Has 判断是否包含指定修饰符
func (m Modifiers) Has(t token.TokenType) bool {
	for _, tok := range m {
		if tok.Type == t {
			return true
		}
	}
	return false
}

// IsStatic 是否为 static
func (m Modifiers) IsStatic() bool { return m.Has(token.STATIC) }

func (m Modifiers) String() string {
	parts := make([]string, len(m))
	for i, tok := range m {
		parts[i] = tok.Literal
	}
	return strings.Join(parts, " ")
}

// Annotation 注解 (@Override, @SuppressWarnings("x"))
//
// 参数只做括号匹配后保留原文。
type Annotation struct {
	At     token.Token
	Name   string
	Args   string
	EndPos token.Position
}

func (a *Annotation) Pos() token.Position { return a.At.Pos }
func (a *Annotation) End() token.Position { return a.EndPos }
func (a *Annotation) String() string {
	if a.Args != "" {
		return "@" + a.Name + "(" + a.Args + ")"
	}
	return "@" + a.Name
}

// ============================================================================
// 类型节点
// ============================================================================

// SimpleType 简单类型 (int, String, java.util.List)
type SimpleType struct {
	Token token.Token // 第一个 token
	Name  string      // 类型名称（限定名以 . 连接）
}

func (t *SimpleType) Pos() token.Position { return t.Token.Pos }
func (t *SimpleType) End() token.Position {
	end := t.Token.Pos
	end.Column += len(t.Name)
	end.Offset += len(t.Name)
	return end
}
func (t *SimpleType) String() string { return t.Name }
func (t *SimpleType) typeNode()      {}

// ArrayType 数组类型 (int[])
type ArrayType struct {
	ElementType TypeNode
	RBracket    token.Token
}

func (t *ArrayType) Pos() token.Position { return t.ElementType.Pos() }
func (t *ArrayType) End() token.Position { return t.RBracket.End() }
func (t *ArrayType) String() string      { return t.ElementType.String() + "[]" }
func (t *ArrayType) typeNode()           {}

// GenericType 泛型类型 (List<String>, Map<K, V>, ArrayList<>)
//
// 类型参数只在语法上保留，不做校验。Args 为空表示菱形 <>。
type GenericType struct {
	Base   *SimpleType
	Args   []TypeNode
	RAngle token.Token
}

func (t *GenericType) Pos() token.Position { return t.Base.Pos() }
func (t *GenericType) End() token.Position { return t.RAngle.End() }
func (t *GenericType) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Base.Name + "<" + strings.Join(args, ", ") + ">"
}
func (t *GenericType) typeNode() {}

// ============================================================================
// 表达式节点
// ============================================================================

// Identifier 标识符
type Identifier struct {
	Token token.Token
	Name  string
}

func (e *Identifier) Pos() token.Position { return e.Token.Pos }
func (e *Identifier) End() token.Position { return e.Token.End() }
func (e *Identifier) String() string      { return e.Name }
func (e *Identifier) exprNode()           {}

// IntegerLiteral 整数字面量（任意精度）
type IntegerLiteral struct {
	Token token.Token
	Value *big.Int
}

func (e *IntegerLiteral) Pos() token.Position { return e.Token.Pos }
func (e *IntegerLiteral) End() token.Position { return e.Token.End() }
func (e *IntegerLiteral) String() string      { return e.Value.String() }
func (e *IntegerLiteral) exprNode()           {}

// FloatLiteral 浮点数字面量
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (e *FloatLiteral) Pos() token.Position { return e.Token.Pos }
func (e *FloatLiteral) End() token.Position { return e.Token.End() }
func (e *FloatLiteral) String() string      { return strconv.FormatFloat(e.Value, 'g', -1, 64) }
func (e *FloatLiteral) exprNode()           {}

// StringLiteral 字符串字面量
type StringLiteral struct {
	Token token.Token
	Value string
}

func (e *StringLiteral) Pos() token.Position { return e.Token.Pos }
func (e *StringLiteral) End() token.Position { return e.Token.End() }
func (e *StringLiteral) String() string      { return strconv.Quote(e.Value) }
func (e *StringLiteral) exprNode()           {}

// CharLiteral 字符字面量
type CharLiteral struct {
	Token token.Token
	Value rune
}

func (e *CharLiteral) Pos() token.Position { return e.Token.Pos }
func (e *CharLiteral) End() token.Position { return e.Token.End() }
func (e *CharLiteral) String() string      { return strconv.QuoteRune(e.Value) }
func (e *CharLiteral) exprNode()           {}

// BoolLiteral 布尔字面量
type BoolLiteral struct {
	Token token.Token
	Value bool
}

func (e *BoolLiteral) Pos() token.Position { return e.Token.Pos }
func (e *BoolLiteral) End() token.Position { return e.Token.End() }
func (e *BoolLiteral) String() string {
	if e.Value {
		return "true"
	}
	return "false"
}
func (e *BoolLiteral) exprNode() {}

// NullLiteral null
type NullLiteral struct {
	Token token.Token
}

func (e *NullLiteral) Pos() token.Position { return e.Token.Pos }
func (e *NullLiteral) End() token.Position { return e.Token.End() }
func (e *NullLiteral) String() string      { return "null" }
func (e *NullLiteral) exprNode()           {}

// ArrayLiteral 数组初始化器 {1, 2, 3}
type ArrayLiteral struct {
	LBrace   token.Token
	Elements []Expression
	RBrace   token.Token
}

func (e *ArrayLiteral) Pos() token.Position { return e.LBrace.Pos }
func (e *ArrayLiteral) End() token.Position { return e.RBrace.End() }
func (e *ArrayLiteral) String() string {
	return "{" + joinExprs(e.Elements) + "}"
}
func (e *ArrayLiteral) exprNode() {}

// NewArrayExpr 数组创建 (new int[n], new int[n][m], new int[]{1, 2})
type NewArrayExpr struct {
	NewToken    token.Token
	ElementType TypeNode     // 最内层元素类型
	Dims        []Expression // 指定了长度的维度
	ExtraDims   int          // 未指定长度的尾部维度数
	Init        *ArrayLiteral
	EndPos      token.Position
}

func (e *NewArrayExpr) Pos() token.Position { return e.NewToken.Pos }
func (e *NewArrayExpr) End() token.Position { return e.EndPos }
func (e *NewArrayExpr) String() string {
	var sb strings.Builder
	sb.WriteString("new ")
	sb.WriteString(e.ElementType.String())
	for _, d := range e.Dims {
		sb.WriteString("[" + d.String() + "]")
	}
	for i := 0; i < e.ExtraDims; i++ {
		sb.WriteString("[]")
	}
	if e.Init != nil {
		sb.WriteString(e.Init.String())
	}
	return sb.String()
}
func (e *NewArrayExpr) exprNode() {}

// Rank 返回数组总维数
func (e *NewArrayExpr) Rank() int { return len(e.Dims) + e.ExtraDims }

// NewExpr 对象创建 new T(args)
type NewExpr struct {
	NewToken token.Token
	Type     TypeNode
	Args     []Expression
	RParen   token.Token
}

func (e *NewExpr) Pos() token.Position { return e.NewToken.Pos }
func (e *NewExpr) End() token.Position { return e.RParen.End() }
func (e *NewExpr) String() string {
	return "new " + e.Type.String() + "(" + joinExprs(e.Args) + ")"
}
func (e *NewExpr) exprNode() {}

// UnaryExpr 前缀一元表达式 (-x, +x, !x, ~x, ++x, --x)
type UnaryExpr struct {
	Operator token.Token
	Operand  Expression
}

func (e *UnaryExpr) Pos() token.Position { return e.Operator.Pos }
func (e *UnaryExpr) End() token.Position { return e.Operand.End() }
func (e *UnaryExpr) String() string {
	return "(" + e.Operator.Type.String() + e.Operand.String() + ")"
}
func (e *UnaryExpr) exprNode() {}

// IsIncDec 是否为前缀 ++/--
func (e *UnaryExpr) IsIncDec() bool {
	return e.Operator.Type == token.INCREMENT || e.Operator.Type == token.DECREMENT
}

// PostfixExpr 后缀自增自减 (x++, x--)
type PostfixExpr struct {
	Operand  Expression
	Operator token.Token
}

func (e *PostfixExpr) Pos() token.Position { return e.Operand.Pos() }
func (e *PostfixExpr) End() token.Position { return e.Operator.End() }
func (e *PostfixExpr) String() string {
	return "(" + e.Operand.String() + e.Operator.Type.String() + ")"
}
func (e *PostfixExpr) exprNode() {}

// BinaryExpr 二元表达式 (a + b, a == b, a && b, etc.)
type BinaryExpr struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (e *BinaryExpr) Pos() token.Position { return e.Left.Pos() }
func (e *BinaryExpr) End() token.Position { return e.Right.End() }
func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Operator.Type.String() + " " + e.Right.String() + ")"
}
func (e *BinaryExpr) exprNode() {}

// AssignExpr 赋值表达式 (=, +=, -=, ...)
type AssignExpr struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (e *AssignExpr) Pos() token.Position { return e.Left.Pos() }
func (e *AssignExpr) End() token.Position { return e.Right.End() }
func (e *AssignExpr) String() string {
	return "(" + e.Left.String() + " " + e.Operator.Type.String() + " " + e.Right.String() + ")"
}
func (e *AssignExpr) exprNode() {}

// TernaryExpr 三元表达式 (cond ? a : b)
type TernaryExpr struct {
	Condition Expression
	Question  token.Token
	Then      Expression
	Else      Expression
}

func (e *TernaryExpr) Pos() token.Position { return e.Condition.Pos() }
func (e *TernaryExpr) End() token.Position { return e.Else.End() }
func (e *TernaryExpr) String() string {
	return "(" + e.Condition.String() + " ? " + e.Then.String() + " : " + e.Else.String() + ")"
}
func (e *TernaryExpr) exprNode() {}

// MethodCall 方法调用 (foo(x), obj.foo(x), super.foo(x))
type MethodCall struct {
	Object Expression // 无接收者时为 nil
	Name   *Identifier
	Args   []Expression
	RParen token.Token
}

func (e *MethodCall) Pos() token.Position {
	if e.Object != nil {
		return e.Object.Pos()
	}
	return e.Name.Pos()
}
func (e *MethodCall) End() token.Position { return e.RParen.End() }
func (e *MethodCall) String() string {
	call := e.Name.Name + "(" + joinExprs(e.Args) + ")"
	if e.Object != nil {
		return e.Object.String() + "." + call
	}
	return call
}
func (e *MethodCall) exprNode() {}

// CtorCall 显式构造器调用 this(...) / super(...)
type CtorCall struct {
	Token  token.Token // this 或 super
	Args   []Expression
	RParen token.Token
}

func (e *CtorCall) Pos() token.Position { return e.Token.Pos }
func (e *CtorCall) End() token.Position { return e.RParen.End() }
func (e *CtorCall) String() string {
	return e.Token.Literal + "(" + joinExprs(e.Args) + ")"
}
func (e *CtorCall) exprNode() {}

// IsSuper 是否为 super(...)
func (e *CtorCall) IsSuper() bool { return e.Token.Type == token.SUPER }

// FieldAccess 字段访问 (obj.field, System.out, arr.length)
type FieldAccess struct {
	Object Expression
	Name   *Identifier
}

func (e *FieldAccess) Pos() token.Position { return e.Object.Pos() }
func (e *FieldAccess) End() token.Position { return e.Name.End() }
func (e *FieldAccess) String() string      { return e.Object.String() + "." + e.Name.Name }
func (e *FieldAccess) exprNode()           {}

// IndexExpr 数组下标 (arr[i])
type IndexExpr struct {
	Object   Expression
	Index    Expression
	RBracket token.Token
}

func (e *IndexExpr) Pos() token.Position { return e.Object.Pos() }
func (e *IndexExpr) End() token.Position { return e.RBracket.End() }
func (e *IndexExpr) String() string {
	return e.Object.String() + "[" + e.Index.String() + "]"
}
func (e *IndexExpr) exprNode() {}

// ThisExpr this
type ThisExpr struct {
	Token token.Token
}

func (e *ThisExpr) Pos() token.Position { return e.Token.Pos }
func (e *ThisExpr) End() token.Position { return e.Token.End() }
func (e *ThisExpr) String() string      { return "this" }
func (e *ThisExpr) exprNode()           {}

// SuperExpr super（只作为成员访问的接收者出现）
type SuperExpr struct {
	Token token.Token
}

func (e *SuperExpr) Pos() token.Position { return e.Token.Pos }
func (e *SuperExpr) End() token.Position { return e.Token.End() }
func (e *SuperExpr) String() string      { return "super" }
func (e *SuperExpr) exprNode()           {}

// CastExpr 类型转换 ((int) x)
type CastExpr struct {
	LParen  token.Token
	Type    TypeNode
	Operand Expression
}

func (e *CastExpr) Pos() token.Position { return e.LParen.Pos }
func (e *CastExpr) End() token.Position { return e.Operand.End() }
func (e *CastExpr) String() string {
	return "((" + e.Type.String() + ") " + e.Operand.String() + ")"
}
func (e *CastExpr) exprNode() {}

// ----------------------------------------------------------------------------
// 可以解析但不支持翻译的表达式
// ----------------------------------------------------------------------------

// InstanceOfExpr x instanceof T
type InstanceOfExpr struct {
	Left  Expression
	Token token.Token
	Type  TypeNode
}

func (e *InstanceOfExpr) Pos() token.Position { return e.Left.Pos() }
func (e *InstanceOfExpr) End() token.Position { return e.Type.End() }
func (e *InstanceOfExpr) String() string {
	return "(" + e.Left.String() + " instanceof " + e.Type.String() + ")"
}
func (e *InstanceOfExpr) exprNode() {}

// LambdaExpr (a, b) -> expr / x -> { ... }
type LambdaExpr struct {
	Start  token.Token
	Params []*Identifier
	Arrow  token.Token
	Body   Node // Expression 或 *BlockStmt
}

func (e *LambdaExpr) Pos() token.Position { return e.Start.Pos }
func (e *LambdaExpr) End() token.Position { return e.Body.End() }
func (e *LambdaExpr) String() string {
	names := make([]string, len(e.Params))
	for i, p := range e.Params {
		names[i] = p.Name
	}
	return "(" + strings.Join(names, ", ") + ") -> " + e.Body.String()
}
func (e *LambdaExpr) exprNode() {}

// MethodRefExpr 方法引用 (String::valueOf)
type MethodRefExpr struct {
	Target      Expression
	DoubleColon token.Token
	Name        *Identifier
}

func (e *MethodRefExpr) Pos() token.Position { return e.Target.Pos() }
func (e *MethodRefExpr) End() token.Position { return e.Name.End() }
func (e *MethodRefExpr) String() string      { return e.Target.String() + "::" + e.Name.Name }
func (e *MethodRefExpr) exprNode()           {}

// ============================================================================
// 语句节点
// ============================================================================

// ExprStmt 表达式语句
type ExprStmt struct {
	Expr      Expression
	Semicolon token.Token
}

func (s *ExprStmt) Pos() token.Position { return s.Expr.Pos() }
func (s *ExprStmt) End() token.Position { return s.Semicolon.End() }
func (s *ExprStmt) String() string      { return s.Expr.String() + ";" }
func (s *ExprStmt) stmtNode()           {}

// VarDeclStmt 局部变量声明
//
// `int a = 1, b;` 在解析时拆分为两个 VarDeclStmt，共享同一个 Type 的副本。
type VarDeclStmt struct {
	Modifiers Modifiers
	Type      TypeNode
	Name      *Identifier
	Value     Expression // 可为 nil
}

func (s *VarDeclStmt) Pos() token.Position { return s.Type.Pos() }
func (s *VarDeclStmt) End() token.Position {
	if s.Value != nil {
		return s.Value.End()
	}
	return s.Name.End()
}
func (s *VarDeclStmt) String() string {
	if s.Value != nil {
		return s.Type.String() + " " + s.Name.Name + " = " + s.Value.String() + ";"
	}
	return s.Type.String() + " " + s.Name.Name + ";"
}
func (s *VarDeclStmt) stmtNode() {}

// BlockStmt 代码块
type BlockStmt struct {
	LBrace     token.Token
	Statements []Statement
	RBrace     token.Token
}

func (s *BlockStmt) Pos() token.Position { return s.LBrace.Pos }
func (s *BlockStmt) End() token.Position { return s.RBrace.End() }
func (s *BlockStmt) String() string      { return "{...}" }
func (s *BlockStmt) stmtNode()           {}

// IfStmt if 语句（else if 表示为 Else 中嵌套的 IfStmt）
type IfStmt struct {
	IfToken   token.Token
	Condition Expression
	Then      Statement
	Else      Statement // 可为 nil
}

func (s *IfStmt) Pos() token.Position { return s.IfToken.Pos }
func (s *IfStmt) End() token.Position {
	if s.Else != nil {
		return s.Else.End()
	}
	return s.Then.End()
}
func (s *IfStmt) String() string { return "if (" + s.Condition.String() + ") ..." }
func (s *IfStmt) stmtNode()      {}

// WhileStmt while 循环
type WhileStmt struct {
	WhileToken token.Token
	Condition  Expression
	Body       Statement
}

func (s *WhileStmt) Pos() token.Position { return s.WhileToken.Pos }
func (s *WhileStmt) End() token.Position { return s.Body.End() }
func (s *WhileStmt) String() string      { return "while (" + s.Condition.String() + ") ..." }
func (s *WhileStmt) stmtNode()           {}

// DoWhileStmt do-while 循环
type DoWhileStmt struct {
	DoToken   token.Token
	Body      Statement
	Condition Expression
	Semicolon token.Token
}

func (s *DoWhileStmt) Pos() token.Position { return s.DoToken.Pos }
func (s *DoWhileStmt) End() token.Position { return s.Semicolon.End() }
func (s *DoWhileStmt) String() string      { return "do ... while (" + s.Condition.String() + ");" }
func (s *DoWhileStmt) stmtNode()           {}

// ForStmt 传统 for 循环
type ForStmt struct {
	ForToken  token.Token
	Init      []Statement  // VarDeclStmt 或 ExprStmt
	Condition Expression   // 可为 nil
	Update    []Expression // 逗号分隔的更新表达式
	Body      Statement
}

func (s *ForStmt) Pos() token.Position { return s.ForToken.Pos }
func (s *ForStmt) End() token.Position { return s.Body.End() }
func (s *ForStmt) String() string      { return "for (...) ..." }
func (s *ForStmt) stmtNode()           {}

// ForeachStmt 增强 for 循环 for (T x : xs)
type ForeachStmt struct {
	ForToken token.Token
	VarType  TypeNode
	VarName  *Identifier
	Iterable Expression
	Body     Statement
}

func (s *ForeachStmt) Pos() token.Position { return s.ForToken.Pos }
func (s *ForeachStmt) End() token.Position { return s.Body.End() }
func (s *ForeachStmt) String() string {
	return "for (" + s.VarType.String() + " " + s.VarName.Name + " : " + s.Iterable.String() + ") ..."
}
func (s *ForeachStmt) stmtNode() {}

// SwitchStmt switch 语句
//
// Cases 保持源代码顺序（default 也在其中），用于还原贯穿语义。
type SwitchStmt struct {
	SwitchToken token.Token
	Subject     Expression
	Cases       []*SwitchCase
	RBrace      token.Token
}

func (s *SwitchStmt) Pos() token.Position { return s.SwitchToken.Pos }
func (s *SwitchStmt) End() token.Position { return s.RBrace.End() }
func (s *SwitchStmt) String() string      { return "switch (" + s.Subject.String() + ") {...}" }
func (s *SwitchStmt) stmtNode()           {}

// Default 返回 default 分支，没有时返回 nil
func (s *SwitchStmt) Default() *SwitchCase {
	for _, c := range s.Cases {
		if c.IsDefault {
			return c
		}
	}
	return nil
}

// SwitchCase switch 分支
//
// 一个分支可以同时带有多个标签：`case 1: case 2:` 合并为 Values [1, 2]。
// Arrow 表示 `case X ->` 形式，不会贯穿。
type SwitchCase struct {
	CaseToken token.Token
	Values    []Expression
	IsDefault bool
	Arrow     bool
	Body      []Statement
}

func (s *SwitchCase) Pos() token.Position { return s.CaseToken.Pos }
func (s *SwitchCase) End() token.Position {
	if len(s.Body) > 0 {
		return s.Body[len(s.Body)-1].End()
	}
	return s.CaseToken.End()
}
func (s *SwitchCase) String() string {
	if s.IsDefault && len(s.Values) == 0 {
		return "default:"
	}
	return "case " + joinExprs(s.Values) + ":"
}

// TryStmt try 语句
type TryStmt struct {
	TryToken token.Token
	Body     *BlockStmt
	Catches  []*CatchClause
	Finally  *BlockStmt // 可为 nil
}

func (s *TryStmt) Pos() token.Position { return s.TryToken.Pos }
func (s *TryStmt) End() token.Position {
	if s.Finally != nil {
		return s.Finally.End()
	}
	if len(s.Catches) > 0 {
		return s.Catches[len(s.Catches)-1].Body.End()
	}
	return s.Body.End()
}
func (s *TryStmt) String() string { return "try {...}" }
func (s *TryStmt) stmtNode()      {}

// CatchClause catch 子句 (catch (IOException | RuntimeException e) {...})
type CatchClause struct {
	CatchToken token.Token
	Types      []TypeNode
	Name       *Identifier
	Body       *BlockStmt
}

func (c *CatchClause) Pos() token.Position { return c.CatchToken.Pos }
func (c *CatchClause) End() token.Position { return c.Body.End() }
func (c *CatchClause) String() string {
	names := make([]string, len(c.Types))
	for i, t := range c.Types {
		names[i] = t.String()
	}
	return "catch (" + strings.Join(names, " | ") + " " + c.Name.Name + ")"
}

// ThrowStmt throw 语句
type ThrowStmt struct {
	ThrowToken token.Token
	Exception  Expression
	Semicolon  token.Token
}

func (s *ThrowStmt) Pos() token.Position { return s.ThrowToken.Pos }
func (s *ThrowStmt) End() token.Position { return s.Semicolon.End() }
func (s *ThrowStmt) String() string      { return "throw " + s.Exception.String() + ";" }
func (s *ThrowStmt) stmtNode()           {}

// BreakStmt break 语句
type BreakStmt struct {
	Token     token.Token
	Semicolon token.Token
}

func (s *BreakStmt) Pos() token.Position { return s.Token.Pos }
func (s *BreakStmt) End() token.Position { return s.Semicolon.End() }
func (s *BreakStmt) String() string      { return "break;" }
func (s *BreakStmt) stmtNode()           {}

// ContinueStmt continue 语句
type ContinueStmt struct {
	Token     token.Token
	Semicolon token.Token
}

func (s *ContinueStmt) Pos() token.Position { return s.Token.Pos }
func (s *ContinueStmt) End() token.Position { return s.Semicolon.End() }
func (s *ContinueStmt) String() string      { return "continue;" }
func (s *ContinueStmt) stmtNode()           {}

// ReturnStmt return 语句
type ReturnStmt struct {
	ReturnToken token.Token
	Value       Expression // 可为 nil
	Semicolon   token.Token
}

func (s *ReturnStmt) Pos() token.Position { return s.ReturnToken.Pos }
func (s *ReturnStmt) End() token.Position { return s.Semicolon.End() }
func (s *ReturnStmt) String() string {
	if s.Value != nil {
		return "return " + s.Value.String() + ";"
	}
	return "return;"
}
func (s *ReturnStmt) stmtNode() {}

// EmptyStmt 空语句 ;
type EmptyStmt struct {
	Semicolon token.Token
}

func (s *EmptyStmt) Pos() token.Position { return s.Semicolon.Pos }
func (s *EmptyStmt) End() token.Position { return s.Semicolon.End() }
func (s *EmptyStmt) String() string      { return ";" }
func (s *EmptyStmt) stmtNode()           {}

// ============================================================================
// 类成员
// ============================================================================

// Parameter 参数
type Parameter struct {
	Modifiers Modifiers
	Type      TypeNode // 可变参数时为元素类型
	Name      *Identifier
	Variadic  bool // T... name
}

func (p *Parameter) Pos() token.Position { return p.Type.Pos() }
func (p *Parameter) End() token.Position { return p.Name.End() }
func (p *Parameter) String() string {
	if p.Variadic {
		return p.Type.String() + "... " + p.Name.Name
	}
	return p.Type.String() + " " + p.Name.Name
}

// DeclaredType 返回参数在方法体内的类型（可变参数为数组）
func (p *Parameter) DeclaredType() TypeNode {
	if p.Variadic {
		return &ArrayType{ElementType: p.Type, RBracket: p.Name.Token}
	}
	return p.Type
}

// FieldDecl 字段声明
type FieldDecl struct {
	Annotations []*Annotation
	Modifiers   Modifiers
	Type        TypeNode
	Name        *Identifier
	Value       Expression // 可为 nil
}

func (d *FieldDecl) Pos() token.Position { return d.Type.Pos() }
func (d *FieldDecl) End() token.Position {
	if d.Value != nil {
		return d.Value.End()
	}
	return d.Name.End()
}
func (d *FieldDecl) String() string { return d.Type.String() + " " + d.Name.Name }
func (d *FieldDecl) memberNode()    {}

// IsStatic 是否为静态字段
func (d *FieldDecl) IsStatic() bool { return d.Modifiers.IsStatic() }

// ConstructorDecl 构造器声明
type ConstructorDecl struct {
	Annotations []*Annotation
	Modifiers   Modifiers
	Name        *Identifier
	Params      []*Parameter
	Throws      []TypeNode
	Body        *BlockStmt
}

func (d *ConstructorDecl) Pos() token.Position { return d.Name.Pos() }
func (d *ConstructorDecl) End() token.Position { return d.Body.End() }
func (d *ConstructorDecl) String() string {
	return d.Name.Name + "(" + joinParams(d.Params) + ")"
}
func (d *ConstructorDecl) memberNode() {}

// MethodDecl 方法声明
type MethodDecl struct {
	Annotations []*Annotation
	Modifiers   Modifiers
	TypeParams  []*Identifier
	ReturnType  TypeNode
	Name        *Identifier
	Params      []*Parameter
	Throws      []TypeNode
	Body        *BlockStmt // 抽象方法为 nil
	EndPos      token.Position
}

func (d *MethodDecl) Pos() token.Position { return d.ReturnType.Pos() }
func (d *MethodDecl) End() token.Position { return d.EndPos }
func (d *MethodDecl) String() string {
	return d.ReturnType.String() + " " + d.Name.Name + "(" + joinParams(d.Params) + ")"
}
func (d *MethodDecl) memberNode() {}

// IsStatic 是否为静态方法
func (d *MethodDecl) IsStatic() bool { return d.Modifiers.IsStatic() }

// IsMain 是否为 public static void main(String[] args) 入口
func (d *MethodDecl) IsMain() bool {
	if d.Name.Name != "main" || !d.IsStatic() || len(d.Params) != 1 {
		return false
	}
	if rt, ok := d.ReturnType.(*SimpleType); !ok || rt.Name != "void" {
		return false
	}
	p := d.Params[0]
	if p.Variadic {
		return p.Type.String() == "String"
	}
	return p.Type.String() == "String[]"
}

// ============================================================================
// 声明节点
// ============================================================================

// ClassDecl 类声明
type ClassDecl struct {
	Annotations []*Annotation
	Modifiers   Modifiers
	ClassToken  token.Token
	Name        *Identifier
	TypeParams  []*Identifier
	Extends     TypeNode   // 可为 nil
	Implements  []TypeNode // 只保留，不检查
	Members     []Member   // 源代码顺序
	RBrace      token.Token
}

func (d *ClassDecl) Pos() token.Position { return d.ClassToken.Pos }
func (d *ClassDecl) End() token.Position { return d.RBrace.End() }
func (d *ClassDecl) String() string      { return "class " + d.Name.Name }
func (d *ClassDecl) declNode()           {}

// SuperName 返回父类名（去掉泛型参数），没有父类时返回空串
func (d *ClassDecl) SuperName() string {
	switch t := d.Extends.(type) {
	case *SimpleType:
		return t.Name
	case *GenericType:
		return t.Base.Name
	}
	return ""
}

// Fields 返回全部字段
func (d *ClassDecl) Fields() []*FieldDecl {
	var out []*FieldDecl
	for _, m := range d.Members {
		if f, ok := m.(*FieldDecl); ok {
			out = append(out, f)
		}
	}
	return out
}

// Constructors 返回全部构造器
func (d *ClassDecl) Constructors() []*ConstructorDecl {
	var out []*ConstructorDecl
	for _, m := range d.Members {
		if c, ok := m.(*ConstructorDecl); ok {
			out = append(out, c)
		}
	}
	return out
}

// Methods 返回全部方法
func (d *ClassDecl) Methods() []*MethodDecl {
	var out []*MethodDecl
	for _, m := range d.Members {
		if md, ok := m.(*MethodDecl); ok {
			out = append(out, md)
		}
	}
	return out
}

// InterfaceDecl 接口声明（只记录，不翻译）
type InterfaceDecl struct {
	Annotations    []*Annotation
	Modifiers      Modifiers
	InterfaceToken token.Token
	Name           *Identifier
	RBrace         token.Token
}

func (d *InterfaceDecl) Pos() token.Position { return d.InterfaceToken.Pos }
func (d *InterfaceDecl) End() token.Position { return d.RBrace.End() }
func (d *InterfaceDecl) String() string      { return "interface " + d.Name.Name }
func (d *InterfaceDecl) declNode()           {}

// EnumDecl 枚举声明（只记录，不翻译）
type EnumDecl struct {
	Annotations []*Annotation
	Modifiers   Modifiers
	EnumToken   token.Token
	Name        *Identifier
	RBrace      token.Token
}

func (d *EnumDecl) Pos() token.Position { return d.EnumToken.Pos }
func (d *EnumDecl) End() token.Position { return d.RBrace.End() }
func (d *EnumDecl) String() string      { return "enum " + d.Name.Name }
func (d *EnumDecl) declNode()           {}

// PackageDecl package 声明
type PackageDecl struct {
	PackageToken token.Token
	Name         string
	Semicolon    token.Token
}

func (d *PackageDecl) Pos() token.Position { return d.PackageToken.Pos }
func (d *PackageDecl) End() token.Position { return d.Semicolon.End() }
func (d *PackageDecl) String() string      { return "package " + d.Name + ";" }

// ImportDecl import 声明
type ImportDecl struct {
	ImportToken token.Token
	Path        string // java.util.List 或 java.util.*
	Static      bool
	Semicolon   token.Token
}

func (d *ImportDecl) Pos() token.Position { return d.ImportToken.Pos }
func (d *ImportDecl) End() token.Position { return d.Semicolon.End() }
func (d *ImportDecl) String() string      { return "import " + d.Path + ";" }

// ============================================================================
// 文件
// ============================================================================

// File 表示一个源文件（语法树的根）
type File struct {
	Filename     string
	Package      *PackageDecl
	Imports      []*ImportDecl
	Declarations []Declaration
	EOF          token.Token
}

func (f *File) Pos() token.Position {
	if f.Package != nil {
		return f.Package.Pos()
	}
	if len(f.Imports) > 0 {
		return f.Imports[0].Pos()
	}
	if len(f.Declarations) > 0 {
		return f.Declarations[0].Pos()
	}
	return f.EOF.Pos
}

func (f *File) End() token.Position { return f.EOF.Pos }

func (f *File) String() string { return f.Filename }

// Classes 返回文件中的全部类声明
func (f *File) Classes() []*ClassDecl {
	var out []*ClassDecl
	for _, d := range f.Declarations {
		if c, ok := d.(*ClassDecl); ok {
			out = append(out, c)
		}
	}
	return out
}

// ============================================================================
// 辅助函数
// ============================================================================

func joinExprs(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func joinParams(params []*Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
