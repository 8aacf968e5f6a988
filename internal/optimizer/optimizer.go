// Package optimizer 对语法树做保持语义的改写
//
// 改写自底向上进行：先改写子表达式，再尝试常量折叠与代数化简。多遍执行直到
// 某一遍没有任何改写为止，因此对结果再次优化不会产生变化。
//
// 改写只替换表达式子树，从不删除或重排带副作用的节点（赋值、调用、自增自减），
// 也不改变控制语句的分支结构。
package optimizer

import (
	"fmt"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/token"
	"github.com/tangzhangming/jpy/internal/types"
)

// maxPasses 单个文件的最大遍数
const maxPasses = 32

// ============================================================================
// 优化器
// ============================================================================

// Optimizer 语法树优化器
type Optimizer struct {
	index    *types.Index
	env      *types.Env
	rewrites int // 当前这一遍的改写次数
	passes   int
}

// New 创建优化器
func New() *Optimizer {
	return &Optimizer{}
}

// Optimize 就地优化文件，返回改写总次数
func Optimize(file *ast.File) int {
	return New().Optimize(file)
}

// Expr 优化一个独立的表达式并返回结果，表达式中的名字类型都视为未知
func Expr(expr ast.Expression) ast.Expression {
	o := New()
	for o.passes = 1; o.passes <= maxPasses; o.passes++ {
		o.rewrites = 0
		expr = o.expr(expr)
		if o.rewrites == 0 {
			break
		}
	}
	return expr
}

// Optimize 就地优化文件，返回改写总次数
func (o *Optimizer) Optimize(file *ast.File) int {
	o.index = types.NewIndex(file)
	total := 0

	// 多遍优化，直到没有更多改写为止
	for o.passes = 1; o.passes <= maxPasses; o.passes++ {
		o.rewrites = 0
		o.file(file)
		total += o.rewrites
		if o.rewrites == 0 {
			break
		}
	}
	o.env = nil
	return total
}

// Passes 返回最近一次优化执行的遍数（包括最后一遍无改写的检查）
func (o *Optimizer) Passes() int {
	return min(o.passes, maxPasses)
}

// ============================================================================
// 声明
// ============================================================================

func (o *Optimizer) file(file *ast.File) {
	for _, decl := range file.Declarations {
		switch d := decl.(type) {
		case *ast.ClassDecl:
			o.class(d)
		case *ast.InterfaceDecl, *ast.EnumDecl:
		default:
			panic(fmt.Sprintf("optimizer: unexpected declaration %T", decl))
		}
	}
}

func (o *Optimizer) class(cls *ast.ClassDecl) {
	name := cls.Name.Name
	classParams := identNames(cls.TypeParams)

	for _, member := range cls.Members {
		switch m := member.(type) {
		case *ast.FieldDecl:
			if m.Value != nil {
				o.env = o.index.Env(name, m.IsStatic())
				m.Value = o.expr(m.Value)
			}

		case *ast.ConstructorDecl:
			o.env = o.index.Env(name, false)
			o.declareParams(m.Params, classParams)
			o.stmts(m.Body.Statements)

		case *ast.MethodDecl:
			if m.Body == nil {
				continue
			}
			o.env = o.index.Env(name, m.IsStatic())
			o.declareParams(m.Params, append(identNames(m.TypeParams), classParams...))
			o.stmts(m.Body.Statements)

		default:
			panic(fmt.Sprintf("optimizer: unexpected member %T", member))
		}
	}
}

func (o *Optimizer) declareParams(params []*ast.Parameter, typeParams []string) {
	for _, p := range params {
		o.env.Declare(p.Name.Name, types.Erase(p.DeclaredType().String(), typeParams))
	}
}

func identNames(ids []*ast.Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Name
	}
	return out
}

// ============================================================================
// 语句
// ============================================================================

func (o *Optimizer) stmts(list []ast.Statement) {
	for _, s := range list {
		o.stmt(s)
	}
}

func (o *Optimizer) block(list []ast.Statement) {
	o.env.Push()
	o.stmts(list)
	o.env.Pop()
}

func (o *Optimizer) body(s ast.Statement) {
	if b, ok := s.(*ast.BlockStmt); ok {
		o.block(b.Statements)
		return
	}
	o.env.Push()
	o.stmt(s)
	o.env.Pop()
}

func (o *Optimizer) stmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		s.Expr = o.expr(s.Expr)

	case *ast.VarDeclStmt:
		declared := s.Type.String()
		if s.Value != nil {
			s.Value = o.expr(s.Value)
			if declared == "var" {
				declared = o.typeOf(s.Value)
			}
		}
		o.env.Declare(s.Name.Name, declared)

	case *ast.BlockStmt:
		o.block(s.Statements)

	case *ast.IfStmt:
		s.Condition = o.expr(s.Condition)
		o.body(s.Then)
		if s.Else != nil {
			o.body(s.Else)
		}

	case *ast.WhileStmt:
		s.Condition = o.expr(s.Condition)
		o.body(s.Body)

	case *ast.DoWhileStmt:
		o.body(s.Body)
		s.Condition = o.expr(s.Condition)

	case *ast.ForStmt:
		o.env.Push()
		o.stmts(s.Init)
		if s.Condition != nil {
			s.Condition = o.expr(s.Condition)
		}
		o.exprs(s.Update)
		o.body(s.Body)
		o.env.Pop()

	case *ast.ForeachStmt:
		s.Iterable = o.expr(s.Iterable)
		declared := s.VarType.String()
		if declared == "var" {
			declared = types.Elem(o.typeOf(s.Iterable))
		}
		o.env.Push()
		o.env.Declare(s.VarName.Name, declared)
		o.body(s.Body)
		o.env.Pop()

	case *ast.SwitchStmt:
		s.Subject = o.expr(s.Subject)
		o.env.Push()
		for _, c := range s.Cases {
			o.exprs(c.Values)
			if c.Arrow {
				o.block(c.Body)
			} else {
				o.stmts(c.Body)
			}
		}
		o.env.Pop()

	case *ast.TryStmt:
		o.block(s.Body.Statements)
		for _, c := range s.Catches {
			o.env.Push()
			caught := types.Object
			if len(c.Types) == 1 {
				caught = c.Types[0].String()
			}
			o.env.Declare(c.Name.Name, caught)
			o.stmts(c.Body.Statements)
			o.env.Pop()
		}
		if s.Finally != nil {
			o.block(s.Finally.Statements)
		}

	case *ast.ThrowStmt:
		s.Exception = o.expr(s.Exception)

	case *ast.ReturnStmt:
		if s.Value != nil {
			s.Value = o.expr(s.Value)
		}

	case *ast.BreakStmt, *ast.ContinueStmt, *ast.EmptyStmt:

	default:
		panic(fmt.Sprintf("optimizer: unexpected statement %T", stmt))
	}
}

// ============================================================================
// 表达式
// ============================================================================

func (o *Optimizer) exprs(list []ast.Expression) {
	for i, e := range list {
		list[i] = o.expr(e)
	}
}

// expr 先改写子节点，再改写节点本身，返回替换后的节点
func (o *Optimizer) expr(expr ast.Expression) ast.Expression {
	switch e := expr.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.CharLiteral,
		*ast.BoolLiteral, *ast.NullLiteral, *ast.Identifier, *ast.ThisExpr, *ast.SuperExpr:
		return expr

	case *ast.ArrayLiteral:
		o.exprs(e.Elements)
	case *ast.NewArrayExpr:
		o.exprs(e.Dims)
		if e.Init != nil {
			o.exprs(e.Init.Elements)
		}
	case *ast.NewExpr:
		o.exprs(e.Args)

	case *ast.UnaryExpr:
		e.Operand = o.expr(e.Operand)
		if e.IsIncDec() {
			return expr
		}
		if folded, ok := foldUnary(e); ok {
			return o.replaced(folded)
		}
	case *ast.PostfixExpr:
		e.Operand = o.expr(e.Operand)

	case *ast.BinaryExpr:
		e.Left = o.expr(e.Left)
		e.Right = o.expr(e.Right)
		if folded, ok := foldBinary(e); ok {
			return o.replaced(folded)
		}
		if simpler, ok := o.identity(e); ok {
			return o.replaced(simpler)
		}

	case *ast.AssignExpr:
		e.Left = o.expr(e.Left)
		e.Right = o.expr(e.Right)

	case *ast.TernaryExpr:
		e.Condition = o.expr(e.Condition)
		e.Then = o.expr(e.Then)
		e.Else = o.expr(e.Else)
		if cond, ok := e.Condition.(*ast.BoolLiteral); ok {
			if cond.Value {
				return o.replaced(e.Then)
			}
			return o.replaced(e.Else)
		}

	case *ast.MethodCall:
		if e.Object != nil {
			e.Object = o.expr(e.Object)
		}
		o.exprs(e.Args)
	case *ast.CtorCall:
		o.exprs(e.Args)
	case *ast.FieldAccess:
		e.Object = o.expr(e.Object)
	case *ast.IndexExpr:
		e.Object = o.expr(e.Object)
		e.Index = o.expr(e.Index)
	case *ast.CastExpr:
		e.Operand = o.expr(e.Operand)
	case *ast.InstanceOfExpr:
		e.Left = o.expr(e.Left)

	case *ast.LambdaExpr, *ast.MethodRefExpr:
		// 不进入 lambda：参数类型未知

	default:
		panic(fmt.Sprintf("optimizer: unexpected expression %T", expr))
	}
	return expr
}

func (o *Optimizer) replaced(e ast.Expression) ast.Expression {
	o.rewrites++
	return e
}

func (o *Optimizer) typeOf(e ast.Expression) string {
	if o.env == nil {
		return types.Unknown
	}
	return o.env.TypeOf(e)
}

// ============================================================================
// 代数化简
// ============================================================================

// identity 消除加法、乘法与短路逻辑中的单位元
func (o *Optimizer) identity(e *ast.BinaryExpr) (ast.Expression, bool) {
	l, r := e.Left, e.Right
	switch e.Operator.Type {
	case token.PLUS:
		if isNumber(r, 0) && o.keepsType(l, r) {
			return l, true
		}
		if isNumber(l, 0) && o.keepsType(r, l) {
			return r, true
		}
	case token.MINUS:
		if isNumber(r, 0) && o.keepsType(l, r) {
			return l, true
		}
	case token.STAR:
		if isNumber(r, 1) && o.keepsType(l, r) {
			return l, true
		}
		if isNumber(l, 1) && o.keepsType(r, l) {
			return r, true
		}

	case token.AND:
		switch {
		case isBool(r, true):
			return l, true
		case isBool(l, true):
			return r, true
		case isBool(l, false) && types.IsPure(r):
			return l, true
		case isBool(r, false) && types.IsPure(l):
			return r, true
		}
	case token.OR:
		switch {
		case isBool(r, false):
			return l, true
		case isBool(l, false):
			return r, true
		case isBool(l, true) && types.IsPure(r):
			return l, true
		case isBool(r, true) && types.IsPure(l):
			return r, true
		}
	}
	return nil, false
}

// keepsType 去掉字面量 lit 后 x 的类型与运算结果一致
//
// 字符串与 char 参与加法时语义不同，不化简；浮点字面量会把整数运算提升为浮点运算，
// 只在 x 本身是浮点类型时化简。
func (o *Optimizer) keepsType(x, lit ast.Expression) bool {
	t := o.typeOf(x)
	if types.IsString(t) || types.IsChar(t) {
		return false
	}
	if _, ok := lit.(*ast.FloatLiteral); ok {
		return types.IsFloating(t)
	}
	return true
}

func isNumber(e ast.Expression, n int64) bool {
	switch lit := e.(type) {
	case *ast.IntegerLiteral:
		return lit.Value.IsInt64() && lit.Value.Int64() == n
	case *ast.FloatLiteral:
		return lit.Value == float64(n)
	}
	return false
}

func isBool(e ast.Expression, v bool) bool {
	lit, ok := e.(*ast.BoolLiteral)
	return ok && lit.Value == v
}
