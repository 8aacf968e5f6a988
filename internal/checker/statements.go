package checker

import (
	"fmt"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/errors"
	"github.com/tangzhangming/jpy/internal/types"
)

// ============================================================================
// 语句
// ============================================================================

func (c *Checker) checkStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		c.checkExpr(s.Expr)

	case *ast.VarDeclStmt:
		declared := c.localType(s.Type.String())
		if s.Value != nil {
			if declared == "var" {
				declared = c.checkExpr(s.Value)
			} else {
				c.checkInitializer(s.Value, declared)
			}
		}
		c.declare(&VarInfo{Name: s.Name.Name, Type: declared, Origin: OriginLocal, Pos: s.Name.Pos()})

	case *ast.BlockStmt:
		c.checkBlock(s.Statements)

	case *ast.IfStmt:
		c.checkCondition(s.Condition)
		c.checkBody(s.Then)
		if s.Else != nil {
			c.checkBody(s.Else)
		}

	case *ast.WhileStmt:
		c.checkCondition(s.Condition)
		c.loops++
		c.checkBody(s.Body)
		c.loops--

	case *ast.DoWhileStmt:
		c.loops++
		c.checkBody(s.Body)
		c.loops--
		c.checkCondition(s.Condition)

	case *ast.ForStmt:
		c.scopes.push()
		for _, init := range s.Init {
			c.checkStmt(init)
		}
		if s.Condition != nil {
			c.checkCondition(s.Condition)
		}
		for _, u := range s.Update {
			c.checkExpr(u)
		}
		c.loops++
		c.checkBody(s.Body)
		c.loops--
		c.scopes.pop()

	case *ast.ForeachStmt:
		c.checkForeach(s)

	case *ast.SwitchStmt:
		c.checkSwitch(s)

	case *ast.TryStmt:
		c.checkBlock(s.Body.Statements)
		for _, cc := range s.Catches {
			c.scopes.push()
			caught := types.Object
			if len(cc.Types) == 1 {
				caught = cc.Types[0].String()
			}
			c.declare(&VarInfo{Name: cc.Name.Name, Type: caught, Origin: OriginLocal, Pos: cc.Name.Pos()})
			for _, st := range cc.Body.Statements {
				c.checkStmt(st)
			}
			c.scopes.pop()
		}
		if s.Finally != nil {
			c.checkBlock(s.Finally.Statements)
		}

	case *ast.ThrowStmt:
		c.checkExpr(s.Exception)

	case *ast.BreakStmt:
		if c.loops == 0 && c.switches == 0 {
			c.report(s.Pos(), errors.E0304, "")
		}

	case *ast.ContinueStmt:
		if c.loops == 0 {
			c.report(s.Pos(), errors.E0305, "")
		}

	case *ast.ReturnStmt:
		c.checkReturn(s)

	case *ast.EmptyStmt:

	default:
		panic(fmt.Sprintf("checker: unexpected statement %T", stmt))
	}
}

// localType 擦除当前类与方法的类型形参
func (c *Checker) localType(t string) string {
	if c.class == nil {
		return t
	}
	return types.Erase(t, c.class.TypeParams)
}

func (c *Checker) checkBlock(stmts []ast.Statement) {
	c.scopes.push()
	for _, s := range stmts {
		c.checkStmt(s)
	}
	c.scopes.pop()
}

// checkBody 检查控制语句的主体，非块主体也获得独立的作用域
func (c *Checker) checkBody(body ast.Statement) {
	if block, ok := body.(*ast.BlockStmt); ok {
		c.checkBlock(block.Statements)
		return
	}
	c.scopes.push()
	c.checkStmt(body)
	c.scopes.pop()
}

// checkCondition 条件必须是 boolean
func (c *Checker) checkCondition(cond ast.Expression) {
	t := c.checkExpr(cond)
	if !types.IsUnknown(t) && !types.IsBoolean(t) {
		c.report(cond.Pos(), errors.E0201, "", t)
	}
}

func (c *Checker) checkForeach(s *ast.ForeachStmt) {
	iterable := c.checkExpr(s.Iterable)
	elem := types.Unknown
	switch {
	case types.IsUnknown(iterable):
	case types.IsArray(iterable):
		elem = types.Elem(iterable)
	case types.Family(iterable) == types.FamilyList || types.Family(iterable) == types.FamilySet:
		elem = types.Elem(iterable)
	case types.IsPrimitive(iterable), iterable == types.String, types.Family(iterable) == types.FamilyMap:
		c.report(s.Iterable.Pos(), errors.E0212, "", iterable)
	}

	declared := c.localType(s.VarType.String())
	if declared == "var" {
		declared = elem
	} else if !types.Assignable(declared, elem, c) {
		c.report(s.VarName.Pos(), errors.E0200, "", elem, declared)
	}

	c.scopes.push()
	c.declare(&VarInfo{Name: s.VarName.Name, Type: declared, Origin: OriginLocal, Pos: s.VarName.Pos()})
	c.loops++
	c.checkBody(s.Body)
	c.loops--
	c.scopes.pop()
}

func (c *Checker) checkSwitch(s *ast.SwitchStmt) {
	subject := c.checkExpr(s.Subject)
	if types.IsBoolean(subject) {
		c.report(s.Subject.Pos(), errors.E0205, "")
	}

	c.switches++
	c.scopes.push() // 冒号形式的 case 共享一个作用域
	for _, cs := range s.Cases {
		for _, label := range cs.Values {
			c.checkCaseLabel(label, subject)
		}
		if cs.Arrow {
			c.checkBlock(cs.Body)
			continue
		}
		for _, st := range cs.Body {
			c.checkStmt(st)
		}
	}
	c.scopes.pop()
	c.switches--
}

func (c *Checker) checkCaseLabel(label ast.Expression, subject string) {
	if id, ok := label.(*ast.Identifier); ok && !c.resolvable(id.Name) {
		return // 枚举常量
	}
	t := c.checkExpr(label)
	if types.IsUnknown(subject) || types.IsUnknown(t) || types.IsBoolean(subject) {
		return
	}
	if types.Assignable(types.Unbox(subject), t, c) || constantFits(label, subject) {
		return
	}
	c.report(label.Pos(), errors.E0206, "", t, subject)
}

func (c *Checker) checkReturn(s *ast.ReturnStmt) {
	if s.Value == nil {
		if c.result != types.Void && !types.IsUnknown(c.result) {
			c.report(s.Pos(), errors.E0209, "")
		}
		return
	}

	t := c.checkExpr(s.Value)
	if c.result == types.Void {
		c.report(s.Value.Pos(), errors.E0208, "")
		return
	}
	if !types.Assignable(c.result, t, c) && !constantFits(s.Value, c.result) {
		c.report(s.Value.Pos(), errors.E0207, "", t, c.result)
	}
}
