package checker

import (
	"fmt"
	"strings"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/errors"
	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/token"
	"github.com/tangzhangming/jpy/internal/types"
)

// ============================================================================
// 表达式
// ============================================================================

// checkExpr 检查表达式并返回其静态类型，无法确定时返回 types.Unknown
func (c *Checker) checkExpr(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		if last := e.Token.Literal[len(e.Token.Literal)-1]; last == 'l' || last == 'L' {
			return types.Long
		}
		return types.Int
	case *ast.FloatLiteral:
		if last := e.Token.Literal[len(e.Token.Literal)-1]; last == 'f' || last == 'F' {
			return types.Float
		}
		return types.Double
	case *ast.StringLiteral:
		return types.String
	case *ast.CharLiteral:
		return types.Char
	case *ast.BoolLiteral:
		return types.Boolean
	case *ast.NullLiteral:
		return types.Null

	case *ast.Identifier:
		return c.checkIdentifier(e)
	case *ast.ThisExpr:
		if c.static {
			c.report(e.Pos(), errors.E0103, "", "this")
		}
		return c.class.Name
	case *ast.SuperExpr:
		return c.checkSuper(e)

	case *ast.FieldAccess:
		return c.checkFieldAccess(e)
	case *ast.IndexExpr:
		return c.checkIndex(e)
	case *ast.MethodCall:
		return c.checkCall(e)
	case *ast.CtorCall:
		c.checkCtorCall(e)
		return types.Void

	case *ast.NewExpr:
		return c.checkNew(e)
	case *ast.NewArrayExpr:
		for _, d := range e.Dims {
			if t := c.checkExpr(d); !types.IsUnknown(t) && !types.IsIntegral(t) {
				c.report(d.Pos(), errors.E0211, "", t)
			}
		}
		t := e.ElementType.String() + strings.Repeat("[]", e.Rank())
		if e.Init != nil {
			c.checkArrayLiteral(e.Init, t)
		}
		return t
	case *ast.ArrayLiteral:
		c.checkArrayLiteral(e, types.Unknown)
		return types.Unknown

	case *ast.UnaryExpr:
		t := c.checkExpr(e.Operand)
		result, ok := types.UnaryResult(e.Operator.Type, t)
		if !ok {
			c.report(e.Pos(), errors.E0202, "", t, e.Operator.Literal)
		}
		return result
	case *ast.PostfixExpr:
		t := c.checkExpr(e.Operand)
		if !types.IsUnknown(t) && !types.IsNumeric(t) {
			c.report(e.Operator.Pos, errors.E0202, "", t, e.Operator.Literal)
		}
		return t
	case *ast.BinaryExpr:
		l := c.checkExpr(e.Left)
		r := c.checkExpr(e.Right)
		result, ok := types.BinaryResult(e.Operator.Type, l, r)
		if !ok {
			c.report(e.Operator.Pos, errors.E0203, "", e.Operator.Literal, l, r)
		}
		return result
	case *ast.AssignExpr:
		return c.checkAssign(e)
	case *ast.TernaryExpr:
		c.checkCondition(e.Condition)
		a := c.checkExpr(e.Then)
		b := c.checkExpr(e.Else)
		if !types.IsUnknown(a) && !types.IsUnknown(b) && !types.Compatible(a, b, c) {
			c.report(e.Question.Pos, errors.E0204, "", a, b)
			return types.Unknown
		}
		return types.Common(a, b, c)

	case *ast.CastExpr:
		c.checkExpr(e.Operand)
		return c.localType(e.Type.String())
	case *ast.InstanceOfExpr:
		c.checkExpr(e.Left)
		return types.Boolean
	case *ast.LambdaExpr:
		// lambda 参数没有声明类型，主体不做检查
		return types.Unknown
	case *ast.MethodRefExpr:
		if _, ok := c.classRef(e.Target); !ok {
			c.checkExpr(e.Target)
		}
		return types.Unknown
	}
	panic(fmt.Sprintf("checker: unexpected expression %T", expr))
}

func (c *Checker) checkArgs(args []ast.Expression) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = c.checkExpr(a)
	}
	return out
}

// ============================================================================
// 名字
// ============================================================================

// resolvable 名字能否解析为局部变量或字段
func (c *Checker) resolvable(name string) bool {
	if _, ok := c.scopes.lookup(name); ok {
		return true
	}
	_, ok := c.lookupField(c.class.Name, name)
	return ok
}

func (c *Checker) checkIdentifier(id *ast.Identifier) string {
	if v, ok := c.scopes.lookup(id.Name); ok {
		return v.Type
	}
	if f, ok := c.lookupField(c.class.Name, id.Name); ok {
		if c.static && !f.Static {
			c.report(id.Pos(), errors.E0102, "", id.Name)
		}
		return f.Type
	}

	hint := errors.DidYouMean(id.Name, c.candidates())
	if hint == "" {
		hint = i18n.T(i18n.HintUndefinedIdent, id.Name)
	}
	c.report(id.Pos(), errors.E0100, hint, id.Name)
	return types.Unknown
}

// candidates 当前可见的全部名字，用于拼写建议
func (c *Checker) candidates() []string {
	names := c.scopes.visible()
	for _, info := range c.chain(c.class.Name) {
		for _, f := range info.Fields {
			names = append(names, f.Name)
		}
	}
	return names
}

// classRef 判断表达式是否为类名（静态成员访问的限定符）
func (c *Checker) classRef(expr ast.Expression) (string, bool) {
	id, ok := expr.(*ast.Identifier)
	if !ok || c.resolvable(id.Name) {
		return "", false
	}
	if c.IsClass(id.Name) || c.others[id.Name] || types.IsKnownLibraryType(id.Name) {
		return id.Name, true
	}
	return "", false
}

// chain 返回用户类继承链
func (c *Checker) chain(name string) []*ClassInfo {
	var out []*ClassInfo
	seen := make(map[string]bool)
	for name != "" && !seen[name] {
		seen[name] = true
		info, ok := c.classes[name]
		if !ok {
			break
		}
		out = append(out, info)
		name = info.Super
	}
	return out
}

func (c *Checker) lookupField(class, name string) (*VarInfo, bool) {
	for _, info := range c.chain(class) {
		if f, ok := info.Field(name); ok {
			return f, true
		}
	}
	return nil, false
}

func (c *Checker) lookupMethods(class, name string) []*MethodInfo {
	for _, info := range c.chain(class) {
		if ms, ok := info.Methods[name]; ok {
			return ms
		}
	}
	return nil
}

func (c *Checker) checkSuper(e *ast.SuperExpr) string {
	if c.static {
		c.report(e.Pos(), errors.E0103, "", "super")
	}
	if c.class.Super == "" {
		c.report(e.Pos(), errors.E0407, "", c.class.Name)
		return types.Object
	}
	return c.class.Super
}

// ============================================================================
// 成员访问
// ============================================================================

func (c *Checker) checkFieldAccess(e *ast.FieldAccess) string {
	name := e.Name.Name

	if class, ok := c.classRef(e.Object); ok {
		if c.IsClass(class) {
			f, ok := c.lookupField(class, name)
			if !ok {
				c.report(e.Name.Pos(), errors.E0406, "", name, class)
				return types.Unknown
			}
			if !f.Static {
				c.report(e.Name.Pos(), errors.E0102, "", name)
			}
			return f.Type
		}
		t, _ := types.StaticField(class, name)
		return t
	}

	recv := c.checkExpr(e.Object)
	if types.IsArray(recv) {
		if name == "length" {
			return types.Int
		}
		c.report(e.Name.Pos(), errors.E0406, "", name, recv)
		return types.Unknown
	}
	if c.IsClass(types.Base(recv)) {
		if f, ok := c.lookupField(types.Base(recv), name); ok {
			return f.Type
		}
		c.report(e.Name.Pos(), errors.E0406, "", name, types.Base(recv))
	}
	return types.Unknown
}

func (c *Checker) checkIndex(e *ast.IndexExpr) string {
	recv := c.checkExpr(e.Object)
	idx := c.checkExpr(e.Index)
	if !types.IsUnknown(idx) && !types.IsIntegral(idx) {
		c.report(e.Index.Pos(), errors.E0211, "", idx)
	}
	if types.IsUnknown(recv) {
		return types.Unknown
	}
	if !types.IsArray(recv) {
		c.report(e.Object.Pos(), errors.E0210, "", recv)
		return types.Unknown
	}
	return types.Elem(recv)
}

// ============================================================================
// 调用
// ============================================================================

func (c *Checker) checkCall(e *ast.MethodCall) string {
	if types.IsPrintCall(e) {
		// 输出语句不做签名检查
		c.checkArgs(e.Args)
		return types.Void
	}

	name := e.Name.Name

	if e.Object == nil {
		args := c.checkArgs(e.Args)
		cands := c.lookupMethods(c.class.Name, name)
		if len(cands) == 0 {
			c.reportMissingMethod(e, c.class.Name)
			return types.Unknown
		}
		m := c.resolveCall(e, cands, args, name, errors.E0300)
		if m == nil {
			return types.Unknown
		}
		if c.static && !m.Static {
			c.report(e.Name.Pos(), errors.E0102, "", name)
		}
		return m.Result
	}

	if class, ok := c.classRef(e.Object); ok {
		args := c.checkArgs(e.Args)
		if !c.IsClass(class) {
			t, _ := types.StaticMethod(class, name, args)
			return t
		}
		cands := c.lookupMethods(class, name)
		if len(cands) == 0 {
			c.reportMissingMethod(e, class)
			return types.Unknown
		}
		m := c.resolveCall(e, cands, args, name, errors.E0300)
		if m == nil {
			return types.Unknown
		}
		if !m.Static {
			c.report(e.Name.Pos(), errors.E0102, "", name)
		}
		return m.Result
	}

	recv := c.checkExpr(e.Object)
	args := c.checkArgs(e.Args)
	base := types.Base(recv)
	if c.IsClass(base) {
		cands := c.lookupMethods(base, name)
		if len(cands) == 0 {
			if t, ok := objectMethod(name); ok {
				return t
			}
			if info := c.classes[base]; c.inheritsLibrary(info) {
				return types.Unknown
			}
			c.reportMissingMethod(e, base)
			return types.Unknown
		}
		if m := c.resolveCall(e, cands, args, name, errors.E0300); m != nil {
			return m.Result
		}
		return types.Unknown
	}
	if t, ok := types.InstanceMethod(recv, name, args); ok {
		return t
	}
	if t, ok := objectMethod(name); ok && types.IsReference(recv) {
		return t
	}
	return types.Unknown
}

// objectMethod 所有对象都有的方法
func objectMethod(name string) (string, bool) {
	switch name {
	case "toString":
		return types.String, true
	case "equals":
		return types.Boolean, true
	case "hashCode":
		return types.Int, true
	}
	return "", false
}

// inheritsLibrary 类的继承链是否以标准库类结尾（方法可能来自库类）
func (c *Checker) inheritsLibrary(info *ClassInfo) bool {
	chain := c.chain(info.Name)
	last := chain[len(chain)-1]
	return last.Super != "" && !c.IsClass(last.Super)
}

func (c *Checker) reportMissingMethod(e *ast.MethodCall, class string) {
	var names []string
	for _, info := range c.chain(class) {
		for n := range info.Methods {
			names = append(names, n)
		}
	}
	c.report(e.Name.Pos(), errors.E0302, errors.DidYouMean(e.Name.Name, names), e.Name.Name, class)
}

func (c *Checker) checkCtorCall(e *ast.CtorCall) {
	keyword := e.Token.Literal
	if !c.inCtor || !c.ctorCallsOK {
		c.report(e.Pos(), errors.E0306, "", keyword)
	}
	args := c.checkArgs(e.Args)

	target := c.class
	if e.IsSuper() {
		if c.class.Super == "" {
			c.report(e.Pos(), errors.E0407, "", c.class.Name)
			return
		}
		super, ok := c.classes[c.class.Super]
		if !ok {
			return // 标准库父类，不检查
		}
		target = super
	}
	c.resolveCtor(e, target, args)
}

func (c *Checker) checkNew(e *ast.NewExpr) string {
	args := c.checkArgs(e.Args)
	t := e.Type.String()
	if info, ok := c.classes[types.Base(t)]; ok {
		c.resolveCtor(e, info, args)
	}
	return t
}

// resolveCtor 构造器重载解析，没有声明构造器时只有无参默认构造器
func (c *Checker) resolveCtor(site ast.Node, info *ClassInfo, args []string) {
	if len(info.Ctors) == 0 {
		if len(args) != 0 {
			c.report(site.Pos(), errors.E0303, "", info.Name, strings.Join(args, ", "))
		}
		return
	}
	c.resolveCall(site, info.Ctors, args, info.Name, errors.E0303)
}

// resolveCall 在重载集合中选出被调用的方法
//
// 选择规则：先找参数个数与类型都兼容的候选；其中若恰有一个与实参类型完全相同
// 则选它；否则选出比其余候选都更具体的唯一一个；仍不唯一时报告歧义。
// 实参类型未知时不报告歧义，取第一个候选。
func (c *Checker) resolveCall(site ast.Node, cands []*MethodInfo, args []string, name, noMatch string) *MethodInfo {
	var applicable []*MethodInfo
	for _, m := range cands {
		if c.applicable(m, args) {
			applicable = append(applicable, m)
		}
	}

	switch len(applicable) {
	case 0:
		c.report(site.Pos(), noMatch, "", name, strings.Join(args, ", "))
		return nil
	case 1:
		return applicable[0]
	}

	var exact []*MethodInfo
	for _, m := range applicable {
		if exactMatch(m, args) {
			exact = append(exact, m)
		}
	}
	if len(exact) == 1 {
		return exact[0]
	}

	var best []*MethodInfo
	for _, m := range applicable {
		specific := true
		for _, other := range applicable {
			if other != m && !c.moreSpecific(m, other) {
				specific = false
				break
			}
		}
		if specific {
			best = append(best, m)
		}
	}
	if len(best) == 1 {
		return best[0]
	}

	for _, a := range args {
		if types.IsUnknown(a) || a == types.Null {
			return applicable[0]
		}
	}
	c.report(site.Pos(), errors.E0301, "", name, strings.Join(args, ", "))
	return applicable[0]
}

func (c *Checker) applicable(m *MethodInfo, args []string) bool {
	shape := m.shape()
	if !shape.Accepts(len(args)) {
		return false
	}
	for i, a := range args {
		if !types.Assignable(shape.ParamAt(i, len(args)), a, c) {
			return false
		}
	}
	return true
}

func exactMatch(m *MethodInfo, args []string) bool {
	if m.Variadic || len(m.Params) != len(args) {
		return false
	}
	for i, a := range args {
		if m.Params[i] != a {
			return false
		}
	}
	return true
}

// moreSpecific m 的每个参数都能赋给 other 对应的参数
func (c *Checker) moreSpecific(m, other *MethodInfo) bool {
	if len(m.Params) != len(other.Params) {
		return !m.Variadic && other.Variadic
	}
	for i := range m.Params {
		if !types.Assignable(other.Params[i], m.Params[i], c) {
			return false
		}
	}
	return true
}

// ============================================================================
// 赋值
// ============================================================================

func (c *Checker) checkAssign(e *ast.AssignExpr) string {
	left := c.checkExpr(e.Left)
	right := c.checkExpr(e.Right)

	if e.Operator.Type == token.ASSIGN {
		c.checkAssignable(e.Right, left, right)
		return left
	}

	if e.Operator.Type == token.PLUS_ASSIGN && types.IsString(left) {
		return left
	}
	op, _ := token.CompoundBase(e.Operator.Type)
	if _, ok := types.BinaryResult(op, left, right); !ok {
		c.report(e.Operator.Pos, errors.E0203, "", e.Operator.Literal, left, right)
	}
	return left
}
