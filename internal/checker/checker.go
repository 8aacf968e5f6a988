// Package checker 对语法树做名字解析与类型检查
//
// 检查器从不修改语法树，也不会因为用户代码的问题而失败：所有问题都以
// Diagnostic 的形式按遍历顺序收集并返回。遇到不认识的节点类型属于内部错误，直接 panic。
package checker

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/errors"
	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/token"
	"github.com/tangzhangming/jpy/internal/types"
)

// Checker 语义检查器
//
// 符号表在每次 Check 调用时重新建立，调用结束后只保留给测试查看。
type Checker struct {
	classes map[string]*ClassInfo
	order   []string
	others  map[string]bool // interface / enum 名字，只用于名字解析

	scopes scopeArena
	diags  []Diagnostic

	// 当前方法上下文
	class       *ClassInfo
	static      bool
	result      string // 返回类型，构造器为 void
	inCtor      bool
	loops       int
	switches    int
	ctorCallsOK bool // 当前语句是构造器的第一条语句
}

// New 创建检查器
func New() *Checker {
	return &Checker{}
}

// Check 检查文件并返回诊断列表
func Check(file *ast.File) []Diagnostic {
	return New().Check(file)
}

// Check 检查文件并返回诊断列表
func (c *Checker) Check(file *ast.File) []Diagnostic {
	c.classes = make(map[string]*ClassInfo)
	c.order = nil
	c.others = make(map[string]bool)
	c.scopes.reset()
	c.diags = nil

	c.declareClasses(file)
	c.checkHierarchy()
	c.checkOverloads()

	for _, name := range c.order {
		c.checkClass(c.classes[name])
	}
	return c.diags
}

// Class 返回最近一次检查登记的类
func (c *Checker) Class(name string) (*ClassInfo, bool) {
	info, ok := c.classes[name]
	return info, ok
}

// ============================================================================
// Hierarchy
// ============================================================================

// IsClass 实现 types.Hierarchy
func (c *Checker) IsClass(name string) bool {
	_, ok := c.classes[name]
	return ok
}

// IsSubclass 实现 types.Hierarchy
func (c *Checker) IsSubclass(sub, super string) bool {
	seen := make(map[string]bool)
	for name := sub; name != "" && !seen[name]; {
		if name == super {
			return true
		}
		seen[name] = true
		info, ok := c.classes[name]
		if !ok {
			return types.LibraryExtends(name, super)
		}
		name = info.Super
	}
	return false
}

// ============================================================================
// 第一遍：登记类与成员签名
// ============================================================================

func (c *Checker) declareClasses(file *ast.File) {
	for _, decl := range file.Declarations {
		switch d := decl.(type) {
		case *ast.ClassDecl:
			name := d.Name.Name
			if c.IsClass(name) || c.others[name] {
				c.report(d.Name.Pos(), errors.E0400, "", name)
				continue
			}
			info := newClassInfo(d)
			c.classes[name] = info
			c.order = append(c.order, name)
		case *ast.InterfaceDecl:
			c.others[d.Name.Name] = true
		case *ast.EnumDecl:
			c.others[d.Name.Name] = true
		default:
			panic(fmt.Sprintf("checker: unexpected declaration %T", decl))
		}
	}

	for _, name := range c.order {
		c.declareMembers(c.classes[name])
	}
}

func (c *Checker) declareMembers(info *ClassInfo) {
	for _, member := range info.Decl.Members {
		switch m := member.(type) {
		case *ast.FieldDecl:
			v := &VarInfo{
				Name:   m.Name.Name,
				Type:   types.Erase(m.Type.String(), info.TypeParams),
				Origin: OriginField,
				Static: m.IsStatic(),
				Pos:    m.Name.Pos(),
			}
			if !info.addField(v) {
				c.report(m.Name.Pos(), errors.E0401, "", v.Name, info.Name)
			}

		case *ast.ConstructorDecl:
			ctor := &MethodInfo{
				Name:     info.Name,
				Result:   types.Void,
				Params:   c.paramTypes(m.Params, info.TypeParams),
				Variadic: variadic(m.Params),
				Pos:      m.Name.Pos(),
			}
			for _, other := range info.Ctors {
				if sameParams(other, ctor) {
					c.report(m.Name.Pos(), errors.E0403, "", info.Name, ctor.Signature())
					break
				}
			}
			info.Ctors = append(info.Ctors, ctor)

		case *ast.MethodDecl:
			typeParams := append(identNames(m.TypeParams), info.TypeParams...)
			method := &MethodInfo{
				Name:     m.Name.Name,
				Result:   types.Erase(m.ReturnType.String(), typeParams),
				Params:   c.paramTypes(m.Params, typeParams),
				Static:   m.IsStatic(),
				Variadic: variadic(m.Params),
				Pos:      m.Name.Pos(),
			}
			duplicate := false
			for _, other := range info.Methods[method.Name] {
				if sameParams(other, method) {
					c.report(m.Name.Pos(), errors.E0402, "", method.Name, method.Signature(), info.Name)
					duplicate = true
					break
				}
			}
			if !duplicate {
				info.Methods[method.Name] = append(info.Methods[method.Name], method)
			}

		default:
			panic(fmt.Sprintf("checker: unexpected member %T", member))
		}
	}
}

func (c *Checker) paramTypes(params []*ast.Parameter, typeParams []string) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = types.Erase(p.DeclaredType().String(), typeParams)
	}
	return out
}

func variadic(params []*ast.Parameter) bool {
	return len(params) > 0 && params[len(params)-1].Variadic
}

func identNames(ids []*ast.Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Name
	}
	return out
}

// checkHierarchy 检查父类存在且没有继承环
func (c *Checker) checkHierarchy() {
	for _, name := range c.order {
		info := c.classes[name]
		if info.Super == "" {
			continue
		}
		if !c.IsClass(info.Super) && !types.IsKnownLibraryType(info.Super) && !c.others[info.Super] {
			c.report(info.Decl.Extends.Pos(), errors.E0404, "", info.Super)
			continue
		}

		seen := map[string]bool{name: true}
		for super := info.Super; super != ""; {
			if seen[super] {
				c.report(info.Decl.Name.Pos(), errors.E0405, "", name)
				info.Super = "" // 断开环，后续查找不会死循环
				break
			}
			seen[super] = true
			next, ok := c.classes[super]
			if !ok {
				break
			}
			super = next.Super
		}
	}
}

// checkOverloads 报告翻译后无法按参数区分的重载
func (c *Checker) checkOverloads() {
	for _, name := range c.order {
		info := c.classes[name]
		c.warnIndistinguishable(info.Name, info.Ctors)

		names := make([]string, 0, len(info.Methods))
		for n := range info.Methods {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			c.warnIndistinguishable(n, info.Methods[n])
		}
	}
}

func (c *Checker) warnIndistinguishable(name string, group []*MethodInfo) {
	for i := 1; i < len(group); i++ {
		for j := 0; j < i; j++ {
			if samePythonParams(group[i], group[j]) {
				c.report(group[i].Pos, errors.W0001, "",
					"("+group[j].Signature()+")", "("+group[i].Signature()+")", name)
				break
			}
		}
	}
}

// samePythonParams 两个签名不同的重载映射到 Python 后参数类型是否相同
func samePythonParams(a, b *MethodInfo) bool {
	if len(a.Params) != len(b.Params) || sameParams(a, b) {
		return false
	}
	for i := range a.Params {
		if types.PythonType(a.Params[i]) != types.PythonType(b.Params[i]) {
			return false
		}
	}
	return true
}

// ============================================================================
// 第二遍：检查成员体
// ============================================================================

func (c *Checker) checkClass(info *ClassInfo) {
	for _, member := range info.Decl.Members {
		switch m := member.(type) {
		case *ast.FieldDecl:
			if m.Value == nil {
				continue
			}
			c.enter(info, m.IsStatic(), types.Void, false)
			field, _ := info.Field(m.Name.Name)
			c.checkInitializer(m.Value, field.Type)
			c.leave()

		case *ast.ConstructorDecl:
			c.enter(info, false, types.Void, true)
			c.declareParams(m.Params, info.TypeParams)
			for i, stmt := range m.Body.Statements {
				c.ctorCallsOK = i == 0
				c.checkStmt(stmt)
			}
			c.ctorCallsOK = false
			c.leave()

		case *ast.MethodDecl:
			if m.Body == nil {
				continue
			}
			typeParams := append(identNames(m.TypeParams), info.TypeParams...)
			c.enter(info, m.IsStatic(), types.Erase(m.ReturnType.String(), typeParams), false)
			c.declareParams(m.Params, typeParams)
			// 方法体直接使用参数作用域，局部变量不能与参数同名
			for _, stmt := range m.Body.Statements {
				c.checkStmt(stmt)
			}
			c.leave()
		}
	}
}

func (c *Checker) enter(info *ClassInfo, static bool, result string, ctor bool) {
	c.class = info
	c.static = static
	c.result = result
	c.inCtor = ctor
	c.loops, c.switches = 0, 0
	c.scopes.push()
}

func (c *Checker) leave() {
	c.scopes.pop()
	c.class = nil
}

func (c *Checker) declareParams(params []*ast.Parameter, typeParams []string) {
	for _, p := range params {
		c.declare(&VarInfo{
			Name:   p.Name.Name,
			Type:   types.Erase(p.DeclaredType().String(), typeParams),
			Origin: OriginParam,
			Pos:    p.Name.Pos(),
		})
	}
}

func (c *Checker) declare(v *VarInfo) {
	if !c.scopes.declare(v) {
		c.report(v.Pos, errors.E0101, i18n.T(i18n.HintRedeclared), v.Name)
	}
}

// checkInitializer 检查声明的初始值，数组初始化器逐个元素检查
func (c *Checker) checkInitializer(value ast.Expression, declared string) {
	if lit, ok := value.(*ast.ArrayLiteral); ok {
		c.checkArrayLiteral(lit, declared)
		return
	}
	actual := c.checkExpr(value)
	c.checkAssignable(value, declared, actual)
}

func (c *Checker) checkArrayLiteral(lit *ast.ArrayLiteral, declared string) {
	elem := types.Unknown
	if types.IsArray(declared) {
		elem = types.Elem(declared)
	} else if !types.IsUnknown(declared) && declared != types.Object {
		c.report(lit.Pos(), errors.E0200, "", "array", declared)
	}
	for _, e := range lit.Elements {
		c.checkInitializer(e, elem)
	}
}

// checkAssignable 报告 actual 不能赋给 declared 的情况
func (c *Checker) checkAssignable(value ast.Expression, declared, actual string) {
	if types.Assignable(declared, actual, c) || constantFits(value, declared) {
		return
	}
	c.report(value.Pos(), errors.E0200, i18n.T(i18n.HintCannotAssign), actual, declared)
}

// constantFits 整数常量可以隐式收窄到 byte/short/char
func constantFits(value ast.Expression, target string) bool {
	v, ok := intConstant(value)
	if !ok {
		return false
	}
	var lo, hi int64
	switch types.Unbox(target) {
	case types.Byte:
		lo, hi = -128, 127
	case types.Short:
		lo, hi = -32768, 32767
	case types.Char:
		lo, hi = 0, 65535
	default:
		return false
	}
	return v.Cmp(big.NewInt(lo)) >= 0 && v.Cmp(big.NewInt(hi)) <= 0
}

func intConstant(e ast.Expression) (*big.Int, bool) {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		if last := n.Token.Literal[len(n.Token.Literal)-1]; last == 'l' || last == 'L' {
			return nil, false
		}
		return n.Value, true
	case *ast.UnaryExpr:
		if n.Operator.Type != token.MINUS {
			return nil, false
		}
		v, ok := intConstant(n.Operand)
		if !ok {
			return nil, false
		}
		return new(big.Int).Neg(v), true
	}
	return nil, false
}

// ============================================================================
// 诊断
// ============================================================================

// report 记录一条诊断，级别由错误码决定
func (c *Checker) report(pos token.Position, code, hint string, args ...interface{}) {
	info, ok := errors.GetErrorInfo(code)
	if !ok {
		panic("checker: unknown diagnostic code " + code)
	}
	if hint == "" && info.HintID != "" && code != errors.E0100 {
		hint = i18n.T(info.HintID)
	}
	c.diags = append(c.diags, Diagnostic{
		Pos:      pos,
		Code:     code,
		Severity: info.Level,
		Message:  i18n.T(info.MessageID, args...),
		Hint:     hint,
	})
}
