package types

import (
	"strings"

	"github.com/tangzhangming/jpy/internal/ast"
)

// ============================================================================
// 声明类型索引
// ============================================================================

// FieldShape 字段的声明类型
type FieldShape struct {
	Type   string
	Static bool
}

// MethodShape 方法或构造器的声明签名
type MethodShape struct {
	Name     string
	Return   string
	Params   []string
	Static   bool
	Variadic bool
}

// Accepts 判断实参个数是否匹配
func (m MethodShape) Accepts(n int) bool {
	if m.Variadic {
		return n >= len(m.Params)-1
	}
	return n == len(m.Params)
}

// ParamAt 返回第 i 个实参对应的形参类型（可变参数展开为元素类型）
func (m MethodShape) ParamAt(i, nargs int) string {
	last := len(m.Params) - 1
	if m.Variadic && i >= last {
		if nargs == len(m.Params) && i == last {
			return Unknown // 可能直接传入数组
		}
		return Elem(m.Params[last])
	}
	if i < len(m.Params) {
		return m.Params[i]
	}
	return Unknown
}

// ClassShape 类的声明类型
type ClassShape struct {
	Name    string
	Super   string
	Fields  map[string]FieldShape
	Methods map[string][]MethodShape
	Ctors   []MethodShape
}

// Index 文件中全部类的声明类型，供重写器与生成器做静态类型推断
//
// 与检查器的符号表不同，Index 不报告任何问题：重复声明以先出现者为准。
type Index struct {
	classes map[string]*ClassShape
	order   []string
}

// NewIndex 从语法树建立索引
func NewIndex(file *ast.File) *Index {
	ix := &Index{classes: make(map[string]*ClassShape)}
	for _, cls := range file.Classes() {
		name := cls.Name.Name
		if _, dup := ix.classes[name]; dup {
			continue
		}
		ix.classes[name] = shapeOf(cls)
		ix.order = append(ix.order, name)
	}
	return ix
}

func shapeOf(cls *ast.ClassDecl) *ClassShape {
	shape := &ClassShape{
		Name:    cls.Name.Name,
		Super:   cls.SuperName(),
		Fields:  make(map[string]FieldShape),
		Methods: make(map[string][]MethodShape),
	}
	classParams := identNames(cls.TypeParams)

	for _, m := range cls.Members {
		switch m := m.(type) {
		case *ast.FieldDecl:
			if _, dup := shape.Fields[m.Name.Name]; !dup {
				shape.Fields[m.Name.Name] = FieldShape{Type: Erase(m.Type.String(), classParams), Static: m.IsStatic()}
			}
		case *ast.ConstructorDecl:
			shape.Ctors = append(shape.Ctors, MethodShape{
				Name:     shape.Name,
				Return:   Void,
				Params:   paramTypes(m.Params, classParams),
				Variadic: isVariadic(m.Params),
			})
		case *ast.MethodDecl:
			params := append(identNames(m.TypeParams), classParams...)
			shape.Methods[m.Name.Name] = append(shape.Methods[m.Name.Name], MethodShape{
				Name:     m.Name.Name,
				Return:   Erase(m.ReturnType.String(), params),
				Params:   paramTypes(m.Params, params),
				Static:   m.IsStatic(),
				Variadic: isVariadic(m.Params),
			})
		}
	}
	return shape
}

func identNames(ids []*ast.Identifier) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name
	}
	return names
}

func paramTypes(params []*ast.Parameter, typeParams []string) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = Erase(p.DeclaredType().String(), typeParams)
	}
	return out
}

func isVariadic(params []*ast.Parameter) bool {
	return len(params) > 0 && params[len(params)-1].Variadic
}

// Erase 把类型形参（及其数组）擦除为 Unknown
func Erase(t string, typeParams []string) string {
	base := strings.TrimRight(t, "[]")
	for _, p := range typeParams {
		if base == p {
			return Unknown
		}
	}
	return t
}

// Class 按名字查找类
func (ix *Index) Class(name string) (*ClassShape, bool) {
	c, ok := ix.classes[name]
	return c, ok
}

// Classes 按声明顺序返回全部类名
func (ix *Index) Classes() []string {
	return ix.order
}

// IsClass 实现 Hierarchy
func (ix *Index) IsClass(name string) bool {
	_, ok := ix.classes[name]
	return ok
}

// IsSubclass 实现 Hierarchy，沿 extends 链查找，容忍继承环
func (ix *Index) IsSubclass(sub, super string) bool {
	seen := make(map[string]bool)
	for name := sub; name != "" && !seen[name]; {
		if name == super {
			return true
		}
		seen[name] = true
		c, ok := ix.classes[name]
		if !ok {
			return libraryExtends(name, super)
		}
		name = c.Super
	}
	return false
}

// chain 返回从 name 开始的用户类继承链
func (ix *Index) chain(name string) []*ClassShape {
	var out []*ClassShape
	seen := make(map[string]bool)
	for name != "" && !seen[name] {
		seen[name] = true
		c, ok := ix.classes[name]
		if !ok {
			break
		}
		out = append(out, c)
		name = c.Super
	}
	return out
}

// LookupField 沿继承链查找字段，返回声明它的类
func (ix *Index) LookupField(class, name string) (FieldShape, string, bool) {
	for _, c := range ix.chain(class) {
		if f, ok := c.Fields[name]; ok {
			return f, c.Name, true
		}
	}
	return FieldShape{}, "", false
}

// LookupMethods 沿继承链查找同名方法，返回第一个声明它们的类及重载列表
func (ix *Index) LookupMethods(class, name string) ([]MethodShape, string) {
	for _, c := range ix.chain(class) {
		if ms, ok := c.Methods[name]; ok {
			return ms, c.Name
		}
	}
	return nil, ""
}

// ShadowsMethod 判断 owner 声明的字段 name 是否与继承体系中的同名方法冲突
//
// 冲突的类包括 owner 本身、它的父类和所有子类。
func (ix *Index) ShadowsMethod(owner, name string) bool {
	for _, class := range ix.order {
		for _, c := range ix.chain(class) {
			if c.Name != owner {
				continue
			}
			if ms, _ := ix.LookupMethods(class, name); len(ms) > 0 {
				return true
			}
			break
		}
	}
	return false
}

// Pick 按实参类型挑选重载：优先全部兼容者，其次个数匹配者
func Pick(cands []MethodShape, args []string, h Hierarchy) (MethodShape, bool) {
	var byArity []MethodShape
	for _, m := range cands {
		if !m.Accepts(len(args)) {
			continue
		}
		byArity = append(byArity, m)
		ok := true
		for i, a := range args {
			if !Assignable(m.ParamAt(i, len(args)), a, h) {
				ok = false
				break
			}
		}
		if ok {
			return m, true
		}
	}
	if len(byArity) > 0 {
		return byArity[0], true
	}
	return MethodShape{}, false
}

// ============================================================================
// 作用域环境
// ============================================================================

// Env 一个方法体内的声明类型环境
type Env struct {
	index  *Index
	class  string
	static bool
	scopes []map[string]string
}

// Env 为 class 中的方法体创建环境，static 表示静态上下文
func (ix *Index) Env(class string, static bool) *Env {
	return &Env{index: ix, class: class, static: static, scopes: []map[string]string{{}}}
}

// Index 返回所属索引
func (e *Env) Index() *Index { return e.index }

// Class 返回当前类名
func (e *Env) Class() string { return e.class }

// Static 是否为静态上下文
func (e *Env) Static() bool { return e.static }

// Push 进入块作用域
func (e *Env) Push() {
	e.scopes = append(e.scopes, map[string]string{})
}

// Pop 离开块作用域
func (e *Env) Pop() {
	if len(e.scopes) > 1 {
		e.scopes = e.scopes[:len(e.scopes)-1]
	}
}

// Declare 在当前作用域声明局部变量
func (e *Env) Declare(name, typ string) {
	e.scopes[len(e.scopes)-1][name] = typ
}

// Local 查找局部变量或参数
func (e *Env) Local(name string) (string, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if t, ok := e.scopes[i][name]; ok {
			return t, true
		}
	}
	return "", false
}

// Field 在当前类的继承链上查找字段
func (e *Env) Field(name string) (FieldShape, string, bool) {
	return e.index.LookupField(e.class, name)
}

// ClassRef 判断表达式是否是对类本身的引用（用于静态成员访问）
func (e *Env) ClassRef(expr ast.Expression) (string, bool) {
	id, ok := expr.(*ast.Identifier)
	if !ok {
		return "", false
	}
	if _, local := e.Local(id.Name); local {
		return "", false
	}
	if _, _, field := e.Field(id.Name); field {
		return "", false
	}
	if e.index.IsClass(id.Name) || IsKnownLibraryType(id.Name) {
		return id.Name, true
	}
	return "", false
}

// ============================================================================
// 表达式静态类型
// ============================================================================

// TypeOf 推断表达式的静态类型，无法推断时返回 Unknown
func (e *Env) TypeOf(expr ast.Expression) string {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		if strings.HasSuffix(n.Token.Literal, "l") || strings.HasSuffix(n.Token.Literal, "L") {
			return Long
		}
		return Int
	case *ast.FloatLiteral:
		if strings.HasSuffix(n.Token.Literal, "f") || strings.HasSuffix(n.Token.Literal, "F") {
			return Float
		}
		return Double
	case *ast.StringLiteral:
		return String
	case *ast.CharLiteral:
		return Char
	case *ast.BoolLiteral:
		return Boolean
	case *ast.NullLiteral:
		return Null

	case *ast.Identifier:
		if t, ok := e.Local(n.Name); ok {
			return t
		}
		if f, _, ok := e.Field(n.Name); ok {
			return f.Type
		}
		return Unknown

	case *ast.ThisExpr:
		return e.class
	case *ast.SuperExpr:
		if c, ok := e.index.Class(e.class); ok && c.Super != "" {
			return c.Super
		}
		return Object

	case *ast.FieldAccess:
		return e.fieldAccessType(n)
	case *ast.IndexExpr:
		return Elem(e.TypeOf(n.Object))
	case *ast.MethodCall:
		return e.callType(n)

	case *ast.NewExpr:
		return n.Type.String()
	case *ast.NewArrayExpr:
		return n.ElementType.String() + strings.Repeat("[]", n.Rank())
	case *ast.ArrayLiteral:
		return Unknown

	case *ast.UnaryExpr:
		t, _ := UnaryResult(n.Operator.Type, e.TypeOf(n.Operand))
		return t
	case *ast.PostfixExpr:
		return e.TypeOf(n.Operand)
	case *ast.BinaryExpr:
		t, _ := BinaryResult(n.Operator.Type, e.TypeOf(n.Left), e.TypeOf(n.Right))
		return t
	case *ast.AssignExpr:
		return e.TypeOf(n.Left)
	case *ast.TernaryExpr:
		return Common(e.TypeOf(n.Then), e.TypeOf(n.Else), e.index)
	case *ast.CastExpr:
		return n.Type.String()
	case *ast.InstanceOfExpr:
		return Boolean
	case *ast.CtorCall:
		return Void
	case *ast.LambdaExpr, *ast.MethodRefExpr:
		return Unknown
	}
	panic("types.TypeOf: unexpected expression " + expr.String())
}

// TypesOf 推断一组表达式的类型
func (e *Env) TypesOf(exprs []ast.Expression) []string {
	out := make([]string, len(exprs))
	for i, x := range exprs {
		out[i] = e.TypeOf(x)
	}
	return out
}

func (e *Env) fieldAccessType(n *ast.FieldAccess) string {
	if class, ok := e.ClassRef(n.Object); ok {
		if f, _, ok := e.index.LookupField(class, n.Name.Name); ok {
			return f.Type
		}
		if t, ok := StaticField(class, n.Name.Name); ok {
			return t
		}
		return Unknown
	}

	recv := e.TypeOf(n.Object)
	if IsArray(recv) && n.Name.Name == "length" {
		return Int
	}
	if f, _, ok := e.index.LookupField(Base(recv), n.Name.Name); ok {
		return f.Type
	}
	return Unknown
}

func (e *Env) callType(n *ast.MethodCall) string {
	args := e.TypesOf(n.Args)
	name := n.Name.Name

	if n.Object == nil {
		ms, _ := e.index.LookupMethods(e.class, name)
		if m, ok := Pick(ms, args, e.index); ok {
			return m.Return
		}
		return Unknown
	}

	if class, ok := e.ClassRef(n.Object); ok {
		if ms, _ := e.index.LookupMethods(class, name); len(ms) > 0 {
			if m, ok := Pick(ms, args, e.index); ok {
				return m.Return
			}
			return Unknown
		}
		t, _ := StaticMethod(class, name, args)
		return t
	}

	recv := e.TypeOf(n.Object)
	if ms, _ := e.index.LookupMethods(Base(recv), name); len(ms) > 0 {
		if m, ok := Pick(ms, args, e.index); ok {
			return m.Return
		}
		return Unknown
	}
	if t, ok := InstanceMethod(recv, name, args); ok {
		return t
	}
	if IsReference(recv) {
		if t, ok := instanceMethods["Object"][name]; ok {
			return t
		}
	}
	return Unknown
}

// IsPrintCall 判断是否为 System.out.println / print / printf 调用
func IsPrintCall(call *ast.MethodCall) bool {
	switch call.Name.Name {
	case "println", "print", "printf":
	default:
		return false
	}
	fa, ok := call.Object.(*ast.FieldAccess)
	if !ok {
		return false
	}
	sys, ok := fa.Object.(*ast.Identifier)
	return ok && sys.Name == "System" && (fa.Name.Name == "out" || fa.Name.Name == "err")
}

// IsPure 判断表达式求值是否没有副作用（不含赋值、自增自减、调用、new）
func IsPure(expr ast.Expression) bool {
	return !ast.Any(expr, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.AssignExpr, *ast.PostfixExpr, *ast.MethodCall, *ast.CtorCall,
			*ast.NewExpr, *ast.NewArrayExpr, *ast.LambdaExpr:
			return true
		case *ast.UnaryExpr:
			return x.IsIncDec()
		}
		return false
	}, func(n ast.Node) bool {
		_, lambda := n.(*ast.LambdaExpr)
		return !lambda
	})
}

// IsLiteral 是否为字面量
func IsLiteral(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.CharLiteral,
		*ast.BoolLiteral, *ast.NullLiteral:
		return true
	}
	return false
}
