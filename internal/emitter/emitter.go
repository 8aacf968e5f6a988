// Package emitter 把语法树生成为 Python 源代码
//
// 生成器假定语法树来自一次成功的语法分析（检查器的诊断不影响生成）。遇到
// 已知但不翻译的结构（接口、枚举、注解、lambda、instanceof 等）时返回
// *UnsupportedConstructError，不会输出部分代码。
package emitter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/token"
	"github.com/tangzhangming/jpy/internal/types"
)

// sentinel 合并重载时未传入参数的默认值
const sentinel = "_UNSET"

// Emitter Python 代码生成器
type Emitter struct {
	options *Options
	buf     strings.Builder
	indent  int

	index *types.Index
	env   *types.Env

	imports  map[string]bool
	helpers  map[string]bool
	sentinel bool

	class       *ast.ClassDecl
	classBody   bool              // 正在生成类体中的静态字段初始值
	returnType  string            // 当前方法的返回类型
	pendingAnno map[string]string // 构造器开头直接赋值的字段，首次赋值时带类型注解
	loops       []loopFrame
	temps       int
}

// loopFrame 一层循环：continue 前需要补上的更新表达式
type loopFrame struct {
	update []ast.Expression
}

// New 创建生成器，options 为 nil 时使用默认选项
func New(options *Options) *Emitter {
	if options == nil {
		options = DefaultOptions()
	}
	return &Emitter{options: options}
}

// Emit 使用给定选项生成 Python 代码
func Emit(file *ast.File, options *Options) (string, error) {
	return New(options).Emit(file)
}

// Emit 生成整个文件
func (e *Emitter) Emit(file *ast.File) (code string, err error) {
	e.reset(file)

	defer func() {
		if r := recover(); r != nil {
			u, ok := r.(unsupported)
			if !ok {
				panic(r)
			}
			code, err = "", u.err
		}
	}()

	e.file(file)
	return e.assemble(), nil
}

func (e *Emitter) reset(file *ast.File) {
	e.buf.Reset()
	e.indent = 0
	e.index = types.NewIndex(file)
	e.env = nil
	e.imports = make(map[string]bool)
	e.helpers = make(map[string]bool)
	e.sentinel = false
	e.class = nil
	e.classBody = false
	e.pendingAnno = nil
	e.loops = nil
	e.temps = 0
}

// assemble 在生成的类前面加上文件头、导入、哨兵与辅助函数
func (e *Emitter) assemble() string {
	var b strings.Builder
	b.WriteString("from __future__ import annotations\n")

	if len(e.imports) > 0 {
		names := make([]string, 0, len(e.imports))
		for name := range e.imports {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("\n")
		for _, name := range names {
			b.WriteString("import " + name + "\n")
		}
	}
	if e.sentinel {
		b.WriteString("\n" + sentinel + " = object()\n")
	}
	e.writeHelpers(&b)

	body := e.buf.String()
	if body != "" {
		b.WriteString("\n\n")
		b.WriteString(body)
	}
	return b.String()
}

// ============================================================================
// 输出
// ============================================================================

func (e *Emitter) line(s string) {
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString(e.options.unit())
	}
	e.buf.WriteString(s)
	e.buf.WriteString("\n")
}

func (e *Emitter) blank() {
	e.buf.WriteString("\n")
}

// suite 生成一个缩进块，块内没有输出任何语句时补 pass
func (e *Emitter) suite(fn func()) {
	e.indent++
	start := e.buf.Len()
	fn()
	if e.buf.Len() == start {
		e.line("pass")
	}
	e.indent--
}

func (e *Emitter) use(module string) {
	e.imports[module] = true
}

// temp 返回生成代码使用的临时变量名
func (e *Emitter) temp(base string) string {
	e.temps++
	if e.temps == 1 {
		return base
	}
	return base + strconv.Itoa(e.temps)
}

// ============================================================================
// 声明
// ============================================================================

func (e *Emitter) file(file *ast.File) {
	var mainClass string
	for i, decl := range file.Declarations {
		switch d := decl.(type) {
		case *ast.ClassDecl:
			if i > 0 {
				e.blank()
				e.blank()
			}
			e.classDecl(d)
			if mainClass == "" && hasMain(d) {
				mainClass = d.Name.Name
			}
		case *ast.InterfaceDecl:
			fail(i18n.ConstructInterface, d.Pos())
		case *ast.EnumDecl:
			fail(i18n.ConstructEnum, d.Pos())
		default:
			panic("emitter: unexpected declaration " + decl.String())
		}
	}

	if mainClass != "" && e.options.MainGuard {
		e.use("sys")
		e.blank()
		e.blank()
		e.line(`if __name__ == "__main__":`)
		e.indent++
		e.line(mainClass + ".main(sys.argv[1:])")
		e.indent--
	}
}

func hasMain(cls *ast.ClassDecl) bool {
	for _, m := range cls.Methods() {
		if m.IsMain() && m.Body != nil {
			return true
		}
	}
	return false
}

// rejectAnnotations 按源代码顺序找到第一个注解
func rejectAnnotations(cls *ast.ClassDecl) {
	if len(cls.Annotations) > 0 {
		fail(i18n.ConstructAnnotation, cls.Annotations[0].Pos())
	}
	for _, m := range cls.Members {
		var anns []*ast.Annotation
		switch m := m.(type) {
		case *ast.FieldDecl:
			anns = m.Annotations
		case *ast.ConstructorDecl:
			anns = m.Annotations
		case *ast.MethodDecl:
			anns = m.Annotations
		}
		if len(anns) > 0 {
			fail(i18n.ConstructAnnotation, anns[0].Pos())
		}
	}
}

func (e *Emitter) classDecl(cls *ast.ClassDecl) {
	rejectAnnotations(cls)
	e.class = cls
	defer func() { e.class = nil }()

	name := cls.Name.Name
	if base := e.baseClass(cls); base != "" {
		e.line("class " + name + "(" + base + "):")
	} else {
		e.line("class " + name + ":")
	}

	var deferred []*ast.FieldDecl
	e.suite(func() {
		first := true
		member := func() {
			if !first {
				e.blank()
			}
			first = false
		}

		// 静态字段在类体中
		var instance []*ast.FieldDecl
		statics := false
		for _, f := range cls.Fields() {
			if !f.IsStatic() {
				instance = append(instance, f)
				continue
			}
			statics = true
			if e.staticField(f) {
				deferred = append(deferred, f)
			}
		}
		if statics {
			first = false
		}

		if e.needsInit(cls, instance) {
			member()
			e.constructors(cls, instance)
		}

		for _, group := range methodGroups(cls) {
			member()
			e.methods(group)
			if hasToString(group) {
				e.blank()
				e.line("def __str__(self) -> str:")
				e.indent++
				e.line("return self.toString()")
				e.indent--
			}
		}
	})

	// 依赖类本身的静态初始值在类定义完成后赋值
	for _, f := range deferred {
		e.env = e.index.Env(name, true)
		e.line(name + "." + e.fieldName(name, f.Name.Name) + " = " + e.convert(f.Value, e.fieldType(f)))
		e.env = nil
	}
}

// baseClass 返回 Python 基类名，没有 extends 时为空
func (e *Emitter) baseClass(cls *ast.ClassDecl) string {
	super := cls.SuperName()
	switch {
	case super == "":
		return ""
	case e.index.IsClass(super):
		return super
	case types.IsException(super):
		return types.PythonException(super)
	}
	return types.PythonType(super)
}

func (e *Emitter) fieldType(f *ast.FieldDecl) string {
	return types.Erase(f.Type.String(), identNames(e.class.TypeParams))
}

// staticField 生成类体中的静态字段，返回 true 表示初始值要在类定义之后赋值
func (e *Emitter) staticField(f *ast.FieldDecl) bool {
	typ := e.fieldType(f)
	anno := e.fieldName(e.class.Name.Name, f.Name.Name) + ": " + types.PythonType(typ)

	if f.Value == nil {
		e.line(anno + " = " + types.PythonDefault(typ))
		return false
	}
	if needsClass(f.Value) {
		e.line(anno)
		return true
	}

	e.env = e.index.Env(e.class.Name.Name, true)
	e.classBody = true
	e.line(anno + " = " + e.convert(f.Value, typ))
	e.classBody = false
	e.env = nil
	return false
}

// needsClass 初始值是否可能在类体执行时引用尚未定义的类或方法
func needsClass(value ast.Expression) bool {
	return ast.Any(value, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.MethodCall, *ast.NewExpr, *ast.ThisExpr, *ast.AssignExpr, *ast.PostfixExpr:
			return true
		case *ast.UnaryExpr:
			return x.IsIncDec()
		}
		return false
	}, nil)
}

func identNames(ids []*ast.Identifier) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name
	}
	return names
}

// ============================================================================
// 构造器
// ============================================================================

// needsInit 是否需要生成 __init__
func (e *Emitter) needsInit(cls *ast.ClassDecl, instance []*ast.FieldDecl) bool {
	return len(cls.Constructors()) > 0 || len(instance) > 0
}

func (e *Emitter) constructors(cls *ast.ClassDecl, fields []*ast.FieldDecl) {
	ctors := cls.Constructors()
	hasBase := cls.Extends != nil

	if len(ctors) == 0 {
		e.line("def __init__(self) -> None:")
		e.env = e.index.Env(cls.Name.Name, false)
		e.suite(func() {
			if hasBase {
				e.line("super().__init__()")
			}
			e.fieldInits(fields, nil)
		})
		e.env = nil
		return
	}

	overloads := make([]*overload, len(ctors))
	for i, c := range ctors {
		overloads[i] = &overload{params: c.Params, body: c.Body, isCtor: true}
	}
	e.emitGroup("__init__", overloads, false, types.Void, func(o *overload) {
		e.ctorBody(o.body, fields, hasBase)
	})
}

// ctorBody 生成构造器体：先调用父类或委托构造器，再初始化字段
func (e *Emitter) ctorBody(body *ast.BlockStmt, fields []*ast.FieldDecl, hasBase bool) {
	stmts := body.Statements
	var call *ast.CtorCall
	if len(stmts) > 0 {
		if es, ok := stmts[0].(*ast.ExprStmt); ok {
			call, _ = es.Expr.(*ast.CtorCall)
		}
	}

	switch {
	case call != nil && !call.IsSuper():
		// this(...) 委托的构造器负责字段初始化
		e.stmts(stmts)
	case call != nil:
		e.stmt(stmts[0])
		e.fieldInits(fields, stmts[1:])
		e.stmts(stmts[1:])
	default:
		if hasBase {
			e.line("super().__init__()")
		}
		e.fieldInits(fields, stmts)
		e.stmts(stmts)
	}
	e.pendingAnno = nil
}

// fieldInits 生成实例字段的初始化
//
// 没有初始值、且在构造器开头被直接赋值的字段不生成默认值，改为在那次赋值上
// 加类型注解。
func (e *Emitter) fieldInits(fields []*ast.FieldDecl, body []ast.Statement) {
	assigned := e.leadingAssigned(fields, body)
	e.pendingAnno = make(map[string]string)

	// 字段初始值看不到构造器参数
	saved := e.env
	e.env = e.index.Env(e.class.Name.Name, false)
	defer func() { e.env = saved }()

	for _, f := range fields {
		typ := e.fieldType(f)
		name := e.fieldName(e.class.Name.Name, f.Name.Name)
		if f.Value == nil && assigned[f.Name.Name] {
			e.pendingAnno[f.Name.Name] = types.PythonType(typ)
			continue
		}
		value := types.PythonDefault(typ)
		if f.Value != nil {
			value = e.convert(f.Value, typ)
		}
		e.line("self." + name + ": " + types.PythonType(typ) + " = " + value)
	}
}

// leadingAssigned 返回构造器开头连续的 `this.f = ...` / `f = ...` 语句赋值的字段
func (e *Emitter) leadingAssigned(fields []*ast.FieldDecl, body []ast.Statement) map[string]bool {
	declared := make(map[string]bool, len(fields))
	for _, f := range fields {
		declared[f.Name.Name] = true
	}

	out := make(map[string]bool)
	for _, s := range body {
		es, ok := s.(*ast.ExprStmt)
		if !ok {
			break
		}
		assign, ok := es.Expr.(*ast.AssignExpr)
		if !ok || assign.Operator.Type != token.ASSIGN {
			break
		}
		name, ok := e.fieldTarget(assign.Left)
		if !ok || !declared[name] {
			break
		}
		out[name] = true
	}
	return out
}

// fieldTarget 判断赋值目标是否为当前类的实例字段
func (e *Emitter) fieldTarget(target ast.Expression) (string, bool) {
	switch t := target.(type) {
	case *ast.FieldAccess:
		if _, ok := t.Object.(*ast.ThisExpr); ok {
			return t.Name.Name, true
		}
	case *ast.Identifier:
		if _, local := e.env.Local(t.Name); local {
			return "", false
		}
		if f, owner, ok := e.env.Field(t.Name); ok && !f.Static && owner == e.class.Name.Name {
			return t.Name, true
		}
	}
	return "", false
}

// ============================================================================
// 方法
// ============================================================================

// methodGroups 按首次出现的顺序把同名方法分组
func methodGroups(cls *ast.ClassDecl) [][]*ast.MethodDecl {
	var order []string
	groups := make(map[string][]*ast.MethodDecl)
	for _, m := range cls.Methods() {
		name := m.Name.Name
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], m)
	}
	out := make([][]*ast.MethodDecl, len(order))
	for i, name := range order {
		out[i] = groups[name]
	}
	return out
}

func hasToString(group []*ast.MethodDecl) bool {
	for _, m := range group {
		if m.Name.Name == "toString" && len(m.Params) == 0 && !m.IsStatic() {
			return true
		}
	}
	return false
}

func (e *Emitter) methods(group []*ast.MethodDecl) {
	static := true
	overloads := make([]*overload, len(group))
	for i, m := range group {
		typeParams := append(identNames(m.TypeParams), identNames(e.class.TypeParams)...)
		overloads[i] = &overload{
			params:     m.Params,
			body:       m.Body,
			returnType: types.Erase(m.ReturnType.String(), typeParams),
			typeParams: typeParams,
		}
		static = static && m.IsStatic()
	}

	e.emitGroup(pyName(group[0].Name.Name), overloads, static, "", func(o *overload) {
		if o.body == nil {
			e.line("raise NotImplementedError")
			return
		}
		e.stmts(o.body.Statements)
	})
}
