package emitter

import (
	"strings"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/types"
)

// ============================================================================
// 重载合并
//
// Python 一个类中同名的函数只能有一个。构造器或同名方法有多个重载时合并为
// 一个函数：参数表取最长的重载，短重载没有的位置默认为哨兵 _UNSET；函数体
// 按参数个数从多到少依次判断哪些尾部参数已传入，个数相同时再按运行时类型
// 区分，然后执行对应重载的原始语句。
// ============================================================================

// overload 一个构造器或方法重载
type overload struct {
	params     []*ast.Parameter
	body       *ast.BlockStmt // 抽象方法为 nil
	isCtor     bool
	returnType string
	typeParams []string

	types []string // 擦除后的形参类型
}

func (e *Emitter) paramTypes(o *overload) []string {
	if o.types == nil {
		typeParams := o.typeParams
		if o.isCtor {
			typeParams = identNames(e.class.TypeParams)
		}
		o.types = make([]string, len(o.params))
		for i, p := range o.params {
			o.types[i] = types.Erase(p.DeclaredType().String(), typeParams)
		}
	}
	return o.types
}

// enter 为一个重载的函数体建立环境并声明其参数
func (e *Emitter) enter(o *overload, static bool) {
	e.env = e.index.Env(e.class.Name.Name, static)
	for i, p := range o.params {
		e.env.Declare(p.Name.Name, e.paramTypes(o)[i])
	}
	e.returnType = o.returnType
	if o.isCtor {
		e.returnType = types.Void
	}
	e.loops = nil
}

func (e *Emitter) leave() {
	e.env = nil
	e.returnType = ""
}

// emitGroup 生成一组同名重载，ret 为空时由各重载的返回类型决定
func (e *Emitter) emitGroup(name string, group []*overload, static bool, ret string, body func(*overload)) {
	if len(group) == 1 {
		e.single(name, group[0], static, ret, body)
		return
	}
	e.merged(name, group, static, ret, body)
}

func (e *Emitter) single(name string, o *overload, static bool, ret string, body func(*overload)) {
	params := selfParam(static)
	for i, p := range o.params {
		typ := e.paramTypes(o)[i]
		if p.Variadic {
			params = append(params, "*"+pyName(p.Name.Name)+": "+types.PythonType(types.Elem(typ)))
			continue
		}
		params = append(params, pyName(p.Name.Name)+": "+types.PythonType(typ))
	}
	if ret == "" {
		ret = o.returnType
	}

	if static {
		e.line("@staticmethod")
	}
	e.line("def " + name + "(" + strings.Join(params, ", ") + ") -> " + types.PythonType(ret) + ":")
	e.enter(o, static)
	e.suite(func() { body(o) })
	e.leave()
}

func selfParam(static bool) []string {
	if static {
		return nil
	}
	return []string{"self"}
}

func (e *Emitter) merged(name string, group []*overload, static bool, ret string, body func(*overload)) {
	for _, o := range group {
		if n := len(o.params); n > 0 && o.params[n-1].Variadic {
			fail(i18n.ConstructVariadic, o.params[n-1].Pos())
		}
	}

	minArity, longest := len(group[0].params), group[0]
	for _, o := range group {
		if len(o.params) < minArity {
			minArity = len(o.params)
		}
		if len(o.params) > len(longest.params) {
			longest = o
		}
	}

	if len(longest.params) > minArity {
		e.sentinel = true
	}

	slots := make([]string, len(longest.params))
	params := selfParam(static)
	for i, p := range longest.params {
		slots[i] = pyName(p.Name.Name)
		param := slots[i] + ": " + e.slotType(group, i)
		if i >= minArity {
			param += " = " + sentinel
		}
		params = append(params, param)
	}

	if ret == "" {
		ret = types.Unknown
		for i, o := range group {
			if i == 0 || types.PythonType(o.returnType) == types.PythonType(ret) {
				ret = o.returnType
				continue
			}
			ret = types.Unknown
			break
		}
	}

	if static {
		e.line("@staticmethod")
	}
	e.line("def " + name + "(" + strings.Join(params, ", ") + ") -> " + types.PythonType(ret) + ":")

	e.suite(func() {
		branches := e.dispatch(group, slots, minArity)
		for i, br := range branches {
			switch {
			case br.cond == "" && i == 0:
				e.branch(br.o, slots, static, body)
				return
			case br.cond == "":
				e.line("else:")
			case i == 0:
				e.line("if " + br.cond + ":")
			default:
				e.line("elif " + br.cond + ":")
			}
			e.indent++
			e.branch(br.o, slots, static, body)
			e.indent--
		}
	})
}

// slotType 第 i 个合并参数的类型注解：各重载一致时使用该类型，否则为 object
func (e *Emitter) slotType(group []*overload, i int) string {
	anno := ""
	for _, o := range group {
		if i >= len(o.params) {
			continue
		}
		t := types.PythonType(e.paramTypes(o)[i])
		if anno == "" {
			anno = t
		} else if anno != t {
			return "object"
		}
	}
	return anno
}

// branch 生成一个重载的分支：把合并参数重新绑定到该重载自己的参数名
func (e *Emitter) branch(o *overload, slots []string, static bool, body func(*overload)) {
	start := e.buf.Len()
	var names, values []string
	for i, p := range o.params {
		if name := pyName(p.Name.Name); name != slots[i] {
			names = append(names, name)
			values = append(values, slots[i])
		}
	}
	if len(names) > 0 {
		e.line(strings.Join(names, ", ") + " = " + strings.Join(values, ", "))
	}
	e.enter(o, static)
	body(o)
	e.leave()
	if e.buf.Len() == start {
		e.line("pass")
	}
}

type dispatchBranch struct {
	o    *overload
	cond string // 空表示无条件
}

// dispatch 按判断顺序返回分支，第一个无条件分支之后的重载不可达，被丢弃
func (e *Emitter) dispatch(group []*overload, slots []string, minArity int) []dispatchBranch {
	var out []dispatchBranch
	for _, same := range e.byArity(group) {
		n := len(same[0].params)
		var arity string
		if n > minArity {
			arity = slots[n-1] + " is not " + sentinel
		}

		// 类型检查只用于组内各重载不同的位置
		var differ []int
		for i := 0; i < n; i++ {
			first := e.typeCheck(slots[i], e.paramTypes(same[0])[i])
			for _, o := range same[1:] {
				if e.typeCheck(slots[i], e.paramTypes(o)[i]) != first {
					differ = append(differ, i)
					break
				}
			}
		}

		for j, o := range same {
			parts := []string{}
			if arity != "" {
				parts = append(parts, arity)
			}
			if j < len(same)-1 {
				for _, i := range differ {
					if check := e.typeCheck(slots[i], e.paramTypes(o)[i]); check != "" {
						parts = append(parts, check)
					}
				}
			}
			cond := strings.Join(parts, " and ")
			out = append(out, dispatchBranch{o: o, cond: cond})
			if cond == "" {
				return out
			}
		}
	}
	return out
}

// byArity 按参数个数从多到少分组，个数相同的按特殊性排序（更具体的先判断）
func (e *Emitter) byArity(group []*overload) [][]*overload {
	var arities []int
	buckets := make(map[int][]*overload)
	for _, o := range group {
		n := len(o.params)
		if _, ok := buckets[n]; !ok {
			arities = append(arities, n)
		}
		buckets[n] = append(buckets[n], o)
	}
	// 插入排序，保持稳定
	for i := 1; i < len(arities); i++ {
		for j := i; j > 0 && arities[j] > arities[j-1]; j-- {
			arities[j], arities[j-1] = arities[j-1], arities[j]
		}
	}

	out := make([][]*overload, len(arities))
	for i, n := range arities {
		out[i] = e.bySpecificity(buckets[n])
	}
	return out
}

func (e *Emitter) bySpecificity(same []*overload) []*overload {
	rest := append([]*overload(nil), same...)
	var out []*overload
	for len(rest) > 0 {
		pick := 0
		for i, o := range rest {
			dominated := false
			for _, r := range rest {
				if r != o && e.moreSpecific(r, o) && !e.moreSpecific(o, r) {
					dominated = true
					break
				}
			}
			if !dominated {
				pick = i
				break
			}
		}
		out = append(out, rest[pick])
		rest = append(rest[:pick], rest[pick+1:]...)
	}
	return out
}

// moreSpecific a 的每个形参都可以传给 b 的对应形参
func (e *Emitter) moreSpecific(a, b *overload) bool {
	at, bt := e.paramTypes(a), e.paramTypes(b)
	for i := range at {
		if !types.Assignable(bt[i], at[i], e.index) {
			return false
		}
	}
	return true
}

// typeCheck 返回判断 name 的运行时值是否属于 Java 类型 t 的 Python 表达式，无法判断时为空
func (e *Emitter) typeCheck(name, t string) string {
	switch {
	case types.IsUnknown(t) || t == types.Object:
		return ""
	case types.IsArray(t):
		return "isinstance(" + name + ", list)"
	}

	switch types.Unbox(t) {
	case types.Byte, types.Short, types.Int, types.Long:
		return "type(" + name + ") is int"
	case types.Float, types.Double:
		return "type(" + name + ") in (int, float)"
	case types.Boolean:
		return "type(" + name + ") is bool"
	case types.Char:
		return "isinstance(" + name + ", str)"
	}

	base := types.Base(t)
	switch base {
	case types.String, "CharSequence", "StringBuilder":
		return "isinstance(" + name + ", str)"
	}
	switch types.Family(t) {
	case types.FamilyList:
		return "isinstance(" + name + ", list)"
	case types.FamilySet:
		return "isinstance(" + name + ", set)"
	case types.FamilyMap:
		return "isinstance(" + name + ", dict)"
	}
	if e.index.IsClass(base) {
		return "isinstance(" + name + ", " + base + ")"
	}
	if types.IsException(base) {
		return "isinstance(" + name + ", " + types.PythonException(base) + ")"
	}
	return ""
}
