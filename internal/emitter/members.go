package emitter

import (
	"strings"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/types"
)

// ============================================================================
// 标准库实例方法
// ============================================================================

func (e *Emitter) instanceCall(recv string, n *ast.MethodCall) (string, int, bool) {
	base := types.Base(recv)
	switch {
	case base == "StringBuilder":
		return e.builderCall(n)
	case types.IsString(recv):
		return e.stringCall(n)
	case types.Family(recv) == types.FamilyList:
		return e.listCall(recv, n)
	case types.Family(recv) == types.FamilySet:
		return e.setCall(recv, n)
	case types.Family(recv) == types.FamilyMap:
		return e.mapCall(recv, n)
	}

	r := e.operand(n.Object, precAtom)
	name := n.Name.Name
	switch {
	case base == "Map.Entry" || base == "Entry":
		switch name {
		case "getKey":
			return r + "[0]", precAtom, true
		case "getValue":
			return r + "[1]", precAtom, true
		}
	case base == "Scanner":
		switch name {
		case "nextLine", "next":
			return "input()", precAtom, true
		case "nextInt", "nextLong":
			return "int(input())", precAtom, true
		case "nextDouble":
			return "float(input())", precAtom, true
		}
	case base == "Random":
		switch {
		case name == "nextInt" && len(n.Args) == 1:
			return r + ".randrange(" + e.text(n.Args[0]) + ")", precAtom, true
		case name == "nextInt":
			return r + ".randint(-2147483648, 2147483647)", precAtom, true
		case name == "nextDouble":
			return r + ".random()", precAtom, true
		case name == "nextBoolean":
			return r + ".random() < 0.5", precCompare, true
		}
	case e.throwable(base):
		switch name {
		case "getMessage", "getLocalizedMessage":
			return "str(" + e.text(n.Object) + ")", precAtom, true
		case "printStackTrace":
			e.use("traceback")
			return "traceback.print_exc()", precAtom, true
		}
	case types.IsNumeric(recv) || types.IsBoolean(recv):
		switch name {
		case "intValue", "longValue", "shortValue", "byteValue", "booleanValue", "charValue":
			return with(e.expr(n.Object))
		case "doubleValue", "floatValue":
			return e.convert(n.Object, types.Double), precAtom, true
		case "compareTo":
			if len(n.Args) == 1 {
				return compare(e.operand(n.Object, precCompare+1), e.operand(n.Args[0], precCompare+1)), precAdd, true
			}
		case "toString":
			return e.stringOf(n.Object, precLowest), precAtom, true
		}
	}

	if types.IsReference(recv) {
		if s, ok := e.objectMethod(r, n); ok {
			if n.Name.Name == "equals" {
				return s, precCompare, true
			}
			return s, precAtom, true
		}
	}
	return "", 0, false
}

// throwable 是否为标准库异常或继承自标准库异常的用户类
func (e *Emitter) throwable(name string) bool {
	for seen := 0; seen < 64 && name != ""; seen++ {
		if types.IsException(name) {
			return true
		}
		c, ok := e.index.Class(name)
		if !ok {
			return false
		}
		name = c.Super
	}
	return false
}

// ============================================================================
// String
// ============================================================================

// regexMeta 出现这些字符的 split 参数按正则处理
const regexMeta = `.$|()[]{}^?*+\`

func (e *Emitter) stringCall(n *ast.MethodCall) (string, int, bool) {
	r := e.operand(n.Object, precAtom)
	args := n.Args
	arg := func(i int) string { return e.text(args[i]) }

	switch len(args) {
	case 0:
		switch n.Name.Name {
		case "length":
			return "len(" + e.text(n.Object) + ")", precAtom, true
		case "isEmpty":
			return "len(" + e.text(n.Object) + ") == 0", precCompare, true
		case "isBlank":
			return "len(" + r + ".strip()) == 0", precCompare, true
		case "toUpperCase":
			return r + ".upper()", precAtom, true
		case "toLowerCase":
			return r + ".lower()", precAtom, true
		case "trim", "strip":
			return r + ".strip()", precAtom, true
		case "toCharArray":
			return "list(" + e.text(n.Object) + ")", precAtom, true
		case "hashCode":
			return "hash(" + e.text(n.Object) + ")", precAtom, true
		case "toString", "intern":
			return with(e.expr(n.Object))
		}

	case 1:
		switch n.Name.Name {
		case "charAt":
			return r + "[" + arg(0) + "]", precAtom, true
		case "substring":
			return r + "[" + arg(0) + ":]", precAtom, true
		case "indexOf":
			return r + ".find(" + e.convert(args[0], types.Char) + ")", precAtom, true
		case "lastIndexOf":
			return r + ".rfind(" + e.convert(args[0], types.Char) + ")", precAtom, true
		case "equals", "contentEquals":
			return e.operand(n.Object, precCompare+1) + " == " + e.operand(args[0], precCompare+1), precCompare, true
		case "equalsIgnoreCase":
			return r + ".lower() == " + e.operand(args[0], precAtom) + ".lower()", precCompare, true
		case "contains":
			return e.operand(args[0], precCompare+1) + " in " + e.operand(n.Object, precCompare+1), precCompare, true
		case "startsWith":
			return r + ".startswith(" + arg(0) + ")", precAtom, true
		case "endsWith":
			return r + ".endswith(" + arg(0) + ")", precAtom, true
		case "repeat":
			return r + " * " + e.operand(args[0], precMul+1), precMul, true
		case "concat":
			return e.operand(n.Object, precAdd) + " + " + e.operand(args[0], precAdd+1), precAdd, true
		case "compareTo":
			return compare(e.operand(n.Object, precCompare+1), e.operand(args[0], precCompare+1)), precAdd, true
		case "compareToIgnoreCase":
			return compare(r+".lower()", e.operand(args[0], precAtom)+".lower()"), precAdd, true
		case "matches":
			e.use("re")
			return "re.fullmatch(" + arg(0) + ", " + e.text(n.Object) + ") is not None", precCompare, true
		case "split":
			if lit, ok := args[0].(*ast.StringLiteral); ok {
				switch {
				case lit.Value == `\s+` || lit.Value == " +":
					return r + ".split()", precAtom, true
				case !strings.ContainsAny(lit.Value, regexMeta):
					return r + ".split(" + quote(lit.Value) + ")", precAtom, true
				}
			}
			e.use("re")
			return "re.split(" + arg(0) + ", " + e.text(n.Object) + ")", precAtom, true
		}

	case 2:
		switch n.Name.Name {
		case "substring":
			return r + "[" + arg(0) + ":" + arg(1) + "]", precAtom, true
		case "indexOf":
			return r + ".find(" + e.convert(args[0], types.Char) + ", " + arg(1) + ")", precAtom, true
		case "replace":
			return r + ".replace(" + arg(0) + ", " + arg(1) + ")", precAtom, true
		case "replaceAll":
			e.use("re")
			return "re.sub(" + arg(0) + ", " + arg(1) + ", " + e.text(n.Object) + ")", precAtom, true
		case "replaceFirst":
			e.use("re")
			return "re.sub(" + arg(0) + ", " + arg(1) + ", " + e.text(n.Object) + ", count=1)", precAtom, true
		}
	}
	return "", 0, false
}

// ============================================================================
// 集合
// ============================================================================

// orNone 生成 (x if r else None)，用于队列在空时返回 null 的方法
func orNone(x, r string) string {
	return "(" + x + " if " + r + " else None)"
}

func (e *Emitter) listCall(recv string, n *ast.MethodCall) (string, int, bool) {
	r := e.operand(n.Object, precAtom)
	elem := types.Elem(recv)
	stack := types.Base(recv) == "Stack"
	args := n.Args
	arg := func(i int) string { return e.text(args[i]) }

	switch len(args) {
	case 0:
		switch n.Name.Name {
		case "size":
			return "len(" + e.text(n.Object) + ")", precAtom, true
		case "isEmpty", "empty":
			return "len(" + e.text(n.Object) + ") == 0", precCompare, true
		case "clear":
			return r + ".clear()", precAtom, true
		case "toString":
			return "str(" + e.text(n.Object) + ")", precAtom, true
		case "pop":
			if stack {
				return r + ".pop()", precAtom, true
			}
			return r + ".pop(0)", precAtom, true
		case "peek":
			if stack {
				return r + "[-1]", precAtom, true
			}
			return orNone(r+"[0]", r), precAtom, true
		case "poll", "pollFirst":
			return orNone(r+".pop(0)", r), precAtom, true
		case "pollLast":
			return orNone(r+".pop()", r), precAtom, true
		case "remove", "removeFirst":
			return r + ".pop(0)", precAtom, true
		case "removeLast":
			return r + ".pop()", precAtom, true
		case "getFirst", "element", "firstElement":
			return r + "[0]", precAtom, true
		case "getLast", "lastElement":
			return r + "[-1]", precAtom, true
		case "peekFirst":
			return orNone(r+"[0]", r), precAtom, true
		case "peekLast":
			return orNone(r+"[-1]", r), precAtom, true
		}

	case 1:
		switch n.Name.Name {
		case "get":
			return r + "[" + arg(0) + "]", precAtom, true
		case "add", "addLast", "offer", "offerLast":
			return r + ".append(" + e.convert(args[0], elem) + ")", precAtom, true
		case "push":
			if stack {
				return r + ".append(" + e.convert(args[0], elem) + ")", precAtom, true
			}
			return r + ".insert(0, " + e.convert(args[0], elem) + ")", precAtom, true
		case "addFirst", "offerFirst":
			return r + ".insert(0, " + e.convert(args[0], elem) + ")", precAtom, true
		case "addAll":
			return r + ".extend(" + arg(0) + ")", precAtom, true
		case "remove":
			// remove(int) 按下标删除，remove(Object) 按值删除
			if t := e.typeOf(args[0]); types.IsPrimitive(t) && types.IsIntegral(t) && !types.IsChar(t) {
				return r + ".pop(" + arg(0) + ")", precAtom, true
			}
			return r + ".remove(" + arg(0) + ")", precAtom, true
		case "contains":
			return e.operand(args[0], precCompare+1) + " in " + e.operand(n.Object, precCompare+1), precCompare, true
		case "indexOf":
			x := e.operand(args[0], precCompare+1)
			return "(" + r + ".index(" + arg(0) + ") if " + x + " in " + r + " else -1)", precAtom, true
		case "lastIndexOf":
			x := e.operand(args[0], precCompare+1)
			return "(len(" + e.text(n.Object) + ") - 1 - " + r + "[::-1].index(" + arg(0) + ") if " + x + " in " + r + " else -1)", precAtom, true
		case "sort":
			if _, ok := args[0].(*ast.NullLiteral); ok {
				return r + ".sort()", precAtom, true
			}
		case "equals":
			return e.operand(n.Object, precCompare+1) + " == " + e.operand(args[0], precCompare+1), precCompare, true
		}

	case 2:
		switch n.Name.Name {
		case "add":
			return r + ".insert(" + arg(0) + ", " + e.convert(args[1], elem) + ")", precAtom, true
		case "set":
			return r + ".__setitem__(" + arg(0) + ", " + e.convert(args[1], elem) + ")", precAtom, true
		case "subList":
			return r + "[" + arg(0) + ":" + arg(1) + "]", precAtom, true
		}
	}
	return "", 0, false
}

func (e *Emitter) setCall(recv string, n *ast.MethodCall) (string, int, bool) {
	r := e.operand(n.Object, precAtom)
	args := n.Args

	switch len(args) {
	case 0:
		switch n.Name.Name {
		case "size":
			return "len(" + e.text(n.Object) + ")", precAtom, true
		case "isEmpty":
			return "len(" + e.text(n.Object) + ") == 0", precCompare, true
		case "clear":
			return r + ".clear()", precAtom, true
		case "toString":
			return "str(" + e.text(n.Object) + ")", precAtom, true
		}
	case 1:
		x := e.text(args[0])
		switch n.Name.Name {
		case "add":
			return r + ".add(" + e.convert(args[0], types.Elem(recv)) + ")", precAtom, true
		case "remove":
			return r + ".discard(" + x + ")", precAtom, true
		case "contains":
			return e.operand(args[0], precCompare+1) + " in " + e.operand(n.Object, precCompare+1), precCompare, true
		case "addAll":
			return r + ".update(" + x + ")", precAtom, true
		case "removeAll":
			return r + ".difference_update(" + x + ")", precAtom, true
		case "retainAll":
			return r + ".intersection_update(" + x + ")", precAtom, true
		case "containsAll":
			return r + ".issuperset(" + x + ")", precAtom, true
		case "equals":
			return e.operand(n.Object, precCompare+1) + " == " + e.operand(args[0], precCompare+1), precCompare, true
		}
	}
	return "", 0, false
}

func (e *Emitter) mapCall(recv string, n *ast.MethodCall) (string, int, bool) {
	r := e.operand(n.Object, precAtom)
	_, value := types.KeyValue(recv)
	args := n.Args
	arg := func(i int) string { return e.text(args[i]) }

	switch len(args) {
	case 0:
		switch n.Name.Name {
		case "size":
			return "len(" + e.text(n.Object) + ")", precAtom, true
		case "isEmpty":
			return "len(" + e.text(n.Object) + ") == 0", precCompare, true
		case "clear":
			return r + ".clear()", precAtom, true
		case "keySet":
			return r + ".keys()", precAtom, true
		case "values":
			return "list(" + r + ".values())", precAtom, true
		case "entrySet":
			return r + ".items()", precAtom, true
		case "toString":
			return "str(" + e.text(n.Object) + ")", precAtom, true
		}
	case 1:
		switch n.Name.Name {
		case "get":
			return r + ".get(" + arg(0) + ")", precAtom, true
		case "remove":
			return r + ".pop(" + arg(0) + ", None)", precAtom, true
		case "containsKey":
			return e.operand(args[0], precCompare+1) + " in " + e.operand(n.Object, precCompare+1), precCompare, true
		case "containsValue":
			return e.operand(args[0], precCompare+1) + " in " + r + ".values()", precCompare, true
		case "putAll":
			return r + ".update(" + arg(0) + ")", precAtom, true
		}
	case 2:
		switch n.Name.Name {
		case "put":
			return r + ".__setitem__(" + arg(0) + ", " + e.convert(args[1], value) + ")", precAtom, true
		case "getOrDefault":
			return r + ".get(" + arg(0) + ", " + e.convert(args[1], value) + ")", precAtom, true
		case "putIfAbsent":
			return r + ".setdefault(" + arg(0) + ", " + e.convert(args[1], value) + ")", precAtom, true
		}
	}
	return "", 0, false
}

// ============================================================================
// StringBuilder
//
// 生成代码中 StringBuilder 就是 str：修改操作生成新字符串并重新绑定到原变量。
// ============================================================================

// builderValue 计算一串 StringBuilder 调用之后的字符串值
//
// root 是被修改的变量（新建的 StringBuilder 为 nil），mutated 表示值相对 root 有变化。
func (e *Emitter) builderValue(x ast.Expression) (text string, prec int, root ast.Expression, mutated bool) {
	call, ok := x.(*ast.MethodCall)
	if !ok || call.Object == nil || !isBuilderMutator(call.Name.Name) || types.Base(e.typeOf(call.Object)) != "StringBuilder" {
		if ne, ok := x.(*ast.NewExpr); ok {
			text, prec = e.newExpr(ne)
			return text, prec, nil, false
		}
		text, prec = e.expr(x)
		return text, prec, x, false
	}

	v, vp, root, _ := e.builderValue(call.Object)
	atom := paren(v, vp, precAtom)
	args := call.Args
	arg := func(i int) string { return e.text(args[i]) }
	next := func(i int) string { return atom + "[" + e.operand(args[i], precAdd) + " + 1:]" }

	switch {
	case call.Name.Name == "append" && len(args) == 1:
		if v == `""` {
			return e.strOperand(args[0], precAdd), precAdd, root, true
		}
		return paren(v, vp, precAdd) + " + " + e.strOperand(args[0], precAdd+1), precAdd, root, true
	case call.Name.Name == "insert" && len(args) == 2:
		return atom + "[:" + arg(0) + "] + " + e.strOperand(args[1], precAdd+1) + " + " + atom + "[" + arg(0) + ":]", precAdd, root, true
	case call.Name.Name == "reverse" && len(args) == 0:
		return atom + "[::-1]", precAtom, root, true
	case call.Name.Name == "setLength" && len(args) == 1:
		return atom + "[:" + arg(0) + "]", precAtom, root, true
	case call.Name.Name == "deleteCharAt" && len(args) == 1:
		return atom + "[:" + arg(0) + "] + " + next(0), precAdd, root, true
	case call.Name.Name == "setCharAt" && len(args) == 2:
		return atom + "[:" + arg(0) + "] + " + e.convert(args[1], types.Char) + " + " + next(0), precAdd, root, true
	case call.Name.Name == "delete" && len(args) == 2:
		return atom + "[:" + arg(0) + "] + " + atom + "[" + arg(1) + ":]", precAdd, root, true
	case call.Name.Name == "replace" && len(args) == 3:
		return atom + "[:" + arg(0) + "] + " + e.operand(args[2], precAdd+1) + " + " + atom + "[" + arg(1) + ":]", precAdd, root, true
	}
	panic("emitter: unexpected StringBuilder call " + call.Name.Name)
}

func isBuilderMutator(name string) bool {
	switch name {
	case "append", "insert", "reverse", "setLength", "deleteCharAt", "setCharAt", "delete", "replace":
		return true
	}
	return false
}

// builderExpr 表达式中的 StringBuilder 值：修改后写回局部变量、字段或数组元素
func (e *Emitter) builderExpr(x ast.Expression) (string, int) {
	text, prec, root, mutated := e.builderValue(x)
	if !mutated || root == nil {
		return text, prec
	}
	if id, ok := e.localTarget(root); ok {
		return "(" + pyName(id.Name) + " := " + text + ")", precAtom
	}
	// 新值的文本里已经求值过一次目标
	if !types.IsPure(root) {
		fail(i18n.ConstructNestedAssign, x.Pos())
	}
	return e.storeExpr(root, func(ast.Expression) string { return text }), precAtom
}

func (e *Emitter) builderCall(n *ast.MethodCall) (string, int, bool) {
	if isBuilderMutator(n.Name.Name) {
		s, prec := e.builderExpr(n)
		return s, prec, true
	}

	v, vp := e.builderExpr(n.Object)
	atom := paren(v, vp, precAtom)
	switch {
	case n.Name.Name == "toString" && len(n.Args) == 0:
		return v, vp, true
	case n.Name.Name == "length" && len(n.Args) == 0:
		return "len(" + v + ")", precAtom, true
	case n.Name.Name == "charAt" && len(n.Args) == 1:
		return atom + "[" + e.text(n.Args[0]) + "]", precAtom, true
	case n.Name.Name == "indexOf" && len(n.Args) == 1:
		return atom + ".find(" + e.text(n.Args[0]) + ")", precAtom, true
	case n.Name.Name == "isEmpty" && len(n.Args) == 0:
		return "len(" + v + ") == 0", precCompare, true
	}
	return "", 0, false
}

// builderStmt 语句中的 StringBuilder 修改：sb += ... 或 sb = ...
func (e *Emitter) builderStmt(n *ast.MethodCall) (string, bool) {
	if !isBuilderMutator(n.Name.Name) {
		return "", false
	}

	// 只有 append 的调用链写成 +=
	var appended []ast.Expression
	var x ast.Expression = n
	for {
		call, ok := x.(*ast.MethodCall)
		if !ok || call.Name.Name != "append" || len(call.Args) != 1 || call.Object == nil ||
			types.Base(e.typeOf(call.Object)) != "StringBuilder" {
			break
		}
		appended = append([]ast.Expression{call.Args[0]}, appended...)
		x = call.Object
	}
	if _, fresh := x.(*ast.NewExpr); !fresh && len(appended) > 0 && !isBuilderCall(x) {
		if !assignable(x) {
			fail(i18n.ConstructNestedAssign, x.Pos())
		}
		parts := make([]string, len(appended))
		for i, a := range appended {
			min := precAdd + 1
			if i == 0 {
				min = precAdd
			}
			parts[i] = e.strOperand(a, min)
		}
		return e.text(x) + " += " + strings.Join(parts, " + "), true
	}

	text, _, root, _ := e.builderValue(n)
	if root == nil {
		return text, true
	}
	if !assignable(root) {
		fail(i18n.ConstructNestedAssign, root.Pos())
	}
	return e.text(root) + " = " + text, true
}

// isBuilderCall 是否为 StringBuilder 的修改调用
func isBuilderCall(x ast.Expression) bool {
	call, ok := x.(*ast.MethodCall)
	return ok && isBuilderMutator(call.Name.Name)
}

// assignable 是否可以作为赋值目标
func assignable(x ast.Expression) bool {
	switch x.(type) {
	case *ast.Identifier, *ast.FieldAccess, *ast.IndexExpr:
		return true
	}
	return false
}
