package emitter

import (
	"strings"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/types"
)

// ============================================================================
// 方法调用
// ============================================================================

func (e *Emitter) call(n *ast.MethodCall) (string, int) {
	name := n.Name.Name

	if types.IsPrintCall(n) {
		return e.print(n), precAtom
	}

	if n.Object == nil {
		ms, owner := e.index.LookupMethods(e.class.Name.Name, name)
		args := e.callArgs(ms, n.Args)
		if len(ms) == 0 {
			return pyName(name) + "(" + args + ")", precAtom
		}
		static := ms[0].Static
		if m, ok := types.Pick(ms, e.env.TypesOf(n.Args), e.index); ok {
			static = m.Static
		}
		if static {
			return owner + "." + pyName(name) + "(" + args + ")", precAtom
		}
		return "self." + pyName(name) + "(" + args + ")", precAtom
	}

	if _, ok := n.Object.(*ast.SuperExpr); ok {
		ms, _ := e.index.LookupMethods(e.class.SuperName(), name)
		if len(ms) == 0 {
			if s, ok := e.objectMethod("super()", n); ok {
				return s, precAtom
			}
		}
		return "super()." + pyName(name) + "(" + e.callArgs(ms, n.Args) + ")", precAtom
	}

	if class, ok := e.env.ClassRef(n.Object); ok {
		if e.index.IsClass(class) {
			ms, owner := e.index.LookupMethods(class, name)
			if owner == "" {
				owner = class
			}
			return owner + "." + pyName(name) + "(" + e.callArgs(ms, n.Args) + ")", precAtom
		}
		if s, prec, ok := e.staticCall(class, n); ok {
			return s, prec
		}
		return class + "." + name + "(" + e.plainArgs(n.Args) + ")", precAtom
	}

	recv := e.typeOf(n.Object)
	if ms, _ := e.index.LookupMethods(types.Base(recv), name); len(ms) > 0 {
		return e.operand(n.Object, precAtom) + "." + pyName(name) + "(" + e.callArgs(ms, n.Args) + ")", precAtom
	}
	if s, prec, ok := e.instanceCall(recv, n); ok {
		return s, prec
	}
	return e.operand(n.Object, precAtom) + "." + pyName(name) + "(" + e.plainArgs(n.Args) + ")", precAtom
}

// callStmt 只能作为语句出现的调用形式（下标赋值、原地修改字符串等）
func (e *Emitter) callStmt(n *ast.MethodCall) (string, bool) {
	if n.Object == nil || types.IsPrintCall(n) {
		return "", false
	}
	name, args := n.Name.Name, n.Args

	if class, ok := e.env.ClassRef(n.Object); ok && !e.index.IsClass(class) {
		switch class + "." + name {
		case "System.arraycopy":
			if len(args) == 5 {
				src, sp := e.operand(args[0], precAtom), e.text(args[1])
				dst, dp, cnt := e.operand(args[2], precAtom), e.operand(args[3], precAdd), e.operand(args[4], precAdd+1)
				return dst + "[" + dp + ":" + dp + " + " + cnt + "] = " + src + "[" + sp + ":" + e.operand(args[1], precAdd) + " + " + cnt + "]", true
			}
		case "Arrays.fill":
			if len(args) == 2 {
				a := e.operand(args[0], precAtom)
				return a + "[:] = [" + e.convert(args[1], types.Elem(e.typeOf(args[0]))) + "] * len(" + a + ")", true
			}
		case "Arrays.sort":
			if len(args) == 3 {
				a, from, to := e.operand(args[0], precAtom), e.text(args[1]), e.text(args[2])
				return a + "[" + from + ":" + to + "] = sorted(" + a + "[" + from + ":" + to + "])", true
			}
		case "Collections.swap":
			if len(args) == 3 {
				l, i, j := e.operand(args[0], precAtom), e.text(args[1]), e.text(args[2])
				return l + "[" + i + "], " + l + "[" + j + "] = " + l + "[" + j + "], " + l + "[" + i + "]", true
			}
		}
		return "", false
	}

	recv := e.typeOf(n.Object)
	if ms, _ := e.index.LookupMethods(types.Base(recv), name); len(ms) > 0 {
		return "", false
	}
	if types.Base(recv) == "StringBuilder" {
		return e.builderStmt(n)
	}
	r := e.operand(n.Object, precAtom)

	switch {
	case types.Family(recv) == types.FamilyList:
		switch {
		case name == "set" && len(args) == 2:
			return r + "[" + e.text(args[0]) + "] = " + e.convert(args[1], types.Elem(recv)), true
		case name == "add" && len(args) == 1, name == "addLast" && len(args) == 1, name == "offer" && len(args) == 1:
			return r + ".append(" + e.convert(args[0], types.Elem(recv)) + ")", true
		case name == "push" && len(args) == 1 && types.Base(recv) == "Stack":
			return r + ".append(" + e.convert(args[0], types.Elem(recv)) + ")", true
		}
	case types.Family(recv) == types.FamilySet:
		switch {
		case name == "add" && len(args) == 1:
			return r + ".add(" + e.convert(args[0], types.Elem(recv)) + ")", true
		case name == "remove" && len(args) == 1:
			return r + ".discard(" + e.text(args[0]) + ")", true
		}
	case types.Family(recv) == types.FamilyMap:
		switch {
		case name == "put" && len(args) == 2:
			_, v := types.KeyValue(recv)
			return r + "[" + e.text(args[0]) + "] = " + e.convert(args[1], v), true
		case name == "remove" && len(args) == 1:
			return r + ".pop(" + e.text(args[0]) + ", None)", true
		}
	}
	return "", false
}

func (e *Emitter) objectMethod(recv string, n *ast.MethodCall) (string, bool) {
	switch n.Name.Name {
	case "toString":
		return "str(" + recv + ")", true
	case "hashCode":
		return "hash(" + recv + ")", true
	case "equals":
		if len(n.Args) == 1 {
			return recv + " == " + e.operand(n.Args[0], precCompare+1), true
		}
	}
	return "", false
}

// ============================================================================
// 输出
// ============================================================================

// print 生成 System.out / System.err 的 print、println、printf
func (e *Emitter) print(n *ast.MethodCall) string {
	var args []string
	switch n.Name.Name {
	case "printf":
		if len(n.Args) > 0 {
			args = append(args, e.format(n.Args[0], n.Args[1:]))
		}
		args = append(args, `end=""`)
	case "print":
		if len(n.Args) > 0 {
			args = append(args, e.printArg(n.Args[0]))
		}
		args = append(args, `end=""`)
	default:
		if len(n.Args) > 0 {
			args = append(args, e.printArg(n.Args[0]))
		}
	}

	stream := n.Object.(*ast.FieldAccess).Name.Name
	if stream == "err" {
		e.use("sys")
		args = append(args, "file=sys.stderr")
	}
	return "print(" + strings.Join(args, ", ") + ")"
}

func (e *Emitter) printArg(x ast.Expression) string {
	switch x.(type) {
	case *ast.NullLiteral:
		return `"null"`
	}
	t := e.typeOf(x)
	switch {
	case types.IsBoolean(t), t == "char[]":
		return e.stringOf(x, precLowest)
	}
	return e.text(x)
}

// format 生成 String.format / printf 的 % 格式化
func (e *Emitter) format(fmtArg ast.Expression, args []ast.Expression) string {
	var f string
	if lit, ok := fmtArg.(*ast.StringLiteral); ok {
		f = quote(javaFormat(lit.Value))
	} else {
		f = e.operand(fmtArg, precAtom) + `.replace("%n", "\n")`
	}

	parts := make([]string, len(args))
	for i, a := range args {
		if types.IsBoolean(e.typeOf(a)) {
			parts[i] = e.stringOf(a, precLowest)
			continue
		}
		parts[i] = e.text(a)
	}
	tuple := "()"
	if len(parts) > 0 {
		tuple = "(" + strings.Join(parts, ", ") + ",)"
	}
	return f + " % " + tuple
}

// javaFormat 把 Java 的格式串改写为 Python % 格式
func javaFormat(s string) string {
	r := strings.NewReplacer("%%", "%%", "%n", "\n", "%b", "%s", "%B", "%s", "%,d", "%d")
	return r.Replace(s)
}

// ============================================================================
// 标准库静态方法
// ============================================================================

func (e *Emitter) staticCall(class string, n *ast.MethodCall) (string, int, bool) {
	args := n.Args
	name := n.Name.Name
	arg := func(i int) string { return e.text(args[i]) }
	all := func() string { return e.plainArgs(args) }
	fn := func(f string) (string, int, bool) { return f + "(" + all() + ")", precAtom, true }
	mathFn := func(f string) (string, int, bool) {
		e.use("math")
		return fn("math." + f)
	}
	one := len(args) == 1

	switch class {
	case "Math":
		switch name {
		case "abs", "max", "min":
			return fn(name)
		case "sqrt", "cbrt", "pow", "sin", "cos", "tan", "atan", "atan2", "log", "log10", "exp", "hypot":
			return mathFn(name)
		case "floor", "ceil":
			e.use("math")
			return "float(math." + name + "(" + all() + "))", precAtom, true
		case "round":
			if one {
				e.use("math")
				return "math.floor(" + e.operand(args[0], precAdd) + " + 0.5)", precAtom, true
			}
		case "random":
			e.use("random")
			return "random.random()", precAtom, true
		case "floorDiv":
			if len(args) == 2 {
				return e.operand(args[0], precMul) + " // " + e.operand(args[1], precMul+1), precMul, true
			}
		case "floorMod":
			if len(args) == 2 {
				return e.operand(args[0], precMul) + " % " + e.operand(args[1], precMul+1), precMul, true
			}
		case "signum":
			if one {
				x := e.operand(args[0], precCompare+1)
				return "float((" + x + " > 0) - (" + x + " < 0))", precAtom, true
			}
		case "toRadians":
			return mathFn("radians")
		case "toDegrees":
			return mathFn("degrees")
		}

	case "Integer", "Long", "Short", "Byte":
		switch name {
		case "parseInt", "parseLong", "parseShort", "parseByte", "valueOf":
			if one && types.IsIntegral(e.typeOf(args[0])) {
				return e.convert(args[0], types.Int), precAtom, true
			}
			return fn("int")
		case "toString":
			if one {
				return "str(" + arg(0) + ")", precAtom, true
			}
		case "toBinaryString":
			if one {
				return "bin(" + arg(0) + ")[2:]", precAtom, true
			}
		case "toHexString":
			if one {
				return "hex(" + arg(0) + ")[2:]", precAtom, true
			}
		case "max", "min":
			return fn(name)
		case "sum":
			if len(args) == 2 {
				return e.operand(args[0], precAdd) + " + " + e.operand(args[1], precAdd+1), precAdd, true
			}
		case "compare":
			if len(args) == 2 {
				return compare(e.operand(args[0], precCompare+1), e.operand(args[1], precCompare+1)), precAdd, true
			}
		case "signum":
			if one {
				x := e.operand(args[0], precCompare+1)
				return "(" + x + " > 0) - (" + x + " < 0)", precAdd, true
			}
		case "bitCount":
			if one {
				return `bin(` + arg(0) + `).count("1")`, precAtom, true
			}
		}

	case "Double", "Float":
		switch name {
		case "parseDouble", "parseFloat", "valueOf":
			if one && types.IsNumeric(e.typeOf(args[0])) {
				return e.convert(args[0], types.Double), precAtom, true
			}
			return fn("float")
		case "toString":
			if one {
				return "str(" + arg(0) + ")", precAtom, true
			}
		case "compare":
			if len(args) == 2 {
				return compare(e.operand(args[0], precCompare+1), e.operand(args[1], precCompare+1)), precAdd, true
			}
		case "isNaN":
			return mathFn("isnan")
		case "isInfinite":
			return mathFn("isinf")
		case "max", "min":
			return fn(name)
		}

	case "Boolean":
		if !one {
			break
		}
		switch name {
		case "parseBoolean":
			return e.operand(args[0], precAtom) + `.lower() == "true"`, precCompare, true
		case "valueOf":
			if types.IsString(e.typeOf(args[0])) {
				return e.operand(args[0], precAtom) + `.lower() == "true"`, precCompare, true
			}
			return with(e.expr(args[0]))
		case "toString":
			return e.stringOf(args[0], precAtom), precAtom, true
		}

	case "Character":
		if !one {
			break
		}
		c := e.convert(args[0], types.Char)
		switch name {
		case "isDigit":
			return c + ".isdigit()", precAtom, true
		case "isLetter":
			return c + ".isalpha()", precAtom, true
		case "isLetterOrDigit":
			return c + ".isalnum()", precAtom, true
		case "isWhitespace":
			return c + ".isspace()", precAtom, true
		case "isUpperCase":
			return c + ".isupper()", precAtom, true
		case "isLowerCase":
			return c + ".islower()", precAtom, true
		case "toUpperCase":
			return c + ".upper()", precAtom, true
		case "toLowerCase":
			return c + ".lower()", precAtom, true
		case "getNumericValue":
			return "int(" + c + ")", precAtom, true
		case "toString", "valueOf":
			return c, precAtom, true
		}

	case "String":
		switch name {
		case "valueOf", "copyValueOf":
			if one {
				return e.stringOf(args[0], precLowest), precAtom, true
			}
		case "format":
			if len(args) > 0 {
				return e.format(args[0], args[1:]), precMul, true
			}
		case "join":
			if len(args) == 2 && !types.IsString(e.typeOf(args[1])) && !types.IsChar(e.typeOf(args[1])) {
				return e.operand(args[0], precAtom) + ".join(" + arg(1) + ")", precAtom, true
			}
			if len(args) > 0 {
				return e.operand(args[0], precAtom) + ".join([" + e.plainArgs(args[1:]) + "])", precAtom, true
			}
		}

	case "System":
		switch name {
		case "currentTimeMillis":
			e.use("time")
			return "int(time.time() * 1000)", precAtom, true
		case "nanoTime":
			e.use("time")
			return "time.perf_counter_ns()", precAtom, true
		case "exit":
			e.use("sys")
			return fn("sys.exit")
		case "lineSeparator":
			e.use("os")
			return "os.linesep", precAtom, true
		case "getenv":
			e.use("os")
			return fn("os.environ.get")
		case "arraycopy":
			if len(args) == 5 {
				src, sp := e.operand(args[0], precAtom), e.operand(args[1], precAdd)
				dst, dp, cnt := e.operand(args[2], precAtom), e.operand(args[3], precAdd), e.operand(args[4], precAdd+1)
				return dst + ".__setitem__(slice(" + dp + ", " + dp + " + " + cnt + "), " + src + "[" + sp + ":" + sp + " + " + cnt + "])", precAtom, true
			}
		}

	case "Arrays":
		switch name {
		case "asList":
			if one && types.IsArray(e.typeOf(args[0])) {
				return "list(" + arg(0) + ")", precAtom, true
			}
			return "[" + all() + "]", precAtom, true
		case "toString":
			if one {
				return "str(" + arg(0) + ")", precAtom, true
			}
		case "sort":
			if one {
				return e.operand(args[0], precAtom) + ".sort()", precAtom, true
			}
		case "fill":
			if len(args) == 2 {
				a := e.operand(args[0], precAtom)
				return a + ".__setitem__(slice(None), [" + e.convert(args[1], types.Elem(e.typeOf(args[0]))) + "] * len(" + a + "))", precAtom, true
			}
		case "copyOf":
			if len(args) == 2 {
				a, size := e.operand(args[0], precAtom), e.operand(args[1], precAdd+1)
				fill := elemDefault(types.Elem(e.typeOf(args[0])))
				return a + "[:" + arg(1) + "] + [" + fill + "] * (" + size + " - len(" + a + "))", precAdd, true
			}
		case "copyOfRange":
			if len(args) == 3 {
				return e.operand(args[0], precAtom) + "[" + arg(1) + ":" + arg(2) + "]", precAtom, true
			}
		case "equals":
			if len(args) == 2 {
				return e.operand(args[0], precCompare+1) + " == " + e.operand(args[1], precCompare+1), precCompare, true
			}
		}

	case "List":
		switch name {
		case "of":
			return "[" + all() + "]", precAtom, true
		case "copyOf":
			return fn("list")
		}
	case "Set":
		switch name {
		case "of":
			if len(args) == 0 {
				return "set()", precAtom, true
			}
			return "{" + all() + "}", precAtom, true
		case "copyOf":
			return fn("set")
		}
	case "Map":
		if name == "of" && len(args)%2 == 0 {
			pairs := make([]string, 0, len(args)/2)
			for i := 0; i < len(args); i += 2 {
				pairs = append(pairs, arg(i)+": "+arg(i+1))
			}
			return "{" + strings.Join(pairs, ", ") + "}", precAtom, true
		}

	case "Collections":
		switch name {
		case "sort":
			if one {
				return e.operand(args[0], precAtom) + ".sort()", precAtom, true
			}
		case "reverse":
			if one {
				return e.operand(args[0], precAtom) + ".reverse()", precAtom, true
			}
		case "max", "min":
			if one {
				return fn(name)
			}
		case "shuffle":
			if one {
				e.use("random")
				return fn("random.shuffle")
			}
		case "emptyList":
			return "[]", precAtom, true
		case "unmodifiableList":
			return fn("list")
		case "swap":
			// 交换只能写成语句（见 callStmt）
			fail(i18n.ConstructNestedAssign, n.Pos())
		}

	case "Objects":
		switch name {
		case "equals":
			if len(args) == 2 {
				return e.operand(args[0], precCompare+1) + " == " + e.operand(args[1], precCompare+1), precCompare, true
			}
		case "hash":
			return "hash((" + all() + ",))", precAtom, true
		case "hashCode":
			return fn("hash")
		case "isNull":
			if one {
				return e.operand(args[0], precCompare+1) + " is None", precCompare, true
			}
		case "nonNull":
			if one {
				return e.operand(args[0], precCompare+1) + " is not None", precCompare, true
			}
		case "requireNonNull":
			if len(args) > 0 {
				return with(e.expr(args[0]))
			}
		case "toString":
			if one {
				return "str(" + arg(0) + ")", precAtom, true
			}
		}
	}
	return "", 0, false
}

// with 给 expr 的结果加上 ok
func with(s string, prec int) (string, int, bool) {
	return s, prec, true
}

func compare(a, b string) string {
	return "(" + a + " > " + b + ") - (" + a + " < " + b + ")"
}
