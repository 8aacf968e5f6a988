package emitter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/token"
	"github.com/tangzhangming/jpy/internal/types"
)

// ============================================================================
// 优先级
// ============================================================================

// Python 运算符优先级，从低到高
const (
	precLowest = iota
	precTernary
	precOr
	precAnd
	precNot
	precCompare
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdd
	precMul
	precUnary
	precPower
	precAtom
)

var binaryOps = map[token.TokenType]struct {
	py   string
	prec int
}{
	token.OR:      {"or", precOr},
	token.AND:     {"and", precAnd},
	token.EQ:      {"==", precCompare},
	token.NE:      {"!=", precCompare},
	token.LT:      {"<", precCompare},
	token.LE:      {"<=", precCompare},
	token.GT:      {">", precCompare},
	token.GE:      {">=", precCompare},
	token.BIT_OR:  {"|", precBitOr},
	token.BIT_XOR: {"^", precBitXor},
	token.BIT_AND: {"&", precBitAnd},
	token.SHL:     {"<<", precShift},
	token.SHR:     {">>", precShift},
	token.USHR:    {">>", precShift},
	token.PLUS:    {"+", precAdd},
	token.MINUS:   {"-", precAdd},
	token.STAR:    {"*", precMul},
	token.SLASH:   {"/", precMul},
	token.PERCENT: {"%", precMul},
}

// ============================================================================
// 入口
// ============================================================================

// text 生成表达式文本
func (e *Emitter) text(x ast.Expression) string {
	s, _ := e.expr(x)
	return s
}

// operand 生成作为运算数的表达式，优先级低于 min 时加括号
func (e *Emitter) operand(x ast.Expression, min int) string {
	s, prec := e.expr(x)
	return paren(s, prec, min)
}

func paren(s string, prec, min int) string {
	if prec < min {
		return "(" + s + ")"
	}
	return s
}

func (e *Emitter) typeOf(x ast.Expression) string {
	if e.env == nil {
		return types.Unknown
	}
	return e.env.TypeOf(x)
}

func (e *Emitter) expr(x ast.Expression) (string, int) {
	switch n := x.(type) {
	case *ast.IntegerLiteral:
		s := n.Value.String()
		if n.Value.Sign() < 0 {
			return s, precUnary
		}
		return s, precAtom
	case *ast.FloatLiteral:
		return floatText(n.Value)
	case *ast.StringLiteral:
		return quote(n.Value), precAtom
	case *ast.CharLiteral:
		return quote(string(n.Value)), precAtom
	case *ast.BoolLiteral:
		if n.Value {
			return "True", precAtom
		}
		return "False", precAtom
	case *ast.NullLiteral:
		return "None", precAtom

	case *ast.Identifier:
		return e.identifier(n), precAtom
	case *ast.ThisExpr:
		return "self", precAtom
	case *ast.SuperExpr:
		return "super()", precAtom
	case *ast.FieldAccess:
		return e.fieldAccess(n)
	case *ast.IndexExpr:
		return e.operand(n.Object, precAtom) + "[" + e.text(n.Index) + "]", precAtom
	case *ast.MethodCall:
		return e.call(n)
	case *ast.CtorCall:
		return e.ctorCall(n), precAtom

	case *ast.NewExpr:
		return e.newExpr(n)
	case *ast.NewArrayExpr:
		return e.newArray(n)
	case *ast.ArrayLiteral:
		return e.arrayLiteral(n, types.Unknown), precAtom

	case *ast.UnaryExpr:
		return e.unary(n)
	case *ast.PostfixExpr:
		return e.incDec(n.Operand, n.Operator.Type, false), precAtom
	case *ast.BinaryExpr:
		return e.binary(n)
	case *ast.AssignExpr:
		return e.nestedAssign(n), precAtom
	case *ast.TernaryExpr:
		return e.operand(n.Then, precOr) + " if " + e.operand(n.Condition, precOr) +
			" else " + e.operand(n.Else, precTernary), precTernary
	case *ast.CastExpr:
		return e.cast(n)

	case *ast.InstanceOfExpr:
		fail(i18n.ConstructInstanceOf, n.Pos())
	case *ast.LambdaExpr:
		fail(i18n.ConstructLambda, n.Pos())
	case *ast.MethodRefExpr:
		fail(i18n.ConstructMethodRef, n.Pos())
	}
	panic(fmt.Sprintf("emitter: unexpected expression %T", x))
}

func floatText(v float64) (string, int) {
	switch {
	case math.IsInf(v, 1):
		return `float("inf")`, precAtom
	case math.IsInf(v, -1):
		return `float("-inf")`, precAtom
	case math.IsNaN(v):
		return `float("nan")`, precAtom
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	if v < 0 {
		return s, precUnary
	}
	return s, precAtom
}

// ============================================================================
// 类型转换
// ============================================================================

// convert 生成赋给类型为 target 的位置的值，补上 Java 的隐式转换
//
// char 在生成代码中是长度为 1 的字符串，与整数之间互相赋值需要 ord / chr；
// 整数赋给浮点位置时转为 float。
func (e *Emitter) convert(x ast.Expression, target string) string {
	if lit, ok := x.(*ast.ArrayLiteral); ok {
		return e.arrayLiteral(lit, target)
	}

	src := e.typeOf(x)
	switch {
	case types.IsUnknown(target) || types.IsUnknown(src):
	case types.IsChar(target) && types.IsIntegral(src) && !types.IsChar(src):
		if lit, ok := x.(*ast.IntegerLiteral); ok && lit.Value.IsInt64() {
			return quote(string(rune(lit.Value.Int64())))
		}
		return "chr(" + e.text(x) + ")"
	case types.IsIntegral(target) && !types.IsChar(target) && types.IsChar(src):
		return e.code(x)
	case types.IsFloating(target) && types.IsChar(src):
		return "float(" + e.code(x) + ")"
	case types.IsFloating(target) && types.IsIntegral(src):
		if lit, ok := x.(*ast.IntegerLiteral); ok {
			return lit.Value.String() + ".0"
		}
		return "float(" + e.text(x) + ")"
	}
	return e.text(x)
}

// code 返回 char 表达式的整数编码
func (e *Emitter) code(x ast.Expression) string {
	if lit, ok := x.(*ast.CharLiteral); ok {
		return strconv.Itoa(int(lit.Value))
	}
	return "ord(" + e.text(x) + ")"
}

// numeric 生成参与算术运算的运算数，char 换成编码
func (e *Emitter) numeric(x ast.Expression, min int) string {
	if types.IsChar(e.typeOf(x)) {
		return e.code(x)
	}
	return e.operand(x, min)
}

func (e *Emitter) args(args []ast.Expression, params func(i int) string) string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = e.convert(a, params(i))
	}
	return strings.Join(out, ", ")
}

func (e *Emitter) plainArgs(args []ast.Expression) string {
	return e.args(args, func(int) string { return types.Unknown })
}

// ============================================================================
// 名字与成员
// ============================================================================

func (e *Emitter) identifier(n *ast.Identifier) string {
	if e.env == nil {
		return pyName(n.Name)
	}
	if _, ok := e.env.Local(n.Name); ok {
		return pyName(n.Name)
	}
	if f, owner, ok := e.env.Field(n.Name); ok {
		name := e.fieldName(owner, n.Name)
		if !f.Static {
			return "self." + name
		}
		if e.classBody && owner == e.class.Name.Name {
			return name
		}
		return owner + "." + name
	}
	return pyName(n.Name)
}

func (e *Emitter) fieldAccess(n *ast.FieldAccess) (string, int) {
	name := n.Name.Name
	if class, ok := e.env.ClassRef(n.Object); ok {
		if e.index.IsClass(class) {
			return class + "." + e.fieldName(class, name), precAtom
		}
		if s, ok := e.libraryField(class, name); ok {
			return s, precAtom
		}
		return class + "." + name, precAtom
	}

	if _, ok := n.Object.(*ast.SuperExpr); ok {
		return "self." + e.fieldName(e.class.SuperName(), name), precAtom
	}
	recv := e.typeOf(n.Object)
	if types.IsArray(recv) && name == "length" {
		return "len(" + e.text(n.Object) + ")", precAtom
	}
	return e.operand(n.Object, precAtom) + "." + e.fieldName(types.Base(recv), name), precAtom
}

// libraryField 标准库静态字段
func (e *Emitter) libraryField(class, name string) (string, bool) {
	switch class + "." + name {
	case "System.out":
		e.use("sys")
		return "sys.stdout", true
	case "System.err":
		e.use("sys")
		return "sys.stderr", true
	case "System.in":
		e.use("sys")
		return "sys.stdin", true
	case "Math.PI":
		e.use("math")
		return "math.pi", true
	case "Math.E":
		e.use("math")
		return "math.e", true
	case "Integer.MAX_VALUE":
		return "2147483647", true
	case "Integer.MIN_VALUE":
		return "(-2147483648)", true
	case "Long.MAX_VALUE":
		return "9223372036854775807", true
	case "Long.MIN_VALUE":
		return "(-9223372036854775808)", true
	case "Short.MAX_VALUE":
		return "32767", true
	case "Short.MIN_VALUE":
		return "(-32768)", true
	case "Byte.MAX_VALUE":
		return "127", true
	case "Byte.MIN_VALUE":
		return "(-128)", true
	case "Double.MAX_VALUE":
		e.use("sys")
		return "sys.float_info.max", true
	case "Double.MIN_VALUE":
		return "5e-324", true
	case "Float.MAX_VALUE":
		return "3.4028234663852886e+38", true
	case "Float.MIN_VALUE":
		return "1.401298464324817e-45", true
	case "Double.POSITIVE_INFINITY":
		e.use("math")
		return "math.inf", true
	case "Double.NEGATIVE_INFINITY":
		e.use("math")
		return "(-math.inf)", true
	case "Double.NaN":
		e.use("math")
		return "math.nan", true
	case "Character.MAX_VALUE":
		return `"\uffff"`, true
	case "Character.MIN_VALUE":
		return `"\x00"`, true
	case "Boolean.TRUE":
		return "True", true
	case "Boolean.FALSE":
		return "False", true
	}
	return "", false
}

func (e *Emitter) ctorCall(n *ast.CtorCall) string {
	ctors := []types.MethodShape(nil)
	target := e.class.Name.Name
	if n.IsSuper() {
		target = e.class.SuperName()
	}
	if c, ok := e.index.Class(target); ok {
		ctors = c.Ctors
	}
	args := e.callArgs(ctors, n.Args)
	if n.IsSuper() {
		return "super().__init__(" + args + ")"
	}
	return "self.__init__(" + args + ")"
}

// callArgs 按选中的重载转换实参
func (e *Emitter) callArgs(cands []types.MethodShape, args []ast.Expression) string {
	m, ok := types.Pick(cands, e.env.TypesOf(args), e.index)
	if !ok {
		return e.plainArgs(args)
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = e.convert(a, m.ParamAt(i, len(args)))
	}
	// 可变参数直接收到数组时展开
	if last := len(args) - 1; m.Variadic && len(args) == len(m.Params) && types.IsArray(e.typeOf(args[last])) {
		parts[last] = "*" + e.operand(args[last], precAtom)
	}
	return strings.Join(parts, ", ")
}

// ============================================================================
// 对象与数组创建
// ============================================================================

func (e *Emitter) newExpr(n *ast.NewExpr) (string, int) {
	typ := n.Type.String()
	base := types.Base(typ)

	if c, ok := e.index.Class(base); ok {
		return base + "(" + e.callArgs(c.Ctors, n.Args) + ")", precAtom
	}
	if types.IsException(base) {
		return types.PythonException(base) + "(" + e.plainArgs(n.Args) + ")", precAtom
	}

	// 容器的初始参数可能是容量（整数），此时忽略
	var from string
	if len(n.Args) == 1 && !types.IsIntegral(e.typeOf(n.Args[0])) {
		from = e.text(n.Args[0])
	}
	switch types.Family(typ) {
	case types.FamilyList:
		if from != "" {
			return "list(" + from + ")", precAtom
		}
		return "[]", precAtom
	case types.FamilySet:
		if from != "" {
			return "set(" + from + ")", precAtom
		}
		return "set()", precAtom
	case types.FamilyMap:
		if from != "" {
			return "dict(" + from + ")", precAtom
		}
		return "{}", precAtom
	}

	switch base {
	case "StringBuilder", types.String:
		if len(n.Args) == 0 || from == "" {
			return `""`, precAtom
		}
		if types.IsArray(e.typeOf(n.Args[0])) {
			return `"".join(` + from + ")", precAtom
		}
		if base == types.String {
			return from, precAtom
		}
		return "str(" + from + ")", precAtom
	case types.Object:
		return "object()", precAtom
	case "Random":
		e.use("random")
		return "random.Random(" + e.plainArgs(n.Args) + ")", precAtom
	case "Scanner":
		e.use("sys")
		return "sys.stdin", precAtom
	case "Integer", "Long", "Short", "Byte":
		return "int(" + e.plainArgs(n.Args) + ")", precAtom
	case "Double", "Float":
		return "float(" + e.plainArgs(n.Args) + ")", precAtom
	}
	return types.PythonType(typ) + "(" + e.plainArgs(n.Args) + ")", precAtom
}

// elemDefault 数组元素的默认值，引用类型为 None
func elemDefault(t string) string {
	switch {
	case types.IsChar(t) && types.IsPrimitive(t):
		return `"\x00"`
	case types.IsPrimitive(t):
		return types.PythonDefault(t)
	}
	return "None"
}

func (e *Emitter) newArray(n *ast.NewArrayExpr) (string, int) {
	elem := n.ElementType.String()
	full := elem + strings.Repeat("[]", n.Rank())
	if n.Init != nil {
		return e.arrayLiteral(n.Init, full), precAtom
	}

	// 指定长度的最内层维度的元素：还有未指定长度的维度时为 None
	fill := elemDefault(elem)
	if n.ExtraDims > 0 {
		fill = "None"
	}
	dims := make([]string, len(n.Dims))
	for i, d := range n.Dims {
		dims[i] = e.operand(d, precMul+1)
	}

	s := "[" + fill + "] * " + dims[len(dims)-1]
	for i := len(dims) - 2; i >= 0; i-- {
		s = "[" + s + " for _ in range(" + e.text(n.Dims[i]) + ")]"
	}
	if len(dims) == 1 {
		return s, precMul
	}
	return s, precAtom
}

func (e *Emitter) arrayLiteral(n *ast.ArrayLiteral, target string) string {
	elem := types.Unknown
	if types.IsArray(target) {
		elem = types.Elem(target)
	}
	parts := make([]string, len(n.Elements))
	for i, x := range n.Elements {
		parts[i] = e.convert(x, elem)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ============================================================================
// 运算符
// ============================================================================

func (e *Emitter) unary(n *ast.UnaryExpr) (string, int) {
	switch n.Operator.Type {
	case token.INCREMENT, token.DECREMENT:
		return e.incDec(n.Operand, n.Operator.Type, true), precAtom
	case token.NOT:
		return "not " + e.operand(n.Operand, precNot), precNot
	case token.MINUS:
		return "-" + e.numeric(n.Operand, precUnary), precUnary
	case token.PLUS:
		return "+" + e.numeric(n.Operand, precUnary), precUnary
	case token.BIT_NOT:
		return "~" + e.numeric(n.Operand, precUnary), precUnary
	}
	panic("emitter: unexpected unary operator " + n.Operator.Type.String())
}

func (e *Emitter) binary(n *ast.BinaryExpr) (string, int) {
	op := n.Operator.Type
	lt, rt := e.typeOf(n.Left), e.typeOf(n.Right)

	if op == token.PLUS && (types.IsString(lt) || types.IsString(rt)) {
		return e.strOperand(n.Left, precAdd) + " + " + e.strOperand(n.Right, precAdd+1), precAdd
	}

	info := binaryOps[op]
	py := info.py

	switch op {
	case token.EQ, token.NE:
		if s, ok := e.identity(n, lt, rt); ok {
			return s, precCompare
		}
		return e.compareOperand(n.Left, lt, rt) + " " + py + " " + e.compareOperand(n.Right, rt, lt), precCompare
	case token.LT, token.LE, token.GT, token.GE:
		return e.compareOperand(n.Left, lt, rt) + " " + py + " " + e.compareOperand(n.Right, rt, lt), precCompare
	case token.AND, token.OR:
		return e.operand(n.Left, info.prec) + " " + py + " " + e.operand(n.Right, info.prec+1), info.prec
	case token.SLASH, token.PERCENT:
		if s, ok := e.division(op, n.Left, n.Right, lt, rt); ok {
			return s, precAtom
		}
	}
	return e.numeric(n.Left, info.prec) + " " + py + " " + e.numeric(n.Right, info.prec+1), info.prec
}

// division 按 Java 语义生成除法与取模：整数向零取整，余数与被除数同号
func (e *Emitter) division(op token.TokenType, left, right ast.Expression, lt, rt string) (string, bool) {
	args := "(" + e.numeric(left, precLowest) + ", " + e.numeric(right, precLowest) + ")"
	switch {
	case types.IsIntegral(lt) && types.IsIntegral(rt):
		if op == token.SLASH {
			return e.helper(helperDiv) + args, true
		}
		return e.helper(helperMod) + args, true
	case op == token.PERCENT && types.IsNumeric(lt) && types.IsNumeric(rt):
		e.use("math")
		return "math.fmod" + args, true
	}
	return "", false
}

// compareOperand 比较运算数：char 与数值比较时换成编码，比较运算两侧都加括号以免连写
func (e *Emitter) compareOperand(x ast.Expression, self, other string) string {
	if types.IsChar(self) && !types.IsChar(other) && types.IsNumeric(other) {
		return e.code(x)
	}
	return e.operand(x, precCompare+1)
}

// identity 与 null 比较、或两个用户类对象比较时使用 is
func (e *Emitter) identity(n *ast.BinaryExpr, lt, rt string) (string, bool) {
	is := "is"
	if n.Operator.Type == token.NE {
		is = "is not"
	}
	_, lnull := n.Left.(*ast.NullLiteral)
	_, rnull := n.Right.(*ast.NullLiteral)
	if lnull || rnull || (e.index.IsClass(types.Base(lt)) && e.index.IsClass(types.Base(rt))) {
		return e.operand(n.Left, precCompare+1) + " " + is + " " + e.operand(n.Right, precCompare+1), true
	}
	return "", false
}

// strOperand 字符串拼接的运算数，非字符串值按 Java 的格式转为字符串
func (e *Emitter) strOperand(x ast.Expression, min int) string {
	switch lit := x.(type) {
	case *ast.NullLiteral:
		return `"null"`
	case *ast.BoolLiteral:
		if lit.Value {
			return `"true"`
		}
		return `"false"`
	case *ast.IntegerLiteral:
		return quote(lit.Value.String())
	}
	return e.stringOf(x, min)
}

// stringOf 返回 String.valueOf(x) 的等价表达式
func (e *Emitter) stringOf(x ast.Expression, min int) string {
	t := e.typeOf(x)
	switch {
	case types.IsString(t), types.IsChar(t), types.Base(t) == "StringBuilder":
		return e.operand(x, min)
	case types.IsBoolean(t):
		return "str(" + e.text(x) + ").lower()"
	case t == "char[]":
		return `"".join(` + e.text(x) + ")"
	}
	return "str(" + e.text(x) + ")"
}

func (e *Emitter) cast(n *ast.CastExpr) (string, int) {
	target := n.Type.String()
	src := e.typeOf(n.Operand)
	switch {
	case types.IsChar(target) && types.IsIntegral(src) && !types.IsChar(src):
		return "chr(" + e.text(n.Operand) + ")", precAtom
	case types.IsIntegral(target) && !types.IsChar(target) && types.IsChar(src):
		return e.code(n.Operand), precAtom
	case types.IsIntegral(target) && types.IsFloating(src):
		return "int(" + e.text(n.Operand) + ")", precAtom
	case types.IsFloating(target) && types.IsChar(src):
		return "float(" + e.code(n.Operand) + ")", precAtom
	case types.IsFloating(target) && types.IsIntegral(src):
		return "float(" + e.text(n.Operand) + ")", precAtom
	}
	return e.expr(n.Operand)
}

// ============================================================================
// 表达式中的赋值与自增自减
// ============================================================================

// localTarget 赋值目标是否为局部变量
func (e *Emitter) localTarget(x ast.Expression) (*ast.Identifier, bool) {
	id, ok := x.(*ast.Identifier)
	if !ok {
		return nil, false
	}
	_, local := e.env.Local(id.Name)
	return id, local
}

// incDec 表达式中的 ++/--：局部变量用海象运算符，字段与数组元素用写入辅助函数
func (e *Emitter) incDec(target ast.Expression, op token.TokenType, prefix bool) string {
	sign, back := " + 1", " - 1"
	if op == token.DECREMENT {
		sign, back = " - 1", " + 1"
	}
	char := types.IsChar(e.typeOf(target))

	var stored string
	if id, ok := e.localTarget(target); ok {
		name := pyName(id.Name)
		if char {
			stored = "(" + name + " := chr(ord(" + name + ")" + sign + "))"
		} else {
			stored = "(" + name + " := " + name + sign + ")"
		}
	} else {
		stored = e.storeExpr(target, func(t ast.Expression) string {
			if char {
				return "chr(ord(" + e.text(t) + ")" + sign + ")"
			}
			return e.operand(t, precAdd) + sign
		})
	}

	switch {
	case prefix:
		return stored
	case char:
		return "chr(ord(" + stored + ")" + back + ")"
	}
	return "(" + stored + back + ")"
}

// nestedAssign 表达式中的赋值：局部变量用海象运算符，字段与数组元素用写入辅助函数
func (e *Emitter) nestedAssign(n *ast.AssignExpr) string {
	if id, ok := e.localTarget(n.Left); ok {
		return "(" + pyName(id.Name) + " := " + e.assignValue(n) + ")"
	}
	return e.storeExpr(n.Left, func(t ast.Expression) string {
		return e.assignValue(&ast.AssignExpr{Left: t, Operator: n.Operator, Right: n.Right})
	})
}

// storeExpr 生成对非局部目标的写入表达式，值为写入后的新值
//
// value 由目标表达式生成新值。目标的对象或下标有副作用时先用海象运算符存入
// 临时变量，只求值一次。
func (e *Emitter) storeExpr(target ast.Expression, value func(ast.Expression) string) string {
	attr := func(obj, name string, t ast.Expression) string {
		return e.helper(helperStoreAttr) + "(" + obj + ", " + quote(name) + ", " + value(t) + ")"
	}

	switch t := target.(type) {
	case *ast.Identifier:
		f, owner, ok := e.env.Field(t.Name)
		if !ok {
			// 未声明的名字按局部变量处理
			return "(" + pyName(t.Name) + " := " + value(t) + ")"
		}
		obj := "self"
		if f.Static {
			obj = owner
		}
		return attr(obj, e.fieldName(owner, t.Name), t)

	case *ast.FieldAccess:
		name := t.Name.Name
		if class, ok := e.env.ClassRef(t.Object); ok {
			if !e.index.IsClass(class) {
				break
			}
			return attr(class, e.fieldName(class, name), t)
		}
		if _, ok := t.Object.(*ast.SuperExpr); ok {
			return attr("self", e.fieldName(e.class.SuperName(), name), t)
		}
		obj, x := e.once(t.Object, "_obj")
		return attr(obj, e.fieldName(types.Base(e.typeOf(x)), name), &ast.FieldAccess{Object: x, Name: t.Name})

	case *ast.IndexExpr:
		seq, x := e.once(t.Object, "_seq")
		idx, y := e.once(t.Index, "_idx")
		v := value(&ast.IndexExpr{Object: x, Index: y, RBracket: t.RBracket})
		return e.helper(helperStoreItem) + "(" + seq + ", " + idx + ", " + v + ")"
	}
	fail(i18n.ConstructNestedAssign, target.Pos())
	return ""
}

// once 返回只求值一次的表达式文本，以及之后引用同一个值的表达式
func (e *Emitter) once(x ast.Expression, base string) (string, ast.Expression) {
	if types.IsPure(x) {
		return e.text(x), x
	}
	name := e.temp(base)
	typ := e.typeOf(x)
	text := "(" + name + " := " + e.text(x) + ")"
	e.env.Declare(name, typ)
	return text, &ast.Identifier{Token: token.Token{Type: token.IDENT, Literal: name, Pos: x.Pos()}, Name: name}
}

// assignValue 返回赋值后目标的新值（复合赋值展开为二元运算）
func (e *Emitter) assignValue(n *ast.AssignExpr) string {
	target := e.typeOf(n.Left)
	if n.Operator.Type == token.ASSIGN {
		return e.convert(n.Right, target)
	}

	op, _ := token.CompoundBase(n.Operator.Type)
	value := &ast.BinaryExpr{Left: n.Left, Operator: token.Token{Type: op, Pos: n.Operator.Pos}, Right: n.Right}
	s := e.text(value)
	rt := e.typeOf(n.Right)
	switch {
	case types.IsString(target):
	case types.IsChar(target):
		return "chr(" + s + ")"
	case types.IsIntegral(target) && types.IsFloating(rt):
		return "int(" + s + ")"
	}
	return s
}

// ============================================================================
// 表达式语句
// ============================================================================

func (e *Emitter) exprStmt(x ast.Expression) {
	switch n := x.(type) {
	case *ast.AssignExpr:
		e.assignStmt(n)
	case *ast.PostfixExpr:
		e.incDecStmt(n.Operand, n.Operator.Type)
	case *ast.UnaryExpr:
		if n.IsIncDec() {
			e.incDecStmt(n.Operand, n.Operator.Type)
			return
		}
		e.line(e.text(n))
	case *ast.MethodCall:
		if s, ok := e.callStmt(n); ok {
			e.line(s)
			return
		}
		e.line(e.text(n))
	default:
		e.line(e.text(x))
	}
}

func (e *Emitter) assignStmt(n *ast.AssignExpr) {
	// a = b = v 写成 Python 的连续赋值
	if n.Operator.Type == token.ASSIGN {
		if inner, ok := n.Right.(*ast.AssignExpr); ok && inner.Operator.Type == token.ASSIGN {
			targets := []ast.Expression{n.Left}
			last := inner
			for {
				targets = append(targets, last.Left)
				next, ok := last.Right.(*ast.AssignExpr)
				if !ok || next.Operator.Type != token.ASSIGN {
					break
				}
				last = next
			}
			parts := make([]string, len(targets))
			for i, t := range targets {
				parts[i] = e.text(t)
			}
			e.line(strings.Join(parts, " = ") + " = " + e.convert(last.Right, e.typeOf(last.Left)))
			return
		}
	}

	target := e.text(n.Left)
	if n.Operator.Type == token.ASSIGN {
		value := e.convert(n.Right, e.typeOf(n.Left))
		if name, ok := e.fieldTarget(n.Left); ok {
			if anno, pending := e.pendingAnno[name]; pending {
				delete(e.pendingAnno, name)
				e.line(target + ": " + anno + " = " + value)
				return
			}
		}
		e.line(target + " = " + value)
		return
	}

	// 目标的对象或下标有副作用时只求值一次
	if !types.IsPure(n.Left) {
		e.line(e.storeExpr(n.Left, func(t ast.Expression) string {
			return e.assignValue(&ast.AssignExpr{Left: t, Operator: n.Operator, Right: n.Right})
		}))
		return
	}

	lt, rt := e.typeOf(n.Left), e.typeOf(n.Right)
	op, _ := token.CompoundBase(n.Operator.Type)
	switch {
	case types.IsString(lt) && op == token.PLUS:
		e.line(target + " += " + e.strOperand(n.Right, precAdd+1))
		return
	case types.IsChar(lt), types.IsIntegral(lt) && types.IsFloating(rt):
		e.line(target + " = " + e.assignValue(n))
		return
	}

	if op == token.SLASH || op == token.PERCENT {
		if s, ok := e.division(op, n.Left, n.Right, lt, rt); ok {
			e.line(target + " = " + s)
			return
		}
	}
	e.line(target + " " + binaryOps[op].py + "= " + e.numeric(n.Right, precLowest))
}

func (e *Emitter) incDecStmt(target ast.Expression, op token.TokenType) {
	t := e.text(target)
	sign := "+"
	if op == token.DECREMENT {
		sign = "-"
	}
	if types.IsChar(e.typeOf(target)) {
		if !types.IsPure(target) {
			e.line(e.incDec(target, op, true))
			return
		}
		e.line(t + " = chr(ord(" + t + ") " + sign + " 1)")
		return
	}
	e.line(t + " " + sign + "= 1")
}
