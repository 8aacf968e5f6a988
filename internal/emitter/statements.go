package emitter

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/token"
	"github.com/tangzhangming/jpy/internal/types"
)

// ============================================================================
// 语句
// ============================================================================

func (e *Emitter) stmts(stmts []ast.Statement) {
	for _, s := range stmts {
		e.stmt(s)
	}
}

// body 生成循环或分支体（不含冒号行），自带作用域
func (e *Emitter) body(s ast.Statement) {
	e.env.Push()
	defer e.env.Pop()
	if block, ok := s.(*ast.BlockStmt); ok {
		e.stmts(block.Statements)
		return
	}
	e.stmt(s)
}

func (e *Emitter) stmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		e.exprStmt(n.Expr)
	case *ast.VarDeclStmt:
		e.varDecl(n)
	case *ast.BlockStmt:
		e.env.Push()
		e.stmts(n.Statements)
		e.env.Pop()
	case *ast.IfStmt:
		e.ifStmt(n, "if")
	case *ast.WhileStmt:
		e.line("while " + e.text(n.Condition) + ":")
		e.loop(nil, func() { e.body(n.Body) })
	case *ast.DoWhileStmt:
		e.doWhile(n)
	case *ast.ForStmt:
		e.forStmt(n)
	case *ast.ForeachStmt:
		e.foreach(n)
	case *ast.SwitchStmt:
		e.switchStmt(n)
	case *ast.TryStmt:
		e.tryStmt(n)
	case *ast.ThrowStmt:
		e.line("raise " + e.text(n.Exception))
	case *ast.BreakStmt:
		e.line("break")
	case *ast.ContinueStmt:
		if len(e.loops) > 0 {
			for _, u := range e.loops[len(e.loops)-1].update {
				e.exprStmt(u)
			}
		}
		e.line("continue")
	case *ast.ReturnStmt:
		if n.Value == nil {
			e.line("return")
			return
		}
		e.line("return " + e.convert(n.Value, e.returnType))
	case *ast.EmptyStmt:
	default:
		panic(fmt.Sprintf("emitter: unexpected statement %T", s))
	}
}

// loop 在循环帧中生成循环体
func (e *Emitter) loop(update []ast.Expression, fn func()) {
	e.loops = append(e.loops, loopFrame{update: update})
	e.suite(fn)
	e.loops = e.loops[:len(e.loops)-1]
}

func (e *Emitter) varDecl(n *ast.VarDeclStmt) {
	name := pyName(n.Name.Name)
	declared := n.Type.String()

	if declared == "var" {
		typ := types.Unknown
		if n.Value != nil {
			typ = e.typeOf(n.Value)
			e.line(name + " = " + e.text(n.Value))
		}
		e.env.Declare(n.Name.Name, typ)
		return
	}

	value := types.PythonDefault(declared)
	if n.Value != nil {
		value = e.convert(n.Value, declared)
	}
	e.line(name + ": " + types.PythonType(declared) + " = " + value)
	e.env.Declare(n.Name.Name, declared)
}

// ifStmt 生成 if / elif / else 链
func (e *Emitter) ifStmt(n *ast.IfStmt, keyword string) {
	e.line(keyword + " " + e.text(n.Condition) + ":")
	e.suite(func() { e.body(n.Then) })

	switch els := n.Else.(type) {
	case nil:
	case *ast.IfStmt:
		e.ifStmt(els, "elif")
	default:
		e.line("else:")
		e.suite(func() { e.body(els) })
	}
}

// ============================================================================
// 循环
// ============================================================================

func (e *Emitter) doWhile(n *ast.DoWhileStmt) {
	if !continues(n.Body) {
		e.line("while True:")
		e.loop(nil, func() {
			e.body(n.Body)
			e.line("if " + e.negate(n.Condition) + ":")
			e.indent++
			e.line("break")
			e.indent--
		})
		return
	}

	// continue 要跳到条件判断，用首次执行标志代替 break
	first := e.temp("_first")
	e.line(first + " = True")
	e.line("while " + first + " or " + e.operand(n.Condition, precOr+1) + ":")
	e.loop(nil, func() {
		e.line(first + " = False")
		e.body(n.Body)
	})
}

// negate 生成 not (c)
func (e *Emitter) negate(cond ast.Expression) string {
	text, prec := e.expr(cond)
	if prec < precAtom {
		return "not (" + text + ")"
	}
	return "not " + text
}

// continues 循环体中是否有作用于本循环的 continue
func continues(body ast.Statement) bool {
	return ast.Any(body, func(n ast.Node) bool {
		_, ok := n.(*ast.ContinueStmt)
		return ok
	}, func(n ast.Node) bool {
		return !isLoop(n)
	})
}

func isLoop(n ast.Node) bool {
	switch n.(type) {
	case *ast.WhileStmt, *ast.DoWhileStmt, *ast.ForStmt, *ast.ForeachStmt, *ast.LambdaExpr:
		return true
	}
	return false
}

func (e *Emitter) forStmt(n *ast.ForStmt) {
	e.env.Push()
	defer e.env.Pop()

	if header, ok := e.rangeHeader(n); ok {
		e.line(header)
		e.loop(nil, func() { e.body(n.Body) })
		return
	}

	for _, s := range n.Init {
		e.stmt(s)
	}
	cond := "True"
	if n.Condition != nil {
		cond = e.text(n.Condition)
	}
	e.line("while " + cond + ":")
	e.loop(n.Update, func() {
		e.body(n.Body)
		if !terminates(n.Body) {
			for _, u := range n.Update {
				e.exprStmt(u)
			}
		}
	})
}

// rangeHeader 把计数循环生成为 for i in range(...)
//
// 要求：初始化只声明一个整数变量，条件是该变量与界限比较，更新是常量步长，
// 循环体不修改该变量，界限在循环中不变。
func (e *Emitter) rangeHeader(n *ast.ForStmt) (string, bool) {
	if len(n.Init) != 1 || len(n.Update) != 1 || n.Condition == nil {
		return "", false
	}
	decl, ok := n.Init[0].(*ast.VarDeclStmt)
	if !ok || decl.Value == nil {
		return "", false
	}
	typ := decl.Type.String()
	switch typ {
	case types.Int, types.Long, types.Short, types.Byte:
	default:
		return "", false
	}
	name := decl.Name.Name

	cond, ok := n.Condition.(*ast.BinaryExpr)
	if !ok {
		return "", false
	}
	if id, ok := cond.Left.(*ast.Identifier); !ok || id.Name != name {
		return "", false
	}

	step, ok := stepOf(n.Update[0], name)
	if !ok {
		return "", false
	}
	switch cond.Operator.Type {
	case token.LT, token.LE:
		if step.Sign() < 0 {
			return "", false
		}
	case token.GT, token.GE:
		if step.Sign() > 0 {
			return "", false
		}
	default:
		return "", false
	}

	if writes(n.Body, name) || !e.stableBound(cond.Right, n.Body) {
		return "", false
	}
	if bt := e.typeOf(cond.Right); !types.IsIntegral(bt) || types.IsChar(bt) {
		return "", false
	}
	if st := e.typeOf(decl.Value); !types.IsIntegral(st) || types.IsChar(st) {
		return "", false
	}

	start := e.text(decl.Value)
	end := e.bound(cond.Right, cond.Operator.Type)
	e.env.Declare(name, typ)

	args := start + ", " + end
	if step.Cmp(big.NewInt(1)) != 0 {
		args += ", " + step.String()
	}
	return "for " + pyName(name) + " in range(" + args + "):", true
}

// bound 返回 range 的终点：<= 加一，>= 减一
func (e *Emitter) bound(limit ast.Expression, op token.TokenType) string {
	delta := int64(0)
	switch op {
	case token.LE:
		delta = 1
	case token.GE:
		delta = -1
	}
	if delta == 0 {
		return e.text(limit)
	}
	if lit, ok := limit.(*ast.IntegerLiteral); ok {
		return new(big.Int).Add(lit.Value, big.NewInt(delta)).String()
	}
	if delta > 0 {
		return e.operand(limit, precAdd) + " + 1"
	}
	return e.operand(limit, precAdd) + " - 1"
}

// stepOf 返回更新表达式对变量 name 的常量步长
func stepOf(update ast.Expression, name string) (*big.Int, bool) {
	isVar := func(x ast.Expression) bool {
		id, ok := x.(*ast.Identifier)
		return ok && id.Name == name
	}

	switch u := update.(type) {
	case *ast.PostfixExpr:
		if !isVar(u.Operand) {
			return nil, false
		}
		if u.Operator.Type == token.INCREMENT {
			return big.NewInt(1), true
		}
		return big.NewInt(-1), true
	case *ast.UnaryExpr:
		if !u.IsIncDec() || !isVar(u.Operand) {
			return nil, false
		}
		if u.Operator.Type == token.INCREMENT {
			return big.NewInt(1), true
		}
		return big.NewInt(-1), true
	case *ast.AssignExpr:
		lit, ok := u.Right.(*ast.IntegerLiteral)
		if !ok || !isVar(u.Left) || lit.Value.Sign() <= 0 {
			return nil, false
		}
		switch u.Operator.Type {
		case token.PLUS_ASSIGN:
			return lit.Value, true
		case token.MINUS_ASSIGN:
			return new(big.Int).Neg(lit.Value), true
		}
	}
	return nil, false
}

// writes 子树中是否对变量或字段 name 赋值或自增自减
func writes(node ast.Node, name string) bool {
	target := func(x ast.Expression) bool {
		switch t := x.(type) {
		case *ast.Identifier:
			return t.Name == name
		case *ast.FieldAccess:
			return t.Name.Name == name
		}
		return false
	}
	return ast.Any(node, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.AssignExpr:
			return target(x.Left)
		case *ast.PostfixExpr:
			return target(x.Operand)
		case *ast.UnaryExpr:
			return x.IsIncDec() && target(x.Operand)
		}
		return false
	}, nil)
}

// stableBound 循环界限是否在循环体中保持不变
//
// 界限引用字段时，循环体中的方法调用或对象创建都可能改写它，此时不用 range。
func (e *Emitter) stableBound(limit ast.Expression, body ast.Statement) bool {
	stable := true
	field := false
	var names []string
	ast.Walk(limit, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.Identifier:
			names = append(names, x.Name)
			if _, ok := e.env.Local(x.Name); !ok {
				if _, _, ok := e.env.Field(x.Name); ok {
					field = true
				}
			}
		case *ast.FieldAccess:
			names = append(names, x.Name.Name)
			// 数组长度不会变，数组变量本身由 writes 检查
			if x.Name.Name != "length" || !types.IsArray(e.typeOf(x.Object)) {
				field = true
			}
		case *ast.MethodCall:
			// 只接受不可变字符串的 length()
			if x.Name.Name != "length" || len(x.Args) != 0 || x.Object == nil || !types.IsString(e.typeOf(x.Object)) {
				stable = false
			}
		case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.CharLiteral, *ast.ThisExpr,
			*ast.BinaryExpr, *ast.CastExpr, *ast.SimpleType, *ast.ArrayType, *ast.GenericType:
		case *ast.UnaryExpr:
			stable = stable && !x.IsIncDec()
		default:
			stable = false
		}
		return stable
	})
	if !stable {
		return false
	}
	for _, name := range names {
		if writes(body, name) {
			return false
		}
	}
	return !field || !calls(body)
}

// calls 子树中是否有方法调用、构造调用或对象创建
func calls(node ast.Node) bool {
	return ast.Any(node, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.MethodCall, *ast.NewExpr, *ast.CtorCall:
			return true
		}
		return false
	}, nil)
}

func (e *Emitter) foreach(n *ast.ForeachStmt) {
	iter := e.typeOf(n.Iterable)
	typ := n.VarType.String()
	if typ == "var" {
		typ = types.Elem(iter)
	}

	e.line("for " + pyName(n.VarName.Name) + " in " + e.text(n.Iterable) + ":")
	e.env.Push()
	e.env.Declare(n.VarName.Name, typ)
	e.loop(nil, func() { e.body(n.Body) })
	e.env.Pop()
}

// terminates 语句是否以 break / continue / return / throw 结束
func terminates(s ast.Statement) bool {
	switch n := s.(type) {
	case *ast.BlockStmt:
		return len(n.Statements) > 0 && terminates(n.Statements[len(n.Statements)-1])
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.ReturnStmt, *ast.ThrowStmt:
		return true
	}
	return false
}

// ============================================================================
// switch → match
// ============================================================================

func (e *Emitter) switchStmt(n *ast.SwitchStmt) {
	subject := e.typeOf(n.Subject)
	e.line("match " + e.text(n.Subject) + ":")

	e.env.Push()
	defer e.env.Pop()

	e.suite(func() {
		var fallback []ast.Statement
		hasDefault := false
		for i, c := range n.Cases {
			body := armBody(n.Cases, i)
			if c.IsDefault {
				fallback, hasDefault = body, true
				continue
			}
			e.line("case " + e.pattern(c.Values, subject) + ":")
			e.suite(func() { e.arm(body, "") })
		}
		if hasDefault || len(n.Cases) == 0 {
			e.line("case _:")
			e.suite(func() { e.arm(fallback, "") })
		}
	})
}

// armBody 返回第 i 个分支实际执行的语句：贯穿到后续分支，直到 break / return /
// continue / throw；结尾的 break 去掉
func armBody(cases []*ast.SwitchCase, i int) []ast.Statement {
	var out []ast.Statement
	for j := i; j < len(cases); j++ {
		for _, s := range flatten(cases[j].Body) {
			if _, ok := s.(*ast.BreakStmt); ok {
				return out
			}
			out = append(out, s)
			switch s.(type) {
			case *ast.ReturnStmt, *ast.ThrowStmt, *ast.ContinueStmt:
				return out
			}
		}
		if cases[j].Arrow {
			return out
		}
	}
	return out
}

// arm 生成 switch 分支的语句
//
// 嵌在 if 或 try 中的 break 结束整个分支：if 的每个分支都并入其后的语句，
// try 用标志变量记录是否已经跳出。broke 非空时 break 生成为给该标志赋值。
func (e *Emitter) arm(stmts []ast.Statement, broke string) {
	for i, s := range stmts {
		if _, ok := s.(*ast.BreakStmt); ok {
			if broke != "" {
				e.line(broke + " = True")
			}
			return
		}
		if !breaksSwitch(s) {
			e.stmt(s)
			if terminates(s) {
				return
			}
			continue
		}

		rest := stmts[i+1:]
		switch n := s.(type) {
		case *ast.BlockStmt:
			e.armScope(join(flatten(n.Statements), rest), broke)
		case *ast.IfStmt:
			e.armIf(n, "if", rest, broke)
		case *ast.TryStmt:
			e.armTry(n, rest, broke)
		default:
			panic(fmt.Sprintf("emitter: unexpected break inside %T", s))
		}
		return
	}
}

func (e *Emitter) armScope(stmts []ast.Statement, broke string) {
	e.env.Push()
	e.arm(stmts, broke)
	e.env.Pop()
}

func (e *Emitter) armIf(n *ast.IfStmt, keyword string, rest []ast.Statement, broke string) {
	then := flatten(block(n.Then))

	// if (c) break; 后面的语句写成 if not c:
	if onlyBreak(then) && keyword == "if" && n.Else == nil && broke == "" && len(rest) > 0 {
		e.line("if " + e.negate(n.Condition) + ":")
		e.suite(func() { e.armScope(rest, broke) })
		return
	}

	e.line(keyword + " " + e.text(n.Condition) + ":")
	e.suite(func() { e.armScope(join(then, rest), broke) })

	switch els := n.Else.(type) {
	case nil:
		if len(rest) > 0 {
			e.line("else:")
			e.suite(func() { e.armScope(rest, broke) })
		}
	case *ast.IfStmt:
		e.armIf(els, "elif", rest, broke)
	default:
		e.line("else:")
		e.suite(func() { e.armScope(join(flatten(block(els)), rest), broke) })
	}
}

func (e *Emitter) armTry(n *ast.TryStmt, rest []ast.Statement, broke string) {
	flag := broke
	if flag == "" {
		flag = e.temp("_broke")
		e.line(flag + " = False")
	}
	e.try(n, func(s ast.Statement) {
		e.armScope(flatten(block(s)), flag)
	})
	if len(rest) > 0 {
		e.line("if not " + flag + ":")
		e.suite(func() { e.armScope(rest, broke) })
	}
}

func block(s ast.Statement) []ast.Statement {
	if b, ok := s.(*ast.BlockStmt); ok {
		return b.Statements
	}
	return []ast.Statement{s}
}

func onlyBreak(stmts []ast.Statement) bool {
	if len(stmts) != 1 {
		return false
	}
	_, ok := stmts[0].(*ast.BreakStmt)
	return ok
}

func join(a, b []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

// flatten 展开分支体最外层的语句块
func flatten(stmts []ast.Statement) []ast.Statement {
	var out []ast.Statement
	for _, s := range stmts {
		if block, ok := s.(*ast.BlockStmt); ok {
			out = append(out, flatten(block.Statements)...)
			continue
		}
		out = append(out, s)
	}
	return out
}

// breaksSwitch 语句内部是否有跳出 switch 的 break（不含嵌套循环与 switch 内部的）
func breaksSwitch(s ast.Statement) bool {
	return breakPos(s).IsValid()
}

func breakPos(s ast.Statement) token.Position {
	var pos token.Position
	if _, ok := s.(*ast.SwitchStmt); ok || isLoop(s) {
		return pos
	}
	ast.Any(s, func(n ast.Node) bool {
		if b, ok := n.(*ast.BreakStmt); ok {
			pos = b.Pos()
			return true
		}
		return false
	}, func(n ast.Node) bool {
		if _, ok := n.(*ast.SwitchStmt); ok {
			return false
		}
		return !isLoop(n)
	})
	return pos
}

// pattern 生成 case 的模式：字面量与限定名用 | 连接，其他表达式用守卫
func (e *Emitter) pattern(values []ast.Expression, subject string) string {
	parts := make([]string, len(values))
	guard := false
	for i, v := range values {
		parts[i] = e.label(v, subject)
		if !isPattern(v, parts[i]) {
			guard = true
		}
	}
	if !guard {
		return strings.Join(parts, " | ")
	}

	if len(parts) == 1 {
		return "_case if _case == " + parts[0]
	}
	return "_case if _case in (" + strings.Join(parts, ", ") + ")"
}

// label 生成一个 case 标签，字符与整数按 switch 表达式的类型互相转换
func (e *Emitter) label(v ast.Expression, subject string) string {
	switch lit := v.(type) {
	case *ast.IntegerLiteral:
		if types.IsChar(subject) && lit.Value.IsInt64() {
			return quote(string(rune(lit.Value.Int64())))
		}
	case *ast.CharLiteral:
		if types.IsNumeric(subject) && !types.IsChar(subject) {
			return fmt.Sprint(lit.Value)
		}
	}
	return e.text(v)
}

func isPattern(v ast.Expression, text string) bool {
	switch x := v.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.CharLiteral,
		*ast.BoolLiteral, *ast.NullLiteral:
		return true
	case *ast.UnaryExpr:
		if x.Operator.Type == token.MINUS {
			switch x.Operand.(type) {
			case *ast.IntegerLiteral, *ast.FloatLiteral:
				return true
			}
		}
		return false
	}
	return isDottedName(text)
}

// isDottedName 是否为 a.b.c 形式的值模式（裸名字在 match 中是捕获模式）
func isDottedName(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		if !isIdent(p) {
			return false
		}
	}
	return true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// ============================================================================
// try / catch / finally
// ============================================================================

func (e *Emitter) tryStmt(n *ast.TryStmt) {
	e.try(n, e.body)
}

// try 生成 try 语句，body 生成各个子句的语句体
func (e *Emitter) try(n *ast.TryStmt, body func(ast.Statement)) {
	e.line("try:")
	e.suite(func() { body(n.Body) })

	for _, c := range n.Catches {
		names := make([]string, len(c.Types))
		for i, t := range c.Types {
			names[i] = e.exceptionName(t.String())
		}
		clause := names[0]
		if len(names) > 1 {
			clause = "(" + strings.Join(names, ", ") + ")"
		}
		e.line("except " + clause + " as " + pyName(c.Name.Name) + ":")

		e.env.Push()
		e.env.Declare(c.Name.Name, c.Types[0].String())
		e.suite(func() { body(c.Body) })
		e.env.Pop()
	}

	if n.Finally != nil {
		e.line("finally:")
		e.suite(func() { body(n.Finally) })
	}
}

func (e *Emitter) exceptionName(name string) string {
	if e.index.IsClass(name) {
		return name
	}
	return types.PythonException(name)
}
