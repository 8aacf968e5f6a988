package optimizer

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/token"
)

// ============================================================================
// 常量折叠
//
// 折叠结果与生成的 Python 代码运行时的结果一致：整数为任意精度，除法向零取整，
// 余数与被除数同号（与 _jdiv、_jmod、math.fmod 相同），>>> 与 >> 相同。除数为零、
// 移位位数为负或过大时不折叠，保留给运行时报告。
// ============================================================================

// maxShift 折叠的最大移位位数
const maxShift = 64

type valueKind int

const (
	kindInt valueKind = iota
	kindFloat
	kindBool
	kindString
	kindChar
)

// constant 字面量的值
type constant struct {
	kind valueKind
	i    *big.Int // kindInt / kindChar
	f    float64
	b    bool
	s    string
	r    rune
	long bool // 带 L 后缀的整数
	f32  bool // 带 f 后缀的浮点数
}

func constantOf(e ast.Expression) (constant, bool) {
	switch lit := e.(type) {
	case *ast.IntegerLiteral:
		return constant{kind: kindInt, i: lit.Value, long: hasSuffix(lit.Token.Literal, "lL")}, true
	case *ast.FloatLiteral:
		return constant{kind: kindFloat, f: lit.Value, f32: hasSuffix(lit.Token.Literal, "fF")}, true
	case *ast.BoolLiteral:
		return constant{kind: kindBool, b: lit.Value}, true
	case *ast.StringLiteral:
		return constant{kind: kindString, s: lit.Value}, true
	case *ast.CharLiteral:
		return constant{kind: kindChar, i: big.NewInt(int64(lit.Value)), r: lit.Value}, true
	}
	return constant{}, false
}

func hasSuffix(literal, suffixes string) bool {
	return literal != "" && strings.ContainsRune(suffixes, rune(literal[len(literal)-1]))
}

func (c constant) integral() bool { return c.kind == kindInt || c.kind == kindChar }
func (c constant) numeric() bool  { return c.integral() || c.kind == kindFloat }

func (c constant) float() float64 {
	if c.kind == kindFloat {
		return c.f
	}
	f, _ := new(big.Float).SetInt(c.i).Float64()
	return f
}

// text 参与字符串拼接时的文本，浮点数的格式与 Python 不同，不参与
func (c constant) text() (string, bool) {
	switch c.kind {
	case kindString:
		return c.s, true
	case kindInt:
		return c.i.String(), true
	case kindChar:
		return string(c.r), true
	case kindBool:
		return strconv.FormatBool(c.b), true
	}
	return "", false
}

// ============================================================================
// 一元运算
// ============================================================================

func foldUnary(e *ast.UnaryExpr) (ast.Expression, bool) {
	c, ok := constantOf(e.Operand)
	if !ok {
		return nil, false
	}
	pos := e.Pos()

	switch e.Operator.Type {
	case token.NOT:
		if c.kind == kindBool {
			return boolLit(!c.b, pos), true
		}
	case token.MINUS:
		switch {
		case c.integral():
			return intLit(new(big.Int).Neg(c.i), c.long, pos), true
		case c.kind == kindFloat:
			return floatLit(-c.f, c.f32, pos), true
		}
	case token.PLUS:
		switch {
		case c.integral():
			return intLit(c.i, c.long, pos), true
		case c.kind == kindFloat:
			return floatLit(c.f, c.f32, pos), true
		}
	case token.BIT_NOT:
		if c.integral() {
			return intLit(new(big.Int).Not(c.i), c.long, pos), true
		}
	}
	return nil, false
}

// ============================================================================
// 二元运算
// ============================================================================

func foldBinary(e *ast.BinaryExpr) (ast.Expression, bool) {
	l, ok := constantOf(e.Left)
	if !ok {
		return nil, false
	}
	r, ok := constantOf(e.Right)
	if !ok {
		return nil, false
	}
	op := e.Operator.Type
	pos := e.Pos()

	switch {
	case op == token.PLUS && (l.kind == kindString || r.kind == kindString):
		ls, lok := l.text()
		rs, rok := r.text()
		if !lok || !rok {
			return nil, false
		}
		return stringLit(ls+rs, pos), true
	case l.kind == kindBool && r.kind == kindBool:
		return foldBool(op, l.b, r.b, pos)
	case l.integral() && r.integral():
		return foldInt(op, l, r, pos)
	case l.numeric() && r.numeric():
		return foldFloat(op, l, r, pos)
	}
	return nil, false
}

func foldBool(op token.TokenType, l, r bool, pos token.Position) (ast.Expression, bool) {
	switch op {
	case token.AND, token.BIT_AND:
		return boolLit(l && r, pos), true
	case token.OR, token.BIT_OR:
		return boolLit(l || r, pos), true
	case token.BIT_XOR, token.NE:
		return boolLit(l != r, pos), true
	case token.EQ:
		return boolLit(l == r, pos), true
	}
	return nil, false
}

func foldInt(op token.TokenType, l, r constant, pos token.Position) (ast.Expression, bool) {
	a, b := l.i, r.i
	long := l.long || r.long

	if cmp, ok := compare(op, a.Cmp(b)); ok {
		return boolLit(cmp, pos), true
	}

	z := new(big.Int)
	switch op {
	case token.PLUS:
		z.Add(a, b)
	case token.MINUS:
		z.Sub(a, b)
	case token.STAR:
		z.Mul(a, b)
	case token.SLASH:
		if b.Sign() == 0 {
			return nil, false
		}
		z.Quo(a, b)
	case token.PERCENT:
		if b.Sign() == 0 {
			return nil, false
		}
		z.Rem(a, b)
	case token.SHL, token.SHR, token.USHR:
		if b.Sign() < 0 || b.Cmp(big.NewInt(maxShift)) > 0 {
			return nil, false
		}
		n := uint(b.Int64())
		if op == token.SHL {
			z.Lsh(a, n)
		} else {
			z.Rsh(a, n)
		}
		long = l.long // 移位结果的类型只取决于左操作数
	case token.BIT_AND:
		z.And(a, b)
	case token.BIT_OR:
		z.Or(a, b)
	case token.BIT_XOR:
		z.Xor(a, b)
	default:
		return nil, false
	}
	return intLit(z, long, pos), true
}

func foldFloat(op token.TokenType, l, r constant, pos token.Position) (ast.Expression, bool) {
	a, b := l.float(), r.float()
	f32 := (l.kind != kindFloat || l.f32) && (r.kind != kindFloat || r.f32)

	if op == token.EQ || op == token.NE || op == token.LT || op == token.LE || op == token.GT || op == token.GE {
		if math.IsNaN(a) || math.IsNaN(b) {
			return nil, false
		}
		c := 0
		if a < b {
			c = -1
		} else if a > b {
			c = 1
		}
		cmp, _ := compare(op, c)
		return boolLit(cmp, pos), true
	}

	var z float64
	switch op {
	case token.PLUS:
		z = a + b
	case token.MINUS:
		z = a - b
	case token.STAR:
		z = a * b
	case token.SLASH:
		if b == 0 {
			return nil, false
		}
		z = a / b
	case token.PERCENT:
		if b == 0 {
			return nil, false
		}
		z = math.Mod(a, b)
	default:
		return nil, false
	}
	if math.IsInf(z, 0) || math.IsNaN(z) {
		return nil, false
	}
	return floatLit(z, f32, pos), true
}

// compare 把 Cmp 的结果转换为比较运算的值，op 不是比较运算时 ok 为 false
func compare(op token.TokenType, c int) (bool, bool) {
	switch op {
	case token.EQ:
		return c == 0, true
	case token.NE:
		return c != 0, true
	case token.LT:
		return c < 0, true
	case token.LE:
		return c <= 0, true
	case token.GT:
		return c > 0, true
	case token.GE:
		return c >= 0, true
	}
	return false, false
}

// ============================================================================
// 构造字面量节点
// ============================================================================

func intLit(v *big.Int, long bool, pos token.Position) *ast.IntegerLiteral {
	text := v.String()
	if long {
		text += "L"
	}
	return &ast.IntegerLiteral{Token: token.NewWithValue(token.INT, text, v, pos), Value: v}
}

func floatLit(v float64, f32 bool, pos token.Position) *ast.FloatLiteral {
	text := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(text, ".e") {
		text += ".0"
	}
	if f32 {
		text += "f"
	}
	return &ast.FloatLiteral{Token: token.NewWithValue(token.FLOAT, text, v, pos), Value: v}
}

func boolLit(v bool, pos token.Position) *ast.BoolLiteral {
	if v {
		return &ast.BoolLiteral{Token: token.New(token.TRUE, "true", pos), Value: true}
	}
	return &ast.BoolLiteral{Token: token.New(token.FALSE, "false", pos), Value: false}
}

func stringLit(v string, pos token.Position) *ast.StringLiteral {
	return &ast.StringLiteral{Token: token.NewWithValue(token.STRING, strconv.Quote(v), v, pos), Value: v}
}
