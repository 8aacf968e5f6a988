package optimizer

import (
	"fmt"
	"testing"

	"github.com/nalgeon/be"
	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/parser"
)

// exprSource 把表达式放进带有各种类型变量的方法体
const exprSource = `class T {
    int n;
    String s;
    char c;
    double d;
    boolean p;
    int f() { return 1; }
    void m(int x, long y) {
        Object v = %s;
    }
}`

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	file, err := parser.ParseSource(src, "Test.java")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return file
}

func declValue(t *testing.T, file *ast.File) ast.Expression {
	t.Helper()
	body := file.Classes()[0].Methods()[1].Body
	decl, ok := body.Statements[0].(*ast.VarDeclStmt)
	if !ok {
		t.Fatalf("expected VarDeclStmt, got %T", body.Statements[0])
	}
	return decl.Value
}

// optimizeExpr 优化文件并返回表达式的 S 表达式
func optimizeExpr(t *testing.T, expr string) string {
	t.Helper()
	file := parse(t, fmt.Sprintf(exprSource, expr))
	Optimize(file)
	return ast.Dump(declValue(t, file))
}

func TestConstantFolding(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		// 整数
		{"1 + 2", "3"},
		{"2 * 3 + 4", "10"},
		{"-(1 + 2)", "-3"},
		{"10 - 15", "-5"},
		{"7 / 2", "3"},
		{"-7 / 2", "-3"},
		{"-7 % 3", "-1"},
		{"7 % -3", "1"},
		{"1 << 4", "16"},
		{"-16 >> 2", "-4"},
		{"-16 >>> 2", "-4"},
		{"6 & 3", "2"},
		{"6 | 3", "7"},
		{"6 ^ 3", "5"},
		{"~5", "-6"},
		{"2147483647 + 1", "2147483648"},
		{"'a' + 1", "98"},

		// 浮点
		{"1.5 + 2", "3.5"},
		{"1 / 2.0", "0.5"},
		{"-7.5 % 2", "-1.5"},
		{"-2.5", "-2.5"},

		// 布尔与比较
		{"true && false", "false"},
		{"true || false", "true"},
		{"!true", "false"},
		{"!(1 < 2)", "false"},
		{"3 >= 3", "true"},
		{"'a' == 97", "true"},
		{"1.5 != 1.5", "false"},
		{"true ^ true", "false"},

		// 字符串
		{`"a" + "b"`, `"ab"`},
		{`"n=" + 1 + 2`, `"n=12"`},
		{`1 + 2 + "x"`, `"3x"`},
		{`"c" + 'd'`, `"cd"`},
		{`"ok: " + true`, `"ok: true"`},
		{`"v" + 1.5`, `(+ "v" 1.5)`},

		// 三元
		{"true ? n : d", "n"},
		{"1 > 2 ? n : x", "x"},

		// 不折叠
		{"1 / 0", "(/ 1 0)"},
		{"5 % 0", "(% 5 0)"},
		{"1.0 / 0", "(/ 1 0)"},
		{"1 << -1", "(<< 1 -1)"},
		{"x + 1", "(+ x 1)"},
		{`"a" == "a"`, `(== "a" "a")`},
		{"1 + null", "(+ 1 null)"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			be.Equal(t, optimizeExpr(t, tt.expr), tt.want)
		})
	}
}

func TestAlgebraicIdentities(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"x + 0", "x"},
		{"0 + x", "x"},
		{"x - 0", "x"},
		{"x * 1", "x"},
		{"1 * x", "x"},
		{"(x + y) * 1", "(+ x y)"},
		{"f() + 0", "(call f)"},
		{"d + 0.0", "d"},
		{"p && true", "p"},
		{"true && p", "p"},
		{"p || false", "p"},
		{"false || p", "p"},
		{"(x > 1) && true", "(> x 1)"},
		{"false && p", "false"},
		{"p || true", "true"},

		// 类型或副作用不允许化简
		{"s + 0", "(+ s 0)"},
		{"0 + s", "(+ 0 s)"},
		{"c + 0", "(+ c 0)"},
		{"x + 0.0", "(+ x 0)"},
		{"false && f() > 0", "(&& false (> (call f) 0))"},
		{"f() > 0 || true", "(|| (> (call f) 0) true)"},
		{"x++ * 1", "(postfix++ x)"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			be.Equal(t, optimizeExpr(t, tt.expr), tt.want)
		})
	}
}

func TestLiteralSuffixes(t *testing.T) {
	file := parse(t, fmt.Sprintf(exprSource, "1L + 2"))
	Optimize(file)
	lit, ok := declValue(t, file).(*ast.IntegerLiteral)
	if !ok {
		t.Fatalf("expected IntegerLiteral, got %T", declValue(t, file))
	}
	be.Equal(t, lit.Token.Literal, "3L")
	be.Equal(t, lit.Value.Int64(), int64(3))

	file = parse(t, fmt.Sprintf(exprSource, "1.5f * 2"))
	Optimize(file)
	flit, ok := declValue(t, file).(*ast.FloatLiteral)
	if !ok {
		t.Fatalf("expected FloatLiteral, got %T", declValue(t, file))
	}
	be.Equal(t, flit.Token.Literal, "3.0f")
	be.Equal(t, flit.Value, 3.0)
}

func TestSideEffectsPreserved(t *testing.T) {
	src := `class T {
    int n;
    int next() { n++; return n; }
    void m(int x) {
        x = 1 + 2;
        x += 0;
        next();
        n = true ? next() : 0;
        x++;
        int y = false ? x++ : x;
        for (int i = 0 + 0; i < 2 * 3; i++) {}
    }
}`
	file := parse(t, src)
	Optimize(file)

	body := file.Classes()[0].Methods()[1].Body
	want := []string{
		"(expr (= x 3))",
		"(expr (+= x 0))",
		"(expr (call next))",
		"(expr (= n (call next)))",
		"(expr (postfix++ x))",
		"(var int y x)",
		"(for ((var int i 0)) (< i 6) ((postfix++ i)) (block))",
	}
	be.Equal(t, len(body.Statements), len(want))
	for i, s := range body.Statements {
		be.Equal(t, ast.Dump(s), want[i])
	}
}

func TestControlFlowUnchanged(t *testing.T) {
	src := `class T {
    void m(int x) {
        if (1 < 2) { x = 1; } else { x = 2; }
        while (false) { x = 3; }
        switch (1 + 1) { case 2: x = 4; break; default: x = 5; }
    }
}`
	file := parse(t, src)
	Optimize(file)

	body := file.Classes()[0].Methods()[0].Body
	be.Equal(t, len(body.Statements), 3)
	be.Equal(t, ast.Dump(body.Statements[0]), "(if true (block (expr (= x 1))) (block (expr (= x 2))))")
	be.Equal(t, ast.Dump(body.Statements[1]), "(while false (block (expr (= x 3))))")
	be.Equal(t, ast.Dump(body.Statements[2]),
		"(switch 2 (case (2) (expr (= x 4)) (break)) (default (expr (= x 5))))")
}

func TestIdempotent(t *testing.T) {
	sources := []string{
		fmt.Sprintf(exprSource, "(1 + 2) * x + 0 * (3 - 3) + (true ? 4 : 5)"),
		fmt.Sprintf(exprSource, `s + (1 + 1) + "!" + ('a' + 0)`),
		fmt.Sprintf(exprSource, "!(p && true) || (false && p) || x * 1 > 0"),
		`class T {
    static int K = 2 * 21;
    int sq(int v) { return v * 1 * v + 0; }
    public static void main(String[] args) {
        int total = 0;
        for (int i = 0; i < 10 - 7; i++) { total += i * (2 - 1); }
        System.out.println("total " + (1 + 1) + total);
    }
}`,
	}

	for _, src := range sources {
		file := parse(t, src)
		first := Optimize(file)
		once := ast.Dump(file)

		second := Optimize(file)
		be.Equal(t, second, 0)
		be.Equal(t, ast.Dump(file), once)
		be.True(t, first > 0)
	}
}

func TestRewriteCount(t *testing.T) {
	file := parse(t, fmt.Sprintf(exprSource, "1 + 2 + 3"))
	o := New()
	be.Equal(t, o.Optimize(file), 2)
	be.Equal(t, o.Passes(), 2)
	be.Equal(t, ast.Dump(declValue(t, file)), "6")
}

func TestStandaloneExpr(t *testing.T) {
	file := parse(t, fmt.Sprintf(exprSource, "-(1 + 2) * (q + 0)"))
	got := Expr(declValue(t, file))
	be.Equal(t, ast.Dump(got), "(* -3 q)")
}

func TestVarAndForeachTypes(t *testing.T) {
	src := `class T {
    void m(String[] names) {
        var label = "x";
        Object a = label + 0;
        for (var name : names) {
            Object b = name + 0;
        }
        for (int k : new int[]{1}) {
            Object c = k + 0;
        }
    }
}`
	file := parse(t, src)
	Optimize(file)

	body := file.Classes()[0].Methods()[0].Body
	be.Equal(t, ast.Dump(body.Statements[1]), `(var Object a (+ label 0))`)
	be.Equal(t, ast.Dump(body.Statements[2]), `(foreach var name names (block (var Object b (+ name 0))))`)
	be.Equal(t, ast.Dump(body.Statements[3]), `(foreach int k (new-array int 1 (array 1)) (block (var Object c k)))`)
}
