package checker

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/errors"
	"github.com/tangzhangming/jpy/internal/parser"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	file, err := parser.ParseSource(src, "Test.java")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return file
}

func codes(diags []Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

// inMethod 把语句包装进一个实例方法
func inMethod(body string) string {
	return "class T { int field; void m(int p) { " + body + " } }"
}

func TestCleanProgram(t *testing.T) {
	src := `
class Point {
    private int x;
    private int y;
    static int count = 0;

    Point(int x, int y) { this.x = x; this.y = y; count++; }
    Point(int v) { this(v, v); }

    int sum() { return x + y; }
    static Point origin() { return new Point(0, 0); }

    public static void main(String[] args) {
        Point p = new Point(1, 2);
        int total = 0;
        for (int i = 0; i < 3; i++) { total += p.sum(); }
        String s = "total=" + total;
        System.out.println(s);
        List<Integer> xs = new ArrayList<>();
        xs.add(1);
        for (int v : xs) { total = total + v; }
        switch (total) { case 1: break; default: total = 0; }
        long big = total;
        double d = total / 2.0;
        char ch = 'a';
        int code = ch;
        byte b = 10;
        boolean ok = total > 0 && s.length() > 2;
        int t = ok ? 1 : 2;
        try {
            throw new IllegalArgumentException("x");
        } catch (IllegalArgumentException e) {
            System.out.println(e);
        } finally {
            total = 1;
        }
    }
}`
	diags := Check(parse(t, src))
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"undefined identifier", inMethod("int x = y + 1;"), []string{errors.E0100}},
		{"undefined method", inMethod("missing();"), []string{errors.E0302}},
		{"redeclare parameter", inMethod("int p = 1;"), []string{errors.E0101}},
		{"redeclare local", inMethod("int b; int b;"), []string{errors.E0101}},
		{"shadow in nested block", inMethod("int e = 1; { int e = 2; } { int d = 1; } int d = 2;"), nil},
		{"init mismatch", inMethod(`int x = "s"; String s = 1;`), []string{errors.E0200, errors.E0200}},
		{"assign mismatch", inMethod("int x = 0; x = true; long l = 1; int i = l;"), []string{errors.E0200, errors.E0200}},
		{"narrowing constant", inMethod("byte b = 10; char c = 65; short s = -5;"), nil},
		{"narrowing out of range", inMethod("byte b = 300;"), []string{errors.E0200}},
		{"field initializer", "class F { int x = \"s\"; }", []string{errors.E0200}},
		{"array initializer", inMethod(`int[] a = {1, "two"};`), []string{errors.E0200}},
		{
			"non-boolean conditions",
			inMethod(`int x = 1; if (x) {} while ("s") {} for (;x;) {} do {} while (x); int y = x ? 1 : 2;`),
			[]string{errors.E0201, errors.E0201, errors.E0201, errors.E0201, errors.E0201},
		},
		{"increment string", inMethod(`String s = ""; s++;`), []string{errors.E0202}},
		{"decrement boolean", inMethod("boolean b = true; --b;"), []string{errors.E0202}},
		{"not on int", inMethod("boolean b = !5;"), []string{errors.E0202}},
		{"bad binary", inMethod(`boolean b = true + 1;`), []string{errors.E0203}},
		{"compound on string", inMethod(`String s = ""; s += 1; s -= 1;`), []string{errors.E0203}},
		{"ternary branches", inMethod(`int x = true ? 1 : "s";`), []string{errors.E0204}},
		{"switch on boolean", inMethod("boolean b = true; switch (b) { default: }"), []string{errors.E0205}},
		{"case type", inMethod(`switch (p) { case "a": break; }`), []string{errors.E0206}},
		{"char case labels", inMethod("char c = 'a'; switch (c) { case 'b': case 65: break; }"), nil},
		{"break outside loop", inMethod("break;"), []string{errors.E0304}},
		{"continue in switch", inMethod("switch (p) { case 1: continue; }"), []string{errors.E0305}},
		{"continue in loop switch", inMethod("while (true) { switch (p) { case 1: continue; } }"), nil},
		{"index non array", inMethod("int x = 1; x[0] = 1;"), []string{errors.E0210}},
		{"index not integer", inMethod(`int[] a = new int[2]; a["s"] = 1; int[] b = new int["n"];`), []string{errors.E0211, errors.E0211}},
		{"foreach over int", inMethod("for (int v : p) {}"), []string{errors.E0212}},
		{"foreach element type", inMethod(`String[] ss = {"a"}; for (int v : ss) {} for (var w : ss) { int n = w.length(); }`), []string{errors.E0200}},
		{"print is exempt", inMethod(`System.out.println(1, 2, 3); System.out.printf("%d %d", 1, 2);`), nil},
		{"library calls", inMethod(`double r = Math.sqrt(p); int m = Math.max(1, 2); String s = String.valueOf(p);`), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Check(parse(t, tt.src))
			got := codes(diags)
			if len(got) == 0 {
				got = nil
			}
			be.Equal(t, got, tt.want)
		})
	}
}

func TestOverloadResolution(t *testing.T) {
	src := `
class Calc {
    int add(int a, int b) { return a + b; }
    double add(double a, double b) { return a + b; }
    void f(long a, int b) {}
    void f(int a, long b) {}
    void run() {
        add(1, 2);
        add(1.5, 2);
        add("x", 1);
        add(1);
        f(1, 2);
        f(1L, 2);
        missing();
    }
}`
	diags := Check(parse(t, src))
	be.Equal(t, codes(diags), []string{errors.W0001, errors.E0300, errors.E0300, errors.E0301, errors.E0302})
	be.Equal(t, diags[0].Severity, errors.LevelWarning)
	be.True(t, !diags[0].IsError())
	be.True(t, HasErrors(diags))
}

func TestStaticContext(t *testing.T) {
	src := `
class S {
    int value;
    void inst() {}
    static void run() {
        value = 1;
        inst();
        this.value = 2;
    }
}
class Q {
    void m() { super.m(); }
}`
	be.Equal(t, codes(Check(parse(t, src))), []string{errors.E0102, errors.E0102, errors.E0103, errors.E0407})
}

func TestReturns(t *testing.T) {
	src := `
class R {
    void a() { return 1; }
    int b() { return; }
    int c() { return "s"; }
    long d() { return 1; }
    byte e() { return 1; }
    R() { return; }
}`
	be.Equal(t, codes(Check(parse(t, src))), []string{errors.E0208, errors.E0209, errors.E0207})
}

func TestClassDeclarations(t *testing.T) {
	src := `
class A {
    int x;
    int x;
    void m() {}
    void m() {}
    A() {}
    A() {}
}
class A {}
class B extends Missing {}
class C extends D {}
class D extends C {}`
	be.Equal(t, codes(Check(parse(t, src))),
		[]string{errors.E0400, errors.E0401, errors.E0402, errors.E0403, errors.E0404, errors.E0405})
}

func TestIndistinguishableConstructors(t *testing.T) {
	src := `
class P {
    P(int a) {}
    P(long a) {}
    P(String s) {}
}`
	diags := Check(parse(t, src))
	be.Equal(t, codes(diags), []string{errors.W0001})
	be.True(t, strings.Contains(diags[0].Message, "(int)"))
	be.True(t, strings.Contains(diags[0].Message, "(long)"))
	be.True(t, !HasErrors(diags))
}

func TestConstructorCalls(t *testing.T) {
	src := `
class MyErr extends RuntimeException {
    MyErr(String m) { super(m); }
}
class K {
    K() {}
    K(int a) { a = 2; this(); }
    void m() {
        Exception e = new MyErr("x");
        K k = new K(1, 2);
        Empty z = new Empty(3);
    }
}
class Empty {}`
	be.Equal(t, codes(Check(parse(t, src))), []string{errors.E0306, errors.E0303, errors.E0303})
}

func TestUndefinedIdentifierDetails(t *testing.T) {
	src := "class A {\n    void m() {\n        int count = 0;\n        cout = 1;\n    }\n}"
	diags := Check(parse(t, src))
	be.Equal(t, len(diags), 1)

	d := diags[0]
	be.Equal(t, d.Code, errors.E0100)
	be.Equal(t, d.Pos.Line, 4)
	be.Equal(t, d.Pos.Column, 9)
	be.Equal(t, d.Message, "cannot find symbol 'cout'")
	be.Equal(t, d.Hint, "did you mean 'count'?")

	ce := d.ToCompileError()
	be.Equal(t, ce.Line, 4)
	be.Equal(t, ce.Hints, []string{"did you mean 'count'?"})
}

func TestTreeIsNotMutated(t *testing.T) {
	file := parse(t, inMethod("int x = y + 1; if (x) { x = 1 + 2; }"))
	before := ast.Dump(file)
	Check(file)
	be.Equal(t, ast.Dump(file), before)
}

func TestSymbolTables(t *testing.T) {
	c := New()
	c.Check(parse(t, `
class Shape {
    String name;
    static int count;
    double area() { return 0; }
    double area(double scale) { return scale; }
}`))

	info, ok := c.Class("Shape")
	be.True(t, ok)
	be.Equal(t, len(info.Fields), 2)
	be.Equal(t, info.Fields[0].Name, "name")
	be.Equal(t, info.Fields[1].Origin, OriginField)
	be.True(t, info.Fields[1].Static)
	be.Equal(t, len(info.Methods["area"]), 2)
	be.Equal(t, info.Methods["area"][1].Signature(), "double")

	// 每次检查都重新建立符号表
	c.Check(parse(t, "class Other {}"))
	_, ok = c.Class("Shape")
	be.True(t, !ok)
}

// bogusStmt 检查器不认识的语句节点
type bogusStmt struct {
	ast.Statement
}

func TestUnknownNodePanics(t *testing.T) {
	file := parse(t, inMethod("int x = 1;"))
	body := file.Classes()[0].Methods()[0].Body
	body.Statements = append(body.Statements, bogusStmt{Statement: body.Statements[0]})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for unknown statement")
		}
		be.True(t, strings.Contains(r.(string), "unexpected statement"))
	}()
	Check(file)
}
