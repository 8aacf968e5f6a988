package types

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/parser"
	"github.com/tangzhangming/jpy/internal/token"
)

func TestArgsAndElem(t *testing.T) {
	be.Equal(t, Args("Map<String, List<Integer>>"), []string{"String", "List<Integer>"})
	be.Equal(t, len(Args("ArrayList<>")), 0)
	be.Equal(t, Base("HashMap<String, Integer>"), "HashMap")
	be.Equal(t, Elem("int[][]"), "int[]")
	be.Equal(t, Elem("List<String>"), "String")
	be.Equal(t, Elem("Set<Integer>"), "Integer")
	be.Equal(t, Elem("Map<String, Integer>"), Unknown)
	k, v := KeyValue("Map<String, Integer>")
	be.Equal(t, k, "String")
	be.Equal(t, v, "Integer")
}

type fakeHierarchy map[string]string

func (h fakeHierarchy) IsClass(name string) bool {
	_, ok := h[name]
	return ok
}

func (h fakeHierarchy) IsSubclass(sub, super string) bool {
	for name := sub; name != ""; name = h[name] {
		if name == super {
			return true
		}
	}
	return false
}

func TestAssignable(t *testing.T) {
	h := fakeHierarchy{"Animal": "", "Dog": "Animal", "Car": ""}

	tests := []struct {
		to, from string
		want     bool
	}{
		{"int", "int", true},
		{"long", "int", true},
		{"double", "int", true},
		{"int", "long", false},
		{"int", "double", false},
		{"int", "char", true},
		{"char", "int", false},
		{"int", "Integer", true},
		{"Integer", "int", true},
		{"long", "Integer", true},
		{"Long", "int", false},
		{"boolean", "int", false},
		{"String", "int", false},
		{"String", "null", true},
		{"int", "null", false},
		{"Object", "int", true},
		{"Object", "Dog", true},
		{"Animal", "Dog", true},
		{"Dog", "Animal", false},
		{"Animal", "Car", false},
		{"Runnable", "Dog", true},
		{"List<Integer>", "ArrayList<Integer>", true},
		{"List<String>", "ArrayList<>", true},
		{"Collection<String>", "ArrayList<String>", true},
		{"Map<String, Integer>", "HashMap<>", true},
		{"List<String>", "HashMap<String, String>", false},
		{"int[]", "int[]", true},
		{"long[]", "int[]", false},
		{"Animal[]", "Dog[]", true},
		{"int[]", "int", false},
		{"Exception", "IllegalArgumentException", true},
		{"RuntimeException", "IOException", false},
		{"?", "String", true},
		{"int", "?", true},
		{"int", "void", false},
	}

	for _, tt := range tests {
		t.Run(tt.to+"<-"+tt.from, func(t *testing.T) {
			be.Equal(t, Assignable(tt.to, tt.from, h), tt.want)
		})
	}
}

func TestBinaryResult(t *testing.T) {
	tests := []struct {
		op   token.TokenType
		l, r string
		want string
		ok   bool
	}{
		{token.PLUS, "int", "int", "int", true},
		{token.PLUS, "int", "long", "long", true},
		{token.PLUS, "int", "double", "double", true},
		{token.PLUS, "char", "char", "int", true},
		{token.PLUS, "String", "int", "String", true},
		{token.PLUS, "boolean", "String", "String", true},
		{token.PLUS, "boolean", "int", "?", false},
		{token.SLASH, "Integer", "int", "int", true},
		{token.SHL, "long", "int", "long", true},
		{token.SHL, "double", "int", "?", false},
		{token.LT, "int", "double", "boolean", true},
		{token.LT, "String", "int", "boolean", false},
		{token.EQ, "String", "null", "boolean", true},
		{token.EQ, "int", "boolean", "boolean", false},
		{token.AND, "boolean", "Boolean", "boolean", true},
		{token.AND, "int", "boolean", "boolean", false},
		{token.BIT_AND, "boolean", "boolean", "boolean", true},
		{token.BIT_XOR, "int", "long", "long", true},
		{token.MINUS, "?", "int", "?", true},
	}

	for _, tt := range tests {
		got, ok := BinaryResult(tt.op, tt.l, tt.r)
		if got != tt.want || ok != tt.ok {
			t.Errorf("%s %s %s: expected (%s, %v), got (%s, %v)", tt.l, tt.op, tt.r, tt.want, tt.ok, got, ok)
		}
	}
}

func TestPythonMapping(t *testing.T) {
	tests := []struct {
		java, py, def string
	}{
		{"int", "int", "0"},
		{"long", "int", "0"},
		{"byte", "int", "0"},
		{"Integer", "int", "0"},
		{"double", "float", "0.0"},
		{"float", "float", "0.0"},
		{"boolean", "bool", "False"},
		{"char", "str", `""`},
		{"String", "str", `""`},
		{"int[]", "list[int]", "[]"},
		{"String[][]", "list[list[str]]", "[]"},
		{"List<String>", "list[str]", "[]"},
		{"ArrayList<Integer>", "list[int]", "[]"},
		{"Map<String, Integer>", "dict[str, int]", "{}"},
		{"HashMap<String, List<Double>>", "dict[str, list[float]]", "{}"},
		{"Set<Character>", "set[str]", "set()"},
		{"void", "None", "None"},
		{"Point", "Point", "None"},
		{"Box<String>", "Box", "None"},
		{"Object", "object", "None"},
	}

	for _, tt := range tests {
		t.Run(tt.java, func(t *testing.T) {
			be.Equal(t, PythonType(tt.java), tt.py)
			be.Equal(t, PythonDefault(tt.java), tt.def)
		})
	}
}

func TestLibraryReturnTypes(t *testing.T) {
	got, ok := StaticMethod("Math", "max", []string{"int", "long"})
	be.True(t, ok)
	be.Equal(t, got, "long")

	got, _ = StaticMethod("Math", "abs", []string{"double"})
	be.Equal(t, got, "double")

	got, _ = StaticMethod("Arrays", "asList", []string{"int", "int"})
	be.Equal(t, got, "List<Integer>")

	got, _ = StaticMethod("List", "of", []string{"String", "String"})
	be.Equal(t, got, "List<String>")

	got, ok = InstanceMethod("List<String>", "get", []string{"int"})
	be.True(t, ok)
	be.Equal(t, got, "String")

	got, _ = InstanceMethod("HashMap<String, Integer>", "keySet", nil)
	be.Equal(t, got, "Set<String>")

	got, _ = InstanceMethod("String", "charAt", []string{"int"})
	be.Equal(t, got, "char")

	_, ok = InstanceMethod("Point", "getX", nil)
	be.True(t, !ok)
}

const envSource = `
class Shape {
    protected String name;
    double area() { return 0.0; }
}

class Circle extends Shape {
    private double radius;
    static int count;
    int[] marks;
    List<String> tags;

    Circle(double r) { radius = r; }
    double area() { return radius * radius * Math.PI; }
    static Circle unit() { return new Circle(1); }
}
`

func TestEnvTypeOf(t *testing.T) {
	file, err := parser.ParseSource(envSource, "env.java")
	be.Err(t, err, nil)

	ix := NewIndex(file)
	be.True(t, ix.IsSubclass("Circle", "Shape"))
	be.True(t, !ix.IsSubclass("Shape", "Circle"))

	env := ix.Env("Circle", false)
	env.Declare("n", "int")
	env.Declare("s", "String")
	env.Push()
	env.Declare("c", "Circle")

	tests := []struct {
		expr string
		want string
	}{
		{"1 + 2", "int"},
		{"1L + 2", "long"},
		{"n / 2.0", "double"},
		{"s + n", "String"},
		{"'a' + 1", "int"},
		{"radius", "double"},
		{"name", "String"},
		{"this.radius", "double"},
		{"count", "int"},
		{"Circle.count", "int"},
		{"marks.length", "int"},
		{"marks[0]", "int"},
		{"tags.get(0)", "String"},
		{"tags.size()", "int"},
		{"s.length()", "int"},
		{"s.charAt(0)", "char"},
		{"c.area()", "double"},
		{"Circle.unit()", "Circle"},
		{"area()", "double"},
		{"Math.sqrt(n)", "double"},
		{"Integer.MAX_VALUE", "int"},
		{"n > 0 ? 1 : 2.0", "double"},
		{"n > 0", "boolean"},
		{"!true", "boolean"},
		{"(long) n", "long"},
		{"new int[3][4]", "int[][]"},
		{"new ArrayList<String>()", "ArrayList<String>"},
		{"undefinedName", "?"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			expr := parseExpr(t, tt.expr)
			be.Equal(t, env.TypeOf(expr), tt.want)
		})
	}

	env.Pop()
	_, ok := env.Local("c")
	be.True(t, !ok)
	_, ok = env.Local("n")
	be.True(t, ok)
}

func TestIsPure(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{"a + b * 2", true},
		{"x[i].y", true},
		{"a = 1", false},
		{"i++", false},
		{"--i", false},
		{"-i", true},
		{"f(x)", false},
		{"a + g()", false},
		{"new Point()", false},
		{"c ? a : b", true},
	}
	for _, tt := range tests {
		be.Equal(t, IsPure(parseExpr(t, tt.expr)), tt.want)
	}
}

func TestIsPrintCall(t *testing.T) {
	be.True(t, IsPrintCall(parseExpr(t, "System.out.println(1)").(*ast.MethodCall)))
	be.True(t, IsPrintCall(parseExpr(t, "System.err.print(1)").(*ast.MethodCall)))
	be.True(t, !IsPrintCall(parseExpr(t, "out.println(1)").(*ast.MethodCall)))
	be.True(t, !IsPrintCall(parseExpr(t, "System.out.write(1)").(*ast.MethodCall)))
}

// parseExpr 把表达式包装进方法体后解析
func parseExpr(t *testing.T, src string) ast.Expression {
	t.Helper()
	file, err := parser.ParseSource("class T { void m() { Object v = "+src+"; } }", "expr.java")
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	method := file.Classes()[0].Methods()[0]
	decl, ok := method.Body.Statements[0].(*ast.VarDeclStmt)
	if !ok {
		t.Fatalf("expected *ast.VarDeclStmt, got %T", method.Body.Statements[0])
	}
	return decl.Value
}
