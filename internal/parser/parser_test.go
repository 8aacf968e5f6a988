package parser

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"
	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/lexer"
	"github.com/tangzhangming/jpy/internal/token"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	file, err := ParseSource(src, "Test.java")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return file
}

func methodBody(t *testing.T, body string) *ast.BlockStmt {
	t.Helper()
	file := parse(t, "class T { void m() { "+body+" } }")
	return file.Classes()[0].Methods()[0].Body
}

func parseExpr(t *testing.T, expr string) ast.Expression {
	t.Helper()
	body := methodBody(t, "Object v = "+expr+";")
	decl, ok := body.Statements[0].(*ast.VarDeclStmt)
	if !ok {
		t.Fatalf("expected VarDeclStmt, got %T", body.Statements[0])
	}
	return decl.Value
}

func TestParseClassMembers(t *testing.T) {
	src := `package app;
import java.util.List;

public class P extends Base {
    private int x;
    P(int x) { super(x); this.x = x; }
    static int twice(int v) { return v * 2; }
}`
	file := parse(t, src)

	be.Equal(t, file.Package.Name, "app")
	be.Equal(t, len(file.Imports), 1)
	be.Equal(t, file.Imports[0].Path, "java.util.List")

	classes := file.Classes()
	be.Equal(t, len(classes), 1)
	class := classes[0]
	be.Equal(t, class.SuperName(), "Base")
	be.Equal(t, len(class.Fields()), 1)
	be.Equal(t, len(class.Constructors()), 1)
	be.Equal(t, len(class.Methods()), 1)
	be.True(t, class.Methods()[0].IsStatic())

	want := "(class P (extends Base) (field [private] int x) " +
		"(ctor P (int x) (block (expr (super x)) (expr (= (. this x) x)))) " +
		"(method [static] int twice (int v) (block (return (* v 2)))))"
	be.Equal(t, ast.Dump(class), want)
}

func TestParseFieldDeclaratorsAreSplit(t *testing.T) {
	file := parse(t, "class A { int a = 1, b, c[] = {2}; }")
	fields := file.Classes()[0].Fields()

	be.Equal(t, len(fields), 3)
	be.Equal(t, fields[0].Name.Name, "a")
	be.Equal(t, fields[1].Name.Name, "b")
	be.Equal(t, fields[2].Type.String(), "int[]")
	be.True(t, fields[1].Value == nil)
	if fields[0].Type == fields[1].Type {
		t.Fatalf("expected every declarator to own its type node")
	}
}

func TestParseLocalDeclaratorsAreSplit(t *testing.T) {
	body := methodBody(t, "int a = 1, b = a + 1;")

	be.Equal(t, len(body.Statements), 2)
	for i, name := range []string{"a", "b"} {
		decl, ok := body.Statements[i].(*ast.VarDeclStmt)
		if !ok {
			t.Fatalf("expected VarDeclStmt, got %T", body.Statements[i])
		}
		be.Equal(t, decl.Name.Name, name)
		be.Equal(t, decl.Type.String(), "int")
	}
}

func TestParseDeclarationVersusExpression(t *testing.T) {
	tests := []struct {
		input string
		decl  bool
	}{
		{"int x = 1;", true},
		{"x = 1;", false},
		{"String s;", true},
		{"Foo f = new Foo();", true},
		{"List<String> xs = new ArrayList<>();", true},
		{"Map<String, List<Integer>> m = null;", true},
		{"int[] arr = {1, 2};", true},
		{"a.b = 3;", false},
		{"arr[0] = 3;", false},
		{"foo(1);", false},
		{"System.out.println(x);", false},
		{"final int k = 2;", true},
		{"i++;", false},
	}

	for _, tt := range tests {
		body := methodBody(t, tt.input)
		_, isDecl := body.Statements[0].(*ast.VarDeclStmt)
		if isDecl != tt.decl {
			t.Errorf("%q: expected declaration=%v, got %T", tt.input, tt.decl, body.Statements[0])
		}
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"a - b - c", "(- (- a b) c)"},
		{"a = b = c", "(= a (= b c))"},
		{"a += 2", "(+= a 2)"},
		{"c ? x : y ? z : w", "(? c x (? y z w))"},
		{"!a && b || c", "(|| (&& (! a) b) c)"},
		{"a & b == c", "(& a (== b c))"},
		{"1 << 2 + 3", "(<< 1 (+ 2 3))"},
		{"a >> 2", "(>> a 2)"},
		{"a >>> 2", "(>>> a 2)"},
		{"a > b", "(> a b)"},
		{"a >= b", "(>= a b)"},
		{"-x.y", "(- (. x y))"},
		{"i++", "(postfix++ i)"},
		{"++i", "(++ i)"},
		{"(int) x + 1", "(+ (cast int x) 1)"},
		{"(a) - b", "(- a b)"},
		{"(String) obj", "(cast String obj)"},
		{"a.b(c)[0]", "([] (call a.b c) 0)"},
		{"new int[3]", "(new-array int 1 3)"},
		{"new int[2][]", "(new-array int 2 2)"},
		{"new int[]{1, 2}", "(new-array int 1 (array 1 2))"},
		{"new ArrayList<>()", "(new ArrayList<>)"},
		{"new Point(1, 2)", "(new Point 1 2)"},
		{"x instanceof String", "(instanceof x String)"},
		{"'a' + \"b\"", "(+ 'a' \"b\")"},
		{"null == x", "(== null x)"},
		{"super.toString()", "(call super.toString)"},
	}

	for _, tt := range tests {
		expr := parseExpr(t, tt.input)
		be.Equal(t, ast.Dump(expr), tt.want)
	}
}

func TestParseShiftAssignments(t *testing.T) {
	body := methodBody(t, "x >>= 2; y >>>= 1; z <<= 3;")
	want := []token.TokenType{token.SHR_ASSIGN, token.USHR_ASSIGN, token.SHL_ASSIGN}

	be.Equal(t, len(body.Statements), 3)
	for i, stmt := range body.Statements {
		assign, ok := stmt.(*ast.ExprStmt).Expr.(*ast.AssignExpr)
		if !ok {
			t.Fatalf("expected AssignExpr, got %T", stmt.(*ast.ExprStmt).Expr)
		}
		be.Equal(t, assign.Operator.Type, want[i])
	}
}

func TestParseNestedGenericType(t *testing.T) {
	body := methodBody(t, "Map<String, List<Integer>> m = new HashMap<>();")
	decl := body.Statements[0].(*ast.VarDeclStmt)
	be.Equal(t, decl.Type.String(), "Map<String, List<Integer>>")
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"for",
			"for (int i = 0; i < 3; i++) { print(i); }",
			"(block (for ((var int i 0)) (< i 3) ((postfix++ i)) (block (expr (call print i)))))",
		},
		{
			"foreach",
			"for (String s : names) print(s);",
			"(block (foreach String s names (expr (call print s))))",
		},
		{
			"if else if",
			"if (a) b(); else if (c) d(); else { e(); }",
			"(block (if a (expr (call b)) (if c (expr (call d)) (block (expr (call e))))))",
		},
		{
			"while",
			"while (n > 0) n--;",
			"(block (while (> n 0) (expr (postfix-- n))))",
		},
		{
			"do while",
			"do { i++; } while (i < 3);",
			"(block (do (block (expr (postfix++ i))) (< i 3)))",
		},
		{
			"switch merges empty labels",
			"switch (x) { case 1: case 2: a(); break; default: b(); }",
			"(block (switch x (case (1 2) (expr (call a)) (break)) (default (expr (call b)))))",
		},
		{
			"switch arrow",
			"switch (x) { case 1 -> a(); default -> { b(); } }",
			"(block (switch x (case (1) -> (expr (call a))) (default -> (block (expr (call b))))))",
		},
		{
			"try catch finally",
			"try { a(); } catch (IOException | RuntimeException e) { b(); } finally { c(); }",
			"(block (try (block (expr (call a))) (catch (IOException RuntimeException) e (block (expr (call b)))) (finally (block (expr (call c))))))",
		},
		{
			"throw and return",
			"if (x) throw new Error(\"bad\"); return;",
			"(block (if x (throw (new Error \"bad\"))) (return))",
		},
		{
			"break continue empty",
			"while (true) { if (a) break; continue; ; }",
			"(block (while true (block (if a (break)) (continue) (empty))))",
		},
		{
			"classic for with comma lists",
			"for (i = 0, j = 9; i < j; i++, j--) {}",
			"(block (for ((expr (= i 0)) (expr (= j 9))) (< i j) ((postfix++ i) (postfix-- j)) (block)))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := methodBody(t, tt.input)
			be.Equal(t, ast.Dump(body), tt.want)
		})
	}
}

func TestParseUnsupportedConstructsStillParse(t *testing.T) {
	file := parse(t, `
@Deprecated
interface Shape { double area(); }
enum Color { RED, GREEN }
class A {
    @Override
    public String toString() { return "A"; }
    void m() {
        Runnable r = () -> run();
        Fn f = (x, y) -> { return x; };
        Fn g = String::valueOf;
    }
}`)

	be.Equal(t, len(file.Declarations), 3)
	if _, ok := file.Declarations[0].(*ast.InterfaceDecl); !ok {
		t.Fatalf("expected InterfaceDecl, got %T", file.Declarations[0])
	}
	if _, ok := file.Declarations[1].(*ast.EnumDecl); !ok {
		t.Fatalf("expected EnumDecl, got %T", file.Declarations[1])
	}

	class := file.Classes()[0]
	be.Equal(t, len(class.Methods()[0].Annotations), 1)
	body := class.Methods()[1].Body
	if _, ok := body.Statements[0].(*ast.VarDeclStmt).Value.(*ast.LambdaExpr); !ok {
		t.Fatalf("expected LambdaExpr")
	}
	lambda := body.Statements[1].(*ast.VarDeclStmt).Value.(*ast.LambdaExpr)
	be.Equal(t, len(lambda.Params), 2)
	if _, ok := body.Statements[2].(*ast.VarDeclStmt).Value.(*ast.MethodRefExpr); !ok {
		t.Fatalf("expected MethodRefExpr")
	}
}

func TestParseAbstractMethodAndVariadic(t *testing.T) {
	file := parse(t, "abstract class A { abstract int f(); int sum(int... xs) { return 0; } }")
	methods := file.Classes()[0].Methods()

	be.True(t, methods[0].Body == nil)
	be.True(t, methods[1].Params[0].Variadic)
	be.Equal(t, methods[1].Params[0].DeclaredType().String(), "int[]")
}

func TestParseMainDetection(t *testing.T) {
	file := parse(t, "public class Main { public static void main(String[] args) {} void main(int x) {} }")
	methods := file.Classes()[0].Methods()
	be.True(t, methods[0].IsMain())
	be.True(t, !methods[1].IsMain())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{"missing semicolon", "class A { void m() { int x = 1 } }", MissingToken},
		{"missing rparen", "class A { void m() { foo(1; } }", MissingToken},
		{"nested class", "class A { class B {} }", MalformedDeclaration},
		{"top level field", "int x;", MalformedDeclaration},
		{"no class", "package a;", MalformedDeclaration},
		{"missing return type", "class A { foo() {} }", MalformedDeclaration},
		{"not a statement", "class A { void m() { 1 + 2; } }", UnexpectedToken},
		{"try without handler", "class A { void m() { try { } } }", MissingToken},
		{"try with resources", "class A { void m() { try (R r = open()) { } } }", UnexpectedToken},
		{"array init in assignment", "class A { void m() { a = {1}; } }", UnexpectedToken},
		{"labeled break", "class A { void m() { while (true) { break outer; } } }", UnexpectedToken},
		{"invalid increment", "class A { void m() { (a + b)++; } }", UnexpectedToken},
		{"anonymous class", "class A { void m() { Object o = new Object() { }; } }", MalformedDeclaration},
		{"unterminated class", "class A { int x;", MissingToken},
		{"initializer block", "class A { static { } }", MalformedDeclaration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := ParseSource(tt.input, "Test.java")
			be.Err(t, err)
			if file != nil {
				t.Fatalf("expected no partial tree on error")
			}
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}
			be.Equal(t, syntaxErr.Kind, tt.kind)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := ParseSource("class A {\n  void m() {\n    int x = 1\n  }\n}", "A.java")
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	be.Equal(t, syntaxErr.Pos.Line, 4)
	be.Equal(t, syntaxErr.Pos.Column, 3)
	be.Equal(t, syntaxErr.Expected, "';'")
	be.Equal(t, syntaxErr.Found.Type, token.RBRACE)
}

func TestParseLexicalErrorIsReturned(t *testing.T) {
	_, err := ParseSource("class A { int x = #; }", "A.java")
	be.Err(t, err)
	if _, ok := err.(lexer.Error); !ok {
		t.Fatalf("expected lexer.Error, got %T", err)
	}
}

func TestParseFromTokenStream(t *testing.T) {
	stream, err := lexer.Tokenize("class A { int f() { return 1 + 1; } }", "A.java")
	be.Err(t, err, nil)

	file, err := New(stream, "A.java").Parse()
	be.Err(t, err, nil)
	be.Equal(t, file.Filename, "A.java")
	be.Equal(t, file.Classes()[0].Name.Name, "A")
}
