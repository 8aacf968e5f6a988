package emitter

import (
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/i18n"
	"github.com/tangzhangming/jpy/internal/optimizer"
	"github.com/tangzhangming/jpy/internal/parser"
)

const header = "from __future__ import annotations\n"

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	file, err := parser.ParseSource(src, "Test.java")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	optimizer.Optimize(file)
	return file
}

func emit(t *testing.T, src string) string {
	t.Helper()
	code, err := Emit(parse(t, src), nil)
	if err != nil {
		t.Fatalf("unexpected emit error: %v", err)
	}
	return code
}

// body 把语句放进静态方法 f 并返回方法体（去掉两级缩进）
func body(t *testing.T, fields, stmts string) string {
	t.Helper()
	src := "class T {\n" + fields + "\nstatic void f(int n, String s, char c, double d) {\n" + stmts + "\n}\n}"
	code := emit(t, src)
	start := strings.Index(code, "def f(")
	if start < 0 {
		t.Fatalf("no f in output:\n%s", code)
	}
	lines := strings.Split(code[start:], "\n")[1:]
	var out []string
	for _, l := range lines {
		if !strings.HasPrefix(l, "        ") {
			break
		}
		out = append(out, strings.TrimPrefix(l, "        "))
	}
	return strings.Join(out, "\n")
}

func TestSingleConstructor(t *testing.T) {
	src := `class Box {
    int value;
    Box(int value) {
        this.value = value;
    }
}`
	want := header + `

class Box:
    def __init__(self, value: int) -> None:
        self.value: int = value
`
	be.Equal(t, emit(t, src), want)
}

func TestCountingLoop(t *testing.T) {
	src := `class Main {
    public static void main(String[] args) {
        for (int i = 0; i < 3; i++) {
            System.out.println(i);
        }
    }
}`
	want := header + `
import sys


class Main:
    @staticmethod
    def main(args: list[str]) -> None:
        for i in range(0, 3):
            print(i)


if __name__ == "__main__":
    Main.main(sys.argv[1:])
`
	be.Equal(t, emit(t, src), want)
}

func TestSwitchToMatch(t *testing.T) {
	src := `class Main {
    static void f(int x) {
        switch (x) {
            case 1:
                System.out.println("one");
                break;
            default:
                System.out.println("other");
        }
    }
}`
	want := header + `

class Main:
    @staticmethod
    def f(x: int) -> None:
        match x:
            case 1:
                print("one")
            case _:
                print("other")
`
	be.Equal(t, emit(t, src), want)
}

func TestConstructorMerge(t *testing.T) {
	src := `class Point {
    int x;
    int y;
    Point(int x) {
        this.x = x;
    }
    Point(int x, int y) {
        this.x = x;
        this.y = y;
    }
}`
	want := header + `
_UNSET = object()


class Point:
    def __init__(self, x: int, y: int = _UNSET) -> None:
        if y is not _UNSET:
            self.x: int = x
            self.y: int = y
        else:
            self.y: int = 0
            self.x: int = x
`
	be.Equal(t, emit(t, src), want)
}

func TestOverloadByType(t *testing.T) {
	src := `class P {
    static void show(int x) { System.out.println(x); }
    static void show(String s) { System.out.println(s); }
}`
	want := header + `

class P:
    @staticmethod
    def show(x: object) -> None:
        if type(x) is int:
            print(x)
        else:
            s = x
            print(s)
`
	be.Equal(t, emit(t, src), want)
}

func TestFields(t *testing.T) {
	src := `class C extends Base {
    static int count = 0;
    String name;
    double[] xs = new double[3];
    void bump() { count++; }
}
class Base {}`
	code := emit(t, src)
	be.True(t, strings.Contains(code, "class C(Base):\n    count: int = 0\n"))
	be.True(t, strings.Contains(code, "    def __init__(self) -> None:\n        super().__init__()\n"+
		"        self.name: str = \"\"\n        self.xs: list[float] = [0.0] * 3\n"))
	be.True(t, strings.Contains(code, "    def bump(self) -> None:\n        C.count += 1\n"))
	be.True(t, strings.Contains(code, "\n\n\nclass Base:\n    pass\n"))
}

func TestStatements(t *testing.T) {
	tests := []struct {
		name  string
		stmts string
		want  string
	}{
		{
			"ternary folded",
			"int a = 1; int b = 2; int x = true ? a : b;",
			"a: int = 1\nb: int = 2\nx: int = a",
		},
		{
			"if elif else",
			"if (n > 0) { n--; } else if (n < 0) { n++; } else { return; }",
			"if n > 0:\n    n -= 1\nelif n < 0:\n    n += 1\nelse:\n    return",
		},
		{
			"while form of for",
			"for (int i = 0; i < n; i += n) { System.out.print(i); }",
			"i: int = 0\nwhile i < n:\n    print(i, end=\"\")\n    i += n",
		},
		{
			"continue repeats update",
			"for (int i = 0; i < n; i = i + 2) { if (i == 4) continue; }",
			"i: int = 0\nwhile i < n:\n    if i == 4:\n        i = i + 2\n        continue\n    i = i + 2",
		},
		{
			"range with inclusive bound",
			"for (int i = 1; i <= n; i++) { System.out.println(i); }",
			"for i in range(1, n + 1):\n    print(i)",
		},
		{
			"descending range",
			"for (int i = 10; i > 0; i -= 2) { }",
			"for i in range(10, 0, -2):\n    pass",
		},
		{
			"do while",
			"int i = 0; do { i++; } while (i < 3);",
			"i: int = 0\nwhile True:\n    i += 1\n    if not (i < 3):\n        break",
		},
		{
			"foreach",
			"int[] xs = {1, 2}; for (int x : xs) { System.out.println(x); }",
			"xs: list[int] = [1, 2]\nfor x in xs:\n    print(x)",
		},
		{
			"try catch finally",
			"try { n = 1 / n; } catch (ArithmeticException | IllegalStateException e) { System.out.println(e.getMessage()); } finally { n = 0; }",
			"try:\n    n = _jdiv(1, n)\nexcept (ZeroDivisionError, RuntimeError) as e:\n    print(str(e))\nfinally:\n    n = 0",
		},
		{
			"throw",
			`throw new IllegalArgumentException("bad");`,
			`raise ValueError("bad")`,
		},
		{
			"postfix in expression",
			"int i = 0; int j = i++;",
			"i: int = 0\nj: int = ((i := i + 1) - 1)",
		},
		{
			"char arithmetic",
			"char nx = (char) (c + 1); int code = c;",
			"nx: str = chr(ord(c) + 1)\ncode: int = ord(c)",
		},
		{
			"string concat",
			`String t = "n=" + n + ", ok=" + true;`,
			`t: str = "n=" + str(n) + ", ok=" + "true"`,
		},
		{
			"null checks",
			"String t = null; boolean b = t == null || t != s;",
			"t: str = None\nb: bool = t is None or t != s",
		},
		{
			"double conversions",
			"double x = n; double y = 2; int z = (int) d;",
			"x: float = float(n)\ny: float = 2.0\nz: int = int(d)",
		},
		{
			"chained assignment",
			"int a = 0; int b = 0; a = b = n;",
			"a: int = 0\nb: int = 0\na = b = n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, body(t, "", tt.stmts), tt.want)
		})
	}
}

func TestFieldBoundLoop(t *testing.T) {
	fields := "static int count = 3;\nstatic void shrink() { count = count - 1; }"
	tests := []struct {
		name  string
		stmts string
		want  string
	}{
		{
			"call may change bound",
			"for (int i = 0; i < count; i++) { shrink(); }",
			"i: int = 0\nwhile i < T.count:\n    T.shrink()\n    i += 1",
		},
		{
			"no calls in body",
			"for (int i = 0; i < count; i++) { n++; }",
			"for i in range(0, T.count):\n    n += 1",
		},
		{
			"local bound",
			"int m = count; for (int i = 0; i < m; i++) { shrink(); }",
			"m: int = T.count\nfor i in range(0, m):\n    T.shrink()",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, body(t, fields, tt.stmts), tt.want)
		})
	}
}

func TestFieldNamedLikeMethod(t *testing.T) {
	code := emit(t, `class Counter {
    int count;
    Counter() { count = 5; }
    int count() { return count; }
}
class Sub extends Counter {
    void bump() { this.count++; }
}`)
	be.True(t, strings.Contains(code, "class Counter:\n    def __init__(self) -> None:\n        self._count: int = 5\n\n"+
		"    def count(self) -> int:\n        return self._count\n"))
	be.True(t, strings.Contains(code, "    def bump(self) -> None:\n        self._count += 1\n"))
}

func TestStoresInExpressions(t *testing.T) {
	fields := "static int seq = 0;\nstatic int[] a = {1, 2};"
	tests := []struct {
		name  string
		stmts string
		want  string
	}{
		{
			"postfix on static field",
			"int k = seq++;",
			`k: int = (_store_attr(T, "seq", T.seq + 1) - 1)`,
		},
		{
			"prefix on array element",
			"int v = ++a[0];",
			"v: int = _store_item(T.a, 0, T.a[0] + 1)",
		},
		{
			"index evaluated once",
			"int w = a[n++]--;",
			"w: int = (_store_item(T.a, (_idx := ((n := n + 1) - 1)), T.a[_idx] - 1) + 1)",
		},
		{
			"assignment to field",
			"int y = seq = n;",
			`y: int = _store_attr(T, "seq", n)`,
		},
		{
			"compound assignment to field",
			"int z = (seq += 2);",
			`z: int = _store_attr(T, "seq", T.seq + 2)`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, body(t, fields, tt.stmts), tt.want)
		})
	}
}

func TestInstanceFieldIncrement(t *testing.T) {
	src := `class Ids {
    int next;
    int take() { return next++; }
}`
	want := header + `

def _store_attr(obj, name, value):
    setattr(obj, name, value)
    return value


class Ids:
    def __init__(self) -> None:
        self.next_: int = 0

    def take(self) -> int:
        return (_store_attr(self, "next_", self.next_ + 1) - 1)
`
	be.Equal(t, emit(t, src), want)
}

func TestSwitchBreaks(t *testing.T) {
	tests := []struct {
		name  string
		stmts string
		want  string
	}{
		{
			"break guarded by if",
			"switch (n) { case 1: if (n > 0) break; n++; case 2: n--; break; default: n = 0; }",
			"match n:\n    case 1:\n        if not (n > 0):\n            n += 1\n            n -= 1\n" +
				"    case 2:\n        n -= 1\n    case _:\n        n = 0",
		},
		{
			"break at end of branch",
			`switch (n) { case 3: if (n > 1) { s = "big"; break; } else if (n < 0) { return; } s = "small"; break; }`,
			"match n:\n    case 3:\n        if n > 1:\n            s = \"big\"\n        elif n < 0:\n            return\n" +
				"        else:\n            s = \"small\"",
		},
		{
			"break inside try",
			"switch (n) { case 4: try { if (n > 2) break; n = 1; } finally { n++; } n = 2; }",
			"match n:\n    case 4:\n        _broke = False\n        try:\n            if n > 2:\n                _broke = True\n" +
				"            else:\n                n = 1\n        finally:\n            n += 1\n        if not _broke:\n            n = 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, body(t, "", tt.stmts), tt.want)
		})
	}
}

func TestDivision(t *testing.T) {
	stmts := "int q = n / 2; int r = n % 3; double m = d % 2; n /= 4; n %= 5;"
	be.Equal(t, body(t, "", stmts),
		"q: int = _jdiv(n, 2)\nr: int = _jmod(n, 3)\nm: float = math.fmod(d, 2)\nn = _jdiv(n, 4)\nn = _jmod(n, 5)")

	code := emit(t, "class T {\nstatic int f(int a, int b) { return a / b + a % b; }\n}")
	be.True(t, strings.HasPrefix(code, header+"\n\ndef _jdiv(a, b):\n    q = abs(a) // abs(b)\n"+
		"    return q if (a < 0) == (b < 0) else -q\n\n\ndef _jmod(a, b):\n    r = abs(a) % abs(b)\n"+
		"    return r if a >= 0 else -r\n\n\nclass T:\n"))
	be.True(t, strings.Contains(code, "return _jdiv(a, b) + _jmod(a, b)\n"))
}

func TestQualifiedLibraryNames(t *testing.T) {
	stmts := "java.util.List<Integer> xs = new java.util.ArrayList<>(); xs.add(1); int m = java.lang.Math.max(n, 2);"
	be.Equal(t, body(t, "", stmts), "xs: list[int] = []\nxs.append(1)\nm: int = max(n, 2)")
}

func TestLibraryCalls(t *testing.T) {
	tests := []struct {
		name  string
		stmts string
		want  string
	}{
		{
			"string methods",
			`int a = s.length(); char b = s.charAt(0); boolean e = s.equals("x"); String u = s.substring(1, 3);`,
			"a: int = len(s)\nb: str = s[0]\ne: bool = s == \"x\"\nu: str = s[1:3]",
		},
		{
			"list",
			"List<Integer> xs = new ArrayList<>(); xs.add(1); xs.set(0, 2); int k = xs.size(); boolean h = xs.contains(2);",
			"xs: list[int] = []\nxs.append(1)\nxs[0] = 2\nk: int = len(xs)\nh: bool = 2 in xs",
		},
		{
			"map",
			`Map<String, Integer> m = new HashMap<>(); m.put("a", 1); int v = m.get("a"); boolean h = m.containsKey("a");`,
			"m: dict[str, int] = {}\nm[\"a\"] = 1\nv: int = m.get(\"a\")\nh: bool = \"a\" in m",
		},
		{
			"string builder",
			`StringBuilder sb = new StringBuilder(); sb.append("a").append(1); String r = sb.toString();`,
			"sb: str = \"\"\nsb += \"a\" + \"1\"\nr: str = sb",
		},
		{
			"string builder reverse",
			`String r = new StringBuilder(s).reverse().toString();`,
			"r: str = str(s)[::-1]",
		},
		{
			"math",
			"double r = Math.sqrt(d); int m = Math.max(n, 3); long t = Math.round(d);",
			"r: float = math.sqrt(d)\nm: int = max(n, 3)\nt: int = math.floor(d + 0.5)",
		},
		{
			"printf",
			`System.out.printf("%d items%n", n);`,
			`print("%d items\n" % (n,), end="")`,
		},
		{
			"parse",
			"int v = Integer.parseInt(s); String t = String.valueOf(n);",
			"v: int = int(s)\nt: str = str(n)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, body(t, "", tt.stmts), tt.want)
		})
	}
}

func TestImports(t *testing.T) {
	code := emit(t, `class T {
    static double f(double x) {
        System.err.println("x");
        return Math.sqrt(x) + Math.random();
    }
}`)
	be.True(t, strings.HasPrefix(code, header+"\nimport math\nimport random\nimport sys\n\n\nclass T:\n"))
	be.True(t, strings.Contains(code, `print("x", file=sys.stderr)`))
	be.True(t, strings.Contains(code, "return math.sqrt(x) + random.random()"))
}

func TestUnsupportedConstructs(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		construct string
		line      int
	}{
		{"interface", "interface Shape {}", i18n.ConstructInterface, 1},
		{"enum", "enum Color { RED }", i18n.ConstructEnum, 1},
		{"annotation", "class T {\n@Override\npublic String toString() { return \"\"; }\n}", i18n.ConstructAnnotation, 2},
		{"lambda", "class T {\nvoid f() {\nRunnable r = () -> {};\n}\n}", i18n.ConstructLambda, 3},
		{"instanceof", "class T {\nboolean f(Object o) {\nreturn o instanceof String;\n}\n}", i18n.ConstructInstanceOf, 3},
		{"builder update through call", "class T {\nStringBuilder sb() { return null; }\nvoid f() {\nsb().append(1);\n}\n}", i18n.ConstructNestedAssign, 4},
		{"variadic overload", "class T {\nvoid f(int... xs) {}\nvoid f(String s) {}\n}", i18n.ConstructVariadic, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := Emit(parse(t, tt.src), nil)
			be.Equal(t, code, "")
			var uerr *UnsupportedConstructError
			if !errors.As(err, &uerr) {
				t.Fatalf("expected UnsupportedConstructError, got %v", err)
			}
			be.Equal(t, uerr.Construct, tt.construct)
			be.Equal(t, uerr.Pos.Line, tt.line)
		})
	}
}

func TestOptions(t *testing.T) {
	src := `class Main {
    public static void main(String[] args) {
        if (args.length > 0) {
            System.out.println(args[0]);
        }
    }
}`
	code, err := Emit(parse(t, src), &Options{IndentStyle: "tabs", MainGuard: false})
	be.Err(t, err, nil)
	be.Equal(t, code, header+`

class Main:
	@staticmethod
	def main(args: list[str]) -> None:
		if len(args) > 0:
			print(args[0])
`)

	code, err = Emit(parse(t, src), &Options{IndentStyle: "spaces", IndentSize: 2, MainGuard: true})
	be.Err(t, err, nil)
	be.True(t, strings.Contains(code, "  def main(args: list[str]) -> None:\n    if len(args) > 0:\n      print(args[0])\n"))
	be.True(t, strings.HasSuffix(code, "if __name__ == \"__main__\":\n  Main.main(sys.argv[1:])\n"))
}

func TestOptionsValidate(t *testing.T) {
	be.Err(t, DefaultOptions().Validate(), nil)
	be.Err(t, (&Options{IndentStyle: "tabs"}).Validate(), nil)
	be.Err(t, (&Options{IndentStyle: "spaces", IndentSize: 3}).Validate())
	be.Err(t, (&Options{IndentStyle: "mixed"}).Validate())
}

func TestToStringAddsStr(t *testing.T) {
	code := emit(t, `class P {
    int x;
    public String toString() { return "P(" + x + ")"; }
}`)
	be.True(t, strings.Contains(code, "    def toString(self) -> str:\n        return \"P(\" + str(self.x) + \")\"\n\n"+
		"    def __str__(self) -> str:\n        return self.toString()\n"))
}

func TestPythonNames(t *testing.T) {
	be.Equal(t, pyName("list"), "list_")
	be.Equal(t, pyName("lambda"), "lambda_")
	be.Equal(t, pyName("count"), "count")
}
