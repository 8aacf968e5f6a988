package repl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/tangzhangming/jpy/internal/translator"
)

func newTestREPL() (*REPL, *bytes.Buffer) {
	var out bytes.Buffer
	cfg := Config{
		PromptPrimary:  "jpy> ",
		PromptContinue: "...  ",
		Options:        translator.DefaultOptions(),
	}
	r := New(cfg, &out)
	r.formatter.Colors = false
	return r, &out
}

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"int x = 1;", false},
		{"if (x > 1) {", true},
		{"if (x > 1) {\n  x++;\n}", false},
		{"foo(1,", true},
		{"int[] a = new int[] {1, 2", true},
		{`String s = "{";`, false},
		{"char c = '(';", false},
		{"int x = 1; // {", false},
		{"}", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			be.Equal(t, needsMoreInput(tt.input), tt.want)
		})
	}
}

func TestFeedMultiline(t *testing.T) {
	r, _ := newTestREPL()

	_, complete := r.Feed("for (int i = 0; i < 3; i++) {")
	be.True(t, !complete)
	be.True(t, r.multiline)

	input, complete := r.Feed("}")
	be.True(t, complete)
	be.Equal(t, input, "for (int i = 0; i < 3; i++) {\n}")
	be.True(t, !r.multiline)
}

func TestFeedCommand(t *testing.T) {
	r, _ := newTestREPL()
	input, complete := r.Feed(":help")
	be.True(t, complete)
	be.Equal(t, input, ":help")
}

func TestEvalStatements(t *testing.T) {
	r, out := newTestREPL()

	r.Eval("int x = 10;")
	be.Equal(t, out.String(), "x: int = 10\n")

	out.Reset()
	r.Eval("System.out.println(x + 1);")
	be.Equal(t, out.String(), "print(x + 1)\n")

	be.Equal(t, len(r.statements), 2)
	be.Equal(t, r.lineCount, 2)
}

func TestEvalDiagnostics(t *testing.T) {
	r, out := newTestREPL()

	r.Eval("int y = z;")
	be.True(t, strings.Contains(out.String(), "error[E0100]"))
	be.True(t, strings.Contains(out.String(), "y: int = z\n"))
	be.Equal(t, len(r.statements), 1)

	// 已报告过的诊断不再重复
	out.Reset()
	r.Eval("int w = 2;")
	be.Equal(t, out.String(), "w: int = 2\n")
}

func TestEvalSyntaxErrorIsDropped(t *testing.T) {
	r, out := newTestREPL()

	r.Eval("int x = ;")
	be.True(t, strings.Contains(out.String(), "error["))
	be.Equal(t, len(r.statements), 0)
	be.Equal(t, r.lineCount, 0)
}

func TestEvalClass(t *testing.T) {
	r, out := newTestREPL()

	r.Eval("class Point {\n    int x;\n}")
	be.True(t, strings.Contains(out.String(), "class Point:"))
	be.Equal(t, len(r.statements), 0)
	be.True(t, r.lastFile != nil)
}

func TestIsCompilationUnit(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"class A {}", true},
		{"public final class A {}", true},
		{"interface Shape {}", true},
		{"enum Color { RED }", true},
		{"import java.util.List;", true},
		{"int x = 1;", false},
		{"public static int x = 1;", false},
		{"classify();", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			be.Equal(t, isCompilationUnit(tt.input), tt.want)
		})
	}
}

func TestMainBody(t *testing.T) {
	code := "class Main:\n" +
		"    @staticmethod\n" +
		"    def main(args: list[str]) -> None:\n" +
		"        x: int = 1\n" +
		"        if x > 0:\n" +
		"            print(x)\n" +
		"\n" +
		"\n" +
		"if __name__ == \"__main__\":\n" +
		"    Main.main(sys.argv[1:])\n"
	be.Equal(t, mainBody(code), []string{"x: int = 1", "if x > 0:", "    print(x)"})

	empty := "class Main:\n    @staticmethod\n    def main(args: list[str]) -> None:\n        pass\n"
	be.Equal(t, len(mainBody(empty)), 0)
	be.Equal(t, len(mainBody("x = 1\n")), 0)
}

func TestCommands(t *testing.T) {
	r, out := newTestREPL()

	be.True(t, !r.Eval(":help"))
	be.True(t, strings.Contains(out.String(), ":load <file>"))

	out.Reset()
	r.Eval(":ast")
	be.Equal(t, out.String(), "Nothing translated yet.\n")

	out.Reset()
	r.Eval(":opt")
	be.Equal(t, out.String(), "Optimizer off.\n")
	be.True(t, !r.options.Optimize)

	out.Reset()
	r.Eval("int x = 1 + 2;")
	be.Equal(t, out.String(), "x: int = 1 + 2\n")

	out.Reset()
	r.Eval(":ast")
	be.True(t, out.Len() > 0)

	out.Reset()
	r.Eval(":reset")
	be.Equal(t, out.String(), "Session reset.\n")
	be.Equal(t, len(r.statements), 0)

	out.Reset()
	r.Eval(":bogus")
	be.True(t, strings.Contains(out.String(), "Unknown command: :bogus"))

	be.True(t, r.Eval(":quit"))
}

func TestLoadCommand(t *testing.T) {
	r, out := newTestREPL()

	path := filepath.Join(t.TempDir(), "Main.java")
	src := "public class Main {\n    public static void main(String[] args) {\n        System.out.println(\"hi\");\n    }\n}\n"
	be.Err(t, os.WriteFile(path, []byte(src), 0644), nil)

	r.Eval(":load " + path)
	be.True(t, strings.Contains(out.String(), "print(\"hi\")"))

	out.Reset()
	r.Eval(":load")
	be.Equal(t, out.String(), "Usage: :load <file>\n")

	out.Reset()
	r.Eval(":load " + filepath.Join(t.TempDir(), "missing.java"))
	be.True(t, strings.HasPrefix(out.String(), "Error loading file:"))
}

func TestHistory(t *testing.T) {
	r, out := newTestREPL()
	r.Eval("int a = 1;")
	r.Eval("int a = 1;")
	r.Eval("int b = 2;")
	be.Equal(t, r.history, []string{"int a = 1;", "int b = 2;"})

	out.Reset()
	r.Eval(":history")
	be.Equal(t, out.String(), "   1  int a = 1;\n   2  int b = 2;\n")
}

func TestGetCompletions(t *testing.T) {
	r, _ := newTestREPL()
	be.Equal(t, r.GetCompletions(":qu"), []string{":quit"})
	be.Equal(t, r.GetCompletions("int x = tr"), []string{"int x = true", "int x = try"})
	be.Equal(t, len(r.GetCompletions("")), 0)
}
