package errors

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func plainFormatter() *Formatter {
	f := NewFormatter()
	f.Colors = false
	return f
}

func TestFormatCompileError(t *testing.T) {
	err := &CompileError{
		Code:      E0200,
		Level:     LevelError,
		Message:   "incompatible types",
		File:      "Main.java",
		Line:      2,
		Column:    13,
		EndColumn: 16,
		Hints:     []string{"add a cast"},
	}
	lines := []string{"class Main {", "    int x = \"a\";", "}"}

	want := "error[E0200]: incompatible types\n" +
		" --> Main.java:2:13\n" +
		"  |\n" +
		"2 |     int x = \"a\";\n" +
		"  |             ^^^\n" +
		" = help: add a cast\n"
	be.Equal(t, plainFormatter().FormatCompileError(err, lines), want)
}

func TestFormatWithoutSource(t *testing.T) {
	err := &CompileError{Code: W0001, Level: LevelWarning, Message: "overloads", File: "A.java", Line: 9, Column: 1}
	got := plainFormatter().FormatCompileError(err, nil)
	be.Equal(t, got, "warning[W0001]: overloads\n --> A.java:9:1\n")
}

func TestFormatTabs(t *testing.T) {
	err := &CompileError{Code: E0100, Level: LevelError, Message: "m", File: "T.java", Line: 1, Column: 2}
	got := plainFormatter().FormatCompileError(err, []string{"\tx;"})
	be.True(t, strings.Contains(got, "1 |     x;\n  |     ^\n"))
}

func TestSummary(t *testing.T) {
	f := plainFormatter()
	be.Equal(t, f.Summary(0, 0), "")
	got := f.Summary(2, 1)
	be.True(t, strings.Contains(got, "2"))
	be.True(t, strings.Contains(got, "1"))
	be.Equal(t, strings.Count(got, "\n"), 2)
}

func TestReporter(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)
	r.SetFormatter(plainFormatter())
	r.SetSource("Main.java", "class Main {\n    int x = y;\n}")

	r.Report(&CompileError{Code: E0100, Level: LevelError, Message: "cannot find symbol 'y'", File: "Main.java", Line: 2, Column: 13})
	r.Report(&CompileError{Code: W0001, Level: LevelWarning, Message: "w", File: "Main.java", Line: 1, Column: 1})

	be.True(t, r.HasErrors())
	be.Equal(t, r.ErrorCount(), 1)
	be.Equal(t, r.WarningCount(), 1)
	be.True(t, strings.Contains(out.String(), "2 |     int x = y;\n"))
	be.Equal(t, r.GetSourceLine("Main.java", 2), "    int x = y;")

	r.Clear()
	be.True(t, !r.HasErrors())
}

func TestReporterWithoutWarnings(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)
	r.SetFormatter(plainFormatter())
	r.SetWarnings(false)
	r.Report(&CompileError{Code: W0001, Level: LevelWarning, Message: "w"})
	be.Equal(t, r.WarningCount(), 0)
	be.Equal(t, out.String(), "")
}

func TestCodeTable(t *testing.T) {
	for code, info := range codeTable {
		be.Equal(t, info.Code, code)
		be.True(t, info.MessageID != "")
	}
	be.Equal(t, LevelOf(W0001), LevelWarning)
	be.Equal(t, LevelOf("E9999"), LevelError)
	be.True(t, IsKnownCode(E0500))
}

func TestFindSimilar(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{"cout", []string{"count", "total"}, "count"},
		{"lenght", []string{"length", "size"}, "length"},
		{"zzzz", []string{"count"}, ""},
		{"x", nil, ""},
	}
	for _, tt := range tests {
		be.Equal(t, FindSimilar(tt.name, tt.candidates, 2), tt.want)
	}
}

func TestApplyColorMode(t *testing.T) {
	saved := ColorsEnabled()
	defer SetColorsEnabled(saved)

	be.Err(t, ApplyColorMode("always"), nil)
	be.True(t, ColorsEnabled())
	be.Equal(t, Red("x"), "\033[31mx\033[0m")
	be.Equal(t, Strip(Red("x")), "x")

	be.Err(t, ApplyColorMode("never"), nil)
	be.Equal(t, Red("x"), "x")

	be.Err(t, ApplyColorMode("sometimes"))
}

func TestHighlightLine(t *testing.T) {
	saved := ColorsEnabled()
	defer SetColorsEnabled(saved)
	SetColorsEnabled(true)

	h := NewSyntaxHighlighter()
	got := h.HighlightLine(`int x = "a";`)
	be.True(t, strings.Contains(got, Colorize("int", ColorBlue)))
	be.True(t, strings.Contains(got, Colorize(`"a"`, ColorGreen)))
	be.Equal(t, Strip(got), `int x = "a";`)
}
