package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/segmentio/encoding/json"

	"github.com/tangzhangming/jpy/internal/cache"
	"github.com/tangzhangming/jpy/internal/config"
	"github.com/tangzhangming/jpy/internal/errors"
	"github.com/tangzhangming/jpy/internal/translator"
)

const mainSource = `public class Main {
    public static void main(String[] args) {
        int x = 1 + 2;
        System.out.println(x);
    }
}
`

// capture 把命令输出重定向到缓冲区
func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	t.Cleanup(func() {
		stdout, stderr = oldOut, oldErr
	})
	setLanguage("en")
	return &out, &errOut
}

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	be.Err(t, os.MkdirAll(filepath.Dir(path), 0755), nil)
	be.Err(t, os.WriteFile(path, []byte(src), 0644), nil)
	return path
}

func TestPreprocessArgs(t *testing.T) {
	tests := []struct {
		args []string
		want []string
		lang string
	}{
		{[]string{"--lang", "zh", "check", "a.java"}, []string{"check", "a.java"}, "zh"},
		{[]string{"check", "-lang=en", "a.java"}, []string{"check", "a.java"}, "en"},
		{[]string{"--lang=zh"}, nil, "zh"},
		{[]string{"version"}, []string{"version"}, ""},
	}
	for _, tt := range tests {
		globalLang = ""
		got := preprocessArgs(tt.args)
		be.Equal(t, got, tt.want)
		be.Equal(t, globalLang, tt.lang)
	}
	globalLang = ""
}

func TestTranslateStdout(t *testing.T) {
	out, _ := capture(t)
	path := writeSource(t, t.TempDir(), "Main.java", mainSource)

	be.Equal(t, run([]string{"translate", path}), 0)
	be.True(t, strings.Contains(out.String(), "x: int = 3\n"))
	be.True(t, strings.HasSuffix(out.String(), "Main.main(sys.argv[1:])\n"))
}

func TestTranslateOutputFile(t *testing.T) {
	out, errOut := capture(t)
	dir := t.TempDir()
	path := writeSource(t, dir, "Main.java", mainSource)
	target := filepath.Join(dir, "out", "main.py")

	// 文件名之后的 flag 同样生效
	code := run([]string{"translate", path, "-o", target, "-indent-size", "2", "-no-main-guard", "-no-opt"})
	be.Equal(t, code, 0)
	be.Equal(t, out.Len(), 0)
	be.True(t, strings.Contains(errOut.String(), "Wrote "+target))

	data, err := os.ReadFile(target)
	be.Err(t, err, nil)
	py := string(data)
	be.True(t, strings.Contains(py, "\n    x: int = 1 + 2\n"))
	be.True(t, !strings.Contains(py, "__main__"))
}

func TestTranslateBareFileName(t *testing.T) {
	out, _ := capture(t)
	path := writeSource(t, t.TempDir(), "Main.java", mainSource)
	be.Equal(t, run([]string{path}), 0)
	be.True(t, strings.Contains(out.String(), "print(x)"))
}

func TestTranslateInvalidIndent(t *testing.T) {
	_, errOut := capture(t)
	path := writeSource(t, t.TempDir(), "Main.java", mainSource)
	be.Equal(t, run([]string{"translate", "-indent-size", "3", path}), 2)
	be.True(t, strings.Contains(errOut.String(), "indent size must be 2 or 4"))
}

func TestTranslateErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"syntax", "class A {\n  void m() {\n    int x = 1\n  }\n}", errors.E0003},
		{"unsupported", "class T {\nvoid f() {\nRunnable r = () -> {};\n}\n}", errors.E0500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut := capture(t)
			path := writeSource(t, dir, tt.name+".java", tt.src)
			be.Equal(t, run([]string{"translate", path}), 1)
			be.Equal(t, out.Len(), 0)
			be.True(t, strings.Contains(errOut.String(), "error["+tt.code+"]"))
		})
	}
}

func TestTranslateMissingFile(t *testing.T) {
	_, errOut := capture(t)
	be.Equal(t, run([]string{"translate", filepath.Join(t.TempDir(), "nope.java")}), 1)
	be.True(t, strings.HasPrefix(errOut.String(), "Error reading file:"))

	errOut.Reset()
	be.Equal(t, run([]string{"translate"}), 1)
	be.True(t, strings.Contains(errOut.String(), "no input file specified"))
}

func TestTranslateASTAndTokens(t *testing.T) {
	out, _ := capture(t)
	path := writeSource(t, t.TempDir(), "Main.java", mainSource)

	be.Equal(t, run([]string{"translate", "-ast", path}), 0)
	be.True(t, strings.HasPrefix(out.String(), "(file (class Main"))

	out.Reset()
	be.Equal(t, run([]string{"translate", "-tokens", path}), 0)
	be.True(t, strings.Contains(out.String(), "IDENT(Main)"))
}

func TestCheck(t *testing.T) {
	out, _ := capture(t)
	path := writeSource(t, t.TempDir(), "Main.java", mainSource)

	be.Equal(t, run([]string{"check", path}), 0)
	be.Equal(t, out.String(), "✓ "+path+": no problems found\n")
}

func TestCheckReportsDiagnostics(t *testing.T) {
	_, errOut := capture(t)
	src := "class A {\n    void m() {\n        int x = y + 1;\n    }\n}\n"
	path := writeSource(t, t.TempDir(), "A.java", src)

	be.Equal(t, run([]string{"check", path}), 1)
	be.True(t, strings.Contains(errOut.String(), "error[E0100]"))
	be.True(t, strings.Contains(errOut.String(), path+":3:"))
}

func TestCheckJSON(t *testing.T) {
	out, _ := capture(t)
	src := "class A {\n    void m() {\n        int x = y + 1;\n    }\n}\n"
	path := writeSource(t, t.TempDir(), "A.java", src)

	be.Equal(t, run([]string{"check", "-json", path}), 1)

	var diags []jsonDiagnostic
	be.Err(t, json.Unmarshal(out.Bytes(), &diags), nil)
	be.Equal(t, len(diags), 1)
	be.Equal(t, diags[0].Code, errors.E0100)
	be.Equal(t, diags[0].Level, "error")
	be.Equal(t, diags[0].Line, 3)
	be.Equal(t, diags[0].File, path)
}

func TestCheckJSONClean(t *testing.T) {
	out, _ := capture(t)
	path := writeSource(t, t.TempDir(), "Main.java", mainSource)

	be.Equal(t, run([]string{"check", "-json", path}), 0)
	be.Equal(t, strings.TrimSpace(out.String()), "[]")
}

func TestInitProject(t *testing.T) {
	capture(t)
	dir := t.TempDir()

	cfg, err := initProject(dir, "demo")
	be.Err(t, err, nil)
	be.Equal(t, cfg.Project.Name, "demo")

	loaded, err := config.Load(filepath.Join(dir, config.FileName))
	be.Err(t, err, nil)
	be.Equal(t, loaded.Project.Name, "demo")

	data, err := os.ReadFile(filepath.Join(dir, "src", "Main.java"))
	be.Err(t, err, nil)
	be.Equal(t, string(data), mainTemplate)

	// 再次初始化失败
	_, err = initProject(dir, "")
	be.Err(t, err, "already exists")
}

func TestBuild(t *testing.T) {
	_, errOut := capture(t)
	dir := t.TempDir()
	_, err := initProject(dir, "demo")
	be.Err(t, err, nil)
	writeSource(t, dir, filepath.Join("src", "geo", "Point.java"), "class Point {\n    int x;\n}\n")

	be.Equal(t, run([]string{"build", dir}), 0)
	be.True(t, strings.Contains(errOut.String(), "2 translated, 0 cached"))

	data, err := os.ReadFile(filepath.Join(dir, "out", "Main.py"))
	be.Err(t, err, nil)
	be.True(t, strings.Contains(string(data), "print(\"Hello, jpy!\")"))

	_, err = os.Stat(filepath.Join(dir, "out", "geo", "Point.py"))
	be.Err(t, err, nil)

	// 第二次构建全部命中缓存
	errOut.Reset()
	be.Equal(t, run([]string{"build", dir}), 0)
	be.True(t, strings.Contains(errOut.String(), "0 translated, 2 cached"))

	// -no-cache 重新翻译
	errOut.Reset()
	be.Equal(t, run([]string{"build", "-no-cache", dir}), 0)
	be.True(t, strings.Contains(errOut.String(), "2 translated, 0 cached"))
}

func TestBuildProjectFailures(t *testing.T) {
	capture(t)
	dir := t.TempDir()
	cfg := config.Default(dir)
	writeSource(t, dir, filepath.Join("src", "Good.java"), mainSource)
	writeSource(t, dir, filepath.Join("src", "Bad.java"), "class Bad {")
	writeSource(t, dir, filepath.Join("src", ".hidden", "Skip.java"), mainSource)

	c, err := cache.New(dir)
	be.Err(t, err, nil)

	res, err := buildProject(context.Background(), dir, cfg, c, translator.DefaultOptions())
	be.Err(t, err, nil)
	be.Equal(t, res.Translated, 1)
	be.Equal(t, res.Failed, 1)
	be.Equal(t, len(res.Files), 2)

	_, err = os.Stat(filepath.Join(dir, "out", "Good.py"))
	be.Err(t, err, nil)
	_, err = os.Stat(filepath.Join(dir, "out", "Bad.py"))
	be.True(t, os.IsNotExist(err))
	be.Equal(t, c.Stats().Entries, 1)
}

func TestBuildWithoutConfig(t *testing.T) {
	_, errOut := capture(t)
	be.Equal(t, run([]string{"build", t.TempDir()}), 1)
	be.True(t, strings.Contains(errOut.String(), "no jpy.toml found"))
}

func TestOutputPath(t *testing.T) {
	got := outputPath(filepath.Join("p", "src"), filepath.Join("p", "out"), filepath.Join("p", "src", "a", "B.java"))
	be.Equal(t, got, filepath.Join("p", "out", "a", "B.py"))
}

func TestUnknownCommand(t *testing.T) {
	_, errOut := capture(t)
	be.Equal(t, run([]string{"frobnicate"}), 1)
	be.True(t, strings.HasPrefix(errOut.String(), "Unknown command: frobnicate"))
}

func TestVersion(t *testing.T) {
	out, _ := capture(t)
	be.Equal(t, run([]string{"version"}), 0)
	be.True(t, strings.HasPrefix(out.String(), "jpy v"+translator.Version+"\n"))
}
