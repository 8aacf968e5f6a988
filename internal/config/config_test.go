package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
	"go.uber.org/multierr"
)

func TestDefault(t *testing.T) {
	cfg := Default("/home/me/My_Project")
	be.Equal(t, cfg.Project.Name, "my-project")
	be.Equal(t, cfg.Project.SourceDir, "src")
	be.Equal(t, cfg.Project.OutDir, "out")
	be.Equal(t, cfg.Translate.IndentSize, 4)
	be.True(t, cfg.Translate.Optimize)
	be.Err(t, cfg.Validate(), nil)

	be.Equal(t, Default("/").Project.Name, "my-app")
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg := Default(dir)
	cfg.Project.Name = "demo"
	cfg.Translate.Indent = "tabs"
	cfg.Translate.MainGuard = false
	cfg.Diagnostics.Lang = "zh"
	be.Err(t, cfg.Save(path), nil)

	loaded, err := Load(path)
	be.Err(t, err, nil)
	be.Equal(t, *loaded, *cfg)
}

func TestLoadKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := "[project]\nname = \"partial\"\n\n[translate]\nindent_size = 2\n"
	be.Err(t, os.WriteFile(path, []byte(content), 0644), nil)

	cfg, err := Load(path)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Project.Name, "partial")
	be.Equal(t, cfg.Project.SourceDir, "src")
	be.Equal(t, cfg.Translate.Indent, "spaces")
	be.Equal(t, cfg.Translate.IndentSize, 2)
	be.Equal(t, cfg.Diagnostics.Color, "auto")
	be.True(t, cfg.Diagnostics.Warnings)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	be.Err(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), FileName)
	be.Err(t, os.WriteFile(path, []byte("[project\nname = "), 0644), nil)
	_, err = Load(path)
	be.Err(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default("demo")
	cfg.Project.Version = "one"
	cfg.Project.OutDir = "src"
	cfg.Translate.IndentSize = 3
	cfg.Diagnostics.Lang = "fr"
	cfg.Diagnostics.Color = "sometimes"

	err := cfg.Validate()
	be.Err(t, err)
	be.Equal(t, len(multierr.Errors(err)), 5)
}

func TestIsValidVersion(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0.1.0", true},
		{"v1.2.3", true},
		{"1.0.0-beta.1+build.5", true},
		{"1.0", false},
		{"latest", false},
	}
	for _, tt := range tests {
		be.Equal(t, IsValidVersion(tt.in), tt.want)
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "pkg")
	be.Err(t, os.MkdirAll(nested, 0755), nil)
	be.Equal(t, Find(nested), "")

	be.Err(t, Default(root).Save(filepath.Join(root, FileName)), nil)
	file := filepath.Join(nested, "Main.java")
	be.Err(t, os.WriteFile(file, []byte("class Main {}"), 0644), nil)

	abs, err := filepath.Abs(root)
	be.Err(t, err, nil)
	be.Equal(t, Find(nested), filepath.Join(abs, FileName))
	be.Equal(t, Find(file), filepath.Join(abs, FileName))
	be.Equal(t, Root(file), abs)
	be.Equal(t, Find(filepath.Join(root, "nope")), "")
}

func TestPaths(t *testing.T) {
	cfg := Default("demo")
	be.Equal(t, cfg.SourcePath("/p"), filepath.Join("/p", "src"))
	cfg.Project.OutDir = "/tmp/out"
	be.Equal(t, cfg.OutPath("/p"), "/tmp/out")

	opts := cfg.EmitOptions()
	be.Equal(t, opts.IndentStyle, "spaces")
	be.True(t, opts.MainGuard)
}
