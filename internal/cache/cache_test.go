package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

const (
	source = "class A { }"
	code   = "from __future__ import annotations\n\n\nclass A:\n    pass\n"
	fp     = "indent=spaces/4"
)

func TestGetPut(t *testing.T) {
	c, err := New(t.TempDir())
	be.Err(t, err, nil)

	_, ok := c.Get("A.java", source, fp)
	be.True(t, !ok)

	be.Err(t, c.Put("A.java", source, fp, code), nil)
	got, ok := c.Get("A.java", source, fp)
	be.True(t, ok)
	be.Equal(t, got, code)

	stats := c.Stats()
	be.Equal(t, stats.Entries, 1)
	be.Equal(t, stats.TotalSize, int64(len(code)))
}

func TestChangesMiss(t *testing.T) {
	c, err := New(t.TempDir())
	be.Err(t, err, nil)
	be.Err(t, c.Put("A.java", source, fp, code), nil)

	_, ok := c.Get("A.java", source, "indent=tabs/4")
	be.True(t, !ok)
	// 未命中时旧条目被移除
	be.Equal(t, c.Stats().Entries, 0)

	be.Err(t, c.Put("A.java", source, fp, code), nil)
	_, ok = c.Get("A.java", "class A { int x; }", fp)
	be.True(t, !ok)
}

func TestReplaceEntry(t *testing.T) {
	c, err := New(t.TempDir())
	be.Err(t, err, nil)
	be.Err(t, c.Put("A.java", source, fp, code), nil)
	be.Err(t, c.Put("A.java", "class A { int x; }", fp, "x"), nil)

	be.Equal(t, c.Stats().Entries, 1)
	be.Equal(t, c.Stats().TotalSize, int64(1))

	files, err := filepath.Glob(filepath.Join(c.Dir(), "*"+codeExt))
	be.Err(t, err, nil)
	be.Equal(t, len(files), 1)
}

func TestPersist(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	be.Err(t, err, nil)
	be.Err(t, c.Put("A.java", source, fp, code), nil)
	be.Err(t, c.Flush(), nil)

	reopened, err := New(dir)
	be.Err(t, err, nil)
	got, ok := reopened.Get("A.java", source, fp)
	be.True(t, ok)
	be.Equal(t, got, code)
}

func TestVersionMismatchClears(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	be.Err(t, err, nil)
	be.Err(t, c.Put("A.java", source, fp, code), nil)
	c.index.Version = "0"
	be.Err(t, c.Flush(), nil)

	reopened, err := New(dir)
	be.Err(t, err, nil)
	be.Equal(t, reopened.Stats().Entries, 0)
	files, _ := filepath.Glob(filepath.Join(reopened.Dir(), "*"+codeExt))
	be.Equal(t, len(files), 0)
}

func TestCorruptIndex(t *testing.T) {
	dir := t.TempDir()
	be.Err(t, os.MkdirAll(filepath.Join(dir, DefaultDir), 0755), nil)
	be.Err(t, os.WriteFile(filepath.Join(dir, DefaultDir, indexFile), []byte("{not json"), 0644), nil)

	c, err := New(dir)
	be.Err(t, err, nil)
	be.Equal(t, c.Stats().Entries, 0)
}

func TestDisabled(t *testing.T) {
	c, err := New(t.TempDir())
	be.Err(t, err, nil)
	c.SetEnabled(false)
	be.True(t, !c.Enabled())

	be.Err(t, c.Put("A.java", source, fp, code), nil)
	_, ok := c.Get("A.java", source, fp)
	be.True(t, !ok)
	be.Equal(t, c.Stats().Entries, 0)
}

func TestInvalidateAndClear(t *testing.T) {
	c, err := New(t.TempDir())
	be.Err(t, err, nil)
	be.Err(t, c.Put("A.java", source, fp, code), nil)
	be.Err(t, c.Put("B.java", "class B { }", fp, code), nil)

	c.Invalidate("A.java")
	be.Equal(t, c.Stats().Entries, 1)

	be.Err(t, c.Clear(), nil)
	be.Equal(t, c.Stats().Entries, 0)
	be.Equal(t, c.Stats().TotalSize, int64(0))
}

func TestKey(t *testing.T) {
	be.Equal(t, len(Key(source, fp)), 64)
	be.Equal(t, Key(source, fp), Key(source, fp))
	be.True(t, Key(source, fp) != Key(source, "other"))
	// 分隔符避免拼接歧义
	be.True(t, Key("bc", "a") != Key("c", "ab"))
}
