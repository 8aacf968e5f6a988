package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/tangzhangming/jpy/internal/cache"
	"github.com/tangzhangming/jpy/internal/config"
	"github.com/tangzhangming/jpy/internal/translator"
)

const (
	sourceExt = ".java"
	outputExt = ".py"
)

// buildResult 项目构建结果
type buildResult struct {
	Files      []*translator.FileResult // 缓存未命中、实际翻译的文件
	Translated int
	Cached     int
	Failed     int
}

// buildProject 把源目录下的 .java 文件翻译到输出目录，目录结构保持不变
//
// 内容和选项都没有变化的文件直接使用缓存。单个文件失败不会中止构建，
// 失败记录在 Files 中；返回的错误只表示 I/O 失败或构建被取消。
func buildProject(ctx context.Context, root string, cfg *config.Config, c *cache.Cache, opts translator.Options) (*buildResult, error) {
	srcDir := cfg.SourcePath(root)
	outDir := cfg.OutPath(root)
	log := opts.Logger

	sources, err := findSources(srcDir)
	if err != nil {
		return nil, err
	}

	fingerprint := opts.Fingerprint()
	result := &buildResult{}
	var pending []string

	for _, path := range sources {
		data, err := os.ReadFile(path)
		if err != nil {
			// 读取错误由批量翻译统一报告
			pending = append(pending, path)
			continue
		}
		code, ok := c.Get(path, string(data), fingerprint)
		if !ok {
			pending = append(pending, path)
			continue
		}
		if err := writeFile(outputPath(srcDir, outDir, path), code); err != nil {
			return result, err
		}
		result.Cached++
	}
	if log != nil {
		log.Sugar().Debugf("build: %d sources, %d cached", len(sources), result.Cached)
	}

	files, stats, _ := translator.TranslateFiles(ctx, pending, opts)
	result.Files = files
	result.Translated = stats.Translated
	result.Failed = stats.Failed

	var errs error
	for _, fr := range files {
		if fr == nil || fr.Err != nil {
			continue
		}
		if err := writeFile(outputPath(srcDir, outDir, fr.Path), fr.Code); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		errs = multierr.Append(errs, c.Put(fr.Path, fr.Source, fingerprint, fr.Code))
	}
	errs = multierr.Append(errs, c.Flush())
	errs = multierr.Append(errs, ctx.Err())
	return result, errs
}

// findSources 返回目录下所有 .java 文件，跳过隐藏目录
func findSources(dir string) ([]string, error) {
	var sources []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), sourceExt) {
			sources = append(sources, path)
		}
		return nil
	})
	return sources, err
}

// outputPath 源文件对应的输出路径
func outputPath(srcDir, outDir, path string) string {
	rel, err := filepath.Rel(srcDir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.Join(outDir, strings.TrimSuffix(rel, sourceExt)+outputExt)
}
