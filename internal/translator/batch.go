package translator

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ============================================================================
// 批量翻译
// ============================================================================

// FileResult 批量翻译中单个文件的结果
type FileResult struct {
	Path   string
	Source string
	*Result
	Err error // 读取或翻译失败
}

// Stats 批量翻译统计
type Stats struct {
	Translated int // 成功翻译的文件数
	Failed     int // 失败的文件数
	Skipped    int // 因取消而未处理的文件数
}

// TranslateFiles 并发翻译多个互不依赖的文件
//
// 结果按 paths 的顺序返回。每个失败的文件都计入返回的组合错误（multierr），
// 同时记录在对应 FileResult.Err 中。ctx 取消后尚未开始的文件不再处理，
// 对应结果为 nil，组合错误中包含 ctx.Err()。
func TranslateFiles(ctx context.Context, paths []string, opts Options) ([]*FileResult, Stats, error) {
	log := opts.logger()
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]*FileResult, len(paths))
	var translated, failed, skipped atomic.Int64

	jobs := make(chan int)
	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					skipped.Inc()
					continue
				}
				fr := translateFile(paths[i], opts)
				if fr.Err != nil {
					failed.Inc()
				} else {
					translated.Inc()
				}
				results[i] = fr
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var err error
	for _, fr := range results {
		if fr != nil && fr.Err != nil {
			err = multierr.Append(err, fr.Err)
		}
	}
	if ctx.Err() != nil && skipped.Load() > 0 {
		err = multierr.Append(err, ctx.Err())
	}

	stats := Stats{
		Translated: int(translated.Load()),
		Failed:     int(failed.Load()),
		Skipped:    int(skipped.Load()),
	}
	log.Debug("batch finished",
		zap.Int("files", len(paths)),
		zap.Int("workers", workers),
		zap.Int("translated", stats.Translated),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("elapsed", time.Since(start)))

	return results, stats, err
}

func translateFile(path string, opts Options) *FileResult {
	fr := &FileResult{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		fr.Err = fmt.Errorf("read %s: %w", path, err)
		return fr
	}
	fr.Source = string(data)
	fr.Result, fr.Err = Translate(fr.Source, path, opts)
	return fr
}
