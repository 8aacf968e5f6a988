// Package translator 把各阶段串成完整的翻译流水线
//
//	源代码 → parser → checker → optimizer → emitter → Python 源代码
//
// 检查器的诊断只是附带输出，不会中断流水线；语法错误与不支持的结构是致命的。
package translator

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tangzhangming/jpy/internal/ast"
	"github.com/tangzhangming/jpy/internal/checker"
	"github.com/tangzhangming/jpy/internal/emitter"
	"github.com/tangzhangming/jpy/internal/optimizer"
	"github.com/tangzhangming/jpy/internal/parser"
)

// Version 翻译器版本
const Version = "0.1.0"

// Options 翻译选项
type Options struct {
	Emit     *emitter.Options
	Optimize bool        // 是否运行优化器
	Workers  int         // 批量翻译的并发数，<= 0 时取 CPU 数
	Logger   *zap.Logger // nil 时不输出日志
}

// DefaultOptions 返回默认选项
func DefaultOptions() Options {
	return Options{
		Emit:     emitter.DefaultOptions(),
		Optimize: true,
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Fingerprint 返回影响生成结果的选项摘要，用作缓存键的一部分
func (o Options) Fingerprint() string {
	e := o.Emit
	if e == nil {
		e = emitter.DefaultOptions()
	}
	return fmt.Sprintf("jpy=%s indent=%s/%d main=%t opt=%t", Version, e.IndentStyle, e.IndentSize, e.MainGuard, o.Optimize)
}

// Result 一次翻译的结果
type Result struct {
	Code        string               // 生成的 Python 源代码
	Diagnostics []checker.Diagnostic // 检查器诊断（可能含错误，但不影响生成）
	File        *ast.File            // 优化后的语法树
	Rewrites    int                  // 优化器改写次数
}

// HasErrors 诊断中是否有错误级别的条目
func (r *Result) HasErrors() bool {
	return r != nil && checker.HasErrors(r.Diagnostics)
}

// Translate 翻译单个源文件
//
// 语法错误时返回 nil 结果；生成失败时仍返回带诊断和语法树的结果，Code 为空。
func Translate(src, filename string, opts Options) (*Result, error) {
	log := opts.logger().With(zap.String("file", filename))

	start := time.Now()
	file, err := parser.ParseSource(src, filename)
	if err != nil {
		log.Debug("parse failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, err
	}
	log.Debug("parsed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("declarations", len(file.Declarations)))

	res := &Result{File: file}

	start = time.Now()
	res.Diagnostics = checker.Check(file)
	log.Debug("checked",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("diagnostics", len(res.Diagnostics)))

	if opts.Optimize {
		start = time.Now()
		res.Rewrites = optimizer.Optimize(file)
		log.Debug("optimized",
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("rewrites", res.Rewrites))
	}

	start = time.Now()
	code, err := emitter.Emit(file, opts.Emit)
	if err != nil {
		log.Debug("emit failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return res, err
	}
	res.Code = code
	log.Debug("emitted",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(code)))

	return res, nil
}
