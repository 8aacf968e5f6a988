package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tangzhangming/jpy/internal/errors"
)

// newLogger 创建输出到标准错误的控制台日志，verbose 时为 debug 级别，否则只输出警告以上
func newLogger(verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	if errors.ColorsEnabled() {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(stderr),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core)
}
