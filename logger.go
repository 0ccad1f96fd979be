package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger is a no-op until initLogger is called, so library use of Process stays quiet.
var logger = zap.NewNop().Sugar()

// initLogger sets up human-readable console output on stderr.
func initLogger(verbose bool) {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	encoderCfg.CallerKey = ""
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	logger = zap.New(core).Sugar()
}

// setLogger replaces the package logger, returning a function that restores it.
func setLogger(l *zap.SugaredLogger) (restore func()) {
	prev := logger
	logger = l
	return func() { logger = prev }
}
