package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"justdo/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the process logger from cfg.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	ws, err := writeSyncer(cfg)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(encoder(cfg.Format), ws, ParseLevel(cfg.Level))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func encoder(format string) zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if strings.EqualFold(format, "console") {
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

// writeSyncer: "stdout" (default), "stderr", or a file path rotated by lumberjack.
func writeSyncer(cfg config.LogConfig) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(cfg.Output) {
	case "stdout", "":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename: cfg.Output,
		MaxSize:  cfg.MaxSizeMB,
		MaxAge:   cfg.MaxAgeDays,
		Compress: true,
	}), nil
}

func ParseLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
