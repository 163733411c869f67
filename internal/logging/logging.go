// Package logging builds the zap logger used by the CLI.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"qcirc/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a console logger. With cfg.File set it writes to a rotating file, otherwise to
// stderr. Debug lowers the level to debug and switches to the development encoder.
func New(cfg config.Log) (*zap.Logger, io.Closer, error) {
	encCfg := zap.NewProductionEncoderConfig()
	level := zap.InfoLevel
	if cfg.Debug {
		encCfg = zap.NewDevelopmentEncoderConfig()
		level = zap.DebugLevel
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	enc := zapcore.NewConsoleEncoder(encCfg)

	if cfg.File == "" {
		core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
		return zap.New(core), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, err
	}
	rot := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB, // megabytes per file before rotation
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(rot), level)
	return zap.New(core, zap.AddCaller()), rot, nil
}
