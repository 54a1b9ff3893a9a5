package app

import (
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/nbportfolio/site/internal/config"
	"github.com/nbportfolio/site/pkg/logger"
)

// SetupLogging applies the level and, when a file is configured, sends log
// lines to both stdout and a size-rotated file. The returned closer flushes
// the file.
func SetupLogging(cfg config.LogConfig) io.Closer {
	logger.Init(cfg.Level)
	if cfg.File == "" {
		return nopCloser{}
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    20, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, lj))
	return lj
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
