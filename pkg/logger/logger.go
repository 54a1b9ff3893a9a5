package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Leveled logger shared by the API server and the admin CLI.
// Init(level) picks the threshold, SetOutput redirects every line
// (the server points it at a rotating file when LOG_FILE is set).

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu     sync.RWMutex
	logger *log.Logger = log.New(os.Stdout, "", 0)
	level  Level       = LevelInfo
)

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Unknown values fall back to info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(l)
}

// ParseLevel maps a level name to a Level.
func ParseLevel(l string) Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// SetOutput replaces the destination of all log lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, "", 0)
}

func header(lvl string) string {
	return fmt.Sprintf("%s [%s] ", time.Now().Format(time.RFC3339), strings.ToUpper(lvl))
}

func emit(l Level, name, format string, v ...interface{}) {
	mu.RLock()
	out, min := logger, level
	mu.RUnlock()
	if l < min {
		return
	}
	out.Printf(header(name)+format, v...)
}

func Debugf(format string, v ...interface{}) { emit(LevelDebug, "debug", format, v...) }
func Infof(format string, v ...interface{})  { emit(LevelInfo, "info", format, v...) }
func Warnf(format string, v ...interface{})  { emit(LevelWarn, "warn", format, v...) }
func Errorf(format string, v ...interface{}) { emit(LevelError, "error", format, v...) }

func Fatalf(format string, v ...interface{}) {
	emit(LevelFatal, "fatal", format, v...)
	os.Exit(1)
}

func Info(v string) { Infof("%s", v) }
func Warn(v string) { Warnf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}
