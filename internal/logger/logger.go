// Package logger provides leveled logging on top of the standard log package.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level represents a logging level.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ParseLevel maps a level name to a Level, defaulting to InfoLevel.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger provides leveled logging.
type Logger struct {
	level  Level
	logger *log.Logger
}

var defaultLogger atomic.Pointer[Logger]

// Init installs the default logger writing to w (stderr when nil).
func Init(level string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	defaultLogger.Store(&Logger{
		level:  ParseLevel(level),
		logger: log.New(w, "", log.LstdFlags|log.Lmicroseconds),
	})
}

// Discard silences all logging until the next Init.
func Discard() {
	defaultLogger.Store(nil)
}

func output(l Level, tag, format string, args ...interface{}) {
	lg := defaultLogger.Load()
	if lg == nil || lg.level > l {
		return
	}
	_ = lg.logger.Output(3, fmt.Sprintf("["+tag+"] "+format, args...))
}

func Debug(format string, args ...interface{}) { output(DebugLevel, "DEBUG", format, args...) }
func Info(format string, args ...interface{})  { output(InfoLevel, "INFO", format, args...) }
func Warn(format string, args ...interface{})  { output(WarnLevel, "WARN", format, args...) }
func Error(format string, args ...interface{}) { output(ErrorLevel, "ERROR", format, args...) }

// Fatal logs regardless of level and exits.
func Fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf("[FATAL] "+format, args...)
	if lg := defaultLogger.Load(); lg != nil {
		_ = lg.logger.Output(2, msg)
	} else {
		log.Print(msg)
	}
	os.Exit(1)
}
