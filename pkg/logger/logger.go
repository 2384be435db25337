package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

type Logger struct {
	mu       sync.RWMutex
	verbose  bool
	getColor func() bool
	out      *log.Logger
}

var defaultLogger = &Logger{out: log.New(os.Stderr, "", 0)}

func SetVerbose(v bool) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.verbose = v
}

func IsVerbose() bool {
	defaultLogger.mu.RLock()
	defer defaultLogger.mu.RUnlock()
	return defaultLogger.verbose
}

func SetColorGetter(fn func() bool) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.getColor = fn
}

// SetOutput redirects log lines; nil restores stderr.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.out.SetOutput(w)
}

func formatTimestamp() string {
	return time.Now().Format("15:04:05")
}

func (l *Logger) isVerbose() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verbose
}

func (l *Logger) useColor() bool {
	l.mu.RLock()
	fn := l.getColor
	l.mu.RUnlock()
	if fn == nil {
		return false
	}
	return fn()
}

func (l *Logger) log(level string, levelVal LogLevel, msg string) {
	if levelVal <= INFO && !l.isVerbose() {
		return
	}
	ts := formatTimestamp()
	if l.useColor() {
		const darkGray = "\x1b[90m"
		const reset = "\x1b[0m"
		l.out.Printf("%s[%s] %s %s%s", darkGray, level, ts, msg, reset)
	} else {
		l.out.Printf("[%s] %s %s", level, ts, msg)
	}
}

func (l *Logger) Debug(msg string) {
	l.log("DBUG", DEBUG, msg)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log("DBUG", DEBUG, fmt.Sprintf(format, args...))
}

func (l *Logger) Info(msg string) {
	l.log("INFO", INFO, msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log("INFO", INFO, fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(msg string) {
	l.log("WARN", WARN, msg)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log("WARN", WARN, fmt.Sprintf(format, args...))
}

func (l *Logger) Error(msg string) {
	l.log("ERRO", ERROR, msg)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log("ERRO", ERROR, fmt.Sprintf(format, args...))
}

func Debug(msg string) {
	defaultLogger.Debug(msg)
}

func Debugf(format string, args ...interface{}) {
	defaultLogger.Debugf(format, args...)
}

func Info(msg string) {
	defaultLogger.Info(msg)
}

func Infof(format string, args ...interface{}) {
	defaultLogger.Infof(format, args...)
}

func Warn(msg string) {
	defaultLogger.Warn(msg)
}

func Warnf(format string, args ...interface{}) {
	defaultLogger.Warnf(format, args...)
}

func Error(msg string) {
	defaultLogger.Error(msg)
}

func Errorf(format string, args ...interface{}) {
	defaultLogger.Errorf(format, args...)
}
