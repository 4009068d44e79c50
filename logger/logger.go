package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Logger is a leveled Printf-style logger scoped to one module.
// The level funcs are never nil; silenced levels discard.
type Logger struct {
	module string
	out    io.Writer
	level  int

	Debugf   func(format string, args ...any)
	Infof    func(format string, args ...any)
	Warningf func(format string, args ...any)
	Errorf   func(format string, args ...any)
}

const (
	LevelSilent = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
)

var (
	mu           sync.RWMutex
	defaultLevel = LevelInfo
	defaultOut   io.Writer = os.Stdout
)

// ParseLevel maps a LOG_LEVEL value to a level. Unknown values mean info.
func ParseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent", "off", "none":
		return LevelSilent
	case "debug", "verbose":
		return LevelDebug
	case "warn", "warning":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SetDefault changes the level and writer used by loggers created afterwards.
func SetDefault(level string, out io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	defaultLevel = ParseLevel(level)
	if out != nil {
		defaultOut = out
	}
}

// New returns a logger for module using the process defaults.
func New(module string) *Logger {
	mu.RLock()
	level, out := defaultLevel, defaultOut
	mu.RUnlock()
	return NewLogger(level, module, out)
}

// NewLogger builds a logger writing to out at level and above.
func NewLogger(level int, module string, out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	l := &Logger{module: module, out: out}
	return l.set(level)
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return NewLogger(LevelSilent, "", io.Discard)
}

// With returns a child logger with the same writer and level.
func (l *Logger) With(module string) *Logger {
	name := module
	if l.module != "" {
		name = l.module + "/" + module
	}
	child := &Logger{module: name, out: l.out}
	return child.set(l.level)
}

func (l *Logger) SetLevel(level string) *Logger {
	return l.set(ParseLevel(level))
}

func discard(string, ...any) {}

func (l *Logger) logf(prefix string) func(string, ...any) {
	return log.New(l.out, fmt.Sprintf("[%s] %s: ", l.module, prefix), log.Ldate|log.Ltime|log.Lshortfile).Printf
}

func (l *Logger) set(level int) *Logger {
	l.level = level
	l.Debugf, l.Infof, l.Warningf, l.Errorf = discard, discard, discard, discard
	switch level {
	case LevelDebug:
		l.Debugf = l.logf("DEBUG")
		fallthrough
	case LevelInfo:
		l.Infof = l.logf("INFO")
		fallthrough
	case LevelWarning:
		l.Warningf = l.logf("WARNING")
		fallthrough
	case LevelError:
		l.Errorf = l.logf("ERROR")
	}
	return l
}
