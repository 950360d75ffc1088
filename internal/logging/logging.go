// ABOUTME: Process-wide leveled logger writing to a size-rotated file.
// ABOUTME: Before InitLogger only warnings and errors reach stderr.

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jrick/logrotate/rotator"
)

// Level is a log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	default:
		return "ERR"
	}
}

const (
	logFileName = "audiocycle.log"
	// rotate at 1 MiB, keep 5 old files
	rotateThresholdKB = 1024
	maxRolls          = 5
)

// Logger writes formatted lines to a file and optionally mirrors problems to the console
type Logger struct {
	mu       sync.Mutex
	file     io.WriteCloser
	console  io.Writer
	minLevel Level
	prefix   string
}

var (
	globalMu sync.Mutex
	global   = &Logger{console: os.Stderr, minLevel: LevelWarn}
)

// InitLogger opens <dir>/logs/audiocycle.log and makes it the global log destination
func InitLogger(dir string) (*Logger, error) {
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	r, err := rotator.New(filepath.Join(logDir, logFileName), rotateThresholdKB, false, maxRolls)
	if err != nil {
		return nil, fmt.Errorf("failed to create file rotator: %w", err)
	}

	l := &Logger{
		file:     r,
		console:  os.Stderr,
		minLevel: LevelInfo,
	}

	globalMu.Lock()
	old := global
	global = l
	globalMu.Unlock()

	old.closeFile()
	return l, nil
}

// New creates a logger writing every line at or above minLevel to w
func New(w io.Writer, minLevel Level) *Logger {
	return &Logger{file: nopCloser{w}, minLevel: minLevel}
}

// SetGlobal replaces the global logger and returns the previous one
func SetGlobal(l *Logger) *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	old := global
	global = l
	return old
}

func current() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	return global
}

// Close flushes and closes the global log file
func Close() {
	current().closeFile()
}

// SetPrefix sets a prefix added to every subsequent line
func SetPrefix(prefix string) {
	l := current()
	l.mu.Lock()
	l.prefix = prefix
	l.mu.Unlock()
}

// SetDebug enables or disables debug output on the global logger
func SetDebug(enabled bool) {
	l := current()
	l.mu.Lock()
	if enabled {
		l.minLevel = LevelDebug
	} else if l.file != nil {
		l.minLevel = LevelInfo
	} else {
		l.minLevel = LevelWarn
	}
	l.mu.Unlock()
}

// SetConsole sets where warnings and errors are mirrored; nil disables mirroring
func SetConsole(w io.Writer) {
	l := current()
	l.mu.Lock()
	l.console = w
	l.mu.Unlock()
}

func Debug(format string, args ...interface{}) { current().log(LevelDebug, format, args...) }
func Info(format string, args ...interface{})  { current().log(LevelInfo, format, args...) }
func Warn(format string, args ...interface{})  { current().log(LevelWarn, format, args...) }
func Error(format string, args ...interface{}) { current().log(LevelError, format, args...) }

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.minLevel {
		return
	}

	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("%s [%s] ", time.Now().Format("2006-01-02 15:04:05.000"), level)
	if l.prefix != "" {
		line += "[" + l.prefix + "] "
	}
	line += msg + "\n"

	if l.file != nil {
		_, _ = io.WriteString(l.file, line)
	}
	if l.console != nil && level >= LevelWarn {
		_, _ = io.WriteString(l.console, line)
	}
}

func (l *Logger) closeFile() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
