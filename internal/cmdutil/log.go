// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger writes leveled lines to the console and, once attached, to a run
// log file. It is safe for concurrent use.
type Logger struct {
	quiet   bool
	console *log.Logger

	mu   sync.Mutex
	file *log.Logger
	fh   io.Closer
}

func NewLogger(dst io.Writer, quiet bool) *Logger {
	return &Logger{quiet: quiet, console: log.New(dst, "", log.LstdFlags)}
}

// Attach appends every following line to path until the returned release
// func is called.
func (l *Logger) Attach(path string) (release func() error, err error) {
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.file, l.fh = log.New(fh, "", log.LstdFlags), fh
	l.mu.Unlock()
	return func() error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.fh == nil {
			return nil
		}
		err := l.fh.Close()
		l.file, l.fh = nil, nil
		return err
	}, nil
}

func (l *Logger) Infof(format string, a ...any)  { l.emit("INFO", !l.quiet, format, a...) }
func (l *Logger) Warnf(format string, a ...any)  { l.emit("WARN", true, format, a...) }
func (l *Logger) Errorf(format string, a ...any) { l.emit("ERROR", true, format, a...) }

func (l *Logger) emit(level string, console bool, format string, a ...any) {
	msg := fmt.Sprintf("[%s] - %s", level, fmt.Sprintf(format, a...))
	if console {
		l.console.Println(msg)
	}
	l.mu.Lock()
	if l.file != nil {
		l.file.Println(msg)
	}
	l.mu.Unlock()
}

// Discard is a Logger that drops everything; handy in tests.
func Discard() *Logger { return NewLogger(io.Discard, true) }
