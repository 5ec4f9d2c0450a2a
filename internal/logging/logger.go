// Package logging provides the leveled, optionally colored logger shared by
// every stage, with an optional append-only file sink and an in-place
// progress line.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/backmassage/autotranscode/internal/config"
	"github.com/backmassage/autotranscode/internal/term"
)

// Logger provides leveled, optionally colored logging with optional file sink.
// All methods are goroutine-safe; workers log concurrently.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	file     *os.File
	filePath string
	midLine  bool // a progress line is on screen without a trailing newline
}

// NewLogger configures terminal colors from cfg and optionally opens the log
// file. Call Close() when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	l := &Logger{out: os.Stdout, errOut: os.Stderr}
	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		l.filePath = cfg.LogFile
	}
	return l, nil
}

// Close closes the log file if one was opened and terminates a pending
// progress line.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.endProgressLocked()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Clean replaces invalid UTF-8 sequences with U+FFFD so that odd bytes in
// file names or tool output never corrupt the terminal or the log file.
func Clean(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

func (l *Logger) line(level, color, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	text = Clean(text)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.endProgressLocked()
	plain := ts + " [" + level + "] " + text + "\n"
	out := l.out
	if level == "ERROR" {
		out = l.errOut
	}
	if color != "" {
		_, _ = io.WriteString(out, ts+" "+color+"["+level+"]"+term.NC+" "+text+"\n")
	} else {
		_, _ = io.WriteString(out, plain)
	}
	if l.file != nil {
		_, _ = io.WriteString(l.file, plain)
	}
}

// endProgressLocked moves past an on-screen progress line. Caller holds mu.
func (l *Logger) endProgressLocked() {
	if l.midLine {
		_, _ = io.WriteString(l.out, "\n")
		l.midLine = false
	}
}

// Progress overwrites the current terminal line with text. The next log line
// starts on a fresh line. Progress lines are never written to the log file.
func (l *Logger) Progress(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, "\r"+Clean(text))
	l.midLine = true
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", term.Blue, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", term.Green, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", term.Yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", term.Red, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose; no-op otherwise.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.line("DEBUG", term.Cyan, fmt.Sprintf(format, args...))
}
