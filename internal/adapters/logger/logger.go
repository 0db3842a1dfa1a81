package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"go.trai.ch/cinder/internal/core/ports"
)

// messager describes an error that can report its own message without the
// chain. Matches the Message() method of zerr.Error (go.trai.ch/zerr
// v0.3.0+); other errors fall back to Error().
type messager interface {
	Message() string
}

// metadataer matches the Metadata accessor of zerr.Error. Fields attached
// with zerr.With are invisible in Error() output, so the formatter renders
// them itself.
type metadataer interface {
	Metadata() map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a Logger writing pretty output to stderr.
func New() ports.Logger {
	l := &Logger{output: os.Stderr}
	l.logger = slog.New(l.newHandler())
	return l
}

// SetOutput redirects the logger to w. A nil writer resets to stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(l.newHandler())
}

// SetJSON switches between JSON and pretty output. The output destination
// is preserved.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.logger = slog.New(l.newHandler())
}

// newHandler builds a handler for the current mode and output.
// Callers must hold the write lock.
func (l *Logger) newHandler() slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		return slog.NewJSONHandler(l.output, opts)
	}
	return NewPrettyHandler(l.output, opts)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error with its cause chain rendered hierarchically.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		args := []any{"error", err.Error()}
		if meta := chainMetadata(err); len(meta) > 0 {
			args = append(args, "details", meta)
		}
		l.logger.Error("operation failed", args...)
		return
	}

	// Walk the chain collecting one message per link, with any attached
	// metadata rendered alongside its link.
	var messages []string
	current := err

	for current != nil {
		if m, ok := current.(messager); ok {
			messages = append(messages, m.Message()+formatMetadata(current))
			current = errors.Unwrap(current)
		} else {
			messages = append(messages, current.Error())
			break
		}
	}

	var formattedLines []string
	for i, msg := range messages {
		lines := strings.Split(msg, "\n")

		if i == 0 {
			formattedLines = append(formattedLines, "Error: "+lines[0])
			for _, line := range lines[1:] {
				formattedLines = append(formattedLines, "       "+line)
			}
			continue
		}

		if i == 1 {
			formattedLines = append(formattedLines, "", "  Caused by:")
		}
		formattedLines = append(formattedLines, "    → "+lines[0])
		for _, line := range lines[1:] {
			formattedLines = append(formattedLines, "      "+line)
		}
	}

	l.logger.Error(strings.Join(formattedLines, "\n"))
}

// formatMetadata renders one chain link's metadata as " (key=value ...)"
// with keys sorted, or an empty string when the link carries none.
func formatMetadata(err error) string {
	m, ok := err.(metadataer)
	if !ok {
		return ""
	}
	meta := m.Metadata()
	if len(meta) == 0 {
		return ""
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, meta[k]))
	}
	return " (" + strings.Join(pairs, " ") + ")"
}

// chainMetadata merges the metadata of every link in the chain, outermost
// link winning on key collisions.
func chainMetadata(err error) map[string]any {
	merged := make(map[string]any)
	for current := err; current != nil; current = errors.Unwrap(current) {
		m, ok := current.(metadataer)
		if !ok {
			continue
		}
		for k, v := range m.Metadata() {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
	}
	return merged
}
