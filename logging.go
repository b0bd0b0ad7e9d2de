package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// newLogger writes to stderr, since stdout carries the protocol. A terminal
// gets human-readable text, anything else gets JSON lines.
func newLogger(level string) *slog.Logger {
	return newLoggerTo(os.Stderr, level, term.IsTerminal(int(os.Stderr.Fd())))
}

func newLoggerTo(w io.Writer, level string, text bool) *slog.Logger {
	lvl, err := parseLogLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	options := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if text {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}
