package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var logLevelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// initLogging routes structured logs to a file in the XDG cache dir.
// The terminal is owned by the TUI, so nothing is ever written to
// stdout or stderr.
func initLogging(logLevel string) error {
	level, ok := logLevelMap[strings.ToLower(logLevel)]
	if !ok {
		level = slog.LevelWarn
	}

	logDir := cacheDir()
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "rdm.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

func cacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "rdm")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rdm-cache"
	}
	return filepath.Join(home, ".cache", "rdm")
}
