package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/hearthlabs/hearth-panel/internal/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNew(t *testing.T) {
	logger := New(config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"}, "1.0.0")
	if logger == nil || logger.Logger == nil {
		t.Fatal("New returned a nil logger")
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be enabled")
	}
}

func TestWith(t *testing.T) {
	base := Default()
	child := base.With("component", "statefeed")
	if child == nil || child.Logger == nil {
		t.Fatal("With returned a nil logger")
	}
	if child == base {
		t.Error("With should return a new logger")
	}
}

func TestDefault(t *testing.T) {
	logger := Default()
	if logger == nil {
		t.Fatal("Default returned nil")
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("default logger should filter debug")
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("default logger should pass info")
	}
}
