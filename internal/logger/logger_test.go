package logger_test

import (
	"log/slog"
	"testing"

	"github.com/ITKKhan/HorrorWatchBot/internal/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := logger.ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSetLevel(t *testing.T) {
	log := logger.New()
	if log.GetLevel() != slog.LevelInfo {
		t.Errorf("expected default level info, got %v", log.GetLevel())
	}

	log.SetLevel(slog.LevelDebug)
	if log.GetLevel() != slog.LevelDebug {
		t.Errorf("expected debug after SetLevel, got %v", log.GetLevel())
	}
}

func TestTrafficLoggingToggle(t *testing.T) {
	log := logger.New()
	if log.IsTrafficLoggingEnabled() {
		t.Error("expected traffic logging off by default")
	}

	log.EnableTrafficLogging()
	if !log.IsTrafficLoggingEnabled() {
		t.Error("expected traffic logging on after enable")
	}

	log.DisableTrafficLogging()
	if log.IsTrafficLoggingEnabled() {
		t.Error("expected traffic logging off after disable")
	}
}
