package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewNormalizesLevelStrings(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		enabled  slog.Level
		disabled slog.Level
	}{
		{"lowercase debug", "debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"uppercase warn", "WARN", slog.LevelWarn, slog.LevelInfo},
		{"padded error", "  error ", slog.LevelError, slog.LevelWarn},
		{"empty falls back to info", "", slog.LevelInfo, slog.LevelDebug},
		{"garbage falls back to info", "verbose", slog.LevelInfo, slog.LevelDebug},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level)
			if !logger.Enabled(ctx, tt.enabled) {
				t.Fatalf("New(%q): expected level %s enabled", tt.level, tt.enabled)
			}
			if logger.Enabled(ctx, tt.disabled) {
				t.Fatalf("New(%q): expected level %s disabled", tt.level, tt.disabled)
			}
		})
	}
}

func TestDefaultLogsAtInfo(t *testing.T) {
	logger := Default()
	if logger.Logger == nil {
		t.Fatal("Default() returned a wrapper without an slog.Logger")
	}

	ctx := context.Background()
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("Default() should enable info")
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("Default() should not enable debug")
	}

	// Structured calls pass through the embedded slog.Logger.
	logger.Info("lead accepted", "lead_id", "lead_1_00000000")
}
