package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestSetupLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	log := Setup()
	if log.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info enabled at warn level")
	}
	if !log.Enabled(context.Background(), slog.LevelError) {
		t.Error("error disabled at warn level")
	}
}

func TestLReturnsConfiguredLogger(t *testing.T) {
	log := Setup()
	if got := L(); got != log {
		t.Error("L() does not return the logger from Setup()")
	}
}

func TestLInitializesWhenUnset(t *testing.T) {
	defaultLogger = nil
	if L() == nil {
		t.Fatal("L() = nil before Setup()")
	}
}
