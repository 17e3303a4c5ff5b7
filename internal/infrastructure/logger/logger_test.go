package logger

import (
	"errors"
	"testing"

	"github.com/savingsboard/core/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggerConfig{Level: "loud", Format: "json"})
	if err == nil {
		t.Fatal("New accepted an unknown level")
	}
}

func TestNewBuildsBothFormats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := New(config.LoggerConfig{Level: "debug", Format: format, Output: "stderr"})
		if err != nil {
			t.Fatalf("New(%s): %v", format, err)
		}
		l.Debugw("built", "format", format)
	}
}

func TestLogStorageError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core))

	l.LogStorageError("save", "board", errors.New("disk full"))

	entries := logs.FilterMessage("Storage operation failed").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["operation"] != "save" || fields["key"] != "board" || fields["error"] != "disk full" {
		t.Errorf("fields = %v", fields)
	}
	if entries[0].Level != zap.WarnLevel {
		t.Errorf("level = %v, want warn", entries[0].Level)
	}
}

func TestWithComponent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := FromZap(zap.New(core)).WithComponent("board")

	l.LogBoardAction("toggle", map[string]interface{}{"value": 5})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "board" || fields["action"] != "toggle" {
		t.Errorf("fields = %v", fields)
	}
	if fields["value"] != int64(5) {
		t.Errorf("value field = %#v", fields["value"])
	}
}
