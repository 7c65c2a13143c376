package handler

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})).
		With("module", "storage", "component", "json_store")

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Info("document saved", "tasks", 3)
	out := buf.String()
	assert.Contains(t, out, "[storage/json_store] document saved")
	assert.Contains(t, out, "tasks=3")
	assert.NotContains(t, out, "module=")
}

func TestConsoleHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, nil)).WithGroup("http")

	logger.Info("request", "status", 200)
	assert.Contains(t, buf.String(), "http.status=200")
}
