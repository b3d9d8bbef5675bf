//go:build !integration

package logger

import (
	"strings"
	"testing"
	"time"
)

func TestSlogHandlerRoutesThroughLogger(t *testing.T) {
	log := &Logger{namespace: "test:slog", enabled: true, lastLog: time.Now()}
	slogger := NewSlogLoggerWithHandler(log)

	out := captureStderr(func() {
		slogger.Info("server started", "transport", "stdio")
	})

	if !strings.Contains(out, "test:slog") {
		t.Errorf("output missing namespace: %q", out)
	}
	if !strings.Contains(out, "[INFO] server started") {
		t.Errorf("output missing level and message: %q", out)
	}
	if !strings.Contains(out, "transport=stdio") {
		t.Errorf("output missing attribute: %q", out)
	}
}

func TestSlogHandlerDisabledLoggerIsSilent(t *testing.T) {
	log := &Logger{namespace: "test:slog-off", enabled: false, lastLog: time.Now()}
	slogger := NewSlogLoggerWithHandler(log)

	out := captureStderr(func() {
		slogger.Error("should not appear")
	})
	if out != "" {
		t.Errorf("disabled logger wrote output: %q", out)
	}
}

func TestDiscardWritesNothing(t *testing.T) {
	out := captureStderr(func() {
		Discard().Info("dropped")
	})
	if out != "" {
		t.Errorf("discard logger wrote output: %q", out)
	}
}
