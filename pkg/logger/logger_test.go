//go:build !integration

package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

// captureStderr captures stderr output during test execution
func captureStderr(f func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	f()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		pattern   string
		want      bool
	}{
		{"wildcard matches everything", "linter:classifier", "*", true},
		{"exact match", "linter:classifier", "linter:classifier", true},
		{"exact mismatch", "linter:classifier", "parser:blocks", false},
		{"prefix wildcard", "linter:classifier", "linter:*", true},
		{"prefix wildcard deep", "linter:checker:python", "linter:*", true},
		{"prefix wildcard mismatch", "parser:blocks", "linter:*", false},
		{"suffix wildcard", "linter:classifier", "*:classifier", true},
		{"middle wildcard", "linter:checker:python", "linter:*:python", true},
		{"empty pattern", "linter:classifier", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchPattern(tt.namespace, tt.pattern); got != tt.want {
				t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.namespace, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestDisabledLoggerProducesNoOutput(t *testing.T) {
	log := &Logger{namespace: "test:disabled", enabled: false, lastLog: time.Now()}
	out := captureStderr(func() {
		log.Printf("should not appear: %d", 42)
		log.Print("should not appear either")
	})
	if out != "" {
		t.Errorf("disabled logger wrote output: %q", out)
	}
}

func TestEnabledLoggerWritesNamespaceAndMessage(t *testing.T) {
	log := &Logger{namespace: "test:enabled", enabled: true, lastLog: time.Now()}
	out := captureStderr(func() {
		log.Printf("processing %s", "file.yml")
	})
	if !strings.Contains(out, "test:enabled") {
		t.Errorf("output missing namespace: %q", out)
	}
	if !strings.Contains(out, "processing file.yml") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "+") {
		t.Errorf("output missing time diff: %q", out)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{12 * time.Millisecond, "12ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1.5m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestComputeEnabledExclusions(t *testing.T) {
	origDebug := debugEnv
	defer func() { debugEnv = origDebug }()

	debugEnv = "linter:*,-linter:noisy"
	if !computeEnabled("linter:classifier") {
		t.Error("expected linter:classifier to be enabled")
	}
	if computeEnabled("linter:noisy") {
		t.Error("expected linter:noisy to be excluded")
	}
}
