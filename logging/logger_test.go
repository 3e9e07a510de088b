package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newTestLogger returns a logger whose file output is captured in a buffer.
func newTestLogger(level zapcore.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	sink := zapcore.AddSync(&buf)
	logger := NewLoggerWithWriters(level, sink, sink, false)
	return logger, &buf
}

func TestLogger_WritesStructuredOutput(t *testing.T) {
	logger, buf := newTestLogger(zapcore.InfoLevel)

	logger.Info("generation complete",
		zap.String("prompt", "remove the background"),
		zap.Int("width", 1024))
	logger.Sync()

	out := buf.String()
	if !strings.Contains(out, "generation complete") {
		t.Errorf("output missing message: %s", out)
	}
	if !strings.Contains(out, `"prompt":"remove the background"`) {
		t.Errorf("output missing prompt field: %s", out)
	}
	if !strings.Contains(out, `"width":1024`) {
		t.Errorf("output missing width field: %s", out)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newTestLogger(zapcore.InfoLevel)

	logger.Debug("should not appear")
	logger.Sync()

	if strings.Contains(buf.String(), "should not appear") {
		t.Errorf("debug entry leaked through info-level logger: %s", buf.String())
	}
}

func TestLogger_Named(t *testing.T) {
	logger, buf := newTestLogger(zapcore.InfoLevel)

	logger.Named("orchestrator").Info("started")
	logger.Sync()

	if !strings.Contains(buf.String(), "orchestrator") {
		t.Errorf("output missing logger name: %s", buf.String())
	}
}

func TestLogger_RedactsAPIKeyFields(t *testing.T) {
	logger, buf := newTestLogger(zapcore.InfoLevel)

	logger.Info("client configured",
		zap.String("openai_api_key", "sk-abcdefghijklmnopqrstuvwxyz123456"))
	logger.Sync()

	out := buf.String()
	if strings.Contains(out, "sk-abcdefghijklmnopqrstuvwxyz123456") {
		t.Errorf("API key leaked into log output: %s", out)
	}
	if !strings.Contains(out, RedactedPlaceholder) {
		t.Errorf("output missing redaction placeholder: %s", out)
	}
}

func TestLogger_RedactsEmbeddedSecrets(t *testing.T) {
	logger, buf := newTestLogger(zapcore.InfoLevel)

	logger.Info("request failed",
		zap.String("detail", "auth header was Bearer abcdefghij0123456789xyz"))
	logger.Sync()

	if strings.Contains(buf.String(), "abcdefghij0123456789xyz") {
		t.Errorf("bearer token leaked into log output: %s", buf.String())
	}
}

func TestLogger_SyncNilSafe(t *testing.T) {
	var logger *Logger
	if err := logger.Sync(); err != nil {
		t.Errorf("Sync on nil logger returned %v", err)
	}
}

func TestLogger_SugaredVariants(t *testing.T) {
	logger, buf := newTestLogger(zapcore.InfoLevel)

	logger.Infow("history updated", "entries", 3, "api_key", "sk-abcdefghijklmnopqrstuvwxyz123456")
	logger.Sync()

	out := buf.String()
	if !strings.Contains(out, "history updated") {
		t.Errorf("output missing message: %s", out)
	}
	if strings.Contains(out, "sk-abcdefghijklmnopqrstuvwxyz123456") {
		t.Errorf("API key leaked through sugared logging: %s", out)
	}
}
