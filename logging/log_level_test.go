package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLogLevelString(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"Error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"  info  ", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel}, // default
		{"", zapcore.InfoLevel},      // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevelString(tt.input, zapcore.InfoLevel); got != tt.want {
				t.Errorf("ParseLogLevelString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLogLevel_EnvVar(t *testing.T) {
	t.Setenv("GREENROOM_LOG_LEVEL", "error")
	if got := ParseLogLevel("GREENROOM_LOG_LEVEL", zapcore.InfoLevel); got != zapcore.ErrorLevel {
		t.Errorf("ParseLogLevel = %v, want error", got)
	}

	t.Setenv("GREENROOM_LOG_LEVEL", "")
	if got := ParseLogLevel("GREENROOM_LOG_LEVEL", zapcore.WarnLevel); got != zapcore.WarnLevel {
		t.Errorf("ParseLogLevel with empty env = %v, want warn default", got)
	}
}
