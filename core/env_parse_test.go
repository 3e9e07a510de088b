package core

import (
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("GREENROOM_TEST_STR", "value")
	if got := GetEnvOrDefault("GREENROOM_TEST_STR", "fallback"); got != "value" {
		t.Errorf("got %q, want value", got)
	}
	if got := GetEnvOrDefault("GREENROOM_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
}

func TestParseIntEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"valid", "42", 42},
		{"negative", "-3", -3},
		{"garbage", "abc", 7},
		{"empty", "", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GREENROOM_TEST_INT", tt.value)
			if got := ParseIntEnv("GREENROOM_TEST_INT", 7); got != tt.want {
				t.Errorf("ParseIntEnv(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseUint8Env(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  uint8
	}{
		{"valid", "40", 40},
		{"max", "255", 255},
		{"out of range", "300", 10},
		{"negative", "-1", 10},
		{"garbage", "xx", 10},
		{"empty", "", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GREENROOM_TEST_U8", tt.value)
			if got := ParseUint8Env("GREENROOM_TEST_U8", 10); got != tt.want {
				t.Errorf("ParseUint8Env(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"YES", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"OFF", false},
		{"maybe", true}, // unrecognized keeps default
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("GREENROOM_TEST_BOOL", tt.value)
			if got := ParseBoolEnv("GREENROOM_TEST_BOOL", true); got != tt.want {
				t.Errorf("ParseBoolEnv(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseDurationEnv(t *testing.T) {
	t.Setenv("GREENROOM_TEST_DUR", "90")
	if got := ParseDurationEnv("GREENROOM_TEST_DUR", 30); got != 90*time.Second {
		t.Errorf("got %v, want 90s", got)
	}

	t.Setenv("GREENROOM_TEST_DUR", "")
	if got := ParseDurationEnv("GREENROOM_TEST_DUR", 30); got != 30*time.Second {
		t.Errorf("got %v, want 30s default", got)
	}
}
