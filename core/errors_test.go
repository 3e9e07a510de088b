package core

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Message: "something failed", Action: "do the thing"}
	if got := err.Error(); got != "something failed. do the thing" {
		t.Errorf("Error() = %q", got)
	}

	err = &ConfigError{Message: "just a message"}
	if got := err.Error(); got != "just a message" {
		t.Errorf("Error() = %q", got)
	}
}

func TestErrMissingAuth(t *testing.T) {
	err := ErrMissingAuth("openai")
	if err.Code != ErrCodeMissingAuth {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeMissingAuth)
	}
	if !strings.Contains(err.Action, "OPENAI_API_KEY") {
		t.Errorf("Action = %q, want mention of OPENAI_API_KEY", err.Action)
	}
}

func TestIsConfigError(t *testing.T) {
	cfgErr := ErrMissingConfig("HISTORY_CAPACITY")
	if _, ok := IsConfigError(cfgErr); !ok {
		t.Errorf("IsConfigError missed a ConfigError")
	}
	if _, ok := IsConfigError(errors.New("plain")); ok {
		t.Errorf("IsConfigError matched a plain error")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := GetErrorCode(ErrMissingAuth("openai")); got != ErrCodeMissingAuth {
		t.Errorf("GetErrorCode = %q, want %q", got, ErrCodeMissingAuth)
	}
	if got := GetErrorCode(errors.New("plain")); got != "" {
		t.Errorf("GetErrorCode = %q, want empty", got)
	}
}

func TestNewCorrelationID_Unique(t *testing.T) {
	a := NewCorrelationID()
	b := NewCorrelationID()
	if a == "" || a == b {
		t.Errorf("correlation IDs not unique: %q, %q", a, b)
	}
}
