package core

import (
	"fmt"
)

// ConfigError is a configuration failure with an actionable instruction.
type ConfigError struct {
	Code    string // error code for programmatic handling
	Message string // human-readable description
	Action  string // what the operator should do about it
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Configuration error codes.
const (
	ErrCodeMissingAuth     = "MISSING_AUTH"
	ErrCodeInvalidEndpoint = "INVALID_ENDPOINT"
	ErrCodeInvalidSettings = "INVALID_SETTINGS_FILE"
	ErrCodeMissingConfig   = "MISSING_CONFIG"
)

// ErrMissingAuth returns an error for a missing API credential.
func ErrMissingAuth(service string) *ConfigError {
	var action string
	switch service {
	case "openai":
		action = "Set OPENAI_API_KEY in your .env file"
	case "azure":
		action = "Set AZURE_OPENAI_KEY in your .env file"
	default:
		action = fmt.Sprintf("Set the required API key for %s in your .env file", service)
	}
	return &ConfigError{
		Code:    ErrCodeMissingAuth,
		Message: fmt.Sprintf("Missing authentication credentials for %s", service),
		Action:  action,
	}
}

// ErrInvalidEndpoint returns an error for an unusable API endpoint.
func ErrInvalidEndpoint(url, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidEndpoint,
		Message: fmt.Sprintf("Invalid image edit endpoint '%s': %s", url, reason),
		Action:  "Set IMAGE_EDIT_URL to a reachable OpenAI-compatible endpoint",
	}
}

// ErrInvalidSettingsFile returns an error for an unreadable settings file.
func ErrInvalidSettingsFile(path, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidSettings,
		Message: fmt.Sprintf("Cannot load settings file %s: %s", path, reason),
		Action:  "Fix the YAML syntax or unset SETTINGS_FILE",
	}
}

// ErrMissingConfig returns an error for a missing required variable.
func ErrMissingConfig(varName string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("Missing required configuration: %s", varName),
		Action:  fmt.Sprintf("Set %s in your .env file", varName),
	}
}

// IsConfigError reports whether err is a *ConfigError and returns it if so.
func IsConfigError(err error) (*ConfigError, bool) {
	if configErr, ok := err.(*ConfigError); ok {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the code from a ConfigError, or "" for other errors.
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}
