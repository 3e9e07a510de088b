// Package core holds configuration and shared helpers for the generation
// pipeline.
//
// env_parse.go contains pure environment-variable parsing atoms.
package core

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvOrDefault returns the value of an environment variable or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParseIntEnv parses an environment variable as an int.
// Returns the default if the variable is unset or unparseable.
func ParseIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ParseInt64Env parses an environment variable as an int64.
// Returns the default if the variable is unset or unparseable.
func ParseInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ParseUint8Env parses an environment variable as a uint8, used for pixel
// channel thresholds. Returns the default if unset, unparseable, or out of
// the 0-255 range.
func ParseUint8Env(key string, defaultValue uint8) uint8 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 8); err == nil {
			return uint8(v)
		}
	}
	return defaultValue
}

// ParseBoolEnv parses an environment variable as a boolean.
// True values (case-insensitive): "true", "1", "yes", "on".
// False values: "false", "0", "no", "off".
// Returns the default if unset or unrecognized.
func ParseBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// ParseDurationEnv parses an environment variable holding a duration in
// seconds. Returns the default if unset or unparseable.
func ParseDurationEnv(key string, defaultSeconds int) time.Duration {
	return time.Duration(ParseIntEnv(key, defaultSeconds)) * time.Second
}
