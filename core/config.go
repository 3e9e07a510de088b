package core

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for the generation pipeline.
type Config struct {
	// API credentials
	OpenAIAPIKey string

	// Image edit API configuration
	ImageEditURL     string // endpoint override, empty = api.openai.com
	OpenAIImageModel string // edit model, default dall-e-2

	// Azure OpenAI configuration (optional, used when the endpoint is Azure)
	AzureOpenAIEndpoint   string
	AzureOpenAIDeployment string
	AzureOpenAIApiVersion string

	// Scene analysis (best-effort, vision chat model)
	AnalysisModel     string
	AnalysisMaxTokens int

	// Generation defaults
	HighQuality bool

	// Key color classification thresholds
	KeyMinGreen        uint8
	KeyDominanceMargin uint8

	// History
	HistoryCapacity int
	HistoryDBPath   string // empty disables persistence

	// Operational settings
	LogFile              string
	DevMode              bool
	AITimeout            time.Duration
	AllowSelfSignedCerts bool
	MaxImageBytes        int64
}

// Settings are optional YAML overrides loaded from SETTINGS_FILE.
// Pointer fields distinguish "absent" from zero values.
type Settings struct {
	KeyMinGreen        *uint8 `yaml:"key_min_green"`
	KeyDominanceMargin *uint8 `yaml:"key_dominance_margin"`
	HistoryCapacity    *int   `yaml:"history_capacity"`
	HighQuality        *bool  `yaml:"high_quality"`
}

// Default configuration values.
const (
	DefaultImageModel        = "dall-e-2"
	DefaultAnalysisModel     = "gpt-4o-mini"
	DefaultAnalysisMaxTokens = 200
	DefaultAITimeoutSeconds  = 120
	DefaultHistoryCapacity   = 10
	DefaultMaxImageBytes     = 32 << 20 // 32 MiB
	DefaultLogFile           = "greenroom.log"
)

// LoadConfig builds a Config from environment variables, then overlays the
// optional YAML settings file. Call godotenv.Load before this to pick up a
// local .env file.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),

		ImageEditURL:     os.Getenv("IMAGE_EDIT_URL"),
		OpenAIImageModel: GetEnvOrDefault("OPENAI_IMAGE_MODEL", DefaultImageModel),

		AzureOpenAIEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureOpenAIDeployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT"),
		AzureOpenAIApiVersion: GetEnvOrDefault("AZURE_OPENAI_API_VERSION", "2024-02-15-preview"),

		AnalysisModel:     GetEnvOrDefault("ANALYSIS_MODEL", DefaultAnalysisModel),
		AnalysisMaxTokens: ParseIntEnv("ANALYSIS_MAX_TOKENS", DefaultAnalysisMaxTokens),

		HighQuality: ParseBoolEnv("HIGH_QUALITY", false),

		KeyMinGreen:        ParseUint8Env("KEY_MIN_GREEN", 40),
		KeyDominanceMargin: ParseUint8Env("KEY_DOMINANCE_MARGIN", 10),

		HistoryCapacity: ParseIntEnv("HISTORY_CAPACITY", DefaultHistoryCapacity),
		HistoryDBPath:   os.Getenv("HISTORY_DB_PATH"),

		LogFile:              GetEnvOrDefault("LOG_FILE", DefaultLogFile),
		DevMode:              ParseBoolEnv("DEV_MODE", false),
		AITimeout:            ParseDurationEnv("AI_TIMEOUT_SECONDS", DefaultAITimeoutSeconds),
		AllowSelfSignedCerts: ParseBoolEnv("ALLOW_SELF_SIGNED_CERTS", false),
		MaxImageBytes:        ParseInt64Env("MAX_IMAGE_BYTES", DefaultMaxImageBytes),
	}

	if path := os.Getenv("SETTINGS_FILE"); path != "" {
		settings, err := LoadSettingsFile(path)
		if err != nil {
			return nil, err
		}
		cfg.applySettings(settings)
	}

	return cfg, nil
}

// LoadSettingsFile reads and parses the optional YAML settings file.
func LoadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrInvalidSettingsFile(path, err.Error())
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, ErrInvalidSettingsFile(path, err.Error())
	}
	return &settings, nil
}

// applySettings overlays non-nil settings values onto the config.
func (c *Config) applySettings(s *Settings) {
	if s == nil {
		return
	}
	if s.KeyMinGreen != nil {
		c.KeyMinGreen = *s.KeyMinGreen
	}
	if s.KeyDominanceMargin != nil {
		c.KeyDominanceMargin = *s.KeyDominanceMargin
	}
	if s.HistoryCapacity != nil {
		c.HistoryCapacity = *s.HistoryCapacity
	}
	if s.HighQuality != nil {
		c.HighQuality = *s.HighQuality
	}
}

// Validate checks that the configuration is sufficient to run a generation.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return ErrMissingAuth("openai")
	}
	if c.HistoryCapacity <= 0 {
		return ErrMissingConfig(fmt.Sprintf("HISTORY_CAPACITY (got %d)", c.HistoryCapacity))
	}
	return nil
}

// GetHTTPClient returns an HTTP client honoring the TLS settings. Use it
// for all requests to external APIs.
func GetHTTPClient(cfg *Config, timeout time.Duration) *http.Client {
	client := &http.Client{
		Timeout: timeout,
	}

	if cfg.AllowSelfSignedCerts {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return client
}

// GetDefaultHTTPClient returns an HTTP client with a 30-second timeout.
func GetDefaultHTTPClient(cfg *Config) *http.Client {
	return GetHTTPClient(cfg, 30*time.Second)
}
