package core

import (
	"os"
	"path/filepath"
	"testing"
)

// clearConfigEnv unsets every variable LoadConfig reads so tests are
// insulated from the host environment.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"OPENAI_API_KEY", "IMAGE_EDIT_URL", "OPENAI_IMAGE_MODEL",
		"AZURE_OPENAI_ENDPOINT", "AZURE_OPENAI_DEPLOYMENT", "AZURE_OPENAI_API_VERSION",
		"ANALYSIS_MODEL", "ANALYSIS_MAX_TOKENS", "HIGH_QUALITY",
		"KEY_MIN_GREEN", "KEY_DOMINANCE_MARGIN",
		"HISTORY_CAPACITY", "HISTORY_DB_PATH",
		"LOG_FILE", "DEV_MODE", "AI_TIMEOUT_SECONDS",
		"ALLOW_SELF_SIGNED_CERTS", "MAX_IMAGE_BYTES", "SETTINGS_FILE",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.OpenAIImageModel != DefaultImageModel {
		t.Errorf("OpenAIImageModel = %q, want %q", cfg.OpenAIImageModel, DefaultImageModel)
	}
	if cfg.AnalysisModel != DefaultAnalysisModel {
		t.Errorf("AnalysisModel = %q, want %q", cfg.AnalysisModel, DefaultAnalysisModel)
	}
	if cfg.KeyMinGreen != 40 || cfg.KeyDominanceMargin != 10 {
		t.Errorf("key policy = (%d, %d), want (40, 10)", cfg.KeyMinGreen, cfg.KeyDominanceMargin)
	}
	if cfg.HistoryCapacity != DefaultHistoryCapacity {
		t.Errorf("HistoryCapacity = %d, want %d", cfg.HistoryCapacity, DefaultHistoryCapacity)
	}
	if cfg.HighQuality {
		t.Errorf("HighQuality = true, want false by default")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("KEY_MIN_GREEN", "60")
	t.Setenv("KEY_DOMINANCE_MARGIN", "25")
	t.Setenv("HISTORY_CAPACITY", "5")
	t.Setenv("HIGH_QUALITY", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("OpenAIAPIKey = %q, want sk-test", cfg.OpenAIAPIKey)
	}
	if cfg.KeyMinGreen != 60 || cfg.KeyDominanceMargin != 25 {
		t.Errorf("key policy = (%d, %d), want (60, 25)", cfg.KeyMinGreen, cfg.KeyDominanceMargin)
	}
	if cfg.HistoryCapacity != 5 {
		t.Errorf("HistoryCapacity = %d, want 5", cfg.HistoryCapacity)
	}
	if !cfg.HighQuality {
		t.Errorf("HighQuality = false, want true")
	}
}

func TestLoadConfig_SettingsFileOverlay(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := []byte("key_min_green: 55\nhistory_capacity: 3\nhigh_quality: true\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	t.Setenv("SETTINGS_FILE", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.KeyMinGreen != 55 {
		t.Errorf("KeyMinGreen = %d, want 55 from settings file", cfg.KeyMinGreen)
	}
	// Margin untouched by the file: env default survives.
	if cfg.KeyDominanceMargin != 10 {
		t.Errorf("KeyDominanceMargin = %d, want 10", cfg.KeyDominanceMargin)
	}
	if cfg.HistoryCapacity != 3 {
		t.Errorf("HistoryCapacity = %d, want 3", cfg.HistoryCapacity)
	}
	if !cfg.HighQuality {
		t.Errorf("HighQuality = false, want true from settings file")
	}
}

func TestLoadConfig_BadSettingsFile(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(":\n  - not yaml: ["), 0644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	t.Setenv("SETTINGS_FILE", path)

	_, err := LoadConfig()
	if err == nil {
		t.Fatalf("LoadConfig() succeeded with malformed settings file")
	}
	if GetErrorCode(err) != ErrCodeInvalidSettings {
		t.Errorf("error code = %q, want %q", GetErrorCode(err), ErrCodeInvalidSettings)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{HistoryCapacity: 10}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("Validate() passed without API key")
	}
	if GetErrorCode(err) != ErrCodeMissingAuth {
		t.Errorf("error code = %q, want %q", GetErrorCode(err), ErrCodeMissingAuth)
	}

	cfg.OpenAIAPIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	cfg.HistoryCapacity = 0
	if err := cfg.Validate(); err == nil {
		t.Errorf("Validate() passed with zero history capacity")
	}
}

func TestGetHTTPClient_TLSSettings(t *testing.T) {
	cfg := &Config{AllowSelfSignedCerts: false}
	if client := GetDefaultHTTPClient(cfg); client.Transport != nil {
		t.Errorf("expected default transport when certs are verified")
	}

	cfg.AllowSelfSignedCerts = true
	client := GetDefaultHTTPClient(cfg)
	if client.Transport == nil {
		t.Fatalf("expected custom transport for self-signed certs")
	}
}
