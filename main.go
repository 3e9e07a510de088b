// Command greenroom runs one generation cycle: it sends an image to an
// OpenAI-compatible edit API, converts the returned key-color regions to
// true transparency, resamples the result back to the input's dimensions,
// and writes a lossless PNG next to the input.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"greenroom/core"
	"greenroom/db"
	"greenroom/history"
	"greenroom/imagegen"
	"greenroom/logging"
	"greenroom/orchestrator"
	"greenroom/pixels"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Exit codes.
const (
	exitSuccess = 0
	exitError   = 1
)

const migrationsPath = "file://db/migrations"

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Use fmt here since logger isn't initialized yet
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <input-image> <prompt> [output.png]\n", filepath.Base(os.Args[0]))
		return exitError
	}
	inputPath := os.Args[1]
	prompt := os.Args[2]
	outputPath := defaultOutputPath(inputPath)
	if len(os.Args) > 3 {
		outputPath = os.Args[3]
	}

	config, err := core.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return exitError
	}

	// Run startup validation before heavy operations
	if !runStartupValidation(config) {
		return exitError
	}

	logger, err := logging.NewLogger(config.DevMode, config.LogFile)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return exitError
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("image_model", config.OpenAIImageModel),
		zap.String("analysis_model", config.AnalysisModel),
		zap.Bool("high_quality", config.HighQuality),
		zap.Uint8("key_min_green", config.KeyMinGreen),
		zap.Uint8("key_dominance_margin", config.KeyDominanceMargin),
		zap.Int("history_capacity", config.HistoryCapacity),
		zap.Duration("ai_timeout", config.AITimeout),
		zap.Bool("dev_mode", config.DevMode),
	)

	orch, store, err := buildOrchestrator(config, logger)
	if err != nil {
		logger.Error("Failed to assemble pipeline", zap.Error(err))
		return exitError
	}
	if store != nil {
		defer store.Close()
	}

	if err := generate(orch, config, logger, inputPath, prompt, outputPath); err != nil {
		logger.Error("Generation failed", zap.Error(err))
		return exitError
	}

	logger.Info("Done", zap.String("output", outputPath))
	return exitSuccess
}

// buildOrchestrator wires the edit provider, analyzer, history cache, and
// optional persistence into an orchestrator.
func buildOrchestrator(config *core.Config, logger *logging.Logger) (*orchestrator.Orchestrator, *db.Store, error) {
	var edit orchestrator.EditService
	var err error
	if isAzureConfigured(config) {
		edit, err = imagegen.NewAzureProvider(config)
	} else {
		edit, err = imagegen.NewOpenAIProvider(config)
	}
	if err != nil {
		return nil, nil, err
	}

	// Analysis is best-effort; a misconfigured analyzer just means no
	// scene descriptions.
	var analysis orchestrator.AnalysisService
	if analyzer, aerr := imagegen.NewAnalyzer(config); aerr != nil {
		logger.Warn("Analysis disabled", zap.Error(aerr))
	} else {
		analysis = analyzer
	}

	var store *db.Store
	if config.HistoryDBPath != "" {
		store, err = db.OpenStore(config.HistoryDBPath, migrationsPath)
		if err != nil {
			return nil, nil, err
		}
	}

	cfg := orchestrator.Config{
		Edit:     edit,
		Analysis: analysis,
		History:  history.NewCache(config.HistoryCapacity),
		KeyPolicy: pixels.KeyPolicy{
			MinGreenValue:   config.KeyMinGreen,
			DominanceMargin: config.KeyDominanceMargin,
		},
		Logger: logger,
	}
	if store != nil {
		cfg.Store = store
	}

	orch, err := orchestrator.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return orch, store, nil
}

// generate runs one select-source/generate cycle and writes the result.
func generate(orch *orchestrator.Orchestrator, config *core.Config, logger *logging.Logger, inputPath, prompt, outputPath string) error {
	source, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input image: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.AITimeout)
	defer cancel()

	if err := orch.SelectSource(ctx, source, mimeTypeForPath(inputPath)); err != nil {
		return err
	}
	if err := orch.Generate(ctx, prompt, config.HighQuality); err != nil {
		return err
	}

	snap := orch.Snapshot()
	if snap.State != orchestrator.StateSuccess {
		return fmt.Errorf("generation ended in state %s: %s", snap.State, snap.ErrMessage)
	}
	if snap.Analysis != "" {
		logger.Info("Scene analysis", zap.String("description", snap.Analysis))
	}

	if err := os.WriteFile(outputPath, snap.Generated, 0644); err != nil {
		return fmt.Errorf("failed to write output image: %w", err)
	}
	return nil
}

// isAzureConfigured reports whether the config points at Azure OpenAI.
func isAzureConfigured(config *core.Config) bool {
	return config.AzureOpenAIEndpoint != "" ||
		imagegen.IsAzureEndpoint(config.ImageEditURL)
}

// defaultOutputPath derives "<input>_transparent.png" from the input path.
func defaultOutputPath(inputPath string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + "_transparent.png"
}

// mimeTypeForPath maps a file extension to an image MIME type.
func mimeTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
