// Package imagegen talks to OpenAI-compatible image APIs on behalf of the
// generation pipeline.
//
// analyzer.go implements the Analyzer molecule that describes a source image
// through a vision-capable chat model. The description seeds edit prompts
// and history metadata; analysis is best-effort and never blocks generation.
//
// This molecule composes:
//   - core.Config: for API configuration
//   - go-openai client: for vision chat completions
package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"greenroom/core"

	"github.com/sashabaranov/go-openai"
)

// analysisInstruction asks the model for a compact scene description.
const analysisInstruction = "Describe the main subject of this image in one " +
	"or two sentences. Focus on what the subject is and its visual style; " +
	"ignore the background."

// Analyzer describes images using a vision chat model.
//
// Thread Safety: Analyzer is safe for concurrent use.
type Analyzer struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewAnalyzer creates an analyzer from the config.
//
// Returns an error if the config is nil or the API key is empty.
func NewAnalyzer(cfg *core.Config) (*Analyzer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("imagegen: OpenAI API key is required for image analysis")
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.ImageEditURL != "" && !IsLocalEndpoint(cfg.ImageEditURL) {
		clientConfig.BaseURL = cfg.ImageEditURL
	}
	clientConfig.HTTPClient = core.GetHTTPClient(cfg, cfg.AITimeout)

	model := cfg.AnalysisModel
	if model == "" {
		model = core.DefaultAnalysisModel
	}
	maxTokens := cfg.AnalysisMaxTokens
	if maxTokens <= 0 {
		maxTokens = core.DefaultAnalysisMaxTokens
	}

	return &Analyzer{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// NewAnalyzerWithBaseURL creates an analyzer pointed at an explicit endpoint.
// This is useful for testing.
func NewAnalyzerWithBaseURL(apiKey, baseURL, model string) (*Analyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("imagegen: OpenAI API key is required for image analysis")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	if model == "" {
		model = core.DefaultAnalysisModel
	}

	return &Analyzer{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     model,
		maxTokens: core.DefaultAnalysisMaxTokens,
	}, nil
}

// Analyze returns a short textual description of the image. The image is
// sent inline as a data URL, so no hosting step is needed.
func (a *Analyzer) Analyze(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", ErrEmptyImage
	}

	req := openai.ChatCompletionRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: analysisInstruction,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    encodeDataURL(image, mimeType),
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
	}

	response, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("imagegen: image analysis failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("imagegen: analysis returned no choices")
	}

	description := strings.TrimSpace(response.Choices[0].Message.Content)
	if description == "" {
		return "", fmt.Errorf("imagegen: analysis returned an empty description")
	}

	return description, nil
}

// Model returns the configured analysis model name.
func (a *Analyzer) Model() string {
	return a.model
}

// encodeDataURL packs image bytes into an inline data URL.
//
// This is a pure function with no side effects.
func encodeDataURL(image []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
}
