// Package imagegen talks to OpenAI-compatible image APIs on behalf of the
// generation pipeline.
//
// openai_provider.go implements the OpenAIProvider molecule that rewrites a
// source image through the OpenAI image edit API.
//
// This molecule composes:
//   - atoms.go: endpoint validation and prompt building
//   - core.Config: for API configuration
//   - go-openai client: for API calls
package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"greenroom/core"

	"github.com/sashabaranov/go-openai"
)

// Provider is the interface for image edit providers.
// Each provider (OpenAI, Azure) implements this interface to allow
// swappable backends.
//
// Edit takes the source image bytes and a prompt and returns the edited
// image bytes. Providers return PNG data whenever the API allows it.
// highQuality selects the larger output size.
type Provider interface {
	// Edit rewrites the image according to the prompt.
	//
	// The context can be used for cancellation and timeout control.
	Edit(ctx context.Context, image []byte, mimeType, prompt string, highQuality bool) ([]byte, error)
}

// OpenAIProvider implements Provider for the OpenAI image edit API.
//
// This molecule handles:
//   - OpenAI client configuration with proper HTTP transport
//   - Staging the input image into a temporary file (the edit endpoint
//     consumes multipart file uploads)
//   - Output size selection based on the quality setting
//   - Error handling and response validation
//
// Thread Safety: OpenAIProvider is safe for concurrent use.
// The underlying OpenAI client handles connection pooling.
type OpenAIProvider struct {
	client     *openai.Client
	downloader *Downloader
	model      string
}

// OpenAIProviderConfig holds configuration specific to the OpenAI provider.
type OpenAIProviderConfig struct {
	// APIKey is the OpenAI API key (required)
	APIKey string

	// BaseURL is the API endpoint (default: https://api.openai.com/v1)
	BaseURL string

	// Model is the image edit model to use (default: dall-e-2)
	Model string
}

// NewOpenAIProvider creates a new OpenAI image edit provider.
//
// Returns an error if:
//   - The config is nil
//   - The API key is empty
//   - The endpoint is a local endpoint (localhost, 127.0.0.1)
//     which doesn't serve the edit API
//
// Example:
//
//	provider, err := NewOpenAIProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	edited, err := provider.Edit(ctx, pngBytes, "image/png", "replace the sky with stars", false)
func NewOpenAIProvider(cfg *core.Config) (*OpenAIProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("imagegen: OpenAI API key is required for image editing")
	}

	endpoint := cfg.ImageEditURL
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}

	if IsLocalEndpoint(endpoint) {
		return nil, fmt.Errorf("%w: %s; configure IMAGE_EDIT_URL to use OpenAI or Azure",
			ErrLocalEndpoint, endpoint)
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	clientConfig.BaseURL = endpoint
	clientConfig.HTTPClient = core.GetHTTPClient(cfg, cfg.AITimeout)

	model := cfg.OpenAIImageModel
	if model == "" {
		model = core.DefaultImageModel
	}

	return &OpenAIProvider{
		client:     openai.NewClientWithConfig(clientConfig),
		downloader: NewDownloader(cfg),
		model:      model,
	}, nil
}

// NewOpenAIProviderWithConfig creates an OpenAI provider with explicit
// configuration. This is useful for testing or when you need fine-grained
// control over settings.
func NewOpenAIProviderWithConfig(providerCfg OpenAIProviderConfig, coreCfg *core.Config) (*OpenAIProvider, error) {
	if providerCfg.APIKey == "" {
		return nil, fmt.Errorf("imagegen: OpenAI API key is required")
	}

	endpoint := providerCfg.BaseURL
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}

	clientConfig := openai.DefaultConfig(providerCfg.APIKey)
	clientConfig.BaseURL = endpoint
	if coreCfg != nil {
		clientConfig.HTTPClient = core.GetHTTPClient(coreCfg, coreCfg.AITimeout)
	}

	model := providerCfg.Model
	if model == "" {
		model = core.DefaultImageModel
	}

	return &OpenAIProvider{
		client:     openai.NewClientWithConfig(clientConfig),
		downloader: NewDownloader(coreCfg),
		model:      model,
	}, nil
}

// Edit rewrites the image according to the prompt via the OpenAI edit API.
//
// The method:
//  1. Stages the image bytes into a temporary PNG file
//  2. Builds an edit request asking for base64 output
//  3. Calls the OpenAI API
//  4. Decodes the base64 payload, or downloads the image when the
//     server only returns a URL
//
// The edit API expects PNG input; mimeType only selects the staged file
// extension, the bytes pass through untouched.
func (p *OpenAIProvider) Edit(ctx context.Context, image []byte, mimeType, prompt string, highQuality bool) ([]byte, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	file, cleanup, err := stageImageFile(image, mimeType)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	req := openai.ImageEditRequest{
		Image:          file,
		Prompt:         BuildEditPrompt(prompt),
		Model:          p.model,
		N:              1,
		Size:           sizeForQuality(highQuality),
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	}

	response, err := p.client.CreateEditImage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("imagegen: OpenAI image edit failed: %w", err)
	}

	return p.extractImage(ctx, response)
}

// extractImage pulls the edited image bytes out of an API response,
// preferring the inline base64 payload over a hosted URL.
func (p *OpenAIProvider) extractImage(ctx context.Context, response openai.ImageResponse) ([]byte, error) {
	if len(response.Data) == 0 {
		return nil, ErrNoImageData
	}

	if b64 := response.Data[0].B64JSON; b64 != "" {
		data, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("imagegen: failed to decode base64 image: %w", err)
		}
		return data, nil
	}

	// Some compatible servers ignore response_format and return a URL.
	if url := response.Data[0].URL; url != "" {
		data, _, err := p.downloader.FetchBytes(ctx, url)
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	return nil, ErrNoImageData
}

// Model returns the configured edit model name.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// stageImageFile writes image bytes to a temporary file positioned at the
// start, ready for a multipart upload. The returned cleanup closes and
// removes the file.
func stageImageFile(image []byte, mimeType string) (*os.File, func(), error) {
	file, err := os.CreateTemp("", "greenroom-edit-*"+extensionForMIME(mimeType))
	if err != nil {
		return nil, nil, fmt.Errorf("imagegen: failed to create temp image file: %w", err)
	}
	cleanup := func() {
		file.Close()
		os.Remove(file.Name())
	}

	if _, err := file.Write(image); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("imagegen: failed to stage image file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("imagegen: failed to rewind image file: %w", err)
	}

	return file, cleanup, nil
}

// sizeForQuality maps the quality flag to an API output size.
func sizeForQuality(highQuality bool) string {
	if highQuality {
		return openai.CreateImageSize1024x1024
	}
	return openai.CreateImageSize512x512
}

// extensionForMIME maps an image MIME type to a file extension, defaulting
// to .png.
func extensionForMIME(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// Ensure OpenAIProvider implements Provider interface at compile time.
var _ Provider = (*OpenAIProvider)(nil)
