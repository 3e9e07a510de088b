// Package imagegen talks to OpenAI-compatible image APIs on behalf of the
// generation pipeline.
//
// azure_provider.go implements the AzureProvider molecule that edits images
// through Azure OpenAI deployments.
//
// This molecule composes:
//   - atoms.go: IsAzureEndpoint for endpoint validation
//   - core.Config: for API configuration
//   - go-openai client: for API calls
package imagegen

import (
	"context"
	"fmt"

	"greenroom/core"

	"github.com/sashabaranov/go-openai"
)

// AzureProvider implements Provider for Azure OpenAI image editing.
//
// Azure OpenAI differs from standard OpenAI in several ways:
//   - Uses deployment names instead of model names
//   - Requires Azure-specific endpoint and API-version configuration
//   - May have different parameter support based on deployment
//
// Thread Safety: AzureProvider is safe for concurrent use.
// The underlying OpenAI client handles connection pooling.
type AzureProvider struct {
	client     *openai.Client
	downloader *Downloader
	deployment string
}

// NewAzureProvider creates a new Azure OpenAI image edit provider.
//
// Returns an error if:
//   - The config is nil
//   - The API key is empty
//   - The endpoint is empty or not an Azure endpoint
//   - The deployment name is empty
func NewAzureProvider(cfg *core.Config) (*AzureProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("imagegen: API key is required for Azure image editing")
	}

	endpoint := cfg.ImageEditURL
	if endpoint == "" {
		endpoint = cfg.AzureOpenAIEndpoint
	}
	if endpoint == "" {
		return nil, fmt.Errorf("imagegen: Azure endpoint is required; set IMAGE_EDIT_URL or AZURE_OPENAI_ENDPOINT")
	}
	if !IsAzureEndpoint(endpoint) {
		return nil, fmt.Errorf("imagegen: endpoint (%s) is not an Azure OpenAI endpoint", endpoint)
	}

	deployment := cfg.AzureOpenAIDeployment
	if deployment == "" {
		return nil, fmt.Errorf("imagegen: Azure deployment name is required; set AZURE_OPENAI_DEPLOYMENT")
	}

	clientConfig := openai.DefaultAzureConfig(cfg.OpenAIAPIKey, endpoint)
	if cfg.AzureOpenAIApiVersion != "" {
		clientConfig.APIVersion = cfg.AzureOpenAIApiVersion
	}
	clientConfig.HTTPClient = core.GetHTTPClient(cfg, cfg.AITimeout)

	return &AzureProvider{
		client:     openai.NewClientWithConfig(clientConfig),
		downloader: NewDownloader(cfg),
		deployment: deployment,
	}, nil
}

// Edit rewrites the image according to the prompt via the Azure edit API.
// Azure uses the deployment name in place of the model name.
func (p *AzureProvider) Edit(ctx context.Context, image []byte, mimeType, prompt string, highQuality bool) ([]byte, error) {
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
		Model:          p.deployment,
		N:              1,
		Size:           sizeForQuality(highQuality),
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	}

	response, err := p.client.CreateEditImage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("imagegen: Azure image edit failed: %w", err)
	}

	return p.extractImage(ctx, response)
}

// extractImage mirrors OpenAIProvider.extractImage for Azure responses.
func (p *AzureProvider) extractImage(ctx context.Context, response openai.ImageResponse) ([]byte, error) {
	helper := &OpenAIProvider{downloader: p.downloader}
	return helper.extractImage(ctx, response)
}

// Deployment returns the configured Azure deployment name.
func (p *AzureProvider) Deployment() string {
	return p.deployment
}

// Ensure AzureProvider implements Provider interface at compile time.
var _ Provider = (*AzureProvider)(nil)
