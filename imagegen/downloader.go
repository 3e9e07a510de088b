// Package imagegen talks to OpenAI-compatible image APIs on behalf of the
// generation pipeline.
//
// downloader.go implements the Downloader molecule that fetches image bytes
// from temporary URLs returned by edit providers.
//
// This molecule composes:
//   - core.Config: for HTTP/TLS configuration and the size cap
//   - net/http: for HTTP downloads
package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"greenroom/core"
)

// Downloader fetches generated images from URLs into memory.
//
// Edit providers sometimes return temporary hosted URLs instead of inline
// base64 data. Those URLs expire after about an hour, so the bytes are
// fetched promptly and kept in memory; the pipeline never needs them on
// disk.
//
// Thread Safety: Downloader is safe for concurrent use.
// Each fetch creates its own HTTP request.
type Downloader struct {
	client   *http.Client
	maxBytes int64
}

// NewDownloader creates a downloader using the HTTP/TLS settings from the
// config. A nil config gets plain defaults.
func NewDownloader(cfg *core.Config) *Downloader {
	if cfg == nil {
		return &Downloader{
			client:   http.DefaultClient,
			maxBytes: core.DefaultMaxImageBytes,
		}
	}

	maxBytes := cfg.MaxImageBytes
	if maxBytes <= 0 {
		maxBytes = core.DefaultMaxImageBytes
	}

	return &Downloader{
		client:   core.GetDefaultHTTPClient(cfg),
		maxBytes: maxBytes,
	}
}

// NewDownloaderWithClient creates a downloader with an explicit HTTP client.
// This is useful for testing.
func NewDownloaderWithClient(client *http.Client, maxBytes int64) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	if maxBytes <= 0 {
		maxBytes = core.DefaultMaxImageBytes
	}
	return &Downloader{client: client, maxBytes: maxBytes}
}

// FetchBytes downloads an image and returns the raw bytes and the
// Content-Type header value. Downloads larger than the configured cap are
// rejected.
func (d *Downloader) FetchBytes(ctx context.Context, url string) ([]byte, string, error) {
	if url == "" {
		return nil, "", fmt.Errorf("imagegen: URL cannot be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: failed to create download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("imagegen: download failed with status %d", resp.StatusCode)
	}

	// Read one byte past the cap so oversize bodies are detectable.
	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: failed to read image data: %w", err)
	}
	if int64(len(data)) > d.maxBytes {
		return nil, "", fmt.Errorf("imagegen: image exceeds %d byte limit", d.maxBytes)
	}

	return data, resp.Header.Get("Content-Type"), nil
}
