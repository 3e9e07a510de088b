// Package imagegen talks to OpenAI-compatible image APIs on behalf of the
// generation pipeline.
//
// atoms.go contains pure utility functions with no dependencies.
package imagegen

import (
	"fmt"
	"strings"
)

// IsAzureEndpoint checks if the given endpoint URL is an Azure OpenAI endpoint.
// It performs case-insensitive substring matching against known Azure domain patterns.
//
// This is a pure function with no dependencies - it simply performs string matching.
//
// Azure OpenAI endpoints typically match one of these patterns:
//   - *.openai.azure.com
//   - *.cognitiveservices.azure.com
//
// Example:
//
//	IsAzureEndpoint("https://myresource.openai.azure.com")            // true
//	IsAzureEndpoint("https://myresource.cognitiveservices.azure.com") // true
//	IsAzureEndpoint("https://api.openai.com")                         // false
//	IsAzureEndpoint("")                                               // false
func IsAzureEndpoint(endpoint string) bool {
	if endpoint == "" {
		return false
	}
	lower := strings.ToLower(endpoint)
	return strings.Contains(lower, "openai.azure.com") ||
		strings.Contains(lower, "cognitiveservices.azure.com")
}

// IsOpenAIEndpoint checks if the given endpoint URL is a standard OpenAI API endpoint.
//
// This is a pure function with no dependencies - it simply performs string matching.
func IsOpenAIEndpoint(endpoint string) bool {
	if endpoint == "" {
		return false
	}
	return strings.Contains(strings.ToLower(endpoint), "api.openai.com")
}

// IsLocalEndpoint checks if the given endpoint URL is a local/self-hosted endpoint.
// It checks for localhost, 127.0.0.1, or common LAN patterns.
//
// This is a pure function with no dependencies - it simply performs string matching.
//
// Local endpoints match:
//   - localhost
//   - 127.0.0.1
//   - 0.0.0.0
//   - 192.168.*.* (common LAN range)
//
// Example:
//
//	IsLocalEndpoint("http://localhost:1234")     // true
//	IsLocalEndpoint("http://127.0.0.1:8080")     // true
//	IsLocalEndpoint("https://api.openai.com")    // false
func IsLocalEndpoint(endpoint string) bool {
	if endpoint == "" {
		return false
	}
	lower := strings.ToLower(endpoint)
	return strings.Contains(lower, "localhost") ||
		strings.Contains(lower, "127.0.0.1") ||
		strings.Contains(lower, "0.0.0.0") ||
		strings.Contains(lower, "192.168.")
}

// keyBackgroundInstruction is appended to every edit prompt so the model
// renders removable regions in flat chroma green. The key extractor drops
// exactly those pixels afterwards.
const keyBackgroundInstruction = "Render all background and empty areas as a " +
	"single flat pure green color, RGB(0, 255, 0), with no gradients, " +
	"shadows, or texture on the green regions."

// BuildEditPrompt combines the user's prompt with the chroma key background
// instruction.
//
// This is a pure function with no side effects.
func BuildEditPrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ""
	}
	return fmt.Sprintf("%s\n\n%s", prompt, keyBackgroundInstruction)
}

// TruncateForLog shortens text for log output, appending "..." when cut.
//
// This is a pure function with no side effects.
func TruncateForLog(text string, maxLen int) string {
	if maxLen <= 0 || len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return text[:maxLen]
	}
	return text[:maxLen-3] + "..."
}
