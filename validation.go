package main

import (
	"fmt"

	"greenroom/core"
	"greenroom/imagegen"

	"github.com/fatih/color"
)

var (
	passMark = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
	warnMark = color.New(color.FgYellow).Sprint("!")
)

// runStartupValidation checks the configuration before any API call and
// prints a colored per-check report. Returns false when a required check
// fails; the failure includes the operator action to fix it.
func runStartupValidation(config *core.Config) bool {
	fmt.Println(color.New(color.Bold).Sprint("Startup validation"))

	ok := true

	if config.OpenAIAPIKey != "" {
		fmt.Printf("  %s API key configured\n", passMark)
	} else {
		ok = false
		reportFailure(core.ErrMissingAuth("openai"))
	}

	endpoint := config.ImageEditURL
	switch {
	case endpoint == "":
		fmt.Printf("  %s Endpoint: api.openai.com (default)\n", passMark)
	case imagegen.IsLocalEndpoint(endpoint):
		ok = false
		reportFailure(core.ErrInvalidEndpoint(endpoint, "local endpoints cannot serve image edits"))
	case imagegen.IsAzureEndpoint(endpoint) || config.AzureOpenAIEndpoint != "":
		if config.AzureOpenAIDeployment == "" {
			ok = false
			reportFailure(core.ErrMissingConfig("AZURE_OPENAI_DEPLOYMENT"))
		} else {
			fmt.Printf("  %s Endpoint: Azure deployment %q\n", passMark, config.AzureOpenAIDeployment)
		}
	case imagegen.IsOpenAIEndpoint(endpoint):
		fmt.Printf("  %s Endpoint: %s\n", passMark, endpoint)
	default:
		fmt.Printf("  %s Endpoint: %s (custom, assuming OpenAI-compatible)\n", warnMark, endpoint)
	}

	if err := validateRemaining(config); err != nil {
		ok = false
		reportFailure(err)
	} else {
		fmt.Printf("  %s History capacity: %d\n", passMark, config.HistoryCapacity)
	}

	if config.HistoryDBPath != "" {
		fmt.Printf("  %s Persistence: %s\n", passMark, config.HistoryDBPath)
	} else {
		fmt.Printf("  %s Persistence disabled (set HISTORY_DB_PATH to enable)\n", warnMark)
	}

	if config.AllowSelfSignedCerts {
		fmt.Printf("  %s TLS verification disabled (ALLOW_SELF_SIGNED_CERTS)\n", warnMark)
	}

	return ok
}

// validateRemaining runs the config's own validation, skipping the checks
// already reported individually above.
func validateRemaining(config *core.Config) error {
	if config.HistoryCapacity <= 0 {
		return core.ErrMissingConfig(fmt.Sprintf("HISTORY_CAPACITY (got %d)", config.HistoryCapacity))
	}
	return nil
}

// reportFailure prints a failed check with its operator action on its own
// line.
func reportFailure(err error) {
	if configErr, isConfig := core.IsConfigError(err); isConfig {
		fmt.Printf("  %s %s\n", failMark, configErr.Message)
		if configErr.Action != "" {
			fmt.Printf("    %s\n", color.New(color.FgCyan).Sprint(configErr.Action))
		}
		return
	}
	fmt.Printf("  %s %v\n", failMark, err)
}
