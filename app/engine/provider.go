package engine

import "fmt"

// ProviderOptions carries the credentials and model names the provider
// selection can draw from.
type ProviderOptions struct {
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string
}

// SelectProvider picks the completion backend from whichever credential is
// configured, preferring OpenAI when both are set.
func SelectProvider(opts ProviderOptions) (Provider, error) {
	switch {
	case opts.OpenAIAPIKey != "":
		return NewOpenAIProvider(opts.OpenAIAPIKey, opts.OpenAIModel), nil
	case opts.AnthropicAPIKey != "":
		return NewAnthropicProvider(opts.AnthropicAPIKey, opts.AnthropicModel), nil
	default:
		return nil, fmt.Errorf("no content provider configured, set OPENAI_API_KEY or ANTHROPIC_API_KEY")
	}
}
