package engine

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openaiProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates a provider backed by the OpenAI chat
// completions API.
func NewOpenAIProvider(apiKey, model string) Provider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiProvider{
		client: client,
		model:  model,
	}
}

func (p *openaiProvider) Name() string {
	return "openai"
}

func (p *openaiProvider) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxTokens:   openai.Int(4096),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
