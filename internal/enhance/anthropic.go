package enhance

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const AnthropicModel = "claude-sonnet-4-20250514"

// AnthropicEnhancer uses the Claude Messages API.
type AnthropicEnhancer struct {
	client anthropic.Client
	model  string
}

func NewAnthropicEnhancer(apiKey, baseURL, model string, opts ...option.RequestOption) *AnthropicEnhancer {
	all := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		all = append(all, option.WithBaseURL(baseURL))
	}
	return &AnthropicEnhancer{
		client: anthropic.NewClient(append(all, opts...)...),
		model:  model,
	}
}

func (e *AnthropicEnhancer) Name() string {
	return "anthropic"
}

func (e *AnthropicEnhancer) Enhance(ctx context.Context, req Request) (*Insight, error) {
	resp, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: 1024,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(req))),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{Provider: e.Name(), Status: apiErr.StatusCode, Err: err}
		}
		return nil, &ProviderError{Provider: e.Name(), Err: err}
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	if content == "" {
		return nil, &ProviderError{Provider: e.Name(), Err: fmt.Errorf("no content in response")}
	}
	return ParseInsight(content)
}
