package enhance

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	GroqBaseURL = "https://api.groq.com/openai/v1"
	GroqModel   = "llama-3.3-70b-versatile"
	OpenAIModel = "gpt-4o-mini"
)

// OpenAIEnhancer talks to any OpenAI-compatible chat completions endpoint, Groq included.
type OpenAIEnhancer struct {
	client openai.Client
	name   string
	model  string
}

func NewOpenAIEnhancer(name, apiKey, baseURL, model string) *OpenAIEnhancer {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIEnhancer{
		client: openai.NewClient(opts...),
		name:   name,
		model:  model,
	}
}

func (e *OpenAIEnhancer) Name() string {
	return e.name
}

func (e *OpenAIEnhancer) Enhance(ctx context.Context, req Request) (*Insight, error) {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(BuildPrompt(req)),
		},
		Temperature:         openai.Float(0.3),
		MaxCompletionTokens: openai.Int(1024),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, e.wrap(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &ProviderError{Provider: e.name, Err: fmt.Errorf("no content in response")}
	}
	return ParseInsight(resp.Choices[0].Message.Content)
}

func (e *OpenAIEnhancer) wrap(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{Provider: e.name, Status: apiErr.StatusCode, Err: err}
	}
	return &ProviderError{Provider: e.name, Err: err}
}
