package enhance

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const GeminiModel = "gemini-2.0-flash"

// GeminiEnhancer uses the Gemini API.
type GeminiEnhancer struct {
	client *genai.Client
	model  string
}

// NewGeminiEnhancer builds a Gemini client. An empty baseURL uses the public endpoint.
func NewGeminiEnhancer(ctx context.Context, apiKey, baseURL, model string) (*GeminiEnhancer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiEnhancer{client: client, model: model}, nil
}

func (e *GeminiEnhancer) Name() string {
	return "gemini"
}

func (e *GeminiEnhancer) Enhance(ctx context.Context, req Request) (*Insight, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.3),
	}
	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(BuildPrompt(req)), cfg)
	if err != nil {
		return nil, &ProviderError{Provider: e.Name(), Status: geminiStatus(err), Err: err}
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, &ProviderError{Provider: e.Name(), Err: fmt.Errorf("no candidates in response")}
	}

	var content string
	if resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				content += part.Text
			}
		}
	}
	if content == "" {
		return nil, &ProviderError{Provider: e.Name(), Err: fmt.Errorf("no content in response")}
	}
	return ParseInsight(content)
}

func geminiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code
	}
	return 0
}
