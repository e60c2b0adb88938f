package converter

import (
	"encoding/json"
	"fmt"

	"researchbot/pkg/providers"
)

// OpenAIConverter handles the OpenAI chat completions format, which most
// compatible gateways also accept.
type OpenAIConverter struct {
	BaseConverter
}

// NewOpenAIConverter creates an OpenAI format converter.
func NewOpenAIConverter() *OpenAIConverter {
	return &OpenAIConverter{}
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
	TopP        float64         `json:"top_p,omitempty"`
	User        string          `json:"user,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *providers.UnifiedUsage `json:"usage,omitempty"`
}

// ToProviderRequest converts a UnifiedRequest to OpenAI format.
func (c *OpenAIConverter) ToProviderRequest(unified *providers.UnifiedRequest) (any, error) {
	if len(unified.Messages) == 0 {
		return nil, fmt.Errorf("openai request needs at least one message")
	}

	req := openAIRequest{
		Model:       unified.Model,
		MaxTokens:   unified.MaxTokens,
		Temperature: unified.Temperature,
		TopP:        unified.TopP,
		User:        unified.User,
		Messages:    make([]openAIMessage, len(unified.Messages)),
	}
	for i, msg := range unified.Messages {
		req.Messages[i] = openAIMessage{Role: msg.Role, Content: msg.Content}
	}

	return req, nil
}

// FromProviderResponse converts an OpenAI response body to UnifiedResponse.
func (c *OpenAIConverter) FromProviderResponse(body []byte) (*providers.UnifiedResponse, error) {
	var resp openAIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling OpenAI response: %w", err)
	}

	unified := &providers.UnifiedResponse{
		ID:    resp.ID,
		Model: resp.Model,
		Usage: resp.Usage,
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := resp.Choices[0]
	unified.Content = choice.Message.Content
	unified.FinishReason = choice.FinishReason

	return unified, nil
}
