package converter

import (
	"encoding/json"
	"fmt"
	"strings"

	"researchbot/pkg/providers"
)

// GeminiConverter handles the Gemini generateContent format.
type GeminiConverter struct {
	BaseConverter
}

// NewGeminiConverter creates a Gemini format converter.
func NewGeminiConverter() *GeminiConverter {
	return &GeminiConverter{}
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"` // "user" or "model"
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            float64  `json:"topP,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
			Role  string       `json:"role"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
	ResponseID   string `json:"responseId"`
}

// ToProviderRequest converts a UnifiedRequest to Gemini format.
func (c *GeminiConverter) ToProviderRequest(unified *providers.UnifiedRequest) (any, error) {
	systemMsgs, conversationMsgs := c.ExtractSystemMessages(unified.Messages)
	if len(conversationMsgs) == 0 {
		return nil, fmt.Errorf("gemini request needs at least one non-system message")
	}

	req := geminiRequest{}
	if systemText := c.MergeSystemMessages(systemMsgs); systemText != "" {
		req.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: systemText}},
		}
	}

	req.Contents = make([]geminiContent, 0, len(conversationMsgs))
	for _, msg := range conversationMsgs {
		role := msg.Role
		if role == providers.RoleAssistant {
			role = "model"
		} else {
			role = "user"
		}
		req.Contents = append(req.Contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}

	// Temperature 0 is meaningful, so it is always sent once any knob is set.
	if unified.Temperature > 0 || unified.TopP > 0 || unified.MaxTokens > 0 {
		temperature := unified.Temperature
		req.GenerationConfig = &geminiGenerationConfig{
			Temperature:     &temperature,
			TopP:            unified.TopP,
			MaxOutputTokens: unified.MaxTokens,
		}
	}

	return req, nil
}

// FromProviderResponse converts a Gemini response body to UnifiedResponse.
func (c *GeminiConverter) FromProviderResponse(body []byte) (*providers.UnifiedResponse, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling Gemini response: %w", err)
	}

	unified := &providers.UnifiedResponse{
		ID:    resp.ResponseID,
		Model: resp.ModelVersion,
		Usage: &providers.UnifiedUsage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		},
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		unified.FinishReason = "stop"
		return unified, nil
	}

	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case "STOP", "":
		unified.FinishReason = "stop"
	case "MAX_TOKENS":
		unified.FinishReason = "length"
	case "SAFETY", "RECITATION":
		unified.FinishReason = "content_filter"
	default:
		unified.FinishReason = strings.ToLower(candidate.FinishReason)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	unified.Content = sb.String()

	return unified, nil
}
