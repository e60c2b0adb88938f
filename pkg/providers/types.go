// Package providers implements the text-completion capability behind the
// response composer. Provider-specific wire formats live behind the Adaptor
// interface; callers only see UnifiedRequest and UnifiedResponse.
package providers

import (
	"context"
	"fmt"
	"net/http"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// UnifiedRequest is a provider-agnostic completion request.
type UnifiedRequest struct {
	Model       string           `json:"model"`
	Messages    []UnifiedMessage `json:"messages"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Temperature float64          `json:"temperature,omitempty"`
	TopP        float64          `json:"top_p,omitempty"`
	User        string           `json:"user,omitempty"`
}

// UnifiedMessage is a single prompt message.
type UnifiedMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UnifiedResponse is a provider-agnostic completion result.
type UnifiedResponse struct {
	ID           string        `json:"id"`
	Model        string        `json:"model"`
	Content      string        `json:"content"`
	FinishReason string        `json:"finish_reason"` // "stop", "length", "content_filter", ...
	Usage        *UnifiedUsage `json:"usage,omitempty"`
}

// UnifiedUsage reports token usage.
type UnifiedUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// RelayInfo carries per-call metadata through the adaptor pipeline.
type RelayInfo struct {
	RequestID    string            // Unique request identifier
	ProviderName string            // Name of the provider (e.g., "gemini", "openai")
	APIKey       string            // API key for authentication
	APIBase      string            // Base URL for API endpoints
	Model        string            // Model identifier
	Timeout      int               // Timeout in seconds
	Headers      map[string]string // Additional HTTP headers
}

// ErrorResponse is a non-200 answer from a provider.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Type       string `json:"type,omitempty"`
	Code       string `json:"code,omitempty"`
}

// Error implements the error interface.
func (e *ErrorResponse) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, msg)
}

// Adaptor is implemented once per provider wire format.
type Adaptor interface {
	// Init validates and defaults the RelayInfo.
	Init(info *RelayInfo) error

	// GetRequestURL returns the full URL for the API request.
	GetRequestURL(info *RelayInfo) (string, error)

	// SetupRequestHeader sets up HTTP headers for the request.
	SetupRequestHeader(req *http.Request, info *RelayInfo) error

	// ConvertRequest converts a UnifiedRequest to the marshaled provider body.
	ConvertRequest(unified *UnifiedRequest, info *RelayInfo) ([]byte, error)

	// DoRequest performs the HTTP request and returns the raw response body.
	// Non-200 answers are returned as *ErrorResponse.
	DoRequest(ctx context.Context, req *http.Request) ([]byte, error)

	// DoResponse parses the provider response body.
	DoResponse(body []byte, info *RelayInfo) (*UnifiedResponse, error)
}
