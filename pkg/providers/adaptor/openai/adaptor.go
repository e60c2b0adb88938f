// Package openai provides the OpenAI-compatible chat completions adaptor.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"researchbot/pkg/providers"
	"researchbot/pkg/providers/converter"
)

// DefaultAPIBase is the public OpenAI endpoint.
const DefaultAPIBase = "https://api.openai.com/v1"

// Adaptor implements providers.Adaptor for OpenAI-compatible APIs.
type Adaptor struct {
	converter  *converter.OpenAIConverter
	httpClient *http.Client
}

// New creates an OpenAI adaptor.
func New() *Adaptor {
	return &Adaptor{
		converter:  converter.NewOpenAIConverter(),
		httpClient: &http.Client{},
	}
}

// Init validates the key and applies defaults.
func (a *Adaptor) Init(info *providers.RelayInfo) error {
	if info.APIKey == "" {
		return fmt.Errorf("API key is required for OpenAI")
	}
	if info.APIBase == "" {
		info.APIBase = DefaultAPIBase
	}
	info.APIBase = strings.TrimRight(info.APIBase, "/")
	if info.Timeout > 0 {
		a.httpClient.Timeout = time.Duration(info.Timeout) * time.Second
	}
	return nil
}

// GetRequestURL returns {base}/chat/completions.
func (a *Adaptor) GetRequestURL(info *providers.RelayInfo) (string, error) {
	return info.APIBase + "/chat/completions", nil
}

// SetupRequestHeader sets bearer auth.
func (a *Adaptor) SetupRequestHeader(req *http.Request, info *providers.RelayInfo) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+info.APIKey)
	for key, value := range info.Headers {
		req.Header.Set(key, value)
	}
	return nil
}

// ConvertRequest marshals the chat completions body.
func (a *Adaptor) ConvertRequest(unified *providers.UnifiedRequest, info *providers.RelayInfo) ([]byte, error) {
	req := *unified
	if req.Model == "" {
		req.Model = info.Model
	}

	providerReq, err := a.converter.ToProviderRequest(&req)
	if err != nil {
		return nil, fmt.Errorf("converting request: %w", err)
	}

	data, err := json.Marshal(providerReq)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	return data, nil
}

// DoRequest performs the HTTP request and returns the raw response body.
func (a *Adaptor) DoRequest(ctx context.Context, req *http.Request) ([]byte, error) {
	resp, err := a.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseError(resp.StatusCode, body)
	}
	return body, nil
}

// DoResponse parses the chat completions body.
func (a *Adaptor) DoResponse(body []byte, info *providers.RelayInfo) (*providers.UnifiedResponse, error) {
	return a.converter.FromProviderResponse(body)
}

func parseError(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    any    `json:"code"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
		return &providers.ErrorResponse{
			StatusCode: statusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	code := ""
	if errResp.Error.Code != nil {
		code = fmt.Sprint(errResp.Error.Code)
	}
	return &providers.ErrorResponse{
		StatusCode: statusCode,
		Message:    errResp.Error.Message,
		Type:       errResp.Error.Type,
		Code:       code,
	}
}

func init() {
	providers.Register("openai", func() providers.Adaptor {
		return New()
	})
}
