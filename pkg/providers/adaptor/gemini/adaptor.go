// Package gemini provides the Google Gemini generateContent adaptor.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"researchbot/pkg/providers"
	"researchbot/pkg/providers/converter"
)

// DefaultAPIBase is the public Gemini endpoint.
const DefaultAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// Adaptor implements providers.Adaptor for Gemini.
type Adaptor struct {
	converter  *converter.GeminiConverter
	httpClient *http.Client
}

// New creates a Gemini adaptor.
func New() *Adaptor {
	return &Adaptor{
		converter:  converter.NewGeminiConverter(),
		httpClient: &http.Client{},
	}
}

// Init validates the key and applies defaults.
func (a *Adaptor) Init(info *providers.RelayInfo) error {
	if info.APIKey == "" {
		return fmt.Errorf("API key is required for Gemini")
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

// GetRequestURL returns {base}/models/{model}:generateContent.
func (a *Adaptor) GetRequestURL(info *providers.RelayInfo) (string, error) {
	model := info.Model
	if model == "" {
		return "", fmt.Errorf("model is required for Gemini")
	}

	// "google/gemini-2.0-flash" -> "gemini-2.0-flash"
	if idx := strings.Index(model, "/"); idx != -1 {
		model = model[idx+1:]
	}

	return fmt.Sprintf("%s/models/%s:generateContent", info.APIBase, url.PathEscape(model)), nil
}

// SetupRequestHeader sets the content type and API key header.
func (a *Adaptor) SetupRequestHeader(req *http.Request, info *providers.RelayInfo) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", info.APIKey)
	for key, value := range info.Headers {
		req.Header.Set(key, value)
	}
	return nil
}

// ConvertRequest marshals the Gemini request body.
func (a *Adaptor) ConvertRequest(unified *providers.UnifiedRequest, info *providers.RelayInfo) ([]byte, error) {
	providerReq, err := a.converter.ToProviderRequest(unified)
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

// DoResponse parses the Gemini response body.
func (a *Adaptor) DoResponse(body []byte, info *providers.RelayInfo) (*providers.UnifiedResponse, error) {
	unified, err := a.converter.FromProviderResponse(body)
	if err != nil {
		return nil, err
	}
	if unified.Model == "" {
		unified.Model = info.Model
	}
	if unified.ID == "" {
		unified.ID = info.RequestID
	}
	return unified, nil
}

func parseError(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
		return &providers.ErrorResponse{
			StatusCode: statusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	return &providers.ErrorResponse{
		StatusCode: statusCode,
		Message:    errResp.Error.Message,
		Type:       errResp.Error.Status,
		Code:       fmt.Sprintf("%d", errResp.Error.Code),
	}
}

func init() {
	providers.Register("gemini", func() providers.Adaptor {
		return New()
	})
	providers.Register("google", func() providers.Adaptor {
		return New()
	})
}
