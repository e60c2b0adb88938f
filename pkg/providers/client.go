package providers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"researchbot/pkg/logger"
)

// Client makes completion calls through a registered adaptor.
type Client struct {
	adaptor Adaptor
	info    RelayInfo
	log     *logger.Logger
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithLogger attaches a logger; the default discards output.
func WithLogger(log *logger.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient resolves providerName in the global registry and initialises the
// adaptor with info.
func NewClient(providerName string, info *RelayInfo, opts ...ClientOption) (*Client, error) {
	adaptor, err := GetAdaptor(providerName)
	if err != nil {
		return nil, err
	}

	relay := *info
	relay.ProviderName = providerName
	if err := adaptor.Init(&relay); err != nil {
		return nil, fmt.Errorf("initializing adaptor: %w", err)
	}

	c := &Client{adaptor: adaptor, info: relay, log: logger.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Provider returns the provider name the client was built for.
func (c *Client) Provider() string {
	return c.info.ProviderName
}

// Chat performs one completion call. req.Model overrides the client's
// default model for this call only.
func (c *Client) Chat(ctx context.Context, req *UnifiedRequest) (*UnifiedResponse, error) {
	info := c.info
	info.RequestID = uuid.NewString()
	if req.Model != "" {
		info.Model = req.Model
	}
	start := time.Now()

	reqBody, err := c.adaptor.ConvertRequest(req, &info)
	if err != nil {
		return nil, fmt.Errorf("converting request: %w", err)
	}

	url, err := c.adaptor.GetRequestURL(&info)
	if err != nil {
		return nil, fmt.Errorf("getting request URL: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("X-Request-ID", info.RequestID)

	if err := c.adaptor.SetupRequestHeader(httpReq, &info); err != nil {
		return nil, fmt.Errorf("setting up request headers: %w", err)
	}

	respBody, err := c.adaptor.DoRequest(ctx, httpReq)
	if err != nil {
		c.log.Warn("Completion request failed",
			zap.String("request_id", info.RequestID),
			zap.String("provider", info.ProviderName),
			zap.String("model", info.Model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("executing request: %w", err)
	}

	resp, err := c.adaptor.DoResponse(respBody, &info)
	if err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	fields := []zap.Field{
		zap.String("request_id", info.RequestID),
		zap.String("provider", info.ProviderName),
		zap.String("model", info.Model),
		zap.String("finish_reason", resp.FinishReason),
		zap.Duration("elapsed", time.Since(start)),
	}
	if resp.Usage != nil {
		fields = append(fields, zap.Int("total_tokens", resp.Usage.TotalTokens))
	}
	c.log.Debug("Completion finished", fields...)

	return resp, nil
}
