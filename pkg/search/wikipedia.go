package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// WikipediaName is the display name of the Wikipedia provider.
	WikipediaName       = "Wikipedia"
	defaultWikipediaURL = "https://en.wikipedia.org/api/rest_v1/page/summary/"
)

// WikipediaOptions configures WikipediaProvider.
type WikipediaOptions struct {
	// URL is the summary endpoint prefix; the escaped query is appended.
	URL       string
	Timeout   time.Duration
	UserAgent string
}

// WikipediaProvider looks the verbatim query up as an article title.
type WikipediaProvider struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewWikipediaProvider creates a Wikipedia summary provider.
func NewWikipediaProvider(opts WikipediaOptions) *WikipediaProvider {
	if opts.URL == "" {
		opts.URL = defaultWikipediaURL
	}
	if !strings.HasSuffix(opts.URL, "/") {
		opts.URL += "/"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &WikipediaProvider{
		baseURL:   opts.URL,
		userAgent: opts.UserAgent,
		client:    &http.Client{Timeout: opts.Timeout},
	}
}

func (p *WikipediaProvider) Name() string { return WikipediaName }

type wikipediaSummary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

func (p *WikipediaProvider) Search(ctx context.Context, query string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+url.PathEscape(query), nil)
	if err != nil {
		return failed(FailureTransport, fmt.Sprintf("Wikipedia API error: %v", err))
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return failed(FailureTimeout, "Wikipedia API request timed out.")
		}
		return failed(FailureTransport, fmt.Sprintf("Wikipedia API error: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failed(FailureHTTPStatus, fmt.Sprintf("Wikipedia API error: HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failed(FailureTransport, fmt.Sprintf("Wikipedia API error: %v", err))
	}

	var summary wikipediaSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return failed(FailureParse, fmt.Sprintf("Wikipedia API error: %v", err))
	}

	title := strings.TrimSpace(summary.Title)
	extract := strings.TrimSpace(summary.Extract)
	if title == "" || extract == "" {
		return failed(FailureNoResults, fmt.Sprintf("No Wikipedia article found for '%s'.", query))
	}
	return Result{Text: fmt.Sprintf("Wikipedia: %s\n%s", title, extract)}
}
