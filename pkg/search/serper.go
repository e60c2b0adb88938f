package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// SerperName is the display name of the Serper provider.
	SerperName       = "Serper API"
	defaultSerperURL = "https://google.serper.dev/search"
)

// SerperOptions configures SerperProvider.
type SerperOptions struct {
	APIKey     string
	URL        string
	MaxResults int
	Timeout    time.Duration
}

// SerperProvider searches Google results through the Serper API.
type SerperProvider struct {
	apiKey     string
	url        string
	maxResults int
	client     *http.Client
}

// NewSerperProvider creates a Serper provider. An empty key is allowed; every
// search then reports FailureNotConfigured.
func NewSerperProvider(opts SerperOptions) *SerperProvider {
	if opts.URL == "" {
		opts.URL = defaultSerperURL
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &SerperProvider{
		apiKey:     strings.TrimSpace(opts.APIKey),
		url:        opts.URL,
		maxResults: opts.MaxResults,
		client:     &http.Client{Timeout: opts.Timeout},
	}
}

func (p *SerperProvider) Name() string { return SerperName }

// Configured reports whether an API key is set.
func (p *SerperProvider) Configured() bool { return p.apiKey != "" }

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic"`
	KnowledgeGraph *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"knowledgeGraph"`
}

func (p *SerperProvider) Search(ctx context.Context, query string) Result {
	if !p.Configured() {
		return failed(FailureNotConfigured,
			"Serper API key not configured. Please set SERPER_API_KEY environment variable.")
	}

	payload, err := json.Marshal(serperRequest{Q: query, Num: p.maxResults})
	if err != nil {
		return failed(FailureParse, fmt.Sprintf("Serper API error: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return failed(FailureTransport, fmt.Sprintf("Serper API error: %v", err))
	}
	req.Header.Set("X-API-KEY", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return failed(FailureTimeout, "Serper API request timed out.")
		}
		return failed(FailureTransport, fmt.Sprintf("Serper API error: %v", err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return failed(FailureAuth, "Serper API authentication failed. Please check your API key.")
	case http.StatusTooManyRequests:
		return failed(FailureRateLimited, "Serper API rate limit exceeded. Please try again later.")
	default:
		return failed(FailureHTTPStatus, fmt.Sprintf("Serper API error: HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return failed(FailureTimeout, "Serper API request timed out.")
		}
		return failed(FailureTransport, fmt.Sprintf("Serper API error: %v", err))
	}

	var parsed serperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return failed(FailureParse, fmt.Sprintf("Serper API error: %v", err))
	}

	return p.format(query, parsed)
}

func (p *SerperProvider) format(query string, parsed serperResponse) Result {
	items := make([]string, 0, p.maxResults+1)

	if kg := parsed.KnowledgeGraph; kg != nil {
		title := strings.TrimSpace(kg.Title)
		desc := strings.TrimSpace(kg.Description)
		if title != "" && desc != "" {
			items = append(items, fmt.Sprintf("Knowledge Graph: %s\n%s", title, desc))
		}
	}

	for i, item := range parsed.Organic {
		// The cap applies to raw organic items, before filtering.
		if i >= p.maxResults {
			break
		}
		title := strings.TrimSpace(item.Title)
		snippet := strings.TrimSpace(item.Snippet)
		if title == "" || snippet == "" {
			continue
		}
		items = append(items, fmt.Sprintf("Title: %s\nSnippet: %s\nLink: %s",
			title, snippet, strings.TrimSpace(item.Link)))
	}

	if len(items) == 0 {
		return failed(FailureNoResults, fmt.Sprintf("No results found for '%s' using Serper API.", query))
	}
	return Result{Text: strings.Join(items, "\n\n")}
}
