package search

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"researchbot/pkg/logger"
)

// DuckDuckGoName is the display name of the DuckDuckGo provider.
const DuckDuckGoName = "DuckDuckGo"

// DefaultDuckDuckGoEndpoints are tried in order until one answers 200.
var DefaultDuckDuckGoEndpoints = []string{
	"https://duckduckgo.com/html/",
	"https://html.duckduckgo.com/html/",
	"https://duckduckgo.com/lite/",
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// extractionStrategy is one way of pulling (title, snippet) pairs out of a
// result page. Group indices are 1-based; zero means the strategy has none.
type extractionStrategy struct {
	pattern *regexp.Regexp
	title   int
	snippet int
	link    int
}

// Strategies run in order; the first one yielding any candidate wins.
// The optional snippet groups in the last two follow a lazy .*? and so rarely capture.
var extractionStrategies = []extractionStrategy{
	{
		pattern: regexp.MustCompile(`(?is)<a[^>]*class="result__a"[^>]*>(.*?)</a>.*?<a[^>]*class="result__snippet"[^>]*>(.*?)</a>`),
		title:   1,
		snippet: 2,
	},
	{
		pattern: regexp.MustCompile(`(?is)<a[^>]*href="([^"]*)"[^>]*class="[^"]*result[^"]*"[^>]*>(.*?)</a>.*?(?:<div[^>]*class="[^"]*snippet[^"]*"[^>]*>(.*?)</div>)?`),
		title:   2,
		snippet: 3,
		link:    1,
	},
	{
		pattern: regexp.MustCompile(`(?is)<h2[^>]*><a[^>]*>(.*?)</a></h2>.*?(?:<div[^>]*>(.*?)</div>)?`),
		title:   1,
		snippet: 2,
	},
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// DuckDuckGoOptions configures DuckDuckGoProvider.
type DuckDuckGoOptions struct {
	Endpoints  []string
	MaxResults int
	Timeout    time.Duration
	UserAgent  string
	Logger     *logger.Logger
}

// DuckDuckGoProvider scrapes DuckDuckGo's HTML result pages. It needs no API key.
type DuckDuckGoProvider struct {
	endpoints  []string
	maxResults int
	userAgent  string
	client     *http.Client
	log        *logger.Logger
}

// NewDuckDuckGoProvider creates a DuckDuckGo scraping provider.
func NewDuckDuckGoProvider(opts DuckDuckGoOptions) *DuckDuckGoProvider {
	if len(opts.Endpoints) == 0 {
		opts.Endpoints = DefaultDuckDuckGoEndpoints
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &DuckDuckGoProvider{
		endpoints:  append([]string(nil), opts.Endpoints...),
		maxResults: opts.MaxResults,
		userAgent:  opts.UserAgent,
		client:     &http.Client{Timeout: opts.Timeout},
		log:        opts.Logger,
	}
}

func (p *DuckDuckGoProvider) Name() string { return DuckDuckGoName }

func (p *DuckDuckGoProvider) Search(ctx context.Context, query string) Result {
	for _, endpoint := range p.endpoints {
		page, status, err := p.fetch(ctx, endpoint, query)
		switch {
		case err != nil:
			p.log.Debug("DuckDuckGo endpoint failed",
				zap.String("endpoint", endpoint), zap.Error(err))
		case status == http.StatusOK:
			return p.extractResults(page, query)
		default:
			// 202 means the query is still being processed; any other status is
			// treated the same way: move on to the next endpoint.
			p.log.Debug("DuckDuckGo endpoint skipped",
				zap.String("endpoint", endpoint), zap.Int("status", status))
		}
	}

	return failed(FailureTransport,
		"DuckDuckGo search unavailable. All endpoints failed or returned processing status.")
}

func (p *DuckDuckGoProvider) fetch(ctx context.Context, endpoint, query string) (string, int, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", 0, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return string(body), resp.StatusCode, nil
}

func (p *DuckDuckGoProvider) extractResults(page, query string) Result {
	for _, strategy := range extractionStrategies {
		items := p.applyStrategy(strategy, page)
		if len(items) > 0 {
			return Result{Text: strings.Join(items, "\n\n")}
		}
	}

	return failed(FailureNoResults,
		fmt.Sprintf("DuckDuckGo search completed for '%s' but no results could be extracted.", query))
}

func (p *DuckDuckGoProvider) applyStrategy(s extractionStrategy, page string) []string {
	var items []string
	for _, m := range s.pattern.FindAllStringSubmatch(page, -1) {
		title := cleanHTMLText(group(m, s.title))
		if utf8.RuneCountInString(title) <= 5 || strings.EqualFold(title, "web") {
			continue
		}

		var b strings.Builder
		b.WriteString("Title: ")
		b.WriteString(title)
		if snippet := cleanHTMLText(group(m, s.snippet)); utf8.RuneCountInString(snippet) > 10 {
			b.WriteString("\nSnippet: ")
			b.WriteString(snippet)
		}
		if link := decodeDuckDuckGoURL(group(m, s.link)); strings.HasPrefix(link, "http") {
			b.WriteString("\nLink: ")
			b.WriteString(link)
		}
		items = append(items, b.String())

		if len(items) >= p.maxResults {
			break
		}
	}
	return items
}

func group(m []string, idx int) string {
	if idx <= 0 || idx >= len(m) {
		return ""
	}
	return m[idx]
}

// decodeDuckDuckGoURL unwraps DuckDuckGo redirect links (…?uddg=<target>).
func decodeDuckDuckGoURL(raw string) string {
	if u, err := url.QueryUnescape(raw); err == nil {
		raw = u
	}
	if idx := strings.Index(raw, "uddg="); idx >= 0 {
		raw = raw[idx+5:]
		if amp := strings.Index(raw, "&"); amp >= 0 {
			raw = raw[:amp]
		}
	}
	return strings.TrimSpace(raw)
}

// cleanHTMLText strips tags, decodes entities and collapses whitespace.
func cleanHTMLText(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
