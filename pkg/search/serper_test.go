package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newSerperServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-API-KEY"); got != "test-key" {
			t.Errorf("expected X-API-KEY test-key, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected JSON content type, got %q", got)
		}
		var req serperRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Q != "golang" || req.Num != 2 {
			t.Errorf("unexpected request payload: %+v", req)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSerperSearch_FormatsResultsWithKnowledgeGraphFirst(t *testing.T) {
	srv := newSerperServer(t, http.StatusOK, `{
  "knowledgeGraph": {"title": "Go", "description": "Programming language designed at Google."},
  "organic": [
    {"title": " The Go Programming Language ", "snippet": "Build simple, secure, scalable systems.", "link": "https://go.dev"},
    {"title": "No snippet", "snippet": "", "link": "https://example.com/skip"},
    {"title": "Third", "snippet": "Beyond the cap.", "link": "https://example.com/3"}
  ]
}`)

	p := NewSerperProvider(SerperOptions{APIKey: "test-key", URL: srv.URL, MaxResults: 2})
	res := p.Search(context.Background(), "golang")

	if res.Failed() {
		t.Fatalf("expected success, got %+v", res)
	}
	want := "Knowledge Graph: Go\nProgramming language designed at Google.\n\n" +
		"Title: The Go Programming Language\nSnippet: Build simple, secure, scalable systems.\nLink: https://go.dev"
	if res.Text != want {
		t.Fatalf("unexpected text:\n%s\nwant:\n%s", res.Text, want)
	}
	if !IsAcceptable(res.Text) {
		t.Fatalf("expected formatted result to pass the quality filter")
	}
}

func TestSerperSearch_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   FailureKind
		text   string
	}{
		{http.StatusUnauthorized, FailureAuth, "Serper API authentication failed. Please check your API key."},
		{http.StatusTooManyRequests, FailureRateLimited, "Serper API rate limit exceeded. Please try again later."},
		{http.StatusBadGateway, FailureHTTPStatus, "Serper API error: HTTP 502"},
	}

	for _, tt := range tests {
		srv := newSerperServer(t, tt.status, `{}`)
		p := NewSerperProvider(SerperOptions{APIKey: "test-key", URL: srv.URL, MaxResults: 2})

		res := p.Search(context.Background(), "golang")
		if res.Failure != tt.kind || res.Text != tt.text {
			t.Fatalf("status %d: got %+v, want kind %s text %q", tt.status, res, tt.kind, tt.text)
		}
		if IsAcceptable(res.Text) {
			t.Fatalf("status %d: failure text must not pass the quality filter", tt.status)
		}
	}
}

func TestSerperSearch_NoResults(t *testing.T) {
	srv := newSerperServer(t, http.StatusOK, `{"organic": []}`)
	p := NewSerperProvider(SerperOptions{APIKey: "test-key", URL: srv.URL, MaxResults: 2})

	res := p.Search(context.Background(), "golang")
	if res.Failure != FailureNoResults {
		t.Fatalf("expected no_results, got %+v", res)
	}
	if res.Text != "No results found for 'golang' using Serper API." {
		t.Fatalf("unexpected text %q", res.Text)
	}
}

func TestSerperSearch_NotConfigured(t *testing.T) {
	p := NewSerperProvider(SerperOptions{APIKey: "  ", URL: "http://127.0.0.1:0"})
	res := p.Search(context.Background(), "golang")
	if res.Failure != FailureNotConfigured || !strings.Contains(res.Text, "not configured") {
		t.Fatalf("expected not configured failure, got %+v", res)
	}
}

func TestSerperSearch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	p := NewSerperProvider(SerperOptions{APIKey: "k", URL: srv.URL, Timeout: 50 * time.Millisecond})
	res := p.Search(context.Background(), "golang")
	if res.Failure != FailureTimeout || res.Text != "Serper API request timed out." {
		t.Fatalf("expected timeout failure, got %+v", res)
	}
}

func TestSerperSearch_MalformedJSON(t *testing.T) {
	srv := newSerperServer(t, http.StatusOK, `{not json`)
	p := NewSerperProvider(SerperOptions{APIKey: "test-key", URL: srv.URL, MaxResults: 2})

	res := p.Search(context.Background(), "golang")
	if res.Failure != FailureParse || !strings.HasPrefix(res.Text, "Serper API error: ") {
		t.Fatalf("expected parse failure, got %+v", res)
	}
}
