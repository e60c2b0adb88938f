package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"researchbot/pkg/chains"
	"researchbot/pkg/classifier"
	"researchbot/pkg/config"
	"researchbot/pkg/logger"
	"researchbot/pkg/search"
)

type stubResearcher struct {
	lastQuery   string
	lastOptions map[string]any
	response    chains.Response
}

func (s *stubResearcher) Classify(query string) classifier.Tags {
	return classifier.New(classifier.DefaultVocabulary()).Classify(query)
}

func (s *stubResearcher) Search(ctx context.Context, query string) search.Outcome {
	s.lastQuery = query
	return search.Outcome{Query: query, FinalResult: search.Apology, Attempts: []search.Attempt{}}
}

func (s *stubResearcher) Process(ctx context.Context, query string, options map[string]any) chains.Response {
	s.lastQuery = query
	s.lastOptions = options
	return s.response
}

func (s *stubResearcher) ProcessParallel(ctx context.Context, query string) chains.Response {
	s.lastQuery = query
	return s.response
}

func (s *stubResearcher) Summarize(ctx context.Context, content string) chains.Response {
	s.lastQuery = content
	return s.response
}

func newTestServer(t *testing.T, research *stubResearcher) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	log, err := logger.New(&logger.Config{Level: "error"})
	if err != nil {
		t.Fatal(err)
	}
	return NewServer(cfg, log, research)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal %q: %v", rec.Body.String(), err)
	}
	return payload
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, &stubResearcher{})

	rec := do(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["status"] != "healthy" || body["service"] != ServiceName {
		t.Fatalf("unexpected health payload %v", body)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected CORS header")
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestRootEndpoint(t *testing.T) {
	s := newTestServer(t, &stubResearcher{})

	body := decode(t, do(t, s, http.MethodGet, "/", ""))
	if body["message"] != "AI Research Assistant API" || body["status"] != "running" {
		t.Fatalf("unexpected banner %v", body)
	}
}

func TestQueryEndpoint_Success(t *testing.T) {
	research := &stubResearcher{
		response: chains.Success("What is Go?", "Go is a language.", "Research Chain (with context)", chains.StrategyResearch, []string{"Search"}),
	}
	s := newTestServer(t, research)

	rec := do(t, s, http.MethodPost, "/api/query", `{"query": "  What is Go?  ", "options": {"depth": 2}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if research.lastQuery != "What is Go?" {
		t.Fatalf("expected trimmed query, got %q", research.lastQuery)
	}
	if research.lastOptions["depth"] != float64(2) {
		t.Fatalf("expected options to pass through, got %v", research.lastOptions)
	}

	body := decode(t, rec)
	if body["status"] != "ok" || body["summary"] != "Go is a language." || body["chain_used"] != "Research Chain (with context)" {
		t.Fatalf("unexpected payload %v", body)
	}
	if tools, _ := body["tools_used"].([]any); len(tools) != 1 || tools[0] != "Search" {
		t.Fatalf("unexpected tools_used %v", body["tools_used"])
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("success payload must not carry an error field")
	}
}

func TestQueryEndpoint_CompletionFailure(t *testing.T) {
	research := &stubResearcher{
		response: chains.Failure("hello", chains.ErrorPrefix, errors.New("quota exhausted")),
	}
	s := newTestServer(t, research)

	rec := do(t, s, http.MethodPost, "/api/query", `{"query": "hello"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["status"] != "error" || body["error"] != "quota exhausted" {
		t.Fatalf("unexpected payload %v", body)
	}
	if !strings.HasPrefix(body["summary"].(string), "Error processing query: ") {
		t.Fatalf("unexpected summary %v", body["summary"])
	}
}

func TestQueryEndpoint_RejectsBadInput(t *testing.T) {
	s := newTestServer(t, &stubResearcher{})

	for _, payload := range []string{`{"query": "   "}`, `{}`, `{"query": `} {
		rec := do(t, s, http.MethodPost, "/api/query", payload)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", payload, rec.Code)
		}
		body := decode(t, rec)
		if body["code"] != "invalid_request" || body["request_id"] == "" {
			t.Fatalf("payload %s: unexpected error body %v", payload, body)
		}
	}
}

func TestQueryParallelEndpoint(t *testing.T) {
	research := &stubResearcher{
		response: chains.Success("q", "Direct Answer:\na\n\nDetailed Analysis:\nb", "Parallel Chains (Q&A + Reasoning)", "", nil),
	}
	s := newTestServer(t, research)

	rec := do(t, s, http.MethodPost, "/api/query/parallel", `{"query": "q"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decode(t, rec); body["chain_used"] != "Parallel Chains (Q&A + Reasoning)" {
		t.Fatalf("unexpected payload %v", body)
	}
}

func TestSearchEndpoint(t *testing.T) {
	research := &stubResearcher{}
	s := newTestServer(t, research)

	rec := do(t, s, http.MethodPost, "/api/search", `{"query": "golang"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["query"] != "golang" || body["succeeded"] != false {
		t.Fatalf("unexpected outcome %v", body)
	}
	if !strings.Contains(body["final_result"].(string), "unavailable") {
		t.Fatalf("expected apology, got %v", body["final_result"])
	}
}

func TestClassifyEndpoint(t *testing.T) {
	s := newTestServer(t, &stubResearcher{})

	body := decode(t, do(t, s, http.MethodPost, "/api/classify", `{"query": "Calculate 25 * 4 + 10"}`))
	tags, _ := body["tags"].(map[string]any)
	if tags["needs_math"] != true || tags["needs_search"] != false {
		t.Fatalf("unexpected tags %v", body)
	}
}

func TestSummarizeEndpoint(t *testing.T) {
	research := &stubResearcher{
		response: chains.Success("long text", "short", "Summary Chain", chains.StrategySummary, nil),
	}
	s := newTestServer(t, research)

	if rec := do(t, s, http.MethodPost, "/api/summarize", `{"content": ""}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty content, got %d", rec.Code)
	}

	rec := do(t, s, http.MethodPost, "/api/summarize", `{"content": "long text"}`)
	if rec.Code != http.StatusOK || decode(t, rec)["summary"] != "short" {
		t.Fatalf("unexpected summarize response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t, &stubResearcher{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected caller request id, got %q", got)
	}
}
