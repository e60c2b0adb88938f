package search

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

type stubProvider struct {
	name   string
	result Result
	calls  int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(ctx context.Context, query string) Result {
	s.calls++
	return s.result
}

var cleanResult = Result{Text: strings.Repeat("Go is an open source programming language. ", 3)[:120]}

func TestPerformSearch_FallsBackToSecondProvider(t *testing.T) {
	first := &stubProvider{name: "first", result: failed(FailureAuth, "Serper API authentication failed. Please check your API key.")}
	second := &stubProvider{name: "second", result: cleanResult}
	third := &stubProvider{name: "third", result: cleanResult}

	out := NewOrchestrator(nil, first, second, third).PerformSearch(context.Background(), "golang")

	if !out.Succeeded {
		t.Fatalf("expected success, got %+v", out)
	}
	if out.ProviderUsed != "second" {
		t.Fatalf("expected provider second, got %q", out.ProviderUsed)
	}
	if len(out.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(out.Attempts))
	}
	if third.calls != 0 {
		t.Fatalf("no provider may run after a success, third ran %d times", third.calls)
	}
	if out.FinalResult != cleanResult.Text {
		t.Fatalf("expected final result from second provider, got %q", out.FinalResult)
	}
	if out.FailureReason != "" {
		t.Fatalf("expected no failure reason, got %q", out.FailureReason)
	}

	a := out.Attempts[0]
	if a.Succeeded || a.Position != 1 || a.Failure != FailureAuth {
		t.Fatalf("unexpected first attempt: %+v", a)
	}
	if !strings.HasPrefix(a.FailureReason, "auth: ") {
		t.Fatalf("expected failure reason to carry the kind, got %q", a.FailureReason)
	}
	if last := out.Attempts[1]; !last.Succeeded || last.Position != 2 {
		t.Fatalf("expected last attempt to be the success, got %+v", last)
	}
}

func TestPerformSearch_AllProvidersFail(t *testing.T) {
	providers := []*stubProvider{
		{name: SerperName, result: failed(FailureNotConfigured, "Serper API key not configured. Please set SERPER_API_KEY environment variable.")},
		{name: DuckDuckGoName, result: failed(FailureTransport, "DuckDuckGo search unavailable. All endpoints failed or returned processing status.")},
		{name: WikipediaName, result: failed(FailureHTTPStatus, "Wikipedia API error: HTTP 404")},
	}
	list := make([]Provider, len(providers))
	for i, p := range providers {
		list[i] = p
	}

	out := NewOrchestrator(nil, list...).PerformSearch(context.Background(), "anything")

	if out.Succeeded {
		t.Fatalf("expected failure, got %+v", out)
	}
	if !strings.Contains(out.FinalResult, "unavailable") {
		t.Fatalf("expected apology mentioning unavailable, got %q", out.FinalResult)
	}
	if len(out.Attempts) != len(providers) {
		t.Fatalf("expected %d attempts, got %d", len(providers), len(out.Attempts))
	}
	for _, p := range providers {
		if p.calls != 1 {
			t.Fatalf("provider %s invoked %d times, want 1", p.name, p.calls)
		}
	}
	want := "All search providers failed. Attempted: Serper API, DuckDuckGo, Wikipedia"
	if out.FailureReason != want {
		t.Fatalf("expected failure reason %q, got %q", want, out.FailureReason)
	}
	if out.ProviderUsed != "" {
		t.Fatalf("expected no provider used, got %q", out.ProviderUsed)
	}
}

func TestPerformSearch_RejectsFlaggedFailureWithCleanText(t *testing.T) {
	// Long enough and free of denylisted phrases, but the provider flagged it.
	flagged := &stubProvider{name: "ddg", result: failed(FailureNoResults,
		"DuckDuckGo search completed for 'otters' but no results could be extracted.")}
	fallback := &stubProvider{name: "wiki", result: cleanResult}

	out := NewOrchestrator(nil, flagged, fallback).PerformSearch(context.Background(), "otters")
	if out.ProviderUsed != "wiki" {
		t.Fatalf("expected flagged result to be rejected, used %q", out.ProviderUsed)
	}
}

type panickingProvider struct{}

func (panickingProvider) Name() string { return "broken" }

func (panickingProvider) Search(ctx context.Context, query string) Result {
	var seen map[string]bool
	seen[query] = true
	return Result{}
}

func TestPerformSearch_ContinuesAfterProviderPanic(t *testing.T) {
	fallback := &stubProvider{name: "wiki", result: cleanResult}

	out := NewOrchestrator(nil, panickingProvider{}, fallback).PerformSearch(context.Background(), "golang")

	if !out.Succeeded || out.ProviderUsed != "wiki" {
		t.Fatalf("expected fallback to answer, got %+v", out)
	}
	if fallback.calls != 1 {
		t.Fatalf("expected fallback to run once, ran %d times", fallback.calls)
	}
	first := out.Attempts[0]
	if first.Succeeded || first.Failure != FailureTransport {
		t.Fatalf("expected transport failure for panicking provider, got %+v", first)
	}
	if !strings.HasPrefix(first.RawResult, "broken error: panic: ") {
		t.Fatalf("unexpected panic text %q", first.RawResult)
	}
}

func TestPerformSearch_RejectsUnflaggedDenylistedText(t *testing.T) {
	noisy := &stubProvider{name: "noisy", result: Result{Text: "An error occurred while talking to the upstream search engine, sorry."}}
	fallback := &stubProvider{name: "fallback", result: cleanResult}

	out := NewOrchestrator(nil, noisy, fallback).PerformSearch(context.Background(), "q")
	if out.ProviderUsed != "fallback" {
		t.Fatalf("expected quality filter to reject denylisted text, used %q", out.ProviderUsed)
	}
	if !strings.HasPrefix(out.Attempts[0].FailureReason, "rejected: ") {
		t.Fatalf("expected rejected reason, got %q", out.Attempts[0].FailureReason)
	}
}

func TestPerformSearch_IsIdempotent(t *testing.T) {
	o := NewOrchestrator(nil,
		&stubProvider{name: "a", result: failed(FailureTimeout, "Serper API request timed out.")},
		&stubProvider{name: "b", result: cleanResult},
	)

	first := o.PerformSearch(context.Background(), "same query")
	second := o.PerformSearch(context.Background(), "same query")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical outcomes:\n%+v\n%+v", first, second)
	}
}

func TestPerformSearch_NoProviders(t *testing.T) {
	out := NewOrchestrator(nil).PerformSearch(context.Background(), "q")
	if out.Succeeded || len(out.Attempts) != 0 || out.FinalResult != Apology {
		t.Fatalf("unexpected outcome with no providers: %+v", out)
	}
}

func TestFirstSuccess(t *testing.T) {
	var ran []int
	step := func(n int, ok bool) Step[int] {
		return func(context.Context) (int, bool) {
			ran = append(ran, n)
			return n, ok
		}
	}

	values, ok := FirstSuccess(context.Background(), []Step[int]{
		step(1, false), step(2, true), step(3, true),
	})
	if !ok {
		t.Fatalf("expected success")
	}
	if !reflect.DeepEqual(values, []int{1, 2}) || !reflect.DeepEqual(ran, []int{1, 2}) {
		t.Fatalf("expected to stop at second step, values=%v ran=%v", values, ran)
	}

	values, ok = FirstSuccess[int](context.Background(), nil)
	if ok || len(values) != 0 {
		t.Fatalf("expected empty failure, got %v %v", values, ok)
	}
}

func TestProviderNames(t *testing.T) {
	o := NewOrchestrator(nil, &stubProvider{name: "x"}, &stubProvider{name: "y"})
	if got := o.ProviderNames(); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("unexpected names: %v", got)
	}
}
