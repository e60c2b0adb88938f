// Package search implements the web search fallback chain: an ordered list of
// independent providers, a heuristic quality filter, and an orchestrator that
// stops at the first acceptable result.
package search

import (
	"context"
	"errors"
	"net"
)

// FailureKind classifies why a provider could not produce a usable result.
type FailureKind string

const (
	FailureNone          FailureKind = ""
	FailureNotConfigured FailureKind = "not_configured"
	FailureAuth          FailureKind = "auth"
	FailureRateLimited   FailureKind = "rate_limited"
	FailureHTTPStatus    FailureKind = "http_status"
	FailureTimeout       FailureKind = "timeout"
	FailureTransport     FailureKind = "transport"
	FailureParse         FailureKind = "parse"
	FailureNoResults     FailureKind = "no_results"
)

// Result is what a provider returns. Text is always human-readable, including
// on failure, where it carries a recognizable failure phrase.
type Result struct {
	Text    string      `json:"text"`
	Failure FailureKind `json:"failure,omitempty"`
}

// Failed reports whether the provider flagged the result as a failure.
func (r Result) Failed() bool {
	return r.Failure != FailureNone
}

// Provider abstracts a concrete search backend. Search must never panic or
// return transport errors to the caller: every failure is encoded in Result.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) Result
}

func failed(kind FailureKind, text string) Result {
	return Result{Text: text, Failure: kind}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
