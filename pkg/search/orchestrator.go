package search

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"researchbot/pkg/logger"
)

// Apology is returned as the final result when every provider failed.
const Apology = "I am unable to provide you with the latest information because all search services are currently unavailable. The error indicates that search request processing could not be completed.\n\nTo get the latest information, I recommend checking reputable sources directly or trying again later."

// Attempt records one provider invocation.
type Attempt struct {
	Provider      string      `json:"provider"`
	Position      int         `json:"position"`
	RawResult     string      `json:"raw_result"`
	Succeeded     bool        `json:"succeeded"`
	Failure       FailureKind `json:"failure,omitempty"`
	FailureReason string      `json:"failure_reason,omitempty"`
}

// Outcome aggregates every attempt made for one query. Succeeded is true iff
// the last attempt succeeded; no provider runs after a success.
type Outcome struct {
	Query         string    `json:"query"`
	FinalResult   string    `json:"final_result"`
	ProviderUsed  string    `json:"provider_used,omitempty"`
	Succeeded     bool      `json:"succeeded"`
	FailureReason string    `json:"failure_reason,omitempty"`
	Attempts      []Attempt `json:"attempts"`
}

// Step is one candidate in a FirstSuccess run. It reports its value and
// whether that value is acceptable.
type Step[T any] func(ctx context.Context) (T, bool)

// FirstSuccess runs steps in order and stops after the first acceptable one.
// Every produced value is returned, so when ok is true the success is last.
func FirstSuccess[T any](ctx context.Context, steps []Step[T]) (values []T, ok bool) {
	values = make([]T, 0, len(steps))
	for _, step := range steps {
		v, accepted := step(ctx)
		values = append(values, v)
		if accepted {
			return values, true
		}
	}
	return values, false
}

// Orchestrator runs providers in fixed priority order. It holds no mutable
// state and is safe for concurrent use.
type Orchestrator struct {
	providers []Provider
	log       *logger.Logger
}

// NewOrchestrator creates an orchestrator over providers, highest priority first.
func NewOrchestrator(log *logger.Logger, providers ...Provider) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Orchestrator{
		providers: append([]Provider(nil), providers...),
		log:       log.Named("search"),
	}
}

// ProviderNames lists the providers in priority order.
func (o *Orchestrator) ProviderNames() []string {
	names := make([]string, len(o.providers))
	for i, p := range o.providers {
		names[i] = p.Name()
	}
	return names
}

// PerformSearch queries providers sequentially until one returns an acceptable
// result. It never fails: exhaustion yields an apology as the final result.
func (o *Orchestrator) PerformSearch(ctx context.Context, query string) Outcome {
	steps := make([]Step[Attempt], len(o.providers))
	for i, p := range o.providers {
		steps[i] = o.attempt(i+1, p, query)
	}

	attempts, ok := FirstSuccess(ctx, steps)
	outcome := Outcome{
		Query:     query,
		Succeeded: ok,
		Attempts:  attempts,
	}

	if ok {
		last := attempts[len(attempts)-1]
		outcome.FinalResult = last.RawResult
		outcome.ProviderUsed = last.Provider
		return outcome
	}

	names := make([]string, len(attempts))
	for i, a := range attempts {
		names[i] = a.Provider
	}
	outcome.FinalResult = Apology
	outcome.FailureReason = fmt.Sprintf("All search providers failed. Attempted: %s", strings.Join(names, ", "))
	o.log.Warn("All search providers failed",
		zap.String("query", query),
		zap.Strings("attempted", names),
	)
	return outcome
}

func (o *Orchestrator) attempt(position int, p Provider, query string) Step[Attempt] {
	return func(ctx context.Context) (Attempt, bool) {
		start := time.Now()
		res := o.search(ctx, p, query)

		// A provider-flagged failure is rejected even if its message happens
		// to pass the text heuristic.
		ok := !res.Failed() && IsAcceptable(res.Text)

		a := Attempt{
			Provider:  p.Name(),
			Position:  position,
			RawResult: res.Text,
			Succeeded: ok,
			Failure:   res.Failure,
		}
		if !ok {
			a.FailureReason = failureReason(res)
		}

		fields := []zap.Field{
			zap.String("provider", a.Provider),
			zap.Int("position", position),
			zap.Duration("elapsed", time.Since(start)),
		}
		if ok {
			o.log.Debug("Search provider succeeded", fields...)
		} else {
			o.log.Info("Search provider failed",
				append(fields, zap.String("reason", a.FailureReason))...)
		}
		return a, ok
	}
}

// search calls p and turns a panic into a transport failure so the chain
// moves on to the next provider.
func (o *Orchestrator) search(ctx context.Context, p Provider, query string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("Search provider panicked",
				zap.String("provider", p.Name()),
				zap.Any("panic", r),
				zap.Stack("stack"))
			res = failed(FailureTransport, fmt.Sprintf("%s error: panic: %v", p.Name(), r))
		}
	}()
	return p.Search(ctx, query)
}

func failureReason(res Result) string {
	kind := string(res.Failure)
	if kind == "" {
		kind = "rejected"
	}
	text := res.Text
	if utf8.RuneCountInString(text) > 100 {
		text = string([]rune(text)[:100]) + "..."
	}
	return kind + ": " + text
}
