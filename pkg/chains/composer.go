// Package chains turns a classified query and its gathered context into one
// completion call and a tagged Response.
package chains

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"researchbot/pkg/classifier"
	"researchbot/pkg/logger"
	"researchbot/pkg/providers"
)

// ErrorPrefix starts the summary of every failed composition.
const ErrorPrefix = "Error processing query: "

// ErrEmptyCompletion is returned when the model answers with no text.
var ErrEmptyCompletion = errors.New("completion returned no text")

// Completer is the text-completion capability. *providers.Client satisfies it.
type Completer interface {
	Chat(ctx context.Context, req *providers.UnifiedRequest) (*providers.UnifiedResponse, error)
}

// Profile is one model setting.
type Profile struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Profiles holds the two model settings. Research and reasoning run on Pro,
// everything else on Flash.
type Profiles struct {
	Flash Profile
	Pro   Profile
}

// DefaultProfiles returns the stock Gemini settings.
func DefaultProfiles() Profiles {
	return Profiles{
		Flash: Profile{Model: "gemini-2.0-flash-exp", Temperature: 0.2, MaxTokens: 1000},
		Pro:   Profile{Model: "gemini-2.0-flash-exp", Temperature: 0.3, MaxTokens: 2000},
	}
}

// Composer selects a strategy and performs exactly one completion per call.
type Composer struct {
	completer Completer
	profiles  Profiles
	log       *logger.Logger
}

// NewComposer creates a composer. A nil log discards output.
func NewComposer(completer Completer, profiles Profiles, log *logger.Logger) *Composer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Composer{completer: completer, profiles: profiles, log: log.Named("composer")}
}

// Select picks the strategy for a query: search with context, then
// reasoning, then math, then plain Q&A.
func Select(query string, tags classifier.Tags, composed *Context) (Strategy, Vars) {
	switch {
	case tags.NeedsSearch && !composed.Empty():
		return StrategyResearch, Vars{Question: query, SearchContext: strings.TrimSpace(composed.Text())}
	case tags.NeedsReasoning:
		return StrategyReasoning, Vars{Question: query}
	case tags.NeedsMath && !tags.NeedsSearch:
		return StrategyMath, Vars{Question: query, MathExpression: classifier.ExtractExpression(query)}
	default:
		return StrategyQA, Vars{Question: query}
	}
}

// Compose answers query using the strategy chosen by Select. Completion
// failures are reported as an error Response, never as a Go error.
func (c *Composer) Compose(ctx context.Context, query string, tags classifier.Tags, composed *Context) Response {
	strategy, vars := Select(query, tags, composed)
	c.log.Info("Composing response",
		zap.String("strategy", string(strategy)),
		zap.Bool("needs_search", tags.NeedsSearch),
		zap.Bool("needs_math", tags.NeedsMath),
		zap.Bool("needs_reasoning", tags.NeedsReasoning))

	text, err := c.Run(ctx, strategy, vars)
	if err != nil {
		return Failure(query, ErrorPrefix, err)
	}
	return Success(query, text, strategy.ChainName(), strategy, composed.Tools())
}

// Summarize condenses content with the summary strategy.
func (c *Composer) Summarize(ctx context.Context, content string) Response {
	text, err := c.Run(ctx, StrategySummary, Vars{Content: content})
	if err != nil {
		return Failure(content, ErrorPrefix, err)
	}
	return Success(content, text, StrategySummary.ChainName(), StrategySummary, nil)
}

// Run renders the strategy's prompt and performs one completion call.
func (c *Composer) Run(ctx context.Context, strategy Strategy, vars Vars) (string, error) {
	system, human, err := render(strategy, vars)
	if err != nil {
		return "", err
	}

	profile := c.profiles.Flash
	if strategy.usesPro() {
		profile = c.profiles.Pro
	}

	start := time.Now()
	resp, err := c.completer.Chat(ctx, &providers.UnifiedRequest{
		Model: profile.Model,
		Messages: []providers.UnifiedMessage{
			{Role: providers.RoleSystem, Content: system},
			{Role: providers.RoleUser, Content: human},
		},
		Temperature: profile.Temperature,
		MaxTokens:   profile.MaxTokens,
	})
	if err != nil {
		c.log.Error("Completion failed",
			zap.String("strategy", string(strategy)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", fmt.Errorf("%s chain: %w", strategy, err)
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", fmt.Errorf("%s chain: %w", strategy, ErrEmptyCompletion)
	}

	c.log.Debug("Completion succeeded",
		zap.String("strategy", string(strategy)),
		zap.String("model", profile.Model),
		zap.Duration("elapsed", time.Since(start)))
	return text, nil
}
