// Package research runs the per-query pipeline: classify, gather tool
// context, compose one answer.
package research

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"researchbot/pkg/calculator"
	"researchbot/pkg/chains"
	"researchbot/pkg/classifier"
	"researchbot/pkg/logger"
	"researchbot/pkg/search"
)

const (
	// ParallelChain is reported for ProcessParallel responses.
	ParallelChain = "Parallel Chains (Q&A + Reasoning)"

	parallelErrorPrefix = "Error in parallel chain execution: "
)

// Searcher runs the provider fallback chain.
type Searcher interface {
	PerformSearch(ctx context.Context, query string) search.Outcome
}

// Service answers research queries.
type Service struct {
	classifier *classifier.Classifier
	searcher   Searcher
	composer   *chains.Composer
	log        *logger.Logger
}

// NewService creates a Service. A nil log discards output.
func NewService(cls *classifier.Classifier, searcher Searcher, composer *chains.Composer, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		classifier: cls,
		searcher:   searcher,
		composer:   composer,
		log:        log.Named("research"),
	}
}

// Classify exposes the classifier's tags for query.
func (s *Service) Classify(query string) classifier.Tags {
	return s.classifier.Classify(query)
}

// Search runs the provider chain alone.
func (s *Service) Search(ctx context.Context, query string) search.Outcome {
	return s.searcher.PerformSearch(ctx, query)
}

// Process answers query. Options are accepted for forward compatibility and
// currently only logged.
func (s *Service) Process(ctx context.Context, query string, options map[string]any) chains.Response {
	start := time.Now()
	tags := s.classifier.Classify(query)
	log := s.log.WithFields(zap.String("query", query))
	log.Info("Processing query",
		zap.Bool("needs_search", tags.NeedsSearch),
		zap.Bool("needs_math", tags.NeedsMath),
		zap.Bool("needs_reasoning", tags.NeedsReasoning),
		zap.Int("options", len(options)))

	composed := s.Gather(ctx, query, tags)
	resp := s.composer.Compose(ctx, query, tags, composed)
	log.Info("Query processed",
		zap.Bool("ok", resp.OK()),
		zap.String("chain", resp.ChainUsed),
		zap.Strings("tools_used", resp.ToolsUsed),
		zap.Duration("elapsed", time.Since(start)))
	return resp
}

// Gather runs the tools the tags call for and returns their contributions:
// the search outcome's final result, then the calculator's description of
// the first expression in query.
func (s *Service) Gather(ctx context.Context, query string, tags classifier.Tags) *chains.Context {
	composed := &chains.Context{}

	if tags.NeedsSearch {
		outcome := s.searcher.PerformSearch(ctx, query)
		composed.Add(chains.TagSearch, outcome.FinalResult)
		s.log.Debug("Search finished",
			zap.String("query", query),
			zap.Bool("succeeded", outcome.Succeeded),
			zap.String("provider", outcome.ProviderUsed),
			zap.Int("attempts", len(outcome.Attempts)))
	}

	if tags.NeedsMath {
		if expr, ok := classifier.FindExpression(query); ok {
			composed.Add(chains.TagMath, calculator.Describe(expr))
		}
	}

	return composed
}

// ProcessParallel runs the Q&A and reasoning strategies concurrently and
// joins their answers. Either failure fails the whole response.
func (s *Service) ProcessParallel(ctx context.Context, query string) chains.Response {
	var direct, analysis string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := s.composer.Run(gctx, chains.StrategyQA, chains.Vars{Question: query})
		direct = text
		return err
	})
	g.Go(func() error {
		text, err := s.composer.Run(gctx, chains.StrategyReasoning, chains.Vars{Question: query})
		analysis = text
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Warn("Parallel chains failed", zap.String("query", query), zap.Error(err))
		return chains.Failure(query, parallelErrorPrefix, err)
	}

	summary := fmt.Sprintf("Direct Answer:\n%s\n\nDetailed Analysis:\n%s", direct, analysis)
	return chains.Success(query, summary, ParallelChain, "", nil)
}

// Summarize condenses content with the summary strategy.
func (s *Service) Summarize(ctx context.Context, content string) chains.Response {
	return s.composer.Summarize(ctx, content)
}
