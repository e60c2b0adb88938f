package search

import (
	"time"

	"go.uber.org/fx"

	"researchbot/pkg/config"
	"researchbot/pkg/logger"
)

// Module provides the search orchestrator for fx.
var Module = fx.Module("search",
	fx.Provide(ProvideOrchestrator),
)

// BuildProviders creates the provider chain from configuration in priority
// order: Serper, DuckDuckGo, Wikipedia.
func BuildProviders(cfg *config.Config, log *logger.Logger) []Provider {
	s := cfg.Search
	return []Provider{
		NewSerperProvider(SerperOptions{
			APIKey:     s.Serper.APIKey,
			URL:        s.Serper.URL,
			MaxResults: s.MaxResults,
			Timeout:    seconds(s.Serper.TimeoutSeconds),
		}),
		NewDuckDuckGoProvider(DuckDuckGoOptions{
			Endpoints:  s.DuckDuckGo.Endpoints,
			MaxResults: s.MaxResults,
			Timeout:    seconds(s.DuckDuckGo.TimeoutSeconds),
			UserAgent:  s.UserAgent,
			Logger:     log.Named("duckduckgo"),
		}),
		NewWikipediaProvider(WikipediaOptions{
			URL:       s.Wikipedia.URL,
			Timeout:   seconds(s.Wikipedia.TimeoutSeconds),
			UserAgent: s.UserAgent,
		}),
	}
}

// ProvideOrchestrator builds the orchestrator over the configured providers.
func ProvideOrchestrator(cfg *config.Config, log *logger.Logger) *Orchestrator {
	if cfg.Search.Serper.APIKey == "" {
		log.Warn("Serper API key not configured; searches fall back to DuckDuckGo and Wikipedia")
	}
	return NewOrchestrator(log, BuildProviders(cfg, log)...)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
