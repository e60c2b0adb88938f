package providers

import (
	"errors"

	"go.uber.org/fx"

	"researchbot/pkg/config"
	"researchbot/pkg/logger"
)

// Module provides the completion client for fx.
var Module = fx.Module("providers",
	fx.Provide(ProvideClient),
)

// ErrMissingAPIKey is returned at startup when no completion key is configured.
var ErrMissingAPIKey = errors.New("llm.api_key is required (set GOOGLE_API_KEY or RESEARCHBOT_LLM_API_KEY)")

// ProvideClient builds the completion client from the llm section. The
// adaptor packages must be registered, normally via providers/init.
func ProvideClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	llm := cfg.LLM
	if llm.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return NewClient(llm.Provider, &RelayInfo{
		APIKey:  llm.APIKey,
		APIBase: llm.APIBase,
		Model:   llm.Flash.Model,
		Timeout: llm.TimeoutSeconds,
	}, WithLogger(log.Named("llm")))
}
