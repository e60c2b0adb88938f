package chains

import (
	"go.uber.org/fx"

	"researchbot/pkg/config"
	"researchbot/pkg/logger"
	"researchbot/pkg/providers"
	_ "researchbot/pkg/providers/init" // Register completion adaptors
)

// Module provides the response composer for fx.
var Module = fx.Module("chains",
	fx.Provide(ProvideComposer),
)

// ProvideComposer wires the completion client and configured model profiles.
func ProvideComposer(client *providers.Client, cfg *config.Config, log *logger.Logger) *Composer {
	return NewComposer(client, ProfilesFromConfig(cfg.LLM), log)
}

// ProfilesFromConfig maps the llm section onto Profiles.
func ProfilesFromConfig(llm config.LLMConfig) Profiles {
	return Profiles{
		Flash: Profile(llm.Flash),
		Pro:   Profile(llm.Pro),
	}
}
