package research

import (
	"go.uber.org/fx"

	"researchbot/pkg/chains"
	"researchbot/pkg/classifier"
	"researchbot/pkg/logger"
	"researchbot/pkg/search"
)

// Module provides the research service for fx.
var Module = fx.Module("research",
	fx.Provide(ProvideService),
)

// ProvideService wires the pipeline stages together.
func ProvideService(cls *classifier.Classifier, orch *search.Orchestrator, composer *chains.Composer, log *logger.Logger) *Service {
	return NewService(cls, orch, composer, log)
}
