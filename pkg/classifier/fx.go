package classifier

import (
	"go.uber.org/fx"

	"researchbot/pkg/config"
)

// Module provides the query classifier for fx.
var Module = fx.Module("classifier",
	fx.Provide(ProvideClassifier),
)

// ProvideClassifier builds a classifier from the built-in vocabulary with
// configured overrides applied.
func ProvideClassifier(cfg *config.Config) *Classifier {
	return New(DefaultVocabulary().Merge(Vocabulary{
		Search:      cfg.Classifier.Search,
		Math:        cfg.Classifier.Math,
		MathSymbols: cfg.Classifier.MathSymbols,
		Reasoning:   cfg.Classifier.Reasoning,
	}))
}
