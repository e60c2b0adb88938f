// Package classifier tags free-text research questions with the capabilities
// they need: web search, arithmetic and multi-step reasoning.
//
// Classification is a keyword heuristic: case-insensitive substring matching
// against a vocabulary table. It is pure and never fails.
package classifier

import (
	"regexp"
	"strings"
)

// Tags records which capabilities a query needs. The tags are independent;
// a query may carry any combination, including none.
type Tags struct {
	NeedsSearch    bool `json:"needs_search"`
	NeedsMath      bool `json:"needs_math"`
	NeedsReasoning bool `json:"needs_reasoning"`
}

// Vocabulary is the trigger table used for classification.
type Vocabulary struct {
	Search []string
	Math   []string
	// MathSymbols are matched against the raw query, not the lowercased one.
	MathSymbols []string
	Reasoning   []string
}

// DefaultVocabulary returns the built-in trigger table.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Search: []string{
			"search", "find", "latest", "current", "news", "what is",
			"who is", "when was", "recent", "today", "update",
		},
		Math:        []string{"calculate", "math", "solve", "compute"},
		MathSymbols: []string{"+", "-", "*", "/", "="},
		Reasoning: []string{
			"analyze", "compare", "explain", "why", "how", "step by step", "break down",
		},
	}
}

// Merge returns v with every non-empty list in override replacing its counterpart.
func (v Vocabulary) Merge(override Vocabulary) Vocabulary {
	if len(override.Search) > 0 {
		v.Search = override.Search
	}
	if len(override.Math) > 0 {
		v.Math = override.Math
	}
	if len(override.MathSymbols) > 0 {
		v.MathSymbols = override.MathSymbols
	}
	if len(override.Reasoning) > 0 {
		v.Reasoning = override.Reasoning
	}
	return v
}

// expressionPattern is deliberately permissive: the first run of digits,
// operators, parentheses, dots or whitespace. A whitespace-only run counts.
var expressionPattern = regexp.MustCompile(`[\d+\-*/().\s]+`)

// Classifier applies a Vocabulary to queries.
type Classifier struct {
	search      []string
	math        []string
	mathSymbols []string
	reasoning   []string
}

// New creates a classifier for vocab. Keyword lists are lowercased once here.
func New(vocab Vocabulary) *Classifier {
	return &Classifier{
		search:      lowerAll(vocab.Search),
		math:        lowerAll(vocab.Math),
		mathSymbols: append([]string(nil), vocab.MathSymbols...),
		reasoning:   lowerAll(vocab.Reasoning),
	}
}

// Classify tags query. It never fails; an empty query yields no tags.
func (c *Classifier) Classify(query string) Tags {
	lower := strings.ToLower(query)
	return Tags{
		NeedsSearch:    containsAny(lower, c.search),
		NeedsMath:      containsAny(query, c.mathSymbols) || containsAny(lower, c.math),
		NeedsReasoning: containsAny(lower, c.reasoning),
	}
}

// ExtractExpression returns the first expression-like run in query, or the
// whole query when there is none. The match is not trimmed or validated.
func ExtractExpression(query string) string {
	if m, ok := FindExpression(query); ok {
		return m
	}
	return query
}

// FindExpression reports the first expression-like run in query, if any.
func FindExpression(query string) (string, bool) {
	m := expressionPattern.FindString(query)
	return m, m != ""
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
