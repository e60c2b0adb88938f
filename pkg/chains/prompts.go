package chains

import (
	"fmt"
	"strings"
	"text/template"
)

// Strategy names one prompt template family.
type Strategy string

const (
	StrategyResearch  Strategy = "research"
	StrategyReasoning Strategy = "reasoning"
	StrategyMath      Strategy = "math"
	StrategySummary   Strategy = "summary"
	StrategyQA        Strategy = "qa"
)

// ChainName is the label reported to clients for the strategy.
func (s Strategy) ChainName() string {
	switch s {
	case StrategyResearch:
		return "Research Chain (with context)"
	case StrategyReasoning:
		return "Reasoning Chain"
	case StrategyMath:
		return "Math Chain"
	case StrategySummary:
		return "Summary Chain"
	default:
		return "Q&A Chain"
	}
}

// usesPro reports whether the strategy runs on the larger model profile.
func (s Strategy) usesPro() bool {
	return s == StrategyResearch || s == StrategyReasoning
}

// Vars are the values a prompt may reference.
type Vars struct {
	Question       string
	SearchContext  string
	MathExpression string
	Content        string
}

type prompt struct {
	system string
	human  *template.Template
}

func newPrompt(name, system, human string) prompt {
	return prompt{
		system: system,
		human:  template.Must(template.New(name).Parse(human)),
	}
}

var prompts = map[Strategy]prompt{
	StrategyQA: newPrompt("qa",
		"You are a helpful AI research assistant. Provide accurate, informative, and well-structured responses to user questions.",
		"{{.Question}}"),
	StrategyResearch: newPrompt("research",
		"You are a research assistant. Using the provided search results and context, answer the user's question comprehensively. If the search results don't contain enough information, acknowledge this and provide the best possible answer based on the available data.",
		"Search Results:\n{{.SearchContext}}\n\nUser Question: {{.Question}}\n\nPlease provide a comprehensive answer based on the search results above."),
	StrategyMath: newPrompt("math",
		"You are a mathematical assistant. Solve the given math problem and show your work.",
		"Solve this math problem: {{.MathExpression}}"),
	StrategySummary: newPrompt("summary",
		"You are a research assistant. Create a concise and informative summary of the provided content.",
		"Content to summarize: {{.Content}}\n\nProvide a clear and concise summary:"),
	StrategyReasoning: newPrompt("reasoning",
		"You are an analytical research assistant. Break down complex questions into steps and provide detailed reasoning for your conclusions.",
		"Question: {{.Question}}\n\nPlease analyze this step by step:\n1. Identify the key components of the question\n2. Break down the problem into smaller parts\n3. Address each part systematically\n4. Provide a comprehensive conclusion"),
}

// render returns the system and human messages for s.
func render(s Strategy, vars Vars) (system, human string, err error) {
	p, ok := prompts[s]
	if !ok {
		return "", "", fmt.Errorf("unknown strategy %q", s)
	}
	var sb strings.Builder
	if err := p.human.Execute(&sb, vars); err != nil {
		return "", "", fmt.Errorf("render %s prompt: %w", s, err)
	}
	return p.system, sb.String(), nil
}
