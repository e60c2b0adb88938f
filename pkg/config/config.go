// Package config provides configuration management for researchbot.
// It uses Viper to merge, in increasing priority:
// - built-in defaults
// - a JSON or YAML config file
// - environment variables (RESEARCHBOT_ prefix, plus a few legacy names)
//
// Configuration is read once at startup and treated as read-only afterwards.
package config

import (
	"researchbot/pkg/logger"
)

// Config represents the complete researchbot configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" json:"server" yaml:"server"`
	Search     SearchConfig     `mapstructure:"search" json:"search" yaml:"search"`
	LLM        LLMConfig        `mapstructure:"llm" json:"llm" yaml:"llm"`
	Classifier ClassifierConfig `mapstructure:"classifier" json:"classifier" yaml:"classifier"`
	Logger     LoggerConfig     `mapstructure:"logger" json:"logger" yaml:"logger"`
}

// ServerConfig configures the HTTP gateway.
type ServerConfig struct {
	Host                   string   `mapstructure:"host" json:"host" yaml:"host"`
	Port                   int      `mapstructure:"port" json:"port" yaml:"port"`
	AllowedOrigins         []string `mapstructure:"allowed_origins" json:"allowed_origins" yaml:"allowed_origins"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`
}

// SearchConfig configures the search provider chain.
type SearchConfig struct {
	// MaxResults caps the number of items each provider returns.
	MaxResults int              `mapstructure:"max_results" json:"max_results" yaml:"max_results"`
	UserAgent  string           `mapstructure:"user_agent" json:"user_agent" yaml:"user_agent"`
	Serper     SerperConfig     `mapstructure:"serper" json:"serper" yaml:"serper"`
	DuckDuckGo DuckDuckGoConfig `mapstructure:"duckduckgo" json:"duckduckgo" yaml:"duckduckgo"`
	Wikipedia  WikipediaConfig  `mapstructure:"wikipedia" json:"wikipedia" yaml:"wikipedia"`
}

// SerperConfig configures the Serper (Google results) API provider.
type SerperConfig struct {
	APIKey         string `mapstructure:"api_key" json:"api_key" yaml:"api_key"`
	URL            string `mapstructure:"url" json:"url" yaml:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`
}

// DuckDuckGoConfig configures the HTML scraping provider.
type DuckDuckGoConfig struct {
	Endpoints      []string `mapstructure:"endpoints" json:"endpoints" yaml:"endpoints"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`
}

// WikipediaConfig configures the encyclopedia summary provider.
type WikipediaConfig struct {
	URL            string `mapstructure:"url" json:"url" yaml:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`
}

// LLMConfig configures the text-completion backend.
type LLMConfig struct {
	Provider       string       `mapstructure:"provider" json:"provider" yaml:"provider"`
	APIKey         string       `mapstructure:"api_key" json:"api_key" yaml:"api_key"`
	APIBase        string       `mapstructure:"api_base" json:"api_base" yaml:"api_base"`
	TimeoutSeconds int          `mapstructure:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`
	Flash          ModelProfile `mapstructure:"flash" json:"flash" yaml:"flash"`
	Pro            ModelProfile `mapstructure:"pro" json:"pro" yaml:"pro"`
}

// ModelProfile is a model plus its sampling settings.
type ModelProfile struct {
	Model       string  `mapstructure:"model" json:"model" yaml:"model"`
	Temperature float64 `mapstructure:"temperature" json:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens" yaml:"max_tokens"`
}

// ClassifierConfig overrides the keyword vocabularies. Empty lists keep the built-in ones.
type ClassifierConfig struct {
	Search      []string `mapstructure:"search" json:"search" yaml:"search"`
	Math        []string `mapstructure:"math" json:"math" yaml:"math"`
	MathSymbols []string `mapstructure:"math_symbols" json:"math_symbols" yaml:"math_symbols"`
	Reasoning   []string `mapstructure:"reasoning" json:"reasoning" yaml:"reasoning"`
}

// LoggerConfig configures logging.
type LoggerConfig struct {
	Level       string `mapstructure:"level" json:"level" yaml:"level"`
	OutputPath  string `mapstructure:"output_path" json:"output_path" yaml:"output_path"`
	MaxSize     int    `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" json:"compress" yaml:"compress"`
	Development bool   `mapstructure:"development" json:"development" yaml:"development"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	logDefaults := logger.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Host:                   "0.0.0.0",
			Port:                   8000,
			AllowedOrigins:         []string{"*"},
			ShutdownTimeoutSeconds: 10,
		},
		Search: SearchConfig{
			MaxResults: 10,
			UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			Serper: SerperConfig{
				URL:            "https://google.serper.dev/search",
				TimeoutSeconds: 10,
			},
			DuckDuckGo: DuckDuckGoConfig{
				Endpoints: []string{
					"https://duckduckgo.com/html/",
					"https://html.duckduckgo.com/html/",
					"https://duckduckgo.com/lite/",
				},
				TimeoutSeconds: 15,
			},
			Wikipedia: WikipediaConfig{
				URL:            "https://en.wikipedia.org/api/rest_v1/page/summary/",
				TimeoutSeconds: 10,
			},
		},
		LLM: LLMConfig{
			Provider:       "gemini",
			TimeoutSeconds: 60,
			Flash: ModelProfile{
				Model:       "gemini-2.0-flash-exp",
				Temperature: 0.2,
				MaxTokens:   1000,
			},
			Pro: ModelProfile{
				Model:       "gemini-2.0-flash-exp",
				Temperature: 0.3,
				MaxTokens:   2000,
			},
		},
		Classifier: ClassifierConfig{
			Search:      []string{},
			Math:        []string{},
			MathSymbols: []string{},
			Reasoning:   []string{},
		},
		Logger: LoggerConfig{
			Level:      string(logDefaults.Level),
			OutputPath: logDefaults.OutputPath,
			MaxSize:    logDefaults.MaxSize,
			MaxBackups: logDefaults.MaxBackups,
			MaxAge:     logDefaults.MaxAge,
			Compress:   logDefaults.Compress,
		},
	}
}
