package config

import (
	"fmt"
	"net/url"
	"strings"

	"researchbot/pkg/logger"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Has reports whether an error was recorded for field.
func (e ValidationErrors) Has(field string) bool {
	for _, err := range e {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration. Credentials are not checked
// here; components that need a key fail when they are constructed.
func (v *Validator) Validate(cfg *Config) error {
	v.errors = make(ValidationErrors, 0)

	v.validateServer(&cfg.Server)
	v.validateSearch(&cfg.Search)
	v.validateLLM(&cfg.LLM)
	v.validateLogger(&cfg.Logger)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

func (v *Validator) validateServer(cfg *ServerConfig) {
	if cfg.Port < 1 || cfg.Port > 65535 {
		v.addError("server.port", "port must be between 1 and 65535")
	}
	if strings.TrimSpace(cfg.Host) == "" {
		v.addError("server.host", "host is required")
	}
	if cfg.ShutdownTimeoutSeconds < 1 {
		v.addError("server.shutdown_timeout_seconds", "shutdown_timeout_seconds must be at least 1")
	}
}

func (v *Validator) validateSearch(cfg *SearchConfig) {
	if cfg.MaxResults < 1 || cfg.MaxResults > 100 {
		v.addError("search.max_results", "max_results must be between 1 and 100")
	}

	v.validateURL("search.serper.url", cfg.Serper.URL)
	if cfg.Serper.TimeoutSeconds < 1 {
		v.addError("search.serper.timeout_seconds", "timeout_seconds must be at least 1")
	}

	if len(cfg.DuckDuckGo.Endpoints) == 0 {
		v.addError("search.duckduckgo.endpoints", "at least one endpoint is required")
	}
	for i, endpoint := range cfg.DuckDuckGo.Endpoints {
		v.validateURL(fmt.Sprintf("search.duckduckgo.endpoints[%d]", i), endpoint)
	}
	if cfg.DuckDuckGo.TimeoutSeconds < 1 {
		v.addError("search.duckduckgo.timeout_seconds", "timeout_seconds must be at least 1")
	}

	v.validateURL("search.wikipedia.url", cfg.Wikipedia.URL)
	if cfg.Wikipedia.TimeoutSeconds < 1 {
		v.addError("search.wikipedia.timeout_seconds", "timeout_seconds must be at least 1")
	}
}

func (v *Validator) validateLLM(cfg *LLMConfig) {
	if strings.TrimSpace(cfg.Provider) == "" {
		v.addError("llm.provider", "provider is required")
	}
	if cfg.APIBase != "" {
		v.validateURL("llm.api_base", cfg.APIBase)
	}
	if cfg.TimeoutSeconds < 1 {
		v.addError("llm.timeout_seconds", "timeout_seconds must be at least 1")
	}
	v.validateProfile("llm.flash", cfg.Flash)
	v.validateProfile("llm.pro", cfg.Pro)
}

func (v *Validator) validateProfile(prefix string, p ModelProfile) {
	if strings.TrimSpace(p.Model) == "" {
		v.addError(prefix+".model", "model is required")
	}
	if p.Temperature < 0 || p.Temperature > 2 {
		v.addError(prefix+".temperature", "temperature must be between 0 and 2")
	}
	if p.MaxTokens < 1 {
		v.addError(prefix+".max_tokens", "max_tokens must be at least 1")
	}
}

func (v *Validator) validateLogger(cfg *LoggerConfig) {
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		v.addError("logger.level", "level must be one of: debug, info, warn, error, fatal")
	}
}

func (v *Validator) validateURL(field, raw string) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		v.addError(field, "must be an absolute http(s) URL")
	}
}

// addError adds a validation error.
func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// ValidateConfig is a convenience function to validate a configuration.
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
