package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolateEnv blanks every variable the loader reads so host settings cannot leak in.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnv, "")
	for _, legacy := range legacyEnv {
		t.Setenv(legacy, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "config.json", `{}`)

	cfg, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Fatalf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Search.MaxResults != 10 {
		t.Fatalf("expected default max results 10, got %d", cfg.Search.MaxResults)
	}
	if len(cfg.Search.DuckDuckGo.Endpoints) != 3 {
		t.Fatalf("expected 3 duckduckgo endpoints, got %v", cfg.Search.DuckDuckGo.Endpoints)
	}
	if cfg.LLM.Pro.MaxTokens != 2000 || cfg.LLM.Flash.Temperature != 0.2 {
		t.Fatalf("unexpected model profiles: %+v / %+v", cfg.LLM.Pro, cfg.LLM.Flash)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_YAMLFileReplacesSlices(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "config.yaml", `
search:
  max_results: 4
  duckduckgo:
    endpoints:
      - https://html.duckduckgo.com/html/
llm:
  provider: OpenAI
`)

	cfg, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Search.MaxResults != 4 {
		t.Fatalf("expected max results 4, got %d", cfg.Search.MaxResults)
	}
	if len(cfg.Search.DuckDuckGo.Endpoints) != 1 {
		t.Fatalf("expected file endpoints to replace defaults, got %v", cfg.Search.DuckDuckGo.Endpoints)
	}
	if cfg.LLM.Provider != "openai" {
		t.Fatalf("expected normalized provider openai, got %q", cfg.LLM.Provider)
	}
	if cfg.Search.DuckDuckGo.TimeoutSeconds != 15 {
		t.Fatalf("expected untouched timeout default, got %d", cfg.Search.DuckDuckGo.TimeoutSeconds)
	}
}

func TestLoad_PrefixedEnvOverridesFile(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "config.json", `{"server": {"port": 8100}}`)
	t.Setenv("RESEARCHBOT_SERVER_PORT", "9100")
	t.Setenv("RESEARCHBOT_LOGGER_LEVEL", "debug")

	cfg, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Fatalf("expected env port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Logger.Level != "debug" {
		t.Fatalf("expected env log level debug, got %q", cfg.Logger.Level)
	}
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "config.json", `{}`)
	t.Setenv("SERPER_API_KEY", "serper-legacy")
	t.Setenv("GOOGLE_API_KEY", " google-legacy ")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MAX_SEARCH_RESULTS", "5")

	cfg, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Search.Serper.APIKey != "serper-legacy" {
		t.Fatalf("expected serper key from SERPER_API_KEY, got %q", cfg.Search.Serper.APIKey)
	}
	if cfg.LLM.APIKey != "google-legacy" {
		t.Fatalf("expected trimmed llm key from GOOGLE_API_KEY, got %q", cfg.LLM.APIKey)
	}
	if cfg.Search.MaxResults != 5 {
		t.Fatalf("expected max results 5, got %d", cfg.Search.MaxResults)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Server.AllowedOrigins) != len(want) {
		t.Fatalf("expected origins %v, got %v", want, cfg.Server.AllowedOrigins)
	}
	for i := range want {
		if cfg.Server.AllowedOrigins[i] != want[i] {
			t.Fatalf("expected origins %v, got %v", want, cfg.Server.AllowedOrigins)
		}
	}
}

func TestLoad_PrefixedEnvBeatsLegacyName(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "config.json", `{}`)
	t.Setenv("SERPER_API_KEY", "legacy")
	t.Setenv("RESEARCHBOT_SEARCH_SERPER_API_KEY", "prefixed")

	cfg, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Search.Serper.APIKey != "prefixed" {
		t.Fatalf("expected prefixed key to win, got %q", cfg.Search.Serper.APIKey)
	}
}

func TestLoad_UsesConfigPathEnvWhenPathEmpty(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "from-env.json", `{"server": {"port": 29999}}`)
	t.Setenv(ConfigPathEnv, path)

	cfg, err := NewLoader().Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != 29999 {
		t.Fatalf("expected port 29999, got %d", cfg.Server.Port)
	}
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "absent.json")

	if _, err := NewLoader().Load(path); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("loader must not create config files, stat err: %v", err)
	}
}

func TestSave_WritesLoadableYAML(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	seed := DefaultConfig()
	seed.Search.Serper.APIKey = "saved-key"
	seed.Classifier.Search = []string{"lookup"}
	if err := SaveToFile(seed, path); err != nil {
		t.Fatalf("save config: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat saved config: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	cfg, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("load saved config: %v", err)
	}
	if cfg.Search.Serper.APIKey != "saved-key" {
		t.Fatalf("expected saved serper key, got %q", cfg.Search.Serper.APIKey)
	}
	if len(cfg.Classifier.Search) != 1 || cfg.Classifier.Search[0] != "lookup" {
		t.Fatalf("expected classifier override, got %v", cfg.Classifier.Search)
	}
}

func TestSave_RejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	if err := SaveToFile(DefaultConfig(), path); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}
