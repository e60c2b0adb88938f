package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"researchbot/pkg/fileutil"
)

// ConfigPathEnv overrides the config file location when no path is given.
const ConfigPathEnv = "RESEARCHBOT_CONFIG_FILE"

// legacyEnv maps config keys to the unprefixed variable names older deployments use.
var legacyEnv = map[string]string{
	"search.serper.api_key":  "SERPER_API_KEY",
	"search.max_results":     "MAX_SEARCH_RESULTS",
	"llm.api_key":            "GOOGLE_API_KEY",
	"server.port":            "PORT",
	"server.allowed_origins": "ALLOWED_ORIGINS",
}

// Loader handles configuration loading with Viper.
type Loader struct {
	viper *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	// No SetConfigType: both config.json and config.yaml are picked up.
	v.SetConfigName("config")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".researchbot"))
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("RESEARCHBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := "RESEARCHBOT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, legacy)
	}

	return &Loader{viper: v}
}

// Load reads defaults, the config file and the environment, in that order of priority.
// If configPath is empty, RESEARCHBOT_CONFIG_FILE and then the default search paths are used.
// A missing file is only an error when a path was given explicitly.
func (l *Loader) Load(configPath string) (*Config, error) {
	if err := setDefaults(l.viper, DefaultConfig()); err != nil {
		return nil, err
	}

	if strings.TrimSpace(configPath) == "" {
		configPath = strings.TrimSpace(os.Getenv(ConfigPathEnv))
	}
	explicitPath := strings.TrimSpace(configPath) != ""
	if explicitPath {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		l.viper.SetConfigFile(abs)
	}

	if err := l.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitPath || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Decode into a zero value: every key already carries a default, and decoding
	// over pre-filled slices would merge them element-wise.
	cfg := &Config{}
	if err := l.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	normalize(cfg)

	return cfg, nil
}

// GetConfigPath returns the path of the loaded config file, if any.
func (l *Loader) GetConfigPath() string {
	return l.viper.ConfigFileUsed()
}

// Save writes cfg to path as JSON or YAML depending on the extension.
func (l *Loader) Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	case ".json", "":
		data, err = json.MarshalIndent(cfg, "", "  ")
	default:
		return fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	// API keys may be present.
	if err := fileutil.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SaveToFile saves config without an explicit Loader.
func SaveToFile(cfg *Config, path string) error {
	return NewLoader().Save(path, cfg)
}

// GetConfigHome returns the default config directory.
func GetConfigHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".researchbot"), nil
}

// setDefaults registers every leaf of cfg as a viper default so that
// AutomaticEnv can override keys that never appear in a config file.
func setDefaults(v *viper.Viper, cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("decoding defaults: %w", err)
	}
	walkDefaults(v, "", tree)
	return nil
}

func walkDefaults(v *viper.Viper, prefix string, node map[string]any) {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if child, ok := value.(map[string]any); ok {
			walkDefaults(v, full, child)
			continue
		}
		v.SetDefault(full, value)
	}
}

func normalize(cfg *Config) {
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.LLM.APIKey = strings.TrimSpace(cfg.LLM.APIKey)
	cfg.Search.Serper.APIKey = strings.TrimSpace(cfg.Search.Serper.APIKey)
	cfg.Logger.Level = strings.ToLower(strings.TrimSpace(cfg.Logger.Level))

	origins := cfg.Server.AllowedOrigins[:0]
	for _, o := range cfg.Server.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.Server.AllowedOrigins = origins
}
