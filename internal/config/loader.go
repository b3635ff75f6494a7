package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading
type Loader struct {
	configPath string
}

// NewLoader creates a new config loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// Load resolves the configuration: defaults, then the optional JSON file,
// then environment variables. Credentials follow the conventional provider
// variables (OPENAI_API_KEY / ANTHROPIC_API_KEY).
func (l *Loader) Load() (Config, error) {
	// Setup viper
	v := viper.New()

	// Read environment variables
	v.SetEnvPrefix("SUPREME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if l.configPath != "" {
		v.SetConfigFile(l.configPath)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	// Unmarshal onto the defaults
	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// bindEnvVars binds the keys whose environment variables do not follow the
// SUPREME_ prefix convention. The API key variable depends on the selected
// provider, which may itself come from the file or the environment.
func bindEnvVars(v *viper.Viper) {
	provider := v.GetString("provider.name")
	if provider == "" {
		provider = DefaultConfig().Provider.Name
	}

	switch provider {
	case "anthropic":
		v.BindEnv("provider.api_key", "SUPREME_PROVIDER_API_KEY", "ANTHROPIC_API_KEY")
	default:
		v.BindEnv("provider.api_key", "SUPREME_PROVIDER_API_KEY", "OPENAI_API_KEY")
	}

	v.BindEnv("logging.level", "SUPREME_LOGGING_LEVEL", "SUPREME_LOG_LEVEL")
}

// Load is a convenience function that creates a loader and loads the config
func Load(configPath string) (Config, error) {
	loader := NewLoader(configPath)
	return loader.Load()
}
