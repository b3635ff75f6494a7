package config

import "fmt"

// Config represents the main Supreme configuration
type Config struct {
	// Provider selects the hosted model backend
	Provider ProviderConfig `json:"provider" mapstructure:"provider"`

	// Analyzer configures the task analysis model call
	Analyzer AnalyzerConfig `json:"analyzer" mapstructure:"analyzer"`

	// Browser configures the automation driver and web search
	Browser BrowserConfig `json:"browser" mapstructure:"browser"`

	// Desktop configures editor and terminal launching
	Desktop DesktopConfig `json:"desktop" mapstructure:"desktop"`

	// ScratchRoot is the parent directory for the scratch working
	// directory; empty means the OS temp dir
	ScratchRoot string `json:"scratch_root" mapstructure:"scratch_root"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ProviderConfig holds hosted model provider settings
type ProviderConfig struct {
	Name   string `json:"name" mapstructure:"name"` // openai, anthropic
	APIKey string `json:"api_key" mapstructure:"api_key"`
	Model  string `json:"model" mapstructure:"model"`
}

// AnalyzerConfig holds task analyzer settings
type AnalyzerConfig struct {
	Model string `json:"model" mapstructure:"model"`
}

// BrowserConfig holds browser driver and search settings
type BrowserConfig struct {
	Headless       bool   `json:"headless" mapstructure:"headless"`
	NoSandbox      bool   `json:"no_sandbox" mapstructure:"no_sandbox"`
	SearchURL      string `json:"search_url" mapstructure:"search_url"`           // base URL, query appended percent-encoded
	ResultSelector string `json:"result_selector" mapstructure:"result_selector"` // first result container
	SearchTimeout  int    `json:"search_timeout" mapstructure:"search_timeout"`   // seconds to wait for results
}

// DesktopConfig holds editor and terminal launch commands, tried in order
type DesktopConfig struct {
	EditorCommands   [][]string `json:"editor_commands" mapstructure:"editor_commands"`
	TerminalCommands [][]string `json:"terminal_commands" mapstructure:"terminal_commands"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Provider: ProviderConfig{
			Name:  "openai",
			Model: "gpt-4",
		},
		Analyzer: AnalyzerConfig{
			Model: "gpt-4",
		},
		Browser: BrowserConfig{
			Headless:       true,
			NoSandbox:      true,
			SearchURL:      "https://www.google.com/search?q=",
			ResultSelector: "div#search div.g",
			SearchTimeout:  10,
		},
		Desktop: DesktopConfig{
			EditorCommands: [][]string{
				{"code"},
				{"vscode"},
				{"codium"},
			},
			TerminalCommands: [][]string{
				{"alacritty", "-e", "sh"},
				{"gnome-terminal", "--"},
				{"xterm"},
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			File:    "supreme.log",
			Console: true,
			Pretty:  true,
		},
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unsupported provider: %s", c.Provider.Name)
	}
	if c.Provider.Model == "" {
		return fmt.Errorf("provider model cannot be empty")
	}
	if c.Analyzer.Model == "" {
		return fmt.Errorf("analyzer model cannot be empty")
	}
	if c.Browser.SearchURL == "" {
		return fmt.Errorf("browser search URL cannot be empty")
	}
	if c.Browser.SearchTimeout <= 0 {
		return fmt.Errorf("browser search timeout must be positive")
	}
	if len(c.Desktop.EditorCommands) == 0 {
		return fmt.Errorf("at least one editor command is required")
	}
	if len(c.Desktop.TerminalCommands) == 0 {
		return fmt.Errorf("at least one terminal command is required")
	}
	return nil
}
