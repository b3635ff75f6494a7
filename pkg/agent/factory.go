package agent

import (
	"github.com/rs/zerolog"

	"github.com/nmelo/supreme/pkg/tools"
)

// Factory builds agents from configurations against the tool registry
type Factory struct {
	registry *tools.Registry
	logger   zerolog.Logger
}

// NewFactory creates an agent factory
func NewFactory(registry *tools.Registry, logger zerolog.Logger) *Factory {
	return &Factory{registry: registry, logger: logger}
}

// Create builds an agent bound to the intersection of the configuration's
// tool list and the registry's known names. Unknown tool names are dropped
// silently; no error is raised.
func (f *Factory) Create(cfg Config) *Agent {
	bound := make([]string, 0, len(cfg.Tools))
	for _, name := range cfg.Tools {
		if !f.registry.Has(name) {
			f.logger.Debug().Str("agent", cfg.Name).Str("tool", name).Msg("Dropping unknown tool")
			continue
		}
		bound = append(bound, name)
	}

	return &Agent{
		Name:         cfg.Name,
		Instructions: cfg.Instructions,
		Tools:        bound,
	}
}
