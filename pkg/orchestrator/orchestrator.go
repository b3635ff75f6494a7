package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nmelo/supreme/pkg/agent"
	"github.com/nmelo/supreme/pkg/tools"
)

// TaskAnalyzer plans which agents a task needs
type TaskAnalyzer interface {
	Analyze(ctx context.Context, task string) []agent.Config
}

// AgentFactory builds agents from configurations
type AgentFactory interface {
	Create(cfg agent.Config) *agent.Agent
}

// ConversationRunner drives one agent conversation to a final response
type ConversationRunner interface {
	Run(ctx context.Context, ag *agent.Agent, messages []agent.Message) (string, error)
}

// ToolInvoker executes a registered tool by name
type ToolInvoker interface {
	Invoke(ctx context.Context, name string, params map[string]interface{}) tools.Result
}

// ResourceCloser releases side-effecting resources after a task
type ResourceCloser interface {
	CloseBrowser()
}

// Orchestrator runs a task end to end: analysis, agent hand-off, cleanup.
// Each agent's output becomes the next agent's input.
type Orchestrator struct {
	analyzer  TaskAnalyzer
	factory   AgentFactory
	runner    ConversationRunner
	registry  ToolInvoker
	resources ResourceCloser
	progress  *Progress
	logger    zerolog.Logger
}

// Options holds orchestrator dependencies
type Options struct {
	Analyzer  TaskAnalyzer
	Factory   AgentFactory
	Runner    ConversationRunner
	Registry  ToolInvoker
	Resources ResourceCloser
	Progress  *Progress
	Logger    zerolog.Logger
}

// New creates an orchestrator
func New(opts Options) (*Orchestrator, error) {
	if opts.Analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if opts.Factory == nil {
		return nil, fmt.Errorf("agent factory is required")
	}
	if opts.Runner == nil {
		return nil, fmt.Errorf("conversation runner is required")
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if opts.Resources == nil {
		return nil, fmt.Errorf("resources are required")
	}

	return &Orchestrator{
		analyzer:  opts.Analyzer,
		factory:   opts.Factory,
		runner:    opts.Runner,
		registry:  opts.Registry,
		resources: opts.Resources,
		progress:  opts.Progress,
		logger:    opts.Logger,
	}, nil
}

// Execute runs a task and returns the final result text. Failures never
// escape as errors; they come back as an "Error executing task" string.
// The browser and the progress indicator are released no matter how the
// run ends.
func (o *Orchestrator) Execute(ctx context.Context, task, initialInput string) string {
	runID := uuid.NewString()
	o.logger.Info().Str("run_id", runID).Str("task", task).Msg("Executing task")

	if o.progress != nil {
		o.progress.Start()
	}
	defer func() {
		if o.progress != nil {
			o.progress.Stop()
		}
		o.resources.CloseBrowser()
	}()

	result, err := o.run(ctx, task, initialInput)
	if err != nil {
		o.logger.Error().Str("run_id", runID).Err(err).Msg("Task failed")
		return fmt.Sprintf("Error executing task: %v", err)
	}

	o.logger.Info().Str("run_id", runID).Msg("Task completed")
	return result
}

func (o *Orchestrator) run(ctx context.Context, task, initialInput string) (string, error) {
	configs := o.analyzer.Analyze(ctx, task)

	currentInput := initialInput
	if currentInput == "" {
		currentInput = task
	}

	for _, cfg := range configs {
		ag := o.factory.Create(cfg)

		if cfg.Name == "search_agent" && ag.HasTool("browser_search") {
			result := o.registry.Invoke(ctx, "browser_search", map[string]interface{}{
				"query": currentInput,
			}).Text()
			// A clean search result is final; a failed one goes through
			// the model like any other hand-off step
			if !strings.Contains(result, "Error") {
				return result, nil
			}
			o.logger.Warn().Str("agent", cfg.Name).Str("result", result).Msg("Direct search failed")
		}

		output, err := o.runner.Run(ctx, ag, []agent.Message{
			agent.SystemMessage(cfg.Name),
			{Role: "user", Content: currentInput},
		})
		if err != nil {
			return "", fmt.Errorf("agent %s: %w", cfg.Name, err)
		}

		o.logger.Debug().Str("agent", cfg.Name).Msg("Agent hand-off")
		currentInput = output
	}

	return currentInput, nil
}
