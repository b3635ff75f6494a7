package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nmelo/supreme/pkg/agent"
)

const analysisPrompt = `You are a task analyzer. Given a task description, respond with a JSON array
of agent configurations needed to complete it. Each configuration is an object with the fields
"name", "instructions", "tools" (an array of tool names), and optionally "next_agent".

Available tools: browser_open, browser_search, code_write, code_save, terminal_run, git_command, take_screenshot.

Respond with the JSON array only, no surrounding text.`

// Analyzer decides which agents a task needs. Tasks that look like web
// searches bypass the model entirely; everything else is planned by the
// configured model, falling back to a single general-purpose agent when
// the plan cannot be obtained or parsed.
type Analyzer struct {
	provider agent.LLMProvider
	model    string
	logger   zerolog.Logger
}

// New creates a task analyzer
func New(provider agent.LLMProvider, model string, logger zerolog.Logger) *Analyzer {
	return &Analyzer{provider: provider, model: model, logger: logger}
}

// Analyze returns the agent configurations for a task. It never fails:
// every error path degrades to the default configuration.
func (a *Analyzer) Analyze(ctx context.Context, task string) []agent.Config {
	if isSearchTask(task) {
		return []agent.Config{{
			Name:         "search_agent",
			Instructions: "Use browser_search to find the requested information",
			Tools:        []string{"browser_search"},
		}}
	}

	configs, err := a.planWithModel(ctx, task)
	if err != nil {
		a.logger.Error().Err(err).Str("task", task).Msg("Task analysis failed, using default agent")
		return defaultConfigs()
	}
	return configs
}

func isSearchTask(task string) bool {
	lowered := strings.ToLower(task)
	return strings.Contains(lowered, "search") || strings.Contains(lowered, "find")
}

func (a *Analyzer) planWithModel(ctx context.Context, task string) ([]agent.Config, error) {
	response, err := a.provider.Call(ctx, agent.LLMRequest{
		Model:        a.model,
		SystemPrompt: analysisPrompt,
		Messages: []agent.Message{
			{Role: "user", Content: fmt.Sprintf("Analyze this task: %s", task)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("analysis call failed: %w", err)
	}

	var configs []agent.Config
	if err := json.Unmarshal([]byte(response.Content), &configs); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}
	if len(configs) == 0 {
		return nil, fmt.Errorf("analysis produced no agent configurations")
	}
	return configs, nil
}

func defaultConfigs() []agent.Config {
	return []agent.Config{{
		Name:         "default_agent",
		Instructions: "Complete the task using available tools",
		Tools:        []string{"browser_search"},
	}}
}
