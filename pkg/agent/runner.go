package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nmelo/supreme/pkg/tools"
)

// Role-keyed system prompts. Unknown roles get the default prompt.
const (
	searchAgentPrompt = "You are search_agent. Use the browser to perform a web search and " +
		"retrieve the first result based on the user's query. Do not provide any explanations or summaries."

	processingAgentPrompt = "You are processing_agent. Your task is to take the search results " +
		"provided, which include a title and a URL, and generate a concise and informative response " +
		"for the user. Do not perform any web browsing or data fetching."

	screenshotAgentPrompt = "You are screenshot_agent. Your task is to take a screenshot of the " +
		"first search result provided. Use the available tools to perform this action and return " +
		"the screenshot as a base64-encoded string."

	defaultAgentPrompt = "You are a default_agent. Use available tools to complete the task."
)

// SystemMessage returns the system message for an agent role
func SystemMessage(role string) Message {
	var content string
	switch role {
	case "search_agent":
		content = searchAgentPrompt
	case "processing_agent":
		content = processingAgentPrompt
	case "screenshot_agent":
		content = screenshotAgentPrompt
	default:
		content = defaultAgentPrompt
	}
	return Message{Role: "system", Content: content}
}

// Runner drives one agent conversation against a hosted model provider,
// executing requested tool calls through the registry until the model
// produces a final text response.
type Runner struct {
	provider    LLMProvider
	registry    *tools.Registry
	model       string
	temperature float64
	maxTokens   int
	maxTurns    int
	logger      zerolog.Logger
}

// RunnerConfig holds runner configuration
type RunnerConfig struct {
	Provider    LLMProvider
	Registry    *tools.Registry
	Model       string
	Temperature float64
	MaxTokens   int
	MaxTurns    int
	Logger      zerolog.Logger
}

// NewRunner creates a conversation runner
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 10
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	return &Runner{
		provider:    cfg.Provider,
		registry:    cfg.Registry,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		maxTurns:    maxTurns,
		logger:      cfg.Logger,
	}, nil
}

// Run executes one conversation for the agent and returns the content of
// the final model message.
func (r *Runner) Run(ctx context.Context, ag *Agent, messages []Message) (string, error) {
	systemPrompt := ""
	for _, msg := range messages {
		if msg.Role == "system" {
			systemPrompt = msg.Content
			break
		}
	}

	toolSpecs := r.buildToolSpecs(ag)
	current := messages

	// Bounded tool loop: the model either answers or asks for tools
	for turn := 0; turn < r.maxTurns; turn++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		response, err := r.provider.Call(ctx, LLMRequest{
			Model:        r.model,
			Messages:     current,
			Tools:        toolSpecs,
			Temperature:  r.temperature,
			MaxTokens:    r.maxTokens,
			SystemPrompt: systemPrompt,
		})
		if err != nil {
			return "", err
		}

		if len(response.ToolCalls) == 0 {
			return response.Content, nil
		}

		current = append(current, Message{
			Role:      "assistant",
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		for _, call := range response.ToolCalls {
			var output string
			if !ag.HasTool(call.Name) {
				output = fmt.Sprintf("Error: tool not available to %s: %s", ag.Name, call.Name)
				r.logger.Warn().Str("agent", ag.Name).Str("tool", call.Name).Msg("Model requested unbound tool")
			} else {
				output = r.registry.Invoke(ctx, call.Name, call.Parameters).Text()
			}

			current = append(current, Message{
				Role:       "tool",
				Content:    output,
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("maximum tool execution turns exceeded")
}

// buildToolSpecs advertises only the agent's bound tools to the model
func (r *Runner) buildToolSpecs(ag *Agent) []map[string]interface{} {
	if len(ag.Tools) == 0 {
		return nil
	}

	specs := make([]map[string]interface{}, 0, len(ag.Tools))
	for _, name := range ag.Tools {
		def := r.registry.Get(name)
		if def == nil {
			continue
		}
		specs = append(specs, map[string]interface{}{
			"name":         def.Name,
			"description":  def.Description,
			"input_schema": r.registry.InputSchema(name),
		})
	}
	return specs
}
