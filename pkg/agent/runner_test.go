package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmelo/supreme/pkg/tools"
)

// scriptedProvider plays back responses in order
type scriptedProvider struct {
	responses []*LLMResponse
	err       error
	requests  []LLMRequest
}

func (p *scriptedProvider) Provider() string { return "scripted" }

func (p *scriptedProvider) Call(ctx context.Context, request LLMRequest) (*LLMResponse, error) {
	p.requests = append(p.requests, request)
	if p.err != nil {
		return nil, p.err
	}
	if len(p.responses) == 0 {
		return nil, errors.New("no scripted response left")
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return resp, nil
}

func newTestRunner(t *testing.T, provider LLMProvider, registry *tools.Registry) *Runner {
	t.Helper()

	runner, err := NewRunner(RunnerConfig{
		Provider: provider,
		Registry: registry,
		Model:    "gpt-4",
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	return runner
}

func TestNewRunner(t *testing.T) {
	t.Run("should require provider, registry, and model", func(t *testing.T) {
		registry := tools.NewRegistry()

		_, err := NewRunner(RunnerConfig{Registry: registry, Model: "gpt-4"})
		assert.Error(t, err)

		_, err = NewRunner(RunnerConfig{Provider: &scriptedProvider{}, Model: "gpt-4"})
		assert.Error(t, err)

		_, err = NewRunner(RunnerConfig{Provider: &scriptedProvider{}, Registry: registry})
		assert.Error(t, err)
	})
}

func TestRunnerRun(t *testing.T) {
	t.Run("should return content when the model answers directly", func(t *testing.T) {
		provider := &scriptedProvider{responses: []*LLMResponse{
			{Content: "Paris is the capital of France."},
		}}
		runner := newTestRunner(t, provider, testRegistry(t))

		ag := &Agent{Name: "processing_agent"}
		messages := []Message{
			SystemMessage("processing_agent"),
			{Role: "user", Content: "Title: Paris\nURL: https://example.com"},
		}

		result, err := runner.Run(context.Background(), ag, messages)
		require.NoError(t, err)
		assert.Equal(t, "Paris is the capital of France.", result)

		// System prompt threaded through the request
		require.Len(t, provider.requests, 1)
		assert.Contains(t, provider.requests[0].SystemPrompt, "processing_agent")
	})

	t.Run("should execute requested tools and continue the conversation", func(t *testing.T) {
		registry := tools.NewRegistry()
		invoked := 0
		require.NoError(t, registry.Register(tools.Definition{
			Name:        "browser_search",
			Description: "search",
			Parameters: []tools.Parameter{
				{Name: "query", Type: "string", Description: "query", Required: true},
			},
			Handler: func(ctx context.Context, params map[string]interface{}) (string, error) {
				invoked++
				return "Title: Paris\nURL: https://example.com", nil
			},
		}))

		provider := &scriptedProvider{responses: []*LLMResponse{
			{ToolCalls: []ToolCall{{ID: "c1", Name: "browser_search", Parameters: map[string]interface{}{"query": "capital of France"}}}},
			{Content: "done"},
		}}
		runner := newTestRunner(t, provider, registry)

		ag := &Agent{Name: "search_agent", Tools: []string{"browser_search"}}
		result, err := runner.Run(context.Background(), ag, []Message{
			SystemMessage("search_agent"),
			{Role: "user", Content: "capital of France"},
		})

		require.NoError(t, err)
		assert.Equal(t, "done", result)
		assert.Equal(t, 1, invoked)

		// Second request carries the tool result back to the model
		require.Len(t, provider.requests, 2)
		last := provider.requests[1].Messages
		assert.Equal(t, "tool", last[len(last)-1].Role)
		assert.Contains(t, last[len(last)-1].Content, "Title: Paris")
	})

	t.Run("should refuse tools the agent is not bound to", func(t *testing.T) {
		registry := testRegistry(t, "browser_search")

		provider := &scriptedProvider{responses: []*LLMResponse{
			{ToolCalls: []ToolCall{{ID: "c1", Name: "browser_search", Parameters: map[string]interface{}{}}}},
			{Content: "done"},
		}}
		runner := newTestRunner(t, provider, registry)

		// Agent has no tools bound at all
		ag := &Agent{Name: "default_agent"}
		_, err := runner.Run(context.Background(), ag, []Message{{Role: "user", Content: "task"}})
		require.NoError(t, err)

		last := provider.requests[1].Messages
		assert.Contains(t, last[len(last)-1].Content, "Error: tool not available")
	})

	t.Run("should propagate provider errors", func(t *testing.T) {
		provider := &scriptedProvider{err: errors.New("rate limited")}
		runner := newTestRunner(t, provider, testRegistry(t))

		_, err := runner.Run(context.Background(), &Agent{Name: "a"}, []Message{{Role: "user", Content: "x"}})
		assert.Error(t, err)
	})

	t.Run("should stop after the turn budget", func(t *testing.T) {
		registry := testRegistry(t, "browser_search")

		// Provider always asks for another tool call
		responses := []*LLMResponse{}
		for i := 0; i < 10; i++ {
			responses = append(responses, &LLMResponse{
				ToolCalls: []ToolCall{{ID: "c", Name: "browser_search", Parameters: map[string]interface{}{}}},
			})
		}
		provider := &scriptedProvider{responses: responses}
		runner := newTestRunner(t, provider, registry)

		ag := &Agent{Name: "search_agent", Tools: []string{"browser_search"}}
		_, err := runner.Run(context.Background(), ag, []Message{{Role: "user", Content: "x"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "maximum tool execution turns")
	})
}
