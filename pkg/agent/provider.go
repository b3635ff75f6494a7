package agent

import (
	"context"
	"fmt"
)

// LLMProvider is an interface for hosted model API providers
type LLMProvider interface {
	// Call makes one completion request
	Call(ctx context.Context, request LLMRequest) (*LLMResponse, error)

	// Provider returns the provider name
	Provider() string
}

// LLMRequest contains the request parameters for a model call
type LLMRequest struct {
	Model        string
	Messages     []Message
	Tools        []map[string]interface{} // {name, description, input_schema}
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// LLMResponse contains the response from the model
type LLMResponse struct {
	Content   string
	ToolCalls []ToolCall
	Usage     *TokenUsage
}

// NewProvider creates an LLM provider by name
func NewProvider(name, apiKey string) (LLMProvider, error) {
	switch name {
	case "openai":
		return NewOpenAIProvider(apiKey), nil
	case "anthropic":
		return NewAnthropicProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}
