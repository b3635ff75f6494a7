// Package agent turns declarative agent configurations into runnable
// agents bound to a restricted tool set, and drives their conversations
// with a hosted model provider.
package agent

// Config is the declarative description of one orchestration step. It is
// produced by the task analyzer and consumed once by the factory.
type Config struct {
	Name         string   `json:"name"`
	Instructions string   `json:"instructions"`
	Tools        []string `json:"tools"`
	// NextAgent is parsed from analyzer output but plays no part in
	// control flow; hand-off order is the list order.
	NextAgent string `json:"next_agent,omitempty"`
}

// Agent is a named bundle of instructions plus the tool names it is
// permitted to call. Created per configuration per orchestration run and
// discarded afterwards.
type Agent struct {
	Name         string
	Instructions string
	Tools        []string
}

// HasTool reports whether the agent is bound to the named tool
func (a *Agent) HasTool(name string) bool {
	for _, t := range a.Tools {
		if t == name {
			return true
		}
	}
	return false
}

// Message represents one message in a conversation
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall represents a tool invocation requested by the model
type ToolCall struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters"`
}

// TokenUsage tracks token consumption
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
