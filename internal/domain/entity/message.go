package entity

import "github.com/google/jsonschema-go/jsonschema"

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

type Message struct {
	Role       MessageRole
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	Name       string
}

// ToolCall is a backend request to invoke a tool. Arguments hold the raw
// JSON text exactly as produced by the backend.
type ToolCall struct {
	ID        string
	Name      ToolName
	Arguments string
}

type ToolDefinition struct {
	Name        ToolName
	Description string
	Parameters  *jsonschema.Schema
	Strict      bool
}

// OutputSchema constrains the final answer of a completion.
type OutputSchema struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema
}

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}
