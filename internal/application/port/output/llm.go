package output

import (
	"context"

	"llm-workflow/internal/domain/entity"
)

type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest is a single completion request. A nil OutputSchema leaves the
// answer unconstrained.
type ChatRequest struct {
	Messages     []entity.Message
	Tools        []entity.ToolDefinition
	OutputSchema *entity.OutputSchema
	Temperature  float32
}

type ChatResponse struct {
	Message entity.Message
}
