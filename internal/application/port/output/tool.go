package output

import (
	"context"

	"llm-workflow/internal/domain/entity"

	"github.com/google/jsonschema-go/jsonschema"
)

type ToolPort interface {
	Name() entity.ToolName
	Description() string
	Parameters() *jsonschema.Schema
	Execute(ctx context.Context, arguments string) (string, error)
}

type ToolRegistry interface {
	Register(tool ToolPort) error
	Get(name entity.ToolName) (ToolPort, bool)
	All() []ToolPort
	Definitions() []entity.ToolDefinition
}
