package output

import (
	"context"

	"llm-workflow/internal/domain/entity"
)

// ProgressPort reports round-trip progress to whoever started it.
type ProgressPort interface {
	ShowState(ctx context.Context, state entity.RoundTripState)
	ShowToolStart(ctx context.Context, toolName, arguments string)
	ShowToolResult(ctx context.Context, toolName, result string, isError bool)
}

type NopProgress struct{}

func (NopProgress) ShowState(context.Context, entity.RoundTripState)      {}
func (NopProgress) ShowToolStart(context.Context, string, string)         {}
func (NopProgress) ShowToolResult(context.Context, string, string, bool) {}
