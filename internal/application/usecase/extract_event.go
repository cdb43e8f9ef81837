package usecase

import (
	"context"
	"fmt"

	"llm-workflow/internal/application/port/input"
	"llm-workflow/internal/application/service"
	"llm-workflow/internal/domain/entity"
)

var _ input.EventExtractor = (*ExtractEventUseCase)(nil)

type ExtractEventUseCase struct {
	orchestrator *ToolCallOrchestrator
	systemPrompt string
	schema       *entity.OutputSchema
}

func NewExtractEventUseCase(orchestrator *ToolCallOrchestrator, systemPrompt string) (*ExtractEventUseCase, error) {
	schema, err := service.OutputSchemaFor[entity.CalendarEvent]("calendar_event", "Details of a calendar event")
	if err != nil {
		return nil, fmt.Errorf("calendar event schema: %w", err)
	}
	if participants := schema.Schema.Properties["participants"]; participants != nil {
		participants.Type, participants.Types = "array", nil
	}

	return &ExtractEventUseCase{
		orchestrator: orchestrator,
		systemPrompt: systemPrompt,
		schema:       schema,
	}, nil
}

func (uc *ExtractEventUseCase) Extract(ctx context.Context, text string) (*entity.CalendarEvent, error) {
	msg, err := uc.orchestrator.RequestCompletion(ctx, []entity.Message{
		entity.SystemMessage(uc.systemPrompt),
		entity.UserMessage(text),
	}, nil, uc.schema)
	if err != nil {
		return nil, err
	}

	var event entity.CalendarEvent
	if err := service.DecodeStructured(uc.schema, msg.Content, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
