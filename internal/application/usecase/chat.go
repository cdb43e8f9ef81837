package usecase

import (
	"context"

	"llm-workflow/internal/application/port/input"
	"llm-workflow/internal/domain/entity"
)

var _ input.ChatCompleter = (*ChatUseCase)(nil)

// ChatUseCase is a plain completion without tools or output schema.
type ChatUseCase struct {
	orchestrator  *ToolCallOrchestrator
	defaultPrompt string
}

// NewChatUseCase uses defaultPrompt when a caller passes no system prompt.
func NewChatUseCase(orchestrator *ToolCallOrchestrator, defaultPrompt string) *ChatUseCase {
	return &ChatUseCase{orchestrator: orchestrator, defaultPrompt: defaultPrompt}
}

func (uc *ChatUseCase) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if systemPrompt == "" {
		systemPrompt = uc.defaultPrompt
	}

	msg, err := uc.orchestrator.RequestCompletion(ctx, []entity.Message{
		entity.SystemMessage(systemPrompt),
		entity.UserMessage(userPrompt),
	}, nil, nil)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}
