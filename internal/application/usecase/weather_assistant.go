package usecase

import (
	"context"
	"fmt"

	"llm-workflow/internal/application/port/input"
	"llm-workflow/internal/application/service"
	"llm-workflow/internal/domain/entity"
)

var _ input.WeatherAsker = (*WeatherAssistant)(nil)

type WeatherAssistant struct {
	orchestrator *ToolCallOrchestrator
	systemPrompt string
	schema       *entity.OutputSchema
}

func NewWeatherAssistant(orchestrator *ToolCallOrchestrator, systemPrompt string) (*WeatherAssistant, error) {
	schema, err := service.OutputSchemaFor[entity.WeatherResponse]("weather_response", "Answer to a weather question")
	if err != nil {
		return nil, fmt.Errorf("weather response schema: %w", err)
	}

	return &WeatherAssistant{
		orchestrator: orchestrator,
		systemPrompt: systemPrompt,
		schema:       schema,
	}, nil
}

func (a *WeatherAssistant) Ask(ctx context.Context, question string) (*input.WeatherAnswer, error) {
	var weather entity.WeatherResponse
	result, err := a.orchestrator.RunRoundTrip(ctx, RoundTripRequest{
		SystemPrompt: a.systemPrompt,
		UserPrompt:   question,
		OutputSchema: a.schema,
	}, &weather)
	if err != nil {
		return nil, err
	}

	return &input.WeatherAnswer{
		Weather:   weather,
		RoundTrip: result,
	}, nil
}
