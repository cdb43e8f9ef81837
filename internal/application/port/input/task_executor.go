package input

import (
	"context"

	"llm-workflow/internal/domain/entity"
)

type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type EventExtractor interface {
	Extract(ctx context.Context, text string) (*entity.CalendarEvent, error)
}

type WeatherAnswer struct {
	Weather   entity.WeatherResponse
	RoundTrip *entity.RoundTripResult
}

type WeatherAsker interface {
	Ask(ctx context.Context, question string) (*WeatherAnswer, error)
}
