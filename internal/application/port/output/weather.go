package output

import (
	"context"

	"llm-workflow/internal/domain/entity"
)

type WeatherPort interface {
	Current(ctx context.Context, coords entity.Coordinates) (*entity.CurrentWeather, error)
}
