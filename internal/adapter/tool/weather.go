package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"llm-workflow/internal/application/port/output"
	"llm-workflow/internal/application/service"
	"llm-workflow/internal/domain/entity"

	"github.com/google/jsonschema-go/jsonschema"
)

var _ output.ToolPort = (*WeatherTool)(nil)

type weatherArgs struct {
	Latitude  float64 `json:"latitude" jsonschema:"Latitude of the location in decimal degrees"`
	Longitude float64 `json:"longitude" jsonschema:"Longitude of the location in decimal degrees"`
}

type WeatherTool struct {
	weather output.WeatherPort
	logger  output.LoggerPort
	schema  *jsonschema.Schema
}

func NewWeatherTool(weather output.WeatherPort, logger output.LoggerPort) (*WeatherTool, error) {
	schema, err := service.SchemaFor[weatherArgs]()
	if err != nil {
		return nil, fmt.Errorf("get_weather schema: %w", err)
	}
	schema.Properties["latitude"].Minimum = jsonschema.Ptr(-90.0)
	schema.Properties["latitude"].Maximum = jsonschema.Ptr(90.0)
	schema.Properties["longitude"].Minimum = jsonschema.Ptr(-180.0)
	schema.Properties["longitude"].Maximum = jsonschema.Ptr(180.0)

	return &WeatherTool{weather: weather, logger: logger, schema: schema}, nil
}

func (t *WeatherTool) Name() entity.ToolName { return entity.ToolGetWeather }
func (t *WeatherTool) Description() string {
	return "Get current temperature for a provided coordinates in Celcius."
}
func (t *WeatherTool) Parameters() *jsonschema.Schema { return t.schema }
func (t *WeatherTool) Strict() bool                   { return true }

func (t *WeatherTool) Execute(ctx context.Context, arguments string) (string, error) {
	args, err := service.DecodeArguments[weatherArgs](t.schema, arguments)
	if err != nil {
		return "", err
	}

	coords := entity.Coordinates{Latitude: args.Latitude, Longitude: args.Longitude}
	t.logger.Debug("Fetching current weather", "latitude", coords.Latitude, "longitude", coords.Longitude)

	current, err := t.weather.Current(ctx, coords)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(current)
	if err != nil {
		return "", entity.WrapError(err, entity.KindToolFailed, entity.ToolGetWeather.String(), "encode result")
	}
	return string(data), nil
}
