package prompts

import (
	_ "embed"
)

//go:embed system.txt
var DefaultSystemPrompt string

//go:embed extract.txt
var ExtractionPrompt string

//go:embed weather.txt
var WeatherPrompt string
