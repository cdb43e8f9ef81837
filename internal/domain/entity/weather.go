package entity

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// CurrentWeather is the "current" block of a forecast response.
type CurrentWeather struct {
	Time        string            `json:"time"`
	Interval    int               `json:"interval"`
	Temperature float64           `json:"temperature_2m"`
	WindSpeed   float64           `json:"wind_speed_10m"`
	Units       map[string]string `json:"units,omitempty"`
}

type WeatherResponse struct {
	Temperature float64 `json:"temperature" jsonschema:"The current temperature in celcius for the given coordinates"`
	Response    string  `json:"response" jsonschema:"A natural language response to the user's question"`
}

type CalendarEvent struct {
	Name         string   `json:"name"`
	Date         string   `json:"date"`
	Participants []string `json:"participants"`
}
