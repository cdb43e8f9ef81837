package env

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"llm-workflow/internal/domain/entity"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendOpenAI    = "openai"
	BackendLangchain = "langchain"
)

type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`

	// LLM backend: "openai" for any OpenAI-compatible endpoint, "langchain"
	// for the native Ollama API (no tool calling).
	LLMBackend     string        `envconfig:"LLM_BACKEND" default:"openai"`
	LLMBaseURL     string        `envconfig:"LLM_BASE_URL" default:"http://localhost:11434/v1"`
	LLMAPIKey      string        `envconfig:"LLM_API_KEY" default:"ollama"`
	LLMModel       string        `envconfig:"LLM_MODEL" default:"llama3.2"`
	LLMTemperature float32       `envconfig:"LLM_TEMPERATURE" default:"0"`
	OllamaURL      string        `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s"`

	WeatherBaseURL      string                     `envconfig:"WEATHER_BASE_URL" default:"https://api.open-meteo.com/v1/forecast"`
	ToolCallCorrelation entity.ToolCallCorrelation `envconfig:"TOOL_CALL_CORRELATION" default:"id"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE" default:""` // run name for log/<timestamp>_<name>.log
	LogHTTP  bool   `envconfig:"LOG_HTTP" default:"false"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`
}

// LoadDotEnv loads .env and then overlays .env.<APP_ENV> (dev by default).
// Missing files are not an error.
func LoadDotEnv() string {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Info: no .env file found (this is OK for CI/CD)")
	}

	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Overload(envFile); err != nil {
		log.Printf("Info: could not load %s: %v", envFile, err)
	}

	return appEnv
}

// Load reads dotenv files, then the process environment.
func Load() (*Config, error) {
	LoadDotEnv()
	return LoadFromEnv()
}

// LoadFromEnv reads configuration from the process environment only.
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.LLMBackend {
	case BackendOpenAI, BackendLangchain:
	default:
		return fmt.Errorf("LLM_BACKEND must be %q or %q, got %q", BackendOpenAI, BackendLangchain, c.LLMBackend)
	}
	if !c.ToolCallCorrelation.Valid() {
		return fmt.Errorf("TOOL_CALL_CORRELATION must be %q or %q, got %q",
			entity.CorrelateByID, entity.CorrelateByPosition, c.ToolCallCorrelation)
	}
	if c.LLMModel == "" {
		return fmt.Errorf("LLM_MODEL is required")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT must not be negative")
	}

	for name, raw := range map[string]string{
		"LLM_BASE_URL":     c.LLMBaseURL,
		"OLLAMA_URL":       c.OllamaURL,
		"WEATHER_BASE_URL": c.WeatherBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	return nil
}
