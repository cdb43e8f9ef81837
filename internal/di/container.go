package di

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"llm-workflow/internal/adapter/tool"
	"llm-workflow/internal/application/port/input"
	"llm-workflow/internal/application/port/output"
	"llm-workflow/internal/application/service"
	"llm-workflow/internal/application/usecase"
	"llm-workflow/internal/infrastructure/env"
	"llm-workflow/internal/infrastructure/httpapi"
	"llm-workflow/internal/infrastructure/httpclient"
	"llm-workflow/internal/infrastructure/llm/langchain"
	"llm-workflow/internal/infrastructure/llm/openaicompat"
	"llm-workflow/internal/infrastructure/logger"
	"llm-workflow/internal/infrastructure/metrics"
	"llm-workflow/internal/infrastructure/prompts"
	"llm-workflow/internal/infrastructure/weather/openmeteo"
)

type Container struct {
	LLM          output.LLMPort
	Weather      output.WeatherPort
	Logger       output.LoggerPort
	Tools        output.ToolRegistry
	Metrics      *metrics.Prometheus
	Orchestrator *usecase.ToolCallOrchestrator

	Chat             input.ChatCompleter
	EventExtractor   input.EventExtractor
	WeatherAssistant input.WeatherAsker

	// Handler serves the HTTP API.
	Handler http.Handler
}

type Config struct {
	Env *env.Config
	// Progress receives round-trip progress. Nil disables progress output.
	Progress output.ProgressPort
	// LogOutput overrides the log destination (stderr by default).
	LogOutput io.Writer
}

func NewContainer(cfg Config) (*Container, error) {
	if cfg.Env == nil {
		return nil, fmt.Errorf("environment config is required")
	}
	if err := cfg.Env.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.NewLoggerAdapter(logger.Config{
		Level:   cfg.Env.LogLevel,
		RunName: cfg.Env.LogFile,
		Output:  cfg.LogOutput,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	llm, err := newLLM(cfg.Env, log)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	var httpLog output.LoggerPort
	if cfg.Env.LogHTTP {
		httpLog = log
	}
	weather := openmeteo.NewClient(openmeteo.Config{
		BaseURL:    cfg.Env.WeatherBaseURL,
		HTTPClient: httpclient.New(cfg.Env.HTTPTimeout, httpLog),
		Logger:     log,
	})

	tools := service.NewToolRegistry()
	if err := registerTools(tools, weather, log); err != nil {
		log.Close()
		return nil, err
	}

	promMetrics := metrics.NewPrometheus()

	orchestratorCfg := usecase.DefaultOrchestratorConfig()
	orchestratorCfg.Correlation = cfg.Env.ToolCallCorrelation
	orchestratorCfg.Temperature = cfg.Env.LLMTemperature
	orchestratorCfg.Metrics = promMetrics
	orchestratorCfg.Progress = cfg.Progress
	orchestrator := usecase.NewToolCallOrchestrator(llm, tools, log, orchestratorCfg)

	extractor, err := usecase.NewExtractEventUseCase(orchestrator, strings.TrimSpace(prompts.ExtractionPrompt))
	if err != nil {
		log.Close()
		return nil, err
	}

	weatherPrompt, err := prompts.GenerateToolPrompt(prompts.WeatherPrompt, tools)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to render weather prompt: %w", err)
	}
	assistant, err := usecase.NewWeatherAssistant(orchestrator, weatherPrompt)
	if err != nil {
		log.Close()
		return nil, err
	}

	chat := usecase.NewChatUseCase(orchestrator, strings.TrimSpace(prompts.DefaultSystemPrompt))

	if cfg.Env.LLMBackend == env.BackendLangchain {
		log.Warn("Backend does not support tool calling, weather requests will fail",
			"backend", cfg.Env.LLMBackend)
	}

	handler := httpapi.NewHandler(httpapi.Config{
		Chat:      chat,
		Events:    extractor,
		Weather:   assistant,
		Metrics:   promMetrics.Handler(),
		Logger:    log,
		AccessLog: cfg.Env.LogHTTP,
	})

	log.Info("Container initialized",
		"backend", cfg.Env.LLMBackend,
		"model", cfg.Env.LLMModel,
		"correlation", string(cfg.Env.ToolCallCorrelation),
		"tools", len(tools.All()))

	return &Container{
		LLM:              llm,
		Weather:          weather,
		Logger:           log,
		Tools:            tools,
		Metrics:          promMetrics,
		Orchestrator:     orchestrator,
		Chat:             chat,
		EventExtractor:   extractor,
		WeatherAssistant: assistant,
		Handler:          handler,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func newLLM(cfg *env.Config, log output.LoggerPort) (output.LLMPort, error) {
	switch cfg.LLMBackend {
	case env.BackendLangchain:
		return langchain.NewOllamaAdapter(langchain.Config{
			ServerURL: cfg.OllamaURL,
			Model:     cfg.LLMModel,
			Timeout:   cfg.HTTPTimeout,
			Logger:    log,
			LogHTTP:   cfg.LogHTTP,
		})
	default:
		llmCfg := openaicompat.DefaultConfig()
		if cfg.LLMAPIKey != "" {
			llmCfg.APIKey = cfg.LLMAPIKey
		}
		if cfg.LLMModel != "" {
			llmCfg.Model = cfg.LLMModel
		}
		if cfg.LLMBaseURL != "" {
			llmCfg.BaseURL = cfg.LLMBaseURL
		}
		llmCfg.Timeout = cfg.HTTPTimeout
		llmCfg.Logger = log
		llmCfg.LogHTTP = cfg.LogHTTP
		return openaicompat.NewAdapter(llmCfg), nil
	}
}

func registerTools(registry *service.ToolRegistryImpl, weather output.WeatherPort, log output.LoggerPort) error {
	weatherTool, err := tool.NewWeatherTool(weather, log)
	if err != nil {
		return fmt.Errorf("failed to create weather tool: %w", err)
	}
	if err := registry.Register(weatherTool); err != nil {
		return err
	}
	return nil
}
