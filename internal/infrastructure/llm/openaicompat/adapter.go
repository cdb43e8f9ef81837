package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"llm-workflow/internal/application/port/output"
	"llm-workflow/internal/domain/entity"
	"llm-workflow/internal/infrastructure/httpclient"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/sashabaranov/go-openai"
)

var _ output.LLMPort = (*Adapter)(nil)

const (
	DefaultBaseURL = "http://localhost:11434/v1"
	DefaultAPIKey  = "ollama"
	DefaultModel   = "llama3.2"
)

// Adapter talks to any OpenAI-compatible chat completions endpoint,
// a local Ollama server by default.
type Adapter struct {
	client *openai.Client
	model  string
	logger output.LoggerPort
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Logger  output.LoggerPort
	// LogHTTP logs request bodies and response statuses at debug level.
	LogHTTP bool
}

func DefaultConfig() Config {
	return Config{
		APIKey:  DefaultAPIKey,
		Model:   DefaultModel,
		BaseURL: DefaultBaseURL,
	}
}

func NewAdapter(cfg Config) *Adapter {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIKey == "" {
		cfg.APIKey = DefaultAPIKey
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL

	var httpLogger output.LoggerPort
	if cfg.LogHTTP {
		httpLogger = cfg.Logger
	}
	config.HTTPClient = httpclient.New(cfg.Timeout, httpLogger)

	return &Adapter{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

func (a *Adapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	request := openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    convertMessages(req.Messages),
		Temperature: req.Temperature,
	}
	if len(req.Tools) > 0 {
		request.Tools = convertTools(req.Tools)
		request.ToolChoice = "auto"
	}
	if req.OutputSchema != nil {
		request.ResponseFormat = convertResponseFormat(req.OutputSchema)
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, entity.NewError(entity.KindBackendUnavailable, "chat completion", "no choices in response")
	}

	choice := resp.Choices[0]
	if a.logger != nil {
		a.logger.Debug("Chat completion finished",
			"model", resp.Model,
			"finishReason", choice.FinishReason,
			"promptTokens", resp.Usage.PromptTokens,
			"completionTokens", resp.Usage.CompletionTokens)
	}

	return &output.ChatResponse{
		Message: convertResponseMessage(choice.Message),
	}, nil
}

// classifyError maps client failures onto error kinds. Transport failures,
// 5xx and 429 mean the backend is unavailable; other HTTP errors mean the
// request was rejected.
func classifyError(err error) error {
	const op = "chat completion"

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	if status >= http.StatusBadRequest && status < http.StatusInternalServerError && status != http.StatusTooManyRequests {
		return entity.WrapError(err, entity.KindInvalidRequest, op, fmt.Sprintf("status %d", status))
	}
	return entity.WrapError(err, entity.KindBackendUnavailable, op, "")
}

func convertMessages(messages []entity.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		oaiMsg := openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}

		if msg.ToolCallID != "" {
			oaiMsg.ToolCallID = msg.ToolCallID
		}
		if msg.Name != "" {
			oaiMsg.Name = msg.Name
		}

		for _, tc := range msg.ToolCalls {
			oaiMsg.ToolCalls = append(oaiMsg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name.String(),
					Arguments: tc.Arguments,
				},
			})
		}

		result = append(result, oaiMsg)
	}
	return result
}

func convertTools(tools []entity.ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		params := t.Parameters
		if params == nil {
			params = &jsonschema.Schema{Type: "object"}
		}
		result = append(result, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name.String(),
				Description: t.Description,
				Strict:      t.Strict,
				Parameters:  params,
			},
		})
	}
	return result
}

func convertResponseFormat(schema *entity.OutputSchema) *openai.ChatCompletionResponseFormat {
	if schema.Schema == nil {
		return &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	name := schema.Name
	if name == "" {
		name = "response"
	}
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:        name,
			Description: schema.Description,
			Schema:      schema.Schema,
			Strict:      true,
		},
	}
}

func convertResponseMessage(msg openai.ChatCompletionMessage) entity.Message {
	result := entity.Message{
		Role:    entity.MessageRole(msg.Role),
		Content: msg.Content,
	}
	if result.Role == "" {
		result.Role = entity.RoleAssistant
	}

	for _, tc := range msg.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, entity.ToolCall{
			ID:        tc.ID,
			Name:      entity.ToolName(tc.Function.Name),
			Arguments: tc.Function.Arguments,
		})
	}

	return result
}
