package langchain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"llm-workflow/internal/application/port/output"
	"llm-workflow/internal/domain/entity"
	"llm-workflow/internal/infrastructure/httpclient"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

var _ output.LLMPort = (*OllamaAdapter)(nil)

const (
	DefaultServerURL = "http://localhost:11434"
	DefaultModel     = "llama3.2"
)

// OllamaAdapter uses the native Ollama chat API through langchaingo. It
// supports plain chat and structured output; langchaingo's Ollama client has
// no tool calling, so requests declaring tools or carrying tool history are
// rejected.
type OllamaAdapter struct {
	llm    llms.Model
	model  string
	logger output.LoggerPort
}

type Config struct {
	ServerURL string
	Model     string
	Timeout   time.Duration
	Logger    output.LoggerPort
	LogHTTP   bool
}

func NewOllamaAdapter(cfg Config) (*OllamaAdapter, error) {
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	// ollama.WithServerURL exits the process on a malformed URL.
	if _, err := url.Parse(cfg.ServerURL); err != nil {
		return nil, fmt.Errorf("invalid ollama server url: %w", err)
	}

	var httpLogger output.LoggerPort
	if cfg.LogHTTP {
		httpLogger = cfg.Logger
	}
	client := httpclient.New(cfg.Timeout, httpLogger)
	client.Transport = &unavailableTransport{base: client.Transport}

	llm, err := ollama.New(
		ollama.WithModel(cfg.Model),
		ollama.WithServerURL(cfg.ServerURL),
		ollama.WithHTTPClient(client),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	return &OllamaAdapter{
		llm:    llm,
		model:  cfg.Model,
		logger: cfg.Logger,
	}, nil
}

func (a *OllamaAdapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	const op = "ollama chat"

	if len(req.Tools) > 0 {
		return nil, entity.NewError(entity.KindInvalidRequest, op, "tool declarations are not supported by this backend")
	}

	messages, err := convertMessages(req.Messages)
	if err != nil {
		return nil, entity.WrapError(err, entity.KindInvalidRequest, op, "")
	}

	opts := []llms.CallOption{llms.WithTemperature(float64(req.Temperature))}
	if req.OutputSchema != nil {
		opts = append(opts, llms.WithJSONMode())
		instruction, err := schemaInstruction(req.OutputSchema)
		if err != nil {
			return nil, entity.WrapError(err, entity.KindInvalidRequest, op, "encode output schema")
		}
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, instruction))
	}

	resp, err := a.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, entity.NewError(entity.KindBackendUnavailable, op, "no choices in response")
	}

	choice := resp.Choices[0]
	if a.logger != nil {
		a.logger.Debug("Ollama chat finished",
			"model", a.model,
			"contentLen", len(choice.Content),
			"completionTokens", choice.GenerationInfo["CompletionTokens"])
	}

	return &output.ChatResponse{
		Message: entity.Message{
			Role:    entity.RoleAssistant,
			Content: choice.Content,
		},
	}, nil
}

func convertMessages(messages []entity.Message) ([]llms.MessageContent, error) {
	result := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		if msg.HasToolCalls() || msg.Role == entity.RoleTool {
			return nil, errors.New("tool call history is not supported by this backend")
		}

		var role llms.ChatMessageType
		switch msg.Role {
		case entity.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case entity.RoleUser:
			role = llms.ChatMessageTypeHuman
		case entity.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			return nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
		result = append(result, llms.TextParts(role, msg.Content))
	}
	return result, nil
}

// schemaInstruction asks the model to answer with JSON matching the schema.
// JSON mode only guarantees syntactically valid JSON.
func schemaInstruction(schema *entity.OutputSchema) (string, error) {
	if schema.Schema == nil {
		return "Respond with a single JSON object.", nil
	}
	data, err := json.Marshal(schema.Schema)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Respond only with a JSON object that conforms to this JSON schema:\n%s", data), nil
}

// classifyError treats transport failures and 5xx responses as an unavailable
// backend and any error the backend reported itself as a rejected request.
func classifyError(err error) error {
	const op = "ollama chat"

	if errors.Is(err, entity.ErrBackendUnavailable) {
		return err
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return entity.WrapError(err, entity.KindBackendUnavailable, op, "")
	}
	return entity.WrapError(err, entity.KindInvalidRequest, op, "")
}

// unavailableTransport turns 5xx responses into transport errors so they can
// be told apart from errors the backend reports in its response body.
type unavailableTransport struct {
	base http.RoundTripper
}

func (t *unavailableTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode < http.StatusInternalServerError {
		return resp, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return nil, entity.NewError(entity.KindBackendUnavailable, "ollama chat",
		fmt.Sprintf("status %d: %s", resp.StatusCode, body))
}
