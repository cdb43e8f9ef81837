package usecase

import (
	"context"
	"fmt"
	"time"

	"llm-workflow/internal/application/port/output"
	"llm-workflow/internal/application/service"
	"llm-workflow/internal/domain/entity"

	"github.com/google/uuid"
)

type OrchestratorConfig struct {
	Correlation entity.ToolCallCorrelation
	Temperature float32
	Metrics     output.MetricsPort
	Progress    output.ProgressPort
}

func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		Correlation: entity.CorrelateByID,
	}
}

// ToolCallOrchestrator drives a conversation through a tool-declaring
// completion, local tool execution and a final schema-constrained completion.
// It never retries; every failure ends the round trip.
type ToolCallOrchestrator struct {
	llm         output.LLMPort
	tools       output.ToolRegistry
	logger      output.LoggerPort
	metrics     output.MetricsPort
	progress    output.ProgressPort
	correlation entity.ToolCallCorrelation
	temperature float32
	newID       func() string
}

func NewToolCallOrchestrator(
	llm output.LLMPort,
	tools output.ToolRegistry,
	logger output.LoggerPort,
	cfg OrchestratorConfig,
) *ToolCallOrchestrator {
	if cfg.Metrics == nil {
		cfg.Metrics = output.NopMetrics{}
	}
	if cfg.Progress == nil {
		cfg.Progress = output.NopProgress{}
	}
	if !cfg.Correlation.Valid() {
		cfg.Correlation = entity.CorrelateByID
	}

	return &ToolCallOrchestrator{
		llm:         llm,
		tools:       tools,
		logger:      logger,
		metrics:     cfg.Metrics,
		progress:    cfg.Progress,
		correlation: cfg.Correlation,
		temperature: cfg.Temperature,
		newID:       uuid.NewString,
	}
}

type RoundTripRequest struct {
	SystemPrompt string
	UserPrompt   string
	// Tools declared on both completions. Nil declares every registered tool.
	Tools        []entity.ToolDefinition
	OutputSchema *entity.OutputSchema
}

// RequestCompletion sends one completion request and returns the assistant message.
func (o *ToolCallOrchestrator) RequestCompletion(
	ctx context.Context,
	messages []entity.Message,
	tools []entity.ToolDefinition,
	schema *entity.OutputSchema,
) (entity.Message, error) {
	return o.complete(ctx, output.PhaseSingle, messages, tools, schema)
}

func (o *ToolCallOrchestrator) complete(
	ctx context.Context,
	phase string,
	messages []entity.Message,
	tools []entity.ToolDefinition,
	schema *entity.OutputSchema,
) (entity.Message, error) {
	if len(messages) == 0 {
		return entity.Message{}, entity.NewError(entity.KindInvalidRequest, "request completion", "no messages")
	}

	o.logger.Debug("Requesting completion",
		"phase", phase,
		"messagesCount", len(messages),
		"toolsCount", len(tools),
		"schema", schema != nil)

	start := time.Now()
	resp, err := o.llm.Chat(ctx, output.ChatRequest{
		Messages:     messages,
		Tools:        tools,
		OutputSchema: schema,
		Temperature:  o.temperature,
	})
	if err == nil && resp == nil {
		err = entity.NewError(entity.KindBackendUnavailable, "request completion", "empty response")
	}
	o.metrics.ObserveLLMCall(phase, time.Since(start), err)
	if err != nil {
		if entity.KindOf(err) == "" {
			err = entity.WrapError(err, entity.KindBackendUnavailable, "request completion", "")
		}
		o.logger.Error("Completion failed", "phase", phase, "error", err)
		return entity.Message{}, err
	}

	o.logger.Debug("Completion received",
		"phase", phase,
		"toolCalls", len(resp.Message.ToolCalls),
		"contentLen", len(resp.Message.Content))
	return resp.Message, nil
}

// ExecuteTool runs the registered tool with the arguments exactly as given.
// An unregistered name fails with an unknown-tool error and runs nothing.
func (o *ToolCallOrchestrator) ExecuteTool(ctx context.Context, name entity.ToolName, arguments string) (string, error) {
	tool, ok := o.tools.Get(name)
	if !ok {
		o.logger.Warn("Unknown tool called", "name", name)
		err := entity.NewError(entity.KindUnknownTool, "execute tool", fmt.Sprintf("no tool named %q", name))
		o.metrics.ObserveToolCall(name.String(), 0, err)
		return "", err
	}

	o.logger.Info("Executing tool", "name", name, "args", arguments)

	start := time.Now()
	result, err := tool.Execute(ctx, arguments)
	o.metrics.ObserveToolCall(name.String(), time.Since(start), err)
	if err != nil {
		if entity.KindOf(err) == "" {
			err = entity.WrapError(err, entity.KindToolFailed, name.String(), "")
		}
		o.logger.Error("Tool execution failed", "name", name, "error", err)
		return "", err
	}

	o.logger.Debug("Tool completed", "name", name, "resultLen", len(result))
	return result, nil
}

// RunRoundTrip performs the full tool-calling round trip and decodes the
// validated final answer into out. The final, schema-constrained completion
// is requested even when the first reply contains no tool calls. On error the
// returned result is in the errored state and out is left untouched.
func (o *ToolCallOrchestrator) RunRoundTrip(ctx context.Context, req RoundTripRequest, out any) (*entity.RoundTripResult, error) {
	result := &entity.RoundTripResult{
		ID:    o.newID(),
		State: entity.StateStart,
	}
	log := o.logger.WithField("roundTrip", result.ID)
	start := time.Now()

	fail := func(err error) (*entity.RoundTripResult, error) {
		o.transition(ctx, log, result, entity.StateErrored)
		o.metrics.ObserveRoundTrip(string(entity.StateErrored), time.Since(start))
		log.Error("Round trip failed", "kind", entity.KindOf(err), "error", err)
		return result, err
	}

	if req.OutputSchema == nil {
		return fail(entity.NewError(entity.KindInvalidRequest, "round trip", "output schema is required"))
	}

	tools := req.Tools
	if tools == nil {
		tools = o.tools.Definitions()
	}

	messages := []entity.Message{
		entity.SystemMessage(req.SystemPrompt),
		entity.UserMessage(req.UserPrompt),
	}

	o.transition(ctx, log, result, entity.StateAwaitingFirstResponse)
	first, err := o.complete(ctx, output.PhaseFirst, messages, tools, nil)
	if err != nil {
		return fail(err)
	}

	if first.HasToolCalls() {
		o.transition(ctx, log, result, entity.StateExecutingTools)

		assistant := o.correlate(first)
		messages = append(messages, assistant)

		for _, call := range assistant.ToolCalls {
			o.progress.ShowToolStart(ctx, call.Name.String(), call.Arguments)

			observation, err := o.ExecuteTool(ctx, call.Name, call.Arguments)
			if err != nil {
				o.progress.ShowToolResult(ctx, call.Name.String(), err.Error(), true)
				return fail(err)
			}
			o.progress.ShowToolResult(ctx, call.Name.String(), observation, false)

			toolMsg := entity.Message{
				Role:    entity.RoleTool,
				Name:    call.Name.String(),
				Content: observation,
			}
			if o.correlation == entity.CorrelateByID {
				toolMsg.ToolCallID = call.ID
			}
			messages = append(messages, toolMsg)
			result.Invocations = append(result.Invocations, entity.ToolInvocation{Call: call, Result: observation})
		}
	} else {
		log.Debug("No tool calls requested")
	}

	o.transition(ctx, log, result, entity.StateAwaitingFinalResponse)
	final, err := o.complete(ctx, output.PhaseFinal, messages, tools, req.OutputSchema)
	if err != nil {
		return fail(err)
	}
	result.Messages = messages
	result.Final = final

	if final.HasToolCalls() {
		log.Warn("Final response requested more tool calls; they are ignored", "toolCalls", len(final.ToolCalls))
	}

	if err := service.DecodeStructured(req.OutputSchema, final.Content, out); err != nil {
		return fail(err)
	}
	result.Content = final.Content

	o.transition(ctx, log, result, entity.StateComplete)
	o.metrics.ObserveRoundTrip(string(entity.StateComplete), time.Since(start))
	log.Info("Round trip completed", "toolCalls", len(result.Invocations))
	return result, nil
}

// correlate returns a copy of msg whose tool calls all carry an id when
// results are correlated by id.
func (o *ToolCallOrchestrator) correlate(msg entity.Message) entity.Message {
	calls := make([]entity.ToolCall, len(msg.ToolCalls))
	copy(calls, msg.ToolCalls)
	if o.correlation == entity.CorrelateByID {
		for i := range calls {
			if calls[i].ID == "" {
				calls[i].ID = "call_" + o.newID()
			}
		}
	}
	msg.ToolCalls = calls
	return msg
}

func (o *ToolCallOrchestrator) transition(ctx context.Context, log output.LoggerPort, result *entity.RoundTripResult, state entity.RoundTripState) {
	if result.State.Terminal() {
		log.Warn("Ignoring transition out of terminal state", "from", result.State, "to", state)
		return
	}
	log.Debug("Round trip state", "from", result.State, "to", state)
	result.State = state
	o.progress.ShowState(ctx, state)
}
