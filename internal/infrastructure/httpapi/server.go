package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"llm-workflow/internal/application/port/input"
	"llm-workflow/internal/application/port/output"
	"llm-workflow/internal/domain/entity"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

const maxBodyBytes = 1 << 20

type Config struct {
	Chat    input.ChatCompleter
	Events  input.EventExtractor
	Weather input.WeatherAsker

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	Logger  output.LoggerPort

	// AccessLog enables httplog request logging.
	AccessLog bool
}

type Server struct {
	chat    input.ChatCompleter
	events  input.EventExtractor
	weather input.WeatherAsker
	logger  output.LoggerPort
}

func NewHandler(cfg Config) http.Handler {
	s := &Server{
		chat:    cfg.Chat,
		events:  cfg.Events,
		weather: cfg.Weather,
		logger:  cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.AccessLog {
		r.Use(httplog.RequestLogger(httplog.NewLogger("llm-workflow", httplog.Options{JSON: true})))
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Post("/events", s.handleEvents)
		r.Post("/weather", s.handleWeather)
	})

	return r
}

type chatRequest struct {
	SystemPrompt string `json:"system_prompt,omitempty"`
	Prompt       string `json:"prompt"`
}

type chatResponse struct {
	Content string `json:"content"`
}

type eventRequest struct {
	Text string `json:"text"`
}

type weatherRequest struct {
	Question string `json:"question"`
}

type toolCallView struct {
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
	Result    string          `json:"result"`
}

type weatherResponse struct {
	Temperature float64        `json:"temperature"`
	Response    string         `json:"response"`
	ToolCalls   []toolCallView `json:"tool_calls"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	content, err := s.chat.Complete(r.Context(), req.SystemPrompt, req.Prompt)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Content: content})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	event, err := s.events.Extract(r.Context(), req.Text)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	var req weatherRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := s.weather.Ask(r.Context(), req.Question)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp := weatherResponse{
		Temperature: answer.Weather.Temperature,
		Response:    answer.Weather.Response,
		ToolCalls:   []toolCallView{},
	}
	if answer.RoundTrip != nil {
		for _, inv := range answer.RoundTrip.Invocations {
			resp.ToolCalls = append(resp.ToolCalls, toolCallView{
				ID:        inv.Call.ID,
				Name:      string(inv.Call.Name),
				Arguments: rawArguments(inv.Call.Arguments),
				Result:    inv.Result,
			})
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// rawArguments embeds backend arguments as JSON when they are valid JSON,
// and as a JSON string otherwise.
func rawArguments(arguments string) json.RawMessage {
	if json.Valid([]byte(arguments)) {
		return json.RawMessage(arguments)
	}
	quoted, _ := json.Marshal(arguments)
	return quoted
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "request body is empty")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if s.logger != nil {
		s.logger.Error("Request failed",
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"kind", string(entity.KindOf(err)),
			"status", status,
			"error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: string(entity.KindOf(err))})
}

func statusFor(err error) int {
	if errors.Is(err, entity.ErrBackendUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
