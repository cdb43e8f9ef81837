package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"llm-workflow/internal/application/port/input"
	"llm-workflow/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	system, prompt string
	err            error
}

func (f *fakeChat) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.system, f.prompt = systemPrompt, userPrompt
	if f.err != nil {
		return "", f.err
	}
	return "There once was a coder named Guido", nil
}

type fakeEvents struct {
	err error
}

func (f *fakeEvents) Extract(ctx context.Context, text string) (*entity.CalendarEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &entity.CalendarEvent{Name: "Science Fair", Date: "Friday", Participants: []string{"Alice", "Bob"}}, nil
}

type fakeWeather struct {
	answer *input.WeatherAnswer
	err    error
}

func (f *fakeWeather) Ask(ctx context.Context, question string) (*input.WeatherAnswer, error) {
	return f.answer, f.err
}

func newTestHandler(chat *fakeChat, events *fakeEvents, weather *fakeWeather) http.Handler {
	return NewHandler(Config{
		Chat:    chat,
		Events:  events,
		Weather: weather,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# metrics\n"))
		}),
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Chat(t *testing.T) {
	chat := &fakeChat{}
	h := newTestHandler(chat, &fakeEvents{}, &fakeWeather{})

	rec := do(t, h, http.MethodPost, "/v1/chat", `{"system_prompt":"Be brief.","prompt":"Write a limerick about python programming"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"content":"There once was a coder named Guido"}`, rec.Body.String())
	assert.Equal(t, "Be brief.", chat.system)
	assert.Equal(t, "Write a limerick about python programming", chat.prompt)
}

func TestHandler_Events(t *testing.T) {
	h := newTestHandler(&fakeChat{}, &fakeEvents{}, &fakeWeather{})

	rec := do(t, h, http.MethodPost, "/v1/events", `{"text":"Alice and Bob are going to a science fair on Friday."}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"Science Fair","date":"Friday","participants":["Alice","Bob"]}`, rec.Body.String())
}

func TestHandler_Weather(t *testing.T) {
	weather := &fakeWeather{answer: &input.WeatherAnswer{
		Weather: entity.WeatherResponse{Temperature: 29.4, Response: "It is hot in Chennai."},
		RoundTrip: &entity.RoundTripResult{
			State: entity.StateComplete,
			Invocations: []entity.ToolInvocation{{
				Call:   entity.ToolCall{ID: "call_1", Name: entity.ToolGetWeather, Arguments: `{"latitude":13.08,"longitude":80.27}`},
				Result: `{"temperature_2m":29.4}`,
			}},
		},
	}}
	h := newTestHandler(&fakeChat{}, &fakeEvents{}, weather)

	rec := do(t, h, http.MethodPost, "/v1/weather", `{"question":"What's the weather like in Chennai today?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body weatherResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 29.4, body.Temperature)
	assert.Equal(t, "It is hot in Chennai.", body.Response)
	require.Len(t, body.ToolCalls, 1)
	assert.Equal(t, "get_weather", body.ToolCalls[0].Name)
	assert.JSONEq(t, `{"latitude":13.08,"longitude":80.27}`, string(body.ToolCalls[0].Arguments))
}

func TestHandler_BadRequests(t *testing.T) {
	h := newTestHandler(&fakeChat{}, &fakeEvents{}, &fakeWeather{})

	tests := []struct {
		name string
		path string
		body string
	}{
		{"empty body", "/v1/chat", ""},
		{"malformed json", "/v1/chat", `{"prompt":`},
		{"unknown field", "/v1/events", `{"text":"x","when":"now"}`},
		{"missing prompt", "/v1/chat", `{"system_prompt":"x"}`},
		{"blank question", "/v1/weather", `{"question":"  "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestHandler_ErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		kind string
	}{
		{"backend down", entity.NewError(entity.KindBackendUnavailable, "llm.Chat", "connection refused"), http.StatusServiceUnavailable, "BACKEND_UNAVAILABLE"},
		{"schema mismatch", entity.NewError(entity.KindSchemaMismatch, "DecodeStructured", "temperature: type"), http.StatusBadGateway, "SCHEMA_MISMATCH"},
		{"unknown tool", entity.NewError(entity.KindUnknownTool, "ExecuteTool", "unknown_tool"), http.StatusBadGateway, "UNKNOWN_TOOL"},
		{"unclassified", errors.New("boom"), http.StatusBadGateway, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&fakeChat{}, &fakeEvents{}, &fakeWeather{err: tt.err})

			rec := do(t, h, http.MethodPost, "/v1/weather", `{"question":"What's the weather like in Chennai today?"}`)

			assert.Equal(t, tt.want, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.kind, body.Kind)
		})
	}
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	h := newTestHandler(&fakeChat{}, &fakeEvents{}, &fakeWeather{})

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# metrics")

	rec = do(t, h, http.MethodGet, "/v1/chat", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRawArguments(t *testing.T) {
	assert.JSONEq(t, `{"a":1}`, string(rawArguments(`{"a":1}`)))
	assert.JSONEq(t, `"not json"`, string(rawArguments("not json")))
}
