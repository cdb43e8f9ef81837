package langchain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"llm-workflow/internal/application/port/output"
	"llm-workflow/internal/domain/entity"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Format   string `json:"format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newOllamaServer(t *testing.T, status int, body string, captured *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body + "\n"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newAdapter(t *testing.T, serverURL string) *OllamaAdapter {
	t.Helper()
	adapter, err := NewOllamaAdapter(Config{ServerURL: serverURL, Model: "llama3.2"})
	require.NoError(t, err)
	return adapter
}

func TestOllamaAdapter_Chat(t *testing.T) {
	var captured chatRequest
	srv := newOllamaServer(t, http.StatusOK,
		`{"model":"llama3.2","message":{"role":"assistant","content":"A python once coded with flair"},"done":true,"eval_count":12,"prompt_eval_count":20}`,
		&captured)

	resp, err := newAdapter(t, srv.URL).Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{
			entity.SystemMessage("You are a helpful assistant."),
			entity.UserMessage("Write a limerick about python programming"),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleAssistant, resp.Message.Role)
	assert.Equal(t, "A python once coded with flair", resp.Message.Content)

	assert.Equal(t, "llama3.2", captured.Model)
	assert.Empty(t, captured.Format)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestOllamaAdapter_ChatWithOutputSchema(t *testing.T) {
	var captured chatRequest
	srv := newOllamaServer(t, http.StatusOK,
		`{"model":"llama3.2","message":{"role":"assistant","content":"{\"name\":\"Science Fair\"}"},"done":true}`,
		&captured)

	schema := &entity.OutputSchema{
		Name: "calendar_event",
		Schema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"name": {Type: "string"}},
		},
	}

	resp, err := newAdapter(t, srv.URL).Chat(context.Background(), output.ChatRequest{
		Messages:     []entity.Message{entity.UserMessage("Alice and Bob are going to a science fair on Friday.")},
		OutputSchema: schema,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"name":"Science Fair"}`, resp.Message.Content)
	assert.Equal(t, "json", captured.Format)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[1].Role)
	assert.Contains(t, captured.Messages[1].Content, `"name"`)
}

func TestOllamaAdapter_RejectsTools(t *testing.T) {
	adapter := newAdapter(t, "http://127.0.0.1:1")

	_, err := adapter.Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{entity.UserMessage("hi")},
		Tools:    []entity.ToolDefinition{{Name: entity.ToolGetWeather}},
	})
	assert.True(t, errors.Is(err, entity.ErrInvalidRequest))

	_, err = adapter.Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{{Role: entity.RoleTool, Content: "{}"}},
	})
	assert.True(t, errors.Is(err, entity.ErrInvalidRequest))
}

func TestOllamaAdapter_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusInternalServerError, `{"error":"llama runner process has terminated"}`, entity.ErrBackendUnavailable},
		{"model not found", http.StatusNotFound, `{"error":"model \"nope\" not found, try pulling it first"}`, entity.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOllamaServer(t, tt.status, tt.body, nil)

			_, err := newAdapter(t, srv.URL).Chat(context.Background(), output.ChatRequest{
				Messages: []entity.Message{entity.UserMessage("hi")},
			})

			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestOllamaAdapter_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	serverURL := srv.URL
	srv.Close()

	_, err := newAdapter(t, serverURL).Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{entity.UserMessage("hi")},
	})

	assert.True(t, errors.Is(err, entity.ErrBackendUnavailable))
}
