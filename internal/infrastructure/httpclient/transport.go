package httpclient

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"llm-workflow/internal/application/port/output"
)

// LoggingTransport logs each request with its JSON body and the response
// status at debug level.
type LoggingTransport struct {
	Base   http.RoundTripper
	Logger output.LoggerPort
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var bodyBytes []byte
	if req.Body != nil {
		bodyBytes, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	var requestData map[string]any
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &requestData)
	}

	t.Logger.Debug("HTTP Request",
		"method", req.Method,
		"url", req.URL.String(),
		"body", requestData,
	)

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		t.Logger.Debug("HTTP Request failed", "url", req.URL.String(), "error", err)
		return resp, err
	}

	t.Logger.Debug("HTTP Response",
		"status", resp.Status,
		"statusCode", resp.StatusCode,
	)
	return resp, nil
}

func (t *LoggingTransport) base() http.RoundTripper {
	if t.Base == nil {
		return http.DefaultTransport
	}
	return t.Base
}

// New returns a client with the given timeout (zero means none). A non-nil
// logger enables request logging.
func New(timeout time.Duration, logger output.LoggerPort) *http.Client {
	var transport http.RoundTripper = http.DefaultTransport
	if logger != nil {
		transport = &LoggingTransport{Base: transport, Logger: logger}
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
