package userinteraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"llm-workflow/internal/application/port/output"
	"llm-workflow/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.ProgressPort = (*ConsoleProgress)(nil)

type ConsoleProgress struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleProgress writes to stderr so answers on stdout stay clean.
func NewConsoleProgress() *ConsoleProgress {
	return NewConsoleProgressTo(os.Stderr)
}

func NewConsoleProgressTo(out io.Writer) *ConsoleProgress {
	return &ConsoleProgress{out: out}
}

func (c *ConsoleProgress) ShowState(ctx context.Context, state entity.RoundTripState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch state {
	case entity.StateComplete:
		color.New(color.FgGreen, color.Bold).Fprintf(c.out, "━━━ %s ━━━\n", stateLabel(state))
	case entity.StateErrored:
		color.New(color.FgRed, color.Bold).Fprintf(c.out, "━━━ %s ━━━\n", stateLabel(state))
	default:
		color.New(color.FgCyan).Fprintf(c.out, "━━━ %s ━━━\n", stateLabel(state))
	}
}

func (c *ConsoleProgress) ShowToolStart(ctx context.Context, toolName, arguments string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	icon, name := getToolDisplay(toolName)
	color.New(color.FgYellow, color.Bold).Fprintf(c.out, "%s %s\n", icon, name)

	if summary := formatToolArguments(toolName, arguments); summary != "" {
		color.New(color.Faint).Fprintf(c.out, "   %s\n", summary)
	}
}

func (c *ConsoleProgress) ShowToolResult(ctx context.Context, toolName, result string, isError bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if isError {
		color.New(color.FgRed).Fprint(c.out, "❌ Error: ")
		color.New(color.Faint).Fprintln(c.out, truncate(result, 300))
		return
	}

	color.New(color.FgGreen).Fprintf(c.out, "✓ %s\n", formatToolResult(toolName, result))
}

func stateLabel(state entity.RoundTripState) string {
	switch state {
	case entity.StateAwaitingFirstResponse:
		return "Asking the model"
	case entity.StateExecutingTools:
		return "Executing tools"
	case entity.StateAwaitingFinalResponse:
		return "Asking for the final answer"
	case entity.StateComplete:
		return "Done"
	case entity.StateErrored:
		return "Failed"
	}
	return string(state)
}

func getToolDisplay(toolName string) (string, string) {
	if toolName == string(entity.ToolGetWeather) {
		return "🌤️", "Weather lookup"
	}
	return "🔧", toolName
}

func formatToolArguments(toolName, arguments string) string {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return truncate(arguments, 80)
	}

	if toolName == string(entity.ToolGetWeather) {
		lat, latOK := args["latitude"].(float64)
		lon, lonOK := args["longitude"].(float64)
		if latOK && lonOK {
			return fmt.Sprintf("Coordinates: %.4f, %.4f", lat, lon)
		}
	}

	return truncate(arguments, 80)
}

func formatToolResult(toolName, result string) string {
	if toolName == string(entity.ToolGetWeather) {
		var current entity.CurrentWeather
		if err := json.Unmarshal([]byte(result), &current); err == nil && current.Time != "" {
			return fmt.Sprintf("%.1f°C, wind %.1f km/h at %s", current.Temperature, current.WindSpeed, current.Time)
		}
	}
	return truncate(result, 100)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
