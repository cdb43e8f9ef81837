package prompts

import (
	"bytes"
	"strings"
	"text/template"

	"llm-workflow/internal/application/port/output"
)

type ToolInfo struct {
	Name        string
	Description string
}

type ToolPromptData struct {
	Tools []ToolInfo
}

// GenerateToolPrompt renders baseTemplate with the tools currently in the
// registry, in registry order (sorted by name).
func GenerateToolPrompt(baseTemplate string, registry output.ToolRegistry) (string, error) {
	tools := registry.All()
	infos := make([]ToolInfo, 0, len(tools))

	for _, tool := range tools {
		infos = append(infos, ToolInfo{
			Name:        string(tool.Name()),
			Description: tool.Description(),
		})
	}

	tmpl, err := template.New("tools").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ToolPromptData{Tools: infos}); err != nil {
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}
