package llm

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/noperator/heph/pkg/command"
)

const textPromptTemplate = `{{/* type: text */}}
Answer the following question clearly and concisely.

{{.Query}}`

const codePromptTemplate = `{{/* type: code */}}
Reply with code only, inside one fenced code block tagged with its language.
Do not add explanations before or after the block.

{{.Query}}`

// promptData holds the data for prompt template rendering
type promptData struct {
	Query        string
	ResponseType string
	Code         bool
}

// TemplateMetadata holds parsed template metadata
type TemplateMetadata struct {
	Type        string  `json:"type"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"` // negative when unset
}

// RenderPrompt renders the prompt for a query. A non-empty customTemplatePath
// replaces the built-in text and code templates.
func RenderPrompt(query string, rt command.ResponseType, customTemplatePath string) (string, *TemplateMetadata, error) {
	templateContent := textPromptTemplate
	if rt == command.ResponseCode {
		templateContent = codePromptTemplate
	}

	if customTemplatePath != "" {
		content, err := os.ReadFile(customTemplatePath)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read template file %s: %w", customTemplatePath, err)
		}
		templateContent = string(content)
	}

	metadata := ParseTemplateMetadata(templateContent)

	data := promptData{
		Query:        query,
		ResponseType: string(rt),
		Code:         rt == command.ResponseCode,
	}

	tmpl, err := template.New("prompt").Parse(templateContent)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var result bytes.Buffer
	if err := tmpl.Execute(&result, data); err != nil {
		return "", nil, fmt.Errorf("failed to execute template: %w", err)
	}

	return strings.TrimSpace(result.String()), metadata, nil
}

// ParseTemplateMetadata reads {{/* key: value */}} comments from the first lines of a template
func ParseTemplateMetadata(content string) *TemplateMetadata {
	metadata := &TemplateMetadata{
		Type:        "generic",
		Temperature: -1,
	}

	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines) && i < 15; i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{{/*") || !strings.HasSuffix(line, "*/}}") {
			continue
		}

		commentContent := strings.TrimSpace(line[4 : len(line)-4])
		colonIndex := strings.Index(commentContent, ":")
		if colonIndex <= 0 {
			continue
		}
		key := strings.TrimSpace(commentContent[:colonIndex])
		value := strings.TrimSpace(commentContent[colonIndex+1:])

		switch key {
		case "type":
			metadata.Type = value
		case "max_tokens":
			if tokensVal := parseInt(value); tokensVal > 0 {
				metadata.MaxTokens = tokensVal
			}
		case "temperature":
			if tempVal := parseFloat(value); tempVal >= 0 {
				metadata.Temperature = tempVal
			}
		}
	}

	return metadata
}

// parseInt safely parses an integer from string
func parseInt(s string) int {
	val := 0
	if n, _ := fmt.Sscanf(s, "%d", &val); n == 1 {
		return val
	}
	return 0
}

// parseFloat safely parses a float from string
func parseFloat(s string) float64 {
	val := float64(0)
	if n, _ := fmt.Sscanf(s, "%f", &val); n == 1 {
		return val
	}
	return -1
}
