package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/noperator/heph/pkg/command"
	"github.com/noperator/heph/pkg/config"
	"github.com/noperator/heph/pkg/logging"
)

// Provider errors, classified from the HTTP status of the failed call.
var (
	ErrInvalidToken   = errors.New("API token is invalid")
	ErrDependencyBusy = errors.New("AI provider is busy")
	ErrServiceDown    = errors.New("AI provider is unavailable")
)

const (
	systemMessage = "You are Hephaestus, a concise assistant for software developers working in a terminal."
	defaultTopP   = 1.0
)

// Client answers queries through an OpenAI-compatible chat completions API
type Client struct {
	client     openai.Client
	config     config.Config
	logger     *slog.Logger
	tokenStats TokenStats
	statsMutex sync.Mutex
}

// NewClient creates a new provider client
func NewClient(cfg config.Config, opts ...option.RequestOption) *Client {
	base := []option.RequestOption{
		option.WithAPIKey(cfg.APIToken),
		option.WithMaxRetries(0),
	}

	if cfg.BaseURL != "" {
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		base = append(base, option.WithBaseURL(baseURL))
	}

	return &Client{
		client: openai.NewClient(append(base, opts...)...),
		config: cfg,
		logger: logging.NewLoggerFromEnv(),
	}
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// CheckValidity verifies the token by listing the models it can see.
func (c *Client) CheckValidity(ctx context.Context) error {
	c.logger.Debug("checking token",
		"component", "llm",
		"operation", "check_validity")

	if _, err := c.client.Models.List(ctx); err != nil {
		return classifyError(err)
	}
	return nil
}

// Answer sends a query and returns the first choice of the completion
func (c *Client) Answer(ctx context.Context, query string, rt command.ResponseType) (*Answer, error) {
	prompt, metadata, err := RenderPrompt(query, rt, c.config.PromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to render prompt: %w", err)
	}

	maxTokens := c.config.MaxTokens
	if metadata.MaxTokens > 0 {
		maxTokens = metadata.MaxTokens
	}

	temperature := c.config.Temperature
	if metadata.Temperature >= 0 {
		temperature = metadata.Temperature
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemMessage),
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(c.config.Model),
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(temperature),
		TopP:        openai.Float(defaultTopP),
	}

	c.logger.Info("sending query",
		"component", "llm",
		"operation", "answer",
		"model", c.config.Model,
		"template_type", metadata.Type,
		"prompt_chars", len(prompt))

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no response choices returned", ErrServiceDown)
	}

	choice := resp.Choices[0]
	if choice.Message.Content == "" {
		if choice.Message.Refusal != "" {
			return nil, fmt.Errorf("model refused to answer: %s", choice.Message.Refusal)
		}
		return nil, fmt.Errorf("%w: empty content (finish reason: %s, response id: %s)",
			ErrServiceDown, choice.FinishReason, resp.ID)
	}

	usage := c.extractTokenUsage(resp, rt)
	c.logTokenUsage(usage)

	return &Answer{
		Text:         choice.Message.Content,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
		Usage:        usage,
	}, nil
}

// GetTokenStats returns current token usage statistics
func (c *Client) GetTokenStats() TokenStats {
	c.statsMutex.Lock()
	defer c.statsMutex.Unlock()
	return c.tokenStats
}

// extractTokenUsage extracts token usage from OpenAI response
func (c *Client) extractTokenUsage(resp *openai.ChatCompletion, rt command.ResponseType) TokenUsage {
	responseType := string(rt)
	if responseType == "" {
		responseType = string(command.ResponseText)
	}

	usage := TokenUsage{
		Timestamp:        time.Now().Format(time.RFC3339),
		Model:            resp.Model,
		ResponseType:     responseType,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		ReasoningTokens:  resp.Usage.CompletionTokensDetails.ReasoningTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		ResponseID:       resp.ID,
	}

	usage.CalculateCost()

	return usage
}

// logTokenUsage logs token usage and updates statistics
func (c *Client) logTokenUsage(usage TokenUsage) {
	c.statsMutex.Lock()
	c.tokenStats.TotalPromptTokens += usage.PromptTokens
	c.tokenStats.TotalCompletionTokens += usage.CompletionTokens
	c.tokenStats.TotalReasoningTokens += usage.ReasoningTokens
	c.tokenStats.TotalTokens += usage.TotalTokens
	c.tokenStats.CallCount++
	c.tokenStats.TotalCostUSD += usage.TotalCostUSD
	c.statsMutex.Unlock()

	c.logger.Debug("token usage",
		"component", "llm",
		"model", usage.Model,
		"response_type", usage.ResponseType,
		"input_tokens", usage.PromptTokens,
		"output_tokens", usage.CompletionTokens+usage.ReasoningTokens,
		"total_cost_usd", usage.TotalCostUSD)
}

// classifyError maps an API failure onto the provider error sentinels.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %v", ErrInvalidToken, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrDependencyBusy, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrServiceDown, err)
}
