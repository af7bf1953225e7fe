package llm

import (
	"strings"
)

// Answer is the model's reply to a single query
type Answer struct {
	Text         string     `json:"text"`
	Model        string     `json:"model"`
	FinishReason string     `json:"finish_reason"`
	Usage        TokenUsage `json:"usage"`
}

// TokenUsage represents token usage statistics from an API call
type TokenUsage struct {
	Timestamp        string `json:"timestamp"`
	Model            string `json:"model"`
	ResponseType     string `json:"response_type"`
	PromptTokens     int64  `json:"prompt_tokens"`
	CompletionTokens int64  `json:"completion_tokens"`
	ReasoningTokens  int64  `json:"reasoning_tokens,omitempty"`
	TotalTokens      int64  `json:"total_tokens"`
	ResponseID       string `json:"response_id"`
	// Cost estimation
	InputCostUSD  float64 `json:"input_cost_usd"`
	OutputCostUSD float64 `json:"output_cost_usd"`
	TotalCostUSD  float64 `json:"total_cost_usd"`
}

// TokenStats tracks cumulative token usage across all API calls
type TokenStats struct {
	TotalPromptTokens     int64   `json:"total_prompt_tokens"`
	TotalCompletionTokens int64   `json:"total_completion_tokens"`
	TotalReasoningTokens  int64   `json:"total_reasoning_tokens"`
	TotalTokens           int64   `json:"total_tokens"`
	CallCount             int64   `json:"call_count"`
	TotalCostUSD          float64 `json:"total_cost_usd"`
}

// ModelPricing represents the pricing structure for a model
type ModelPricing struct {
	InputPerMillion  float64 // USD per 1M input tokens
	OutputPerMillion float64 // USD per 1M output tokens
}

// GetModelPricing returns pricing information for known models
func GetModelPricing(model string) *ModelPricing {
	normalizedModel := strings.ToLower(model)
	normalizedModel = strings.TrimPrefix(normalizedModel, "openai/")

	switch {
	case strings.HasPrefix(normalizedModel, "gpt-4o-mini"):
		return &ModelPricing{InputPerMillion: 0.150, OutputPerMillion: 0.600}
	case strings.HasPrefix(normalizedModel, "gpt-4o"):
		return &ModelPricing{InputPerMillion: 2.500, OutputPerMillion: 10.000}
	case strings.HasPrefix(normalizedModel, "gpt-4-turbo"):
		return &ModelPricing{InputPerMillion: 10.000, OutputPerMillion: 30.000}
	case strings.HasPrefix(normalizedModel, "gpt-4"):
		return &ModelPricing{InputPerMillion: 30.000, OutputPerMillion: 60.000}
	case strings.HasPrefix(normalizedModel, "gpt-3.5-turbo"):
		return &ModelPricing{InputPerMillion: 0.500, OutputPerMillion: 1.500}
	default:
		// Unknown models get no cost estimation
		return nil
	}
}

// CalculateCost estimates the cost of a token usage
func (tu *TokenUsage) CalculateCost() {
	pricing := GetModelPricing(tu.Model)
	if pricing == nil {
		tu.InputCostUSD = 0
		tu.OutputCostUSD = 0
		tu.TotalCostUSD = 0
		return
	}

	tu.InputCostUSD = float64(tu.PromptTokens) * pricing.InputPerMillion / 1_000_000

	// Reasoning tokens are billed as output tokens
	outputTokens := tu.CompletionTokens + tu.ReasoningTokens
	tu.OutputCostUSD = float64(outputTokens) * pricing.OutputPerMillion / 1_000_000

	tu.TotalCostUSD = tu.InputCostUSD + tu.OutputCostUSD
}
