package observability

import (
	"strconv"

	"github.com/Conceptual-Machines/story-api/internal/llm"
)

const (
	tokensPerMillion    = 1_000_000.0
	costFormatPrecision = 6
)

// ModelPricing contains pricing information per 1M tokens
type ModelPricing struct {
	InputPricePer1M  float64 // Price per 1M input tokens in USD
	OutputPricePer1M float64 // Price per 1M output tokens in USD
}

// PricingTable contains list pricing for the models the style catalog can point at
var PricingTable = map[string]ModelPricing{
	// Groq
	"llama-3.3-70b-versatile": {InputPricePer1M: 0.59, OutputPricePer1M: 0.79},
	"llama-3.1-70b-versatile": {InputPricePer1M: 0.59, OutputPricePer1M: 0.79},
	"llama-3.1-8b-instant":    {InputPricePer1M: 0.05, OutputPricePer1M: 0.08},
	"mixtral-8x7b-32768":      {InputPricePer1M: 0.24, OutputPricePer1M: 0.24},
	// OpenAI
	"gpt-4o":      {InputPricePer1M: 2.50, OutputPricePer1M: 10.00},
	"gpt-4o-mini": {InputPricePer1M: 0.15, OutputPricePer1M: 0.60},
	// Gemini
	"gemini-2.0-flash": {InputPricePer1M: 0.10, OutputPricePer1M: 0.40},
	// Anthropic
	"claude-3-5-haiku-latest": {InputPricePer1M: 0.80, OutputPricePer1M: 4.00},
}

// CalculateCost returns the USD cost of a completion. Unknown models cost 0.
func CalculateCost(model string, usage llm.Usage) float64 {
	pricing, exists := PricingTable[model]
	if !exists {
		return 0
	}

	inputCost := (float64(usage.InputTokens) / tokensPerMillion) * pricing.InputPricePer1M
	outputCost := (float64(usage.OutputTokens) / tokensPerMillion) * pricing.OutputPricePer1M
	return inputCost + outputCost
}

// FormatCost formats a cost value as a USD string
func FormatCost(cost float64) string {
	return "$" + strconv.FormatFloat(cost, 'f', costFormatPrecision, 64)
}
