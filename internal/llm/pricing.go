package llm

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD price of a request.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// LookupCost returns the price of modelID, or nil if it is not listed.
func LookupCost(modelID string) *ModelCost {
	c, ok := modelCosts[modelID]
	if !ok {
		return nil
	}
	return &c
}

// List prices of the models this module defaults to or aliases.
var modelCosts = map[string]ModelCost{
	"claude-haiku-4-5-20251001":   {1, 5},
	"claude-sonnet-4-5-20250929":  {3, 15},
	"gpt-4o-mini":                 {0.15, 0.6},
	"gpt-4o":                      {2.5, 10},
	"gpt-4.1-mini":                {0.4, 1.6},
	"gemini-2.5-flash":            {0.3, 2.5},
	"gemini-2.5-pro":              {1.25, 10},
	"google/gemini-2.0-flash-001": {0.1, 0.4},

	// speech
	"gemini-2.5-flash-preview-tts": {0.5, 10},
	"gpt-4o-mini-tts":              {0.6, 12},
}
