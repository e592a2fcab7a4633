package review

import "github.com/abhisek/placement/internal/llm"

// NoteSchema is the structured output of one review.
var NoteSchema = &llm.Schema{
	Name:        "answer-review",
	Description: "Advisory assessment of a learner's free-text answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"suggested_level": map[string]any{
				"type":        "string",
				"enum":        []any{"A1", "A2", "B1", "B2", "C1", "C2"},
				"description": "CEFR level the answer demonstrates",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "2-4 sentences for the teacher, in Russian",
			},
			"strengths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "1-3 strengths (a few words each)",
			},
			"issues": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "0-4 concrete grammar, vocabulary or coherence issues",
			},
		},
		"required":             []any{"suggested_level", "feedback", "strengths", "issues"},
		"additionalProperties": false,
	},
}
