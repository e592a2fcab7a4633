// Package llm talks to hosted language models. It is used by the review
// assistant to draft notes on free-text answers.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates a completion for a Request.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the output is JSON that validates against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider is configured for.
	ModelID() string

	// Name is the backend name: anthropic, openai, gemini, openrouter, mock.
	Name() string
}

// Request is one prompt.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64 // 0 leaves the backend default
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt builds a single-turn request.
func UserPrompt(system, prompt string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// Schema is a JSON Schema the output must satisfy. Name doubles as the
// tool or schema name on backends that need one.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model output.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string // "end" or "max_tokens"
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

func newUsage(in, out int) Usage {
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}
