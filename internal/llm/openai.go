package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenAIProvider calls the chat completions API. Any OpenAI-compatible
// endpoint works through BaseURL; OpenRouter is one.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	name   string
}

// NewOpenAIProvider builds a provider for api.openai.com or cfg.BaseURL.
func NewOpenAIProvider(cfg BackendConfig) (*OpenAIProvider, error) {
	return newOpenAICompatible(BackendOpenAI, cfg)
}

// NewOpenRouterProvider builds a provider for OpenRouter.
func NewOpenRouterProvider(cfg BackendConfig) (*OpenAIProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenRouterBaseURL
	}
	return newOpenAICompatible(BackendOpenRouter, cfg)
}

func newOpenAICompatible(name string, cfg BackendConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
		name:   name,
	}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chat := openai.ChatCompletionRequest{
		Model:               p.model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("marshal schema: %w", err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      true,
			},
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, statusError(apiErr.HTTPStatusCode, err)
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("response has no choices")}
	}

	choice := resp.Choices[0]
	content := json.RawMessage(choice.Message.Content)
	if choice.FinishReason == openai.FinishReasonLength {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}

	return &Response{
		Content:    content,
		Usage:      newUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
		Model:      resp.Model,
		StopReason: "end",
	}, nil
}

func (p *OpenAIProvider) ModelID() string { return p.model }
func (p *OpenAIProvider) Name() string    { return p.name }
