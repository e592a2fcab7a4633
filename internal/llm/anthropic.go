package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var anthropicAliases = map[string]string{
	"claude-haiku":  "claude-haiku-4-5-20251001",
	"claude-sonnet": "claude-sonnet-4-5-20250929",
}

// AnthropicProvider calls the Anthropic Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

// NewAnthropicProvider builds a provider from cfg. Extra request options
// are appended after the API key.
func NewAnthropicProvider(cfg BackendConfig, opts ...option.RequestOption) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}
	all := append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	if cfg.BaseURL != "" {
		all = append(all, option.WithBaseURL(cfg.BaseURL))
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(all...),
		model:  alias(cfg.Model, anthropicAliases),
	}, nil
}

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(req.MaxTokens),
		Messages:  make([]anthropic.MessageParam, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, statusError(apiErr.StatusCode, err)
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}

	var text string
	found := false
	for _, block := range msg.Content {
		if block.Type == "text" {
			text, found = block.Text, true
			break
		}
	}
	if !found {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("anthropic response has no text block")}
	}
	content := json.RawMessage(text)

	if msg.StopReason == anthropic.StopReasonMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}

	return &Response{
		Content:    content,
		Usage:      newUsage(int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)),
		Model:      string(msg.Model),
		StopReason: "end",
	}, nil
}

func (p *AnthropicProvider) ModelID() string { return p.model }
func (p *AnthropicProvider) Name() string    { return BackendAnthropic }

// alias resolves a short model name; unknown names pass through.
func alias(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
