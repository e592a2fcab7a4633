package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

var geminiAliases = map[string]string{
	"gemini-flash": "gemini-2.5-flash",
	"gemini-pro":   "gemini-2.5-pro",
}

// GeminiProvider calls the Gemini API through the genai SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider builds a provider from cfg.
func NewGeminiProvider(ctx context.Context, cfg BackendConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: alias(cfg.Model, geminiAliases)}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	gc := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		gc.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		gc.ResponseMIMEType = "application/json"
		gc.ResponseSchema = geminiSchema(req.Schema.Definition)
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, gc)
	if err != nil {
		return nil, geminiError(err)
	}

	content := json.RawMessage(result.Text())
	if len(result.Candidates) > 0 && result.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}

	resp := &Response{Content: content, Model: p.model, StopReason: "end"}
	if u := result.UsageMetadata; u != nil {
		resp.Usage = newUsage(int(u.PromptTokenCount), int(u.CandidatesTokenCount))
	}
	return resp, nil
}

func (p *GeminiProvider) ModelID() string { return p.model }
func (p *GeminiProvider) Name() string    { return BackendGemini }

func geminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr.Code, err)
	}
	return &ErrProviderUnavailable{Err: err}
}

var geminiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

// geminiSchema converts the subset of JSON Schema used by this module:
// type, description, properties, required, enum and items.
func geminiSchema(def map[string]any) *genai.Schema {
	s := &genai.Schema{Type: genai.TypeString}
	if t, ok := def["type"].(string); ok {
		if gt, ok := geminiTypes[t]; ok {
			s.Type = gt
		}
	}
	if d, ok := def["description"].(string); ok {
		s.Description = d
	}
	if props, ok := def["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, v := range props {
			if sub, ok := v.(map[string]any); ok {
				s.Properties[name] = geminiSchema(sub)
			}
		}
	}
	s.Required = stringList(def["required"])
	s.Enum = stringList(def["enum"])
	if items, ok := def["items"].(map[string]any); ok {
		s.Items = geminiSchema(items)
	}
	return s
}

// stringList accepts both []string and []any.
func stringList(v any) []string {
	switch v := v.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
