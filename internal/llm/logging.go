package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/abhisek/placement/internal/store"
)

type loggingProvider struct {
	inner Provider
	repo  store.EventRepo
}

// WithLogging records every call to p in repo. A failure to record is
// logged and otherwise ignored.
func WithLogging(p Provider, repo store.EventRepo) Provider {
	if repo == nil {
		return p
	}
	return &loggingProvider{inner: p, repo: repo}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.RequestEventData{
		Kind:        store.KindLLM,
		Provider:    l.inner.Name(),
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: describeRequest(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	// The caller's context may already be done; the record still matters.
	if logErr := l.repo.AppendRequest(context.WithoutCancel(ctx), ev); logErr != nil {
		log.Printf("llm: record request event: %v", logErr)
	}
	return resp, err
}

func (l *loggingProvider) ModelID() string { return l.inner.ModelID() }
func (l *loggingProvider) Name() string    { return l.inner.Name() }

// describeRequest renders req as readable text for the event log.
func describeRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
