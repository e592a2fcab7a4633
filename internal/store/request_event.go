package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

// eventRepo implements EventRepo over the request_events table.
type eventRepo struct {
	db  *sqlx.DB
	seq *sequenceCounter
}

type requestRow struct {
	ID           int    `db:"id"`
	Sequence     int64  `db:"sequence"`
	CreatedAt    int64  `db:"created_at"`
	Kind         string `db:"kind"`
	Provider     string `db:"provider"`
	Model        string `db:"model"`
	Purpose      string `db:"purpose"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	LatencyMs    int64  `db:"latency_ms"`
	Success      bool   `db:"success"`
	ErrorMessage string `db:"error_message"`
	RequestBody  string `db:"request_body"`
	ResponseBody string `db:"response_body"`
}

var requestSelectColumns = []string{
	"id", "sequence", "created_at", "kind", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success", "error_message",
	"request_body", "response_body",
}

func (r *eventRepo) AppendRequest(ctx context.Context, data RequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := builder().Insert(requestTable.Name).
		Columns(requestSelectColumns[1:]...).
		Values(seqNum, time.Now().UnixMilli(), data.Kind, data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage,
			data.RequestBody, data.ResponseBody).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

// QueryRequests returns matching events, newest first.
func (r *eventRepo) QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error) {
	sel := builder().Select(requestSelectColumns...).
		From(entsql.Table(requestTable.Name)).
		OrderBy(entsql.Desc("sequence"))

	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("created_at", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("created_at", opts.To.UnixMilli()))
	}
	if opts.Kind != "" {
		sel.Where(entsql.EQ("kind", opts.Kind))
	}
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	var rows []requestRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}

	out := make([]RequestEventRecord, len(rows))
	for i, row := range rows {
		out[i] = row.record()
	}
	return out, nil
}

func (r *eventRepo) GetRequest(ctx context.Context, id int) (*RequestEventRecord, error) {
	query, args := builder().Select(requestSelectColumns...).
		From(entsql.Table(requestTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	var row requestRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request event %d: %w", id, err)
	}
	rec := row.record()
	return &rec, nil
}

type usageRow struct {
	Key          string `db:"grp"`
	Calls        int    `db:"calls"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	AvgLatencyMs int64  `db:"avg_latency_ms"`
}

func (r *eventRepo) UsageBy(ctx context.Context, column string) ([]UsageRow, error) {
	switch column {
	case "purpose", "model", "kind", "provider":
	default:
		return nil, fmt.Errorf("usage: cannot group by %q", column)
	}

	query, args := builder().Select(
		entsql.As(column, "grp"),
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As("COALESCE(SUM(input_tokens), 0)", "input_tokens"),
		entsql.As("COALESCE(SUM(output_tokens), 0)", "output_tokens"),
		entsql.As("CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER)", "avg_latency_ms"),
	).
		From(entsql.Table(requestTable.Name)).
		GroupBy(column).
		OrderBy(column).
		Query()

	var rows []usageRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}

	out := make([]UsageRow, len(rows))
	for i, row := range rows {
		out[i] = UsageRow(row)
	}
	return out, nil
}

func (row requestRow) record() RequestEventRecord {
	return RequestEventRecord{
		ID:        row.ID,
		Sequence:  row.Sequence,
		Timestamp: time.UnixMilli(row.CreatedAt).UTC(),
		RequestEventData: RequestEventData{
			Kind:         row.Kind,
			Provider:     row.Provider,
			Model:        row.Model,
			Purpose:      row.Purpose,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			LatencyMs:    row.LatencyMs,
			Success:      row.Success,
			ErrorMessage: row.ErrorMessage,
			RequestBody:  row.RequestBody,
			ResponseBody: row.ResponseBody,
		},
	}
}
