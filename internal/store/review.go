package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

type reviewRepo struct {
	db  *sqlx.DB
	seq *sequenceCounter
}

type reviewRow struct {
	ID             int    `db:"id"`
	Sequence       int64  `db:"sequence"`
	CreatedAt      int64  `db:"created_at"`
	ResultID       string `db:"result_id"`
	QuestionID     int    `db:"question_id"`
	Model          string `db:"model"`
	SuggestedLevel string `db:"suggested_level"`
	Feedback       string `db:"feedback"`
	Strengths      string `db:"strengths"`
	Issues         string `db:"issues"`
}

func (r *reviewRepo) SaveReview(ctx context.Context, note ReviewNote) error {
	strengths, err := json.Marshal(nonNil(note.Strengths))
	if err != nil {
		return fmt.Errorf("marshal strengths: %w", err)
	}
	issues, err := json.Marshal(nonNil(note.Issues))
	if err != nil {
		return fmt.Errorf("marshal issues: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := builder().Insert(reviewTable.Name).
		Columns("sequence", "created_at", "result_id", "question_id", "model",
			"suggested_level", "feedback", "strengths", "issues").
		Values(seqNum, time.Now().UnixMilli(), note.ResultID, note.QuestionID, note.Model,
			note.SuggestedLevel, note.Feedback, string(strengths), string(issues)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save review note: %w", err)
	}
	return nil
}

func (r *reviewRepo) ReviewsFor(ctx context.Context, resultID string) ([]ReviewNote, error) {
	query, args := builder().Select("id", "sequence", "created_at", "result_id", "question_id",
		"model", "suggested_level", "feedback", "strengths", "issues").
		From(entsql.Table(reviewTable.Name)).
		Where(entsql.EQ("result_id", resultID)).
		OrderBy("sequence").
		Query()

	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query review notes: %w", err)
	}

	out := make([]ReviewNote, 0, len(rows))
	for _, row := range rows {
		note := ReviewNote{
			ID:             row.ID,
			Sequence:       row.Sequence,
			Timestamp:      time.UnixMilli(row.CreatedAt).UTC(),
			ResultID:       row.ResultID,
			QuestionID:     row.QuestionID,
			Model:          row.Model,
			SuggestedLevel: row.SuggestedLevel,
			Feedback:       row.Feedback,
		}
		if err := json.Unmarshal([]byte(row.Strengths), &note.Strengths); err != nil {
			return nil, fmt.Errorf("unmarshal strengths: %w", err)
		}
		if err := json.Unmarshal([]byte(row.Issues), &note.Issues); err != nil {
			return nil, fmt.Errorf("unmarshal issues: %w", err)
		}
		out = append(out, note)
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
