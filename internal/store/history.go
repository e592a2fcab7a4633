package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"github.com/jmoiron/sqlx"

	"github.com/abhisek/placement/internal/quiz"
)

// historyRepo implements HistoryRepo over the test_results table. The full
// result is stored as JSON; the other columns exist for listing and lookup.
type historyRepo struct {
	db   *sqlx.DB
	seq  *sequenceCounter
	slot string
}

func (r *historyRepo) Append(ctx context.Context, res quiz.TestResult) error {
	if res.ID == "" {
		return fmt.Errorf("append result: empty id")
	}

	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := builder().Insert(resultTable.Name).
		Columns("sequence", "created_at", "slot", "result_id", "student_name",
			"preliminary_level", "score", "max_score", "data").
		Values(seqNum, time.Now().UnixMilli(), r.slot, res.ID, res.StudentData.FullName,
			res.PreliminaryLevel, res.Score, res.MaxScore, string(data)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateResultID(err) {
			return fmt.Errorf("append result %s: %w", res.ID, ErrDuplicateResult)
		}
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// isDuplicateResultID reports whether err is the UNIQUE violation on
// result_id. The insert itself is the existence check, so two concurrent
// appends of one id cannot both pass.
func isDuplicateResultID(err error) bool {
	return sqlgraph.IsUniqueConstraintError(err) && strings.Contains(err.Error(), "result_id")
}

func (r *historyRepo) All(ctx context.Context) ([]quiz.TestResult, error) {
	query, args := builder().Select("data").
		From(entsql.Table(resultTable.Name)).
		Where(entsql.EQ("slot", r.slot)).
		OrderBy("sequence").
		Query()

	var rows []string
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}

	out := make([]quiz.TestResult, 0, len(rows))
	for _, data := range rows {
		res, err := decodeResult(data)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *historyRepo) Get(ctx context.Context, id string) (*quiz.TestResult, error) {
	query, args := builder().Select("data").
		From(entsql.Table(resultTable.Name)).
		Where(entsql.And(entsql.EQ("slot", r.slot), entsql.EQ("result_id", id))).
		Limit(1).
		Query()

	var data string
	if err := r.db.GetContext(ctx, &data, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get result %s: %w", id, err)
	}

	res, err := decodeResult(data)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func decodeResult(data string) (quiz.TestResult, error) {
	var res quiz.TestResult
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return quiz.TestResult{}, fmt.Errorf("unmarshal result: %w", err)
	}
	return res, nil
}
