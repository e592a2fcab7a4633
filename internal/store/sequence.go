package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out one increasing number shared by every appended
// record: results, request events and review notes. History order is
// sequence order, independent of wall-clock time.
//
// The increment is raw SQL because the builder has no atomic
// read-and-increment; RETURNING makes it atomic in the database and the
// mutex serializes callers in this process.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(ctx context.Context, db *sql.DB) (*sequenceCounter, error) {
	query, args := builder().Insert(sequenceTable.Name).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next returns the next sequence number.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
