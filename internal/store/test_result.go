package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// testResultRepo implements TestResultRepo on the test_results table.
type testResultRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *testResultRepo) SaveTestResult(ctx context.Context, data TestResultData) error {
	scores, err := json.Marshal(data.Scores)
	if err != nil {
		return persistErr("encode scores", err)
	}
	weak, err := json.Marshal(nonNil(data.WeakAreas))
	if err != nil {
		return persistErr("encode weak areas", err)
	}
	plan, err := json.Marshal(nonNil(data.Plan))
	if err != nil {
		return persistErr("encode plan", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("begin transaction", err)
	}
	defer tx.Rollback()

	seqNum, err := r.seq.Next(ctx, tx)
	if err != nil {
		return persistErr("test result", err)
	}

	ts := data.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := builder.Insert(TestResultsTable.Name).
		Columns("sequence", "timestamp", "user_id", "session_id", "correct", "total",
			"scores", "weak_areas", "plan").
		Values(seqNum, ts.UTC(), data.UserID, data.SessionID, data.Correct, data.Total,
			scores, weak, plan).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return persistErr("save test result", err)
	}

	if err := tx.Commit(); err != nil {
		return persistErr("commit test result", err)
	}
	return nil
}

func (r *testResultRepo) LatestTestResult(ctx context.Context, userID string) (*TestResultRecord, error) {
	query, args := builder.Select("id", "sequence", "timestamp", "user_id", "session_id",
		"correct", "total", "scores", "weak_areas", "plan").
		From(entsql.Table(TestResultsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()

	var (
		rec               TestResultRecord
		scores, weak, pln []byte
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &rec.Sequence, &rec.Timestamp,
		&rec.UserID, &rec.SessionID, &rec.Correct, &rec.Total, &scores, &weak, &pln)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistErr("query latest test result", err)
	}

	if err := unmarshalColumn(scores, &rec.Scores); err != nil {
		return nil, persistErr("decode scores", err)
	}
	if err := unmarshalColumn(weak, &rec.WeakAreas); err != nil {
		return nil, persistErr("decode weak areas", err)
	}
	if err := unmarshalColumn(pln, &rec.Plan); err != nil {
		return nil, persistErr("decode plan", err)
	}
	return &rec, nil
}

func (r *testResultRepo) DeleteTestResults(ctx context.Context, userID string) error {
	query, args := builder.Delete(TestResultsTable.Name).Where(entsql.EQ("user_id", userID)).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return persistErr("delete test results", err)
	}
	return nil
}
