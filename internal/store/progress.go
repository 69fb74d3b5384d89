package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// progressRepo implements ProgressRepo on the progress and award_events tables.
type progressRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var progressSelectColumns = []string{
	"user_id", "xp", "level", "streak_days", "last_activity", "current_lesson",
	"last_lesson_at", "completed_lessons", "achievements", "share_count",
}

func (r *progressRepo) Load(ctx context.Context, userID string) (*Progress, error) {
	query, args := builder.Select(progressSelectColumns...).
		From(entsql.Table(ProgressTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var (
		p                     Progress
		lastActivity, lastLsn sql.NullTime
		completed, achieved   []byte
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&p.UserID, &p.XP, &p.Level, &p.StreakDays, &lastActivity, &p.CurrentLesson,
		&lastLsn, &completed, &achieved, &p.ShareCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistErr("load progress", err)
	}

	if lastActivity.Valid {
		p.LastActivity = lastActivity.Time
	}
	if lastLsn.Valid {
		p.LastLessonAt = lastLsn.Time
	}
	if err := unmarshalColumn(completed, &p.CompletedLessons); err != nil {
		return nil, persistErr("decode completed lessons", err)
	}
	if err := unmarshalColumn(achieved, &p.Achievements); err != nil {
		return nil, persistErr("decode achievements", err)
	}
	return &p, nil
}

func (r *progressRepo) Save(ctx context.Context, p *Progress, events []AwardEventData) error {
	completed, err := json.Marshal(nonNil(p.CompletedLessons))
	if err != nil {
		return persistErr("encode completed lessons", err)
	}
	achieved, err := json.Marshal(nonNil(p.Achievements))
	if err != nil {
		return persistErr("encode achievements", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("begin transaction", err)
	}
	defer tx.Rollback()

	query, args := builder.Insert(ProgressTable.Name).
		Columns(append(slices.Clone(progressSelectColumns), "updated_at")...).
		Values(
			p.UserID, p.XP, p.Level, p.StreakDays, nullTime(p.LastActivity), p.CurrentLesson,
			nullTime(p.LastLessonAt), completed, achieved, p.ShareCount, time.Now().UTC(),
		).
		OnConflict(entsql.ConflictColumns("user_id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return persistErr("save progress", err)
	}

	for _, e := range events {
		if err := r.appendAwardEvent(ctx, tx, e); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return persistErr("commit progress", err)
	}
	return nil
}

func (r *progressRepo) appendAwardEvent(ctx context.Context, tx *sql.Tx, e AwardEventData) error {
	seqNum, err := r.seq.Next(ctx, tx)
	if err != nil {
		return persistErr("award event", err)
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	var dedup any
	if e.DedupKey != "" {
		dedup = e.DedupKey
	}

	query, args := builder.Insert(AwardEventsTable.Name).
		Columns("sequence", "timestamp", "user_id", "kind", "amount", "achievement_id",
			"reason", "dedup_key", "xp_after", "level_after", "streak_after").
		Values(seqNum, ts.UTC(), e.UserID, e.Kind, e.Amount, e.AchievementID,
			e.Reason, dedup, e.XPAfter, e.LevelAfter, e.StreakAfter).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return persistErr("save award event", err)
	}
	return nil
}

func (r *progressRepo) Delete(ctx context.Context, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("begin transaction", err)
	}
	defer tx.Rollback()

	for _, table := range []string{AwardEventsTable.Name, ProgressTable.Name} {
		query, args := builder.Delete(table).Where(entsql.EQ("user_id", userID)).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return persistErr("delete "+table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return persistErr("commit delete", err)
	}
	return nil
}

func (r *progressRepo) HasAwardKey(ctx context.Context, userID, key string) (bool, error) {
	query, args := builder.Select("id").
		From(entsql.Table(AwardEventsTable.Name)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("dedup_key", key))).
		Limit(1).
		Query()

	var id int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, persistErr("lookup award key", err)
	}
	return true, nil
}

func (r *progressRepo) QueryAwardEvents(ctx context.Context, userID string, opts QueryOpts) ([]AwardEventRecord, error) {
	preds := []*entsql.Predicate{entsql.EQ("user_id", userID)}
	preds = append(preds, seqPredicates(opts)...)

	sel := builder.Select("sequence", "timestamp", "user_id", "kind", "amount", "achievement_id",
		"reason", "dedup_key", "xp_after", "level_after", "streak_after").
		From(entsql.Table(AwardEventsTable.Name)).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr("query award events", err)
	}
	defer rows.Close()

	var records []AwardEventRecord
	for rows.Next() {
		var (
			rec   AwardEventRecord
			dedup sql.NullString
		)
		if err := rows.Scan(&rec.Sequence, &rec.Timestamp, &rec.UserID, &rec.Kind, &rec.Amount,
			&rec.AchievementID, &rec.Reason, &dedup, &rec.XPAfter, &rec.LevelAfter, &rec.StreakAfter); err != nil {
			return nil, persistErr("scan award event", err)
		}
		rec.DedupKey = dedup.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("query award events", err)
	}
	return records, nil
}

func (r *progressRepo) ListUserIDs(ctx context.Context) ([]string, error) {
	query, args := builder.Select("user_id").
		From(entsql.Table(ProgressTable.Name)).
		OrderBy("user_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr("list users", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, persistErr("scan user", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// seqPredicates translates the sequence and time bounds of opts.
func seqPredicates(opts QueryOpts) []*entsql.Predicate {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UTC()))
	}
	return preds
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func unmarshalColumn(b []byte, v any) error {
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}
