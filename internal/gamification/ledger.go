// Package gamification keeps each user's XP, level, daily streak and
// achievements. All mutations go through Update, which serializes per user
// and persists the new state together with the events that produced it.
package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/pytutor/internal/content"
	"github.com/abhisek/pytutor/internal/store"
	"github.com/abhisek/pytutor/internal/userlock"
)

// Ledger is the gamification service.
type Ledger struct {
	repo    store.ProgressRepo
	catalog *content.Catalog
	locks   *userlock.Map
	now     func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger creates a Ledger persisting to repo. Achievement ids are checked
// against catalog.
func NewLedger(repo store.ProgressRepo, catalog *content.Catalog, opts ...Option) *Ledger {
	l := &Ledger{
		repo:    repo,
		catalog: catalog,
		locks:   userlock.New(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Now returns the ledger's current time.
func (l *Ledger) Now() time.Time {
	return l.now()
}

// Update runs fn against the user's progress under the user's lock. The
// progress is loaded (or initialized for new users), fn mutates it through
// tx, and the result is saved with all emitted events. If fn or the save
// fails nothing is applied.
func (l *Ledger) Update(ctx context.Context, userID string, fn func(tx *Tx) error) ([]Event, error) {
	unlock := l.locks.Lock(userID)
	defer unlock()

	p, err := l.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx := &Tx{
		ctx:      ctx,
		ledger:   l,
		progress: p,
		now:      l.now(),
		keys:     make(map[string]bool),
	}
	if err := fn(tx); err != nil {
		return nil, err
	}
	if !tx.dirty {
		return nil, nil
	}

	if err := l.repo.Save(ctx, tx.progress, toRecords(userID, tx.events)); err != nil {
		log.Error().Err(err).Str("user", userID).Msg("Failed to save progress")
		return nil, err
	}

	for _, e := range tx.events {
		log.Debug().
			Str("user", userID).
			Str("kind", string(e.Kind)).
			Int("amount", e.Amount).
			Str("achievement", e.AchievementID).
			Int("xp", e.XP).
			Int("level", e.Level).
			Int("streak", e.StreakDays).
			Msg("Gamification event")
	}
	return tx.events, nil
}

// Progress returns a copy of the user's current progress. Unknown users get
// the initial state: level 1, no XP.
func (l *Ledger) Progress(ctx context.Context, userID string) (*store.Progress, error) {
	return l.load(ctx, userID)
}

// Lookup returns the user's stored progress and whether any exists.
func (l *Ledger) Lookup(ctx context.Context, userID string) (*store.Progress, bool, error) {
	p, err := l.repo.Load(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("load progress for %s: %w", userID, err)
	}
	if p == nil {
		return &store.Progress{UserID: userID, Level: 1}, false, nil
	}
	return p, true, nil
}

// Level returns the user's level, 1 for unknown users.
func (l *Ledger) Level(ctx context.Context, userID string) (int, error) {
	p, err := l.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return p.Level, nil
}

// AwardXP adds amount XP for reason, applying the streak rule first.
func (l *Ledger) AwardXP(ctx context.Context, userID string, amount int, reason string) (XPResult, error) {
	var res XPResult
	_, err := l.Update(ctx, userID, func(tx *Tx) error {
		var err error
		res, err = tx.AwardXP(Award{Amount: amount, Reason: reason})
		return err
	})
	return res, err
}

// AwardAchievement grants an achievement if the user does not hold it yet.
// It reports whether the achievement was newly granted.
func (l *Ledger) AwardAchievement(ctx context.Context, userID, achievementID string) (bool, error) {
	var granted bool
	_, err := l.Update(ctx, userID, func(tx *Tx) error {
		var err error
		granted, err = tx.AwardAchievement(achievementID)
		return err
	})
	return granted, err
}

// RecordShare increments the user's share count.
func (l *Ledger) RecordShare(ctx context.Context, userID string) (ShareResult, error) {
	var res ShareResult
	_, err := l.Update(ctx, userID, func(tx *Tx) error {
		var err error
		res, err = tx.RecordShare()
		return err
	})
	return res, err
}

// Reset deletes all stored progress for the user.
func (l *Ledger) Reset(ctx context.Context, userID string) error {
	unlock := l.locks.Lock(userID)
	defer unlock()
	return l.repo.Delete(ctx, userID)
}

func (l *Ledger) load(ctx context.Context, userID string) (*store.Progress, error) {
	p, _, err := l.Lookup(ctx, userID)
	return p, err
}

func toRecords(userID string, events []Event) []store.AwardEventData {
	records := make([]store.AwardEventData, len(events))
	for i, e := range events {
		records[i] = store.AwardEventData{
			UserID:        userID,
			Kind:          string(e.Kind),
			Amount:        e.Amount,
			AchievementID: e.AchievementID,
			Reason:        e.Reason,
			DedupKey:      e.Key,
			XPAfter:       e.XP,
			LevelAfter:    e.Level,
			StreakAfter:   e.StreakDays,
			Timestamp:     e.At,
		}
	}
	return records
}
