package progression

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/pytutor/internal/gamification"
	"github.com/abhisek/pytutor/internal/plan"
	"github.com/abhisek/pytutor/internal/share"
)

// requestShare renders the user's progress card and counts the share once
// rendering succeeded.
func (e *Engine) requestShare(ctx context.Context, userID string) (*Outcome, error) {
	p, found, err := e.ledger.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("share: %w", ErrNoProgress)
	}

	snap := share.Snapshot{
		UserID:           userID,
		Level:            p.Level,
		CompletedLessons: len(p.CompletedLessons),
		StreakDays:       p.StreakDays,
	}
	art, err := e.sharer.Render(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("render share card: %w", err)
	}

	var res gamification.ShareResult
	events, err := e.ledger.Update(ctx, userID, func(tx *gamification.Tx) error {
		var err error
		res, err = tx.RecordShare()
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("user", userID).Int("shares", res.ShareCount).Bool("unlocked", res.Unlocked).Msg("Progress shared")

	view := &ShareView{
		Card:       art.Card,
		Caption:    art.Caption,
		ShareCount: res.ShareCount,
		Unlocked:   res.Unlocked,
	}
	return &Outcome{Kind: OutcomeShare, Text: shareText(view), Share: view, Events: events}, nil
}

// Snapshot returns the user's current share snapshot.
func (e *Engine) Snapshot(ctx context.Context, userID string) (share.Snapshot, error) {
	p, err := e.ledger.Progress(ctx, userID)
	if err != nil {
		return share.Snapshot{}, err
	}
	return share.Snapshot{
		UserID:           userID,
		Level:            p.Level,
		CompletedLessons: len(p.CompletedLessons),
		StreakDays:       p.StreakDays,
	}, nil
}

func (e *Engine) viewProgress(ctx context.Context, userID string) (*Outcome, error) {
	view, err := e.Progress(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Outcome{Kind: OutcomeProgress, Text: progressText(view), Progress: view}, nil
}

// Progress collects the user's standing, including the plan from their
// latest test.
func (e *Engine) Progress(ctx context.Context, userID string) (*ProgressView, error) {
	p, found, err := e.ledger.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &ProgressView{
		Level:         p.Level,
		XP:            p.XP,
		StreakDays:    p.StreakDays,
		CurrentLesson: p.CurrentLesson,
		ShareCount:    p.ShareCount,
		Started:       found,
	}
	if next, ok := gamification.NextThreshold(p.Level); ok {
		view.NextLevelXP = next
	}
	for _, id := range p.CompletedLessons {
		ref := LessonRef{ID: id}
		if l, err := e.catalog.Lesson(id); err == nil {
			ref.Topic = l.Topic
		} else {
			log.Error().Err(err).Str("user", userID).Int("lesson", id).Msg("Completed lesson missing from catalog")
		}
		view.CompletedLessons = append(view.CompletedLessons, ref)
	}
	for _, earned := range p.Achievements {
		a, err := e.catalog.Achievement(earned.ID)
		if err != nil {
			log.Error().Err(err).Str("user", userID).Str("achievement", earned.ID).Msg("Achievement missing from catalog")
			continue
		}
		view.Achievements = append(view.Achievements, a)
	}

	if e.results != nil {
		latest, err := e.results.LatestTestResult(ctx, userID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			view.Started = true
			for _, entry := range latest.Plan {
				view.Plan = append(view.Plan, plan.Day{Day: entry.Day, LessonID: entry.LessonID, Topic: entry.Topic})
			}
		}
	}
	return view, nil
}
