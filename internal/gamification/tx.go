package gamification

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/abhisek/pytutor/internal/content"
	"github.com/abhisek/pytutor/internal/store"
)

// Tx is a unit of work on one user's progress, valid only inside the
// function passed to Ledger.Update.
type Tx struct {
	ctx      context.Context
	ledger   *Ledger
	progress *store.Progress
	now      time.Time
	events   []Event
	keys     map[string]bool
	dirty    bool
}

// pendingAward is one queued step of an award cascade: either XP or an
// achievement.
type pendingAward struct {
	xp            *Award
	achievementID string
}

// Now is the timestamp applied to every change in the transaction.
func (tx *Tx) Now() time.Time {
	return tx.now
}

// Progress returns a copy of the progress as modified so far.
func (tx *Tx) Progress() *store.Progress {
	return tx.progress.Clone()
}

// Events returns the events emitted so far.
func (tx *Tx) Events() []Event {
	return slices.Clone(tx.events)
}

// AwardXP adds XP, applying the streak rule and any follow-up awards.
// A keyed award already applied for this user is skipped and reported as a
// duplicate.
func (tx *Tx) AwardXP(a Award) (XPResult, error) {
	if a.Amount < 0 {
		return XPResult{}, fmt.Errorf("%w: %d", ErrNegativeXP, a.Amount)
	}
	if a.Key != "" {
		seen, err := tx.keySeen(a.Key)
		if err != nil {
			return XPResult{}, err
		}
		if seen {
			return XPResult{XP: tx.progress.XP, Level: tx.progress.Level, Duplicate: true}, nil
		}
	}

	before := tx.progress.Level
	if err := tx.run(pendingAward{xp: &a}); err != nil {
		return XPResult{}, err
	}
	return XPResult{
		XP:        tx.progress.XP,
		Level:     tx.progress.Level,
		LeveledUp: tx.progress.Level > before,
	}, nil
}

// AwardAchievement grants the achievement and its XP bonus unless the user
// already holds it. It reports whether the achievement was newly granted.
func (tx *Tx) AwardAchievement(id string) (bool, error) {
	if tx.ledger.catalog != nil {
		if _, err := tx.ledger.catalog.Achievement(id); err != nil {
			return false, err
		}
	}
	if tx.progress.HasAchievement(id) {
		return false, nil
	}
	if err := tx.run(pendingAward{achievementID: id}); err != nil {
		return false, err
	}
	return true, nil
}

// RecordShare increments the share count, unlocking "social_butterfly" when
// the count reaches ShareAchievementCount.
func (tx *Tx) RecordShare() (ShareResult, error) {
	tx.progress.ShareCount++
	tx.dirty = true

	res := ShareResult{ShareCount: tx.progress.ShareCount}
	if tx.progress.ShareCount == ShareAchievementCount {
		granted, err := tx.AwardAchievement(content.AchievementSocialButterfly)
		if err != nil {
			return ShareResult{}, err
		}
		res.Unlocked = granted
	}
	return res, nil
}

// SetCurrentLesson records the lesson the user is working on and, when at
// is non-zero, the time the lesson was started.
func (tx *Tx) SetCurrentLesson(lessonID int, at time.Time) {
	tx.progress.CurrentLesson = lessonID
	if !at.IsZero() {
		tx.progress.LastLessonAt = at
	}
	tx.dirty = true
}

// CompleteLesson adds the lesson to the completed set. It reports false if
// the lesson was already completed.
func (tx *Tx) CompleteLesson(lessonID int) bool {
	if tx.progress.HasCompleted(lessonID) {
		return false
	}
	tx.progress.CompletedLessons = append(tx.progress.CompletedLessons, lessonID)
	tx.dirty = true
	return true
}

// run drains the award queue. XP awards may enqueue achievements through the
// streak rule; achievements enqueue their XP bonus and never other
// achievements.
func (tx *Tx) run(first pendingAward) error {
	queue := []pendingAward{first}
	for steps := 0; len(queue) > 0; steps++ {
		if steps >= maxCascade {
			return ErrCascadeLimit
		}
		next := queue[0]
		queue = queue[1:]

		if next.xp != nil {
			queue = append(queue, tx.applyXP(*next.xp)...)
			continue
		}

		if tx.progress.HasAchievement(next.achievementID) {
			continue
		}
		tx.progress.Achievements = append(tx.progress.Achievements, store.EarnedAchievement{
			ID:       next.achievementID,
			EarnedAt: tx.now,
		})
		tx.dirty = true
		tx.emit(Event{Kind: EventAchievementUnlocked, AchievementID: next.achievementID})
		queue = append(queue, pendingAward{xp: &Award{
			Amount: AchievementXP,
			Reason: "achievement:" + next.achievementID,
		}})
	}
	return nil
}

// applyXP updates the streak, XP and level for one award and returns the
// follow-up awards it triggers.
func (tx *Tx) applyXP(a Award) []pendingAward {
	p := tx.progress
	var follow []pendingAward

	if !p.LastActivity.IsZero() {
		gap := tx.now.Sub(p.LastActivity)
		switch {
		case gap >= StreakWindowMin && gap <= StreakWindowMax:
			p.StreakDays++
			tx.emit(Event{Kind: EventStreakChanged})
			if p.StreakDays == StreakAchievementDays {
				follow = append(follow, pendingAward{achievementID: content.AchievementStreaker})
			}
		case gap > StreakWindowMax:
			if p.StreakDays != 1 {
				p.StreakDays = 1
				tx.emit(Event{Kind: EventStreakChanged})
			}
		}
	}
	p.LastActivity = tx.now

	p.XP += a.Amount
	tx.emit(Event{Kind: EventXPAwarded, Amount: a.Amount, Reason: a.Reason, Key: a.Key})
	if a.Key != "" {
		tx.keys[a.Key] = true
	}

	if level := LevelForXP(p.XP); level != p.Level {
		p.Level = level
		tx.emit(Event{Kind: EventLevelUp})
	}

	tx.dirty = true
	return follow
}

// emit appends an event stamped with the current state.
func (tx *Tx) emit(e Event) {
	e.XP = tx.progress.XP
	e.Level = tx.progress.Level
	e.StreakDays = tx.progress.StreakDays
	e.At = tx.now
	tx.events = append(tx.events, e)
}

func (tx *Tx) keySeen(key string) (bool, error) {
	if tx.keys[key] {
		return true, nil
	}
	return tx.ledger.repo.HasAwardKey(tx.ctx, tx.progress.UserID, key)
}
