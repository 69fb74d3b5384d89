package gamification

import (
	"errors"
	"time"
)

// Streak windows: a gap inside [StreakWindowMin, StreakWindowMax] extends the
// streak, a longer gap restarts it, a shorter one leaves it unchanged.
const (
	StreakWindowMin = 20 * time.Hour
	StreakWindowMax = 28 * time.Hour

	// StreakAchievementDays is the streak length that unlocks "streaker".
	StreakAchievementDays = 3

	// AchievementXP is awarded with every newly earned achievement.
	AchievementXP = 50

	// ShareAchievementCount is the share count that unlocks "social_butterfly".
	ShareAchievementCount = 3
)

// maxCascade bounds the number of queued awards one operation may process.
const maxCascade = 16

var (
	// ErrNegativeXP is returned for awards below zero.
	ErrNegativeXP = errors.New("xp amount must not be negative")

	// ErrCascadeLimit is returned when an award triggers too many follow-ups.
	ErrCascadeLimit = errors.New("award cascade limit exceeded")
)

// EventKind identifies a gamification event.
type EventKind string

const (
	EventXPAwarded           EventKind = "xp_awarded"
	EventLevelUp             EventKind = "level_up"
	EventStreakChanged       EventKind = "streak_changed"
	EventAchievementUnlocked EventKind = "achievement_unlocked"
)

// Event is something the ledger did to a user's state. XP, Level and
// StreakDays are the values right after the event.
type Event struct {
	Kind          EventKind
	Amount        int
	Reason        string
	AchievementID string
	Key           string
	XP            int
	Level         int
	StreakDays    int
	At            time.Time
}

// Award is a request to add XP.
type Award struct {
	Amount int
	Reason string

	// Key makes the award idempotent: a keyed award is applied at most once
	// per user.
	Key string
}

// XPResult reports the user's state after an award and its cascade.
type XPResult struct {
	XP        int
	Level     int
	LeveledUp bool

	// Duplicate is set when a keyed award had already been applied.
	Duplicate bool
}

// ShareResult reports the outcome of recording a share.
type ShareResult struct {
	ShareCount int
	Unlocked   bool
}
