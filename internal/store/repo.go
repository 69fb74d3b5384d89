package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// EarnedAchievement is an achievement a user holds, with the time it was granted.
type EarnedAchievement struct {
	ID       string    `json:"id"`
	EarnedAt time.Time `json:"earned_at"`
}

// Progress is the durable gamification and course state of one user.
type Progress struct {
	UserID     string
	XP         int
	Level      int
	StreakDays int
	// LastActivity is zero until the first XP award.
	LastActivity time.Time
	// CurrentLesson is 0 until the user starts their first lesson.
	CurrentLesson    int
	LastLessonAt     time.Time
	CompletedLessons []int
	Achievements     []EarnedAchievement
	ShareCount       int
}

// HasAchievement reports whether the achievement has been earned.
func (p *Progress) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// HasCompleted reports whether the lesson is in the completed set.
func (p *Progress) HasCompleted(lessonID int) bool {
	for _, id := range p.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of p.
func (p *Progress) Clone() *Progress {
	c := *p
	c.CompletedLessons = append([]int(nil), p.CompletedLessons...)
	c.Achievements = append([]EarnedAchievement(nil), p.Achievements...)
	return &c
}

// AwardEventData captures one gamification event: an XP award, a level
// change, a streak change or an achievement unlock.
type AwardEventData struct {
	UserID        string
	Kind          string
	Amount        int
	AchievementID string
	Reason        string
	// DedupKey, when set, makes the event unique per user.
	DedupKey    string
	XPAfter     int
	LevelAfter  int
	StreakAfter int
	Timestamp   time.Time
}

// AwardEventRecord is a stored award event.
type AwardEventRecord struct {
	AwardEventData
	Sequence int64
}

// ProgressRepo persists per-user progress together with the award events
// that produced it.
type ProgressRepo interface {
	// Load returns the user's progress, or nil if none is recorded.
	Load(ctx context.Context, userID string) (*Progress, error)

	// Save writes p and appends events in one transaction.
	Save(ctx context.Context, p *Progress, events []AwardEventData) error

	// Delete removes the user's progress and award events.
	Delete(ctx context.Context, userID string) error

	// HasAwardKey reports whether an award with the dedup key was recorded.
	HasAwardKey(ctx context.Context, userID, key string) (bool, error)

	// QueryAwardEvents returns the user's award events, newest first.
	QueryAwardEvents(ctx context.Context, userID string, opts QueryOpts) ([]AwardEventRecord, error)

	// ListUserIDs returns all users with stored progress.
	ListUserIDs(ctx context.Context) ([]string, error)
}

// PlanEntry is one persisted day of a study plan.
type PlanEntry struct {
	Day      int    `json:"day"`
	LessonID int    `json:"lesson_id"`
	Topic    string `json:"topic"`
}

// TestResultData captures a finished diagnostic test.
type TestResultData struct {
	UserID    string
	SessionID string
	Correct   int
	Total     int
	// Scores maps category to percentage for attempted categories.
	Scores    map[string]float64
	WeakAreas []string
	Plan      []PlanEntry
	Timestamp time.Time
}

// TestResultRecord is a stored test result.
type TestResultRecord struct {
	TestResultData
	ID       int
	Sequence int64
}

// TestResultRepo stores diagnostic test outcomes.
type TestResultRepo interface {
	// SaveTestResult appends a finished test result.
	SaveTestResult(ctx context.Context, data TestResultData) error

	// LatestTestResult returns the newest result for the user, or nil.
	LatestTestResult(ctx context.Context, userID string) (*TestResultRecord, error)

	// DeleteTestResults removes all results for the user.
	DeleteTestResults(ctx context.Context, userID string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	LLMRequestEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// LLMUsage aggregates LLM calls by a grouping key.
type LLMUsage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns a single event by ID, or nil if not found.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates calls and tokens per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates calls and tokens per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
