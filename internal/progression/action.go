package progression

import (
	"time"

	"github.com/abhisek/pytutor/internal/content"
	"github.com/abhisek/pytutor/internal/gamification"
	"github.com/abhisek/pytutor/internal/plan"
)

// ActionKind names an inbound user action.
type ActionKind string

const (
	ActionStartTest            ActionKind = "start_test"
	ActionConfirmStartTest     ActionKind = "confirm_start_test"
	ActionSubmitTestAnswer     ActionKind = "submit_test_answer"
	ActionStartLesson          ActionKind = "start_lesson"
	ActionStartPractice        ActionKind = "start_practice"
	ActionSubmitPracticeAnswer ActionKind = "submit_practice_answer"
	ActionRequestShare         ActionKind = "request_share"
	ActionViewProgress         ActionKind = "view_progress"
)

// Action is one user action with its payload.
type Action struct {
	Kind ActionKind `json:"kind"`

	// Option is the selected answer index for submit actions.
	Option int `json:"option"`

	// QuestionIndex, when set, must match the question awaiting an answer.
	// Repeated submissions for an already answered question are rejected.
	QuestionIndex *int `json:"question_index,omitempty"`

	// LessonID optionally selects the lesson for start_practice.
	LessonID int `json:"lesson_id,omitempty"`
}

// OutcomeKind identifies the shape of an Outcome.
type OutcomeKind string

const (
	OutcomeTestIntro      OutcomeKind = "test_intro"
	OutcomeQuestion       OutcomeKind = "question"
	OutcomeTestResult     OutcomeKind = "test_result"
	OutcomeLesson         OutcomeKind = "lesson"
	OutcomeLessonResult   OutcomeKind = "lesson_result"
	OutcomeWait           OutcomeKind = "wait"
	OutcomeCourseComplete OutcomeKind = "course_complete"
	OutcomeShare          OutcomeKind = "share"
	OutcomeProgress       OutcomeKind = "progress"
)

// QuestionView is a question ready for display.
type QuestionView struct {
	// Index is the zero-based position within the test or lesson.
	Index   int      `json:"index"`
	Total   int      `json:"total"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	// AnswerWith is the action kind that submits an answer to this question.
	AnswerWith ActionKind `json:"answer_with"`
}

// Feedback reports how a practice answer was judged.
type Feedback struct {
	Correct       bool   `json:"correct"`
	CorrectOption string `json:"correct_option"`
	XPAwarded     int    `json:"xp_awarded"`
	Explanation   string `json:"explanation,omitempty"`
}

// CategoryScore is a category's percentage in a finished test.
type CategoryScore struct {
	Category content.Category `json:"category"`
	Percent  float64          `json:"percent"`
	// Attempted is false for categories the test drew no questions from;
	// their Percent is 0.
	Attempted bool `json:"attempted"`
}

// TestResult summarizes a finished diagnostic test.
type TestResult struct {
	Correct   int                `json:"correct"`
	Total     int                `json:"total"`
	Scores    []CategoryScore    `json:"scores"`
	WeakAreas []content.Category `json:"weak_areas"`
	Plan      plan.Plan          `json:"plan"`
}

// LessonView is a lesson's theory.
type LessonView struct {
	ID          int    `json:"id"`
	Topic       string `json:"topic"`
	Theory      string `json:"theory"`
	CodeExample string `json:"code_example,omitempty"`
	Questions   int    `json:"questions"`
	XPAwarded   int    `json:"xp_awarded"`
}

// LessonResult summarizes a completed practice run.
type LessonResult struct {
	LessonID     int     `json:"lesson_id"`
	Correct      int     `json:"correct"`
	Total        int     `json:"total"`
	ScorePercent float64 `json:"score_percent"`
	// FirstCompletion is false when the lesson had been completed before.
	FirstCompletion bool `json:"first_completion"`
	Level           int  `json:"level"`
	XP              int  `json:"xp"`
}

// Wait reports the time left until the next lesson unlocks.
type Wait struct {
	Remaining time.Duration `json:"remaining"`
	Hours     int           `json:"hours"`
}

// ShareView is the result of a successful share.
type ShareView struct {
	Card       string `json:"card"`
	Caption    string `json:"caption"`
	ShareCount int    `json:"share_count"`
	Unlocked   bool   `json:"unlocked"`
}

// ProgressView is the user's overall standing.
type ProgressView struct {
	Level            int                   `json:"level"`
	XP               int                   `json:"xp"`
	NextLevelXP      int                   `json:"next_level_xp,omitempty"`
	StreakDays       int                   `json:"streak_days"`
	CurrentLesson    int                   `json:"current_lesson"`
	CompletedLessons []LessonRef           `json:"completed_lessons"`
	Achievements     []content.Achievement `json:"achievements"`
	Plan             plan.Plan             `json:"plan,omitempty"`
	ShareCount       int                   `json:"share_count"`
	// Started is false for users with no recorded progress.
	Started bool `json:"started"`
}

// LessonRef names a lesson.
type LessonRef struct {
	ID    int    `json:"id"`
	Topic string `json:"topic"`
}

// Outcome is the engine's reply to an action. Text is the composed message;
// the typed fields carry the same data for rich presentation.
type Outcome struct {
	Kind         OutcomeKind          `json:"kind"`
	Text         string               `json:"text"`
	Question     *QuestionView        `json:"question,omitempty"`
	Feedback     *Feedback            `json:"feedback,omitempty"`
	TestResult   *TestResult          `json:"test_result,omitempty"`
	Lesson       *LessonView          `json:"lesson,omitempty"`
	LessonResult *LessonResult        `json:"lesson_result,omitempty"`
	Wait         *Wait                `json:"wait,omitempty"`
	Share        *ShareView           `json:"share,omitempty"`
	Progress     *ProgressView        `json:"progress,omitempty"`
	Events       []gamification.Event `json:"-"`

	explain *explainRequest
}

type explainRequest struct {
	question content.Question
	selected int
}
