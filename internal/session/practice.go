package session

import "time"

// Practice is the working state of one lesson session.
type Practice struct {
	// ID identifies this lesson run.
	ID string `json:"id"`

	// UserID is the owner of the session.
	UserID string `json:"user_id"`

	// Phase is the current phase.
	Phase LessonPhase `json:"phase"`

	// LessonID is the lesson being studied.
	LessonID int `json:"lesson_id"`

	// Cursor is the index of the next practice question.
	Cursor int `json:"cursor"`

	// Correct counts correct practice answers.
	Correct int `json:"correct"`

	// Total is the number of practice questions in the lesson.
	Total int `json:"total"`

	// StartedAt is when the theory was shown.
	StartedAt time.Time `json:"started_at"`
}

// NewPractice creates a lesson session showing the lesson's theory.
func NewPractice(userID string, lessonID, total int, at time.Time) *Practice {
	return &Practice{
		ID:        newID(),
		UserID:    userID,
		Phase:     LessonViewingTheory,
		LessonID:  lessonID,
		Total:     total,
		StartedAt: at,
	}
}

// Begin moves from ViewingTheory to AnsweringPractice with a fresh score.
// A lesson without questions completes immediately.
func (p *Practice) Begin() error {
	if p.Phase != LessonViewingTheory {
		return transitionErr("start practice", p.Phase)
	}
	p.Phase = LessonAnsweringPractice
	p.Cursor = 0
	p.Correct = 0
	if p.Total == 0 {
		p.Phase = LessonCompleted
	}
	return nil
}

// RecordAnswer counts the answer to the current question and advances,
// completing the session after the last question.
func (p *Practice) RecordAnswer(correct bool) error {
	if p.Phase != LessonAnsweringPractice {
		return transitionErr("answer", p.Phase)
	}
	if correct {
		p.Correct++
	}
	p.Cursor++
	if p.Cursor >= p.Total {
		p.Phase = LessonCompleted
	}
	return nil
}

// ScorePercent returns the share of correct answers as a percentage.
func (p *Practice) ScorePercent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Correct) / float64(p.Total) * 100
}

// Clone returns a copy of p.
func (p *Practice) Clone() *Practice {
	c := *p
	return &c
}
