package session

import (
	"time"

	"github.com/abhisek/pytutor/internal/content"
)

// Diagnostic is the working state of one diagnostic test.
type Diagnostic struct {
	// ID identifies this test run.
	ID string `json:"id"`

	// UserID is the owner of the test.
	UserID string `json:"user_id"`

	// Phase is the current phase.
	Phase DiagnosticPhase `json:"phase"`

	// QuestionIDs are the drawn questions in presentation order.
	QuestionIDs []int `json:"question_ids"`

	// Cursor is the index of the next question to answer.
	Cursor int `json:"cursor"`

	// Answers holds one entry per answered question.
	Answers []Answer `json:"answers"`

	// Scores tallies answers per category.
	Scores map[content.Category]*CategoryTally `json:"scores"`

	// StartedAt is when the questions were drawn.
	StartedAt time.Time `json:"started_at"`
}

// NewDiagnostic creates a test awaiting the user's go-ahead.
func NewDiagnostic(userID string, questionIDs []int, at time.Time) *Diagnostic {
	return &Diagnostic{
		ID:          newID(),
		UserID:      userID,
		Phase:       DiagnosticAwaitingStart,
		QuestionIDs: append([]int(nil), questionIDs...),
		Scores:      make(map[content.Category]*CategoryTally),
		StartedAt:   at,
	}
}

// Begin moves the test from AwaitingStart to AnsweringQuestions. A test
// without questions finishes immediately.
func (d *Diagnostic) Begin() error {
	if d.Phase != DiagnosticAwaitingStart {
		return transitionErr("begin", d.Phase)
	}
	d.Phase = DiagnosticAnsweringQuestions
	if len(d.QuestionIDs) == 0 {
		d.Phase = DiagnosticFinished
	}
	return nil
}

// CurrentQuestionID returns the id of the question awaiting an answer.
func (d *Diagnostic) CurrentQuestionID() (int, bool) {
	if d.Phase != DiagnosticAnsweringQuestions || d.Cursor >= len(d.QuestionIDs) {
		return 0, false
	}
	return d.QuestionIDs[d.Cursor], true
}

// RecordAnswer scores the answer to the current question q and advances the
// cursor, finishing the test after the last question. The caller validates
// that selected addresses one of q's options.
func (d *Diagnostic) RecordAnswer(q content.Question, selected int) (correct bool, err error) {
	id, ok := d.CurrentQuestionID()
	if !ok {
		return false, transitionErr("answer", d.Phase)
	}
	if id != q.ID {
		return false, transitionErr("answer out of order", d.Phase)
	}

	correct = q.IsCorrect(selected)
	d.Answers = append(d.Answers, Answer{QuestionID: q.ID, Selected: selected, Correct: correct})

	if d.Scores == nil {
		d.Scores = make(map[content.Category]*CategoryTally)
	}
	tally, ok := d.Scores[q.Category]
	if !ok {
		tally = &CategoryTally{}
		d.Scores[q.Category] = tally
	}
	tally.Attempted++
	if correct {
		tally.Correct++
	}

	d.Cursor++
	if d.Cursor >= len(d.QuestionIDs) {
		d.Phase = DiagnosticFinished
	}
	return correct, nil
}

// Total returns the number of questions in the test.
func (d *Diagnostic) Total() int {
	return len(d.QuestionIDs)
}

// CorrectCount returns the number of correct answers so far.
func (d *Diagnostic) CorrectCount() int {
	n := 0
	for _, a := range d.Answers {
		if a.Correct {
			n++
		}
	}
	return n
}

// Percentages returns the score of every attempted category.
func (d *Diagnostic) Percentages() map[content.Category]float64 {
	out := make(map[content.Category]float64, len(d.Scores))
	for cat, t := range d.Scores {
		if t.Attempted > 0 {
			out[cat] = t.Percent()
		}
	}
	return out
}

// Clone returns a deep copy of d.
func (d *Diagnostic) Clone() *Diagnostic {
	c := *d
	c.QuestionIDs = append([]int(nil), d.QuestionIDs...)
	c.Answers = append([]Answer(nil), d.Answers...)
	c.Scores = make(map[content.Category]*CategoryTally, len(d.Scores))
	for cat, t := range d.Scores {
		tt := *t
		c.Scores[cat] = &tt
	}
	return &c
}
