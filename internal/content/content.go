package content

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNotFound is returned when a lesson, question or achievement id is not
// part of the catalogue.
var ErrNotFound = errors.New("content not found")

// Category is a Python topic area used to score the diagnostic test.
type Category string

const (
	CategorySyntax    Category = "syntax"
	CategoryDataTypes Category = "data_types"
	CategoryFunctions Category = "functions"
	CategoryLoops     Category = "loops"
	CategoryOOP       Category = "oop"
)

// AllCategories returns every category in report order.
func AllCategories() []Category {
	return []Category{
		CategorySyntax,
		CategoryDataTypes,
		CategoryFunctions,
		CategoryLoops,
		CategoryOOP,
	}
}

// DisplayName returns the title-cased form used in user-facing text,
// e.g. "data_types" becomes "Data Types".
func (c Category) DisplayName() string {
	// A Caser keeps state between calls and cannot be shared.
	return cases.Title(language.English).String(strings.ReplaceAll(string(c), "_", " "))
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, k := range AllCategories() {
		if c == k {
			return true
		}
	}
	return false
}

// Question is a multiple-choice question with exactly one correct option.
type Question struct {
	ID           int
	Category     Category
	Text         string
	Options      []string
	CorrectIndex int
}

// ValidIndex reports whether i addresses one of the question's options.
func (q Question) ValidIndex(i int) bool {
	return i >= 0 && i < len(q.Options)
}

// IsCorrect reports whether option i is the correct answer.
func (q Question) IsCorrect(i int) bool {
	return i == q.CorrectIndex
}

// CorrectOption returns the text of the correct answer.
func (q Question) CorrectOption() string {
	return q.Options[q.CorrectIndex]
}

// Lesson is one unit of the course: theory, an optional code example and a
// block of practice questions. Lesson ids are positive and totally ordered.
type Lesson struct {
	ID          int
	Topic       string
	Theory      string
	CodeExample string
	Questions   []Question
}

// Achievement is a named badge a learner can earn once.
type Achievement struct {
	ID          string
	Name        string
	Description string
	XPReward    int
}

// Achievement ids referenced by the progression rules.
const (
	AchievementBeginner        = "beginner"
	AchievementStreaker        = "streaker"
	AchievementFunctionsGuru   = "functions_guru"
	AchievementOOPMaster       = "oop_master"
	AchievementHalfway         = "halfway"
	AchievementGraduate        = "graduate"
	AchievementPerfectScore    = "perfect_score"
	AchievementSocialButterfly = "social_butterfly"
)
