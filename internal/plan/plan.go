// Package plan builds the seven-day study plan from diagnostic weak areas.
package plan

import (
	"fmt"
	"strings"

	"github.com/abhisek/pytutor/internal/content"
)

// Days is the length of a study plan.
const Days = 7

// categoryLessons maps each weak category to the lessons that remediate it,
// in priority order.
var categoryLessons = map[content.Category][]int{
	content.CategorySyntax:    {1, 3},
	content.CategoryDataTypes: {3, 7},
	content.CategoryFunctions: {1, 4},
	content.CategoryLoops:     {3, 7},
	content.CategoryOOP:       {2, 5},
}

// Day is a single plan entry.
type Day struct {
	Day      int    `json:"day"`
	LessonID int    `json:"lesson_id"`
	Topic    string `json:"topic"`
}

// Plan is an ordered list of days numbered contiguously from 1.
type Plan []Day

// Topics returns the plan as a day -> topic map.
func (p Plan) Topics() map[int]string {
	m := make(map[int]string, len(p))
	for _, d := range p {
		m[d.Day] = d.Topic
	}
	return m
}

// String renders the plan one "Day N: Topic" line per day.
func (p Plan) String() string {
	var b strings.Builder
	for i, d := range p {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Day %d: %s", d.Day, d.Topic)
	}
	return b.String()
}

// Generator builds plans against a lesson catalogue.
type Generator struct {
	defaultOrder []int
	topics       map[int]string
}

// NewGenerator creates a Generator whose default order is the first Days
// lessons of the catalogue in ascending id order.
func NewGenerator(cat *content.Catalog) *Generator {
	g := &Generator{topics: make(map[int]string)}
	for _, id := range cat.LessonIDs() {
		l, _ := cat.Lesson(id)
		g.topics[id] = l.Topic
		if len(g.defaultOrder) < Days {
			g.defaultOrder = append(g.defaultOrder, id)
		}
	}
	return g
}

// Generate returns the plan for the given weak categories. Lessons for weak
// categories come first, in the order the categories are given, followed by
// the default order with already placed lessons skipped. With no weak
// categories the default order is returned as is.
func (g *Generator) Generate(weak []content.Category) Plan {
	p := make(Plan, 0, Days)
	placed := make(map[int]bool)

	place := func(id int) {
		if len(p) >= Days || placed[id] {
			return
		}
		topic, ok := g.topics[id]
		if !ok {
			return
		}
		placed[id] = true
		p = append(p, Day{Day: len(p) + 1, LessonID: id, Topic: topic})
	}

	for _, cat := range weak {
		for _, id := range categoryLessons[cat] {
			place(id)
		}
	}
	for _, id := range g.defaultOrder {
		place(id)
	}
	return p
}
