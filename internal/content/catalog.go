package content

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"sync"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Catalog is the immutable course content: the diagnostic question pool,
// the lessons and the achievement definitions. A loaded Catalog is never
// mutated and is safe for concurrent use.
type Catalog struct {
	diagnostic   []Question
	diagByID     map[int]int
	lessons      []Lesson
	lessonByID   map[int]int
	achievements []Achievement
	achByID      map[string]int
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(builtinCatalog)
})

// Default returns the catalogue compiled into the binary.
func Default() (*Catalog, error) {
	return loadDefault()
}

// LoadFile reads and validates a catalogue from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func newCatalog(diag []Question, lessons []Lesson, achievements []Achievement) *Catalog {
	c := &Catalog{
		diagnostic:   diag,
		diagByID:     make(map[int]int, len(diag)),
		lessons:      slices.Clone(lessons),
		lessonByID:   make(map[int]int, len(lessons)),
		achievements: achievements,
		achByID:      make(map[string]int, len(achievements)),
	}
	slices.SortFunc(c.lessons, func(a, b Lesson) int { return a.ID - b.ID })

	for i, q := range c.diagnostic {
		c.diagByID[q.ID] = i
	}
	for i, l := range c.lessons {
		c.lessonByID[l.ID] = i
	}
	for i, a := range c.achievements {
		c.achByID[a.ID] = i
	}
	return c
}

// DiagnosticQuestions samples n distinct questions uniformly from the
// diagnostic pool. n is clamped to the pool size; n <= 0 yields no questions.
// A nil rng uses the global source.
func (c *Catalog) DiagnosticQuestions(n int, rng *rand.Rand) []Question {
	if n <= 0 {
		return nil
	}
	n = min(n, len(c.diagnostic))

	var perm []int
	if rng != nil {
		perm = rng.Perm(len(c.diagnostic))
	} else {
		perm = rand.Perm(len(c.diagnostic))
	}

	out := make([]Question, n)
	for i := range n {
		out[i] = c.diagnostic[perm[i]]
	}
	return out
}

// DiagnosticQuestion returns the diagnostic question with the given id.
func (c *Catalog) DiagnosticQuestion(id int) (Question, error) {
	i, ok := c.diagByID[id]
	if !ok {
		return Question{}, fmt.Errorf("diagnostic question %d: %w", id, ErrNotFound)
	}
	return c.diagnostic[i], nil
}

// DiagnosticPoolSize returns the number of questions in the diagnostic pool.
func (c *Catalog) DiagnosticPoolSize() int {
	return len(c.diagnostic)
}

// Lesson returns the lesson with the given id.
func (c *Catalog) Lesson(id int) (Lesson, error) {
	i, ok := c.lessonByID[id]
	if !ok {
		return Lesson{}, fmt.Errorf("lesson %d: %w", id, ErrNotFound)
	}
	return c.lessons[i], nil
}

// LessonIDs returns all lesson ids in ascending order.
func (c *Catalog) LessonIDs() []int {
	ids := make([]int, len(c.lessons))
	for i, l := range c.lessons {
		ids[i] = l.ID
	}
	return ids
}

// LessonCount returns the number of lessons in the course.
func (c *Catalog) LessonCount() int {
	return len(c.lessons)
}

// Achievement returns the achievement definition with the given id.
func (c *Catalog) Achievement(id string) (Achievement, error) {
	i, ok := c.achByID[id]
	if !ok {
		return Achievement{}, fmt.Errorf("achievement %q: %w", id, ErrNotFound)
	}
	return c.achievements[i], nil
}

// Achievements returns all achievement definitions in catalogue order.
func (c *Catalog) Achievements() []Achievement {
	return slices.Clone(c.achievements)
}
