package plan

import (
	"testing"

	"github.com/abhisek/pytutor/internal/content"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	cat, err := content.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return NewGenerator(cat)
}

func lessonIDs(p Plan) []int {
	ids := make([]int, len(p))
	for i, d := range p {
		ids[i] = d.LessonID
	}
	return ids
}

func TestGenerate(t *testing.T) {
	g := newTestGenerator(t)

	tests := []struct {
		name string
		weak []content.Category
		want []int
	}{
		{"no weak areas", nil, []int{1, 2, 3, 4, 5, 6, 7}},
		{"oop", []content.Category{content.CategoryOOP}, []int{2, 5, 1, 3, 4, 6, 7}},
		{"loops then syntax", []content.Category{content.CategoryLoops, content.CategorySyntax}, []int{3, 7, 1, 2, 4, 5, 6}},
		{"shared lessons placed once", []content.Category{content.CategoryDataTypes, content.CategoryLoops}, []int{3, 7, 1, 2, 4, 5, 6}},
		{"all categories", content.AllCategories(), []int{1, 3, 7, 4, 2, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := g.Generate(tt.weak)
			got := lessonIDs(p)
			if len(got) != len(tt.want) {
				t.Fatalf("lessons = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("lessons = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestGenerate_DefaultTopics(t *testing.T) {
	g := newTestGenerator(t)
	topics := g.Generate(nil).Topics()
	want := map[int]string{
		1: "Functions: the basics",
		2: "OOP: classes and objects",
		3: "Working with files",
		4: "Functions: decorators",
		5: "Handling exceptions",
		6: "Modules and packages",
		7: "Iterators and generators",
	}
	for day, topic := range want {
		if topics[day] != topic {
			t.Errorf("day %d = %q, want %q", day, topics[day], topic)
		}
	}
}

func TestGenerate_Invariants(t *testing.T) {
	g := newTestGenerator(t)
	cats := content.AllCategories()

	// Every subset of categories, in catalogue order.
	for mask := 0; mask < 1<<len(cats); mask++ {
		var weak []content.Category
		for i, c := range cats {
			if mask&(1<<i) != 0 {
				weak = append(weak, c)
			}
		}
		p := g.Generate(weak)
		if len(p) != Days {
			t.Fatalf("weak=%v: len = %d, want %d", weak, len(p), Days)
		}
		seen := map[string]bool{}
		for i, d := range p {
			if d.Day != i+1 {
				t.Errorf("weak=%v: entry %d has day %d", weak, i, d.Day)
			}
			if seen[d.Topic] {
				t.Errorf("weak=%v: duplicate topic %q", weak, d.Topic)
			}
			seen[d.Topic] = true
		}
	}
}

func TestPlan_String(t *testing.T) {
	p := Plan{{Day: 1, LessonID: 2, Topic: "A"}, {Day: 2, LessonID: 5, Topic: "B"}}
	want := "Day 1: A\nDay 2: B"
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
