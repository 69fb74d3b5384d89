package progression

import (
	"slices"

	"github.com/abhisek/pytutor/internal/content"
)

const (
	// WeakThreshold is the percentage below which a category is weak.
	WeakThreshold = 60.0

	// fallbackWeakAreas is how many of the lowest categories stand in when
	// none is below the threshold.
	fallbackWeakAreas = 2
)

// WeakAreas picks the categories a plan should focus on from the
// percentages of attempted categories. Categories below WeakThreshold are
// weak, in category order. If none is, the lowest-scoring categories are used
// instead, lowest first with ties in category order. A perfect score in every
// attempted category yields no weak areas.
func WeakAreas(pct map[content.Category]float64) []content.Category {
	var attempted []content.Category
	for _, cat := range content.AllCategories() {
		if _, ok := pct[cat]; ok {
			attempted = append(attempted, cat)
		}
	}

	var weak []content.Category
	perfect := true
	for _, cat := range attempted {
		if pct[cat] < WeakThreshold {
			weak = append(weak, cat)
		}
		if pct[cat] < 100 {
			perfect = false
		}
	}
	if len(weak) > 0 || perfect {
		return weak
	}

	slices.SortStableFunc(attempted, func(a, b content.Category) int {
		switch {
		case pct[a] < pct[b]:
			return -1
		case pct[a] > pct[b]:
			return 1
		}
		return 0
	})
	return attempted[:min(fallbackWeakAreas, len(attempted))]
}
