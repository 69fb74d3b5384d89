package gamification

// levelThresholds[i] is the minimum XP for level i+1.
var levelThresholds = [...]int{0, 100, 250, 500, 1000, 2000, 3500, 5000, 7500, 10000}

// MaxLevel is the highest reachable level.
const MaxLevel = len(levelThresholds)

// LevelForXP returns the largest level whose threshold is at most xp.
// The result is never below 1.
func LevelForXP(xp int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if xp >= threshold {
			level = i + 1
		}
	}
	return level
}

// Threshold returns the XP needed to reach level. Levels outside the table
// clamp to its ends.
func Threshold(level int) int {
	switch {
	case level <= 1:
		return levelThresholds[0]
	case level >= MaxLevel:
		return levelThresholds[MaxLevel-1]
	default:
		return levelThresholds[level-1]
	}
}

// NextThreshold returns the XP needed for the level after level, and false
// when level is already the maximum.
func NextThreshold(level int) (int, bool) {
	if level >= MaxLevel {
		return 0, false
	}
	return Threshold(level + 1), true
}
