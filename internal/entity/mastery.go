package entity

import "time"

const (
	MinLevel = 1
	MaxLevel = 5
)

// MasteryUpdate holds the scheduling fields produced by grading a word.
type MasteryUpdate struct {
	Level        int
	NextReview   time.Time
	LastReviewed time.Time
}

// ClampLevel forces level into [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	switch {
	case level < MinLevel:
		return MinLevel
	case level > MaxLevel:
		return MaxLevel
	default:
		return level
	}
}

// GradeWord applies the fixed doubling schedule. A correct answer promotes the word one
// level (capped at MaxLevel) and pushes the next review out; a wrong answer drops it back
// to MinLevel and leaves it due immediately.
func GradeWord(w Word, correct bool, now time.Time) MasteryUpdate {
	if !correct {
		return MasteryUpdate{Level: MinLevel, NextReview: now, LastReviewed: now}
	}
	level := ClampLevel(w.EffectiveLevel() + 1)
	return MasteryUpdate{
		Level:        level,
		NextReview:   now.AddDate(0, 0, 1<<(level-1)),
		LastReviewed: now,
	}
}

// Patch converts the update into a WordPatch for the repository.
func (u MasteryUpdate) Patch() WordPatch {
	level := u.Level
	next := u.NextReview
	last := u.LastReviewed
	return WordPatch{Level: &level, NextReview: &next, LastReviewed: &last}
}
