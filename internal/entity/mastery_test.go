package entity

import (
	"math/rand"
	"testing"
	"time"
)

var gradedAt = time.Date(2024, 1, 4, 10, 0, 0, 0, time.UTC)

func TestGradeWordSchedule(t *testing.T) {
	cases := []struct {
		name      string
		level     int
		correct   bool
		wantLevel int
		wantDays  int
	}{
		{"unset level counts as 1", 0, true, 2, 2},
		{"1 to 2", 1, true, 2, 2},
		{"2 to 3", 2, true, 3, 4},
		{"3 to 4", 3, true, 4, 8},
		{"4 to 5", 4, true, 5, 16},
		{"stays at 5", 5, true, 5, 16},
		{"wrong at 1", 1, false, 1, 0},
		{"wrong at 3", 3, false, 1, 0},
		{"wrong at 5", 5, false, 1, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := GradeWord(Word{ID: "w", Level: tc.level}, tc.correct, gradedAt)
			if got.Level != tc.wantLevel {
				t.Fatalf("level = %d, want %d", got.Level, tc.wantLevel)
			}
			if want := gradedAt.AddDate(0, 0, tc.wantDays); !got.NextReview.Equal(want) {
				t.Fatalf("next review = %v, want %v", got.NextReview, want)
			}
			if !got.LastReviewed.Equal(gradedAt) {
				t.Fatalf("last reviewed = %v, want %v", got.LastReviewed, gradedAt)
			}
		})
	}
}

func TestGradeWordKeepsLevelInBounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	w := Word{ID: "w", Level: MinLevel}
	now := gradedAt

	for i := 0; i < 500; i++ {
		correct := rnd.Intn(3) > 0
		prev := w.Level
		update := GradeWord(w, correct, now)
		update.Patch().Apply(&w)

		if w.Level < MinLevel || w.Level > MaxLevel {
			t.Fatalf("step %d: level %d out of bounds", i, w.Level)
		}
		switch {
		case !correct && w.Level != MinLevel:
			t.Fatalf("step %d: wrong answer left level at %d", i, w.Level)
		case correct && w.Level != min(prev+1, MaxLevel):
			t.Fatalf("step %d: correct answer moved level %d to %d", i, prev, w.Level)
		}
		if w.NextReview == nil || w.NextReview.Before(now) {
			t.Fatalf("step %d: next review %v before grading time", i, w.NextReview)
		}
		now = now.Add(time.Hour)
	}
}

func TestMasteryUpdatePatchTouchesOnlyScheduling(t *testing.T) {
	patch := GradeWord(Word{Level: 2}, true, gradedAt).Patch()
	if !patch.TouchesMastery() || patch.TouchesCard() {
		t.Fatalf("unexpected patch %+v", patch)
	}
}
