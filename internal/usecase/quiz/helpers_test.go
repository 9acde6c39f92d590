package quiz

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/eslsoft/vocquiz/internal/entity"
)

var testNow = time.Date(2024, time.January, 4, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func seeded(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)), fixedClock)
}

func makeWords(n int) []entity.Word {
	words := make([]entity.Word, 0, n)
	for i := 0; i < n; i++ {
		next := testNow.Add(-time.Hour)
		words = append(words, entity.Word{
			ID:         fmt.Sprintf("w%d", i),
			English:    fmt.Sprintf("en%d", i),
			Turkish:    fmt.Sprintf("tr%d", i),
			Category:   entity.DefaultGroup,
			Folder:     entity.DefaultGroup,
			Level:      1,
			NextReview: &next,
			CreatedAt:  testNow.Add(-24 * time.Hour),
		})
	}
	return words
}

func at(t time.Time) *time.Time { return &t }
