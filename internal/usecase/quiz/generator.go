package quiz

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/vocquiz/internal/entity"
)

const (
	// MinPoolSize is the smallest word pool a quiz can be built from.
	MinPoolSize = 4
	// DefaultQuestionCount is used when the caller asks for zero questions.
	DefaultQuestionCount = 10

	distractorCount = 3
)

// Generator builds quiz questions from a word pool, favouring due and weak words.
type Generator struct {
	rnd   Rand
	clock func() time.Time
}

// NewGenerator wires a generator with its random source and clock.
func NewGenerator(rnd Rand, clock func() time.Time) *Generator {
	if rnd == nil {
		rnd = NewRand()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Generator{rnd: rnd, clock: clock}
}

type rankedWord struct {
	word entity.Word
	due  bool
	tie  float64
}

// Generate returns up to count questions in random presentation order, or nil when the
// pool holds fewer than MinPoolSize words. Selection takes due words first, then lower
// levels; equal candidates are picked at random.
func (g *Generator) Generate(pool []entity.Word, count int, mode entity.QuizMode) []entity.Question {
	if len(pool) < MinPoolSize {
		return nil
	}
	if count <= 0 {
		count = DefaultQuestionCount
	}

	selected := g.prioritize(pool, count)
	selected = shuffle(g.rnd, selected)

	questions := make([]entity.Question, 0, len(selected))
	for i, word := range selected {
		qt := g.questionType(mode)
		id := fmt.Sprintf("q-%s-%d", word.ID, i)
		questions = append(questions, g.Build(word, qt, id, pool))
	}
	return questions
}

// prioritize returns the min(count, len(pool)) highest-priority words in priority order.
func (g *Generator) prioritize(pool []entity.Word, count int) []entity.Word {
	now := g.clock()
	ranked := lo.Map(pool, func(w entity.Word, _ int) rankedWord {
		return rankedWord{word: w, due: w.IsDue(now), tie: g.rnd.Float64()}
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.due != b.due {
			return a.due
		}
		if la, lb := a.word.EffectiveLevel(), b.word.EffectiveLevel(); la != lb {
			return la < lb
		}
		return a.tie < b.tie
	})
	if count > len(ranked) {
		count = len(ranked)
	}
	return lo.Map(ranked[:count], func(r rankedWord, _ int) entity.Word { return r.word })
}

func (g *Generator) questionType(mode entity.QuizMode) entity.QuestionType {
	switch mode {
	case entity.ModeMultipleChoice:
		return entity.QuestionMultipleChoice
	case entity.ModeFillIn:
		return entity.QuestionFillIn
	case entity.ModeListening:
		return entity.QuestionListening
	case entity.ModeReverse:
		return entity.QuestionReverse
	default:
		// mixed mode only draws the two text shapes
		if g.rnd.Float64() < 0.5 {
			return entity.QuestionMultipleChoice
		}
		return entity.QuestionFillIn
	}
}

// Build creates one question of type qt for word. pool supplies multiple-choice
// distractors and may include word itself.
func (g *Generator) Build(word entity.Word, qt entity.QuestionType, id string, pool []entity.Word) entity.Question {
	q := entity.Question{
		ID:            id,
		Type:          qt,
		Prompt:        word.English,
		CorrectAnswer: word.Turkish,
		Word:          word,
	}
	switch qt {
	case entity.QuestionReverse:
		q.Prompt = word.Turkish
		q.CorrectAnswer = word.English
	case entity.QuestionMultipleChoice:
		options := append(g.distractors(word, pool), word.Turkish)
		q.Options = shuffle(g.rnd, options)
	}
	return q
}

// distractors picks three wrong options from the other words' translations, preferring
// distinct values that differ from the correct answer.
func (g *Generator) distractors(word entity.Word, pool []entity.Word) []string {
	others := lo.FilterMap(pool, func(w entity.Word, _ int) (string, bool) {
		return w.Turkish, w.ID != word.ID
	})
	distinct := lo.Uniq(lo.Filter(others, func(t string, _ int) bool { return t != word.Turkish }))

	picked := shuffle(g.rnd, distinct)
	if len(picked) > distractorCount {
		return picked[:distractorCount]
	}
	for _, t := range shuffle(g.rnd, others) {
		if len(picked) == distractorCount {
			break
		}
		picked = append(picked, t)
	}
	return picked
}
