package quiz

import (
	"fmt"
	"math"

	"github.com/lithammer/shortuuid/v4"
	"github.com/samber/lo"

	"github.com/eslsoft/vocquiz/internal/entity"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in-progress"
	case StateComplete:
		return "complete"
	default:
		return "not-started"
	}
}

// StartOptions configures a new attempt. When Questions is non-nil the session replays
// exactly those questions as a review round.
type StartOptions struct {
	Questions []entity.Question
	Mode      entity.QuizMode
	Category  string
	Folder    string
	Count     int
}

// Session drives a single quiz attempt. It is not safe for concurrent use; one learner
// context owns one session at a time.
type Session struct {
	gen *Generator

	id        string
	questions []entity.Question
	current   int
	answers   map[string]string
	complete  bool
	recorded  bool
	review    bool
	mode      entity.QuizMode
	category  string
	folder    string
}

// NewSession returns an idle session that builds its questions with gen.
func NewSession(gen *Generator) *Session {
	s := &Session{gen: gen}
	s.Reset()
	return s
}

// Start begins a new attempt, discarding any unfinished one. Without explicit questions
// it filters words by category and folder and generates a fresh quiz. It reports false,
// leaving the session idle, when there are not enough words.
func (s *Session) Start(words []entity.Word, opts StartOptions) bool {
	if opts.Mode == "" {
		opts.Mode = entity.ModeMixed
	}
	if opts.Category == "" {
		opts.Category = entity.AllGroups
	}
	if opts.Folder == "" {
		opts.Folder = entity.AllGroups
	}

	questions := opts.Questions
	review := questions != nil
	if !review {
		pool := lo.Filter(words, func(w entity.Word, _ int) bool {
			return w.MatchesGroup(opts.Category, opts.Folder)
		})
		questions = s.gen.Generate(pool, opts.Count, opts.Mode)
	}
	if len(questions) == 0 {
		return false
	}

	s.id = shortuuid.New()
	s.questions = append([]entity.Question(nil), questions...)
	s.current = 0
	s.answers = make(map[string]string, len(questions))
	s.complete = false
	s.recorded = false
	s.review = review
	s.mode = opts.Mode
	s.category = opts.Category
	s.folder = opts.Folder
	return true
}

// Submit records the answer to questionID and moves to the next question, completing the
// session after the last one. Answers are expected in order; an out-of-order id is still
// recorded but the pointer simply advances.
func (s *Session) Submit(questionID, answer string) error {
	if s.State() != StateInProgress {
		return entity.ErrQuizNotInProgress
	}
	s.answers[questionID] = answer
	if s.current < len(s.questions)-1 {
		s.current++
	} else {
		s.complete = true
	}
	return nil
}

// Skip gives up on the current question.
func (s *Session) Skip() error {
	q, ok := s.Current()
	if !ok {
		return entity.ErrQuizNotInProgress
	}
	return s.Submit(q.ID, entity.SkippedAnswer)
}

// Check grades answer against the session question with questionID; unknown ids grade
// as incorrect.
func (s *Session) Check(questionID, answer string) bool {
	for _, q := range s.questions {
		if q.ID == questionID {
			return CheckAnswer(q, answer)
		}
	}
	return false
}

// Results aggregates the graded answers of a completed session.
func (s *Session) Results() (*entity.QuizResult, error) {
	if s.State() != StateComplete {
		return nil, entity.ErrQuizNotComplete
	}

	result := &entity.QuizResult{
		Total:    len(s.questions),
		Results:  make([]entity.QuestionResult, 0, len(s.questions)),
		Category: s.category,
		Folder:   s.folder,
		Mode:     s.mode,
		IsReview: s.review,
	}
	for _, q := range s.questions {
		answer := s.answers[q.ID]
		r := entity.QuestionResult{Question: q, UserAnswer: answer, IsCorrect: CheckAnswer(q, answer)}
		result.Results = append(result.Results, r)
		if r.IsCorrect {
			result.Correct++
		} else {
			result.WrongAnswers = append(result.WrongAnswers, r)
		}
	}
	result.Incorrect = result.Total - result.Correct
	if result.Total > 0 {
		result.Percentage = int(math.Round(100 * float64(result.Correct) / float64(result.Total)))
	}
	return result, nil
}

// StartReview replaces the finished session with a review round of its wrong answers,
// keeping each question's type. Multiple-choice questions get fresh distractors from words.
// It reports false when there is nothing to review.
func (s *Session) StartReview(words []entity.Word) bool {
	result, err := s.Results()
	if err != nil || len(result.WrongAnswers) == 0 {
		return false
	}
	questions := make([]entity.Question, 0, len(result.WrongAnswers))
	for i, wa := range result.WrongAnswers {
		word := wa.Question.Word
		id := fmt.Sprintf("review-%s-%d", word.ID, i)
		questions = append(questions, s.gen.Build(word, wa.Question.Type, id, words))
	}
	return s.Start(words, StartOptions{
		Questions: questions,
		Mode:      s.mode,
		Category:  s.category,
		Folder:    s.folder,
	})
}

// Reset returns the session to the idle state.
func (s *Session) Reset() {
	s.id = ""
	s.questions = nil
	s.current = 0
	s.answers = map[string]string{}
	s.complete = false
	s.recorded = false
	s.review = false
	s.mode = entity.ModeMixed
	s.category = entity.AllGroups
	s.folder = entity.AllGroups
}

// State reports where the session is in its lifecycle.
func (s *Session) State() State {
	switch {
	case s.questions == nil:
		return StateNotStarted
	case s.complete:
		return StateComplete
	default:
		return StateInProgress
	}
}

// Current returns the question awaiting an answer.
func (s *Session) Current() (entity.Question, bool) {
	if s.State() != StateInProgress {
		return entity.Question{}, false
	}
	return s.questions[s.current], true
}

// MarkRecorded notes that the finished attempt has been graded and saved, so it is not
// saved twice. Starting a new attempt or review round clears the mark.
func (s *Session) MarkRecorded() { s.recorded = true }

// Recorded reports whether MarkRecorded was called for the current attempt.
func (s *Session) Recorded() bool { return s.recorded }

func (s *Session) ID() string { return s.id }
func (s *Session) Index() int { return s.current }
func (s *Session) Total() int { return len(s.questions) }
func (s *Session) IsReview() bool { return s.review }
func (s *Session) Mode() entity.QuizMode { return s.mode }
func (s *Session) Questions() []entity.Question { return append([]entity.Question(nil), s.questions...) }

// Answers returns a copy of the recorded answers keyed by question id.
func (s *Session) Answers() map[string]string {
	out := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}
