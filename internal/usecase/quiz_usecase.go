package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
	"github.com/eslsoft/vocquiz/internal/usecase/quiz"
)

// QuizDefaults fill in options the caller leaves empty.
type QuizDefaults struct {
	QuestionCount int
	Mode          entity.QuizMode
}

// CompleteOptions tune how a finished quiz is persisted.
type CompleteOptions struct {
	// Recover backdates the history entry to yesterday to close a one-day streak gap.
	Recover bool
}

// Completion is everything produced by finishing a quiz.
type Completion struct {
	Result *entity.QuizResult
	Entry  *entity.HistoryEntry
	Graded int
	Streak entity.StreakStatus
}

// QuizUsecase orchestrates quiz sessions against the stored words and history.
type QuizUsecase interface {
	NewSession() *quiz.Session
	Start(ctx context.Context, session *quiz.Session, opts quiz.StartOptions) error
	StartReview(ctx context.Context, session *quiz.Session) error
	Complete(ctx context.Context, session *quiz.Session, opts CompleteOptions) (*Completion, error)
}

type quizUsecase struct {
	words    repository.WordRepository
	history  HistoryUsecase
	gen      *quiz.Generator
	defaults QuizDefaults
	clock    func() time.Time
}

func NewQuizUsecase(words repository.WordRepository, history HistoryUsecase, gen *quiz.Generator, defaults QuizDefaults) QuizUsecase {
	if defaults.QuestionCount <= 0 {
		defaults.QuestionCount = quiz.DefaultQuestionCount
	}
	if defaults.Mode == "" {
		defaults.Mode = entity.ModeMixed
	}
	return &quizUsecase{
		words:    words,
		history:  history,
		gen:      gen,
		defaults: defaults,
		clock:    time.Now,
	}
}

func (u *quizUsecase) NewSession() *quiz.Session {
	return quiz.NewSession(u.gen)
}

func (u *quizUsecase) Start(ctx context.Context, session *quiz.Session, opts quiz.StartOptions) error {
	words, err := u.words.List(ctx)
	if err != nil {
		return fmt.Errorf("load words: %w", err)
	}
	if opts.Count <= 0 {
		opts.Count = u.defaults.QuestionCount
	}
	if opts.Mode == "" {
		opts.Mode = u.defaults.Mode
	}
	if !session.Start(words, opts) {
		return entity.ErrNotEnoughWords
	}
	return nil
}

func (u *quizUsecase) StartReview(ctx context.Context, session *quiz.Session) error {
	if session.State() != quiz.StateComplete {
		return entity.ErrQuizNotComplete
	}
	words, err := u.words.List(ctx)
	if err != nil {
		return fmt.Errorf("load words: %w", err)
	}
	if !session.StartReview(words) {
		return entity.ErrNoWrongAnswers
	}
	return nil
}

// Complete grades every answered word and records a history entry. Review rounds only
// report their result. A session is recorded at most once; a repeat call returns
// ErrQuizAlreadyRecorded.
func (u *quizUsecase) Complete(ctx context.Context, session *quiz.Session, opts CompleteOptions) (*Completion, error) {
	result, err := session.Results()
	if err != nil {
		return nil, err
	}
	if result.IsReview {
		return &Completion{Result: result}, nil
	}
	if session.Recorded() {
		return nil, entity.ErrQuizAlreadyRecorded
	}

	now := u.clock()
	date := now
	if opts.Recover {
		status, err := u.history.Streak(ctx)
		if err != nil {
			return nil, err
		}
		if !status.CanRecover {
			return nil, entity.ErrNothingToRecover
		}
		date = u.history.RecoveryDate(now)
	}

	graded := 0
	for _, r := range result.Results {
		word, err := u.words.GetByID(ctx, r.Question.Word.ID)
		if errors.Is(err, entity.ErrWordNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load word %s: %w", r.Question.Word.ID, err)
		}
		update := entity.GradeWord(*word, r.IsCorrect, now)
		if _, err := u.words.Update(ctx, word.ID, update.Patch()); err != nil {
			return nil, fmt.Errorf("grade word %s: %w", word.ID, err)
		}
		graded++
	}

	entry := entity.NewHistoryEntry(*result)
	entry.Date = date
	saved, err := u.history.Record(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("record history: %w", err)
	}
	session.MarkRecorded()

	status, err := u.history.Streak(ctx)
	if err != nil {
		return nil, err
	}
	return &Completion{Result: result, Entry: saved, Graded: graded, Streak: status}, nil
}
