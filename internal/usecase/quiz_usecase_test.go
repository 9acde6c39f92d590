package usecase

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/usecase/quiz"
)

type quizFixture struct {
	words   *fakeWordRepo
	history *fakeHistoryRepo
	uc      QuizUsecase
}

func newQuizFixture(words []entity.Word, entries ...entity.HistoryEntry) *quizFixture {
	wordRepo := newFakeWordRepo(words...)
	historyRepo := &fakeHistoryRepo{entries: entries}
	gen := quiz.NewGenerator(rand.New(rand.NewSource(7)), fixedClock)
	uc := NewQuizUsecase(wordRepo, newTestHistoryUsecase(historyRepo), gen, QuizDefaults{QuestionCount: 4})
	uc.(*quizUsecase).clock = fixedClock
	return &quizFixture{words: wordRepo, history: historyRepo, uc: uc}
}

func answerAll(t *testing.T, s *quiz.Session, correct bool) {
	t.Helper()
	for {
		q, ok := s.Current()
		if !ok {
			return
		}
		var err error
		if correct {
			err = s.Submit(q.ID, q.CorrectAnswer)
		} else {
			err = s.Skip()
		}
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
}

func TestQuizStart_NotEnoughWords(t *testing.T) {
	f := newQuizFixture(sampleWords(3))
	s := f.uc.NewSession()

	if err := f.uc.Start(context.Background(), s, quiz.StartOptions{}); !errors.Is(err, entity.ErrNotEnoughWords) {
		t.Fatalf("expected ErrNotEnoughWords, got %v", err)
	}
	if s.State() != quiz.StateNotStarted {
		t.Fatalf("expected idle session, got %s", s.State())
	}
}

func TestQuizStart_UsesDefaults(t *testing.T) {
	f := newQuizFixture(sampleWords(6))
	s := f.uc.NewSession()

	if err := f.uc.Start(context.Background(), s, quiz.StartOptions{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Total() != 4 {
		t.Fatalf("expected 4 questions, got %d", s.Total())
	}
	if s.Mode() != entity.ModeMixed {
		t.Fatalf("expected mixed mode, got %s", s.Mode())
	}
}

func TestComplete_GradesWordsAndRecordsHistory(t *testing.T) {
	f := newQuizFixture(sampleWords(4))
	ctx := context.Background()
	s := f.uc.NewSession()
	if err := f.uc.Start(ctx, s, quiz.StartOptions{Mode: entity.ModeFillIn}); err != nil {
		t.Fatalf("start: %v", err)
	}
	answerAll(t, s, true)

	done, err := f.uc.Complete(ctx, s, CompleteOptions{})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Graded != 4 || done.Result.Percentage != 100 {
		t.Fatalf("unexpected completion %+v", done)
	}
	for id, w := range f.words.words {
		if w.Level != 2 {
			t.Fatalf("word %s level = %d, want 2", id, w.Level)
		}
		if !w.NextReview.Equal(fixedNow.AddDate(0, 0, 2)) {
			t.Fatalf("word %s next review = %v", id, w.NextReview)
		}
	}
	if len(f.history.entries) != 1 || !f.history.entries[0].Date.Equal(fixedNow) {
		t.Fatalf("expected one entry dated now, got %+v", f.history.entries)
	}
	if done.Entry.Mode != entity.ModeFillIn {
		t.Fatalf("expected fill-in entry, got %s", done.Entry.Mode)
	}
	if done.Streak.Streak != 1 {
		t.Fatalf("expected streak 1, got %+v", done.Streak)
	}
}

func TestComplete_WrongAnswersResetLevel(t *testing.T) {
	words := sampleWords(4)
	for i := range words {
		words[i].Level = 4
	}
	f := newQuizFixture(words)
	ctx := context.Background()
	s := f.uc.NewSession()
	if err := f.uc.Start(ctx, s, quiz.StartOptions{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	answerAll(t, s, false)

	done, err := f.uc.Complete(ctx, s, CompleteOptions{})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(done.Entry.WrongAnswers) != 4 {
		t.Fatalf("expected 4 wrong answers, got %d", len(done.Entry.WrongAnswers))
	}
	for id, w := range f.words.words {
		if w.Level != entity.MinLevel || !w.NextReview.Equal(fixedNow) {
			t.Fatalf("word %s not reset: level=%d next=%v", id, w.Level, w.NextReview)
		}
	}
}

func TestComplete_SkipsDeletedWords(t *testing.T) {
	f := newQuizFixture(sampleWords(4))
	ctx := context.Background()
	s := f.uc.NewSession()
	if err := f.uc.Start(ctx, s, quiz.StartOptions{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	answerAll(t, s, true)
	delete(f.words.words, "a")

	done, err := f.uc.Complete(ctx, s, CompleteOptions{})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Graded != 3 {
		t.Fatalf("expected 3 graded, got %d", done.Graded)
	}
	if done.Result.Total != 4 {
		t.Fatalf("result should still count 4 questions, got %d", done.Result.Total)
	}
}

func TestComplete_ReviewIsNotPersisted(t *testing.T) {
	f := newQuizFixture(sampleWords(4))
	ctx := context.Background()
	s := f.uc.NewSession()

	if err := f.uc.StartReview(ctx, s); !errors.Is(err, entity.ErrQuizNotComplete) {
		t.Fatalf("expected ErrQuizNotComplete, got %v", err)
	}
	if err := f.uc.Start(ctx, s, quiz.StartOptions{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	answerAll(t, s, false)
	if _, err := f.uc.Complete(ctx, s, CompleteOptions{}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	before := len(f.words.updates)

	if err := f.uc.StartReview(ctx, s); err != nil {
		t.Fatalf("review: %v", err)
	}
	answerAll(t, s, true)
	done, err := f.uc.Complete(ctx, s, CompleteOptions{})
	if err != nil {
		t.Fatalf("complete review: %v", err)
	}
	if !done.Result.IsReview || done.Entry != nil || done.Graded != 0 {
		t.Fatalf("review should only report, got %+v", done)
	}
	if len(f.history.entries) != 1 {
		t.Fatalf("review must not add history, got %d entries", len(f.history.entries))
	}
	if len(f.words.updates) != before {
		t.Fatal("review must not grade words")
	}
	if err := f.uc.StartReview(ctx, s); !errors.Is(err, entity.ErrNoWrongAnswers) {
		t.Fatalf("expected ErrNoWrongAnswers, got %v", err)
	}
}

func TestComplete_RecoverBackdatesEntry(t *testing.T) {
	f := newQuizFixture(sampleWords(4),
		entity.HistoryEntry{ID: "1", Date: day(2024, 1, 1)},
		entity.HistoryEntry{ID: "2", Date: day(2024, 1, 2)},
	)
	ctx := context.Background()
	s := f.uc.NewSession()
	if err := f.uc.Start(ctx, s, quiz.StartOptions{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	answerAll(t, s, true)

	done, err := f.uc.Complete(ctx, s, CompleteOptions{Recover: true})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if want := fixedNow.AddDate(0, 0, -1); !done.Entry.Date.Equal(want) {
		t.Fatalf("entry date = %v, want %v", done.Entry.Date, want)
	}
	if done.Streak.Streak != 3 || done.Streak.CanRecover {
		t.Fatalf("expected restored streak 3, got %+v", done.Streak)
	}
}

func TestComplete_RecoverRefusedWithoutGap(t *testing.T) {
	f := newQuizFixture(sampleWords(4), entity.HistoryEntry{ID: "1", Date: day(2024, 1, 3)})
	ctx := context.Background()
	s := f.uc.NewSession()
	if err := f.uc.Start(ctx, s, quiz.StartOptions{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	answerAll(t, s, true)

	if _, err := f.uc.Complete(ctx, s, CompleteOptions{Recover: true}); !errors.Is(err, entity.ErrNothingToRecover) {
		t.Fatalf("expected ErrNothingToRecover, got %v", err)
	}
	if len(f.words.updates) != 0 || len(f.history.entries) != 1 {
		t.Fatal("refused recovery must not change anything")
	}
}

func TestComplete_RequiresFinishedSession(t *testing.T) {
	f := newQuizFixture(sampleWords(4))
	s := f.uc.NewSession()

	if _, err := f.uc.Complete(context.Background(), s, CompleteOptions{}); !errors.Is(err, entity.ErrQuizNotComplete) {
		t.Fatalf("expected ErrQuizNotComplete, got %v", err)
	}
}

func TestComplete_RecordsSessionOnce(t *testing.T) {
	f := newQuizFixture(sampleWords(4))
	ctx := context.Background()
	s := f.uc.NewSession()
	if err := f.uc.Start(ctx, s, quiz.StartOptions{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	answerAll(t, s, true)

	if _, err := f.uc.Complete(ctx, s, CompleteOptions{}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if _, err := f.uc.Complete(ctx, s, CompleteOptions{}); !errors.Is(err, entity.ErrQuizAlreadyRecorded) {
		t.Fatalf("expected ErrQuizAlreadyRecorded, got %v", err)
	}
	for id, w := range f.words.words {
		if w.Level != 2 {
			t.Fatalf("word %s graded twice: level %d", id, w.Level)
		}
	}
	if len(f.history.entries) != 1 {
		t.Fatalf("repeat completion must not record again, got %d entries", len(f.history.entries))
	}

	if err := f.uc.Start(ctx, s, quiz.StartOptions{}); err != nil {
		t.Fatalf("restart: %v", err)
	}
	answerAll(t, s, false)
	if _, err := f.uc.Complete(ctx, s, CompleteOptions{}); err != nil {
		t.Fatalf("a new attempt should be recorded: %v", err)
	}
	if len(f.history.entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(f.history.entries))
	}
}
