package usecase

import (
	"context"
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
)

// StatsUsecase summarises learning progress.
type StatsUsecase interface {
	Dashboard(ctx context.Context) (*entity.Dashboard, error)
}

type statsUsecase struct {
	words   repository.WordRepository
	history HistoryUsecase
	clock   func() time.Time
}

func NewStatsUsecase(words repository.WordRepository, history HistoryUsecase) StatsUsecase {
	return &statsUsecase{words: words, history: history, clock: time.Now}
}

func (u *statsUsecase) Dashboard(ctx context.Context) (*entity.Dashboard, error) {
	words, err := u.words.List(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := u.history.ListHistory(ctx)
	if err != nil {
		return nil, err
	}
	status, err := u.history.Streak(ctx)
	if err != nil {
		return nil, err
	}

	now := u.clock()
	d := &entity.Dashboard{
		TotalWords:   len(words),
		WordsByLevel: make(map[int]int, entity.MaxLevel),
		TotalQuizzes: len(entries),
		ModeAverages: map[entity.QuizMode]int{},
		Streak:       status,
	}
	for level := entity.MinLevel; level <= entity.MaxLevel; level++ {
		d.WordsByLevel[level] = 0
	}
	for _, w := range words {
		level := w.EffectiveLevel()
		d.WordsByLevel[level]++
		if level == entity.MaxLevel {
			d.MasteredWords++
		}
		if w.IsDue(now) {
			d.DueWords++
		}
	}

	d.AveragePercentage = averagePercentage(entries)
	byMode := lo.GroupBy(entries, func(e entity.HistoryEntry) entity.QuizMode {
		if e.Mode == "" {
			return entity.ModeMixed
		}
		return e.Mode
	})
	for mode, group := range byMode {
		d.ModeAverages[mode] = averagePercentage(group)
	}
	return d, nil
}

func averagePercentage(entries []entity.HistoryEntry) int {
	if len(entries) == 0 {
		return 0
	}
	sum := lo.SumBy(entries, func(e entity.HistoryEntry) int { return e.Percentage })
	return int(math.Round(float64(sum) / float64(len(entries))))
}
