package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
	"github.com/eslsoft/vocquiz/internal/usecase/streak"
)

// HistoryUsecase manages completed quiz summaries and the streak derived from them.
type HistoryUsecase interface {
	ListHistory(ctx context.Context) ([]entity.HistoryEntry, error)
	Record(ctx context.Context, entry entity.HistoryEntry) (*entity.HistoryEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	ClearHistory(ctx context.Context) error
	ImportHistory(ctx context.Context, entries []entity.HistoryEntry) (repository.ImportReport, error)
	Streak(ctx context.Context) (entity.StreakStatus, error)
	// RecoveryDate is when a recovery quiz completed at now is recorded.
	RecoveryDate(now time.Time) time.Time
}

// NewHistoryUsecase wires the repository; loc decides where calendar days begin.
func NewHistoryUsecase(repo repository.HistoryRepository, loc *time.Location) HistoryUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &historyUsecase{
		repo:  repo,
		loc:   loc,
		clock: time.Now,
	}
}

type historyUsecase struct {
	repo  repository.HistoryRepository
	loc   *time.Location
	clock func() time.Time
}

func (u *historyUsecase) ListHistory(ctx context.Context) ([]entity.HistoryEntry, error) {
	return u.repo.List(ctx)
}

func (u *historyUsecase) Record(ctx context.Context, entry entity.HistoryEntry) (*entity.HistoryEntry, error) {
	return u.repo.Create(ctx, entry)
}

func (u *historyUsecase) DeleteEntry(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return entity.ErrHistoryNotFound
	}
	return u.repo.Delete(ctx, id)
}

func (u *historyUsecase) ClearHistory(ctx context.Context) error {
	return u.repo.Clear(ctx)
}

func (u *historyUsecase) ImportHistory(ctx context.Context, entries []entity.HistoryEntry) (repository.ImportReport, error) {
	if len(entries) == 0 {
		return repository.ImportReport{}, nil
	}
	return u.repo.Import(ctx, entries)
}

func (u *historyUsecase) Streak(ctx context.Context) (entity.StreakStatus, error) {
	entries, err := u.repo.List(ctx)
	if err != nil {
		return entity.StreakStatus{}, err
	}
	dates := lo.Map(entries, func(e entity.HistoryEntry, _ int) time.Time { return e.Date })
	return streak.Calculate(dates, u.clock(), u.loc), nil
}

func (u *historyUsecase) RecoveryDate(now time.Time) time.Time {
	return streak.RecoveryDate(now, u.loc)
}
