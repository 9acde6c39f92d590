package repository

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/infrastructure/writebehind"
)

var testNow = time.Date(2024, 1, 4, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestQueue(t *testing.T) *writebehind.Queue {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	q := writebehind.New(logger, 16)
	t.Cleanup(func() { _ = q.Close(context.Background()) })
	return q
}

func flush(t *testing.T, q *writebehind.Queue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := q.Flush(ctx); err != nil {
		t.Fatalf("flush queue: %v", err)
	}
}

type fakeWordStore struct {
	mu      sync.Mutex
	words   map[string]entity.Word
	saves   int
	failErr error
}

func newFakeWordStore(words ...entity.Word) *fakeWordStore {
	s := &fakeWordStore{words: map[string]entity.Word{}}
	for _, w := range words {
		s.words[w.ID] = w
	}
	return s
}

func (s *fakeWordStore) LoadWords(context.Context) ([]entity.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Word, 0, len(s.words))
	for _, w := range s.words {
		out = append(out, w)
	}
	return out, nil
}

func (s *fakeWordStore) SaveWords(_ context.Context, words []entity.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.failErr != nil {
		return s.failErr
	}
	for _, w := range words {
		s.words[w.ID] = w
	}
	return nil
}

func (s *fakeWordStore) DeleteWords(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.words, id)
	}
	return nil
}

func (s *fakeWordStore) snapshot() map[string]entity.Word {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]entity.Word, len(s.words))
	for k, v := range s.words {
		out[k] = v
	}
	return out
}

type fakeHistoryStore struct {
	mu      sync.Mutex
	entries map[string]entity.HistoryEntry
	cleared bool
}

func newFakeHistoryStore(entries ...entity.HistoryEntry) *fakeHistoryStore {
	s := &fakeHistoryStore{entries: map[string]entity.HistoryEntry{}}
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return s
}

func (s *fakeHistoryStore) LoadHistory(context.Context) ([]entity.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.HistoryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out, nil
}

func (s *fakeHistoryStore) SaveHistory(_ context.Context, entries []entity.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return nil
}

func (s *fakeHistoryStore) DeleteHistory(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.entries, id)
	}
	return nil
}

func (s *fakeHistoryStore) ClearHistory(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = map[string]entity.HistoryEntry{}
	s.cleared = true
	return nil
}

func (s *fakeHistoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
