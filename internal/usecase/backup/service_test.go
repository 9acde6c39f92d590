package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
)

var exportedAt = time.Date(2024, 1, 4, 10, 0, 0, 0, time.UTC)

type memoryWords struct {
	words  []entity.Word
	drafts []entity.WordDraft
}

func (m *memoryWords) ListWords(ctx context.Context, query *repository.ListWordQuery) ([]entity.Word, int, error) {
	return m.words, len(m.words), nil
}

func (m *memoryWords) ImportWords(ctx context.Context, drafts []entity.WordDraft) (repository.ImportReport, error) {
	m.drafts = append(m.drafts, drafts...)
	return repository.ImportReport{Imported: len(drafts)}, nil
}

type memoryHistory struct {
	entries  []entity.HistoryEntry
	imported []entity.HistoryEntry
}

func (m *memoryHistory) ListHistory(ctx context.Context) ([]entity.HistoryEntry, error) {
	return m.entries, nil
}

func (m *memoryHistory) ImportHistory(ctx context.Context, entries []entity.HistoryEntry) (repository.ImportReport, error) {
	m.imported = append(m.imported, entries...)
	return repository.ImportReport{Imported: len(entries)}, nil
}

func seedSources() (*memoryWords, *memoryHistory) {
	next := time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)
	last := time.Date(2024, 1, 2, 8, 30, 15, 250_000_000, time.UTC)
	words := &memoryWords{words: []entity.Word{
		{
			ID: "9b2f7c1e-0d7a-4f5e-9a61-3c8e2b7d4a10", English: "apple", Turkish: "elma",
			Category: "Food", Folder: "Kitchen", PartOfSpeech: "noun", Example: "An apple a day.", Emoji: "🍎",
			Level: 3, NextReview: &next, LastReviewed: &last, CreatedAt: time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "1700000000000.25", English: "go", Turkish: "gitmek, yürümek",
			Category: "Verbs", Folder: entity.DefaultGroup, Level: 1, NextReview: &next,
			CreatedAt: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	history := &memoryHistory{entries: []entity.HistoryEntry{
		{
			ID: "h1", Date: time.Date(2024, 1, 3, 19, 45, 0, 0, time.UTC),
			Total: 10, Correct: 7, Incorrect: 3, Percentage: 70, Category: entity.AllGroups, Folder: entity.AllGroups,
			Mode: entity.ModeFillIn,
			WrongAnswers: []entity.WrongAnswer{
				{QuestionID: "q-1704311100000-2", Question: "apple", Type: entity.QuestionFillIn, Correct: "elma", WordID: "9b2f7c1e-0d7a-4f5e-9a61-3c8e2b7d4a10", UserAnswer: "armut"},
				{QuestionID: "q-1704311100000-5", Question: "go", Type: entity.QuestionMultipleChoice, Correct: "gitmek, yürümek", Options: []string{"elma", "gitmek, yürümek", "kedi", "su"}, WordID: "1700000000000.25", UserAnswer: "kedi"},
			},
		},
	}}
	return words, history
}

func TestServiceJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	srcWords, srcHistory := seedSources()
	exporter := NewService(srcWords, srcHistory, WithClock(func() time.Time { return exportedAt }))

	var buf bytes.Buffer
	summary, err := exporter.Export(ctx, &buf)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if summary.Words != 2 || summary.History != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if raw["version"] != FormatVersion {
		t.Fatalf("version = %v", raw["version"])
	}
	if raw["exportDate"] != "2024-01-04T10:00:00.000Z" {
		t.Fatalf("exportDate = %v", raw["exportDate"])
	}
	if !strings.Contains(buf.String(), `"lastReviewed": "2024-01-02T08:30:15.250Z"`) {
		t.Fatalf("expected millisecond timestamp in %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"id": 1700000000000.25`) {
		t.Fatalf("numeric id should stay numeric in %s", buf.String())
	}
	wrong := raw["history"].([]any)[0].(map[string]any)["wrongAnswers"].([]any)[0].(map[string]any)
	question, ok := wrong["question"].(map[string]any)
	if !ok || question["question"] != "apple" || question["correctAnswer"] != "elma" || question["id"] != "q-1704311100000-2" {
		t.Fatalf("wrong answer question should be a nested object, got %#v", wrong["question"])
	}

	dstWords, dstHistory := &memoryWords{}, &memoryHistory{}
	importer := NewService(dstWords, dstHistory)
	report, err := importer.Import(ctx, bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if report.Words.Imported != 2 || report.History.Imported != 1 {
		t.Fatalf("unexpected import report %+v", report)
	}
	assertDraftsMatch(t, srcWords.words, dstWords.drafts)
	if !reflect.DeepEqual(srcHistory.entries, dstHistory.imported) {
		t.Fatalf("history mismatch:\nwant %#v\ngot  %#v", srcHistory.entries, dstHistory.imported)
	}
}

func TestServiceImportLegacyDocument(t *testing.T) {
	legacy := `{
  "words": [
    {"id": 1700000000000.5, "english": "cat", "turkish": "kedi", "level": 2, "nextReview": "2024-01-05T00:00:00.000Z"},
    {"english": "dog", "turkish": "köpek"}
  ],
  "history": [
    {"id": 42, "date": "2024-01-02T09:00:00.000Z", "total": 4, "correct": 4, "incorrect": 0, "percentage": 100, "wrongAnswers": []}
  ],
  "exportDate": "2024-01-06T12:00:00.000Z",
  "version": "1.0"
}`
	words, history := &memoryWords{}, &memoryHistory{}
	svc := NewService(words, history)

	if _, err := svc.Import(context.Background(), strings.NewReader(legacy)); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(words.drafts) != 2 || words.drafts[0].ID != "1700000000000.5" || words.drafts[1].ID != "" {
		t.Fatalf("unexpected drafts %+v", words.drafts)
	}
	if words.drafts[0].Level != 2 || words.drafts[0].NextReview == nil {
		t.Fatalf("mastery fields lost: %+v", words.drafts[0])
	}
	if len(history.imported) != 1 || history.imported[0].ID != "42" {
		t.Fatalf("unexpected history %+v", history.imported)
	}

	out, err := json.Marshal(toHistoryRecord(history.imported[0]))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.HasPrefix(string(out), `{"id":42,`) {
		t.Fatalf("numeric id should be re-emitted as a number, got %s", out)
	}
}

func TestServiceImportWebAppWrongAnswers(t *testing.T) {
	webApp := `{
  "words": [
    {"id": 1700000000001, "english": "apple", "turkish": "elma"},
    {"id": 1700000000002, "english": 7, "turkish": "bozuk"}
  ],
  "history": [
    {
      "id": 1704200000000, "date": "2024-01-02T09:00:00.000Z", "total": 4, "correct": 3, "incorrect": 1,
      "percentage": 75, "category": "all", "folder": "all", "mode": "mixed",
      "wrongAnswers": [
        {
          "question": {
            "id": "q-1704199990000-0", "type": "multiple-choice", "question": "apple", "correctAnswer": "elma",
            "options": ["armut", "elma", "kedi", "su"],
            "word": {"id": 1700000000001, "english": "apple", "turkish": "elma", "level": 1}
          },
          "userAnswer": "armut",
          "isCorrect": false
        }
      ]
    },
    {"id": 1704300000000, "date": "2024-01-03T09:00:00.000Z", "total": "four", "wrongAnswers": []},
    {
      "id": "h-flat", "date": "2024-01-04T09:00:00.000Z", "total": 1, "correct": 0, "incorrect": 1, "percentage": 0,
      "wrongAnswers": [{"question": "dog", "type": "fill-in", "correctAnswer": "köpek", "wordId": "w-dog", "userAnswer": "kedi", "isCorrect": false}]
    }
  ],
  "exportDate": "2024-01-06T12:00:00.000Z",
  "version": "1.0"
}`
	words, history := &memoryWords{}, &memoryHistory{}

	summary, err := NewService(words, history).Import(context.Background(), strings.NewReader(webApp))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if summary.Words.Imported != 1 || summary.Words.Skipped != 1 {
		t.Fatalf("expected one word imported and one skipped, got %+v", summary.Words)
	}
	if summary.History.Imported != 2 || summary.History.Skipped != 1 {
		t.Fatalf("expected two entries imported and one skipped, got %+v", summary.History)
	}

	want := entity.WrongAnswer{
		QuestionID: "q-1704199990000-0",
		Question:   "apple",
		Type:       entity.QuestionMultipleChoice,
		Correct:    "elma",
		Options:    []string{"armut", "elma", "kedi", "su"},
		WordID:     "1700000000001",
		UserAnswer: "armut",
	}
	if got := history.imported[0].WrongAnswers; len(got) != 1 || !reflect.DeepEqual(got[0], want) {
		t.Fatalf("unexpected wrong answers %#v", got)
	}

	flat := entity.WrongAnswer{Question: "dog", Type: entity.QuestionFillIn, Correct: "köpek", WordID: "w-dog", UserAnswer: "kedi"}
	if got := history.imported[1].WrongAnswers; len(got) != 1 || !reflect.DeepEqual(got[0], flat) {
		t.Fatalf("flat wrong answers should still decode, got %#v", got)
	}

	out, err := json.Marshal(toHistoryRecord(history.imported[0]))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"word":{"id":1700000000001}`) {
		t.Fatalf("numeric word id should be re-emitted as a number, got %s", out)
	}
}

func TestServiceRejectsUnknownVersion(t *testing.T) {
	svc := NewService(&memoryWords{}, &memoryHistory{})

	_, err := svc.Import(context.Background(), strings.NewReader(`{"words": [], "version": "2.0"}`))
	if err == nil || !strings.Contains(err.Error(), "unsupported format version") {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestServiceGzipRoundTrip(t *testing.T) {
	ctx := context.Background()
	srcWords, srcHistory := seedSources()
	exporter := NewService(srcWords, srcHistory, WithClock(func() time.Time { return exportedAt }))

	var buf bytes.Buffer
	if _, err := exporter.Export(ctx, &buf, WithGzip(true)); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), gzipMagic) {
		t.Fatal("expected gzip output")
	}

	dstWords, dstHistory := &memoryWords{}, &memoryHistory{}
	if _, err := NewService(dstWords, dstHistory).Import(ctx, &buf); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	assertDraftsMatch(t, srcWords.words, dstWords.drafts)
	if len(dstHistory.imported) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(dstHistory.imported))
	}
}

func TestServiceWorkbookRoundTrip(t *testing.T) {
	ctx := context.Background()
	srcWords, srcHistory := seedSources()
	exporter := NewService(srcWords, srcHistory, WithClock(func() time.Time { return exportedAt }))

	var buf bytes.Buffer
	if _, err := exporter.Export(ctx, &buf, WithFormat(FormatXLSX)); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), zipMagic) {
		t.Fatal("expected an xlsx archive")
	}

	dstWords, dstHistory := &memoryWords{}, &memoryHistory{}
	if _, err := NewService(dstWords, dstHistory).Import(ctx, bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	assertDraftsMatch(t, srcWords.words, dstWords.drafts)
	if !reflect.DeepEqual(srcHistory.entries, dstHistory.imported) {
		t.Fatalf("history mismatch:\nwant %#v\ngot  %#v", srcHistory.entries, dstHistory.imported)
	}
}

func TestServiceSections(t *testing.T) {
	ctx := context.Background()
	srcWords, srcHistory := seedSources()
	exporter := NewService(srcWords, srcHistory)

	var buf bytes.Buffer
	summary, err := exporter.Export(ctx, &buf, WithSections([]Section{SectionWords}))
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if summary.History != 0 {
		t.Fatalf("history should not be exported, got %d", summary.History)
	}

	full := bytes.Buffer{}
	if _, err := exporter.Export(ctx, &full); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	dstWords, dstHistory := &memoryWords{}, &memoryHistory{}
	if _, err := NewService(dstWords, dstHistory).Import(ctx, &full, WithImportSections([]Section{"History"})); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(dstWords.drafts) != 0 || len(dstHistory.imported) != 1 {
		t.Fatalf("expected history only, got %d words %d entries", len(dstWords.drafts), len(dstHistory.imported))
	}

	if _, err := exporter.Export(ctx, &buf, WithSections([]Section{"cards"})); err == nil {
		t.Fatal("expected unsupported section error")
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"": FormatJSON, "JSON": FormatJSON, "xlsx": FormatXLSX, "excel": FormatXLSX} {
		got, err := ParseFormat(raw)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Fatal("expected error for csv")
	}
}

func assertDraftsMatch(t *testing.T, want []entity.Word, got []entity.WordDraft) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("expected %d drafts, got %d", len(want), len(got))
	}
	for i, w := range want {
		d := got[i]
		built := d.Build("unused", exportedAt)
		if !reflect.DeepEqual(w, built) {
			t.Fatalf("word %d mismatch:\nwant %#v\ngot  %#v", i, w, built)
		}
	}
}

func TestWriteAndReadWords(t *testing.T) {
	srcWords, _ := seedSources()

	var buf bytes.Buffer
	if err := WriteWords(&buf, srcWords.words, exportedAt); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), `"history": []`) {
		t.Fatalf("expected an empty history array in %s", buf.String())
	}

	words, err := ReadWords(&buf, exportedAt)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(srcWords.words, words) {
		t.Fatalf("words mismatch:\nwant %#v\ngot  %#v", srcWords.words, words)
	}

	words, err = ReadWords(strings.NewReader(`{"words": [{"english": "a", "turkish": "b"}, {"id": "x", "english": "c"}]}`), exportedAt)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(words) != 0 {
		t.Fatalf("expected unrestorable words to be dropped, got %+v", words)
	}
}
