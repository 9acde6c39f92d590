package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/vocquiz/internal/entity"
)

// timestampLayout is ISO-8601 with milliseconds, always written in UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type document struct {
	Words      []wordRecord    `json:"words"`
	History    []historyRecord `json:"history"`
	ExportDate string          `json:"exportDate"`
	Version    string          `json:"version"`
}

// rawDocument defers record decoding so one malformed record does not sink the rest.
type rawDocument struct {
	Words      []json.RawMessage `json:"words"`
	History    []json.RawMessage `json:"history"`
	ExportDate string            `json:"exportDate"`
	Version    string            `json:"version"`
}

type wordRecord struct {
	ID           docID      `json:"id,omitempty"`
	English      string     `json:"english"`
	Turkish      string     `json:"turkish"`
	Category     string     `json:"category,omitempty"`
	Folder       string     `json:"folder,omitempty"`
	PartOfSpeech string     `json:"partOfSpeech,omitempty"`
	Example      string     `json:"example,omitempty"`
	Emoji        string     `json:"emoji,omitempty"`
	Level        int        `json:"level,omitempty"`
	NextReview   *timestamp `json:"nextReview,omitempty"`
	LastReviewed *timestamp `json:"lastReviewed,omitempty"`
	CreatedAt    *timestamp `json:"createdAt,omitempty"`
}

type historyRecord struct {
	ID           docID                `json:"id,omitempty"`
	Date         *timestamp           `json:"date"`
	Total        int                  `json:"total"`
	Correct      int                  `json:"correct"`
	Incorrect    int                  `json:"incorrect"`
	Percentage   int                  `json:"percentage"`
	Category     string               `json:"category,omitempty"`
	Folder       string               `json:"folder,omitempty"`
	Mode         string               `json:"mode,omitempty"`
	WrongAnswers []wrongAnswerRecord `json:"wrongAnswers"`
}

// wrongAnswerRecord keeps the asked question as a nested object, the way the web app
// stored it.
type wrongAnswerRecord struct {
	Question   questionRecord `json:"question"`
	UserAnswer string         `json:"userAnswer"`
	IsCorrect  bool           `json:"isCorrect"`
}

type questionRecord struct {
	ID            docID         `json:"id,omitempty"`
	Type          string        `json:"type,omitempty"`
	Question      string        `json:"question"`
	CorrectAnswer string        `json:"correctAnswer"`
	Options       []string      `json:"options,omitempty"`
	Word          *questionWord `json:"word,omitempty"`
}

type questionWord struct {
	ID docID `json:"id,omitempty"`
}

// UnmarshalJSON accepts both the nested question object and the flat form where
// question is the prompt string and the other question fields sit beside it.
func (r *wrongAnswerRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Question      json.RawMessage `json:"question"`
		UserAnswer    string          `json:"userAnswer"`
		IsCorrect     bool            `json:"isCorrect"`
		QuestionID    docID           `json:"questionId"`
		Type          string          `json:"type"`
		CorrectAnswer string          `json:"correctAnswer"`
		Options       []string        `json:"options"`
		WordID        docID           `json:"wordId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = wrongAnswerRecord{UserAnswer: raw.UserAnswer, IsCorrect: raw.IsCorrect}

	q := bytes.TrimSpace(raw.Question)
	if len(q) > 0 && q[0] == '{' {
		return json.Unmarshal(q, &r.Question)
	}
	r.Question = questionRecord{
		ID:            raw.QuestionID,
		Type:          raw.Type,
		CorrectAnswer: raw.CorrectAnswer,
		Options:       raw.Options,
	}
	if raw.WordID != "" {
		r.Question.Word = &questionWord{ID: raw.WordID}
	}
	if len(q) == 0 || bytes.Equal(q, []byte("null")) {
		return nil
	}
	return json.Unmarshal(q, &r.Question.Question)
}

func toWrongAnswerRecord(wa entity.WrongAnswer) wrongAnswerRecord {
	rec := wrongAnswerRecord{
		Question: questionRecord{
			ID:            docID(wa.QuestionID),
			Type:          string(wa.Type),
			Question:      wa.Question,
			CorrectAnswer: wa.Correct,
			Options:       wa.Options,
		},
		UserAnswer: wa.UserAnswer,
		IsCorrect:  wa.IsCorrect,
	}
	if wa.WordID != "" {
		rec.Question.Word = &questionWord{ID: docID(wa.WordID)}
	}
	return rec
}

func (r wrongAnswerRecord) answer() entity.WrongAnswer {
	wa := entity.WrongAnswer{
		QuestionID: string(r.Question.ID),
		Question:   r.Question.Question,
		Type:       entity.QuestionType(r.Question.Type),
		Correct:    r.Question.CorrectAnswer,
		UserAnswer: r.UserAnswer,
		IsCorrect:  r.IsCorrect,
	}
	if len(r.Question.Options) > 0 {
		wa.Options = r.Question.Options
	}
	if r.Question.Word != nil {
		wa.WordID = string(r.Question.Word.ID)
	}
	return wa
}

func encodeWrongAnswers(answers []entity.WrongAnswer) []wrongAnswerRecord {
	return lo.Map(answers, func(wa entity.WrongAnswer, _ int) wrongAnswerRecord { return toWrongAnswerRecord(wa) })
}

func decodeWrongAnswers(records []wrongAnswerRecord) []entity.WrongAnswer {
	return lo.Map(records, func(r wrongAnswerRecord, _ int) entity.WrongAnswer { return r.answer() })
}

// docID keeps numeric ids from older backups numeric on the way back out.
type docID string

func (id docID) MarshalJSON() ([]byte, error) {
	if isNumericID(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *docID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = docID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = docID(n.String())
	return nil
}

func isNumericID(s string) bool {
	if s == "" || !(s[0] == '-' || (s[0] >= '0' && s[0] <= '9')) {
		return false
	}
	return json.Valid([]byte(s))
}

type timestamp struct{ time.Time }

func newTimestamp(t *time.Time) *timestamp {
	if t == nil || t.IsZero() {
		return nil
	}
	return &timestamp{*t}
}

func (t timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(timestampLayout))
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := parseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t *timestamp) ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func formatTimestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

func writeDocument(w io.Writer, snap *snapshot) error {
	doc := document{
		Words:      lo.Map(snap.words, func(w entity.Word, _ int) wordRecord { return toWordRecord(w) }),
		History:    lo.Map(snap.history, func(h entity.HistoryEntry, _ int) historyRecord { return toHistoryRecord(h) }),
		ExportDate: formatTimestamp(&snap.exportedAt),
		Version:    FormatVersion,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

func readDocument(r io.Reader) (*snapshot, error) {
	var doc rawDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	if doc.Version != "" && doc.Version != FormatVersion {
		return nil, fmt.Errorf("backup: unsupported format version %q", doc.Version)
	}
	exportedAt, err := parseTimestamp(doc.ExportDate)
	if err != nil {
		return nil, fmt.Errorf("decode exportDate: %w", err)
	}

	snap := &snapshot{exportedAt: exportedAt}
	for _, raw := range doc.Words {
		var rec wordRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			snap.skippedWords++
			continue
		}
		snap.drafts = append(snap.drafts, rec.draft())
	}
	for _, raw := range doc.History {
		var rec historyRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			snap.skippedHistory++
			continue
		}
		snap.history = append(snap.history, rec.entry())
	}
	return snap, nil
}

func toWordRecord(w entity.Word) wordRecord {
	created := w.CreatedAt
	return wordRecord{
		ID:           docID(w.ID),
		English:      w.English,
		Turkish:      w.Turkish,
		Category:     w.Category,
		Folder:       w.Folder,
		PartOfSpeech: w.PartOfSpeech,
		Example:      w.Example,
		Emoji:        w.Emoji,
		Level:        w.Level,
		NextReview:   newTimestamp(w.NextReview),
		LastReviewed: newTimestamp(w.LastReviewed),
		CreatedAt:    newTimestamp(&created),
	}
}

func (r wordRecord) draft() entity.WordDraft {
	return entity.WordDraft{
		ID:           string(r.ID),
		English:      r.English,
		Turkish:      r.Turkish,
		Category:     r.Category,
		Folder:       r.Folder,
		PartOfSpeech: r.PartOfSpeech,
		Example:      r.Example,
		Emoji:        r.Emoji,
		Level:        r.Level,
		NextReview:   r.NextReview.ptr(),
		LastReviewed: r.LastReviewed.ptr(),
		CreatedAt:    r.CreatedAt.ptr(),
	}
}

func toHistoryRecord(h entity.HistoryEntry) historyRecord {
	wrong := encodeWrongAnswers(h.WrongAnswers)
	if wrong == nil {
		wrong = []wrongAnswerRecord{}
	}
	return historyRecord{
		ID:           docID(h.ID),
		Date:         newTimestamp(&h.Date),
		Total:        h.Total,
		Correct:      h.Correct,
		Incorrect:    h.Incorrect,
		Percentage:   h.Percentage,
		Category:     h.Category,
		Folder:       h.Folder,
		Mode:         string(h.Mode),
		WrongAnswers: wrong,
	}
}

func (r historyRecord) entry() entity.HistoryEntry {
	entry := entity.HistoryEntry{
		ID:           string(r.ID),
		Total:        r.Total,
		Correct:      r.Correct,
		Incorrect:    r.Incorrect,
		Percentage:   r.Percentage,
		Category:     r.Category,
		Folder:       r.Folder,
		Mode:         entity.QuizMode(r.Mode),
		WrongAnswers: decodeWrongAnswers(r.WrongAnswers),
	}
	if d := r.Date.ptr(); d != nil {
		entry.Date = *d
	}
	return entry
}

// WriteWords writes words alone as a backup document, used to keep deleted words
// restorable.
func WriteWords(w io.Writer, words []entity.Word, exportedAt time.Time) error {
	return writeDocument(w, &snapshot{exportedAt: exportedAt, words: words})
}

// ReadWords decodes the words of a backup document. Words without an id or text are
// dropped since they cannot be restored in place.
func ReadWords(r io.Reader, now time.Time) ([]entity.Word, error) {
	snap, err := readDocument(r)
	if err != nil {
		return nil, err
	}
	valid := lo.Filter(snap.drafts, func(d entity.WordDraft, _ int) bool { return d.ID != "" && d.Valid() })
	return lo.Map(valid, func(d entity.WordDraft, _ int) entity.Word { return d.Build(d.ID, now) }), nil
}
