package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/eslsoft/vocquiz/internal/entity"
)

const (
	defaultSheet = "Sheet1"
	wordsSheet   = "Words"
	historySheet = "History"
)

var (
	wordColumns = []string{
		"id", "english", "turkish", "category", "folder", "partOfSpeech", "example", "emoji",
		"level", "nextReview", "lastReviewed", "createdAt",
	}
	historyColumns = []string{
		"id", "date", "total", "correct", "incorrect", "percentage", "category", "folder", "mode", "wrongAnswers",
	}
)

func writeWorkbook(w io.Writer, snap *snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(defaultSheet, wordsSheet)
	f.NewSheet(historySheet)

	wordRows := lo.Map(snap.words, func(w entity.Word, _ int) []any {
		created := w.CreatedAt
		return []any{
			w.ID, w.English, w.Turkish, w.Category, w.Folder, w.PartOfSpeech, w.Example, w.Emoji,
			w.Level, formatTimestamp(w.NextReview), formatTimestamp(w.LastReviewed), formatTimestamp(&created),
		}
	})
	if err := writeSheet(f, wordsSheet, wordColumns, wordRows); err != nil {
		return err
	}

	historyRows := make([][]any, 0, len(snap.history))
	for _, h := range snap.history {
		wrong, err := json.Marshal(toHistoryRecord(h).WrongAnswers)
		if err != nil {
			return fmt.Errorf("encode wrong answers of %s: %w", h.ID, err)
		}
		date := h.Date
		historyRows = append(historyRows, []any{
			h.ID, formatTimestamp(&date), h.Total, h.Correct, h.Incorrect, h.Percentage,
			h.Category, h.Folder, string(h.Mode), string(wrong),
		})
	}
	if err := writeSheet(f, historySheet, historyColumns, historyRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	headerRow := lo.Map(header, func(h string, _ int) any { return h })
	for i, row := range append([][]any{headerRow}, rows...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func readWorkbook(r io.Reader) (*snapshot, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	snap := &snapshot{}

	if lo.Contains(sheets, wordsSheet) {
		rows, err := f.GetRows(wordsSheet)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", wordsSheet, err)
		}
		for _, row := range sheetRecords(rows) {
			draft, err := row.draft()
			if err != nil {
				snap.skippedWords++
				continue
			}
			snap.drafts = append(snap.drafts, draft)
		}
	}

	if lo.Contains(sheets, historySheet) {
		rows, err := f.GetRows(historySheet)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", historySheet, err)
		}
		for _, row := range sheetRecords(rows) {
			entry, err := row.entry()
			if err != nil {
				snap.skippedHistory++
				continue
			}
			snap.history = append(snap.history, entry)
		}
	}
	return snap, nil
}

// sheetRow maps header names to the cells of one data row.
type sheetRow map[string]string

func sheetRecords(rows [][]string) []sheetRow {
	if len(rows) == 0 {
		return nil
	}
	header := lo.Map(rows[0], func(h string, _ int) string { return strings.TrimSpace(h) })
	out := make([]sheetRow, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		if lo.EveryBy(cells, func(c string) bool { return strings.TrimSpace(c) == "" }) {
			continue
		}
		row := make(sheetRow, len(header))
		for i, name := range header {
			if i < len(cells) {
				row[name] = strings.TrimSpace(cells[i])
			}
		}
		out = append(out, row)
	}
	return out
}

func (r sheetRow) intCell(name string) (int, error) {
	v := r[name]
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return n, nil
}

func (r sheetRow) timeCell(name string) (*time.Time, error) {
	t, err := parseTimestamp(r[name])
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", name, err)
	}
	if t.IsZero() {
		return nil, nil
	}
	return &t, nil
}

func (r sheetRow) draft() (entity.WordDraft, error) {
	level, err := r.intCell("level")
	if err != nil {
		return entity.WordDraft{}, err
	}
	next, err := r.timeCell("nextReview")
	if err != nil {
		return entity.WordDraft{}, err
	}
	last, err := r.timeCell("lastReviewed")
	if err != nil {
		return entity.WordDraft{}, err
	}
	created, err := r.timeCell("createdAt")
	if err != nil {
		return entity.WordDraft{}, err
	}
	return entity.WordDraft{
		ID:           r["id"],
		English:      r["english"],
		Turkish:      r["turkish"],
		Category:     r["category"],
		Folder:       r["folder"],
		PartOfSpeech: r["partOfSpeech"],
		Example:      r["example"],
		Emoji:        r["emoji"],
		Level:        level,
		NextReview:   next,
		LastReviewed: last,
		CreatedAt:    created,
	}, nil
}

func (r sheetRow) entry() (entity.HistoryEntry, error) {
	entry := entity.HistoryEntry{
		ID:       r["id"],
		Category: r["category"],
		Folder:   r["folder"],
		Mode:     entity.QuizMode(r["mode"]),
	}
	date, err := r.timeCell("date")
	if err != nil {
		return entry, err
	}
	if date != nil {
		entry.Date = *date
	}
	for name, dst := range map[string]*int{
		"total":      &entry.Total,
		"correct":    &entry.Correct,
		"incorrect":  &entry.Incorrect,
		"percentage": &entry.Percentage,
	} {
		if *dst, err = r.intCell(name); err != nil {
			return entry, err
		}
	}
	if raw := r["wrongAnswers"]; raw != "" {
		var records []wrongAnswerRecord
		if err := json.Unmarshal([]byte(raw), &records); err != nil {
			return entry, fmt.Errorf("column wrongAnswers: %w", err)
		}
		entry.WrongAnswers = decodeWrongAnswers(records)
	}
	return entry, nil
}
