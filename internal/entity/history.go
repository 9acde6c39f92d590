package entity

import "time"

// HistoryEntry is the persisted summary of one completed, non-review quiz.
type HistoryEntry struct {
	ID           string
	Date         time.Time
	Total        int
	Correct      int
	Incorrect    int
	Percentage   int
	Category     string
	Folder       string
	Mode         QuizMode
	WrongAnswers []WrongAnswer
}

// WrongAnswer is a missed question kept for history display. It snapshots the question
// as it was asked so the entry stays readable after the word changes or is deleted.
type WrongAnswer struct {
	QuestionID string       `json:"questionId,omitempty"`
	Question   string       `json:"question"`
	Type       QuestionType `json:"type"`
	Correct    string       `json:"correctAnswer"`
	Options    []string     `json:"options,omitempty"`
	WordID     string       `json:"wordId,omitempty"`
	UserAnswer string       `json:"userAnswer"`
	IsCorrect  bool         `json:"isCorrect"`
}

// NewHistoryEntry summarises a quiz result. Date and ID are assigned by the repository.
func NewHistoryEntry(result QuizResult) HistoryEntry {
	entry := HistoryEntry{
		Total:        result.Total,
		Correct:      result.Correct,
		Incorrect:    result.Incorrect,
		Percentage:   result.Percentage,
		Category:     result.Category,
		Folder:       result.Folder,
		Mode:         result.Mode,
		WrongAnswers: make([]WrongAnswer, 0, len(result.WrongAnswers)),
	}
	for _, wa := range result.WrongAnswers {
		entry.WrongAnswers = append(entry.WrongAnswers, WrongAnswer{
			QuestionID: wa.Question.ID,
			Question:   wa.Question.Prompt,
			Type:       wa.Question.Type,
			Correct:    wa.Question.CorrectAnswer,
			Options:    append([]string(nil), wa.Question.Options...),
			WordID:     wa.Question.Word.ID,
			UserAnswer: wa.UserAnswer,
		})
	}
	return entry
}

// Clone returns a deep copy of the entry.
func (h HistoryEntry) Clone() HistoryEntry {
	c := h
	if h.WrongAnswers != nil {
		c.WrongAnswers = make([]WrongAnswer, len(h.WrongAnswers))
		for i, wa := range h.WrongAnswers {
			wa.Options = append([]string(nil), wa.Options...)
			c.WrongAnswers[i] = wa
		}
	}
	return c
}
