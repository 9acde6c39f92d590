package quiz

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/eslsoft/vocquiz/internal/entity"
)

var punctuation = strings.NewReplacer(
	".", "", ",", "", "/", "", "#", "", "!", "", "$", "", "%", "", "^", "", "&", "",
	"*", "", ";", "", ":", "", "{", "", "}", "", "=", "", "-", "", "_", "", "`", "",
	"~", "", "(", "", ")", "",
)

// NormalizeAnswer lowercases text, drops the punctuation learners tend to type and trims it.
// Lowercasing uses the full Unicode mapping without a language, so a capital İ becomes
// "i̇" rather than the Turkish "i".
func NormalizeAnswer(text string) string {
	text = cases.Lower(language.Und).String(norm.NFC.String(text))
	return strings.TrimSpace(punctuation.Replace(norm.NFC.String(text)))
}

// CheckAnswer grades answer against q. Multiple-choice answers must match the option
// exactly; typed answers are compared case-insensitively and may name any one of the
// comma-separated synonyms in the expected answer.
func CheckAnswer(q entity.Question, answer string) bool {
	if answer == entity.SkippedAnswer {
		return false
	}
	if q.Type == entity.QuestionMultipleChoice {
		return answer == q.CorrectAnswer
	}

	expected := make(map[string]struct{})
	for _, part := range strings.Split(q.CorrectAnswer, ",") {
		if p := NormalizeAnswer(part); p != "" {
			expected[p] = struct{}{}
		}
	}
	for _, part := range strings.Split(answer, ",") {
		p := NormalizeAnswer(part)
		if p == "" {
			continue
		}
		if _, ok := expected[p]; ok {
			return true
		}
	}
	return NormalizeAnswer(answer) == NormalizeAnswer(q.CorrectAnswer)
}
