package entity

import "strings"

// AllGroups disables category or folder filtering.
const AllGroups = "all"

// QuizMode selects which question shapes a quiz produces.
type QuizMode string

const (
	ModeMixed          QuizMode = "mixed"
	ModeMultipleChoice QuizMode = "multiple-choice"
	ModeFillIn         QuizMode = "fill-in"
	ModeListening      QuizMode = "listening"
	ModeReverse        QuizMode = "reverse"
)

// Modes lists every supported quiz mode in display order.
var Modes = []QuizMode{ModeMixed, ModeMultipleChoice, ModeFillIn, ModeListening, ModeReverse}

// ParseQuizMode converts an arbitrary string into a QuizMode, falling back to mixed.
func ParseQuizMode(raw string) QuizMode {
	switch QuizMode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeMultipleChoice:
		return ModeMultipleChoice
	case ModeFillIn:
		return ModeFillIn
	case ModeListening:
		return ModeListening
	case ModeReverse:
		return ModeReverse
	default:
		return ModeMixed
	}
}

// QuestionType is the shape of a single quiz question.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionFillIn         QuestionType = "fill-in"
	QuestionListening      QuestionType = "listening"
	QuestionReverse        QuestionType = "reverse"
)

// ParseQuestionType converts a stored type name, defaulting to fill-in.
func ParseQuestionType(raw string) QuestionType {
	switch QuestionType(strings.TrimSpace(raw)) {
	case QuestionMultipleChoice:
		return QuestionMultipleChoice
	case QuestionListening:
		return QuestionListening
	case QuestionReverse:
		return QuestionReverse
	default:
		return QuestionFillIn
	}
}

// NormalizeGroup trims a category or folder name, defaulting to DefaultGroup.
func NormalizeGroup(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return DefaultGroup
	}
	return trimmed
}
