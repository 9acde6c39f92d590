package entity

// SkippedAnswer is recorded when the learner gives up on a question. It never grades as correct.
const SkippedAnswer = "__SKIPPED__"

// Question is one generated quiz prompt. It is never persisted on its own.
type Question struct {
	ID            string
	Type          QuestionType
	Prompt        string
	CorrectAnswer string
	Options       []string
	Word          Word
}

// QuestionResult pairs a question with what the learner answered.
type QuestionResult struct {
	Question   Question
	UserAnswer string
	IsCorrect  bool
}

// QuizResult aggregates a completed session.
type QuizResult struct {
	Total        int
	Correct      int
	Incorrect    int
	Percentage   int
	Results      []QuestionResult
	WrongAnswers []QuestionResult
	Category     string
	Folder       string
	Mode         QuizMode
	IsReview     bool
}
