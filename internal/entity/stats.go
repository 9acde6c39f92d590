package entity

// StreakStatus describes the daily streak and whether yesterday can still be made up.
type StreakStatus struct {
	Streak          int
	CanRecover      bool
	PotentialStreak int
}

// Dashboard aggregates progress figures across words and history.
type Dashboard struct {
	TotalWords        int
	MasteredWords     int
	DueWords          int
	WordsByLevel      map[int]int
	TotalQuizzes      int
	AveragePercentage int
	ModeAverages      map[QuizMode]int
	Streak            StreakStatus
}
