package entity

import "errors"

// Domain errors for words, quizzes and history.
var (
	ErrWordNotFound          = errors.New("word not found")
	ErrInvalidWordText       = errors.New("word needs both english and turkish text")
	ErrDuplicateWord         = errors.New("word already exists")
	ErrInvalidLevel          = errors.New("level must be between 1 and 5")
	ErrMasteryReadOnly       = errors.New("mastery fields change only through grading")
	ErrHistoryNotFound       = errors.New("history entry not found")
	ErrDuplicateHistoryEntry = errors.New("history entry already exists")
	ErrNotEnoughWords        = errors.New("a quiz needs at least 4 words")
	ErrNoWrongAnswers        = errors.New("no wrong answers to review")
	ErrQuizNotInProgress     = errors.New("quiz is not in progress")
	ErrQuizNotComplete       = errors.New("quiz is not complete")
	ErrQuizAlreadyRecorded   = errors.New("quiz result was already recorded")
	ErrNothingToRecover      = errors.New("streak cannot be recovered")
	ErrPackNotFound          = errors.New("word pack not found")
)
