package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrLegajoExists = errors.New("legajo is already registered")

	// Trivia errors
	ErrTriviaNotFound   = errors.New("trivia not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrTriviaInactive   = errors.New("trivia is not active")
	ErrTriviaCompleted  = errors.New("trivia already completed")

	// Quiz session errors
	ErrSessionNotFound = errors.New("quiz session not found")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNotAnswered     = errors.New("current question not answered yet")
	ErrQuizFinished    = errors.New("quiz already finished")

	// Raffle errors
	ErrRaffleDisabled = errors.New("raffle is not enabled")
	ErrNumberTaken    = errors.New("raffle number already taken")
	ErrInvalidNumber  = errors.New("raffle number must be at least 1")
	ErrRaffleEmpty    = errors.New("no raffle numbers have been claimed")
	// ErrGuestNotEligible is returned when an invited guest tries to claim
	// a raffle number; only employees participate in the raffle.
	ErrGuestNotEligible = errors.New("guests cannot participate in the raffle")

	// Prize errors
	ErrPrizeNotFound = errors.New("prize not found")

	// Config errors
	ErrConfigConflict = errors.New("config was modified concurrently")
)
