package model

import "time"

// QuizState represents the phase of an in-flight quiz session
type QuizState string

const (
	// QuizStatePresenting means the current question is on screen and the
	// countdown is running
	QuizStatePresenting QuizState = "presenting"
	// QuizStateAnswered means the current question was answered (or timed
	// out) and the session is waiting to advance
	QuizStateAnswered QuizState = "answered"
	// QuizStateFinished means the last question has been played
	QuizStateFinished QuizState = "finished"
)

// QuizSession tracks one user's progress through one trivia. It is persisted
// so a page reload resumes mid-quiz instead of restarting.
type QuizSession struct {
	UserID   UserID    `json:"user_id"`
	TriviaID TriviaID  `json:"trivia_id"`
	State    QuizState `json:"state"`

	// QuestionIndex is the zero-based pointer into the trivia's questions
	QuestionIndex int `json:"question_index"`
	// Deadline is when the current question's countdown expires; answers
	// arriving later are treated as timeouts
	Deadline time.Time `json:"deadline"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Answered reports whether the current question has already been answered
func (s *QuizSession) Answered() bool {
	return s.State == QuizStateAnswered
}

// Remaining returns the countdown seconds left at the given instant,
// clamped at zero
func (s *QuizSession) Remaining(now time.Time) int {
	if s.State != QuizStatePresenting {
		return 0
	}
	left := int(s.Deadline.Sub(now).Seconds())
	if left < 0 {
		return 0
	}
	return left
}
