package model

import "time"

// UserID uniquely identifies a user across the system
type UserID string

// Role distinguishes players from administrators
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserType distinguishes employees from invited guests
type UserType string

const (
	UserTypeEmployee UserType = "empleado"
	UserTypeGuest    UserType = "invitado"
)

// ScoreBucket names one of the additive score components
type ScoreBucket string

const (
	BucketSeniority ScoreBucket = "seniority"
	BucketPelado    ScoreBucket = "pelado"
	BucketRaffle    ScoreBucket = "raffle"
)

// UserAnswers maps trivia id -> question id -> answered correctly
type UserAnswers map[TriviaID]map[QuestionID]bool

// User represents an event participant account.
// Invariant: Score == SeniorityScore + PeladoScore + RaffleScore + trivia
// points, where trivia points are derived (never stored) as the remainder.
type User struct {
	ID       UserID   `json:"id"`
	Legajo   string   `json:"legajo"`
	Username string   `json:"username"`
	Role     Role     `json:"role"`
	UserType UserType `json:"user_type"`

	// PasswordHash is a bcrypt hash; plaintext is never stored.
	PasswordHash string `json:"password_hash"`
	// PasswordIsDefault is set when the password was assigned by an admin
	// (creation or reset) and cleared when the user picks their own.
	PasswordIsDefault bool `json:"password_is_default"`

	Score          int `json:"score"`
	SeniorityScore int `json:"seniority_score"`
	PeladoScore    int `json:"pelado_score"`
	RaffleScore    int `json:"raffle_score"`

	LastLogin        *time.Time  `json:"last_login"`
	CompletedTrivias []TriviaID  `json:"completed_trivias"`
	Answers          UserAnswers `json:"answers"`
	RaffleNumber     *int        `json:"raffle_number"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TriviaScore returns the derived trivia-only component of the total score
func (u *User) TriviaScore() int {
	return u.Score - u.SeniorityScore - u.PeladoScore - u.RaffleScore
}

// HasCompleted reports whether the user already finished the given trivia
func (u *User) HasCompleted(triviaID TriviaID) bool {
	for _, id := range u.CompletedTrivias {
		if id == triviaID {
			return true
		}
	}
	return false
}

// AnswerFor returns the recorded correctness for a question, if any
func (u *User) AnswerFor(triviaID TriviaID, questionID QuestionID) (bool, bool) {
	qs, ok := u.Answers[triviaID]
	if !ok {
		return false, false
	}
	correct, ok := qs[questionID]
	return correct, ok
}
