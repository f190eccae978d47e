package storage

import (
	"context"

	"github.com/edsafest/trivia-service/internal/model"
)

// Storage defines the interface for data persistence.
//
// Beyond plain document CRUD it exposes the handful of mutations that must
// be atomic at the store level (answer recording, score adjustment,
// completed-set membership, raffle reservations, versioned config saves) so
// callers never have to read-modify-write user documents themselves.
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByLegajo(ctx context.Context, legajo string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	DeleteUser(ctx context.Context, id model.UserID) error

	// RecordAnswer atomically records answers[triviaID][questionID]=correct
	// and increments the user's total score by delta, as one mutation.
	// It is idempotent per question: if an answer is already recorded the
	// call is a no-op and returns applied=false.
	RecordAnswer(ctx context.Context, id model.UserID, triviaID model.TriviaID, questionID model.QuestionID, correct bool, delta int) (applied bool, err error)

	// AdjustScore atomically adds amount to the named bucket and to the
	// total score, preserving the score invariant.
	AdjustScore(ctx context.Context, id model.UserID, bucket model.ScoreBucket, amount int) error

	// SetPassword replaces the stored password hash
	SetPassword(ctx context.Context, id model.UserID, hash string, isDefault bool) error

	// SetLastLogin stamps the user's last successful login
	SetLastLogin(ctx context.Context, id model.UserID) error

	// CompleteTrivia adds triviaID to the user's completed-set.
	// Set semantics: returns added=false if already present.
	CompleteTrivia(ctx context.Context, id model.UserID, triviaID model.TriviaID) (added bool, err error)

	// ResetTrivia removes triviaID from every user's completed-set and
	// clears that trivia's recorded answers, as one batched write.
	// Returns the number of users affected.
	ResetTrivia(ctx context.Context, triviaID model.TriviaID) (int, error)

	// Raffle reservations: number -> user, created atomically if absent

	// ClaimRaffleNumber reserves number for the user. Returns claimed=false
	// without mutation when a different user already holds it; claiming a
	// number the user already holds succeeds. A successful claim releases
	// the user's previous reservation and updates the user document.
	ClaimRaffleNumber(ctx context.Context, number int, id model.UserID) (claimed bool, err error)

	// ReleaseRaffleNumber frees a reservation and clears the holder's
	// raffle number. Releasing an unheld number is a no-op.
	ReleaseRaffleNumber(ctx context.Context, number int) error

	// ResetRaffle frees every reservation and clears all users' numbers
	ResetRaffle(ctx context.Context) error

	// ListRaffleClaims returns the current number -> holder mapping
	ListRaffleClaims(ctx context.Context) (map[int]model.UserID, error)

	// Trivia operations
	SaveTrivia(ctx context.Context, trivia *model.Trivia) error
	GetTrivia(ctx context.Context, id model.TriviaID) (*model.Trivia, error)
	ListTrivias(ctx context.Context) ([]*model.Trivia, error)
	DeleteTrivia(ctx context.Context, id model.TriviaID) error

	// Prize operations
	SavePrize(ctx context.Context, prize *model.Prize) error
	GetPrize(ctx context.Context, id model.PrizeID) (*model.Prize, error)
	ListPrizes(ctx context.Context) ([]*model.Prize, error)
	DeletePrize(ctx context.Context, id model.PrizeID) error

	// Config operations

	// GetConfig returns the singleton config, creating it with defaults on
	// first access
	GetConfig(ctx context.Context) (*model.GlobalConfig, error)

	// SaveConfig persists cfg if the stored version still equals
	// expectedVersion, bumping cfg.Version; otherwise ErrConfigConflict.
	SaveConfig(ctx context.Context, cfg *model.GlobalConfig, expectedVersion int64) error

	// Quiz session operations
	SaveQuizSession(ctx context.Context, session *model.QuizSession) error
	GetQuizSession(ctx context.Context, userID model.UserID, triviaID model.TriviaID) (*model.QuizSession, error)
	DeleteQuizSession(ctx context.Context, userID model.UserID, triviaID model.TriviaID) error
}
