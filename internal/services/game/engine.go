package game

import (
	"context"
	"log/slog"

	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/storage"
)

// Outcome reports how a state-changing engine call was applied.
// Every call either applies or reports why it didn't.
type Outcome string

const (
	OutcomeApplied         Outcome = "applied"
	OutcomeAlreadyAnswered Outcome = "already_answered"
	OutcomeAlreadyDone     Outcome = "already_completed"
)

// SubmitResult summarizes an answer submission
type SubmitResult struct {
	Outcome Outcome
	Correct bool
	// Awarded is the score delta actually credited (0 when incorrect,
	// timed out, capped, or already answered)
	Awarded int
	// TotalScore is the user's total score after the submission
	TotalScore int
	// CorrectAnswer echoes the question's correct option for feedback
	CorrectAnswer string
}

// QuestionResult is one row of a trivia results view
type QuestionResult struct {
	QuestionID model.QuestionID
	Text       string
	Points     int
	Answered   bool
	Correct    bool
}

// Results is the per-trivia outcome for one user
type Results struct {
	TriviaID    model.TriviaID
	TriviaName  string
	TriviaScore int
	MaxScore    int
	Questions   []QuestionResult
	Completed   bool
}

// Engine enforces the scoring rules: crediting under the global points cap
// and trivia-completion bookkeeping. All score-affecting writes go through
// here.
type Engine struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewEngine creates a new rules engine
func NewEngine(storage storage.Storage, logger *slog.Logger) *Engine {
	return &Engine{
		storage: storage,
		logger:  logger,
	}
}

// SubmitAnswer records the outcome of one question for one user and credits
// points when the answer is correct and the cap allows it. A nil answer
// means the countdown expired and is recorded as incorrect.
//
// The underlying write is idempotent per question: a repeat submission
// changes nothing and reports OutcomeAlreadyAnswered.
func (e *Engine) SubmitAnswer(ctx context.Context, userID model.UserID, triviaID model.TriviaID, questionID model.QuestionID, answer *string) (*SubmitResult, error) {
	user, err := e.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	trivia, err := e.storage.GetTrivia(ctx, triviaID)
	if err != nil {
		return nil, err
	}
	question := trivia.Question(questionID)
	if question == nil {
		return nil, model.ErrQuestionNotFound
	}

	correct := answer != nil && *answer == question.CorrectAnswer

	awarded := 0
	if correct {
		cfg, err := e.storage.GetConfig(ctx)
		if err != nil {
			return nil, err
		}
		// The cap gates the award: either the full question value or
		// nothing, judged against the pre-award derived trivia score
		if cfg.TriviaPointsLimit == nil || user.TriviaScore() < *cfg.TriviaPointsLimit {
			awarded = question.Points
		}
	}

	applied, err := e.storage.RecordAnswer(ctx, userID, triviaID, questionID, correct, awarded)
	if err != nil {
		return nil, err
	}
	if !applied {
		recorded, _ := user.AnswerFor(triviaID, questionID)
		return &SubmitResult{
			Outcome:       OutcomeAlreadyAnswered,
			Correct:       recorded,
			TotalScore:    user.Score,
			CorrectAnswer: question.CorrectAnswer,
		}, nil
	}

	e.logger.Info("answer submitted",
		slog.String("user_id", string(userID)),
		slog.String("trivia_id", string(triviaID)),
		slog.String("question_id", string(questionID)),
		slog.Bool("correct", correct),
		slog.Int("awarded", awarded),
	)

	return &SubmitResult{
		Outcome:       OutcomeApplied,
		Correct:       correct,
		Awarded:       awarded,
		TotalScore:    user.Score + awarded,
		CorrectAnswer: question.CorrectAnswer,
	}, nil
}

// FinalizeTrivia adds the trivia to the user's completed-set. Duplicate
// calls are no-ops and report OutcomeAlreadyDone.
func (e *Engine) FinalizeTrivia(ctx context.Context, userID model.UserID, triviaID model.TriviaID) (Outcome, error) {
	if _, err := e.storage.GetTrivia(ctx, triviaID); err != nil {
		return "", err
	}

	added, err := e.storage.CompleteTrivia(ctx, userID, triviaID)
	if err != nil {
		return "", err
	}
	if !added {
		return OutcomeAlreadyDone, nil
	}

	e.logger.Info("trivia finalized",
		slog.String("user_id", string(userID)),
		slog.String("trivia_id", string(triviaID)),
	)
	return OutcomeApplied, nil
}

// ResetTriviaForAllUsers removes the trivia from every user's completed-set
// and clears its recorded answers so the trivia can be replayed. Already
// awarded score is kept; replay can re-earn, still gated by the cap.
func (e *Engine) ResetTriviaForAllUsers(ctx context.Context, triviaID model.TriviaID) (int, error) {
	if _, err := e.storage.GetTrivia(ctx, triviaID); err != nil {
		return 0, err
	}

	affected, err := e.storage.ResetTrivia(ctx, triviaID)
	if err != nil {
		return 0, err
	}

	e.logger.Info("trivia reset for all users",
		slog.String("trivia_id", string(triviaID)),
		slog.Int("users_affected", affected),
	)
	return affected, nil
}

// TriviaResults recomputes the results view for one user from the recorded
// answers
func (e *Engine) TriviaResults(ctx context.Context, userID model.UserID, triviaID model.TriviaID) (*Results, error) {
	user, err := e.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	trivia, err := e.storage.GetTrivia(ctx, triviaID)
	if err != nil {
		return nil, err
	}

	results := &Results{
		TriviaID:   trivia.ID,
		TriviaName: trivia.Name,
		MaxScore:   trivia.TotalPoints(),
		Questions:  make([]QuestionResult, 0, len(trivia.Questions)),
		Completed:  user.HasCompleted(triviaID),
	}

	for _, q := range trivia.Questions {
		correct, answered := user.AnswerFor(triviaID, q.ID)
		if answered && correct {
			results.TriviaScore += q.Points
		}
		results.Questions = append(results.Questions, QuestionResult{
			QuestionID: q.ID,
			Text:       q.Text,
			Points:     q.Points,
			Answered:   answered,
			Correct:    correct,
		})
	}
	return results, nil
}

// Interface for dependency injection
type EngineInterface interface {
	SubmitAnswer(ctx context.Context, userID model.UserID, triviaID model.TriviaID, questionID model.QuestionID, answer *string) (*SubmitResult, error)
	FinalizeTrivia(ctx context.Context, userID model.UserID, triviaID model.TriviaID) (Outcome, error)
	ResetTriviaForAllUsers(ctx context.Context, triviaID model.TriviaID) (int, error)
	TriviaResults(ctx context.Context, userID model.UserID, triviaID model.TriviaID) (*Results, error)
}

var _ EngineInterface = (*Engine)(nil)
