package quiz

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/edsafest/trivia-service/internal/dependencies/clock"
	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/services/game"
	"github.com/edsafest/trivia-service/internal/storage"
)

// QuestionView is the question as shown to the player: the correct answer
// is never included while the question is live.
type QuestionView struct {
	ID       model.QuestionID
	Text     string
	ImageURL string
	Options  []string
	Timer    int
	Points   int
	// Index and Total locate the question within the trivia
	Index int
	Total int
}

// Snapshot is the runner state handed to clients on start/current
type Snapshot struct {
	TriviaID   model.TriviaID
	TriviaName string
	State      model.QuizState
	Question   *QuestionView
	// Remaining is the countdown seconds left for the current question
	Remaining int
	Resumed   bool
}

// AnswerOutcome reports the result of answering the current question
type AnswerOutcome struct {
	Result       *game.SubmitResult
	TimedOut     bool
	LastQuestion bool
}

// Runner drives the per-user quiz state machine:
// presenting -> answered -> presenting(i+1) -> ... -> finished.
//
// Sessions are persisted so a page reload resumes mid-quiz, and the
// answered latch lives in the session so the timeout and click paths
// cannot both fire the engine for the same question.
type Runner struct {
	storage storage.Storage
	engine  game.EngineInterface
	clock   clock.Clock
	logger  *slog.Logger
}

// NewRunner creates a quiz runner
func NewRunner(storage storage.Storage, engine game.EngineInterface, clock clock.Clock, logger *slog.Logger) *Runner {
	return &Runner{
		storage: storage,
		engine:  engine,
		clock:   clock,
		logger:  logger,
	}
}

// Start begins or resumes a quiz session. A trivia outside the active set
// cannot be started, and a completed trivia routes the caller to results
// via ErrTriviaCompleted.
func (r *Runner) Start(ctx context.Context, userID model.UserID, triviaID model.TriviaID) (*Snapshot, error) {
	user, err := r.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasCompleted(triviaID) {
		return nil, model.ErrTriviaCompleted
	}

	trivia, err := r.storage.GetTrivia(ctx, triviaID)
	if err != nil {
		return nil, err
	}

	cfg, err := r.storage.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.IsActive(triviaID) {
		return nil, model.ErrTriviaInactive
	}

	session, err := r.storage.GetQuizSession(ctx, userID, triviaID)
	if err == nil {
		if session.State == model.QuizStateFinished {
			return nil, model.ErrTriviaCompleted
		}
		return r.snapshot(trivia, session, true)
	}
	if !errors.Is(err, model.ErrSessionNotFound) {
		return nil, err
	}

	first := trivia.QuestionAt(0)
	if first == nil {
		return nil, model.ErrQuestionNotFound
	}

	now := r.clock.Now()
	session = &model.QuizSession{
		UserID:        userID,
		TriviaID:      triviaID,
		State:         model.QuizStatePresenting,
		QuestionIndex: 0,
		Deadline:      now.Add(timerDuration(first.Timer)),
		StartedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.storage.SaveQuizSession(ctx, session); err != nil {
		return nil, err
	}

	r.logger.Info("quiz started",
		slog.String("user_id", string(userID)),
		slog.String("trivia_id", string(triviaID)),
		slog.Int("questions", len(trivia.Questions)),
	)

	return r.snapshot(trivia, session, false)
}

// Current returns the session snapshot for an in-flight quiz
func (r *Runner) Current(ctx context.Context, userID model.UserID, triviaID model.TriviaID) (*Snapshot, error) {
	session, err := r.storage.GetQuizSession(ctx, userID, triviaID)
	if err != nil {
		return nil, err
	}
	trivia, err := r.storage.GetTrivia(ctx, triviaID)
	if err != nil {
		return nil, err
	}
	return r.snapshot(trivia, session, true)
}

// Answer submits the player's selection for the current question, or a
// timeout when answer is nil or the deadline has passed. The engine is
// invoked at most once per question; a second call returns
// ErrAlreadyAnswered.
func (r *Runner) Answer(ctx context.Context, userID model.UserID, triviaID model.TriviaID, answer *string) (*AnswerOutcome, error) {
	session, err := r.storage.GetQuizSession(ctx, userID, triviaID)
	if err != nil {
		return nil, err
	}

	switch session.State {
	case model.QuizStateFinished:
		return nil, model.ErrQuizFinished
	case model.QuizStateAnswered:
		return nil, model.ErrAlreadyAnswered
	}

	trivia, err := r.storage.GetTrivia(ctx, triviaID)
	if err != nil {
		return nil, err
	}
	question := trivia.QuestionAt(session.QuestionIndex)
	if question == nil {
		// The trivia shrank under us; abandon the session
		_ = r.storage.DeleteQuizSession(ctx, userID, triviaID)
		return nil, model.ErrQuestionNotFound
	}

	now := r.clock.Now()
	timedOut := now.After(session.Deadline)
	if timedOut {
		// A late submission counts as no answer at all
		answer = nil
	}

	result, err := r.engine.SubmitAnswer(ctx, userID, triviaID, question.ID, answer)
	if err != nil {
		return nil, err
	}

	session.State = model.QuizStateAnswered
	session.UpdatedAt = now
	if err := r.storage.SaveQuizSession(ctx, session); err != nil {
		return nil, err
	}

	return &AnswerOutcome{
		Result:       result,
		TimedOut:     timedOut || answer == nil,
		LastQuestion: session.QuestionIndex >= len(trivia.Questions)-1,
	}, nil
}

// Advance moves from an answered question to the next one, or finishes the
// quiz after the last question. Finishing finalizes the trivia
// (exactly-once via completed-set semantics) and drops the session.
func (r *Runner) Advance(ctx context.Context, userID model.UserID, triviaID model.TriviaID) (*Snapshot, error) {
	session, err := r.storage.GetQuizSession(ctx, userID, triviaID)
	if err != nil {
		return nil, err
	}
	if session.State == model.QuizStateFinished {
		return nil, model.ErrQuizFinished
	}
	if session.State != model.QuizStateAnswered {
		return nil, model.ErrNotAnswered
	}

	trivia, err := r.storage.GetTrivia(ctx, triviaID)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	next := session.QuestionIndex + 1
	if next >= len(trivia.Questions) {
		if _, err := r.engine.FinalizeTrivia(ctx, userID, triviaID); err != nil {
			return nil, err
		}
		if err := r.storage.DeleteQuizSession(ctx, userID, triviaID); err != nil {
			return nil, err
		}

		r.logger.Info("quiz finished",
			slog.String("user_id", string(userID)),
			slog.String("trivia_id", string(triviaID)),
		)

		return &Snapshot{
			TriviaID:   triviaID,
			TriviaName: trivia.Name,
			State:      model.QuizStateFinished,
		}, nil
	}

	question := trivia.QuestionAt(next)
	session.QuestionIndex = next
	session.State = model.QuizStatePresenting
	session.Deadline = now.Add(timerDuration(question.Timer))
	session.UpdatedAt = now
	if err := r.storage.SaveQuizSession(ctx, session); err != nil {
		return nil, err
	}

	return r.snapshot(trivia, session, false)
}

// Abandon drops an in-flight session without finalizing
func (r *Runner) Abandon(ctx context.Context, userID model.UserID, triviaID model.TriviaID) error {
	return r.storage.DeleteQuizSession(ctx, userID, triviaID)
}

func timerDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

func (r *Runner) snapshot(trivia *model.Trivia, session *model.QuizSession, resumed bool) (*Snapshot, error) {
	snap := &Snapshot{
		TriviaID:   trivia.ID,
		TriviaName: trivia.Name,
		State:      session.State,
		Remaining:  session.Remaining(r.clock.Now()),
		Resumed:    resumed,
	}

	if session.State == model.QuizStateFinished {
		return snap, nil
	}

	question := trivia.QuestionAt(session.QuestionIndex)
	if question == nil {
		return nil, model.ErrQuestionNotFound
	}
	snap.Question = &QuestionView{
		ID:       question.ID,
		Text:     question.Text,
		ImageURL: question.ImageURL,
		Options:  question.Options,
		Timer:    question.Timer,
		Points:   question.Points,
		Index:    session.QuestionIndex,
		Total:    len(trivia.Questions),
	}
	return snap, nil
}
