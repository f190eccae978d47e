package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/edsafest/trivia-service/internal/dependencies/mocks"
	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/services/game"
	"github.com/edsafest/trivia-service/internal/storage/memory"
	"github.com/edsafest/trivia-service/internal/testutil"
)

type RunnerSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	engine  *game.Engine
	runner  *Runner
	ctx     context.Context
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerSuite))
}

func (s *RunnerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 11, 14, 9, 0, 0, 0, time.UTC))
	logger := testutil.NopLogger()
	s.engine = game.NewEngine(s.storage, logger)
	s.runner = NewRunner(s.storage, s.engine, s.clock, logger)
	s.ctx = context.Background()

	s.Require().NoError(s.storage.SaveUser(s.ctx, &model.User{
		ID:       "user-1",
		Legajo:   "1001",
		Username: "Alice",
		Role:     model.RoleUser,
	}))

	trivia := &model.Trivia{
		ID:   "trivia-1",
		Name: "Movies",
		Questions: []model.Question{
			{ID: "q-1", Text: "Q1", Options: []string{"a", "b"}, CorrectAnswer: "a", Timer: 30, Points: 10},
			{ID: "q-2", Text: "Q2", Options: []string{"c", "d"}, CorrectAnswer: "d", Timer: 60, Points: 20},
		},
	}
	s.Require().NoError(s.storage.SaveTrivia(s.ctx, trivia))
	s.activateTrivia("trivia-1")
}

func (s *RunnerSuite) activateTrivia(id model.TriviaID) {
	cfg, err := s.storage.GetConfig(s.ctx)
	s.Require().NoError(err)
	cfg.ActiveTriviaIDs = append(cfg.ActiveTriviaIDs, id)
	s.Require().NoError(s.storage.SaveConfig(s.ctx, cfg, cfg.Version))
}

func answerPtr(v string) *string {
	return &v
}

// Start tests

func (s *RunnerSuite) TestStartPresentsFirstQuestion() {
	snap, err := s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	s.Equal(model.QuizStatePresenting, snap.State)
	s.False(snap.Resumed)
	s.Require().NotNil(snap.Question)
	s.Equal(model.QuestionID("q-1"), snap.Question.ID)
	s.Equal(0, snap.Question.Index)
	s.Equal(2, snap.Question.Total)
	s.Equal(30, snap.Remaining)
}

func (s *RunnerSuite) TestStartInactiveTrivia() {
	s.Require().NoError(s.storage.SaveTrivia(s.ctx, &model.Trivia{
		ID:   "trivia-2",
		Name: "Inactive",
		Questions: []model.Question{
			{ID: "q-1", Text: "Q", Options: []string{"a", "b"}, CorrectAnswer: "a", Timer: 30, Points: 5},
		},
	}))

	_, err := s.runner.Start(s.ctx, "user-1", "trivia-2")
	s.ErrorIs(err, model.ErrTriviaInactive)
}

func (s *RunnerSuite) TestStartCompletedTrivia() {
	_, err := s.storage.CompleteTrivia(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	_, err = s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.ErrorIs(err, model.ErrTriviaCompleted)
}

func (s *RunnerSuite) TestStartUnknownTrivia() {
	_, err := s.runner.Start(s.ctx, "user-1", "nonexistent")
	s.ErrorIs(err, model.ErrTriviaNotFound)
}

func (s *RunnerSuite) TestStartResumesExistingSession() {
	_, err := s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	s.clock.Advance(10 * time.Second)

	snap, err := s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)
	s.True(snap.Resumed)
	s.Equal(model.QuizStatePresenting, snap.State)
	s.Equal(model.QuestionID("q-1"), snap.Question.ID)
	// The countdown kept running while away
	s.Equal(20, snap.Remaining)
}

func (s *RunnerSuite) TestSnapshotHidesCorrectAnswer() {
	snap, err := s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	// QuestionView carries only presentation fields; make sure the options
	// round-trip without leaking anything extra
	s.Equal([]string{"a", "b"}, snap.Question.Options)
	s.Equal(10, snap.Question.Points)
}

// Answer tests

func (s *RunnerSuite) TestAnswerCorrectInTime() {
	_, err := s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	s.clock.Advance(5 * time.Second)

	outcome, err := s.runner.Answer(s.ctx, "user-1", "trivia-1", answerPtr("a"))
	s.Require().NoError(err)

	s.False(outcome.TimedOut)
	s.False(outcome.LastQuestion)
	s.Equal(game.OutcomeApplied, outcome.Result.Outcome)
	s.True(outcome.Result.Correct)
	s.Equal(10, outcome.Result.Awarded)

	session, err := s.storage.GetQuizSession(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)
	s.Equal(model.QuizStateAnswered, session.State)
}

func (s *RunnerSuite) TestAnswerAfterDeadlineIsTimeout() {
	_, err := s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	// Past the 30s countdown
	s.clock.Advance(31 * time.Second)

	outcome, err := s.runner.Answer(s.ctx, "user-1", "trivia-1", answerPtr("a"))
	s.Require().NoError(err)

	s.True(outcome.TimedOut)
	s.False(outcome.Result.Correct)
	s.Equal(0, outcome.Result.Awarded)
}

func (s *RunnerSuite) TestAnswerNilIsTimeout() {
	_, err := s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	outcome, err := s.runner.Answer(s.ctx, "user-1", "trivia-1", nil)
	s.Require().NoError(err)

	s.True(outcome.TimedOut)
	s.False(outcome.Result.Correct)
}

func (s *RunnerSuite) TestAnswerLatchBlocksSecondSubmission() {
	_, err := s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	_, err = s.runner.Answer(s.ctx, "user-1", "trivia-1", answerPtr("b"))
	s.Require().NoError(err)

	// The click path and the timeout path cannot both fire
	_, err = s.runner.Answer(s.ctx, "user-1", "trivia-1", nil)
	s.ErrorIs(err, model.ErrAlreadyAnswered)

	user, _ := s.storage.GetUser(s.ctx, "user-1")
	s.Equal(0, user.Score)
}

func (s *RunnerSuite) TestAnswerWithoutSession() {
	_, err := s.runner.Answer(s.ctx, "user-1", "trivia-1", answerPtr("a"))
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *RunnerSuite) TestAnswerLastQuestionFlag() {
	_, err := s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	_, err = s.runner.Answer(s.ctx, "user-1", "trivia-1", answerPtr("a"))
	s.Require().NoError(err)
	_, err = s.runner.Advance(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	outcome, err := s.runner.Answer(s.ctx, "user-1", "trivia-1", answerPtr("d"))
	s.Require().NoError(err)
	s.True(outcome.LastQuestion)
}

// Advance tests

func (s *RunnerSuite) TestAdvanceMovesToNextQuestion() {
	_, err := s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)
	_, err = s.runner.Answer(s.ctx, "user-1", "trivia-1", answerPtr("a"))
	s.Require().NoError(err)

	snap, err := s.runner.Advance(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	s.Equal(model.QuizStatePresenting, snap.State)
	s.Equal(model.QuestionID("q-2"), snap.Question.ID)
	s.Equal(1, snap.Question.Index)
	// Second question runs on its own timer
	s.Equal(60, snap.Remaining)
}

func (s *RunnerSuite) TestAdvanceBeforeAnswering() {
	_, err := s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	_, err = s.runner.Advance(s.ctx, "user-1", "trivia-1")
	s.ErrorIs(err, model.ErrNotAnswered)
}

func (s *RunnerSuite) TestAdvancePastLastQuestionFinishes() {
	_, err := s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)
	_, err = s.runner.Answer(s.ctx, "user-1", "trivia-1", answerPtr("a"))
	s.Require().NoError(err)
	_, err = s.runner.Advance(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)
	_, err = s.runner.Answer(s.ctx, "user-1", "trivia-1", answerPtr("d"))
	s.Require().NoError(err)

	snap, err := s.runner.Advance(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	s.Equal(model.QuizStateFinished, snap.State)
	s.Nil(snap.Question)

	// The trivia is marked completed and the session is dropped
	user, _ := s.storage.GetUser(s.ctx, "user-1")
	s.True(user.HasCompleted("trivia-1"))
	s.Equal(30, user.Score)

	_, err = s.storage.GetQuizSession(s.ctx, "user-1", "trivia-1")
	s.ErrorIs(err, model.ErrSessionNotFound)

	// Starting again routes to results
	_, err = s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.ErrorIs(err, model.ErrTriviaCompleted)
}

// Current tests

func (s *RunnerSuite) TestCurrentReflectsState() {
	_, err := s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	s.clock.Advance(12 * time.Second)

	snap, err := s.runner.Current(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)
	s.Equal(model.QuizStatePresenting, snap.State)
	s.Equal(18, snap.Remaining)
	s.True(snap.Resumed)
}

func (s *RunnerSuite) TestCurrentWithoutSession() {
	_, err := s.runner.Current(s.ctx, "user-1", "trivia-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Abandon tests

func (s *RunnerSuite) TestAbandonDropsSession() {
	_, err := s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	s.Require().NoError(s.runner.Abandon(s.ctx, "user-1", "trivia-1"))

	_, err = s.storage.GetQuizSession(s.ctx, "user-1", "trivia-1")
	s.ErrorIs(err, model.ErrSessionNotFound)

	// A fresh start restarts from the first question
	snap, err := s.runner.Start(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)
	s.False(snap.Resumed)
	s.Equal(model.QuestionID("q-1"), snap.Question.ID)
}
