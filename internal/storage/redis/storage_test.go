package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/edsafest/trivia-service/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.QuizSessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) seedUser(id model.UserID, legajo string) *model.User {
	user := &model.User{
		ID:        id,
		Legajo:    legajo,
		Username:  "User " + string(id),
		Role:      model.RoleUser,
		UserType:  model.UserTypeEmployee,
		CreatedAt: time.Now(),
	}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))
	return user
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{
		ID:             "user-1",
		Legajo:         "1001",
		Username:       "Alice",
		Role:           model.RoleUser,
		SeniorityScore: 50,
		Score:          50,
		CreatedAt:      time.Now(),
	}

	err := s.storage.SaveUser(s.ctx, user)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(user.Legajo, retrieved.Legajo)
	s.Equal(50, retrieved.Score)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestGetUserByLegajo() {
	s.seedUser("user-1", "1001")

	retrieved, err := s.storage.GetUserByLegajo(s.ctx, "1001")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), retrieved.ID)
}

func (s *StorageSuite) TestGetUserByLegajoNotFound() {
	_, err := s.storage.GetUserByLegajo(s.ctx, "9999")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestListUsers() {
	s.seedUser("user-1", "1001")
	s.seedUser("user-2", "1002")

	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 2)
}

func (s *StorageSuite) TestDeleteUser() {
	s.seedUser("user-1", "1001")

	err := s.storage.DeleteUser(s.ctx, "user-1")
	s.Require().NoError(err)

	_, err = s.storage.GetUser(s.ctx, "user-1")
	s.ErrorIs(err, model.ErrUserNotFound)
	_, err = s.storage.GetUserByLegajo(s.ctx, "1001")
	s.ErrorIs(err, model.ErrUserNotFound)

	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
}

func (s *StorageSuite) TestDeleteUserReleasesRaffleNumber() {
	s.seedUser("user-1", "1001")
	claimed, err := s.storage.ClaimRaffleNumber(s.ctx, 7, "user-1")
	s.Require().NoError(err)
	s.Require().True(claimed)

	s.Require().NoError(s.storage.DeleteUser(s.ctx, "user-1"))

	claims, err := s.storage.ListRaffleClaims(s.ctx)
	s.Require().NoError(err)
	s.Empty(claims)
}

// RecordAnswer tests

func (s *StorageSuite) TestRecordAnswerAppliesOnce() {
	s.seedUser("user-1", "1001")

	applied, err := s.storage.RecordAnswer(s.ctx, "user-1", "trivia-1", "q-1", true, 10)
	s.Require().NoError(err)
	s.True(applied)

	applied, err = s.storage.RecordAnswer(s.ctx, "user-1", "trivia-1", "q-1", true, 10)
	s.Require().NoError(err)
	s.False(applied)

	user, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(10, user.Score)
	correct, answered := user.AnswerFor("trivia-1", "q-1")
	s.True(answered)
	s.True(correct)
}

func (s *StorageSuite) TestRecordAnswerUserNotFound() {
	_, err := s.storage.RecordAnswer(s.ctx, "nonexistent", "trivia-1", "q-1", true, 10)
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestAdjustScoreBuckets() {
	s.seedUser("user-1", "1001")

	s.Require().NoError(s.storage.AdjustScore(s.ctx, "user-1", model.BucketSeniority, 50))
	s.Require().NoError(s.storage.AdjustScore(s.ctx, "user-1", model.BucketPelado, 20))

	user, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(50, user.SeniorityScore)
	s.Equal(20, user.PeladoScore)
	s.Equal(70, user.Score)
	s.Equal(0, user.TriviaScore())
}

func (s *StorageSuite) TestSetPassword() {
	s.seedUser("user-1", "1001")

	err := s.storage.SetPassword(s.ctx, "user-1", "newhash", false)
	s.Require().NoError(err)

	user, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("newhash", user.PasswordHash)
	s.False(user.PasswordIsDefault)
}

func (s *StorageSuite) TestCompleteTriviaSetSemantics() {
	s.seedUser("user-1", "1001")

	added, err := s.storage.CompleteTrivia(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)
	s.True(added)

	added, err = s.storage.CompleteTrivia(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)
	s.False(added)
}

func (s *StorageSuite) TestResetTrivia() {
	s.seedUser("user-1", "1001")
	s.seedUser("user-2", "1002")

	_, _ = s.storage.CompleteTrivia(s.ctx, "user-1", "trivia-1")
	_, _ = s.storage.RecordAnswer(s.ctx, "user-1", "trivia-1", "q-1", true, 10)
	_, _ = s.storage.CompleteTrivia(s.ctx, "user-2", "trivia-2")

	affected, err := s.storage.ResetTrivia(s.ctx, "trivia-1")
	s.Require().NoError(err)
	s.Equal(1, affected)

	user1, _ := s.storage.GetUser(s.ctx, "user-1")
	s.False(user1.HasCompleted("trivia-1"))
	_, answered := user1.AnswerFor("trivia-1", "q-1")
	s.False(answered)
	s.Equal(10, user1.Score)

	user2, _ := s.storage.GetUser(s.ctx, "user-2")
	s.True(user2.HasCompleted("trivia-2"))
}

// Raffle tests

func (s *StorageSuite) TestClaimRaffleNumber() {
	s.seedUser("user-1", "1001")

	claimed, err := s.storage.ClaimRaffleNumber(s.ctx, 7, "user-1")
	s.Require().NoError(err)
	s.True(claimed)

	user, _ := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NotNil(user.RaffleNumber)
	s.Equal(7, *user.RaffleNumber)
}

func (s *StorageSuite) TestClaimRaffleNumberTaken() {
	s.seedUser("user-1", "1001")
	s.seedUser("user-2", "1002")

	claimed, err := s.storage.ClaimRaffleNumber(s.ctx, 7, "user-1")
	s.Require().NoError(err)
	s.True(claimed)

	claimed, err = s.storage.ClaimRaffleNumber(s.ctx, 7, "user-2")
	s.Require().NoError(err)
	s.False(claimed)

	// user-2 keeps no reservation
	user2, _ := s.storage.GetUser(s.ctx, "user-2")
	s.Nil(user2.RaffleNumber)

	// The holder's own claim succeeds again
	claimed, err = s.storage.ClaimRaffleNumber(s.ctx, 7, "user-1")
	s.Require().NoError(err)
	s.True(claimed)
}

func (s *StorageSuite) TestClaimRaffleNumberReleasesPrevious() {
	s.seedUser("user-1", "1001")

	_, _ = s.storage.ClaimRaffleNumber(s.ctx, 7, "user-1")
	claimed, err := s.storage.ClaimRaffleNumber(s.ctx, 13, "user-1")
	s.Require().NoError(err)
	s.True(claimed)

	claims, err := s.storage.ListRaffleClaims(s.ctx)
	s.Require().NoError(err)
	s.Len(claims, 1)
	s.Equal(model.UserID("user-1"), claims[13])
}

func (s *StorageSuite) TestClaimRaffleNumberUserVanished() {
	claimed, err := s.storage.ClaimRaffleNumber(s.ctx, 7, "ghost")
	s.ErrorIs(err, model.ErrUserNotFound)
	s.False(claimed)

	// The reservation was rolled back
	claims, err := s.storage.ListRaffleClaims(s.ctx)
	s.Require().NoError(err)
	s.Empty(claims)
}

func (s *StorageSuite) TestReleaseRaffleNumber() {
	s.seedUser("user-1", "1001")
	_, _ = s.storage.ClaimRaffleNumber(s.ctx, 7, "user-1")

	err := s.storage.ReleaseRaffleNumber(s.ctx, 7)
	s.Require().NoError(err)

	claims, _ := s.storage.ListRaffleClaims(s.ctx)
	s.Empty(claims)
	user, _ := s.storage.GetUser(s.ctx, "user-1")
	s.Nil(user.RaffleNumber)

	s.Require().NoError(s.storage.ReleaseRaffleNumber(s.ctx, 42))
}

func (s *StorageSuite) TestResetRaffle() {
	s.seedUser("user-1", "1001")
	s.seedUser("user-2", "1002")
	_, _ = s.storage.ClaimRaffleNumber(s.ctx, 7, "user-1")
	_, _ = s.storage.ClaimRaffleNumber(s.ctx, 13, "user-2")

	err := s.storage.ResetRaffle(s.ctx)
	s.Require().NoError(err)

	claims, _ := s.storage.ListRaffleClaims(s.ctx)
	s.Empty(claims)
	user1, _ := s.storage.GetUser(s.ctx, "user-1")
	s.Nil(user1.RaffleNumber)
	user2, _ := s.storage.GetUser(s.ctx, "user-2")
	s.Nil(user2.RaffleNumber)
}

// Trivia tests

func (s *StorageSuite) TestSaveAndGetTrivia() {
	trivia := &model.Trivia{
		ID:   "trivia-1",
		Name: "Movies",
		Questions: []model.Question{
			{ID: "q-1", Text: "Q1", Options: []string{"a", "b"}, CorrectAnswer: "a", Timer: 30, Points: 10},
		},
	}

	err := s.storage.SaveTrivia(s.ctx, trivia)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetTrivia(s.ctx, "trivia-1")
	s.Require().NoError(err)
	s.Equal("Movies", retrieved.Name)
	s.Len(retrieved.Questions, 1)
	s.Equal("a", retrieved.Questions[0].CorrectAnswer)
}

func (s *StorageSuite) TestGetTriviaNotFound() {
	_, err := s.storage.GetTrivia(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrTriviaNotFound)
}

func (s *StorageSuite) TestListAndDeleteTrivias() {
	_ = s.storage.SaveTrivia(s.ctx, &model.Trivia{ID: "trivia-1", Name: "Movies"})
	_ = s.storage.SaveTrivia(s.ctx, &model.Trivia{ID: "trivia-2", Name: "Music"})

	trivias, err := s.storage.ListTrivias(s.ctx)
	s.Require().NoError(err)
	s.Len(trivias, 2)

	s.Require().NoError(s.storage.DeleteTrivia(s.ctx, "trivia-1"))

	trivias, err = s.storage.ListTrivias(s.ctx)
	s.Require().NoError(err)
	s.Len(trivias, 1)
}

// Prize tests

func (s *StorageSuite) TestSaveAndGetPrize() {
	prize := &model.Prize{ID: "prize-1", Name: "Mug", Cost: 100, ProductURL: "https://example.com/mug"}

	err := s.storage.SavePrize(s.ctx, prize)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPrize(s.ctx, "prize-1")
	s.Require().NoError(err)
	s.Equal("Mug", retrieved.Name)
	s.Equal(100, retrieved.Cost)
}

func (s *StorageSuite) TestGetPrizeNotFound() {
	_, err := s.storage.GetPrize(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPrizeNotFound)
}

// Config tests

func (s *StorageSuite) TestGetConfigCreatesDefault() {
	cfg, err := s.storage.GetConfig(s.ctx)
	s.Require().NoError(err)
	s.False(cfg.RaffleEnabled)
	s.True(cfg.PrizeURLsEnabled)
	s.Equal(int64(1), cfg.Version)
}

func (s *StorageSuite) TestSaveConfigBumpsVersion() {
	cfg, err := s.storage.GetConfig(s.ctx)
	s.Require().NoError(err)

	cfg.RaffleEnabled = true
	err = s.storage.SaveConfig(s.ctx, cfg, cfg.Version)
	s.Require().NoError(err)
	s.Equal(int64(2), cfg.Version)

	retrieved, err := s.storage.GetConfig(s.ctx)
	s.Require().NoError(err)
	s.True(retrieved.RaffleEnabled)
	s.Equal(int64(2), retrieved.Version)
}

func (s *StorageSuite) TestSaveConfigVersionConflict() {
	cfg, err := s.storage.GetConfig(s.ctx)
	s.Require().NoError(err)

	stale, err := s.storage.GetConfig(s.ctx)
	s.Require().NoError(err)

	cfg.RaffleEnabled = true
	s.Require().NoError(s.storage.SaveConfig(s.ctx, cfg, cfg.Version))

	stale.PrizeURLsEnabled = false
	err = s.storage.SaveConfig(s.ctx, stale, stale.Version)
	s.ErrorIs(err, model.ErrConfigConflict)
}

// Quiz session tests

func (s *StorageSuite) TestSaveAndGetQuizSession() {
	session := &model.QuizSession{
		UserID:        "user-1",
		TriviaID:      "trivia-1",
		State:         model.QuizStatePresenting,
		QuestionIndex: 2,
		Deadline:      time.Now().Add(30 * time.Second),
	}

	err := s.storage.SaveQuizSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetQuizSession(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)
	s.Equal(model.QuizStatePresenting, retrieved.State)
	s.Equal(2, retrieved.QuestionIndex)
}

func (s *StorageSuite) TestGetQuizSessionNotFound() {
	_, err := s.storage.GetQuizSession(s.ctx, "user-1", "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteQuizSession() {
	_ = s.storage.SaveQuizSession(s.ctx, &model.QuizSession{
		UserID: "user-1", TriviaID: "trivia-1", State: model.QuizStatePresenting,
	})

	err := s.storage.DeleteQuizSession(s.ctx, "user-1", "trivia-1")
	s.Require().NoError(err)

	_, err = s.storage.GetQuizSession(s.ctx, "user-1", "trivia-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestQuizSessionTTL() {
	_ = s.storage.SaveQuizSession(s.ctx, &model.QuizSession{
		UserID: "user-1", TriviaID: "trivia-1", State: model.QuizStatePresenting,
	})

	ttl := s.mini.TTL(quizSessionKey("user-1", "trivia-1"))
	s.True(ttl > 0, "Quiz session should have TTL")
}
