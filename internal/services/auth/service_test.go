package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/edsafest/trivia-service/internal/dependencies/mocks"
	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 11, 14, 9, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig())
	s.ctx = context.Background()
}

func (s *ServiceSuite) seedUser(legajo, password string, role model.Role, isDefault bool) *model.User {
	hash, err := HashPassword(password)
	s.Require().NoError(err)

	user := &model.User{
		ID:                model.UserID("user-" + legajo),
		Legajo:            legajo,
		Username:          "User " + legajo,
		Role:              role,
		UserType:          model.UserTypeEmployee,
		PasswordHash:      hash,
		PasswordIsDefault: isDefault,
		CreatedAt:         s.clock.Now(),
	}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))
	return user
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	s.seedUser("1001", "secret123", model.RoleUser, false)

	session, err := s.service.Login(s.ctx, "1001", "secret123")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("1001", session.User.Legajo)
	s.False(session.MustChangePassword)
}

func (s *ServiceSuite) TestLoginStampsLastLogin() {
	user := s.seedUser("1001", "secret123", model.RoleUser, false)

	_, err := s.service.Login(s.ctx, "1001", "secret123")
	s.Require().NoError(err)

	stored, err := s.storage.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.NotNil(stored.LastLogin)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	s.seedUser("1001", "secret123", model.RoleUser, false)

	_, err := s.service.Login(s.ctx, "1001", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsWithUnknownLegajo() {
	_, err := s.service.Login(s.ctx, "9999", "secret123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginWithDefaultPasswordFlagsChange() {
	s.seedUser("1001", "EDSA2025", model.RoleUser, true)

	session, err := s.service.Login(s.ctx, "1001", "EDSA2025")
	s.Require().NoError(err)
	s.True(session.MustChangePassword)
}

func (s *ServiceSuite) TestAdminIsNotForcedToChangeDefaultPassword() {
	s.seedUser("9000", "EDSA2025", model.RoleAdmin, true)

	session, err := s.service.Login(s.ctx, "9000", "EDSA2025")
	s.Require().NoError(err)
	s.False(session.MustChangePassword)
}

// ChangePassword tests

func (s *ServiceSuite) TestChangePasswordClearsDefaultFlag() {
	user := s.seedUser("1001", "EDSA2025", model.RoleUser, true)
	session, _ := s.service.Login(s.ctx, "1001", "EDSA2025")
	s.Require().True(session.MustChangePassword)

	err := s.service.ChangePassword(s.ctx, user.ID, "mynewpassword")
	s.Require().NoError(err)

	stored, err := s.storage.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.False(stored.PasswordIsDefault)

	// The live session flag flips as well
	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.False(validated.MustChangePassword)

	// Old password no longer works, new one does
	_, err = s.service.Login(s.ctx, "1001", "EDSA2025")
	s.ErrorIs(err, ErrInvalidCredentials)
	_, err = s.service.Login(s.ctx, "1001", "mynewpassword")
	s.NoError(err)
}

func (s *ServiceSuite) TestChangePasswordUnknownUser() {
	err := s.service.ChangePassword(s.ctx, "nonexistent", "whatever")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// ResetPassword tests

func (s *ServiceSuite) TestResetPasswordRestoresDefault() {
	user := s.seedUser("1001", "mypassword", model.RoleUser, false)
	session, _ := s.service.Login(s.ctx, "1001", "mypassword")

	err := s.service.ResetPassword(s.ctx, user.ID)
	s.Require().NoError(err)

	stored, err := s.storage.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.True(stored.PasswordIsDefault)

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.True(validated.MustChangePassword)

	_, err = s.service.Login(s.ctx, "1001", s.service.DefaultPassword())
	s.NoError(err)
}

// ValidateSession tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	s.seedUser("1001", "secret123", model.RoleUser, false)
	session, _ := s.service.Login(s.ctx, "1001", "secret123")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.Token, validated.Token)
	s.Equal(session.UserID, validated.UserID)
}

func (s *ServiceSuite) TestValidateSessionFailsWithInvalidToken() {
	_, err := s.service.ValidateSession("invalid_token")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	s.seedUser("1001", "secret123", model.RoleUser, false)
	session, _ := s.service.Login(s.ctx, "1001", "secret123")

	// Advance time past expiration
	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

// InvalidateSession tests

func (s *ServiceSuite) TestInvalidateSessionRemovesSession() {
	s.seedUser("1001", "secret123", model.RoleUser, false)
	session, _ := s.service.Login(s.ctx, "1001", "secret123")

	s.service.InvalidateSession(session.Token)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSessionNoopForUnknownToken() {
	// Should not panic
	s.service.InvalidateSession("unknown_token")
}

// CleanExpiredSessions tests

func (s *ServiceSuite) TestCleanExpiredSessionsRemovesExpired() {
	s.seedUser("1001", "secret123", model.RoleUser, false)
	s.seedUser("1002", "secret456", model.RoleUser, false)

	session1, _ := s.service.Login(s.ctx, "1001", "secret123")

	// Advance time so session1 expires
	s.clock.Advance(25 * time.Hour)

	session2, _ := s.service.Login(s.ctx, "1002", "secret456")

	s.service.CleanExpiredSessions()

	_, err := s.service.ValidateSession(session1.Token)
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.service.ValidateSession(session2.Token)
	s.NoError(err)
}
